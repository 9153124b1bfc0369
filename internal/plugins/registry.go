package plugins

import (
	"fmt"
	"slices"
	"sync"

	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// Constructor builds one plugin. A constructor that fails or panics is
// logged and skipped; it never aborts loading.
type Constructor func() (Plugin, error)

// Registry maps each kind to its plugins in discovery order.
type Registry struct {
	mu         sync.RWMutex
	plugins    map[Kind]map[string]Plugin
	order      map[Kind][]string
	loadErrors []*LoadError
	collisions []string
	log        *logger.Logger
}

// NewRegistry creates an empty registry.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Discard()
	}
	return &Registry{
		plugins: make(map[Kind]map[string]Plugin),
		order:   make(map[Kind][]string),
		log:     log.WithComponent("plugins"),
	}
}

// Load runs ctor and registers the plugin under kind. On a name collision
// the earlier plugin wins and the collision is reported.
func (r *Registry) Load(kind Kind, ctor Constructor) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = r.loadFailed(kind, "", fmt.Errorf("panic: %v", rec))
		}
	}()

	p, err := ctor()
	if err != nil {
		return r.loadFailed(kind, "", err)
	}
	if p == nil || p.Name() == "" {
		return r.loadFailed(kind, "", fmt.Errorf("constructor returned no named plugin"))
	}
	if !implements(kind, p) {
		return r.loadFailed(kind, p.Name(), fmt.Errorf("%T does not implement the %s contract", p, kind))
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.plugins[kind] == nil {
		r.plugins[kind] = make(map[string]Plugin)
	}
	if _, exists := r.plugins[kind][p.Name()]; exists {
		msg := fmt.Sprintf("%s plugin %q registered twice; keeping the first", kind, p.Name())
		r.collisions = append(r.collisions, msg)
		r.log.Warn(msg)
		return nil
	}
	r.plugins[kind][p.Name()] = p
	r.order[kind] = append(r.order[kind], p.Name())
	return nil
}

// Register loads an already constructed plugin.
func (r *Registry) Register(kind Kind, p Plugin) error {
	return r.Load(kind, func() (Plugin, error) { return p, nil })
}

func (r *Registry) loadFailed(kind Kind, name string, err error) error {
	le := &LoadError{Kind: kind, Name: name, Err: err}
	r.mu.Lock()
	r.loadErrors = append(r.loadErrors, le)
	r.mu.Unlock()
	r.log.WithError(err).Warn("skipping plugin", "kind", string(kind), "name", name)
	return le
}

// LoadErrors returns the plugins skipped during loading.
func (r *Registry) LoadErrors() []*LoadError {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.loadErrors)
}

// Collisions returns the reported name collisions.
func (r *Registry) Collisions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.collisions)
}

// Plugins returns the name -> plugin mapping for kind.
func (r *Registry) Plugins(kind Kind) map[string]Plugin {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Plugin, len(r.plugins[kind]))
	for name, p := range r.plugins[kind] {
		out[name] = p
	}
	return out
}

// Names returns plugin names of kind in discovery order.
func (r *Registry) Names(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.order[kind])
}

// Supported returns the names of available plugins of kind.
func (r *Registry) Supported(kind Kind) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []string
	for _, name := range r.order[kind] {
		if r.plugins[kind][name].IsAvailable() {
			out = append(out, name)
		}
	}
	return out
}

// Default returns the first plugin of kind flagged as default.
func (r *Registry) Default(kind Kind) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, name := range r.order[kind] {
		if r.plugins[kind][name].IsDefault() {
			return name, true
		}
	}
	return "", false
}

// Get returns the named plugin, failing with ErrUnknownPlugin or
// ErrUnavailablePlugin.
func (r *Registry) Get(kind Kind, name string) (Plugin, error) {
	r.mu.RLock()
	p, ok := r.plugins[kind][name]
	r.mu.RUnlock()
	if !ok {
		return nil, &LookupError{Kind: kind, Name: name, Err: ErrUnknownPlugin}
	}
	if !p.IsAvailable() {
		return nil, &LookupError{Kind: kind, Name: name, Err: ErrUnavailablePlugin}
	}
	return p, nil
}

// Lookup returns the named plugin typed as its contract.
func Lookup[T Plugin](r *Registry, kind Kind, name string) (T, error) {
	var zero T
	p, err := r.Get(kind, name)
	if err != nil {
		return zero, err
	}
	t, ok := p.(T)
	if !ok {
		return zero, &LookupError{Kind: kind, Name: name, Err: fmt.Errorf("%w: wrong contract %T", ErrUnknownPlugin, p)}
	}
	return t, nil
}

// Select resolves names (all supported plugins when empty) and keeps those
// that apply to category. Requesting an unknown or unavailable plugin by
// name is an error; plugins picked implicitly are simply filtered.
func Select[T Plugin](r *Registry, kind Kind, names []string, category string) ([]T, error) {
	explicit := len(names) > 0
	if !explicit {
		names = r.Supported(kind)
	}
	var out []T
	for _, name := range names {
		p, err := Lookup[T](r, kind, name)
		if err != nil {
			return nil, err
		}
		if !AppliesTo(p, category) {
			r.log.Debug("plugin does not apply to package category", "kind", string(kind), "name", name, "category", category)
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func implements(kind Kind, p Plugin) bool {
	var ok bool
	switch kind {
	case KindBuildTool:
		_, ok = p.(BinaryBuilder)
	case KindSRPMBuildTool:
		_, ok = p.(SRPMBuilder)
	case KindChecker:
		_, ok = p.(Checker)
	case KindBuildLogHook:
		_, ok = p.(BuildLogHook)
	case KindVersioneer:
		_, ok = p.(Versioneer)
	case KindSpecHook:
		_, ok = p.(SpecHook)
	case KindOutputTool:
		_, ok = p.(OutputRenderer)
	}
	return ok
}
