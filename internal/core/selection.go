package core

import (
	"slices"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/config"
	"github.com/EmundoT/rebase-helper/internal/plugins"
)

//go:generate mockgen -destination=plugins_mock_test.go -package=core github.com/EmundoT/rebase-helper/internal/plugins SRPMBuilder,BinaryBuilder,Checker,BuildLogHook,Versioneer,SpecHook,Runner

// DefaultOutputTool renders the report when no renderer is configured.
const DefaultOutputTool = "text"

// PluginSelector resolves the plugins a run uses. Every kind is resolved
// on first use, so a run that never builds does not need a builder
// installed.
type PluginSelector struct {
	reg      *plugins.Registry
	cfg      *config.Config
	category string
}

// NewPluginSelector selects from reg for packages of category.
func NewPluginSelector(reg *plugins.Registry, cfg *config.Config, category string) *PluginSelector {
	return &PluginSelector{reg: reg, cfg: cfg, category: category}
}

func (s *PluginSelector) named(kind plugins.Kind, key string) (string, error) {
	if name := s.cfg.String(key); name != "" {
		return name, nil
	}
	if name, ok := s.reg.Default(kind); ok {
		return name, nil
	}
	if supported := s.reg.Supported(kind); len(supported) > 0 {
		return supported[0], nil
	}
	return "", NewConfigurationError(nil, "install one of: "+joinOrNone(s.reg.Names(kind)), "no %s available", kind)
}

func lookup[T plugins.Plugin](s *PluginSelector, kind plugins.Kind, key string) (T, error) {
	var zero T
	name, err := s.named(kind, key)
	if err != nil {
		return zero, err
	}
	p, err := plugins.Lookup[T](s.reg, kind, name)
	if err != nil {
		return zero, selectionError(s.reg, kind, err)
	}
	return p, nil
}

func selectionError(reg *plugins.Registry, kind plugins.Kind, err error) error {
	return NewConfigurationError(err, "available: "+joinOrNone(reg.Supported(kind)), "cannot use the requested %s", kind)
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func (s *PluginSelector) SRPMBuilder() (plugins.SRPMBuilder, error) {
	return lookup[plugins.SRPMBuilder](s, plugins.KindSRPMBuildTool, config.KeySRPMBuildTool)
}

func (s *PluginSelector) Builder() (plugins.BinaryBuilder, error) {
	return lookup[plugins.BinaryBuilder](s, plugins.KindBuildTool, config.KeyBuildTool)
}

// Renderer returns the configured renderer, the text renderer by default.
func (s *PluginSelector) Renderer() (plugins.OutputRenderer, error) {
	name := s.cfg.String(config.KeyOutputTool)
	if name == "" {
		name = DefaultOutputTool
		if def, ok := s.reg.Default(plugins.KindOutputTool); ok {
			name = def
		}
	}
	r, err := plugins.Lookup[plugins.OutputRenderer](s.reg, plugins.KindOutputTool, name)
	if err != nil {
		return nil, selectionError(s.reg, plugins.KindOutputTool, err)
	}
	return r, nil
}

// Checkers returns the requested checkers, or every available one that
// applies to the package.
func (s *PluginSelector) Checkers() ([]plugins.Checker, error) {
	out, err := plugins.Select[plugins.Checker](s.reg, plugins.KindChecker, s.cfg.List(config.KeyPkgCompareTool), s.category)
	if err != nil {
		return nil, selectionError(s.reg, plugins.KindChecker, err)
	}
	return out, nil
}

// BuildLogHooks returns the available hooks, none when disabled.
func (s *PluginSelector) BuildLogHooks() ([]plugins.BuildLogHook, error) {
	if s.cfg.String(config.KeyBuildLogHooks) != config.Enable {
		return nil, nil
	}
	out, err := plugins.Select[plugins.BuildLogHook](s.reg, plugins.KindBuildLogHook, nil, s.category)
	if err != nil {
		return nil, selectionError(s.reg, plugins.KindBuildLogHook, err)
	}
	return out, nil
}

// SpecHooks returns the available spec hooks, none when disabled.
func (s *PluginSelector) SpecHooks() ([]plugins.SpecHook, error) {
	if s.cfg.String(config.KeySpecHooks) != config.Enable {
		return nil, nil
	}
	out, err := plugins.Select[plugins.SpecHook](s.reg, plugins.KindSpecHook, nil, s.category)
	if err != nil {
		return nil, selectionError(s.reg, plugins.KindSpecHook, err)
	}
	return out, nil
}

// Versioneers returns the configured versioneer, or every available one.
// --versioneer-categories limits lookups to packages of those categories.
// Versioneer returns the versioneer called name whatever the package
// category.
func (s *PluginSelector) Versioneer(name string) (plugins.Versioneer, error) {
	v, err := plugins.Lookup[plugins.Versioneer](s.reg, plugins.KindVersioneer, name)
	if err != nil {
		return nil, selectionError(s.reg, plugins.KindVersioneer, err)
	}
	return v, nil
}

func (s *PluginSelector) Versioneers() ([]plugins.Versioneer, error) {
	if cats := s.cfg.List(config.KeyVersioneerCategories); len(cats) > 0 && !slices.Contains(cats, s.category) {
		return nil, nil
	}
	var names []string
	if name := s.cfg.String(config.KeyVersioneer); name != "" {
		names = []string{name}
	}
	out, err := plugins.Select[plugins.Versioneer](s.reg, plugins.KindVersioneer, names, s.category)
	if err != nil {
		return nil, selectionError(s.reg, plugins.KindVersioneer, err)
	}
	return out, nil
}
