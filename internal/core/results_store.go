package core

import (
	"maps"
	"slices"
	"sort"
	"sync"

	"github.com/EmundoT/rebase-helper/internal/types"
)

// ResultsStore accumulates the outcome of every stage of one run. Each
// (stage, key) pair holds at most one entry; later writes replace earlier
// ones, except hook results, which are merged.
//
// The store is owned by the orchestrator and handed to components; it is
// safe for concurrent use so checkers may report from worker goroutines.
type ResultsStore struct {
	mu           sync.RWMutex
	sources      map[string]types.SourceBundle
	builds       map[string]*types.BuildRecord
	patches      map[string]types.PatchOutcome
	checkers     map[string]types.CheckerResult
	hooks        map[string]types.HookResult
	summary      types.Summary
	changesPatch string
}

// NewResultsStore creates an empty store.
func NewResultsStore() *ResultsStore {
	return &ResultsStore{
		sources:  make(map[string]types.SourceBundle),
		builds:   make(map[string]*types.BuildRecord),
		patches:  make(map[string]types.PatchOutcome),
		checkers: make(map[string]types.CheckerResult),
		hooks:    make(map[string]types.HookResult),
	}
}

// SetSource records the materialized sources of side (SideOld or SideNew).
func (s *ResultsStore) SetSource(side string, b types.SourceBundle) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources[side] = b
}

func (s *ResultsStore) Source(side string) (types.SourceBundle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.sources[side]
	return b, ok
}

// SetBuild records a build attempt of side. A failed build never keeps
// package paths.
func (s *ResultsStore) SetBuild(side string, rec types.BuildRecord) {
	if !rec.Succeeded() {
		rec.Packages = nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.builds[side] = &rec
}

// Build returns a copy of the build record of side, or nil.
func (s *ResultsStore) Build(side string) *types.BuildRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.builds[side]
	if !ok {
		return nil
	}
	c := *rec
	c.Packages = slices.Clone(rec.Packages)
	c.Logs = slices.Clone(rec.Logs)
	return &c
}

// ClearBuild drops the record of side.
func (s *ResultsStore) ClearBuild(side string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.builds, side)
}

// SetPatch records the outcome of one patch, keyed by its file name.
func (s *ResultsStore) SetPatch(o types.PatchOutcome) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.patches[o.Name] = o
}

// Patch returns the outcome recorded for name.
func (s *ResultsStore) Patch(name string) (types.PatchOutcome, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.patches[name]
	return o, ok
}

// Patches returns every patch outcome in patch index order.
func (s *ResultsStore) Patches() []types.PatchOutcome {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]types.PatchOutcome, 0, len(s.patches))
	for _, o := range s.patches {
		o.Rejects = slices.Clone(o.Rejects)
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Index != out[j].Index {
			return out[i].Index < out[j].Index
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SetChecker records the output of one checker.
func (s *ResultsStore) SetChecker(res types.CheckerResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checkers[res.Name] = res
}

func (s *ResultsStore) Checkers() map[string]types.CheckerResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.checkers)
}

// MergeHook folds res into the cumulative result of hook name, keeping the
// entries of earlier passes first.
func (s *ResultsStore) MergeHook(name string, res types.HookResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hooks[name] = s.hooks[name].Merge(res)
}

// Hook returns the cumulative result of hook name.
func (s *ResultsStore) Hook(name string) (types.HookResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.hooks[name]
	return r, ok
}

func (s *ResultsStore) Hooks() map[string]types.HookResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.hooks)
}

func (s *ResultsStore) SetSummary(sum types.Summary) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.summary = sum
}

func (s *ResultsStore) Summary() types.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.summary
}

func (s *ResultsStore) SetChangesPatch(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.changesPatch = path
}

func (s *ResultsStore) ChangesPatch() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.changesPatch
}

// ============================================================================
// Snapshots
// ============================================================================

// ResultsSnapshot is the serializable form of the store.
type ResultsSnapshot struct {
	Sources      map[string]types.SourceBundle  `yaml:"sources,omitempty"`
	OldBuild     *types.BuildRecord             `yaml:"old_build,omitempty"`
	NewBuild     *types.BuildRecord             `yaml:"new_build,omitempty"`
	Patches      []types.PatchOutcome           `yaml:"patches,omitempty"`
	Checkers     map[string]types.CheckerResult `yaml:"checkers,omitempty"`
	Hooks        map[string]types.HookResult    `yaml:"build_log_hooks,omitempty"`
	Summary      types.Summary                  `yaml:"summary"`
	ChangesPatch string                         `yaml:"changes_patch,omitempty"`
}

// Snapshot returns a stable copy of the store.
func (s *ResultsStore) Snapshot() ResultsSnapshot {
	snap := ResultsSnapshot{
		OldBuild:     s.Build(SideOld),
		NewBuild:     s.Build(SideNew),
		Patches:      s.Patches(),
		Checkers:     s.Checkers(),
		Hooks:        s.Hooks(),
		Summary:      s.Summary(),
		ChangesPatch: s.ChangesPatch(),
	}
	s.mu.RLock()
	snap.Sources = maps.Clone(s.sources)
	s.mu.RUnlock()
	return snap
}

// Restore replaces the content of the store with snap.
func (s *ResultsStore) Restore(snap ResultsSnapshot) {
	fresh := NewResultsStore()
	for side, b := range snap.Sources {
		fresh.sources[side] = b
	}
	if snap.OldBuild != nil {
		fresh.SetBuild(SideOld, *snap.OldBuild)
	}
	if snap.NewBuild != nil {
		fresh.SetBuild(SideNew, *snap.NewBuild)
	}
	for _, p := range snap.Patches {
		fresh.patches[p.Name] = p
	}
	for name, c := range snap.Checkers {
		fresh.checkers[name] = c
	}
	for name, h := range snap.Hooks {
		fresh.hooks[name] = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sources = fresh.sources
	s.builds = fresh.builds
	s.patches = fresh.patches
	s.checkers = fresh.checkers
	s.hooks = fresh.hooks
	s.summary = snap.Summary
	s.changesPatch = snap.ChangesPatch
}

// Report builds the renderer-facing view of the store.
func (s *ResultsStore) Report(pkg, oldVersion, newVersion, resultsDir string) *types.Report {
	snap := s.Snapshot()
	return &types.Report{
		Package:      pkg,
		OldVersion:   oldVersion,
		NewVersion:   newVersion,
		Summary:      snap.Summary,
		Patches:      snap.Patches,
		OldBuild:     snap.OldBuild,
		NewBuild:     snap.NewBuild,
		Hooks:        snap.Hooks,
		Checkers:     snap.Checkers,
		ChangesPatch: snap.ChangesPatch,
		ResultsDir:   resultsDir,
	}
}
