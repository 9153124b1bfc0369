package core

import (
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"
)

// State is a node of the rebase state machine.
type State string

const (
	StateInit     State = "INIT"
	StateAcquire  State = "ACQUIRE"
	StatePrepOld  State = "PREP_OLD"
	StatePrepNew  State = "PREP_NEW"
	StatePatch    State = "PATCH"
	StateBuildOld State = "BUILD_OLD"
	StateBuildNew State = "BUILD_NEW"
	StateHooks    State = "HOOKS"
	StateCompare  State = "COMPARE"
	StateRender   State = "RENDER"
	StateDone     State = "DONE"
	StateFailed   State = "FAILED"
)

// Pipeline lists the working states in execution order.
var Pipeline = []State{
	StateInit, StateAcquire, StatePrepOld, StatePrepNew, StatePatch,
	StateBuildOld, StateBuildNew, StateHooks, StateCompare, StateRender,
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }

// Fingerprint identifies the rebase a results directory belongs to.
type Fingerprint struct {
	Package       string `yaml:"package"`
	OldVersion    string `yaml:"old_version"`
	TargetVersion string `yaml:"target_version"`
}

func (f Fingerprint) String() string {
	return fmt.Sprintf("%s %s -> %s", f.Package, f.OldVersion, f.TargetVersion)
}

// RunState is persisted to results.yml after every transition so that
// --continue can skip completed stages.
type RunState struct {
	RunID       string          `yaml:"run_id"`
	Fingerprint Fingerprint     `yaml:"fingerprint"`
	State       State           `yaml:"state"`
	Completed   []State         `yaml:"completed,omitempty"`
	HookPasses  int             `yaml:"hook_passes,omitempty"`
	Error       string          `yaml:"error,omitempty"`
	ExitCode    int             `yaml:"exit_code"`
	StartedAt   time.Time       `yaml:"started_at"`
	UpdatedAt   time.Time       `yaml:"updated_at"`
	Results     ResultsSnapshot `yaml:"results"`
}

// NewRunState starts a fresh run.
func NewRunState(fp Fingerprint, now time.Time) *RunState {
	return &RunState{
		RunID:       uuid.NewString(),
		Fingerprint: fp,
		State:       StateInit,
		StartedAt:   now,
		UpdatedAt:   now,
	}
}

// IsCompleted reports whether stage finished in an earlier pass.
func (r *RunState) IsCompleted(s State) bool { return slices.Contains(r.Completed, s) }

// Complete marks stage as finished.
func (r *RunState) Complete(s State) {
	if !r.IsCompleted(s) {
		r.Completed = append(r.Completed, s)
	}
}

// Reopen forgets that stages finished, e.g. when hooks changed the spec
// and the build has to run again.
func (r *RunState) Reopen(stages ...State) {
	r.Completed = slices.DeleteFunc(r.Completed, func(s State) bool {
		return slices.Contains(stages, s)
	})
}

// StateStore reads and writes results.yml.
type StateStore = YAMLStore[*RunState]

// NewStateStore returns the store for resultsDir. A missing file loads as nil.
func NewStateStore(resultsDir string) *StateStore {
	return NewYAMLStore[*RunState](resultsDir, StateFile, true)
}
