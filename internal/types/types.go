package types

type PatchStatus string

const (
	PatchUntouched    PatchStatus = "untouched"
	PatchModified     PatchStatus = "modified"
	PatchDeleted      PatchStatus = "deleted"
	PatchInapplicable PatchStatus = "inapplicable"
)

// PatchStatuses lists statuses in report order.
var PatchStatuses = []PatchStatus{PatchUntouched, PatchModified, PatchDeleted, PatchInapplicable}

type PatchOutcome struct {
	Index       int         `yaml:"index" json:"index"`
	Name        string      `yaml:"name" json:"name"`
	Status      PatchStatus `yaml:"status" json:"status"`
	Rejects     []string    `yaml:"rejects,omitempty" json:"rejects,omitempty"`
	RebasedPath string      `yaml:"rebased_path,omitempty" json:"rebased_path,omitempty"`
	Reason      string      `yaml:"reason,omitempty" json:"reason,omitempty"`
}

type BuildErrorKind string

const (
	BuildErrorNone        BuildErrorKind = "none"
	BuildErrorSRPM        BuildErrorKind = "srpm-build"
	BuildErrorRPM         BuildErrorKind = "rpm-build"
	BuildErrorEnvironment BuildErrorKind = "environment"
)

type BuildRecord struct {
	Version     string         `yaml:"version" json:"version"`
	Builder     string         `yaml:"builder,omitempty" json:"builder,omitempty"`
	SRPM        string         `yaml:"srpm,omitempty" json:"srpm,omitempty"`
	Packages    []string       `yaml:"packages,omitempty" json:"packages,omitempty"`
	Logs        []string       `yaml:"logs,omitempty" json:"logs,omitempty"`
	ErrorKind   BuildErrorKind `yaml:"error_kind" json:"error_kind"`
	ErrorDetail string         `yaml:"error_detail,omitempty" json:"error_detail,omitempty"`
	FromHub     bool           `yaml:"from_hub,omitempty" json:"from_hub,omitempty"`
}

// Succeeded reports whether the build produced usable packages.
func (b *BuildRecord) Succeeded() bool {
	return b != nil && (b.ErrorKind == "" || b.ErrorKind == BuildErrorNone)
}

type SourceBundle struct {
	Version  string `yaml:"version" json:"version"`
	Archive  string `yaml:"archive" json:"archive"`
	Path     string `yaml:"path" json:"path"`
	Checksum string `yaml:"checksum" json:"checksum"`
}

type CheckerResult struct {
	Name      string         `yaml:"name" json:"name"`
	Data      map[string]any `yaml:"data,omitempty" json:"data,omitempty"`
	Artifacts []string       `yaml:"artifacts,omitempty" json:"artifacts,omitempty"`
	Error     string         `yaml:"error,omitempty" json:"error,omitempty"`
}

type Summary struct {
	Success    bool   `yaml:"success" json:"success"`
	State      string `yaml:"state" json:"state"`
	Message    string `yaml:"message" json:"message"`
	ErrorCode  string `yaml:"error_code,omitempty" json:"error_code,omitempty"`
	FailedStep string `yaml:"failed_step,omitempty" json:"failed_step,omitempty"`
}

// Report is the renderer-facing snapshot of a run.
type Report struct {
	Package      string                   `json:"package"`
	OldVersion   string                   `json:"old_version"`
	NewVersion   string                   `json:"new_version"`
	Summary      Summary                  `json:"summary"`
	Patches      []PatchOutcome           `json:"patches"`
	OldBuild     *BuildRecord             `json:"old_build,omitempty"`
	NewBuild     *BuildRecord             `json:"new_build,omitempty"`
	Hooks        map[string]HookResult    `json:"build_log_hooks,omitempty"`
	Checkers     map[string]CheckerResult `json:"checkers,omitempty"`
	ChangesPatch string                   `json:"changes_patch,omitempty"`
	ResultsDir   string                   `json:"results_dir"`
}

// PatchesByStatus groups outcomes by status keeping index order.
func (r *Report) PatchesByStatus() map[PatchStatus][]PatchOutcome {
	out := make(map[PatchStatus][]PatchOutcome)
	for _, p := range r.Patches {
		out[p.Status] = append(out[p.Status], p)
	}
	return out
}
