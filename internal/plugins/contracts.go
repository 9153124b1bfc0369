package plugins

import (
	"context"
	"io"
	"path/filepath"
	"time"

	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// BuildRequest describes one source-package or binary build.
type BuildRequest struct {
	Spec *specfile.Spec
	// SourcesDir holds the spec, its patches and the source archives.
	SourcesDir string
	// SRPM is the source package binary builders rebuild.
	SRPM       string
	ResultsDir string
	Options    []string
	Env        []string
	Timeout    time.Duration
	Log        *logger.Logger
}

// SpecPath returns the spec file inside SourcesDir.
func (r BuildRequest) SpecPath() string {
	return filepath.Join(r.SourcesDir, filepath.Base(r.Spec.Path()))
}

// BuildResult lists the artifacts a build produced.
type BuildResult struct {
	SRPM     string
	Packages []string
	Logs     []string
}

// SRPMBuilder turns a spec and its sources into a source package.
type SRPMBuilder interface {
	Plugin
	BuildSRPM(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// BinaryBuilder rebuilds a source package into binary packages.
type BinaryBuilder interface {
	Plugin
	Build(ctx context.Context, req BuildRequest) (*BuildResult, error)
}

// CheckRequest hands a checker both builds.
type CheckRequest struct {
	Package    string
	Old        *types.BuildRecord
	New        *types.BuildRecord
	// SourceURL is the upstream archive of the new version, when known.
	SourceURL  string
	ResultsDir string
	Log        *logger.Logger
}

// Checker compares the old and new packages along one dimension.
type Checker interface {
	Plugin
	Run(ctx context.Context, req CheckRequest) (*types.CheckerResult, error)
	Format(res *types.CheckerResult) []string
}

// HookRequest hands a build-log hook the failed build.
type HookRequest struct {
	Spec       *specfile.Spec
	Rebased    *specfile.Spec
	Build      *types.BuildRecord
	ResultsDir string
	Log        *logger.Logger
}

// BuildLogHook inspects a failed build log and edits the rebased spec.
// A nil result means the hook had nothing to do.
type BuildLogHook interface {
	Plugin
	Run(ctx context.Context, req HookRequest) (*types.HookResult, error)
	Format(res types.HookResult) []string
}

// VersionQuery identifies the upstream project to look up.
type VersionQuery struct {
	Package string
	// Project is an explicit upstream project name or id, when known.
	Project   string
	SourceURL string
}

// Versioneer resolves the latest upstream version. It returns "" when the
// project is unknown to its index.
type Versioneer interface {
	Plugin
	Latest(ctx context.Context, q VersionQuery) (string, error)
}

// SpecHookRequest hands a spec hook the freshly re-versioned spec.
type SpecHookRequest struct {
	Spec     *specfile.Spec
	Original *specfile.Spec
	Version  string
	Log      *logger.Logger
}

// SpecHook adjusts the rebased spec before patching. It reports whether it
// changed anything.
type SpecHook interface {
	Plugin
	Run(ctx context.Context, req SpecHookRequest) (bool, error)
}

// OutputRenderer writes the final report.
type OutputRenderer interface {
	Plugin
	Extension() string
	Render(w io.Writer, rep *types.Report) error
	PrintSummary(w io.Writer, rep *types.Report, color bool) error
}
