package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// ErrUserInterrupt is returned when the run is cancelled by the user.
// It wraps context.Canceled so callers can match either.
var ErrUserInterrupt = fmt.Errorf("interrupted by user: %w", context.Canceled)

// formatError renders the Error/Context/Fix layout shared by all pipeline
// errors. Empty parts are left out.
func formatError(msg, context, fix string) string {
	var b strings.Builder
	b.WriteString("Error: ")
	b.WriteString(msg)
	if context != "" {
		b.WriteString("\nContext: ")
		b.WriteString(context)
	}
	if fix != "" {
		b.WriteString("\nFix: ")
		b.WriteString(fix)
	}
	return b.String()
}

// ============================================================================
// ConfigurationError
// ============================================================================

// ConfigurationError reports a bad option, an unusable plugin selection or
// sources that do not match the specification.
type ConfigurationError struct {
	Message string
	Fix     string
	Err     error
}

func NewConfigurationError(err error, fix, format string, args ...any) *ConfigurationError {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...), Fix: fix, Err: err}
}

func (e *ConfigurationError) Error() string {
	ctx := ""
	if e.Err != nil {
		ctx = e.Err.Error()
	}
	return formatError(e.Message, ctx, e.Fix)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// IsConfigurationError reports whether err is or wraps a ConfigurationError.
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// ============================================================================
// AcquisitionError
// ============================================================================

// AcquisitionError reports a failed download, an unreachable build hub or a
// checksum mismatch.
type AcquisitionError struct {
	Resource string
	Err      error
}

func NewAcquisitionError(resource string, err error) *AcquisitionError {
	return &AcquisitionError{Resource: resource, Err: err}
}

func (e *AcquisitionError) Error() string {
	return formatError(
		fmt.Sprintf("unable to acquire %s", e.Resource),
		fmt.Sprint(e.Err),
		"check network access and the source URL, then rerun with --continue",
	)
}

func (e *AcquisitionError) Unwrap() error { return e.Err }

func IsAcquisitionError(err error) bool {
	var target *AcquisitionError
	return errors.As(err, &target)
}

// ============================================================================
// PatchConflictError
// ============================================================================

// PatchConflictError reports a patch whose three-way merge left conflicts
// and which policy does not allow to disable.
type PatchConflictError struct {
	Patch string
	// Rejects lists "file: hunk" descriptions of the conflicting regions.
	Rejects []string
	// Dir holds the merged files with conflict markers.
	Dir string
}

func NewPatchConflictError(patch string, rejects []string, dir string) *PatchConflictError {
	return &PatchConflictError{Patch: patch, Rejects: rejects, Dir: dir}
}

func (e *PatchConflictError) Error() string {
	ctx := strings.Join(e.Rejects, ", ")
	if e.Dir != "" {
		ctx += " (merge result in " + e.Dir + ")"
	}
	return formatError(
		fmt.Sprintf("patch %s does not apply to the new sources", e.Patch),
		ctx,
		"resolve the conflict and rerun with --continue, or pass --disable-inapplicable-patches",
	)
}

func IsPatchConflict(err error) bool {
	var target *PatchConflictError
	return errors.As(err, &target)
}

// ============================================================================
// Build errors
// ============================================================================

// SrpmBuildError reports a failure to build the source package.
type SrpmBuildError struct {
	Version string
	Logs    []string
	Err     error
}

func (e *SrpmBuildError) Error() string {
	return formatError(fmt.Sprintf("building the %s source package failed", e.Version), logsContext(e.Logs, e.Err), "")
}

func (e *SrpmBuildError) Unwrap() error { return e.Err }

// BinaryBuildError reports a failed binary build. Content failures of the
// new build are the ones build log hooks try to repair.
type BinaryBuildError struct {
	Version string
	Logs    []string
	Err     error
}

func (e *BinaryBuildError) Error() string {
	return formatError(fmt.Sprintf("building the %s binary packages failed", e.Version), logsContext(e.Logs, e.Err), "inspect the build logs")
}

func (e *BinaryBuildError) Unwrap() error { return e.Err }

// BuildEnvironmentError reports a builder that could not run at all:
// missing tools, broken chroot, unreachable hub. It is never retried.
type BuildEnvironmentError struct {
	Version string
	Logs    []string
	Err     error
}

func (e *BuildEnvironmentError) Error() string {
	return formatError(fmt.Sprintf("the build environment for %s is unusable", e.Version), logsContext(e.Logs, e.Err), "check the builder installation and configuration")
}

func (e *BuildEnvironmentError) Unwrap() error { return e.Err }

func logsContext(logs []string, err error) string {
	ctx := fmt.Sprint(err)
	if len(logs) > 0 {
		ctx += "; logs: " + strings.Join(logs, ", ")
	}
	return ctx
}

// NewBuildError converts a builder failure into the matching pipeline error.
// Errors that are not plugins.BuildError count as environment failures.
func NewBuildError(version string, err error) error {
	var be *plugins.BuildError
	if !errors.As(err, &be) {
		return &BuildEnvironmentError{Version: version, Err: err}
	}
	switch be.Kind {
	case types.BuildErrorSRPM:
		return &SrpmBuildError{Version: version, Logs: be.Logs, Err: err}
	case types.BuildErrorRPM:
		if be.Transport {
			return &BuildEnvironmentError{Version: version, Logs: be.Logs, Err: err}
		}
		return &BinaryBuildError{Version: version, Logs: be.Logs, Err: err}
	default:
		return &BuildEnvironmentError{Version: version, Logs: be.Logs, Err: err}
	}
}

// IsBuildError reports whether err is any of the three build errors.
func IsBuildError(err error) bool {
	var (
		s *SrpmBuildError
		b *BinaryBuildError
		e *BuildEnvironmentError
	)
	return errors.As(err, &s) || errors.As(err, &b) || errors.As(err, &e)
}

// IsRepairable reports whether a build failure may be fixed by build log
// hooks, i.e. the builder ran and the package content was wrong.
func IsRepairable(err error) bool {
	var b *BinaryBuildError
	return errors.As(err, &b)
}

// ============================================================================
// CheckerError / PluginError
// ============================================================================

// CheckerError reports a single failed checker. It is recorded as the
// checker's output and never fails the run.
type CheckerError struct {
	Checker string
	Err     error
}

func (e *CheckerError) Error() string {
	return fmt.Sprintf("checker %s failed: %v", e.Checker, e.Err)
}

func (e *CheckerError) Unwrap() error { return e.Err }

// PluginError is a plugin that failed to load.
type PluginError = plugins.LoadError

func IsPluginError(err error) bool {
	var target *PluginError
	return errors.As(err, &target)
}

// IsInterrupt reports whether err stems from a user interrupt.
func IsInterrupt(err error) bool {
	return errors.Is(err, ErrUserInterrupt) || errors.Is(err, context.Canceled)
}
