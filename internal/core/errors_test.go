package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

func TestConfigurationError_Format(t *testing.T) {
	err := NewConfigurationError(errors.New("mock is not installed"), "install mock", "cannot use the requested %s", plugins.KindBuildTool)
	msg := err.Error()
	for _, want := range []string{"Error: cannot use the requested build_tools", "Context: mock is not installed", "Fix: install mock"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q lacks %q", msg, want)
		}
	}

	bare := NewConfigurationError(nil, "", "no spec file found").Error()
	if strings.Contains(bare, "Context:") || strings.Contains(bare, "Fix:") {
		t.Errorf("empty parts should be left out: %q", bare)
	}
}

func TestNewBuildError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		repairable bool
		code       string
	}{
		{"srpm", &plugins.BuildError{Kind: types.BuildErrorSRPM, Message: "rpmbuild -bs failed"}, false, ErrCodeSrpmBuild},
		{"binary content", &plugins.BuildError{Kind: types.BuildErrorRPM, Message: "installed files not packaged"}, true, ErrCodeBinaryBuild},
		{"binary transport", &plugins.BuildError{Kind: types.BuildErrorRPM, Transport: true}, false, ErrCodeBuildEnvironment},
		{"environment", &plugins.BuildError{Kind: types.BuildErrorEnvironment}, false, ErrCodeBuildEnvironment},
		{"plain error", errors.New("exec: mock not found"), false, ErrCodeBuildEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewBuildError("0.2", tt.err)
			if !IsBuildError(err) {
				t.Errorf("IsBuildError(%v) = false", err)
			}
			if got := IsRepairable(err); got != tt.repairable {
				t.Errorf("IsRepairable = %v, want %v", got, tt.repairable)
			}
			if got := ErrCodeForError(err); got != tt.code {
				t.Errorf("ErrCodeForError = %s, want %s", got, tt.code)
			}
			if !errors.Is(err, tt.err) {
				t.Error("build error does not wrap the builder error")
			}
		})
	}
}

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, ExitSuccess},
		{"interrupt", ErrUserInterrupt, ExitInterrupted},
		{"wrapped cancel", fmt.Errorf("download: %w", context.Canceled), ExitInterrupted},
		{"configuration", NewConfigurationError(nil, "", "bad"), ExitFailure},
		{"conflict", NewPatchConflictError("conflicting.patch", []string{"pello.py: hunk 1"}, ""), ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCodeForError(tt.err); got != tt.want {
				t.Errorf("ExitCodeForError = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestErrCodeForError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, ""},
		{ErrUserInterrupt, ErrCodeInterrupted},
		{NewConfigurationError(nil, "", "x"), ErrCodeConfiguration},
		{NewAcquisitionError("pello-0.2.tar.gz", errors.New("404")), ErrCodeAcquisition},
		{NewPatchConflictError("p", nil, ""), ErrCodePatchConflict},
		{&CheckerError{Checker: "abipkgdiff", Err: errors.New("crashed")}, ErrCodeChecker},
		{&PluginError{Kind: plugins.KindChecker, Name: "broken", Err: errors.New("panic")}, ErrCodePlugin},
		{errors.New("boom"), ErrCodeInternalError},
	}
	for _, tt := range tests {
		if got := ErrCodeForError(tt.err); got != tt.want {
			t.Errorf("ErrCodeForError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestPatchConflictError_Message(t *testing.T) {
	err := NewPatchConflictError("conflicting.patch", []string{"pello.py: hunk 1"}, "/results/conflicts/conflicting.patch")
	msg := err.Error()
	if !strings.Contains(msg, "conflicting.patch does not apply") || !strings.Contains(msg, "merge result in /results/conflicts") {
		t.Errorf("unexpected message %q", msg)
	}
}
