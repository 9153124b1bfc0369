package plugins

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// Runner runs external tools. Builders, checkers and the remote hub go
// through it so tests can script tool output.
type Runner interface {
	// Run executes name in dir and returns its combined output. A nil env
	// inherits the current environment.
	Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error)
}

// ToolError is returned when an external tool exits unsuccessfully.
type ToolError struct {
	Tool     string
	Args     []string
	Output   string
	// ExitCode is the status the tool exited with, -1 when it did not run
	// to completion.
	ExitCode int
	Err      error
}

func (e *ToolError) Error() string {
	out := strings.TrimSpace(e.Output)
	if i := strings.LastIndexByte(out, '\n'); i >= 0 {
		out = out[i+1:]
	}
	if out == "" {
		return fmt.Sprintf("%s %s: %v", e.Tool, strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("%s %s: %v: %s", e.Tool, strings.Join(e.Args, " "), e.Err, out)
}

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode returns the exit status carried by a *ToolError in err's chain.
func ExitCode(err error) (int, bool) {
	var te *ToolError
	if !errors.As(err, &te) || te.ExitCode < 0 {
		return 0, false
	}
	return te.ExitCode, true
}

// ExecRunner implements Runner with os/exec.
type ExecRunner struct{}

var _ Runner = ExecRunner{}

func (ExecRunner) Run(ctx context.Context, dir string, env []string, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	if env != nil {
		cmd.Env = env
	}
	out, err := cmd.CombinedOutput()
	if err != nil {
		code := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code = exitErr.ExitCode()
		}
		return out, &ToolError{Tool: name, Args: args, Output: string(out), ExitCode: code, Err: err}
	}
	return out, nil
}
