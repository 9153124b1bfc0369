// Package git is a thin wrapper around the git CLI. rebase-helper uses it
// to keep the rebased sources in a throwaway repository and diff them
// against the original package.
package git

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
)

// Git represents a git repository at a specific directory.
type Git struct {
	Dir string // working directory
}

// New creates a Git instance for the given directory.
func New(dir string) *Git {
	return &Git{Dir: dir}
}

func (g *Git) command(ctx context.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = g.Dir
	cmd.Env = sanitizedEnv()
	return cmd
}

// Run executes a git command and returns trimmed stdout.
func (g *Git) Run(ctx context.Context, args ...string) (string, error) {
	out, err := g.command(ctx, args...).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", &GitError{Args: args, Stderr: string(exitErr.Stderr), Err: err}
		}
		return "", err
	}
	return strings.TrimRight(string(out), " \t\r\n"), nil
}

// RunLines executes a git command and returns stdout split by newlines.
func (g *Git) RunLines(ctx context.Context, args ...string) ([]string, error) {
	out, err := g.Run(ctx, args...)
	if err != nil || out == "" {
		return nil, err
	}
	return strings.Split(out, "\n"), nil
}

// RunSilent executes a git command, discarding output on success.
// On error, includes combined stdout+stderr in the error message.
func (g *Git) RunSilent(ctx context.Context, args ...string) error {
	if output, err := g.command(ctx, args...).CombinedOutput(); err != nil {
		return &GitError{Args: args, Stderr: string(output), Err: err}
	}
	return nil
}

// Init initializes a new git repository.
func (g *Git) Init(ctx context.Context) error {
	return g.RunSilent(ctx, "init", "--quiet")
}

// IsInstalled returns true if the git binary is available on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// sanitizedEnv returns the current environment without the variables that
// redirect git to another repository. A package directory that is itself a
// dist-git checkout must not leak into the rebased sources repository.
func sanitizedEnv() []string {
	var env []string
	for _, e := range os.Environ() {
		key, _, _ := strings.Cut(e, "=")
		switch strings.ToUpper(key) {
		case "GIT_DIR", "GIT_INDEX_FILE", "GIT_WORK_TREE",
			"GIT_OBJECT_DIRECTORY", "GIT_ALTERNATE_OBJECT_DIRECTORIES":
			continue
		}
		env = append(env, e)
	}
	return env
}
