package git

import "strings"

// GitError wraps an exec error with the command that was run and stderr output.
type GitError struct {
	Args   []string // git subcommand and arguments
	Stderr string   // stderr output from git
	Err    error    // underlying exec error
}

func (e *GitError) Error() string {
	if s := strings.TrimSpace(e.Stderr); s != "" {
		return "git " + e.Args[0] + ": " + s
	}
	return "git " + e.Args[0] + ": " + e.Err.Error()
}

func (e *GitError) Unwrap() error {
	return e.Err
}
