package git

import "context"

// CommitOpts configures a commit operation.
type CommitOpts struct {
	Message string
	// AllowEmpty records a commit even when nothing is staged.
	AllowEmpty bool
}

// Commit creates a new commit with the given options.
func (g *Git) Commit(ctx context.Context, opts CommitOpts) error {
	args := []string{"commit", "--quiet", "--no-verify", "-m", opts.Message}
	if opts.AllowEmpty {
		args = append(args, "--allow-empty")
	}
	return g.RunSilent(ctx, args...)
}

// Add stages paths for the next commit.
func (g *Git) Add(ctx context.Context, paths ...string) error {
	return g.RunSilent(ctx, append([]string{"add"}, paths...)...)
}
