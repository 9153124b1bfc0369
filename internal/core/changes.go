package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/EmundoT/rebase-helper/pkg/git-plumbing"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// ErrGitMissing is returned when changes.patch cannot be produced because
// git is not installed.
var ErrGitMissing = errors.New("git is not installed")

// excludedFromChanges keeps source archives and build output out of the
// change-set.
var excludedFromChanges = []string{
	"*.tar", "*.tar.*", "*.tgz", "*.tbz2", "*.txz", "*.zip",
	"*.rpm", "results/",
}

// ChangeTracker keeps the rebased sources in a git repository whose first
// commit is the original package, so the consolidated change-set is the
// diff against that commit.
type ChangeTracker struct {
	repo *git.Git
	log  *logger.Logger
}

// NewChangeTracker tracks dir.
func NewChangeTracker(dir string, log *logger.Logger) *ChangeTracker {
	if log == nil {
		log = logger.Discard()
	}
	return &ChangeTracker{repo: git.New(dir), log: log.WithComponent("changes")}
}

// Init records the current content of the directory as the baseline. An
// existing repository is kept, so resumed runs diff against the same
// baseline.
func (c *ChangeTracker) Init(ctx context.Context) error {
	if !git.IsInstalled() {
		return ErrGitMissing
	}
	if _, err := os.Stat(filepath.Join(c.repo.Dir, ".git")); err == nil {
		return nil
	}

	if err := c.repo.Init(ctx); err != nil {
		return fmt.Errorf("init rebased sources repository: %w", err)
	}
	if err := c.repo.ConfigSet(ctx, "user.name", "rebase-helper"); err != nil {
		return err
	}
	if err := c.repo.ConfigSet(ctx, "user.email", "rebase-helper@localhost"); err != nil {
		return err
	}
	exclude := filepath.Join(c.repo.Dir, ".git", "info", "exclude")
	if err := os.MkdirAll(filepath.Dir(exclude), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(exclude, []byte(strings.Join(excludedFromChanges, "\n")+"\n"), 0644); err != nil {
		return err
	}

	if err := c.repo.Add(ctx, "-A"); err != nil {
		return err
	}
	if err := c.repo.Commit(ctx, git.CommitOpts{Message: "Original package", AllowEmpty: true}); err != nil {
		return fmt.Errorf("commit original package: %w", err)
	}
	c.log.Debug("baseline recorded", "dir", c.repo.Dir)
	return nil
}

// Write stores the diff between the baseline and the current content at
// path and returns the number of changed files.
func (c *ChangeTracker) Write(ctx context.Context, path string) (int, error) {
	if !git.IsInstalled() {
		return 0, ErrGitMissing
	}
	if err := c.repo.Add(ctx, "-A"); err != nil {
		return 0, err
	}
	stat, err := c.repo.DiffCachedStat(ctx)
	if err != nil {
		return 0, err
	}
	diff, err := c.repo.DiffCached(ctx)
	if err != nil {
		return 0, fmt.Errorf("diff rebased sources: %w", err)
	}
	if err := os.WriteFile(path, []byte(diff), 0644); err != nil {
		return 0, err
	}
	c.log.Info("change-set written", "path", path, "files", len(stat.Files),
		"added", stat.Total.Added, "removed", stat.Total.Removed)
	return len(stat.Files), nil
}
