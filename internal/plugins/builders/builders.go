// Package builders wraps the tools that turn a spec into source and binary
// packages: rpmbuild and mock locally, koji remotely.
package builders

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

//go:generate mockgen -destination=runner_mock_test.go -package=builders github.com/EmundoT/rebase-helper/internal/plugins Runner

// BuildLog is the log build-log hooks read.
const BuildLog = "build.log"

// topDir is the private rpmbuild tree kept inside a results directory.
const topDir = ".rpmbuild"

// invocation is one run of a build tool whose output is stored in a log file.
type invocation struct {
	runner plugins.Runner
	req    plugins.BuildRequest
	dir    string
	log    string
}

func (iv invocation) run(ctx context.Context, name string, args ...string) (string, error) {
	if iv.req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, iv.req.Timeout)
		defer cancel()
	}
	if err := os.MkdirAll(iv.req.ResultsDir, 0755); err != nil {
		return "", err
	}
	dir := iv.dir
	if dir == "" {
		dir = iv.req.SourcesDir
	}
	requestLog(iv.req).Debug("running build tool", "tool", name, "args", args)

	out, err := iv.runner.Run(ctx, dir, iv.req.Env, name, args...)
	if werr := os.WriteFile(filepath.Join(iv.req.ResultsDir, iv.log), out, 0644); werr != nil && err == nil {
		err = werr
	}
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		err = fmt.Errorf("%s timed out after %s: %w", name, iv.req.Timeout, context.DeadlineExceeded)
	}
	return string(out), err
}

func requestLog(req plugins.BuildRequest) *logger.Logger {
	if req.Log == nil {
		return logger.Discard()
	}
	return req.Log
}

// failure classifies a tool error. Anything but a non-zero exit of the tool
// itself is a transport failure.
func failure(kind types.BuildErrorKind, err error, logs []string) *plugins.BuildError {
	be := &plugins.BuildError{Kind: kind, Message: err.Error(), Logs: logs}
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) || errors.Is(err, context.DeadlineExceeded) {
		be.Transport = true
	}
	return be
}

// missing reports a build that finished without producing what it should.
func missing(kind types.BuildErrorKind, message string, logs []string) *plugins.BuildError {
	return &plugins.BuildError{Kind: kind, Message: message, Logs: logs}
}

// packagesIn lists the package files below dir, skipping the private
// rpmbuild tree. Source packages are returned separately.
func packagesIn(dir string) (srpms, rpms []string, err error) {
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == topDir {
				return filepath.SkipDir
			}
			return nil
		}
		switch {
		case strings.HasSuffix(d.Name(), ".src.rpm"):
			srpms = append(srpms, path)
		case strings.HasSuffix(d.Name(), ".rpm"):
			rpms = append(rpms, path)
		}
		return nil
	})
	sort.Strings(srpms)
	sort.Strings(rpms)
	return srpms, rpms, err
}

// logsIn lists the *.log files directly inside dir.
func logsIn(dir string) []string {
	logs, _ := filepath.Glob(filepath.Join(dir, "*.log"))
	sort.Strings(logs)
	return logs
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
