package builders

import (
	"context"
	"path/filepath"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// mockOutput receives the mock command output. mock itself writes
// build.log, root.log and state.log into the result directory.
const mockOutput = "mock_output.log"

// MockSRPM builds source packages inside a mock chroot.
type MockSRPM struct {
	plugins.Info
	runner plugins.Runner
}

func NewMockSRPM(runner plugins.Runner) *MockSRPM {
	return &MockSRPM{
		Info:   plugins.Info{PluginName: "mock", Tools: []string{"mock"}},
		runner: runner,
	}
}

func (b *MockSRPM) BuildSRPM(ctx context.Context, req plugins.BuildRequest) (*plugins.BuildResult, error) {
	args := []string{"--buildsrpm",
		"--spec", req.SpecPath(),
		"--sources", req.SourcesDir,
		"--resultdir", req.ResultsDir,
	}
	return runMock(ctx, b.runner, req, types.BuildErrorSRPM, append(args, req.Options...))
}

// Mock rebuilds a source package inside a mock chroot. It is the default
// binary builder.
type Mock struct {
	plugins.Info
	runner plugins.Runner
}

func NewMock(runner plugins.Runner) *Mock {
	return &Mock{
		Info:   plugins.Info{PluginName: "mock", Default: true, Tools: []string{"mock"}},
		runner: runner,
	}
}

func (b *Mock) Build(ctx context.Context, req plugins.BuildRequest) (*plugins.BuildResult, error) {
	args := []string{"--rebuild", req.SRPM, "--resultdir", req.ResultsDir}
	return runMock(ctx, b.runner, req, types.BuildErrorRPM, append(args, req.Options...))
}

// runMock runs mock and collects its artifacts. A failure before mock wrote
// build.log happened while preparing the chroot and is reported as an
// environment failure.
func runMock(ctx context.Context, runner plugins.Runner, req plugins.BuildRequest, kind types.BuildErrorKind, args []string) (*plugins.BuildResult, error) {
	iv := invocation{runner: runner, req: req, log: mockOutput}
	_, err := iv.run(ctx, "mock", args...)
	logs := logsIn(req.ResultsDir)
	res := &plugins.BuildResult{Logs: logs}
	if err != nil {
		if !exists(filepath.Join(req.ResultsDir, BuildLog)) {
			kind = types.BuildErrorEnvironment
		}
		return res, failure(kind, err, logs)
	}

	srpms, rpms, err := packagesIn(req.ResultsDir)
	if err != nil {
		return nil, err
	}
	switch kind {
	case types.BuildErrorSRPM:
		if len(srpms) == 0 {
			return res, missing(kind, "mock produced no source package", logs)
		}
		res.SRPM = srpms[0]
	default:
		if len(rpms) == 0 {
			return res, missing(kind, "mock produced no binary packages", logs)
		}
		res.Packages = rpms
	}
	return res, nil
}
