package builders

import (
	"context"
	"path/filepath"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// RPMBuildSRPM builds source packages with rpmbuild -bs.
type RPMBuildSRPM struct {
	plugins.Info
	runner plugins.Runner
}

// NewRPMBuildSRPM is the default source package builder.
func NewRPMBuildSRPM(runner plugins.Runner) *RPMBuildSRPM {
	return &RPMBuildSRPM{
		Info:   plugins.Info{PluginName: "rpmbuild", Default: true, Tools: []string{"rpmbuild"}},
		runner: runner,
	}
}

func (b *RPMBuildSRPM) BuildSRPM(ctx context.Context, req plugins.BuildRequest) (*plugins.BuildResult, error) {
	args := []string{"-bs", req.SpecPath(),
		"--define", "_sourcedir " + req.SourcesDir,
		"--define", "_srcrpmdir " + req.ResultsDir,
		"--define", "_topdir " + filepath.Join(req.ResultsDir, topDir),
	}
	iv := invocation{runner: b.runner, req: req, log: BuildLog}
	_, err := iv.run(ctx, "rpmbuild", append(args, req.Options...)...)
	logs := []string{filepath.Join(req.ResultsDir, BuildLog)}
	if err != nil {
		return &plugins.BuildResult{Logs: logs}, failure(types.BuildErrorSRPM, err, logs)
	}

	srpms, _, err := packagesIn(req.ResultsDir)
	if err != nil {
		return nil, err
	}
	if len(srpms) == 0 {
		return &plugins.BuildResult{Logs: logs}, missing(types.BuildErrorSRPM, "rpmbuild produced no source package", logs)
	}
	return &plugins.BuildResult{SRPM: srpms[0], Logs: logs}, nil
}

// RPMBuild rebuilds a source package on the host with rpmbuild --rebuild.
type RPMBuild struct {
	plugins.Info
	runner plugins.Runner
}

func NewRPMBuild(runner plugins.Runner) *RPMBuild {
	return &RPMBuild{
		Info:   plugins.Info{PluginName: "rpmbuild", Tools: []string{"rpmbuild"}},
		runner: runner,
	}
}

func (b *RPMBuild) Build(ctx context.Context, req plugins.BuildRequest) (*plugins.BuildResult, error) {
	top := filepath.Join(req.ResultsDir, topDir)
	args := []string{"--rebuild", req.SRPM,
		"--define", "_topdir " + top,
		"--define", "_rpmdir " + req.ResultsDir,
	}
	iv := invocation{runner: b.runner, req: req, log: BuildLog}
	_, err := iv.run(ctx, "rpmbuild", append(args, req.Options...)...)
	logs := []string{filepath.Join(req.ResultsDir, BuildLog)}
	if err != nil {
		return &plugins.BuildResult{Logs: logs}, failure(types.BuildErrorRPM, err, logs)
	}

	_, rpms, err := packagesIn(req.ResultsDir)
	if err != nil {
		return nil, err
	}
	if len(rpms) == 0 {
		return &plugins.BuildResult{Logs: logs}, missing(types.BuildErrorRPM, "rpmbuild produced no binary packages", logs)
	}
	return &plugins.BuildResult{Packages: rpms, Logs: logs}, nil
}
