package builders

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// DefaultKojiTarget is used unless the builder options carry --target=NAME.
const DefaultKojiTarget = "rawhide"

const kojiOutput = "koji_output.log"

var taskRe = regexp.MustCompile(`Created task:\s*(\d+)`)

// Koji runs scratch builds on a Koji hub and downloads the results.
type Koji struct {
	plugins.Info
	runner  plugins.Runner
	profile string
}

func NewKoji(runner plugins.Runner, profile string) *Koji {
	if profile == "" {
		profile = "koji"
	}
	return &Koji{
		Info:    plugins.Info{PluginName: "koji", Tools: []string{"koji"}},
		runner:  runner,
		profile: profile,
	}
}

func (b *Koji) Build(ctx context.Context, req plugins.BuildRequest) (*plugins.BuildResult, error) {
	target := DefaultKojiTarget
	var opts []string
	for _, o := range req.Options {
		if t, ok := strings.CutPrefix(o, "--target="); ok {
			target = t
			continue
		}
		opts = append(opts, o)
	}

	args := append([]string{"-p", b.profile, "build", "--scratch", "--wait"}, opts...)
	args = append(args, target, req.SRPM)
	iv := invocation{runner: b.runner, req: req, dir: req.ResultsDir, log: kojiOutput}
	out, buildErr := iv.run(ctx, "koji", args...)

	task := ""
	if m := taskRe.FindStringSubmatch(out); m != nil {
		task = m[1]
	}
	if task == "" {
		if buildErr == nil {
			buildErr = errors.New("koji did not report a task id")
		}
		be := failure(types.BuildErrorRPM, buildErr, logsIn(req.ResultsDir))
		be.Transport = true
		return nil, be
	}
	requestLog(req).Info("koji task created", "task", task, "target", target)

	dl := []string{"-p", b.profile, "download-task", "--logs"}
	if buildErr == nil {
		dl = []string{"-p", b.profile, "download-task", "--noprogress"}
	}
	download := invocation{runner: b.runner, req: req, dir: req.ResultsDir, log: "koji_download.log"}
	if _, err := download.run(ctx, "koji", append(dl, task)...); err != nil {
		be := failure(types.BuildErrorRPM, fmt.Errorf("downloading task %s: %w", task, err), logsIn(req.ResultsDir))
		be.Transport = true
		return nil, be
	}

	logs := logsIn(req.ResultsDir)
	if buildErr != nil {
		return &plugins.BuildResult{Logs: logs}, failure(types.BuildErrorRPM, buildErr, logs)
	}
	_, rpms, err := packagesIn(req.ResultsDir)
	if err != nil {
		return nil, err
	}
	if len(rpms) == 0 {
		return &plugins.BuildResult{Logs: logs}, missing(types.BuildErrorRPM, fmt.Sprintf("task %s produced no binary packages", task), logs)
	}
	return &plugins.BuildResult{Packages: rpms, Logs: logs}, nil
}
