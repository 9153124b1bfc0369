package checkers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// abipkgdiff exit status bits.
const (
	abiError        = 1
	abiUsageError   = 2
	abiChange       = 4
	abiIncompatible = 8
)

// ABI verdicts per package.
const (
	ABICompatible   = "compatible"
	ABIChanged      = "changed"
	ABIIncompatible = "incompatible"
)

// ABIPkgDiff compares the ABI of shared libraries and executables with
// libabigail's abipkgdiff.
type ABIPkgDiff struct {
	plugins.Info
	runner plugins.Runner
}

func NewABIPkgDiff(runner plugins.Runner) *ABIPkgDiff {
	return &ABIPkgDiff{
		Info:   plugins.Info{PluginName: "abipkgdiff", Default: true, Tools: []string{"abipkgdiff"}},
		runner: runner,
	}
}

func (c *ABIPkgDiff) Run(ctx context.Context, req plugins.CheckRequest) (*types.CheckerResult, error) {
	if err := os.MkdirAll(req.ResultsDir, 0755); err != nil {
		return nil, err
	}
	oldPkgs, newPkgs := byName(req.Old.Packages), byName(req.New.Packages)
	verdicts := make(map[string]string)
	res := &types.CheckerResult{Name: c.Name()}

	for _, name := range sortedKeys(newPkgs) {
		if isDebugPackage(name) {
			continue
		}
		oldFile, ok := oldPkgs[name]
		if !ok {
			continue
		}
		if nvra, _ := rpmver.ParseFilename(newPkgs[name]); nvra.Arch == "noarch" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var args []string
		if d := oldPkgs[name+"-debuginfo"]; d != "" {
			args = append(args, "--d1", d)
		}
		if d := newPkgs[name+"-debuginfo"]; d != "" {
			args = append(args, "--d2", d)
		}
		args = append(args, oldFile, newPkgs[name])

		out, err := c.runner.Run(ctx, req.ResultsDir, nil, "abipkgdiff", args...)
		code := 0
		if err != nil {
			var ok bool
			if code, ok = plugins.ExitCode(err); !ok || code&(abiError|abiUsageError) != 0 {
				return nil, fmt.Errorf("abipkgdiff %s: %w", name, err)
			}
		}

		switch {
		case code&abiIncompatible != 0:
			verdicts[name] = ABIIncompatible
		case code&abiChange != 0:
			verdicts[name] = ABIChanged
		default:
			verdicts[name] = ABICompatible
			continue
		}
		report := filepath.Join(req.ResultsDir, name+".txt")
		if err := os.WriteFile(report, out, 0644); err != nil {
			return nil, err
		}
		res.Artifacts = append(res.Artifacts, report)
	}

	res.Data = map[string]any{"packages": verdicts}
	if req.Log != nil {
		req.Log.Debug("abipkgdiff finished", "compared", len(verdicts), "reports", len(res.Artifacts))
	}
	return res, nil
}

func (c *ABIPkgDiff) Format(res *types.CheckerResult) []string {
	verdicts := stringMapOf(res.Data["packages"])
	if len(verdicts) == 0 {
		return []string{"No packages with binaries to compare"}
	}
	var lines []string
	for _, name := range sortedKeys(verdicts) {
		switch verdicts[name] {
		case ABIIncompatible:
			lines = append(lines, fmt.Sprintf("Incompatible ABI changes in %s", name))
		case ABIChanged:
			lines = append(lines, fmt.Sprintf("ABI changes in %s", name))
		}
	}
	if len(lines) == 0 {
		return []string{"No ABI changes"}
	}
	return append(lines, "Details: "+strings.Join(res.Artifacts, ", "))
}

func isDebugPackage(name string) bool {
	return strings.HasSuffix(name, "-debuginfo") || strings.HasSuffix(name, "-debugsource")
}
