package checkers

import (
	"context"
	"fmt"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// Files reports files added to and removed from each package.
type Files struct {
	plugins.Info
	runner plugins.Runner
}

func NewFiles(runner plugins.Runner) *Files {
	return &Files{
		Info:   plugins.Info{PluginName: "files", Default: true, Tools: []string{"rpm"}},
		runner: runner,
	}
}

func (c *Files) Run(ctx context.Context, req plugins.CheckRequest) (*types.CheckerResult, error) {
	oldPkgs, newPkgs := byName(req.Old.Packages), byName(req.New.Packages)
	added := make(map[string][]string)
	removed := make(map[string][]string)
	var pkgsAdded, pkgsRemoved []string

	for _, name := range unionNames(oldPkgs, newPkgs) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		oldFile, inOld := oldPkgs[name]
		newFile, inNew := newPkgs[name]
		switch {
		case !inOld:
			pkgsAdded = append(pkgsAdded, name)
			continue
		case !inNew:
			pkgsRemoved = append(pkgsRemoved, name)
			continue
		}
		oldFiles, err := queryFiles(ctx, c.runner, oldFile)
		if err != nil {
			return nil, err
		}
		newFiles, err := queryFiles(ctx, c.runner, newFile)
		if err != nil {
			return nil, err
		}
		if a := setDiff(newFiles, oldFiles); len(a) > 0 {
			added[name] = a
		}
		if r := setDiff(oldFiles, newFiles); len(r) > 0 {
			removed[name] = r
		}
	}

	data := map[string]any{"added": added, "removed": removed}
	if len(pkgsAdded) > 0 {
		data["packages_added"] = pkgsAdded
	}
	if len(pkgsRemoved) > 0 {
		data["packages_removed"] = pkgsRemoved
	}
	return &types.CheckerResult{Name: c.Name(), Data: data}, nil
}

func (c *Files) Format(res *types.CheckerResult) []string {
	var lines []string
	for _, p := range stringsOf(res.Data["packages_added"]) {
		lines = append(lines, "New package: "+p)
	}
	for _, p := range stringsOf(res.Data["packages_removed"]) {
		lines = append(lines, "Removed package: "+p)
	}
	for _, kind := range []struct{ key, label string }{{"added", "Added"}, {"removed", "Removed"}} {
		changes := listsOf(res.Data[kind.key])
		for _, name := range sortedKeys(changes) {
			lines = append(lines, fmt.Sprintf("%s files in %s: %s", kind.label, name, strings.Join(changes[name], ", ")))
		}
	}
	if len(lines) == 0 {
		return []string{"No file changes"}
	}
	return lines
}
