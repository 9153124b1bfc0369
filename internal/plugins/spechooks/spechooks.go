// Package spechooks adjusts a freshly re-versioned spec before its sources
// are fetched and its patches applied.
package spechooks

import (
	"context"
	"regexp"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/hostdetect"
	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/specfile"
)

// absPathRe finds absolute paths at the start of a line or after blanks.
var absPathRe = regexp.MustCompile(`(^|\s)(/[^\s]*)`)

// PathsToRPMMacros rewrites absolute paths in %files sections into the
// matching path macros.
type PathsToRPMMacros struct {
	plugins.Info
}

func NewPathsToRPMMacros() *PathsToRPMMacros {
	return &PathsToRPMMacros{Info: plugins.Info{PluginName: "paths-to-rpm-macros", Default: true}}
}

func (h *PathsToRPMMacros) Run(ctx context.Context, req plugins.SpecHookRequest) (bool, error) {
	spec := req.Spec
	changed := false
	for _, section := range spec.FilesSections() {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		body, _ := spec.Section(section)
		updated := make([]string, len(body))
		dirty := false
		for i, line := range body {
			updated[i] = substituteLine(spec, line)
			if updated[i] != line {
				dirty = true
			}
		}
		if !dirty {
			continue
		}
		if err := spec.ReplaceSection(section, updated); err != nil {
			return changed, err
		}
		changed = true
		if req.Log != nil {
			req.Log.Debug("replaced paths with macros", "section", section)
		}
	}
	return changed, nil
}

func substituteLine(spec *specfile.Spec, line string) string {
	if strings.HasPrefix(strings.TrimSpace(line), "#") {
		return line
	}
	return absPathRe.ReplaceAllStringFunc(line, func(m string) string {
		sub := absPathRe.FindStringSubmatch(m)
		return sub[1] + spec.SubstitutePathMacros(sub[2])
	})
}

const pypiSourceBase = "https://files.pythonhosted.org/packages/source/"

// pypiHashRe matches "https://files.pythonhosted.org/packages/ab/cd/<hash>/<file>".
var pypiHashRe = regexp.MustCompile(`^https?://files\.pythonhosted\.org/packages/[0-9a-f]{2}/[0-9a-f]{2}/[0-9a-f]{60}/([^/]+)$`)

// PyPIURLFix replaces content-addressed PyPI download URLs, which only ever
// serve one release, with the version independent /packages/source/ form.
type PyPIURLFix struct {
	plugins.Info
}

func NewPyPIURLFix() *PyPIURLFix {
	return &PyPIURLFix{Info: plugins.Info{PluginName: "pypi-url-fix", Cats: []string{"python"}, Default: true}}
}

func (h *PyPIURLFix) Run(ctx context.Context, req plugins.SpecHookRequest) (bool, error) {
	spec := req.Spec
	changed := false
	for _, src := range spec.Sources() {
		if err := ctx.Err(); err != nil {
			return changed, err
		}
		m := pypiHashRe.FindStringSubmatch(src.Raw)
		if m == nil {
			continue
		}
		info := hostdetect.FromURL(src.Expanded)
		if info == nil || info.Provider != hostdetect.ProviderPyPI {
			continue
		}
		fixed := pypiSourceBase + info.Repo[:1] + "/" + info.Repo + "/" + m[1]
		if err := spec.SetSource(src.Index, fixed); err != nil {
			return changed, err
		}
		changed = true
		if req.Log != nil {
			req.Log.Info("replaced PyPI hash URL", "source", src.Index, "url", fixed)
		}
	}
	return changed, nil
}
