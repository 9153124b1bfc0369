// Package outputs renders the final report of a run.
package outputs

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Formatter turns checker and hook results into report lines.
type Formatter interface {
	CheckerLines(name string, res types.CheckerResult) []string
	HookLines(name string, res types.HookResult) []string
}

// RegistryFormatter formats results with the plugin that produced them,
// falling back to a generic listing for plugins the registry lacks.
type RegistryFormatter struct {
	Registry *plugins.Registry
}

func (f RegistryFormatter) CheckerLines(name string, res types.CheckerResult) []string {
	if res.Error != "" {
		return []string{"Failed: " + res.Error}
	}
	if f.Registry != nil {
		if c, ok := f.Registry.Plugins(plugins.KindChecker)[name].(plugins.Checker); ok {
			return c.Format(&res)
		}
	}
	keys := make([]string, 0, len(res.Data))
	for k := range res.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s: %v", k, res.Data[k]))
	}
	return lines
}

func (f RegistryFormatter) HookLines(name string, res types.HookResult) []string {
	if f.Registry != nil {
		if h, ok := f.Registry.Plugins(plugins.KindBuildLogHook)[name].(plugins.BuildLogHook); ok {
			return h.Format(res)
		}
	}
	var lines []string
	for _, section := range res.Sections() {
		for _, e := range res.Added[section] {
			lines = append(lines, fmt.Sprintf("%s: added %s", section, e))
		}
		for _, e := range res.Removed[section] {
			lines = append(lines, fmt.Sprintf("%s: removed %s", section, e))
		}
	}
	for _, e := range res.UnableToRemove {
		lines = append(lines, "unable to remove "+e)
	}
	return lines
}

// printSummary writes the short end-of-run summary shared by all renderers.
func printSummary(b *strings.Builder, rep *types.Report, color bool, reportPath string) {
	paint := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	b.WriteString(paint(styleTitle, fmt.Sprintf("%s %s -> %s", rep.Package, rep.OldVersion, rep.NewVersion)))
	b.WriteString("\n")

	byStatus := rep.PatchesByStatus()
	for _, status := range types.PatchStatuses {
		patches := byStatus[status]
		if len(patches) == 0 {
			continue
		}
		names := make([]string, len(patches))
		for i, p := range patches {
			names[i] = p.Name
		}
		line := fmt.Sprintf("  %s patches: %s", capitalize(string(status)), strings.Join(names, ", "))
		if status == types.PatchInapplicable {
			line = paint(styleWarn, line)
		}
		b.WriteString(line + "\n")
	}

	for _, side := range []struct {
		label string
		rec   *types.BuildRecord
	}{{"Old build", rep.OldBuild}, {"New build", rep.NewBuild}} {
		if side.rec == nil {
			continue
		}
		if side.rec.Succeeded() {
			b.WriteString(fmt.Sprintf("  %s: %s\n", side.label, paint(styleSuccess, "succeeded")))
		} else {
			b.WriteString(fmt.Sprintf("  %s: %s\n", side.label, paint(styleErr, "failed ("+string(side.rec.ErrorKind)+")")))
		}
	}

	if rep.Summary.Success {
		b.WriteString(paint(styleSuccess, rep.Summary.Message))
	} else {
		b.WriteString(paint(styleErr, rep.Summary.Message))
	}
	b.WriteString("\n")
	if reportPath != "" {
		b.WriteString(paint(styleDim, "Report: "+reportPath) + "\n")
	}
}

func reportPath(rep *types.Report, ext string) string {
	if rep.ResultsDir == "" {
		return ""
	}
	return filepath.Join(rep.ResultsDir, "report."+ext)
}

// relative shows p relative to the results directory when it lives there.
func relative(rep *types.Report, p string) string {
	if rep.ResultsDir == "" || !filepath.IsAbs(p) {
		return p
	}
	rel, err := filepath.Rel(rep.ResultsDir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
