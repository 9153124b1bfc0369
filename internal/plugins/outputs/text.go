package outputs

import (
	"fmt"
	"io"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/types"
)

// Text writes report.txt, a plain report meant for people.
type Text struct {
	plugins.Info
	format Formatter
}

func NewText(format Formatter) *Text {
	if format == nil {
		format = RegistryFormatter{}
	}
	return &Text{Info: plugins.Info{PluginName: "text", Default: true}, format: format}
}

func (t *Text) Extension() string { return "txt" }

func (t *Text) Render(w io.Writer, rep *types.Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "Summary information about package %s:\n", rep.Package)
	fmt.Fprintf(&b, "  Old version: %s\n", rep.OldVersion)
	fmt.Fprintf(&b, "  New version: %s\n", rep.NewVersion)
	fmt.Fprintf(&b, "  Result: %s\n", rep.Summary.Message)
	if !rep.Summary.Success {
		if rep.Summary.FailedStep != "" {
			fmt.Fprintf(&b, "  Failed step: %s\n", rep.Summary.FailedStep)
		}
		if rep.Summary.ErrorCode != "" {
			fmt.Fprintf(&b, "  Error code: %s\n", rep.Summary.ErrorCode)
		}
	}

	if len(rep.Patches) > 0 {
		b.WriteString("\nDownstream patches:\n")
		byStatus := rep.PatchesByStatus()
		for _, status := range types.PatchStatuses {
			patches := byStatus[status]
			if len(patches) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s:\n", capitalize(string(status)))
			for _, p := range patches {
				line := "    - " + p.Name
				if p.Reason != "" {
					line += " (" + p.Reason + ")"
				}
				b.WriteString(line + "\n")
				for _, r := range p.Rejects {
					fmt.Fprintf(&b, "      rejected: %s\n", relative(rep, r))
				}
			}
		}
	}

	if rep.OldBuild != nil || rep.NewBuild != nil {
		b.WriteString("\nBuilds:\n")
		writeBuild(&b, rep, "Old", rep.OldBuild)
		writeBuild(&b, rep, "New", rep.NewBuild)
	}

	if len(rep.Hooks) > 0 {
		b.WriteString("\nBuild log hooks:\n")
		for _, name := range sortedKeys(rep.Hooks) {
			fmt.Fprintf(&b, "  %s:\n", name)
			for _, line := range t.format.HookLines(name, rep.Hooks[name]) {
				fmt.Fprintf(&b, "    %s\n", line)
			}
		}
	}

	if len(rep.Checkers) > 0 {
		b.WriteString("\nCheckers:\n")
		for _, name := range sortedKeys(rep.Checkers) {
			res := rep.Checkers[name]
			fmt.Fprintf(&b, "  %s:\n", name)
			for _, line := range t.format.CheckerLines(name, res) {
				fmt.Fprintf(&b, "    %s\n", line)
			}
			for _, a := range res.Artifacts {
				fmt.Fprintf(&b, "    artifact: %s\n", relative(rep, a))
			}
		}
	}

	if rep.ChangesPatch != "" {
		fmt.Fprintf(&b, "\nChanges patch: %s\n", relative(rep, rep.ChangesPatch))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func writeBuild(b *strings.Builder, rep *types.Report, label string, rec *types.BuildRecord) {
	if rec == nil {
		return
	}
	status := "succeeded"
	if !rec.Succeeded() {
		status = "failed (" + string(rec.ErrorKind) + ")"
	}
	via := rec.Builder
	if rec.FromHub {
		via = "remote hub"
	}
	if via != "" {
		status += " with " + via
	}
	fmt.Fprintf(b, "  %s (%s): %s\n", label, rec.Version, status)
	if rec.ErrorDetail != "" {
		fmt.Fprintf(b, "    %s\n", rec.ErrorDetail)
	}
	if rec.SRPM != "" {
		fmt.Fprintf(b, "    SRPM: %s\n", relative(rep, rec.SRPM))
	}
	for _, p := range rec.Packages {
		fmt.Fprintf(b, "    RPM: %s\n", relative(rep, p))
	}
	for _, l := range rec.Logs {
		fmt.Fprintf(b, "    log: %s\n", relative(rep, l))
	}
}

func (t *Text) PrintSummary(w io.Writer, rep *types.Report, color bool) error {
	var b strings.Builder
	printSummary(&b, rep, color, reportPath(rep, t.Extension()))
	_, err := io.WriteString(w, b.String())
	return err
}
