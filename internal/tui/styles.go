// Package tui provides the terminal front end of rebase-helper: styled
// status lines, confirmation prompts and progress displays.
package tui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	styleErr     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0000"))
	styleSuccess = lipgloss.NewStyle().Foreground(lipgloss.Color("#00FF00"))
	styleWarn    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	styleStage   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5FAFFF"))
	styleDim     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// painter renders styles only when color output is enabled.
type painter bool

func (p painter) render(s lipgloss.Style, text string) string {
	if !p {
		return text
	}
	return s.Render(text)
}

// PrintError writes a styled error title followed by the message.
func PrintError(w io.Writer, color bool, title, msg string) {
	fmt.Fprintln(w, painter(color).render(styleErr, "✖ "+title))
	if msg != "" {
		fmt.Fprintln(w, msg)
	}
}

// PrintSuccess writes a styled success line.
func PrintSuccess(w io.Writer, color bool, msg string) {
	fmt.Fprintln(w, painter(color).render(styleSuccess, "✔ "+msg))
}

// PrintWarning writes a styled warning title followed by the message.
func PrintWarning(w io.Writer, color bool, title, msg string) {
	fmt.Fprintln(w, painter(color).render(styleWarn, "! "+title))
	if msg != "" {
		fmt.Fprintln(w, msg)
	}
}

// PrintStage writes a pipeline stage line, e.g. "[build_old] building the old packages".
func PrintStage(w io.Writer, color bool, stage, msg string) {
	line := painter(color).render(styleStage, "["+stage+"]")
	if msg != "" {
		line += " " + painter(color).render(styleDim, msg)
	}
	fmt.Fprintln(w, line)
}

// StyleTitle applies title styling to the given text string.
func StyleTitle(text string) string { return styleTitle.Render(text) }
