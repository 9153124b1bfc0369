package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/EmundoT/rebase-helper/internal/core"
)

// NonInteractiveTUICallback handles non-interactive mode output
type NonInteractiveTUICallback struct {
	flags  core.NonInteractiveFlags
	stdout io.Writer
	stderr io.Writer
}

// NewNonInteractiveTUICallback creates a new non-interactive callback
// writing to the process's stdout and stderr.
func NewNonInteractiveTUICallback(flags core.NonInteractiveFlags) *NonInteractiveTUICallback {
	return NewNonInteractiveTUICallbackTo(flags, os.Stdout, os.Stderr)
}

// NewNonInteractiveTUICallbackTo creates a non-interactive callback with
// explicit writers.
func NewNonInteractiveTUICallbackTo(flags core.NonInteractiveFlags, stdout, stderr io.Writer) *NonInteractiveTUICallback {
	return &NonInteractiveTUICallback{flags: flags, stdout: stdout, stderr: stderr}
}

// ShowError displays an error message
func (n *NonInteractiveTUICallback) ShowError(title, message string) {
	switch n.flags.Mode {
	case core.OutputJSON:
		_ = n.FormatJSON(core.JSONOutput{
			Status: "error",
			Error: &core.JSONError{
				Title:   title,
				Message: message,
			},
		})
	default:
		// errors are shown even in quiet mode
		fmt.Fprintf(n.stderr, "Error: %s - %s\n", title, message)
	}
}

// ShowSuccess displays a success message
func (n *NonInteractiveTUICallback) ShowSuccess(message string) {
	switch n.flags.Mode {
	case core.OutputJSON:
		_ = n.FormatJSON(core.JSONOutput{Status: "success", Message: message})
	case core.OutputNormal:
		fmt.Fprintln(n.stdout, message)
	}
}

// ShowWarning displays a warning message
func (n *NonInteractiveTUICallback) ShowWarning(title, message string) {
	switch n.flags.Mode {
	case core.OutputJSON:
		_ = n.FormatJSON(core.JSONOutput{
			Status:  "warning",
			Message: fmt.Sprintf("%s: %s", title, message),
		})
	case core.OutputNormal:
		fmt.Fprintf(n.stderr, "Warning: %s - %s\n", title, message)
	}
}

// ShowStage announces a pipeline stage
func (n *NonInteractiveTUICallback) ShowStage(stage, message string) {
	switch n.flags.Mode {
	case core.OutputJSON:
		_ = n.FormatJSON(core.JSONOutput{
			Status:  "stage",
			Message: message,
			Data:    map[string]interface{}{"stage": stage},
		})
	case core.OutputNormal:
		PrintStage(n.stdout, n.flags.Color, stage, message)
	}
}

// AskConfirmation handles confirmation prompts
func (n *NonInteractiveTUICallback) AskConfirmation(title, message string) bool {
	if n.flags.Yes {
		return true
	}
	// Without --yes there is nobody to ask; refuse.
	n.ShowError("Interactive Prompt Required",
		fmt.Sprintf("%s: %s\nUse --yes to auto-approve", title, message))
	return false
}

// StyleTitle returns a styled title (no styling in non-interactive mode)
func (n *NonInteractiveTUICallback) StyleTitle(title string) string {
	return title
}

// StartProgress reports progress as text lines in normal mode only.
func (n *NonInteractiveTUICallback) StartProgress(total int, label string) core.ProgressTracker {
	if n.flags.Mode != core.OutputNormal {
		return NewNoOpProgressTracker()
	}
	return NewTextProgressTracker(n.stdout, total, label)
}

// GetOutputMode returns the current output mode
func (n *NonInteractiveTUICallback) GetOutputMode() core.OutputMode {
	return n.flags.Mode
}

// IsAutoApprove returns whether auto-approve is enabled
func (n *NonInteractiveTUICallback) IsAutoApprove() bool {
	return n.flags.Yes
}

// FormatJSON writes one JSON object per line to stdout
func (n *NonInteractiveTUICallback) FormatJSON(output core.JSONOutput) error {
	return json.NewEncoder(n.stdout).Encode(output)
}
