package tui

import (
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/EmundoT/rebase-helper/internal/core"
)

// TUICallback implements UICallback for interactive terminal use with styled output.
//
//nolint:revive // Name TUICallback is intentional and descriptive
type TUICallback struct {
	out   io.Writer
	color bool
	tty   bool

	// confirm asks a yes/no question; a huh form unless replaced.
	confirm func(title, message string) (bool, error)

	// active is the running progress bar, if any. Status lines go through
	// it so they do not tear the bar.
	active *BubbleteaProgressTracker
}

// NewTUICallback creates an interactive callback writing to out.
func NewTUICallback(out io.Writer, color bool) *TUICallback {
	if out == nil {
		out = os.Stdout
	}
	return &TUICallback{
		out:     out,
		color:   color,
		tty:     IsTerminal(out),
		confirm: huhConfirm,
	}
}

// IsTerminal reports whether w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func huhConfirm(title, message string) (bool, error) {
	var confirm bool
	err := huh.NewConfirm().
		Title(title).
		Description(message).
		Value(&confirm).
		Affirmative("Yes").
		Negative("No").
		Run()
	return confirm, err
}

func (t *TUICallback) writer() io.Writer {
	if t.active != nil && !t.active.Finished() {
		return t.active
	}
	return t.out
}

// ShowError displays an error title and message.
func (t *TUICallback) ShowError(title, message string) {
	PrintError(t.writer(), t.color, title, message)
}

// ShowSuccess displays a success message with styled output.
func (t *TUICallback) ShowSuccess(message string) {
	PrintSuccess(t.writer(), t.color, message)
}

// ShowWarning displays a warning message with styled output.
func (t *TUICallback) ShowWarning(title, message string) {
	PrintWarning(t.writer(), t.color, title, message)
}

// ShowStage announces a pipeline stage.
func (t *TUICallback) ShowStage(stage, message string) {
	PrintStage(t.writer(), t.color, stage, message)
}

// AskConfirmation prompts the user for yes/no confirmation. A running
// progress bar is suspended while the prompt is open.
func (t *TUICallback) AskConfirmation(title, message string) bool {
	if t.active != nil && !t.active.Finished() {
		if err := t.active.ReleaseTerminal(); err == nil {
			defer func() { _ = t.active.RestoreTerminal() }()
		}
	}
	ok, err := t.confirm(title, message)
	if err != nil {
		return false
	}
	return ok
}

// StyleTitle returns a styled title string for terminal output.
func (t *TUICallback) StyleTitle(title string) string {
	if !t.color {
		return title
	}
	return StyleTitle(title)
}

// StartProgress draws a progress bar on terminals and plain lines
// elsewhere. A tracker started while a bar is running reports through it.
func (t *TUICallback) StartProgress(total int, label string) core.ProgressTracker {
	if t.active != nil && !t.active.Finished() {
		return NewTextProgressTracker(t.active, total, label)
	}
	if !t.tty {
		return NewTextProgressTracker(t.out, total, label)
	}
	t.active = NewBubbleteaProgressTracker(t.out, total, label)
	return t.active
}

// GetOutputMode returns the output mode (normal for interactive TUI)
func (t *TUICallback) GetOutputMode() core.OutputMode {
	return core.OutputNormal
}

// IsAutoApprove returns whether auto-approve is enabled (always false for interactive mode)
func (t *TUICallback) IsAutoApprove() bool {
	return false
}

// FormatJSON is not used in interactive mode
func (t *TUICallback) FormatJSON(_ core.JSONOutput) error {
	return nil
}
