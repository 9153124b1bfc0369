package tui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// ========================================
// Bubbletea Progress Model
// ========================================

// progressModel renders the stage progress of one run
type progressModel struct {
	current int
	total   int
	label   string
	message string
	done    bool
	failed  bool
	err     error
	width   int
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case progressIncrementMsg:
		if m.current < m.total {
			m.current++
		}
		m.message = msg.message
	case progressSetTotalMsg:
		m.total = msg.total
	case progressCompleteMsg:
		m.done = true
		return m, tea.Quit
	case progressFailMsg:
		m.failed = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	if m.done {
		return styleSuccess.Render(fmt.Sprintf("✓ %s (completed: %d/%d)", m.label, m.current, m.total)) + "\n"
	}
	if m.failed {
		return styleErr.Render(fmt.Sprintf("✗ %s (failed: %v)", m.label, m.err)) + "\n"
	}

	barWidth := 40
	if m.width < 80 {
		barWidth = 20
	}
	filled := 0
	if m.total > 0 {
		filled = m.current * barWidth / m.total
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)

	status := fmt.Sprintf("[%s] %d/%d", bar, m.current, m.total)
	if m.message != "" {
		status += " - " + m.message
	}
	return fmt.Sprintf("%s\n%s", styleTitle.Render(m.label), status)
}

// ========================================
// Bubbletea Messages
// ========================================

type progressIncrementMsg struct {
	message string
}

type progressSetTotalMsg struct {
	total int
}

type progressCompleteMsg struct{}

type progressFailMsg struct {
	err error
}

// ========================================
// BubbleteaProgressTracker Implementation
// ========================================

// BubbleteaProgressTracker draws a progress bar on a terminal. Lines
// printed through Println appear above the bar while it runs.
type BubbleteaProgressTracker struct {
	program *tea.Program
	exited  chan struct{}

	mu       sync.Mutex
	finished bool
}

// NewBubbleteaProgressTracker starts a progress program writing to out.
// The program never reads stdin so confirmation prompts keep working.
func NewBubbleteaProgressTracker(out io.Writer, total int, label string) *BubbleteaProgressTracker {
	m := progressModel{total: total, label: label, width: 80}
	t := &BubbleteaProgressTracker{
		program: tea.NewProgram(m, tea.WithOutput(out), tea.WithInput(nil), tea.WithoutSignalHandler()),
		exited:  make(chan struct{}),
	}
	go func() {
		defer close(t.exited)
		_, _ = t.program.Run()
	}()
	return t
}

// Increment advances the bar by one step.
func (t *BubbleteaProgressTracker) Increment(message string) {
	t.program.Send(progressIncrementMsg{message: message})
}

// SetTotal changes the number of steps.
func (t *BubbleteaProgressTracker) SetTotal(total int) {
	t.program.Send(progressSetTotalMsg{total: total})
}

// Complete marks the run as complete and waits for the final render.
func (t *BubbleteaProgressTracker) Complete() {
	t.finish(progressCompleteMsg{})
}

// Fail marks the run as failed and waits for the final render.
func (t *BubbleteaProgressTracker) Fail(err error) {
	t.finish(progressFailMsg{err: err})
}

func (t *BubbleteaProgressTracker) finish(msg tea.Msg) {
	t.mu.Lock()
	if t.finished {
		t.mu.Unlock()
		return
	}
	t.finished = true
	t.mu.Unlock()
	t.program.Send(msg)
	<-t.exited
}

// Finished reports whether Complete or Fail was called.
func (t *BubbleteaProgressTracker) Finished() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finished
}

// Println prints a line above the progress bar.
func (t *BubbleteaProgressTracker) Println(line string) {
	t.program.Println(line)
}

// ReleaseTerminal hands the terminal back, e.g. for a prompt.
func (t *BubbleteaProgressTracker) ReleaseTerminal() error {
	return t.program.ReleaseTerminal()
}

// RestoreTerminal takes the terminal back after ReleaseTerminal.
func (t *BubbleteaProgressTracker) RestoreTerminal() error {
	return t.program.RestoreTerminal()
}

// Write implements io.Writer, one Println per line.
func (t *BubbleteaProgressTracker) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		t.Println(line)
	}
	return len(p), nil
}

// ========================================
// Text Progress (Non-TTY)
// ========================================

// TextProgressTracker provides simple text-based progress
type TextProgressTracker struct {
	out     io.Writer
	current int
	total   int
	label   string
}

// NewTextProgressTracker creates a text progress tracker writing to out
func NewTextProgressTracker(out io.Writer, total int, label string) *TextProgressTracker {
	fmt.Fprintf(out, "Starting: %s (0/%d)\n", label, total)
	return &TextProgressTracker{out: out, total: total, label: label}
}

// Increment updates progress with a message.
func (t *TextProgressTracker) Increment(message string) {
	t.current++
	msg := fmt.Sprintf("  [%d/%d]", t.current, t.total)
	if message != "" {
		msg += " " + message
	}
	fmt.Fprintln(t.out, msg)
}

// SetTotal sets the total count for the progress tracker.
func (t *TextProgressTracker) SetTotal(total int) {
	t.total = total
}

// Complete marks the operation as complete.
func (t *TextProgressTracker) Complete() {
	fmt.Fprintf(t.out, "✓ %s: Completed (%d/%d)\n", t.label, t.current, t.total)
}

// Fail marks the operation as failed with an error.
func (t *TextProgressTracker) Fail(err error) {
	fmt.Fprintf(t.out, "✗ %s: Failed - %v\n", t.label, err)
}

// ========================================
// No-Op Progress (Quiet/JSON)
// ========================================

// NoOpProgressTracker does nothing (for quiet/JSON/testing modes)
type NoOpProgressTracker struct{}

// NewNoOpProgressTracker creates a new no-op progress tracker
func NewNoOpProgressTracker() *NoOpProgressTracker {
	return &NoOpProgressTracker{}
}

func (t *NoOpProgressTracker) Increment(_ string) {}
func (t *NoOpProgressTracker) SetTotal(_ int)     {}
func (t *NoOpProgressTracker) Complete()          {}
func (t *NoOpProgressTracker) Fail(_ error)       {}
