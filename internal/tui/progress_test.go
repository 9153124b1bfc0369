package tui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

// TestNoOpProgressTracker verifies no-op tracker doesn't panic
func TestNoOpProgressTracker(_ *testing.T) {
	tracker := NewNoOpProgressTracker()

	// Should not panic
	tracker.Increment("test")
	tracker.SetTotal(100)
	tracker.Complete()
	tracker.Fail(nil)
	tracker.Fail(errors.New("test error"))
}

func TestTextProgressTracker(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTextProgressTracker(&buf, 5, "pello")
	tracker.Increment("download")
	tracker.Increment("prep_old")
	tracker.SetTotal(10)
	tracker.Increment("prep_new")
	tracker.Complete()

	want := strings.Join([]string{
		"Starting: pello (0/5)",
		"  [1/5] download",
		"  [2/5] prep_old",
		"  [3/10] prep_new",
		"✓ pello: Completed (3/10)",
		"",
	}, "\n")
	if buf.String() != want {
		t.Errorf("output mismatch\n got: %q\nwant: %q", buf.String(), want)
	}
}

func TestTextProgressTrackerFailure(t *testing.T) {
	var buf bytes.Buffer
	tracker := NewTextProgressTracker(&buf, 3, "pello")
	tracker.Increment("download")
	tracker.Fail(errors.New("simulated error"))

	if !strings.Contains(buf.String(), "✗ pello: Failed - simulated error") {
		t.Errorf("missing failure line, got: %q", buf.String())
	}
}

func TestTextProgressTracker_IncrementEmptyMessage(t *testing.T) {
	var buf bytes.Buffer
	NewTextProgressTracker(&buf, 2, "op").Increment("")
	if !strings.HasSuffix(buf.String(), "  [1/2]\n") {
		t.Errorf("increment with empty message, got: %q", buf.String())
	}
}

// --- progressModel direct tests ---

func TestProgressModel_Init(t *testing.T) {
	m := progressModel{total: 5, label: "test"}
	cmd := m.Init()
	if cmd != nil {
		t.Error("Init should return nil cmd")
	}
}

func TestProgressModel_Update_WindowSize(t *testing.T) {
	m := progressModel{total: 5, label: "test", width: 80}
	updated, cmd := m.Update(tea.WindowSizeMsg{Width: 60, Height: 24})
	if cmd != nil {
		t.Error("Update with WindowSizeMsg should return nil cmd")
	}
	model := updated.(progressModel)
	if model.width != 60 {
		t.Errorf("width = %d, want 60", model.width)
	}
}

func TestProgressModel_Update_Increment(t *testing.T) {
	m := progressModel{total: 5, label: "test", current: 0}
	updated, cmd := m.Update(progressIncrementMsg{message: "step one"})
	if cmd != nil {
		t.Error("Update with increment should return nil cmd")
	}
	model := updated.(progressModel)
	if model.current != 1 {
		t.Errorf("current = %d, want 1", model.current)
	}
	if model.message != "step one" {
		t.Errorf("message = %q, want %q", model.message, "step one")
	}
}

func TestProgressModel_Update_SetTotal(t *testing.T) {
	m := progressModel{total: 5, label: "test"}
	updated, _ := m.Update(progressSetTotalMsg{total: 20})
	model := updated.(progressModel)
	if model.total != 20 {
		t.Errorf("total = %d, want 20", model.total)
	}
}

func TestProgressModel_Update_Complete(t *testing.T) {
	m := progressModel{total: 5, label: "test", current: 5}
	updated, cmd := m.Update(progressCompleteMsg{})
	model := updated.(progressModel)
	if !model.done {
		t.Error("done should be true after complete")
	}
	// Should return tea.Quit
	if cmd == nil {
		t.Error("complete should return a quit cmd")
	}
}

func TestProgressModel_Update_Fail(t *testing.T) {
	m := progressModel{total: 5, label: "test"}
	testErr := errors.New("test failure")
	updated, cmd := m.Update(progressFailMsg{err: testErr})
	model := updated.(progressModel)
	if !model.failed {
		t.Error("failed should be true after fail msg")
	}
	if model.err != testErr {
		t.Errorf("err = %v, want %v", model.err, testErr)
	}
	if cmd == nil {
		t.Error("fail should return a quit cmd")
	}
}

func TestProgressModel_View_InProgress(t *testing.T) {
	m := progressModel{total: 10, label: "syncing", current: 5, width: 80}
	view := m.View()
	if !strings.Contains(view, "syncing") {
		t.Errorf("View missing label, got: %q", view)
	}
	if !strings.Contains(view, "5/10") {
		t.Errorf("View missing progress count, got: %q", view)
	}
}

func TestProgressModel_View_InProgressWithMessage(t *testing.T) {
	m := progressModel{total: 10, label: "syncing", current: 3, message: "build_old", width: 80}
	view := m.View()
	if !strings.Contains(view, "build_old") {
		t.Errorf("View missing message, got: %q", view)
	}
}

func TestProgressModel_View_InProgressNarrow(t *testing.T) {
	m := progressModel{total: 10, label: "syncing", current: 5, width: 60}
	view := m.View()
	// Narrow width (< 80) should use shorter bar
	if !strings.Contains(view, "5/10") {
		t.Errorf("View (narrow) missing progress count, got: %q", view)
	}
}

func TestProgressModel_View_Done(t *testing.T) {
	m := progressModel{total: 5, label: "syncing", current: 5, done: true}
	view := m.View()
	if !strings.Contains(view, "completed") {
		t.Errorf("View (done) missing 'completed', got: %q", view)
	}
	if !strings.Contains(view, "5/5") {
		t.Errorf("View (done) missing count, got: %q", view)
	}
}

func TestProgressModel_View_Failed(t *testing.T) {
	m := progressModel{total: 5, label: "syncing", failed: true, err: errors.New("timeout")}
	view := m.View()
	if !strings.Contains(view, "failed") {
		t.Errorf("View (failed) missing 'failed', got: %q", view)
	}
	if !strings.Contains(view, "timeout") {
		t.Errorf("View (failed) missing error, got: %q", view)
	}
}

func TestProgressModel_IncrementStopsAtTotal(t *testing.T) {
	m := progressModel{total: 1, label: "test"}
	updated, _ := m.Update(progressIncrementMsg{message: "a"})
	updated, _ = updated.Update(progressIncrementMsg{message: "b"})
	if got := updated.(progressModel).current; got != 1 {
		t.Errorf("current = %d, want 1", got)
	}
}

func TestProgressModel_View_ZeroTotal(t *testing.T) {
	m := progressModel{label: "checkers", width: 80}
	if view := m.View(); !strings.Contains(view, "0/0") {
		t.Errorf("View missing count, got: %q", view)
	}
}
