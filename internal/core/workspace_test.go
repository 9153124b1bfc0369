package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWorkspace_Layout(t *testing.T) {
	w := NewWorkspace("/ws", "/results")

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"downloads", w.Downloads(), "/ws/downloads"},
		{"old sources", w.Sources(SideOld), "/ws/old-sources"},
		{"new sources", w.Sources(SideNew), "/ws/new-sources"},
		{"old spec", w.SpecDir(SideOld), "/ws/old-spec"},
		{"new spec", w.SpecDir(SideNew), "/results/rebased-sources"},
		{"old build", w.BuildDir(SideOld), "/results/old-build"},
		{"new build", w.BuildDir(SideNew), "/results/new-build"},
		{"report", w.Report("json"), "/results/report.json"},
		{"changes", w.ChangesPatch(), "/results/changes.patch"},
		{"conflicts", w.Conflicts(), "/results/conflicts"},
	}
	for _, tt := range tests {
		if filepath.ToSlash(tt.got) != tt.want {
			t.Errorf("%s = %s, want %s", tt.name, tt.got, tt.want)
		}
	}
}

func TestWorkspace_CreateAndReset(t *testing.T) {
	root := t.TempDir()
	w := NewWorkspace(filepath.Join(root, "ws"), filepath.Join(root, "results"))
	if err := w.Create(); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	for _, dir := range []string{w.Downloads(), w.Logs()} {
		if fi, err := os.Stat(dir); err != nil || !fi.IsDir() {
			t.Errorf("%s not created", dir)
		}
	}

	for _, dir := range []string{w.Sources(SideNew), w.BuildDir(SideNew), w.Sources(SideOld)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.ResetSide(SideNew); err != nil {
		t.Fatalf("ResetSide failed: %v", err)
	}
	for _, dir := range []string{w.Sources(SideNew), w.BuildDir(SideNew)} {
		if _, err := os.Stat(dir); !os.IsNotExist(err) {
			t.Errorf("%s should be removed", dir)
		}
	}
	if _, err := os.Stat(w.Sources(SideOld)); err != nil {
		t.Error("the old side must be kept")
	}
}
