package core

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/EmundoT/rebase-helper/pkg/logger"
)

func TestLogFollower_DrainCompleteLines(t *testing.T) {
	var buf bytes.Buffer
	log := &logger.Logger{Logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: logger.LevelVerbose}))}
	f := &LogFollower{log: log, offsets: map[string]int64{}, partial: map[string]string{}}

	path := filepath.Join(t.TempDir(), "build.log")
	write := func(s string) {
		fh, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fh.WriteString(s)
		_ = fh.Close()
	}

	write("Executing(%build)\n+ make\nExecut")
	f.drain(context.Background(), path)
	out := buf.String()
	if !strings.Contains(out, "Executing(%build)") || !strings.Contains(out, "+ make") {
		t.Errorf("complete lines not logged:\n%s", out)
	}
	if strings.Contains(out, "Execut\n") || f.partial[path] != "Execut" {
		t.Errorf("partial line handled wrong, partial = %q", f.partial[path])
	}

	write("ing(%install)\n")
	f.drain(context.Background(), path)
	if !strings.Contains(buf.String(), "Executing(%install)") {
		t.Errorf("continued line not joined:\n%s", buf.String())
	}
	if f.partial[path] != "" {
		t.Errorf("partial = %q, want empty", f.partial[path])
	}
}

func TestFollowLogs_Stop(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "RPM")
	f, err := FollowLogs(context.Background(), dir, logger.Discard())
	if err != nil {
		t.Fatalf("FollowLogs failed: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Errorf("directory not created: %v", err)
	}
	f.Stop()
	f.Stop()
}
