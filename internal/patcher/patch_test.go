package patcher

import (
	"errors"
	"strings"
	"testing"

	"github.com/EmundoT/rebase-helper/internal/testutil"
)

// ============================================================================
// Parse / Format Tests
// ============================================================================

func TestParse_PreambleAndHunk(t *testing.T) {
	p, err := Parse([]byte(testutil.ApplicablePatch))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if len(p.Preamble) != 2 || p.Preamble[0] != "Add a second sentence to the README." {
		t.Errorf("unexpected preamble: %q", p.Preamble)
	}
	if len(p.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(p.Files))
	}
	f := p.Files[0]
	if f.OldName != "a/README.md" || f.NewName != "b/README.md" {
		t.Errorf("unexpected names %q -> %q", f.OldName, f.NewName)
	}
	if len(f.Hunks) != 1 {
		t.Fatalf("expected 1 hunk, got %d", len(f.Hunks))
	}
	h := f.Hunks[0]
	if h.OldStart != 3 || h.OldLines != 5 || h.NewStart != 3 || h.NewLines != 6 {
		t.Errorf("unexpected hunk header %s", h.Header())
	}
	if len(h.OldSide()) != 5 || len(h.NewSide()) != 6 {
		t.Errorf("old/new side lengths = %d/%d", len(h.OldSide()), len(h.NewSide()))
	}
}

func TestFormat_ReproducesInput(t *testing.T) {
	for name, content := range testutil.PelloPatches {
		t.Run(name, func(t *testing.T) {
			p, err := Parse([]byte(content))
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}
			if got := string(p.Format()); got != content {
				t.Errorf("Format mismatch:\n got: %q\nwant: %q", got, content)
			}
		})
	}
}

func TestParse_GitHeadersAndNoNewline(t *testing.T) {
	input := strings.Join([]string{
		"From 1234 Mon Sep 17 00:00:00 2001",
		"Subject: [PATCH] tweak",
		"",
		"diff --git a/x.txt b/x.txt",
		"index 1111111..2222222 100644",
		"--- a/x.txt",
		"+++ b/x.txt",
		"@@ -1 +1 @@",
		"-old",
		"\\ No newline at end of file",
		"+new",
		"\\ No newline at end of file",
		"-- ",
		"2.43.0",
	}, "\n") + "\n"

	p, err := Parse([]byte(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(p.Preamble) != 3 {
		t.Errorf("expected 3 preamble lines, got %q", p.Preamble)
	}
	f := p.Files[0]
	if len(f.Header) != 2 || !strings.HasPrefix(f.Header[0], "diff --git") {
		t.Errorf("unexpected extended header %q", f.Header)
	}
	lines := f.Hunks[0].Lines
	if !lines[0].NoEOL || !lines[1].NoEOL {
		t.Errorf("expected both lines flagged without newline: %+v", lines)
	}
	if len(f.Trailer) != 2 {
		t.Errorf("expected signature trailer, got %q", f.Trailer)
	}
	if got := string(p.Format()); got != input {
		t.Errorf("Format mismatch:\n got: %q\nwant: %q", got, input)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"no file header", "just some text\n"},
		{"truncated hunk", "--- a/x\n+++ b/x\n@@ -1,3 +1,3 @@\n a\n-b\n"},
		{"garbage in hunk", "--- a/x\n+++ b/x\n@@ -1,2 +1,2 @@\n a\n?b\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			if !errors.Is(err, ErrMalformedPatch) {
				t.Errorf("expected ErrMalformedPatch, got %v", err)
			}
		})
	}
}

func TestStripPath(t *testing.T) {
	tests := []struct {
		name    string
		strip   int
		want    string
		wantErr bool
	}{
		{"a/src/main.c", 1, "src/main.c", false},
		{"a/src/main.c", 0, "a/src/main.c", false},
		{"./src/main.c", 0, "src/main.c", false},
		{"pkg-1.0/src/main.c", 1, "src/main.c", false},
		{"a/main.c", 2, "", true},
		{"a/../../etc/passwd", 1, "", true},
	}
	for _, tt := range tests {
		got, err := StripPath(tt.name, tt.strip)
		if (err != nil) != tt.wantErr {
			t.Errorf("StripPath(%q, %d) error = %v, wantErr %v", tt.name, tt.strip, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("StripPath(%q, %d) = %q, want %q", tt.name, tt.strip, got, tt.want)
		}
	}
}
