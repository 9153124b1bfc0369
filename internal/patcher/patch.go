// Package patcher parses unified diffs and applies them to source trees with
// the tolerance GNU patch offers: relocated hunks, fuzz on context lines and
// detection of changes that are already present. It also regenerates patches
// against new coordinates and performs line-based three-way merges.
package patcher

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// DevNull marks the missing side of a file creation or deletion.
const DevNull = "/dev/null"

// ErrMalformedPatch is returned for diffs that cannot be parsed.
var ErrMalformedPatch = errors.New("malformed patch")

var hunkHeaderRe = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@ ?(.*)$`)

// gitHeaderPrefixes introduce per-file extended headers that precede "---".
var gitHeaderPrefixes = []string{
	"diff ", "index ", "new file mode", "deleted file mode", "old mode",
	"new mode", "similarity index", "dissimilarity index", "rename from",
	"rename to", "copy from", "copy to",
}

type LineKind byte

const (
	Context LineKind = ' '
	Delete  LineKind = '-'
	Insert  LineKind = '+'
)

type Line struct {
	Kind  LineKind
	Text  string
	NoEOL bool
}

type Hunk struct {
	OldStart int
	OldLines int
	NewStart int
	NewLines int
	Section  string
	Lines    []Line
}

// OldSide returns the lines the hunk expects to find.
func (h *Hunk) OldSide() []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind != Insert {
			out = append(out, l.Text)
		}
	}
	return out
}

// NewSide returns the lines the hunk leaves behind.
func (h *Hunk) NewSide() []string {
	var out []string
	for _, l := range h.Lines {
		if l.Kind != Delete {
			out = append(out, l.Text)
		}
	}
	return out
}

// HasInsertions reports whether the hunk adds lines.
func (h *Hunk) HasInsertions() bool {
	for _, l := range h.Lines {
		if l.Kind == Insert {
			return true
		}
	}
	return false
}

func (h *Hunk) leadingContext() int {
	n := 0
	for _, l := range h.Lines {
		if l.Kind != Context {
			break
		}
		n++
	}
	return n
}

func (h *Hunk) trailingContext() int {
	n := 0
	for i := len(h.Lines) - 1; i >= 0; i-- {
		if h.Lines[i].Kind != Context {
			break
		}
		n++
	}
	return n
}

// Header renders the "@@ ... @@" line.
func (h *Hunk) Header() string {
	s := fmt.Sprintf("@@ -%s +%s @@", hunkRange(h.OldStart, h.OldLines), hunkRange(h.NewStart, h.NewLines))
	if h.Section != "" {
		s += " " + h.Section
	}
	return s
}

func hunkRange(start, count int) string {
	if count == 1 {
		return strconv.Itoa(start)
	}
	return fmt.Sprintf("%d,%d", start, count)
}

// FilePatch is the part of a patch touching one file.
type FilePatch struct {
	Header  []string
	OldName string
	NewName string
	Hunks   []*Hunk
	Trailer []string
}

// IsCreate reports whether the patch creates the file.
func (f *FilePatch) IsCreate() bool { return f.OldName == DevNull }

// IsDelete reports whether the patch deletes the file.
func (f *FilePatch) IsDelete() bool { return f.NewName == DevNull }

// Path returns the target path after removing strip leading components.
func (f *FilePatch) Path(strip int) (string, error) {
	name := f.NewName
	if f.IsDelete() {
		name = f.OldName
	}
	return StripPath(name, strip)
}

// StripPath removes strip leading components from name, like patch -pN.
func StripPath(name string, strip int) (string, error) {
	parts := strings.Split(strings.TrimPrefix(name, "./"), "/")
	if strip >= len(parts) {
		return "", fmt.Errorf("%w: cannot strip %d components from %q", ErrMalformedPatch, strip, name)
	}
	p := path.Clean(strings.Join(parts[strip:], "/"))
	if p == ".." || strings.HasPrefix(p, "../") || path.IsAbs(p) {
		return "", fmt.Errorf("%w: path %q escapes the source tree", ErrMalformedPatch, name)
	}
	return p, nil
}

// Patch is a parsed unified diff.
type Patch struct {
	Preamble []string
	Files    []*FilePatch
}

// Parse parses a unified diff, keeping any leading commit message as preamble.
func Parse(data []byte) (*Patch, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	var lines []string
	if text != "" {
		lines = strings.Split(text, "\n")
	}

	p := &Patch{}
	var pending []string
	var current *FilePatch

	flush := func() {
		if current == nil {
			p.Preamble = append(p.Preamble, pending...)
		} else {
			current.Trailer = append(current.Trailer, pending...)
		}
		pending = nil
	}

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if strings.HasPrefix(line, "--- ") && i+1 < len(lines) && strings.HasPrefix(lines[i+1], "+++ ") {
			split := len(pending)
			for split > 0 && hasGitHeaderPrefix(pending[split-1]) {
				split--
			}
			header := append([]string(nil), pending[split:]...)
			pending = pending[:split]
			flush()

			current = &FilePatch{
				Header:  header,
				OldName: fileName(line[4:]),
				NewName: fileName(lines[i+1][4:]),
			}
			p.Files = append(p.Files, current)
			i++
			continue
		}

		if current != nil && strings.HasPrefix(line, "@@ ") && len(pending) == 0 {
			h, next, err := parseHunk(lines, i)
			if err != nil {
				return nil, err
			}
			current.Hunks = append(current.Hunks, h)
			i = next - 1
			continue
		}

		pending = append(pending, line)
	}
	flush()

	if len(p.Files) == 0 {
		return nil, fmt.Errorf("%w: no file headers found", ErrMalformedPatch)
	}
	return p, nil
}

func parseHunk(lines []string, start int) (*Hunk, int, error) {
	m := hunkHeaderRe.FindStringSubmatch(lines[start])
	if m == nil {
		return nil, 0, fmt.Errorf("%w: bad hunk header %q", ErrMalformedPatch, lines[start])
	}
	h := &Hunk{
		OldStart: atoi(m[1]),
		OldLines: countOrOne(m[2]),
		NewStart: atoi(m[3]),
		NewLines: countOrOne(m[4]),
		Section:  m[5],
	}

	oldLeft, newLeft := h.OldLines, h.NewLines
	i := start + 1
	for ; i < len(lines) && (oldLeft > 0 || newLeft > 0); i++ {
		line := lines[i]
		if strings.HasPrefix(line, `\`) {
			if n := len(h.Lines); n > 0 {
				h.Lines[n-1].NoEOL = true
			}
			continue
		}
		kind := Context
		text := line
		if line != "" {
			kind = LineKind(line[0])
			text = line[1:]
		}
		switch kind {
		case Context:
			oldLeft--
			newLeft--
		case Delete:
			oldLeft--
		case Insert:
			newLeft--
		default:
			return nil, 0, fmt.Errorf("%w: unexpected line %q in hunk %s", ErrMalformedPatch, line, lines[start])
		}
		if oldLeft < 0 || newLeft < 0 {
			return nil, 0, fmt.Errorf("%w: hunk %s longer than its header says", ErrMalformedPatch, lines[start])
		}
		h.Lines = append(h.Lines, Line{Kind: kind, Text: text})
	}
	if oldLeft > 0 || newLeft > 0 {
		return nil, 0, fmt.Errorf("%w: truncated hunk %s", ErrMalformedPatch, lines[start])
	}
	if i < len(lines) && strings.HasPrefix(lines[i], `\`) {
		if n := len(h.Lines); n > 0 {
			h.Lines[n-1].NoEOL = true
		}
		i++
	}
	return h, i, nil
}

// Format renders the patch as a unified diff.
func (p *Patch) Format() []byte {
	var b bytes.Buffer
	writeLines := func(ls []string) {
		for _, l := range ls {
			b.WriteString(l)
			b.WriteByte('\n')
		}
	}
	writeLines(p.Preamble)
	for _, f := range p.Files {
		writeLines(f.Header)
		fmt.Fprintf(&b, "--- %s\n+++ %s\n", f.OldName, f.NewName)
		for _, h := range f.Hunks {
			b.WriteString(h.Header())
			b.WriteByte('\n')
			for _, l := range h.Lines {
				b.WriteByte(byte(l.Kind))
				b.WriteString(l.Text)
				b.WriteByte('\n')
				if l.NoEOL {
					b.WriteString("\\ No newline at end of file\n")
				}
			}
		}
		writeLines(f.Trailer)
	}
	return b.Bytes()
}

// HunkCount returns the number of hunks across all files.
func (p *Patch) HunkCount() int {
	n := 0
	for _, f := range p.Files {
		n += len(f.Hunks)
	}
	return n
}

func hasGitHeaderPrefix(line string) bool {
	for _, prefix := range gitHeaderPrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// fileName drops the optional timestamp after a tab.
func fileName(s string) string {
	if i := strings.IndexByte(s, '\t'); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

func countOrOne(s string) int {
	if s == "" {
		return 1
	}
	return atoi(s)
}
