package patcher

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultMaxFuzz matches GNU patch's default fuzz factor.
const DefaultMaxFuzz = 2

// HunkStatus describes how one hunk landed.
type HunkStatus int

const (
	HunkExact HunkStatus = iota
	HunkOffset
	HunkFuzzy
	HunkAlreadyApplied
	HunkRejected
)

func (s HunkStatus) String() string {
	switch s {
	case HunkExact:
		return "exact"
	case HunkOffset:
		return "offset"
	case HunkFuzzy:
		return "fuzzy"
	case HunkAlreadyApplied:
		return "already-applied"
	case HunkRejected:
		return "rejected"
	default:
		return fmt.Sprintf("HunkStatus(%d)", int(s))
	}
}

// FileStatus describes what happened to one target file.
type FileStatus int

const (
	FilePatched FileStatus = iota
	FileCreated
	FileDeleted
	FileAlreadyApplied
	FileMissing
)

func (s FileStatus) String() string {
	switch s {
	case FilePatched:
		return "patched"
	case FileCreated:
		return "created"
	case FileDeleted:
		return "deleted"
	case FileAlreadyApplied:
		return "already-applied"
	case FileMissing:
		return "missing"
	default:
		return fmt.Sprintf("FileStatus(%d)", int(s))
	}
}

type HunkResult struct {
	Index  int
	Status HunkStatus
	Offset int
	Fuzz   int
}

type FileResult struct {
	Path   string
	Patch  *FilePatch
	Status FileStatus
	Hunks  []HunkResult
}

// Rejected returns the indexes of rejected hunks.
func (r *FileResult) Rejected() []int {
	var out []int
	for _, h := range r.Hunks {
		if h.Status == HunkRejected {
			out = append(out, h.Index)
		}
	}
	return out
}

type Result struct {
	Files []*FileResult
}

// Rejects returns the number of rejected hunks.
func (r *Result) Rejects() int {
	n := 0
	for _, f := range r.Files {
		n += len(f.Rejected())
	}
	return n
}

// Clean reports whether no hunk was rejected.
func (r *Result) Clean() bool { return r.Rejects() == 0 }

// Exact reports whether every hunk applied at its recorded position
// without fuzz.
func (r *Result) Exact() bool {
	return r.all(func(s HunkStatus) bool { return s == HunkExact })
}

// AlreadyApplied reports whether every hunk was found already present.
func (r *Result) AlreadyApplied() bool {
	return r.all(func(s HunkStatus) bool { return s == HunkAlreadyApplied })
}

func (r *Result) all(pred func(HunkStatus) bool) bool {
	seen := false
	for _, f := range r.Files {
		for _, h := range f.Hunks {
			seen = true
			if !pred(h.Status) {
				return false
			}
		}
	}
	return seen
}

// Options tune Apply.
type Options struct {
	Strip   int
	MaxFuzz int
}

// Apply applies p to t hunk by hunk. Hunks that cannot be placed are
// reported as rejected and the rest are still applied. The returned error
// is reserved for unreadable trees and unusable file names.
func Apply(t *Tree, p *Patch, opts Options) (*Result, error) {
	res := &Result{}
	for _, f := range p.Files {
		fr, err := applyFile(t, f, opts)
		if err != nil {
			return nil, err
		}
		res.Files = append(res.Files, fr)
	}
	return res, nil
}

func applyFile(t *Tree, f *FilePatch, opts Options) (*FileResult, error) {
	path, err := f.Path(opts.Strip)
	if err != nil {
		return nil, err
	}
	fr := &FileResult{Path: path, Patch: f}

	data, err := t.Read(path)
	missing := errors.Is(err, ErrNotExist)
	if err != nil && !missing {
		return nil, err
	}

	switch {
	case f.IsCreate() && missing:
		fr.Status = FileCreated
		t.Write(path, []byte(createdContent(f)))
		fr.Hunks = uniform(f, HunkExact)
		return fr, nil
	case f.IsCreate() && string(data) == createdContent(f):
		fr.Status = FileAlreadyApplied
		fr.Hunks = uniform(f, HunkAlreadyApplied)
		return fr, nil
	case f.IsCreate():
		fr.Status = FilePatched
		fr.Hunks = uniform(f, HunkRejected)
		return fr, nil
	case f.IsDelete() && missing:
		fr.Status = FileAlreadyApplied
		fr.Hunks = uniform(f, HunkAlreadyApplied)
		return fr, nil
	case missing:
		fr.Status = FileMissing
		fr.Hunks = uniform(f, HunkRejected)
		return fr, nil
	}

	lines, eol := SplitLines(string(data))
	lines, eol, fr.Hunks = applyHunks(lines, eol, f.Hunks, opts.MaxFuzz)

	fr.Status = FilePatched
	if f.IsDelete() && len(lines) == 0 && len(fr.Rejected()) == 0 {
		fr.Status = FileDeleted
		t.Delete(path)
		return fr, nil
	}
	t.Write(path, []byte(JoinLines(lines, eol)))
	return fr, nil
}

func applyHunks(lines []string, eol bool, hunks []*Hunk, maxFuzz int) ([]string, bool, []HunkResult) {
	results := make([]HunkResult, 0, len(hunks))
	delta := 0
	for i, h := range hunks {
		old, repl := h.OldSide(), h.NewSide()
		expected := h.OldStart - 1 + delta
		if h.OldLines == 0 {
			expected = h.OldStart + delta
		}
		expected = min(max(expected, 0), len(lines))
		growth := len(repl) - len(old)
		hr := HunkResult{Index: i, Status: HunkRejected}
		// Hunks that only fix a trailing newline look applied by text alone.
		detectApplied := h.HasInsertions() && !slices.Equal(old, repl)

		place := func(pos int, trimmedOld, trimmedNew []string, top int) {
			lines = slices.Concat(lines[:pos], trimmedNew, lines[pos+len(trimmedOld):])
			if pos+len(trimmedNew) == len(lines) {
				eol = hunkEOL(h, eol)
			}
			hr.Offset = pos - top - expected
			delta += hr.Offset + growth
		}

		if detectApplied {
			if pos := findNearest(lines, repl, expected, exactEq); pos >= 0 {
				hr.Status = HunkAlreadyApplied
				hr.Offset = pos - expected
				delta += hr.Offset + growth
				results = append(results, hr)
				continue
			}
		}

		if pos := findNearest(lines, old, expected, exactEq); pos >= 0 {
			hr.Status = HunkExact
			if pos != expected {
				hr.Status = HunkOffset
			}
			place(pos, old, repl, 0)
			results = append(results, hr)
			continue
		}

		if detectApplied {
			if pos := findNearest(lines, repl, expected, whitespaceEq); pos >= 0 {
				hr.Status = HunkAlreadyApplied
				hr.Offset = pos - expected
				delta += hr.Offset + growth
				results = append(results, hr)
				continue
			}
		}

		for fuzz := 1; fuzz <= maxFuzz; fuzz++ {
			top := min(fuzz, h.leadingContext())
			bottom := min(fuzz, h.trailingContext())
			if top == 0 && bottom == 0 {
				break
			}
			trimmed := &Hunk{Lines: h.Lines[top : len(h.Lines)-bottom]}
			tOld, tNew := trimmed.OldSide(), trimmed.NewSide()
			if len(tOld) == 0 {
				break
			}
			if pos := findNearest(lines, tOld, expected+top, exactEq); pos >= 0 {
				hr.Status = HunkFuzzy
				hr.Fuzz = fuzz
				place(pos, tOld, tNew, top)
				break
			}
		}
		if hr.Status == HunkRejected {
			hr.Offset = 0
		}
		results = append(results, hr)
	}
	return lines, eol, results
}

// hunkEOL returns the trailing-newline state after h rewrote the end of
// the file.
func hunkEOL(h *Hunk, current bool) bool {
	for i := len(h.Lines) - 1; i >= 0; i-- {
		if h.Lines[i].Kind != Delete {
			return !h.Lines[i].NoEOL
		}
	}
	return current
}

func createdContent(f *FilePatch) string {
	var lines []string
	eol := true
	for _, h := range f.Hunks {
		lines = append(lines, h.NewSide()...)
		eol = hunkEOL(h, eol)
	}
	return JoinLines(lines, eol)
}

func uniform(f *FilePatch, s HunkStatus) []HunkResult {
	out := make([]HunkResult, len(f.Hunks))
	for i := range f.Hunks {
		out[i] = HunkResult{Index: i, Status: s}
	}
	return out
}

// findNearest returns the match position of target in lines closest to
// expected, preferring later positions on ties, or -1.
func findNearest(lines, target []string, expected int, eq func(a, b string) bool) int {
	last := len(lines) - len(target)
	if last < 0 {
		return -1
	}
	if len(target) == 0 {
		return min(expected, last)
	}
	for d := 0; expected+d <= last || expected-d >= 0; d++ {
		if p := expected + d; p >= 0 && p <= last && matchAt(lines, target, p, eq) {
			return p
		}
		if p := expected - d; d > 0 && p >= 0 && p <= last && matchAt(lines, target, p, eq) {
			return p
		}
	}
	return -1
}

func matchAt(lines, target []string, pos int, eq func(a, b string) bool) bool {
	for i, t := range target {
		if !eq(lines[pos+i], t) {
			return false
		}
	}
	return true
}

func exactEq(a, b string) bool { return a == b }

func whitespaceEq(a, b string) bool {
	return strings.Join(strings.Fields(a), " ") == strings.Join(strings.Fields(b), " ")
}
