package patcher

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DefaultContext is the number of context lines around generated hunks.
const DefaultContext = 3

// SplitLines splits text into lines without their terminators. The second
// result reports whether the final line ended with a newline.
func SplitLines(text string) ([]string, bool) {
	if text == "" {
		return nil, true
	}
	eol := strings.HasSuffix(text, "\n")
	text = strings.TrimSuffix(text, "\n")
	return strings.Split(text, "\n"), eol
}

// JoinLines is the inverse of SplitLines.
func JoinLines(lines []string, eol bool) string {
	if len(lines) == 0 {
		return ""
	}
	s := strings.Join(lines, "\n")
	if eol {
		s += "\n"
	}
	return s
}

// Op is one line-level edit.
type Op struct {
	Kind  LineKind
	Lines []string
}

// DiffLines computes a line-level edit script turning a into b.
func DiffLines(a, b []string) []Op {
	dmp := diffmatchpatch.New()
	dmp.DiffTimeout = 0
	ta, tb, index := dmp.DiffLinesToChars(JoinLines(a, true), JoinLines(b, true))
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(ta, tb, false), index)

	var ops []Op
	for _, d := range diffs {
		if d.Text == "" {
			continue
		}
		lines, _ := SplitLines(d.Text)
		var kind LineKind
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			kind = Context
		case diffmatchpatch.DiffDelete:
			kind = Delete
		case diffmatchpatch.DiffInsert:
			kind = Insert
		}
		if n := len(ops); n > 0 && ops[n-1].Kind == kind {
			ops[n-1].Lines = append(ops[n-1].Lines, lines...)
			continue
		}
		ops = append(ops, Op{Kind: kind, Lines: lines})
	}
	return ops
}

// Similarity returns 2*common/(len(a)+len(b)) over characters, 1 for two
// empty strings.
func Similarity(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	common := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			common += len([]rune(d.Text))
		}
	}
	return 2 * float64(common) / float64(len([]rune(a))+len([]rune(b)))
}

// UnifiedHunks builds unified diff hunks turning oldText into newText with
// context lines of context around each change.
func UnifiedHunks(oldText, newText string, context int) []*Hunk {
	a, aEOL := SplitLines(oldText)
	b, bEOL := SplitLines(newText)
	ops := DiffLines(a, b)

	type change struct{ aStart, aEnd, bStart, bEnd int }
	var changes []change
	ai, bi := 0, 0
	for _, op := range ops {
		switch op.Kind {
		case Context:
			ai += len(op.Lines)
			bi += len(op.Lines)
		case Delete:
			if n := len(changes); n > 0 && changes[n-1].aEnd == ai && changes[n-1].bEnd == bi {
				changes[n-1].aEnd += len(op.Lines)
			} else {
				changes = append(changes, change{ai, ai + len(op.Lines), bi, bi})
			}
			ai += len(op.Lines)
		case Insert:
			if n := len(changes); n > 0 && changes[n-1].aEnd == ai && changes[n-1].bEnd == bi {
				changes[n-1].bEnd += len(op.Lines)
			} else {
				changes = append(changes, change{ai, ai, bi, bi + len(op.Lines)})
			}
			bi += len(op.Lines)
		}
	}

	// A line whose terminator changes must appear on both sides.
	if len(a) > 0 && len(b) > 0 && aEOL != bEOL {
		n := len(changes)
		switch {
		case n > 0 && changes[n-1].aEnd == len(a) && changes[n-1].bEnd == len(b):
			if c := &changes[n-1]; c.aStart == c.aEnd || c.bStart == c.bEnd {
				c.aStart--
				c.bStart--
			}
		default:
			changes = append(changes, change{len(a) - 1, len(a), len(b) - 1, len(b)})
		}
	}

	var hunks []*Hunk
	for i := 0; i < len(changes); {
		j := i
		for j+1 < len(changes) && changes[j+1].aStart-changes[j].aEnd <= 2*context {
			j++
		}
		first, last := changes[i], changes[j]
		aLo := max(first.aStart-context, 0)
		aHi := min(last.aEnd+context, len(a))
		bLo := first.bStart - (first.aStart - aLo)
		bHi := last.bEnd + (aHi - last.aEnd)

		h := &Hunk{}
		pos := aLo
		for k := i; k <= j; k++ {
			c := changes[k]
			for ; pos < c.aStart; pos++ {
				h.Lines = append(h.Lines, Line{Kind: Context, Text: a[pos]})
			}
			for x := c.aStart; x < c.aEnd; x++ {
				h.Lines = append(h.Lines, Line{Kind: Delete, Text: a[x]})
			}
			for x := c.bStart; x < c.bEnd; x++ {
				h.Lines = append(h.Lines, Line{Kind: Insert, Text: b[x]})
			}
			pos = c.aEnd
		}
		for ; pos < aHi; pos++ {
			h.Lines = append(h.Lines, Line{Kind: Context, Text: a[pos]})
		}

		h.OldLines, h.NewLines = aHi-aLo, bHi-bLo
		h.OldStart, h.NewStart = aLo+1, bLo+1
		if h.OldLines == 0 {
			h.OldStart = aLo
		}
		if h.NewLines == 0 {
			h.NewStart = bLo
		}
		markNoEOL(h, aHi == len(a) && !aEOL, bHi == len(b) && !bEOL)
		hunks = append(hunks, h)
		i = j + 1
	}
	return hunks
}

// markNoEOL flags the last old-side and new-side lines of h when they are
// the final lines of files lacking a trailing newline.
func markNoEOL(h *Hunk, oldAtEnd, newAtEnd bool) {
	lastOld, lastNew := -1, -1
	for i, l := range h.Lines {
		if l.Kind != Insert {
			lastOld = i
		}
		if l.Kind != Delete {
			lastNew = i
		}
	}
	if oldAtEnd && lastOld >= 0 {
		h.Lines[lastOld].NoEOL = true
	}
	if newAtEnd && lastNew >= 0 {
		h.Lines[lastNew].NoEOL = true
	}
}

// DiffFile returns a FilePatch turning oldText into newText, or nil when
// they are equal.
func DiffFile(oldName, newName, oldText, newText string) *FilePatch {
	if oldText == newText {
		return nil
	}
	return &FilePatch{
		OldName: oldName,
		NewName: newName,
		Hunks:   UnifiedHunks(oldText, newText, DefaultContext),
	}
}
