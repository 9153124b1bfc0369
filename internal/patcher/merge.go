package patcher

import "slices"

// Conflict marker lines written around unresolved regions.
const (
	MarkerLocal = "<<<<<<< local"
	MarkerSep   = "======="
	MarkerOther = ">>>>>>> upstream"
)

// Favor selects which side wins a conflicting region.
type Favor int

const (
	FavorNone Favor = iota
	FavorLocal
	FavorOther
)

type MergeResult struct {
	Text      string
	Conflicts int
}

// Clean reports whether every region merged without a conflict.
func (m MergeResult) Clean() bool { return m.Conflicts == 0 }

// region replaces base[lo:hi] with repl.
type region struct {
	lo, hi int
	repl   []string
	local  bool
}

func regions(base, side []string, local bool) []region {
	var out []region
	pos := 0
	for _, op := range DiffLines(base, side) {
		switch op.Kind {
		case Context:
			pos += len(op.Lines)
		case Delete:
			if n := len(out); n > 0 && out[n-1].hi == pos {
				out[n-1].hi += len(op.Lines)
			} else {
				out = append(out, region{lo: pos, hi: pos + len(op.Lines), local: local})
			}
			pos += len(op.Lines)
		case Insert:
			if n := len(out); n > 0 && out[n-1].hi == pos {
				out[n-1].repl = append(out[n-1].repl, op.Lines...)
			} else {
				out = append(out, region{lo: pos, hi: pos, repl: slices.Clone(op.Lines), local: local})
			}
		}
	}
	return out
}

// overlaps reports whether next must be resolved together with a cluster
// spanning [lo, hi).
func overlaps(next region, lo, hi int) bool {
	if next.lo < hi {
		return true
	}
	return next.lo == hi && (next.lo == next.hi || lo == hi)
}

// Merge3 merges the changes base->local and base->other line by line.
// Regions changed identically on both sides merge cleanly; differing
// overlapping changes are resolved by favor or wrapped in conflict markers.
func Merge3(base, local, other string, favor Favor) MergeResult {
	b, baseEOL := SplitLines(base)
	l, localEOL := SplitLines(local)
	o, otherEOL := SplitLines(other)
	eol := otherEOL
	if localEOL != baseEOL {
		eol = localEOL
	}

	all := append(regions(b, l, true), regions(b, o, false)...)
	slices.SortStableFunc(all, func(x, y region) int {
		if x.lo != y.lo {
			return x.lo - y.lo
		}
		return x.hi - y.hi
	})

	var out []string
	conflicts := 0
	pos := 0
	for i := 0; i < len(all); {
		lo, hi := all[i].lo, all[i].hi
		j := i + 1
		for j < len(all) && overlaps(all[j], lo, hi) {
			hi = max(hi, all[j].hi)
			j++
		}
		cluster := all[i:j]
		i = j

		out = append(out, b[pos:lo]...)
		pos = hi

		var hasLocal, hasOther bool
		for _, r := range cluster {
			if r.local {
				hasLocal = true
			} else {
				hasOther = true
			}
		}
		localText := resolve(b, lo, hi, cluster, true)
		otherText := resolve(b, lo, hi, cluster, false)
		switch {
		case !hasOther:
			out = append(out, localText...)
		case !hasLocal:
			out = append(out, otherText...)
		case slices.Equal(localText, otherText):
			out = append(out, localText...)
		case favor == FavorLocal:
			out = append(out, localText...)
		case favor == FavorOther:
			out = append(out, otherText...)
		default:
			conflicts++
			out = append(out, MarkerLocal)
			out = append(out, localText...)
			out = append(out, MarkerSep)
			out = append(out, otherText...)
			out = append(out, MarkerOther)
		}
	}
	out = append(out, b[pos:]...)
	return MergeResult{Text: JoinLines(out, eol), Conflicts: conflicts}
}

// resolve applies one side's regions of a cluster to base[lo:hi].
func resolve(base []string, lo, hi int, cluster []region, local bool) []string {
	var out []string
	p := lo
	for _, r := range cluster {
		if r.local != local {
			continue
		}
		out = append(out, base[p:r.lo]...)
		out = append(out, r.repl...)
		p = r.hi
	}
	return append(out, base[p:hi]...)
}
