package patcher

import (
	"errors"
	"strings"
)

// Regenerate rebuilds orig against new coordinates: for every file orig
// touches it diffs the content in before against the content in after. The
// preamble, extended headers and file names of orig are kept so the patch
// still applies with the same strip level. Files whose content ended up
// identical are dropped; a result without files means the patch became
// empty.
func Regenerate(orig *Patch, strip int, before, after *Tree) (*Patch, error) {
	out := &Patch{Preamble: orig.Preamble}
	seen := map[string]bool{}
	for _, f := range orig.Files {
		path, err := f.Path(strip)
		if err != nil {
			return nil, err
		}
		if seen[path] {
			continue
		}
		seen[path] = true

		oldText, oldExists, err := readOptional(before, path)
		if err != nil {
			return nil, err
		}
		newText, newExists, err := readOptional(after, path)
		if err != nil {
			return nil, err
		}

		oldName, newName := f.OldName, f.NewName
		if oldName == DevNull {
			oldName = newName
		}
		if newName == DevNull {
			newName = oldName
		}
		if !oldExists {
			oldName = DevNull
		}
		if !newExists {
			newName = DevNull
		}

		fp := DiffFile(oldName, newName, oldText, newText)
		if fp == nil {
			continue
		}
		fp.Header = freshHeader(f.Header)
		fp.Trailer = f.Trailer
		out.Files = append(out.Files, fp)
	}
	if len(out.Files) > 0 && len(out.Files[len(out.Files)-1].Trailer) == 0 && len(orig.Files) > 0 {
		out.Files[len(out.Files)-1].Trailer = orig.Files[len(orig.Files)-1].Trailer
	}
	return out, nil
}

// Empty reports whether the patch changes nothing.
func (p *Patch) Empty() bool {
	for _, f := range p.Files {
		if len(f.Hunks) > 0 {
			return false
		}
	}
	return true
}

func readOptional(t *Tree, path string) (string, bool, error) {
	data, err := t.Read(path)
	if errors.Is(err, ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// freshHeader drops "index" lines, whose blob hashes no longer hold.
func freshHeader(header []string) []string {
	var out []string
	for _, l := range header {
		if strings.HasPrefix(l, "index ") {
			continue
		}
		out = append(out, l)
	}
	return out
}
