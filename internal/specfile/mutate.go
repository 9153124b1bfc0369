package specfile

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"
)

var singleMacroRe = regexp.MustCompile(`^%\{?([A-Za-z_][A-Za-z0-9_]*)\}?$`)

// SetTag replaces the value of the first preamble tag called name, keeping
// the original "Name:   " alignment.
func (s *Spec) SetTag(name, value string) error {
	t, ok := s.tag(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrTagNotFound, name)
	}
	line := s.lines[t.Line]
	colon := strings.Index(line, ":")
	prefix := line[:colon+1]
	rest := line[colon+1:]
	pad := rest[:len(rest)-len(strings.TrimLeft(rest, " \t"))]
	if pad == "" {
		pad = " "
	}
	s.lines[t.Line] = prefix + pad + value
	s.reparse()
	return nil
}

// SetVersion points the spec at version and resets the release. When the
// Version tag is a bare reference to a %global, the global is updated instead.
func (s *Spec) SetVersion(version string) error {
	raw := s.TagValue("Version")
	if m := singleMacroRe.FindStringSubmatch(raw); m != nil {
		if s.setGlobal(m[1], version) {
			return s.resetRelease()
		}
	}
	if err := s.SetTag("Version", version); err != nil {
		return err
	}
	return s.resetRelease()
}

func (s *Spec) resetRelease() error {
	raw := s.TagValue("Release")
	if raw == "" || strings.Contains(raw, "%autorelease") {
		return nil
	}
	release := "1"
	if strings.Contains(raw, "%{?dist}") {
		release += "%{?dist}"
	}
	return s.SetTag("Release", release)
}

func (s *Spec) setGlobal(name, value string) bool {
	for i, line := range s.lines {
		m := macroDefRe.FindStringSubmatch(line)
		if m == nil || m[2] != name || m[3] != "" {
			continue
		}
		idx := strings.Index(line, name) + len(name)
		rest := line[idx:]
		pad := rest[:len(rest)-len(strings.TrimLeft(rest, " \t"))]
		s.lines[i] = line[:idx] + pad + value
		s.reparse()
		return true
	}
	return false
}

// SetSource replaces the location of source index, in its SourceN tag or
// its %sourcelist line.
func (s *Spec) SetSource(index int, value string) error {
	src, ok := s.Source(index)
	if !ok {
		return fmt.Errorf("%w: Source%d", ErrTagNotFound, index)
	}
	s.lines[src.Line] = strings.Replace(s.lines[src.Line], src.Raw, value, 1)
	s.reparse()
	return nil
}

// RemovePatch deletes the PatchN tag and every %patch line that applies it.
func (s *Spec) RemovePatch(index int) error {
	p, ok := s.Patch(index)
	if !ok {
		return fmt.Errorf("%w: %d", ErrPatchNotFound, index)
	}
	drop := append([]int{p.Line}, p.ApplyLines...)
	s.deleteLines(drop)
	s.reparse()
	return nil
}

// DisablePatch comments out the PatchN tag and its %patch lines. The
// reference stays in the file so the maintainer can see it was dropped.
func (s *Spec) DisablePatch(index int) error {
	p, ok := s.Patch(index)
	if !ok {
		return fmt.Errorf("%w: %d", ErrPatchNotFound, index)
	}
	if p.Disabled {
		return nil
	}
	s.lines[p.Line] = "#" + s.lines[p.Line]
	for _, i := range p.ApplyLines {
		// macros still expand inside rpm comments
		s.lines[i] = "#" + strings.ReplaceAll(s.lines[i], "%", "%%")
	}
	s.reparse()
	return nil
}

// ReplaceSection swaps the body of section name for content.
func (s *Spec) ReplaceSection(name string, content []string) error {
	sec, ok := s.section(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSectionNotFound, name)
	}
	start := sec.Header + 1
	updated := make([]string, 0, len(s.lines)-(sec.End-start)+len(content))
	updated = append(updated, s.lines[:start]...)
	updated = append(updated, content...)
	updated = append(updated, s.lines[sec.End:]...)
	s.lines = updated
	s.reparse()
	return nil
}

// ChangelogHeader formats the "* date packager - evr" line of an entry.
func ChangelogHeader(when time.Time, packager, evr string) string {
	return fmt.Sprintf("%s %s - %s", when.Format("Mon Jan 02 2006"), packager, evr)
}

// AddChangelogEntry prepends an entry to %changelog. Lines of text become
// "- " bullets.
func (s *Spec) AddChangelogEntry(header string, text []string) error {
	sec, ok := s.section("%changelog")
	if !ok {
		return fmt.Errorf("%w: %%changelog", ErrSectionNotFound)
	}
	entry := []string{"* " + header}
	for _, t := range text {
		entry = append(entry, "- "+t)
	}
	body := s.lines[sec.Header+1 : sec.End]
	if len(body) > 0 && strings.TrimSpace(body[0]) != "" {
		entry = append(entry, "")
	}
	return s.ReplaceSection("%changelog", append(entry, body...))
}

// EVR returns [epoch:]version-release with macros expanded.
func (s *Spec) EVR() string {
	evr := s.Version() + "-" + s.Release()
	if e := s.Epoch(); e != "" {
		evr = e + ":" + evr
	}
	return evr
}

// Clone returns an independent copy that saves to path.
func (s *Spec) Clone(path string) *Spec {
	c := &Spec{path: path, lines: append([]string(nil), s.lines...)}
	c.reparse()
	return c
}

// Save writes the spec back to its path.
func (s *Spec) Save() error {
	if err := os.WriteFile(s.path, []byte(s.String()), 0644); err != nil {
		return fmt.Errorf("save spec %s: %w", s.path, err)
	}
	return nil
}

// Reload re-reads the spec from disk, discarding in-memory edits.
func (s *Spec) Reload() error {
	fresh, err := Load(s.path)
	if err != nil {
		return err
	}
	s.lines = fresh.lines
	s.reparse()
	return nil
}

func (s *Spec) deleteLines(indexes []int) {
	sort.Sort(sort.Reverse(sort.IntSlice(indexes)))
	last := -1
	for _, i := range indexes {
		if i == last || i < 0 || i >= len(s.lines) {
			continue
		}
		s.lines = append(s.lines[:i], s.lines[i+1:]...)
		last = i
	}
}
