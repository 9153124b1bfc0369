// Package specfile reads and edits RPM package specifications.
//
// A Spec keeps the raw lines of the file as its source of truth. Every
// mutation edits those lines and re-derives the tag, source, patch, section
// and macro tables, so the in-memory view and the saved file never diverge.
package specfile

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// PreambleSection is the name used for the lines before the first section header.
const PreambleSection = "%package"

var (
	// ErrTagNotFound is returned when a mutation targets a tag the spec lacks.
	ErrTagNotFound = errors.New("tag not found")
	// ErrPatchNotFound is returned when a mutation targets an unknown patch index.
	ErrPatchNotFound = errors.New("patch not found")
	// ErrSectionNotFound is returned when a mutation targets an unknown section.
	ErrSectionNotFound = errors.New("section not found")
)

var (
	sectionRe = regexp.MustCompile(`^%(package|description|prep|build|install|check|clean|files|changelog|pre|post|preun|postun|pretrans|posttrans|preuntrans|postuntrans|verifyscript|triggerin|triggerun|triggerpostun|triggerprein|filetriggerin|filetriggerun|filetriggerpostun|transfiletriggerin|transfiletriggerun|transfiletriggerpostun|generate_buildrequires|conf|sourcelist|patchlist)(\s|$)`)
	tagRe      = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9]*)(\([^)]*\))?\s*:\s*(.*?)\s*$`)
	disabledRe = regexp.MustCompile(`^#\s*(Patch)(\d*)\s*:\s*(.*?)\s*$`)
	macroDefRe = regexp.MustCompile(`^\s*%(global|define)\s+([A-Za-z_][A-Za-z0-9_]*)(\([^)]*\))?\s+(.*?)\s*$`)
	stripRe    = regexp.MustCompile(`-p\s*(\d+)`)
	patchNRe   = regexp.MustCompile(`^%patch(\d+)\b(.*)$`)
	patchRe    = regexp.MustCompile(`^%patch\b(.*)$`)
	patchPRe   = regexp.MustCompile(`-P\s*(\d+)`)
	rangeArgRe = regexp.MustCompile(`-([mM])\s*(\d+)`)
)

// Tag is a "Name: value" line from the main preamble.
type Tag struct {
	Name  string
	Index int // numeric suffix for SourceN/PatchN, -1 otherwise
	Value string
	Line  int
}

// Source is a SourceN tag or a %sourcelist entry.
type Source struct {
	Index    int
	Raw      string
	Expanded string
	Line     int
}

// Filename returns the local file name the source is stored under.
func (s Source) Filename() string {
	return sourceFilename(s.Expanded)
}

// IsRemote reports whether the source is fetched from a URL.
func (s Source) IsRemote() bool {
	return strings.Contains(s.Expanded, "://")
}

// Patch is a PatchN tag (possibly commented out) or a %patchlist entry.
type Patch struct {
	Index      int
	Raw        string
	Filename   string
	Line       int
	Strip      int
	Applied    bool
	Disabled   bool
	ApplyLines []int
}

// Section is a span of lines starting at a section header.
type Section struct {
	Name   string
	Header int // -1 for the preamble
	End    int // exclusive
}

// Spec is a parsed package specification.
type Spec struct {
	path     string
	lines    []string
	tags     []Tag
	sources  []Source
	patches  []Patch
	sections []Section
	macros   map[string]string
}

// Load reads and parses the spec file at path.
func Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read spec %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse parses spec content. path is remembered for Save.
func Parse(path string, data []byte) (*Spec, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	text = strings.TrimSuffix(text, "\n")
	s := &Spec{path: path, lines: strings.Split(text, "\n")}
	s.reparse()
	if s.Name() == "" {
		return nil, fmt.Errorf("spec %s: missing Name tag", path)
	}
	return s, nil
}

// Path returns the file the spec is saved to.
func (s *Spec) Path() string { return s.path }

// Dir returns the directory holding the spec file.
func (s *Spec) Dir() string { return filepath.Dir(s.path) }

// Lines returns a copy of the raw lines.
func (s *Spec) Lines() []string { return append([]string(nil), s.lines...) }

// String returns the spec content with a trailing newline.
func (s *Spec) String() string { return strings.Join(s.lines, "\n") + "\n" }

// Name returns the expanded package name.
func (s *Spec) Name() string { return s.Expand(s.TagValue("Name")) }

// Version returns the expanded Version tag.
func (s *Spec) Version() string { return s.Expand(s.TagValue("Version")) }

// Release returns the expanded Release tag.
func (s *Spec) Release() string { return s.Expand(s.TagValue("Release")) }

// Epoch returns the expanded Epoch tag or "".
func (s *Spec) Epoch() string { return s.Expand(s.TagValue("Epoch")) }

// TagValue returns the raw value of the first preamble tag called name.
func (s *Spec) TagValue(name string) string {
	if t, ok := s.tag(name); ok {
		return t.Value
	}
	return ""
}

func (s *Spec) tag(name string) (Tag, bool) {
	for _, t := range s.tags {
		if strings.EqualFold(t.Name, name) && t.Index < 0 {
			return t, true
		}
	}
	return Tag{}, false
}

// Sources returns the sources ordered by index.
func (s *Spec) Sources() []Source { return append([]Source(nil), s.sources...) }

// Source returns the source with the given index.
func (s *Spec) Source(index int) (Source, bool) {
	for _, src := range s.sources {
		if src.Index == index {
			return src, true
		}
	}
	return Source{}, false
}

// Patches returns every patch reference, including disabled ones, ordered by index.
func (s *Spec) Patches() []Patch {
	out := make([]Patch, len(s.patches))
	for i, p := range s.patches {
		out[i] = p
		out[i].ApplyLines = append([]int(nil), p.ApplyLines...)
	}
	return out
}

// Patch returns the enabled or disabled patch with the given index.
func (s *Spec) Patch(index int) (Patch, bool) {
	for _, p := range s.patches {
		if p.Index == index {
			return p, true
		}
	}
	return Patch{}, false
}

// AppliedPatches returns enabled patches that %prep applies, in numeric order.
func (s *Spec) AppliedPatches() []Patch {
	var out []Patch
	for _, p := range s.Patches() {
		if p.Applied && !p.Disabled {
			out = append(out, p)
		}
	}
	return out
}

// Sections returns the section table in file order.
func (s *Spec) Sections() []Section { return append([]Section(nil), s.sections...) }

// Section returns the body lines of the first section called name.
func (s *Spec) Section(name string) ([]string, bool) {
	sec, ok := s.section(name)
	if !ok {
		return nil, false
	}
	return append([]string(nil), s.lines[sec.Header+1:sec.End]...), true
}

func (s *Spec) section(name string) (Section, bool) {
	for _, sec := range s.sections {
		if sec.Name == name {
			return sec, true
		}
	}
	return Section{}, false
}

// FilesSections returns the names of all %files sections in file order.
func (s *Spec) FilesSections() []string {
	var out []string
	for _, sec := range s.sections {
		if sec.Name == "%files" || strings.HasPrefix(sec.Name, "%files ") {
			out = append(out, sec.Name)
		}
	}
	return out
}

// Category returns the language family derived from the package name, or "".
func (s *Spec) Category() string {
	return CategoryOf(s.Name())
}

// CategoryOf maps a package name prefix to its language family.
func CategoryOf(name string) string {
	prefixes := []struct{ prefix, category string }{
		{"python3-", "python"},
		{"python-", "python"},
		{"perl-", "perl"},
		{"rubygem-", "ruby"},
		{"nodejs-", "nodejs"},
		{"golang-", "golang"},
		{"rust-", "rust"},
		{"ghc-", "haskell"},
		{"php-", "php"},
		{"R-", "R"},
	}
	for _, p := range prefixes {
		if strings.HasPrefix(name, p.prefix) {
			return p.category
		}
	}
	return ""
}

// UpstreamName strips the language-family prefix from a package name.
func UpstreamName(name string) string {
	for _, prefix := range []string{"python3-", "python-", "perl-", "rubygem-", "nodejs-", "golang-", "rust-", "ghc-", "php-", "R-"} {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix)
		}
	}
	return name
}

func (s *Spec) reparse() {
	s.parseSections()
	s.parseMacros()
	s.parseTags()
	s.parsePrep()
}

func (s *Spec) parseSections() {
	s.sections = s.sections[:0]
	current := Section{Name: PreambleSection, Header: -1}
	for i, line := range s.lines {
		if sectionRe.MatchString(line) {
			current.End = i
			s.sections = append(s.sections, current)
			current = Section{Name: strings.Join(strings.Fields(line), " "), Header: i}
		}
	}
	current.End = len(s.lines)
	s.sections = append(s.sections, current)
}

func (s *Spec) parseMacros() {
	s.macros = make(map[string]string, len(builtinMacros)+8)
	for k, v := range builtinMacros {
		s.macros[k] = v
	}
	for _, line := range s.lines {
		m := macroDefRe.FindStringSubmatch(line)
		if m == nil || m[3] != "" {
			continue
		}
		s.macros[m[2]] = m[4]
	}
}

func (s *Spec) parseTags() {
	s.tags = s.tags[:0]
	s.sources = s.sources[:0]
	s.patches = s.patches[:0]

	preamble := s.sections[0]
	nextSource, nextPatch := 0, 0
	for i := 0; i < preamble.End; i++ {
		line := s.lines[i]
		if m := disabledRe.FindStringSubmatch(line); m != nil {
			idx := nextPatch
			if m[2] != "" {
				idx, _ = strconv.Atoi(m[2])
			}
			nextPatch = idx + 1
			s.patches = append(s.patches, Patch{Index: idx, Raw: m[3], Filename: sourceFilename(s.Expand(m[3])), Line: i, Disabled: true})
			continue
		}
		m := tagRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, value := m[1], m[3]
		tag := Tag{Name: name, Index: -1, Value: value, Line: i}
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, "source") && isDigits(lower[len("source"):]):
			tag.Index = parseIndex(lower[len("source"):], nextSource)
			nextSource = tag.Index + 1
		case strings.HasPrefix(lower, "patch") && isDigits(lower[len("patch"):]):
			tag.Index = parseIndex(lower[len("patch"):], nextPatch)
			nextPatch = tag.Index + 1
		}
		s.tags = append(s.tags, tag)
		switch lower {
		case "name", "version", "release", "epoch", "url", "summary", "license":
			s.macros[lower] = value
		}
	}

	for _, t := range s.tags {
		if t.Index < 0 {
			continue
		}
		lower := strings.ToLower(t.Name)
		if strings.HasPrefix(lower, "source") {
			s.sources = append(s.sources, Source{Index: t.Index, Raw: t.Value, Expanded: s.Expand(t.Value), Line: t.Line})
		} else {
			s.patches = append(s.patches, Patch{Index: t.Index, Raw: t.Value, Filename: sourceFilename(s.Expand(t.Value)), Line: t.Line})
		}
	}

	for _, sec := range s.sections {
		switch sec.Name {
		case "%sourcelist":
			for i := sec.Header + 1; i < sec.End; i++ {
				if v := strings.TrimSpace(s.lines[i]); v != "" && !strings.HasPrefix(v, "#") {
					s.sources = append(s.sources, Source{Index: nextSource, Raw: v, Expanded: s.Expand(v), Line: i})
					nextSource++
				}
			}
		case "%patchlist":
			for i := sec.Header + 1; i < sec.End; i++ {
				if v := strings.TrimSpace(s.lines[i]); v != "" && !strings.HasPrefix(v, "#") {
					s.patches = append(s.patches, Patch{Index: nextPatch, Raw: v, Filename: sourceFilename(s.Expand(v)), Line: i})
					nextPatch++
				}
			}
		}
	}

	sort.SliceStable(s.sources, func(i, j int) bool { return s.sources[i].Index < s.sources[j].Index })
	sort.SliceStable(s.patches, func(i, j int) bool { return s.patches[i].Index < s.patches[j].Index })
}

func (s *Spec) parsePrep() {
	prep, ok := s.section("%prep")
	if !ok {
		return
	}
	apply := func(idx, strip, line int) {
		for i := range s.patches {
			if s.patches[i].Index == idx && !s.patches[i].Disabled {
				s.patches[i].Applied = true
				s.patches[i].Strip = strip
				if line >= 0 {
					s.patches[i].ApplyLines = append(s.patches[i].ApplyLines, line)
				}
			}
		}
	}
	applyRange := func(args string) {
		strip := parseStrip(args)
		lo, hi := -1, -1
		for _, m := range rangeArgRe.FindAllStringSubmatch(args, -1) {
			n, _ := strconv.Atoi(m[2])
			if m[1] == "m" {
				lo = n
			} else {
				hi = n
			}
		}
		for _, p := range s.patches {
			if (lo < 0 || p.Index >= lo) && (hi < 0 || p.Index <= hi) {
				apply(p.Index, strip, -1)
			}
		}
	}

	for i := prep.Header + 1; i < prep.End; i++ {
		line := strings.TrimSpace(s.lines[i])
		switch {
		case strings.HasPrefix(line, "%autosetup"):
			args := strings.TrimPrefix(line, "%autosetup")
			if !containsFlag(args, "-N") {
				applyRange(args)
			}
		case strings.HasPrefix(line, "%autopatch"):
			args := strings.TrimPrefix(line, "%autopatch")
			if nums := positionalNumbers(args); len(nums) > 0 {
				for _, n := range nums {
					apply(n, parseStrip(args), -1)
				}
			} else {
				applyRange(args)
			}
		default:
			if m := patchNRe.FindStringSubmatch(line); m != nil {
				idx, _ := strconv.Atoi(m[1])
				apply(idx, parseStrip(m[2]), i)
			} else if m := patchRe.FindStringSubmatch(line); m != nil {
				args := m[1]
				indexes := patchPRe.FindAllStringSubmatch(args, -1)
				if len(indexes) > 0 {
					for _, pm := range indexes {
						idx, _ := strconv.Atoi(pm[1])
						apply(idx, parseStrip(args), i)
					}
				} else if nums := positionalNumbers(args); len(nums) > 0 {
					for _, n := range nums {
						apply(n, parseStrip(args), i)
					}
				} else {
					apply(0, parseStrip(args), i)
				}
			}
		}
	}
}

// parseStrip extracts -pN, defaulting to 0 like %patch does.
func parseStrip(args string) int {
	if m := stripRe.FindStringSubmatch(args); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

// positionalNumbers returns bare numeric arguments that are not option values.
func positionalNumbers(args string) []int {
	fields := strings.Fields(args)
	var out []int
	for i := 0; i < len(fields); i++ {
		f := fields[i]
		if strings.HasPrefix(f, "-") {
			// options whose value may be a separate word
			if len(f) == 2 && strings.ContainsAny(f[1:], "pPmMFzbBdE") {
				i++
			}
			continue
		}
		if n, err := strconv.Atoi(f); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func containsFlag(args, flag string) bool {
	for _, f := range strings.Fields(args) {
		if f == flag {
			return true
		}
	}
	return false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseIndex(digits string, next int) int {
	if digits == "" {
		return next
	}
	n, _ := strconv.Atoi(digits)
	return n
}

func sourceFilename(expanded string) string {
	if i := strings.Index(expanded, "#/"); i >= 0 {
		return path.Base(expanded[i+2:])
	}
	if strings.Contains(expanded, "://") {
		if u, err := url.Parse(expanded); err == nil {
			return path.Base(u.Path)
		}
	}
	return filepath.Base(expanded)
}
