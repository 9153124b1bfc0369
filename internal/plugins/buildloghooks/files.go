// Package buildloghooks holds the hooks that repair the rebased spec after
// a failed binary build.
package buildloghooks

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/types"
)

const unpackagedHeader = "Installed (but unpackaged) file(s) found:"

var (
	missingFileRe = regexp.MustCompile(`File not found(?: by glob)?: (\S+)`)
	// %doc, %license, %config(noreplace), %attr(0644,root,root) and friends
	directiveRe = regexp.MustCompile(`^%([a-z_]+)(?:\([^)]*\))?(?:\s+|$)`)
)

// Files adds unpackaged files to the %files sections and drops entries
// the build no longer installs.
type Files struct {
	plugins.Info
}

func NewFiles() *Files {
	return &Files{Info: plugins.Info{PluginName: "files", Default: true}}
}

func (h *Files) Run(ctx context.Context, req plugins.HookRequest) (*types.HookResult, error) {
	text, err := buildLog(req.Build)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	spec := req.Rebased
	unpackaged, missing := parseBuildLog(text, spec.Name())
	if len(unpackaged) == 0 && len(missing) == 0 {
		return nil, nil
	}
	if len(spec.FilesSections()) == 0 {
		return nil, fmt.Errorf("%s has no %%files section", filepath.Base(spec.Path()))
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &types.HookResult{}
	if len(missing) > 0 {
		removed, unable, err := removeEntries(spec, missing)
		if err != nil {
			return nil, err
		}
		res.Removed = removed
		res.UnableToRemove = unable
	}
	if len(unpackaged) > 0 {
		added, err := addEntries(spec, unpackaged)
		if err != nil {
			return nil, err
		}
		res.Added = added
	}
	if req.Log != nil {
		req.Log.Debug("files hook finished", "added", len(res.Added), "removed", len(res.Removed), "unable", len(res.UnableToRemove))
	}
	return res, nil
}

func (h *Files) Format(res types.HookResult) []string {
	var lines []string
	for _, section := range res.Sections() {
		if entries := res.Added[section]; len(entries) > 0 {
			lines = append(lines, fmt.Sprintf("Added to %s: %s", section, strings.Join(entries, ", ")))
		}
		if entries := res.Removed[section]; len(entries) > 0 {
			lines = append(lines, fmt.Sprintf("Removed from %s: %s", section, strings.Join(entries, ", ")))
		}
	}
	if len(res.UnableToRemove) > 0 {
		lines = append(lines, "Unable to remove: "+strings.Join(res.UnableToRemove, ", "))
	}
	return lines
}

// buildLog concatenates the rpmbuild logs of rec.
func buildLog(rec *types.BuildRecord) (string, error) {
	if rec == nil {
		return "", nil
	}
	var b strings.Builder
	for _, p := range rec.Logs {
		base := filepath.Base(p)
		if !strings.HasPrefix(base, "build") || !strings.HasSuffix(base, ".log") {
			continue
		}
		data, err := os.ReadFile(p)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("reading build log: %w", err)
		}
		b.Write(data)
	}
	return b.String(), nil
}

// parseBuildLog returns the unpackaged and missing paths rpmbuild reported,
// relative to the buildroot and without duplicates.
func parseBuildLog(text, name string) (unpackaged, missing []string) {
	seenU := make(map[string]bool)
	seenM := make(map[string]bool)
	inList := false
	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasSuffix(trimmed, unpackagedHeader) {
			inList = true
			continue
		}
		if inList {
			if strings.HasPrefix(trimmed, "/") && line != trimmed {
				p := stripBuildroot(trimmed, name)
				if !seenU[p] {
					seenU[p] = true
					unpackaged = append(unpackaged, p)
				}
				continue
			}
			inList = false
		}
		if m := missingFileRe.FindStringSubmatch(trimmed); m != nil {
			p := stripBuildroot(m[1], name)
			if !seenM[p] {
				seenM[p] = true
				missing = append(missing, p)
			}
		}
	}
	return unpackaged, missing
}

// stripBuildroot turns ".../BUILDROOT/pello-0.2-1.fc41.noarch/usr/bin/pello"
// into "/usr/bin/pello". Paths outside a buildroot are returned unchanged.
func stripBuildroot(p, name string) string {
	i := strings.Index(p, "/BUILDROOT/")
	if i < 0 {
		return p
	}
	rest := p[i+len("/BUILDROOT"):]
	parts := strings.SplitN(strings.TrimPrefix(rest, "/"), "/", 2)
	if strings.HasPrefix(parts[0], name+"-") {
		if len(parts) == 1 {
			return "/"
		}
		return "/" + parts[1]
	}
	return rest
}

// filesLine is one %files entry split into its leading directives and the
// paths it packages.
type filesLine struct {
	directives string
	tokens     []string
	// paths holds the expanded absolute path of each token, "" when the
	// token does not name one.
	paths []string
}

// parseFilesLine splits line. Relative %doc and %license names resolve
// against %{_pkgdocdir} and %{_licensedir}/%{name}. ok is false for blank
// lines and comments.
func parseFilesLine(spec *specfile.Spec, line string) (fl filesLine, ok bool) {
	s := strings.TrimSpace(line)
	if s == "" || strings.HasPrefix(s, "#") {
		return fl, false
	}
	base := ""
	rest := s
	for {
		m := directiveRe.FindStringSubmatchIndex(rest)
		if m == nil {
			break
		}
		switch rest[m[2]:m[3]] {
		case "doc":
			base = spec.Expand("%{_pkgdocdir}")
		case "license":
			base = spec.Expand("%{_licensedir}/%{name}")
		}
		rest = rest[m[1]:]
	}
	fl.directives = strings.TrimSpace(s[:len(s)-len(rest)])
	fl.tokens = strings.Fields(rest)
	fl.paths = make([]string, len(fl.tokens))
	for i, tok := range fl.tokens {
		p := spec.Expand(tok)
		switch {
		case strings.HasPrefix(p, "/"):
			fl.paths[i] = p
		case base != "" && !strings.Contains(p, "%"):
			fl.paths[i] = path.Join(base, p)
		}
	}
	return fl, true
}

// format renders the directives followed by tokens.
func (fl filesLine) format(tokens []string) string {
	return strings.TrimSpace(fl.directives + " " + strings.Join(tokens, " "))
}

// entryPaths returns the expanded absolute paths a %files line packages.
func entryPaths(spec *specfile.Spec, line string) []string {
	fl, ok := parseFilesLine(spec, line)
	if !ok {
		return nil
	}
	var out []string
	for _, p := range fl.paths {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func entryMatches(entry, missing string) bool {
	if entry == missing || strings.TrimSuffix(entry, "/") == strings.TrimSuffix(missing, "/") {
		return true
	}
	if ok, _ := path.Match(entry, missing); ok {
		return true
	}
	ok, _ := path.Match(missing, entry)
	return ok
}

// removeEntries drops the tokens naming missing paths. A line loses only
// its matching tokens and goes away once nothing but directives is left.
func removeEntries(spec *specfile.Spec, missing []string) (map[string][]string, []string, error) {
	removed := make(map[string][]string)
	found := make(map[string]bool)
	for _, section := range spec.FilesSections() {
		body, _ := spec.Section(section)
		kept := make([]string, 0, len(body))
		changed := false
		for _, line := range body {
			fl, ok := parseFilesLine(spec, line)
			if !ok {
				kept = append(kept, line)
				continue
			}
			var keep, drop []string
			for i, tok := range fl.tokens {
				matched := false
				if entry := fl.paths[i]; entry != "" {
					for _, m := range missing {
						if entryMatches(entry, m) {
							found[m] = true
							matched = true
						}
					}
				}
				if matched {
					drop = append(drop, tok)
				} else {
					keep = append(keep, tok)
				}
			}
			if len(drop) == 0 {
				kept = append(kept, line)
				continue
			}
			changed = true
			if len(keep) == 0 {
				removed[section] = append(removed[section], strings.TrimSpace(line))
				continue
			}
			removed[section] = append(removed[section], fl.format(drop))
			kept = append(kept, fl.format(keep))
		}
		if changed {
			if err := spec.ReplaceSection(section, kept); err != nil {
				return nil, nil, err
			}
		}
	}
	var unable []string
	for _, m := range missing {
		if !found[m] {
			unable = append(unable, m)
		}
	}
	if len(removed) == 0 {
		removed = nil
	}
	return removed, unable, nil
}

// addEntries inserts each path, in macro form, at the top of the %files
// section whose entries resemble it most. The first section wins ties.
func addEntries(spec *specfile.Spec, unpackaged []string) (map[string][]string, error) {
	sections := spec.FilesSections()
	additions := make(map[string][]string)
	for _, p := range unpackaged {
		best, bestScore := sections[0], -1.0
		for _, section := range sections {
			body, _ := spec.Section(section)
			for _, line := range body {
				for _, entry := range entryPaths(spec, line) {
					if score := similarity(entry, p); score > bestScore {
						best, bestScore = section, score
					}
				}
			}
		}
		additions[best] = append(additions[best], spec.SubstitutePathMacros(p))
	}
	for _, section := range sections {
		entries := additions[section]
		if len(entries) == 0 {
			continue
		}
		body, _ := spec.Section(section)
		top := 0
		for top < len(body) && strings.HasPrefix(strings.TrimSpace(body[top]), "%defattr") {
			top++
		}
		updated := make([]string, 0, len(body)+len(entries))
		updated = append(updated, body[:top]...)
		updated = append(updated, entries...)
		updated = append(updated, body[top:]...)
		if err := spec.ReplaceSection(section, updated); err != nil {
			return nil, err
		}
	}
	return additions, nil
}

// similarity is 1 minus the Levenshtein distance of a and b relative to the
// longer string.
func similarity(a, b string) float64 {
	longest := max(len(a), len(b))
	if longest == 0 {
		return 1
	}
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	return 1 - float64(dmp.DiffLevenshtein(diffs))/float64(longest)
}
