package core

import (
	"path"
	"path/filepath"
	"strings"
)

// packageCopyExcludes are left behind when the package directory is copied
// into the workspace: version control data and packages of earlier builds.
var packageCopyExcludes = []string{".git/", "*.rpm", "*.log"}

// MatchesExclude reports whether relPath matches any of patterns.
// Patterns use gitignore-style globs:
//   - a pattern without "/" matches the base name at any depth
//   - a trailing "/" matches the directory and everything below it
//   - "**" matches any number of path segments, including none
func MatchesExclude(relPath string, patterns []string) bool {
	segs := splitSegments(filepath.ToSlash(relPath))
	for _, p := range patterns {
		if matchSegments(segs, compilePattern(filepath.ToSlash(p))) {
			return true
		}
	}
	return false
}

func compilePattern(pattern string) []string {
	dir := strings.HasSuffix(pattern, "/")
	pattern = strings.Trim(pattern, "/")
	segs := splitSegments(pattern)
	if len(segs) == 1 && segs[0] != "**" {
		segs = append([]string{"**"}, segs...)
	}
	if dir {
		segs = append(segs, "**")
	}
	return segs
}

func splitSegments(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s != "" && s != "." {
			out = append(out, s)
		}
	}
	return out
}

func matchSegments(segs, pattern []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(segs); i++ {
				if matchSegments(segs[i:], pattern[1:]) {
					return true
				}
			}
			return false
		}
		if len(segs) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], segs[0]); !ok {
			return false
		}
		segs, pattern = segs[1:], pattern[1:]
	}
	return len(segs) == 0
}
