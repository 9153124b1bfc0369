// Package rpmver compares package version strings.
//
// Versions that parse as semantic versions are ordered with semver. Everything
// else falls back to the rpmvercmp segment comparison used by RPM itself,
// including the "~" (pre-release) and "^" (post-release) markers.
package rpmver

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/Masterminds/semver/v3"
)

// Compare returns -1, 0 or 1 when a is older than, equal to or newer than b.
func Compare(a, b string) int {
	if a == b {
		return 0
	}
	va, errA := semver.StrictNewVersion(a)
	vb, errB := semver.StrictNewVersion(b)
	if errA == nil && errB == nil {
		return va.Compare(vb)
	}
	return rpmvercmp(a, b)
}

// Newer reports whether candidate is strictly newer than current.
func Newer(candidate, current string) bool {
	return Compare(candidate, current) > 0
}

// Highest returns the newest version in versions, or "" for an empty list.
// Pre-releases are skipped unless nothing else is available.
func Highest(versions []string) string {
	var stable, all []string
	for _, v := range versions {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		all = append(all, v)
		if !IsPrerelease(v) {
			stable = append(stable, v)
		}
	}
	pool := stable
	if len(pool) == 0 {
		pool = all
	}
	if len(pool) == 0 {
		return ""
	}
	sort.SliceStable(pool, func(i, j int) bool { return Compare(pool[i], pool[j]) > 0 })
	return pool[0]
}

// IsPrerelease reports whether v looks like an alpha, beta or release candidate.
func IsPrerelease(v string) bool {
	if sv, err := semver.NewVersion(v); err == nil && sv.Prerelease() != "" {
		return true
	}
	lower := strings.ToLower(v)
	if strings.Contains(lower, "~") {
		return true
	}
	for _, marker := range []string{"alpha", "beta", "rc", "dev", "pre"} {
		if idx := strings.Index(lower, marker); idx > 0 {
			prev := rune(lower[idx-1])
			if unicode.IsDigit(prev) || prev == '.' || prev == '-' || prev == '_' {
				return true
			}
		}
	}
	return false
}

// rpmvercmp mirrors librpm's comparison of version strings.
func rpmvercmp(a, b string) int {
	if a == b {
		return 0
	}
	for {
		a = strings.TrimLeftFunc(a, isSeparator)
		b = strings.TrimLeftFunc(b, isSeparator)

		// tilde sorts before everything, even the end of the string
		if strings.HasPrefix(a, "~") || strings.HasPrefix(b, "~") {
			if !strings.HasPrefix(a, "~") {
				return 1
			}
			if !strings.HasPrefix(b, "~") {
				return -1
			}
			a, b = a[1:], b[1:]
			continue
		}

		// caret sorts after the end of the string but before anything else
		if strings.HasPrefix(a, "^") || strings.HasPrefix(b, "^") {
			switch {
			case a == "":
				return -1
			case b == "":
				return 1
			case !strings.HasPrefix(a, "^"):
				return 1
			case !strings.HasPrefix(b, "^"):
				return -1
			}
			a, b = a[1:], b[1:]
			continue
		}

		if a == "" || b == "" {
			break
		}

		var segA, segB string
		numeric := unicode.IsDigit(rune(a[0]))
		if numeric {
			segA, a = splitWhile(a, unicode.IsDigit)
			segB, b = splitWhile(b, unicode.IsDigit)
		} else {
			segA, a = splitWhile(a, isAlpha)
			segB, b = splitWhile(b, isAlpha)
		}

		if segB == "" {
			// numeric segments are always newer than alpha ones
			if numeric {
				return 1
			}
			return -1
		}

		if numeric {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if c := strings.Compare(segA, segB); c != 0 {
			return c
		}
	}

	switch {
	case a == "" && b == "":
		return 0
	case a == "":
		return -1
	default:
		return 1
	}
}

// EVR is an epoch:version-release triple.
type EVR struct {
	Epoch   int
	Version string
	Release string
}

// ParseEVR splits "[epoch:]version[-release]". A missing or malformed epoch
// counts as 0.
func ParseEVR(s string) EVR {
	s = strings.TrimSpace(s)
	var evr EVR
	if i := strings.IndexByte(s, ':'); i >= 0 {
		evr.Epoch, _ = strconv.Atoi(s[:i])
		s = s[i+1:]
	}
	if i := strings.LastIndexByte(s, '-'); i >= 0 {
		evr.Version, evr.Release = s[:i], s[i+1:]
	} else {
		evr.Version = s
	}
	return evr
}

func (e EVR) String() string {
	out := e.Version
	if e.Release != "" {
		out += "-" + e.Release
	}
	if e.Epoch != 0 {
		out = strconv.Itoa(e.Epoch) + ":" + out
	}
	return out
}

// CompareEVR orders a and b the way RPM orders package upgrades: epoch
// first, then version, then release. A side without release matches any
// release of the same version.
func CompareEVR(a, b string) int {
	ea, eb := ParseEVR(a), ParseEVR(b)
	switch {
	case ea.Epoch < eb.Epoch:
		return -1
	case ea.Epoch > eb.Epoch:
		return 1
	}
	if c := rpmvercmp(ea.Version, eb.Version); c != 0 {
		return c
	}
	if ea.Release == "" || eb.Release == "" {
		return 0
	}
	return rpmvercmp(ea.Release, eb.Release)
}

func splitWhile(s string, pred func(rune) bool) (string, string) {
	i := 0
	for i < len(s) && pred(rune(s[i])) {
		i++
	}
	return s[:i], s[i:]
}

func isAlpha(r rune) bool {
	return r < unicode.MaxASCII && unicode.IsLetter(r)
}

func isSeparator(r rune) bool {
	return r != '~' && r != '^' && !unicode.IsDigit(r) && !isAlpha(r)
}

// NVRA is the name, version, release and architecture encoded in a package
// file name.
type NVRA struct {
	Name    string
	Version string
	Release string
	Arch    string
}

// String returns name-version-release.arch.
func (n NVRA) String() string {
	return n.Name + "-" + n.Version + "-" + n.Release + "." + n.Arch
}

// ParseFilename splits a name-version-release.arch.rpm file name. Leading
// directories are ignored.
func ParseFilename(file string) (NVRA, bool) {
	if i := strings.LastIndexAny(file, `/\`); i >= 0 {
		file = file[i+1:]
	}
	base, ok := strings.CutSuffix(file, ".rpm")
	if !ok {
		return NVRA{}, false
	}
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 {
		return NVRA{}, false
	}
	arch := base[dot+1:]
	parts := strings.Split(base[:dot], "-")
	if len(parts) < 3 || arch == "" {
		return NVRA{}, false
	}
	n := len(parts)
	return NVRA{
		Name:    strings.Join(parts[:n-2], "-"),
		Version: parts[n-2],
		Release: parts[n-1],
		Arch:    arch,
	}, true
}
