// Package checkers compares the packages of the old and new builds.
//
// Every checker queries the built packages through the rpm tool and reports
// a CheckerResult whose Data survives a round trip through results.yml, so
// Format accepts both the typed values Run produces and the generic values a
// reloaded result carries.
package checkers

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
)

//go:generate mockgen -destination=runner_mock_test.go -package=checkers github.com/EmundoT/rebase-helper/internal/plugins Runner

const headerFormat = "%{NAME}\t%{VERSION}\t%{RELEASE}\t%{ARCH}\t%{LICENSE}\t%{URL}\n"

// header is the part of a package header the checkers use.
type header struct {
	File    string
	Name    string
	Version string
	Release string
	Arch    string
	License string
	URL     string
}

func (h header) evr() string { return h.Version + "-" + h.Release }

func queryHeader(ctx context.Context, runner plugins.Runner, file string) (header, error) {
	out, err := runner.Run(ctx, "", nil, "rpm", "-qp", "--nosignature", "--queryformat", headerFormat, file)
	if err != nil {
		return header{}, fmt.Errorf("query %s: %w", filepath.Base(file), err)
	}
	fields := strings.Split(lastLine(string(out)), "\t")
	if len(fields) != 6 {
		return header{}, fmt.Errorf("query %s: unexpected rpm output %q", filepath.Base(file), out)
	}
	h := header{File: file, Name: fields[0], Version: fields[1], Release: fields[2], Arch: fields[3], License: fields[4], URL: fields[5]}
	if h.URL == "(none)" {
		h.URL = ""
	}
	return h, nil
}

func queryFiles(ctx context.Context, runner plugins.Runner, file string) ([]string, error) {
	out, err := runner.Run(ctx, "", nil, "rpm", "-qlp", "--nosignature", file)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", filepath.Base(file), err)
	}
	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "(contains no files)" {
			continue
		}
		files = append(files, line)
	}
	return files, nil
}

func baseName(path string) string {
	if path == "" {
		return ""
	}
	return filepath.Base(path)
}

func lastLine(out string) string {
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	return lines[len(lines)-1]
}

// byName indexes binary package files by package name. Source packages and
// unparsable names are skipped; the first file wins for multi-arch builds.
func byName(files []string) map[string]string {
	out := make(map[string]string)
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	for _, f := range sorted {
		nvra, ok := rpmver.ParseFilename(f)
		if !ok || nvra.Arch == "src" {
			continue
		}
		if _, seen := out[nvra.Name]; !seen {
			out[nvra.Name] = f
		}
	}
	return out
}

// unionNames returns the sorted package names of both indexes.
func unionNames(a, b map[string]string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for n := range a {
		seen[n] = true
	}
	for n := range b {
		seen[n] = true
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// setDiff returns the entries of a missing from b, keeping a's order.
func setDiff(a, b []string) []string {
	in := make(map[string]bool, len(b))
	for _, x := range b {
		in[x] = true
	}
	var out []string
	for _, x := range a {
		if !in[x] {
			out = append(out, x)
		}
	}
	return out
}

// stringsOf reads a string list from result data.
func stringsOf(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []any:
		out := make([]string, 0, len(t))
		for _, x := range t {
			out = append(out, fmt.Sprint(x))
		}
		return out
	}
	return nil
}

// listsOf reads a map of string lists from result data.
func listsOf(v any) map[string][]string {
	switch t := v.(type) {
	case map[string][]string:
		return t
	case map[string]any:
		out := make(map[string][]string, len(t))
		for k, x := range t {
			out[k] = stringsOf(x)
		}
		return out
	}
	return nil
}

// stringMapOf reads a map of strings from result data.
func stringMapOf(v any) map[string]string {
	switch t := v.(type) {
	case map[string]string:
		return t
	case map[string]any:
		out := make(map[string]string, len(t))
		for k, x := range t {
			out[k] = fmt.Sprint(x)
		}
		return out
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
