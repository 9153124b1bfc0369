// Package testutil provides shared fixtures for rebase-helper tests: a small
// "pello" package with three downstream patches, its old and new upstream
// trees, and helpers to lay them out on disk.
package testutil

import (
	"archive/tar"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
)

func lines(l ...string) string {
	return strings.Join(l, "\n") + "\n"
}

// ============================================================================
// Pello package
// ============================================================================

// PelloSpec is the package specification at version 0.1.
var PelloSpec = lines(
	"Name:           pello",
	"Version:        0.1",
	"Release:        3%{?dist}",
	"Summary:        Example Python program",
	"",
	"License:        MIT",
	"URL:            https://example.com/%{name}",
	"Source0:        %{url}/releases/%{name}-%{version}.tar.gz",
	"Patch1:         applicable.patch",
	"Patch2:         conflicting.patch",
	"Patch3:         backported.patch",
	"",
	"BuildArch:      noarch",
	"BuildRequires:  make",
	"",
	"%description",
	"Pello is an example package.",
	"",
	"%prep",
	"%setup -q",
	"%patch1 -p1",
	"%patch2 -p1",
	"%patch3 -p1",
	"",
	"%build",
	"",
	"%install",
	"%make_install",
	"",
	"%files",
	"%license LICENSE",
	"%doc README.md",
	"%{_bindir}/pello",
	"%{_mandir}/man1/pello.1*",
	"",
	"%changelog",
	"* Mon Jan 01 2024 Packager <packager@example.com> - 0.1-3",
	"- Initial package",
)

// PelloOldTree is the upstream 0.1 source tree.
var PelloOldTree = map[string]string{
	"README.md": lines(
		"Pello",
		"=====",
		"",
		"Pello is an example package.",
		"",
		"Usage:",
		"  pello",
	),
	"pello.py": lines(
		"#!/usr/bin/python3",
		"",
		"",
		"def main():",
		`    print("Hello World")`,
		"",
		"",
		`if __name__ == "__main__":`,
		"    main()",
	),
	"Makefile": lines(
		"PREFIX ?= /usr",
		"",
		"all:",
		"\t@echo nothing to build",
		"",
		"install:",
		"\tinstall -D -m 0755 pello.py $(DESTDIR)$(PREFIX)/bin/pello",
	),
	"LICENSE": lines("MIT License", "", "Copyright (c) pello authors"),
}

// PelloNewTree is the upstream 0.2 source tree. It rewords the greeting
// and ships the man page install rule that backported.patch added.
var PelloNewTree = map[string]string{
	"README.md": PelloOldTree["README.md"],
	"pello.py": lines(
		"#!/usr/bin/python3",
		"",
		"",
		"def main():",
		`    print("Hello, World")`,
		"",
		"",
		`if __name__ == "__main__":`,
		"    main()",
	),
	"Makefile": lines(
		"PREFIX ?= /usr",
		"",
		"all:",
		"\t@echo nothing to build",
		"",
		"install:",
		"\tinstall -D -m 0755 pello.py $(DESTDIR)$(PREFIX)/bin/pello",
		"\tinstall -D -m 0644 pello.1 $(DESTDIR)$(PREFIX)/share/man/man1/pello.1",
	),
	"LICENSE": PelloOldTree["LICENSE"],
}

// ApplicablePatch touches a file upstream left alone.
var ApplicablePatch = lines(
	"Add a second sentence to the README.",
	"",
	"--- a/README.md",
	"+++ b/README.md",
	"@@ -3,5 +3,6 @@",
	" ",
	" Pello is an example package.",
	"+It greets the world.",
	" ",
	" Usage:",
	"   pello",
)

// ConflictingPatch changes the line upstream rewrote.
var ConflictingPatch = lines(
	"--- a/pello.py",
	"+++ b/pello.py",
	"@@ -2,7 +2,7 @@",
	" ",
	" ",
	" def main():",
	`-    print("Hello World")`,
	`+    print("Hello World!!")`,
	" ",
	" ",
	` if __name__ == "__main__":`,
)

// BackportedPatch carries a change upstream already released.
var BackportedPatch = lines(
	"--- a/Makefile",
	"+++ b/Makefile",
	"@@ -5,3 +5,4 @@",
	" ",
	" install:",
	" \tinstall -D -m 0755 pello.py $(DESTDIR)$(PREFIX)/bin/pello",
	"+\tinstall -D -m 0644 pello.1 $(DESTDIR)$(PREFIX)/share/man/man1/pello.1",
)

// PelloPatches maps patch file names to their content.
var PelloPatches = map[string]string{
	"applicable.patch":  ApplicablePatch,
	"conflicting.patch": ConflictingPatch,
	"backported.patch":  BackportedPatch,
}

// ============================================================================
// Filesystem helpers
// ============================================================================

// WriteTree writes files (relative path -> content) under dir.
func WriteTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
			t.Fatalf("mkdir %s: %v", filepath.Dir(p), err)
		}
		if err := os.WriteFile(p, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
}

// ReadFile returns the content of path or fails the test.
func ReadFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

// WriteTarball writes files into a .tar.gz at path, each under prefix/.
func WriteTarball(t *testing.T, path, prefix string, files map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer func() { _ = f.Close() }()

	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	if err := tw.WriteHeader(&tar.Header{Name: prefix + "/", Typeflag: tar.TypeDir, Mode: 0755}); err != nil {
		t.Fatalf("tar header: %v", err)
	}
	for _, name := range names {
		content := files[name]
		hdr := &tar.Header{Name: prefix + "/" + name, Mode: 0644, Size: int64(len(content)), Typeflag: tar.TypeReg}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("tar header %s: %v", name, err)
		}
		if _, err := tw.Write([]byte(content)); err != nil {
			t.Fatalf("tar write %s: %v", name, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("tar close: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
}

// PelloPackage is an on-disk pello checkout.
type PelloPackage struct {
	Dir        string // dist-git style directory: spec, patches, old tarball
	SpecPath   string
	OldTarball string
	NewTarball string // outside Dir, as if fetched from upstream
}

// NewPelloPackage lays out the pello package in t.TempDir().
func NewPelloPackage(t *testing.T) *PelloPackage {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "pello")
	upstream := filepath.Join(root, "upstream")
	for _, d := range []string{dir, upstream} {
		if err := os.MkdirAll(d, 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	files := map[string]string{"pello.spec": PelloSpec}
	for name, content := range PelloPatches {
		files[name] = content
	}
	WriteTree(t, dir, files)

	pkg := &PelloPackage{
		Dir:        dir,
		SpecPath:   filepath.Join(dir, "pello.spec"),
		OldTarball: filepath.Join(dir, "pello-0.1.tar.gz"),
		NewTarball: filepath.Join(upstream, "pello-0.2.tar.gz"),
	}
	WriteTarball(t, pkg.OldTarball, "pello-0.1", PelloOldTree)
	WriteTarball(t, pkg.NewTarball, "pello-0.2", PelloNewTree)
	return pkg
}
