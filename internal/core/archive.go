package core

import (
	"archive/tar"
	"compress/bzip2"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// maxArchiveEntrySize bounds a single extracted file.
const maxArchiveEntrySize = 2 << 30 // 2 GB

// ErrUnsupportedArchive is returned for archive types Unpack cannot read.
var ErrUnsupportedArchive = errors.New("unsupported archive format")

// archiveKinds maps file suffixes to decompressors, longest suffix first.
var archiveKinds = []struct {
	suffix string
	kind   string
}{
	{".tar.gz", "gz"}, {".tgz", "gz"},
	{".tar.bz2", "bz2"}, {".tbz2", "bz2"},
	{".tar.xz", "xz"}, {".txz", "xz"},
	{".tar.zst", "zst"},
	{".tar", "tar"},
	{".zip", "zip"},
}

// IsArchive reports whether name looks like a source archive Unpack reads.
func IsArchive(name string) bool {
	return archiveKind(name) != ""
}

func archiveKind(name string) string {
	lower := strings.ToLower(name)
	for _, k := range archiveKinds {
		if strings.HasSuffix(lower, k.suffix) {
			return k.kind
		}
	}
	return ""
}

// Unpack extracts archive into dest and returns the source root: the single
// top-level directory of the archive when there is one, dest otherwise.
func Unpack(archive, dest string) (string, error) {
	kind := archiveKind(archive)
	if kind == "" {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedArchive, filepath.Base(archive))
	}
	if err := os.MkdirAll(dest, 0755); err != nil {
		return "", err
	}

	var err error
	if kind == "zip" {
		err = unzip(archive, dest)
	} else {
		err = untarFile(archive, kind, dest)
	}
	if err != nil {
		return "", fmt.Errorf("unpack %s: %w", filepath.Base(archive), err)
	}
	return sourceRoot(dest)
}

func untarFile(archive, kind, dest string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	var r io.Reader
	switch kind {
	case "gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return err
		}
		defer func() { _ = gz.Close() }()
		r = gz
	case "bz2":
		r = bzip2.NewReader(f)
	case "xz":
		xr, err := xz.NewReader(f)
		if err != nil {
			return err
		}
		r = xr
	case "zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return err
		}
		defer zr.Close()
		r = zr
	default:
		r = f
	}
	return untar(r, dest)
}

func untar(r io.Reader, dest string) error {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if hdr.Name == "pax_global_header" {
			continue
		}
		if err := ValidateDestPath(hdr.Name); err != nil {
			return err
		}
		target := filepath.Join(dest, hdr.Name)

		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(target, tr, os.FileMode(hdr.Mode).Perm()); err != nil {
				return err
			}
		case tar.TypeSymlink:
			if err := ValidateDestPath(filepath.Join(filepath.Dir(hdr.Name), hdr.Linkname)); err != nil {
				return fmt.Errorf("symlink %s: %w", hdr.Name, err)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
				return err
			}
			if err := os.Symlink(hdr.Linkname, target); err != nil {
				return err
			}
		}
	}
}

func unzip(archive, dest string) error {
	zr, err := zip.OpenReader(archive)
	if err != nil {
		return err
	}
	defer func() { _ = zr.Close() }()

	for _, f := range zr.File {
		if err := ValidateDestPath(f.Name); err != nil {
			return err
		}
		target := filepath.Join(dest, f.Name)
		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = writeEntry(target, rc, f.Mode().Perm())
		_ = rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

func writeEntry(target string, r io.Reader, perm os.FileMode) error {
	if perm == 0 {
		perm = 0644
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	n, err := io.Copy(out, io.LimitReader(r, maxArchiveEntrySize+1))
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > maxArchiveEntrySize {
		err = fmt.Errorf("%s exceeds the %d byte entry limit", filepath.Base(target), int64(maxArchiveEntrySize))
	}
	return err
}

func sourceRoot(dest string) (string, error) {
	entries, err := os.ReadDir(dest)
	if err != nil {
		return "", err
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return filepath.Join(dest, entries[0].Name()), nil
	}
	return dest, nil
}
