package core

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// CopyStats tracks file copy statistics
type CopyStats struct {
	FileCount int
	ByteCount int64
}

// Add adds another CopyStats to this one
func (s *CopyStats) Add(other CopyStats) {
	s.FileCount += other.FileCount
	s.ByteCount += other.ByteCount
}

// FileSystem abstracts the file operations of the workspace for testing
//
//go:generate mockgen -source=filesystem.go -destination=filesystem_mock_test.go -package=core
type FileSystem interface {
	CopyFile(src, dst string) (CopyStats, error)
	CopyDir(src, dst string) (CopyStats, error)
	MkdirAll(path string, perm os.FileMode) error
	ReadDir(path string) ([]string, error)
	Stat(path string) (os.FileInfo, error)
	RemoveAll(path string) error
}

// OSFileSystem implements FileSystem using standard os package
type OSFileSystem struct{}

// NewOSFileSystem creates a new OSFileSystem
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// CopyFile copies a single file from src to dst, keeping its mode.
func (fs *OSFileSystem) CopyFile(src, dst string) (CopyStats, error) {
	source, err := os.Open(src)
	if err != nil {
		return CopyStats{}, err
	}
	defer func() { _ = source.Close() }()

	info, err := source.Stat()
	if err != nil {
		return CopyStats{}, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return CopyStats{}, err
	}
	dest, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, info.Mode().Perm())
	if err != nil {
		return CopyStats{}, err
	}
	defer func() { _ = dest.Close() }()

	bytes, err := io.Copy(dest, source)
	if err != nil {
		return CopyStats{}, err
	}

	return CopyStats{FileCount: 1, ByteCount: bytes}, nil
}

// CopyDir recursively copies a directory from src to dst. Version control
// metadata directories are skipped; symlinks are recreated, not followed.
func (fs *OSFileSystem) CopyDir(src, dst string) (CopyStats, error) {
	var stats CopyStats

	err := filepath.WalkDir(src, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		relPath, _ := filepath.Rel(src, path)
		if d.IsDir() && d.Name() == ".git" {
			return filepath.SkipDir
		}
		destPath := filepath.Join(dst, relPath)

		switch {
		case d.IsDir():
			return os.MkdirAll(destPath, 0755)
		case d.Type()&os.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			return os.Symlink(target, destPath)
		}

		fileStats, err := fs.CopyFile(path, destPath)
		if err != nil {
			return err
		}
		stats.Add(fileStats)

		return nil
	})

	return stats, err
}

// MkdirAll creates a directory path
func (fs *OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// ReadDir lists directory contents, directories with a trailing slash
func (fs *OSFileSystem) ReadDir(path string) ([]string, error) {
	if path == "" {
		path = "."
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var items []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			name += "/"
		}
		items = append(items, name)
	}

	sort.Strings(items)
	return items, nil
}

// Stat returns file info
func (fs *OSFileSystem) Stat(path string) (os.FileInfo, error) {
	return os.Stat(path)
}

// RemoveAll removes a directory tree
func (fs *OSFileSystem) RemoveAll(path string) error {
	return os.RemoveAll(path)
}

// FindFiles returns the files under dir whose base name matches pattern,
// sorted.
func FindFiles(dir, pattern string) ([]string, error) {
	var out []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ok, _ := filepath.Match(pattern, d.Name()); ok {
			out = append(out, path)
		}
		return nil
	})
	sort.Strings(out)
	return out, err
}

// ValidateDestPath ensures an archive member path stays inside the
// extraction directory
func ValidateDestPath(destPath string) error {
	cleaned := filepath.Clean(destPath)

	if strings.HasPrefix(destPath, "/") || strings.HasPrefix(destPath, "\\") {
		return fmt.Errorf("invalid destination path: %s (absolute paths are not allowed)", destPath)
	}

	// Windows drive letters are rejected on every platform
	if len(destPath) >= 2 && destPath[1] == ':' && destPath[0] >= 'A' && destPath[0] <= 'Z' ||
		len(destPath) >= 2 && destPath[1] == ':' && destPath[0] >= 'a' && destPath[0] <= 'z' {
		return fmt.Errorf("invalid destination path: %s (absolute paths are not allowed)", destPath)
	}

	if filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid destination path: %s (absolute paths are not allowed)", destPath)
	}

	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || strings.Contains(cleaned, string(filepath.Separator)+".."+string(filepath.Separator)) {
		return fmt.Errorf("invalid destination path: %s (path traversal with .. is not allowed)", destPath)
	}

	return nil
}
