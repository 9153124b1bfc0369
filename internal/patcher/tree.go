package patcher

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// ErrNotExist is returned when a file is absent from the tree.
var ErrNotExist = fs.ErrNotExist

// Tree is a copy-on-write view of a directory. Reads fall through to disk
// until a path is written or deleted; Flush persists the pending changes.
type Tree struct {
	root    string
	files   map[string][]byte
	deleted map[string]bool
}

// NewTree returns a tree rooted at dir. An empty dir gives a purely
// in-memory tree.
func NewTree(dir string) *Tree {
	return &Tree{root: dir, files: map[string][]byte{}, deleted: map[string]bool{}}
}

// Root returns the directory backing the tree.
func (t *Tree) Root() string { return t.root }

// Clone returns an independent overlay sharing the same backing directory.
func (t *Tree) Clone() *Tree {
	c := NewTree(t.root)
	for k, v := range t.files {
		c.files[k] = append([]byte(nil), v...)
	}
	for k := range t.deleted {
		c.deleted[k] = true
	}
	return c
}

// Exists reports whether path is present in the tree.
func (t *Tree) Exists(path string) bool {
	_, err := t.Read(path)
	return err == nil
}

func (t *Tree) Read(path string) ([]byte, error) {
	if t.deleted[path] {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	if data, ok := t.files[path]; ok {
		return data, nil
	}
	if t.root == "" {
		return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
	}
	data, err := os.ReadFile(filepath.Join(t.root, filepath.FromSlash(path)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", path, ErrNotExist)
		}
		return nil, err
	}
	return data, nil
}

func (t *Tree) Write(path string, data []byte) {
	delete(t.deleted, path)
	t.files[path] = data
}

func (t *Tree) Delete(path string) {
	delete(t.files, path)
	t.deleted[path] = true
}

// Changed returns the paths written or deleted in the overlay, sorted.
func (t *Tree) Changed() []string {
	out := make([]string, 0, len(t.files)+len(t.deleted))
	for p := range t.files {
		out = append(out, p)
	}
	for p := range t.deleted {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Flush writes pending changes to the backing directory and clears the
// overlay.
func (t *Tree) Flush() error {
	if t.root == "" {
		return errors.New("tree has no backing directory")
	}
	for _, p := range t.Changed() {
		full := filepath.Join(t.root, filepath.FromSlash(p))
		if t.deleted[p] {
			if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("remove %s: %w", p, err)
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", p, err)
		}
		mode := fs.FileMode(0644)
		if info, err := os.Stat(full); err == nil {
			mode = info.Mode().Perm()
		}
		if err := os.WriteFile(full, t.files[p], mode); err != nil {
			return fmt.Errorf("write %s: %w", p, err)
		}
	}
	t.files = map[string][]byte{}
	t.deleted = map[string]bool{}
	return nil
}
