package core

import (
	"bufio"
	"crypto/md5"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"
)

// SourceChecksum is one line of a dist-git sources file.
type SourceChecksum struct {
	Algorithm string // "SHA512" or "MD5"
	Filename  string
	Sum       string
}

var (
	taggedSumRe = regexp.MustCompile(`^([A-Z0-9]+) \((.+)\) = ([0-9a-fA-F]+)$`)
	legacySumRe = regexp.MustCompile(`^([0-9a-fA-F]{32})\s+\*?(.+)$`)
)

// ParseSourcesFile reads a sources file. Both the tagged
// "SHA512 (name) = sum" form and the legacy "md5sum  name" form are read.
// A missing file yields no entries.
func ParseSourcesFile(path string) (map[string]SourceChecksum, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	out := make(map[string]SourceChecksum)
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if m := taggedSumRe.FindStringSubmatch(line); m != nil {
			out[m[2]] = SourceChecksum{Algorithm: m[1], Filename: m[2], Sum: strings.ToLower(m[3])}
			continue
		}
		if m := legacySumRe.FindStringSubmatch(line); m != nil {
			out[m[2]] = SourceChecksum{Algorithm: "MD5", Filename: m[2], Sum: strings.ToLower(m[1])}
			continue
		}
		return nil, fmt.Errorf("%s:%d: unrecognized line %q", path, n, line)
	}
	return out, sc.Err()
}

// WriteSourcesFile writes entries in tagged SHA512 form, sorted by name.
func WriteSourcesFile(path string, entries []SourceChecksum) error {
	sorted := append([]SourceChecksum(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Filename < sorted[j].Filename })
	var b strings.Builder
	for _, e := range sorted {
		fmt.Fprintf(&b, "%s (%s) = %s\n", e.Algorithm, e.Filename, e.Sum)
	}
	return os.WriteFile(path, []byte(b.String()), 0644)
}

// FileChecksum returns the hex digest of path with algorithm ("SHA512" or
// "MD5").
func FileChecksum(path, algorithm string) (string, error) {
	var h hash.Hash
	switch strings.ToUpper(algorithm) {
	case "SHA512":
		h = sha512.New()
	case "MD5":
		h = md5.New()
	default:
		return "", fmt.Errorf("unsupported checksum algorithm %q", algorithm)
	}
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum compares path against want.
func VerifyChecksum(path string, want SourceChecksum) error {
	got, err := FileChecksum(path, want.Algorithm)
	if err != nil {
		return err
	}
	if got != want.Sum {
		return fmt.Errorf("%s checksum mismatch for %s: expected %s, got %s", want.Algorithm, want.Filename, want.Sum, got)
	}
	return nil
}
