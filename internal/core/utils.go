package core

import (
	"fmt"

	"github.com/EmundoT/rebase-helper/internal/rpmver"
)

// Pluralize returns the count with the singular or plural noun.
//
//	Pluralize(1, "patch", "patches") => "1 patch"
//	Pluralize(3, "patch", "patches") => "3 patches"
func Pluralize(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// versionFromRPM extracts the version of a name-version-release.arch.rpm
// file name, or "" when the name does not have that shape.
func versionFromRPM(file string) string {
	nvra, _ := rpmver.ParseFilename(file)
	return nvra.Version
}
