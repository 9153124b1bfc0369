// Package version carries the build stamp of the rebase-helper binary.
package version

import (
	"fmt"
	"runtime/debug"
)

// Set through -ldflags by the release build.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// readBuildInfo is swapped out in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the stamped version. Unstamped binaries installed with
// "go install module@version" report the module version instead of "dev".
func GetVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return "dev"
}

// GetFullVersion is what "rebase-helper --version" prints.
func GetFullVersion() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", GetVersion(), Commit, Date)
}

// UserAgent identifies rebase-helper to download servers and version indexes.
func UserAgent() string {
	return "rebase-helper/" + GetVersion()
}
