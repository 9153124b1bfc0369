package core

// Results directory layout
const (
	// ReportBase is the report file name without its renderer extension.
	ReportBase = "report"
	// ChangesPatch is the consolidated change-set against the original package.
	ChangesPatch = "changes.patch"
	// StateFile persists the results store for --continue.
	StateFile = "results.yml"
	// LogsDir holds debug.log, verbose.log, info.log and traceback.log.
	LogsDir = "logs"
	// OldBuildDir and NewBuildDir hold builder artifacts and logs.
	OldBuildDir = "old-build"
	NewBuildDir = "new-build"
	// CheckersDir holds one directory per checker.
	CheckersDir = "checkers"
	// RebasedSourcesDir holds the rebased spec and regenerated patches.
	RebasedSourcesDir = "rebased-sources"
	// ConflictsDir holds merge results of conflicting patches.
	ConflictsDir = "conflicts"
)

// Build artifact subdirectories
const (
	SRPMDir = "SRPM"
	RPMDir  = "RPM"
)

// Workspace layout
const (
	DownloadsDir  = "downloads"
	OldSourcesDir = "old-sources"
	NewSourcesDir = "new-sources"
)

// SourcesFile is the dist-git checksum list next to the spec.
const SourcesFile = "sources"

// Version tags of the two sides of a rebase
const (
	SideOld = "old"
	SideNew = "new"
)
