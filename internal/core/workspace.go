package core

import (
	"fmt"
	"os"
	"path/filepath"
)

// OldSpecDir is the workspace copy of the original package directory the
// old build runs from.
const OldSpecDir = "old-spec"

// Workspace resolves the directories of one run. The workspace holds
// scratch data (downloads, unpacked trees); the results directory holds
// everything reported to the user.
type Workspace struct {
	Root       string
	ResultsDir string
}

// NewWorkspace returns the layout rooted at workspaceDir and resultsDir.
func NewWorkspace(workspaceDir, resultsDir string) Workspace {
	return Workspace{Root: workspaceDir, ResultsDir: resultsDir}
}

func (w Workspace) Downloads() string      { return filepath.Join(w.Root, DownloadsDir) }
func (w Workspace) RebasedSources() string { return filepath.Join(w.ResultsDir, RebasedSourcesDir) }
func (w Workspace) Logs() string           { return filepath.Join(w.ResultsDir, LogsDir) }
func (w Workspace) Checkers() string       { return filepath.Join(w.ResultsDir, CheckersDir) }
func (w Workspace) Conflicts() string      { return filepath.Join(w.ResultsDir, ConflictsDir) }
func (w Workspace) ChangesPatch() string   { return filepath.Join(w.ResultsDir, ChangesPatch) }

// Sources returns where the upstream tree of side is unpacked.
func (w Workspace) Sources(side string) string {
	if side == SideOld {
		return filepath.Join(w.Root, OldSourcesDir)
	}
	return filepath.Join(w.Root, NewSourcesDir)
}

// SpecDir returns the directory a build of side runs from: the spec, its
// patches and its archives.
func (w Workspace) SpecDir(side string) string {
	if side == SideOld {
		return filepath.Join(w.Root, OldSpecDir)
	}
	return w.RebasedSources()
}

// BuildDir returns where the artifacts of side are stored.
func (w Workspace) BuildDir(side string) string {
	if side == SideOld {
		return filepath.Join(w.ResultsDir, OldBuildDir)
	}
	return filepath.Join(w.ResultsDir, NewBuildDir)
}

// Report returns the report path for a renderer extension.
func (w Workspace) Report(ext string) string {
	return filepath.Join(w.ResultsDir, ReportBase+"."+ext)
}

// Create makes the directories every stage expects.
func (w Workspace) Create() error {
	for _, dir := range []string{w.Root, w.ResultsDir, w.Downloads(), w.Logs()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return nil
}

// ResetSide clears the unpacked tree and build artifacts of side so a stage
// can run again from scratch.
func (w Workspace) ResetSide(side string) error {
	for _, dir := range []string{w.Sources(side), w.BuildDir(side)} {
		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}
	return nil
}
