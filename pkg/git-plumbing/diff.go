package git

import (
	"context"
	"strconv"
	"strings"
)

// FileStat represents line-change statistics for a single file.
type FileStat struct {
	Path    string
	Added   int
	Removed int
}

// DiffStat represents aggregate diff statistics.
type DiffStat struct {
	Files []FileStat
	Total FileStat // aggregate totals
}

// DiffCachedStat returns line-change stats for staged (cached) changes.
func (g *Git) DiffCachedStat(ctx context.Context) (*DiffStat, error) {
	lines, err := g.RunLines(ctx, "diff", "--cached", "--numstat")
	if err != nil {
		return nil, err
	}
	return parseNumstat(lines), nil
}

// DiffCached returns the unified diff of staged changes, newline
// terminated. Paths restrict the diff when given.
func (g *Git) DiffCached(ctx context.Context, paths ...string) (string, error) {
	args := []string{"diff", "--cached", "--no-color", "--no-ext-diff"}
	if len(paths) > 0 {
		args = append(append(args, "--"), paths...)
	}
	out, err := g.Run(ctx, args...)
	if err != nil || out == "" {
		return out, err
	}
	return out + "\n", nil
}

// parseNumstat parses git diff --numstat output into a DiffStat.
func parseNumstat(lines []string) *DiffStat {
	stat := &DiffStat{}
	for _, line := range lines {
		parts := strings.Split(line, "\t")
		if len(parts) != 3 {
			continue
		}
		// binary files report "-" for both counts
		added, _ := strconv.Atoi(parts[0])
		removed, _ := strconv.Atoi(parts[1])
		fs := FileStat{
			Path:    parts[2],
			Added:   added,
			Removed: removed,
		}
		stat.Files = append(stat.Files, fs)
		stat.Total.Added += added
		stat.Total.Removed += removed
	}
	return stat
}
