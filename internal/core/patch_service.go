package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"

	"github.com/EmundoT/rebase-helper/internal/config"
	"github.com/EmundoT/rebase-helper/internal/patcher"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// PatchPolicy decides what happens to patches whose merge conflicts.
type PatchPolicy struct {
	MaxFuzz int
	// Favor is one of config.FavorUpstream, FavorDownstream or FavorOff.
	Favor               string
	DisableInapplicable bool
	// Interactive allows asking whether to disable a conflicting patch.
	Interactive bool
}

// PolicyFromConfig reads the patch options of cfg.
func PolicyFromConfig(cfg *config.Config) PatchPolicy {
	return PatchPolicy{
		MaxFuzz:             cfg.Int(config.KeyMaxFuzz),
		Favor:               cfg.String(config.KeyFavorOnConflict),
		DisableInapplicable: cfg.Bool(config.KeyDisableInapplicablePatches),
		Interactive:         cfg.Interactive(),
	}
}

// PatchRequest is the input of one PATCH stage.
type PatchRequest struct {
	Original *specfile.Spec
	// Rebased is edited in place and saved at the end.
	Rebased *specfile.Spec
	// PatchDir holds the original patch files.
	PatchDir   string
	OldSources string
	NewSources string
	// OutputDir receives regenerated patches; it is the directory of the
	// rebased spec.
	OutputDir    string
	ConflictsDir string
}

// PatchService is the patch-adaptation engine: it ports the downstream
// patches of a package onto the new upstream sources.
type PatchService struct {
	policy PatchPolicy
	ui     UICallback
	log    *logger.Logger
}

// NewPatchService creates a patch engine.
func NewPatchService(policy PatchPolicy, ui UICallback, log *logger.Logger) *PatchService {
	if ui == nil {
		ui = &SilentUICallback{}
	}
	if log == nil {
		log = logger.Discard()
	}
	return &PatchService{policy: policy, ui: ui, log: log.WithComponent("patcher")}
}

// loadedPatch is a patch reference with its parsed content and the old
// tree before and after it was applied.
type loadedPatch struct {
	ref       specfile.Patch
	patch     *patcher.Patch
	oldResult *patcher.Result
	oldBefore *patcher.Tree
	oldAfter  *patcher.Tree
}

// Run classifies every patch of req.Original, edits req.Rebased to match
// and records the outcomes in store. Patches are processed in index order.
func (s *PatchService) Run(ctx context.Context, req PatchRequest, store *ResultsStore) ([]types.PatchOutcome, error) {
	var outcomes []types.PatchOutcome
	record := func(o types.PatchOutcome) {
		store.SetPatch(o)
		outcomes = append(outcomes, o)
	}

	refs := req.Original.Patches()
	sort.SliceStable(refs, func(i, j int) bool { return refs[i].Index < refs[j].Index })

	var applied []specfile.Patch
	for _, ref := range refs {
		switch {
		case ref.Disabled:
			record(types.PatchOutcome{Index: ref.Index, Name: ref.Filename, Status: types.PatchUntouched, Reason: "disabled in the original spec"})
		case !ref.Applied:
			record(types.PatchOutcome{Index: ref.Index, Name: ref.Filename, Status: types.PatchUntouched, Reason: "not applied in %prep"})
		default:
			applied = append(applied, ref)
		}
	}
	if len(applied) == 0 {
		s.log.Info("no patches to rebase")
		return outcomes, req.Rebased.Save()
	}

	loaded, err := s.applyOld(req, applied)
	if err != nil {
		return outcomes, err
	}

	newTree := patcher.NewTree(req.NewSources)
	for _, lp := range loaded {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}
		o, next, err := s.rebaseOne(req, lp, newTree)
		if err != nil {
			return outcomes, err
		}
		if next != nil {
			newTree = next
		}
		if err := s.updateSpec(req, lp.ref, o); err != nil {
			return outcomes, err
		}
		s.log.Info("patch rebased", "patch", o.Name, "status", string(o.Status))
		record(o)
	}

	if err := req.Rebased.Save(); err != nil {
		return outcomes, err
	}
	return outcomes, nil
}

// applyOld replays the patches on the old sources. They were written
// against those sources, so any reject means the package is inconsistent.
func (s *PatchService) applyOld(req PatchRequest, refs []specfile.Patch) ([]*loadedPatch, error) {
	tree := patcher.NewTree(req.OldSources)
	out := make([]*loadedPatch, 0, len(refs))
	for _, ref := range refs {
		path := filepath.Join(req.PatchDir, ref.Filename)
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewConfigurationError(err, "make sure every patch listed in the spec exists", "cannot read patch %s", ref.Filename)
		}
		p, err := patcher.Parse(data)
		if err != nil {
			return nil, NewConfigurationError(err, "", "cannot parse patch %s", ref.Filename)
		}

		before := tree.Clone()
		res, err := patcher.Apply(tree, p, patcher.Options{Strip: ref.Strip, MaxFuzz: s.policy.MaxFuzz})
		if err != nil {
			return nil, NewConfigurationError(err, "", "cannot apply patch %s to the old sources", ref.Filename)
		}
		if !res.Clean() {
			return nil, NewConfigurationError(nil,
				"the patches must apply to the sources they were written for",
				"patch %s does not apply to the old sources (%s)", ref.Filename, describeRejects(res))
		}
		out = append(out, &loadedPatch{ref: ref, patch: p, oldResult: res, oldBefore: before, oldAfter: tree.Clone()})
	}
	return out, nil
}

// rebaseOne classifies one patch against the new tree. It returns the tree
// the next patch builds on, or nil when the patch leaves it unchanged.
func (s *PatchService) rebaseOne(req PatchRequest, lp *loadedPatch, newTree *patcher.Tree) (types.PatchOutcome, *patcher.Tree, error) {
	o := types.PatchOutcome{Index: lp.ref.Index, Name: lp.ref.Filename}
	opts := patcher.Options{Strip: lp.ref.Strip, MaxFuzz: s.policy.MaxFuzz}

	attempt := newTree.Clone()
	res, err := patcher.Apply(attempt, lp.patch, opts)
	if err != nil {
		return o, nil, fmt.Errorf("apply %s: %w", lp.ref.Filename, err)
	}
	for _, f := range res.Files {
		for _, h := range f.Hunks {
			s.log.Log(context.Background(), logger.LevelVerbose, "hunk",
				"patch", lp.ref.Filename, "file", f.Path, "hunk", h.Index+1,
				"status", h.Status.String(), "offset", h.Offset, "fuzz", h.Fuzz)
		}
	}

	switch {
	case obsoleted(res):
		o.Status = types.PatchDeleted
		o.Reason = "already included upstream"
		if allMissing(res) {
			o.Reason = "touches files removed upstream"
		}
		return o, nil, nil
	case len(rejectedFiles(res)) == 0 && sameApplication(lp.oldResult, res):
		o.Status = types.PatchUntouched
		return o, attempt, nil
	case len(rejectedFiles(res)) == 0:
		return s.regenerate(req, lp, o, newTree, attempt, "applied with offset or fuzz")
	}

	merged, conflicts, err := s.merge(lp, res, attempt, newTree, patcher.FavorNone)
	if err != nil {
		return o, nil, err
	}
	if len(conflicts) == 0 {
		return s.regenerate(req, lp, o, newTree, merged, "rejected hunks merged")
	}

	o.Rejects = conflicts
	dir := filepath.Join(req.ConflictsDir, lp.ref.Filename)
	if err := writeConflicts(merged, dir, res); err != nil {
		return o, nil, err
	}

	if s.policy.Favor == config.FavorDownstream {
		resolved, unresolved, err := s.merge(lp, res, attempt, newTree, patcher.FavorLocal)
		if err != nil {
			return o, nil, err
		}
		if len(unresolved) == 0 {
			return s.regenerate(req, lp, o, newTree, resolved, "conflicts resolved in favor of downstream")
		}
	}

	disable := s.policy.Favor == config.FavorUpstream || s.policy.Favor == config.FavorDownstream || s.policy.DisableInapplicable
	if !disable && s.policy.Interactive && !s.ui.IsAutoApprove() {
		disable = s.ui.AskConfirmation(
			fmt.Sprintf("Patch %s conflicts with the new sources", lp.ref.Filename),
			fmt.Sprintf("Merge result with conflict markers is in %s. Disable the patch and continue?", dir))
	}
	if !disable {
		return o, nil, NewPatchConflictError(lp.ref.Filename, conflicts, dir)
	}
	o.Status = types.PatchInapplicable
	o.Reason = "conflicts with the new sources"
	return o, nil, nil
}

// regenerate rewrites the patch against after and stores it in OutputDir.
func (s *PatchService) regenerate(req PatchRequest, lp *loadedPatch, o types.PatchOutcome, before, after *patcher.Tree, reason string) (types.PatchOutcome, *patcher.Tree, error) {
	p, err := patcher.Regenerate(lp.patch, lp.ref.Strip, before, after)
	if err != nil {
		return o, nil, fmt.Errorf("regenerate %s: %w", lp.ref.Filename, err)
	}
	if p.Empty() {
		o.Status = types.PatchDeleted
		o.Reason = "already included upstream"
		o.Rejects = nil
		return o, nil, nil
	}
	path := filepath.Join(req.OutputDir, lp.ref.Filename)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return o, nil, err
	}
	if err := os.WriteFile(path, p.Format(), 0644); err != nil {
		return o, nil, fmt.Errorf("write %s: %w", path, err)
	}
	o.Status = types.PatchModified
	o.Reason = reason
	o.RebasedPath = path
	return o, after, nil
}

// merge runs a three-way merge for every file with rejected hunks: base is
// the old tree before the patch, local the old tree after it, other the
// new tree before it. It returns attempt updated with the merged files and
// a description of every conflicting file.
func (s *PatchService) merge(lp *loadedPatch, res *patcher.Result, attempt, newTree *patcher.Tree, favor patcher.Favor) (*patcher.Tree, []string, error) {
	merged := attempt.Clone()
	var conflicts []string
	for _, f := range rejectedFiles(res) {
		base, _, err := readTreeFile(lp.oldBefore, f.Path)
		if err != nil {
			return nil, nil, err
		}
		local, localExists, err := readTreeFile(lp.oldAfter, f.Path)
		if err != nil {
			return nil, nil, err
		}
		other, otherExists, err := readTreeFile(newTree, f.Path)
		if err != nil {
			return nil, nil, err
		}
		if !otherExists || !localExists {
			conflicts = append(conflicts, fmt.Sprintf("%s: cannot merge a deleted file", f.Path))
			continue
		}

		m := patcher.Merge3(base, local, other, favor)
		merged.Write(f.Path, []byte(m.Text))
		if !m.Clean() {
			conflicts = append(conflicts, fmt.Sprintf("%s: %d conflicting region(s) in hunk(s) %s", f.Path, m.Conflicts, hunkList(f.Rejected())))
		}
	}
	return merged, conflicts, nil
}

// updateSpec mirrors an outcome in the rebased spec.
func (s *PatchService) updateSpec(req PatchRequest, ref specfile.Patch, o types.PatchOutcome) error {
	switch o.Status {
	case types.PatchDeleted:
		if err := req.Rebased.RemovePatch(ref.Index); err != nil {
			return err
		}
		err := os.Remove(filepath.Join(req.OutputDir, ref.Filename))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	case types.PatchInapplicable:
		return req.Rebased.DisablePatch(ref.Index)
	}
	return nil
}

// ============================================================================
// Result classification
// ============================================================================

// obsoleted reports whether nothing of the patch is left to apply: every
// file is either already patched upstream or gone.
func obsoleted(res *patcher.Result) bool {
	if len(res.Files) == 0 {
		return false
	}
	for _, f := range res.Files {
		if f.Status == patcher.FileMissing {
			continue
		}
		for _, h := range f.Hunks {
			if h.Status != patcher.HunkAlreadyApplied {
				return false
			}
		}
	}
	return true
}

func allMissing(res *patcher.Result) bool {
	for _, f := range res.Files {
		if f.Status != patcher.FileMissing {
			return false
		}
	}
	return true
}

// rejectedFiles returns the files with rejected hunks. Files missing from
// the new sources are not rejects: upstream removed them.
func rejectedFiles(res *patcher.Result) []*patcher.FileResult {
	var out []*patcher.FileResult
	for _, f := range res.Files {
		if f.Status != patcher.FileMissing && len(f.Rejected()) > 0 {
			out = append(out, f)
		}
	}
	return out
}

// sameApplication reports whether the patch applied to the new sources
// exactly the way it applied to the old ones.
func sameApplication(old, cur *patcher.Result) bool {
	if len(old.Files) != len(cur.Files) {
		return false
	}
	for i := range old.Files {
		if old.Files[i].Status != cur.Files[i].Status || !slices.Equal(old.Files[i].Hunks, cur.Files[i].Hunks) {
			return false
		}
	}
	return true
}

func describeRejects(res *patcher.Result) string {
	var parts []string
	for _, f := range res.Files {
		if r := f.Rejected(); len(r) > 0 {
			parts = append(parts, fmt.Sprintf("%s: hunk(s) %s", f.Path, hunkList(r)))
		}
	}
	return fmt.Sprint(parts)
}

func hunkList(indexes []int) string {
	out := ""
	for i, idx := range indexes {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("#%d", idx+1)
	}
	return out
}

func readTreeFile(t *patcher.Tree, path string) (string, bool, error) {
	data, err := t.Read(path)
	if errors.Is(err, patcher.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(data), true, nil
}

// writeConflicts stores the merged files of the rejected paths under dir.
func writeConflicts(merged *patcher.Tree, dir string, res *patcher.Result) error {
	for _, f := range rejectedFiles(res) {
		data, err := merged.Read(f.Path)
		if err != nil {
			continue
		}
		target := filepath.Join(dir, filepath.FromSlash(f.Path))
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		if err := os.WriteFile(target, data, 0644); err != nil {
			return err
		}
	}
	return nil
}
