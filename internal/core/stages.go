package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/config"
	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/types"
	git "github.com/EmundoT/rebase-helper/pkg/git-plumbing"
)

// ============================================================================
// ACQUIRE
// ============================================================================

// sideSpec returns the spec describing side: the original one for the old
// side, an in-memory copy set to the target version for the new side.
func (o *Orchestrator) sideSpec(side string) (*specfile.Spec, error) {
	if side == SideOld {
		return o.original, nil
	}
	if o.rebased != nil {
		return o.rebased, nil
	}
	s := o.original.Clone(filepath.Join(o.ws.RebasedSources(), filepath.Base(o.original.Path())))
	if err := s.SetVersion(o.newVersion); err != nil {
		return nil, NewConfigurationError(err, "", "cannot set version %s", o.newVersion)
	}
	return s, nil
}

// locate returns where source src of side is stored: in the package
// directory when present there, in the downloads directory otherwise.
func (o *Orchestrator) locate(side string, src specfile.Source) string {
	local := filepath.Join(o.packageDir, src.Filename())
	if side == SideOld || !src.IsRemote() {
		if _, err := os.Stat(local); err == nil {
			return local
		}
	}
	return filepath.Join(o.ws.Downloads(), side, src.Filename())
}

func (o *Orchestrator) acquire(ctx context.Context) error {
	checksums, err := ParseSourcesFile(filepath.Join(o.packageDir, SourcesFile))
	if err != nil {
		return NewConfigurationError(err, "", "cannot read the %s file", SourcesFile)
	}

	for _, side := range []string{SideOld, SideNew} {
		spec, err := o.sideSpec(side)
		if err != nil {
			return err
		}
		if side == SideNew && spec != o.rebased {
			// hooks may fix the new Source URLs before they are fetched
			if err := o.runSpecHooks(ctx, spec); err != nil {
				return err
			}
		}
		var main string
		for _, src := range spec.Sources() {
			path := o.locate(side, src)
			if _, err := os.Stat(path); err != nil {
				if !src.IsRemote() {
					if side == SideNew {
						continue
					}
					return NewAcquisitionError(src.Filename(), fmt.Errorf("not found in %s", o.packageDir))
				}
				o.deps.UI.ShowStage(string(StateAcquire), "downloading "+src.Filename())
				if err := o.deps.Downloader.Download(ctx, src.Expanded, path); err != nil {
					if IsInterrupt(err) {
						return err
					}
					return NewAcquisitionError(src.Expanded, err)
				}
			}
			if sum, ok := checksums[src.Filename()]; ok {
				if err := VerifyChecksum(path, sum); err != nil {
					return NewAcquisitionError(src.Filename(), err)
				}
			}
			if main == "" && IsArchive(path) {
				main = path
			}
		}
		if main == "" {
			return NewConfigurationError(nil, "add the upstream archive as Source0", "no source archive found for version %s", spec.Version())
		}

		sum, err := FileChecksum(main, "SHA512")
		if err != nil {
			return err
		}
		o.store.SetSource(side, types.SourceBundle{Version: spec.Version(), Archive: main, Checksum: sum})
	}

	if o.cfg.Bool(config.KeyGetOldBuildFromKoji) {
		return o.fetchOldBuild(ctx)
	}
	return nil
}

// fetchOldBuild fills the old build record from the remote hub.
func (o *Orchestrator) fetchOldBuild(ctx context.Context) error {
	nvr, err := o.deps.Hub.LatestBuild(ctx, o.pkg, o.oldVersion)
	if err != nil {
		return err
	}
	rec, err := o.deps.Hub.Download(ctx, nvr, filepath.Join(o.ws.BuildDir(SideOld), RPMDir))
	if err != nil {
		return err
	}
	rec.Version = o.oldVersion
	o.store.SetBuild(SideOld, *rec)
	return nil
}

// ============================================================================
// PREP_OLD / PREP_NEW
// ============================================================================

// unpack extracts the main archive of side and records the source root.
func (o *Orchestrator) unpack(side string) error {
	bundle, ok := o.store.Source(side)
	if !ok {
		return fmt.Errorf("no %s sources acquired", side)
	}
	dest := o.ws.Sources(side)
	if err := os.RemoveAll(dest); err != nil {
		return err
	}
	root, err := Unpack(bundle.Archive, dest)
	if err != nil {
		return NewAcquisitionError(filepath.Base(bundle.Archive), err)
	}
	bundle.Path = root
	o.store.SetSource(side, bundle)
	o.log.Info("sources unpacked", "side", side, "root", root)
	return nil
}

// stageSourceFiles copies the spec directory to dir and puts the acquired
// sources of side next to it, dropping archives of the other version.
func (o *Orchestrator) stageSourceFiles(side, dir string, spec *specfile.Spec) error {
	for _, src := range spec.Sources() {
		path := o.locate(side, src)
		target := filepath.Join(dir, src.Filename())
		if path == target {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := o.deps.FS.CopyFile(path, target); err != nil {
			return err
		}
	}
	return nil
}

// copyPackage copies the package directory to dst, leaving out
// packageCopyExcludes and the workspace and results directories when they
// live inside it.
func (o *Orchestrator) copyPackage(dst string) error {
	if err := o.deps.FS.RemoveAll(dst); err != nil {
		return err
	}
	if err := o.deps.FS.MkdirAll(dst, 0755); err != nil {
		return err
	}
	skip := map[string]bool{}
	for _, dir := range []string{o.ws.Root, o.ws.ResultsDir} {
		if abs, err := filepath.Abs(dir); err == nil {
			skip[abs] = true
		}
	}
	entries, err := o.deps.FS.ReadDir(o.packageDir)
	if err != nil {
		return fmt.Errorf("copy package directory: %w", err)
	}
	for _, entry := range entries {
		name := strings.TrimSuffix(entry, "/")
		src := filepath.Join(o.packageDir, name)
		if abs, err := filepath.Abs(src); err == nil && skip[abs] {
			continue
		}
		if MatchesExclude(name, packageCopyExcludes) {
			continue
		}
		if strings.HasSuffix(entry, "/") {
			_, err = o.deps.FS.CopyDir(src, filepath.Join(dst, name))
		} else {
			_, err = o.deps.FS.CopyFile(src, filepath.Join(dst, name))
		}
		if err != nil {
			return fmt.Errorf("copy package directory: %w", err)
		}
	}
	return nil
}

func (o *Orchestrator) prepOld(ctx context.Context) error {
	if err := o.unpack(SideOld); err != nil {
		return err
	}
	dir := o.ws.SpecDir(SideOld)
	if err := o.copyPackage(dir); err != nil {
		return err
	}
	return o.stageSourceFiles(SideOld, dir, o.original)
}

func (o *Orchestrator) prepNew(ctx context.Context) error {
	if err := o.unpack(SideNew); err != nil {
		return err
	}

	dir := o.ws.RebasedSources()
	if err := o.copyPackage(dir); err != nil {
		return err
	}
	if err := o.changes.Init(ctx); err != nil {
		if !errors.Is(err, ErrGitMissing) {
			return fmt.Errorf("record original package: %w", err)
		}
		o.deps.UI.ShowWarning("git is not installed", "changes.patch will not be generated")
		o.changes = nil
	}

	for _, src := range o.original.Sources() {
		if IsArchive(src.Filename()) {
			if err := os.Remove(filepath.Join(dir, src.Filename())); err != nil && !os.IsNotExist(err) {
				return err
			}
		}
	}

	rebased, err := specfile.Load(filepath.Join(dir, filepath.Base(o.original.Path())))
	if err != nil {
		return err
	}
	if err := rebased.SetVersion(o.newVersion); err != nil {
		return NewConfigurationError(err, "", "cannot set version %s", o.newVersion)
	}
	o.rebased = rebased
	if err := o.stageSourceFiles(SideNew, dir, rebased); err != nil {
		return err
	}
	if err := o.runSpecHooks(ctx, rebased); err != nil {
		return err
	}
	if err := rebased.Save(); err != nil {
		return err
	}

	if o.cfg.Bool(config.KeyUpdateSources) {
		return o.updateSources(ctx)
	}
	return nil
}

func (o *Orchestrator) runSpecHooks(ctx context.Context, spec *specfile.Spec) error {
	hooks, err := o.sel.SpecHooks()
	if err != nil {
		return err
	}
	for _, h := range hooks {
		changed, err := h.Run(ctx, plugins.SpecHookRequest{
			Spec:     spec,
			Original: o.original,
			Version:  o.newVersion,
			Log:      o.deps.Log,
		})
		if err != nil {
			if IsInterrupt(err) {
				return err
			}
			o.log.WithError(err).Warn("spec hook failed", "hook", h.Name())
			continue
		}
		if changed {
			o.log.Info("spec hook changed the spec", "hook", h.Name())
		}
	}
	return nil
}

// updateSources rewrites the sources file for the new archives and uploads
// them to the lookaside cache.
func (o *Orchestrator) updateSources(ctx context.Context) error {
	var entries []SourceChecksum
	var files []string
	for _, src := range o.rebased.Sources() {
		if !src.IsRemote() {
			continue
		}
		path := filepath.Join(o.ws.RebasedSources(), src.Filename())
		sum, err := FileChecksum(path, "SHA512")
		if err != nil {
			return err
		}
		entries = append(entries, SourceChecksum{Algorithm: "SHA512", Filename: src.Filename(), Sum: sum})
		files = append(files, path)
	}
	if err := WriteSourcesFile(filepath.Join(o.ws.RebasedSources(), SourcesFile), entries); err != nil {
		return err
	}

	if o.cfg.Bool(config.KeySkipUpload) {
		return nil
	}
	uploader := o.deps.Lookaside
	if uploader == nil {
		url := o.cfg.String(config.KeyLookasideURL)
		if url == "" {
			o.deps.UI.ShowWarning("Upload skipped", "no --lookaside-url configured")
			return nil
		}
		s3, err := NewS3Lookaside(url, o.cfg.String(config.KeyLookasideBucket), o.deps.Log)
		if err != nil {
			return NewConfigurationError(err, "set the lookaside credentials or pass --skip-upload", "cannot connect to the lookaside cache")
		}
		uploader = s3
	}
	for i, e := range entries {
		if err := uploader.Upload(ctx, o.pkg, files[i], e); err != nil {
			return NewAcquisitionError("lookaside upload of "+e.Filename, err)
		}
	}
	return nil
}

// ============================================================================
// PATCH
// ============================================================================

// rebasedSpec returns the rebased spec, loading it on resumed runs.
func (o *Orchestrator) rebasedSpec() (*specfile.Spec, error) {
	if o.rebased != nil {
		return o.rebased, nil
	}
	s, err := specfile.Load(filepath.Join(o.ws.RebasedSources(), filepath.Base(o.original.Path())))
	if err != nil {
		return nil, NewConfigurationError(err, "run without --continue", "rebased sources are missing")
	}
	o.rebased = s
	return s, nil
}

func (o *Orchestrator) patch(ctx context.Context) error {
	rebased, err := o.rebasedSpec()
	if err != nil {
		return err
	}
	oldSrc, _ := o.store.Source(SideOld)
	newSrc, _ := o.store.Source(SideNew)

	svc := NewPatchService(PolicyFromConfig(o.cfg), o.deps.UI, o.deps.Log)
	outcomes, err := svc.Run(ctx, PatchRequest{
		Original:     o.original,
		Rebased:      rebased,
		PatchDir:     o.packageDir,
		OldSources:   oldSrc.Path,
		NewSources:   newSrc.Path,
		OutputDir:    o.ws.RebasedSources(),
		ConflictsDir: o.ws.Conflicts(),
	}, o.store)
	if err != nil {
		return err
	}
	for _, out := range outcomes {
		if out.Status == types.PatchInapplicable {
			o.deps.UI.ShowWarning("Patch disabled", fmt.Sprintf("%s: %s", out.Name, out.Reason))
		}
	}
	return o.addChangelogEntry(ctx)
}

func (o *Orchestrator) addChangelogEntry(ctx context.Context) error {
	if o.cfg.Bool(config.KeyNoChangelogEntry) {
		return nil
	}
	text := o.rebased.Expand(o.cfg.String(config.KeyChangelogEntry))
	if strings.TrimSpace(text) == "" {
		return nil
	}
	packager := o.cfg.String(config.KeyPackager)
	if packager == "" && git.IsInstalled() {
		packager = git.New(o.packageDir).UserIdentity(ctx)
	}
	if packager == "" {
		packager = "rebase-helper"
	}
	header := specfile.ChangelogHeader(o.deps.Now(), packager, o.rebased.EVR())
	if err := o.rebased.AddChangelogEntry(header, strings.Split(text, "\n")); err != nil {
		return err
	}
	return o.rebased.Save()
}

// ============================================================================
// BUILD_OLD / BUILD_NEW / HOOKS
// ============================================================================

// build runs the source package builder and then the binary builder for
// side. In-flight builds finish on interrupt; the interrupt is reported
// afterwards.
func (o *Orchestrator) build(ctx context.Context, side, version string, spec *specfile.Spec) (types.BuildRecord, error) {
	rec := types.BuildRecord{Version: version, ErrorKind: types.BuildErrorNone}

	srpmBuilder, err := o.sel.SRPMBuilder()
	if err != nil {
		return rec, err
	}
	builder, err := o.sel.Builder()
	if err != nil {
		return rec, err
	}
	rec.Builder = builder.Name()

	dir := o.ws.BuildDir(side)
	if err := os.RemoveAll(dir); err != nil {
		return rec, err
	}
	for _, sub := range []string{SRPMDir, RPMDir} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			return rec, err
		}
	}
	env, err := BuildEnvironment(o.cfg.String(config.KeyBuilderEnvFile), BuildContext{
		Package: o.pkg, Version: version, Side: side, ResultsDir: dir,
	})
	if err != nil {
		return rec, NewConfigurationError(err, "", "cannot prepare the build environment")
	}

	req := plugins.BuildRequest{
		Spec:       spec,
		SourcesDir: o.ws.SpecDir(side),
		ResultsDir: filepath.Join(dir, SRPMDir),
		Options:    strings.Fields(o.cfg.String(config.KeyBuilderOptions)),
		Env:        env,
		Timeout:    o.cfg.Duration(config.KeyBuildTimeout),
		Log:        o.deps.Log.WithComponent("builder." + side),
	}
	follower, err := FollowLogs(ctx, dir, o.deps.Log)
	if err != nil {
		o.log.WithError(err).Debug("not following build logs")
	} else {
		defer follower.Stop()
	}

	buildCtx := context.WithoutCancel(ctx)
	srpm, err := srpmBuilder.BuildSRPM(buildCtx, req)
	if srpm != nil {
		rec.SRPM = srpm.SRPM
		rec.Logs = append(rec.Logs, srpm.Logs...)
	}
	if err != nil {
		return o.failedBuild(rec, version, err)
	}
	if ctx.Err() != nil {
		return rec, ErrUserInterrupt
	}

	req.SRPM = srpm.SRPM
	req.ResultsDir = filepath.Join(dir, RPMDir)
	res, err := builder.Build(buildCtx, req)
	if res != nil {
		rec.Packages = res.Packages
		rec.Logs = append(rec.Logs, res.Logs...)
	}
	if err != nil {
		return o.failedBuild(rec, version, err)
	}
	if ctx.Err() != nil {
		return rec, ErrUserInterrupt
	}
	o.log.Info("build finished", "side", side, "packages", len(rec.Packages))
	return rec, nil
}

func (o *Orchestrator) failedBuild(rec types.BuildRecord, version string, err error) (types.BuildRecord, error) {
	rec.ErrorKind = types.BuildErrorEnvironment
	var be *plugins.BuildError
	if errors.As(err, &be) {
		if be.Kind != "" && be.Kind != types.BuildErrorNone {
			rec.ErrorKind = be.Kind
		}
		rec.Logs = append(rec.Logs, be.Logs...)
	}
	rec.ErrorDetail = err.Error()
	return rec, NewBuildError(version, err)
}

func (o *Orchestrator) buildOld(ctx context.Context) error {
	if rec := o.store.Build(SideOld); rec != nil && rec.FromHub && rec.Succeeded() {
		o.log.Info("using the old build from the remote hub")
		return nil
	}
	rec, err := o.build(ctx, SideOld, o.oldVersion, o.original)
	o.store.SetBuild(SideOld, rec)
	return err
}

func (o *Orchestrator) buildNew(ctx context.Context) (State, error) {
	rebased, err := o.rebasedSpec()
	if err != nil {
		return StateFailed, err
	}
	rec, err := o.build(ctx, SideNew, o.newVersion, rebased)
	if IsInterrupt(err) {
		return StateFailed, err
	}
	o.store.SetBuild(SideNew, rec)
	if err == nil {
		o.buildErr = nil
		return o.next(StateBuildNew), nil
	}
	if !IsRepairable(err) || !o.cfg.HooksAllowed() {
		return StateFailed, err
	}
	if o.run.HookPasses >= o.cfg.Int(config.KeyMaxHookPasses) {
		o.log.Warn("build log hooks exhausted", "passes", o.run.HookPasses)
		return StateFailed, err
	}
	o.buildErr = err
	return StateHooks, nil
}

func (o *Orchestrator) runHooks(ctx context.Context) (State, error) {
	if o.hooks == nil {
		hooks, err := o.sel.BuildLogHooks()
		if err != nil {
			return StateFailed, err
		}
		o.hooks = NewHookService(hooks, o.store, o.deps.UI, o.deps.Log, o.cfg.Interactive())
	}
	rebased, err := o.rebasedSpec()
	if err != nil {
		return StateFailed, err
	}

	o.run.HookPasses++
	changed, err := o.hooks.Run(ctx, HookPass{
		Spec:       o.original,
		Rebased:    rebased,
		Build:      o.store.Build(SideNew),
		ResultsDir: o.ws.BuildDir(SideNew),
	})
	if err != nil {
		return StateFailed, err
	}
	if !changed {
		o.log.Info("build log hooks found nothing to repair")
		if o.buildErr != nil {
			return StateFailed, o.buildErr
		}
		return StateFailed, errors.New("new build failed and build log hooks changed nothing")
	}
	o.run.Reopen(StateBuildNew, StateHooks)
	return StateBuildNew, nil
}

// ============================================================================
// COMPARE
// ============================================================================

func (o *Orchestrator) compare(ctx context.Context) error {
	if o.compareOnly() {
		if err := o.loadComparedBuilds(); err != nil {
			return err
		}
	}
	oldBuild, newBuild := o.store.Build(SideOld), o.store.Build(SideNew)
	if !oldBuild.Succeeded() || !newBuild.Succeeded() {
		return errors.New("both builds must succeed before packages can be compared")
	}

	checkers, err := o.sel.Checkers()
	if err != nil {
		return err
	}
	if len(checkers) == 0 {
		o.log.Info("no checkers apply to this package")
		return nil
	}

	sourceURL := ""
	if !o.compareOnly() {
		if rebased, err := o.rebasedSpec(); err == nil {
			if srcs := rebased.Sources(); len(srcs) > 0 && srcs[0].IsRemote() {
				sourceURL = srcs[0].Expanded
			}
		}
	}

	progress := o.deps.UI.StartProgress(len(checkers), "checkers")
	runs := NewParallelExecutor(0).RunCheckers(ctx, checkers, func(name string) plugins.CheckRequest {
		return plugins.CheckRequest{
			Package:    o.pkg,
			Old:        oldBuild,
			New:        newBuild,
			SourceURL:  sourceURL,
			ResultsDir: filepath.Join(o.ws.Checkers(), name),
			Log:        o.deps.Log.WithComponent("checker." + name),
		}
	}, progress)
	progress.Complete()

	for _, run := range runs {
		name := run.Checker.Name()
		if run.Error != nil {
			if IsInterrupt(run.Error) {
				return run.Error
			}
			cerr := &CheckerError{Checker: name, Err: run.Error}
			o.log.WithError(cerr).Warn("checker failed", "checker", name)
			o.store.SetChecker(types.CheckerResult{Name: name, Error: cerr.Error()})
			continue
		}
		if run.Result == nil {
			continue
		}
		res := *run.Result
		res.Name = name
		o.store.SetChecker(res)
	}
	if ctx.Err() != nil {
		return ErrUserInterrupt
	}
	return nil
}

// loadComparedBuilds reads the packages of --comparepkgs-only DIR/old and
// DIR/new as build records.
func (o *Orchestrator) loadComparedBuilds() error {
	root := o.cfg.String(config.KeyComparePkgsOnly)
	for _, side := range []string{SideOld, SideNew} {
		dir := filepath.Join(root, side)
		rpms, err := FindFiles(dir, "*.rpm")
		if err != nil {
			return NewConfigurationError(err, "put the packages in DIR/old and DIR/new", "cannot read %s", dir)
		}
		rec := types.BuildRecord{Builder: "comparepkgs", ErrorKind: types.BuildErrorNone}
		for _, p := range rpms {
			if strings.HasSuffix(p, ".src.rpm") {
				rec.SRPM = p
				continue
			}
			rec.Packages = append(rec.Packages, p)
			if rec.Version == "" {
				rec.Version = versionFromRPM(filepath.Base(p))
			}
		}
		if len(rec.Packages) == 0 {
			return NewConfigurationError(nil, "put the packages in DIR/old and DIR/new", "no binary packages in %s", dir)
		}
		o.store.SetBuild(side, rec)
	}
	if o.oldVersion == "" {
		o.oldVersion = o.store.Build(SideOld).Version
	}
	if o.newVersion == "" {
		o.newVersion = o.store.Build(SideNew).Version
	}
	return nil
}
