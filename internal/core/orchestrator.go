package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/EmundoT/rebase-helper/internal/config"
	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/rpmver"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// Deps are the collaborators of an Orchestrator. Nil fields get their
// production implementation.
type Deps struct {
	Registry   *plugins.Registry
	Downloader Downloader
	Hub        RemoteHub
	Tracker    TrackerClient
	Lookaside  LookasideUploader
	FS         FileSystem
	UI         UICallback
	Log        *logger.Logger
	// Stdout receives the renderer's CLI summary.
	Stdout io.Writer
	Color  bool
	Now    func() time.Time
}

// Orchestrator drives one package through the rebase state machine:
//
//	INIT → ACQUIRE → PREP_OLD → PREP_NEW → PATCH → BUILD_OLD → BUILD_NEW
//	     → [HOOKS → BUILD_NEW]* → COMPARE → RENDER → DONE
//
// Any stage failure ends in FAILED with the partial results written. The
// run state is persisted after every transition.
type Orchestrator struct {
	cfg        *config.Config
	packageDir string
	deps       Deps
	log        *logger.Logger
	ws         Workspace
	store      *ResultsStore
	states     *StateStore
	run        *RunState
	sel        *PluginSelector
	hooks      HookExecutor
	changes    *ChangeTracker
	progress   ProgressTracker

	original   *specfile.Spec
	rebased    *specfile.Spec
	pkg        string
	oldVersion string
	newVersion string

	// buildErr is the last repairable new-build failure, returned when the
	// hooks cannot fix it.
	buildErr error
}

// NewOrchestrator creates an orchestrator for the package in packageDir.
func NewOrchestrator(cfg *config.Config, packageDir string, deps Deps) *Orchestrator {
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.UI == nil {
		deps.UI = &SilentUICallback{}
	}
	if deps.Registry == nil {
		deps.Registry = plugins.NewRegistry(deps.Log)
	}
	if deps.Downloader == nil {
		deps.Downloader = NewHTTPDownloader(nil, cfg.Duration(config.KeyDownloadTimeout), deps.Log)
	}
	if deps.Hub == nil {
		deps.Hub = NewKojiHub(cfg.String(config.KeyKojiProfile), nil, deps.Log)
	}
	if deps.Tracker == nil {
		deps.Tracker = NewBugzillaClient(nil, "")
	}
	if deps.FS == nil {
		deps.FS = NewOSFileSystem()
	}
	if deps.Stdout == nil {
		deps.Stdout = io.Discard
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	ws := NewWorkspace(cfg.String(config.KeyWorkspaceDir), cfg.String(config.KeyResultsDir))
	return &Orchestrator{
		cfg:        cfg,
		packageDir: packageDir,
		deps:       deps,
		log:        deps.Log.WithComponent("orchestrator"),
		ws:         ws,
		store:      NewResultsStore(),
		states:     NewStateStore(ws.ResultsDir),
	}
}

// Store exposes the results of the run.
func (o *Orchestrator) Store() *ResultsStore { return o.store }

// PrepareResultsDir clears a previous results directory unless the run
// continues from it. It runs before the run logger opens its files there.
func PrepareResultsDir(cfg *config.Config, ui UICallback) error {
	dir := cfg.String(config.KeyResultsDir)
	if cfg.Bool(config.KeyContinue) {
		return nil
	}
	if _, err := os.Stat(dir); err != nil {
		return nil
	}
	if ui != nil {
		ui.ShowWarning("Results directory exists", fmt.Sprintf("removing previous results in %s", dir))
	}
	return os.RemoveAll(dir)
}

// Run drives the state machine to DONE or FAILED and returns the report
// of the run. The error is nil exactly when the run reached DONE.
func (o *Orchestrator) Run(ctx context.Context) (*types.Report, error) {
	if err := o.initialize(ctx); err != nil {
		return o.fail(StateInit, err)
	}
	if o.run.State == StateDone {
		o.log.Info("run already completed, rendering the saved results", "run", o.run.RunID)
		return o.render(ctx)
	}

	plan := o.plan()
	o.progress = o.deps.UI.StartProgress(len(plan), o.pkg)
	o.run.Complete(StateInit)
	o.progress.Increment(string(StateInit))

	cur := o.next(StateInit)
	for cur != StateDone {
		if ctx.Err() != nil {
			return o.fail(cur, ErrUserInterrupt)
		}
		if o.run.IsCompleted(cur) {
			o.log.Debug("stage already completed", "stage", string(cur))
			o.progress.Increment(string(cur))
			cur = o.next(cur)
			continue
		}

		o.run.State = cur
		o.run.Error = ""
		if err := o.persist(); err != nil {
			return o.fail(cur, err)
		}
		o.deps.UI.ShowStage(string(cur), stageDescriptions[cur])
		o.log.Info("entering stage", "stage", string(cur))

		next, err := o.stage(ctx, cur)
		if err != nil {
			return o.fail(cur, err)
		}
		o.run.Complete(cur)
		o.progress.Increment(string(cur))
		if next == StateBuildNew && cur == StateHooks {
			o.progress.SetTotal(len(plan) + 2*o.run.HookPasses)
		}
		cur = next
	}

	o.progress.Complete()
	return o.render(ctx)
}

var stageDescriptions = map[State]string{
	StateInit:     "resolving configuration",
	StateAcquire:  "downloading sources",
	StatePrepOld:  "unpacking old sources",
	StatePrepNew:  "unpacking new sources",
	StatePatch:    "rebasing patches",
	StateBuildOld: "building old packages",
	StateBuildNew: "building new packages",
	StateHooks:    "repairing the spec from the build log",
	StateCompare:  "comparing packages",
	StateRender:   "writing the report",
}

// plan lists the stages the configured mode runs, in order.
func (o *Orchestrator) plan() []State {
	switch {
	case o.compareOnly():
		return []State{StateInit, StateCompare, StateRender}
	case o.cfg.Bool(config.KeyPatchOnly):
		return []State{StateInit, StateAcquire, StatePrepOld, StatePrepNew, StatePatch, StateRender}
	case o.cfg.Bool(config.KeyBuildOnly):
		return []State{StateInit, StateAcquire, StatePrepOld, StatePrepNew, StateBuildOld, StateBuildNew, StateRender}
	default:
		return []State{StateInit, StateAcquire, StatePrepOld, StatePrepNew, StatePatch, StateBuildOld, StateBuildNew, StateCompare, StateRender}
	}
}

// next returns the stage following cur in the plan. HOOKS is entered only
// by a failing new build and is not part of the plan.
func (o *Orchestrator) next(cur State) State {
	plan := o.plan()
	if cur == StateHooks {
		return StateBuildNew
	}
	for i, s := range plan {
		if s == cur && i+1 < len(plan) {
			if plan[i+1] == StateRender {
				return StateDone
			}
			return plan[i+1]
		}
	}
	return StateDone
}

func (o *Orchestrator) compareOnly() bool {
	return o.cfg.String(config.KeyComparePkgsOnly) != ""
}

// stage runs one stage and returns the state to enter next.
func (o *Orchestrator) stage(ctx context.Context, s State) (State, error) {
	var err error
	switch s {
	case StateAcquire:
		err = o.acquire(ctx)
	case StatePrepOld:
		err = o.prepOld(ctx)
	case StatePrepNew:
		err = o.prepNew(ctx)
	case StatePatch:
		err = o.patch(ctx)
	case StateBuildOld:
		err = o.buildOld(ctx)
	case StateBuildNew:
		return o.buildNew(ctx)
	case StateHooks:
		return o.runHooks(ctx)
	case StateCompare:
		err = o.compare(ctx)
	default:
		err = fmt.Errorf("no handler for stage %s", s)
	}
	if err != nil {
		return StateFailed, err
	}
	return o.next(s), nil
}

// ============================================================================
// INIT
// ============================================================================

func (o *Orchestrator) initialize(ctx context.Context) error {
	if err := o.ws.Create(); err != nil {
		return NewConfigurationError(err, "check --results-dir and --workspace-dir", "cannot create working directories")
	}

	specPath, err := findSpec(o.packageDir)
	switch {
	case err == nil:
		if o.original, err = specfile.Load(specPath); err != nil {
			return NewConfigurationError(err, "", "cannot read %s", specPath)
		}
		o.pkg = o.original.Name()
		o.oldVersion = o.original.Version()
	case o.compareOnly():
		o.pkg = filepath.Base(o.packageDir)
	default:
		return err
	}
	category := specfile.CategoryOf(o.pkg)
	o.sel = NewPluginSelector(o.deps.Registry, o.cfg, category)

	saved, err := o.states.Load()
	if err != nil {
		return NewConfigurationError(err, "remove the results directory or run without --continue", "cannot read saved state")
	}
	continuing := o.cfg.Bool(config.KeyContinue)
	if continuing && saved == nil {
		return NewConfigurationError(nil, "run without --continue", "nothing to continue in %s", o.ws.ResultsDir)
	}

	target := o.cfg.TargetVersion
	if target == "" {
		target = o.cfg.String(config.KeyBugzillaID)
	}
	if continuing && target == "" {
		o.newVersion = saved.Fingerprint.TargetVersion
	} else if err := o.resolveTarget(ctx, target); err != nil {
		return err
	}

	fp := Fingerprint{Package: o.pkg, OldVersion: o.oldVersion, TargetVersion: o.newVersion}
	if continuing {
		if saved.Fingerprint != fp {
			return NewConfigurationError(nil, "run without --continue to start over",
				"saved results are for %s, not %s", saved.Fingerprint, fp)
		}
		o.run = saved
		o.store.Restore(saved.Results)
		o.log.Info("continuing run", "run", saved.RunID, "state", string(saved.State))
	} else {
		o.run = NewRunState(fp, o.deps.Now())
	}
	o.log.Info("rebase", "package", o.pkg, "from", o.oldVersion, "to", o.newVersion, "run", o.run.RunID)

	if !o.compareOnly() {
		o.changes = NewChangeTracker(o.ws.RebasedSources(), o.deps.Log)
	}
	return o.persist()
}

func (o *Orchestrator) resolveTarget(ctx context.Context, target string) error {
	if o.compareOnly() {
		o.newVersion = target
		return nil
	}
	var versioneers []plugins.Versioneer
	switch {
	case strings.HasPrefix(target, AnityaPrefix):
		v, err := o.sel.Versioneer(AnityaVersioneer)
		if err != nil {
			return err
		}
		versioneers = []plugins.Versioneer{v}
	case target == "":
		var err error
		if versioneers, err = o.sel.Versioneers(); err != nil {
			return err
		}
	}
	resolver := NewVersionResolver(versioneers, o.deps.Tracker, o.deps.Log)
	version, err := resolver.Resolve(ctx, target, o.original)
	if err != nil {
		return err
	}
	if !rpmver.Newer(version, o.oldVersion) {
		return NewConfigurationError(nil, "pass a newer version", "target version %s is not newer than %s", version, o.oldVersion)
	}
	o.newVersion = version
	return nil
}

// findSpec returns the only *.spec file in dir.
func findSpec(dir string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.spec"))
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", NewConfigurationError(nil, "run rebase-helper in the package directory", "no spec file found in %s", dir)
	case 1:
		return matches[0], nil
	default:
		return "", NewConfigurationError(nil, "keep a single spec file in the package directory", "several spec files found in %s", dir)
	}
}

// ============================================================================
// Termination
// ============================================================================

func (o *Orchestrator) persist() error {
	if o.run == nil {
		return nil
	}
	o.run.UpdatedAt = o.deps.Now()
	o.run.Results = o.store.Snapshot()
	if err := o.states.Save(o.run); err != nil {
		return fmt.Errorf("persist run state: %w", err)
	}
	return nil
}

// fail moves the run to FAILED, writes what exists and returns err.
func (o *Orchestrator) fail(at State, err error) (*types.Report, error) {
	if IsInterrupt(err) && !errors.Is(err, ErrUserInterrupt) {
		err = fmt.Errorf("%w: %v", ErrUserInterrupt, err)
	}
	if IsInterrupt(err) && (at == StateBuildNew || at == StateHooks) {
		o.store.ClearBuild(SideNew)
	}

	o.log.WithError(err).Error("rebase failed", "stage", string(at))
	o.store.SetSummary(types.Summary{
		Success:    false,
		State:      string(StateFailed),
		Message:    err.Error(),
		ErrorCode:  ErrCodeForError(err),
		FailedStep: string(at),
	})
	if o.progress != nil {
		o.progress.Fail(err)
	}
	o.deps.UI.ShowError(fmt.Sprintf("Rebase failed in %s", at), err.Error())

	var rep *types.Report
	if o.run != nil {
		o.run.State = StateFailed
		o.run.Error = err.Error()
		o.run.ExitCode = ExitCodeForError(err)
		o.writeChanges(context.Background())
		if perr := o.persist(); perr != nil {
			o.log.WithError(perr).Warn("cannot persist failed state")
		}
		rep = o.report()
		if rerr := o.writeReport(rep); rerr != nil {
			o.log.WithError(rerr).Warn("cannot write report")
		}
	}
	return rep, err
}

// render writes the final report of a completed run.
func (o *Orchestrator) render(ctx context.Context) (*types.Report, error) {
	o.run.State = StateRender
	o.writeChanges(ctx)
	o.store.SetSummary(types.Summary{
		Success: true,
		State:   string(StateDone),
		Message: o.successMessage(),
	})
	o.run.Complete(StateRender)
	o.run.State = StateDone
	o.run.Error = ""
	o.run.ExitCode = ExitSuccess
	if err := o.persist(); err != nil {
		return o.fail(StateRender, err)
	}

	rep := o.report()
	if err := o.writeReport(rep); err != nil {
		return o.fail(StateRender, err)
	}
	o.deps.UI.ShowSuccess(rep.Summary.Message)
	return rep, nil
}

func (o *Orchestrator) successMessage() string {
	switch {
	case o.compareOnly():
		return fmt.Sprintf("Compared packages of %s with %s", o.pkg, Pluralize(len(o.store.Checkers()), "checker", "checkers"))
	case o.cfg.Bool(config.KeyPatchOnly):
		return fmt.Sprintf("Patches of %s rebased to %s", o.pkg, o.newVersion)
	case o.cfg.Bool(config.KeyBuildOnly):
		return fmt.Sprintf("Packages of %s %s built", o.pkg, o.newVersion)
	default:
		return fmt.Sprintf("Rebase of %s to %s succeeded", o.pkg, o.newVersion)
	}
}

func (o *Orchestrator) report() *types.Report {
	return o.store.Report(o.pkg, o.oldVersion, o.newVersion, o.ws.ResultsDir)
}

// writeReport renders rep into the results directory and prints the CLI
// summary.
func (o *Orchestrator) writeReport(rep *types.Report) error {
	if o.sel == nil {
		return nil
	}
	renderer, err := o.sel.Renderer()
	if err != nil {
		return err
	}
	path := o.ws.Report(renderer.Extension())
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := renderer.Render(f, rep); err != nil {
		_ = f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	o.log.Info("report written", "path", path)
	return renderer.PrintSummary(o.deps.Stdout, rep, o.deps.Color)
}

// writeChanges stores changes.patch when the rebased sources exist.
func (o *Orchestrator) writeChanges(ctx context.Context) {
	if o.changes == nil || !o.run.IsCompleted(StatePrepNew) {
		return
	}
	n, err := o.changes.Write(ctx, o.ws.ChangesPatch())
	if err != nil {
		o.log.WithError(err).Warn("cannot write change-set")
		return
	}
	o.log.Debug("change-set written", "files", Pluralize(n, "file", "files"))
	o.store.SetChangesPatch(o.ws.ChangesPatch())
}
