package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// HookPass is the input of one build-log hook pass.
type HookPass struct {
	Spec       *specfile.Spec
	Rebased    *specfile.Spec
	Build      *types.BuildRecord
	ResultsDir string
}

// HookExecutor runs build-log hooks after a failed build.
//
//go:generate mockgen -source=hook_service.go -destination=hook_executor_mock_test.go -package=core
type HookExecutor interface {
	// Run executes every hook not blacklisted and reports whether the
	// rebased spec was changed and saved.
	Run(ctx context.Context, pass HookPass) (bool, error)
}

// hookService implements HookExecutor over build-log hook plugins.
type hookService struct {
	hooks       []plugins.BuildLogHook
	store       *ResultsStore
	ui          UICallback
	log         *logger.Logger
	interactive bool
	// blacklist holds hooks that failed; they are skipped in later passes.
	blacklist map[string]bool
}

// NewHookService creates a hook executor. In interactive mode the user
// confirms the edits before they are saved.
func NewHookService(hooks []plugins.BuildLogHook, store *ResultsStore, ui UICallback, log *logger.Logger, interactive bool) HookExecutor {
	if log == nil {
		log = logger.Discard()
	}
	return &hookService{
		hooks:       hooks,
		store:       store,
		ui:          ui,
		log:         log.WithComponent("hooks"),
		interactive: interactive,
		blacklist:   make(map[string]bool),
	}
}

// Run executes the hooks in selection order.
func (h *hookService) Run(ctx context.Context, pass HookPass) (bool, error) {
	changed := false
	for _, hook := range h.hooks {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		name := hook.Name()
		if h.blacklist[name] {
			h.log.Debug("skipping blacklisted hook", "hook", name)
			continue
		}

		res, err := hook.Run(ctx, plugins.HookRequest{
			Spec:       pass.Spec,
			Rebased:    pass.Rebased,
			Build:      pass.Build,
			ResultsDir: pass.ResultsDir,
			Log:        h.log,
		})
		if err != nil {
			if IsInterrupt(err) {
				return false, err
			}
			h.blacklist[name] = true
			h.log.WithError(err).Warn("build log hook failed", "hook", name)
			h.ui.ShowWarning("Build log hook failed", fmt.Sprintf("%s: %v (disabled for this run)", name, err))
			continue
		}
		if res == nil || res.Empty() {
			h.log.Debug("hook found nothing to do", "hook", name)
			continue
		}

		h.store.MergeHook(name, *res)
		for _, line := range hook.Format(*res) {
			h.log.Info(line, "hook", name)
		}
		if len(res.UnableToRemove) > 0 {
			h.ui.ShowWarning("Files could not be removed from the spec", strings.Join(res.UnableToRemove, "\n"))
		}
		if res.Changed() {
			changed = true
		}
	}

	if !changed {
		return false, nil
	}
	if h.interactive && !h.ui.IsAutoApprove() {
		if !h.ui.AskConfirmation("Build log hooks edited the spec", "Keep the edits and rebuild?") {
			h.log.Info("hook edits rejected by user")
			return false, pass.Rebased.Reload()
		}
	}
	if err := pass.Rebased.Save(); err != nil {
		return false, fmt.Errorf("save rebased spec: %w", err)
	}
	return true, nil
}
