package core

import (
	"context"
	"io"
	"net/http"

	"github.com/EmundoT/rebase-helper/internal/config"
	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/plugins/builtin"
	"github.com/EmundoT/rebase-helper/internal/types"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// Manager provides the main API for rebase-helper runs.
// It wires the builtin plugins and the production collaborators into an
// Orchestrator.
type Manager struct {
	cfg        *config.Config
	packageDir string
	deps       Deps
}

// NewManager creates a Manager for the package in packageDir.
func NewManager(cfg *config.Config, packageDir string, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Discard()
	}
	return &Manager{
		cfg:        cfg,
		packageDir: packageDir,
		deps: Deps{
			Log: log,
			UI:  &SilentUICallback{},
		},
	}
}

// SetUICallback sets the UI callback for user interactions
func (m *Manager) SetUICallback(ui UICallback) {
	m.deps.UI = ui
}

// SetOutput sets where the report summary is printed.
func (m *Manager) SetOutput(w io.Writer, color bool) {
	m.deps.Stdout = w
	m.deps.Color = color
}

// Registry returns the plugin registry, loading the builtin plugins on
// first use.
func (m *Manager) Registry() *plugins.Registry {
	if m.deps.Registry == nil {
		m.deps.Registry = builtin.NewRegistry(builtin.Env{
			Runner:      plugins.ExecRunner{},
			HTTP:        &http.Client{Timeout: m.cfg.Duration(config.KeyDownloadTimeout)},
			Log:         m.deps.Log,
			KojiProfile: m.cfg.String(config.KeyKojiProfile),
		})
		for _, e := range m.deps.Registry.LoadErrors() {
			m.deps.Log.WithError(e).Warn("plugin not loaded", "kind", e.Kind, "plugin", e.Name)
		}
	}
	return m.deps.Registry
}

// Rebase runs the package through the whole pipeline and returns the report.
func (m *Manager) Rebase(ctx context.Context) (*types.Report, error) {
	m.Registry()
	return NewOrchestrator(m.cfg, m.packageDir, m.deps).Run(ctx)
}

// PrepareResultsDir clears the results of a previous run; see the
// package-level function.
func (m *Manager) PrepareResultsDir() error {
	return PrepareResultsDir(m.cfg, m.deps.UI)
}
