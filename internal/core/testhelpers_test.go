package core

import (
	"testing"

	"github.com/golang/mock/gomock"

	"github.com/EmundoT/rebase-helper/internal/config"
	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/specfile"
	"github.com/EmundoT/rebase-helper/internal/testutil"
)

// newTestConfig returns a non-interactive configuration rooted in temp
// directories with overrides applied.
func newTestConfig(t *testing.T, overrides map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	values := map[string]string{
		config.KeyResultsDir:       root + "/results",
		config.KeyWorkspaceDir:     root + "/workspace",
		config.KeyNonInteractive:   "true",
		config.KeyNoChangelogEntry: "true",
	}
	for k, v := range overrides {
		values[config.DestFor(k)] = v
	}
	cfg, err := config.New(values)
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	return cfg
}

// pluginRecorder is implemented by the recorder of every plugin mock.
type pluginRecorder interface {
	Name() *gomock.Call
	Categories() *gomock.Call
	IsDefault() *gomock.Call
	IsAvailable() *gomock.Call
}

// stubInfo makes a plugin mock answer the shared metadata calls.
func stubInfo(rec pluginRecorder, name string, def, available bool, cats ...string) {
	rec.Name().Return(name).AnyTimes()
	rec.Categories().Return(cats).AnyTimes()
	rec.IsDefault().Return(def).AnyTimes()
	rec.IsAvailable().Return(available).AnyTimes()
}

func register(t *testing.T, reg *plugins.Registry, kind plugins.Kind, p plugins.Plugin) {
	t.Helper()
	if err := reg.Register(kind, p); err != nil {
		t.Fatalf("register %s: %v", kind, err)
	}
}

func pelloSpec(t *testing.T) *specfile.Spec {
	t.Helper()
	spec, err := specfile.Parse("pello.spec", []byte(testutil.PelloSpec))
	if err != nil {
		t.Fatalf("parse spec: %v", err)
	}
	return spec
}
