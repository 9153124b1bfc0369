// Package builtin is the catalog of plugins shipped with rebase-helper.
package builtin

import (
	"net/http"

	"github.com/EmundoT/rebase-helper/internal/plugins"
	"github.com/EmundoT/rebase-helper/internal/plugins/builders"
	"github.com/EmundoT/rebase-helper/internal/plugins/buildloghooks"
	"github.com/EmundoT/rebase-helper/internal/plugins/checkers"
	"github.com/EmundoT/rebase-helper/internal/plugins/outputs"
	"github.com/EmundoT/rebase-helper/internal/plugins/spechooks"
	"github.com/EmundoT/rebase-helper/internal/plugins/versioneers"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// Env carries what the builtin plugins need from the host.
type Env struct {
	Runner      plugins.Runner
	HTTP        *http.Client
	Log         *logger.Logger
	KojiProfile string
}

type entry struct {
	kind plugins.Kind
	ctor plugins.Constructor
}

// catalog lists the plugins in discovery order. Within a kind, earlier
// entries are preferred when several qualify.
func catalog(env Env, reg *plugins.Registry) []entry {
	client := versioneers.NewClient(env.HTTP)
	return []entry{
		{plugins.KindSRPMBuildTool, func() (plugins.Plugin, error) { return builders.NewRPMBuildSRPM(env.Runner), nil }},
		{plugins.KindSRPMBuildTool, func() (plugins.Plugin, error) { return builders.NewMockSRPM(env.Runner), nil }},

		{plugins.KindBuildTool, func() (plugins.Plugin, error) { return builders.NewMock(env.Runner), nil }},
		{plugins.KindBuildTool, func() (plugins.Plugin, error) { return builders.NewRPMBuild(env.Runner), nil }},
		{plugins.KindBuildTool, func() (plugins.Plugin, error) { return builders.NewKoji(env.Runner, env.KojiProfile), nil }},

		{plugins.KindChecker, func() (plugins.Plugin, error) { return checkers.NewFiles(env.Runner), nil }},
		{plugins.KindChecker, func() (plugins.Plugin, error) { return checkers.NewABIPkgDiff(env.Runner), nil }},
		{plugins.KindChecker, func() (plugins.Plugin, error) { return checkers.NewLicenseCheck(env.Runner), nil }},
		{plugins.KindChecker, func() (plugins.Plugin, error) { return checkers.NewSBOMDiff(env.Runner), nil }},

		{plugins.KindBuildLogHook, func() (plugins.Plugin, error) { return buildloghooks.NewFiles(), nil }},

		{plugins.KindVersioneer, func() (plugins.Plugin, error) { return versioneers.NewPyPI(client, ""), nil }},
		{plugins.KindVersioneer, func() (plugins.Plugin, error) { return versioneers.NewNPM(client, ""), nil }},
		{plugins.KindVersioneer, func() (plugins.Plugin, error) { return versioneers.NewRubyGems(client, ""), nil }},
		{plugins.KindVersioneer, func() (plugins.Plugin, error) { return versioneers.NewAnitya(client, ""), nil }},
		{plugins.KindVersioneer, func() (plugins.Plugin, error) { return versioneers.NewDirIndex(client, ""), nil }},

		{plugins.KindSpecHook, func() (plugins.Plugin, error) { return spechooks.NewPyPIURLFix(), nil }},
		{plugins.KindSpecHook, func() (plugins.Plugin, error) { return spechooks.NewPathsToRPMMacros(), nil }},

		{plugins.KindOutputTool, func() (plugins.Plugin, error) {
			return outputs.NewText(outputs.RegistryFormatter{Registry: reg}), nil
		}},
		{plugins.KindOutputTool, func() (plugins.Plugin, error) { return outputs.NewJSON(), nil }},
	}
}

// NewRegistry loads every builtin plugin. Plugins that fail to load are
// recorded in the registry's LoadErrors.
func NewRegistry(env Env) *plugins.Registry {
	if env.Runner == nil {
		env.Runner = plugins.ExecRunner{}
	}
	reg := plugins.NewRegistry(env.Log)
	for _, e := range catalog(env, reg) {
		_ = reg.Load(e.kind, e.ctor)
	}
	return reg
}
