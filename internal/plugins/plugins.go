// Package plugins hosts the interchangeable builders, checkers, build-log
// hooks, versioneers, spec hooks and output renderers behind uniform
// contracts, and the registry that discovers and selects them.
package plugins

import (
	"os/exec"
	"slices"
)

// Kind names an extension point.
type Kind string

const (
	KindBuildTool     Kind = "build_tools"
	KindSRPMBuildTool Kind = "srpm_build_tools"
	KindChecker       Kind = "checkers"
	KindBuildLogHook  Kind = "build_log_hooks"
	KindVersioneer    Kind = "versioneers"
	KindSpecHook      Kind = "spec_hooks"
	KindOutputTool    Kind = "output_tools"
)

// Kinds lists every extension point in display order.
var Kinds = []Kind{
	KindBuildTool, KindSRPMBuildTool, KindChecker, KindBuildLogHook,
	KindVersioneer, KindSpecHook, KindOutputTool,
}

// Plugin is the part of the contract shared by every kind.
type Plugin interface {
	Name() string
	// Categories restricts the plugin to packages of these categories.
	// An empty list means every package.
	Categories() []string
	IsDefault() bool
	// IsAvailable reports whether the backing tool is installed.
	IsAvailable() bool
}

// LookPath resolves external tools. Tests replace it.
var LookPath = exec.LookPath

// Info implements Plugin from static metadata and is embedded by the
// concrete plugins.
type Info struct {
	PluginName string
	Cats       []string
	Default    bool
	// Tools must all resolve through LookPath for the plugin to be available.
	Tools []string
}

func (i Info) Name() string         { return i.PluginName }
func (i Info) Categories() []string { return i.Cats }
func (i Info) IsDefault() bool      { return i.Default }

func (i Info) IsAvailable() bool {
	for _, tool := range i.Tools {
		if _, err := LookPath(tool); err != nil {
			return false
		}
	}
	return true
}

// AppliesTo reports whether p serves packages of category. Plugins without
// categories serve every package; categorised plugins never serve
// uncategorised packages.
func AppliesTo(p Plugin, category string) bool {
	cats := p.Categories()
	if len(cats) == 0 {
		return true
	}
	return category != "" && slices.Contains(cats, category)
}
