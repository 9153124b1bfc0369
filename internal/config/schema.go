// Package config declares every recognized option in one schema and merges
// schema defaults, the [general] section of the configuration file and the
// command line into a read-only Config.
package config

import "strings"

// Option keys as they appear in Config (long flag name, '-' -> '_').
const (
	KeyConfig                     = "config"
	KeyResultsDir                 = "results_dir"
	KeyWorkspaceDir               = "workspace_dir"
	KeyPatchOnly                  = "patch_only"
	KeyBuildOnly                  = "build_only"
	KeyComparePkgsOnly            = "comparepkgs_only"
	KeyContinue                   = "continue"
	KeyNonInteractive             = "non_interactive"
	KeyForceBuildLogHooks         = "force_build_log_hooks"
	KeyDisableInapplicablePatches = "disable_inapplicable_patches"
	KeyGetOldBuildFromKoji        = "get_old_build_from_koji"
	KeyUpdateSources              = "update_sources"
	KeySkipUpload                 = "skip_upload"
	KeyFavorOnConflict            = "favor_on_conflict"
	KeyColor                      = "color"
	KeyBuildTool                  = "buildtool"
	KeySRPMBuildTool              = "srpm_buildtool"
	KeyPkgCompareTool             = "pkgcomparetool"
	KeyOutputTool                 = "outputtool"
	KeyVersioneer                 = "versioneer"
	KeyVersioneerCategories       = "versioneer_categories"
	KeyBuildLogHooks              = "build_log_hooks"
	KeySpecHooks                  = "spec_hooks"
	KeyVerbose                    = "verbose"
	KeyQuiet                      = "quiet"
	KeyChangelogEntry             = "changelog_entry"
	KeyNoChangelogEntry           = "no_changelog_entry"
	KeyPackager                   = "packager"
	KeyBugzillaID                 = "bugzilla_id"
	KeyDownloadTimeout            = "download_timeout"
	KeyBuildTimeout               = "build_timeout"
	KeyBuilderOptions             = "builder_options"
	KeyBuilderEnvFile             = "builder_env_file"
	KeyLookasideURL               = "lookaside_url"
	KeyLookasideBucket            = "lookaside_bucket"
	KeyKojiProfile                = "koji_profile"
	KeyMaxHookPasses              = "max_hook_passes"
	KeyMaxFuzz                    = "max_fuzz"
)

// Values accepted by the choice options.
const (
	FavorUpstream   = "upstream"
	FavorDownstream = "downstream"
	FavorOff        = "off"

	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"

	Enable  = "enable"
	Disable = "disable"
)

// ValueType selects how a value is parsed and validated.
type ValueType int

const (
	TypeString ValueType = iota
	TypeBool
	TypeInt
	TypeDuration
	TypeList
)

// Option declares one recognized option.
type Option struct {
	Name    string // long flag name
	Short   string
	Default string
	Type    ValueType
	Choices []string
	// Group names a set of mutually exclusive options.
	Group string
	Help  string
	// Meta is the value placeholder offered by shell completion.
	Meta string
}

// Dest returns the key the option is stored under.
func (o Option) Dest() string { return DestFor(o.Name) }

// IsFlag reports whether the option takes no value.
func (o Option) IsFlag() bool { return o.Type == TypeBool }

// DestFor normalizes a flag or file key name.
func DestFor(name string) string {
	return strings.ReplaceAll(strings.TrimLeft(name, "-"), "-", "_")
}

// Schema lists every recognized option in help order.
var Schema = []Option{
	{Name: "config", Help: "path to the configuration file", Meta: "PATH"},
	{Name: "results-dir", Default: "rebase-helper-results", Help: "directory for logs, builds and the report", Meta: "PATH"},
	{Name: "workspace-dir", Default: "rebase-helper-workspace", Help: "directory for unpacked sources and downloads", Meta: "PATH"},

	{Name: "patch-only", Type: TypeBool, Group: "mode", Help: "stop after rebasing patches"},
	{Name: "build-only", Type: TypeBool, Group: "mode", Help: "only build the packages, assuming the spec is already correct"},
	{Name: "comparepkgs-only", Group: "mode", Help: "only compare packages found in DIR/old and DIR/new", Meta: "DIR"},
	{Name: "continue", Short: "c", Type: TypeBool, Help: "resume from the state saved in the results directory"},

	{Name: "non-interactive", Short: "n", Type: TypeBool, Help: "never ask questions"},
	{Name: "force-build-log-hooks", Type: TypeBool, Help: "run build log hooks even in non-interactive mode"},
	{Name: "disable-inapplicable-patches", Type: TypeBool, Help: "disable conflicting patches instead of failing"},
	{Name: "favor-on-conflict", Default: FavorOff, Choices: []string{FavorUpstream, FavorDownstream, FavorOff}, Help: "side that wins conflicting merge regions"},
	{Name: "max-fuzz", Default: "2", Type: TypeInt, Help: "context lines a hunk may ignore when applied", Meta: "N"},

	{Name: "get-old-build-from-koji", Type: TypeBool, Help: "download the old build from the build hub instead of building it"},
	{Name: "koji-profile", Default: "koji", Help: "build hub profile used by the koji client", Meta: "NAME"},
	{Name: "update-sources", Type: TypeBool, Help: "rewrite the sources file with the new archives"},
	{Name: "skip-upload", Type: TypeBool, Help: "do not upload new archives to the lookaside cache"},
	{Name: "lookaside-url", Help: "S3-compatible lookaside cache endpoint", Meta: "URL"},
	{Name: "lookaside-bucket", Default: "lookaside", Help: "lookaside cache bucket", Meta: "NAME"},

	{Name: "buildtool", Help: "binary package build tool", Meta: "NAME"},
	{Name: "srpm-buildtool", Help: "source package build tool", Meta: "NAME"},
	{Name: "pkgcomparetool", Type: TypeList, Help: "comma separated package checkers (default: all available)", Meta: "LIST"},
	{Name: "outputtool", Help: "report renderer", Meta: "NAME"},
	{Name: "versioneer", Help: "upstream version resolver", Meta: "NAME"},
	{Name: "versioneer-categories", Type: TypeList, Help: "package categories versioneers are limited to", Meta: "LIST"},
	{Name: "build-log-hooks", Default: Enable, Choices: []string{Enable, Disable}, Help: "repair the spec from failed build logs"},
	{Name: "spec-hooks", Default: Enable, Choices: []string{Enable, Disable}, Help: "run spec hooks after changing the version"},
	{Name: "max-hook-passes", Default: "2", Type: TypeInt, Help: "build attempts allowed to be repaired by build log hooks", Meta: "N"},

	{Name: "builder-options", Help: "extra options passed to the build tools", Meta: "STR"},
	{Name: "builder-env-file", Help: "dotenv file merged into the build tools' environment", Meta: "PATH"},
	{Name: "build-timeout", Default: "2h", Type: TypeDuration, Help: "limit for a single build", Meta: "DUR"},
	{Name: "download-timeout", Default: "10m", Type: TypeDuration, Help: "limit for a single download", Meta: "DUR"},

	{Name: "changelog-entry", Default: "- New upstream release %{version}", Help: "changelog text added to the rebased spec", Meta: "TEXT"},
	{Name: "no-changelog-entry", Type: TypeBool, Help: "do not add a changelog entry"},
	{Name: "packager", Help: "changelog author, \"Name <email>\"", Meta: "WHO"},
	{Name: "bugzilla-id", Help: "tracker identifier (rhbz#N or anitya:PROJECT) to take the version from", Meta: "ID"},

	{Name: "color", Default: ColorAuto, Choices: []string{ColorAuto, ColorAlways, ColorNever}, Help: "colorize output"},
	{Name: "verbose", Short: "v", Type: TypeBool, Group: "verbosity", Help: "log verbose messages to the console"},
	{Name: "quiet", Short: "q", Type: TypeBool, Group: "verbosity", Help: "only print errors"},
}

// Lookup returns the option stored under dest.
func Lookup(dest string) (Option, bool) {
	for _, o := range Schema {
		if o.Dest() == dest {
			return o, true
		}
	}
	return Option{}, false
}
