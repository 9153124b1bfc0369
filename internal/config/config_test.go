package config

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
)

func newFlagSet(t *testing.T, args ...string) (*pflag.FlagSet, []string) {
	t.Helper()
	fs := pflag.NewFlagSet("rebase-helper", pflag.ContinueOnError)
	BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		t.Fatalf("Parse(%v) failed: %v", args, err)
	}
	return fs, fs.Args()
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rebase-helper.cfg")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// ============================================================================
// Schema
// ============================================================================

func TestSchema_UniqueNamesAndValidDefaults(t *testing.T) {
	seen := map[string]bool{}
	for _, o := range Schema {
		if seen[o.Dest()] {
			t.Errorf("duplicate option %s", o.Name)
		}
		seen[o.Dest()] = true
	}
	if _, err := New(nil); err != nil {
		t.Fatalf("schema defaults must validate: %v", err)
	}
}

func TestDestFor(t *testing.T) {
	tests := map[string]string{
		"results-dir":  "results_dir",
		"--patch-only": "patch_only",
		"color":        "color",
		"results_dir":  "results_dir",
	}
	for in, want := range tests {
		if got := DestFor(in); got != want {
			t.Errorf("DestFor(%q) = %q, want %q", in, got, want)
		}
	}
}

// ============================================================================
// Resolve
// ============================================================================

func TestResolve_MergeOrder(t *testing.T) {
	path := writeConfig(t, `[general]
results_dir = /tmp/from-file
buildtool = mock
color = never
my_plugin_option = keep me
`)
	fs, args := newFlagSet(t, "--config", path, "--buildtool", "rpmbuild", "-n", "0.2")

	c, err := Resolve(fs, args)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}

	tests := []struct {
		key    string
		value  string
		origin Origin
	}{
		{KeyResultsDir, "/tmp/from-file", OriginFile},
		{KeyBuildTool, "rpmbuild", OriginCLI},
		{KeyColor, ColorNever, OriginFile},
		{KeyNonInteractive, "true", OriginCLI},
		{KeyFavorOnConflict, FavorOff, OriginDefault},
	}
	for _, tt := range tests {
		if got := c.String(tt.key); got != tt.value {
			t.Errorf("%s = %q, want %q", tt.key, got, tt.value)
		}
		if got := c.Origin(tt.key); got != tt.origin {
			t.Errorf("origin of %s = %s, want %s", tt.key, got, tt.origin)
		}
	}
	if c.TargetVersion != "0.2" {
		t.Errorf("TargetVersion = %q", c.TargetVersion)
	}
	if got := c.Extra()["my_plugin_option"]; got != "keep me" {
		t.Errorf("unknown file key not preserved: %q", got)
	}
}

func TestResolve_MissingDefaultFileIsIgnored(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	fs, args := newFlagSet(t)
	c, err := Resolve(fs, args)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if c.File != "" {
		t.Errorf("no file should have been read, got %s", c.File)
	}
}

func TestResolve_MissingExplicitFileFails(t *testing.T) {
	fs, args := newFlagSet(t, "--config", filepath.Join(t.TempDir(), "nope.cfg"))
	if _, err := Resolve(fs, args); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
}

func TestResolve_UnknownFlagRejectedByParser(t *testing.T) {
	fs := pflag.NewFlagSet("rebase-helper", pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	BindFlags(fs)
	if err := fs.Parse([]string{"--no-such-flag"}); err == nil {
		t.Error("unknown flag must be rejected")
	}
}

func TestResolve_Validation(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	tests := []struct {
		name string
		args []string
	}{
		{"bad choice", []string{"--favor-on-conflict", "sideways"}},
		{"exclusive modes", []string{"--patch-only", "--build-only"}},
		{"exclusive verbosity", []string{"-v", "-q"}},
		{"bad duration", []string{"--build-timeout", "forever"}},
		{"bad int", []string{"--max-hook-passes", "two"}},
		{"zero passes", []string{"--max-hook-passes", "0"}},
		{"two positionals", []string{"0.2", "0.3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs, args := newFlagSet(t, tt.args...)
			if _, err := Resolve(fs, args); !errors.Is(err, ErrInvalidOption) {
				t.Errorf("expected ErrInvalidOption, got %v", err)
			}
		})
	}
}

func TestResolve_FileValueValidated(t *testing.T) {
	path := writeConfig(t, "[general]\nfavor_on_conflict = maybe\n")
	fs, args := newFlagSet(t, "--config", path)
	if _, err := Resolve(fs, args); !errors.Is(err, ErrInvalidOption) {
		t.Errorf("expected ErrInvalidOption, got %v", err)
	}
}

// ============================================================================
// Accessors
// ============================================================================

func TestConfig_TypedAccessors(t *testing.T) {
	if _, err := New(map[string]string{"non-interactive": "yes"}); !errors.Is(err, ErrInvalidOption) {
		t.Fatalf("\"yes\" is not a boolean and must be rejected, got %v", err)
	}

	c, err := New(map[string]string{
		"pkgcomparetool":        "files, abipkgdiff,,",
		"build-timeout":         "90m",
		"max_hook_passes":       "3",
		"non-interactive":       "true",
		"force-build-log-hooks": "1",
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	if got := c.List(KeyPkgCompareTool); len(got) != 2 || got[0] != "files" || got[1] != "abipkgdiff" {
		t.Errorf("List = %v", got)
	}
	if got := c.Duration(KeyBuildTimeout); got != 90*time.Minute {
		t.Errorf("Duration = %v", got)
	}
	if got := c.Int(KeyMaxHookPasses); got != 3 {
		t.Errorf("Int = %d", got)
	}
	if c.Interactive() {
		t.Error("expected non-interactive")
	}
	if !c.HooksAllowed() {
		t.Error("forced hooks should be allowed in non-interactive mode")
	}
}

func TestConfig_HooksAllowed(t *testing.T) {
	tests := []struct {
		name      string
		overrides map[string]string
		want      bool
	}{
		{"interactive", nil, true},
		{"non-interactive", map[string]string{"non-interactive": "true"}, false},
		{"forced", map[string]string{"non-interactive": "true", "force-build-log-hooks": "true"}, true},
		{"disabled", map[string]string{"build-log-hooks": Disable}, false},
	}
	for _, tt := range tests {
		c, err := New(tt.overrides)
		if err != nil {
			t.Fatalf("%s: New failed: %v", tt.name, err)
		}
		if got := c.HooksAllowed(); got != tt.want {
			t.Errorf("%s: HooksAllowed = %v, want %v", tt.name, got, tt.want)
		}
	}
}
