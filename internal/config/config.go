package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-ini/ini"
	"github.com/spf13/pflag"
)

// FileSection is the configuration file section holding option values.
const FileSection = "general"

// DefaultFileName is looked up in the user's configuration directory.
const DefaultFileName = "rebase-helper.cfg"

// Origin tells where a value came from.
type Origin string

const (
	OriginDefault Origin = "default"
	OriginFile    Origin = "file"
	OriginCLI     Origin = "cli"
)

// ErrInvalidOption is wrapped by every validation failure.
var ErrInvalidOption = errors.New("invalid option")

// Config is the merged, read-only option view.
type Config struct {
	values  map[string]string
	origins map[string]Origin
	extra   map[string]string

	// TargetVersion is the positional argument, if any.
	TargetVersion string
	// File is the configuration file that was read, or "".
	File string
}

// New returns a Config holding schema defaults with overrides applied as
// command-line values. Keys may use either flag or dest spelling.
func New(overrides map[string]string) (*Config, error) {
	c := defaults()
	for _, k := range slices.Sorted(maps.Keys(overrides)) {
		if err := c.set(DestFor(k), overrides[k], OriginCLI); err != nil {
			return nil, err
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func defaults() *Config {
	c := &Config{
		values:  make(map[string]string, len(Schema)),
		origins: make(map[string]Origin, len(Schema)),
		extra:   make(map[string]string),
	}
	for _, o := range Schema {
		def := o.Default
		if def == "" && o.IsFlag() {
			def = "false"
		}
		c.values[o.Dest()] = def
		c.origins[o.Dest()] = OriginDefault
	}
	return c
}

// BindFlags declares every schema option on fs.
func BindFlags(fs *pflag.FlagSet) {
	for _, o := range Schema {
		help := o.Help
		if len(o.Choices) > 0 {
			help = fmt.Sprintf("%s (%s)", help, strings.Join(o.Choices, ", "))
		}
		if o.IsFlag() {
			fs.BoolP(o.Name, o.Short, false, help)
			continue
		}
		fs.StringP(o.Name, o.Short, o.Default, help)
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/rebase-helper.cfg, falling back to
// ~/.config.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, DefaultFileName)
}

// Resolve merges defaults, the configuration file and the flags changed
// on fs. A missing default file is ignored; a missing explicit one is not.
func Resolve(fs *pflag.FlagSet, args []string) (*Config, error) {
	c := defaults()

	path, explicit := DefaultPath(), false
	if f := fs.Lookup("config"); f != nil && f.Changed {
		path, explicit = f.Value.String(), true
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil || explicit {
			if err := c.loadFile(path); err != nil {
				return nil, err
			}
		}
	}

	var err error
	fs.Visit(func(f *pflag.Flag) {
		if _, known := Lookup(DestFor(f.Name)); !known || err != nil {
			return
		}
		err = c.set(DestFor(f.Name), f.Value.String(), OriginCLI)
	})
	if err != nil {
		return nil, err
	}

	if len(args) > 1 {
		return nil, fmt.Errorf("%w: expected at most one target version, got %d arguments", ErrInvalidOption, len(args))
	}
	if len(args) == 1 {
		c.TargetVersion = strings.TrimSpace(args[0])
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) loadFile(path string) error {
	f, err := ini.LoadSources(ini.LoadOptions{AllowBooleanKeys: true}, path)
	if err != nil {
		return fmt.Errorf("%w: read %s: %v", ErrInvalidOption, path, err)
	}
	c.File = path
	sec, err := f.GetSection(FileSection)
	if err != nil {
		return nil
	}
	for _, key := range sec.Keys() {
		dest := DestFor(key.Name())
		if _, known := Lookup(dest); !known {
			c.extra[key.Name()] = key.Value()
			continue
		}
		if err := c.set(dest, key.Value(), OriginFile); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}

func (c *Config) set(dest, value string, origin Origin) error {
	o, ok := Lookup(dest)
	if !ok {
		return fmt.Errorf("%w: unknown option %q", ErrInvalidOption, dest)
	}
	value = strings.TrimSpace(value)
	switch o.Type {
	case TypeBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s expects a boolean, got %q", ErrInvalidOption, o.Name, value)
		}
		value = strconv.FormatBool(b)
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("%w: %s expects an integer, got %q", ErrInvalidOption, o.Name, value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("%w: %s expects a duration, got %q", ErrInvalidOption, o.Name, value)
		}
	}
	if len(o.Choices) > 0 && !slices.Contains(o.Choices, value) {
		return fmt.Errorf("%w: %s must be one of %s, got %q", ErrInvalidOption, o.Name, strings.Join(o.Choices, ", "), value)
	}
	c.values[dest] = value
	c.origins[dest] = origin
	return nil
}

// validate rejects combinations of options from the same exclusive group.
func (c *Config) validate() error {
	groups := map[string][]string{}
	for _, o := range Schema {
		if o.Group == "" || !c.isSet(o) {
			continue
		}
		groups[o.Group] = append(groups[o.Group], "--"+o.Name)
	}
	for _, g := range slices.Sorted(maps.Keys(groups)) {
		if set := groups[g]; len(set) > 1 {
			return fmt.Errorf("%w: %s are mutually exclusive", ErrInvalidOption, strings.Join(set, " and "))
		}
	}
	if c.Int(KeyMaxHookPasses) < 1 {
		return fmt.Errorf("%w: --max-hook-passes must be at least 1", ErrInvalidOption)
	}
	if c.Int(KeyMaxFuzz) < 0 {
		return fmt.Errorf("%w: --max-fuzz must not be negative", ErrInvalidOption)
	}
	return nil
}

func (c *Config) isSet(o Option) bool {
	v := c.values[o.Dest()]
	if o.IsFlag() {
		return v == "true"
	}
	return v != "" && v != o.Default
}

// String returns the raw value of key.
func (c *Config) String(key string) string { return c.values[key] }

func (c *Config) Bool(key string) bool { return c.values[key] == "true" }

func (c *Config) Int(key string) int {
	n, _ := strconv.Atoi(c.values[key])
	return n
}

func (c *Config) Duration(key string) time.Duration {
	d, _ := time.ParseDuration(c.values[key])
	return d
}

// List splits a comma separated value, dropping empty items.
func (c *Config) List(key string) []string {
	var out []string
	for _, item := range strings.Split(c.values[key], ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Origin reports where the value of key came from.
func (c *Config) Origin(key string) Origin { return c.origins[key] }

// Extra returns file keys the schema does not know, verbatim.
func (c *Config) Extra() map[string]string { return maps.Clone(c.extra) }

// Values returns every option value keyed by dest.
func (c *Config) Values() map[string]string { return maps.Clone(c.values) }

// Interactive reports whether questions may be asked.
func (c *Config) Interactive() bool { return !c.Bool(KeyNonInteractive) }

// HooksAllowed reports whether build log hooks may edit the spec.
func (c *Config) HooksAllowed() bool {
	if c.String(KeyBuildLogHooks) != Enable {
		return false
	}
	return c.Interactive() || c.Bool(KeyForceBuildLogHooks)
}
