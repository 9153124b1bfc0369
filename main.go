// Package main implements the rebase-helper CLI, which rebases an RPM
// package to a new upstream version.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/EmundoT/rebase-helper/cmd"
	"github.com/EmundoT/rebase-helper/internal/config"
	"github.com/EmundoT/rebase-helper/internal/core"
	"github.com/EmundoT/rebase-helper/internal/tui"
	"github.com/EmundoT/rebase-helper/internal/version"
	"github.com/EmundoT/rebase-helper/pkg/logger"
)

// Version information, injected by GoReleaser via ldflags
var (
	buildVersion = "dev"
	buildCommit  = "none"
	buildDate    = "unknown"
)

const progName = "rebase-helper"

func main() {
	version.Version, version.Commit, version.Date = buildVersion, buildCommit, buildDate

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// reportedError marks a run error that was already shown to the user.
type reportedError struct{ err error }

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := newRootCommand(stdout, stderr)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return core.ExitSuccess
	}
	var shown *reportedError
	if !errors.As(err, &shown) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return core.ExitCodeForError(err)
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   progName + " [flags] [VERSION]",
		Short: "Rebase an RPM package to a new upstream version",
		Long: `rebase-helper rebases the package in the current directory to a new
upstream version: it downloads the sources, rebases the downstream patches,
builds the old and new packages and compares them.

VERSION may be omitted when a versioneer can find the latest release.`,
		Version:       version.GetFullVersion(),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := config.Resolve(c.Flags(), args)
			if err != nil {
				return core.NewConfigurationError(err, "Run 'rebase-helper --help' for the list of options", "invalid command line")
			}
			return rebase(c.Context(), cfg, stdout, stderr)
		},
	}
	config.BindFlags(root.Flags())
	root.AddCommand(newCompletionCommand(stdout))
	return root
}

func newCompletionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:       "completion SHELL",
		Short:     "Generate shell completion script",
		Args:      cobra.ExactArgs(1),
		ValidArgs: cmd.Shells,
		RunE: func(_ *cobra.Command, args []string) error {
			script, err := cmd.Generate(args[0], progName)
			if err != nil {
				return err
			}
			_, err = io.WriteString(stdout, script)
			return err
		},
	}
}

// useColor resolves --color against the output stream.
func useColor(cfg *config.Config, out io.Writer) bool {
	switch cfg.String(config.KeyColor) {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	return tui.IsTerminal(out) && os.Getenv("NO_COLOR") == ""
}

// newUI picks the interactive callback only when somebody can answer.
func newUI(cfg *config.Config, flags core.NonInteractiveFlags, stdout, stderr io.Writer) core.UICallback {
	if cfg.Interactive() && flags.Mode == core.OutputNormal && isatty.IsTerminal(os.Stdin.Fd()) && tui.IsTerminal(stdout) {
		return tui.NewTUICallback(stdout, flags.Color)
	}
	return tui.NewNonInteractiveTUICallbackTo(flags, stdout, stderr)
}

func rebase(ctx context.Context, cfg *config.Config, stdout, stderr io.Writer) error {
	color := useColor(cfg, stdout)
	if color {
		lipgloss.SetColorProfile(termenv.ANSI256)
	} else {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	flags := core.FlagsFromConfig(cfg, color)
	ui := newUI(cfg, flags, stdout, stderr)

	fail := func(err error) error {
		if flags.Mode == core.OutputJSON {
			core.EmitCLIError(stdout, err)
		} else {
			ui.ShowError("Rebase failed", err.Error())
		}
		return &reportedError{err}
	}

	if err := core.PrepareResultsDir(cfg, ui); err != nil {
		return fail(fmt.Errorf("prepare results directory: %w", err))
	}
	log, err := logger.NewRunLogger(
		filepath.Join(cfg.String(config.KeyResultsDir), core.LogsDir),
		logger.ConsoleHandler(stderr, cfg.Bool(config.KeyVerbose), cfg.Bool(config.KeyQuiet)),
	)
	if err != nil {
		return fail(err)
	}
	defer log.Close()

	packageDir, err := os.Getwd()
	if err != nil {
		return fail(err)
	}

	m := core.NewManager(cfg, packageDir, log)
	m.SetUICallback(ui)
	switch flags.Mode {
	case core.OutputJSON:
		// stdout carries JSON status lines
		m.SetOutput(stderr, color)
	case core.OutputQuiet:
		m.SetOutput(io.Discard, false)
	default:
		m.SetOutput(stdout, color)
	}

	rep, err := m.Rebase(ctx)
	if err != nil {
		log.WithError(err).Error("rebase failed")
		if rep != nil && flags.Mode == core.OutputJSON {
			// report.json already records the failure
			return &reportedError{err}
		}
		return fail(err)
	}
	return nil
}
