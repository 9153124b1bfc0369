// Package logger provides structured logging using slog with per-run log files.
package logger

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// LevelVerbose sits between debug and info. It carries builder output and
// per-hunk patch decisions that are too noisy for the console.
const LevelVerbose = slog.Level(-2)

// Log file names created by NewRunLogger inside the logs directory.
const (
	DebugLog     = "debug.log"
	VerboseLog   = "verbose.log"
	InfoLog      = "info.log"
	TracebackLog = "traceback.log"
)

// Logger wraps slog.Logger with component and error helpers.
type Logger struct {
	*slog.Logger
	closers []io.Closer
}

// New creates a new Logger writing to stderr with the specified level and format.
func New(level slog.Level, json bool) *Logger {
	return &Logger{Logger: slog.New(newHandler(os.Stderr, level, json))}
}

// Default creates a logger with default settings (INFO level, text format).
func Default() *Logger {
	return New(slog.LevelInfo, false)
}

// Discard returns a logger that drops every record. Used in tests.
func Discard() *Logger {
	return &Logger{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

// NewRunLogger creates a logger that fans each record out to the console
// handler and to the four run log files under dir. The returned logger must
// be closed to flush the files.
func NewRunLogger(dir string, console slog.Handler) (*Logger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}

	levels := []struct {
		name  string
		level slog.Level
	}{
		{DebugLog, slog.LevelDebug},
		{VerboseLog, LevelVerbose},
		{InfoLog, slog.LevelInfo},
		{TracebackLog, slog.LevelError},
	}

	l := &Logger{}
	handlers := make([]slog.Handler, 0, len(levels)+1)
	if console != nil {
		handlers = append(handlers, console)
	}
	for _, lv := range levels {
		f, err := os.OpenFile(filepath.Join(dir, lv.name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			_ = l.Close()
			return nil, fmt.Errorf("open %s: %w", lv.name, err)
		}
		l.closers = append(l.closers, f)
		h := newHandler(f, lv.level, false)
		if lv.level == slog.LevelError {
			h = &tracebackHandler{Handler: h}
		}
		handlers = append(handlers, h)
	}

	l.Logger = slog.New(&fanoutHandler{handlers: handlers})
	return l, nil
}

// ConsoleHandler returns the handler used for terminal output. Quiet wins over verbose.
func ConsoleHandler(w io.Writer, verbose, quiet bool) slog.Handler {
	level := slog.LevelInfo
	switch {
	case quiet:
		level = slog.LevelError
	case verbose:
		level = LevelVerbose
	}
	return newHandler(w, level, false)
}

// Close flushes and closes the run log files.
func (l *Logger) Close() error {
	var errs []error
	for _, c := range l.closers {
		errs = append(errs, c.Close())
	}
	l.closers = nil
	return errors.Join(errs...)
}

// WithComponent returns a new Logger with the component field.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{Logger: l.Logger.With("component", component)}
}

// WithError returns a new Logger with the error field.
func (l *Logger) WithError(err error) *Logger {
	return &Logger{Logger: l.Logger.With("error", err.Error())}
}

// Verbose logs at LevelVerbose.
func (l *Logger) Verbose(msg string, args ...any) {
	l.Logger.Log(context.Background(), LevelVerbose, msg, args...)
}

func newHandler(w io.Writer, level slog.Level, json bool) slog.Handler {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lv, ok := a.Value.Any().(slog.Level); ok && lv == LevelVerbose {
					return slog.String(slog.LevelKey, "VERBOSE")
				}
			}
			return a
		},
	}
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// fanoutHandler dispatches each record to every handler that accepts its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, hh := range h.handlers {
		if hh.Enabled(ctx, r.Level) {
			errs = append(errs, hh.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: out}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(h.handlers))
	for i, hh := range h.handlers {
		out[i] = hh.WithGroup(name)
	}
	return &fanoutHandler{handlers: out}
}

// tracebackHandler expands wrapped error chains so traceback.log shows every layer.
type tracebackHandler struct {
	slog.Handler
}

func (h *tracebackHandler) Handle(ctx context.Context, r slog.Record) error {
	var chain []string
	r.Attrs(func(a slog.Attr) bool {
		if err, ok := a.Value.Any().(error); ok {
			for e := err; e != nil; e = errors.Unwrap(e) {
				chain = append(chain, e.Error())
			}
		}
		return true
	})
	if len(chain) > 1 {
		r = r.Clone()
		r.AddAttrs(slog.Any("chain", chain))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *tracebackHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &tracebackHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *tracebackHandler) WithGroup(name string) slog.Handler {
	return &tracebackHandler{Handler: h.Handler.WithGroup(name)}
}
