package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Silent is above every standard level.
const Silent = slog.Level(100)

// New returns a logger writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(NewHandler(w, &slog.HandlerOptions{Level: level}))
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return New(io.Discard, Silent)
}

// ParseLevel maps debug, info, warn(ing), error and off to a level,
// ignoring case.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "off", "none":
		return Silent, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// LevelFromVerbosity maps -q and the number of -v flags to a level:
// warn by default, info with one -v, debug with two or more.
func LevelFromVerbosity(verbosity int, quiet bool) slog.Level {
	if quiet {
		return Silent
	}
	switch verbosity {
	case 0:
		return slog.LevelWarn
	case 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// OpenFile opens path for appending, creating it and its parent directory.
func OpenFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// RunFile returns the path of the log file for a run started at t inside dir.
func RunFile(dir string, t time.Time) string {
	return filepath.Join(dir, t.UTC().Format("20060102-150405.000")+".log")
}

// Options selects where records go.
type Options struct {
	// Console receives records at ConsoleLevel.
	Console      io.Writer
	ConsoleLevel slog.Level
	// File, when set, receives every record at FileLevel.
	File      string
	FileLevel slog.Level
}

// Setup builds the run's logger. The returned close function releases the
// log file and is safe to call when no file was opened.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	handlers := []slog.Handler{NewHandler(console, &slog.HandlerOptions{Level: opts.ConsoleLevel})}
	closeFn := func() error { return nil }

	if opts.File != "" {
		f, err := OpenFile(opts.File)
		if err != nil {
			return nil, closeFn, err
		}
		handlers = append(handlers, NewHandler(f, &slog.HandlerOptions{Level: opts.FileLevel}))
		closeFn = f.Close
	}

	if len(handlers) == 1 {
		return slog.New(handlers[0]), closeFn, nil
	}
	return slog.New(NewTee(handlers...)), closeFn, nil
}

// Tee fans records out to several handlers.
type Tee struct {
	handlers []slog.Handler
}

func NewTee(handlers ...slog.Handler) *Tee {
	return &Tee{handlers: handlers}
}

func (t *Tee) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range t.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle passes r to every enabled handler and joins their errors.
func (t *Tee) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range t.handlers {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (t *Tee) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithAttrs(attrs)
	}
	return &Tee{handlers: out}
}

func (t *Tee) WithGroup(name string) slog.Handler {
	out := make([]slog.Handler, len(t.handlers))
	for i, h := range t.handlers {
		out[i] = h.WithGroup(name)
	}
	return &Tee{handlers: out}
}
