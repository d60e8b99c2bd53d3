package main

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

	"golang.org/x/sync/errgroup"

	"github.com/tallhamn/sortdeps/internal/config"
	"github.com/tallhamn/sortdeps/internal/engine"
	"github.com/tallhamn/sortdeps/internal/finder"
	"github.com/tallhamn/sortdeps/internal/logging"
	"github.com/tallhamn/sortdeps/internal/report"
	"github.com/tallhamn/sortdeps/internal/sorter"
	"github.com/tallhamn/sortdeps/internal/verify"
)

// fileResult is what processing one script produced.
type fileResult struct {
	path    string
	outcome sorter.Outcome
	// messages are the parse errors of a ParseFailed script.
	messages []string
	// err is an IO or verification failure.
	err  error
	diff string
}

func run(ctx context.Context, opts config.Options, paths []string, stdout, stderr io.Writer) error {
	start := time.Now()

	logger, closeLog, err := newLogger(opts, stderr, start)
	if err != nil {
		return &statusError{code: exitError, err: err}
	}
	defer closeLog()

	root, err := os.Getwd()
	if err != nil {
		return &statusError{code: exitError, err: err}
	}
	findOpts, err := opts.Finder()
	if err != nil {
		return &statusError{code: exitError, err: err}
	}

	files, err := finder.Find(root, paths, findOpts)
	if err != nil {
		return &statusError{code: exitError, err: fmt.Errorf("finding build scripts: %w", err)}
	}
	logger.Info("found build scripts", "count", len(files), "mode", string(opts.Mode))

	if len(files) == 0 {
		fmt.Fprintf(stderr, "No build scripts found in %s\n", strings.Join(paths, ", "))
		return &statusError{code: exitNoBuildScripts}
	}

	results := processAll(ctx, files, opts, logger)
	summary := summarize(results, opts, root)
	summary.Duration = time.Since(start)

	for _, r := range results {
		if r.diff != "" {
			fmt.Fprint(stdout, r.diff)
		}
	}
	if err := writeSummary(stdout, summary, opts.Report); err != nil {
		return &statusError{code: exitError, err: err}
	}

	return exitStatus(summary)
}

func newLogger(opts config.Options, stderr io.Writer, start time.Time) (*slog.Logger, func() error, error) {
	fileLevel, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	file := opts.LogFile
	if file == "" && opts.LogDir != "" {
		file = logging.RunFile(opts.LogDir, start)
	}
	return logging.Setup(logging.Options{
		Console:      stderr,
		ConsoleLevel: logging.LevelFromVerbosity(opts.Verbosity, opts.Quiet),
		File:         file,
		FileLevel:    fileLevel,
	})
}

// processAll sorts files on a bounded pool. Results keep the order of files
// and a failing script never stops the others.
func processAll(ctx context.Context, files []string, opts config.Options, logger *slog.Logger) []fileResult {
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Jobs)
	for i, path := range files {
		i, path := i, path // per-iteration copies; go.mod targets Go 1.21
		g.Go(func() error {
			results[i] = processFile(ctx, path, opts, logger.With("path", path))
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func processFile(ctx context.Context, path string, opts config.Options, logger *slog.Logger) fileResult {
	res := fileResult{path: path}

	lang, err := engine.LanguageOf(path)
	if err != nil {
		res.err = err
		return res
	}
	info, err := os.Stat(path)
	if err != nil {
		res.err = err
		return res
	}
	eng, err := engine.Of(path, opts.Sorter())
	if err != nil {
		res.err = err
		return res
	}
	original := eng.Source()
	result := eng.Result()
	res.outcome = result.Outcome

	switch result.Outcome {
	case sorter.ParseFailed:
		var perr *sorter.ParseError
		if errors.As(result.Err, &perr) {
			res.messages = perr.Messages
		} else {
			res.messages = []string{result.Err.Error()}
		}
		logger.Warn("parse failed", "errors", len(res.messages))
		return res
	case sorter.AlreadyOrdered:
		logger.Debug("already sorted")
		return res
	}

	if opts.Verify {
		if err := verify.Verify(ctx, lang, original, result.Text); err != nil {
			logger.Error("verification failed", "err", err)
			res.err = fmt.Errorf("%s: %w", path, err)
			return res
		}
	}
	if opts.Diff {
		res.diff = verify.Diff(original, result.Text, path+" (original)", path+" (sorted)")
	}

	if opts.Mode == report.ModeCheck || opts.DryRun {
		logger.Info("not sorted")
		return res
	}
	if err := os.WriteFile(path, []byte(result.Text), info.Mode().Perm()); err != nil {
		res.err = fmt.Errorf("writing %s: %w", path, err)
		return res
	}
	logger.Info("sorted")
	return res
}

func summarize(results []fileResult, opts config.Options, root string) *report.Summary {
	s := &report.Summary{Mode: opts.Mode, Found: len(results), DryRun: opts.DryRun && opts.Mode == report.ModeSort}
	var unsorted []string

	for _, r := range results {
		rel := relPath(root, r.path)
		switch {
		case r.err != nil:
			s.Errors = append(s.Errors, report.Failure{Path: rel, Messages: []string{r.err.Error()}})
		case r.outcome == sorter.ParseFailed:
			s.ParseErrors = append(s.ParseErrors, report.Failure{Path: rel, Messages: r.messages})
		case r.outcome == sorter.AlreadyOrdered:
			s.AlreadySorted++
		case opts.Mode == report.ModeCheck:
			s.NotSorted = append(s.NotSorted, rel)
			unsorted = append(unsorted, rel)
		default:
			s.Sorted++
		}
	}

	if len(unsorted) > 0 {
		s.FixCommand = fixCommand(opts.Context, unsorted)
	}
	return s
}

func fixCommand(caller string, paths []string) string {
	if caller == "gradle" {
		return "./gradlew sortDependencies"
	}
	return "sortdeps " + strings.Join(paths, " ")
}

func relPath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}

func writeSummary(w io.Writer, s *report.Summary, format string) error {
	if format == "json" {
		data, err := s.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(w, "%s\n", data)
		return err
	}
	_, err := io.WriteString(w, s.Text())
	return err
}

// exitStatus maps a summary to the process status. IO failures outrank
// everything; parse errors only fail a check whose parseable scripts are
// all sorted.
func exitStatus(s *report.Summary) error {
	switch {
	case len(s.Errors) > 0:
		return &statusError{code: exitError}
	case len(s.NotSorted) > 0:
		return &statusError{code: exitNotSorted}
	case s.Mode == report.ModeCheck && len(s.ParseErrors) > 0:
		return &statusError{code: exitParseErrors}
	}
	return nil
}
