// Package report renders the summary of a sort or check run.
package report

import (
	"fmt"
	"strings"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

// Mode is what a run does with the scripts it finds.
type Mode string

const (
	ModeSort  Mode = "sort"
	ModeCheck Mode = "check"
)

// Failure is a file that could not be processed, with every message about it.
type Failure struct {
	Path     string
	Messages []string
}

// Summary is the aggregate result of one run.
type Summary struct {
	Mode  Mode
	Found int
	// DryRun marks a sort run that wrote nothing; Sorted then counts the
	// files that would have been rewritten.
	DryRun bool
	// Sorted counts files rewritten in sort mode.
	Sorted        int
	AlreadySorted int
	// NotSorted lists the files a check found out of order.
	NotSorted   []string
	ParseErrors []Failure
	Errors      []Failure
	// FixCommand is printed when a check fails.
	FixCommand string
	Duration   time.Duration
}

// Success reports whether the run found nothing out of order.
func (s *Summary) Success() bool {
	return len(s.NotSorted) == 0
}

// Text renders the summary for a terminal.
func (s *Summary) Text() string {
	var b strings.Builder

	switch s.Mode {
	case ModeCheck:
		if s.Success() {
			b.WriteString("Success! No mis-ordered build scripts.\n")
		} else {
			fmt.Fprintf(&b, "Failed! %d scripts are not ordered correctly.\n", len(s.NotSorted))
		}
		b.WriteString("Metrics:\n")
		fmt.Fprintf(&b, "  Not sorted:     %d\n", len(s.NotSorted))
		fmt.Fprintf(&b, "  Already sorted: %d\n", s.AlreadySorted)
		fmt.Fprintf(&b, "  Parse errors:   %d\n", len(s.ParseErrors))
		if !s.Success() {
			b.WriteString("\nFix by running\n")
			b.WriteString(s.FixCommand)
			b.WriteString("\n")
		}
	default:
		b.WriteString("Metrics:\n")
		if s.DryRun {
			fmt.Fprintf(&b, "  Would sort:       %d\n", s.Sorted)
		} else {
			fmt.Fprintf(&b, "  Successful sorts: %d\n", s.Sorted)
		}
		fmt.Fprintf(&b, "  Already sorted:   %d\n", s.AlreadySorted)
		fmt.Fprintf(&b, "  Parse errors:     %d\n", len(s.ParseErrors))
	}

	writeFailures(&b, "Parse errors", s.ParseErrors)
	writeFailures(&b, "Errors", s.Errors)

	label := "Sort"
	if s.Mode == ModeCheck {
		label = "Check"
	}
	fmt.Fprintf(&b, "\n%s duration: %d ms.\n", label, s.Duration.Milliseconds())
	return b.String()
}

func writeFailures(b *strings.Builder, title string, failures []Failure) {
	if len(failures) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", title)
	for _, f := range failures {
		fmt.Fprintf(b, "  %s\n", f.Path)
		for _, m := range f.Messages {
			fmt.Fprintf(b, "    %s\n", m)
		}
	}
}

// JSON renders the summary as an indented JSON object.
func (s *Summary) JSON() ([]byte, error) {
	fields := map[string]any{
		"mode":          string(s.Mode),
		"dryRun":        s.DryRun,
		"success":       s.Success(),
		"found":         s.Found,
		"sorted":        s.Sorted,
		"alreadySorted": s.AlreadySorted,
		"notSorted":     toList(s.NotSorted),
		"parseErrors":   failureList(s.ParseErrors),
		"errors":        failureList(s.Errors),
		"durationMs":    s.Duration.Milliseconds(),
	}
	if !s.Success() && s.FixCommand != "" {
		fields["fixCommand"] = s.FixCommand
	}

	st, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("building report: %w", err)
	}
	return protojson.MarshalOptions{Multiline: true, Indent: "  "}.Marshal(st)
}

func toList(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

func failureList(failures []Failure) []any {
	out := make([]any, len(failures))
	for i, f := range failures {
		out[i] = map[string]any{
			"path":     f.Path,
			"messages": toList(f.Messages),
		}
	}
	return out
}
