// Package sorter orders the dependency declarations of Gradle build scripts.
// Front ends hand it a parse tree and token stream; it classifies each
// declaration, groups declarations by configuration, sorts them, and
// rewrites the dependencies blocks whose order changed.
package sorter

import (
	"errors"

	"github.com/tallhamn/sortdeps/internal/syntax"
)

// Config controls how blocks are rewritten.
type Config struct {
	// InsertBlankLines separates configuration groups with a blank line.
	InsertBlankLines bool
}

// DefaultConfig returns the configuration used when none is supplied.
func DefaultConfig() Config {
	return Config{InsertBlankLines: true}
}

// Outcome is what processing a file amounted to.
type Outcome int

const (
	Rewritten Outcome = iota
	AlreadyOrdered
	ParseFailed
)

func (o Outcome) String() string {
	switch o {
	case Rewritten:
		return "rewritten"
	case AlreadyOrdered:
		return "already ordered"
	case ParseFailed:
		return "parse failed"
	default:
		return "unknown"
	}
}

// Result is the outcome of sorting one file. Text holds the rewritten script
// for Rewritten and the untouched script for AlreadyOrdered.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Engine is the per-file contract implemented by each build-script DSL.
type Engine interface {
	// Rewritten returns the sorted script. It fails with a *ParseError when
	// the script could not be parsed and with ErrAlreadyOrdered when there
	// is nothing to change.
	Rewritten() (string, error)
	// IsSorted reports whether every dependencies block is already ordered.
	// Scripts without dependencies are sorted.
	IsSorted() bool
	HasParseErrors() bool
	// ParseError returns the parse failure, or nil.
	ParseError() *ParseError
	Result() Result
	// Source returns the script as it was read.
	Source() string
}

// Script is the sorted state of one parsed script. It implements Engine and
// is embedded by the DSL-specific engines.
type Script struct {
	source   string
	text     string
	ordered  []bool
	blocks   [][]Declaration
	parseErr *ParseError
}

var _ Engine = (*Script)(nil)

// NewScript sorts a parsed script. messages are the front end's syntax errors;
// when there are any the tree is not walked.
func NewScript(root *syntax.Node, ts *syntax.TokenStream, messages []string, cfg Config) *Script {
	s := &Script{source: ts.Source(), text: ts.Source()}
	if len(messages) > 0 {
		s.parseErr = &ParseError{Messages: messages}
		return s
	}

	c := newCollector(ts, cfg)
	if err := c.walk(root, outside); err != nil {
		s.parseErr = &ParseError{Messages: []string{err.Error()}, Err: err}
		return s
	}

	s.text = c.rewriter.Text()
	s.ordered = c.ordered
	s.blocks = c.collected
	return s
}

// Rewritten implements Engine.
func (s *Script) Rewritten() (string, error) {
	if s.parseErr != nil {
		return "", s.parseErr
	}
	if s.IsSorted() {
		return "", ErrAlreadyOrdered
	}
	return s.text, nil
}

// IsSorted implements Engine.
func (s *Script) IsSorted() bool {
	for _, ok := range s.ordered {
		if !ok {
			return false
		}
	}
	return true
}

// HasParseErrors implements Engine.
func (s *Script) HasParseErrors() bool {
	return s.parseErr != nil
}

// ParseError implements Engine.
func (s *Script) ParseError() *ParseError {
	return s.parseErr
}

// Result implements Engine.
func (s *Script) Result() Result {
	text, err := s.Rewritten()
	switch {
	case err == nil:
		return Result{Outcome: Rewritten, Text: text}
	case errors.Is(err, ErrAlreadyOrdered):
		return Result{Outcome: AlreadyOrdered, Text: s.source}
	default:
		return Result{Outcome: ParseFailed, Err: err}
	}
}

// Source implements Engine.
func (s *Script) Source() string {
	return s.source
}

// Blocks returns the declarations of every dependencies block in source
// order, as they were written.
func (s *Script) Blocks() [][]Declaration {
	return s.blocks
}

// Declarations returns the number of declarations across all blocks.
func (s *Script) Declarations() int {
	n := 0
	for _, b := range s.blocks {
		n += len(b)
	}
	return n
}
