package sorter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrAlreadyOrdered is returned by Rewritten when no dependencies block
// needs to change. It signals success with nothing to write.
var ErrAlreadyOrdered = errors.New("dependencies are already ordered")

// ParseError reports every syntax error found in a build script. Err is set
// when the failure came from classification rather than the front end.
type ParseError struct {
	Messages []string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s", strings.Join(e.Messages, "\n"))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ClassificationError is returned when a declaration matches none of the
// known dependency shapes.
type ClassificationError struct {
	Line   int
	Text   string
	Reason string
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("line %d: %s: %s", e.Line, e.Reason, e.Text)
}
