package verify

import "errors"

// ErrNoCGO is returned when syntax verification is unavailable due to
// missing CGO (tree-sitter).
var ErrNoCGO = errors.New("syntax verification requires CGO (tree-sitter)")
