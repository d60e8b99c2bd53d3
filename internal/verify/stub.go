//go:build !cgo

package verify

import (
	"context"

	"github.com/tallhamn/sortdeps/internal/engine"
)

// IsAvailable reports whether tree-sitter syntax verification is compiled in.
// Returns false when CGO is disabled.
func IsAvailable() bool {
	return false
}

// Syntax is unavailable without CGO and always returns ErrNoCGO.
func Syntax(ctx context.Context, lang engine.Language, original, sorted string) error {
	return ErrNoCGO
}
