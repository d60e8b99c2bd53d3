// Package verify checks that a sorted build script still says what the
// original said.
package verify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tallhamn/sortdeps/internal/engine"
	"github.com/tallhamn/sortdeps/internal/sorter"
)

// Verify runs the content integrity check and, when available, the
// tree-sitter syntax check. An unavailable syntax check is not a failure.
func Verify(ctx context.Context, lang engine.Language, original, sorted string) error {
	if err := ContentIntegrity(lang, original, sorted); err != nil {
		return fmt.Errorf("content integrity check failed: %w", err)
	}

	if err := Syntax(ctx, lang, original, sorted); err != nil && !errors.Is(err, ErrNoCGO) {
		return fmt.Errorf("syntax verification failed: %w", err)
	}

	return nil
}

// ContentIntegrity checks that every dependencies block holds the same
// distinct (comment, declaration) entries before and after sorting.
func ContentIntegrity(lang engine.Language, original, sorted string) error {
	origBlocks, err := engine.Declarations(lang, original)
	if err != nil {
		return fmt.Errorf("parsing original: %w", err)
	}
	sortedBlocks, err := engine.Declarations(lang, sorted)
	if err != nil {
		return fmt.Errorf("parsing sorted output: %w", err)
	}

	if len(origBlocks) != len(sortedBlocks) {
		return fmt.Errorf("dependencies block count mismatch: original has %d, sorted has %d",
			len(origBlocks), len(sortedBlocks))
	}

	for i := range origBlocks {
		orig := entries(origBlocks[i])
		got := entries(sortedBlocks[i])

		for key := range orig {
			if !got[key] {
				return fmt.Errorf("block %d: declaration %q missing from sorted output", i+1, key.text)
			}
		}
		for key := range got {
			if !orig[key] {
				return fmt.Errorf("block %d: unexpected declaration %q in sorted output", i+1, key.text)
			}
		}
	}

	return nil
}

type entry struct {
	comment string
	text    string
}

// entries returns the distinct declarations of a block. Comments are
// compared without indentation because sorting re-indents them.
func entries(decls []sorter.Declaration) map[entry]bool {
	out := make(map[entry]bool, len(decls))
	for _, d := range decls {
		out[entry{comment: normalizeComment(d), text: d.Text}] = true
	}
	return out
}

func normalizeComment(d sorter.Declaration) string {
	lines := strings.Split(d.Comment, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimLeft(l, " \t")
	}
	return strings.Join(lines, "\n")
}
