//go:build cgo

package verify

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/groovy"
	"github.com/smacker/go-tree-sitter/kotlin"

	"github.com/tallhamn/sortdeps/internal/engine"
)

// IsAvailable reports whether tree-sitter syntax verification is compiled in.
func IsAvailable() bool {
	return true
}

// Syntax parses both versions of a script with the tree-sitter grammar for
// lang. It fails when the sorted version has more error nodes than the
// original.
func Syntax(ctx context.Context, lang engine.Language, original, sorted string) error {
	before, err := errorNodes(ctx, lang, original)
	if err != nil {
		return fmt.Errorf("parsing original: %w", err)
	}
	after, err := errorNodes(ctx, lang, sorted)
	if err != nil {
		return fmt.Errorf("parsing sorted output: %w", err)
	}
	if after > before {
		return fmt.Errorf("sorted output has %d syntax errors, original has %d", after, before)
	}
	return nil
}

func errorNodes(ctx context.Context, lang engine.Language, src string) (int, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(language(lang))

	tree, err := parser.ParseCtx(ctx, nil, []byte(src))
	if err != nil {
		return 0, fmt.Errorf("parse error: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return 0, nil
	}

	count := 0
	var walk func(node *sitter.Node)
	walk = func(node *sitter.Node) {
		if node.Type() == "ERROR" || node.IsMissing() {
			count++
		}
		for i := uint32(0); i < node.ChildCount(); i++ {
			if child := node.Child(int(i)); child != nil {
				walk(child)
			}
		}
	}
	walk(root)
	return count, nil
}

func language(lang engine.Language) *sitter.Language {
	if lang == engine.Kotlin {
		return kotlin.GetLanguage()
	}
	return groovy.GetLanguage()
}
