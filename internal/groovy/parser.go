// Package groovy is the front end and sort engine for build.gradle scripts
// written in the Groovy DSL.
package groovy

import (
	"github.com/tallhamn/sortdeps/internal/sorter"
	"github.com/tallhamn/sortdeps/internal/syntax"
)

// Dialect is the Groovy lexical grammar.
var Dialect = syntax.Dialect{
	Name:               "groovy",
	SingleQuoteStrings: true,
}

// Words that start statements rather than name a configuration.
var reserved = map[string]bool{
	"def": true, "if": true, "else": true, "for": true, "while": true,
	"switch": true, "return": true, "try": true, "throw": true, "new": true,
	"add": true, "apply": true, "println": true, "print": true, "assert": true,
	"constraints": true, "components": true, "modules": true,
	"configurations": true, "ext": true, "project": true, "platform": true,
	"enforcedPlatform": true, "testFixtures": true, "files": true,
	"fileTree": true, "file": true, "this": true, "super": true,
	"null": true, "true": true, "false": true, "final": true, "static": true,
}

// Parse parses a Groovy build script into a tree and its token stream. The
// messages are the syntax errors found, if any.
func Parse(src string) (*syntax.Node, *syntax.TokenStream, []string) {
	return syntax.Parse(src, Dialect, recognize)
}

// recognize matches the declaration forms of the Groovy DSL:
//
//	conf 'g:a:v'
//	conf('g:a:v')
//	conf group: 'g', name: 'a', version: 'v'
//	conf project(':p')
//	conf platform(...) { closure }
func recognize(ts *syntax.TokenStream, br syntax.Brackets, span syntax.Span) *syntax.Node {
	toks := syntax.Defaults(ts, span)
	if n := len(toks); n > 0 && ts.Get(toks[n-1]).IsPunct(";") {
		toks = toks[:n-1]
	}
	if len(toks) < 2 {
		return nil
	}

	conf := ts.Get(toks[0])
	if conf.Kind != syntax.Ident || reserved[conf.Text] {
		return nil
	}

	// A trailing closure configures the dependency; it is not an argument.
	argsEnd := toks[len(toks)-1]
	if ts.Get(argsEnd).IsPunct("}") {
		open, ok := br.Open(argsEnd)
		if !ok || open == toks[1] {
			return nil
		}
		argsEnd = ts.PrevDefault(open)
	}

	var args []syntax.Span
	second := ts.Get(toks[1])
	switch {
	case second.IsPunct("("):
		from, to, ok := syntax.Inside(ts, br, toks[1])
		if !ok || to+1 != argsEnd {
			return nil
		}
		args = syntax.SplitArgs(ts, br, from, to)
	case second.Kind == syntax.String || second.Kind == syntax.Ident:
		args = syntax.SplitArgs(ts, br, toks[1], argsEnd)
	default:
		return nil
	}

	if len(args) == 0 {
		if _, known := sorter.Resolve(conf.Text); !known {
			return nil
		}
	}
	return syntax.DeclarationNode(ts, br, span, toks[0], args, ":")
}
