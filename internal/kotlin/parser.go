// Package kotlin is the front end and sort engine for build.gradle.kts
// scripts written in the Kotlin DSL.
package kotlin

import (
	"strings"

	"github.com/tallhamn/sortdeps/internal/sorter"
	"github.com/tallhamn/sortdeps/internal/syntax"
)

// Dialect is the Kotlin lexical grammar.
var Dialect = syntax.Dialect{
	Name:                "kotlin",
	CharLiterals:        true,
	RawTripleQuotes:     true,
	NestedComments:      true,
	BacktickIdentifiers: true,
}

var reserved = map[string]bool{
	"val": true, "var": true, "fun": true, "if": true, "else": true,
	"when": true, "for": true, "while": true, "do": true, "return": true,
	"try": true, "throw": true, "add": true, "constraints": true,
	"components": true, "modules": true, "println": true, "print": true,
	"project": true, "platform": true, "enforcedPlatform": true,
	"testFixtures": true, "files": true, "fileTree": true, "file": true,
	"extra": true, "apply": true, "configurations": true, "listOf": true,
	"setOf": true, "mapOf": true, "kotlin": true, "this": true,
	"super": true, "null": true, "true": true, "false": true,
	"require": true, "check": true, "error": true, "run": true, "with": true,
}

// Parse parses a Kotlin build script into a tree and its token stream. The
// messages are the syntax errors found, if any.
func Parse(src string) (*syntax.Node, *syntax.TokenStream, []string) {
	return syntax.Parse(src, Dialect, recognize)
}

// recognize matches the declaration forms of the Kotlin DSL:
//
//	conf("g:a:v")
//	conf(libs.foo) { isTransitive = false }
//	conf(project(":p"))
//	conf(platform(...))
//	"custom"("g:a:v")
//	conf(group = "g", name = "a", version = "v")
func recognize(ts *syntax.TokenStream, br syntax.Brackets, span syntax.Span) *syntax.Node {
	toks := syntax.Defaults(ts, span)
	if n := len(toks); n > 0 && ts.Get(toks[n-1]).IsPunct(";") {
		toks = toks[:n-1]
	}
	if len(toks) < 3 || !isConfiguration(ts.Get(toks[0])) || !ts.Get(toks[1]).IsPunct("(") {
		return nil
	}

	from, to, ok := syntax.Inside(ts, br, toks[1])
	if !ok {
		return nil
	}
	last := toks[len(toks)-1]
	if close := to + 1; close != last {
		// Only a trailing lambda may follow the argument list.
		lambda := ts.NextDefault(close)
		if !ts.Get(lambda).IsPunct("{") {
			return nil
		}
		if end, ok := br.Close(lambda); !ok || end != last {
			return nil
		}
	}

	args := syntax.SplitArgs(ts, br, from, to)
	if len(args) == 0 {
		if _, known := sorter.Resolve(ts.Get(toks[0]).Text); !known {
			return nil
		}
	}
	return syntax.DeclarationNode(ts, br, span, toks[0], args, "=")
}

func isConfiguration(tok syntax.Token) bool {
	switch tok.Kind {
	case syntax.Ident:
		return !reserved[tok.Text] && !strings.HasPrefix(tok.Text, "`")
	case syntax.String:
		return tok.Quote() == '"' && !strings.HasPrefix(tok.Text, `"""`) && !strings.Contains(tok.Text, "$")
	}
	return false
}
