// Package engine picks the sort engine for a build script by its file
// extension.
package engine

import (
	"fmt"
	"strings"

	"github.com/tallhamn/sortdeps/internal/groovy"
	"github.com/tallhamn/sortdeps/internal/kotlin"
	"github.com/tallhamn/sortdeps/internal/sorter"
	"github.com/tallhamn/sortdeps/internal/syntax"
)

// Language is a build-script DSL.
type Language int

const (
	Groovy Language = iota
	Kotlin
)

func (l Language) String() string {
	switch l {
	case Groovy:
		return "groovy"
	case Kotlin:
		return "kotlin"
	default:
		return "unknown"
	}
}

// UnsupportedExtensionError is returned for files that are neither Groovy
// nor Kotlin build scripts.
type UnsupportedExtensionError struct {
	Path string
}

func (e *UnsupportedExtensionError) Error() string {
	return fmt.Sprintf("unsupported file extension: %s", e.Path)
}

// LanguageOf maps a path to its DSL: .gradle is Groovy, .gradle.kts and .kts
// are Kotlin.
func LanguageOf(path string) (Language, error) {
	switch {
	case strings.HasSuffix(path, ".gradle"):
		return Groovy, nil
	case strings.HasSuffix(path, ".kts"):
		return Kotlin, nil
	}
	return 0, &UnsupportedExtensionError{Path: path}
}

// Of reads the script at path and sorts it with the matching engine.
func Of(path string, cfg sorter.Config) (sorter.Engine, error) {
	lang, err := LanguageOf(path)
	if err != nil {
		return nil, err
	}
	if lang == Kotlin {
		e, err := kotlin.Of(path, cfg)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	e, err := groovy.Of(path, cfg)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// OfSource sorts src with the engine for path's extension. The file itself is
// not read.
func OfSource(path, src string, cfg sorter.Config) (sorter.Engine, error) {
	lang, err := LanguageOf(path)
	if err != nil {
		return nil, err
	}
	switch lang {
	case Kotlin:
		return kotlin.OfSource(src, cfg), nil
	default:
		return groovy.OfSource(src, cfg), nil
	}
}

// Parse runs the front end for lang without sorting.
func Parse(lang Language, src string) (*syntax.Node, *syntax.TokenStream, []string) {
	if lang == Kotlin {
		return kotlin.Parse(src)
	}
	return groovy.Parse(src)
}

// Declarations returns the declarations of every dependencies block in src,
// as written. It fails if src does not parse.
func Declarations(lang Language, src string) ([][]sorter.Declaration, error) {
	root, ts, errs := Parse(lang, src)
	script := sorter.NewScript(root, ts, errs, sorter.DefaultConfig())
	if perr := script.ParseError(); perr != nil {
		return nil, perr
	}
	return script.Blocks(), nil
}
