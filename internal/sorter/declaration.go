package sorter

import (
	"strings"

	"github.com/tallhamn/sortdeps/internal/syntax"
)

// DeclarationKind is the wrapper a dependency is declared with.
type DeclarationKind int

const (
	Normal DeclarationKind = iota
	Platform
	EnforcedPlatform
	TestFixtures
)

func (k DeclarationKind) String() string {
	switch k {
	case Normal:
		return "normal"
	case Platform:
		return "platform"
	case EnforcedPlatform:
		return "enforcedPlatform"
	case TestFixtures:
		return "testFixtures"
	default:
		return "unknown"
	}
}

// DependencyKind is what a declaration points at.
type DependencyKind int

const (
	External DependencyKind = iota
	Project
	File
)

func (k DependencyKind) String() string {
	switch k {
	case External:
		return "external"
	case Project:
		return "project"
	case File:
		return "file"
	default:
		return "unknown"
	}
}

// Declaration is one dependency statement inside a dependencies block.
type Declaration struct {
	Kind          DeclarationKind
	Dependency    DependencyKind
	Configuration string
	// Identifier is the coordinate, project path, or file reference used
	// for ordering, without surrounding quotes.
	Identifier string
	Quoted     bool
	// Text is the verbatim source of the declaration, including a trailing
	// comment on the same line.
	Text string
	// Comment holds the comment lines directly above the declaration,
	// re-indented. Empty when there are none.
	Comment string
	// Start and Stop are the declaration's token range.
	Start int
	Stop  int

	comments []string
}

func (d Declaration) String() string {
	return d.Text
}

// Classify builds a Declaration from a declaration-shaped node. The
// verbatim text, comment, and token range are left to the caller. It fails
// with a ClassificationError when the node carries no dependency.
func Classify(ts *syntax.TokenStream, n *syntax.Node) (Declaration, error) {
	var d Declaration

	switch n.Shape {
	case syntax.ShapeNormalDeclaration:
		d.Kind = Normal
	case syntax.ShapePlatformDeclaration:
		d.Kind = Platform
	case syntax.ShapeEnforcedPlatformDeclaration:
		d.Kind = EnforcedPlatform
	case syntax.ShapeTestFixturesDeclaration:
		d.Kind = TestFixtures
	default:
		return d, classificationError(ts, n, "not a declaration: "+n.Shape.String())
	}

	conf := n.Child(syntax.ShapeConfiguration)
	if conf == nil {
		return d, classificationError(ts, n, "missing configuration")
	}
	d.Configuration = ts.Text(conf.Start, conf.Stop)

	dep := n.Dependency()
	if dep == nil {
		return d, classificationError(ts, n, "unknown dependency kind")
	}
	switch dep.Shape {
	case syntax.ShapeProjectDependency:
		d.Dependency = Project
	case syntax.ShapeFileDependency:
		d.Dependency = File
	default:
		d.Dependency = External
	}

	if id := dep.Child(syntax.ShapeIdentifier); id != nil {
		d.Identifier = ts.Text(id.Start, id.Stop)
		if id.Start == id.Stop && ts.Get(id.Start).Kind == syntax.String {
			d.Quoted = true
			d.Identifier = syntax.Unquote(d.Identifier)
		}
	}

	return d, nil
}

func classificationError(ts *syntax.TokenStream, n *syntax.Node, reason string) *ClassificationError {
	tok := ts.Get(n.Start)
	return &ClassificationError{
		Line:   tok.Line,
		Text:   strings.TrimSpace(ts.Text(n.Start, n.Stop)),
		Reason: reason,
	}
}
