package syntax

// Helpers shared by the front ends for the parts of a declaration that both
// DSLs spell the same way: wrapper calls, project and file references, and
// named arguments.

var wrapperShapes = map[string]Shape{
	"platform":         ShapePlatformDeclaration,
	"enforcedPlatform": ShapeEnforcedPlatformDeclaration,
	"testFixtures":     ShapeTestFixturesDeclaration,
}

// Call reports whether span is exactly `name(...)`, returning the name and
// the index of the opening parenthesis.
func Call(ts *TokenStream, br Brackets, span Span) (string, int, bool) {
	toks := Defaults(ts, span)
	if len(toks) < 3 || ts.Get(toks[0]).Kind != Ident || !ts.Get(toks[1]).IsPunct("(") {
		return "", 0, false
	}
	if c, ok := br.Close(toks[1]); !ok || c != span.Stop {
		return "", 0, false
	}
	return ts.Get(toks[0]).Text, toks[1], true
}

// Named splits a `name: value` (sep ":") or `name = value` (sep "=")
// argument.
func Named(ts *TokenStream, arg Span, sep string) (string, Span, bool) {
	toks := Defaults(ts, arg)
	if len(toks) < 3 || !ts.Get(toks[1]).IsPunct(sep) {
		return "", Span{}, false
	}
	name := ts.Get(toks[0])
	if name.Kind != Ident && name.Kind != String {
		return "", Span{}, false
	}
	return name.Unquoted(), Span{toks[2], arg.Stop}, true
}

func callArgs(ts *TokenStream, br Brackets, open int) []Span {
	from, to, ok := Inside(ts, br, open)
	if !ok {
		return nil
	}
	return SplitArgs(ts, br, from, to)
}

// namedOrFirst returns the value of the argument called key, else the first
// argument (or its value when it is itself named).
func namedOrFirst(ts *TokenStream, args []Span, key, sep string) Span {
	for _, a := range args {
		if name, value, ok := Named(ts, a, sep); ok && name == key {
			return value
		}
	}
	if _, value, ok := Named(ts, args[0], sep); ok {
		return value
	}
	return args[0]
}

// DeclarationNode builds the node for a declaration whose configuration
// token is at conf and whose arguments are args. A platform(...),
// enforcedPlatform(...) or testFixtures(...) wrapper around the first
// argument selects the declaration shape. When no dependency can be found
// the node has no dependency child.
func DeclarationNode(ts *TokenStream, br Brackets, span Span, conf int, args []Span, sep string) *Node {
	shape := ShapeNormalDeclaration
	if len(args) > 0 {
		if name, open, ok := Call(ts, br, args[0]); ok {
			if s, wrapped := wrapperShapes[name]; wrapped {
				shape = s
				args = callArgs(ts, br, open)
			}
		}
	}

	n := NewNode(shape, span.Start, span.Stop, NewNode(ShapeConfiguration, conf, conf))
	if dep := DependencyNode(ts, br, args, sep); dep != nil {
		n.Children = append(n.Children, dep)
	}
	return n
}

// DependencyNode classifies the arguments of a declaration as a project,
// file, or external dependency. It returns nil when args is empty or a
// project or file reference has no argument.
func DependencyNode(ts *TokenStream, br Brackets, args []Span, sep string) *Node {
	if len(args) == 0 {
		return nil
	}
	first := args[0]

	withIdentifier := func(shape Shape, dep, id Span) *Node {
		return NewNode(shape, dep.Start, dep.Stop, NewNode(ShapeIdentifier, id.Start, id.Stop))
	}

	if name, open, ok := Call(ts, br, first); ok {
		switch name {
		case "project":
			inner := callArgs(ts, br, open)
			if len(inner) == 0 {
				return nil
			}
			return withIdentifier(ShapeProjectDependency, first, namedOrFirst(ts, inner, "path", sep))
		case "files", "fileTree", "file":
			inner := callArgs(ts, br, open)
			if len(inner) == 0 {
				return nil
			}
			return withIdentifier(ShapeFileDependency, first, namedOrFirst(ts, inner, "dir", sep))
		}
	}

	toks := Defaults(ts, first)
	if len(toks) > 2 && ts.Get(toks[0]).Is(Ident, "projects") && ts.Get(toks[1]).IsPunct(".") {
		return withIdentifier(ShapeProjectDependency, first, first)
	}

	// Map notation: group: 'g', name: 'n', version: 'v'.
	if _, _, ok := Named(ts, first, sep); ok {
		all := Span{first.Start, args[len(args)-1].Stop}
		return withIdentifier(ShapeExternalDependency, all, all)
	}

	return withIdentifier(ShapeExternalDependency, first, first)
}
