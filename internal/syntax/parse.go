package syntax

// Recognizer inspects one statement of a dependencies body and returns a
// declaration node for it, or nil when the statement is something else.
type Recognizer func(ts *TokenStream, br Brackets, span Span) *Node

// Parse lexes src in the given dialect and builds the statement tree. The
// returned messages hold every lexical and bracket error; the tree is built
// regardless but should not be trusted when there are any.
func Parse(src string, d Dialect, recognize Recognizer) (*Node, *TokenStream, []string) {
	tokens, errs := Lex(src, d)
	ts := NewTokenStream(src, tokens)
	br, bracketErrs := MatchBrackets(ts)
	errs = append(errs, bracketErrs...)

	b := &builder{ts: ts, br: br, recognize: recognize}
	root := NewNode(ShapeScript, 0, ts.EOFIndex())
	root.Children = b.statements(0, ts.EOFIndex()-1, false)
	return root, ts, errs
}

type builder struct {
	ts        *TokenStream
	br        Brackets
	recognize Recognizer
}

func (b *builder) statements(from, to int, inDependencies bool) []*Node {
	var nodes []*Node
	for _, span := range Segment(b.ts, b.br, from, to) {
		nodes = append(nodes, b.statement(span, inDependencies))
	}
	return nodes
}

func (b *builder) statement(span Span, inDependencies bool) *Node {
	if inDependencies && b.recognize != nil {
		if n := b.recognize(b.ts, b.br, span); n != nil {
			return n
		}
	}

	last := span.Stop
	if b.ts.Get(last).IsPunct(";") {
		last = b.ts.PrevDefault(last)
	}

	if b.ts.Get(last).IsPunct("}") && b.ts.Get(span.Start).Kind == Ident {
		if open, ok := b.br.Open(last); ok && open > span.Start {
			return b.block(span, open, last)
		}
	}

	n := NewNode(ShapeStatement, span.Start, span.Stop)
	n.Children = b.braceGroups(span.Start, span.Stop)
	return n
}

// block builds a `name [(args)] { body }` statement. A bare `dependencies` or
// `buildscript` name gets its own shape.
func (b *builder) block(span Span, open, close int) *Node {
	shape := ShapeBlock
	if b.ts.PrevDefault(open) == span.Start {
		switch b.ts.Get(span.Start).Text {
		case "dependencies":
			shape = ShapeDependencies
		case "buildscript":
			shape = ShapeBuildscript
		}
	}

	n := &Node{Shape: shape, Start: span.Start, Stop: close, Open: open}
	if shape != ShapeDependencies {
		// Brace groups in the head, such as a lambda argument.
		n.Children = b.braceGroups(span.Start, open-1)
	}
	n.Children = append(n.Children, b.statements(open+1, close-1, shape == ShapeDependencies)...)
	return n
}

// braceGroups returns a Block node for every outermost {...} in from..to.
func (b *builder) braceGroups(from, to int) []*Node {
	var nodes []*Node
	for i := from; i <= to; i++ {
		if !b.ts.Get(i).IsPunct("{") {
			continue
		}
		close, ok := b.br.Close(i)
		if !ok || close > to {
			continue
		}
		n := &Node{Shape: ShapeBlock, Start: i, Stop: close, Open: i}
		n.Children = b.statements(i+1, close-1, false)
		nodes = append(nodes, n)
		i = close
	}
	return nodes
}
