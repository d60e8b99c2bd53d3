package syntax

import "fmt"

// Brackets records matched (), [] and {} pairs by token index.
type Brackets struct {
	close map[int]int
	open  map[int]int
}

// Close returns the index of the closer matching the opener at i.
func (b Brackets) Close(i int) (int, bool) {
	j, ok := b.close[i]
	return j, ok
}

// Open returns the index of the opener matching the closer at i.
func (b Brackets) Open(i int) (int, bool) {
	j, ok := b.open[i]
	return j, ok
}

var closerOf = map[string]string{"(": ")", "[": "]", "{": "}"}
var openerOf = map[string]string{")": "(", "]": "[", "}": "{"}

// MatchBrackets pairs every bracket in the stream. Unbalanced brackets are
// reported in the "line L:C ..." form; only matched pairs are recorded.
func MatchBrackets(ts *TokenStream) (Brackets, []string) {
	b := Brackets{close: make(map[int]int), open: make(map[int]int)}
	var stack []int
	var errs []string

	report := func(at Token, format string, args ...any) {
		errs = append(errs, fmt.Sprintf("line %d:%d ", at.Line, at.Col)+fmt.Sprintf(format, args...))
	}

	for i := 0; i < ts.Len(); i++ {
		tok := ts.Get(i)
		if tok.Kind != Punct {
			continue
		}
		if _, ok := closerOf[tok.Text]; ok {
			stack = append(stack, i)
			continue
		}
		want, ok := openerOf[tok.Text]
		if !ok {
			continue
		}

		j := len(stack) - 1
		for j >= 0 && ts.Get(stack[j]).Text != want {
			j--
		}
		switch {
		case len(stack) == 0:
			report(tok, "extraneous input %s expecting <EOF>", tok.Display())
			continue
		case j < 0:
			top := ts.Get(stack[len(stack)-1])
			report(tok, "mismatched input %s expecting '%s'", tok.Display(), closerOf[top.Text])
			continue
		}

		// Openers above j were never closed.
		for k := len(stack) - 1; k > j; k-- {
			report(tok, "missing '%s' at %s", closerOf[ts.Get(stack[k]).Text], tok.Display())
		}
		b.close[stack[j]] = i
		b.open[i] = stack[j]
		stack = stack[:j]
	}

	eof := ts.Get(ts.EOFIndex())
	for k := len(stack) - 1; k >= 0; k-- {
		report(eof, "missing '%s' at %s", closerOf[ts.Get(stack[k]).Text], eof.Display())
	}

	return b, errs
}

// Span is an inclusive range of token indices. Both ends are default-channel
// tokens.
type Span struct {
	Start int
	Stop  int
}

// lineEnders are tokens that, at the end of a line, continue the statement
// onto the next one.
var lineEnders = map[string]bool{
	".": true, "?.": true, ",": true, "=": true, "->": true, "::": true,
	"+": true, "-": true, "*": true, "/": true, "%": true, "**": true,
	"&&": true, "||": true, "?:": true, "?": true, ":": true, "!": true,
	"==": true, "!=": true, "===": true, "!==": true, "<=": true, ">=": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"..": true, "..<": true, "=~": true, "==~": true, "<<": true, "@": true,
}

// lineStarters are tokens that, at the start of a line, continue the
// previous statement.
var lineStarters = map[string]bool{
	".": true, "?.": true, "?:": true, "&&": true, "||": true, "{": true,
	"else": true, "catch": true, "finally": true,
}

var headerKeywords = map[string]bool{"if": true, "for": true, "while": true, "when": true}

// Segment splits the default tokens in from..to into statements. Statements
// end at ';' or at a line break that does not continue the statement.
// Bracket groups are always kept whole.
func Segment(ts *TokenStream, br Brackets, from, to int) []Span {
	var spans []Span
	start := -1

	for i := from; i <= to && i < ts.Len(); i++ {
		tok := ts.Get(i)
		if tok.Channel != DefaultChannel || tok.Kind == EOF {
			continue
		}

		if tok.IsPunct(";") {
			if start >= 0 {
				spans = append(spans, Span{start, i})
				start = -1
			}
			continue
		}
		if start < 0 {
			start = i
		}

		end := i
		if c, ok := br.Close(i); ok && c <= to {
			end = c
		}

		next := ts.NextDefault(end)
		if next > to || ts.Get(next).Kind == EOF {
			spans = append(spans, Span{start, end})
			start = -1
			i = end
			continue
		}
		if ts.NewlineBetween(end, next) && !continues(ts, br, end, next) {
			spans = append(spans, Span{start, end})
			start = -1
		}
		i = end
	}

	return spans
}

func continues(ts *TokenStream, br Brackets, last, next int) bool {
	lt, nt := ts.Get(last), ts.Get(next)
	if lt.Kind == Punct && lineEnders[lt.Text] {
		return true
	}
	if lt.Is(Ident, "else") || lt.Is(Ident, "try") {
		return true
	}
	if (nt.Kind == Punct || nt.Kind == Ident) && lineStarters[nt.Text] {
		return true
	}
	// if (cond)
	//     body
	if lt.IsPunct(")") {
		if o, ok := br.Open(last); ok {
			if kw := ts.PrevDefault(o); kw >= 0 && ts.Get(kw).Kind == Ident && headerKeywords[ts.Get(kw).Text] {
				return true
			}
		}
	}
	return false
}

// SplitArgs splits the default tokens in from..to into comma-separated
// arguments, ignoring commas nested in brackets. An empty range yields nil.
func SplitArgs(ts *TokenStream, br Brackets, from, to int) []Span {
	var args []Span
	start := -1
	last := -1
	for i := from; i <= to; i++ {
		tok := ts.Get(i)
		if tok.Channel != DefaultChannel || tok.Kind == EOF {
			continue
		}
		if tok.IsPunct(",") {
			if start >= 0 {
				args = append(args, Span{start, last})
			}
			start = -1
			continue
		}
		if start < 0 {
			start = i
		}
		last = i
		if c, ok := br.Close(i); ok && c <= to {
			last = c
			i = c
		}
	}
	if start >= 0 {
		args = append(args, Span{start, last})
	}
	return args
}

// Inside returns the default tokens strictly inside the bracket pair opened
// at open as a range suitable for SplitArgs.
func Inside(ts *TokenStream, br Brackets, open int) (from, to int, ok bool) {
	c, ok := br.Close(open)
	if !ok {
		return 0, 0, false
	}
	return open + 1, c - 1, true
}

// Defaults returns the indices of the default-channel tokens in span.
func Defaults(ts *TokenStream, span Span) []int {
	var out []int
	for i := span.Start; i <= span.Stop; i++ {
		if ts.Get(i).Channel == DefaultChannel && ts.Get(i).Kind != EOF {
			out = append(out, i)
		}
	}
	return out
}
