package syntax

import (
	"fmt"
	"slices"
	"strings"
)

// Rewriter queues replacements of token ranges and renders the patched
// source on demand. The token stream itself is never modified, so every
// replacement is addressed by original token indices.
type Rewriter struct {
	ts    *TokenStream
	edits []replacement
}

type replacement struct {
	start, stop int
	text        string
}

// NewRewriter returns an empty patch set over ts.
func NewRewriter(ts *TokenStream) *Rewriter {
	return &Rewriter{ts: ts}
}

// Replace queues text in place of tokens start..stop inclusive. Replacing the
// exact same range again overwrites the earlier edit; any other overlap is
// an error.
func (r *Rewriter) Replace(start, stop int, text string) error {
	if start < 0 || stop >= r.ts.Len() || start > stop {
		return fmt.Errorf("replace range %d..%d out of bounds", start, stop)
	}
	for i, e := range r.edits {
		if e.start == start && e.stop == stop {
			r.edits[i].text = text
			return nil
		}
		if start <= e.stop && e.start <= stop {
			return fmt.Errorf("replace range %d..%d overlaps %d..%d", start, stop, e.start, e.stop)
		}
	}
	r.edits = append(r.edits, replacement{start: start, stop: stop, text: text})
	return nil
}

// Len returns the number of queued replacements.
func (r *Rewriter) Len() int { return len(r.edits) }

// Text renders the source with every queued replacement applied.
func (r *Rewriter) Text() string {
	src := r.ts.Source()
	if len(r.edits) == 0 {
		return src
	}

	edits := slices.Clone(r.edits)
	slices.SortFunc(edits, func(a, b replacement) int { return a.start - b.start })

	var out strings.Builder
	out.Grow(len(src))
	pos := 0
	for _, e := range edits {
		from := r.ts.Get(e.start).Start
		to := r.ts.Get(e.stop).End
		out.WriteString(src[pos:from])
		out.WriteString(e.text)
		pos = to
	}
	out.WriteString(src[pos:])
	return out.String()
}
