package sorter

import (
	"slices"
	"strings"

	"github.com/tallhamn/sortdeps/internal/syntax"
)

const defaultIndent = "  "

// state is where the tree walk currently is relative to dependencies blocks.
type state int

const (
	outside state = iota
	insideExcluded
	insideDependencies
)

func (s state) String() string {
	switch s {
	case outside:
		return "outside"
	case insideExcluded:
		return "insideExcluded"
	case insideDependencies:
		return "insideDependencies"
	default:
		return "unknown"
	}
}

// collector walks one parsed script, sorts each dependencies block it
// finds and queues the rewritten blocks.
type collector struct {
	ts       *syntax.TokenStream
	cfg      Config
	rewriter *syntax.Rewriter

	indent    string
	indentSet bool

	// consumed marks comment tokens already attached to some output line.
	consumed map[int]bool

	ordered   []bool
	collected [][]Declaration
}

func newCollector(ts *syntax.TokenStream, cfg Config) *collector {
	return &collector{
		ts:       ts,
		cfg:      cfg,
		rewriter: syntax.NewRewriter(ts),
		indent:   defaultIndent,
		consumed: make(map[int]bool),
	}
}

func (c *collector) walk(n *syntax.Node, st state) error {
	switch n.Shape {
	case syntax.ShapeBuildscript:
		for _, child := range n.Children {
			if err := c.walk(child, insideExcluded); err != nil {
				return err
			}
		}
		return nil
	case syntax.ShapeDependencies:
		if st == insideExcluded {
			return nil
		}
		return c.dependencies(n)
	}

	for _, child := range n.Children {
		if err := c.walk(child, st); err != nil {
			return err
		}
	}
	return nil
}

// entry is one line-level item of a dependencies body: a declaration or a
// statement kept as written.
type entry struct {
	comments []string
	text     string
}

// block is the per-block arena: created on entering a dependencies block
// and dropped once the block has been flushed.
type block struct {
	node       *syntax.Node
	outer      string
	header     string
	statements []entry
	decls      []Declaration
	trailing   []string
}

func (c *collector) dependencies(n *syntax.Node) error {
	b := &block{node: n, outer: c.lineIndent(n.Start)}
	b.header = c.headerComment(n)

	for _, child := range n.Children {
		if !child.Shape.IsDeclaration() {
			b.statements = append(b.statements, entry{
				comments: c.precedingComments(child.Start),
				text:     c.verbatim(child),
			})
			continue
		}

		d, err := Classify(c.ts, child)
		if err != nil {
			return err
		}
		d.comments = c.precedingComments(child.Start)
		d.Text = c.verbatim(child)
		d.Start, d.Stop = child.Start, child.Stop
		c.detectIndent(child, b)
		b.decls = append(b.decls, d)
	}

	for _, com := range c.ts.HiddenLeft(n.Stop, syntax.CommentChannel) {
		if !c.consumed[com.Index] {
			c.consumed[com.Index] = true
			b.trailing = append(b.trailing, strings.TrimRight(com.Text, " \t\r"))
		}
	}

	return c.flush(b)
}

// flush sorts a block, records whether its order changed and, if it did,
// queues the replacement text.
func (c *collector) flush(b *block) error {
	c.collected = append(c.collected, b.decls)
	if len(b.decls) == 0 {
		return nil
	}

	inner := b.outer + c.indent
	for i := range b.decls {
		b.decls[i].Comment = reindent(b.decls[i].comments, inner)
	}

	groups := groupByConfiguration(b.decls)
	slices.SortStableFunc(groups, func(x, y []Declaration) int {
		return CompareConfigurations(x[0].Configuration, y[0].Configuration)
	})

	type texts struct{ comment, text string }
	seen := make(map[texts]bool)
	var sorted [][]Declaration
	for _, g := range groups {
		g = slices.Clone(g)
		slices.SortStableFunc(g, CompareDeclarations)
		var kept []Declaration
		for _, d := range g {
			key := texts{d.Comment, d.Text}
			if seen[key] {
				continue
			}
			seen[key] = true
			kept = append(kept, d)
		}
		sorted = append(sorted, kept)
	}

	var flat []Declaration // slices.Concat needs Go 1.22
	for _, g := range sorted {
		flat = append(flat, g...)
	}
	ordered := isSameOrder(b.decls, flat)
	c.ordered = append(c.ordered, ordered)
	if ordered {
		return nil
	}

	return c.rewriter.Replace(b.node.Start, b.node.Stop, c.render(b, sorted))
}

func (c *collector) render(b *block, groups [][]Declaration) string {
	inner := b.outer + c.indent
	var out strings.Builder

	out.WriteString(c.ts.Text(b.node.Start, b.node.Open))
	out.WriteString(b.header)
	out.WriteString("\n")

	writeEntry := func(comment, text string) {
		if comment != "" {
			out.WriteString(comment)
			out.WriteString("\n")
		}
		out.WriteString(inner)
		out.WriteString(text)
		out.WriteString("\n")
	}

	for _, s := range b.statements {
		writeEntry(reindent(s.comments, inner), s.text)
	}
	if len(b.statements) > 0 {
		out.WriteString("\n")
	}

	for i, g := range groups {
		if i != 0 && c.cfg.InsertBlankLines {
			out.WriteString("\n")
		}
		for _, d := range g {
			writeEntry(d.Comment, d.Text)
		}
	}

	for _, t := range b.trailing {
		out.WriteString(inner)
		out.WriteString(t)
		out.WriteString("\n")
	}

	out.WriteString(b.outer)
	out.WriteString("}")

	text := strings.ReplaceAll(out.String(), "\r\n", "\n")
	if sep := c.ts.LineSeparator(); sep != "\n" {
		text = strings.ReplaceAll(text, "\n", sep)
	}
	return text
}

// groupByConfiguration buckets declarations by their raw configuration name,
// keeping the order in which each configuration first appeared.
func groupByConfiguration(decls []Declaration) [][]Declaration {
	index := make(map[string]int)
	var groups [][]Declaration
	for _, d := range decls {
		i, ok := index[d.Configuration]
		if !ok {
			i = len(groups)
			index[d.Configuration] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], d)
	}
	return groups
}

func isSameOrder(before, after []Declaration) bool {
	if len(before) != len(after) {
		return false
	}
	for i := range before {
		if before[i].Text != after[i].Text {
			return false
		}
	}
	return true
}

// verbatim returns the source of n plus any comment that follows it on the
// same line.
func (c *collector) verbatim(n *syntax.Node) string {
	src := c.ts.Source()
	stop := c.ts.Get(n.Stop)
	end := stop.End
	for _, com := range c.ts.HiddenRight(n.Stop, syntax.CommentChannel) {
		if strings.ContainsRune(src[end:com.Start], '\n') {
			break
		}
		c.consumed[com.Index] = true
		end = com.End
	}
	return strings.TrimRight(src[c.ts.Get(n.Start).Start:end], " \t\r")
}

// headerComment returns the comments that share the line of the block's
// opening brace, with their original spacing, when the body starts on a
// later line.
func (c *collector) headerComment(n *syntax.Node) string {
	src := c.ts.Source()
	open := c.ts.Get(n.Open)
	next := c.ts.NextDefault(n.Open)
	if !c.ts.NewlineBetween(n.Open, next) {
		return ""
	}

	end := open.End
	for _, com := range c.ts.HiddenRight(n.Open, syntax.CommentChannel) {
		if strings.ContainsRune(src[open.End:com.Start], '\n') {
			break
		}
		c.consumed[com.Index] = true
		end = com.End
	}
	return strings.TrimRight(src[open.End:end], " \t\r")
}

// precedingComments claims the comments directly above the token at index.
func (c *collector) precedingComments(index int) []string {
	var out []string
	for _, com := range c.ts.HiddenLeft(index, syntax.CommentChannel) {
		if c.consumed[com.Index] {
			continue
		}
		c.consumed[com.Index] = true
		out = append(out, strings.TrimRight(com.Text, " \t\r"))
	}
	return out
}

// reindent puts every comment on its own line at indent. Continuation lines
// of block comments keep their own indentation.
func reindent(comments []string, indent string) string {
	if len(comments) == 0 {
		return ""
	}
	lines := make([]string, len(comments))
	for i, com := range comments {
		lines[i] = indent + com
	}
	return strings.Join(lines, "\n")
}

// detectIndent fixes the indentation unit from the first declaration in the
// file that starts its own line.
func (c *collector) detectIndent(n *syntax.Node, b *block) {
	if c.indentSet || !c.startsLine(n.Start) {
		return
	}
	ws := c.lineIndent(n.Start)
	unit := ws
	if strings.HasPrefix(ws, b.outer) && len(ws) > len(b.outer) {
		unit = ws[len(b.outer):]
	}
	if unit == "" {
		return
	}
	c.indent = unit
	c.indentSet = true
}

// lineIndent returns the leading blanks of the line holding token index.
func (c *collector) lineIndent(index int) string {
	src := c.ts.Source()
	start := strings.LastIndexByte(src[:c.ts.Get(index).Start], '\n') + 1
	end := start
	for end < len(src) && (src[end] == ' ' || src[end] == '\t') {
		end++
	}
	return src[start:end]
}

func (c *collector) startsLine(index int) bool {
	src := c.ts.Source()
	off := c.ts.Get(index).Start
	start := strings.LastIndexByte(src[:off], '\n') + 1
	return strings.Trim(src[start:off], " \t") == ""
}
