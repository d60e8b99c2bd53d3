package syntax

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Dialect tunes the lexer to one build-script language.
type Dialect struct {
	Name string
	// SingleQuoteStrings enables '...' and '''...''' string literals.
	SingleQuoteStrings bool
	// CharLiterals enables 'c' character literals.
	CharLiterals bool
	// RawTripleQuotes disables backslash escapes inside """...""".
	RawTripleQuotes bool
	// NestedComments lets /* ... */ nest.
	NestedComments bool
	// BacktickIdentifiers enables `quoted identifiers`.
	BacktickIdentifiers bool
}

// Lex splits src into tokens. Every byte of src is covered by exactly one
// token, so concatenating the token texts reproduces the input. Lexical
// errors are returned as messages; lexing always runs to the end.
func Lex(src string, d Dialect) ([]Token, []string) {
	l := &lexer{src: src, d: d, line: 1}
	l.run()
	return l.tokens, l.errors
}

type lexer struct {
	src       string
	d         Dialect
	pos       int
	line      int
	lineStart int
	tokens    []Token
	errors    []string
}

const bom = "\uFEFF"

var operators = []string{
	"==~", "===", "!==", "..<", "<=>",
	"?.", "?:", "->", "::", "==", "!=", "<=", ">=", "&&", "||", "..",
	"+=", "-=", "*=", "/=", "%=", "!!", "++", "--", "**", "=~", "<<",
}

func (l *lexer) atEnd() bool {
	return l.pos >= len(l.src)
}

func (l *lexer) peek() byte {
	if l.atEnd() {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(offset int) byte {
	i := l.pos + offset
	if i >= len(l.src) {
		return 0
	}
	return l.src[i]
}

func (l *lexer) hasPrefix(s string) bool {
	return strings.HasPrefix(l.src[l.pos:], s)
}

func (l *lexer) run() {
	if l.hasPrefix(bom) {
		l.pos += len(bom)
		l.emit(Whitespace, WhitespaceChannel, 0)
	}

	for !l.atEnd() {
		start := l.pos
		c := l.peek()

		switch {
		case isSpace(c):
			for !l.atEnd() && isSpace(l.peek()) {
				l.pos++
			}
			l.emit(Whitespace, WhitespaceChannel, start)

		case c == '/' && l.peekAt(1) == '/',
			start == 0 && c == '#' && l.peekAt(1) == '!':
			l.skipToEndOfLine()
			l.emit(Comment, CommentChannel, start)

		case c == '/' && l.peekAt(1) == '*':
			if !l.skipBlockComment() {
				l.errorAt(start, "unterminated comment")
			}
			l.emit(Comment, CommentChannel, start)

		case c == '"' || (c == '\'' && (l.d.SingleQuoteStrings || l.d.CharLiterals)):
			if !l.skipString() {
				l.errorAt(start, "unterminated string literal")
			}
			l.emit(String, DefaultChannel, start)

		case c == '`' && l.d.BacktickIdentifiers:
			l.pos++
			for !l.atEnd() && l.peek() != '`' && l.peek() != '\n' {
				l.pos++
			}
			if l.peek() != '`' {
				l.errorAt(start, "unterminated quoted identifier")
			} else {
				l.pos++
			}
			l.emit(Ident, DefaultChannel, start)

		case isDigit(c):
			l.skipNumber()
			l.emit(Number, DefaultChannel, start)

		default:
			r, size := utf8.DecodeRuneInString(l.src[l.pos:])
			if isIdentStart(r) {
				l.skipIdent()
				l.emit(Ident, DefaultChannel, start)
				continue
			}
			if op := l.matchOperator(); op != "" {
				l.pos += len(op)
			} else {
				l.pos += size
			}
			l.emit(Punct, DefaultChannel, start)
		}
	}

	l.emit(EOF, DefaultChannel, l.pos)
}

func (l *lexer) emit(kind Kind, ch Channel, start int) {
	if l.pos > len(l.src) {
		l.pos = len(l.src)
	}
	text := l.src[start:l.pos]
	l.tokens = append(l.tokens, Token{
		Kind:    kind,
		Channel: ch,
		Text:    text,
		Start:   start,
		End:     l.pos,
		Line:    l.line,
		Col:     start - l.lineStart,
		Index:   len(l.tokens),
	})
	if n := strings.Count(text, "\n"); n > 0 {
		l.line += n
		l.lineStart = start + strings.LastIndexByte(text, '\n') + 1
	}
}

func (l *lexer) errorAt(offset int, msg string) {
	line, col := position(l.src, offset)
	l.errors = append(l.errors, fmt.Sprintf("line %d:%d %s", line, col, msg))
}

// skipToEndOfLine stops before the newline so it stays on the whitespace
// channel.
func (l *lexer) skipToEndOfLine() {
	for !l.atEnd() && l.peek() != '\n' {
		l.pos++
	}
	if l.pos > 0 && l.src[l.pos-1] == '\r' && !l.atEnd() {
		l.pos--
	}
}

func (l *lexer) skipBlockComment() bool {
	l.pos += 2 // skip /*
	depth := 1
	for !l.atEnd() {
		if l.peek() == '*' && l.peekAt(1) == '/' {
			l.pos += 2
			depth--
			if depth == 0 {
				return true
			}
			continue
		}
		if l.d.NestedComments && l.peek() == '/' && l.peekAt(1) == '*' {
			l.pos += 2
			depth++
			continue
		}
		l.pos++
	}
	return false
}

// skipString consumes a string literal starting at the current quote.
func (l *lexer) skipString() bool {
	quote := l.peek()
	triple := strings.Repeat(string(quote), 3)

	if l.hasPrefix(triple) && (quote == '"' || l.d.SingleQuoteStrings) {
		l.pos += 3
		for !l.atEnd() {
			if l.hasPrefix(triple) {
				l.pos += 3
				// A raw string may end in extra quotes: the last three close it.
				for !l.atEnd() && l.peek() == quote {
					l.pos++
				}
				return true
			}
			if quote == '"' && l.hasPrefix("${") {
				if !l.skipTemplate() {
					return false
				}
				continue
			}
			if l.peek() == '\\' && !l.d.RawTripleQuotes {
				l.pos += 2
				continue
			}
			l.pos++
		}
		return false
	}

	l.pos++ // opening quote
	for !l.atEnd() {
		c := l.peek()
		switch {
		case c == '\n':
			return false
		case c == '\\':
			l.pos += 2
		case c == quote:
			l.pos++
			return true
		case quote == '"' && l.hasPrefix("${"):
			if !l.skipTemplate() {
				return false
			}
		default:
			l.pos++
		}
	}
	return false
}

// skipTemplate consumes a ${ ... } interpolation, which may contain nested
// strings and braces.
func (l *lexer) skipTemplate() bool {
	l.pos += 2
	depth := 1
	for !l.atEnd() {
		c := l.peek()
		switch {
		case c == '"' || (c == '\'' && (l.d.SingleQuoteStrings || l.d.CharLiterals)):
			if !l.skipString() {
				return false
			}
		case c == '{':
			depth++
			l.pos++
		case c == '}':
			depth--
			l.pos++
			if depth == 0 {
				return true
			}
		default:
			l.pos++
		}
	}
	return false
}

func (l *lexer) skipIdent() {
	for !l.atEnd() {
		r, size := utf8.DecodeRuneInString(l.src[l.pos:])
		if !isIdentPart(r) {
			return
		}
		l.pos += size
	}
}

func (l *lexer) skipNumber() {
	for !l.atEnd() {
		c := l.peek()
		if isDigit(c) || isLetter(c) || c == '_' || (c == '.' && isDigit(l.peekAt(1))) {
			l.pos++
			continue
		}
		return
	}
}

func (l *lexer) matchOperator() string {
	for _, op := range operators {
		if l.hasPrefix(op) {
			return op
		}
	}
	return ""
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}
