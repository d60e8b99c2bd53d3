// Package syntax is the token and parse-tree facade shared by the build-script
// front ends. A front end lexes a script into a TokenStream that keeps every
// byte of the input (whitespace and comments travel on hidden channels) and
// parses it into a tree of Nodes tagged with a Shape.
package syntax

import "fmt"

// Kind is the lexical class of a token.
type Kind int

const (
	EOF Kind = iota
	Ident
	String
	Number
	Punct
	Whitespace
	Comment
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Ident:
		return "identifier"
	case String:
		return "string"
	case Number:
		return "number"
	case Punct:
		return "punctuation"
	case Whitespace:
		return "whitespace"
	case Comment:
		return "comment"
	default:
		return "unknown"
	}
}

// Channel separates tokens the parser sees from tokens it skips.
type Channel int

const (
	DefaultChannel Channel = iota
	WhitespaceChannel
	CommentChannel
)

// Token is an immutable lexical unit. Start and End are byte offsets into
// the source; Line is 1-based and Col is the 0-based byte column.
type Token struct {
	Kind    Kind
	Channel Channel
	Text    string
	Start   int
	End     int
	Line    int
	Col     int
	Index   int
}

// Is reports whether t is a default-channel token of the given kind and text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Text == text
}

// IsPunct reports whether t is the punctuation text.
func (t Token) IsPunct(text string) bool {
	return t.Is(Punct, text)
}

// Quote returns the opening quote of a string token, or 0.
func (t Token) Quote() byte {
	if t.Kind != String || t.Text == "" {
		return 0
	}
	return t.Text[0]
}

// Unquoted strips one pair of surrounding quotes (single, double, or tripled)
// from a string token. Other tokens are returned as-is.
func (t Token) Unquoted() string {
	if t.Kind != String {
		return t.Text
	}
	return Unquote(t.Text)
}

// Unquote strips one pair of surrounding quote characters from s.
func Unquote(s string) string {
	for _, q := range []string{`"""`, `'''`, `"`, `'`} {
		if len(s) >= 2*len(q) && s[:len(q)] == q && s[len(s)-len(q):] == q {
			return s[len(q) : len(s)-len(q)]
		}
	}
	return s
}

// Display renders the token the way syntax errors quote it.
func (t Token) Display() string {
	if t.Kind == EOF {
		return "'<EOF>'"
	}
	return fmt.Sprintf("'%s'", t.Text)
}
