package syntax

import "strings"

// TokenStream is the full token sequence of one script, hidden tokens
// included. The last token is always EOF.
type TokenStream struct {
	src    string
	tokens []Token
}

// NewTokenStream wraps lexed tokens. Token indices are (re)assigned so that
// tokens[i].Index == i.
func NewTokenStream(src string, tokens []Token) *TokenStream {
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != EOF {
		line, col := position(src, len(src))
		tokens = append(tokens, Token{Kind: EOF, Start: len(src), End: len(src), Line: line, Col: col})
	}
	for i := range tokens {
		tokens[i].Index = i
	}
	return &TokenStream{src: src, tokens: tokens}
}

// Source returns the text the stream was lexed from.
func (s *TokenStream) Source() string { return s.src }

// Len returns the number of tokens, EOF included.
func (s *TokenStream) Len() int { return len(s.tokens) }

// Get returns the token at index i.
func (s *TokenStream) Get(i int) Token { return s.tokens[i] }

// EOFIndex returns the index of the trailing EOF token.
func (s *TokenStream) EOFIndex() int { return len(s.tokens) - 1 }

// Text returns the verbatim source covered by tokens start..stop inclusive,
// including any hidden tokens between them.
func (s *TokenStream) Text(start, stop int) string {
	if start > stop {
		return ""
	}
	return s.src[s.tokens[start].Start:s.tokens[stop].End]
}

// Between returns the verbatim source strictly between two tokens.
func (s *TokenStream) Between(left, right int) string {
	return s.src[s.tokens[left].End:s.tokens[right].Start]
}

// PrevDefault returns the index of the closest default-channel token before
// index, or -1.
func (s *TokenStream) PrevDefault(index int) int {
	for i := index - 1; i >= 0; i-- {
		if s.tokens[i].Channel == DefaultChannel {
			return i
		}
	}
	return -1
}

// NextDefault returns the index of the closest default-channel token after
// index. EOF is on the default channel, so the result is always valid for
// index < EOFIndex().
func (s *TokenStream) NextDefault(index int) int {
	for i := index + 1; i < len(s.tokens); i++ {
		if s.tokens[i].Channel == DefaultChannel {
			return i
		}
	}
	return len(s.tokens) - 1
}

// HiddenLeft returns the tokens on channel ch that sit between the previous
// default-channel token and index, in source order. It returns nil when
// there are none.
func (s *TokenStream) HiddenLeft(index int, ch Channel) []Token {
	var out []Token
	for i := s.PrevDefault(index) + 1; i < index; i++ {
		if s.tokens[i].Channel == ch {
			out = append(out, s.tokens[i])
		}
	}
	return out
}

// HiddenRight returns the tokens on channel ch between index and the next
// default-channel token.
func (s *TokenStream) HiddenRight(index int, ch Channel) []Token {
	var out []Token
	for i := index + 1; i < len(s.tokens) && s.tokens[i].Channel != DefaultChannel; i++ {
		if s.tokens[i].Channel == ch {
			out = append(out, s.tokens[i])
		}
	}
	return out
}

// NewlineBetween reports whether a line break separates two tokens.
func (s *TokenStream) NewlineBetween(left, right int) bool {
	return strings.ContainsRune(s.Between(left, right), '\n')
}

// LineSeparator returns "\r\n" when the source uses Windows line endings and
// "\n" otherwise.
func (s *TokenStream) LineSeparator() string {
	i := strings.IndexByte(s.src, '\n')
	if i > 0 && s.src[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}

func position(src string, offset int) (line, col int) {
	line = 1 + strings.Count(src[:offset], "\n")
	col = offset - (strings.LastIndexByte(src[:offset], '\n') + 1)
	return line, col
}
