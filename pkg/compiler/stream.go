package compiler

import (
	"fmt"
	"strings"
)

// TokenStream is a cursor over the tokens of one source file. The sequence
// is never empty and always ends in a single EOF token, so Current is
// always valid. Tokens themselves are never modified.
type TokenStream struct {
	tokens []Token
	pos    int
	lines  []string // raw source lines, for diagnostics
}

// newTokenStream wraps tokens, which must already end in EOF.
func newTokenStream(tokens []Token, lines []string) *TokenStream {
	return &TokenStream{tokens: tokens, lines: lines}
}

// NewTokenStream builds a stream from a hand-made token slice. It fails
// unless tokens ends with exactly one EOF token.
func NewTokenStream(tokens []Token) (*TokenStream, error) {
	if len(tokens) == 0 {
		return nil, fmt.Errorf("token stream: no tokens")
	}
	for i, tok := range tokens {
		last := i == len(tokens)-1
		if (tok.Type == EOF) != last {
			return nil, fmt.Errorf("token stream: EOF must appear exactly once, as the last token (index %d)", i)
		}
	}
	own := make([]Token, len(tokens))
	copy(own, tokens)
	return newTokenStream(own, nil), nil
}

// Current returns the token under the cursor.
func (s *TokenStream) Current() Token { return s.tokens[s.pos] }

// Peek returns the token offset positions after the cursor, clamped to EOF.
func (s *TokenStream) Peek(offset int) Token {
	i := s.pos + offset
	if i < 0 {
		i = 0
	}
	if i >= len(s.tokens) {
		i = len(s.tokens) - 1
	}
	return s.tokens[i]
}

// Pos returns the 0-based cursor position.
func (s *TokenStream) Pos() int { return s.pos }

// Len returns the number of tokens, EOF included.
func (s *TokenStream) Len() int { return len(s.tokens) }

// Advance moves the cursor forward one token. It returns false and leaves
// the cursor alone when already on the last token.
func (s *TokenStream) Advance() bool {
	if s.pos >= len(s.tokens)-1 {
		return false
	}
	s.pos++
	return true
}

// Retreat moves the cursor back n tokens. It is all-or-nothing: when n is
// negative or the move would pass index 0, it returns false and the cursor
// does not move.
func (s *TokenStream) Retreat(n int) bool {
	if n < 0 || s.pos-n < 0 {
		return false
	}
	s.pos -= n
	return true
}

// SetPos jumps to an absolute index, typically a checkpoint taken with Pos.
func (s *TokenStream) SetPos(i int) bool {
	if i < 0 || i >= len(s.tokens) {
		return false
	}
	s.pos = i
	return true
}

// Tokens returns a copy of the whole token sequence.
func (s *TokenStream) Tokens() []Token {
	out := make([]Token, len(s.tokens))
	copy(out, s.tokens)
	return out
}

// SourceLine returns the trimmed text of the 1-based source line, or "" when
// the stream was not built from source.
func (s *TokenStream) SourceLine(line int) string {
	return snippetAt(s.lines, line)
}

func (s *TokenStream) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tokens (%d)\n", len(s.tokens))
	for i, tok := range s.tokens {
		marker := " "
		if i == s.pos {
			marker = ">"
		}
		fmt.Fprintf(&sb, "%s %4d  %s\n", marker, i, tok)
	}
	return sb.String()
}

// tokenAt returns the token at absolute index i, clamped to the stream.
func (s *TokenStream) tokenAt(i int) Token {
	return s.Peek(i - s.pos)
}
