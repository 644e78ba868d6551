package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	IDENTIFIER // variable / function name
	INTEGER    // decimal integer literal
	SYMBOL     // single-character operator or punctuation

	// Keywords
	INT    // "int"
	RETURN // "return"
)

var tokenNames = [...]string{
	EOF:        "EOF",
	IDENTIFIER: "IDENTIFIER",
	INTEGER:    "INTEGER",
	SYMBOL:     "SYMBOL",
	INT:        "INT",
	RETURN:     "RETURN",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Value  int32  // numeric value, only meaningful for INTEGER
	Line   int    // 1-based source line
}

// Is reports whether t is the symbol token sym.
func (t Token) Is(sym string) bool {
	return t.Type == SYMBOL && t.Lexeme == sym
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
