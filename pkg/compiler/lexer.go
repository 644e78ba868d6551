package compiler

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// maxLineBytes bounds a single source line.
const maxLineBytes = 1 << 20

// keywords maps source text to its keyword TokenType.
var keywords = map[string]TokenType{
	"int":    INT,
	"return": RETURN,
}

// symbols lists every single-character symbol except '/', which needs
// lookahead to tell division from a comment opener.
const symbols = "+-*=;,(){}"

// Lexer holds all mutable state for a single line-by-line scan.
type Lexer struct {
	src  []rune // current line
	pos  int    // index of the next rune to consume in src
	line int    // current 1-based source line

	inComment   bool
	commentLine int // line where the open block comment started

	lines  []string
	tokens []Token
}

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

// peek2 returns the rune one position ahead of the current position.
func (l *Lexer) peek2() rune {
	if l.pos+1 >= len(l.src) {
		return 0
	}
	return l.src[l.pos+1]
}

func (l *Lexer) emit(tt TokenType, lexeme string) {
	l.tokens = append(l.tokens, Token{Type: tt, Lexeme: lexeme, Line: l.line})
}

func (l *Lexer) errorf(line int, format string, args ...any) error {
	return &Error{
		Kind:    ErrLex,
		Line:    line,
		Msg:     fmt.Sprintf(format, args...),
		Snippet: snippetAt(l.lines, line),
	}
}

// skipBlockComment consumes the current line up to and including "*/".
// If the terminator is not on this line the comment stays open and the
// rest of the line is discarded.
func (l *Lexer) skipBlockComment() {
	for l.pos < len(l.src) {
		if l.peek() == '*' && l.peek2() == '/' {
			l.pos += 2
			l.inComment = false
			return
		}
		l.pos++
	}
}

func isLetter(r rune) bool { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }

// scanIdent collects an identifier or keyword. The first letter must still
// be at l.peek().
func (l *Lexer) scanIdent() {
	start := l.pos
	for l.pos < len(l.src) && (isLetter(l.peek()) || isDigit(l.peek())) {
		l.pos++
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	if kw, ok := keywords[lexeme]; ok {
		tt = kw
	}
	l.emit(tt, lexeme)
}

// scanInt collects a run of decimal digits. A leading 0 does not switch base.
func (l *Lexer) scanInt() error {
	start := l.pos
	for l.pos < len(l.src) && isDigit(l.peek()) {
		l.pos++
	}
	lexeme := string(l.src[start:l.pos])
	val, err := strconv.ParseInt(lexeme, 10, 32)
	if err != nil {
		return l.errorf(l.line, "integer literal %s out of 32-bit range", lexeme)
	}
	l.tokens = append(l.tokens, Token{Type: INTEGER, Lexeme: lexeme, Value: int32(val), Line: l.line})
	return nil
}

// scanLine tokenises one source line.
func (l *Lexer) scanLine(text string) error {
	l.src = []rune(text)
	l.pos = 0

	for l.pos < len(l.src) {
		if l.inComment {
			l.skipBlockComment()
			continue
		}

		ch := l.peek()
		switch {
		case unicode.IsSpace(ch):
			l.pos++
		case ch == '/' && l.peek2() == '/':
			return nil
		case ch == '/' && l.peek2() == '*':
			l.pos += 2
			l.inComment = true
			l.commentLine = l.line
		case isLetter(ch):
			l.scanIdent()
		case isDigit(ch):
			if err := l.scanInt(); err != nil {
				return err
			}
		case ch == '/' || strings.ContainsRune(symbols, ch):
			l.pos++
			l.emit(SYMBOL, string(ch))
		default:
			return l.errorf(l.line, "unexpected character %q", ch)
		}
	}
	return nil
}

// LexReader tokenises DummyC source read line by line from r. The returned
// stream always ends with exactly one EOF token. No stream is returned on
// error.
func LexReader(r io.Reader) (*TokenStream, error) {
	l := &Lexer{}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineBytes)

	for sc.Scan() {
		l.line++
		text := sc.Text()
		l.lines = append(l.lines, text)
		if err := l.scanLine(text); err != nil {
			return nil, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read source: %w", err)
	}
	if l.inComment {
		return nil, l.errorf(l.commentLine, "unterminated block comment")
	}

	l.tokens = append(l.tokens, Token{Type: EOF, Line: max(l.line, 1)})
	return newTokenStream(l.tokens, l.lines), nil
}

// Lex tokenises src. See LexReader.
func Lex(src string) (*TokenStream, error) {
	return LexReader(strings.NewReader(src))
}

// LexFile opens path and tokenises its contents.
func LexFile(path string) (*TokenStream, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()
	return LexReader(f)
}
