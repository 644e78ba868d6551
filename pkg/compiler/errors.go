package compiler

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrLex marks an illegal character or malformed literal in the source.
	ErrLex = errors.New("lex error")
	// ErrParse marks a syntactically or semantically invalid program.
	ErrParse = errors.New("parse error")
	// ErrEmptyUnit is returned when a translation unit holds nothing to lower.
	ErrEmptyUnit = errors.New("translation unit is empty")
)

// Error is a diagnostic tied to a source line. Kind is ErrLex or ErrParse,
// so callers can test it with errors.Is.
type Error struct {
	Kind    error
	Line    int
	Msg     string
	Snippet string // trimmed source line, empty when unavailable
}

func (e *Error) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "line %d: %s", e.Line, e.Msg)
	if e.Snippet != "" {
		fmt.Fprintf(&sb, "\n  |> %s", e.Snippet)
	}
	return sb.String()
}

func (e *Error) Unwrap() error { return e.Kind }

// snippetAt returns the trimmed text of the 1-based line, or "" when it is out of range.
func snippetAt(lines []string, line int) string {
	idx := line - 1
	if idx < 0 || idx >= len(lines) {
		return ""
	}
	return strings.TrimSpace(lines[idx])
}
