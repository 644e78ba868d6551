package compiler

import (
	"fmt"

	"dummyc/pkg/utils"
)

// Backend lowers a parsed unit to some target. The front-end ships none;
// module is the name the target should give the output: the input file
// name without its extension.
type Backend interface {
	Lower(tu *TranslationUnit, module string) error
}

// Parse parses an already lexed stream.
func Parse(ts *TokenStream) (*TranslationUnit, error) {
	return NewParser(ts).Parse()
}

// ParseSource lexes and parses src.
func ParseSource(src string) (*TranslationUnit, error) {
	ts, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(ts)
}

// ParseFile lexes and parses the file at path.
func ParseFile(path string) (*TranslationUnit, error) {
	ts, err := LexFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(ts)
}

// Compile runs the front-end over path and hands the result to b.
func Compile(path string, b Backend) (*TranslationUnit, error) {
	full, module, err := utils.ResolveSource(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	tu, err := ParseFile(full)
	if err != nil {
		return nil, err
	}
	if tu.Empty() {
		return nil, ErrEmptyUnit
	}
	if err := b.Lower(tu, module); err != nil {
		return tu, fmt.Errorf("lower %s: %w", path, err)
	}
	return tu, nil
}
