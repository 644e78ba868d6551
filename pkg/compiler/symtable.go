package compiler

import (
	"fmt"
	"sort"
	"strings"
)

// SymbolTable is the parser's bookkeeping for semantic checks.
//
// Variables are scoped to the function body being parsed and are cleared
// with EnterFunction. Prototype and function arities accumulate for the
// whole translation unit.
type SymbolTable struct {
	// Declared variables of the current function, in declaration order.
	vars []string

	prototypes map[string]int // name -> declared parameter count
	functions  map[string]int // name -> defined parameter count
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		prototypes: make(map[string]int),
		functions:  make(map[string]int),
	}
}

// EnterFunction clears the variable table before a function body is parsed.
func (s *SymbolTable) EnterFunction() {
	s.vars = s.vars[:0]
}

// DeclareVariable adds name to the current function. It returns false,
// leaving the table unchanged, when name is already declared there.
func (s *SymbolTable) DeclareVariable(name string) bool {
	if s.IsVariable(name) {
		return false
	}
	s.vars = append(s.vars, name)
	return true
}

// IsVariable reports whether name is declared in the current function.
func (s *SymbolTable) IsVariable(name string) bool {
	for _, v := range s.vars {
		if v == name {
			return true
		}
	}
	return false
}

// Variables returns the current function's variables in declaration order.
func (s *SymbolTable) Variables() []string {
	out := make([]string, len(s.vars))
	copy(out, s.vars)
	return out
}

// DeclarePrototype records a forward declaration.
func (s *SymbolTable) DeclarePrototype(name string, params int) {
	s.prototypes[name] = params
}

// DefineFunction records a full definition.
func (s *SymbolTable) DefineFunction(name string, params int) {
	s.functions[name] = params
}

// PrototypeArity returns the parameter count of a declared prototype.
func (s *SymbolTable) PrototypeArity(name string) (int, bool) {
	n, ok := s.prototypes[name]
	return n, ok
}

// FunctionArity returns the parameter count of a defined function.
func (s *SymbolTable) FunctionArity(name string) (int, bool) {
	n, ok := s.functions[name]
	return n, ok
}

// Arity resolves a callee, preferring its prototype over its definition.
func (s *SymbolTable) Arity(name string) (int, bool) {
	if n, ok := s.prototypes[name]; ok {
		return n, true
	}
	return s.FunctionArity(name)
}

// CanDeclare checks a new prototype against what is already known: a name
// may be declared once, and only with the arity of an existing definition.
func (s *SymbolTable) CanDeclare(name string, params int) error {
	if _, ok := s.prototypes[name]; ok {
		return fmt.Errorf("function %s is redeclared", name)
	}
	if n, ok := s.functions[name]; ok && n != params {
		return fmt.Errorf("function %s declared with %d parameters but defined with %d", name, params, n)
	}
	return nil
}

// CanDefine checks a new definition: a name may be defined once, and only
// with the arity of an existing prototype.
func (s *SymbolTable) CanDefine(name string, params int) error {
	if _, ok := s.functions[name]; ok {
		return fmt.Errorf("function %s is redefined", name)
	}
	if n, ok := s.prototypes[name]; ok && n != params {
		return fmt.Errorf("function %s defined with %d parameters but declared with %d", name, params, n)
	}
	return nil
}

// String returns a deterministically ordered dump of the table.
func (s *SymbolTable) String() string {
	var sb strings.Builder
	dumpArities := func(title string, m map[string]int) {
		if len(m) == 0 {
			fmt.Fprintf(&sb, "%s: (empty)\n", title)
			return
		}
		fmt.Fprintf(&sb, "%s:\n", title)
		names := make([]string, 0, len(m))
		for name := range m {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "  %-20s  params: %d\n", name, m[name])
		}
	}
	dumpArities("Prototypes", s.prototypes)
	dumpArities("Functions", s.functions)

	if len(s.vars) > 0 {
		sb.WriteString("Variables (current function):\n")
		for i, name := range s.vars {
			fmt.Fprintf(&sb, "  %d  %s\n", i, name)
		}
	}
	return sb.String()
}
