package compiler

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func mustParse(t testing.TB, src string) *TranslationUnit {
	t.Helper()
	tu, err := ParseSource(src)
	if err != nil {
		t.Fatalf("ParseSource: %v\nsource:\n%s", err, src)
	}
	return tu
}

// TestParse verifies that Parse produces the correct AST for valid inputs.
func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected *TranslationUnit
	}{
		{
			name:  "Add",
			input: "int add(int a, int b) {\n    return a + b;\n}\n",
			expected: &TranslationUnit{
				Functions: []*Function{{
					Proto: &Prototype{Name: "add", Params: []string{"a", "b"}},
					Body: &FunctionBody{
						Decls: []*VariableDecl{
							{Name: "a", DeclKind: DeclParam},
							{Name: "b", DeclKind: DeclParam},
						},
						Stmts: []Node{
							&ReturnStmt{Expr: &BinaryExpr{Op: "+", Left: &VarRef{Name: "a"}, Right: &VarRef{Name: "b"}}},
						},
					},
				}},
			},
		},
		{
			name:  "Precedence",
			input: "int main() { int x; x = 1 + 2 * 3; return x; }",
			expected: &TranslationUnit{
				Functions: []*Function{{
					Proto: &Prototype{Name: "main"},
					Body: &FunctionBody{
						Decls: []*VariableDecl{{Name: "x", DeclKind: DeclLocal}},
						Stmts: []Node{
							&BinaryExpr{
								Op:   "=",
								Left: &VarRef{Name: "x"},
								Right: &BinaryExpr{
									Op:    "+",
									Left:  &Literal{Value: 1},
									Right: &BinaryExpr{Op: "*", Left: &Literal{Value: 2}, Right: &Literal{Value: 3}},
								},
							},
							&ReturnStmt{Expr: &VarRef{Name: "x"}},
						},
					},
				}},
			},
		},
		{
			name:  "Prototype Then Call",
			input: "int g(int x);\nint main() { return g(1) / 2; }",
			expected: &TranslationUnit{
				Prototypes: []*Prototype{{Name: "g", Params: []string{"x"}}},
				Functions: []*Function{{
					Proto: &Prototype{Name: "main"},
					Body: &FunctionBody{
						Stmts: []Node{
							&ReturnStmt{Expr: &BinaryExpr{
								Op:    "/",
								Left:  &CallExpr{Callee: "g", Args: []Node{&Literal{Value: 1}}},
								Right: &Literal{Value: 2},
							}},
						},
					},
				}},
			},
		},
		{
			name:  "Null Statements And Zero Arg Call",
			input: "int zero() { return 0; } int main() { ; ; return zero(); }",
			expected: &TranslationUnit{
				Functions: []*Function{
					{
						Proto: &Prototype{Name: "zero"},
						Body:  &FunctionBody{Stmts: []Node{&ReturnStmt{Expr: &Literal{Value: 0}}}},
					},
					{
						Proto: &Prototype{Name: "main"},
						Body: &FunctionBody{Stmts: []Node{
							&NullStmt{},
							&NullStmt{},
							&ReturnStmt{Expr: &CallExpr{Callee: "zero"}},
						}},
					},
				},
			},
		},
		{
			name:  "Return Assignment",
			input: "int f(int a) { return a = a * 2; }",
			expected: &TranslationUnit{
				Functions: []*Function{{
					Proto: &Prototype{Name: "f", Params: []string{"a"}},
					Body: &FunctionBody{
						Decls: []*VariableDecl{{Name: "a", DeclKind: DeclParam}},
						Stmts: []Node{
							&ReturnStmt{Expr: &BinaryExpr{
								Op:    "=",
								Left:  &VarRef{Name: "a"},
								Right: &BinaryExpr{Op: "*", Left: &VarRef{Name: "a"}, Right: &Literal{Value: 2}},
							}},
						},
					},
				}},
			},
		},
		{
			name:  "Call With Expression Arguments",
			input: "int h(int p, int q);\nint main() { int v; v = 4; return h(v - 1, h(v, 2)); }",
			expected: &TranslationUnit{
				Prototypes: []*Prototype{{Name: "h", Params: []string{"p", "q"}}},
				Functions: []*Function{{
					Proto: &Prototype{Name: "main"},
					Body: &FunctionBody{
						Decls: []*VariableDecl{{Name: "v", DeclKind: DeclLocal}},
						Stmts: []Node{
							&BinaryExpr{Op: "=", Left: &VarRef{Name: "v"}, Right: &Literal{Value: 4}},
							&ReturnStmt{Expr: &CallExpr{Callee: "h", Args: []Node{
								&BinaryExpr{Op: "-", Left: &VarRef{Name: "v"}, Right: &Literal{Value: 1}},
								&CallExpr{Callee: "h", Args: []Node{&VarRef{Name: "v"}, &Literal{Value: 2}}},
							}}},
						},
					},
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mustParse(t, tt.input)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Parse() =\n%v\nwant\n%v", got, tt.expected)
			}
		})
	}
}

// TestSubtraction pins down that "-" keeps its own tag and chains to the left.
func TestSubtraction(t *testing.T) {
	tu := mustParse(t, "int f(int a, int b, int c) { return a - b - c; }")
	got := tu.Functions[0].Body.Stmts[0].(*ReturnStmt).Expr
	want := &BinaryExpr{
		Op:    "-",
		Left:  &BinaryExpr{Op: "-", Left: &VarRef{Name: "a"}, Right: &VarRef{Name: "b"}},
		Right: &VarRef{Name: "c"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("a - b - c = %v, want %v", got, want)
	}

	tu = mustParse(t, "int f(int a, int b, int c) { return a - b + c * 2 / b; }")
	if got := tu.Functions[0].Body.Stmts[0].String(); got != "ReturnStmt(((a - b) + ((c * 2) / b)))" {
		t.Errorf("mixed chain = %s", got)
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		errText string
	}{
		{"Empty Source", "", "expected INT, got end of file"},
		{"Only Comment", "// nothing\n", "expected INT, got end of file"},
		{"Prototype Arity Mismatch", "int f(int a); int f(int a, int b);", "redeclared"},
		{"Prototype Redeclared", "int f(int a); int f(int a);", "redeclared"},
		{"Declared After Definition With Other Arity", "int f(int a) { return a; } int f();", "defined with 1"},
		{"Definition Disagrees With Prototype", "int f(int a); int f(int a, int b) { return a; }", "declared with 1"},
		{"Function Redefined", "int f() { return 1; } int f() { return 2; }", "redefined"},
		{"Duplicate Parameter", "int f(int a, int a) { return a; }", "duplicate parameter \"a\""},
		{"Duplicate Local", "int f() { int a; int a; return a; }", "variable \"a\" redeclared"},
		{"Local Shadows Parameter", "int f(int a) { int a; return a; }", "variable \"a\" redeclared"},
		{"Missing Trailing Return", "int f() { int a; a = 1; }", "must end with a return"},
		{"Empty Body", "int f() { }", "must end with a return"},
		{"Return Not Last", "int f() { int a; return 1; a = 2; }", "must end with a return"},
		{"Undeclared Variable", "int f() { return x; }", "undeclared identifier \"x\""},
		{"Assign To Undeclared", "int f() { y = 1; return 0; }", "undeclared identifier \"y\""},
		{"Call Too Many Args", "int g(int x); int f() { return g(1, 2); }", "expects 1 arguments, got 2"},
		{"Call Too Few Args", "int g(int x); int f() { return g(); }", "expects 1 arguments, got 0"},
		{"Call Undeclared Function", "int f() { return g(1); }", "undeclared identifier \"g\""},
		{"Recursion Without Prototype", "int f(int n) { return f(n); }", "undeclared identifier \"f\""},
		{"Trailing Comma In Args", "int g(int x); int f() { return g(1,); }", "expected expression"},
		{"Trailing Comma In Params", "int f(int a,) { return a; }", "expected INT"},
		{"Declaration After Statement", "int f() { int a; a = 1; int b; return a; }", "expected expression, got INT"},
		{"Parenthesised Expression", "int f() { return (1); }", "expected expression"},
		{"Unary Minus", "int f() { return -1; }", "expected expression"},
		{"Missing Semicolon", "int f() { return 1 }", "expected \";\""},
		{"Chained Assignment", "int f() { int a; int b; a = b = 1; return a; }", "expected \";\""},
		{"Missing Close Brace", "int f() { return 1;", "got end of file"},
		{"Garbage After Unit", "int f() { return 1; } 42", "expected INT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu, err := ParseSource(tt.input)
			if err == nil {
				t.Fatalf("expected failure, got %v", tu)
			}
			if tu != nil {
				t.Errorf("partial AST returned with error: %v", tu)
			}
			if !errors.Is(err, ErrParse) {
				t.Errorf("error %v does not wrap ErrParse", err)
			}
			if !strings.Contains(err.Error(), tt.errText) {
				t.Errorf("error %q does not mention %q", err, tt.errText)
			}
		})
	}
}

func TestParseAccepts(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		prototypes int
		functions  int
	}{
		{"Trailing Return", "int f() { int a; a = 1; return a; }", 0, 1},
		{"Prototype Only", "int f(int a);", 1, 0},
		{"Declaration After Definition Same Arity", "int f(int a) { return a; } int f(int a);", 1, 1},
		{"Prototype Then Definition", "int f(int a); int f(int b) { return b; }", 1, 1},
		{"Recursion Through Prototype", "int f(int n); int f(int n) { return f(n - 1); }", 1, 1},
		{"Call Earlier Definition", "int one() { return 1; } int two() { return one() + one(); }", 0, 2},
		{"Call One Arg", "int g(int x); int f() { return g(1); }", 1, 1},
		{"Leading Zero Literal", "int f() { return 0010; }", 0, 1},
		{"Comments Everywhere", "/* header\n spans */ int f() { // body\n return /* inline */ 1; }", 0, 1},
		{"Locals Scoped Per Function", "int f() { int a; return 1; } int g() { int a; return 2; }", 0, 2},
		{"Parameter Named Like Function", "int f(int f) { return f; }", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tu := mustParse(t, tt.input)
			if len(tu.Prototypes) != tt.prototypes || len(tu.Functions) != tt.functions {
				t.Errorf("got %d prototypes / %d functions, want %d / %d",
					len(tu.Prototypes), len(tu.Functions), tt.prototypes, tt.functions)
			}
			if tu.Empty() {
				t.Error("successful parse produced an empty unit")
			}
		})
	}
}

func TestParseErrorLine(t *testing.T) {
	src := "int g(int x);\n\nint main() {\n    int a;\n    a = g(1, 2);\n    return a;\n}\n"
	_, err := ParseSource(src)
	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if perr.Line != 5 {
		t.Errorf("line: expected 5, got %d (%v)", perr.Line, err)
	}
	if perr.Snippet != "a = g(1, 2);" {
		t.Errorf("snippet: got %q", perr.Snippet)
	}
	if !strings.HasPrefix(err.Error(), "line 5: function g expects 1 arguments, got 2") {
		t.Errorf("message: got %q", err.Error())
	}
}

// TestBacktrackingRestoresCursor checks that a failed production leaves the
// cursor where it found it.
func TestBacktrackingRestoresCursor(t *testing.T) {
	// Each case lexes src, declares variables a and b plus functions g/1 and
	// h/0, advances to start, then runs a production expected to fail.
	tests := []struct {
		name  string
		src   string
		start int
		run   func(p *Parser) bool
	}{
		{"Prototype Missing Paren", "int f int", 0, func(p *Parser) bool { _, ok := p.parsePrototype(); return ok }},
		{"Prototype Bad Param", "int f(int a, b)", 0, func(p *Parser) bool { _, ok := p.parsePrototype(); return ok }},
		{"Prototype Duplicate Param", "int f(int a, int a)", 0, func(p *Parser) bool { _, ok := p.parsePrototype(); return ok }},
		{"Declaration Without Semicolon", "int f(int a) {", 0, func(p *Parser) bool { _, ok := p.parseFunctionDeclaration(); return ok }},
		{"Definition Without Body", "int f(int a);", 0, func(p *Parser) bool { _, ok := p.parseFunctionDefinition(); return ok }},
		{"Definition Without Return", "int f(int a) { a = 1; }", 0, func(p *Parser) bool { _, ok := p.parseFunctionDefinition(); return ok }},
		{"Local Declaration Missing Semicolon", "int x = 1;", 0, func(p *Parser) bool { _, ok := p.parseVariableDeclaration(); return ok }},
		{"Expression Statement Missing Semicolon", "a = b + 1 }", 0, func(p *Parser) bool { _, ok := p.parseExpressionStatement(); return ok }},
		{"Jump Missing Expression", "return ;", 0, func(p *Parser) bool { _, ok := p.parseJumpStatement(); return ok }},
		{"Statement", "x = 1;", 0, func(p *Parser) bool { _, ok := p.parseStatement(); return ok }},
		{"Assignment Bad RHS", "a = b + ;", 0, func(p *Parser) bool { _, ok := p.parseAssignment(); return ok }},
		{"Additive Dangling Operator", "a + b - ;", 0, func(p *Parser) bool { _, ok := p.parseAdditiveExpression(); return ok }},
		{"Multiplicative Dangling Operator", "a * b / ;", 0, func(p *Parser) bool { _, ok := p.parseMultiplicativeExpression(); return ok }},
		{"Call Wrong Arity", "g(a, b)", 0, func(p *Parser) bool { _, ok := p.parseCallExpression(); return ok }},
		{"Call Missing Close", "g(a ;", 0, func(p *Parser) bool { _, ok := p.parseCallExpression(); return ok }},
		{"Call Unknown", "k(1)", 0, func(p *Parser) bool { _, ok := p.parsePostfixExpression(); return ok }},
		{"Primary Undeclared", "c", 0, func(p *Parser) bool { _, ok := p.parsePrimaryExpression(); return ok }},
		{"Mid Stream", "a ; a * ;", 2, func(p *Parser) bool { _, ok := p.parseAssignmentExpression(); return ok }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := mustLex(t, tt.src)
			ts.SetPos(tt.start)
			p := NewParser(ts)
			p.syms.DeclareVariable("a")
			p.syms.DeclareVariable("b")
			p.syms.DeclarePrototype("g", 1)
			p.syms.DefineFunction("h", 0)

			before := ts.Pos()
			if tt.run(p) {
				t.Fatalf("production unexpectedly succeeded")
			}
			if after := ts.Pos(); after != before {
				t.Errorf("cursor moved from %d to %d after failure", before, after)
			}
		})
	}
}

func TestSymbolTablesAfterParse(t *testing.T) {
	ts := mustLex(t, "int g(int x);\nint f(int a, int b) { int c; c = g(a); return c + b; }")
	p := NewParser(ts)
	if _, err := p.Parse(); err != nil {
		t.Fatal(err)
	}
	syms := p.Symbols()
	if n, ok := syms.PrototypeArity("g"); !ok || n != 1 {
		t.Errorf("prototype g: %d, %v", n, ok)
	}
	if n, ok := syms.FunctionArity("f"); !ok || n != 2 {
		t.Errorf("function f: %d, %v", n, ok)
	}
	if got := syms.Variables(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("variables of last function: %v", got)
	}
}

// TestParseDeterministic re-lexes and re-parses the same source and
// expects structurally identical trees.
func TestParseDeterministic(t *testing.T) {
	src := complexSource
	first := mustParse(t, src)
	second := mustParse(t, src)
	if !reflect.DeepEqual(first, second) {
		t.Error("two parses of the same source differ")
	}
	if !reflect.DeepEqual(Dump(first), Dump(second)) {
		t.Error("two dumps of the same source differ")
	}
}
