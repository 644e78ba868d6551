package compiler

import (
	"fmt"
	"slices"
)

// Parser consumes a TokenStream and builds a TranslationUnit, checking
// declarations as it goes.
//
// Grammar (every alternative is tried in order; a failed alternative
// restores the cursor before the next one is tried):
//
//	translation_unit     = external_decl+ EOF
//	external_decl        = function_decl | function_def
//	function_decl        = prototype ";"
//	function_def         = prototype function_block
//	prototype            = "int" IDENTIFIER "(" [ "int" IDENTIFIER ("," "int" IDENTIFIER)* ] ")"
//	function_block       = "{" local_decl* statement* "}"      last statement must be a return
//	local_decl           = "int" IDENTIFIER ";"
//	statement            = expression_stmt | jump_stmt
//	expression_stmt      = ";" | assignment_expr ";"
//	jump_stmt            = "return" assignment_expr ";"
//	assignment_expr      = VARIABLE "=" additive_expr | additive_expr
//	additive_expr        = multiplicative_expr (("+" | "-") multiplicative_expr)*
//	multiplicative_expr  = postfix_expr (("*" | "/") postfix_expr)*
//	postfix_expr         = primary_expr | FUNCTION "(" [ assignment_expr ("," assignment_expr)* ] ")"
//	primary_expr         = VARIABLE | INTEGER
//
// VARIABLE is an identifier declared in the current function and FUNCTION
// one with a known prototype or definition.
type Parser struct {
	ts   *TokenStream
	syms *SymbolTable

	diag diagnostic
}

// diagnostic is the most useful failure seen so far. Semantic failures
// outrank syntax failures; within a class the furthest position wins.
type diagnostic struct {
	set      bool
	pos      int
	semantic bool
	msg      string
}

func NewParser(ts *TokenStream) *Parser {
	return &Parser{ts: ts, syms: NewSymbolTable()}
}

// Symbols exposes the parser's symbol table.
func (p *Parser) Symbols() *SymbolTable { return p.syms }

// Parse parses the whole stream. On failure it returns an error wrapping
// ErrParse and no AST. A Parser parses its stream once.
func (p *Parser) Parse() (*TranslationUnit, error) {
	tu, ok := p.parseTranslationUnit()
	if !ok {
		return nil, p.err()
	}
	return tu, nil
}

func (p *Parser) err() error {
	d := p.diag
	if !d.set {
		d = diagnostic{pos: p.ts.Pos(), msg: fmt.Sprintf("unexpected %s", describe(p.ts.Current()))}
	}
	line := p.ts.tokenAt(d.pos).Line
	return &Error{Kind: ErrParse, Line: line, Msg: d.msg, Snippet: p.ts.SourceLine(line)}
}

func (p *Parser) record(pos int, semantic bool, format string, args ...any) {
	d := &p.diag
	switch {
	case !d.set:
	case semantic != d.semantic:
		if !semantic {
			return
		}
	case pos <= d.pos:
		return
	}
	*d = diagnostic{set: true, pos: pos, semantic: semantic, msg: fmt.Sprintf(format, args...)}
}

// syntaxError records a mismatch at the cursor.
func (p *Parser) syntaxError(format string, args ...any) {
	p.record(p.ts.Pos(), false, format, args...)
}

// semanticError records a rule violation at token index pos.
func (p *Parser) semanticError(pos int, format string, args ...any) {
	p.record(pos, true, format, args...)
}

func describe(tok Token) string {
	if tok.Type == EOF {
		return "end of file"
	}
	return fmt.Sprintf("%s %q", tok.Type, tok.Lexeme)
}

// rewind restores the cursor to mark when the production reports failure.
// Every production defers it on entry:
//
//	defer p.rewind(p.ts.Pos(), &ok)
func (p *Parser) rewind(mark int, ok *bool) {
	if !*ok {
		p.ts.SetPos(mark)
	}
}

func (p *Parser) cur() Token { return p.ts.Current() }

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.ts.Current()
	p.ts.Advance()
	return tok
}

// expect consumes the current token if it has type tt.
func (p *Parser) expect(tt TokenType) (Token, bool) {
	tok := p.cur()
	if tok.Type != tt {
		p.syntaxError("expected %s, got %s", tt, describe(tok))
		return tok, false
	}
	p.advance()
	return tok, true
}

// expectSymbol consumes the current token if it is the symbol sym.
func (p *Parser) expectSymbol(sym string) bool {
	tok := p.cur()
	if !tok.Is(sym) {
		p.syntaxError("expected %q, got %s", sym, describe(tok))
		return false
	}
	p.advance()
	return true
}

//  Declarations

func (p *Parser) parseTranslationUnit() (*TranslationUnit, bool) {
	tu := &TranslationUnit{}
	for {
		if !p.parseExternalDeclaration(tu) {
			return nil, false
		}
		if p.cur().Type == EOF {
			return tu, true
		}
	}
}

// parseExternalDeclaration adds one prototype or one function to tu.
func (p *Parser) parseExternalDeclaration(tu *TranslationUnit) bool {
	if proto, ok := p.parseFunctionDeclaration(); ok {
		tu.Prototypes = append(tu.Prototypes, proto)
		return true
	}
	if fn, ok := p.parseFunctionDefinition(); ok {
		tu.Functions = append(tu.Functions, fn)
		return true
	}
	return false
}

func (p *Parser) parseFunctionDeclaration() (proto *Prototype, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	proto, ok = p.parsePrototype()
	if !ok {
		return nil, false
	}
	if !p.cur().Is(";") {
		p.syntaxError("expected \";\", got %s", describe(p.cur()))
		return nil, false
	}
	if err := p.syms.CanDeclare(proto.Name, proto.ParamCount()); err != nil {
		p.semanticError(p.ts.Pos(), "%v", err)
		return nil, false
	}
	p.syms.DeclarePrototype(proto.Name, proto.ParamCount())
	p.advance()
	return proto, true
}

func (p *Parser) parseFunctionDefinition() (fn *Function, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	proto, ok := p.parsePrototype()
	if !ok {
		return nil, false
	}
	if err := p.syms.CanDefine(proto.Name, proto.ParamCount()); err != nil {
		p.semanticError(p.ts.Pos(), "%v", err)
		return nil, false
	}
	body, ok := p.parseFunctionStatementBlock(proto)
	if !ok {
		return nil, false
	}
	p.syms.DefineFunction(proto.Name, proto.ParamCount())
	return &Function{Proto: proto, Body: body}, true
}

func (p *Parser) parsePrototype() (proto *Prototype, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	if _, ok := p.expect(INT); !ok {
		return nil, false
	}
	nameTok, ok := p.expect(IDENTIFIER)
	if !ok {
		return nil, false
	}
	if !p.expectSymbol("(") {
		return nil, false
	}

	var params []string
	if p.cur().Type == INT {
		for {
			if _, ok := p.expect(INT); !ok {
				return nil, false
			}
			paramPos := p.ts.Pos()
			paramTok, ok := p.expect(IDENTIFIER)
			if !ok {
				return nil, false
			}
			if slices.Contains(params, paramTok.Lexeme) {
				p.semanticError(paramPos, "duplicate parameter %q in function %s", paramTok.Lexeme, nameTok.Lexeme)
				return nil, false
			}
			params = append(params, paramTok.Lexeme)

			if !p.cur().Is(",") {
				break
			}
			p.advance()
		}
	}

	if !p.expectSymbol(")") {
		return nil, false
	}
	return &Prototype{Name: nameTok.Lexeme, Params: params}, true
}

// parseFunctionStatementBlock parses a function body. Parameters are
// registered as variables before any local declaration is read.
func (p *Parser) parseFunctionStatementBlock(proto *Prototype) (body *FunctionBody, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	if !p.expectSymbol("{") {
		return nil, false
	}

	p.syms.EnterFunction()
	body = &FunctionBody{}
	for _, name := range proto.Params {
		p.syms.DeclareVariable(name)
		body.Decls = append(body.Decls, &VariableDecl{Name: name, DeclKind: DeclParam})
	}

	for {
		declPos := p.ts.Pos()
		decl, ok := p.parseVariableDeclaration()
		if !ok {
			break
		}
		if !p.syms.DeclareVariable(decl.Name) {
			p.semanticError(declPos, "variable %q redeclared in function %s", decl.Name, proto.Name)
			return nil, false
		}
		body.Decls = append(body.Decls, decl)
	}

	for {
		stmt, ok := p.parseStatement()
		if !ok {
			break
		}
		body.Stmts = append(body.Stmts, stmt)
	}

	closePos := p.ts.Pos()
	if !p.expectSymbol("}") {
		return nil, false
	}
	if n := len(body.Stmts); n == 0 || body.Stmts[n-1].Kind() != ReturnStmtNode {
		p.semanticError(closePos, "function %s must end with a return statement", proto.Name)
		return nil, false
	}
	return body, true
}

func (p *Parser) parseVariableDeclaration() (decl *VariableDecl, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	if _, ok := p.expect(INT); !ok {
		return nil, false
	}
	nameTok, ok := p.expect(IDENTIFIER)
	if !ok {
		return nil, false
	}
	if !p.expectSymbol(";") {
		return nil, false
	}
	return &VariableDecl{Name: nameTok.Lexeme, DeclKind: DeclLocal}, true
}

//  Statements

func (p *Parser) parseStatement() (Node, bool) {
	if stmt, ok := p.parseExpressionStatement(); ok {
		return stmt, true
	}
	return p.parseJumpStatement()
}

func (p *Parser) parseExpressionStatement() (stmt Node, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	if p.cur().Is(";") {
		p.advance()
		return &NullStmt{}, true
	}
	expr, ok := p.parseAssignmentExpression()
	if !ok {
		return nil, false
	}
	if !p.expectSymbol(";") {
		return nil, false
	}
	return expr, true
}

func (p *Parser) parseJumpStatement() (stmt Node, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	if _, ok := p.expect(RETURN); !ok {
		return nil, false
	}
	expr, ok := p.parseAssignmentExpression()
	if !ok {
		return nil, false
	}
	if !p.expectSymbol(";") {
		return nil, false
	}
	return &ReturnStmt{Expr: expr}, true
}

//  Expressions

func (p *Parser) parseAssignmentExpression() (Node, bool) {
	if expr, ok := p.parseAssignment(); ok {
		return expr, true
	}
	return p.parseAdditiveExpression()
}

// parseAssignment matches VARIABLE "=" additive_expr. An undeclared name
// or a missing "=" simply rejects this alternative.
func (p *Parser) parseAssignment() (expr Node, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	tok := p.cur()
	if tok.Type != IDENTIFIER || !p.syms.IsVariable(tok.Lexeme) {
		return nil, false
	}
	p.advance()
	if !p.cur().Is("=") {
		return nil, false
	}
	p.advance()

	rhs, ok := p.parseAdditiveExpression()
	if !ok {
		return nil, false
	}
	return &BinaryExpr{Op: "=", Left: &VarRef{Name: tok.Lexeme}, Right: rhs}, true
}

// parseAdditiveExpression builds a left-leaning chain: a - b + c is
// ((a - b) + c).
func (p *Parser) parseAdditiveExpression() (expr Node, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	expr, ok = p.parseMultiplicativeExpression()
	if !ok {
		return nil, false
	}
	for p.cur().Is("+") || p.cur().Is("-") {
		op := p.advance().Lexeme
		rhs, ok := p.parseMultiplicativeExpression()
		if !ok {
			return nil, false
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: rhs}
	}
	return expr, true
}

func (p *Parser) parseMultiplicativeExpression() (expr Node, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	expr, ok = p.parsePostfixExpression()
	if !ok {
		return nil, false
	}
	for p.cur().Is("*") || p.cur().Is("/") {
		op := p.advance().Lexeme
		rhs, ok := p.parsePostfixExpression()
		if !ok {
			return nil, false
		}
		expr = &BinaryExpr{Op: op, Left: expr, Right: rhs}
	}
	return expr, true
}

func (p *Parser) parsePostfixExpression() (Node, bool) {
	if expr, ok := p.parsePrimaryExpression(); ok {
		return expr, true
	}
	return p.parseCallExpression()
}

// parseCallExpression matches FUNCTION "(" args ")" and checks the argument
// count against the callee's declared parameters.
func (p *Parser) parseCallExpression() (expr Node, ok bool) {
	defer p.rewind(p.ts.Pos(), &ok)

	namePos := p.ts.Pos()
	nameTok := p.cur()
	if nameTok.Type != IDENTIFIER {
		return nil, false
	}
	params, known := p.syms.Arity(nameTok.Lexeme)
	if !known {
		p.semanticError(namePos, "undeclared identifier %q", nameTok.Lexeme)
		return nil, false
	}
	p.advance()
	if !p.expectSymbol("(") {
		return nil, false
	}

	var args []Node
	if !p.cur().Is(")") {
		for {
			arg, ok := p.parseAssignmentExpression()
			if !ok {
				return nil, false
			}
			args = append(args, arg)

			if !p.cur().Is(",") {
				break
			}
			p.advance()
		}
	}
	if !p.expectSymbol(")") {
		return nil, false
	}
	if len(args) != params {
		p.semanticError(namePos, "function %s expects %d arguments, got %d", nameTok.Lexeme, params, len(args))
		return nil, false
	}
	return &CallExpr{Callee: nameTok.Lexeme, Args: args}, true
}

// parsePrimaryExpression matches a declared variable or an integer literal.
// Parenthesised expressions and unary minus are not part of the language.
func (p *Parser) parsePrimaryExpression() (Node, bool) {
	tok := p.cur()
	switch {
	case tok.Type == IDENTIFIER && p.syms.IsVariable(tok.Lexeme):
		p.advance()
		return &VarRef{Name: tok.Lexeme}, true
	case tok.Type == INTEGER:
		p.advance()
		return &Literal{Value: tok.Value}, true
	case tok.Type != IDENTIFIER:
		p.syntaxError("expected expression, got %s", describe(tok))
	}
	return nil, false
}
