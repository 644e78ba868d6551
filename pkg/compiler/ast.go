package compiler

import (
	"fmt"
	"strings"
)

// NodeKind tags the concrete type behind a Node.
type NodeKind int

const (
	VarRefNode NodeKind = iota
	LiteralNode
	VariableDeclNode
	BinaryExprNode
	CallExprNode
	ReturnStmtNode
	NullStmtNode
)

var nodeKindNames = [...]string{
	VarRefNode:       "VarRef",
	LiteralNode:      "Literal",
	VariableDeclNode: "VariableDecl",
	BinaryExprNode:   "BinaryExpr",
	CallExprNode:     "CallExpr",
	ReturnStmtNode:   "ReturnStmt",
	NullStmtNode:     "NullStmt",
}

func (k NodeKind) String() string {
	if int(k) >= 0 && int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is implemented by the fixed set of AST node types in this file.
// Switch on Kind() or on the concrete type; nothing outside the package
// can add a kind.
type Node interface {
	Kind() NodeKind
	String() string
	node()
}

//  Expression nodes

// VarRef is a read of a declared variable.
//
//	return x;
//	       ^  VarRef{Name: "x"}
type VarRef struct {
	Name string
}

func (*VarRef) node()            {}
func (*VarRef) Kind() NodeKind   { return VarRefNode }
func (v *VarRef) String() string { return v.Name }

// Literal is an integer constant.
type Literal struct {
	Value int32
}

func (*Literal) node()            {}
func (*Literal) Kind() NodeKind   { return LiteralNode }
func (l *Literal) String() string { return fmt.Sprintf("%d", l.Value) }

// BinaryExpr represents Left Op Right. Op is one of "=", "+", "-", "*", "/";
// assignment is a BinaryExpr whose Left is a VarRef.
//
//	x = a + 1
//	^ ^ ^^^^^
//	| | Right: BinaryExpr{Op: "+", ...}
//	| Op
//	Left
type BinaryExpr struct {
	Op    string
	Left  Node
	Right Node
}

func (*BinaryExpr) node()          {}
func (*BinaryExpr) Kind() NodeKind { return BinaryExprNode }
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// CallExpr represents Callee(Args...).
type CallExpr struct {
	Callee string
	Args   []Node
}

func (*CallExpr) node()          {}
func (*CallExpr) Kind() NodeKind { return CallExprNode }
func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}

//  Statement and declaration nodes

// DeclKind says where a variable was declared.
type DeclKind int

const (
	DeclParam DeclKind = iota // function parameter
	DeclLocal                 // "int name;" inside a function body
)

func (k DeclKind) String() string {
	if k == DeclParam {
		return "param"
	}
	return "local"
}

// VariableDecl declares one int variable.
type VariableDecl struct {
	Name     string
	DeclKind DeclKind
}

func (*VariableDecl) node()          {}
func (*VariableDecl) Kind() NodeKind { return VariableDeclNode }
func (d *VariableDecl) String() string {
	return fmt.Sprintf("VariableDecl(%s int %s)", d.DeclKind, d.Name)
}

// ReturnStmt represents  return expr;
type ReturnStmt struct {
	Expr Node
}

func (*ReturnStmt) node()          {}
func (*ReturnStmt) Kind() NodeKind { return ReturnStmtNode }
func (r *ReturnStmt) String() string {
	return fmt.Sprintf("ReturnStmt(%s)", r.Expr)
}

// NullStmt is a lone ";".
type NullStmt struct{}

func (*NullStmt) node()          {}
func (*NullStmt) Kind() NodeKind { return NullStmtNode }
func (*NullStmt) String() string { return "NullStmt" }

//  Functions and the translation unit

// FunctionBody holds the declarations of a function, parameters first and
// then locals, each in source order, followed by its statements.
type FunctionBody struct {
	Decls []*VariableDecl
	Stmts []Node
}

// Prototype is a function signature: its name and parameter names.
type Prototype struct {
	Name   string
	Params []string
}

// ParamCount returns the number of declared parameters.
func (p *Prototype) ParamCount() int { return len(p.Params) }

func (p *Prototype) String() string {
	params := make([]string, len(p.Params))
	for i, name := range p.Params {
		params[i] = "int " + name
	}
	return fmt.Sprintf("int %s(%s)", p.Name, strings.Join(params, ", "))
}

// Function is a full definition.
type Function struct {
	Proto *Prototype
	Body  *FunctionBody
}

// Name returns the function's name.
func (f *Function) Name() string { return f.Proto.Name }

func (f *Function) String() string {
	return fmt.Sprintf("Function(%s, decls=%v, body=%v)", f.Proto, f.Body.Decls, f.Body.Stmts)
}

// TranslationUnit is one parsed source file: forward declarations in
// Prototypes and definitions in Functions, each in source order.
type TranslationUnit struct {
	Prototypes []*Prototype
	Functions  []*Function
}

// Empty reports whether the unit declares nothing.
func (tu *TranslationUnit) Empty() bool {
	return len(tu.Prototypes) == 0 && len(tu.Functions) == 0
}

// Function returns the definition named name, or nil.
func (tu *TranslationUnit) Function(name string) *Function {
	for _, f := range tu.Functions {
		if f.Name() == name {
			return f
		}
	}
	return nil
}

func (tu *TranslationUnit) String() string {
	var sb strings.Builder
	for _, p := range tu.Prototypes {
		fmt.Fprintf(&sb, "Prototype(%s)\n", p)
	}
	for _, f := range tu.Functions {
		fmt.Fprintf(&sb, "%s\n", f)
	}
	return sb.String()
}
