package compiler

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// UnitDump is a plain-data mirror of a TranslationUnit used for YAML
// output and for comparing trees in tests.
type UnitDump struct {
	Prototypes []PrototypeDump `yaml:"prototypes,omitempty"`
	Functions  []FunctionDump  `yaml:"functions,omitempty"`
}

type PrototypeDump struct {
	Name   string   `yaml:"name"`
	Params []string `yaml:"params,omitempty"`
}

type FunctionDump struct {
	Name   string      `yaml:"name"`
	Params []string    `yaml:"params,omitempty"`
	Decls  []*NodeDump `yaml:"decls,omitempty"`
	Body   []*NodeDump `yaml:"body,omitempty"`
}

// NodeDump holds whichever fields the node's kind uses.
type NodeDump struct {
	Kind  string      `yaml:"kind"`
	Name  string      `yaml:"name,omitempty"`
	Decl  string      `yaml:"decl,omitempty"`
	Op    string      `yaml:"op,omitempty"`
	Value *int32      `yaml:"value,omitempty"`
	Left  *NodeDump   `yaml:"left,omitempty"`
	Right *NodeDump   `yaml:"right,omitempty"`
	Expr  *NodeDump   `yaml:"expr,omitempty"`
	Args  []*NodeDump `yaml:"args,omitempty"`
}

// Dump converts tu into its plain-data form.
func Dump(tu *TranslationUnit) *UnitDump {
	out := &UnitDump{}
	for _, p := range tu.Prototypes {
		out.Prototypes = append(out.Prototypes, PrototypeDump{Name: p.Name, Params: p.Params})
	}
	for _, f := range tu.Functions {
		fd := FunctionDump{Name: f.Name(), Params: f.Proto.Params}
		for _, d := range f.Body.Decls {
			fd.Decls = append(fd.Decls, DumpNode(d))
		}
		for _, s := range f.Body.Stmts {
			fd.Body = append(fd.Body, DumpNode(s))
		}
		out.Functions = append(out.Functions, fd)
	}
	return out
}

// DumpNode converts one subtree.
func DumpNode(n Node) *NodeDump {
	if n == nil {
		return nil
	}
	d := &NodeDump{Kind: n.Kind().String()}
	switch n := n.(type) {
	case *VarRef:
		d.Name = n.Name
	case *Literal:
		v := n.Value
		d.Value = &v
	case *VariableDecl:
		d.Name = n.Name
		d.Decl = n.DeclKind.String()
	case *BinaryExpr:
		d.Op = n.Op
		d.Left = DumpNode(n.Left)
		d.Right = DumpNode(n.Right)
	case *CallExpr:
		d.Name = n.Callee
		for _, a := range n.Args {
			d.Args = append(d.Args, DumpNode(a))
		}
	case *ReturnStmt:
		d.Expr = DumpNode(n.Expr)
	case *NullStmt:
	}
	return d
}

// DumpYAML writes tu to w as YAML.
func DumpYAML(w io.Writer, tu *TranslationUnit) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(Dump(tu)); err != nil {
		return fmt.Errorf("encode ast: %w", err)
	}
	return enc.Close()
}
