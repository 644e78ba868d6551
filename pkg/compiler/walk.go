package compiler

// Inspect walks the tree rooted at n in depth-first pre-order, children in
// source order. If f returns false the children of that node are skipped.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	switch n := n.(type) {
	case *BinaryExpr:
		Inspect(n.Left, f)
		Inspect(n.Right, f)
	case *CallExpr:
		for _, arg := range n.Args {
			Inspect(arg, f)
		}
	case *ReturnStmt:
		Inspect(n.Expr, f)
	case *VarRef, *Literal, *VariableDecl, *NullStmt:
		// leaves
	}
}

// Callees returns the names fn calls, each once, in order of first call.
func Callees(fn *Function) []string {
	seen := make(map[string]bool)
	var names []string
	for _, stmt := range fn.Body.Stmts {
		Inspect(stmt, func(n Node) bool {
			if call, ok := n.(*CallExpr); ok && !seen[call.Callee] {
				seen[call.Callee] = true
				names = append(names, call.Callee)
			}
			return true
		})
	}
	return names
}

// CallGraph maps every defined function to its callees.
func CallGraph(tu *TranslationUnit) map[string][]string {
	graph := make(map[string][]string, len(tu.Functions))
	for _, fn := range tu.Functions {
		graph[fn.Name()] = Callees(fn)
	}
	return graph
}

// Reachable returns the set of names transitively called from roots.
// Roots that are not defined are still included; callees without a
// definition (prototype only) are included but not followed.
func Reachable(tu *TranslationUnit, roots ...string) map[string]bool {
	graph := CallGraph(tu)
	reachable := make(map[string]bool)
	var worklist []string

	add := func(name string) {
		if !reachable[name] {
			reachable[name] = true
			worklist = append(worklist, name)
		}
	}
	for _, r := range roots {
		add(r)
	}

	for len(worklist) > 0 {
		curr := worklist[0]
		worklist = worklist[1:]
		for _, callee := range graph[curr] {
			add(callee)
		}
	}
	return reachable
}

// Unreachable lists the defined functions, in source order, that cannot be
// reached from roots.
func Unreachable(tu *TranslationUnit, roots ...string) []string {
	reachable := Reachable(tu, roots...)
	var dead []string
	for _, fn := range tu.Functions {
		if !reachable[fn.Name()] {
			dead = append(dead, fn.Name())
		}
	}
	return dead
}
