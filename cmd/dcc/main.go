// Command dcc runs the DummyC front-end over one source file and prints
// the requested intermediate results.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"dummyc/pkg/compiler"
	"dummyc/pkg/utils"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// dumpBackend stands in for a real lowering stage: it prints the AST and
// call graph of the unit it is handed.
type dumpBackend struct {
	w     io.Writer
	ast   bool
	calls bool
}

func (b *dumpBackend) Lower(tu *compiler.TranslationUnit, module string) error {
	if b.ast {
		fmt.Fprintf(b.w, "# module %s\n", module)
		if err := compiler.DumpYAML(b.w, tu); err != nil {
			return err
		}
		fmt.Fprintln(b.w)
	}
	if b.calls {
		printCallGraph(b.w, tu)
	}
	return nil
}

func printCallGraph(w io.Writer, tu *compiler.TranslationUnit) {
	graph := compiler.CallGraph(tu)
	names := make([]string, 0, len(graph))
	for name := range graph {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Call graph")
	for _, name := range names {
		fmt.Fprintf(w, "  %s -> %s\n", name, strings.Join(graph[name], ", "))
	}
	if tu.Function("main") != nil {
		if dead := compiler.Unreachable(tu, "main"); len(dead) > 0 {
			fmt.Fprintf(w, "unreachable from main: %s\n", strings.Join(dead, ", "))
		}
	}
	fmt.Fprintln(w)
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("dcc", flag.ContinueOnError)
	fs.SetOutput(stderr)
	showTokens := fs.Bool("tokens", false, "print the token stream")
	showAST := fs.Bool("ast", false, "print the AST as YAML")
	showSymbols := fs.Bool("symbols", false, "print the symbol tables after parsing")
	showCalls := fs.Bool("calls", false, "print the call graph and functions unreachable from main")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: dcc [-tokens] [-ast] [-symbols] [-calls] <file.dc>")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return 2
	}

	path, module, err := utils.ResolveSource(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "failed to read input file %q: %v\n", fs.Arg(0), err)
		return 1
	}

	// Lex
	ts, err := compiler.LexFile(path)
	if err != nil {
		fmt.Fprintln(stderr, "lex error:", err)
		return 1
	}
	if *showTokens {
		fmt.Fprintln(stdout, ts)
	}

	// Parse
	p := compiler.NewParser(ts)
	tu, err := p.Parse()
	if err != nil {
		fmt.Fprintln(stderr, "parse error:", err)
		return 1
	}
	if *showSymbols {
		fmt.Fprintln(stdout, "Symbols")
		fmt.Fprintln(stdout, p.Symbols())
	}

	b := &dumpBackend{w: stdout, ast: *showAST, calls: *showCalls}
	if err := b.Lower(tu, module); err != nil {
		fmt.Fprintln(stderr, "dump error:", err)
		return 1
	}

	if !*showTokens && !*showAST && !*showSymbols && !*showCalls {
		fmt.Fprintf(stdout, "%s: %d prototypes, %d functions\n", module, len(tu.Prototypes), len(tu.Functions))
	}
	return 0
}
