package compiler

import (
	"io"
	"testing"
)

// simpleSource is a minimal DummyC program used for benchmarking the fast path.
const simpleSource = `
int add(int a, int b) {
	return a + b;
}

int main() {
	int x;
	x = add(3, 4);
	return x;
}
`

// complexSource is a larger program exercising prototypes, recursion,
// nested calls and long operator chains.
const complexSource = `
/* forward declarations */
int fib(int n);
int scale(int v, int k);
int unused(int q);

int square(int n) {
	return n * n;
}

int scale(int v, int k) {
	int r;
	r = v * k / 2;
	return r;
}

int fib(int n) {
	// no conditionals in DummyC, so this never terminates at run time
	return fib(n - 1) + fib(n - 2);
}

int poly(int x, int y, int z) {
	int a;
	int b;
	int c;
	a = x * x - y * y;
	b = scale(a, z) + square(y - z);
	c = a - b - z * 3 / 1;
	;
	return a + b + c;
}

int main() {
	int s;
	int t;
	s = poly(1, 2, 3);
	t = scale(square(s), fib(10));
	return s - t + 0042;
}
`

// --- Lex benchmarks ---

func BenchmarkLex_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Lex(simpleSource)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLex_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_, err := Lex(complexSource)
		if err != nil {
			b.Fatal(err)
		}
	}
}

// --- Parse benchmarks ---
// Tokens are pre-computed outside the timed region; the cursor is rewound
// before every run.

func BenchmarkParse_Simple(b *testing.B) {
	ts, err := Lex(simpleSource)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ts.SetPos(0)
		if _, err := Parse(ts); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParse_Complex(b *testing.B) {
	ts, err := Lex(complexSource)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ts.SetPos(0)
		if _, err := Parse(ts); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Dump benchmarks ---

func BenchmarkDumpYAML_Complex(b *testing.B) {
	tu, err := ParseSource(complexSource)
	if err != nil {
		b.Fatal(err)
	}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := DumpYAML(io.Discard, tu); err != nil {
			b.Fatal(err)
		}
	}
}

// --- Full pipeline benchmarks (Lex + Parse + CallGraph) ---

func BenchmarkCompilerPipeline_Simple(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tu, err := ParseSource(simpleSource)
		if err != nil {
			b.Fatal(err)
		}
		_ = CallGraph(tu)
	}
}

func BenchmarkCompilerPipeline_Complex(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		tu, err := ParseSource(complexSource)
		if err != nil {
			b.Fatal(err)
		}
		_ = CallGraph(tu)
	}
}
