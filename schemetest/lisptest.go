// Copyright © 2018 The ELPS authors

// Package schemetest runs table driven tests and benchmarks of interpreter
// behavior.
package schemetest

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib"
	"github.com/luthersystems/schemer/parser"
)

// MaxStackHeight bounds the call stack of environments created by this
// package so that runaway recursion fails a test instead of the process.
const MaxStackHeight = 10000

func BenchmarkParse(path string, r func() lisp.Reader) func(*testing.B) {
	return func(b *testing.B) {
		buf, err := os.ReadFile(path) //#nosec G304
		if err != nil {
			b.Fatalf("Unable to read source file %v: %v", path, err)
		}
		b.SetBytes(int64(len(buf)))
		for i := 0; i < b.N; i++ {
			_, err := r().Read("test", bytes.NewReader(buf))
			if err != nil {
				b.Fatalf("Parse failure: %v", err)
			}
		}
	}
}

// NewEnv returns a global environment with the core primitives and the
// standard library installed.  Program output is written to stdout and
// diagnostics are written to the test log.
func NewEnv(t testing.TB, stdout *bytes.Buffer, config ...lisp.Config) *lisp.Env {
	reg := lisp.DefaultRegistry()
	err := lisplib.LoadLibrary(reg)
	if err != nil {
		t.Fatalf("failed to load library: %v", err)
	}
	env := lisp.NewEnvRuntime(nil)
	config = append([]lisp.Config{
		lisp.WithRegistry(reg),
		lisp.WithMaximumStackHeight(MaxStackHeight),
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(stdout),
		lisp.WithStderr(NewLogger(t)),
	}, config...)
	err = lisp.InitializeUserEnv(env, config...)
	if err != nil {
		t.Fatalf("failed to initialize environment: %v", err)
	}
	return env
}

// LispError reports err as a test error, including the stack trace of a
// lisp.ErrorVal.
func LispError(t testing.TB, err error) {
	lerr, ok := err.(*lisp.ErrorVal)
	if !ok {
		t.Error(err)
		return
	}
	var buf bytes.Buffer
	_, ioerr := lerr.WriteTrace(&buf)
	if ioerr != nil {
		t.Errorf("io error: %v", ioerr)
		t.Error(err)
		return
	}
	t.Error(buf.String())
}

// TestSequence is a sequence of expressions which are evaluated sequentially
// in one global environment.
type TestSequence []struct {
	Expr   string // an expression
	Result string // the printed result, or the error message
	Output string // program output written to Runtime.Stdout
}

// TestSuite is a set of named TestSequences
type TestSuite []struct {
	Name string
	TestSequence
}

// RunTestSuite runs each TestSequence in tests on isolated environments.
func RunTestSuite(t *testing.T, tests TestSuite) {
	for i, test := range tests {
		t.Logf("test %d -- %s", i, test.Name)
		var out bytes.Buffer
		env := NewEnv(t, &out)
		for j, expr := range test.TestSequence {
			out.Reset()
			v, err := env.Runtime.Reader.Read("test", strings.NewReader(expr.Expr))
			if err != nil {
				if err.Error() != expr.Result {
					t.Errorf("test %d %q: expr %d: parse error: %v", i, test.Name, j, err)
				}
				continue
			}
			if len(v) == 0 {
				t.Errorf("test %d %q: expr %d: no expression parsed", i, test.Name, j)
				continue
			}
			if len(v) != 1 {
				t.Errorf("test %d %q: expr %d: more than one expression parsed (%d)", i, test.Name, j, len(v))
				continue
			}
			var result string
			val, err := env.Eval(v[0])
			if err != nil {
				env.Runtime.Stack.Reset()
				result = err.Error()
			} else {
				result = val.String()
			}
			if result != expr.Result {
				t.Errorf("test %d %q: expr %d: expected result %s (got %s)", i, test.Name, j, expr.Result, result)
			}
			if out.String() != expr.Output {
				t.Errorf("test %d %q: expr %d: expected output %q (got %q)", i, test.Name, j, expr.Output, out.String())
			}
		}
	}
}

// RunBenchmark runs a standard benchmark that executes expressions parsed from
// source.
func RunBenchmark(b *testing.B, source string) {
	b.StopTimer()
	p := parser.NewReader()
	exprs, err := p.Read("benchmark", strings.NewReader(source))
	if err != nil {
		b.Fatalf("parse error: %v", err)
	}
	for i := 0; i < b.N; i++ {
		var out bytes.Buffer
		env := NewEnv(b, &out)
		b.StartTimer()
		for i, expr := range exprs {
			_, err := env.Eval(expr)
			if err != nil {
				b.Fatalf("expr %d: %v", i, err)
			}
		}
		b.StopTimer()
	}
}
