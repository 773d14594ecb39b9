// Copyright © 2018 The ELPS authors

package syntax_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/syntax"
)

func TestAtoms(t *testing.T) {
	tests := []struct {
		input   string
		printed string
		want    lisp.Expression
	}{
		{"42", "42", lisp.Integral(42)},
		{"0", "0", lisp.Integral(0)},
		{"3.14", "3.14", lisp.Fractional(3.14)},
		{"5.", "5.0", lisp.Fractional(5)},
		{".5", "0.5", lisp.Fractional(0.5)},
		{`"hello world"`, `"hello world"`, lisp.Str("hello world")},
		{`""`, `""`, lisp.Str("")},
		{`"a (b"`, `"a (b"`, lisp.Str("a (b")},
		{"foo", "foo", lisp.Symbol("foo")},
		{"null?", "null?", lisp.Symbol("null?")},
		{"set-car!", "set-car!", lisp.Symbol("set-car!")},
		{"<=", "<=", lisp.Symbol("<=")},
		{"-5", "-5", lisp.Symbol("-5")},
		{"x2", "x2", lisp.Symbol("x2")},
		{"()", "()", lisp.Nil()},
	}
	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			expr, err := syntax.ParseExpression(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.want, expr)
			assert.Equal(t, test.printed, expr.String())
		})
	}
}

func TestAtomParsers(t *testing.T) {
	assert.True(t, syntax.Integral().Parse("12").OK())
	assert.False(t, syntax.Integral().Parse("x").OK())
	assert.False(t, syntax.Fractional().Parse("12").OK())
	assert.True(t, syntax.String().Parse(`"x"`).OK())
	assert.False(t, syntax.String().Parse(`"x`).OK())
	assert.False(t, syntax.Symbol().Parse("123").OK(), "all digit symbols are integers")
	assert.True(t, syntax.Unit().Parse("()").OK())
	assert.False(t, syntax.Unit().Parse("( )").OK())
}

func TestForms(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		printed string
		check   func(t *testing.T, expr lisp.Expression)
	}{
		{"quote tick", "'x", "(quote x)", func(t *testing.T, expr lisp.Expression) {
			q := expr.(*lisp.Quote)
			assert.Equal(t, lisp.Symbol("x"), q.Datum)
		}},
		{"quote form", "(quote (a b))", "(quote (a b))", func(t *testing.T, expr lisp.Expression) {
			assert.IsType(t, &lisp.Quote{}, expr)
		}},
		{"lambda", "(lambda (x y) (+ x y))", "(lambda (x y) (+ x y))", func(t *testing.T, expr lisp.Expression) {
			l := expr.(*lisp.Lambda)
			assert.Equal(t, []lisp.Symbol{"x", "y"}, l.Params)
			assert.Len(t, l.Body, 1)
		}},
		{"lambda no params", "(lambda () 1 2)", "(lambda () 1 2)", func(t *testing.T, expr lisp.Expression) {
			l := expr.(*lisp.Lambda)
			assert.Empty(t, l.Params)
			assert.Len(t, l.Body, 2)
		}},
		{"define", "(define x 1)", "(define x 1)", func(t *testing.T, expr lisp.Expression) {
			d := expr.(*lisp.Definition)
			assert.Equal(t, lisp.Symbol("x"), d.Variable)
			assert.Equal(t, lisp.Integral(1), d.Value)
		}},
		{"define procedure", "(define (sq x) (* x x))", "(define sq (lambda (x) (* x x)))", func(t *testing.T, expr lisp.Expression) {
			d := expr.(*lisp.Definition)
			assert.Equal(t, lisp.Symbol("sq"), d.Variable)
			assert.IsType(t, &lisp.Lambda{}, d.Value)
		}},
		{"define thunk", "(define (f) 1)", "(define f (lambda () 1))", nil},
		{"set!", "(set! x (+ x 1))", "(set! x (+ x 1))", func(t *testing.T, expr lisp.Expression) {
			assert.IsType(t, &lisp.Assignment{}, expr)
		}},
		{"if", "(if (< a b) a b)", "(if (< a b) a b)", func(t *testing.T, expr lisp.Expression) {
			assert.IsType(t, &lisp.If{}, expr)
		}},
		{"begin", "(begin (display 1) 2)", "(begin (display 1) 2)", func(t *testing.T, expr lisp.Expression) {
			assert.Len(t, expr.(*lisp.Begin).Body, 2)
		}},
		{"cond", "(cond ((> x 0) 1) (else 2))", "(cond ((> x 0) 1) (else 2))", func(t *testing.T, expr lisp.Expression) {
			c := expr.(*lisp.Cond)
			assert.Len(t, c.Clauses, 2)
			assert.Equal(t, "(if (> x 0) (begin 1) (begin 2))", c.Expand().String())
		}},
		{"let", "(let ((x 1) (y 2)) (+ x y))", "(let ((x 1) (y 2)) (+ x y))", func(t *testing.T, expr lisp.Expression) {
			l := expr.(*lisp.Let)
			assert.Len(t, l.Bindings, 2)
			assert.Equal(t, "((lambda (x y) (+ x y)) 1 2)", l.Expand().String())
		}},
		{"combination", "(f 1 \"a\" 'b)", "(f 1 \"a\" (quote b))", func(t *testing.T, expr lisp.Expression) {
			cells, ok := lisp.ListCells(expr)
			require.True(t, ok)
			assert.Len(t, cells, 4)
		}},
		{"extra whitespace", "(  f \t x\n )", "(f x)", nil},
		{"nested", "((lambda (x) x) 1)", "((lambda (x) x) 1)", nil},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			expr, err := syntax.ParseExpression(test.input)
			require.NoError(t, err)
			assert.Equal(t, test.printed, expr.String())
			if test.check != nil {
				test.check(t, expr)
			}
		})
	}
}

func TestQuotedSyntaxIsData(t *testing.T) {
	expr, err := syntax.ParseExpression("'(lambda (x) (if x 1 2))")
	require.NoError(t, err)
	q := expr.(*lisp.Quote)
	p, ok := q.Datum.(*lisp.Pair)
	require.True(t, ok, "quoted forms are plain lists")
	assert.Equal(t, lisp.Symbol("lambda"), p.Car)
	cells, ok := lisp.ListCells(p)
	require.True(t, ok)
	assert.IsType(t, &lisp.Pair{}, cells[2])
}

func TestMisshapenForms(t *testing.T) {
	// forms which do not have the shape of their keyword read as combinations
	for _, input := range []string{
		"(if a b)",
		"(lambda x x)",
		"(define 1 2)",
		"(set! x)",
		"(let x 1)",
		"(cond)",
		"(iffy a b c)",
		"(define-thing a b)",
	} {
		t.Run(input, func(t *testing.T) {
			expr, err := syntax.ParseExpression(input)
			require.NoError(t, err)
			assert.IsType(t, &lisp.Pair{}, expr)
			assert.Equal(t, input, expr.String())
		})
	}
}

func TestParse(t *testing.T) {
	exprs, rest, err := syntax.Parse("1 2 (f x)")
	require.NoError(t, err)
	assert.Len(t, exprs, 3)
	assert.Equal(t, "", rest)

	exprs, rest, err = syntax.Parse("  1 2 ) 3")
	require.NoError(t, err)
	assert.Len(t, exprs, 2)
	assert.Equal(t, ") 3", rest)

	_, rest, err = syntax.Parse(")")
	assert.Error(t, err)
	assert.Equal(t, ")", rest)

	// elements must be separated by whitespace
	_, _, err = syntax.Parse("(a(b))")
	assert.Error(t, err)

	_, _, err = syntax.Parse("99999999999999999999")
	assert.Error(t, err)
}

func TestParseExpression(t *testing.T) {
	expr, err := syntax.ParseExpression("  (f x)  ")
	require.NoError(t, err)
	assert.Equal(t, "(f x)", expr.String())

	_, err = syntax.ParseExpression("1 2")
	assert.Error(t, err)
	_, err = syntax.ParseExpression("")
	assert.Error(t, err)
	_, err = syntax.ParseExpression("(f x")
	assert.Error(t, err)
}

func TestPrintedFormsReadBack(t *testing.T) {
	sources := []string{
		"(define (fact n) (if (= n 0) 1 (* n (fact (- n 1)))))",
		"(let ((a 1.5) (b \"s\")) (cond ((null? a) 'x) (else (begin (set! a 2) a))))",
		"((lambda () (quote (1 2.0 \"three\" four))))",
		"(f () 0.25)",
	}
	for _, src := range sources {
		first, err := syntax.ParseExpression(src)
		require.NoError(t, err, src)
		second, err := syntax.ParseExpression(first.String())
		require.NoError(t, err, first.String())
		if diff := cmp.Diff(lisp.Datum(first), lisp.Datum(second)); diff != "" {
			t.Errorf("%s: reread mismatch (-first +second):\n%s", src, diff)
		}
	}
}
