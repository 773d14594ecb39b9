// Copyright © 2018 The ELPS authors

package syntax_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/syntax"
)

func readAll(t *testing.T, src string) ([]string, []error) {
	t.Helper()
	r := syntax.NewExpressionReader(syntax.Lines(strings.NewReader(src)))
	var printed []string
	var errs []error
	for {
		expr, err := r.Next()
		if errors.Is(err, io.EOF) {
			return printed, errs
		}
		if err != nil {
			errs = append(errs, err)
			printed = append(printed, "<error>")
			continue
		}
		printed = append(printed, expr.String())
	}
}

func TestExpressionReaderLines(t *testing.T) {
	printed, errs := readAll(t, "(define (f x)\n  (* x\n     x))\n1 2 3\n\n(f 3)\n")
	assert.Empty(t, errs)
	assert.Equal(t, []string{
		"(define f (lambda (x) (* x x)))",
		"1", "2", "3",
		"(f 3)",
	}, printed)
}

func TestExpressionReaderSyntaxError(t *testing.T) {
	printed, errs := readAll(t, "(+ 1 2)\n)\n3\n1 ) 2\n")
	assert.Equal(t, []string{"(+ 1 2)", "<error>", "3", "1", "<error>", "2"}, printed)
	require.Len(t, errs, 2)

	var lerr *lisp.ErrorVal
	require.ErrorAs(t, errs[0], &lerr)
	assert.Equal(t, lisp.CondMalformedSyntax, lerr.Cond)
	assert.Equal(t, "Malformed syntax: )", lerr.Message)
	require.NotNil(t, lerr.Source)
	assert.Equal(t, 2, lerr.Source.Line)

	assert.Equal(t, 1, lerr.Source.Col)

	require.ErrorAs(t, errs[1], &lerr)
	assert.Equal(t, &lisp.Source{Line: 4, Col: 3, EndCol: 3}, lerr.Source)
}

func TestExpressionReaderMalformedForm(t *testing.T) {
	printed, errs := readAll(t, "(a(b)) (c)")
	assert.Equal(t, []string{"<error>", "(c)"}, printed)
	require.Len(t, errs, 1)
	assert.EqualError(t, errs[0], "malformed-syntax: Malformed syntax: (a(b))")
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, errs[0], &lerr)
	assert.Equal(t, &lisp.Source{Line: 1, Col: 1, EndCol: 6}, lerr.Source)

	_, errs = readAll(t, "  \"é\" )")
	require.Len(t, errs, 1)
	require.ErrorAs(t, errs[0], &lerr)
	assert.Equal(t, 7, lerr.Source.Col, "columns count characters")
}

func TestExpressionReaderUnexpectedEOF(t *testing.T) {
	printed, errs := readAll(t, "1\n(+ 1\n2")
	assert.Equal(t, []string{"1", "<error>"}, printed)
	require.Len(t, errs, 1)
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, errs[0], &lerr)
	assert.Equal(t, "Unexpected end of input: (+ 1 2", lerr.Message)
	assert.Equal(t, 3, lerr.Source.Line)
	assert.Zero(t, lerr.Source.Col, "the unclosed form began on an earlier line")
}

func TestExpressionReaderFeed(t *testing.T) {
	r := syntax.NewExpressionReader(syntax.Lines(strings.NewReader("")))
	assert.False(t, r.Pending())

	r.Feed("(define x")
	assert.True(t, r.Pending())
	assert.Equal(t, 1, r.Line())

	r.Feed("  1)")
	assert.False(t, r.Pending())
	expr, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, "(define x 1)", expr.String())

	r.Feed("(display \"a")
	r.Feed("b\")")
	expr, err = r.Next()
	require.NoError(t, err)
	assert.Equal(t, "(display \"a b\")", expr.String(), "lines are joined by a space")

	r.Feed("(oops")
	r.Feed("1 2")
	assert.True(t, r.Pending())
	r.Reset()
	assert.False(t, r.Pending())
	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 6, r.Line())
}

func TestReaderRead(t *testing.T) {
	exprs, err := syntax.NewReader().Read("ok.scm", strings.NewReader("(define x 1)\n(display x)\n"))
	require.NoError(t, err)
	assert.Len(t, exprs, 2)

	exprs, err = syntax.NewReader().Read("empty.scm", strings.NewReader("\n  \n"))
	require.NoError(t, err)
	assert.Empty(t, exprs)

	_, err = syntax.NewReader().Read("test.scm", strings.NewReader("1\n)\n2\n"))
	var lerr *lisp.ErrorVal
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, lisp.CondMalformedSyntax, lerr.Cond)
	assert.Equal(t, "test.scm: Malformed syntax: )", lerr.Message)
	assert.Equal(t, &lisp.Source{File: "test.scm", Line: 2, Col: 1, EndCol: 1}, lerr.Source)
	assert.Equal(t, "test.scm:2:1", lerr.Source.String())
}
