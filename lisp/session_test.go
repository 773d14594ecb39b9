// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser"
	"github.com/luthersystems/schemer/schemetest"
)

func TestSessionRun(t *testing.T) {
	var out bytes.Buffer
	env := schemetest.NewEnv(t, &out)
	var reported []error
	s := lisp.NewSession(env)
	s.Report = func(err error) { reported = append(reported, err) }

	src := parser.NewExpressionSource(strings.NewReader(`
		(define x 1)
		x
		(car x)
		)
		(display "out")
		(+ x 1)`))
	failures, err := s.Run(src)
	require.NoError(t, err)
	assert.Equal(t, 2, failures)
	assert.Equal(t, "1\nout2\n", out.String())
	require.Len(t, reported, 2)
	assert.Equal(t, lisp.CondWrongType, lisp.Condition(reported[0]))
	assert.Equal(t, lisp.CondMalformedSyntax, lisp.Condition(reported[1]))
	assert.Zero(t, env.Runtime.Stack.Height())
}

func TestSessionNoPrint(t *testing.T) {
	var out bytes.Buffer
	env := schemetest.NewEnv(t, &out)
	s := &lisp.Session{Env: env}
	src := lisp.SliceSource{lisp.Integral(1), lisp.Str("s"), lisp.List(lisp.Symbol("display"), lisp.Str("shown"))}
	failures, err := s.Run(&src)
	require.NoError(t, err)
	assert.Zero(t, failures)
	assert.Equal(t, "shown", out.String())
}

func TestSessionDefaultReport(t *testing.T) {
	var out, stderr bytes.Buffer
	env := schemetest.NewEnv(t, &out, lisp.WithStderr(&stderr))
	s := lisp.NewSession(env)
	src := lisp.SliceSource{lisp.Symbol("nope"), lisp.Integral(7)}
	failures, err := s.Run(&src)
	require.NoError(t, err)
	assert.Equal(t, 1, failures)
	assert.Equal(t, "7\n", out.String())
	assert.Equal(t, "unbound-variable: Unbound variable: nope\n", stderr.String())
}

type failingSource struct {
	exprs []lisp.Expression
	err   error
}

func (s *failingSource) Next() (lisp.Expression, error) {
	if len(s.exprs) == 0 {
		return nil, s.err
	}
	expr := s.exprs[0]
	s.exprs = s.exprs[1:]
	return expr, nil
}

func TestSessionSourceError(t *testing.T) {
	var out bytes.Buffer
	env := schemetest.NewEnv(t, &out)
	s := lisp.NewSession(env)
	ioerr := errors.New("disk on fire")
	src := &failingSource{exprs: []lisp.Expression{lisp.Integral(1)}, err: ioerr}
	failures, err := s.Run(src)
	assert.ErrorIs(t, err, ioerr)
	assert.Zero(t, failures)
	assert.Equal(t, "1\n", out.String())
}

func TestSessionEval(t *testing.T) {
	var out bytes.Buffer
	env := schemetest.NewEnv(t, &out)
	s := lisp.NewSession(env)
	v, err := s.Eval(lisp.List(lisp.Symbol("+"), lisp.Integral(1), lisp.Integral(2)))
	require.NoError(t, err)
	assert.Equal(t, lisp.Integral(3), v)
	assert.Equal(t, "3\n", out.String())

	out.Reset()
	v, err = s.Eval(&lisp.Definition{Variable: "z", Value: lisp.Integral(1)})
	require.NoError(t, err)
	assert.Equal(t, lisp.Nil(), v)
	assert.Empty(t, out.String(), "the empty list is not printed")
}

func TestSliceSource(t *testing.T) {
	src := lisp.SliceSource{lisp.Integral(1)}
	v, err := src.Next()
	require.NoError(t, err)
	assert.Equal(t, lisp.Integral(1), v)
	_, err = src.Next()
	assert.ErrorIs(t, err, io.EOF)
}
