// Copyright © 2018 The ELPS authors

package lisp_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luthersystems/schemer/lisp"
)

func TestDefaultRegistry(t *testing.T) {
	reg := lisp.DefaultRegistry()
	for _, name := range []string{
		"error", "apply", "cons", "car", "cdr", "set-car!", "set-cdr!", "pair?",
		"null?", "list", "length", "eq?", "<", "<=", "=", ">=", ">", "+", "-",
		"*", "/", "sqrt", "display", "newline", "not", "number?", "string?",
		"symbol?", "procedure?", "abs", "quotient", "remainder", "true", "false",
	} {
		entry, ok := reg.Lookup(name)
		if assert.True(t, ok, name) {
			assert.NotEmpty(t, strings.TrimSpace(entry.Doc), name)
		}
	}
	_, ok := reg.Lookup("string-append")
	assert.False(t, ok, "library primitives are not core")
}

func TestRegistry(t *testing.T) {
	reg := lisp.NewRegistry()
	assert.Zero(t, reg.Len())

	fn := func(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
		return lisp.Integral(len(args)), nil
	}
	prim := reg.Define("count", lisp.AtLeast(0), fn, "Counts arguments.")
	assert.Equal(t, "count", prim.Name)
	reg.Constant("zero", lisp.Integral(0), "Zero.")
	reg.Define("alpha", lisp.Exactly(1), fn, "")
	assert.Equal(t, 3, reg.Len())

	var names []string
	for _, e := range reg.Builtins() {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"alpha", "count", "zero"}, names)

	entry, ok := reg.Lookup("count")
	require.True(t, ok)
	assert.Equal(t, "(count ...) [at least 0 arguments]", entry.Signature())
	entry, _ = reg.Lookup("zero")
	assert.Equal(t, "zero", entry.Signature())

	reg.Define("count", lisp.Exactly(0), fn, "Replaced.")
	assert.Equal(t, 3, reg.Len(), "redefinition replaces")
	entry, _ = reg.Lookup("count")
	assert.Equal(t, "Replaced.", entry.Doc)

	env := lisp.NewEnvRuntime(nil)
	require.NoError(t, lisp.InitializeUserEnv(env, lisp.WithRegistry(reg)))
	v, err := env.Eval(lisp.List(lisp.Symbol("count")))
	require.NoError(t, err)
	assert.Equal(t, lisp.Integral(0), v)
	_, err = env.Eval(lisp.List(lisp.Symbol("count"), lisp.Integral(1)))
	assert.EqualError(t, err, "arity-mismatch: count: expected 0 arguments, got 1")
}
