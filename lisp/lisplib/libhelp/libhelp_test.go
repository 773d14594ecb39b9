// Copyright © 2021 The ELPS authors

package libhelp_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib"
	"github.com/luthersystems/schemer/lisp/lisplib/libhelp"
	"github.com/luthersystems/schemer/schemetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelp(t *testing.T) {
	tests := schemetest.TestSuite{
		{"primitive", schemetest.TestSequence{
			{`(help 'car)`, "()", "primitive (car ...) [1 arguments]\n  Returns the first element of a pair.\n"},
			{`(help car)`, "()", "primitive (car ...) [1 arguments]\n  Returns the first element of a pair.\n"},
		}},
		{"constant", schemetest.TestSequence{
			{`(help 'pi)`, "()", "constant pi 3.141592653589793\n  The ratio of a circle's circumference to its diameter.\n"},
		}},
		{"compound", schemetest.TestSequence{
			{`(define (square x) (* x x))`, "()", ""},
			{`(help 'square)`, "()", "compound (square x)\n"},
			{`(define k 3)`, "()", ""},
			{`(help 'k)`, "()", "value k 3\n"},
		}},
		{"errors", schemetest.TestSequence{
			{`(help 'no-such-thing)`, "unbound-variable: Unbound variable: no-such-thing", ""},
			{`(help 3)`, "wrong-type: argument is not a symbol: 3", ""},
		}},
	}
	schemetest.RunTestSuite(t, tests)
}

func TestHelpListing(t *testing.T) {
	var out bytes.Buffer
	env := schemetest.NewEnv(t, &out)
	_, err := env.Load("test", strings.NewReader(`(help)`))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Equal(t, env.Runtime.Registry.Len(), len(lines))
	assert.Contains(t, out.String(), "  car"+strings.Repeat(" ", 15)+"Returns the first element of a pair.\n")
}

func TestRenderEntry(t *testing.T) {
	reg := lisp.NewRegistry()
	reg.Define("frob", lisp.Range(1, 2), nil, `
		Frobnicates its argument.
		The optional second argument is ignored and exists so that this
		docstring spans more than one line.`)
	entry, ok := reg.Lookup("frob")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderEntry(&buf, entry))
	assert.Equal(t, strings.Join([]string{
		"primitive (frob ...) [1 to 2 arguments]",
		"  Frobnicates its argument.",
		"  The optional second argument is ignored and exists so that this",
		"  docstring spans more than one line.",
		"",
	}, "\n"), buf.String())
}

func TestRenderWrapsLongDocs(t *testing.T) {
	reg := lisp.NewRegistry()
	long := strings.Repeat("word ", 40)
	reg.Define("long", lisp.Exactly(0), nil, long)
	entry, _ := reg.Lookup("long")

	var buf bytes.Buffer
	require.NoError(t, libhelp.RenderEntry(&buf, entry))
	for _, line := range strings.Split(buf.String(), "\n") {
		assert.LessOrEqual(t, len(line), libhelp.WrapWidth+2, line)
	}
}

func TestCheckMissing(t *testing.T) {
	reg, err := lisplib.NewRegistry()
	require.NoError(t, err)
	assert.Empty(t, libhelp.CheckMissing(reg), "every standard primitive is documented")

	reg.Define("undocumented", lisp.Exactly(0), nil, "")
	reg.Constant("bare", lisp.Integral(1), "  ")
	missing := libhelp.CheckMissing(reg)
	assert.Equal(t, []libhelp.MissingDoc{
		{Kind: "constant", Name: "bare"},
		{Kind: "primitive", Name: "undocumented"},
	}, missing)
}
