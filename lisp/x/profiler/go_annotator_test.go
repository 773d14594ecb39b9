package profiler_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/x/profiler"
	"github.com/luthersystems/schemer/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPprofAnnotator(t *testing.T) {
	var seen []map[string]string
	var ppa interface{ Labels() map[string]string }

	reg := lisp.DefaultRegistry()
	reg.Define("observe", lisp.Exactly(0), func(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
		seen = append(seen, ppa.Labels())
		return lisp.Nil(), nil
	}, "Records the current pprof labels.")

	var out bytes.Buffer
	env := lisp.NewEnvRuntime(nil)
	err := lisp.InitializeUserEnv(env,
		lisp.WithRegistry(reg),
		lisp.WithReader(parser.NewReader()),
		lisp.WithStdout(&out))
	require.NoError(t, err)

	annotator := profiler.NewPprofAnnotator(env.Runtime, nil, profiler.WithSkipFilter(profiler.SkipPrimitives))
	ppa = annotator
	require.NoError(t, annotator.Enable())
	assert.Equal(t, env.Runtime.Profiler, annotator)

	_, err = env.Load("test.scm", strings.NewReader(`
(define (inner) (observe))
(define (outer) (inner) (observe))
(outer)
(observe)
`))
	require.NoError(t, err)
	assert.NoError(t, annotator.Complete())

	require.Len(t, seen, 3)
	assert.Equal(t, map[string]string{"function": "inner"}, seen[0])
	assert.Equal(t, map[string]string{"function": "outer"}, seen[1])
	assert.Equal(t, map[string]string{}, seen[2])
}

func TestPprofAnnotatorContext(t *testing.T) {
	var out bytes.Buffer
	env := lisp.NewEnvRuntime(nil)
	require.NoError(t, lisp.InitializeUserEnv(env, lisp.WithStdout(&out)))
	annotator := profiler.NewPprofAnnotator(env.Runtime, context.Background())
	assert.False(t, annotator.IsEnabled())
	require.NoError(t, annotator.Enable())
	assert.True(t, annotator.IsEnabled())
	assert.Error(t, annotator.Enable(), "profiler already enabled")
}
