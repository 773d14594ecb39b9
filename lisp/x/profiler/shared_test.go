package profiler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/schemetest"
	"github.com/stretchr/testify/require"
)

const testLisp = `
(define (add-it x y)
  "@trace{ Add It }"
  (+ x y))
(define (add-again x)
  "@trace"
  (add-it x x))
(define (recurse-it x)
  (if (< x 4)
      (add-it x 3)
      (recurse-it (- x 1))))
(display (recurse-it 5))
(display (add-again 2))
`

// runTestLisp evaluates testLisp in env and checks its output.
func runTestLisp(t *testing.T, env *lisp.Env, out *bytes.Buffer) {
	t.Helper()
	_, err := env.Load("test.scm", strings.NewReader(testLisp))
	if err != nil {
		schemetest.LispError(t, err)
		t.FailNow()
	}
	require.Equal(t, "64", out.String())
}
