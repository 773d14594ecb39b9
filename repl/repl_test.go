package repl

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/lisp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runReplWithString(t *testing.T, input string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()

	go func() {
		defer inW.Close() //nolint:errcheck // test cleanup
		_, _ = io.WriteString(inW, input)
	}()

	go func() {
		RunRepl("schemer> ", WithStdin(inR), WithStdout(outW), WithStderr(outW), WithColor(diagnostic.ColorNever))
		inR.Close()  //nolint:errcheck,gosec // test cleanup
		outW.Close() //nolint:errcheck,gosec // test cleanup
	}()

	var output bytes.Buffer
	_, _ = io.Copy(&output, outR)
	outR.Close() //nolint:errcheck,gosec // test cleanup

	return output.String(), nil
}

func TestEnsureHistoryFilePermissions_CreatesWithRestrictedMode(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".schemer_history")

	// File does not exist yet.
	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err, "history file should be created")
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "new history file should have mode 0600")
}

func TestEnsureHistoryFilePermissions_RestrictsExistingFile(t *testing.T) {
	dir := t.TempDir()
	histFile := filepath.Join(dir, ".schemer_history")

	// Create the file with overly permissive mode.
	err := os.WriteFile(histFile, []byte("some history"), 0644)
	require.NoError(t, err)

	ensureHistoryFilePermissions(histFile)

	info, err := os.Stat(histFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm(), "existing history file should be restricted to 0600")

	// Verify contents are preserved.
	data, err := os.ReadFile(histFile)
	require.NoError(t, err)
	assert.Equal(t, "some history", string(data))
}

func TestEnsureHistoryFilePermissions_EmptyPathNoOp(t *testing.T) {
	// Should not panic or error with empty path.
	ensureHistoryFilePermissions("")
}

func TestWithEnvConfig(t *testing.T) {
	cfg := newConfig(
		WithEnvConfig(lisp.WithMaximumStackHeight(5)),
		WithEnvConfig(lisp.WithMaximumStackHeight(6), lisp.WithMaximumStackHeight(7)),
	)
	assert.Len(t, cfg.envs, 3)
}

func TestRunRepl(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "Simple Addition",
			input:    "(+ 1 1)\n",
			expected: []string{"2\n"},
		},
		{
			name:     "Error",
			input:    "fnord\n",
			expected: []string{"error: unbound-variable: Unbound variable: fnord", "use (help)"},
		},
		{
			name:     "Continues After Error",
			input:    "(car 1)\n(* 2 3)\n",
			expected: []string{"wrong-type: argument is not a pair: 1", "in car [primitive, 1 args]", "6\n"},
		},
		{
			name:     "Multiple Lines",
			input:    "(define (square x)\n  (* x x))\n(square 7)\n",
			expected: []string{"49\n"},
		},
		{
			name:     "Several Per Line",
			input:    "(define x 4) (display x) (newline)\n",
			expected: []string{"4\n"},
		},
		{
			name:     "Unbalanced",
			input:    ")\n(+ 2 2)\n",
			expected: []string{"Malformed syntax: )", "4\n"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := runReplWithString(t, tc.input)
			require.NoError(t, err)
			for _, want := range tc.expected {
				require.Contains(t, got, want)
			}
		})
	}
}
