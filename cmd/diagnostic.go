// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"

	"github.com/spf13/viper"

	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/repl"
)

func colorMode() diagnostic.ColorMode {
	switch viper.GetString(keyColor) {
	case "always":
		return diagnostic.ColorAlways
	case "never":
		return diagnostic.ColorNever
	default:
		return diagnostic.ColorAuto
	}
}

func newRenderer() *diagnostic.Renderer {
	return &diagnostic.Renderer{Color: colorMode()}
}

// renderLispError renders err with diagnostic formatting to w.  Errors read
// from a named source file point at the offending line.
func renderLispError(w io.Writer, err error) {
	diags := []diagnostic.Diagnostic{repl.ErrorDiagnostic(err)}
	if lisp.Condition(err) == lisp.CondStackOverflow {
		diags = append(diags, repl.Hint("the stack limit is set with --"+keyMaxStackHeight))
	}
	_ = newRenderer().RenderAll(w, diags)
}
