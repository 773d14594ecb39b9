// Copyright © 2024 The ELPS authors

package repl

import (
	"errors"
	"io"

	"github.com/luthersystems/schemer/diagnostic"
	"github.com/luthersystems/schemer/lisp"
)

// renderError renders an error using the diagnostic renderer.  Input typed
// at the prompt has no file so only the message and the call stack are
// shown.
func renderError(w io.Writer, err error, color diagnostic.ColorMode) {
	diags := []diagnostic.Diagnostic{ErrorDiagnostic(err)}
	if lisp.Condition(err) == lisp.CondUnboundVariable {
		diags = append(diags, Hint("use (help) to list available primitives"))
	}
	r := &diagnostic.Renderer{Color: color}
	_ = r.RenderAll(w, diags)
}

// Hint returns a note diagnostic shown after an error.
func Hint(msg string) diagnostic.Diagnostic {
	return diagnostic.Diagnostic{Severity: diagnostic.SeverityNote, Message: msg}
}

// ErrorDiagnostic converts an error to a Diagnostic for display.  A
// lisp.ErrorVal contributes its source position as a span labeled with its
// condition and its call stack, innermost first, as notes.
func ErrorDiagnostic(err error) diagnostic.Diagnostic {
	d := diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Message:  err.Error(),
	}

	var ev *lisp.ErrorVal
	if !errors.As(err, &ev) {
		return d
	}

	if ev.Source != nil && ev.Source.File != "" && ev.Source.Line > 0 {
		d.Spans = append(d.Spans, diagnostic.Span{
			File:   ev.Source.File,
			Line:   ev.Source.Line,
			Col:    ev.Source.Col,
			EndCol: ev.Source.EndCol,
			Label:  ev.Cond,
		})
	}

	if ev.Stack != nil {
		for i := len(ev.Stack.Frames) - 1; i >= 0; i-- {
			frame := &ev.Stack.Frames[i]
			d.Notes = append(d.Notes, "in "+frame.String())
		}
	}

	return d
}
