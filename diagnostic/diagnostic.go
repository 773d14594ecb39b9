// Copyright © 2024 The ELPS authors

// Package diagnostic renders interpreter errors as annotated source
// snippets for the command line.  It does not depend on the lisp package;
// callers translate their errors into a Diagnostic.
package diagnostic

// Severity is the level printed at the head of a diagnostic.
type Severity int

const (
	// SeverityError reports a failed read or evaluation.
	SeverityError Severity = iota
	// SeverityNote carries a hint following an error.
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span marks text in a source file.  Positions are 1-based.  A span without
// a column marks the text of the whole line.  A span without an end column
// marks a single character.
type Span struct {
	File   string
	Line   int
	Col    int
	EndCol int
	// Label is printed after the marker.
	Label string
}

// Diagnostic is a message with the source spans it concerns.  Notes follow
// the spans, one per line, and typically list call stack frames.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}
