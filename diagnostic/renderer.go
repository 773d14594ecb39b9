// Copyright © 2024 The ELPS authors

package diagnostic

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
)

// tabWidth is the number of columns a tab occupies in a rendered line.
const tabWidth = 4

// Renderer writes diagnostics in the form
//
//	error: malformed-syntax: prog.scm: Malformed syntax: )
//	  --> prog.scm:2:1
//	   |
//	 2 |  )
//	   |  ^ malformed-syntax
//	   |
//	   = note: in car [primitive, 1 args]
type Renderer struct {
	Color ColorMode

	// SourceReader returns the contents of a source file.  When nil the
	// file is read from disk.
	SourceReader func(string) ([]byte, error)
}

// Render writes d to w.
func (r *Renderer) Render(w io.Writer, d Diagnostic) error {
	var buf bytes.Buffer
	r.format(&buf, d, choosePalette(r.Color, fileFromWriter(w)))
	_, err := w.Write(buf.Bytes())
	return err
}

// RenderAll writes each diagnostic to w, separated by blank lines.
func (r *Renderer) RenderAll(w io.Writer, diags []Diagnostic) error {
	p := choosePalette(r.Color, fileFromWriter(w))
	var buf bytes.Buffer
	for i, d := range diags {
		if i > 0 {
			buf.WriteByte('\n')
		}
		r.format(&buf, d, p)
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (r *Renderer) format(buf *bytes.Buffer, d Diagnostic, p palette) {
	sevColor := p.boldRed
	if d.Severity == SeverityNote {
		sevColor = p.boldCyan
	}
	fmt.Fprintf(buf, "%s%s%s: %s%s%s\n", sevColor, d.Severity, p.reset, p.bold, d.Message, p.reset)
	for _, span := range d.Spans {
		r.formatSpan(buf, span, p)
	}
	for _, note := range d.Notes {
		fmt.Fprintf(buf, "   %s=%s note: %s\n", p.boldCyan, p.reset, note)
	}
}

func (r *Renderer) formatSpan(buf *bytes.Buffer, span Span, p palette) {
	loc := span.File
	if span.Line > 0 {
		loc += ":" + strconv.Itoa(span.Line)
		if span.Col > 0 {
			loc += ":" + strconv.Itoa(span.Col)
		}
	}
	fmt.Fprintf(buf, "  %s-->%s %s\n", p.boldBlue, p.reset, loc)

	text, ok := r.sourceLine(span.File, span.Line)
	if !ok {
		fmt.Fprintf(buf, "   %s|%s\n", p.boldBlue, p.reset)
		return
	}
	line := []rune(text)
	first, last := markedRange(line, span)

	gutter := strings.Repeat(" ", len(strconv.Itoa(span.Line)))
	bar := func() { fmt.Fprintf(buf, " %s%s |%s", p.boldBlue, gutter, p.reset) }
	bar()
	buf.WriteByte('\n')
	fmt.Fprintf(buf, " %s%d |%s  %s\n", p.boldBlue, span.Line, p.reset, expandTabs(line))
	bar()
	fmt.Fprintf(buf, "  %s%s%s%s",
		strings.Repeat(" ", width(line[:first])),
		p.boldRed, strings.Repeat("^", width(line[first:last+1])), p.reset)
	if span.Label != "" {
		fmt.Fprintf(buf, " %s%s%s", p.boldRed, span.Label, p.reset)
	}
	buf.WriteByte('\n')
	bar()
	buf.WriteByte('\n')
}

// markedRange returns the 0-based indexes of the first and last characters
// of line marked by span.  Columns are clamped to the line.
func markedRange(line []rune, span Span) (first, last int) {
	if span.Col <= 0 {
		for first < len(line) && unicode.IsSpace(line[first]) {
			first++
		}
		if first == len(line) {
			return 0, -1
		}
		last = len(line) - 1
		for last > first && unicode.IsSpace(line[last]) {
			last--
		}
		return first, last
	}
	if len(line) == 0 {
		return 0, -1
	}
	first = clamp(span.Col-1, len(line))
	last = first
	if span.EndCol > span.Col {
		last = clamp(span.EndCol-1, len(line))
	}
	return first, last
}

func clamp(i, n int) int {
	if i >= n {
		return n - 1
	}
	return i
}

func width(rs []rune) int {
	w := 0
	for _, c := range rs {
		if c == '\t' {
			w += tabWidth
		} else {
			w++
		}
	}
	return w
}

func expandTabs(rs []rune) string {
	return strings.ReplaceAll(string(rs), "\t", strings.Repeat(" ", tabWidth))
}

func (r *Renderer) sourceLine(file string, line int) (string, bool) {
	if file == "" || line <= 0 {
		return "", false
	}
	read := r.SourceReader
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(file)
	if err != nil {
		return "", false
	}
	lines := strings.Split(string(data), "\n")
	if line > len(lines) {
		return "", false
	}
	return strings.TrimSuffix(lines[line-1], "\r"), true
}

// fileFromWriter returns the file behind w, if any, for terminal detection.
func fileFromWriter(w io.Writer) *os.File {
	f, _ := w.(*os.File)
	return f
}
