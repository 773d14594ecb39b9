// Copyright © 2018 The ELPS authors

package syntax

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/luthersystems/schemer/lisp"
)

// MaxLineLength is the longest line accepted from a LineReader created by
// Lines.
const MaxLineLength = 1 << 20

// LineReader produces lines of source text.  ReadLine returns io.EOF after the
// last line.
type LineReader interface {
	ReadLine() (string, error)
}

type scannerLines struct {
	s *bufio.Scanner
}

// Lines returns a LineReader over the lines of r.
func Lines(r io.Reader) LineReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 4096), MaxLineLength)
	return &scannerLines{s}
}

func (l *scannerLines) ReadLine() (string, error) {
	if l.s.Scan() {
		return l.s.Text(), nil
	}
	if err := l.s.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

type readItem struct {
	expr lisp.Expression
	err  error
}

// ExpressionReader reads top-level expressions from a LineReader.  Each line
// is appended to the unconsumed text of the previous lines, joined by a
// space, and the program grammar is applied repeatedly to the accumulated
// text.  A single line may hold several expressions and a single expression
// may span several lines.
//
// Text which can never parse, such as an unbalanced closing parenthesis or a
// complete form outside the grammar, is reported as a malformed-syntax
// lisp.ErrorVal and discarded.  Reading continues after such an error.
type ExpressionReader struct {
	lines     LineReader
	remainder string
	queue     []readItem
	eof       bool
	line      int
}

// NewExpressionReader returns an ExpressionReader over lines.
func NewExpressionReader(lines LineReader) *ExpressionReader {
	return &ExpressionReader{lines: lines}
}

// Next implements lisp.ExpressionSource.  Next returns io.EOF when the
// underlying lines and all buffered expressions are exhausted.
func (r *ExpressionReader) Next() (lisp.Expression, error) {
	for {
		if len(r.queue) > 0 {
			item := r.queue[0]
			r.queue[0] = readItem{}
			r.queue = r.queue[1:]
			return item.expr, item.err
		}
		if r.eof {
			if !isBlank(r.remainder) {
				text := r.remainder
				r.remainder = ""
				return nil, syntaxError(lisp.Source{Line: r.line}, "Unexpected end of input: %s", strings.TrimSpace(text))
			}
			return nil, io.EOF
		}
		line, err := r.lines.ReadLine()
		if errors.Is(err, io.EOF) {
			r.eof = true
			continue
		}
		if err != nil {
			return nil, err
		}
		r.Feed(line)
	}
}

// Feed appends line to the pending text and parses every complete expression
// it now contains.  Parsed expressions are returned by subsequent calls to
// Next.
func (r *ExpressionReader) Feed(line string) {
	r.line++
	text := line
	if r.remainder != "" {
		text = r.remainder + " " + line
	}
	for {
		for {
			exprs, rest, err := Parse(text)
			if err != nil {
				break
			}
			for _, expr := range exprs {
				r.queue = append(r.queue, readItem{expr: expr})
			}
			text = rest
			if text == "" {
				break
			}
		}
		if isBlank(text) {
			text = ""
			break
		}
		bad, rest, complete := firstDatum(text)
		if !complete {
			break
		}
		pos := lisp.Source{Line: r.line}
		start := len(text) - len(strings.TrimLeftFunc(text, unicode.IsSpace))
		if col := column(text, line, start); col > 0 {
			pos.Col = col
			pos.EndCol = col + utf8.RuneCountInString(bad) - 1
		}
		r.queue = append(r.queue, readItem{err: syntaxError(pos, "Malformed syntax: %s", bad)})
		text = rest
	}
	r.remainder = text
}

// Pending returns true if text has been read which does not yet form a
// complete expression.
func (r *ExpressionReader) Pending() bool {
	return !isBlank(r.remainder)
}

// Line returns the number of lines fed to the reader.
func (r *ExpressionReader) Line() int {
	return r.line
}

// Reset discards pending text and buffered expressions.
func (r *ExpressionReader) Reset() {
	r.remainder = ""
	r.queue = nil
}

// syntaxError returns a malformed-syntax error detected at pos.
func syntaxError(pos lisp.Source, format string, v ...interface{}) error {
	return &lisp.ErrorVal{
		Cond:    lisp.CondMalformedSyntax,
		Message: fmt.Sprintf(format, v...),
		Source:  &pos,
	}
}

// column returns the 1-based column of text[pos:] within line, which ends
// text.  Positions in text preceding line have no column and return 0.
func column(text, line string, pos int) int {
	lineStart := len(text) - len(line)
	if pos < lineStart {
		return 0
	}
	return utf8.RuneCountInString(line[:pos-lineStart]) + 1
}

func isBlank(s string) bool {
	return strings.TrimLeftFunc(s, unicode.IsSpace) == ""
}

// firstDatum splits the leading datum from text.  The datum is delimited
// lexically, by balanced parentheses and string quotes, without regard to
// the grammar.  If the datum is not yet closed firstDatum returns false.
func firstDatum(text string) (datum string, rest string, complete bool) {
	s := strings.TrimLeftFunc(text, unicode.IsSpace)
	i := 0
	for i < len(s) && s[i] == '\'' {
		i++
	}
	if i == len(s) {
		return "", text, false
	}
	switch s[i] {
	case ')':
		return s[:i+1], s[i+1:], true
	case '"':
		end := strings.IndexByte(s[i+1:], '"')
		if end < 0 {
			return "", text, false
		}
		end += i + 2
		return s[:end], s[end:], true
	case '(':
		depth := 0
		instr := false
		for j := i; j < len(s); j++ {
			c := s[j]
			switch {
			case instr:
				if c == '"' {
					instr = false
				}
			case c == '"':
				instr = true
			case c == '(':
				depth++
			case c == ')':
				depth--
				if depth == 0 {
					return s[:j+1], s[j+1:], true
				}
			}
		}
		return "", text, false
	default:
		end := strings.IndexFunc(s[i:], func(r rune) bool {
			return unicode.IsSpace(r) || r == '(' || r == ')' || r == '"'
		})
		if end < 0 {
			return s, "", true
		}
		if end == 0 {
			end = 1
		}
		return s[:i+end], s[i+end:], true
	}
}

// Reader implements lisp.Reader using the grammar in this package.
type Reader struct{}

// NewReader returns a lisp.Reader which parses source with the grammar in
// this package.
func NewReader() lisp.Reader {
	return &Reader{}
}

// Read implements lisp.Reader.  The first malformed form is returned as an
// error naming the source.
func (*Reader) Read(name string, r io.Reader) ([]lisp.Expression, error) {
	er := NewExpressionReader(Lines(r))
	var exprs []lisp.Expression
	for {
		expr, err := er.Next()
		if errors.Is(err, io.EOF) {
			return exprs, nil
		}
		if err != nil {
			var lerr *lisp.ErrorVal
			if errors.As(err, &lerr) {
				var src *lisp.Source
				if lerr.Source != nil {
					pos := *lerr.Source
					pos.File = name
					src = &pos
				}
				return nil, &lisp.ErrorVal{
					Cond:    lerr.Cond,
					Message: fmt.Sprintf("%s: %s", name, lerr.Message),
					Source:  src,
				}
			}
			return nil, err
		}
		exprs = append(exprs, expr)
	}
}
