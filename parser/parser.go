// Copyright © 2018 The ELPS authors

package parser

import (
	"fmt"
	"io"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/regexparser"
	"github.com/luthersystems/schemer/parser/syntax"
)

// Reader names accepted by NewReaderNamed.
const (
	ReaderCombinator = "combinator"
	ReaderParsec     = "parsec"
)

// NewReader returns a new lisp.Reader
func NewReader() lisp.Reader {
	return syntax.NewReader()
}

// NewReaderNamed returns the lisp.Reader with the given name.
func NewReaderNamed(name string) (lisp.Reader, error) {
	switch name {
	case "", ReaderCombinator:
		return syntax.NewReader(), nil
	case ReaderParsec:
		return regexparser.NewReader(), nil
	default:
		return nil, fmt.Errorf("unknown reader: %q", name)
	}
}

// NewExpressionSource returns an incremental source of top-level expressions
// read line by line from r.
func NewExpressionSource(r io.Reader) *syntax.ExpressionReader {
	return syntax.NewExpressionReader(syntax.Lines(r))
}
