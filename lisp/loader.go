// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
)

// Reader abstracts a parser implementation so that it may be implemented in a
// separate package as an optional/swappable component.
type Reader interface {
	// Read the contents of r and return the sequence of Expressions that it
	// contains.  The returned Expressions are evaluated in order as top-level
	// forms.
	Read(name string, r io.Reader) ([]Expression, error)
}

// ExpressionSource produces top-level expressions one at a time.  Next
// returns io.EOF when the source is exhausted.  Any other error reports a
// form which could not be read; the source remains usable afterwards.
type ExpressionSource interface {
	Next() (Expression, error)
}

// SliceSource is an ExpressionSource over a fixed slice of expressions.
type SliceSource []Expression

// Next implements ExpressionSource.
func (s *SliceSource) Next() (Expression, error) {
	if len(*s) == 0 {
		return nil, io.EOF
	}
	expr := (*s)[0]
	*s = (*s)[1:]
	return expr, nil
}

// Load reads the contents of r using env's Reader and evaluates each
// expression in env.  The value of the last expression is returned.
func (env *Env) Load(name string, r io.Reader) (Expression, error) {
	if env.Runtime.Reader == nil {
		return nil, env.Errorf(CondMalformedSyntax, "no reader configured")
	}
	exprs, err := env.Runtime.Reader.Read(name, r)
	if err != nil {
		return nil, env.GoError(CondMalformedSyntax, err)
	}
	var v Expression = Unit{}
	for _, expr := range exprs {
		v, err = env.Eval(expr)
		if err != nil {
			return nil, err
		}
	}
	return v, nil
}
