// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"fmt"
	"io"
)

// Session evaluates a stream of top-level expressions against one persistent
// global environment.  An error aborts only the expression that raised it.
type Session struct {
	Env *Env
	// Print controls whether values other than Unit are written to the
	// runtime's Stdout on their own line.
	Print bool
	// Report is called for every form which fails to read or evaluate.  When
	// Report is nil errors are written to the runtime's Stderr.
	Report func(err error)
}

// NewSession returns a Session over env which prints results.
func NewSession(env *Env) *Session {
	return &Session{Env: env, Print: true}
}

// Run evaluates every expression produced by src and returns the number of
// forms which failed.  Run stops early only when src returns an error which
// is not an ErrorVal, which is returned.
func (s *Session) Run(src ExpressionSource) (int, error) {
	var failures int
	for {
		expr, err := src.Next()
		if errors.Is(err, io.EOF) {
			return failures, nil
		}
		if err != nil {
			var lerr *ErrorVal
			if !errors.As(err, &lerr) {
				return failures, err
			}
			failures++
			s.report(err)
			continue
		}
		_, err = s.Eval(expr)
		if err != nil {
			failures++
			s.report(err)
		}
	}
}

// Eval evaluates a single top-level expression and prints its value.
func (s *Session) Eval(expr Expression) (Expression, error) {
	v, err := s.Env.Eval(expr)
	if err != nil {
		s.Env.Runtime.Stack.Reset()
		return nil, err
	}
	if s.Print && !IsNil(v) {
		fmt.Fprintln(s.Env.Runtime.stdout(), v.String())
	}
	return v, nil
}

func (s *Session) report(err error) {
	if s.Report != nil {
		s.Report(err)
		return
	}
	w := s.Env.Runtime.Stderr
	if w == nil {
		return
	}
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		_, _ = lerr.WriteTrace(w)
		return
	}
	fmt.Fprintln(w, err)
}
