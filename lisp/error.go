// Copyright © 2018 The ELPS authors

package lisp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Error conditions.  The condition of an ErrorVal classifies the error.
const (
	CondUnboundVariable = "unbound-variable"
	CondWrongType       = "wrong-type"
	CondArityMismatch   = "arity-mismatch"
	CondMalformedSyntax = "malformed-syntax"
	CondDivisionByZero  = "division-by-zero"
	CondUserError       = "user-error"
	CondStackOverflow   = "stack-overflow"
	CondIOError         = "io-error"
)

// ErrorVal is the error raised by evaluation.  Errors abort the evaluation of
// the current top-level expression and are never values in the language.
type ErrorVal struct {
	Cond    string
	Message string
	// Stack is a copy of the call stack at the time the error was raised.
	Stack *CallStack
	// Err is an underlying Go error, if any.
	Err error
	// Source locates errors raised while reading program text.
	Source *Source
}

// Source is a position in program text.  Line and columns are 1-based and
// zero when unknown.  EndCol is the last column of the offending text.
type Source struct {
	File   string
	Line   int
	Col    int
	EndCol int
}

func (s *Source) String() string {
	switch {
	case s.Line <= 0:
		return s.File
	case s.Col <= 0:
		return fmt.Sprintf("%s:%d", s.File, s.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Col)
	}
}

// Error implements the error interface.  User errors raised by the error
// primitive print only their message, which already begins with "Error:".
// Other conditions print preceding the message.
func (e *ErrorVal) Error() string {
	if e.Cond == CondUserError {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Cond, e.Message)
}

// Unwrap returns the Go error underlying e, if any.
func (e *ErrorVal) Unwrap() error {
	return e.Err
}

// Condition returns the error condition name (e.g. "unbound-variable").
func (e *ErrorVal) Condition() string {
	return e.Cond
}

// FunName returns the name of procedure on the top of the call stack when the
// error occurred.
func (e *ErrorVal) FunName() string {
	top := e.Stack.Top()
	if top == nil {
		return ""
	}
	return top.Name
}

// WriteTrace writes the error and a stack trace to w
func (e *ErrorVal) WriteTrace(w io.Writer) (int, error) {
	bw := bufio.NewWriter(w)
	var n int
	var err error
	wrote := func(_n int, _err error) bool {
		n += _n
		err = _err
		return err == nil
	}
	if !wrote(bw.WriteString(e.Error())) {
		return n, err
	}
	if !wrote(bw.WriteString("\n")) {
		return n, err
	}
	if e.Stack != nil && len(e.Stack.Frames) > 0 {
		if !wrote(e.Stack.DebugPrint(bw)) {
			return n, err
		}
	}
	return n, bw.Flush()
}

// Errorf returns an ErrorVal with the given condition and a formatted
// message.  The error carries a copy of env's call stack.
func (env *Env) Errorf(cond string, format string, v ...interface{}) *ErrorVal {
	return &ErrorVal{
		Cond:    cond,
		Message: fmt.Sprintf(format, v...),
		Stack:   env.stack().Copy(),
	}
}

// Error returns an ErrorVal with the given condition whose message is formed
// from args.  Strings are written without quotes and arguments are separated
// by spaces.
func (env *Env) Error(cond string, args ...Expression) *ErrorVal {
	return &ErrorVal{
		Cond:    cond,
		Message: displayJoin(args),
		Stack:   env.stack().Copy(),
	}
}

// GoError wraps err as an ErrorVal with condition cond.  If err is already an
// ErrorVal it is returned unmodified.
func (env *Env) GoError(cond string, err error) *ErrorVal {
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		return lerr
	}
	return &ErrorVal{
		Cond:    cond,
		Message: err.Error(),
		Stack:   env.stack().Copy(),
		Err:     err,
	}
}

// Condition returns the condition of err if it is an ErrorVal.  Otherwise
// Condition returns the empty string.
func Condition(err error) string {
	var lerr *ErrorVal
	if errors.As(err, &lerr) {
		return lerr.Cond
	}
	return ""
}

func displayJoin(args []Expression) string {
	var buf bytes.Buffer
	for i, arg := range args {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(Display(arg))
	}
	return buf.String()
}
