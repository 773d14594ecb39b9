// Copyright © 2018 The ELPS authors

package lisp

import "fmt"

// Procedure is an applicable value.  Procedures are first class and evaluate
// to themselves.
type Procedure interface {
	Expression
	// ProcName returns the name the procedure was created with, or the empty
	// string for an anonymous compound procedure.
	ProcName() string

	procedure()
}

// Builtin is the native implementation of a Primitive.  Operands are already
// evaluated and have been checked against the primitive's Arity.
type Builtin func(env *Env, args []Expression) (Expression, error)

// Arity is the accepted number of operands for a primitive.  A negative Max
// accepts any number of operands at or above Min.
type Arity struct {
	Min int
	Max int
}

// Exactly returns an Arity accepting exactly n operands.
func Exactly(n int) Arity {
	return Arity{n, n}
}

// AtLeast returns an Arity accepting n or more operands.
func AtLeast(n int) Arity {
	return Arity{n, -1}
}

// Range returns an Arity accepting between min and max operands, inclusive.
func Range(min, max int) Arity {
	return Arity{min, max}
}

// Check returns false if n operands are not accepted.
func (a Arity) Check(n int) bool {
	if n < a.Min {
		return false
	}
	return a.Max < 0 || n <= a.Max
}

func (a Arity) String() string {
	switch {
	case a.Max < 0:
		return fmt.Sprintf("at least %d", a.Min)
	case a.Min == a.Max:
		return fmt.Sprint(a.Min)
	default:
		return fmt.Sprintf("%d to %d", a.Min, a.Max)
	}
}

// Primitive is a procedure implemented in Go.
type Primitive struct {
	Name  string
	Arity Arity
	Fn    Builtin
	Doc   string
}

// Compound is a procedure created by evaluating a lambda.  It closes over the
// environment in which the lambda was evaluated.
type Compound struct {
	Name   string
	Env    *Env
	Params []Symbol
	Body   []Expression
}

func (*Primitive) expression() {}
func (*Compound) expression()  {}
func (*Primitive) procedure()  {}
func (*Compound) procedure()   {}

// ProcName implements Procedure.
func (p *Primitive) ProcName() string {
	return p.Name
}

// ProcName implements Procedure.
func (c *Compound) ProcName() string {
	return c.Name
}

func (p *Primitive) String() string {
	return "#<primitive " + p.Name + ">"
}

func (c *Compound) String() string {
	if c.Name == "" {
		return "#<compound>"
	}
	return "#<compound " + c.Name + ">"
}
