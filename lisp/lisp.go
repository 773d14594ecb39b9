// Copyright © 2018 The ELPS authors

package lisp

import (
	"bytes"
	"math"
	"strconv"
	"strings"
)

// Symbols with special meaning to the evaluator.
const (
	TrueSymbol  = "true"
	FalseSymbol = "false"
	ElseSymbol  = "else"
)

// Expression is a value in the language.  Readers produce Expressions as
// syntax and evaluation produces Expressions as data.  The set of
// implementations is closed: Unit, Integral, Fractional, Str, Symbol, *Pair,
// *Quote, *Lambda, *Definition, *Assignment, *If, *Begin, *Cond, *Let,
// *Primitive and *Compound.
type Expression interface {
	// String returns the printed form of the expression.
	String() string

	expression()
}

// Unit is the empty list.  It also serves as the absent value returned by
// definitions, assignments and output primitives.
type Unit struct{}

// Integral is an exact integer.
type Integral int64

// Fractional is a floating point number.
type Fractional float64

// Str is a string literal.  Strings carry no escape sequences.
type Str string

// Symbol is an identifier.  Symbols are compared by name.
type Symbol string

// Pair is a mutable cons cell.  A chain of pairs whose final Cdr is Unit is a
// proper list, which is how combinations (applications in source code, and
// lists as data) are represented.  Cells may be shared by any number of
// holders and may form cycles through set-car! and set-cdr!.
type Pair struct {
	Car Expression
	Cdr Expression
}

// Quote holds an expression that evaluates to Datum without evaluating it.
type Quote struct {
	Datum Expression
}

// Lambda is a procedure literal.
type Lambda struct {
	Params []Symbol
	Body   []Expression
}

// Definition binds Variable in the innermost frame.
type Definition struct {
	Variable Symbol
	Value    Expression
}

// Assignment rebinds an existing Variable in the nearest frame owning it.
type Assignment struct {
	Variable Symbol
	Value    Expression
}

// If evaluates exactly one of Consequent and Alternative.
type If struct {
	Predicate   Expression
	Consequent  Expression
	Alternative Expression
}

// Begin evaluates Body in order and yields the last value.
type Begin struct {
	Body []Expression
}

// CondClause is one clause of a cond expression.
type CondClause struct {
	Test Expression
	Body []Expression
}

// Cond is a multi-way conditional.  It is evaluated through its expansion
// into nested If and Begin expressions.
type Cond struct {
	Clauses   []CondClause
	expansion Expression
}

// Binding is a single let binding.
type Binding struct {
	Name Symbol
	Init Expression
}

// Let introduces Bindings for Body.  It is evaluated through its expansion
// into an immediately applied Lambda.
type Let struct {
	Bindings  []Binding
	Body      []Expression
	expansion Expression
}

func (Unit) expression()        {}
func (Integral) expression()    {}
func (Fractional) expression()  {}
func (Str) expression()         {}
func (Symbol) expression()      {}
func (*Pair) expression()       {}
func (*Quote) expression()      {}
func (*Lambda) expression()     {}
func (*Definition) expression() {}
func (*Assignment) expression() {}
func (*If) expression()         {}
func (*Begin) expression()      {}
func (*Cond) expression()       {}
func (*Let) expression()        {}

// Nil returns the empty list.
func Nil() Expression {
	return Unit{}
}

// IsNil returns true if v is the empty list.
func IsNil(v Expression) bool {
	_, ok := v.(Unit)
	return ok
}

// Bool returns the symbol true or false.
func Bool(b bool) Expression {
	if b {
		return Symbol(TrueSymbol)
	}
	return Symbol(FalseSymbol)
}

// True returns true if v is truthy.  Every value other than the symbol false
// is truthy, including 0, "" and the empty list.
func True(v Expression) bool {
	return !Not(v)
}

// Not returns true if v is the symbol false.
func Not(v Expression) bool {
	sym, ok := v.(Symbol)
	return ok && sym == FalseSymbol
}

// Cons returns a new pair.
func Cons(car, cdr Expression) *Pair {
	return &Pair{Car: car, Cdr: cdr}
}

// List returns a proper list containing exprs.  An empty list is Unit.
func List(exprs ...Expression) Expression {
	var lis Expression = Unit{}
	for i := len(exprs) - 1; i >= 0; i-- {
		lis = &Pair{Car: exprs[i], Cdr: lis}
	}
	return lis
}

// ListCells returns the elements of the proper list v.  ListCells returns
// false if v is an improper or cyclic list, or is not a list at all.
func ListCells(v Expression) ([]Expression, bool) {
	var cells []Expression
	slow := v
	for i := 0; ; i++ {
		switch p := v.(type) {
		case Unit:
			return cells, true
		case *Pair:
			cells = append(cells, p.Car)
			v = p.Cdr
		default:
			return nil, false
		}
		if i%2 == 1 {
			slow = slow.(*Pair).Cdr
			if slow == v {
				if _, ok := v.(*Pair); ok {
					return nil, false
				}
			}
		}
	}
}

// NewCond returns a cond expression and computes its expansion.
func NewCond(clauses []CondClause) *Cond {
	return &Cond{
		Clauses:   clauses,
		expansion: expandCond(clauses),
	}
}

// Expand returns the nested If/Begin form of c.  The first else clause becomes
// the final default branch; without one the default is the symbol false.
func (c *Cond) Expand() Expression {
	if c.expansion == nil {
		c.expansion = expandCond(c.Clauses)
	}
	return c.expansion
}

func expandCond(clauses []CondClause) Expression {
	if len(clauses) == 0 {
		return Symbol(FalseSymbol)
	}
	first := clauses[0]
	if sym, ok := first.Test.(Symbol); ok && sym == ElseSymbol {
		return &Begin{Body: first.Body}
	}
	return &If{
		Predicate:   first.Test,
		Consequent:  &Begin{Body: first.Body},
		Alternative: expandCond(clauses[1:]),
	}
}

// NewLet returns a let expression and computes its expansion.
func NewLet(bindings []Binding, body []Expression) *Let {
	let := &Let{Bindings: bindings, Body: body}
	let.expansion = let.expand()
	return let
}

// Expand returns the application of a lambda over the binding names to the
// binding initializers.  Initializers are evaluated in the enclosing
// environment so no binding can see its siblings.
func (l *Let) Expand() Expression {
	if l.expansion == nil {
		l.expansion = l.expand()
	}
	return l.expansion
}

func (l *Let) expand() Expression {
	params := make([]Symbol, len(l.Bindings))
	comb := make([]Expression, 1+len(l.Bindings))
	for i, b := range l.Bindings {
		params[i] = b.Name
		comb[1+i] = b.Init
	}
	comb[0] = &Lambda{Params: params, Body: l.Body}
	return List(comb...)
}

func (Unit) String() string {
	return "()"
}

func (x Integral) String() string {
	return strconv.FormatInt(int64(x), 10)
}

// String formats x in positional notation, always including a decimal point so
// that the printed form reads back as a Fractional.
func (x Fractional) String() string {
	f := float64(x)
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "+Inf"
	case math.IsInf(f, -1):
		return "-Inf"
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func (s Str) String() string {
	return `"` + string(s) + `"`
}

func (s Symbol) String() string {
	return string(s)
}

func (p *Pair) String() string {
	var buf bytes.Buffer
	writePair(&buf, p, make(map[*Pair]bool))
	return buf.String()
}

func (q *Quote) String() string {
	return "(quote " + q.Datum.String() + ")"
}

func (l *Lambda) String() string {
	var buf bytes.Buffer
	buf.WriteString("(lambda (")
	for i, p := range l.Params {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(string(p))
	}
	buf.WriteString(")")
	writeBody(&buf, l.Body)
	buf.WriteString(")")
	return buf.String()
}

func (d *Definition) String() string {
	return "(define " + string(d.Variable) + " " + d.Value.String() + ")"
}

func (a *Assignment) String() string {
	return "(set! " + string(a.Variable) + " " + a.Value.String() + ")"
}

func (e *If) String() string {
	return "(if " + e.Predicate.String() + " " + e.Consequent.String() + " " + e.Alternative.String() + ")"
}

func (b *Begin) String() string {
	var buf bytes.Buffer
	buf.WriteString("(begin")
	writeBody(&buf, b.Body)
	buf.WriteString(")")
	return buf.String()
}

func (c *Cond) String() string {
	var buf bytes.Buffer
	buf.WriteString("(cond")
	for _, clause := range c.Clauses {
		buf.WriteString(" (")
		buf.WriteString(clause.Test.String())
		writeBody(&buf, clause.Body)
		buf.WriteString(")")
	}
	buf.WriteString(")")
	return buf.String()
}

func (l *Let) String() string {
	var buf bytes.Buffer
	buf.WriteString("(let (")
	for i, b := range l.Bindings {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("(")
		buf.WriteString(string(b.Name))
		buf.WriteString(" ")
		buf.WriteString(b.Init.String())
		buf.WriteString(")")
	}
	buf.WriteString(")")
	writeBody(&buf, l.Body)
	buf.WriteString(")")
	return buf.String()
}

func writeBody(buf *bytes.Buffer, body []Expression) {
	for _, expr := range body {
		buf.WriteString(" ")
		buf.WriteString(expr.String())
	}
}

// writePair prints a chain of pairs.  A pair already being printed is written
// as ... so that cyclic structure terminates.
func writePair(buf *bytes.Buffer, p *Pair, active map[*Pair]bool) {
	buf.WriteString("(")
	var visited []*Pair
	var v Expression = p
	for first := true; ; first = false {
		cell, ok := v.(*Pair)
		if !ok {
			break
		}
		if active[cell] {
			if !first {
				buf.WriteString(" . ")
			}
			buf.WriteString("...")
			v = Unit{}
			break
		}
		active[cell] = true
		visited = append(visited, cell)
		if !first {
			buf.WriteString(" ")
		}
		writeExpr(buf, cell.Car, active)
		v = cell.Cdr
	}
	if !IsNil(v) {
		buf.WriteString(" . ")
		writeExpr(buf, v, active)
	}
	buf.WriteString(")")
	for _, cell := range visited {
		delete(active, cell)
	}
}

func writeExpr(buf *bytes.Buffer, v Expression, active map[*Pair]bool) {
	if p, ok := v.(*Pair); ok {
		if active[p] {
			buf.WriteString("...")
			return
		}
		writePair(buf, p, active)
		return
	}
	buf.WriteString(v.String())
}

// Display returns the printed form of v used by display and error.  Strings
// are written without their quotes.
func Display(v Expression) string {
	if s, ok := v.(Str); ok {
		return string(s)
	}
	return v.String()
}

// Equal reports whether a and b are the same value.  Atoms compare by value
// and kind (1 and 1.0 differ), pairs compare structurally and procedures
// compare by identity.
func Equal(a, b Expression) bool {
	return equal(a, b, make(map[[2]*Pair]bool))
}

func equal(a, b Expression, seen map[[2]*Pair]bool) bool {
	switch a := a.(type) {
	case *Pair:
		b, ok := b.(*Pair)
		if !ok {
			return false
		}
		if a == b {
			return true
		}
		key := [2]*Pair{a, b}
		if seen[key] {
			return true
		}
		seen[key] = true
		return equal(a.Car, b.Car, seen) && equal(a.Cdr, b.Cdr, seen)
	case *Primitive, *Compound:
		return a == b
	case Unit, Integral, Fractional, Str, Symbol:
		return a == b
	default:
		// syntax objects
		return a == b || a.String() == b.String()
	}
}

// Float returns the value of a number as a float64.  Float returns false if v
// is not an Integral or Fractional.
func Float(v Expression) (float64, bool) {
	switch v := v.(type) {
	case Integral:
		return float64(v), true
	case Fractional:
		return float64(v), true
	}
	return 0, false
}
