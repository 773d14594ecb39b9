// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"strings"
)

// Analyze converts datum, a value built only from atoms and proper lists, into
// syntax.  Lists headed by a special form keyword become the corresponding
// syntax node when they have the shape of that form.  Any other list,
// including a misshapen special form, becomes a combination whose elements
// are analyzed in turn.  Quoted data is left untouched.
func Analyze(datum Expression) (Expression, error) {
	switch v := datum.(type) {
	case *Pair:
		return analyzeList(v)
	case *Quote:
		return &Quote{Datum: Datum(v.Datum)}, nil
	default:
		return datum, nil
	}
}

func analyzeList(p *Pair) (Expression, error) {
	cells, ok := ListCells(p)
	if !ok {
		return nil, fmt.Errorf("improper list in program text: %v", p)
	}
	if head, ok := cells[0].(Symbol); ok && keywords[head] {
		form, ok, err := analyzeForm(head, cells)
		if err != nil {
			return nil, err
		}
		if ok {
			return form, nil
		}
	}
	exprs, err := analyzeAll(cells)
	if err != nil {
		return nil, err
	}
	return List(exprs...), nil
}

func analyzeAll(cells []Expression) ([]Expression, error) {
	exprs := make([]Expression, len(cells))
	for i := range cells {
		var err error
		exprs[i], err = Analyze(cells[i])
		if err != nil {
			return nil, err
		}
	}
	return exprs, nil
}

// analyzeForm returns false when cells do not have the shape of the special
// form named by head.
func analyzeForm(head Symbol, cells []Expression) (Expression, bool, error) {
	switch head {
	case "quote":
		if len(cells) != 2 {
			return nil, false, nil
		}
		return &Quote{Datum: Datum(cells[1])}, true, nil
	case "lambda":
		if len(cells) < 3 {
			return nil, false, nil
		}
		params, ok := symbolList(cells[1])
		if !ok {
			return nil, false, nil
		}
		body, err := analyzeAll(cells[2:])
		if err != nil {
			return nil, false, err
		}
		return &Lambda{Params: params, Body: body}, true, nil
	case "define":
		if len(cells) == 3 {
			if name, ok := symbolName(cells[1]); ok {
				val, err := Analyze(cells[2])
				if err != nil {
					return nil, false, err
				}
				return &Definition{Variable: name, Value: val}, true, nil
			}
		}
		if len(cells) < 3 {
			return nil, false, nil
		}
		sig, ok := symbolList(cells[1])
		if !ok || len(sig) == 0 {
			return nil, false, nil
		}
		body, err := analyzeAll(cells[2:])
		if err != nil {
			return nil, false, err
		}
		return &Definition{Variable: sig[0], Value: &Lambda{Params: sig[1:], Body: body}}, true, nil
	case "set!":
		if len(cells) != 3 {
			return nil, false, nil
		}
		name, ok := symbolName(cells[1])
		if !ok {
			return nil, false, nil
		}
		val, err := Analyze(cells[2])
		if err != nil {
			return nil, false, err
		}
		return &Assignment{Variable: name, Value: val}, true, nil
	case "if":
		if len(cells) != 4 {
			return nil, false, nil
		}
		exprs, err := analyzeAll(cells[1:])
		if err != nil {
			return nil, false, err
		}
		return &If{Predicate: exprs[0], Consequent: exprs[1], Alternative: exprs[2]}, true, nil
	case "begin":
		if len(cells) < 2 {
			return nil, false, nil
		}
		body, err := analyzeAll(cells[1:])
		if err != nil {
			return nil, false, err
		}
		return &Begin{Body: body}, true, nil
	case "cond":
		if len(cells) < 2 {
			return nil, false, nil
		}
		clauses := make([]CondClause, 0, len(cells)-1)
		for _, c := range cells[1:] {
			parts, ok := ListCells(c)
			if !ok || len(parts) < 2 {
				return nil, false, nil
			}
			exprs, err := analyzeAll(parts)
			if err != nil {
				return nil, false, err
			}
			clauses = append(clauses, CondClause{Test: exprs[0], Body: exprs[1:]})
		}
		return NewCond(clauses), true, nil
	case "let":
		if len(cells) < 3 {
			return nil, false, nil
		}
		bcells, ok := ListCells(cells[1])
		if !ok {
			return nil, false, nil
		}
		bindings := make([]Binding, 0, len(bcells))
		for _, b := range bcells {
			parts, ok := ListCells(b)
			if !ok || len(parts) != 2 {
				return nil, false, nil
			}
			name, ok := symbolName(parts[0])
			if !ok {
				return nil, false, nil
			}
			init, err := Analyze(parts[1])
			if err != nil {
				return nil, false, err
			}
			bindings = append(bindings, Binding{Name: name, Init: init})
		}
		body, err := analyzeAll(cells[2:])
		if err != nil {
			return nil, false, err
		}
		return NewLet(bindings, body), true, nil
	}
	return nil, false, nil
}

func symbolName(v Expression) (Symbol, bool) {
	sym, ok := v.(Symbol)
	if !ok || strings.Trim(string(sym), "0123456789") == "" {
		return "", false
	}
	return sym, true
}

func symbolList(v Expression) ([]Symbol, bool) {
	cells, ok := ListCells(v)
	if !ok {
		return nil, false
	}
	syms := make([]Symbol, len(cells))
	for i, c := range cells {
		syms[i], ok = symbolName(c)
		if !ok {
			return nil, false
		}
	}
	return syms, true
}

// Datum converts syntax into the plain list data it was read from.  Datum is
// applied to quoted expressions so that programs manipulate quoted forms as
// lists.  Expressions which are already data are returned unchanged.
func Datum(expr Expression) Expression {
	switch v := expr.(type) {
	case *Pair:
		cells, ok := ListCells(v)
		if !ok {
			return v
		}
		changed := false
		data := make([]Expression, len(cells))
		for i, c := range cells {
			data[i] = Datum(c)
			if data[i] != c {
				changed = true
			}
		}
		if !changed {
			return v
		}
		return List(data...)
	case *Quote:
		return List(Symbol("quote"), Datum(v.Datum))
	case *Lambda:
		return List(append([]Expression{Symbol("lambda"), symbols(v.Params)}, dataAll(v.Body)...)...)
	case *Definition:
		return List(Symbol("define"), v.Variable, Datum(v.Value))
	case *Assignment:
		return List(Symbol("set!"), v.Variable, Datum(v.Value))
	case *If:
		return List(Symbol("if"), Datum(v.Predicate), Datum(v.Consequent), Datum(v.Alternative))
	case *Begin:
		return List(append([]Expression{Symbol("begin")}, dataAll(v.Body)...)...)
	case *Cond:
		clauses := make([]Expression, 0, 1+len(v.Clauses))
		clauses = append(clauses, Symbol("cond"))
		for _, c := range v.Clauses {
			clauses = append(clauses, List(append([]Expression{Datum(c.Test)}, dataAll(c.Body)...)...))
		}
		return List(clauses...)
	case *Let:
		bindings := make([]Expression, len(v.Bindings))
		for i, b := range v.Bindings {
			bindings[i] = List(b.Name, Datum(b.Init))
		}
		return List(append([]Expression{Symbol("let"), List(bindings...)}, dataAll(v.Body)...)...)
	default:
		return expr
	}
}

func symbols(syms []Symbol) Expression {
	exprs := make([]Expression, len(syms))
	for i, s := range syms {
		exprs[i] = s
	}
	return List(exprs...)
}

func dataAll(exprs []Expression) []Expression {
	data := make([]Expression, len(exprs))
	for i, e := range exprs {
		data[i] = Datum(e)
	}
	return data
}
