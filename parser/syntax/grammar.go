// Copyright © 2018 The ELPS authors

/*
Package syntax defines the grammar of the language using the combinator
package, and readers which turn source text into lisp.Expression values.

Elements of a list must be separated by whitespace.  Special forms are
recognized by their leading keyword; a parenthesised form which does not
match the shape of its keyword is read as an ordinary combination and is
rejected when evaluated.
*/
package syntax

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/parser/combinator"
)

var (
	ws  = combinator.Whitespaces()
	ows = combinator.Ignore(combinator.Optional(ws))

	ref = combinator.NewReference[lisp.Expression]()

	expr = ref.Parser()

	body = combinator.OneOrMoreSeparatedBy(ws, expr)

	integralP = combinator.Named("integral", combinator.Convert(
		func(s string) (lisp.Expression, error) {
			n, err := strconv.ParseInt(s, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("integer literal out of range: %s", s)
			}
			return lisp.Integral(n), nil
		},
		combinator.Pattern(`\d+`)))

	fractionalP = combinator.Named("fractional", combinator.Convert(
		func(s string) (lisp.Expression, error) {
			f, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid fractional literal: %s", s)
			}
			return lisp.Fractional(f), nil
		},
		combinator.Pattern(`\d+\.\d+|\d+\.|\.\d+`)))

	stringP = combinator.Named("string", combinator.As(
		func(s string) lisp.Expression { return lisp.Str(s) },
		combinator.Between(
			combinator.Char('"'),
			combinator.AsString(combinator.ZeroOrMore(combinator.CharExcept(`"`))),
			combinator.Char('"'))))

	symbolText = combinator.Convert(
		func(s string) (string, error) {
			if strings.Trim(s, "0123456789") == "" {
				return "", fmt.Errorf("integer literal out of range: %s", s)
			}
			return s, nil
		},
		combinator.AsString(combinator.OneOrMore(combinator.AnyOf(
			combinator.Letter(),
			combinator.Digit(),
			combinator.CharOf("+-*/"),
			combinator.CharOf("<=>"),
			combinator.CharOf("?!")))))

	symbolName = combinator.As(
		func(s string) lisp.Symbol { return lisp.Symbol(s) },
		symbolText)

	symbolP = combinator.Named("symbol", combinator.As(
		func(s lisp.Symbol) lisp.Expression { return s },
		symbolName))

	unitP = combinator.Named("unit", combinator.As(
		func(string) lisp.Expression { return lisp.Nil() },
		combinator.String("()")))

	combinationP = combinator.Named("combination", combinator.As(
		func(exprs []lisp.Expression) lisp.Expression { return lisp.List(exprs...) },
		combinator.Parenthesised(combinator.Between(ows, body, ows))))

	quoteP = combinator.Named("quote", combinator.As(
		func(datum lisp.Expression) lisp.Expression { return &lisp.Quote{Datum: lisp.Datum(datum)} },
		combinator.AnyOf(
			combinator.After(combinator.String("'"), expr),
			form("quote", expr))))

	params = combinator.Parenthesised(combinator.Between(
		ows,
		combinator.ZeroOrMoreSeparatedBy(ws, symbolName),
		ows))

	lambdaP = combinator.Named("lambda", combinator.As(
		func(t combinator.Tuple[[]lisp.Symbol, []lisp.Expression]) lisp.Expression {
			return &lisp.Lambda{Params: t.First, Body: t.Second}
		},
		form("lambda", combinator.Both(combinator.Before(params, ws), body))))

	signature = combinator.Parenthesised(combinator.Between(
		ows,
		combinator.OneOrMoreSeparatedBy(ws, symbolName),
		ows))

	definitionP = combinator.Named("define", form("define", combinator.AnyOf(
		combinator.As(
			func(t combinator.Tuple[lisp.Symbol, lisp.Expression]) lisp.Expression {
				return &lisp.Definition{Variable: t.First, Value: t.Second}
			},
			combinator.Both(combinator.Before(symbolName, ws), expr)),
		combinator.As(
			func(t combinator.Tuple[[]lisp.Symbol, []lisp.Expression]) lisp.Expression {
				return &lisp.Definition{
					Variable: t.First[0],
					Value:    &lisp.Lambda{Params: t.First[1:], Body: t.Second},
				}
			},
			combinator.Both(combinator.Before(signature, ws), body)))))

	assignmentP = combinator.Named("set!", combinator.As(
		func(t combinator.Tuple[lisp.Symbol, lisp.Expression]) lisp.Expression {
			return &lisp.Assignment{Variable: t.First, Value: t.Second}
		},
		form("set!", combinator.Both(combinator.Before(symbolName, ws), expr))))

	ifP = combinator.Named("if", combinator.As(
		func(exprs []lisp.Expression) lisp.Expression {
			return &lisp.If{Predicate: exprs[0], Consequent: exprs[1], Alternative: exprs[2]}
		},
		form("if", combinator.SeparatedBy(ws, expr, expr, expr))))

	beginP = combinator.Named("begin", combinator.As(
		func(exprs []lisp.Expression) lisp.Expression { return &lisp.Begin{Body: exprs} },
		form("begin", body)))

	clause = combinator.As(
		func(t combinator.Tuple[lisp.Expression, []lisp.Expression]) lisp.CondClause {
			return lisp.CondClause{Test: t.First, Body: t.Second}
		},
		combinator.Parenthesised(combinator.Between(
			ows,
			combinator.Both(combinator.Before(expr, ws), body),
			ows)))

	condP = combinator.Named("cond", combinator.As(
		func(clauses []lisp.CondClause) lisp.Expression { return lisp.NewCond(clauses) },
		form("cond", combinator.OneOrMoreSeparatedBy(ws, clause))))

	binding = combinator.As(
		func(t combinator.Tuple[lisp.Symbol, lisp.Expression]) lisp.Binding {
			return lisp.Binding{Name: t.First, Init: t.Second}
		},
		combinator.Parenthesised(combinator.Between(
			ows,
			combinator.Both(combinator.Before(symbolName, ws), expr),
			ows)))

	bindings = combinator.Parenthesised(combinator.Between(
		ows,
		combinator.ZeroOrMoreSeparatedBy(ws, binding),
		ows))

	letP = combinator.Named("let", combinator.As(
		func(t combinator.Tuple[[]lisp.Binding, []lisp.Expression]) lisp.Expression {
			return lisp.NewLet(t.First, t.Second)
		},
		form("let", combinator.Both(combinator.Before(bindings, ws), body))))

	expressionP = combinator.AnyOf(
		fractionalP,
		integralP,
		stringP,
		symbolP,
		unitP,
		quoteP,
		lambdaP,
		definitionP,
		assignmentP,
		ifP,
		beginP,
		condP,
		letP,
		combinationP)

	programP = combinator.Between(
		ows,
		combinator.OneOrMoreSeparatedBy(ws, expr),
		ows)
)

func init() {
	ref.Set(expressionP)
}

// form parses a parenthesised special form which begins with keyword kw
// followed by whitespace and p.
func form[T any](kw string, p combinator.Parser[T]) combinator.Parser[T] {
	return combinator.Parenthesised(combinator.Between(
		ows,
		combinator.After(combinator.String(kw), combinator.After(ws, p)),
		ows))
}

// Expression returns the parser for a single expression.
func Expression() combinator.Parser[lisp.Expression] { return expressionP }

// Program returns the parser for a whitespace separated sequence of one or
// more expressions, with optional leading and trailing whitespace.
func Program() combinator.Parser[[]lisp.Expression] { return programP }

// Integral returns the parser for integer literals.
func Integral() combinator.Parser[lisp.Expression] { return integralP }

// Fractional returns the parser for fractional literals.
func Fractional() combinator.Parser[lisp.Expression] { return fractionalP }

// String returns the parser for string literals.
func String() combinator.Parser[lisp.Expression] { return stringP }

// Symbol returns the parser for symbols.
func Symbol() combinator.Parser[lisp.Expression] { return symbolP }

// Unit returns the parser for the empty list.
func Unit() combinator.Parser[lisp.Expression] { return unitP }

// Quote returns the parser for quote forms, in either notation.
func Quote() combinator.Parser[lisp.Expression] { return quoteP }

// Lambda returns the parser for lambda forms.
func Lambda() combinator.Parser[lisp.Expression] { return lambdaP }

// Definition returns the parser for define forms.
func Definition() combinator.Parser[lisp.Expression] { return definitionP }

// Assignment returns the parser for set! forms.
func Assignment() combinator.Parser[lisp.Expression] { return assignmentP }

// If returns the parser for if forms.
func If() combinator.Parser[lisp.Expression] { return ifP }

// Begin returns the parser for begin forms.
func Begin() combinator.Parser[lisp.Expression] { return beginP }

// Cond returns the parser for cond forms.
func Cond() combinator.Parser[lisp.Expression] { return condP }

// Let returns the parser for let forms.
func Let() combinator.Parser[lisp.Expression] { return letP }

// Combination returns the parser for combinations.
func Combination() combinator.Parser[lisp.Expression] { return combinationP }

// Parse parses one or more expressions from the start of input.  The
// unconsumed input is returned along with the expressions.
func Parse(input string) ([]lisp.Expression, string, error) {
	r := programP(input)
	if !r.OK() {
		return nil, input, r.Err()
	}
	return r.Value, r.Remaining, nil
}

// ParseExpression parses input which must contain exactly one expression,
// optionally surrounded by whitespace.
func ParseExpression(input string) (lisp.Expression, error) {
	r := combinator.Before(combinator.Between(ows, expr, ows), combinator.EOF())(input)
	if !r.OK() {
		return nil, r.Err()
	}
	return r.Value, nil
}
