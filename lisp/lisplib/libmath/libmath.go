// Copyright © 2018 The ELPS authors

package libmath

import (
	"math"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib/internal/libutil"
)

// LoadPackage adds the math primitives to reg
func LoadPackage(reg *lisp.Registry) error {
	reg.Constant("pi", lisp.Fractional(math.Pi), "The ratio of a circle's circumference to its diameter.")
	libutil.Define(reg, builtins)
	return nil
}

var builtins = []*libutil.Builtin{
	libutil.FunctionDoc("floor", lisp.Exactly(1), builtinFloor,
		`Returns the largest integer not greater than number.  Integral
		arguments are returned unchanged and fractional arguments give a
		fractional result.`),
	libutil.FunctionDoc("ceiling", lisp.Exactly(1), builtinCeiling,
		`Returns the smallest integer not less than number.  Integral
		arguments are returned unchanged and fractional arguments give a
		fractional result.`),
	libutil.FunctionDoc("round", lisp.Exactly(1), builtinRound,
		`Returns number rounded to the nearest integer, rounding halves to
		even.  Integral arguments are returned unchanged.`),
	libutil.FunctionDoc("truncate", lisp.Exactly(1), builtinTruncate,
		`Returns number rounded toward zero.  Integral arguments are
		returned unchanged.`),
	libutil.FunctionDoc("exp", lisp.Exactly(1), builtinExp,
		`Returns e raised to the power of number as a fractional.`),
	libutil.FunctionDoc("log", lisp.Exactly(1), builtinLog,
		`Returns the natural logarithm of number as a fractional.`),
	libutil.FunctionDoc("sin", lisp.Exactly(1), unary(math.Sin),
		`Returns the sine of radians as a fractional.`),
	libutil.FunctionDoc("cos", lisp.Exactly(1), unary(math.Cos),
		`Returns the cosine of radians as a fractional.`),
	libutil.FunctionDoc("tan", lisp.Exactly(1), unary(math.Tan),
		`Returns the tangent of radians as a fractional.`),
	libutil.FunctionDoc("atan", lisp.Exactly(1), unary(math.Atan),
		`Returns the arctangent in radians as a fractional.`),
	libutil.FunctionDoc("expt", lisp.Exactly(2), builtinExpt,
		`Returns base raised to the power exponent.  The result is integral
		when base is integral and exponent is a non-negative integral.`),
	libutil.FunctionDoc("min", lisp.AtLeast(1), builtinMin,
		`Returns the smallest argument.  The result is fractional if any
		argument is fractional.`),
	libutil.FunctionDoc("max", lisp.AtLeast(1), builtinMax,
		`Returns the largest argument.  The result is fractional if any
		argument is fractional.`),
}

func notNumber(env *lisp.Env, v lisp.Expression) error {
	return env.Errorf(lisp.CondWrongType, "argument is not a number: %v", v)
}

func rounding(fn func(float64) float64) lisp.Builtin {
	return func(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
		switch x := args[0].(type) {
		case lisp.Integral:
			return x, nil
		case lisp.Fractional:
			return lisp.Fractional(fn(float64(x))), nil
		default:
			return nil, notNumber(env, x)
		}
	}
}

var (
	builtinFloor    = rounding(math.Floor)
	builtinCeiling  = rounding(math.Ceil)
	builtinRound    = rounding(math.RoundToEven)
	builtinTruncate = rounding(math.Trunc)
	builtinExp      = unary(math.Exp)
	builtinLog      = unary(math.Log)
)

func unary(fn func(float64) float64) lisp.Builtin {
	return func(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
		x, ok := lisp.Float(args[0])
		if !ok {
			return nil, notNumber(env, args[0])
		}
		return lisp.Fractional(fn(x)), nil
	}
}

func builtinExpt(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	base, exp := args[0], args[1]
	b, bok := base.(lisp.Integral)
	e, eok := exp.(lisp.Integral)
	if bok && eok && e >= 0 {
		result := lisp.Integral(1)
		for e > 0 {
			if e&1 == 1 {
				result *= b
			}
			b *= b
			e >>= 1
		}
		return result, nil
	}
	x, ok := lisp.Float(base)
	if !ok {
		return nil, notNumber(env, base)
	}
	y, ok := lisp.Float(exp)
	if !ok {
		return nil, notNumber(env, exp)
	}
	return lisp.Fractional(math.Pow(x, y)), nil
}

func extremum(env *lisp.Env, args []lisp.Expression, better func(a, b float64) bool) (lisp.Expression, error) {
	best := args[0]
	bestf, ok := lisp.Float(best)
	if !ok {
		return nil, notNumber(env, best)
	}
	fractional := false
	for _, arg := range args {
		x, ok := lisp.Float(arg)
		if !ok {
			return nil, notNumber(env, arg)
		}
		if _, isf := arg.(lisp.Fractional); isf {
			fractional = true
		}
		if better(x, bestf) {
			best, bestf = arg, x
		}
	}
	if fractional {
		return lisp.Fractional(bestf), nil
	}
	return best, nil
}

func builtinMin(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	return extremum(env, args, func(a, b float64) bool { return a < b })
}

func builtinMax(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	return extremum(env, args, func(a, b float64) bool { return a > b })
}
