// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"io"
	"math"
)

type langBuiltin struct {
	name  string
	arity Arity
	fun   Builtin
	doc   string
}

type langConstant struct {
	name  string
	value Expression
	doc   string
}

var langConstants = []*langConstant{
	{TrueSymbol, Symbol(TrueSymbol), "The canonical true value.  Every value other than false is true."},
	{FalseSymbol, Symbol(FalseSymbol), "The only false value."},
}

// langBuiltins is populated in init because apply reaches the registry
// through Env.Apply, which would otherwise form an initialization cycle.
var langBuiltins []*langBuiltin

func init() {
	langBuiltins = []*langBuiltin{
		{"error", AtLeast(0), builtinError, `
			Raises a user error whose message is "Error:" followed by the
			arguments separated by spaces.  Strings are written without
			quotes.`},
		{"apply", Exactly(2), builtinApply, `
			Calls the procedure given as the first argument with the elements
			of the proper list given as the second argument.`},
		{"cons", Exactly(2), builtinCons, `Returns a new pair of the two arguments.`},
		{"car", Exactly(1), builtinCar, `Returns the first element of a pair.`},
		{"cdr", Exactly(1), builtinCdr, `Returns the second element of a pair.`},
		{"set-car!", Exactly(2), builtinSetCar, `
			Replaces the first element of a pair.  Every holder of the pair
			observes the change.`},
		{"set-cdr!", Exactly(2), builtinSetCdr, `
			Replaces the second element of a pair.  Every holder of the pair
			observes the change.`},
		{"pair?", Exactly(1), builtinIsPair, `Returns true if the argument is a pair.`},
		{"null?", Exactly(1), builtinIsNull, `Returns true if the argument is the empty list.`},
		{"list", AtLeast(0), builtinList, `Returns a new proper list of the arguments.`},
		{"length", Exactly(1), builtinLength, `
			Returns the number of elements in a proper list.  Improper and
			cyclic lists are an error.`},
		{"eq?", Exactly(2), builtinEq, `
			Returns true if the arguments are equal.  Numbers, strings and
			symbols compare by value and kind, so 1 and 1.0 differ.  Pairs
			compare structurally and procedures by identity.`},
		{"<", AtLeast(1), builtinLT, `Returns true if the arguments are strictly increasing.`},
		{"<=", AtLeast(1), builtinLEq, `Returns true if the arguments are non-decreasing.`},
		{"=", AtLeast(1), builtinNumEq, `Returns true if the arguments are numerically equal.`},
		{">=", AtLeast(1), builtinGEq, `Returns true if the arguments are non-increasing.`},
		{">", AtLeast(1), builtinGT, `Returns true if the arguments are strictly decreasing.`},
		{"+", AtLeast(0), builtinAdd, `
			Returns the sum of the arguments, or 0 when there are none.  The
			result is fractional if any argument is fractional.`},
		{"-", AtLeast(1), builtinSub, `
			Returns the first argument minus the rest.  With one argument
			returns its negation.`},
		{"*", AtLeast(0), builtinMul, `
			Returns the product of the arguments, or 1 when there are none.
			The result is fractional if any argument is fractional.`},
		{"/", AtLeast(1), builtinDiv, `
			Returns the first argument divided by the rest, always as a
			fractional number.  With one argument returns its reciprocal.
			Dividing by zero is an error.`},
		{"sqrt", Exactly(1), builtinSqrt, `Returns the fractional square root of a number.`},
		{"display", Exactly(1), builtinDisplay, `
			Writes the argument to standard output.  Strings are written
			without quotes.`},
		{"newline", Exactly(0), builtinNewline, `Writes a line break to standard output.`},
		{"not", Exactly(1), builtinNot, `Returns true if the argument is false.`},
		{"number?", Exactly(1), builtinIsNumber, `Returns true if the argument is an integral or fractional number.`},
		{"string?", Exactly(1), builtinIsString, `Returns true if the argument is a string.`},
		{"symbol?", Exactly(1), builtinIsSymbol, `Returns true if the argument is a symbol.`},
		{"procedure?", Exactly(1), builtinIsProcedure, `Returns true if the argument is a primitive or compound procedure.`},
		{"abs", Exactly(1), builtinAbs, `Returns the absolute value of a number.`},
		{"quotient", Exactly(2), builtinQuotient, `Returns the integral quotient of two integers, truncated toward zero.`},
		{"remainder", Exactly(2), builtinRemainder, `Returns the remainder of integral division, with the sign of the dividend.`},
	}
}

func builtinError(env *Env, args []Expression) (Expression, error) {
	msg := "Error:"
	if len(args) > 0 {
		msg += " " + displayJoin(args)
	}
	return nil, &ErrorVal{
		Cond:    CondUserError,
		Message: msg,
		Stack:   env.stack().Copy(),
	}
}

func builtinApply(env *Env, args []Expression) (Expression, error) {
	proc, ok := args[0].(Procedure)
	if !ok {
		return nil, env.Errorf(CondWrongType, "first argument is not a procedure: %v", args[0])
	}
	operands, ok := ListCells(args[1])
	if !ok {
		return nil, env.Errorf(CondWrongType, "second argument is not a proper list: %v", args[1])
	}
	return env.Apply(proc, operands)
}

func builtinCons(env *Env, args []Expression) (Expression, error) {
	return Cons(args[0], args[1]), nil
}

func argPair(env *Env, v Expression) (*Pair, error) {
	p, ok := v.(*Pair)
	if !ok {
		return nil, env.Errorf(CondWrongType, "argument is not a pair: %v", v)
	}
	return p, nil
}

func builtinCar(env *Env, args []Expression) (Expression, error) {
	p, err := argPair(env, args[0])
	if err != nil {
		return nil, err
	}
	return p.Car, nil
}

func builtinCdr(env *Env, args []Expression) (Expression, error) {
	p, err := argPair(env, args[0])
	if err != nil {
		return nil, err
	}
	return p.Cdr, nil
}

func builtinSetCar(env *Env, args []Expression) (Expression, error) {
	p, err := argPair(env, args[0])
	if err != nil {
		return nil, err
	}
	p.Car = args[1]
	return Unit{}, nil
}

func builtinSetCdr(env *Env, args []Expression) (Expression, error) {
	p, err := argPair(env, args[0])
	if err != nil {
		return nil, err
	}
	p.Cdr = args[1]
	return Unit{}, nil
}

func builtinIsPair(env *Env, args []Expression) (Expression, error) {
	_, ok := args[0].(*Pair)
	return Bool(ok), nil
}

func builtinIsNull(env *Env, args []Expression) (Expression, error) {
	return Bool(IsNil(args[0])), nil
}

func builtinList(env *Env, args []Expression) (Expression, error) {
	return List(args...), nil
}

func builtinLength(env *Env, args []Expression) (Expression, error) {
	cells, ok := ListCells(args[0])
	if !ok {
		return nil, env.Errorf(CondWrongType, "argument is not a proper list: %v", args[0])
	}
	return Integral(len(cells)), nil
}

func builtinEq(env *Env, args []Expression) (Expression, error) {
	return Bool(Equal(args[0], args[1])), nil
}

// number is an Integral or Fractional operand.
type number struct {
	i     int64
	f     float64
	exact bool
}

func toNumber(env *Env, v Expression) (number, error) {
	switch v := v.(type) {
	case Integral:
		return number{i: int64(v), f: float64(v), exact: true}, nil
	case Fractional:
		return number{f: float64(v)}, nil
	default:
		return number{}, env.Errorf(CondWrongType, "Expression is not a number: %v", v)
	}
}

func toNumbers(env *Env, args []Expression) ([]number, error) {
	nums := make([]number, len(args))
	for i := range args {
		var err error
		nums[i], err = toNumber(env, args[i])
		if err != nil {
			return nil, err
		}
	}
	return nums, nil
}

func (n number) isZero() bool {
	if n.exact {
		return n.i == 0
	}
	return n.f == 0
}

func (n number) expr() Expression {
	if n.exact {
		return Integral(n.i)
	}
	return Fractional(n.f)
}

// arith folds nums with iop while every operand is exact and with fop after
// the first fractional operand is seen.
func arith(nums []number, iop func(a, b int64) int64, fop func(a, b float64) float64) number {
	acc := nums[0]
	for _, n := range nums[1:] {
		if acc.exact && n.exact {
			acc.i = iop(acc.i, n.i)
			acc.f = float64(acc.i)
			continue
		}
		acc = number{f: fop(acc.f, n.f)}
	}
	return acc
}

func builtinAdd(env *Env, args []Expression) (Expression, error) {
	nums, err := toNumbers(env, args)
	if err != nil {
		return nil, err
	}
	nums = append([]number{{exact: true}}, nums...)
	return arith(nums,
		func(a, b int64) int64 { return a + b },
		func(a, b float64) float64 { return a + b }).expr(), nil
}

func builtinSub(env *Env, args []Expression) (Expression, error) {
	nums, err := toNumbers(env, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 1 {
		nums = append([]number{{exact: true}}, nums...)
	}
	return arith(nums,
		func(a, b int64) int64 { return a - b },
		func(a, b float64) float64 { return a - b }).expr(), nil
}

func builtinMul(env *Env, args []Expression) (Expression, error) {
	nums, err := toNumbers(env, args)
	if err != nil {
		return nil, err
	}
	nums = append([]number{{i: 1, f: 1, exact: true}}, nums...)
	return arith(nums,
		func(a, b int64) int64 { return a * b },
		func(a, b float64) float64 { return a * b }).expr(), nil
}

func builtinDiv(env *Env, args []Expression) (Expression, error) {
	nums, err := toNumbers(env, args)
	if err != nil {
		return nil, err
	}
	if len(nums) == 1 {
		nums = append([]number{{i: 1, f: 1, exact: true}}, nums...)
	}
	for _, n := range nums[1:] {
		if n.isZero() {
			return nil, env.Errorf(CondDivisionByZero, "Division by zero")
		}
	}
	acc := nums[0].f
	for _, n := range nums[1:] {
		acc /= n.f
	}
	return Fractional(acc), nil
}

func compareChain(env *Env, args []Expression, ok func(c int) bool) (Expression, error) {
	nums, err := toNumbers(env, args)
	if err != nil {
		return nil, err
	}
	result := true
	for i := 1; i < len(nums); i++ {
		if !ok(compareNumbers(nums[i-1], nums[i])) {
			result = false
		}
	}
	return Bool(result), nil
}

func compareNumbers(a, b number) int {
	if a.exact && b.exact {
		switch {
		case a.i < b.i:
			return -1
		case a.i > b.i:
			return 1
		}
		return 0
	}
	switch {
	case a.f < b.f:
		return -1
	case a.f > b.f:
		return 1
	case a.f == b.f:
		return 0
	}
	// NaN is unordered
	return 2
}

func builtinLT(env *Env, args []Expression) (Expression, error) {
	return compareChain(env, args, func(c int) bool { return c == -1 })
}

func builtinLEq(env *Env, args []Expression) (Expression, error) {
	return compareChain(env, args, func(c int) bool { return c == -1 || c == 0 })
}

func builtinNumEq(env *Env, args []Expression) (Expression, error) {
	return compareChain(env, args, func(c int) bool { return c == 0 })
}

func builtinGEq(env *Env, args []Expression) (Expression, error) {
	return compareChain(env, args, func(c int) bool { return c == 1 || c == 0 })
}

func builtinGT(env *Env, args []Expression) (Expression, error) {
	return compareChain(env, args, func(c int) bool { return c == 1 })
}

func builtinSqrt(env *Env, args []Expression) (Expression, error) {
	n, err := toNumber(env, args[0])
	if err != nil {
		return nil, err
	}
	return Fractional(math.Sqrt(n.f)), nil
}

func builtinDisplay(env *Env, args []Expression) (Expression, error) {
	_, err := io.WriteString(env.Runtime.stdout(), Display(args[0]))
	if err != nil {
		return nil, env.GoError(CondIOError, err)
	}
	return Unit{}, nil
}

func builtinNewline(env *Env, args []Expression) (Expression, error) {
	_, err := fmt.Fprintln(env.Runtime.stdout())
	if err != nil {
		return nil, env.GoError(CondIOError, err)
	}
	return Unit{}, nil
}

func builtinNot(env *Env, args []Expression) (Expression, error) {
	return Bool(Not(args[0])), nil
}

func builtinIsNumber(env *Env, args []Expression) (Expression, error) {
	switch args[0].(type) {
	case Integral, Fractional:
		return Bool(true), nil
	}
	return Bool(false), nil
}

func builtinIsString(env *Env, args []Expression) (Expression, error) {
	_, ok := args[0].(Str)
	return Bool(ok), nil
}

func builtinIsSymbol(env *Env, args []Expression) (Expression, error) {
	_, ok := args[0].(Symbol)
	return Bool(ok), nil
}

func builtinIsProcedure(env *Env, args []Expression) (Expression, error) {
	_, ok := args[0].(Procedure)
	return Bool(ok), nil
}

func builtinAbs(env *Env, args []Expression) (Expression, error) {
	n, err := toNumber(env, args[0])
	if err != nil {
		return nil, err
	}
	if n.exact {
		if n.i < 0 {
			return Integral(-n.i), nil
		}
		return Integral(n.i), nil
	}
	return Fractional(math.Abs(n.f)), nil
}

func integralArgs(env *Env, args []Expression) (int64, int64, error) {
	a, ok := args[0].(Integral)
	if !ok {
		return 0, 0, env.Errorf(CondWrongType, "first argument is not an integer: %v", args[0])
	}
	b, ok := args[1].(Integral)
	if !ok {
		return 0, 0, env.Errorf(CondWrongType, "second argument is not an integer: %v", args[1])
	}
	if b == 0 {
		return 0, 0, env.Errorf(CondDivisionByZero, "Division by zero")
	}
	return int64(a), int64(b), nil
}

func builtinQuotient(env *Env, args []Expression) (Expression, error) {
	a, b, err := integralArgs(env, args)
	if err != nil {
		return nil, err
	}
	return Integral(a / b), nil
}

func builtinRemainder(env *Env, args []Expression) (Expression, error) {
	a, b, err := integralArgs(env, args)
	if err != nil {
		return nil, err
	}
	return Integral(a % b), nil
}
