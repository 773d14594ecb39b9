// Copyright © 2018 The ELPS authors

package libstring

import (
	"strings"
	"unicode/utf8"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib/internal/libutil"
)

// LoadPackage adds the string primitives to reg
func LoadPackage(reg *lisp.Registry) error {
	libutil.Define(reg, builtins)
	return nil
}

var builtins = []*libutil.Builtin{
	libutil.FunctionDoc("string-append", lisp.AtLeast(0), builtinAppend,
		`Returns the concatenation of the string arguments.`),
	libutil.FunctionDoc("string-length", lisp.Exactly(1), builtinLength,
		`Returns the number of characters in a string.`),
	libutil.FunctionDoc("symbol->string", lisp.Exactly(1), builtinSymbolToString,
		`Returns the name of a symbol as a string.`),
	libutil.FunctionDoc("string->symbol", lisp.Exactly(1), builtinStringToSymbol,
		`Returns the symbol named by a string.`),
	libutil.FunctionDoc("number->string", lisp.Exactly(1), builtinNumberToString,
		`Returns the printed form of a number as a string.`),
	libutil.FunctionDoc("string-upcase", lisp.Exactly(1), builtinUpper,
		`Returns a copy of the string with letters mapped to upper case.`),
	libutil.FunctionDoc("string-downcase", lisp.Exactly(1), builtinLower,
		`Returns a copy of the string with letters mapped to lower case.`),
}

func argString(env *lisp.Env, v lisp.Expression) (string, error) {
	s, ok := v.(lisp.Str)
	if !ok {
		return "", env.Errorf(lisp.CondWrongType, "argument is not a string: %v", v)
	}
	return string(s), nil
}

func builtinAppend(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	var buf strings.Builder
	for _, arg := range args {
		s, err := argString(env, arg)
		if err != nil {
			return nil, err
		}
		buf.WriteString(s)
	}
	return lisp.Str(buf.String()), nil
}

func builtinLength(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	s, err := argString(env, args[0])
	if err != nil {
		return nil, err
	}
	return lisp.Integral(utf8.RuneCountInString(s)), nil
}

func builtinSymbolToString(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	sym, ok := args[0].(lisp.Symbol)
	if !ok {
		return nil, env.Errorf(lisp.CondWrongType, "argument is not a symbol: %v", args[0])
	}
	return lisp.Str(sym), nil
}

func builtinStringToSymbol(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	s, err := argString(env, args[0])
	if err != nil {
		return nil, err
	}
	return lisp.Symbol(s), nil
}

func builtinNumberToString(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	switch x := args[0].(type) {
	case lisp.Integral, lisp.Fractional:
		return lisp.Str(x.String()), nil
	default:
		return nil, env.Errorf(lisp.CondWrongType, "argument is not a number: %v", x)
	}
}

func builtinLower(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	s, err := argString(env, args[0])
	if err != nil {
		return nil, err
	}
	return lisp.Str(strings.ToLower(s)), nil
}

func builtinUpper(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	s, err := argString(env, args[0])
	if err != nil {
		return nil, err
	}
	return lisp.Str(strings.ToUpper(s)), nil
}
