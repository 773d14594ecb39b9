// Copyright © 2018 The ELPS authors

package libutil

import "github.com/luthersystems/schemer/lisp"

func FunctionDoc(name string, arity lisp.Arity, fun lisp.Builtin, docs string) *Builtin {
	return &Builtin{name, arity, fun, docs}
}

type Builtin struct {
	name  string
	arity lisp.Arity
	fun   lisp.Builtin
	docs  string
}

func (fun *Builtin) Name() string {
	return fun.name
}

func (fun *Builtin) Docstring() string {
	return fun.docs
}

// Define registers every builtin in reg.
func Define(reg *lisp.Registry, builtins []*Builtin) {
	for _, fn := range builtins {
		reg.Define(fn.name, fn.arity, fn.fun, fn.docs)
	}
}
