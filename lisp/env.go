// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"sort"
)

// keywords are the special form names recognized by the grammar.
var keywords = map[Symbol]bool{
	"quote":  true,
	"lambda": true,
	"define": true,
	"set!":   true,
	"if":     true,
	"begin":  true,
	"cond":   true,
	"let":    true,
}

// Keywords returns the special form names in sorted order.
func Keywords() []Symbol {
	syms := make([]Symbol, 0, len(keywords))
	for k := range keywords {
		syms = append(syms, k)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// InitializeUserEnv applies config to env and installs the primitives of the
// runtime registry into env.  The env is typically a root environment
// returned from NewEnvRuntime.
func InitializeUserEnv(env *Env, config ...Config) error {
	for _, fn := range config {
		err := fn(env)
		if err != nil {
			return err
		}
	}
	if env.Runtime.Registry == nil {
		env.Runtime.Registry = DefaultRegistry()
	}
	env.Runtime.Registry.Install(env)
	return nil
}

// Env is a frame in a chain of lexical scopes.  Every chain terminates at an
// empty sentinel frame where lookups and assignments fail and definitions
// are discarded.
type Env struct {
	Scope    map[Symbol]Expression
	Parent   *Env
	Runtime  *Runtime
	ID       uint
	sentinel bool
}

// NewEnvRuntime initializes a new global Env which extends an empty sentinel
// frame.  When rt is nil StandardRuntime() called to create a new Runtime for
// the returned Env.  It is an error to use the same runtime object in
// multiple calls to NewEnvRuntime if the two envs are not in the same tree
// and doing so will have unspecified results.
func NewEnvRuntime(rt *Runtime) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	return NewEnv(EmptyEnv(rt))
}

// EmptyEnv returns a sentinel frame using runtime rt.
func EmptyEnv(rt *Runtime) *Env {
	if rt == nil {
		rt = StandardRuntime()
	}
	return &Env{
		ID:       rt.GenEnvID(),
		Runtime:  rt,
		sentinel: true,
	}
}

// NewEnv returns a new empty frame extending parent.  When parent is nil the
// new frame extends a sentinel with a fresh StandardRuntime.
func NewEnv(parent *Env) *Env {
	if parent == nil {
		parent = EmptyEnv(nil)
	}
	return &Env{
		ID:      parent.Runtime.GenEnvID(),
		Scope:   make(map[Symbol]Expression),
		Parent:  parent,
		Runtime: parent.Runtime,
	}
}

// Extend returns a new frame extending env in which params are bound to args
// positionally.  The caller must ensure the lengths match.
func (env *Env) Extend(params []Symbol, args []Expression) *Env {
	frame := NewEnv(env)
	for i, p := range params {
		frame.Scope[p] = args[i]
	}
	return frame
}

// IsEmpty returns true if env is a sentinel frame.
func (env *Env) IsEmpty() bool {
	return env.sentinel
}

// Root returns the outermost non-sentinel frame of env.
func (env *Env) Root() *Env {
	for env.Parent != nil && !env.Parent.sentinel {
		env = env.Parent
	}
	return env
}

// Lookup returns the value bound to sym in the nearest frame defining it.
func (env *Env) Lookup(sym Symbol) (Expression, error) {
	for e := env; e != nil && !e.sentinel; e = e.Parent {
		if v, ok := e.Scope[sym]; ok {
			return v, nil
		}
	}
	return nil, env.unbound(sym)
}

// Define binds sym to v in env, replacing any existing binding in env.
// Defining into a sentinel frame has no effect.
func (env *Env) Define(sym Symbol, v Expression) {
	if env.sentinel {
		return
	}
	env.Scope[sym] = v
}

// Set rebinds sym in the nearest frame defining it.  Set returns an
// unbound-variable error when no frame defines sym.
func (env *Env) Set(sym Symbol, v Expression) error {
	for e := env; e != nil && !e.sentinel; e = e.Parent {
		if _, ok := e.Scope[sym]; ok {
			e.Scope[sym] = v
			return nil
		}
	}
	return env.unbound(sym)
}

func (env *Env) unbound(sym Symbol) error {
	return env.Errorf(CondUnboundVariable, "Unbound variable: %s", sym)
}

func (env *Env) stack() *CallStack {
	if env == nil || env.Runtime == nil {
		return nil
	}
	return env.Runtime.Stack
}

// Eval evaluates v in env.
func (env *Env) Eval(v Expression) (Expression, error) {
	switch v := v.(type) {
	case Unit, Integral, Fractional, Str, *Primitive, *Compound:
		return v, nil
	case Symbol:
		return env.Lookup(v)
	case *Quote:
		return v.Datum, nil
	case *Lambda:
		return &Compound{Env: env, Params: v.Params, Body: v.Body}, nil
	case *Definition:
		// A lambda written directly in a definition is named after the
		// variable.  Procedures that already exist keep their name.
		if lam, ok := v.Value.(*Lambda); ok {
			env.Define(v.Variable, &Compound{Name: string(v.Variable), Env: env, Params: lam.Params, Body: lam.Body})
			return Unit{}, nil
		}
		val, err := env.Eval(v.Value)
		if err != nil {
			return nil, err
		}
		env.Define(v.Variable, val)
		return Unit{}, nil
	case *Assignment:
		val, err := env.Eval(v.Value)
		if err != nil {
			return nil, err
		}
		err = env.Set(v.Variable, val)
		if err != nil {
			return nil, err
		}
		return Unit{}, nil
	case *If:
		pred, err := env.Eval(v.Predicate)
		if err != nil {
			return nil, err
		}
		if True(pred) {
			return env.Eval(v.Consequent)
		}
		return env.Eval(v.Alternative)
	case *Begin:
		if len(v.Body) == 0 {
			return nil, env.Errorf(CondMalformedSyntax, "empty begin")
		}
		return env.evalSequence(v.Body)
	case *Cond:
		return env.Eval(v.Expand())
	case *Let:
		return env.Eval(v.Expand())
	case *Pair:
		return env.evalCombination(v)
	default:
		return nil, env.Errorf(CondWrongType, "cannot evaluate %v", v)
	}
}

func (env *Env) evalSequence(body []Expression) (Expression, error) {
	var ret Expression = Unit{}
	for _, expr := range body {
		var err error
		ret, err = env.Eval(expr)
		if err != nil {
			return nil, err
		}
	}
	return ret, nil
}

func (env *Env) evalCombination(comb *Pair) (Expression, error) {
	cells, ok := ListCells(comb)
	if !ok {
		return nil, env.Errorf(CondMalformedSyntax, "combination is not a proper list: %v", comb)
	}
	head, err := env.Eval(cells[0])
	if err != nil {
		if sym, ok := cells[0].(Symbol); ok && keywords[sym] && Condition(err) == CondUnboundVariable {
			return nil, env.Errorf(CondMalformedSyntax, "Malformed special form: %v", comb)
		}
		return nil, err
	}
	proc, ok := head.(Procedure)
	if !ok {
		return nil, env.Errorf(CondWrongType, "Not a procedure: %v", head)
	}
	args := make([]Expression, len(cells)-1)
	for i, cell := range cells[1:] {
		args[i], err = env.Eval(cell)
		if err != nil {
			return nil, err
		}
	}
	return env.Apply(proc, args)
}

// Apply calls proc with already evaluated operands args.
func (env *Env) Apply(proc Procedure, args []Expression) (Expression, error) {
	stack := env.Runtime.Stack
	err := stack.Push(proc, len(args))
	if err != nil {
		var overflow *StackOverflowError
		if errors.As(err, &overflow) {
			return nil, env.Errorf(CondStackOverflow, "%v", err)
		}
		return nil, err
	}
	defer stack.Pop()
	if p := env.Runtime.Profiler; p != nil && p.IsEnabled() {
		defer p.Start(proc)()
	}
	switch proc := proc.(type) {
	case *Primitive:
		if !proc.Arity.Check(len(args)) {
			return nil, env.Errorf(CondArityMismatch, "%s: expected %v arguments, got %d", proc.Name, proc.Arity, len(args))
		}
		return proc.Fn(env, args)
	case *Compound:
		if len(args) > len(proc.Params) {
			return nil, env.Errorf(CondArityMismatch, "Too many arguments supplied: expected %d, got %d", len(proc.Params), len(args))
		}
		if len(args) < len(proc.Params) {
			return nil, env.Errorf(CondArityMismatch, "Too few arguments supplied: expected %d, got %d", len(proc.Params), len(args))
		}
		frame := proc.Env.Extend(proc.Params, args)
		return frame.evalSequence(proc.Body)
	default:
		return nil, env.Errorf(CondWrongType, "Not a procedure: %v", proc)
	}
}
