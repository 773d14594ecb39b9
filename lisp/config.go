// Copyright © 2018 The ELPS authors

package lisp

import (
	"errors"
	"io"
)

// Config is a function that configures a root environment or its runtime.
type Config func(env *Env) error

// WithMaximumStackHeight returns a Config that will prevent an execution
// environment from allowing the call stack height to exceed n.  Applications
// beyond the limit raise a stack-overflow error.  A value of 0 means
// unlimited (the default).
func WithMaximumStackHeight(n int) Config {
	return func(env *Env) error {
		if n < 0 {
			return errors.New("negative maximum stack height")
		}
		env.Runtime.Stack.MaxHeight = n
		return nil
	}
}

// WithReader returns a Config that makes environments use r to parse source
// streams.  There is no default Reader for an environment.
func WithReader(r Reader) Config {
	return func(env *Env) error {
		env.Runtime.Reader = r
		return nil
	}
}

// WithStdout returns a Config that makes display and newline write to w
// instead of the default, os.Stdout.
func WithStdout(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stdout = w
		return nil
	}
}

// WithStderr returns a Config that makes environments write debugging output
// to w instead of the default, os.Stderr.
func WithStderr(w io.Writer) Config {
	return func(env *Env) error {
		env.Runtime.Stderr = w
		return nil
	}
}

// WithRegistry returns a Config that makes InitializeUserEnv install the
// primitives of reg instead of DefaultRegistry.
func WithRegistry(reg *Registry) Config {
	return func(env *Env) error {
		env.Runtime.Registry = reg
		return nil
	}
}

// WithProfiler returns a Config that attaches p to the runtime.  The profiler
// observes every procedure application.
func WithProfiler(p Profiler) Config {
	return func(env *Env) error {
		env.Runtime.Profiler = p
		return nil
	}
}
