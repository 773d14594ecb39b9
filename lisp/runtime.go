// Copyright © 2018 The ELPS authors

package lisp

import (
	"io"
	"os"
	"sync/atomic"
)

// Runtime is an object underlying a tree of Env values.  It is responsible
// for holding shared environment state, generating identifiers, and writing
// program and debugging output.
type Runtime struct {
	Registry *Registry
	Stdout   io.Writer
	Stderr   io.Writer
	Stack    *CallStack
	Reader   Reader
	Profiler Profiler
	numenv   atomicCounter
}

// StandardRuntime returns a new Runtime using DefaultRegistry with Stdout and
// Stderr set to os.Stdout and os.Stderr.
func StandardRuntime() *Runtime {
	return &Runtime{
		Registry: DefaultRegistry(),
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Stack:    &CallStack{},
	}
}

// GenEnvID returns a new identifier for an environment frame.
func (r *Runtime) GenEnvID() uint {
	return r.numenv.Add(1)
}

func (r *Runtime) stdout() io.Writer {
	if r == nil || r.Stdout == nil {
		return io.Discard
	}
	return r.Stdout
}

type atomicCounter uint64

func (c *atomicCounter) Add(n uint) uint {
	return uint(atomic.AddUint64((*uint64)(c), uint64(n)))
}
