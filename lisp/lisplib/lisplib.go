// Copyright © 2018 The ELPS authors

// Package lisplib is used to conveniently load the standard library into a
// primitive registry
package lisplib

import (
	"bytes"
	"fmt"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib/libhelp"
	"github.com/luthersystems/schemer/lisp/lisplib/libmath"
	"github.com/luthersystems/schemer/lisp/lisplib/libstring"
	"github.com/luthersystems/schemer/parser"
)

// LoadLibrary registers the standard library packages in reg.
func LoadLibrary(reg *lisp.Registry) error {
	loaders := []struct {
		name string
		load func(*lisp.Registry) error
	}{
		{"math", libmath.LoadPackage},
		{"string", libstring.LoadPackage},
		{"help", libhelp.LoadPackage},
	}
	for _, l := range loaders {
		if err := l.load(reg); err != nil {
			return fmt.Errorf("load package %s: %w", l.name, err)
		}
	}
	return nil
}

// NewRegistry returns a registry with the core primitives and the standard
// library.
func NewRegistry() (*lisp.Registry, error) {
	reg := lisp.DefaultRegistry()
	if err := LoadLibrary(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

// NewDocEnv creates a standard environment with the stdlib loaded, suitable
// for documentation queries.  Embedders can extend the registry with their
// own primitives, or create their own env and use the libhelp.Render*
// functions and libhelp.CheckMissing directly.
func NewDocEnv() (*lisp.Env, error) {
	reg, err := NewRegistry()
	if err != nil {
		return nil, err
	}
	env := lisp.NewEnvRuntime(nil)
	err = lisp.InitializeUserEnv(env,
		lisp.WithRegistry(reg),
		lisp.WithReader(parser.NewReader()),
		lisp.WithStderr(&bytes.Buffer{}),
	)
	if err != nil {
		return nil, fmt.Errorf("initialize user env: %w", err)
	}
	return env, nil
}
