// Copyright © 2024 The ELPS authors

package cmd

import (
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/luthersystems/schemer/lisp"
)

var envKeyReplacer = strings.NewReplacer("-", "_")

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// Option configures an exported command factory (DocCommand).
type Option func(*cmdConfig)

type cmdConfig struct {
	registry *lisp.Registry
	env      *lisp.Env
}

// WithRegistry injects a Registry used to build the documentation
// environment.  Embedders use it so that their own primitives are
// documented alongside the standard library.
func WithRegistry(reg *lisp.Registry) Option {
	return func(c *cmdConfig) { c.registry = reg }
}

// WithEnv injects a fully configured Env.  For the doc command this is the
// environment used for documentation queries.
func WithEnv(env *lisp.Env) Option {
	return func(c *cmdConfig) { c.env = env }
}

// resolveRegistry returns the best available registry from the options.
// If an env was provided its registry is preferred, falling back to an
// explicitly supplied registry.
func (c *cmdConfig) resolveRegistry() *lisp.Registry {
	if c.env != nil {
		return c.env.Runtime.Registry
	}
	return c.registry
}
