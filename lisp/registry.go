// Copyright © 2018 The ELPS authors

package lisp

import (
	"fmt"
	"sort"
)

// RegistryEntry is a named value installed into every global environment
// initialized from a Registry.
type RegistryEntry struct {
	Name  string
	Value Expression
	Doc   string
}

// Registry is the set of primitives and constants available to programs.  A
// Registry is built explicitly before any environment is initialized from it
// and should not be modified afterwards.
type Registry struct {
	entries []*RegistryEntry
	index   map[string]int
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]int)}
}

// DefaultRegistry returns a new Registry containing the core primitives.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, c := range langConstants {
		reg.Constant(c.name, c.value, c.doc)
	}
	for _, fn := range langBuiltins {
		reg.Define(fn.name, fn.arity, fn.fun, fn.doc)
	}
	return reg
}

// Define registers a primitive.  A later registration under the same name
// replaces the earlier one.
func (reg *Registry) Define(name string, arity Arity, fn Builtin, doc string) *Primitive {
	prim := &Primitive{Name: name, Arity: arity, Fn: fn, Doc: doc}
	reg.put(&RegistryEntry{Name: name, Value: prim, Doc: doc})
	return prim
}

// Constant registers a constant value.
func (reg *Registry) Constant(name string, v Expression, doc string) {
	reg.put(&RegistryEntry{Name: name, Value: v, Doc: doc})
}

func (reg *Registry) put(entry *RegistryEntry) {
	if i, ok := reg.index[entry.Name]; ok {
		reg.entries[i] = entry
		return
	}
	reg.index[entry.Name] = len(reg.entries)
	reg.entries = append(reg.entries, entry)
}

// Lookup returns the entry registered under name.
func (reg *Registry) Lookup(name string) (*RegistryEntry, bool) {
	i, ok := reg.index[name]
	if !ok {
		return nil, false
	}
	return reg.entries[i], true
}

// Builtins returns the registered entries sorted by name.
func (reg *Registry) Builtins() []*RegistryEntry {
	entries := make([]*RegistryEntry, len(reg.entries))
	copy(entries, reg.entries)
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})
	return entries
}

// Len returns the number of registered entries.
func (reg *Registry) Len() int {
	return len(reg.entries)
}

// Install defines every entry of reg in env.
func (reg *Registry) Install(env *Env) {
	for _, entry := range reg.entries {
		env.Define(Symbol(entry.Name), entry.Value)
	}
}

// Signature returns a short description of how entry is called.
func (entry *RegistryEntry) Signature() string {
	prim, ok := entry.Value.(*Primitive)
	if !ok {
		return entry.Name
	}
	return fmt.Sprintf("(%s ...) [%v arguments]", entry.Name, prim.Arity)
}
