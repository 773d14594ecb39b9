// Copyright © 2021 The ELPS authors

package libhelp

import (
	"fmt"
	"io"
	"strings"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/lisplib/internal/libutil"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// WrapWidth is the column at which rendered documentation is wrapped.
const WrapWidth = 72

// MissingDoc describes a registered name with no documentation.
type MissingDoc struct {
	// Kind is "primitive" or "constant".
	Kind string
	Name string
}

// CheckMissing reports entries of reg which have no documentation.
func CheckMissing(reg *lisp.Registry) []MissingDoc {
	var missing []MissingDoc
	for _, entry := range reg.Builtins() {
		if strings.TrimSpace(entry.Doc) != "" {
			continue
		}
		kind := "constant"
		if _, ok := entry.Value.(*lisp.Primitive); ok {
			kind = "primitive"
		}
		missing = append(missing, MissingDoc{Kind: kind, Name: entry.Name})
	}
	return missing
}

// LoadPackage adds the help primitives to reg
func LoadPackage(reg *lisp.Registry) error {
	libutil.Define(reg, builtins)
	return nil
}

var builtins = []*libutil.Builtin{
	libutil.FunctionDoc("help", lisp.Range(0, 1), builtinHelp,
		`
		Prints documentation for the given name, which is usually quoted.
		Primitives have their arity and docstring rendered.  Compound
		procedures have their parameters rendered.  Other values have their
		printed form rendered.  With no argument every registered name is
		listed.
		`),
}

func builtinHelp(env *lisp.Env, args []lisp.Expression) (lisp.Expression, error) {
	w := env.Runtime.Stdout
	if w == nil {
		w = io.Discard
	}
	if len(args) == 0 {
		err := RenderRegistry(w, env.Runtime.Registry)
		if err != nil {
			return nil, env.GoError(lisp.CondWrongType, err)
		}
		return lisp.Nil(), nil
	}
	var name string
	switch v := args[0].(type) {
	case lisp.Symbol:
		name = string(v)
	case lisp.Str:
		name = string(v)
	case lisp.Procedure:
		name = v.ProcName()
	default:
		return nil, env.Errorf(lisp.CondWrongType, "argument is not a symbol: %v", args[0])
	}
	err := RenderVar(w, env, name)
	if err != nil {
		return nil, err
	}
	return lisp.Nil(), nil
}

// RenderRegistry writes to w a one line summary of every entry in reg.
func RenderRegistry(w io.Writer, reg *lisp.Registry) error {
	for _, entry := range reg.Builtins() {
		line := fmt.Sprintf("  %-16s", entry.Name)
		if entry.Doc != "" {
			first := strings.SplitN(strings.TrimSpace(dedentDoc(entry.Doc)), "\n", 2)[0]
			line += "  " + strings.TrimSpace(first)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// RenderEntry writes to w formatted documentation for a registry entry.  The
// exact formatting of the rendered documentation is subject to change.
func RenderEntry(w io.Writer, entry *lisp.RegistryEntry) error {
	var err error
	if _, ok := entry.Value.(*lisp.Primitive); ok {
		_, err = fmt.Fprintf(w, "primitive %s\n", entry.Signature())
	} else {
		_, err = fmt.Fprintf(w, "constant %s %v\n", entry.Name, entry.Value)
	}
	if err != nil {
		return err
	}
	doc := cleanDocstring(entry.Doc)
	if doc != "" {
		_, err = fmt.Fprintln(w, doc)
	}
	return err
}

// RenderVar writes to w formatted documentation for the value bound to sym in
// env.  Registered primitives and constants are rendered from the registry
// even when they have been shadowed by user definitions.
func RenderVar(w io.Writer, env *lisp.Env, sym string) error {
	if reg := env.Runtime.Registry; reg != nil {
		if entry, ok := reg.Lookup(sym); ok {
			return RenderEntry(w, entry)
		}
	}
	v, err := env.Lookup(lisp.Symbol(sym))
	if err != nil {
		return err
	}
	switch v := v.(type) {
	case *lisp.Compound:
		sig := make([]lisp.Expression, 1+len(v.Params))
		sig[0] = lisp.Symbol(sym)
		for i, p := range v.Params {
			sig[1+i] = p
		}
		_, err = fmt.Fprintf(w, "compound %v\n", lisp.List(sig...))
	case *lisp.Primitive:
		_, err = fmt.Fprintf(w, "primitive (%s ...) [%v arguments]\n", sym, v.Arity)
		if err == nil && v.Doc != "" {
			_, err = fmt.Fprintln(w, cleanDocstring(v.Doc))
		}
	default:
		_, err = fmt.Fprintf(w, "value %s %v\n", sym, v)
	}
	return err
}

func cleanDocstring(doc string) string {
	if doc == "" {
		return ""
	}
	if doc[0] == '\n' {
		doc = doc[1:]
	}
	doc = indent.String(wordwrap.String(dedentDoc(doc), WrapWidth), 2)
	doc = strings.TrimRight(doc, "\n ")
	return doc
}

// dedentDoc removes common leading whitespace from all non-empty lines.
// The first line of a raw string literal usually has no indentation so it is
// not considered.  Tabs are normalized to spaces before processing.
func dedentDoc(s string) string {
	s = strings.ReplaceAll(s, "\t", "    ")
	lines := strings.Split(s, "\n")

	minWS := -1
	start := 0
	if len(lines) > 1 {
		start = 1
	}
	for _, line := range lines[start:] {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		ws := len(line) - len(trimmed)
		if minWS < 0 || ws < minWS {
			minWS = ws
		}
	}
	if minWS <= 0 {
		return strings.TrimLeft(lines[0], " ") + "\n" + strings.Join(lines[1:], "\n")
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
		} else if len(lines[i]) >= minWS {
			lines[i] = lines[i][minWS:]
		}
	}
	return strings.Join(lines, "\n")
}
