// Package profiler provides lisp.Profiler implementations which annotate
// procedure applications for external tools.
package profiler

import (
	"fmt"

	"github.com/luthersystems/schemer/lisp"
)

// profiler is a minimal lisp.Profiler
type profiler struct {
	runtime    *lisp.Runtime
	enabled    bool
	skipFilter SkipFilter
	funLabeler FunLabeler
}

var _ lisp.Profiler = &profiler{}

func (p *profiler) IsEnabled() bool {
	return p.enabled
}

type Option func(*profiler)

func (p *profiler) applyConfigs(opts ...Option) {
	for _, opt := range opts {
		opt(p)
	}
}

func (p *profiler) Enable() error {
	if p.enabled {
		return fmt.Errorf("profiler already enabled")
	}
	p.enabled = true
	return nil
}

func (p *profiler) Complete() error {
	return nil
}

func (p *profiler) Start(proc lisp.Procedure) func() {
	return func() {}
}

// defaultFunName returns the name a procedure was defined with.  Anonymous
// compound procedures are named lambda.
func defaultFunName(proc lisp.Procedure) string {
	name := proc.ProcName()
	if name == "" {
		return "lambda"
	}
	return name
}

// prettyFunName returns a pretty name and original name for a procedure. If
// there is no pretty name, then the pretty name is the original name.
func (p *profiler) prettyFunName(proc lisp.Procedure) (string, string) {
	origLabel := defaultFunName(proc)
	prettyLabel := origLabel
	if p.funLabeler != nil {
		prettyLabel = p.funLabeler(p.runtime, proc)
	}
	if prettyLabel == "" {
		prettyLabel = origLabel
	}
	return prettyLabel, origLabel
}

// skipTrace is a helper function to decide whether to skip tracing.
func (p *profiler) skipTrace(proc lisp.Procedure) bool {
	return !p.enabled || p.skipFilter != nil && p.skipFilter(proc)
}

// procKind names the kind of procedure, used where tools expect a source
// file.
func procKind(proc lisp.Procedure) string {
	if _, ok := proc.(*lisp.Primitive); ok {
		return "primitive"
	}
	return "compound"
}

// Docstring returns the documentation of proc.  A compound procedure is
// documented when its body begins with a string literal followed by at least
// one more expression.
func Docstring(proc lisp.Procedure) string {
	switch proc := proc.(type) {
	case *lisp.Primitive:
		return proc.Doc
	case *lisp.Compound:
		if len(proc.Body) < 2 {
			return ""
		}
		if s, ok := proc.Body[0].(lisp.Str); ok {
			return string(s)
		}
	}
	return ""
}
