package profiler

import (
	"regexp"

	"github.com/luthersystems/schemer/lisp"
)

type SkipFilter func(proc lisp.Procedure) bool

// SkipPrimitives is a SkipFilter which only traces compound procedures.
func SkipPrimitives(proc lisp.Procedure) bool {
	_, ok := proc.(*lisp.Primitive)
	return ok
}

// WithDocFilter filters to only include spans for procedures with docs that
// denote tracing.
func WithDocFilter() Option {
	return WithSkipFilter(docSkipFilter)
}

// WithSkipFilter sets the filter for tracing spans.
func WithSkipFilter(skipFilter SkipFilter) Option {
	return func(p *profiler) {
		p.skipFilter = skipFilter
	}
}

// DocTrace is a magic string used to enable tracing in a profiler configured
// WithDocFilter. All procedures with a docstring that contains this string
// will be traced.
const DocTrace = "@trace"

var docTraceRegExp = regexp.MustCompile(DocTrace)

func docSkipFilter(proc lisp.Procedure) bool {
	docStr := Docstring(proc)
	if docStr == "" {
		return true
	}
	// do not skip docs that include trace constant
	return !docTraceRegExp.MatchString(docStr)
}
