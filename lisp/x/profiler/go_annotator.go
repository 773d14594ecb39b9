package profiler

import (
	"context"
	"runtime/pprof"

	"github.com/luthersystems/schemer/lisp"
)

// This profiler type appends tags to pprof output if pprof is enabled.  It
// does not start pprof for the user.  Because pprof samples at a fixed 100Hz
// short programs produce few labeled samples.
type pprofAnnotator struct {
	profiler
	currentContext context.Context
}

var _ lisp.Profiler = &pprofAnnotator{}

// NewPprofAnnotator returns a profiler which labels goroutine samples with
// the name of the procedure being applied.
func NewPprofAnnotator(runtime *lisp.Runtime, parentContext context.Context, opts ...Option) *pprofAnnotator {
	p := &pprofAnnotator{
		profiler: profiler{
			runtime: runtime,
		},
		currentContext: parentContext,
	}
	p.profiler.applyConfigs(opts...)
	return p
}

func (p *pprofAnnotator) Enable() error {
	p.runtime.Profiler = p
	if p.currentContext == nil {
		p.currentContext = context.Background()
	}
	return p.profiler.Enable()
}

func (p *pprofAnnotator) Complete() error {
	pprof.SetGoroutineLabels(context.Background())
	return nil
}

func (p *pprofAnnotator) Start(proc lisp.Procedure) func() {
	if p.skipTrace(proc) {
		return func() {}
	}
	// The context is kept on the annotator rather than using pprof.Do so that
	// Apply needs no extra frame when profiling is off.
	oldContext := p.currentContext
	prettyLabel, _ := p.prettyFunName(proc)
	p.currentContext = pprof.WithLabels(p.currentContext, pprof.Labels("function", prettyLabel))
	// NB labels propagate to goroutines started while they are applied
	pprof.SetGoroutineLabels(p.currentContext)

	return func() {
		p.currentContext = oldContext
		pprof.SetGoroutineLabels(p.currentContext)
	}
}

// Labels returns the pprof labels currently applied by the annotator.
func (p *pprofAnnotator) Labels() map[string]string {
	labels := make(map[string]string)
	if p.currentContext == nil {
		return labels
	}
	pprof.ForLabels(p.currentContext, func(k, v string) bool {
		labels[k] = v
		return true
	})
	return labels
}
