package profiler_test

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/luthersystems/schemer/lisp/x/profiler"
	"github.com/luthersystems/schemer/schemetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opencensus.io/trace"
)

func TestNewOpenCensusAnnotator(t *testing.T) {
	// Let's sample at 100% for the purposes of this test...
	trace.ApplyConfig(trace.Config{DefaultSampler: trace.AlwaysSample()})
	exporter := new(collectingExporter)
	trace.RegisterExporter(exporter)
	t.Cleanup(func() { trace.UnregisterExporter(exporter) })

	var out bytes.Buffer
	env := schemetest.NewEnv(t, &out)
	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, context.Background(), profiler.WithSkipFilter(profiler.SkipPrimitives))
	require.NoError(t, ppa.Enable())
	runTestLisp(t, env, &out)
	assert.NoError(t, ppa.Complete())

	spans := exporter.spans()
	require.Len(t, spans, 6)
	assert.Equal(t, "add-it", spans[0].Name)
	assert.Equal(t, "recurse-it", spans[1].Name)
	assert.Equal(t, spans[1].SpanID, spans[0].ParentSpanID)
	assert.Equal(t, "add-again", spans[5].Name)
	assert.Equal(t, "compound", spans[0].Attributes["code.namespace"])
}

func TestOpenCensusEnableWithContext(t *testing.T) {
	var out bytes.Buffer
	env := schemetest.NewEnv(t, &out)
	ppa := profiler.NewOpenCensusAnnotator(env.Runtime, nil)
	assert.Error(t, ppa.Enable())

	ppa = profiler.NewOpenCensusAnnotator(env.Runtime, nil)
	//nolint:staticcheck // a nil context is the error being tested
	assert.Error(t, ppa.EnableWithContext(nil))
	assert.NoError(t, ppa.EnableWithContext(context.Background()))
	assert.Equal(t, env.Runtime.Profiler, ppa)
}

// collectingExporter records exported spans.  In the real world spans go to
// one of the exporters supported by opencensus.
type collectingExporter struct {
	mut  sync.Mutex
	data []*trace.SpanData
}

func (e *collectingExporter) ExportSpan(sd *trace.SpanData) {
	e.mut.Lock()
	defer e.mut.Unlock()
	e.data = append(e.data, sd)
}

func (e *collectingExporter) spans() []*trace.SpanData {
	e.mut.Lock()
	defer e.mut.Unlock()
	return append([]*trace.SpanData(nil), e.data...)
}
