// Copyright © 2024 The ELPS authors

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime/pprof"
	"sync"
	"time"

	octrace "go.opencensus.io/trace"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/luthersystems/schemer/lisp"
	"github.com/luthersystems/schemer/lisp/x/profiler"
)

// Profile modes accepted by --profile.
const (
	profileNone       = "none"
	profilePprof      = "pprof"
	profileOtel       = "otel"
	profileOpenCensus = "opencensus"
	profileCallgrind  = "callgrind"
)

var profileModes = []string{profileNone, profilePprof, profileOtel, profileOpenCensus, profileCallgrind}

// startProfile attaches the profiler named by mode to rt.  Output goes to
// file, or for span based modes to stderr when file is empty.  The returned
// function completes the profile.
func startProfile(ctx context.Context, rt *lisp.Runtime, mode, file string, stderr io.Writer) (func() error, error) {
	switch mode {
	case "", profileNone:
		return func() error { return nil }, nil
	case profileCallgrind:
		if file == "" {
			file = "callgrind.out.schemer"
		}
		p := profiler.NewCallgrindProfiler(rt, profiler.WithDocLabeler())
		if err := p.SetFile(file); err != nil {
			return nil, err
		}
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return p.Complete, nil
	case profilePprof:
		if file == "" {
			file = "cpu.pprof"
		}
		f, err := os.Create(file) //#nosec G304
		if err != nil {
			return nil, err
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			_ = f.Close()
			return nil, err
		}
		p := profiler.NewPprofAnnotator(rt, ctx, profiler.WithDocLabeler())
		if err := p.Enable(); err != nil {
			pprof.StopCPUProfile()
			_ = f.Close()
			return nil, err
		}
		return func() error {
			err := p.Complete()
			pprof.StopCPUProfile()
			if cerr := f.Close(); err == nil {
				err = cerr
			}
			return err
		}, nil
	case profileOtel:
		w, closeOut, err := spanOutput(file, stderr)
		if err != nil {
			return nil, err
		}
		tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(&otelSpanWriter{w: w}))
		otel.SetTracerProvider(tp)
		ctx, root := tp.Tracer("schemer").Start(ctx, "run")
		p := profiler.NewOpenTelemetryAnnotator(rt, ctx, profiler.WithDocLabeler())
		if err := p.Enable(); err != nil {
			return nil, err
		}
		return func() error {
			err := p.Complete()
			root.End()
			if serr := tp.Shutdown(context.Background()); err == nil {
				err = serr
			}
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		}, nil
	case profileOpenCensus:
		w, closeOut, err := spanOutput(file, stderr)
		if err != nil {
			return nil, err
		}
		exp := &ocSpanWriter{w: w}
		octrace.RegisterExporter(exp)
		ctx, root := octrace.StartSpan(ctx, "run", octrace.WithSampler(octrace.AlwaysSample()))
		p := profiler.NewOpenCensusAnnotator(rt, ctx, profiler.WithDocLabeler())
		if err := p.Enable(); err != nil {
			octrace.UnregisterExporter(exp)
			return nil, err
		}
		return func() error {
			err := p.Complete()
			root.End()
			octrace.UnregisterExporter(exp)
			if cerr := closeOut(); err == nil {
				err = cerr
			}
			return err
		}, nil
	default:
		return nil, fmt.Errorf("unknown profile mode %q (expected one of %v)", mode, profileModes)
	}
}

func spanOutput(file string, stderr io.Writer) (io.Writer, func() error, error) {
	if file == "" {
		return stderr, func() error { return nil }, nil
	}
	f, err := os.Create(file) //#nosec G304
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// otelSpanWriter is a trace exporter writing one line per ended span.
type otelSpanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ sdktrace.SpanExporter = &otelSpanWriter{}

func (e *otelSpanWriter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, s := range spans {
		if err := writeSpan(e.w, s.Name(), s.EndTime().Sub(s.StartTime())); err != nil {
			return err
		}
	}
	return nil
}

func (e *otelSpanWriter) Shutdown(ctx context.Context) error {
	return nil
}

// ocSpanWriter is the opencensus counterpart of otelSpanWriter.
type ocSpanWriter struct {
	mu sync.Mutex
	w  io.Writer
}

var _ octrace.Exporter = &ocSpanWriter{}

func (e *ocSpanWriter) ExportSpan(s *octrace.SpanData) {
	e.mu.Lock()
	defer e.mu.Unlock()
	_ = writeSpan(e.w, s.Name, s.EndTime.Sub(s.StartTime))
}

func writeSpan(w io.Writer, name string, d time.Duration) error {
	_, err := fmt.Fprintf(w, "span %s %s\n", name, d)
	return err
}
