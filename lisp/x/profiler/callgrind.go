package profiler

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/luthersystems/schemer/lisp"
)

// errWriter wraps an io.Writer and captures the first write error,
// short-circuiting subsequent writes after a failure.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...interface{}) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func (ew *errWriter) print(s string) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprint(ew.w, s)
}

// A profiler implementation that builds Callgrind files.  The resulting files
// can be opened in KCacheGrind or QCacheGrind.  Procedures have no source
// positions so the kind of procedure is written where the tools expect a
// file name.
type callgrindProfiler struct {
	profiler
	sync.Mutex
	writer    io.WriteCloser
	writeErr  error
	startTime time.Time
	refs      map[string]int
	refCount  int
	current   *callRef
}

var _ lisp.Profiler = &callgrindProfiler{}

// NewCallgrindProfiler returns a profiler writing callgrind output.  An
// output must be set with SetFile or SetWriter before it is enabled.
func NewCallgrindProfiler(runtime *lisp.Runtime, opts ...Option) *callgrindProfiler {
	p := new(callgrindProfiler)
	p.runtime = runtime
	runtime.Profiler = p

	p.applyConfigs(opts...)
	return p
}

// Represents something that got called
type callRef struct {
	start       time.Time
	prev        *callRef
	name        string
	file        string
	children    []*callRef
	duration    time.Duration
	startMemory uint64
}

func (p *callgrindProfiler) Enable() error {
	p.Lock()
	if p.writer == nil {
		p.Unlock()
		return errors.New("no output set in profiler")
	}
	w := &errWriter{w: p.writer}
	w.printf("version: 1\ncreator: schemer %s (Go %s)\n", lisp.Version, runtime.Version())
	w.printf("cmd: Eval\npart: 1\npositions: line\n\n")
	w.printf("events: Time_(ns) Memory_(bytes)\n\n")
	if w.err != nil {
		p.Unlock()
		return w.err
	}
	p.startTime = time.Now()
	p.refs = make(map[string]int)
	p.refCount = 0
	p.current = nil
	p.Unlock()
	p.pushCallRef("ENTRYPOINT", "-")
	return p.profiler.Enable()
}

// SetFile creates filename and writes the profile to it.
func (p *callgrindProfiler) SetFile(filename string) error {
	pointer, err := os.Create(filename) //#nosec G304
	if err != nil {
		return err
	}
	if err := p.SetWriter(pointer); err != nil {
		_ = pointer.Close()
		return err
	}
	return nil
}

// SetWriter writes the profile to w.  The writer is closed by Complete.
func (p *callgrindProfiler) SetWriter(w io.WriteCloser) error {
	p.Lock()
	defer p.Unlock()
	if p.enabled {
		return errors.New("profiler already enabled")
	}
	p.writer = w
	return nil
}

func (p *callgrindProfiler) Complete() error {
	p.Lock()
	defer p.Unlock()
	if !p.enabled {
		return errors.New("profiler not enabled")
	}
	p.enabled = false
	if p.writeErr != nil {
		return p.writeErr
	}
	ref := p.popCallRef()
	// Generate entrypoint
	ref.duration = time.Since(ref.start)
	w := &errWriter{w: p.writer}
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, 0)
	// Output the things we called
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", 0, entry.duration, 0)
	}
	w.print("\n")
	duration := time.Since(p.startTime)
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	w.printf("summary %d %d\n\n", duration.Nanoseconds(), ms.TotalAlloc)
	if w.err != nil {
		return w.err
	}
	return p.writer.Close()
}

func (p *callgrindProfiler) getRef(name string) string {
	if ref, ok := p.refs[name]; ok {
		return fmt.Sprintf("(%d)", ref)
	}
	p.refCount++
	p.refs[name] = p.refCount
	return fmt.Sprintf("(%d) %s", p.refCount, name)
}

func (p *callgrindProfiler) Start(proc lisp.Procedure) func() {
	if p.skipTrace(proc) {
		return func() {}
	}
	prettyLabel, _ := p.prettyFunName(proc)
	p.pushCallRef(prettyLabel, procKind(proc))
	return p.end
}

func (p *callgrindProfiler) pushCallRef(name string, file string) {
	p.Lock()
	defer p.Unlock()
	ref := &callRef{
		name: name,
		file: file,
		prev: p.current,
	}
	if ref.prev != nil {
		ref.prev.children = append(ref.prev.children, ref)
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	ref.startMemory = ms.TotalAlloc
	ref.start = time.Now()
	p.current = ref
}

func (p *callgrindProfiler) popCallRef() *callRef {
	ref := p.current
	if ref == nil {
		panic("callgrind profiler: unbalanced procedure exit")
	}
	p.current = ref.prev
	return ref
}

func (p *callgrindProfiler) end() {
	p.Lock()
	defer p.Unlock()
	if !p.enabled || p.writeErr != nil {
		return
	}
	ref := p.popCallRef()
	ref.duration = time.Since(ref.start)
	if ref.duration == 0 {
		ref.duration = 1
	}
	ms := &runtime.MemStats{}
	runtime.ReadMemStats(ms)
	memory := ms.TotalAlloc - ref.startMemory
	w := &errWriter{w: p.writer}
	// Write what procedure we've been observing
	w.printf("fl=%s\n", p.getRef(ref.file))
	w.printf("fn=%s\n", p.getRef(ref.name))
	w.printf("%d %d %d\n", 0, ref.duration, memory)
	// Output the things we called
	for _, entry := range ref.children {
		w.printf("cfl=%s\n", p.getRef(entry.file))
		w.printf("cfn=%s\n", p.getRef(entry.name))
		w.print("calls=1 0 0\n")
		w.printf("%d %d %d\n", 0, entry.duration, 0)
	}
	// and end the entry
	w.print("\n")
	if w.err != nil {
		p.writeErr = w.err
	}
}
