package lisp

// Version is the version of the interpreter reported by the command line.
const Version = "0.4"

// Interface for a profiler
type Profiler interface {
	// Is the profiler enabled?
	IsEnabled() bool
	// Enable the profiler
	Enable() error
	// End the profiling session and flush any output
	Complete() error
	// Marks the start of an application of proc.  The returned function
	// marks its end.
	Start(proc Procedure) func()
}
