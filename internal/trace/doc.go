// Package trace records what the IR builders and the driver are doing.
//
// A Tracer travels through the pipeline in a context.Context. The driver opens
// a span per compilation job, each builder opens a span per function and
// emits point events for patch points and GC registrations:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeFunction, "function:main", 0)
//	defer span.End("")
//
// Verbosity is chosen by Level; ScopeDriver events are shown from
// LevelPhase, ScopeFunction from LevelDetail and ScopeInstruction only at
// LevelDebug.
package trace
