// Package trace records what the linter is doing, for diagnosing slow or
// stuck runs (most often a hanging external parser).
//
// Enable it from the command line:
//
//	scopelint --trace=- --trace-level=detail src/*.pyj
//
// Tracers: Nop (disabled), StreamTracer (writes each event immediately),
// RingTracer (keeps the last N events for a dump on failure) and
// MultiTracer (fans out).
//
// Levels: off, error, phase (driver and passes), detail (per file), debug
// (everything, including node-level events).
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "parse", parentID)
//	defer span.End("")
package trace
