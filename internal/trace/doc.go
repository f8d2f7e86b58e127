// Package trace records what the front end is doing: driver phases,
// per-module resolution and, at debug level, individual scopes.
//
//	jsfront resolve --trace=- --trace-level=detail src/
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeModule, "resolve "+path, 0)
//	defer span.End("")
//
// StreamTracer writes each event as it happens (text or NDJSON), RingTracer
// keeps the last N events for dumping after a failure, MultiTracer fans out
// to both, and Nop costs nothing when tracing is off.
package trace
