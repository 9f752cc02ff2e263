// Package trace is the structured event log of the trivia CLI.
//
// Enable it with command-line flags:
//
//	trivia scan --trace=- --trace-level=detail ./src
//
// Implementations:
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: immediate write to a file or stderr, text or NDJSON
//   - RingTracer: last N events in memory, dumped when a command fails
//
// Levels are off, error, phase (commands and scans), detail (per file) and
// debug (per offset query). Error events pass every level except off.
//
// Tracers travel through the driver in context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePass, "scan", trace.CurrentSpan(ctx))
//	defer span.End("")
package trace
