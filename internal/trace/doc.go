// Package trace records what fnqual is doing while it expands files.
//
// Spans are opened per command, per pass over a file, per file and per
// annotation site, and are written as text, NDJSON or Chrome trace events.
//
// # Usage
//
//	fnqual expand --trace=- --trace-level=detail src/
//	fnqual expand --trace=out.json --trace-level=debug src/   # chrome://tracing
//
// # Tracers
//
//   - Nop: used when tracing is off
//   - StreamTracer: immediate write to a file or stderr
//   - RingTracer: last N events in memory, dumped when a command fails
//   - MultiTracer: stream + ring
//
// # Levels and scopes
//
//   - LevelPhase: ScopeDriver and ScopePass (lex, scan, expand, write)
//   - LevelDetail: plus ScopeFile
//   - LevelDebug: plus ScopeSite
//   - LevelError: ring only, phase granularity
//
// # Context propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "scan")
//	defer span.End("")
package trace
