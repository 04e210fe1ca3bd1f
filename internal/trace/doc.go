// Package trace records what a generation pass is doing.
//
// Tracing is off by default. Enable it from the command line:
//
//	sumgen diag --trace=- --trace-level=phase ./src
//
// Two tracers exist:
//
//   - Nop: zero-overhead tracer used when tracing is disabled
//   - StreamTracer: writes every event immediately (text or NDJSON)
//
// Levels select how much is recorded. LevelPhase shows the driver and the
// pipeline stages; LevelDetail adds per-file events; LevelDebug adds one
// event per declaration.
package trace
