// Package trace records a privacy-redacted account of one monitored
// behavior execution.
//
// An Emitter is bound to one (domain, behavior) pair and owns its event
// buffer exclusively: emit operations assume single-threaded access, sit on
// the monitored execution path, and can never fail. Finalize produces an
// immutable Trace snapshot; the artifact JSON is deterministic in content
// given the same inputs, timestamps and the random trace-id component aside.
//
// Concurrent behaviors each need their own Emitter. Events from multiple
// behaviors are never multiplexed into one trace.
package trace
