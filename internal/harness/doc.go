// Package harness provides a conformance testing framework for the trace
// emitter.
//
// Scenarios are YAML files describing one behavior execution: an optional
// initial state, a sequence of emit steps, and assertions over the finalized
// trace. The harness replays the steps through a real emitter with a
// deterministic clock and fixed trace ID, so the same scenario always
// produces byte-identical artifacts. That determinism is what makes golden
// file comparison viable: the golden files under testdata/golden are the
// source of truth for expected artifact shape.
//
// Assertions cover the properties scenarios care about:
//   - event_count: the trace holds exactly N events (optionally of one type)
//   - contains_event: an event of a given type (and optionally function or
//     expression) appears in the trace
//   - trace_passed: the finalized metadata carries the expected verdict
//   - redacted: a key appears nowhere in event inputs, event data, or the
//     initial state snapshot
package harness
