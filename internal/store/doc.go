// Package store provides durable archival of finalized trace artifacts.
//
// Traces are stored in SQLite, one row per trace: summary columns for
// querying plus the full JSON artifact. Writes are idempotent on trace ID,
// so re-archiving the same trace is a no-op. Reads return rows in a
// deterministic order (start_time, then ID with binary collation) so that
// listings are stable across runs.
package store
