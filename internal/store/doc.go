// Package store provides a SQLite-backed index of the diagnostic trace.
//
// The index is an append-only `events` table mirroring the trace recorder:
// one row per entry, ordered by logical seq. It exists so the scenario
// harness's final_state assertions and the `viewloop trace` command can
// query a run with SQL instead of replaying slices.
//
// This is NOT application-state persistence - the application state itself
// is never stored anywhere. The default database is `:memory:`; writing to
// a file is an explicit CLI opt-in for post-run inspection.
//
// All ordering uses the seq column (logical clock), never timestamps, so
// query results are identical across runs of the same action sequence.
package store
