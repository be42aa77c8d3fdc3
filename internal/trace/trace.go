// Package trace implements the diagnostic observation channel.
//
// Every interesting decision in the tree - a derived recomputation, a
// non-skipped render, a settled counter change, a caught failure - is
// recorded as one structured entry. Presence, absence and ordering of
// entries are the observable contract; message text is not.
//
// Entries are stamped with a monotonic logical seq, never wall-clock time,
// so the same action sequence produces an identical trace on every run and
// golden comparison is byte-stable.
package trace

import (
	"log/slog"
)

// Kind classifies a trace entry.
type Kind string

const (
	// KindFilterRecomputed fires once per actual derived-filter scan.
	KindFilterRecomputed Kind = "filter_recomputed"
	// KindViewRendered fires when a gated view actually rendered (the gate
	// did not skip). Skipped renders produce no entry.
	KindViewRendered Kind = "view_rendered"
	// KindCounterChanged fires after the counter value has settled.
	KindCounterChanged Kind = "counter_changed"
	// KindFailureCaught fires for every failure a boundary intercepts.
	KindFailureCaught Kind = "failure_caught"
	// KindUserAdded fires when a user is appended.
	KindUserAdded Kind = "user_added"
	// KindErrorToggled fires when the error-visibility flag flips.
	KindErrorToggled Kind = "error_toggled"
	// KindBoundaryReset fires when a faulted boundary is reset.
	KindBoundaryReset Kind = "boundary_reset"
)

// Entry is one observation.
//
// Attr values are restricted to string, bool, int and int64 so entries
// always serialize through canonical JSON.
type Entry struct {
	Seq   int64          `json:"seq"`
	Kind  Kind           `json:"kind"`
	Attrs map[string]any `json:"attrs,omitempty"`
}

// Clock stamps entries with logical sequence numbers.
// Implemented by runtime.Clock and testutil.DeterministicClock.
type Clock interface {
	Next() int64
}

// Recorder accumulates trace entries and mirrors each one to slog.
//
// NOT safe for concurrent use; recording happens on the single-writer loop.
type Recorder struct {
	clock   Clock
	logger  *slog.Logger
	entries []Entry
}

// NewRecorder creates a Recorder stamping entries from clock.
// A nil logger falls back to slog.Default().
func NewRecorder(clock Clock, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		clock:   clock,
		logger:  logger,
		entries: make([]Entry, 0, 32),
	}
}

// Record appends an entry and returns it.
func (r *Recorder) Record(kind Kind, attrs map[string]any) Entry {
	e := Entry{
		Seq:   r.clock.Next(),
		Kind:  kind,
		Attrs: attrs,
	}
	r.entries = append(r.entries, e)

	args := make([]any, 0, 2+2*len(attrs))
	args = append(args, "seq", e.Seq)
	for k, v := range attrs {
		args = append(args, k, v)
	}
	r.logger.Info(string(kind), args...)

	return e
}

// Entries returns a copy of all recorded entries in order.
func (r *Recorder) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Count returns the number of entries of the given kind.
func (r *Recorder) Count(kind Kind) int {
	n := 0
	for _, e := range r.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// Len returns the total number of entries.
func (r *Recorder) Len() int {
	return len(r.entries)
}
