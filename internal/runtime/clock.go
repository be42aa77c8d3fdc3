package runtime

import "sync/atomic"

// Clock is a monotonic logical clock for event and trace ordering.
//
// All events and trace entries are stamped with a strictly increasing seq
// number from this clock. This ensures:
//   - Deterministic ordering (no wall-clock race conditions)
//   - Identical traces for identical action sequences
//   - Explicit causal relationships
//
// Thread-safety: Clock is safe for concurrent use (atomic operations),
// though the single-writer loop means one goroutine typically calls Next().
type Clock struct {
	seq atomic.Int64
}

// NewClock creates a new clock starting at 0.
func NewClock() *Clock {
	return &Clock{}
}

// NewClockAt creates a new clock starting at a specific sequence number.
func NewClockAt(start int64) *Clock {
	c := &Clock{}
	c.seq.Store(start)
	return c
}

// Next returns the next sequence number and increments the clock.
// Calls are linearizable - each call returns a unique, increasing value.
func (c *Clock) Next() int64 {
	return c.seq.Add(1)
}

// Current returns the current sequence number without incrementing.
func (c *Clock) Current() int64 {
	return c.seq.Load()
}
