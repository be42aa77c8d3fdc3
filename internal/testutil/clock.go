// Package testutil provides deterministic helpers for tests and the
// scenario harness.
package testutil

import "sync"

// DeterministicClock is a thread-safe monotonic logical clock for tests.
//
// Unlike runtime.Clock, DeterministicClock can be reset for test reuse,
// so the same scenario can run repeatedly with identical seq values.
type DeterministicClock struct {
	mu  sync.Mutex
	seq int64
}

// NewDeterministicClock creates a clock starting at 0.
// The first call to Next() returns 1.
func NewDeterministicClock() *DeterministicClock {
	return &DeterministicClock{}
}

// Next increments and returns the next sequence number.
func (c *DeterministicClock) Next() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	return c.seq
}

// Current returns the current sequence number without incrementing.
func (c *DeterministicClock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.seq
}

// Reset resets the clock to 0. After Reset(), Next() returns 1 again.
func (c *DeterministicClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq = 0
}
