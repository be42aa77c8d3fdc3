// Package runtime implements the single-writer dispatch loop.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// All state transitions - action mutation, derived re-evaluation, gate
// decisions, fault transitions, observation hooks - execute on one control
// path per user-triggered event. This ensures:
//   - Predictable evaluation order (state, then derived values, then gates,
//     then hooks)
//   - A reproducible trace for golden comparison
//   - Simple reasoning about causality
//
// Event Processing Flow:
//  1. Controls enqueue actions to a FIFO queue via Dispatch
//  2. Loop.Run() dequeues events one at a time
//  3. The handler applies the action end to end before the next event
//     is looked at
//
// Logical Clock:
// All events and trace entries are stamped with a monotonic seq counter
// from Clock.Next(). Wall-clock timestamps are never used for ordering.
//
// There is no cancellation or timeout inside an event: processing one
// action is synchronous and completes before the loop touches the queue
// again.
package runtime
