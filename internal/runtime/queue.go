package runtime

import "sync"

// Action is a zero-argument user-facing control.
type Action string

const (
	// ActionIncrement raises the counter by one.
	ActionIncrement Action = "increment"
	// ActionAddUser appends a synthesized user.
	ActionAddUser Action = "add_user"
	// ActionToggleError flips the error-visibility flag.
	ActionToggleError Action = "toggle_error"
	// ActionResetBoundary clears the profile fault boundary.
	ActionResetBoundary Action = "reset_boundary"
)

// KnownActions lists every dispatchable action, in a stable order.
var KnownActions = []Action{
	ActionIncrement,
	ActionAddUser,
	ActionToggleError,
	ActionResetBoundary,
}

// ValidAction reports whether a is a known action.
func ValidAction(a Action) bool {
	for _, k := range KnownActions {
		if a == k {
			return true
		}
	}
	return false
}

// Event is one dispatched action with its correlation token and seq stamp.
type Event struct {
	Action Action
	Token  string
	Seq    int64
}

// eventQueue is a thread-safe FIFO queue for events.
//
// The queue is unbounded; controls can always be dispatched without
// blocking. Thread-safety is provided for external enqueuing (CLI input
// reader, tests) while the loop dequeues.
//
// The queue uses a channel for signaling to enable context-aware waiting
// in the Run loop.
type eventQueue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{} // Signals event availability (buffered, size 1)
}

// newEventQueue creates an empty event queue.
func newEventQueue() *eventQueue {
	return &eventQueue{
		events: make([]Event, 0, 16),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue adds an event to the back of the queue.
// Thread-safe: may be called from any goroutine.
// Returns false if the queue is closed.
func (q *eventQueue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.events = append(q.events, e)

	// Signal availability (non-blocking - buffer of 1 coalesces signals)
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue attempts to dequeue without blocking.
// Returns (Event{}, false) if the queue is empty.
func (q *eventQueue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}

	e := q.events[0]
	q.events[0] = Event{}

	if len(q.events) == 1 {
		// Last element - reset to empty slice with original capacity
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}

	return e, true
}

// Wait returns a channel that signals when events may be available.
// Use with select for context-aware waiting.
func (q *eventQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *eventQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close signals that no more events will be enqueued.
// Wakes any blocked waiters by closing the signal channel.
func (q *eventQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}
