// Package fault implements error containment around a failing subtree.
//
// A Boundary wraps the production of one child's output. A failure returned
// while producing that output is intercepted and converted into fallback
// output; failures from siblings, event handlers or anywhere else are not
// this boundary's business and propagate (or crash) as usual.
//
// The boundary is a two-state machine:
//
//	Idle --(child render returns error E)--> Faulted(E)
//	Faulted(_) --(Reset)--> Idle
//
// Once Faulted, the child is not attempted again until an explicit,
// user-triggered Reset. Reset is unconditional - it does not inspect the
// stored error.
package fault

import (
	"errors"
	"log/slog"

	"github.com/viewloop/viewloop/internal/model"
)

// State is the boundary's lifecycle state.
type State int

const (
	// Idle means the boundary is transparent: its output is the child's.
	Idle State = iota + 1
	// Faulted means a child failure was caught; output is the fallback.
	Faulted
)

// String returns the state name for logs and traces.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Faulted:
		return "faulted"
	default:
		return "unknown"
	}
}

// FailureObserver is notified of every caught failure, before the
// transition to Faulted completes.
type FailureObserver func(err error)

// Boundary contains failures from one child's output production.
//
// The boundary owns its Idle/Faulted state independently of application
// state: clearing whatever condition made the child fail does NOT reset a
// faulted boundary. NOT safe for concurrent use.
type Boundary struct {
	name     string
	state    State
	err      error
	fallback *model.Output
	observer FailureObserver
}

// NewBoundary creates an Idle boundary for a named subtree. The observer
// may be nil.
func NewBoundary(name string, observer FailureObserver) *Boundary {
	return &Boundary{name: name, state: Idle, observer: observer}
}

// Render produces the boundary's output.
//
// While Idle, the child is invoked; its output passes through untouched on
// success. An error return is reported, then the boundary transitions to
// Faulted and the fallback is produced. While Faulted, the child is NOT
// invoked and the previously produced fallback is returned.
func (b *Boundary) Render(child func() (*model.Output, error)) *model.Output {
	if b.state == Faulted {
		return b.fallback
	}

	out, err := child()
	if err != nil {
		// Report before the state transition completes.
		slog.Error("failure caught at boundary",
			"boundary", b.name,
			"error", err,
			"invalid_input", model.IsInvalidInput(err),
		)
		if b.observer != nil {
			b.observer(err)
		}

		b.state = Faulted
		b.err = err
		b.fallback = model.NewFallbackOutput(failureMessage(err))
		return b.fallback
	}

	return out
}

// Reset transitions Faulted -> Idle. Safe to call while Idle (no-op).
func (b *Boundary) Reset() {
	if b.state == Idle {
		return
	}

	slog.Info("boundary reset",
		"boundary", b.name,
		"cleared_error", b.err,
	)
	b.state = Idle
	b.err = nil
	b.fallback = nil
}

// State returns the current lifecycle state.
func (b *Boundary) State() State {
	return b.state
}

// Faulted reports whether the boundary is holding a caught failure.
func (b *Boundary) Faulted() bool {
	return b.state == Faulted
}

// Err returns the caught failure, or nil while Idle.
func (b *Boundary) Err() error {
	return b.err
}

// Name returns the boundary name.
func (b *Boundary) Name() string {
	return b.name
}

// failureMessage extracts the display message for fallback output.
func failureMessage(err error) string {
	var ie *model.InvalidInputError
	if errors.As(err, &ie) {
		return ie.Message()
	}
	return err.Error()
}
