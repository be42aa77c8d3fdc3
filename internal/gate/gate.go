// Package gate implements the re-render skipping policy.
//
// A render gate decides, for one component instance, whether the previously
// produced output may be reused instead of rendering again. The decision is
// a pure function of (previous inputs, next inputs) under shallow equality;
// the per-instance bookkeeping (previous snapshot, cached output, render
// counter) lives in Instance.
package gate

import "github.com/viewloop/viewloop/internal/model"

// Mode selects which inputs participate in the skip decision.
type Mode int

const (
	// ShallowProps skips when all props are shallow-equal.
	ShallowProps Mode = iota + 1
	// ShallowPropsAndState additionally requires the component's own
	// internal state to be shallow-equal.
	ShallowPropsAndState
)

// String returns the mode name for logs and traces.
func (m Mode) String() string {
	switch m {
	case ShallowProps:
		return "shallow_props"
	case ShallowPropsAndState:
		return "shallow_props_and_state"
	default:
		return "unknown"
	}
}

// Inputs is the snapshot a skip decision compares: the component's props
// and, for ShallowPropsAndState, its internal state.
type Inputs struct {
	Props model.Props
	State model.Props
}

// ShouldSkip reports whether a render may be skipped given the previous
// inputs and the candidate next inputs.
//
// prev is nil on the first invocation for an instance; a first render is
// never skipped.
func ShouldSkip(prev *Inputs, next Inputs, mode Mode) bool {
	if prev == nil {
		return false
	}

	if !model.PropsEqual(prev.Props, next.Props) {
		return false
	}
	if mode == ShallowPropsAndState && !model.PropsEqual(prev.State, next.State) {
		return false
	}
	return true
}
