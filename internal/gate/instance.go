package gate

import (
	"log/slog"

	"github.com/viewloop/viewloop/internal/model"
)

// RenderObserver is notified each time an instance actually renders (the
// gate decided NOT to skip). renders is the instance's counter after the
// increment. Skips are not reported; absence of the event is the signal.
type RenderObserver func(name string, renders int)

// Instance is a render gate bound to one component instance.
//
// It owns the instance's previous input snapshot, the last produced output
// and the render counter. Decisions do not persist across unrelated
// instances - each gated component gets its own Instance.
//
// NOT safe for concurrent use; rendering happens on the single-writer loop.
type Instance struct {
	name     string
	mode     Mode
	prev     *Inputs
	cached   *model.Output
	renders  int
	observer RenderObserver
}

// NewInstance creates a gate for a named component instance. The observer
// may be nil.
func NewInstance(name string, mode Mode, observer RenderObserver) *Instance {
	return &Instance{name: name, mode: mode, observer: observer}
}

// Render asks the gate for output given the next inputs.
//
// If the gate decides to skip, the PREVIOUSLY produced *model.Output is
// returned verbatim - the same pointer, not an equivalent value. Otherwise
// produce is invoked, the render counter increments, and the observer fires.
//
// The skipped return value reports which path was taken.
func (i *Instance) Render(next Inputs, produce func() *model.Output) (out *model.Output, skipped bool) {
	if ShouldSkip(i.prev, next, i.mode) {
		slog.Debug("render skipped",
			"view", i.name,
			"mode", i.mode.String(),
		)
		return i.cached, true
	}

	out = produce()
	i.cached = out
	snapshot := next
	i.prev = &snapshot
	i.renders++

	slog.Debug("rendered",
		"view", i.name,
		"mode", i.mode.String(),
		"renders", i.renders,
	)
	if i.observer != nil {
		i.observer(i.name, i.renders)
	}
	return out, false
}

// Name returns the instance name.
func (i *Instance) Name() string {
	return i.name
}

// Mode returns the gate mode.
func (i *Instance) Mode() Mode {
	return i.mode
}

// Renders returns how many times this instance has actually rendered.
func (i *Instance) Renders() int {
	return i.renders
}

// Output returns the last produced output (nil before the first render).
func (i *Instance) Output() *model.Output {
	return i.cached
}
