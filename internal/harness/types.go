package harness

import "github.com/viewloop/viewloop/internal/trace"

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: all steps applied and all
	// assertions held.
	Pass bool `json:"pass"`

	// Trace contains every recorded entry in order, including the mount
	// render pass. Used for trace assertions and golden comparison.
	Trace []trace.Entry `json:"trace"`

	// Errors contains assertion failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final is the application's final state as a flat map, the same view
	// final_state assertions evaluate against.
	Final map[string]any `json:"final,omitempty"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []trace.Entry{},
		Errors: []string{},
	}
}

// AddError records an assertion failure and marks the result failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
