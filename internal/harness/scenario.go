package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/viewloop/viewloop/internal/runtime"
	"github.com/viewloop/viewloop/internal/trace"
)

// Scenario defines a conformance test scenario: a starting state, a
// sequence of dispatched actions, and assertions over the resulting trace
// and final state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Token is an optional fixed event token. If empty it defaults to
	// "test-token-default" for deterministic golden comparison.
	Token string `yaml:"token,omitempty"`

	// Start is the optional initial application state. If absent the tree
	// starts with counter 0, error flag down and no users.
	Start *StartState `yaml:"start,omitempty"`

	// Steps are the actions dispatched, in order.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// StartState seeds the state container before the mount render.
type StartState struct {
	Counter      int64      `yaml:"counter,omitempty"`
	ErrorVisible bool       `yaml:"error_visible,omitempty"`
	Users        []UserSeed `yaml:"users,omitempty"`
}

// UserSeed is one initial user.
type UserSeed struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Step dispatches one action, optionally repeated.
type Step struct {
	// Do is the action name: increment, add_user, toggle_error or
	// reset_boundary.
	Do string `yaml:"do"`

	// Repeat dispatches the action this many times (default 1).
	Repeat int `yaml:"repeat,omitempty"`
}

// Times returns the effective repeat count.
func (s Step) Times() int {
	if s.Repeat < 1 {
		return 1
	}
	return s.Repeat
}

// Assertion validates the trace or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Kind is the trace entry kind (trace_contains, trace_count).
	Kind string `yaml:"kind,omitempty"`

	// Attrs are expected entry attributes (trace_contains). Subset match -
	// only specified attrs are validated.
	Attrs map[string]any `yaml:"attrs,omitempty"`

	// Count is the expected number of entries (trace_count).
	Count int `yaml:"count,omitempty"`

	// Kinds is the expected relative order of entry kinds (trace_order).
	Kinds []string `yaml:"kinds,omitempty"`

	// Expect contains expected final-state values (final_state). Subset
	// match - only specified fields are validated.
	Expect map[string]any `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// LoadScenario reads, schema-checks and parses a scenario YAML file.
// Returns an error if the file doesn't exist, fails CUE schema validation,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// CUE schema validation first: it produces far better messages for
	// structural mistakes than a strict YAML decode does.
	if err := ValidateSchema(path, data); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	// Parse YAML with strict field validation (catches typos the schema's
	// open attrs/expect structs cannot).
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	if s.Start != nil {
		if s.Start.Counter < 0 {
			return fmt.Errorf("start.counter must be non-negative")
		}
		for i, u := range s.Start.Users {
			if u.Name == "" || u.Email == "" {
				return fmt.Errorf("start.users[%d]: name and email are required", i)
			}
		}
	}

	for i, step := range s.Steps {
		if step.Do == "" {
			return fmt.Errorf("steps[%d]: do is required", i)
		}
		if !runtime.ValidAction(runtime.Action(step.Do)) {
			return fmt.Errorf("steps[%d]: unknown action %q", i, step.Do)
		}
		if step.Repeat < 0 {
			return fmt.Errorf("steps[%d]: repeat must be non-negative", i)
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_contains", index)
		}
		if !knownKind(a.Kind) {
			return fmt.Errorf("assertions[%d]: unknown trace kind %q", index, a.Kind)
		}
	case AssertTraceOrder:
		if len(a.Kinds) == 0 {
			return fmt.Errorf("assertions[%d]: kinds list is required for trace_order", index)
		}
		for _, k := range a.Kinds {
			if !knownKind(k) {
				return fmt.Errorf("assertions[%d]: unknown trace kind %q", index, k)
			}
		}
	case AssertTraceCount:
		if a.Kind == "" {
			return fmt.Errorf("assertions[%d]: kind is required for trace_count", index)
		}
		if !knownKind(a.Kind) {
			return fmt.Errorf("assertions[%d]: unknown trace kind %q", index, a.Kind)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}

// knownKind reports whether k names a trace entry kind.
func knownKind(k string) bool {
	switch trace.Kind(k) {
	case trace.KindFilterRecomputed, trace.KindViewRendered,
		trace.KindCounterChanged, trace.KindFailureCaught,
		trace.KindUserAdded, trace.KindErrorToggled, trace.KindBoundaryReset:
		return true
	default:
		return false
	}
}
