// Package harness provides conformance testing for the viewloop runtime.
//
// The harness executes action scenarios against a fresh application tree
// and validates the resulting diagnostic trace and final state.
//
// # Scenario Format
//
// Scenarios are defined in YAML files with the following structure:
//
//	name: scenario_name
//	description: "What this scenario validates"
//	start:
//	  counter: 0
//	  error_visible: false
//	  users:
//	    - name: Maithili
//	      email: maithili@gmail.com
//	steps:
//	  - do: add_user
//	    repeat: 3
//	  - do: toggle_error
//	assertions:
//	  - type: trace_count
//	    kind: filter_recomputed
//	    count: 4
//	  - type: final_state
//	    expect: { users: 5, active_users: 4 }
//
// # Assertion Types
//
// The following assertion types are supported:
//
//   - trace_contains: an entry of the kind exists with matching attrs
//     (subset match)
//   - trace_order: kinds appear in the trace in the given relative order
//   - trace_count: entries of the kind appear exactly N times
//   - final_state: the application's final state matches expected values
//     (subset match)
//
// Trace assertions evaluate against the SQLite trace index, final_state
// against the tree itself.
//
// # Deterministic Testing
//
// Every scenario runs with a deterministic logical clock, a repeating
// event token and a fresh in-memory trace index, so identical scenarios
// produce identical traces across runs and golden files stay byte-stable.
package harness
