package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/viewloop/viewloop/internal/app"
	"github.com/viewloop/viewloop/internal/model"
	"github.com/viewloop/viewloop/internal/runtime"
	"github.com/viewloop/viewloop/internal/state"
	"github.com/viewloop/viewloop/internal/store"
	"github.com/viewloop/viewloop/internal/testutil"
	"github.com/viewloop/viewloop/internal/trace"
)

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh tree with a deterministic clock, a
// repeating event token and an isolated in-memory trace index, so results
// are reproducible byte for byte.
//
// Execution flow:
//  1. Build the tree from the scenario's start state (mount render runs)
//  2. Dispatch each step's action through the synchronous apply path
//  3. Index the recorded trace in an in-memory SQLite database
//  4. Evaluate assertions; return pass/fail, trace and errors
func Run(scenario *Scenario) (*Result, error) {
	clock := testutil.NewDeterministicClock()
	tokens := testutil.NewRepeatingTokenGenerator(scenario.Token)

	// Suppress log mirroring during scenario runs; the trace itself is the
	// observable.
	rec := trace.NewRecorder(clock, slog.New(slog.NewTextHandler(io.Discard, nil)))

	a := app.New(rec, startOptions(scenario.Start)...)

	result := NewResult()
	for i, step := range scenario.Steps {
		for rep := 0; rep < step.Times(); rep++ {
			ev := runtime.Event{
				Action: runtime.Action(step.Do),
				Token:  tokens.Generate(),
				Seq:    clock.Next(),
			}
			if err := a.Apply(ev); err != nil {
				return nil, fmt.Errorf("step %d (%s): %w", i, step.Do, err)
			}
		}
	}

	result.Trace = rec.Entries()
	result.Final = finalState(a)

	// Index the trace for SQL-backed assertions.
	st, err := store.Open(store.MemoryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace index: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	if err := st.WriteAll(ctx, result.Trace); err != nil {
		return nil, fmt.Errorf("failed to index trace: %w", err)
	}

	actx := &AssertionContext{
		Store: st,
		App:   a,
		Ctx:   ctx,
	}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	return result, nil
}

// startOptions converts a scenario's start state to store options.
func startOptions(start *StartState) []state.Option {
	if start == nil {
		return nil
	}

	users := make([]model.User, len(start.Users))
	for i, u := range start.Users {
		users[i] = model.User{Name: u.Name, Email: u.Email}
	}

	return []state.Option{
		state.WithCounter(start.Counter),
		state.WithErrorVisible(start.ErrorVisible),
		state.WithUsers(users),
	}
}

// finalState flattens the tree's final state into the map final_state
// assertions compare against.
func finalState(a *app.App) map[string]any {
	snap := a.Snapshot()
	return map[string]any{
		"counter":                  snap.Counter,
		"error_visible":            snap.ErrorVisible,
		"users":                    int64(len(snap.Users)),
		"active_users":             int64(len(a.ActiveUsers())),
		"boundary":                 a.Boundary().State().String(),
		"profile_output":           string(a.ProfileOutput().Kind),
		"filter_scans":             int64(a.FilterScans()),
		"user_list_renders":        int64(a.UserList().Renders()),
		"active_user_list_renders": int64(a.ActiveUserList().Renders()),
	}
}
