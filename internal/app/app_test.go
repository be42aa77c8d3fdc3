package app

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewloop/viewloop/internal/fault"
	"github.com/viewloop/viewloop/internal/model"
	"github.com/viewloop/viewloop/internal/runtime"
	"github.com/viewloop/viewloop/internal/state"
	"github.com/viewloop/viewloop/internal/testutil"
	"github.com/viewloop/viewloop/internal/trace"
)

// fixture builds an app over the default demo users with a deterministic
// clock shared between event stamps and trace entries.
type fixture struct {
	app   *App
	rec   *trace.Recorder
	clock *testutil.DeterministicClock
}

func newFixture(t *testing.T, opts ...state.Option) *fixture {
	t.Helper()
	clock := testutil.NewDeterministicClock()
	rec := trace.NewRecorder(clock, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if opts == nil {
		opts = []state.Option{state.WithUsers(DefaultUsers())}
	}
	return &fixture{app: New(rec, opts...), rec: rec, clock: clock}
}

func (f *fixture) apply(t *testing.T, a runtime.Action) {
	t.Helper()
	ev := runtime.Event{Action: a, Token: "test-token", Seq: f.clock.Next()}
	require.NoError(t, f.app.Apply(ev))
}

func traceKinds(rec *trace.Recorder) []trace.Kind {
	entries := rec.Entries()
	kinds := make([]trace.Kind, len(entries))
	for i, e := range entries {
		kinds[i] = e.Kind
	}
	return kinds
}

func TestMountRender(t *testing.T) {
	f := newFixture(t)

	assert.Equal(t, 1, f.app.UserList().Renders())
	assert.Equal(t, 1, f.app.ActiveUserList().Renders())
	assert.Equal(t, 1, f.app.FilterScans())

	// Default users: one gmail, one hotmail.
	require.Len(t, f.app.ActiveUsers(), 1)
	assert.Equal(t, "Maithili", f.app.ActiveUsers()[0].Name)

	require.NotNil(t, f.app.ProfileOutput())
	assert.Equal(t, model.OutputProfile, f.app.ProfileOutput().Kind)

	want := []trace.Kind{
		trace.KindFilterRecomputed,
		trace.KindViewRendered,
		trace.KindViewRendered,
	}
	if diff := cmp.Diff(want, traceKinds(f.rec)); diff != "" {
		t.Errorf("mount trace mismatch (-want +got):\n%s", diff)
	}
}

func TestIncrementDoesNotRerender(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionIncrement)
	f.apply(t, runtime.ActionIncrement)

	assert.Equal(t, int64(2), f.app.Snapshot().Counter)
	assert.Equal(t, 1, f.app.UserList().Renders())
	assert.Equal(t, 1, f.app.ActiveUserList().Renders())
	assert.Equal(t, 1, f.app.FilterScans())
	assert.Equal(t, 2, f.rec.Count(trace.KindCounterChanged))
	assert.Equal(t, 2, f.rec.Count(trace.KindViewRendered))
}

func TestIncrementReusesOutputs(t *testing.T) {
	f := newFixture(t)
	userList := f.app.UserList().Output()
	active := f.app.ActiveUserList().Output()
	profile := f.app.ProfileOutput()

	f.apply(t, runtime.ActionIncrement)

	// Skipped renders hand back the SAME output values, not equivalents.
	assert.Same(t, userList, f.app.UserList().Output())
	assert.Same(t, active, f.app.ActiveUserList().Output())

	// The profile view is not gated; it re-renders, producing an equal but
	// distinct value.
	assert.NotSame(t, profile, f.app.ProfileOutput())
	assert.Equal(t, profile, f.app.ProfileOutput())
}

func TestAddUserRerendersBothLists(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionAddUser)

	assert.Equal(t, 2, f.app.UserList().Renders())
	assert.Equal(t, 2, f.app.ActiveUserList().Renders())
	assert.Equal(t, 2, f.app.FilterScans())

	// Synthesized user lands on gmail and joins the active list.
	require.Len(t, f.app.ActiveUsers(), 2)
	assert.Equal(t, "User 3", f.app.ActiveUsers()[1].Name)

	entries := f.rec.Entries()
	last := entries[len(entries)-1]
	assert.Equal(t, trace.KindUserAdded, last.Kind)
	assert.Equal(t, "User 3", last.Attrs["name"])
	assert.Equal(t, "user3@gmail.com", last.Attrs["email"])
	assert.Equal(t, int64(3), last.Attrs["users"])
}

func TestRenderCountsGrowOnlyOnInputChange(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionIncrement)
	f.apply(t, runtime.ActionAddUser)
	f.apply(t, runtime.ActionIncrement)
	f.apply(t, runtime.ActionAddUser)
	f.apply(t, runtime.ActionIncrement)

	// 1 mount + 2 adds; increments contribute nothing.
	assert.Equal(t, 3, f.app.UserList().Renders())
	assert.Equal(t, 3, f.app.ActiveUserList().Renders())
	assert.Equal(t, 3, f.app.FilterScans())
}

func TestToggleErrorFaultsBoundary(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionToggleError)

	assert.True(t, f.app.Snapshot().ErrorVisible)
	assert.Equal(t, fault.Faulted, f.app.Boundary().State())
	assert.Equal(t, model.OutputFallback, f.app.ProfileOutput().Kind)
	assert.Equal(t, 1, f.rec.Count(trace.KindFailureCaught))

	// Failure is reported before the toggle entry settles.
	kinds := traceKinds(f.rec)
	assert.Equal(t, trace.KindFailureCaught, kinds[len(kinds)-2])
	assert.Equal(t, trace.KindErrorToggled, kinds[len(kinds)-1])

	// The gated lists are untouched by the flag.
	assert.Equal(t, 1, f.app.UserList().Renders())
	assert.Equal(t, 1, f.app.ActiveUserList().Renders())
}

func TestToggleOffDoesNotResetBoundary(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionToggleError)
	fallback := f.app.ProfileOutput()

	f.apply(t, runtime.ActionToggleError)

	assert.False(t, f.app.Snapshot().ErrorVisible)
	assert.Equal(t, fault.Faulted, f.app.Boundary().State())
	assert.Same(t, fallback, f.app.ProfileOutput())

	// The child was not re-attempted: still exactly one caught failure.
	assert.Equal(t, 1, f.rec.Count(trace.KindFailureCaught))
}

func TestResetBoundaryRestoresProfile(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionToggleError)
	f.apply(t, runtime.ActionToggleError)
	f.apply(t, runtime.ActionResetBoundary)

	assert.Equal(t, fault.Idle, f.app.Boundary().State())
	assert.Equal(t, model.OutputProfile, f.app.ProfileOutput().Kind)
	assert.Equal(t, 1, f.rec.Count(trace.KindBoundaryReset))
}

func TestResetWhileIdleRecordsNothing(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionResetBoundary)

	assert.Equal(t, fault.Idle, f.app.Boundary().State())
	assert.Equal(t, 0, f.rec.Count(trace.KindBoundaryReset))
}

func TestResetWhileErrorStillVisibleRefaults(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionToggleError)
	f.apply(t, runtime.ActionResetBoundary)

	// The flag is still up, so the re-attempted child fails again.
	assert.Equal(t, fault.Faulted, f.app.Boundary().State())
	assert.Equal(t, 2, f.rec.Count(trace.KindFailureCaught))
	assert.Equal(t, 1, f.rec.Count(trace.KindBoundaryReset))
}

func TestEmptyTreeFaultsOnMount(t *testing.T) {
	f := newFixture(t, state.WithCounter(0))

	assert.Equal(t, fault.Faulted, f.app.Boundary().State())
	assert.Equal(t, model.OutputFallback, f.app.ProfileOutput().Kind)
	assert.Equal(t, 1, f.rec.Count(trace.KindFailureCaught))
}

func TestUnknownActionError(t *testing.T) {
	f := newFixture(t)

	err := f.app.Apply(runtime.Event{Action: runtime.Action("teleport"), Seq: f.clock.Next()})
	assert.Error(t, err)
}

func TestFiveUserWalkthrough(t *testing.T) {
	f := newFixture(t)

	f.apply(t, runtime.ActionAddUser)
	f.apply(t, runtime.ActionAddUser)
	f.apply(t, runtime.ActionAddUser)

	snap := f.app.Snapshot()
	require.Len(t, snap.Users, 5)

	// Everyone but Shubham is on gmail.
	active := f.app.ActiveUsers()
	require.Len(t, active, 4)
	assert.Equal(t, "Maithili", active[0].Name)
	assert.Equal(t, "User 3", active[1].Name)
	assert.Equal(t, "User 4", active[2].Name)
	assert.Equal(t, "User 5", active[3].Name)

	assert.Equal(t, 4, f.app.UserList().Renders())
	assert.Equal(t, 4, f.app.ActiveUserList().Renders())
	assert.Equal(t, 4, f.app.FilterScans())

	outputs := f.app.Outputs()
	require.Len(t, outputs, 3)
	assert.Len(t, outputs[0].Lines, 5)
	assert.Len(t, outputs[1].Lines, 4)
	assert.Equal(t, model.OutputProfile, outputs[2].Kind)
}
