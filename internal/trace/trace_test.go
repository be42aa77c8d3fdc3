package trace

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewloop/viewloop/internal/testutil"
)

func newTestRecorder() (*Recorder, *testutil.DeterministicClock) {
	clock := testutil.NewDeterministicClock()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRecorder(clock, logger), clock
}

func TestRecordStampsMonotonicSeq(t *testing.T) {
	rec, _ := newTestRecorder()

	e1 := rec.Record(KindFilterRecomputed, map[string]any{"scans": 1})
	e2 := rec.Record(KindViewRendered, map[string]any{"view": "user_list"})
	e3 := rec.Record(KindCounterChanged, nil)

	assert.Equal(t, int64(1), e1.Seq)
	assert.Equal(t, int64(2), e2.Seq)
	assert.Equal(t, int64(3), e3.Seq)
	assert.Equal(t, 3, rec.Len())
}

func TestRecordSharesClockWithEvents(t *testing.T) {
	rec, clock := newTestRecorder()

	rec.Record(KindCounterChanged, nil)
	eventSeq := clock.Next()
	e := rec.Record(KindCounterChanged, nil)

	// Trace entries and event stamps interleave on one sequence.
	assert.Equal(t, int64(2), eventSeq)
	assert.Equal(t, int64(3), e.Seq)
}

func TestEntriesReturnsCopy(t *testing.T) {
	rec, _ := newTestRecorder()
	rec.Record(KindUserAdded, map[string]any{"name": "User 1"})

	entries := rec.Entries()
	require.Len(t, entries, 1)
	entries[0].Kind = KindErrorToggled

	assert.Equal(t, KindUserAdded, rec.Entries()[0].Kind)
}

func TestCount(t *testing.T) {
	rec, _ := newTestRecorder()
	rec.Record(KindViewRendered, nil)
	rec.Record(KindViewRendered, nil)
	rec.Record(KindFailureCaught, nil)

	assert.Equal(t, 2, rec.Count(KindViewRendered))
	assert.Equal(t, 1, rec.Count(KindFailureCaught))
	assert.Equal(t, 0, rec.Count(KindBoundaryReset))
}

func TestSnapshotMarshalCanonical(t *testing.T) {
	rec, _ := newTestRecorder()
	rec.Record(KindFilterRecomputed, map[string]any{"scans": 1, "active": int64(2)})
	rec.Record(KindCounterChanged, nil)

	snap := NewSnapshot("demo", rec)
	data, err := snap.MarshalCanonical()
	require.NoError(t, err)

	want := `{"scenario_name":"demo","trace":[` +
		`{"attrs":{"active":2,"scans":1},"kind":"filter_recomputed","seq":1},` +
		`{"kind":"counter_changed","seq":2}]}`
	assert.Equal(t, want, string(data))
}

func TestSnapshotRejectsUnsupportedAttr(t *testing.T) {
	rec, _ := newTestRecorder()
	rec.Record(KindUserAdded, map[string]any{"bad": 1.5})

	snap := NewSnapshot("demo", rec)
	_, err := snap.MarshalCanonical()
	assert.Error(t, err)
}
