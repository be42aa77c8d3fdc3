package harness

import (
	"context"
	"fmt"

	"github.com/viewloop/viewloop/internal/app"
	"github.com/viewloop/viewloop/internal/store"
	"github.com/viewloop/viewloop/internal/trace"
)

// AssertionContext carries what assertions evaluate against: the SQLite
// trace index for trace assertions, the tree for final_state.
type AssertionContext struct {
	Store *store.Store
	App   *app.App
	Ctx   context.Context
}

// EvaluateAssertions checks every assertion and returns failure messages.
// An empty slice means all assertions held.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		var err error
		switch a.Type {
		case AssertTraceContains:
			err = assertTraceContains(actx, a)
		case AssertTraceCount:
			err = assertTraceCount(actx, a)
		case AssertTraceOrder:
			err = assertTraceOrder(actx, a)
		case AssertFinalState:
			err = assertFinalState(result, a)
		default:
			err = fmt.Errorf("unknown assertion type %q", a.Type)
		}
		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d (%s): %v", i, a.Type, err))
		}
	}
	return errs
}

// assertTraceContains verifies an entry of the kind exists with matching
// attrs (subset match; only specified attrs are compared).
func assertTraceContains(actx *AssertionContext, a Assertion) error {
	entries, err := actx.Store.ListByKind(actx.Ctx, trace.Kind(a.Kind))
	if err != nil {
		return fmt.Errorf("query trace index: %w", err)
	}

	for _, e := range entries {
		if attrsMatch(a.Attrs, e.Attrs) {
			return nil
		}
	}

	if len(a.Attrs) == 0 {
		return fmt.Errorf("no %q entry in trace", a.Kind)
	}
	return fmt.Errorf("no %q entry matches attrs %v (found %d entries of that kind)",
		a.Kind, a.Attrs, len(entries))
}

// assertTraceCount verifies entries of the kind appear exactly Count times.
func assertTraceCount(actx *AssertionContext, a Assertion) error {
	n, err := actx.Store.CountByKind(actx.Ctx, trace.Kind(a.Kind))
	if err != nil {
		return fmt.Errorf("query trace index: %w", err)
	}
	if n != a.Count {
		return fmt.Errorf("expected %d %q entries, found %d", a.Count, a.Kind, n)
	}
	return nil
}

// assertTraceOrder verifies the kinds appear in the trace in the given
// relative order (as a subsequence; other entries may interleave).
func assertTraceOrder(actx *AssertionContext, a Assertion) error {
	entries, err := actx.Store.List(actx.Ctx)
	if err != nil {
		return fmt.Errorf("query trace index: %w", err)
	}

	want := 0
	for _, e := range entries {
		if want < len(a.Kinds) && string(e.Kind) == a.Kinds[want] {
			want++
		}
	}
	if want != len(a.Kinds) {
		return fmt.Errorf("kinds %v not found in order; matched %d of %d",
			a.Kinds, want, len(a.Kinds))
	}
	return nil
}

// assertFinalState verifies expected values against the flattened final
// state (subset match).
func assertFinalState(result *Result, a Assertion) error {
	for key, want := range a.Expect {
		got, ok := result.Final[key]
		if !ok {
			return fmt.Errorf("unknown final state field %q", key)
		}
		if !scalarEqual(want, got) {
			return fmt.Errorf("final state %q: expected %v, got %v", key, want, got)
		}
	}
	return nil
}

// attrsMatch reports whether every expected attr equals the entry's attr.
func attrsMatch(expected, actual map[string]any) bool {
	for k, want := range expected {
		got, ok := actual[k]
		if !ok {
			return false
		}
		if !scalarEqual(want, got) {
			return false
		}
	}
	return true
}

// scalarEqual compares scalar values across the int widths YAML decoding
// and SQLite round-tripping produce.
func scalarEqual(a, b any) bool {
	if ai, ok := toInt64(a); ok {
		bi, ok := toInt64(b)
		return ok && ai == bi
	}
	return a == b
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	default:
		return 0, false
	}
}
