package trace

import (
	"fmt"

	"github.com/viewloop/viewloop/internal/model"
)

// Snapshot captures a complete trace for golden comparison.
type Snapshot struct {
	ScenarioName string  `json:"scenario_name"`
	Trace        []Entry `json:"trace"`
}

// NewSnapshot builds a snapshot of the recorder's entries.
func NewSnapshot(name string, r *Recorder) Snapshot {
	return Snapshot{ScenarioName: name, Trace: r.Entries()}
}

// MarshalCanonical serializes the snapshot as canonical JSON.
//
// Attr values are normalized to int64 for integers so the same trace never
// serializes two ways depending on how an attribute was constructed.
func (s Snapshot) MarshalCanonical() ([]byte, error) {
	traceList := make([]any, len(s.Trace))
	for i, e := range s.Trace {
		entry := map[string]any{
			"seq":  e.Seq,
			"kind": string(e.Kind),
		}
		if len(e.Attrs) > 0 {
			attrs := make(map[string]any, len(e.Attrs))
			for k, v := range e.Attrs {
				nv, err := normalizeAttr(v)
				if err != nil {
					return nil, fmt.Errorf("trace[%d] attr %q: %w", i, k, err)
				}
				attrs[k] = nv
			}
			entry["attrs"] = attrs
		}
		traceList[i] = entry
	}

	return model.MarshalCanonical(map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	})
}

// normalizeAttr restricts attr values to the canonical-JSON subset.
func normalizeAttr(v any) (any, error) {
	switch val := v.(type) {
	case string, bool, int64:
		return val, nil
	case int:
		return int64(val), nil
	case Kind:
		return string(val), nil
	default:
		return nil, fmt.Errorf("unsupported attr type %T", v)
	}
}
