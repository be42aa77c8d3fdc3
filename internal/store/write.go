package store

import (
	"context"
	"fmt"

	"github.com/viewloop/viewloop/internal/model"
	"github.com/viewloop/viewloop/internal/trace"
)

// WriteEntry appends one trace entry to the index.
//
// Attrs are serialized as canonical JSON so a row's text form is
// deterministic for a given entry. Idempotent on seq: re-writing the same
// entry is a no-op, a conflicting seq is an error.
func (s *Store) WriteEntry(ctx context.Context, e trace.Entry) error {
	attrs := "{}"
	if len(e.Attrs) > 0 {
		normalized := make(map[string]any, len(e.Attrs))
		for k, v := range e.Attrs {
			normalized[k] = v
		}
		data, err := model.MarshalCanonical(normalized)
		if err != nil {
			return fmt.Errorf("marshal attrs for seq %d: %w", e.Seq, err)
		}
		attrs = string(data)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO events (seq, kind, attrs)
		VALUES (?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`, e.Seq, string(e.Kind), attrs)
	if err != nil {
		return fmt.Errorf("write event seq %d: %w", e.Seq, err)
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// Conflict path: verify the existing row is the same entry.
		var kind string
		err := s.db.QueryRowContext(ctx,
			`SELECT kind FROM events WHERE seq = ?`, e.Seq).Scan(&kind)
		if err != nil {
			return fmt.Errorf("verify event seq %d: %w", e.Seq, err)
		}
		if kind != string(e.Kind) {
			return fmt.Errorf("seq %d already indexed with kind %q, got %q", e.Seq, kind, e.Kind)
		}
	}

	return nil
}

// WriteAll appends a batch of entries in order.
func (s *Store) WriteAll(ctx context.Context, entries []trace.Entry) error {
	for _, e := range entries {
		if err := s.WriteEntry(ctx, e); err != nil {
			return err
		}
	}
	return nil
}
