package store

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/viewloop/viewloop/internal/trace"
)

// List returns all indexed entries ordered by seq.
func (s *Store) List(ctx context.Context) ([]trace.Entry, error) {
	return s.query(ctx, `SELECT seq, kind, attrs FROM events ORDER BY seq ASC`)
}

// ListByKind returns entries of one kind ordered by seq.
func (s *Store) ListByKind(ctx context.Context, kind trace.Kind) ([]trace.Entry, error) {
	return s.query(ctx,
		`SELECT seq, kind, attrs FROM events WHERE kind = ? ORDER BY seq ASC`,
		string(kind))
}

// CountByKind returns how many entries of one kind are indexed.
func (s *Store) CountByKind(ctx context.Context, kind trace.Kind) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM events WHERE kind = ?`, string(kind)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count events kind %q: %w", kind, err)
	}
	return n, nil
}

// LastSeq returns the highest indexed seq, or 0 for an empty index.
func (s *Store) LastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM events`).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("last seq: %w", err)
	}
	if !seq.Valid {
		return 0, nil
	}
	return seq.Int64, nil
}

// query runs a three-column entry select and decodes the rows.
func (s *Store) query(ctx context.Context, q string, args ...any) ([]trace.Entry, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var entries []trace.Entry
	for rows.Next() {
		var (
			seq   int64
			kind  string
			attrs string
		)
		if err := rows.Scan(&seq, &kind, &attrs); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}

		decoded, err := decodeAttrs(attrs)
		if err != nil {
			return nil, fmt.Errorf("decode attrs for seq %d: %w", seq, err)
		}

		entries = append(entries, trace.Entry{
			Seq:   seq,
			Kind:  trace.Kind(kind),
			Attrs: decoded,
		})
	}
	return entries, rows.Err()
}

// decodeAttrs parses the attrs column back into a map. Integers decode as
// int64 (never float64) so round-tripped entries compare equal to the
// recorder's originals.
func decodeAttrs(attrs string) (map[string]any, error) {
	if attrs == "" || attrs == "{}" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(attrs)))
	dec.UseNumber()

	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}

	out := make(map[string]any, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case json.Number:
			n, err := val.Int64()
			if err != nil {
				return nil, fmt.Errorf("attr %q: non-integer number %s", k, val)
			}
			out[k] = n
		case string, bool:
			out[k] = val
		default:
			return nil, fmt.Errorf("attr %q: unsupported type %T", k, v)
		}
	}
	return out, nil
}
