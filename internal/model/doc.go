// Package model provides the foundational value types for viewloop.
//
// This package contains type definitions and pure helpers only. All other
// internal packages import model; model imports nothing internal. This
// ensures it remains the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - Values flowing through props are compared by shallow equality:
//     primitives by value, slices/maps/pointers by reference identity.
//   - Rendered output is an immutable value; a skipped re-render must hand
//     back the same *Output, never an equivalent copy.
//   - Trace snapshots serialize through canonical JSON (sorted keys, NFC
//     normalized strings, no floats, no nulls) so golden comparisons are
//     byte-stable across runs.
package model
