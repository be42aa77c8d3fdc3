package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  string
	}{
		{"string", "hello", `"hello"`},
		{"bool true", true, `true`},
		{"bool false", false, `false`},
		{"int", 42, `42`},
		{"int64", int64(-7), `-7`},
		{"empty array", []any{}, `[]`},
		{"array", []any{1, "a", true}, `[1,"a",true]`},
		{"empty object", map[string]any{}, `{}`},
		{
			"object keys sorted",
			map[string]any{"b": 2, "a": 1, "c": 3},
			`{"a":1,"b":2,"c":3}`,
		},
		{
			"nested",
			map[string]any{"outer": map[string]any{"z": 1, "a": []any{"x"}}},
			`{"outer":{"a":["x"],"z":1}}`,
		},
		{"no html escaping", "<a> & </a>", `"<a> & </a>"`},
		{"quote and backslash", `say "hi" \ bye`, `"say \"hi\" \\ bye"`},
		{"newline and tab", "a\n\tb", `"a\n\tb"`},
		{"control char", "a\x01b", `"a\u0001b"`},
		{"line separator unescaped", "a b", "\"a b\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonicalNFC(t *testing.T) {
	// "e" + combining acute normalizes to the precomposed form U+00E9.
	got, err := MarshalCanonical("é")
	require.NoError(t, err)
	assert.Equal(t, "\"é\"", string(got))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+10000 encodes as a surrogate pair starting at 0xD800, which sorts
	// BEFORE U+FF61 in UTF-16 code units even though its UTF-8 bytes sort
	// after. Canonical ordering follows UTF-16.
	got, err := MarshalCanonical(map[string]any{
		"｡":     1,
		"\U00010000": 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U00010000\":2,\"｡\":1}", string(got))
}

func TestMarshalCanonicalRejections(t *testing.T) {
	tests := []struct {
		name  string
		input any
	}{
		{"null", nil},
		{"float64", 3.14},
		{"float32", float32(1)},
		{"nested null", map[string]any{"a": nil}},
		{"unsupported type", struct{}{}},
		{"float in array", []any{1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := MarshalCanonical(tt.input)
			assert.Error(t, err)
		})
	}
}
