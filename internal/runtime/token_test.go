package runtime

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}

	first := g.Generate()
	second := g.Generate()

	assert.NotEqual(t, first, second)

	parsed, err := uuid.Parse(first)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
}

func TestFixedGenerator(t *testing.T) {
	g := NewFixedGenerator("tok-1", "tok-2")

	assert.Equal(t, "tok-1", g.Generate())
	assert.Equal(t, "tok-2", g.Generate())
	assert.Panics(t, func() { g.Generate() })
}
