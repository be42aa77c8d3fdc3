package fault

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewloop/viewloop/internal/model"
)

func TestBoundaryPassesThroughWhileIdle(t *testing.T) {
	b := NewBoundary("profile", nil)
	produced := &model.Output{Kind: model.OutputProfile}

	out := b.Render(func() (*model.Output, error) { return produced, nil })

	assert.Same(t, produced, out)
	assert.Equal(t, Idle, b.State())
	assert.False(t, b.Faulted())
	assert.NoError(t, b.Err())
}

func TestBoundaryCatchesFailure(t *testing.T) {
	var caught error
	b := NewBoundary("profile", func(err error) { caught = err })

	renderErr := model.NewInvalidInput("ProfileView", "no user provided")
	out := b.Render(func() (*model.Output, error) { return nil, renderErr })

	require.NotNil(t, out)
	assert.Equal(t, model.OutputFallback, out.Kind)
	assert.Equal(t, []string{"no user provided", "[try again]"}, out.Lines)

	assert.Equal(t, Faulted, b.State())
	assert.True(t, b.Faulted())
	assert.Equal(t, renderErr, b.Err())
	assert.Equal(t, renderErr, caught)
}

func TestBoundaryDoesNotRetryWhileFaulted(t *testing.T) {
	b := NewBoundary("profile", nil)

	calls := 0
	child := func() (*model.Output, error) {
		calls++
		return nil, errors.New("boom")
	}

	first := b.Render(child)
	second := b.Render(child)
	third := b.Render(child)

	assert.Equal(t, 1, calls)
	assert.Same(t, first, second)
	assert.Same(t, first, third)
}

func TestBoundaryFallbackMessageForGenericError(t *testing.T) {
	b := NewBoundary("profile", nil)

	out := b.Render(func() (*model.Output, error) { return nil, errors.New("boom") })

	assert.Equal(t, []string{"boom", "[try again]"}, out.Lines)
}

func TestBoundaryReset(t *testing.T) {
	b := NewBoundary("profile", nil)
	b.Render(func() (*model.Output, error) { return nil, errors.New("boom") })
	require.True(t, b.Faulted())

	b.Reset()

	assert.Equal(t, Idle, b.State())
	assert.NoError(t, b.Err())

	// The child is attempted again after reset.
	produced := &model.Output{Kind: model.OutputProfile}
	out := b.Render(func() (*model.Output, error) { return produced, nil })
	assert.Same(t, produced, out)
}

func TestBoundaryResetWhileIdleIsNoop(t *testing.T) {
	b := NewBoundary("profile", nil)

	b.Reset()

	assert.Equal(t, Idle, b.State())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "faulted", Faulted.String())
	assert.Equal(t, "unknown", State(0).String())
}
