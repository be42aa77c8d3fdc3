package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/viewloop/viewloop/internal/model"
)

func TestNewDefaults(t *testing.T) {
	s := New()
	snap := s.Snapshot()

	assert.Equal(t, int64(0), snap.Counter)
	assert.False(t, snap.ErrorVisible)
	assert.Empty(t, snap.Users)
	assert.Equal(t, 0, s.UserCount())
}

func TestOptions(t *testing.T) {
	users := []model.User{{Name: "Maithili", Email: "maithili@gmail.com"}}

	s := New(
		WithCounter(7),
		WithErrorVisible(true),
		WithUsers(users),
	)
	snap := s.Snapshot()

	assert.Equal(t, int64(7), snap.Counter)
	assert.True(t, snap.ErrorVisible)
	require.Len(t, snap.Users, 1)
	assert.Equal(t, "Maithili", snap.Users[0].Name)

	// The container owns its copy; mutating the caller's slice changes
	// nothing.
	users[0].Name = "mutated"
	assert.Equal(t, "Maithili", s.Snapshot().Users[0].Name)
}

func TestIncrement(t *testing.T) {
	s := New()

	assert.Equal(t, int64(1), s.Increment())
	assert.Equal(t, int64(2), s.Increment())
	assert.Equal(t, int64(2), s.Snapshot().Counter)
}

func TestToggleErrorVisible(t *testing.T) {
	s := New()

	assert.True(t, s.ToggleErrorVisible())
	assert.False(t, s.ToggleErrorVisible())
	assert.True(t, s.ToggleErrorVisible())
	assert.True(t, s.Snapshot().ErrorVisible)
}

func TestAddUserSynthesizes(t *testing.T) {
	s := New(WithUsers([]model.User{
		{Name: "Maithili", Email: "maithili@gmail.com"},
		{Name: "Shubham", Email: "shubham@hotmail.com"},
	}))

	u := s.AddUser()

	assert.Equal(t, "User 3", u.Name)
	assert.Equal(t, "user3@gmail.com", u.Email)
	assert.Equal(t, 3, s.UserCount())
	assert.Equal(t, u, s.Snapshot().Users[2])
}

func TestAddUserReplacesBackingArray(t *testing.T) {
	s := New(WithUsers([]model.User{{Name: "A", Email: "a@gmail.com"}}))
	before := s.Snapshot().Users

	s.AddUser()
	after := s.Snapshot().Users

	// The new slice must be a different value under identity comparison,
	// or downstream memoization would miss the change.
	assert.False(t, model.ShallowEqual(before, after))
	require.Len(t, after, 2)
	assert.Equal(t, "A", after[0].Name)
}

func TestSnapshotIdentityStableAcrossUnrelatedActions(t *testing.T) {
	s := New(WithUsers([]model.User{{Name: "A", Email: "a@gmail.com"}}))
	before := s.Snapshot().Users

	s.Increment()
	s.ToggleErrorVisible()

	assert.True(t, model.ShallowEqual(before, s.Snapshot().Users))
}
