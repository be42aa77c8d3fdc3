// Package state implements the owned application state container.
//
// All mutation goes through the container's action methods; nothing else in
// the tree holds a mutable reference to the snapshot. Each action replaces
// the affected value rather than mutating in place, so downstream
// identity-based change detection (derived memoization, render gating)
// observes a new reference exactly when something changed.
//
// INVARIANTS:
//   - Counter only increases, and only via Increment
//   - Users only grows, and only via AddUser
//   - AddUser always allocates a fresh backing array
package state

import "github.com/viewloop/viewloop/internal/model"

// Snapshot is an immutable view of the application state.
//
// The Users slice is shared between snapshots that did not change it;
// callers must treat it as read-only.
type Snapshot struct {
	Counter      int64
	ErrorVisible bool
	Users        []model.User
}

// Store owns the application state.
//
// Store is NOT safe for concurrent use. The runtime's single-writer loop is
// the only caller of action methods, which is what makes "no two actions
// read-modify-write concurrently" hold by construction.
type Store struct {
	snap Snapshot
}

// Option configures the initial snapshot.
type Option func(*Store)

// WithUsers sets the initial user list. The slice is copied so the caller
// cannot mutate the container's state afterwards.
func WithUsers(users []model.User) Option {
	return func(s *Store) {
		owned := make([]model.User, len(users))
		copy(owned, users)
		s.snap.Users = owned
	}
}

// WithCounter sets the initial counter value.
func WithCounter(n int64) Option {
	return func(s *Store) {
		s.snap.Counter = n
	}
}

// WithErrorVisible sets the initial error-visibility flag.
func WithErrorVisible(v bool) Option {
	return func(s *Store) {
		s.snap.ErrorVisible = v
	}
}

// New creates a Store. Without options the state is
// {Counter: 0, ErrorVisible: false, Users: []}.
func New(opts ...Option) *Store {
	s := &Store{snap: Snapshot{Users: []model.User{}}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns the current state.
func (s *Store) Snapshot() Snapshot {
	return s.snap
}

// Increment raises the counter by one and returns the new value.
func (s *Store) Increment() int64 {
	s.snap.Counter++
	return s.snap.Counter
}

// AddUser appends a synthesized user ("User {n+1}" with a gmail address,
// where n is the current count) and returns it.
//
// The users slice is rebuilt on a fresh backing array every time. Appending
// in place would let a grow-into-capacity append keep the old backing
// pointer, and identity-based consumers would miss the change.
func (s *Store) AddUser() model.User {
	u := model.SynthesizeUser(len(s.snap.Users) + 1)

	users := make([]model.User, len(s.snap.Users)+1)
	copy(users, s.snap.Users)
	users[len(users)-1] = u

	s.snap.Users = users
	return u
}

// ToggleErrorVisible flips the error-visibility flag and returns the new
// value.
//
// Note: flipping the flag back to false does NOT clear any fault boundary
// downstream; a boundary stays faulted until its own reset control fires.
func (s *Store) ToggleErrorVisible() bool {
	s.snap.ErrorVisible = !s.snap.ErrorVisible
	return s.snap.ErrorVisible
}

// UserCount returns the number of users. Introspection helper for tests
// and the CLI.
func (s *Store) UserCount() int {
	return len(s.snap.Users)
}
