// Package derive implements identity-memoized derived values.
//
// A derived value caches its result keyed on the IDENTITY of its input, not
// its contents. Passing the same reference again returns the cached result
// without re-running the computation; passing a different reference with
// equal elements recomputes in full. This mirrors dependency-array
// semantics: appending one user produces a new reference even though most
// elements are unchanged, and that forces a full rescan.
package derive

import (
	"reflect"
	"strings"

	"github.com/viewloop/viewloop/internal/model"
)

// activeDomain is the substring a user's email must contain to be active.
const activeDomain = "gmail"

// FilterActive returns the subsequence of users whose email contains
// "gmail", preserving order. Pure and deterministic; the result is always a
// freshly allocated slice, so consumers see a new reference whenever a
// recomputation actually ran.
func FilterActive(users []model.User) []model.User {
	filtered := make([]model.User, 0, len(users))
	for _, u := range users {
		if strings.Contains(u.Email, activeDomain) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}

// inputKey is the identity of a users slice: backing-array pointer plus
// length. Two slices with the same key are the same value from the host
// model's point of view; equal contents behind a different pointer are not.
type inputKey struct {
	data uintptr
	len  int
}

func keyOf(users []model.User) inputKey {
	return inputKey{
		data: reflect.ValueOf(users).Pointer(),
		len:  len(users),
	}
}

// UserFilter memoizes FilterActive over a single previous input.
//
// Only one (input, result) pair is retained - the cache key is "did the
// input change since last time", not a history. NOT safe for concurrent
// use; the single-writer loop is the only caller.
type UserFilter struct {
	haveInput bool
	prevKey   inputKey
	cached    []model.User
	scans     int
}

// NewUserFilter creates an empty memo. The first Filter call always scans.
func NewUserFilter() *UserFilter {
	return &UserFilter{}
}

// Filter returns the active subsequence of users, recomputing only when the
// input's identity differs from the previous call's input.
//
// The second return value reports whether a scan actually ran; callers use
// it to emit the recomputation observation exactly once per real scan.
func (f *UserFilter) Filter(users []model.User) ([]model.User, bool) {
	key := keyOf(users)
	if f.haveInput && key == f.prevKey {
		return f.cached, false
	}

	f.cached = FilterActive(users)
	f.prevKey = key
	f.haveInput = true
	f.scans++
	return f.cached, true
}

// Scans returns how many times the underlying scan has run.
// Introspection for tests and diagnostics.
func (f *UserFilter) Scans() int {
	return f.scans
}

// Invalidate drops the cached input so the next Filter call scans again.
// Used when the memo's owner is reset between scenario runs.
func (f *UserFilter) Invalidate() {
	f.haveInput = false
	f.cached = nil
}
