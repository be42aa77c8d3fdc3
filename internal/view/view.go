// Package view contains the presentational leaves of the tree.
//
// Views are pure functions from inputs to output values. They hold no state
// and schedule nothing; gating and fault containment are layered on by the
// caller.
package view

import "github.com/viewloop/viewloop/internal/model"

// RenderProfile produces the read-only profile display for a user.
//
// An absent user is an InvalidInput failure, returned as an explicit error
// value for the enclosing fault boundary to intercept. This is the only
// failure producer in the tree.
func RenderProfile(user *model.User) (*model.Output, error) {
	if user == nil {
		return nil, model.NewInvalidInput("ProfileView", "no user provided")
	}
	return model.NewProfileOutput(*user), nil
}

// RenderUserList produces a list display with one "name - email" line per
// user. Both list variants share this; they differ only in which gate mode
// wraps them.
func RenderUserList(title string, users []model.User) *model.Output {
	return model.NewListOutput(title, users)
}
