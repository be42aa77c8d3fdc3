package model

import "fmt"

// User is a display-only record. Users are immutable once created and are
// never deleted; the state container only ever appends new ones.
type User struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SynthesizeUser builds the nth generated user (1-based). Generated users
// always carry a gmail address, so they are always picked up by the active
// filter.
func SynthesizeUser(n int) User {
	return User{
		Name:  fmt.Sprintf("User %d", n),
		Email: fmt.Sprintf("user%d@gmail.com", n),
	}
}

// Display returns the "name - email" form used by list views.
func (u User) Display() string {
	return u.Name + " - " + u.Email
}
