package model

// OutputKind distinguishes the produced display values.
type OutputKind string

const (
	// OutputProfile is a read-only profile card.
	OutputProfile OutputKind = "profile"
	// OutputUserList is a list display, one line per user.
	OutputUserList OutputKind = "user_list"
	// OutputFallback is the fault boundary's substitute display.
	OutputFallback OutputKind = "fallback"
)

// Output is a produced display value.
//
// Outputs are immutable after production. Callers that cache an *Output and
// hand it back on a skipped render are returning the SAME value, which is
// what identity-sensitive tests rely on to detect true reuse.
type Output struct {
	Kind  OutputKind
	Title string
	Lines []string
}

// NewListOutput builds a list display with one Display() line per user.
func NewListOutput(title string, users []User) *Output {
	lines := make([]string, len(users))
	for i, u := range users {
		lines[i] = u.Display()
	}
	return &Output{Kind: OutputUserList, Title: title, Lines: lines}
}

// NewProfileOutput builds the read-only profile display for a user.
func NewProfileOutput(u User) *Output {
	return &Output{
		Kind:  OutputProfile,
		Title: "Profile",
		Lines: []string{"name: " + u.Name, "email: " + u.Email},
	}
}

// NewFallbackOutput builds the boundary fallback display for an error
// message. The final line names the control that clears the fault.
func NewFallbackOutput(message string) *Output {
	return &Output{
		Kind:  OutputFallback,
		Title: "Something went wrong",
		Lines: []string{message, "[try again]"},
	}
}
