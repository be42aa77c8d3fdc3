package testutil

// RepeatingTokenGenerator returns the same token every time.
//
// Used by the scenario harness: every event in a scenario shares one
// correlation token, which keeps golden traces byte-identical across runs.
//
// Unlike runtime.FixedGenerator, which hands out a finite token sequence
// and panics on exhaustion, this generator never runs out.
//
// Thread-safety: stateless and safe for concurrent use.
type RepeatingTokenGenerator struct {
	token string
}

// NewRepeatingTokenGenerator creates a generator for the given token.
// An empty token defaults to "test-token-default".
func NewRepeatingTokenGenerator(token string) *RepeatingTokenGenerator {
	if token == "" {
		token = "test-token-default"
	}
	return &RepeatingTokenGenerator{token: token}
}

// Generate returns the fixed token.
// Implements runtime.TokenGenerator.
func (g *RepeatingTokenGenerator) Generate() string {
	return g.token
}
