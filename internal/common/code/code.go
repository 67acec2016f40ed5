package code

import "math/rand"

//go:generate mockgen -package=mocks -destination=mocks/mock_generator.go github.com/KirkDiggler/mindmeld/internal/common/code Generator

// Length is the number of letters in a session code
const Length = 4

// Generator produces candidate session codes. Checking a candidate against
// the active sessions is the registry's job, so implementations may return
// a code that is already in use.
type Generator interface {
	Generate() string
}

// DefaultGenerator implements the Generator interface using math/rand
type DefaultGenerator struct{}

// New creates a DefaultGenerator
func New() *DefaultGenerator {
	return &DefaultGenerator{}
}

// Generate returns a random code of Length uppercase letters
func (g *DefaultGenerator) Generate() string {
	b := make([]byte, Length)
	for i := range b {
		b[i] = byte('A' + rand.Intn(26))
	}
	return string(b)
}
