package code

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateFormat(t *testing.T) {
	g := New()

	for i := 0; i < 100; i++ {
		c := g.Generate()

		assert.Len(t, c, Length)
		for _, r := range c {
			assert.GreaterOrEqual(t, r, 'A')
			assert.LessOrEqual(t, r, 'Z')
		}
	}
}

func TestGenerateVaries(t *testing.T) {
	g := New()

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		seen[g.Generate()] = true
	}

	// 50 draws from a 26^4 space collapsing to a single value would mean
	// the generator is broken
	assert.Greater(t, len(seen), 1)
}
