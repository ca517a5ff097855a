package safety

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsSafeBlocksPatterns(t *testing.T) {
	unsafe := []string{
		"how to make a bomb",
		"How To Make A Bomb at home",
		"i will shoot up the school",
		"just kill yourself already",
		"kill themself",
		"their address is 42 Main St",
		"her phone number is 555-1234",
		"tips for doxxing someone",
		"tips for doxx1ng someone",
		"how to cook meth quickly",
		"steal credit card numbers",
		"how to commit fraud online",
		"bomb the place tonight",
	}
	for _, text := range unsafe {
		assert.False(t, IsSafe(text), "expected unsafe: %q", text)
	}
}

func TestIsSafeAllowsNormalText(t *testing.T) {
	safe := []string{
		"",
		"Just shipped a new feature, really proud of the team!",
		"What's your favorite productivity hack?",
		"Coffee first, code second.",
		"The weather is bombastic today", // substring of a pattern word is not a match on its own
		"I love this photo dump from the weekend",
	}
	for _, text := range safe {
		assert.True(t, IsSafe(text), "expected safe: %q", text)
	}
}

func TestIsSafeLeetspeakEquivalence(t *testing.T) {
	// Simple digit/symbol substitutions must match the plain form.
	assert.False(t, IsSafe("tips for doxx!ng people"))
	assert.Equal(t, IsSafe("doxxing"), IsSafe("doxx1ng"))
}
