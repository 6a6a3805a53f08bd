package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContainsHangul(t *testing.T) {
	assert.True(t, ContainsHangul("마법소녀"))
	assert.True(t, ContainsHangul("magical 소녀"))
	assert.False(t, ContainsHangul("magical girl"))
	assert.False(t, ContainsHangul("魔法少女"))
	assert.False(t, ContainsHangul(""))
}

func TestNeedsTranslation(t *testing.T) {
	assert.True(t, NeedsTranslation("romance"))
	assert.True(t, NeedsTranslation("魔法少女"))

	// Already in the display script.
	assert.False(t, NeedsTranslation("애정"))
	assert.False(t, NeedsTranslation("romance 애정"))

	// Nothing translatable.
	assert.False(t, NeedsTranslation(""))
	assert.False(t, NeedsTranslation("12345"))
	assert.False(t, NeedsTranslation("~!@#"))
}
