package trackingcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	code, err := New()
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(code, Prefix))
	assert.Len(t, code, len(Prefix)+randomLength)
	assert.True(t, Valid(code))
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code, err := New()
		assert.NoError(t, err)
		assert.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("IRS-ABCDEFGHJK"))
	assert.False(t, Valid("IRS-ABCDEFGHJ"))   // too short
	assert.False(t, Valid("IRS-ABCDEFGHJKL")) // too long
	assert.False(t, Valid("XYZ-ABCDEFGHJK"))  // wrong prefix
	assert.False(t, Valid("IRS-ABCDEFGH0K"))  // excluded character
	assert.False(t, Valid("IRS-abcdefghjk"))  // lowercase
	assert.False(t, Valid(""))
}
