package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse battery", hash)

	assert.True(t, VerifyPassword(hash, "correct horse battery"))
	assert.False(t, VerifyPassword(hash, "wrong password"))
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "correct horse battery"))
}

func TestHashPasswordDistinctSalts(t *testing.T) {
	a, err := HashPassword("same input", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same input", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestResetTokenRoundTrip(t *testing.T) {
	raw, err := NewResetToken()
	require.NoError(t, err)
	assert.Len(t, raw, 64)

	other, err := NewResetToken()
	require.NoError(t, err)
	assert.NotEqual(t, raw, other)

	// The stored hash must be deterministic and never equal the raw token.
	assert.Equal(t, HashResetToken(raw), HashResetToken(raw))
	assert.NotEqual(t, raw, HashResetToken(raw))
	assert.Len(t, HashResetToken(raw), 64)
}
