package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHashAndVerify(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("not-a-hash", "s3cret"))
}

func TestRefreshTokenHashRoundTrip(t *testing.T) {
	raw := strings.Repeat("header.payload.signature", 10) // well past 72 bytes
	hash, err := HashRefreshToken(raw, bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyRefreshToken(hash, raw))
	assert.False(t, VerifyRefreshToken(hash, raw+"x"))
}

func TestRefreshTokensDifferingPastBcryptLimit(t *testing.T) {
	// bcrypt alone ignores input beyond 72 bytes, so two long tokens
	// with the same prefix would collide without the digest step.
	prefix := strings.Repeat("a", 80)
	hash, err := HashRefreshToken(prefix+"one", bcrypt.MinCost)
	require.NoError(t, err)

	assert.True(t, VerifyRefreshToken(hash, prefix+"one"))
	assert.False(t, VerifyRefreshToken(hash, prefix+"two"))
}
