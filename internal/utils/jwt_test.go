package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/project-manager/internal/model"
)

const testSecret = "unit-test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	raw, exp, err := NewAccessToken(testSecret, 42, "dev@example.com", model.RoleDeveloper, 15)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), exp, 5*time.Second)

	claims, err := ParseToken(testSecret, raw)
	require.NoError(t, err)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), uid)
	assert.Equal(t, "dev@example.com", claims.Email)
	assert.Equal(t, string(model.RoleDeveloper), claims.Role)
}

func TestRefreshTokenTTLInDays(t *testing.T) {
	_, exp, err := NewRefreshToken(testSecret, 7, "m@example.com", model.RoleManager, 7)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), exp, 5*time.Second)
}

func TestParseTokenRejectsWrongSecret(t *testing.T) {
	raw, _, err := NewAccessToken(testSecret, 1, "a@example.com", model.RoleAdmin, 15)
	require.NoError(t, err)

	_, err = ParseToken("a-different-secret", raw)
	assert.Error(t, err)
}

func TestSecretsAreNotInterchangeable(t *testing.T) {
	// A refresh token signed with the refresh secret must not verify
	// against the access secret; the two token classes never stand in
	// for each other.
	refresh, _, err := NewRefreshToken("refresh-secret", 1, "a@example.com", model.RoleAdmin, 7)
	require.NoError(t, err)

	_, err = ParseToken("access-secret", refresh)
	assert.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	raw, _, err := NewAccessToken(testSecret, 1, "a@example.com", model.RoleAdmin, -1)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, raw)
	assert.Error(t, err)
}

func TestParseTokenRejectsNonHMAC(t *testing.T) {
	tok := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		Email: "a@example.com",
		Role:  string(model.RoleAdmin),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	raw, err := tok.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = ParseToken(testSecret, raw)
	assert.Error(t, err)
}

func TestUserIDRejectsNonNumericSubject(t *testing.T) {
	c := &Claims{RegisteredClaims: jwt.RegisteredClaims{Subject: "not-a-number"}}
	_, err := c.UserID()
	assert.Error(t, err)
}
