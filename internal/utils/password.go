package utils

import (
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns bcrypt hash using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares bcrypt hash and plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// HashRefreshToken returns a bcrypt hash of the refresh token's
// SHA-256 hex digest. bcrypt ignores input beyond 72 bytes and
// signed refresh tokens are longer than that, so the token is
// compacted to a fixed-size digest first.
func HashRefreshToken(raw string, cost int) (string, error) {
	return HashPassword(digestToken(raw), cost)
}

// VerifyRefreshToken reports whether raw matches a hash produced by
// HashRefreshToken. The comparison is constant time via bcrypt.
func VerifyRefreshToken(hash, raw string) bool {
	return VerifyPassword(hash, digestToken(raw))
}

func digestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
