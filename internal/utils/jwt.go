package utils // package utils provides helpers for token creation and hashing

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/iliyamo/project-manager/internal/model"
)

// Claims is the payload carried by both access and refresh tokens:
// the subject (user id), the user's email and role. Access and
// refresh tokens share this shape but are signed with distinct
// secrets, so one can never stand in for the other.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// UserID parses the subject claim back into a numeric user id.
func (c *Claims) UserID() (uint64, error) {
	return strconv.ParseUint(c.Subject, 10, 64)
}

// TokenPair bundles a freshly issued access/refresh token pair with
// their expiry timestamps (UTC).
type TokenPair struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	AccessExp    time.Time `json:"accessExpires"`
	RefreshExp   time.Time `json:"refreshExpires"`
}

// NewAccessToken builds and signs an HS256 JWT for a user with a TTL
// in minutes. The token is validated statelessly on every protected
// request: signature and expiry only, no store lookup.
func NewAccessToken(secret string, userID uint64, email string, role model.Role, ttlMin int) (string, time.Time, error) {
	return signToken(secret, userID, email, role, time.Duration(ttlMin)*time.Minute)
}

// NewRefreshToken builds and signs an HS256 JWT used to obtain new
// access tokens. Only a hash of it is persisted; see HashRefreshToken.
func NewRefreshToken(secret string, userID uint64, email string, role model.Role, ttlDays int) (string, time.Time, error) {
	return signToken(secret, userID, email, role, time.Duration(ttlDays)*24*time.Hour)
}

func signToken(secret string, userID uint64, email string, role model.Role, ttl time.Duration) (string, time.Time, error) {
	now := time.Now().UTC()
	exp := now.Add(ttl)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Email: email,
		Role:  string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(userID, 10),
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken verifies signature and expiry of a token against the
// given secret and returns its claims. Tokens signed with any method
// other than HMAC are rejected.
func ParseToken(secret, raw string) (*Claims, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
