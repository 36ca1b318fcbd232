package model

import "time"

// Role is the application-wide role attached to a user account.
// A user may also carry no role at all (empty string): such an
// account authenticates but passes no role-gated route check.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleDeveloper Role = "developer"
)

// ValidRole reports whether s names one of the three known roles.
func ValidRole(s string) bool {
	switch Role(s) {
	case RoleAdmin, RoleManager, RoleDeveloper:
		return true
	}
	return false
}

// User mirrors the `users` table. PasswordHash and RefreshTokenHash
// never leave the server; both are excluded from JSON encoding.
//
// RefreshTokenHash holds the bcrypt hash of the single currently
// active refresh token. Nil means no active session. It is
// overwritten on every login and rotation and nulled on logout.
type User struct {
	ID               uint64    `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	PasswordHash     string    `json:"-"`
	Role             Role      `json:"role"`
	RefreshTokenHash *string   `json:"-"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}
