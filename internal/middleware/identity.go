package middleware

// identity.go holds small helpers shared by the cache and rate-limit
// middlewares: they need a stable string identity for the current
// principal when building redis keys.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// currentUserID returns the authenticated user id as a string, or
// "anon" when the request carries no principal. Scoped responses
// differ per user, so redis keys must always embed this.
func currentUserID(c echo.Context) string {
	if v, ok := c.Get(CtxUserID).(uint64); ok {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
