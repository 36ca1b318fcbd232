package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/policy"
)

// RequireRole returns middleware enforcing that the authenticated
// principal's role satisfies one of the given roles, applying the
// admin-to-manager elevation rule from the policy package. It assumes
// JWTAuth ran earlier and stored the role in the context.
//
// A principal with no role at all should not exist for authenticated
// users; it is reported with a distinct message so the data problem
// is visible in logs, but still as a plain 403.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(model.Role)
			if !ok || role == "" {
				return echo.NewHTTPError(http.StatusForbidden, "no role assigned to user")
			}
			if !policy.Check(role, roles) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient role for this resource")
			}
			return next(c)
		}
	}
}
