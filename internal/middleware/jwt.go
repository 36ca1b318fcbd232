package middleware // middleware provides reusable HTTP middleware for the API

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/utils"
)

// Context keys set by the auth middlewares and read by handlers.
const (
	CtxUserID       = "user_id"
	CtxEmail        = "email"
	CtxRole         = "role"
	CtxRefreshToken = "refresh_token"
)

// JWTAuth returns middleware that validates a Bearer access token and
// injects the principal (user id, email, role) into the request
// context. Validation is stateless: signature and expiry only. The
// secret must be the access-token secret; refresh tokens are signed
// with a different one and will not pass here.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, err := bearerClaims(c, secret)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing access token")
			}
			uid, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			c.Set(CtxUserID, uid)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, model.Role(claims.Role))
			return next(c)
		}
	}
}

// JWTRefresh returns middleware for the refresh endpoint: it
// validates the Bearer token against the refresh secret and stores
// the raw token alongside the principal, so the handler can compare
// it with the stored hash. Signature or expiry failures are 401; the
// hash comparison (and its 403) belongs to the handler.
func JWTRefresh(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearerToken(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			claims, err := utils.ParseToken(secret, raw)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid refresh token")
			}
			uid, err := claims.UserID()
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token subject")
			}
			c.Set(CtxUserID, uid)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, model.Role(claims.Role))
			c.Set(CtxRefreshToken, raw)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	return raw, raw != ""
}

func bearerClaims(c echo.Context, secret string) (*utils.Claims, error) {
	raw, ok := bearerToken(c)
	if !ok {
		return nil, echo.ErrUnauthorized
	}
	return utils.ParseToken(secret, raw)
}
