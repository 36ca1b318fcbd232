package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/utils"
)

const (
	accessSecret  = "test-access-secret"
	refreshSecret = "test-refresh-secret"
)

func doRequest(mw echo.MiddlewareFunc, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec, c
}

func TestJWTAuthInjectsPrincipal(t *testing.T) {
	raw, _, err := utils.NewAccessToken(accessSecret, 7, "dev@example.com", model.RoleDeveloper, 15)
	require.NoError(t, err)

	rec, c := doRequest(JWTAuth(accessSecret), "Bearer "+raw)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), c.Get(CtxUserID))
	assert.Equal(t, "dev@example.com", c.Get(CtxEmail))
	assert.Equal(t, model.RoleDeveloper, c.Get(CtxRole))
}

func TestJWTAuthRejectsMissingHeader(t *testing.T) {
	rec, _ := doRequest(JWTAuth(accessSecret), "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsMalformedHeader(t *testing.T) {
	rec, _ := doRequest(JWTAuth(accessSecret), "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(JWTAuth(accessSecret), "Bearer ")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuthRejectsRefreshToken(t *testing.T) {
	// A refresh token presented on an access route fails the signature
	// check because the secrets differ.
	raw, _, err := utils.NewRefreshToken(refreshSecret, 7, "dev@example.com", model.RoleDeveloper, 7)
	require.NoError(t, err)

	rec, _ := doRequest(JWTAuth(accessSecret), "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTRefreshStoresRawToken(t *testing.T) {
	raw, _, err := utils.NewRefreshToken(refreshSecret, 9, "m@example.com", model.RoleManager, 7)
	require.NoError(t, err)

	rec, c := doRequest(JWTRefresh(refreshSecret), "Bearer "+raw)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(9), c.Get(CtxUserID))
	assert.Equal(t, raw, c.Get(CtxRefreshToken))
}

func TestJWTRefreshRejectsAccessToken(t *testing.T) {
	raw, _, err := utils.NewAccessToken(accessSecret, 9, "m@example.com", model.RoleManager, 15)
	require.NoError(t, err)

	rec, _ := doRequest(JWTRefresh(refreshSecret), "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
