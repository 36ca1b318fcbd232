package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/project-manager/internal/model"
)

func doRoleRequest(role interface{}, required ...model.Role) *httptest.ResponseRecorder {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(CtxRole, role)
	}

	handler := RequireRole(required...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireRolePassesMatchingRole(t *testing.T) {
	rec := doRoleRequest(model.RoleManager, model.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleAdminElevatesToManager(t *testing.T) {
	rec := doRoleRequest(model.RoleAdmin, model.RoleManager)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleAdminDoesNotElevateToDeveloper(t *testing.T) {
	rec := doRoleRequest(model.RoleAdmin, model.RoleDeveloper)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsInsufficientRole(t *testing.T) {
	rec := doRoleRequest(model.RoleDeveloper, model.RoleManager)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleRejectsMissingRole(t *testing.T) {
	rec := doRoleRequest(nil, model.RoleManager)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRoleRequest(model.Role(""), model.RoleManager)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
