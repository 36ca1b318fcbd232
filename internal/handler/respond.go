package handler // handler contains the HTTP endpoint implementations

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/access"
)

// errorEnvelope is the uniform error body of the API. Every failure,
// whether raised in a handler, a middleware or the fallback error
// handler, renders this shape.
type errorEnvelope struct {
	StatusCode int    `json:"statusCode"`
	Timestamp  string `json:"timestamp"`
	Path       string `json:"path"`
	Message    string `json:"message"`
}

// fail writes the error envelope with the given status and message.
func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, errorEnvelope{
		StatusCode: status,
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		Path:       c.Request().URL.Path,
		Message:    msg,
	})
}

// HTTPErrorHandler converts errors escaping handlers and middlewares
// into the envelope. echo.HTTPError keeps its status and message;
// anything else becomes a generic 500 so internal details never leak
// to clients.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	status := http.StatusInternalServerError
	msg := "internal server error"
	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if s, ok := he.Message.(string); ok {
			msg = s
		} else {
			msg = http.StatusText(status)
		}
	} else {
		c.Logger().Error(err)
	}
	_ = fail(c, status, msg)
}

// parseID reads a positive numeric path parameter.
func parseID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return id, nil
}

// deny renders the outcome of an access-guard check: 404 when the
// entity does not exist, 403 when it exists but the principal may not
// touch it. Existence always wins over permission, so both paths are
// kept in this one place.
func deny(c echo.Context, ok bool, err error) error {
	if err == access.ErrNotFound {
		return fail(c, http.StatusNotFound, "not found")
	}
	if err != nil {
		return fail(c, http.StatusInternalServerError, "access check failed")
	}
	if !ok {
		return fail(c, http.StatusForbidden, "insufficient permissions")
	}
	return nil
}

// granted reports whether deny would pass the request through.
func granted(ok bool, err error) bool { return err == nil && ok }
