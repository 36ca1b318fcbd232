package handler

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// HealthHandler answers liveness probes.
type HealthHandler struct {
	DB *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler { return &HealthHandler{DB: db} }

// Check reports process and database health. A failing DB ping still
// returns a body, just with 503, so probes can tell "down" from
// "degraded".
func (h *HealthHandler) Check(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	status := http.StatusOK
	if err := h.DB.PingContext(ctx); err != nil {
		dbStatus = "unreachable"
		status = http.StatusServiceUnavailable
	}
	return c.JSON(status, echo.Map{"status": "ok", "database": dbStatus})
}
