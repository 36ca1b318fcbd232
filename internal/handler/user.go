package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/repository"
)

// UserHandler implements the admin-only /user endpoints.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(u *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: u}
}

type userUpdateReq struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Role  *string `json:"role"`
}

// List returns every user.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list users failed")
	}
	return c.JSON(http.StatusOK, users)
}

// Get returns a single user by id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	return c.JSON(http.StatusOK, u)
}

// ListByRole returns all users holding the given role.
func (h *UserHandler) ListByRole(c echo.Context) error {
	role := strings.ToLower(c.Param("role"))
	if !model.ValidRole(role) {
		return fail(c, http.StatusBadRequest, "unknown role")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.ListByRole(ctx, model.Role(role))
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list users failed")
	}
	return c.JSON(http.StatusOK, users)
}

// Update edits name, email and role of a user. Passwords are not
// editable here.
func (h *UserHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	var req userUpdateReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "load user failed")
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return fail(c, http.StatusBadRequest, "name must not be empty")
		}
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" {
			return fail(c, http.StatusBadRequest, "email must not be empty")
		}
		u.Email = email
	}
	if req.Role != nil {
		role := strings.ToLower(strings.TrimSpace(*req.Role))
		if role != "" && !model.ValidRole(role) {
			return fail(c, http.StatusBadRequest, "unknown role")
		}
		u.Role = model.Role(role)
	}

	if err := h.Users.Update(ctx, &u); err != nil {
		if err == repository.ErrEmailExists {
			return fail(c, http.StatusConflict, "email already exists")
		}
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "update user failed")
	}
	updated, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load user failed")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a user; owned projects, memberships and assigned
// tasks cascade away with it.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "delete user failed")
	}
	return c.NoContent(http.StatusNoContent)
}

// Create is deliberately not implemented: accounts are created through
// registration only, so the admin surface cannot mint users with
// arbitrary password hashes.
func (h *UserHandler) Create(c echo.Context) error {
	return fail(c, http.StatusNotFound, "user creation is handled by POST /auth/register")
}
