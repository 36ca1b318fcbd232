package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/access"
	"github.com/iliyamo/project-manager/internal/middleware"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/repository"
)

// ProjectHandler implements the /project endpoints.
type ProjectHandler struct {
	Projects *repository.ProjectRepo
	Members  *repository.ProjectMemberRepo
	Access   *access.Resolver
}

func NewProjectHandler(p *repository.ProjectRepo, m *repository.ProjectMemberRepo, a *access.Resolver) *ProjectHandler {
	return &ProjectHandler{Projects: p, Members: m, Access: a}
}

type projectReq struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	StartDate   *string `json:"startDate"`
	EndDate     *string `json:"endDate"`
}

// parseDate accepts either a plain date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func principal(c echo.Context) (uint64, model.Role) {
	uid, _ := c.Get(middleware.CtxUserID).(uint64)
	role, _ := c.Get(middleware.CtxRole).(model.Role)
	return uid, role
}

// Create inserts a new project managed by the caller. The route is
// gated to managers (admins elevate), so the caller is always a valid
// manager id.
func (h *ProjectHandler) Create(c echo.Context) error {
	uid, _ := principal(c)
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return fail(c, http.StatusBadRequest, "name is required")
	}
	if req.StartDate == nil || req.EndDate == nil {
		return fail(c, http.StatusBadRequest, "startDate and endDate are required")
	}
	start, err := parseDate(*req.StartDate)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid startDate")
	}
	end, err := parseDate(*req.EndDate)
	if err != nil {
		return fail(c, http.StatusBadRequest, "invalid endDate")
	}
	if end.Before(start) {
		return fail(c, http.StatusBadRequest, "endDate must not be before startDate")
	}

	p := model.Project{
		Name:        strings.TrimSpace(*req.Name),
		Description: req.Description,
		StartDate:   start,
		EndDate:     end,
		ManagerID:   uid,
	}
	if req.Status != nil {
		if !model.ValidProjectStatus(*req.Status) {
			return fail(c, http.StatusBadRequest, "unknown status")
		}
		p.Status = model.ProjectStatus(*req.Status)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Projects.Create(ctx, &p); err != nil {
		return fail(c, http.StatusInternalServerError, "create project failed")
	}
	return c.JSON(http.StatusCreated, p)
}

// List returns the projects visible to the caller: everything for
// admins, managed-or-member projects for everyone else.
func (h *ProjectHandler) List(c echo.Context) error {
	uid, role := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if role == model.RoleAdmin {
		projects, err := h.Projects.ListAll(ctx)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "list projects failed")
		}
		return c.JSON(http.StatusOK, projects)
	}

	memberIDs, err := h.Members.ProjectIDsForUser(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "resolve scope failed")
	}
	projects, err := h.Projects.ListForUser(ctx, uid, memberIDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list projects failed")
	}
	return c.JSON(http.StatusOK, projects)
}

// Mine returns the projects the caller manages or is a member of.
// Unlike List it never widens to everything for admins; it is always
// the caller's own slice.
func (h *ProjectHandler) Mine(c echo.Context) error {
	uid, _ := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	memberIDs, err := h.Members.ProjectIDsForUser(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "resolve scope failed")
	}
	projects, err := h.Projects.ListForUser(ctx, uid, memberIDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list projects failed")
	}
	return c.JSON(http.StatusOK, projects)
}

// Get returns a single project the caller may view.
func (h *ProjectHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanViewProject(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "load project failed")
	}
	return c.JSON(http.StatusOK, p)
}

// Update applies a partial edit. Only fields present in the body
// change; the status shortcut route exists separately for the gated
// status transition.
func (h *ProjectHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)
	var req projectReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanMutateProject(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "load project failed")
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return fail(c, http.StatusBadRequest, "name must not be empty")
		}
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Status != nil {
		if !model.ValidProjectStatus(*req.Status) {
			return fail(c, http.StatusBadRequest, "unknown status")
		}
		p.Status = model.ProjectStatus(*req.Status)
	}
	if req.StartDate != nil {
		start, err := parseDate(*req.StartDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid startDate")
		}
		p.StartDate = start
	}
	if req.EndDate != nil {
		end, err := parseDate(*req.EndDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid endDate")
		}
		p.EndDate = end
	}
	if p.EndDate.Before(p.StartDate) {
		return fail(c, http.StatusBadRequest, "endDate must not be before startDate")
	}

	if err := h.Projects.Update(ctx, &p); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "update project failed")
	}
	updated, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load project failed")
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateStatus changes only the project status. The route is gated to
// managers; the guard still checks ownership of this project.
func (h *ProjectHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidProjectStatus(req.Status) {
		return fail(c, http.StatusBadRequest, "valid status is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanMutateProject(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	if err := h.Projects.UpdateStatus(ctx, id, model.ProjectStatus(req.Status)); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "update status failed")
	}
	p, err := h.Projects.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load project failed")
	}
	return c.JSON(http.StatusOK, p)
}

// Delete removes a project together with its members and tasks.
func (h *ProjectHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanMutateProject(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	if err := h.Projects.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "delete project failed")
	}
	return c.NoContent(http.StatusNoContent)
}
