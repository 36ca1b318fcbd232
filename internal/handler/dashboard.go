package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/access"
	"github.com/iliyamo/project-manager/internal/dashboard"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/repository"
)

// DashboardHandler serves the role-dependent overview document. The
// heavy lifting lives in the dashboard package; this handler only
// fetches rows already narrowed to the caller's visibility and picks
// the right fold for the caller's role.
type DashboardHandler struct {
	Projects *repository.ProjectRepo
	Tasks    *repository.TaskRepo
	Members  *repository.ProjectMemberRepo
	Access   *access.Resolver
}

func NewDashboardHandler(p *repository.ProjectRepo, t *repository.TaskRepo, m *repository.ProjectMemberRepo, a *access.Resolver) *DashboardHandler {
	return &DashboardHandler{Projects: p, Tasks: t, Members: m, Access: a}
}

// Overview answers GET /dashboard. Admins and managers get the
// project-centric document, developers the assignment-centric one.
func (h *DashboardHandler) Overview(c echo.Context) error {
	uid, role := principal(c)
	now := time.Now()

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	switch role {
	case model.RoleAdmin:
		projects, err := h.Projects.ListAll(ctx)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "load projects failed")
		}
		tasks, err := h.Tasks.ListAll(ctx)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "load tasks failed")
		}
		return c.JSON(http.StatusOK, dashboard.BuildManagerOverview(projects, tasks, now))

	case model.RoleManager:
		memberIDs, err := h.Members.ProjectIDsForUser(ctx, uid)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "resolve scope failed")
		}
		projects, err := h.Projects.ListForUser(ctx, uid, memberIDs)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "load projects failed")
		}
		projectIDs, err := h.Access.ProjectIDs(ctx, uid)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "resolve scope failed")
		}
		tasks, err := h.Tasks.ListForUser(ctx, uid, projectIDs)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "load tasks failed")
		}
		return c.JSON(http.StatusOK, dashboard.BuildManagerOverview(projects, tasks, now))

	case model.RoleDeveloper:
		// Same visibility predicate as the task list: assigned tasks
		// plus everything in projects the developer manages or is a
		// member of.
		projectIDs, err := h.Access.ProjectIDs(ctx, uid)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "resolve scope failed")
		}
		tasks, err := h.Tasks.ListForUser(ctx, uid, projectIDs)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "load tasks failed")
		}
		return c.JSON(http.StatusOK, dashboard.BuildDeveloperOverview(tasks, now))
	}

	return fail(c, http.StatusForbidden, "no role assigned to user")
}
