package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/access"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/queue"
	"github.com/iliyamo/project-manager/internal/repository"
	queue_publisher "github.com/iliyamo/project-manager/internal/service"
)

// ProjectMemberHandler implements the /project-member endpoints.
type ProjectMemberHandler struct {
	Members *repository.ProjectMemberRepo
	Access  *access.Resolver
}

func NewProjectMemberHandler(m *repository.ProjectMemberRepo, a *access.Resolver) *ProjectMemberHandler {
	return &ProjectMemberHandler{Members: m, Access: a}
}

type syncReq struct {
	ProjectID   uint64                  `json:"projectId"`
	Assignments []repository.Assignment `json:"assignments"`
}

// Sync replaces the full member list of a project. An empty
// assignments array is valid and clears the list. The guard order is
// fixed:
// unknown project answers 404 before the 403 for a caller who does
// not manage it.
func (h *ProjectMemberHandler) Sync(c echo.Context) error {
	uid, role := principal(c)
	var req syncReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.ProjectID == 0 {
		return fail(c, http.StatusBadRequest, "projectId is required")
	}
	for _, a := range req.Assignments {
		if a.DeveloperID == 0 {
			return fail(c, http.StatusBadRequest, "developerId is required for every assignment")
		}
		if a.Role != "" && !model.ValidMemberRole(string(a.Role)) {
			return fail(c, http.StatusBadRequest, "unknown member role")
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanMutateProject(ctx, req.ProjectID, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}

	members, err := h.Members.Sync(ctx, req.ProjectID, req.Assignments)
	if err != nil {
		// The transaction rolled back either way; only a bad assignment
		// is the caller's fault.
		if err == repository.ErrMemberReference {
			return fail(c, http.StatusBadRequest, "assignment references an unknown user, previous member list kept")
		}
		return fail(c, http.StatusInternalServerError, "sync failed, previous member list kept")
	}

	_ = queue_publisher.PublishActivity(ctx, queue.ActivityEvent{
		Kind:        queue.KindProjectMembersSynced,
		ActorID:     uid,
		ProjectID:   req.ProjectID,
		MemberCount: len(members),
		OccurredAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusOK, members)
}

// ListByProject returns the current member list of a project the
// caller may view.
func (h *ProjectMemberHandler) ListByProject(c echo.Context) error {
	projectID, err := parseID(c, "projectId")
	if err != nil {
		return err
	}
	uid, role := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanViewProject(ctx, projectID, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	members, err := h.Members.ListByProject(ctx, projectID)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list members failed")
	}
	return c.JSON(http.StatusOK, members)
}
