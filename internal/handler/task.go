package handler

import (
	"context"
	"database/sql"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/project-manager/internal/access"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/queue"
	"github.com/iliyamo/project-manager/internal/repository"
	queue_publisher "github.com/iliyamo/project-manager/internal/service"
)

// TaskHandler implements the /task endpoints.
type TaskHandler struct {
	Tasks  *repository.TaskRepo
	Access *access.Resolver
}

func NewTaskHandler(t *repository.TaskRepo, a *access.Resolver) *TaskHandler {
	return &TaskHandler{Tasks: t, Access: a}
}

type taskReq struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	DueDate     *string `json:"dueDate"`
	ProjectID   *uint64 `json:"projectId"`
	AssigneeID  *uint64 `json:"assigneeId"`
}

// Create inserts a task into a project. The route is gated to
// managers; the guard additionally requires the caller to manage the
// target project (or be admin), with the usual 404 when the project
// does not exist.
func (h *TaskHandler) Create(c echo.Context) error {
	uid, role := principal(c)
	var req taskReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return fail(c, http.StatusBadRequest, "title is required")
	}
	if req.ProjectID == nil || *req.ProjectID == 0 {
		return fail(c, http.StatusBadRequest, "projectId is required")
	}
	if req.AssigneeID == nil || *req.AssigneeID == 0 {
		return fail(c, http.StatusBadRequest, "assigneeId is required")
	}

	t := model.Task{
		Title:       strings.TrimSpace(*req.Title),
		Description: req.Description,
		ProjectID:   *req.ProjectID,
		AssigneeID:  *req.AssigneeID,
	}
	if req.Status != nil {
		if !model.ValidTaskStatus(*req.Status) {
			return fail(c, http.StatusBadRequest, "unknown status")
		}
		t.Status = model.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		if !model.ValidTaskPriority(*req.Priority) {
			return fail(c, http.StatusBadRequest, "unknown priority")
		}
		t.Priority = model.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid dueDate")
		}
		t.DueDate = &due
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanMutateProject(ctx, t.ProjectID, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	if err := h.Tasks.Create(ctx, &t); err != nil {
		return fail(c, http.StatusInternalServerError, "create task failed")
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns the tasks visible to the caller: everything for
// admins, assigned-or-in-scoped-project tasks for everyone else.
func (h *TaskHandler) List(c echo.Context) error {
	uid, role := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if role == model.RoleAdmin {
		tasks, err := h.Tasks.ListAll(ctx)
		if err != nil {
			return fail(c, http.StatusInternalServerError, "list tasks failed")
		}
		return c.JSON(http.StatusOK, tasks)
	}

	projectIDs, err := h.Access.ProjectIDs(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "resolve scope failed")
	}
	tasks, err := h.Tasks.ListForUser(ctx, uid, projectIDs)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list tasks failed")
	}
	return c.JSON(http.StatusOK, tasks)
}

// Mine returns only the tasks assigned to the caller.
func (h *TaskHandler) Mine(c echo.Context) error {
	uid, _ := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	tasks, err := h.Tasks.ListByAssignee(ctx, uid)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "list tasks failed")
	}
	return c.JSON(http.StatusOK, tasks)
}

// Get returns a single task the caller may view.
func (h *TaskHandler) Get(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanViewTask(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "load task failed")
	}
	return c.JSON(http.StatusOK, t)
}

// Update applies a partial edit to a task. Any project participant
// may edit; only deletion is held back to managers.
func (h *TaskHandler) Update(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)
	var req taskReq
	if err := c.Bind(&req); err != nil {
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanMutateTask(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	t, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "load task failed")
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			return fail(c, http.StatusBadRequest, "title must not be empty")
		}
		t.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		t.Description = req.Description
	}
	if req.Status != nil {
		if !model.ValidTaskStatus(*req.Status) {
			return fail(c, http.StatusBadRequest, "unknown status")
		}
		t.Status = model.TaskStatus(*req.Status)
	}
	if req.Priority != nil {
		if !model.ValidTaskPriority(*req.Priority) {
			return fail(c, http.StatusBadRequest, "unknown priority")
		}
		t.Priority = model.TaskPriority(*req.Priority)
	}
	if req.DueDate != nil {
		due, err := parseDate(*req.DueDate)
		if err != nil {
			return fail(c, http.StatusBadRequest, "invalid dueDate")
		}
		t.DueDate = &due
	}
	if req.AssigneeID != nil && *req.AssigneeID != 0 {
		t.AssigneeID = *req.AssigneeID
	}

	if err := h.Tasks.Update(ctx, &t); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "update task failed")
	}
	updated, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load task failed")
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateStatus moves a task through its workflow. The route is gated
// to developers only; admins do not elevate here, status toggling is
// the developers' own operation. The guard still requires the caller
// to participate in the task's project.
func (h *TaskHandler) UpdateStatus(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil || !model.ValidTaskStatus(req.Status) {
		return fail(c, http.StatusBadRequest, "valid status is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanMutateTask(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	before, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "load task failed")
	}
	if err := h.Tasks.UpdateStatus(ctx, id, model.TaskStatus(req.Status)); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "update status failed")
	}

	// Best effort: a broker outage must not fail the status change.
	_ = queue_publisher.PublishActivity(ctx, queue.ActivityEvent{
		Kind:       queue.KindTaskStatusChanged,
		ActorID:    uid,
		ProjectID:  before.ProjectID,
		TaskID:     before.ID,
		TaskTitle:  before.Title,
		OldStatus:  string(before.Status),
		NewStatus:  req.Status,
		OccurredAt: time.Now().UTC().Format(time.RFC3339),
	})

	updated, err := h.Tasks.GetByID(ctx, id)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "load task failed")
	}
	return c.JSON(http.StatusOK, updated)
}

// Delete removes a task; admin or the owning project's manager only.
func (h *TaskHandler) Delete(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return err
	}
	uid, role := principal(c)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ok, err := h.Access.CanDeleteTask(ctx, id, uid, role)
	if !granted(ok, err) {
		return deny(c, ok, err)
	}
	if err := h.Tasks.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return fail(c, http.StatusNotFound, "not found")
		}
		return fail(c, http.StatusInternalServerError, "delete task failed")
	}
	return c.NoContent(http.StatusNoContent)
}
