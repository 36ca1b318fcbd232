package handler

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/project-manager/internal/access"
	"github.com/iliyamo/project-manager/internal/dashboard"
	"github.com/iliyamo/project-manager/internal/middleware"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/repository"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// authedContext builds an echo context the way JWTAuth leaves it: the
// principal's id and role already stored on the context.
func authedContext(method, target, body string, uid uint64, role model.Role) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	var rd *strings.Reader
	if body != "" {
		rd = strings.NewReader(body)
	} else {
		rd = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, uid)
	c.Set(middleware.CtxRole, role)
	return c, rec
}

var taskCols = []string{
	"id", "title", "description", "status", "priority", "due_date",
	"project_id", "assignee_id", "created_at", "updated_at", "name", "manager_id",
}

var projectCols = []string{
	"id", "name", "description", "status", "start_date", "end_date",
	"manager_id", "created_at", "updated_at",
}

// A developer's dashboard covers the same rows as GET /task: tasks
// assigned to them plus every task in projects they manage or are a
// member of, even when those tasks are assigned to somebody else.
func TestDeveloperOverviewCountsMemberProjectTasks(t *testing.T) {
	db, mock := newMockDB(t)
	projects := repository.NewProjectRepo(db)
	members := repository.NewProjectMemberRepo(db)
	tasks := repository.NewTaskRepo(db)
	h := NewDashboardHandler(projects, tasks, members, access.NewResolver(projects, members, tasks))

	now := time.Now().UTC()

	// User 2 manages nothing but is a member of project 10.
	mock.ExpectQuery("SELECT id FROM projects WHERE manager_id").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectQuery("SELECT project_id FROM project_members WHERE user_id").
		WithArgs(uint64(2)).
		WillReturnRows(sqlmock.NewRows([]string{"project_id"}).AddRow(uint64(10)))

	// The task query must carry the project scope, not just the
	// assignee column; the returned task belongs to user 5.
	mock.ExpectQuery("OR t.project_id IN").
		WithArgs(uint64(2), uint64(10)).
		WillReturnRows(sqlmock.NewRows(taskCols).
			AddRow(uint64(7), "Wire payment webhook", nil, "todo", "high", nil,
				uint64(10), uint64(5), now, now, "Payments", uint64(3)))

	c, rec := authedContext(http.MethodGet, "/dashboard", "", 2, model.RoleDeveloper)
	require.NoError(t, h.Overview(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out dashboard.DeveloperOverview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.Equal(t, 1, out.TodoTasks)

	assert.NoError(t, mock.ExpectationsWereMet())
}
