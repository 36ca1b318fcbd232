package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/project-manager/internal/access"
	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/repository"
)

func newMemberHandler(db *sql.DB) *ProjectMemberHandler {
	projects := repository.NewProjectRepo(db)
	members := repository.NewProjectMemberRepo(db)
	tasks := repository.NewTaskRepo(db)
	return NewProjectMemberHandler(members, access.NewResolver(projects, members, tasks))
}

func expectManagedProject(mock sqlmock.Sqlmock, projectID, managerID uint64) {
	now := time.Now().UTC()
	mock.ExpectQuery("FROM projects WHERE id=").
		WithArgs(projectID).
		WillReturnRows(sqlmock.NewRows(projectCols).
			AddRow(projectID, "Payments", nil, "active", now, now.Add(24*time.Hour),
				managerID, now, now))
}

// An assignment naming a user id that does not exist trips the foreign
// key, rolls the sync back and answers 400; the member list is untouched.
func TestSyncRejectsUnknownAssignee(t *testing.T) {
	db, mock := newMockDB(t)
	h := newMemberHandler(db)

	expectManagedProject(mock, 10, 4)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM project_members").
		WithArgs(uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO project_members").
		WillReturnError(errors.New("Error 1452 (23000): Cannot add or update a child row: a foreign key constraint fails"))
	mock.ExpectRollback()

	body := `{"projectId":10,"assignments":[{"developerId":99,"role":"contributor"}]}`
	c, rec := authedContext(http.MethodPost, "/project-member", body, 4, model.RoleManager)
	require.NoError(t, h.Sync(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Message, "unknown user")

	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any other storage failure during a sync is the server's fault, not
// the caller's: 500, never 400.
func TestSyncStorageFailureIsInternal(t *testing.T) {
	db, mock := newMockDB(t)
	h := newMemberHandler(db)

	expectManagedProject(mock, 10, 4)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM project_members").
		WithArgs(uint64(10)).
		WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	body := `{"projectId":10,"assignments":[]}`
	c, rec := authedContext(http.MethodPost, "/project-member", body, 4, model.RoleManager)
	require.NoError(t, h.Sync(c))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Contains(t, env.Message, "previous member list kept")

	assert.NoError(t, mock.ExpectationsWereMet())
}
