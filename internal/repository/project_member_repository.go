package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/project-manager/internal/model"
)

// ProjectMemberRepo persists the (project, user, role) membership
// relation. The only mutation it offers is Sync: the full member list
// of a project is replaced atomically, which is what guarantees at
// most one row per (project, user) pair.
type ProjectMemberRepo struct{ DB *sql.DB }

func NewProjectMemberRepo(db *sql.DB) *ProjectMemberRepo { return &ProjectMemberRepo{DB: db} }

// Assignment is one entry of a membership sync request.
type Assignment struct {
	DeveloperID uint64           `json:"developerId"`
	Role        model.MemberRole `json:"role"`
}

// ProjectIDsForUser returns ids of projects the user is a member of.
func (r *ProjectMemberRepo) ProjectIDsForUser(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT project_id FROM project_members WHERE user_id=?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// IsMember reports whether the user has a membership row in the project.
func (r *ProjectMemberRepo) IsMember(ctx context.Context, projectID, userID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM project_members WHERE project_id=? AND user_id=? LIMIT 1",
		projectID, userID).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByProject returns the current member list of a project.
func (r *ProjectMemberRepo) ListByProject(ctx context.Context, projectID uint64) ([]model.ProjectMember, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, project_id, user_id, role, created_at, updated_at FROM project_members WHERE project_id=? ORDER BY id",
		projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.ProjectMember{}
	for rows.Next() {
		var m model.ProjectMember
		if err := rows.Scan(&m.ID, &m.ProjectID, &m.UserID, &m.Role, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Sync replaces the whole member list of a project: delete everything,
// bulk-insert the new assignments, all inside one transaction. Any
// failure (e.g. an assignment referencing a user id that does not
// exist) rolls back and leaves the previous list intact. An empty
// assignment list is valid and results in zero members.
//
// Replace-all is deliberate; do not "optimize" it into a diff — the
// invariant is full-list replacement, and concurrent syncs for the
// same project serialize at the storage layer, last commit winning.
func (r *ProjectMemberRepo) Sync(ctx context.Context, projectID uint64, assignments []Assignment) ([]model.ProjectMember, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM project_members WHERE project_id=?", projectID); err != nil {
		return nil, err
	}

	if len(assignments) > 0 {
		query := "INSERT INTO project_members (project_id, user_id, role) VALUES "
		args := make([]interface{}, 0, len(assignments)*3)
		for i, a := range assignments {
			if i > 0 {
				query += ","
			}
			query += "(?,?,?)"
			args = append(args, projectID, a.DeveloperID, a.Role)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			// MySQL 1452 = foreign key constraint fails: an assignment
			// named a user id that does not exist.
			if strings.Contains(err.Error(), "1452") {
				return nil, ErrMemberReference
			}
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return r.ListByProject(ctx, projectID)
}
