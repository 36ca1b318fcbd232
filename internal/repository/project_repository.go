package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/project-manager/internal/model"
)

type ProjectRepo struct{ DB *sql.DB }

func NewProjectRepo(db *sql.DB) *ProjectRepo { return &ProjectRepo{DB: db} }

const projectCols = "id,name,description,status,start_date,end_date,manager_id,created_at,updated_at"

// Create inserts a project and reads the full row back so defaults
// (status, timestamps) are populated.
func (r *ProjectRepo) Create(ctx context.Context, p *model.Project) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO projects (name, description, status, start_date, end_date, manager_id) VALUES (?,?,?,?,?,?)",
		p.Name, p.Description, statusOrDefault(p.Status), p.StartDate, p.EndDate, p.ManagerID)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*p = created
	return nil
}

// GetByID fetches a project by primary key. The lookup is unscoped:
// existence checks answer 404 before any permission decision.
func (r *ProjectRepo) GetByID(ctx context.Context, id uint64) (model.Project, error) {
	return scanProject(r.DB.QueryRowContext(ctx,
		"SELECT "+projectCols+" FROM projects WHERE id=? LIMIT 1", id))
}

// ListAll returns every project; admin visibility.
func (r *ProjectRepo) ListAll(ctx context.Context) ([]model.Project, error) {
	return r.list(ctx, "SELECT "+projectCols+" FROM projects ORDER BY id")
}

// ListForUser returns projects the user manages plus the given
// member-project ids (the caller resolves those through the scope
// resolver). This is the `manager_id = ? OR id IN (...)` visibility
// predicate applied in SQL.
func (r *ProjectRepo) ListForUser(ctx context.Context, userID uint64, memberProjectIDs []uint64) ([]model.Project, error) {
	if len(memberProjectIDs) == 0 {
		return r.list(ctx,
			"SELECT "+projectCols+" FROM projects WHERE manager_id=? ORDER BY id", userID)
	}
	query := "SELECT " + projectCols + " FROM projects WHERE manager_id=? OR id IN (" +
		placeholders(len(memberProjectIDs)) + ") ORDER BY id"
	args := append([]interface{}{userID}, idArgs(memberProjectIDs)...)
	return r.list(ctx, query, args...)
}

// IDsManagedBy returns ids of all projects managed by the user.
func (r *ProjectRepo) IDsManagedBy(ctx context.Context, userID uint64) ([]uint64, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id FROM projects WHERE manager_id=?", userID)
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

// Update persists the mutable fields of a project.
func (r *ProjectRepo) Update(ctx context.Context, p *model.Project) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE projects SET name=?, description=?, status=?, start_date=?, end_date=? WHERE id=?",
		p.Name, p.Description, statusOrDefault(p.Status), p.StartDate, p.EndDate, p.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateStatus sets only the status column. Transitions are
// free-form; gating happens in the access guard, not here.
func (r *ProjectRepo) UpdateStatus(ctx context.Context, id uint64, status model.ProjectStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE projects SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a project; members and tasks cascade.
func (r *ProjectRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM projects WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *ProjectRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Project, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var (
			p    model.Project
			desc sql.NullString
		)
		if err := rows.Scan(&p.ID, &p.Name, &desc, &p.Status, &p.StartDate, &p.EndDate, &p.ManagerID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			p.Description = &d
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(row *sql.Row) (model.Project, error) {
	var (
		p    model.Project
		desc sql.NullString
	)
	err := row.Scan(&p.ID, &p.Name, &desc, &p.Status, &p.StartDate, &p.EndDate, &p.ManagerID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return model.Project{}, err
	}
	if desc.Valid {
		d := desc.String
		p.Description = &d
	}
	return p, nil
}

func statusOrDefault(s model.ProjectStatus) model.ProjectStatus {
	if s == "" {
		return model.ProjectPlanned
	}
	return s
}
