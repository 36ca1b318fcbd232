package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/project-manager/internal/model"
)

type TaskRepo struct{ DB *sql.DB }

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{DB: db} }

// Every task read joins the owning project so callers get the project
// name (for dashboards and listings) and the project's manager id
// (for the access guard) in one round trip. LEFT JOIN keeps a task
// readable even mid-cascade; the name simply comes back NULL.
const taskSelect = `SELECT t.id, t.title, t.description, t.status, t.priority, t.due_date,
t.project_id, t.assignee_id, t.created_at, t.updated_at, p.name, COALESCE(p.manager_id, 0)
FROM tasks t LEFT JOIN projects p ON p.id = t.project_id`

// Create inserts a task and reads the full row back.
func (r *TaskRepo) Create(ctx context.Context, t *model.Task) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO tasks (title, description, status, priority, due_date, project_id, assignee_id) VALUES (?,?,?,?,?,?,?)",
		t.Title, t.Description, taskStatusOrDefault(t.Status), priorityOrDefault(t.Priority), t.DueDate, t.ProjectID, t.AssigneeID)
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
	*t = created
	return nil
}

// GetByID fetches a task by primary key, unscoped (existence before
// permission, as for projects).
func (r *TaskRepo) GetByID(ctx context.Context, id uint64) (model.Task, error) {
	tasks, err := r.list(ctx, taskSelect+" WHERE t.id=? LIMIT 1", id)
	if err != nil {
		return model.Task{}, err
	}
	if len(tasks) == 0 {
		return model.Task{}, sql.ErrNoRows
	}
	return tasks[0], nil
}

// ListAll returns every task; admin visibility.
func (r *TaskRepo) ListAll(ctx context.Context) ([]model.Task, error) {
	return r.list(ctx, taskSelect+" ORDER BY t.id")
}

// ListForUser returns tasks assigned to the user plus tasks in any of
// the given project ids: the `assignee_id = ? OR project_id IN (...)`
// visibility predicate.
func (r *TaskRepo) ListForUser(ctx context.Context, userID uint64, projectIDs []uint64) ([]model.Task, error) {
	if len(projectIDs) == 0 {
		return r.list(ctx, taskSelect+" WHERE t.assignee_id=? ORDER BY t.id", userID)
	}
	query := taskSelect + " WHERE t.assignee_id=? OR t.project_id IN (" +
		placeholders(len(projectIDs)) + ") ORDER BY t.id"
	args := append([]interface{}{userID}, idArgs(projectIDs)...)
	return r.list(ctx, query, args...)
}

// ListByAssignee returns the tasks directly assigned to a user.
func (r *TaskRepo) ListByAssignee(ctx context.Context, assigneeID uint64) ([]model.Task, error) {
	return r.list(ctx, taskSelect+" WHERE t.assignee_id=? ORDER BY t.id", assigneeID)
}

// Update persists the mutable fields of a task.
func (r *TaskRepo) Update(ctx context.Context, t *model.Task) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET title=?, description=?, status=?, priority=?, due_date=?, assignee_id=? WHERE id=?",
		t.Title, t.Description, taskStatusOrDefault(t.Status), priorityOrDefault(t.Priority), t.DueDate, t.AssigneeID, t.ID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateStatus sets only the status column.
func (r *TaskRepo) UpdateStatus(ctx context.Context, id uint64, status model.TaskStatus) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tasks SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// Delete removes a task.
func (r *TaskRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tasks WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TaskRepo) list(ctx context.Context, query string, args ...interface{}) ([]model.Task, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var (
			t     model.Task
			desc  sql.NullString
			due   sql.NullTime
			pname sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Title, &desc, &t.Status, &t.Priority, &due,
			&t.ProjectID, &t.AssigneeID, &t.CreatedAt, &t.UpdatedAt, &pname, &t.ProjectManagerID); err != nil {
			return nil, err
		}
		if desc.Valid {
			d := desc.String
			t.Description = &d
		}
		if due.Valid {
			d := due.Time
			t.DueDate = &d
		}
		if pname.Valid {
			n := pname.String
			t.ProjectName = &n
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func taskStatusOrDefault(s model.TaskStatus) model.TaskStatus {
	if s == "" {
		return model.TaskTodo
	}
	return s
}

func priorityOrDefault(p model.TaskPriority) model.TaskPriority {
	if p == "" {
		return model.PriorityMedium
	}
	return p
}
