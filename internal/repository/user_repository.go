package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/project-manager/internal/model"
	"github.com/iliyamo/project-manager/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id,name,email,password_hash,role,refresh_token_hash,created_at,updated_at"

// Create inserts a user and returns its ID. The password is hashed
// here so callers never handle the digest. An empty role is stored
// as NULL (account without a role).
func (r *UserRepo) Create(ctx context.Context, name, email, password string, role model.Role, cost int) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	var dbRole sql.NullString
	if role != "" {
		dbRole = sql.NullString{String: string(role), Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, hash, dbRole)
	if err != nil {
		// MySQL 1062 = duplicate entry for the unique email index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? LIMIT 1", email))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// List returns all users ordered by id.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	return r.scanMany(ctx, "SELECT "+userCols+" FROM users ORDER BY id")
}

// ListByRole returns all users holding the given role.
func (r *UserRepo) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	return r.scanMany(ctx, "SELECT "+userCols+" FROM users WHERE role=? ORDER BY id", string(role))
}

// Update persists name, email and role of an existing user.
func (r *UserRepo) Update(ctx context.Context, u *model.User) error {
	var dbRole sql.NullString
	if u.Role != "" {
		dbRole = sql.NullString{String: string(u.Role), Valid: true}
	}
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, email=?, role=? WHERE id=?",
		u.Name, strings.ToLower(strings.TrimSpace(u.Email)), dbRole, u.ID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	return requireRow(res)
}

// UpdateRefreshHash overwrites the stored refresh-token hash. Passing
// nil clears it (logout); any previous refresh token stops verifying
// immediately, which is what enforces the single-session invariant.
func (r *UserRepo) UpdateRefreshHash(ctx context.Context, userID uint64, hash *string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token_hash=? WHERE id=?", hash, userID)
	return err
}

// Delete removes a user; owned projects, memberships and assigned
// tasks go with it via ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u    model.User
		role sql.NullString
		rth  sql.NullString
	)
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &rth, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return model.User{}, err
	}
	if role.Valid {
		u.Role = model.Role(role.String)
	}
	if rth.Valid {
		h := rth.String
		u.RefreshTokenHash = &h
	}
	return u, nil
}

func (r *UserRepo) scanMany(ctx context.Context, query string, args ...interface{}) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []model.User{}
	for rows.Next() {
		var (
			u    model.User
			role sql.NullString
			rth  sql.NullString
		)
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &rth, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		if role.Valid {
			u.Role = model.Role(role.String)
		}
		if rth.Valid {
			h := rth.String
			u.RefreshTokenHash = &h
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// requireRow converts a zero-row UPDATE/DELETE into sql.ErrNoRows so
// handlers can answer 404.
func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
