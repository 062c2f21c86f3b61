// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Carlos130395/grow-analytics-backend/internal/core"
)

type Repository interface {
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Create(ctx context.Context, user *User) error
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id int64) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, email, first_name, last_surname,
	second_surname, password_hash, role, created_at, updated_at`

// Request field names map onto columns for sorting. Unrecognized keys are
// passed through as a sanitized identifier and the store's unknown-column
// error governs.
var sortColumns = map[string]string{
	"id":            "id",
	"username":      "username",
	"email":         "email",
	"firstName":     "first_name",
	"lastSurname":   "last_surname",
	"secondSurname": "second_surname",
	"role":          "role",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	whereClause := "TRUE"
	var args []any

	if params.Filter != "" {
		whereClause = `(username LIKE $1 OR email LIKE $1
			OR first_name LIKE $1 OR last_surname LIKE $1
			OR second_surname LIKE $1)`
		args = append(args, "%"+escapeLike(params.Filter)+"%")
	}

	countQuery := fmt.Sprintf(
		"SELECT COUNT(*) FROM users WHERE %s",
		whereClause,
	)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	orderColumn, ok := sortColumns[params.SortBy]
	if !ok {
		orderColumn = pgx.Identifier{params.SortBy}.Sanitize()
	}

	direction := "ASC"
	if params.Order == "desc" {
		direction = "DESC"
	}

	argIdx := len(args) + 1
	query := fmt.Sprintf(`
		SELECT %s
		FROM users
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d`,
		userColumns, whereClause, orderColumn, direction, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var users []User
	if err := r.db.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	return users, total, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE id = $1",
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}

	return &user, nil
}

func (r *repository) GetByEmail(
	ctx context.Context,
	email string,
) (*User, error) {
	query := fmt.Sprintf(
		"SELECT %s FROM users WHERE email = $1",
		userColumns,
	)

	var user User
	err := r.db.GetContext(ctx, &user, query, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get user by email: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	return &user, nil
}

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (
			username, email, first_name, last_surname,
			second_surname, password_hash, role
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`

	err := r.db.GetContext(ctx, user, query,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastSurname,
		user.SecondSurname,
		user.PasswordHash,
		user.Role,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("create user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("create user: %w", err)
	}

	return nil
}

func (r *repository) Update(ctx context.Context, user *User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, first_name = $4,
		    last_surname = $5, second_surname = $6,
		    password_hash = $7, role = $8, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	err := r.db.GetContext(ctx, &user.UpdatedAt, query,
		user.ID,
		user.Username,
		user.Email,
		user.FirstName,
		user.LastSurname,
		user.SecondSurname,
		user.PasswordHash,
		user.Role,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update user: %w", core.ErrNotFound)
	}
	if err != nil {
		if isDuplicateKeyError(err) {
			return fmt.Errorf("update user: %w", core.ErrDuplicateKey)
		}
		return fmt.Errorf("update user: %w", err)
	}

	return nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM users WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete user: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) ExistsByEmail(
	ctx context.Context,
	email string,
) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, email); err != nil {
		return false, fmt.Errorf("check email exists: %w", err)
	}

	return exists, nil
}

func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}

func escapeLike(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "%", "\\%")
	s = strings.ReplaceAll(s, "_", "\\_")
	return s
}
