package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"store-backend/internal/apperrors"
	"store-backend/internal/db"
	"store-backend/internal/models"
)

type UserRepository struct {
	DB *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{DB: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *models.User) error {
	if u.Role == "" {
		u.Role = "user"
	}
	err := r.DB.QueryRow(ctx,
		`INSERT INTO users(user_name, employee_id, password, role)
		 VALUES($1, NULLIF($2, ''), $3, $4)
		 ON CONFLICT (user_name) DO UPDATE
		 SET employee_id = EXCLUDED.employee_id, password = EXCLUDED.password, role = EXCLUDED.role, updated_at = NOW()
		 RETURNING id`,
		u.UserName, u.EmployeeID, u.PasswordHash, u.Role,
	).Scan(&u.ID)
	return db.Classify(err)
}

// FindForLogin matches userName or employeeID, whichever is non-empty.
func (r *UserRepository) FindForLogin(ctx context.Context, userName, employeeID string) (*models.User, error) {
	var (
		query = `SELECT id, user_name, COALESCE(employee_id, ''), password, role FROM users WHERE `
		args  []any
	)
	switch {
	case userName != "" && employeeID != "":
		query += `(user_name = $1 OR employee_id = $2)`
		args = []any{userName, employeeID}
	case userName != "":
		query += `user_name = $1`
		args = []any{userName}
	case employeeID != "":
		query += `employee_id = $1`
		args = []any{employeeID}
	default:
		return nil, apperrors.Validation("user_name or employee_id is required")
	}
	query += ` ORDER BY id LIMIT 1`

	return scanUser(r.DB.QueryRow(ctx, query, args...))
}

func (r *UserRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.User, error) {
	return scanUser(r.DB.QueryRow(ctx,
		`SELECT id, user_name, COALESCE(employee_id, ''), password, role
		 FROM users WHERE employee_id = $1 LIMIT 1`, employeeID))
}

func scanUser(row pgx.Row) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.UserName, &u.EmployeeID, &u.PasswordHash, &u.Role)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, db.Classify(err)
	}
	return &u, nil
}
