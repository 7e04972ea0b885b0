package repository

import (
	"context"
	"database/sql"
	"strings"

	appErrors "github.com/unclebandit/hvac-backend/internal/errors"
	"github.com/unclebandit/hvac-backend/internal/model"
)

type UserRepositoryInterface interface {
	GetByID(ctx context.Context, id int) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Create(ctx context.Context, u *model.User) error
	UpdateProfile(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, id int, hash string) error
}

type UserRepository struct {
	DB *sql.DB
}

const userColumns = `id, email, password_hash, first_name, last_name, role, created_at, updated_at`

func scanUser(row rowScanner, u *model.User) error {
	return row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.FirstName, &u.LastName, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	if err := scanUser(r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), &u); err != nil {
		return nil, notFound(err, "User", id)
	}
	return &u, nil
}

// GetByEmail matches case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var u model.User
	row := r.DB.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1)`, strings.TrimSpace(email))
	if err := scanUser(row, &u); err != nil {
		return nil, notFound(err, "User", email)
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *model.User) error {
	query := `
        INSERT INTO users (email, password_hash, first_name, last_name, role)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `
	err := r.DB.QueryRowContext(ctx, query, u.Email, u.PasswordHash, u.FirstName, u.LastName, u.Role).
		Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("Email already registered")
	}
	return err
}

func (r *UserRepository) UpdateProfile(ctx context.Context, u *model.User) error {
	err := r.DB.QueryRowContext(ctx, `
        UPDATE users SET first_name=$1, last_name=$2, email=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`, u.FirstName, u.LastName, u.Email, u.ID).Scan(&u.UpdatedAt)
	if isUniqueViolation(err) {
		return appErrors.NewConflict("Email is already in use")
	}
	return notFound(err, "User", u.ID)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int, hash string) error {
	return execAffecting(ctx, r.DB, "User", id, `UPDATE users SET password_hash=$1, updated_at=NOW() WHERE id=$2`, hash, id)
}
