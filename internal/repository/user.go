package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/rolegate/rolegate/internal/model"
)

// Common errors for user repository operations.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailExists  = errors.New("email already exists")
)

const userColumns = `id, email, password_hash, roles, created_at`

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, roles, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	roles := user.Roles
	if len(roles) == 0 {
		roles = []string{model.RoleUser}
	}

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		normalizeEmail(user.Email),
		user.PasswordHash,
		pq.Array(roles),
		user.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.Roles = roles
	return nil
}

// GetUserByID retrieves a user by their ID.
func (r *Repository) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// GetUserByEmail retrieves a user by email, case-insensitively.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE lower(email) = $1`
	return scanUser(r.pool.QueryRow(ctx, query, normalizeEmail(email)))
}

// IsAdmin reports whether the user holds the admin role.
// An unknown user is not an admin; that is not an error.
func (r *Repository) IsAdmin(ctx context.Context, userID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1 AND $2 = ANY(roles))`

	var isAdmin bool
	if err := r.pool.QueryRow(ctx, query, userID, model.RoleAdmin).Scan(&isAdmin); err != nil {
		return false, fmt.Errorf("failed to check admin role: %w", err)
	}

	return isAdmin, nil
}

// SetRoles replaces a user's roles.
func (r *Repository) SetRoles(ctx context.Context, userID string, roles []string) error {
	query := `UPDATE users SET roles = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, userID, pq.Array(roles))
	if err != nil {
		return fmt.Errorf("failed to set roles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdatePasswordHash stores a new password hash for the user.
func (r *Repository) UpdatePasswordHash(ctx context.Context, userID, hash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, userID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password hash: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrUserNotFound
	}

	return nil
}

// scanUser scans a single row into a User model.
func scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var roles []string

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		pq.Array(&roles),
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}

	user.Roles = roles
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
