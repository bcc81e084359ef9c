package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PlanifyOrg/planify/internal/database"
)

const userColumns = `id, username, email, avatar_url, created_at`

// Repository handles user data persistence
type Repository struct {
	db database.Handler
}

// NewRepository creates a new user repository with database dependency injected
func NewRepository(db database.Handler) *Repository {
	return &Repository{db: db}
}

// Create inserts a new user into the database
func (r *Repository) Create(ctx context.Context, u *User) error {
	query := r.db.Rebind(`
		INSERT INTO users (` + userColumns + `)
		VALUES (?, ?, ?, ?, ?)
	`)

	if _, err := r.db.ExecContext(ctx, query, u.ID, u.Username, u.Email, u.AvatarURL, u.CreatedAt); err != nil {
		return fmt.Errorf("failed to create user: %w", database.WrapError(err))
	}

	return nil
}

// GetByID retrieves a user by their ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by their email
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByUsername retrieves a user by their username
func (r *Repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getBy(ctx, "username", username)
}

func (r *Repository) getBy(ctx context.Context, column string, value interface{}) (*User, error) {
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE ` + column + ` = ?`)

	u := &User{}
	if err := r.db.GetContext(ctx, u, query, value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return u, nil
}

// List retrieves all users with pagination
func (r *Repository) List(ctx context.Context, limit, offset int) ([]*User, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users`); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	query := r.db.Rebind(`
		SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`)

	users := []*User{}
	if err := r.db.SelectContext(ctx, &users, query, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	return users, total, nil
}

// Update modifies an existing user
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateUserRequest) error {
	query := r.db.Rebind(`
		UPDATE users
		SET username = COALESCE(?, username),
		    avatar_url = COALESCE(?, avatar_url)
		WHERE id = ?
	`)

	if _, err := r.db.ExecContext(ctx, query, req.Username, req.AvatarURL, id); err != nil {
		return fmt.Errorf("failed to update user: %w", database.WrapError(err))
	}

	return nil
}
