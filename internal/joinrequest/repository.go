package joinrequest

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PlanifyOrg/planify/internal/database"
)

const joinRequestColumns = `id, organization_id, user_id, status, requested_at, reviewed_at, reviewed_by`

// Repository handles join request persistence
type Repository struct {
	db database.Handler
}

// NewRepository creates a new join request repository
func NewRepository(db database.Handler) *Repository {
	return &Repository{db: db}
}

// With returns a repository bound to h, typically a transaction
func (r *Repository) With(h database.Handler) *Repository {
	return &Repository{db: h}
}

// Create inserts a pending request. A second pending request for the same
// pair fails with database.ErrDuplicateKey.
func (r *Repository) Create(ctx context.Context, j *JoinRequest) error {
	query := r.db.Rebind(`
		INSERT INTO join_requests (` + joinRequestColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		j.ID, j.OrganizationID, j.UserID, j.Status, j.RequestedAt, j.ReviewedAt, j.ReviewedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to create join request: %w", database.WrapError(err))
	}
	return nil
}

// GetByID retrieves a join request by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*JoinRequest, error) {
	query := r.db.Rebind(`SELECT ` + joinRequestColumns + ` FROM join_requests WHERE id = ?`)

	j := &JoinRequest{}
	if err := r.db.GetContext(ctx, j, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get join request: %w", err)
	}
	return j, nil
}

// HasPending reports whether a pending request exists for the pair
func (r *Repository) HasPending(ctx context.Context, orgID, userID int64) (bool, error) {
	query := r.db.Rebind(`
		SELECT COUNT(*) FROM join_requests
		WHERE organization_id = ? AND user_id = ? AND status = ?
	`)

	var n int
	if err := r.db.GetContext(ctx, &n, query, orgID, userID, StatusPending); err != nil {
		return false, fmt.Errorf("failed to check pending join requests: %w", err)
	}
	return n > 0, nil
}

// ListPending lists an organization's pending requests, newest first
func (r *Repository) ListPending(ctx context.Context, orgID int64) ([]*JoinRequest, error) {
	query := r.db.Rebind(`
		SELECT ` + joinRequestColumns + `
		FROM join_requests
		WHERE organization_id = ? AND status = ?
		ORDER BY requested_at DESC, id DESC
	`)

	requests := []*JoinRequest{}
	if err := r.db.SelectContext(ctx, &requests, query, orgID, StatusPending); err != nil {
		return nil, fmt.Errorf("failed to list join requests: %w", err)
	}
	return requests, nil
}

// Review moves a pending request to status. It reports false when the
// request was no longer pending, so two reviewers cannot both win.
func (r *Repository) Review(ctx context.Context, id int64, status Status, reviewerID int64, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE join_requests
		SET status = ?, reviewed_at = ?, reviewed_by = ?
		WHERE id = ? AND status = ?
	`)

	result, err := r.db.ExecContext(ctx, query, status, at, reviewerID, id, StatusPending)
	if err != nil {
		return false, fmt.Errorf("failed to review join request: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}
