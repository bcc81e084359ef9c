package organization

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PlanifyOrg/planify/internal/database"
)

const organizationColumns = `id, name, description, logo, website, settings, created_at, updated_at`

// Repository handles organization and membership persistence
type Repository struct {
	db  database.Handler
	now func() time.Time
}

// NewRepository creates a new organization repository
func NewRepository(db database.Handler) *Repository {
	return &Repository{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// With returns a repository bound to h, typically a transaction
func (r *Repository) With(h database.Handler) *Repository {
	return &Repository{db: h, now: r.now}
}

// Create inserts a new organization
func (r *Repository) Create(ctx context.Context, o *Organization) error {
	query := r.db.Rebind(`
		INSERT INTO organizations (` + organizationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		o.ID, o.Name, o.Description, o.Logo, o.Website, o.Settings, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create organization: %w", err)
	}
	return nil
}

// GetByID retrieves an organization by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Organization, error) {
	query := r.db.Rebind(`SELECT ` + organizationColumns + ` FROM organizations WHERE id = ?`)

	o := &Organization{}
	if err := r.db.GetContext(ctx, o, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return o, nil
}

// List retrieves every organization
func (r *Repository) List(ctx context.Context) ([]*Organization, error) {
	orgs := []*Organization{}
	if err := r.db.SelectContext(ctx, &orgs, `SELECT `+organizationColumns+` FROM organizations ORDER BY name, id`); err != nil {
		return nil, fmt.Errorf("failed to list organizations: %w", err)
	}
	return orgs, nil
}

// ListByUserID retrieves the organizations a user is a member of
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Organization, error) {
	query := r.db.Rebind(`
		SELECT o.id, o.name, o.description, o.logo, o.website, o.settings, o.created_at, o.updated_at
		FROM organizations o
		JOIN organization_members om ON o.id = om.organization_id
		WHERE om.user_id = ?
		ORDER BY o.name, o.id
	`)

	orgs := []*Organization{}
	if err := r.db.SelectContext(ctx, &orgs, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list organizations for user: %w", err)
	}
	return orgs, nil
}

// Update overwrites the mutable fields of o
func (r *Repository) Update(ctx context.Context, o *Organization) error {
	query := r.db.Rebind(`
		UPDATE organizations
		SET name = ?, description = ?, logo = ?, website = ?, settings = ?, updated_at = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query, o.Name, o.Description, o.Logo, o.Website, o.Settings, o.UpdatedAt, o.ID)
	if err != nil {
		return fmt.Errorf("failed to update organization: %w", err)
	}
	return nil
}

// Delete removes an organization; memberships and join requests cascade
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM organizations WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete organization: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// AddMember inserts a plain membership. Adding an existing member is a no-op.
func (r *Repository) AddMember(ctx context.Context, orgID, userID int64) error {
	query := r.db.Rebind(`
		INSERT INTO organization_members (organization_id, user_id, is_admin, joined_at)
		VALUES (?, ?, FALSE, ?)
		ON CONFLICT (organization_id, user_id) DO NOTHING
	`)

	if _, err := r.db.ExecContext(ctx, query, orgID, userID, r.now()); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}
	return nil
}

// RemoveMember deletes the membership, dropping admin status with it
func (r *Repository) RemoveMember(ctx context.Context, orgID, userID int64) error {
	query := r.db.Rebind(`DELETE FROM organization_members WHERE organization_id = ? AND user_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, orgID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	return nil
}

// AddAdmin makes the user an admin, creating the membership when missing
func (r *Repository) AddAdmin(ctx context.Context, orgID, userID int64) error {
	query := r.db.Rebind(`
		INSERT INTO organization_members (organization_id, user_id, is_admin, joined_at)
		VALUES (?, ?, TRUE, ?)
		ON CONFLICT (organization_id, user_id) DO UPDATE SET is_admin = TRUE
	`)

	if _, err := r.db.ExecContext(ctx, query, orgID, userID, r.now()); err != nil {
		return fmt.Errorf("failed to add admin: %w", err)
	}
	return nil
}

// RemoveAdmin clears the admin flag and keeps the membership
func (r *Repository) RemoveAdmin(ctx context.Context, orgID, userID int64) error {
	query := r.db.Rebind(`UPDATE organization_members SET is_admin = FALSE WHERE organization_id = ? AND user_id = ?`)
	if _, err := r.db.ExecContext(ctx, query, orgID, userID); err != nil {
		return fmt.Errorf("failed to remove admin: %w", err)
	}
	return nil
}

// IsMember reports whether the user belongs to the organization
func (r *Repository) IsMember(ctx context.Context, orgID, userID int64) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM organization_members WHERE organization_id = ? AND user_id = ?`, orgID, userID)
}

// IsAdmin reports whether the user administers the organization
func (r *Repository) IsAdmin(ctx context.Context, orgID, userID int64) (bool, error) {
	return r.exists(ctx, `SELECT COUNT(*) FROM organization_members WHERE organization_id = ? AND user_id = ? AND is_admin = TRUE`, orgID, userID)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, r.db.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}
	return n > 0, nil
}

// GetMembers lists the members of an organization in join order
func (r *Repository) GetMembers(ctx context.Context, orgID int64) ([]*Member, error) {
	query := r.db.Rebind(`
		SELECT om.organization_id, om.user_id, om.is_admin, om.joined_at, COALESCE(u.username, '') AS username
		FROM organization_members om
		LEFT JOIN users u ON om.user_id = u.id
		WHERE om.organization_id = ?
		ORDER BY om.joined_at, om.user_id
	`)

	members := []*Member{}
	if err := r.db.SelectContext(ctx, &members, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to get members: %w", err)
	}
	return members, nil
}

// GetAdminIDs lists the user IDs of the organization's admins
func (r *Repository) GetAdminIDs(ctx context.Context, orgID int64) ([]int64, error) {
	query := r.db.Rebind(`
		SELECT user_id FROM organization_members
		WHERE organization_id = ? AND is_admin = TRUE
		ORDER BY joined_at, user_id
	`)

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to get admins: %w", err)
	}
	return ids, nil
}
