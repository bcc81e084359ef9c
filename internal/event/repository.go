package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PlanifyOrg/planify/internal/database"
)

const eventColumns = `id, title, description, organizer_id, organization_id, start_date, end_date, location, status, created_at, updated_at`

// Repository handles event data persistence
type Repository struct {
	db database.Handler
}

// NewRepository creates a new event repository
func NewRepository(db database.Handler) *Repository {
	return &Repository{db: db}
}

// With returns a repository bound to h, typically a transaction
func (r *Repository) With(h database.Handler) *Repository {
	return &Repository{db: h}
}

// Create inserts a new event
func (r *Repository) Create(ctx context.Context, e *Event) error {
	query := r.db.Rebind(`
		INSERT INTO events (` + eventColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.OrganizerID, e.OrganizationID,
		e.StartDate, e.EndDate, e.Location, e.Status, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// GetByID retrieves an event by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	query := r.db.Rebind(`SELECT ` + eventColumns + ` FROM events WHERE id = ?`)

	e := &Event{}
	if err := r.db.GetContext(ctx, e, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return e, nil
}

// ListByUserID retrieves events the user organizes or participates in
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Event, error) {
	query := r.db.Rebind(`
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = ?
		   OR id IN (SELECT event_id FROM event_participants WHERE user_id = ?)
		ORDER BY start_date, id
	`)

	events := []*Event{}
	if err := r.db.SelectContext(ctx, &events, query, userID, userID); err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

// ListByOrganizationID retrieves the events of an organization
func (r *Repository) ListByOrganizationID(ctx context.Context, orgID int64) ([]*Event, error) {
	query := r.db.Rebind(`SELECT ` + eventColumns + ` FROM events WHERE organization_id = ? ORDER BY start_date, id`)

	events := []*Event{}
	if err := r.db.SelectContext(ctx, &events, query, orgID); err != nil {
		return nil, fmt.Errorf("failed to list organization events: %w", err)
	}
	return events, nil
}

// Update applies a partial update
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateEventRequest, now time.Time) error {
	query := r.db.Rebind(`
		UPDATE events
		SET title = COALESCE(?, title),
		    description = COALESCE(?, description),
		    start_date = COALESCE(?, start_date),
		    end_date = COALESCE(?, end_date),
		    location = COALESCE(?, location),
		    status = COALESCE(?, status),
		    updated_at = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		req.Title, req.Description, req.StartDate, req.EndDate, req.Location, req.Status, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// Delete removes an event and, by cascade, its participants
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM events WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// AddParticipant inserts a participant row. Returns database.ErrDuplicateKey when present.
func (r *Repository) AddParticipant(ctx context.Context, eventID, userID int64, joinedAt time.Time) error {
	query := r.db.Rebind(`INSERT INTO event_participants (event_id, user_id, joined_at) VALUES (?, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, eventID, userID, joinedAt); err != nil {
		return fmt.Errorf("failed to add event participant: %w", database.WrapError(err))
	}
	return nil
}

// RemoveParticipant deletes a participant row and reports whether it existed
func (r *Repository) RemoveParticipant(ctx context.Context, eventID, userID int64) (bool, error) {
	query := r.db.Rebind(`DELETE FROM event_participants WHERE event_id = ? AND user_id = ?`)
	result, err := r.db.ExecContext(ctx, query, eventID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove event participant: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// GetParticipants lists participant user IDs in join order
func (r *Repository) GetParticipants(ctx context.Context, eventID int64) ([]int64, error) {
	query := r.db.Rebind(`SELECT user_id FROM event_participants WHERE event_id = ? ORDER BY joined_at, user_id`)

	ids := []int64{}
	if err := r.db.SelectContext(ctx, &ids, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to get event participants: %w", err)
	}
	return ids, nil
}
