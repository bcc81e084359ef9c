package meeting

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/PlanifyOrg/planify/internal/database"
)

const meetingColumns = `id, event_id, title, description, scheduled_time, duration, meeting_link, created_by, status,
	flagged_for_deletion, flagged_by, flagged_at, created_at, updated_at`

// Repository handles meeting data persistence
type Repository struct {
	db database.Handler
}

// NewRepository creates a new meeting repository
func NewRepository(db database.Handler) *Repository {
	return &Repository{db: db}
}

// With returns a repository bound to h, typically a transaction
func (r *Repository) With(h database.Handler) *Repository {
	return &Repository{db: h}
}

func rowsAffected(result sql.Result) (bool, error) {
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n > 0, nil
}

// Create inserts a new meeting
func (r *Repository) Create(ctx context.Context, m *Meeting) error {
	query := r.db.Rebind(`
		INSERT INTO meetings (` + meetingColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		m.ID, m.EventID, m.Title, m.Description, m.ScheduledTime, m.Duration, m.MeetingLink, m.CreatedBy,
		m.Status, m.FlaggedForDeletion, m.FlaggedBy, m.FlaggedAt, m.CreatedAt, m.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}
	return nil
}

// GetByID retrieves a meeting by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Meeting, error) {
	query := r.db.Rebind(`SELECT ` + meetingColumns + ` FROM meetings WHERE id = ?`)

	m := &Meeting{}
	if err := r.db.GetContext(ctx, m, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meeting: %w", err)
	}
	return m, nil
}

// ListByEventID retrieves the meetings of an event in schedule order
func (r *Repository) ListByEventID(ctx context.Context, eventID int64) ([]*Meeting, error) {
	query := r.db.Rebind(`SELECT ` + meetingColumns + ` FROM meetings WHERE event_id = ? ORDER BY scheduled_time, id`)

	meetings := []*Meeting{}
	if err := r.db.SelectContext(ctx, &meetings, query, eventID); err != nil {
		return nil, fmt.Errorf("failed to list event meetings: %w", err)
	}
	return meetings, nil
}

// ListByUserID retrieves meetings the user created or participates in
func (r *Repository) ListByUserID(ctx context.Context, userID int64) ([]*Meeting, error) {
	query := r.db.Rebind(`
		SELECT ` + meetingColumns + `
		FROM meetings
		WHERE created_by = ?
		   OR id IN (SELECT meeting_id FROM meeting_participants WHERE user_id = ?)
		ORDER BY scheduled_time, id
	`)

	meetings := []*Meeting{}
	if err := r.db.SelectContext(ctx, &meetings, query, userID, userID); err != nil {
		return nil, fmt.Errorf("failed to list meetings: %w", err)
	}
	return meetings, nil
}

// Update applies a partial update
func (r *Repository) Update(ctx context.Context, id int64, req *UpdateMeetingRequest, now time.Time) error {
	query := r.db.Rebind(`
		UPDATE meetings
		SET title = COALESCE(?, title),
		    description = COALESCE(?, description),
		    scheduled_time = COALESCE(?, scheduled_time),
		    duration = COALESCE(?, duration),
		    meeting_link = COALESCE(?, meeting_link),
		    status = COALESCE(?, status),
		    updated_at = ?
		WHERE id = ?
	`)

	_, err := r.db.ExecContext(ctx, query,
		req.Title, req.Description, req.ScheduledTime, req.Duration, req.MeetingLink, req.Status, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update meeting: %w", err)
	}
	return nil
}

// Flag marks the meeting for deletion, overwriting any previous flag
func (r *Repository) Flag(ctx context.Context, id, userID int64, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE meetings
		SET flagged_for_deletion = TRUE, flagged_by = ?, flagged_at = ?, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, userID, at, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to flag meeting: %w", err)
	}
	return rowsAffected(result)
}

// Unflag clears the deletion flag together with its author and time
func (r *Repository) Unflag(ctx context.Context, id int64, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE meetings
		SET flagged_for_deletion = FALSE, flagged_by = NULL, flagged_at = NULL, updated_at = ?
		WHERE id = ?
	`)

	result, err := r.db.ExecContext(ctx, query, at, id)
	if err != nil {
		return false, fmt.Errorf("failed to unflag meeting: %w", err)
	}
	return rowsAffected(result)
}

// Delete removes a meeting and its participants, agenda and documents.
// Run it inside a transaction.
func (r *Repository) Delete(ctx context.Context, id int64) (bool, error) {
	for _, table := range []string{"meeting_participants", "meeting_agenda_items", "meeting_documents"} {
		query := r.db.Rebind(`DELETE FROM ` + table + ` WHERE meeting_id = ?`)
		if _, err := r.db.ExecContext(ctx, query, id); err != nil {
			return false, fmt.Errorf("failed to delete from %s: %w", table, err)
		}
	}

	result, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM meetings WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to delete meeting: %w", err)
	}
	return rowsAffected(result)
}

// AddParticipant inserts a participant row. Returns database.ErrDuplicateKey when present.
func (r *Repository) AddParticipant(ctx context.Context, meetingID, userID int64, joinedAt time.Time) error {
	query := r.db.Rebind(`
		INSERT INTO meeting_participants (meeting_id, user_id, checked_in, joined_at)
		VALUES (?, ?, FALSE, ?)
	`)
	if _, err := r.db.ExecContext(ctx, query, meetingID, userID, joinedAt); err != nil {
		return fmt.Errorf("failed to add meeting participant: %w", database.WrapError(err))
	}
	return nil
}

// RemoveParticipant deletes a participant row and reports whether it existed
func (r *Repository) RemoveParticipant(ctx context.Context, meetingID, userID int64) (bool, error) {
	query := r.db.Rebind(`DELETE FROM meeting_participants WHERE meeting_id = ? AND user_id = ?`)
	result, err := r.db.ExecContext(ctx, query, meetingID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove meeting participant: %w", err)
	}
	return rowsAffected(result)
}

const participantSelect = `
	SELECT mp.meeting_id, mp.user_id, COALESCE(u.username, '') AS username, mp.checked_in, mp.checked_in_at
	FROM meeting_participants mp
	LEFT JOIN users u ON mp.user_id = u.id
`

// GetParticipant retrieves one participant, or nil when the pair does not exist
func (r *Repository) GetParticipant(ctx context.Context, meetingID, userID int64) (*Participant, error) {
	query := r.db.Rebind(participantSelect + ` WHERE mp.meeting_id = ? AND mp.user_id = ?`)

	p := &Participant{}
	if err := r.db.GetContext(ctx, p, query, meetingID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get meeting participant: %w", err)
	}
	return p, nil
}

// GetParticipants lists participants in join order
func (r *Repository) GetParticipants(ctx context.Context, meetingID int64) ([]*Participant, error) {
	query := r.db.Rebind(participantSelect + ` WHERE mp.meeting_id = ? ORDER BY mp.joined_at, mp.user_id`)

	participants := []*Participant{}
	if err := r.db.SelectContext(ctx, &participants, query, meetingID); err != nil {
		return nil, fmt.Errorf("failed to get meeting participants: %w", err)
	}
	return participants, nil
}

// CheckIn flips checked_in from false to true. It reports false when the
// participant is missing or already checked in, so only one caller can win.
func (r *Repository) CheckIn(ctx context.Context, meetingID, userID int64, at time.Time) (bool, error) {
	query := r.db.Rebind(`
		UPDATE meeting_participants
		SET checked_in = TRUE, checked_in_at = ?
		WHERE meeting_id = ? AND user_id = ? AND checked_in = FALSE
	`)

	result, err := r.db.ExecContext(ctx, query, at, meetingID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to check in: %w", err)
	}
	return rowsAffected(result)
}

// NextAgendaIndex returns the order index after the last agenda item
func (r *Repository) NextAgendaIndex(ctx context.Context, meetingID int64) (int, error) {
	query := r.db.Rebind(`SELECT COALESCE(MAX(order_index) + 1, 0) FROM meeting_agenda_items WHERE meeting_id = ?`)

	var next int
	if err := r.db.QueryRowxContext(ctx, query, meetingID).Scan(&next); err != nil {
		return 0, fmt.Errorf("failed to get next agenda index: %w", err)
	}
	return next, nil
}

// AddAgendaItem inserts an agenda item
func (r *Repository) AddAgendaItem(ctx context.Context, a *AgendaItem) error {
	query := r.db.Rebind(`
		INSERT INTO meeting_agenda_items (id, meeting_id, title, description, duration, order_index, is_completed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.MeetingID, a.Title, a.Description, a.Duration, a.OrderIndex, a.IsCompleted, a.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add agenda item: %w", err)
	}
	return nil
}

// GetAgendaItems lists agenda items by order index
func (r *Repository) GetAgendaItems(ctx context.Context, meetingID int64) ([]*AgendaItem, error) {
	query := r.db.Rebind(`
		SELECT id, meeting_id, title, description, duration, order_index, is_completed, created_at
		FROM meeting_agenda_items
		WHERE meeting_id = ?
		ORDER BY order_index, id
	`)

	items := []*AgendaItem{}
	if err := r.db.SelectContext(ctx, &items, query, meetingID); err != nil {
		return nil, fmt.Errorf("failed to get agenda items: %w", err)
	}
	return items, nil
}

// CompleteAgendaItem marks an agenda item done and reports whether it exists
func (r *Repository) CompleteAgendaItem(ctx context.Context, meetingID, itemID int64) (bool, error) {
	query := r.db.Rebind(`UPDATE meeting_agenda_items SET is_completed = TRUE WHERE id = ? AND meeting_id = ?`)

	result, err := r.db.ExecContext(ctx, query, itemID, meetingID)
	if err != nil {
		return false, fmt.Errorf("failed to complete agenda item: %w", err)
	}
	return rowsAffected(result)
}

const documentColumns = `id, meeting_id, title, content, type, created_by, created_at, updated_at`

// AddDocument inserts a meeting document
func (r *Repository) AddDocument(ctx context.Context, d *Document) error {
	query := r.db.Rebind(`INSERT INTO meeting_documents (` + documentColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.MeetingID, d.Title, d.Content, d.Type, d.CreatedBy, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add document: %w", err)
	}
	return nil
}

// GetDocument retrieves a document of a meeting, or nil when absent
func (r *Repository) GetDocument(ctx context.Context, meetingID, docID int64) (*Document, error) {
	query := r.db.Rebind(`SELECT ` + documentColumns + ` FROM meeting_documents WHERE id = ? AND meeting_id = ?`)

	d := &Document{}
	if err := r.db.GetContext(ctx, d, query, docID, meetingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return d, nil
}

// GetDocuments lists the documents of a meeting, oldest first
func (r *Repository) GetDocuments(ctx context.Context, meetingID int64) ([]*Document, error) {
	query := r.db.Rebind(`SELECT ` + documentColumns + ` FROM meeting_documents WHERE meeting_id = ? ORDER BY created_at, id`)

	docs := []*Document{}
	if err := r.db.SelectContext(ctx, &docs, query, meetingID); err != nil {
		return nil, fmt.Errorf("failed to get documents: %w", err)
	}
	return docs, nil
}

// UpdateDocument applies a partial document update
func (r *Repository) UpdateDocument(ctx context.Context, docID int64, req *UpdateDocumentRequest, now time.Time) error {
	query := r.db.Rebind(`
		UPDATE meeting_documents
		SET title = COALESCE(?, title),
		    content = COALESCE(?, content),
		    updated_at = ?
		WHERE id = ?
	`)

	if _, err := r.db.ExecContext(ctx, query, req.Title, req.Content, now, docID); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	return nil
}
