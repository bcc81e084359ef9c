package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/PlanifyOrg/planify/internal/database"
)

const notificationColumns = `id, recipient_id, sender_id, type, title, message, related_entity_id, is_read, created_at`

// Repository handles notification data persistence
type Repository struct {
	db database.Handler
}

// NewRepository creates a new notification repository
func NewRepository(db database.Handler) *Repository {
	return &Repository{db: db}
}

// Create inserts a new notification into the database
func (r *Repository) Create(ctx context.Context, n *Notification) error {
	query := r.db.Rebind(`
		INSERT INTO notifications (` + notificationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.RecipientID, n.SenderID, n.Type, n.Title, n.Message, n.RelatedEntityID, n.IsRead, n.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	return nil
}

// GetByID retrieves a notification by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Notification, error) {
	query := r.db.Rebind(`SELECT ` + notificationColumns + ` FROM notifications WHERE id = ?`)

	n := &Notification{}
	if err := r.db.GetContext(ctx, n, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	return n, nil
}

// ListByRecipientID retrieves all notifications for a user, newest first
func (r *Repository) ListByRecipientID(ctx context.Context, recipientID int64, limit, offset int, unreadOnly bool) ([]*Notification, int, error) {
	filter := ` WHERE recipient_id = ?`
	if unreadOnly {
		filter += ` AND is_read = FALSE`
	}

	var total int
	if err := r.db.GetContext(ctx, &total, r.db.Rebind(`SELECT COUNT(*) FROM notifications`+filter), recipientID); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query := r.db.Rebind(`SELECT ` + notificationColumns + ` FROM notifications` + filter +
		` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`)

	notifications := []*Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, recipientID, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, total, nil
}

// MarkAsRead marks a notification as read
func (r *Repository) MarkAsRead(ctx context.Context, id int64) error {
	query := r.db.Rebind(`UPDATE notifications SET is_read = TRUE WHERE id = ?`)
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to mark notification as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks all notifications as read for a user
func (r *Repository) MarkAllAsRead(ctx context.Context, recipientID int64) (int64, error) {
	query := r.db.Rebind(`UPDATE notifications SET is_read = TRUE WHERE recipient_id = ? AND is_read = FALSE`)
	result, err := r.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}

// GetUnreadCount returns the count of unread notifications for a user
func (r *Repository) GetUnreadCount(ctx context.Context, recipientID int64) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM notifications WHERE recipient_id = ? AND is_read = FALSE`)
	if err := r.db.GetContext(ctx, &count, query, recipientID); err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}
