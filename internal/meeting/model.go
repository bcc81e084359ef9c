package meeting

import (
	"time"

	"github.com/PlanifyOrg/planify/internal/authz"
)

// Status represents the lifecycle state of a meeting
type Status string

const (
	StatusProposed  Status = "proposed"
	StatusConfirmed Status = "confirmed"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusProposed, StatusConfirmed, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// DocumentType classifies a meeting document
type DocumentType string

const (
	DocumentNotes      DocumentType = "notes"
	DocumentMinutes    DocumentType = "minutes"
	DocumentAgenda     DocumentType = "agenda"
	DocumentAttachment DocumentType = "attachment"
	DocumentProtocol   DocumentType = "protocol"
)

// Valid reports whether t is a known document type
func (t DocumentType) Valid() bool {
	switch t {
	case DocumentNotes, DocumentMinutes, DocumentAgenda, DocumentAttachment, DocumentProtocol:
		return true
	}
	return false
}

// Meeting is a scheduled session, optionally attached to an event.
// FlaggedBy and FlaggedAt are set exactly when FlaggedForDeletion is true.
type Meeting struct {
	ID                 int64      `db:"id"`
	EventID            *int64     `db:"event_id"`
	Title              string     `db:"title"`
	Description        string     `db:"description"`
	ScheduledTime      time.Time  `db:"scheduled_time"`
	Duration           int        `db:"duration"`
	MeetingLink        *string    `db:"meeting_link"`
	CreatedBy          *int64     `db:"created_by"`
	Status             Status     `db:"status"`
	FlaggedForDeletion bool       `db:"flagged_for_deletion"`
	FlaggedBy          *int64     `db:"flagged_by"`
	FlaggedAt          *time.Time `db:"flagged_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`

	// Populated by GetByID
	Participants []*Participant `db:"-"`
	AgendaItems  []*AgendaItem  `db:"-"`
	Documents    []*Document    `db:"-"`
}

// Ref returns the fields authorization decisions depend on
func (m *Meeting) Ref() authz.MeetingRef {
	return authz.MeetingRef{EventID: m.EventID, CreatedBy: m.CreatedBy}
}

// Participant is a user attending a meeting
type Participant struct {
	MeetingID   int64      `db:"meeting_id"`
	UserID      int64      `db:"user_id"`
	Username    string     `db:"username"`
	CheckedIn   bool       `db:"checked_in"`
	CheckedInAt *time.Time `db:"checked_in_at"`
}

// AgendaItem is one ordered point on a meeting agenda
type AgendaItem struct {
	ID          int64     `db:"id"`
	MeetingID   int64     `db:"meeting_id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Duration    *int      `db:"duration"`
	OrderIndex  int       `db:"order_index"`
	IsCompleted bool      `db:"is_completed"`
	CreatedAt   time.Time `db:"created_at"`
}

// Document is a text artifact attached to a meeting
type Document struct {
	ID        int64        `db:"id"`
	MeetingID int64        `db:"meeting_id"`
	Title     string       `db:"title"`
	Content   string       `db:"content"`
	Type      DocumentType `db:"type"`
	CreatedBy int64        `db:"created_by"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}
