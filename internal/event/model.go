package event

import "time"

// Status represents the lifecycle state of an event
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusOngoing   Status = "ongoing"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusOngoing, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Event represents an event, optionally owned by an organization
type Event struct {
	ID             int64     `json:"id" db:"id"`
	Title          string    `json:"title" db:"title"`
	Description    string    `json:"description" db:"description"`
	OrganizerID    int64     `json:"organizer_id" db:"organizer_id"`
	OrganizationID *int64    `json:"organization_id,omitempty" db:"organization_id"`
	StartDate      time.Time `json:"start_date" db:"start_date"`
	EndDate        time.Time `json:"end_date" db:"end_date"`
	Location       string    `json:"location" db:"location"`
	Status         Status    `json:"status" db:"status"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`

	// Populated by GetByID
	Participants []int64 `json:"participants,omitempty" db:"-"`
}
