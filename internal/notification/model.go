package notification

import "time"

// Notification represents a notification in the system
type Notification struct {
	ID              int64     `json:"id" db:"id"`
	RecipientID     int64     `json:"recipient_id" db:"recipient_id"`
	SenderID        *int64    `json:"sender_id,omitempty" db:"sender_id"`
	Type            Type      `json:"type" db:"type"`
	Title           string    `json:"title" db:"title"`
	Message         string    `json:"message" db:"message"`
	RelatedEntityID *int64    `json:"related_entity_id,omitempty" db:"related_entity_id"`
	IsRead          bool      `json:"is_read" db:"is_read"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// Type represents the type of notification
type Type string

const (
	TypeEventInvitation    Type = "event_invitation"
	TypeEventUpdate        Type = "event_update"
	TypeMeetingScheduled   Type = "meeting_scheduled"
	TypeMeetingReminder    Type = "meeting_reminder"
	TypeMeetingFlagged     Type = "meeting_flagged"
	TypeTaskAssigned       Type = "task_assigned"
	TypeTaskVolunteer      Type = "task_volunteer"
	TypeTaskDueSoon        Type = "task_due_soon"
	TypeParticipantRequest Type = "participant_request"
	TypeGeneral            Type = "general"
	TypeMembershipUpdate   Type = "membership_update"
)

// Notice is a notification waiting to be delivered
type Notice struct {
	RecipientID     int64
	SenderID        *int64
	Type            Type
	Title           string
	Message         string
	RelatedEntityID *int64
}
