package event

import (
	"time"

	"github.com/PlanifyOrg/planify/internal/id"
)

// CreateEventRequest represents the request to create a new event
type CreateEventRequest struct {
	Title          string    `json:"title" validate:"required,min=1,max=200"`
	Description    string    `json:"description"`
	OrganizationID *int64    `json:"organization_id,string,omitempty"`
	StartDate      time.Time `json:"start_date" validate:"required"`
	EndDate        time.Time `json:"end_date" validate:"required"`
	Location       string    `json:"location"`
}

// UpdateEventRequest represents a partial event update
type UpdateEventRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Status      *Status    `json:"status,omitempty"`
}

// AddParticipantRequest represents the request to add a user to an event
type AddParticipantRequest struct {
	UserID int64 `json:"userId,string"`
}

// EventResponse represents the response for an event
type EventResponse struct {
	ID             int64   `json:"id,string"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	OrganizerID    int64   `json:"organizer_id,string"`
	OrganizationID *int64  `json:"organization_id,string,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Location       string  `json:"location"`
	Status         Status  `json:"status"`
	Participants   id.List `json:"participants,omitempty"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// ToResponse converts an Event model to an EventResponse DTO
func (e *Event) ToResponse() *EventResponse {
	return &EventResponse{
		ID:             e.ID,
		Title:          e.Title,
		Description:    e.Description,
		OrganizerID:    e.OrganizerID,
		OrganizationID: e.OrganizationID,
		StartDate:      e.StartDate.UTC().Format(time.RFC3339),
		EndDate:        e.EndDate.UTC().Format(time.RFC3339),
		Location:       e.Location,
		Status:         e.Status,
		Participants:   e.Participants,
		CreatedAt:      e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
