package meeting

import (
	"time"

	"github.com/PlanifyOrg/planify/internal/id"
)

// AgendaItemRequest describes an agenda point to add
type AgendaItemRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description *string `json:"description,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
}

// CreateMeetingRequest represents the request to schedule a meeting
type CreateMeetingRequest struct {
	EventID       *int64              `json:"event_id,string,omitempty"`
	Title         string              `json:"title" validate:"required,min=1,max=200"`
	Description   string              `json:"description"`
	ScheduledTime time.Time           `json:"scheduled_time" validate:"required"`
	Duration      int                 `json:"duration" validate:"required,gt=0"`
	MeetingLink   *string             `json:"meeting_link,omitempty"`
	Participants  id.List             `json:"participants,omitempty"`
	AgendaItems   []AgendaItemRequest `json:"agenda_items,omitempty"`
}

// UpdateMeetingRequest represents a partial meeting update
type UpdateMeetingRequest struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	Duration      *int       `json:"duration,omitempty"`
	MeetingLink   *string    `json:"meeting_link,omitempty"`
	Status        *Status    `json:"status,omitempty"`
}

// FlagRequest names the flagging user
type FlagRequest struct {
	UserID int64 `json:"userId,string"`
}

// DeleteRequest names the user asking for deletion
type DeleteRequest struct {
	RequesterID int64 `json:"requesterId,string"`
}

// ParticipantRequest adds userId on behalf of requesterId
type ParticipantRequest struct {
	UserID      int64 `json:"userId,string"`
	RequesterID int64 `json:"requesterId,string"`
}

// CheckInRequest names the user checking in
type CheckInRequest struct {
	UserID int64 `json:"userId,string"`
}

// DocumentRequest creates a meeting document
type DocumentRequest struct {
	Title   string       `json:"title" validate:"required"`
	Content string       `json:"content"`
	Type    DocumentType `json:"type" validate:"required"`
}

// UpdateDocumentRequest is a partial document update
type UpdateDocumentRequest struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// ParticipantResponse represents a meeting participant
type ParticipantResponse struct {
	UserID      int64   `json:"user_id,string"`
	Username    string  `json:"username,omitempty"`
	CheckedIn   bool    `json:"checked_in"`
	CheckedInAt *string `json:"checked_in_at,omitempty"`
}

// AgendaItemResponse represents an agenda item
type AgendaItemResponse struct {
	ID          int64   `json:"id,string"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	Duration    *int    `json:"duration,omitempty"`
	OrderIndex  int     `json:"order_index"`
	IsCompleted bool    `json:"is_completed"`
}

// DocumentResponse represents a meeting document
type DocumentResponse struct {
	ID        int64        `json:"id,string"`
	MeetingID int64        `json:"meeting_id,string"`
	Title     string       `json:"title"`
	Content   string       `json:"content"`
	Type      DocumentType `json:"type"`
	CreatedBy int64        `json:"created_by,string"`
	CreatedAt string       `json:"created_at"`
	UpdatedAt string       `json:"updated_at"`
}

// MeetingResponse represents the response for a meeting
type MeetingResponse struct {
	ID                 int64                  `json:"id,string"`
	EventID            *int64                 `json:"event_id,string,omitempty"`
	Title              string                 `json:"title"`
	Description        string                 `json:"description"`
	ScheduledTime      string                 `json:"scheduled_time"`
	Duration           int                    `json:"duration"`
	MeetingLink        *string                `json:"meeting_link,omitempty"`
	CreatedBy          *int64                 `json:"created_by,string,omitempty"`
	Status             Status                 `json:"status"`
	FlaggedForDeletion bool                   `json:"flagged_for_deletion"`
	FlaggedBy          *int64                 `json:"flagged_by,string,omitempty"`
	FlaggedAt          *string                `json:"flagged_at,omitempty"`
	Participants       []*ParticipantResponse `json:"participants,omitempty"`
	AgendaItems        []*AgendaItemResponse  `json:"agenda_items,omitempty"`
	Documents          []*DocumentResponse    `json:"documents,omitempty"`
	CreatedAt          string                 `json:"created_at"`
	UpdatedAt          string                 `json:"updated_at"`
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

// ToResponse converts a Meeting model to a MeetingResponse DTO
func (m *Meeting) ToResponse() *MeetingResponse {
	resp := &MeetingResponse{
		ID:                 m.ID,
		EventID:            m.EventID,
		Title:              m.Title,
		Description:        m.Description,
		ScheduledTime:      m.ScheduledTime.UTC().Format(time.RFC3339),
		Duration:           m.Duration,
		MeetingLink:        m.MeetingLink,
		CreatedBy:          m.CreatedBy,
		Status:             m.Status,
		FlaggedForDeletion: m.FlaggedForDeletion,
		FlaggedBy:          m.FlaggedBy,
		FlaggedAt:          formatTime(m.FlaggedAt),
		CreatedAt:          m.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:          m.UpdatedAt.UTC().Format(time.RFC3339),
	}

	for _, p := range m.Participants {
		resp.Participants = append(resp.Participants, &ParticipantResponse{
			UserID:      p.UserID,
			Username:    p.Username,
			CheckedIn:   p.CheckedIn,
			CheckedInAt: formatTime(p.CheckedInAt),
		})
	}
	for _, a := range m.AgendaItems {
		resp.AgendaItems = append(resp.AgendaItems, a.ToResponse())
	}
	for _, d := range m.Documents {
		resp.Documents = append(resp.Documents, d.ToResponse())
	}
	return resp
}

// ToResponse converts an AgendaItem to its DTO
func (a *AgendaItem) ToResponse() *AgendaItemResponse {
	return &AgendaItemResponse{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		Duration:    a.Duration,
		OrderIndex:  a.OrderIndex,
		IsCompleted: a.IsCompleted,
	}
}

// ToResponse converts a Document to its DTO
func (d *Document) ToResponse() *DocumentResponse {
	return &DocumentResponse{
		ID:        d.ID,
		MeetingID: d.MeetingID,
		Title:     d.Title,
		Content:   d.Content,
		Type:      d.Type,
		CreatedBy: d.CreatedBy,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
