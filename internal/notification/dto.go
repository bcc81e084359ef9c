package notification

import "time"

// NotificationResponse represents the response for a notification
type NotificationResponse struct {
	ID              int64  `json:"id,string"`
	RecipientID     int64  `json:"recipient_id,string"`
	SenderID        *int64 `json:"sender_id,string,omitempty"`
	Type            Type   `json:"type"`
	Title           string `json:"title"`
	Message         string `json:"message"`
	RelatedEntityID *int64 `json:"related_entity_id,string,omitempty"`
	IsRead          bool   `json:"is_read"`
	CreatedAt       string `json:"created_at"`
}

// UnreadCountResponse is returned by GET /notifications/unread-count
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// ToResponse converts a Notification to a NotificationResponse
func (n *Notification) ToResponse() *NotificationResponse {
	return &NotificationResponse{
		ID:              n.ID,
		RecipientID:     n.RecipientID,
		SenderID:        n.SenderID,
		Type:            n.Type,
		Title:           n.Title,
		Message:         n.Message,
		RelatedEntityID: n.RelatedEntityID,
		IsRead:          n.IsRead,
		CreatedAt:       n.CreatedAt.UTC().Format(time.RFC3339),
	}
}
