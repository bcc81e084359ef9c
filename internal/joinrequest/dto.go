package joinrequest

import "time"

// CreateRequest is the body of POST /organizations/{id}/join-requests
type CreateRequest struct {
	UserID int64 `json:"userId,string"`
}

// ReviewRequest is the body of the approve and reject endpoints
type ReviewRequest struct {
	ReviewerID int64 `json:"reviewerId,string"`
}

// JoinRequestResponse represents the response for a join request
type JoinRequestResponse struct {
	ID             int64   `json:"id,string"`
	OrganizationID int64   `json:"organization_id,string"`
	UserID         int64   `json:"user_id,string"`
	Status         Status  `json:"status"`
	RequestedAt    string  `json:"requested_at"`
	ReviewedAt     *string `json:"reviewed_at,omitempty"`
	ReviewedBy     *int64  `json:"reviewed_by,string,omitempty"`
}

// ToResponse converts a JoinRequest model to a JoinRequestResponse DTO
func (j *JoinRequest) ToResponse() *JoinRequestResponse {
	resp := &JoinRequestResponse{
		ID:             j.ID,
		OrganizationID: j.OrganizationID,
		UserID:         j.UserID,
		Status:         j.Status,
		RequestedAt:    j.RequestedAt.UTC().Format(time.RFC3339),
		ReviewedBy:     j.ReviewedBy,
	}
	if j.ReviewedAt != nil {
		s := j.ReviewedAt.UTC().Format(time.RFC3339)
		resp.ReviewedAt = &s
	}
	return resp
}
