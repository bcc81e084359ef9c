package joinrequest

import "time"

// Status is the review state of a join request
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// JoinRequest is a user's request to join an organization.
// ReviewedAt and ReviewedBy are set exactly when Status is not pending.
type JoinRequest struct {
	ID             int64      `json:"id" db:"id"`
	OrganizationID int64      `json:"organization_id" db:"organization_id"`
	UserID         int64      `json:"user_id" db:"user_id"`
	Status         Status     `json:"status" db:"status"`
	RequestedAt    time.Time  `json:"requested_at" db:"requested_at"`
	ReviewedAt     *time.Time `json:"reviewed_at,omitempty" db:"reviewed_at"`
	ReviewedBy     *int64     `json:"reviewed_by,omitempty" db:"reviewed_by"`
}
