package organization

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Settings are per organization preferences, stored as a JSON column
type Settings struct {
	AllowMemberCreateEvents bool   `json:"allow_member_create_events"`
	AllowMemberInviteUsers  bool   `json:"allow_member_invite_users"`
	RequireEventApproval    bool   `json:"require_event_approval"`
	MaxEventsPerMonth       *int   `json:"max_events_per_month,omitempty"`
	Timezone                string `json:"timezone"`
}

// DefaultSettings are applied to new organizations
func DefaultSettings() Settings {
	return Settings{
		AllowMemberCreateEvents: true,
		AllowMemberInviteUsers:  false,
		RequireEventApproval:    false,
		Timezone:                "UTC",
	}
}

// Value implements driver.Valuer
func (s Settings) Value() (driver.Value, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (s *Settings) Scan(src interface{}) error {
	var b []byte
	switch v := src.(type) {
	case string:
		b = []byte(v)
	case []byte:
		b = v
	case nil:
		*s = DefaultSettings()
		return nil
	default:
		return fmt.Errorf("unsupported settings type %T", src)
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(b, &settings); err != nil {
		return fmt.Errorf("failed to decode settings: %w", err)
	}
	*s = settings
	return nil
}

// Organization represents a tenant grouping users and events
type Organization struct {
	ID          int64     `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Logo        *string   `json:"logo,omitempty" db:"logo"`
	Website     *string   `json:"website,omitempty" db:"website"`
	Settings    Settings  `json:"settings" db:"settings"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// Member represents a user's membership in an organization.
// An admin is a member with IsAdmin set, so admins are always members.
type Member struct {
	OrganizationID int64     `json:"organization_id" db:"organization_id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	IsAdmin        bool      `json:"is_admin" db:"is_admin"`
	JoinedAt       time.Time `json:"joined_at" db:"joined_at"`

	// Populated from JOIN, empty when the user is unknown to the directory
	Username string `json:"username,omitempty" db:"username"`
}
