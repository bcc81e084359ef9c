package organization

import (
	"time"

	"github.com/PlanifyOrg/planify/internal/id"
)

// SettingsPatch is a partial settings update
type SettingsPatch struct {
	AllowMemberCreateEvents *bool   `json:"allow_member_create_events,omitempty"`
	AllowMemberInviteUsers  *bool   `json:"allow_member_invite_users,omitempty"`
	RequireEventApproval    *bool   `json:"require_event_approval,omitempty"`
	MaxEventsPerMonth       *int    `json:"max_events_per_month,omitempty"`
	Timezone                *string `json:"timezone,omitempty"`
}

// Apply merges the patch into s
func (p *SettingsPatch) Apply(s Settings) Settings {
	if p == nil {
		return s
	}
	if p.AllowMemberCreateEvents != nil {
		s.AllowMemberCreateEvents = *p.AllowMemberCreateEvents
	}
	if p.AllowMemberInviteUsers != nil {
		s.AllowMemberInviteUsers = *p.AllowMemberInviteUsers
	}
	if p.RequireEventApproval != nil {
		s.RequireEventApproval = *p.RequireEventApproval
	}
	if p.MaxEventsPerMonth != nil {
		s.MaxEventsPerMonth = p.MaxEventsPerMonth
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	return s
}

// CreateOrganizationRequest represents the request to create a new organization
type CreateOrganizationRequest struct {
	Name        string         `json:"name" validate:"required,min=1,max=100"`
	Description string         `json:"description"`
	Logo        *string        `json:"logo,omitempty"`
	Website     *string        `json:"website,omitempty"`
	Settings    *SettingsPatch `json:"settings,omitempty"`
}

// UpdateOrganizationRequest represents the request to update an organization
type UpdateOrganizationRequest struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description *string        `json:"description,omitempty"`
	Logo        *string        `json:"logo,omitempty"`
	Website     *string        `json:"website,omitempty"`
	Settings    *SettingsPatch `json:"settings,omitempty"`
}

// MemberRequest names the user a membership operation applies to
type MemberRequest struct {
	UserID int64 `json:"userId,string"`
}

// OrganizationResponse represents the response for an organization
type OrganizationResponse struct {
	ID          int64             `json:"id,string"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Logo        *string           `json:"logo,omitempty"`
	Website     *string           `json:"website,omitempty"`
	Settings    Settings          `json:"settings"`
	AdminIDs    id.List           `json:"admin_ids"`
	MemberIDs   id.List           `json:"member_ids"`
	Members     []*MemberResponse `json:"members,omitempty"`
	CreatedAt   string            `json:"created_at"`
	UpdatedAt   string            `json:"updated_at"`
}

// MemberResponse represents a member in an organization response
type MemberResponse struct {
	UserID   int64  `json:"user_id,string"`
	Username string `json:"username,omitempty"`
	IsAdmin  bool   `json:"is_admin"`
	JoinedAt string `json:"joined_at"`
}

// ToResponse converts an Organization model to an OrganizationResponse DTO
func (o *Organization) ToResponse() *OrganizationResponse {
	return &OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		Logo:        o.Logo,
		Website:     o.Website,
		Settings:    o.Settings,
		AdminIDs:    []int64{},
		MemberIDs:   []int64{},
		CreatedAt:   o.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:   o.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// WithMembers fills the member and admin id lists from members
func (r *OrganizationResponse) WithMembers(members []*Member) *OrganizationResponse {
	r.Members = make([]*MemberResponse, len(members))
	for i, m := range members {
		r.Members[i] = m.ToResponse()
		r.MemberIDs = append(r.MemberIDs, m.UserID)
		if m.IsAdmin {
			r.AdminIDs = append(r.AdminIDs, m.UserID)
		}
	}
	return r
}

// ToResponse converts a Member model to a MemberResponse DTO
func (m *Member) ToResponse() *MemberResponse {
	return &MemberResponse{
		UserID:   m.UserID,
		Username: m.Username,
		IsAdmin:  m.IsAdmin,
		JoinedAt: m.JoinedAt.UTC().Format(time.RFC3339),
	}
}
