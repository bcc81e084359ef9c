// Package authz answers role questions about organizations and meetings.
//
// Every function is a pure read; nothing here mutates state.
package authz

import (
	"context"
	"errors"
	"fmt"

	"github.com/PlanifyOrg/planify/internal/event"
	"github.com/PlanifyOrg/planify/pkg/apperror"
)

// ErrNoOrganization is returned when a meeting's event or organization cannot be resolved
var ErrNoOrganization = apperror.New(apperror.KindDependencyUnresolved, "meeting is not linked to an organization")

// Membership answers role questions about an organization
type Membership interface {
	IsAdmin(ctx context.Context, orgID, userID int64) (bool, error)
	IsMember(ctx context.Context, orgID, userID int64) (bool, error)
	GetAdminIDs(ctx context.Context, orgID int64) ([]int64, error)
}

// Events resolves events from the directory
type Events interface {
	GetByID(ctx context.Context, id int64) (*event.Event, error)
}

// MeetingRef is the part of a meeting that authorization depends on
type MeetingRef struct {
	EventID   *int64
	CreatedBy *int64
}

// IsCreator reports whether userID created the meeting
func (m MeetingRef) IsCreator(userID int64) bool {
	return m.CreatedBy != nil && *m.CreatedBy == userID
}

// Gate evaluates authorization predicates
type Gate struct {
	members Membership
	events  Events
}

// NewGate creates a gate over the membership store and event directory
func NewGate(members Membership, events Events) *Gate {
	return &Gate{members: members, events: events}
}

// IsAdmin reports whether userID administers orgID
func (g *Gate) IsAdmin(ctx context.Context, orgID, userID int64) (bool, error) {
	return g.members.IsAdmin(ctx, orgID, userID)
}

// IsMember reports whether userID belongs to orgID
func (g *Gate) IsMember(ctx context.Context, orgID, userID int64) (bool, error) {
	return g.members.IsMember(ctx, orgID, userID)
}

// OrganizationOf resolves meeting -> event -> organization.
// Returns ErrNoOrganization when any link is missing.
func (g *Gate) OrganizationOf(ctx context.Context, m MeetingRef) (int64, error) {
	if m.EventID == nil {
		return 0, ErrNoOrganization
	}

	e, err := g.events.GetByID(ctx, *m.EventID)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return 0, ErrNoOrganization
		}
		return 0, fmt.Errorf("failed to resolve event: %w", err)
	}
	if e == nil || e.OrganizationID == nil {
		return 0, ErrNoOrganization
	}
	return *e.OrganizationID, nil
}

// CanManageMeeting reports whether requester created the meeting or
// administers the organization that owns it.
func (g *Gate) CanManageMeeting(ctx context.Context, m MeetingRef, requesterID int64) (bool, error) {
	if m.IsCreator(requesterID) {
		return true, nil
	}

	orgID, err := g.OrganizationOf(ctx, m)
	if err != nil {
		if errors.Is(err, ErrNoOrganization) {
			return false, nil
		}
		return false, err
	}
	return g.members.IsAdmin(ctx, orgID, requesterID)
}

// AdminsOf lists the admins of the organization owning the meeting, or nil when there is none
func (g *Gate) AdminsOf(ctx context.Context, m MeetingRef) ([]int64, error) {
	orgID, err := g.OrganizationOf(ctx, m)
	if err != nil {
		if errors.Is(err, ErrNoOrganization) {
			return nil, nil
		}
		return nil, err
	}
	return g.members.GetAdminIDs(ctx, orgID)
}
