package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/id"
	"github.com/PlanifyOrg/planify/internal/notification"
	"github.com/PlanifyOrg/planify/pkg/apperror"
)

// Common errors
var (
	ErrEventNotFound       = apperror.New(apperror.KindNotFound, "event not found")
	ErrParticipantNotFound = apperror.New(apperror.KindNotFound, "user is not a participant of this event")
	ErrAlreadyParticipant  = apperror.New(apperror.KindConflict, "user is already a participant of this event")
	ErrNotOrganizer        = apperror.New(apperror.KindForbidden, "only the organizer can modify this event")
	ErrInvalidEvent        = apperror.New(apperror.KindInvalid, "event needs a title and an end date after its start date")
	ErrInvalidStatus       = apperror.New(apperror.KindInvalid, "unknown event status")
)

// Service handles event business logic
type Service struct {
	db       *database.DB
	repo     *Repository
	notifier notification.Notifier
	logger   *zap.Logger
}

// NewService creates a new event service
func NewService(db *database.DB, repo *Repository, notifier notification.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, repo: repo, notifier: notifier, logger: logger.Named("event")}
}

// Create creates a new draft event with the organizer as first participant
func (s *Service) Create(ctx context.Context, organizerID int64, req *CreateEventRequest) (*Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || req.EndDate.Before(req.StartDate) {
		return nil, ErrInvalidEvent
	}

	now := time.Now().UTC()
	e := &Event{
		ID:             id.New(),
		Title:          title,
		Description:    req.Description,
		OrganizerID:    organizerID,
		OrganizationID: req.OrganizationID,
		StartDate:      req.StartDate.UTC(),
		EndDate:        req.EndDate.UTC(),
		Location:       req.Location,
		Status:         StatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err := s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		repo := s.repo.With(tx)
		if err := repo.Create(ctx, e); err != nil {
			return err
		}
		return repo.AddParticipant(ctx, e.ID, organizerID, now)
	})
	if err != nil {
		return nil, err
	}

	e.Participants = []int64{organizerID}
	return e, nil
}

// GetByID retrieves an event with its participants
func (s *Service) GetByID(ctx context.Context, id int64) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrEventNotFound
	}

	e.Participants, err = s.repo.GetParticipants(ctx, id)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// ListByUserID retrieves events the user organizes or participates in
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Event, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// ListByOrganizationID retrieves the events of an organization
func (s *Service) ListByOrganizationID(ctx context.Context, orgID int64) ([]*Event, error) {
	return s.repo.ListByOrganizationID(ctx, orgID)
}

// Update modifies an event. Only the organizer may do so.
func (s *Service) Update(ctx context.Context, eventID, requesterID int64, req *UpdateEventRequest) (*Event, error) {
	e, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if e.OrganizerID != requesterID {
		return nil, ErrNotOrganizer
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.Update(ctx, eventID, req, time.Now().UTC()); err != nil {
		return nil, err
	}

	updated, err := s.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	var notices []notification.Notice
	for _, userID := range updated.Participants {
		if userID == requesterID {
			continue
		}
		notices = append(notices, notification.Notice{
			RecipientID:     userID,
			SenderID:        &requesterID,
			Type:            notification.TypeEventUpdate,
			Title:           "Event updated",
			Message:         fmt.Sprintf("The event %q has been updated", updated.Title),
			RelatedEntityID: &updated.ID,
		})
	}
	s.notifier.Dispatch(ctx, notices...)

	return updated, nil
}

// Delete removes an event. Only the organizer may do so.
func (s *Service) Delete(ctx context.Context, eventID, requesterID int64) error {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrEventNotFound
	}
	if e.OrganizerID != requesterID {
		return ErrNotOrganizer
	}

	if _, err := s.repo.Delete(ctx, eventID); err != nil {
		return err
	}
	return nil
}

// AddParticipant adds a user to an event and notifies them
func (s *Service) AddParticipant(ctx context.Context, eventID, userID, requesterID int64) error {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrEventNotFound
	}

	if err := s.repo.AddParticipant(ctx, eventID, userID, time.Now().UTC()); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return ErrAlreadyParticipant
		}
		return err
	}

	s.logger.Debug("participant added", zap.Int64("event_id", eventID), zap.Int64("user_id", userID))

	notice := notification.Notice{
		RecipientID:     userID,
		Type:            notification.TypeEventInvitation,
		Title:           "Event invitation",
		Message:         fmt.Sprintf("You have been added to the event %q", e.Title),
		RelatedEntityID: &e.ID,
	}
	if requesterID != 0 {
		notice.SenderID = &requesterID
	}
	s.notifier.Dispatch(ctx, notice)

	return nil
}

// RemoveParticipant removes a user from an event
func (s *Service) RemoveParticipant(ctx context.Context, eventID, userID int64) error {
	e, err := s.repo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}
	if e == nil {
		return ErrEventNotFound
	}

	removed, err := s.repo.RemoveParticipant(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrParticipantNotFound
	}
	return nil
}
