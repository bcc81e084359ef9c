package meeting

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PlanifyOrg/planify/internal/authz"
	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/id"
	"github.com/PlanifyOrg/planify/internal/notification"
	"github.com/PlanifyOrg/planify/pkg/apperror"
	"github.com/PlanifyOrg/planify/pkg/metrics"
)

// Common errors
var (
	ErrMeetingNotFound     = apperror.New(apperror.KindNotFound, "meeting not found")
	ErrParticipantNotFound = apperror.New(apperror.KindNotFound, "user is not a participant of this meeting")
	ErrAgendaItemNotFound  = apperror.New(apperror.KindNotFound, "agenda item not found")
	ErrDocumentNotFound    = apperror.New(apperror.KindNotFound, "document not found")
	ErrAlreadyParticipant  = apperror.New(apperror.KindConflict, "user is already a participant of this meeting")
	ErrAlreadyCheckedIn    = apperror.New(apperror.KindConflict, "user has already checked in")
	ErrNotAdmin            = apperror.New(apperror.KindForbidden, "only organization admins can delete meetings")
	ErrCannotManage        = apperror.New(apperror.KindForbidden, "only the meeting creator or an organization admin can do this")
	ErrNotParticipant      = apperror.New(apperror.KindForbidden, "only participants can do this")
	ErrInvalidMeeting      = apperror.New(apperror.KindInvalid, "meeting needs a title and a positive duration")
	ErrInvalidStatus       = apperror.New(apperror.KindInvalid, "unknown meeting status")
	ErrInvalidDocument     = apperror.New(apperror.KindInvalid, "document needs a title and a known type")
	ErrInvalidAgendaItem   = apperror.New(apperror.KindInvalid, "agenda item needs a title")
)

// Authorizer answers the role questions meeting operations depend on
type Authorizer interface {
	OrganizationOf(ctx context.Context, m authz.MeetingRef) (int64, error)
	IsAdmin(ctx context.Context, orgID, userID int64) (bool, error)
	CanManageMeeting(ctx context.Context, m authz.MeetingRef, requesterID int64) (bool, error)
	AdminsOf(ctx context.Context, m authz.MeetingRef) ([]int64, error)
}

// Service handles meeting business logic
type Service struct {
	db       *database.DB
	repo     *Repository
	gate     Authorizer
	notifier notification.Notifier
	logger   *zap.Logger
	now      func() time.Time
}

// NewService creates a new meeting service
func NewService(db *database.DB, repo *Repository, gate Authorizer, notifier notification.Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:       db,
		repo:     repo,
		gate:     gate,
		notifier: notifier,
		logger:   logger.Named("meeting"),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create schedules a meeting. The creator is always a participant; the
// other participants are notified once the meeting is stored.
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateMeetingRequest) (m *Meeting, err error) {
	defer func() { metrics.ObserveOperation("create_meeting", err) }()

	title := strings.TrimSpace(req.Title)
	if title == "" || req.Duration <= 0 {
		return nil, ErrInvalidMeeting
	}
	for _, item := range req.AgendaItems {
		if strings.TrimSpace(item.Title) == "" {
			return nil, ErrInvalidAgendaItem
		}
	}

	now := s.now()
	m = &Meeting{
		ID:            id.New(),
		EventID:       req.EventID,
		Title:         title,
		Description:   req.Description,
		ScheduledTime: req.ScheduledTime.UTC(),
		Duration:      req.Duration,
		MeetingLink:   req.MeetingLink,
		CreatedBy:     &creatorID,
		Status:        StatusProposed,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	participants := []int64{creatorID}
	seen := map[int64]bool{creatorID: true}
	for _, userID := range req.Participants {
		if userID <= 0 || seen[userID] {
			continue
		}
		seen[userID] = true
		participants = append(participants, userID)
	}

	err = s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		repo := s.repo.With(tx)
		if err := repo.Create(ctx, m); err != nil {
			return err
		}
		for _, userID := range participants {
			if err := repo.AddParticipant(ctx, m.ID, userID, now); err != nil {
				return err
			}
		}
		for i, item := range req.AgendaItems {
			a := &AgendaItem{
				ID:          id.New(),
				MeetingID:   m.ID,
				Title:       strings.TrimSpace(item.Title),
				Description: item.Description,
				Duration:    item.Duration,
				OrderIndex:  i,
				CreatedAt:   now,
			}
			if err := repo.AddAgendaItem(ctx, a); err != nil {
				return err
			}
			m.AgendaItems = append(m.AgendaItems, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, userID := range participants {
		m.Participants = append(m.Participants, &Participant{MeetingID: m.ID, UserID: userID})
	}

	s.logger.Info("meeting created",
		zap.Int64("meeting_id", m.ID),
		zap.Int64("created_by", creatorID),
		zap.Int("participants", len(participants)),
	)

	notices := make([]notification.Notice, 0, len(participants)-1)
	for _, userID := range participants[1:] {
		notices = append(notices, s.scheduledNotice(m, userID, creatorID))
	}
	s.notifier.Dispatch(ctx, notices...)

	return m, nil
}

func (s *Service) scheduledNotice(m *Meeting, recipientID, senderID int64) notification.Notice {
	n := notification.Notice{
		RecipientID: recipientID,
		Type:        notification.TypeMeetingScheduled,
		Title:       "Meeting scheduled",
		Message: fmt.Sprintf("You have been invited to %q on %s",
			m.Title, m.ScheduledTime.UTC().Format(time.RFC1123)),
		RelatedEntityID: &m.ID,
	}
	if senderID != 0 {
		n.SenderID = &senderID
	}
	return n
}

func (s *Service) get(ctx context.Context, meetingID int64) (*Meeting, error) {
	m, err := s.repo.GetByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, ErrMeetingNotFound
	}
	return m, nil
}

// GetByID retrieves a meeting with its participants, agenda and documents
func (s *Service) GetByID(ctx context.Context, meetingID int64) (*Meeting, error) {
	m, err := s.get(ctx, meetingID)
	if err != nil {
		return nil, err
	}

	if m.Participants, err = s.repo.GetParticipants(ctx, meetingID); err != nil {
		return nil, err
	}
	if m.AgendaItems, err = s.repo.GetAgendaItems(ctx, meetingID); err != nil {
		return nil, err
	}
	if m.Documents, err = s.repo.GetDocuments(ctx, meetingID); err != nil {
		return nil, err
	}
	return m, nil
}

// ListByEventID retrieves the meetings of an event
func (s *Service) ListByEventID(ctx context.Context, eventID int64) ([]*Meeting, error) {
	return s.repo.ListByEventID(ctx, eventID)
}

// ListByUserID retrieves meetings the user created or participates in
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Meeting, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Update modifies a meeting. Only its creator or an organization admin may do so.
func (s *Service) Update(ctx context.Context, meetingID, requesterID int64, req *UpdateMeetingRequest) (*Meeting, error) {
	m, err := s.get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, m, requesterID); err != nil {
		return nil, err
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, ErrInvalidStatus
	}
	if (req.Title != nil && strings.TrimSpace(*req.Title) == "") || (req.Duration != nil && *req.Duration <= 0) {
		return nil, ErrInvalidMeeting
	}

	if err := s.repo.Update(ctx, meetingID, req, s.now()); err != nil {
		return nil, err
	}
	return s.GetByID(ctx, meetingID)
}

func (s *Service) requireManager(ctx context.Context, m *Meeting, requesterID int64) error {
	ok, err := s.gate.CanManageMeeting(ctx, m.Ref(), requesterID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCannotManage
	}
	return nil
}

// requireContributor allows participants as well as managers
func (s *Service) requireContributor(ctx context.Context, m *Meeting, requesterID int64) error {
	p, err := s.repo.GetParticipant(ctx, m.ID, requesterID)
	if err != nil {
		return err
	}
	if p != nil {
		return nil
	}

	if err := s.requireManager(ctx, m, requesterID); err != nil {
		if errors.Is(err, ErrCannotManage) {
			return ErrNotParticipant
		}
		return err
	}
	return nil
}

// Flag marks a meeting for deletion review and notifies the admins of the
// owning organization, except the flagger. Any caller may flag; flagging an
// already flagged meeting replaces the flagger and time.
func (s *Service) Flag(ctx context.Context, meetingID, userID int64) (err error) {
	defer func() { metrics.ObserveOperation("flag_meeting", err) }()

	m, err := s.get(ctx, meetingID)
	if err != nil {
		return err
	}

	ok, err := s.repo.Flag(ctx, meetingID, userID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrMeetingNotFound
	}

	s.logger.Info("meeting flagged for deletion",
		zap.Int64("meeting_id", meetingID),
		zap.Int64("flagged_by", userID),
	)

	admins, aerr := s.gate.AdminsOf(ctx, m.Ref())
	if aerr != nil {
		s.logger.Error("failed to resolve admins for flag notification",
			zap.Int64("meeting_id", meetingID),
			zap.Error(aerr),
		)
		return nil
	}

	var notices []notification.Notice
	for _, adminID := range admins {
		if adminID == userID {
			continue
		}
		notices = append(notices, notification.Notice{
			RecipientID:     adminID,
			SenderID:        &userID,
			Type:            notification.TypeMeetingFlagged,
			Title:           "Meeting flagged for deletion",
			Message:         fmt.Sprintf("The meeting %q has been flagged for deletion", m.Title),
			RelatedEntityID: &m.ID,
		})
	}
	s.notifier.Dispatch(ctx, notices...)

	return nil
}

// Unflag clears a deletion flag. Any caller may unflag.
func (s *Service) Unflag(ctx context.Context, meetingID int64) (err error) {
	defer func() { metrics.ObserveOperation("unflag_meeting", err) }()

	ok, err := s.repo.Unflag(ctx, meetingID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrMeetingNotFound
	}

	s.logger.Info("meeting unflagged", zap.Int64("meeting_id", meetingID))
	return nil
}

// Delete hard-deletes a meeting with everything attached to it. Only an
// admin of the organization owning the meeting's event may do so, whether
// or not the meeting is flagged. Meetings without an owning organization
// fail with authz.ErrNoOrganization.
func (s *Service) Delete(ctx context.Context, meetingID, requesterID int64) (err error) {
	defer func() { metrics.ObserveOperation("delete_meeting", err) }()

	m, err := s.get(ctx, meetingID)
	if err != nil {
		return err
	}

	orgID, err := s.gate.OrganizationOf(ctx, m.Ref())
	if err != nil {
		return err
	}
	admin, err := s.gate.IsAdmin(ctx, orgID, requesterID)
	if err != nil {
		return err
	}
	if !admin {
		return ErrNotAdmin
	}

	err = s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		deleted, err := s.repo.With(tx).Delete(ctx, meetingID)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrMeetingNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("meeting deleted",
		zap.Int64("meeting_id", meetingID),
		zap.Int64("organization_id", orgID),
		zap.Int64("deleted_by", requesterID),
		zap.Bool("was_flagged", m.FlaggedForDeletion),
	)
	return nil
}

// AddParticipant adds userID to the meeting on behalf of requesterID, who
// must be the creator or an organization admin. The added user is notified.
func (s *Service) AddParticipant(ctx context.Context, meetingID, userID, requesterID int64) (err error) {
	defer func() { metrics.ObserveOperation("add_meeting_participant", err) }()

	m, err := s.get(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := s.requireManager(ctx, m, requesterID); err != nil {
		return err
	}

	if err := s.repo.AddParticipant(ctx, meetingID, userID, s.now()); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return ErrAlreadyParticipant
		}
		return err
	}

	s.logger.Debug("participant added", zap.Int64("meeting_id", meetingID), zap.Int64("user_id", userID))
	s.notifier.Dispatch(ctx, s.scheduledNotice(m, userID, requesterID))

	return nil
}

// RemoveParticipant removes userID from the meeting. Users may remove
// themselves; removing others requires managing the meeting.
func (s *Service) RemoveParticipant(ctx context.Context, meetingID, userID, requesterID int64) error {
	m, err := s.get(ctx, meetingID)
	if err != nil {
		return err
	}
	if userID != requesterID {
		if err := s.requireManager(ctx, m, requesterID); err != nil {
			return err
		}
	}

	removed, err := s.repo.RemoveParticipant(ctx, meetingID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrParticipantNotFound
	}
	return nil
}

// CheckIn records the participant's attendance. Only the first of any number
// of concurrent calls succeeds; the rest get ErrAlreadyCheckedIn.
func (s *Service) CheckIn(ctx context.Context, meetingID, userID int64) (err error) {
	defer func() { metrics.ObserveOperation("check_in", err) }()

	ok, err := s.repo.CheckIn(ctx, meetingID, userID, s.now())
	if err != nil {
		return err
	}
	if ok {
		s.logger.Debug("participant checked in", zap.Int64("meeting_id", meetingID), zap.Int64("user_id", userID))
		return nil
	}

	p, err := s.repo.GetParticipant(ctx, meetingID, userID)
	if err != nil {
		return err
	}
	if p == nil {
		return ErrParticipantNotFound
	}
	return ErrAlreadyCheckedIn
}

// AddAgendaItem appends an item to the agenda
func (s *Service) AddAgendaItem(ctx context.Context, meetingID, requesterID int64, req *AgendaItemRequest) (*AgendaItem, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, ErrInvalidAgendaItem
	}

	m, err := s.get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireManager(ctx, m, requesterID); err != nil {
		return nil, err
	}

	a := &AgendaItem{
		ID:          id.New(),
		MeetingID:   meetingID,
		Title:       title,
		Description: req.Description,
		Duration:    req.Duration,
		CreatedAt:   s.now(),
	}
	err = s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		repo := s.repo.With(tx)
		next, err := repo.NextAgendaIndex(ctx, meetingID)
		if err != nil {
			return err
		}
		a.OrderIndex = next
		return repo.AddAgendaItem(ctx, a)
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// CompleteAgendaItem marks an agenda item done; any participant may do so
func (s *Service) CompleteAgendaItem(ctx context.Context, meetingID, itemID, requesterID int64) error {
	m, err := s.get(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := s.requireContributor(ctx, m, requesterID); err != nil {
		return err
	}

	ok, err := s.repo.CompleteAgendaItem(ctx, meetingID, itemID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAgendaItemNotFound
	}
	return nil
}

// AddDocument attaches a document; any participant may do so
func (s *Service) AddDocument(ctx context.Context, meetingID, requesterID int64, req *DocumentRequest) (*Document, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" || !req.Type.Valid() {
		return nil, ErrInvalidDocument
	}

	m, err := s.get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := s.requireContributor(ctx, m, requesterID); err != nil {
		return nil, err
	}

	now := s.now()
	d := &Document{
		ID:        id.New(),
		MeetingID: meetingID,
		Title:     title,
		Content:   req.Content,
		Type:      req.Type,
		CreatedBy: requesterID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.AddDocument(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// UpdateDocument edits a document. Its author and the meeting's managers may do so.
func (s *Service) UpdateDocument(ctx context.Context, meetingID, docID, requesterID int64, req *UpdateDocumentRequest) (*Document, error) {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return nil, ErrInvalidDocument
	}

	m, err := s.get(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	d, err := s.repo.GetDocument(ctx, meetingID, docID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDocumentNotFound
	}
	if d.CreatedBy != requesterID {
		if err := s.requireManager(ctx, m, requesterID); err != nil {
			return nil, err
		}
	}

	if err := s.repo.UpdateDocument(ctx, docID, req, s.now()); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetDocument(ctx, meetingID, docID)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrDocumentNotFound
	}
	return updated, nil
}
