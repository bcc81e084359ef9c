package joinrequest

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/id"
	"github.com/PlanifyOrg/planify/internal/organization"
	"github.com/PlanifyOrg/planify/pkg/apperror"
	"github.com/PlanifyOrg/planify/pkg/metrics"
)

// Common errors
var (
	ErrJoinRequestNotFound = apperror.New(apperror.KindNotFound, "join request not found")
	ErrAlreadyMember       = apperror.New(apperror.KindConflict, "user is already a member of this organization")
	ErrDuplicatePending    = apperror.New(apperror.KindConflict, "a join request is already pending for this organization")
	ErrAlreadyReviewed     = apperror.New(apperror.KindConflict, "join request has already been reviewed")
)

// Organizations is the read side of the organization store the workflow needs
type Organizations interface {
	GetByID(ctx context.Context, id int64) (*organization.Organization, error)
	IsMember(ctx context.Context, orgID, userID int64) (bool, error)
}

// MemberAdder adds a membership; it must run on the handler it was built from
type MemberAdder interface {
	AddMember(ctx context.Context, orgID, userID int64) error
}

// Service runs the pending -> approved | rejected workflow.
//
// It performs no role check on reviewers; callers decide who may review.
type Service struct {
	db      *database.DB
	repo    *Repository
	orgs    Organizations
	members func(h database.Handler) MemberAdder
	logger  *zap.Logger
	now     func() time.Time
}

// NewService creates a join request service. Approved requests are turned
// into memberships through the organization repository.
func NewService(db *database.DB, repo *Repository, orgs Organizations, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		db:   db,
		repo: repo,
		orgs: orgs,
		members: func(h database.Handler) MemberAdder {
			return organization.NewRepository(h)
		},
		logger: logger.Named("joinrequest"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Create files a pending request for userID to join orgID
func (s *Service) Create(ctx context.Context, orgID, userID int64) (j *JoinRequest, err error) {
	defer func() { metrics.ObserveOperation("create_join_request", err) }()

	org, err := s.orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, organization.ErrOrganizationNotFound
	}

	member, err := s.orgs.IsMember(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if member {
		return nil, ErrAlreadyMember
	}

	pending, err := s.repo.HasPending(ctx, orgID, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	j = &JoinRequest{
		ID:             id.New(),
		OrganizationID: orgID,
		UserID:         userID,
		Status:         StatusPending,
		RequestedAt:    s.now(),
	}
	if err := s.repo.Create(ctx, j); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, ErrDuplicatePending
		}
		return nil, err
	}

	s.logger.Info("join request created",
		zap.Int64("join_request_id", j.ID),
		zap.Int64("organization_id", orgID),
		zap.Int64("user_id", userID),
	)
	return j, nil
}

// GetByID retrieves a join request
func (s *Service) GetByID(ctx context.Context, id int64) (*JoinRequest, error) {
	j, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if j == nil {
		return nil, ErrJoinRequestNotFound
	}
	return j, nil
}

// ListPending lists an organization's pending requests, newest first
func (s *Service) ListPending(ctx context.Context, orgID int64) ([]*JoinRequest, error) {
	return s.repo.ListPending(ctx, orgID)
}

// Approve marks the request approved and adds the requester as a member.
// Both writes commit together or not at all.
func (s *Service) Approve(ctx context.Context, requestID, reviewerID int64) (err error) {
	defer func() { metrics.ObserveOperation("approve_join_request", err) }()

	j, err := s.pending(ctx, requestID)
	if err != nil {
		return err
	}

	err = s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		ok, err := s.repo.With(tx).Review(ctx, requestID, StatusApproved, reviewerID, s.now())
		if err != nil {
			return err
		}
		if !ok {
			return ErrAlreadyReviewed
		}
		return s.members(tx).AddMember(ctx, j.OrganizationID, j.UserID)
	})
	if err != nil {
		return err
	}

	s.logger.Info("join request approved",
		zap.Int64("join_request_id", requestID),
		zap.Int64("reviewer_id", reviewerID),
	)
	return nil
}

// Reject marks the request rejected; membership is untouched
func (s *Service) Reject(ctx context.Context, requestID, reviewerID int64) (err error) {
	defer func() { metrics.ObserveOperation("reject_join_request", err) }()

	if _, err := s.pending(ctx, requestID); err != nil {
		return err
	}

	ok, err := s.repo.Review(ctx, requestID, StatusRejected, reviewerID, s.now())
	if err != nil {
		return err
	}
	if !ok {
		return ErrAlreadyReviewed
	}

	s.logger.Info("join request rejected",
		zap.Int64("join_request_id", requestID),
		zap.Int64("reviewer_id", reviewerID),
	)
	return nil
}

func (s *Service) pending(ctx context.Context, requestID int64) (*JoinRequest, error) {
	j, err := s.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if j.Status != StatusPending {
		return nil, ErrAlreadyReviewed
	}
	return j, nil
}
