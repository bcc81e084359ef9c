package organization

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/id"
	"github.com/PlanifyOrg/planify/pkg/apperror"
	"github.com/PlanifyOrg/planify/pkg/metrics"
)

// Common errors
var (
	ErrOrganizationNotFound = apperror.New(apperror.KindNotFound, "organization not found")
	ErrInvalidOrganization  = apperror.New(apperror.KindInvalid, "organization name is required")
)

// Service handles organization and membership business logic.
//
// Membership operations perform no role check; callers decide who may invoke them.
type Service struct {
	db     *database.DB
	repo   *Repository
	logger *zap.Logger
}

// NewService creates a new organization service
func NewService(db *database.DB, repo *Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, repo: repo, logger: logger.Named("organization")}
}

// Create creates an organization with the creator as its sole member and admin
func (s *Service) Create(ctx context.Context, creatorID int64, req *CreateOrganizationRequest) (*Organization, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidOrganization
	}

	now := time.Now().UTC()
	o := &Organization{
		ID:          id.New(),
		Name:        name,
		Description: req.Description,
		Logo:        req.Logo,
		Website:     req.Website,
		Settings:    req.Settings.Apply(DefaultSettings()),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := s.db.TransactionContext(ctx, func(tx *database.Tx) error {
		repo := s.repo.With(tx)
		if err := repo.Create(ctx, o); err != nil {
			return err
		}
		return repo.AddAdmin(ctx, o.ID, creatorID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("organization created", zap.Int64("organization_id", o.ID), zap.Int64("creator_id", creatorID))
	return o, nil
}

// GetByID retrieves an organization by its ID
func (s *Service) GetByID(ctx context.Context, id int64) (*Organization, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrOrganizationNotFound
	}
	return o, nil
}

// GetByIDWithMembers retrieves an organization with all its members
func (s *Service) GetByIDWithMembers(ctx context.Context, id int64) (*Organization, []*Member, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	members, err := s.repo.GetMembers(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return o, members, nil
}

// List retrieves every organization
func (s *Service) List(ctx context.Context) ([]*Organization, error) {
	return s.repo.List(ctx)
}

// ListByUserID retrieves the organizations a user belongs to
func (s *Service) ListByUserID(ctx context.Context, userID int64) ([]*Organization, error) {
	return s.repo.ListByUserID(ctx, userID)
}

// Update applies a partial update; settings are merged, not replaced
func (s *Service) Update(ctx context.Context, id int64, req *UpdateOrganizationRequest) (*Organization, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrInvalidOrganization
		}
		o.Name = name
	}
	if req.Description != nil {
		o.Description = *req.Description
	}
	if req.Logo != nil {
		o.Logo = req.Logo
	}
	if req.Website != nil {
		o.Website = req.Website
	}
	o.Settings = req.Settings.Apply(o.Settings)
	o.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// Delete removes an organization
func (s *Service) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrOrganizationNotFound
	}
	return nil
}

// AddMember adds a user to the organization. Adding an existing member succeeds.
func (s *Service) AddMember(ctx context.Context, orgID, userID int64) (err error) {
	defer func() { metrics.ObserveOperation("add_member", err) }()

	if _, err := s.GetByID(ctx, orgID); err != nil {
		return err
	}
	return s.repo.AddMember(ctx, orgID, userID)
}

// RemoveMember removes a user and any admin status they held
func (s *Service) RemoveMember(ctx context.Context, orgID, userID int64) (err error) {
	defer func() { metrics.ObserveOperation("remove_member", err) }()

	if _, err := s.GetByID(ctx, orgID); err != nil {
		return err
	}
	return s.repo.RemoveMember(ctx, orgID, userID)
}

// AddAdmin promotes a user to admin, adding them as a member first when needed
func (s *Service) AddAdmin(ctx context.Context, orgID, userID int64) (err error) {
	defer func() { metrics.ObserveOperation("add_admin", err) }()

	if _, err := s.GetByID(ctx, orgID); err != nil {
		return err
	}
	if err := s.repo.AddAdmin(ctx, orgID, userID); err != nil {
		return err
	}

	s.logger.Info("admin added", zap.Int64("organization_id", orgID), zap.Int64("user_id", userID))
	return nil
}

// RemoveAdmin demotes an admin; membership is kept. Removing the last admin is allowed.
func (s *Service) RemoveAdmin(ctx context.Context, orgID, userID int64) (err error) {
	defer func() { metrics.ObserveOperation("remove_admin", err) }()

	if _, err := s.GetByID(ctx, orgID); err != nil {
		return err
	}
	if err := s.repo.RemoveAdmin(ctx, orgID, userID); err != nil {
		return err
	}

	s.logger.Info("admin removed", zap.Int64("organization_id", orgID), zap.Int64("user_id", userID))
	return nil
}

// IsAdmin reports whether the user administers the organization
func (s *Service) IsAdmin(ctx context.Context, orgID, userID int64) (bool, error) {
	return s.repo.IsAdmin(ctx, orgID, userID)
}

// IsMember reports whether the user belongs to the organization
func (s *Service) IsMember(ctx context.Context, orgID, userID int64) (bool, error) {
	return s.repo.IsMember(ctx, orgID, userID)
}

// GetMembers lists the organization's members
func (s *Service) GetMembers(ctx context.Context, orgID int64) ([]*Member, error) {
	if _, err := s.GetByID(ctx, orgID); err != nil {
		return nil, err
	}
	return s.repo.GetMembers(ctx, orgID)
}

// GetAdminIDs lists the organization's admin user IDs
func (s *Service) GetAdminIDs(ctx context.Context, orgID int64) ([]int64, error) {
	return s.repo.GetAdminIDs(ctx, orgID)
}
