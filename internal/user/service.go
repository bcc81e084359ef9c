package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/PlanifyOrg/planify/internal/database"
	"github.com/PlanifyOrg/planify/internal/id"
	"github.com/PlanifyOrg/planify/pkg/apperror"
)

// Common errors
var (
	ErrUserNotFound         = apperror.New(apperror.KindNotFound, "user not found")
	ErrEmailAlreadyInUse    = apperror.New(apperror.KindConflict, "email already in use")
	ErrUsernameAlreadyInUse = apperror.New(apperror.KindConflict, "username already in use")
	ErrInvalidUser          = apperror.New(apperror.KindInvalid, "username and email are required")
)

// Service handles user business logic
type Service struct {
	repo *Repository
}

// NewService creates a new user service with repository dependency injected
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// Create registers a new user
func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if username == "" || email == "" {
		return nil, ErrInvalidUser
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyInUse
	}

	existing, err = s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameAlreadyInUse
	}

	u := &User{
		ID:        id.New(),
		Username:  username,
		Email:     email,
		AvatarURL: req.AvatarURL,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		// Lost a race with a concurrent registration.
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, ErrEmailAlreadyInUse
		}
		return nil, err
	}

	return u, nil
}

// GetByID retrieves a user by their ID
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// List retrieves all users with pagination
func (s *Service) List(ctx context.Context, page, perPage int) ([]*User, int, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}

	offset := (page - 1) * perPage
	return s.repo.List(ctx, perPage, offset)
}

// Update modifies an existing user
func (s *Service) Update(ctx context.Context, id int64, req *UpdateUserRequest) (*User, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		if errors.Is(err, database.ErrDuplicateKey) {
			return nil, ErrUsernameAlreadyInUse
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}
