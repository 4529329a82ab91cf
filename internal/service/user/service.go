package user

import (
	"context"
	"errors"

	"log/slog"

	"github.com/oscarper3z/MULTI-APIS/internal/domain"
	"github.com/oscarper3z/MULTI-APIS/internal/repository"
)

// Validation errors surfaced verbatim to clients.
var (
	ErrMissingFields   = errors.New("name & email required")
	ErrNothingToUpdate = errors.New("nothing to update")
)

// CreateInput carries the fields required to create a user.
type CreateInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateInput carries a partial update; nil fields are left unchanged.
type UpdateInput struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}

// Service implements user CRUD on top of a repository.
type Service struct {
	users  repository.UserRepository
	logger *slog.Logger
}

// New returns a user service.
func New(users repository.UserRepository, logger *slog.Logger) Service {
	return Service{users: users, logger: logger}
}

// Create validates input and inserts a user.
func (s Service) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	if in.Name == "" || in.Email == "" {
		return nil, ErrMissingFields
	}
	u, err := s.users.CreateUser(ctx, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user created", "user_id", u.ID)
	return u, nil
}

// List returns all users ordered by ascending id.
func (s Service) List(ctx context.Context) ([]domain.User, error) {
	return s.users.ListUsers(ctx)
}

// Get returns one user or repository.ErrNotFound.
func (s Service) Get(ctx context.Context, id int64) (*domain.User, error) {
	return s.users.GetUserByID(ctx, id)
}

// Update applies a partial update, keeping omitted fields at their stored value.
func (s Service) Update(ctx context.Context, id int64, in UpdateInput) (*domain.User, error) {
	if in.Name == nil && in.Email == nil {
		return nil, ErrNothingToUpdate
	}
	u, err := s.users.UpdateUser(ctx, id, in.Name, in.Email)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user updated", "user_id", u.ID)
	return u, nil
}

// Delete removes a user and returns the deleted row.
func (s Service) Delete(ctx context.Context, id int64) (*domain.User, error) {
	u, err := s.users.DeleteUser(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("user deleted", "user_id", u.ID)
	return u, nil
}
