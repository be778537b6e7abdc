// Package user provides business logic for user management operations.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/amirasaad/txnimport/pkg/repository"
	"github.com/google/uuid"
)

// Service provides business logic for user operations: first sight of a token subject
// and profile completion.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a new Service with a UnitOfWork and logger.
func New(
	uow repository.UnitOfWork,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:    uow,
		logger: logger,
	}
}

// EnsureUser returns the user with id, creating it with username when it does not exist yet.
func (s *Service) EnsureUser(
	ctx context.Context,
	id uuid.UUID,
	username string,
) (u *user.User, err error) {
	if id == uuid.Nil {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		u = user.New(id, username)
		if err := repo.Create(ctx, u); err != nil {
			return err
		}
		s.logger.Info("User created", "userID", id, "username", username)
		return nil
	})
	if err != nil {
		u = nil
	}
	return
}

// GetUser retrieves a user by ID.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	repo, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, id)
}

// CompleteProfile stores the first and last name used to recognise transfers between own accounts.
func (s *Service) CompleteProfile(
	ctx context.Context,
	id uuid.UUID,
	firstName, lastName string,
) (u *user.User, err error) {
	logger := s.logger.With("userID", id)
	logger.Info("CompleteProfile started")

	firstName, lastName = strings.TrimSpace(firstName), strings.TrimSpace(lastName)
	if firstName == "" || lastName == "" {
		return nil, fmt.Errorf("%w: first and last name are required", domain.ErrValidation)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = repo.Get(ctx, id)
		if err != nil {
			return err
		}
		u.FirstName = firstName
		u.LastName = lastName
		u.UpdatedAt = time.Now().UTC()
		return repo.Update(ctx, u)
	})
	if err != nil {
		logger.Error("CompleteProfile failed", "error", err)
		return nil, err
	}
	logger.Info("CompleteProfile completed")
	return u, nil
}

// RequireProfile loads the user and fails with domain.ErrProfileIncomplete until both names are set.
func RequireProfile(
	ctx context.Context,
	repo repository.UserRepository,
	id uuid.UUID,
) (*user.User, error) {
	u, err := repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !u.IsProfileComplete() {
		return nil, domain.ErrProfileIncomplete
	}
	return u, nil
}
