// Package imports runs statement imports on behalf of a user.
package imports

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/importer"
	"github.com/amirasaad/txnimport/pkg/repository"
	accountsvc "github.com/amirasaad/txnimport/pkg/service/account"
	usersvc "github.com/amirasaad/txnimport/pkg/service/user"
	"github.com/google/uuid"
)

// Request selects who imports what into which account.
type Request struct {
	UserID uuid.UUID
	// AccountID is the destination account; zero selects the main account.
	AccountID uint
	// Format overrides the bank type of the destination account.
	Format string
	File   io.Reader
}

// Service validates the caller and hands the statement to the dispatcher.
type Service struct {
	uow        repository.UnitOfWork
	dispatcher *importer.Dispatcher
	maxUpload  int64
	logger     *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	var maxUpload int64
	if deps.Config != nil && deps.Config.Import != nil {
		maxUpload = deps.Config.Import.MaxUploadBytes
	}
	return New(deps.Uow, deps.Dispatcher, maxUpload, deps.Logger)
}

// New creates a Service. A maxUpload of zero or less disables the size check.
func New(
	uow repository.UnitOfWork,
	dispatcher *importer.Dispatcher,
	maxUpload int64,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, dispatcher: dispatcher, maxUpload: maxUpload, logger: logger}
}

// Import runs the pipeline for the account's bank format against the account's IBAN.
func (s *Service) Import(ctx context.Context, req Request) (*importer.Result, error) {
	logger := s.logger.With("userID", req.UserID, "accountID", req.AccountID)
	logger.Info("Import requested")

	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	owner, err := usersvc.RequireProfile(ctx, users, req.UserID)
	if err != nil {
		logger.Warn("Import refused", "error", err)
		return nil, err
	}

	target, err := s.destination(ctx, req)
	if err != nil {
		logger.Warn("Import refused", "error", err)
		return nil, err
	}

	format := req.Format
	if format == "" {
		format = target.BankType
	}
	if format == "" {
		return nil, fmt.Errorf("%w: account %d has no bank type", domain.ErrUnsupportedFormat, target.ID)
	}

	file, err := s.limit(req.File)
	if err != nil {
		logger.Warn("Import refused", "error", err)
		return nil, err
	}

	return s.dispatcher.Dispatch(ctx, format, importer.Request{
		User: owner,
		File: file,
		IBAN: target.IBAN,
	})
}

// destination returns the selected account, or the main account when none is selected.
func (s *Service) destination(ctx context.Context, req Request) (*account.BankAccount, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	if req.AccountID != 0 {
		return repo.Get(ctx, req.UserID, req.AccountID)
	}
	list, err := repo.ListByUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, domain.ErrNoBankAccount
	}
	if main := accountsvc.MainAccount(list); main != nil {
		return main, nil
	}
	return nil, fmt.Errorf("%w: no account selected and no main account set", domain.ErrNoBankAccount)
}

// limit buffers the upload, failing once it grows past the configured maximum.
func (s *Service) limit(r io.Reader) (io.Reader, error) {
	if r == nil {
		return nil, fmt.Errorf("%w: file is required", domain.ErrValidation)
	}
	if s.maxUpload <= 0 {
		return r, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, s.maxUpload+1))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}
	if int64(len(data)) > s.maxUpload {
		return nil, fmt.Errorf("%w: limit is %d bytes", domain.ErrUploadTooLarge, s.maxUpload)
	}
	return bytes.NewReader(data), nil
}
