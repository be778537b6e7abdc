// Package account provides business logic for managing a user's bank accounts.
//
// Every operation requires a completed profile. Changes that touch more than one row run in a
// single unit of work.
package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/importer"
	"github.com/amirasaad/txnimport/pkg/repository"
	usersvc "github.com/amirasaad/txnimport/pkg/service/user"
	"github.com/google/uuid"
)

// Overview lists a user's accounts. NeedsMain is set when accounts exist but none is main.
type Overview struct {
	Accounts  []*account.BankAccount `json:"accounts"`
	NeedsMain bool                   `json:"needs_main"`
}

// Service provides business logic for bank account operations.
type Service struct {
	uow      repository.UnitOfWork
	registry *importer.Registry
	logger   *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return New(deps.Uow, deps.Dispatcher.Registry(), deps.Logger)
}

// New creates a Service validating bank types against registry.
func New(
	uow repository.UnitOfWork,
	registry *importer.Registry,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, registry: registry, logger: logger}
}

// CreateAccount creates a bank account for the user. bankType may be empty; otherwise it must
// be a registered import format.
func (s *Service) CreateAccount(
	ctx context.Context,
	userID uuid.UUID,
	name, iban, bankType string,
) (a *account.BankAccount, err error) {
	logger := s.logger.With("userID", userID, "bankType", bankType)
	logger.Info("CreateAccount started")

	name = strings.TrimSpace(name)
	if name == "" || account.NormalizeIBAN(iban) == "" {
		return nil, fmt.Errorf("%w: name and iban are required", domain.ErrValidation)
	}
	if bankType != "" && !s.registry.Has(bankType) {
		logger.Error("CreateAccount failed: unknown bank type")
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedFormat, bankType)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := requireProfile(ctx, uow, userID); err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		a = account.New(userID, name, iban, bankType)
		return repo.Create(ctx, a)
	})
	if err != nil {
		logger.Error("CreateAccount failed", "error", err)
		return nil, err
	}
	logger.Info("CreateAccount completed", "accountID", a.ID)
	return a, nil
}

// ListAccounts returns the user's accounts.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) (*Overview, error) {
	if err := requireProfile(ctx, s.uow, userID); err != nil {
		return nil, err
	}
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	list, err := repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Overview{
		Accounts:  list,
		NeedsMain: len(list) > 0 && MainAccount(list) == nil,
	}, nil
}

// SetMainAccount makes id the only main account of the user.
func (s *Service) SetMainAccount(ctx context.Context, userID uuid.UUID, id uint) error {
	logger := s.logger.With("userID", userID, "accountID", id)
	logger.Info("SetMainAccount started")

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := requireProfile(ctx, uow, userID); err != nil {
			return err
		}
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		if err := repo.ClearMain(ctx, userID); err != nil {
			return err
		}
		return repo.MarkMain(ctx, userID, id)
	})
	if err != nil {
		logger.Error("SetMainAccount failed", "error", err)
		return err
	}
	logger.Info("SetMainAccount completed")
	return nil
}

// DeleteAccount removes one of the user's accounts with its transactions. Transactions of other
// accounts that referenced it as transfer counterpart keep existing with no link.
func (s *Service) DeleteAccount(ctx context.Context, userID uuid.UUID, id uint) error {
	logger := s.logger.With("userID", userID, "accountID", id)
	logger.Info("DeleteAccount started")

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if err := requireProfile(ctx, uow, userID); err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txns, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if _, err := accounts.Get(ctx, userID, id); err != nil {
			return err
		}
		if err := txns.ClearTransferAccount(ctx, id); err != nil {
			return err
		}
		if err := txns.DeleteByAccount(ctx, id); err != nil {
			return err
		}
		return accounts.Delete(ctx, userID, id)
	})
	if err != nil {
		logger.Error("DeleteAccount failed", "error", err)
		return err
	}
	logger.Info("DeleteAccount completed")
	return nil
}

// MainAccount returns the account flagged as main, or nil.
func MainAccount(list []*account.BankAccount) *account.BankAccount {
	for _, a := range list {
		if a.Main {
			return a
		}
	}
	return nil
}

func requireProfile(ctx context.Context, uow repository.UnitOfWork, userID uuid.UUID) error {
	users, err := uow.UserRepository()
	if err != nil {
		return err
	}
	_, err = usersvc.RequireProfile(ctx, users, userID)
	return err
}
