// Package export renders a user's data for external finance tools.
package export

import (
	"bytes"
	"context"
	"io"
	"log/slog"

	"github.com/amirasaad/txnimport/pkg/config"
	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/export"
	"github.com/amirasaad/txnimport/pkg/repository"
	usersvc "github.com/amirasaad/txnimport/pkg/service/user"
	"github.com/google/uuid"
)

// Filename is the attachment name of a Sossoldi export.
const Filename = "export.csv"

// Service loads a user's records and renders them.
type Service struct {
	uow      repository.UnitOfWork
	sossoldi *export.Sossoldi
	logger   *slog.Logger
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	return New(deps.Uow, export.NewSossoldi(), deps.Logger)
}

func New(uow repository.UnitOfWork, sossoldi *export.Sossoldi, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: uow, sossoldi: sossoldi, logger: logger}
}

// Sossoldi writes the user's accounts, transactions and categories as a Sossoldi CSV.
func (s *Service) Sossoldi(ctx context.Context, userID uuid.UUID, w io.Writer) error {
	logger := s.logger.With("userID", userID)
	logger.Info("Export started")

	doc, err := s.load(ctx, userID)
	if err != nil {
		logger.Error("Export failed", "error", err)
		return err
	}
	if err := s.sossoldi.Render(w, *doc); err != nil {
		logger.Error("Export failed: render", "error", err)
		return err
	}
	logger.Info("Export completed",
		"accounts", len(doc.Accounts), "transactions", len(doc.Transactions), "categories", len(doc.Categories))
	return nil
}

// SossoldiBytes renders the export into memory.
func (s *Service) SossoldiBytes(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.Sossoldi(ctx, userID, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *Service) load(ctx context.Context, userID uuid.UUID) (*export.Document, error) {
	users, err := s.uow.UserRepository()
	if err != nil {
		return nil, err
	}
	if _, err := usersvc.RequireProfile(ctx, users, userID); err != nil {
		return nil, err
	}

	accounts, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	txns, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	categories, err := s.uow.CategoryRepository()
	if err != nil {
		return nil, err
	}

	var doc export.Document
	if doc.Accounts, err = accounts.ListByUser(ctx, userID); err != nil {
		return nil, err
	}
	if len(doc.Accounts) == 0 {
		return nil, domain.ErrNoBankAccount
	}
	if doc.Transactions, err = txns.ListByUser(ctx, userID); err != nil {
		return nil, err
	}
	if doc.Categories, err = categories.ListByUser(ctx, userID); err != nil {
		return nil, err
	}
	if doc.IncomeNames, err = categories.IncomeNames(ctx, userID); err != nil {
		return nil, err
	}
	return &doc, nil
}
