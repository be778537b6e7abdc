package importer

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/amirasaad/txnimport/pkg/repository"
)

// TransferResolver links transfer rows to the owner's counterpart account.
//
// An existing account with the counterpart IBAN is always used. A missing one is created
// only when the counterpart name is the owner's full name; transfers to third parties stay
// unlinked.
type TransferResolver struct {
	logger *slog.Logger
}

func NewTransferResolver(logger *slog.Logger) *TransferResolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &TransferResolver{logger: logger}
}

// Resolve returns the counterpart account or nil when the transfer stays unlinked.
func (r *TransferResolver) Resolve(
	ctx context.Context,
	accounts repository.AccountRepository,
	owner *user.User,
	bankType string,
	cp Counterparty,
) (*account.BankAccount, error) {
	iban := account.NormalizeIBAN(cp.IBAN)
	if iban == "" {
		return nil, nil
	}

	existing, err := accounts.GetByIBAN(ctx, owner.ID, iban)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	if !isOwnerName(owner, cp.Name) {
		return nil, nil
	}

	created := account.NewGeneratedTransfer(owner.ID, iban, bankType)
	if err := accounts.Create(ctx, created); err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			// The IBAN belongs to another user.
			r.logger.Warn("Transfer counterpart IBAN owned elsewhere, leaving unlinked", "user", owner.ID)
			return nil, nil
		}
		return nil, err
	}
	r.logger.Info("Created transfer counterpart account", "user", owner.ID, "account_id", created.ID)
	return created, nil
}

// isOwnerName compares names ignoring case and repeated blanks.
func isOwnerName(owner *user.User, name string) bool {
	if !owner.IsProfileComplete() {
		return false
	}
	normalize := func(s string) string { return strings.Join(strings.Fields(s), " ") }
	return strings.EqualFold(normalize(name), normalize(owner.FullName()))
}
