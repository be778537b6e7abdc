package repository

import (
	"context"

	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user data access operations.
type UserRepository interface {
	Get(ctx context.Context, id uuid.UUID) (*user.User, error)
	Create(ctx context.Context, user *user.User) error
	Update(ctx context.Context, user *user.User) error
}

// AccountRepository defines the interface for bank account data access operations.
// Every lookup is scoped to the owning user.
type AccountRepository interface {
	Get(ctx context.Context, userID uuid.UUID, id uint) (*account.BankAccount, error)
	GetByIBAN(ctx context.Context, userID uuid.UUID, iban string) (*account.BankAccount, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*account.BankAccount, error)
	Create(ctx context.Context, account *account.BankAccount) error
	Delete(ctx context.Context, userID uuid.UUID, id uint) error
	// ClearMain unsets the main flag on every account of the user.
	ClearMain(ctx context.Context, userID uuid.UUID) error
	// MarkMain sets the main flag on one account of the user.
	MarkMain(ctx context.Context, userID uuid.UUID, id uint) error
}

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	// FirstOrCreate finds the category by (name, importer, created_by); when missing it is
	// created with the given icon and direction.
	FirstOrCreate(ctx context.Context, c *category.Category) (*category.Category, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*category.Category, error)
	// IncomeNames returns the names of the user's income categories.
	IncomeNames(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// TransactionRepository defines the interface for transaction data access operations.
type TransactionRepository interface {
	// FirstOrCreate finds a transaction with the same account, transfer account, amount,
	// direction, date, description and category, creating it when none exists.
	FirstOrCreate(ctx context.Context, tx *transaction.Transaction) (created bool, err error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error)
	DeleteByAccount(ctx context.Context, accountID uint) error
	// ClearTransferAccount nulls the transfer link of transactions pointing at accountID.
	ClearTransferAccount(ctx context.Context, accountID uint) error
}
