package repository

import (
	"context"
	"errors"

	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/amirasaad/txnimport/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// FirstOrCreate matches on the whole identity tuple. Nil references are matched with IS NULL,
// which a struct condition would silently drop.
func (r *transactionRepository) FirstOrCreate(ctx context.Context, t *transaction.Transaction) (bool, error) {
	m := mapTransactionDomainToModel(t)

	q := r.db.WithContext(ctx).
		Where("bank_account_id = ?", m.BankAccountID).
		Where("amount = ?", m.Amount).
		Where("txn_type = ?", m.TxnType).
		Where("date = ?", m.Date).
		Where("description = ?", m.Description)
	q = whereNullable(q, "transfer_account_id", m.TransferAccountID)
	q = whereNullable(q, "category_id", m.CategoryID)

	var existing Transaction
	err := q.First(&existing).Error
	switch {
	case err == nil:
		t.ID = existing.ID
		return false, nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return false, MapGormErrorToDomain(err)
	}

	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	t.ID = m.ID
	return true, nil
}

func whereNullable(q *gorm.DB, column string, value *uint) *gorm.DB {
	if value == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *value)
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*transaction.Transaction, error) {
	var models []Transaction
	err := r.db.WithContext(ctx).
		Joins("JOIN bank_accounts ON bank_accounts.id = transactions.bank_account_id").
		Where("bank_accounts.user_id = ?", userID).
		Order("transactions.date, transactions.id").
		Find(&models).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*transaction.Transaction, 0, len(models))
	for i := range models {
		out = append(out, mapTransactionModelToDomain(&models[i]))
	}
	return out, nil
}

func (r *transactionRepository) DeleteByAccount(ctx context.Context, accountID uint) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Where("bank_account_id = ?", accountID).Delete(&Transaction{}).Error
	})
}

func (r *transactionRepository) ClearTransferAccount(ctx context.Context, accountID uint) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(&Transaction{}).
			Where("transfer_account_id = ?", accountID).
			Update("transfer_account_id", nil).Error
	})
}
