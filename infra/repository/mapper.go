package repository

import (
	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/amirasaad/txnimport/pkg/domain/user"
)

func mapUserModelToDomain(m *User) *user.User {
	return &user.User{
		ID:        m.ID,
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func mapUserDomainToModel(u *user.User) User {
	return User{
		ID:        u.ID,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func mapAccountModelToDomain(m *BankAccount) *account.BankAccount {
	return &account.BankAccount{
		ID:        m.ID,
		UserID:    m.UserID,
		Name:      m.Name,
		IBAN:      m.IBAN,
		BankType:  m.BankType,
		Main:      m.MainAccount,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func mapAccountDomainToModel(a *account.BankAccount) BankAccount {
	return BankAccount{
		ID:          a.ID,
		UserID:      a.UserID,
		Name:        a.Name,
		IBAN:        account.NormalizeIBAN(a.IBAN),
		MainAccount: a.Main,
		BankType:    a.BankType,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func mapCategoryModelToDomain(m *Category) *category.Category {
	return &category.Category{
		ID:        m.ID,
		Name:      m.Name,
		Icon:      m.Icon,
		Direction: transaction.Direction(m.TxnType),
		Importer:  m.Importer,
		CreatedBy: m.CreatedBy,
	}
}

func mapTransactionModelToDomain(m *Transaction) *transaction.Transaction {
	return &transaction.Transaction{
		ID:                m.ID,
		BankAccountID:     m.BankAccountID,
		TransferAccountID: m.TransferAccountID,
		CategoryID:        m.CategoryID,
		Date:              m.Date,
		Amount:            m.Amount,
		Direction:         transaction.Direction(m.TxnType),
		Description:       m.Description,
	}
}

func mapTransactionDomainToModel(t *transaction.Transaction) Transaction {
	return Transaction{
		ID:                t.ID,
		BankAccountID:     t.BankAccountID,
		TransferAccountID: t.TransferAccountID,
		CategoryID:        t.CategoryID,
		Date:              t.Date.UTC(),
		Amount:            t.Amount.Abs(),
		TxnType:           string(t.Direction),
		Description:       t.Description,
	}
}
