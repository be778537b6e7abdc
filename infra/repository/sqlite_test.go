package repository_test

import (
	"context"
	"testing"
	"time"

	infra_repository "github.com/amirasaad/txnimport/infra/repository"
	"github.com/amirasaad/txnimport/internal/fixtures"
	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/account"
	"github.com/amirasaad/txnimport/pkg/domain/category"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/amirasaad/txnimport/pkg/importer"
	"github.com/amirasaad/txnimport/pkg/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

type RepositorySuite struct {
	suite.Suite
	ctx      context.Context
	db       *gorm.DB
	uow      repository.UnitOfWork
	owner    *user.User
	accounts repository.AccountRepository
	cats     repository.CategoryRepository
	txns     repository.TransactionRepository
}

func (s *RepositorySuite) SetupTest() {
	s.ctx = context.Background()
	uow, db := fixtures.NewTestUoW(s.T())
	s.uow, s.db = uow, db
	s.owner = fixtures.CreateUser(s.T(), db, "Marco", "Rossi")

	var err error
	s.accounts, err = uow.AccountRepository()
	s.Require().NoError(err)
	s.cats, err = uow.CategoryRepository()
	s.Require().NoError(err)
	s.txns, err = uow.TransactionRepository()
	s.Require().NoError(err)
}

func TestRepositorySuite(t *testing.T) {
	suite.Run(t, new(RepositorySuite))
}

func (s *RepositorySuite) TestFormatColumnsFitLongestFormat() {
	for model, field := range map[any]string{
		&infra_repository.Category{}:    "Importer",
		&infra_repository.BankAccount{}: "BankType",
	} {
		stmt := &gorm.Statement{DB: s.db}
		s.Require().NoError(stmt.Parse(model))
		f := stmt.Schema.LookUpField(field)
		s.Require().NotNil(f, field)
		s.GreaterOrEqual(f.Size, importer.MaxFormatLength, field)
	}
}

func (s *RepositorySuite) TestCategory_LongFormatName() {
	c := &category.Category{
		Name:      "Spesa",
		Icon:      "cart",
		Direction: transaction.DirectionOut,
		Importer:  "deutschebank",
		CreatedBy: s.owner.ID,
	}
	_, err := s.cats.FirstOrCreate(s.ctx, c)
	s.Require().NoError(err)

	names, err := s.cats.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Require().Len(names, 1)
	s.Equal("deutschebank", names[0].Importer)
}

func (s *RepositorySuite) createAccount(iban string) *account.BankAccount {
	a := account.New(s.owner.ID, "N26", iban, "n26")
	s.Require().NoError(s.accounts.Create(s.ctx, a))
	s.Require().NotZero(a.ID)
	return a
}

func (s *RepositorySuite) TestAccount_GetByIBANNormalizes() {
	a := s.createAccount("de89 3704 0044 0532 0130 00")

	got, err := s.accounts.GetByIBAN(s.ctx, s.owner.ID, "DE89370400440532013000")
	s.Require().NoError(err)
	s.Equal(a.ID, got.ID)
	s.Equal("DE89370400440532013000", got.IBAN)

	other := fixtures.CreateUser(s.T(), s.db, "Anna", "Bianchi")
	_, err = s.accounts.GetByIBAN(s.ctx, other.ID, "DE89370400440532013000")
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RepositorySuite) TestAccount_IBANIsGloballyUnique() {
	s.createAccount("IT60X0542811101000000123456")

	other := fixtures.CreateUser(s.T(), s.db, "Anna", "Bianchi")
	dup := account.New(other.ID, "Copy", "IT60X0542811101000000123456", "n26")
	s.ErrorIs(s.accounts.Create(s.ctx, dup), domain.ErrAlreadyExists)
}

func (s *RepositorySuite) TestAccount_SetMainKeepsExactlyOne() {
	first := s.createAccount("DE01")
	second := s.createAccount("DE02")

	for _, id := range []uint{first.ID, second.ID} {
		err := s.uow.Do(s.ctx, func(uow repository.UnitOfWork) error {
			repo, err := uow.AccountRepository()
			if err != nil {
				return err
			}
			if err := repo.ClearMain(s.ctx, s.owner.ID); err != nil {
				return err
			}
			return repo.MarkMain(s.ctx, s.owner.ID, id)
		})
		s.Require().NoError(err)
	}

	list, err := s.accounts.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	var mains []uint
	for _, a := range list {
		if a.Main {
			mains = append(mains, a.ID)
		}
	}
	s.Equal([]uint{second.ID}, mains)
}

func (s *RepositorySuite) TestAccount_DeleteScopedToOwner() {
	a := s.createAccount("DE03")
	other := fixtures.CreateUser(s.T(), s.db, "Anna", "Bianchi")

	s.ErrorIs(s.accounts.Delete(s.ctx, other.ID, a.ID), domain.ErrNotFound)
	s.NoError(s.accounts.Delete(s.ctx, s.owner.ID, a.ID))
	_, err := s.accounts.Get(s.ctx, s.owner.ID, a.ID)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *RepositorySuite) TestCategory_FirstOrCreateIsScoped() {
	in := &category.Category{
		Name:      "Stipendio",
		Icon:      "payments",
		Direction: transaction.DirectionIn,
		Importer:  "n26",
		CreatedBy: s.owner.ID,
	}
	first, err := s.cats.FirstOrCreate(s.ctx, in)
	s.Require().NoError(err)

	// Attributes only apply on creation.
	again, err := s.cats.FirstOrCreate(s.ctx, &category.Category{
		Name: "Stipendio", Icon: "other", Direction: transaction.DirectionOut,
		Importer: "n26", CreatedBy: s.owner.ID,
	})
	s.Require().NoError(err)
	s.Equal(first.ID, again.ID)
	s.Equal("payments", again.Icon)
	s.True(again.IsIncome())

	other := fixtures.CreateUser(s.T(), s.db, "Anna", "Bianchi")
	foreign, err := s.cats.FirstOrCreate(s.ctx, &category.Category{
		Name: "Stipendio", Icon: "payments", Direction: transaction.DirectionIn,
		Importer: "n26", CreatedBy: other.ID,
	})
	s.Require().NoError(err)
	s.NotEqual(first.ID, foreign.ID)

	names, err := s.cats.IncomeNames(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Equal([]string{"Stipendio"}, names)
}

func (s *RepositorySuite) TestTransaction_FirstOrCreateMatchesNullReferences() {
	a := s.createAccount("DE04")
	target := s.createAccount("DE05")
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	amount := decimal.RequireFromString("-12.99")

	plain := transaction.New(a.ID, nil, nil, date, amount, transaction.DirectionOut, "Coffee")
	created, err := s.txns.FirstOrCreate(s.ctx, plain)
	s.Require().NoError(err)
	s.True(created)

	dup := transaction.New(a.ID, nil, nil, date, amount, transaction.DirectionOut, "Coffee")
	created, err = s.txns.FirstOrCreate(s.ctx, dup)
	s.Require().NoError(err)
	s.False(created)
	s.Equal(plain.ID, dup.ID)

	linked := transaction.New(a.ID, &target.ID, nil, date, amount, transaction.DirectionOut, "Coffee")
	created, err = s.txns.FirstOrCreate(s.ctx, linked)
	s.Require().NoError(err)
	s.True(created, "a transfer link makes a different identity")

	list, err := s.txns.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 2)
	s.True(list[0].Amount.Equal(decimal.RequireFromString("12.99")))
}

func (s *RepositorySuite) TestTransaction_ClearTransferAccountAndDeleteByAccount() {
	a := s.createAccount("DE06")
	target := s.createAccount("DE07")
	date := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)

	tx := transaction.New(a.ID, &target.ID, nil, date, decimal.NewFromInt(40), transaction.DirectionTransfer, "Savings")
	_, err := s.txns.FirstOrCreate(s.ctx, tx)
	s.Require().NoError(err)

	s.Require().NoError(s.txns.ClearTransferAccount(s.ctx, target.ID))
	list, err := s.txns.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Nil(list[0].TransferAccountID)

	s.Require().NoError(s.txns.DeleteByAccount(s.ctx, a.ID))
	list, err = s.txns.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Empty(list)
}
