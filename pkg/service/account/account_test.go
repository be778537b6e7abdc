package account_test

import (
	"context"
	"testing"
	"time"

	"github.com/amirasaad/txnimport/infra/repository"
	"github.com/amirasaad/txnimport/internal/fixtures"
	"github.com/amirasaad/txnimport/pkg/domain"
	"github.com/amirasaad/txnimport/pkg/domain/transaction"
	"github.com/amirasaad/txnimport/pkg/domain/user"
	"github.com/amirasaad/txnimport/pkg/importer"
	accountsvc "github.com/amirasaad/txnimport/pkg/service/account"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type AccountServiceSuite struct {
	suite.Suite
	ctx   context.Context
	uow   *repository.UoW
	svc   *accountsvc.Service
	owner *user.User
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) SetupTest() {
	uow, db := fixtures.NewTestUoW(s.T())
	s.ctx = context.Background()
	s.uow = uow
	s.svc = accountsvc.New(uow, importer.DefaultRegistry(), nil)
	s.owner = fixtures.CreateUser(s.T(), db, "Marco", "Rossi")
}

func (s *AccountServiceSuite) TestCreateAndList() {
	a, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "N26", "de89 3704 0044 0532 0130 00", "N26")
	s.Require().NoError(err)
	s.Equal("DE89370400440532013000", a.IBAN)
	s.Equal("n26", a.BankType)

	overview, err := s.svc.ListAccounts(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Len(overview.Accounts, 1)
	s.True(overview.NeedsMain)

	s.Require().NoError(s.svc.SetMainAccount(s.ctx, s.owner.ID, a.ID))
	overview, err = s.svc.ListAccounts(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.False(overview.NeedsMain)
	s.Equal(a.ID, accountsvc.MainAccount(overview.Accounts).ID)
}

func (s *AccountServiceSuite) TestListEmptyDoesNotNeedMain() {
	overview, err := s.svc.ListAccounts(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Empty(overview.Accounts)
	s.False(overview.NeedsMain)
}

func (s *AccountServiceSuite) TestCreateValidation() {
	_, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "", "DE89", "n26")
	s.ErrorIs(err, domain.ErrValidation)

	_, err = s.svc.CreateAccount(s.ctx, s.owner.ID, "Bank", "DE89", "unknownbank")
	s.ErrorIs(err, domain.ErrUnsupportedFormat)

	_, err = s.svc.CreateAccount(s.ctx, s.owner.ID, "Cash", "IT60X0542811101000000123456", "")
	s.NoError(err, "an empty bank type is allowed")
}

func (s *AccountServiceSuite) TestCreateDuplicateIBAN() {
	_, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "N26", "DE89370400440532013000", "n26")
	s.Require().NoError(err)
	_, err = s.svc.CreateAccount(s.ctx, s.owner.ID, "Again", "DE89370400440532013000", "n26")
	s.ErrorIs(err, domain.ErrAlreadyExists)
}

func (s *AccountServiceSuite) TestSetMainKeepsExactlyOne() {
	a, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "A", "DE01", "n26")
	s.Require().NoError(err)
	b, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "B", "DE02", "n26")
	s.Require().NoError(err)

	s.Require().NoError(s.svc.SetMainAccount(s.ctx, s.owner.ID, a.ID))
	s.Require().NoError(s.svc.SetMainAccount(s.ctx, s.owner.ID, b.ID))

	overview, err := s.svc.ListAccounts(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	mains := 0
	for _, acc := range overview.Accounts {
		if acc.Main {
			mains++
			s.Equal(b.ID, acc.ID)
		}
	}
	s.Equal(1, mains)
}

func (s *AccountServiceSuite) TestSetMainForeignAccountRollsBack() {
	a, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "A", "DE01", "n26")
	s.Require().NoError(err)
	s.Require().NoError(s.svc.SetMainAccount(s.ctx, s.owner.ID, a.ID))

	err = s.svc.SetMainAccount(s.ctx, s.owner.ID, a.ID+100)
	s.ErrorIs(err, domain.ErrNotFound)

	overview, err := s.svc.ListAccounts(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.True(overview.Accounts[0].Main, "the clear must be rolled back")
}

func (s *AccountServiceSuite) TestDeleteNullsTransferLinks() {
	a, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "A", "DE01", "n26")
	s.Require().NoError(err)
	b, err := s.svc.CreateAccount(s.ctx, s.owner.ID, "B", "DE02", "n26")
	s.Require().NoError(err)

	txns, err := s.uow.TransactionRepository()
	s.Require().NoError(err)
	date := time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)
	_, err = txns.FirstOrCreate(s.ctx, transaction.New(a.ID, &b.ID, nil, date,
		decimal.RequireFromString("-10"), transaction.DirectionTransfer, "to B"))
	s.Require().NoError(err)
	_, err = txns.FirstOrCreate(s.ctx, transaction.New(b.ID, nil, nil, date,
		decimal.RequireFromString("10"), transaction.DirectionIn, "on B"))
	s.Require().NoError(err)

	s.Require().NoError(s.svc.DeleteAccount(s.ctx, s.owner.ID, b.ID))

	list, err := txns.ListByUser(s.ctx, s.owner.ID)
	s.Require().NoError(err)
	s.Require().Len(list, 1)
	s.Equal(a.ID, list[0].BankAccountID)
	s.Nil(list[0].TransferAccountID)
}

func (s *AccountServiceSuite) TestDeleteForeignAccount() {
	err := s.svc.DeleteAccount(s.ctx, s.owner.ID, 999)
	s.ErrorIs(err, domain.ErrNotFound)
}

func TestAccountService_RequiresProfile(t *testing.T) {
	uow, db := fixtures.NewTestUoW(t)
	svc := accountsvc.New(uow, importer.DefaultRegistry(), nil)
	u := fixtures.CreateUser(t, db, "", "")

	_, err := svc.ListAccounts(context.Background(), u.ID)
	require.ErrorIs(t, err, domain.ErrProfileIncomplete)
	_, err = svc.CreateAccount(context.Background(), u.ID, "N26", "DE01", "n26")
	assert.ErrorIs(t, err, domain.ErrProfileIncomplete)
}
