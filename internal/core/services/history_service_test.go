package services

import (
	"context"
	"testing"
	"time"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/repositories/database/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
)

type HistoryServiceTestSuite struct {
	suite.Suite
	ledger  portssvc.LedgerSvcFacade
	history portssvc.HistorySvcFacade
	ctx     context.Context
}

func (s *HistoryServiceTestSuite) SetupTest() {
	repos := memory.NewRepositoryProvider()
	s.ledger = NewLedgerService(repos.AccountRepo, repos.EntryRepo)
	s.history = NewHistoryService(repos.AccountRepo, repos.EntryRepo)
	s.ctx = context.Background()

	now := time.Now().UTC()
	for _, username := range []string{"alice", "bob"} {
		s.Require().NoError(repos.AccountRepo.SaveAccount(s.ctx, domain.Account{
			AccountID: uuid.NewString(), Username: username, PasswordHash: "x",
			Balance: 1000, CreatedAt: now, LastUpdatedAt: now,
		}))
	}
}

func (s *HistoryServiceTestSuite) TestListHistory_NewestFirst() {
	_, err := s.ledger.Deposit(s.ctx, "alice", 500)
	s.Require().NoError(err)
	_, err = s.ledger.Withdraw(s.ctx, "alice", 200)
	s.Require().NoError(err)
	_, err = s.ledger.Transfer(s.ctx, "alice", "bob", 100)
	s.Require().NoError(err)

	entries, err := s.history.ListHistory(s.ctx, "alice", nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 3)
	s.Equal(domain.EntryTransfer, entries[0].Kind)
	s.Equal(domain.EntryWithdraw, entries[1].Kind)
	s.Equal(domain.EntryDeposit, entries[2].Kind)
}

func (s *HistoryServiceTestSuite) TestListHistory_KindFilter() {
	_, err := s.ledger.Deposit(s.ctx, "alice", 500)
	s.Require().NoError(err)
	_, err = s.ledger.Withdraw(s.ctx, "alice", 200)
	s.Require().NoError(err)

	kind := domain.EntryDeposit
	entries, err := s.history.ListHistory(s.ctx, "alice", &kind)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(int64(500), entries[0].Amount)
	s.Equal(domain.EntryDeposit, entries[0].Kind)
}

func (s *HistoryServiceTestSuite) TestListHistory_CounterpartySeesTransfer() {
	_, err := s.ledger.Transfer(s.ctx, "alice", "bob", 100)
	s.Require().NoError(err)

	entries, err := s.history.ListHistory(s.ctx, "bob", nil)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(domain.EntryTransfer, entries[0].Kind)
}

func (s *HistoryServiceTestSuite) TestListHistory_UnknownUsername() {
	_, err := s.history.ListHistory(s.ctx, "ghost", nil)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *HistoryServiceTestSuite) TestListHistory_EmptyForFreshAccount() {
	entries, err := s.history.ListHistory(s.ctx, "alice", nil)
	s.Require().NoError(err)
	s.NotNil(entries)
	s.Empty(entries)
}

func (s *HistoryServiceTestSuite) TestListAuditTrail_AscendingSequence() {
	_, err := s.ledger.Deposit(s.ctx, "alice", 500)
	s.Require().NoError(err)
	_, err = s.ledger.Transfer(s.ctx, "alice", "bob", 100)
	s.Require().NoError(err)

	entries, err := s.history.ListAuditTrail(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(int64(1), entries[0].Sequence)
	s.Equal(int64(2), entries[1].Sequence)
}

func TestHistoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(HistoryServiceTestSuite))
}
