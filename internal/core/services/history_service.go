package services

import (
	"context"
	"log/slog"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
)

// historyService is the read-only projection over the transaction log. It
// takes no locks: entries are immutable once appended, so a query running
// concurrently with appends at worst misses entries appended after it began.
type historyService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	entryRepo   portsrepo.EntryReader
}

// NewHistoryService creates a new history query service.
func NewHistoryService(accountRepo portsrepo.AccountReader, entryRepo portsrepo.EntryReader) portssvc.HistorySvcFacade {
	return &historyService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// Ensure historyService implements the HistorySvcFacade interface
var _ portssvc.HistorySvcFacade = (*historyService)(nil)

// ListHistory resolves the username to its stable account ID and queries the
// log by that ID. Unknown usernames yield ErrNotFound rather than an empty
// list, matching the balance endpoint's behavior.
func (s *historyService) ListHistory(ctx context.Context, username string, kind *domain.EntryKind) ([]domain.LedgerEntry, error) {
	account, err := s.accountRepo.FindAccountByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.FindEntriesByParticipant(ctx, account.AccountID, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to query history",
			slog.String("account_id", account.AccountID))
		return nil, err
	}
	return entries, nil
}

func (s *historyService) ListAuditTrail(ctx context.Context) ([]domain.LedgerEntry, error) {
	entries, err := s.entryRepo.ListEntries(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit trail")
		return nil, err
	}
	return entries, nil
}
