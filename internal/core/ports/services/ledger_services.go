package services

import (
	"context"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
)

// LedgerSvcFacade is the coordinator for balance-affecting operations. Each
// method executes as a single atomic unit: the balance mutation(s) and the log
// append either both happen or neither does.
type LedgerSvcFacade interface {
	// Deposit credits amount to the named account from the BANK counterparty.
	Deposit(ctx context.Context, username string, amount int64) (*domain.LedgerEntry, error)

	// Withdraw debits amount from the named account toward the ATM counterparty.
	Withdraw(ctx context.Context, username string, amount int64) (*domain.LedgerEntry, error)

	// Transfer moves amount between two distinct accounts.
	Transfer(ctx context.Context, senderUsername, receiverUsername string, amount int64) (*domain.LedgerEntry, error)
}

// HistorySvcFacade is the read-only projection over the transaction log.
type HistorySvcFacade interface {
	// ListHistory returns the named account's entries newest-first, optionally
	// restricted to one kind. Unknown usernames yield apperrors.ErrNotFound.
	ListHistory(ctx context.Context, username string, kind *domain.EntryKind) ([]domain.LedgerEntry, error)

	// ListAuditTrail returns the full log in sequence order.
	ListAuditTrail(ctx context.Context) ([]domain.LedgerEntry, error)
}

// ServiceContainer holds all the services handed to the HTTP layer.
type ServiceContainer struct {
	Account AccountSvcFacade
	Ledger  LedgerSvcFacade
	History HistorySvcFacade
}
