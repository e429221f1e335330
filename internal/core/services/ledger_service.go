package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
)

// maxMutationRetries bounds the optimistic retry loop. A version conflict
// inside the budget restarts the operation from a fresh read; exceeding the
// budget surfaces ErrContention instead of looping forever.
const maxMutationRetries = 8

// ledgerService coordinates deposits, withdrawals and transfers as atomic
// units spanning the account store and the transaction log.
//
// Concurrency control is optimistic: every balance write goes through
// TryMutateBalance with the version observed at read time, and conflicting
// writers retry from a fresh read. For the two-account transfer case the
// mutations are applied in ascending account-ID order, which rules out the
// circular wait between two concurrent opposite-direction transfers.
type ledgerService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	entryRepo   portsrepo.EntryRepositoryFacade
}

// NewLedgerService creates a new ledger coordinator.
func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade, entryRepo portsrepo.EntryRepositoryFacade) portssvc.LedgerSvcFacade {
	return &ledgerService{
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
	}
}

// Ensure ledgerService implements the LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// appliedMutation records one committed balance write so it can be undone if a
// later step of the same operation fails.
type appliedMutation struct {
	accountID string
	delta     int64
	version   int64 // version after the write, expected by the inverse mutation
}

func (s *ledgerService) Deposit(ctx context.Context, username string, amount int64) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	for attempt := 0; attempt < maxMutationRetries; attempt++ {
		account, err := s.accountRepo.FindAccountByUsername(ctx, username)
		if err != nil {
			return nil, err
		}

		// Once the first mutation lands the operation must run to completion,
		// so the caller's cancellation no longer applies.
		uctx := context.WithoutCancel(ctx)

		res, err := s.accountRepo.TryMutateBalance(uctx, account.AccountID, account.Version, amount)
		if errors.Is(err, apperrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return s.commitEntry(uctx, domain.LedgerEntry{
			SenderRef:   domain.ExternalBank,
			ReceiverRef: account.AccountID,
			Amount:      amount,
			Kind:        domain.EntryDeposit,
		}, []appliedMutation{{account.AccountID, amount, res.NewVersion}})
	}

	s.LogWarn(ctx, "Deposit retry budget exhausted", slog.String("username", username))
	return nil, apperrors.ErrContention
}

func (s *ledgerService) Withdraw(ctx context.Context, username string, amount int64) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}

	for attempt := 0; attempt < maxMutationRetries; attempt++ {
		account, err := s.accountRepo.FindAccountByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		// Fast fail on an obviously uncovered withdrawal. The check is
		// re-validated atomically inside TryMutateBalance because this read
		// may already be stale.
		if account.Balance < amount {
			return nil, apperrors.ErrInsufficientFunds
		}

		uctx := context.WithoutCancel(ctx)

		res, err := s.accountRepo.TryMutateBalance(uctx, account.AccountID, account.Version, -amount)
		if errors.Is(err, apperrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		return s.commitEntry(uctx, domain.LedgerEntry{
			SenderRef:   account.AccountID,
			ReceiverRef: domain.ExternalATM,
			Amount:      amount,
			Kind:        domain.EntryWithdraw,
		}, []appliedMutation{{account.AccountID, -amount, res.NewVersion}})
	}

	s.LogWarn(ctx, "Withdraw retry budget exhausted", slog.String("username", username))
	return nil, apperrors.ErrContention
}

func (s *ledgerService) Transfer(ctx context.Context, senderUsername, receiverUsername string, amount int64) (*domain.LedgerEntry, error) {
	if amount <= 0 {
		return nil, apperrors.ErrInvalidAmount
	}
	if senderUsername == receiverUsername {
		return nil, fmt.Errorf("%w: self-transfer", apperrors.ErrInvalidOperation)
	}

	for attempt := 0; attempt < maxMutationRetries; attempt++ {
		sender, err := s.accountRepo.FindAccountByUsername(ctx, senderUsername)
		if err != nil {
			return nil, err
		}
		receiver, err := s.accountRepo.FindAccountByUsername(ctx, receiverUsername)
		if err != nil {
			return nil, err
		}
		if sender.AccountID == receiver.AccountID {
			return nil, fmt.Errorf("%w: self-transfer", apperrors.ErrInvalidOperation)
		}
		if sender.Balance < amount {
			return nil, apperrors.ErrInsufficientFunds
		}

		// Deterministic mutation order: always the lower account ID first.
		// Two opposite-direction transfers then contend on the same account
		// first and one of them simply retries; neither can wait on the other.
		type plannedMutation struct {
			account *domain.Account
			delta   int64
		}
		first := plannedMutation{sender, -amount}
		second := plannedMutation{receiver, amount}
		if second.account.AccountID < first.account.AccountID {
			first, second = second, first
		}

		uctx := context.WithoutCancel(ctx)

		firstRes, err := s.accountRepo.TryMutateBalance(uctx, first.account.AccountID, first.account.Version, first.delta)
		if errors.Is(err, apperrors.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, err
		}

		secondRes, err := s.accountRepo.TryMutateBalance(uctx, second.account.AccountID, second.account.Version, second.delta)
		if err != nil {
			s.rollback(uctx, []appliedMutation{{first.account.AccountID, first.delta, firstRes.NewVersion}})
			if errors.Is(err, apperrors.ErrVersionConflict) {
				continue
			}
			return nil, err
		}

		return s.commitEntry(uctx, domain.LedgerEntry{
			SenderRef:   sender.AccountID,
			ReceiverRef: receiver.AccountID,
			Amount:      amount,
			Kind:        domain.EntryTransfer,
		}, []appliedMutation{
			{first.account.AccountID, first.delta, firstRes.NewVersion},
			{second.account.AccountID, second.delta, secondRes.NewVersion},
		})
	}

	s.LogWarn(ctx, "Transfer retry budget exhausted",
		slog.String("sender", senderUsername), slog.String("receiver", receiverUsername))
	return nil, apperrors.ErrContention
}

// commitEntry appends the entry matching the already-applied mutations. An
// append failure is fatal for the operation: the mutations are rolled back so
// no balance effect survives without its log entry, and the storage failure is
// surfaced to the caller.
func (s *ledgerService) commitEntry(ctx context.Context, entry domain.LedgerEntry, applied []appliedMutation) (*domain.LedgerEntry, error) {
	committed, err := s.entryRepo.AppendEntry(ctx, entry)
	if err != nil {
		s.LogError(ctx, err, "Log append failed, rolling back balance mutations",
			slog.String("kind", string(entry.Kind)))
		s.rollback(ctx, applied)
		if errors.Is(err, apperrors.ErrStorageFatal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorageFatal, err)
	}

	s.LogInfo(ctx, "Ledger entry committed",
		slog.Int64("sequence", committed.Sequence),
		slog.String("kind", string(committed.Kind)),
		slog.Int64("amount", committed.Amount))
	return committed, nil
}

// rollback applies the inverse delta of each applied mutation, most recent
// first. A concurrent writer may have bumped the version since our write, so
// the inverse is retried from a fresh read on conflict.
func (s *ledgerService) rollback(ctx context.Context, applied []appliedMutation) {
	for i := len(applied) - 1; i >= 0; i-- {
		m := applied[i]
		expectedVersion := m.version
		for attempt := 0; ; attempt++ {
			_, err := s.accountRepo.TryMutateBalance(ctx, m.accountID, expectedVersion, -m.delta)
			if err == nil {
				break
			}
			if attempt+1 >= maxMutationRetries || !errors.Is(err, apperrors.ErrVersionConflict) {
				// Balance/log divergence; nothing safe left to do locally.
				s.LogError(ctx, err, "Failed to roll back balance mutation",
					slog.String("account_id", m.accountID),
					slog.Int64("delta", m.delta))
				break
			}
			acc, ferr := s.accountRepo.FindAccountByID(ctx, m.accountID)
			if ferr != nil {
				s.LogError(ctx, ferr, "Failed to re-read account during rollback",
					slog.String("account_id", m.accountID))
				break
			}
			expectedVersion = acc.Version
		}
	}
}
