package repositories

import (
	"context"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its stable identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUsername retrieves an account by its unique, case-sensitive username.
	FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	// ListAccounts retrieves a paginated list of accounts.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account. The unique-username check and the
	// insert are a single atomic step; a taken username yields
	// apperrors.ErrDuplicate, never a partial write.
	SaveAccount(ctx context.Context, account domain.Account) error

	// TryMutateBalance applies a signed delta to the account balance iff the
	// current version equals expectedVersion and the resulting balance stays
	// non-negative, atomically bumping the version on success.
	//
	// This is the sole balance mutation path; no caller may read-modify-write
	// a balance around it. Failure modes: apperrors.ErrNotFound,
	// apperrors.ErrVersionConflict, apperrors.ErrInsufficientFunds.
	TryMutateBalance(ctx context.Context, accountID string, expectedVersion int64, delta int64) (*domain.BalanceMutation, error)
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
