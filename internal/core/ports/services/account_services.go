package services

import (
	"context"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
	"github.com/mobilebank/ledger_backend/internal/dto"
)

// AccountSvcFacade defines account lifecycle and credential operations.
// Plaintext passwords cross this boundary only on Register and Authenticate;
// they are hashed immediately and never stored or logged.
type AccountSvcFacade interface {
	// Register creates a new account with the configured initial grant.
	// Returns apperrors.ErrDuplicate if the username is taken.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error)

	// Authenticate verifies a username/password pair.
	// Returns apperrors.ErrInvalidCredentials on mismatch or unknown username.
	Authenticate(ctx context.Context, username, password string) (*domain.Account, error)

	// GetAccountByUsername resolves an account by its login handle.
	GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error)

	// ListAccounts returns all accounts for the admin surface.
	ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error)
}
