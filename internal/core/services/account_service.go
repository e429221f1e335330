package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/dto"
	"github.com/mobilebank/ledger_backend/internal/utils"
	"github.com/google/uuid"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo       portsrepo.AccountRepositoryFacade
	initialGrantUnits int64
}

// NewAccountService creates a new account service. initialGrantUnits is the
// fixed starting balance credited to every new account, in minor units.
func NewAccountService(repo portsrepo.AccountRepositoryFacade, initialGrantUnits int64) portssvc.AccountSvcFacade {
	return &accountService{
		accountRepo:       repo,
		initialGrantUnits: initialGrantUnits,
	}
}

// Ensure accountService implements the AccountSvcFacade interface
var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.Account, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "Failed to hash password")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:     uuid.NewString(),
		Username:      req.Username,
		Email:         req.Email,
		Mobile:        req.Mobile,
		PasswordHash:  hash,
		Balance:       s.initialGrantUnits,
		Version:       0,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}

	// The repository's unique constraint is the authority on username
	// uniqueness; a pre-check here would race with concurrent registrations.
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			s.LogWarn(ctx, "Registration rejected, username taken",
				slog.String("username", req.Username))
			return nil, err
		}
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account registered",
		slog.String("account_id", account.AccountID),
		slog.String("username", account.Username),
		slog.Int64("initial_grant", account.Balance))
	return &account, nil
}

func (s *accountService) Authenticate(ctx context.Context, username, password string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Same failure as a bad password so callers cannot probe usernames.
			return nil, apperrors.ErrInvalidCredentials
		}
		s.LogError(ctx, err, "Failed to look up account for login",
			slog.String("username", username))
		return nil, err
	}

	if !utils.CheckPasswordHash(password, account.PasswordHash) {
		s.LogWarn(ctx, "Login failed, password mismatch",
			slog.String("username", username))
		return nil, apperrors.ErrInvalidCredentials
	}

	return account, nil
}

func (s *accountService) GetAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by username",
				slog.String("username", username))
		}
		return nil, err
	}
	return account, nil
}

func (s *accountService) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccounts(ctx, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts",
			slog.Int("limit", limit), slog.Int("offset", offset))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}
