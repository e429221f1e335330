package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
)

// MemAccountRepository is a mutex-guarded in-memory account store. It is the
// default backend when no database is configured and the substrate for the
// concurrency tests. All invariants of the port contract hold: the
// username-uniqueness check is atomic with the insert, and TryMutateBalance is
// the only path that touches balance/version.
type MemAccountRepository struct {
	mu         sync.RWMutex
	accounts   map[string]*domain.Account // keyed by AccountID
	byUsername map[string]string          // username -> AccountID
}

// NewMemAccountRepository creates an empty in-memory account store.
func NewMemAccountRepository() *MemAccountRepository {
	return &MemAccountRepository{
		accounts:   make(map[string]*domain.Account),
		byUsername: make(map[string]string),
	}
}

// Ensure MemAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*MemAccountRepository)(nil)

// SaveAccount persists a new account. Check-then-insert happens under one
// critical section, so two concurrent registrations of the same username
// cannot both succeed.
func (r *MemAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byUsername[account.Username]; taken {
		return fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, account.Username)
	}
	if _, exists := r.accounts[account.AccountID]; exists {
		return fmt.Errorf("%w: account ID %s", apperrors.ErrDuplicate, account.AccountID)
	}

	cp := account
	r.accounts[cp.AccountID] = &cp
	r.byUsername[cp.Username] = cp.AccountID
	return nil
}

// FindAccountByID retrieves an account snapshot by its stable identifier.
func (r *MemAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *acc
	return &cp, nil
}

// FindAccountByUsername retrieves an account snapshot by username.
func (r *MemAccountRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byUsername[username]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	cp := *r.accounts[id]
	return &cp, nil
}

// ListAccounts returns account snapshots ordered by username.
func (r *MemAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]domain.Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		all = append(all, *acc)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Username < all[j].Username })

	if offset >= len(all) {
		return []domain.Account{}, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], nil
}

// TryMutateBalance applies delta iff the stored version equals expectedVersion
// and the resulting balance stays non-negative. Version check, balance check
// and write share one critical section, so a stale caller can never clobber a
// concurrent mutation.
func (r *MemAccountRepository) TryMutateBalance(ctx context.Context, accountID string, expectedVersion int64, delta int64) (*domain.BalanceMutation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	acc, ok := r.accounts[accountID]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	if acc.Version != expectedVersion {
		return nil, apperrors.ErrVersionConflict
	}
	if acc.Balance+delta < 0 {
		return nil, apperrors.ErrInsufficientFunds
	}

	acc.Balance += delta
	acc.Version++
	acc.LastUpdatedAt = time.Now().UTC()

	return &domain.BalanceMutation{NewBalance: acc.Balance, NewVersion: acc.Version}, nil
}
