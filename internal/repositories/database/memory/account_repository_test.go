package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAccount(username string, balance int64) domain.Account {
	now := time.Now().UTC()
	return domain.Account{
		AccountID:     uuid.NewString(),
		Username:      username,
		Email:         username + "@example.com",
		Mobile:        "5550001111",
		PasswordHash:  "$2a$10$fakehashfakehashfakehash",
		Balance:       balance,
		Version:       0,
		CreatedAt:     now,
		LastUpdatedAt: now,
	}
}

func TestSaveAccount_DuplicateUsername(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveAccount(ctx, newTestAccount("alice", 1000)))

	err := repo.SaveAccount(ctx, newTestAccount("alice", 1000))
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	// Exactly one alice exists.
	acc, err := repo.FindAccountByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), acc.Balance)
}

func TestSaveAccount_ConcurrentSameUsername(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()

	const attempts = 32
	errs := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.SaveAccount(ctx, newTestAccount("bob", 500))
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
		} else {
			assert.ErrorIs(t, err, apperrors.ErrDuplicate)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one registration may win")
}

func TestFindAccount_NotFound(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()

	_, err := repo.FindAccountByID(ctx, uuid.NewString())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = repo.FindAccountByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestFindAccountByUsername_CaseSensitive(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()

	require.NoError(t, repo.SaveAccount(ctx, newTestAccount("Carol", 100)))

	_, err := repo.FindAccountByUsername(ctx, "carol")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTryMutateBalance_Success(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()
	acc := newTestAccount("dave", 1000)
	require.NoError(t, repo.SaveAccount(ctx, acc))

	res, err := repo.TryMutateBalance(ctx, acc.AccountID, 0, -300)
	require.NoError(t, err)
	assert.Equal(t, int64(700), res.NewBalance)
	assert.Equal(t, int64(1), res.NewVersion)

	// The stored snapshot reflects the mutation.
	stored, err := repo.FindAccountByID(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(700), stored.Balance)
	assert.Equal(t, int64(1), stored.Version)
}

func TestTryMutateBalance_VersionConflict(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()
	acc := newTestAccount("erin", 1000)
	require.NoError(t, repo.SaveAccount(ctx, acc))

	_, err := repo.TryMutateBalance(ctx, acc.AccountID, 0, 100)
	require.NoError(t, err)

	// Stale version: the first mutation bumped it to 1.
	_, err = repo.TryMutateBalance(ctx, acc.AccountID, 0, 100)
	assert.ErrorIs(t, err, apperrors.ErrVersionConflict)

	stored, err := repo.FindAccountByID(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(1100), stored.Balance, "conflicting mutation must not apply")
}

func TestTryMutateBalance_InsufficientFunds(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()
	acc := newTestAccount("frank", 200)
	require.NoError(t, repo.SaveAccount(ctx, acc))

	_, err := repo.TryMutateBalance(ctx, acc.AccountID, 0, -201)
	assert.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	stored, err := repo.FindAccountByID(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), stored.Balance)
	assert.Equal(t, int64(0), stored.Version, "failed mutation must not bump the version")
}

func TestTryMutateBalance_NotFound(t *testing.T) {
	repo := NewMemAccountRepository()

	_, err := repo.TryMutateBalance(context.Background(), uuid.NewString(), 0, 100)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTryMutateBalance_ConcurrentSameAccount(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()
	acc := newTestAccount("grace", 0)
	require.NoError(t, repo.SaveAccount(ctx, acc))

	// Many writers race on one account; each keeps retrying from a fresh
	// read until its increment lands. No update may be lost.
	const writers = 16
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				cur, err := repo.FindAccountByID(ctx, acc.AccountID)
				require.NoError(t, err)
				if _, err := repo.TryMutateBalance(ctx, acc.AccountID, cur.Version, 1); err == nil {
					return
				}
			}
		}()
	}
	wg.Wait()

	stored, err := repo.FindAccountByID(ctx, acc.AccountID)
	require.NoError(t, err)
	assert.Equal(t, int64(writers), stored.Balance)
	assert.Equal(t, int64(writers), stored.Version)
}

func TestListAccounts_OrderAndPagination(t *testing.T) {
	repo := NewMemAccountRepository()
	ctx := context.Background()
	for _, name := range []string{"zoe", "adam", "mia"} {
		require.NoError(t, repo.SaveAccount(ctx, newTestAccount(name, 100)))
	}

	all, err := repo.ListAccounts(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "adam", all[0].Username)
	assert.Equal(t, "mia", all[1].Username)
	assert.Equal(t, "zoe", all[2].Username)

	page, err := repo.ListAccounts(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "zoe", page[0].Username)
}
