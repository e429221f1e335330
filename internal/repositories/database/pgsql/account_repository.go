package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) portsrepo.AccountRepositoryFacade {
	return &PgxAccountRepository{pool: pool}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

const accountColumns = `account_id, username, email, mobile, password_hash, balance, version, created_at, last_updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var acc domain.Account
	err := row.Scan(
		&acc.AccountID,
		&acc.Username,
		&acc.Email,
		&acc.Mobile,
		&acc.PasswordHash,
		&acc.Balance,
		&acc.Version,
		&acc.CreatedAt,
		&acc.LastUpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan account row: %w", err)
	}
	return &acc, nil
}

// SaveAccount inserts a new account. The unique index on username makes the
// check-then-insert atomic; a concurrent duplicate surfaces as code 23505.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	query := `
		INSERT INTO accounts (account_id, username, email, mobile, password_hash, balance, version, created_at, last_updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.pool.Exec(ctx, query,
		account.AccountID,
		account.Username,
		account.Email,
		account.Mobile,
		account.PasswordHash,
		account.Balance,
		account.Version,
		account.CreatedAt,
		account.LastUpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique violation
			return fmt.Errorf("%w: username %q", apperrors.ErrDuplicate, account.Username)
		}
		return fmt.Errorf("failed to save account %s: %w", account.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its stable identifier.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1;`
	return scanAccount(r.pool.QueryRow(ctx, query, accountID))
}

// FindAccountByUsername retrieves an account by its unique username.
func (r *PgxAccountRepository) FindAccountByUsername(ctx context.Context, username string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1;`
	return scanAccount(r.pool.QueryRow(ctx, query, username))
}

// ListAccounts retrieves a paginated list of accounts ordered by username.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, offset int) ([]domain.Account, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + accountColumns + ` FROM accounts ORDER BY username LIMIT $1 OFFSET $2;`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	accounts := make([]domain.Account, 0)
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// TryMutateBalance performs the compare-and-mutate in a single guarded UPDATE.
// The version predicate and the non-negative-balance predicate are evaluated
// atomically by the database, so a stale caller cannot clobber a concurrent
// mutation and a balance can never be driven below zero.
func (r *PgxAccountRepository) TryMutateBalance(ctx context.Context, accountID string, expectedVersion int64, delta int64) (*domain.BalanceMutation, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $3, version = version + 1, last_updated_at = $4
		WHERE account_id = $1 AND version = $2 AND balance + $3 >= 0
		RETURNING balance, version;
	`
	var result domain.BalanceMutation
	err := r.pool.QueryRow(ctx, query, accountID, expectedVersion, delta, time.Now().UTC()).
		Scan(&result.NewBalance, &result.NewVersion)
	if err == nil {
		return &result, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: mutate balance of %s: %v", apperrors.ErrStorageFatal, accountID, err)
	}

	// No row matched the guard. Re-read to classify the failure.
	acc, ferr := r.FindAccountByID(ctx, accountID)
	if ferr != nil {
		if errors.Is(ferr, apperrors.ErrNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: classify mutation failure for %s: %v", apperrors.ErrStorageFatal, accountID, ferr)
	}
	if acc.Version != expectedVersion {
		return nil, apperrors.ErrVersionConflict
	}
	return nil, apperrors.ErrInsufficientFunds
}
