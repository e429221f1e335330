package pgsql

import (
	"context"
	"fmt"

	"github.com/mobilebank/ledger_backend/internal/apperrors"
	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxEntryRepository struct {
	pool *pgxpool.Pool
}

// newPgxEntryRepository creates a new repository for transaction log data.
func newPgxEntryRepository(pool *pgxpool.Pool) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{pool: pool}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

// AppendEntry inserts the entry; sequence comes from the BIGSERIAL and the
// timestamp from the database clock, so both are assigned at commit time.
func (r *PgxEntryRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	query := `
		INSERT INTO ledger_entries (sender_ref, receiver_ref, amount, kind, created_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING sequence, created_at;
	`
	err := r.pool.QueryRow(ctx, query,
		entry.SenderRef,
		entry.ReceiverRef,
		entry.Amount,
		entry.Kind,
	).Scan(&entry.Sequence, &entry.Timestamp)
	if err != nil {
		return nil, fmt.Errorf("%w: append ledger entry: %v", apperrors.ErrStorageFatal, err)
	}
	return &entry, nil
}

func scanEntries(rows pgx.Rows) ([]domain.LedgerEntry, error) {
	defer rows.Close()

	entries := make([]domain.LedgerEntry, 0)
	for rows.Next() {
		var e domain.LedgerEntry
		if err := rows.Scan(&e.Sequence, &e.SenderRef, &e.ReceiverRef, &e.Amount, &e.Kind, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entry rows: %w", err)
	}
	return entries, nil
}

// FindEntriesByParticipant returns entries where participantRef is sender or
// receiver, newest first (timestamp desc, sequence desc on ties).
func (r *PgxEntryRepository) FindEntriesByParticipant(ctx context.Context, participantRef string, kind *domain.EntryKind) ([]domain.LedgerEntry, error) {
	query := `
		SELECT sequence, sender_ref, receiver_ref, amount, kind, created_at
		FROM ledger_entries
		WHERE (sender_ref = $1 OR receiver_ref = $1)
		  AND ($2::text IS NULL OR kind = $2)
		ORDER BY created_at DESC, sequence DESC;
	`
	var kindArg *string
	if kind != nil {
		s := string(*kind)
		kindArg = &s
	}
	rows, err := r.pool.Query(ctx, query, participantRef, kindArg)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for %s: %w", participantRef, err)
	}
	return scanEntries(rows)
}

// ListEntries returns the full log in ascending sequence order.
func (r *PgxEntryRepository) ListEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	query := `
		SELECT sequence, sender_ref, receiver_ref, amount, kind, created_at
		FROM ledger_entries
		ORDER BY sequence ASC;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	return scanEntries(rows)
}
