package repositories

import (
	"context"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
)

// EntryWriter defines the append path of the transaction log.
type EntryWriter interface {
	// AppendEntry assigns the next sequence number and the commit timestamp,
	// then persists the entry. The returned entry carries both. Timestamps are
	// non-decreasing with sequence. The only failure mode is a fatal storage
	// error, which is propagated, not recovered locally.
	AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)
}

// EntryReader defines read-only projections over the transaction log.
// Entries are immutable once appended, so readers need no synchronization
// against concurrent appends; a read may simply miss entries appended after
// it began.
type EntryReader interface {
	// FindEntriesByParticipant returns entries where participantRef equals the
	// sender or the receiver, optionally restricted to one kind, sorted by
	// timestamp descending with ties broken by sequence descending. Each call
	// re-executes the query; there is no hidden cursor state.
	FindEntriesByParticipant(ctx context.Context, participantRef string, kind *domain.EntryKind) ([]domain.LedgerEntry, error)

	// ListEntries returns the full log in ascending sequence order.
	ListEntries(ctx context.Context) ([]domain.LedgerEntry, error)
}

// EntryRepositoryFacade combines the transaction log interfaces.
type EntryRepositoryFacade interface {
	EntryWriter
	EntryReader
}
