package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
)

// MemEntryRepository is an append-only in-memory transaction log. Entries are
// immutable once appended; reads copy out of the slice, so a reader may miss
// entries appended after the read began but never observes a torn entry.
type MemEntryRepository struct {
	mu      sync.RWMutex
	entries []domain.LedgerEntry
	nextSeq int64
	lastTS  time.Time
}

// NewMemEntryRepository creates an empty in-memory transaction log.
func NewMemEntryRepository() *MemEntryRepository {
	return &MemEntryRepository{}
}

// Ensure MemEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*MemEntryRepository)(nil)

// AppendEntry assigns the next sequence number and the commit timestamp.
// Timestamps are clamped to be non-decreasing with sequence so that the
// (timestamp, sequence) sort order matches the append order even if the wall
// clock steps backwards.
func (r *MemEntryRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextSeq++
	entry.Sequence = r.nextSeq

	ts := time.Now().UTC()
	if ts.Before(r.lastTS) {
		ts = r.lastTS
	}
	r.lastTS = ts
	entry.Timestamp = ts

	r.entries = append(r.entries, entry)
	return &entry, nil
}

// FindEntriesByParticipant returns entries where participantRef is the sender
// or the receiver, newest first.
func (r *MemEntryRepository) FindEntriesByParticipant(ctx context.Context, participantRef string, kind *domain.EntryKind) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]domain.LedgerEntry, 0)
	for _, e := range r.entries {
		if e.SenderRef != participantRef && e.ReceiverRef != participantRef {
			continue
		}
		if kind != nil && e.Kind != *kind {
			continue
		}
		matched = append(matched, e)
	}

	// Timestamp descending, ties broken by sequence descending.
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].Timestamp.Equal(matched[j].Timestamp) {
			return matched[i].Timestamp.After(matched[j].Timestamp)
		}
		return matched[i].Sequence > matched[j].Sequence
	})
	return matched, nil
}

// ListEntries returns the full log in ascending sequence order.
func (r *MemEntryRepository) ListEntries(ctx context.Context) ([]domain.LedgerEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.LedgerEntry, len(r.entries))
	copy(out, r.entries)
	return out, nil
}
