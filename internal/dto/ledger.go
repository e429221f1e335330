package dto

import (
	"time"

	"github.com/mobilebank/ledger_backend/internal/core/domain"
)

// TransferRequest defines the data needed for an account-to-account transfer.
// Amount is in minor currency units. The gt=0 binding is a fast-fail; the
// coordinator re-validates before any mutation is attempted.
type TransferRequest struct {
	Sender   string `json:"sender" binding:"required"`
	Receiver string `json:"receiver" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}

// DepositRequest defines the data needed for a deposit from the bank.
type DepositRequest struct {
	Username string `json:"username" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}

// WithdrawRequest defines the data needed for an ATM withdrawal.
type WithdrawRequest struct {
	Username string `json:"username" binding:"required"`
	Amount   int64  `json:"amount" binding:"required,gt=0"`
}

// HistoryParams defines query parameters for the history endpoint.
type HistoryParams struct {
	Kind string `form:"kind" binding:"omitempty,oneof=deposit withdraw transfer"`
}

// EntryResponse defines the data returned for one ledger entry.
type EntryResponse struct {
	Sequence    int64            `json:"sequence"`
	SenderRef   string           `json:"senderRef"`
	ReceiverRef string           `json:"receiverRef"`
	Amount      int64            `json:"amount"`
	Kind        domain.EntryKind `json:"kind"`
	Timestamp   time.Time        `json:"timestamp"`
}

// ListEntriesResponse wraps a list of ledger entries.
type ListEntriesResponse struct {
	Entries []EntryResponse `json:"entries"`
}

// ToEntryResponse converts a domain.LedgerEntry to its DTO.
func ToEntryResponse(e *domain.LedgerEntry) EntryResponse {
	return EntryResponse{
		Sequence:    e.Sequence,
		SenderRef:   e.SenderRef,
		ReceiverRef: e.ReceiverRef,
		Amount:      e.Amount,
		Kind:        e.Kind,
		Timestamp:   e.Timestamp,
	}
}

// ToListEntriesResponse converts a slice of entries to the listing DTO.
func ToListEntriesResponse(entries []domain.LedgerEntry) ListEntriesResponse {
	res := make([]EntryResponse, len(entries))
	for i := range entries {
		res[i] = ToEntryResponse(&entries[i])
	}
	return ListEntriesResponse{Entries: res}
}
