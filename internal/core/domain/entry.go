package domain

import "time"

// EntryKind classifies a ledger entry by the operation that produced it.
type EntryKind string

const (
	EntryDeposit  EntryKind = "deposit"
	EntryWithdraw EntryKind = "withdraw"
	EntryTransfer EntryKind = "transfer"
)

// Sentinel counterparty references for entries whose money enters or leaves
// the system. They are reserved identifiers, never valid account IDs.
const (
	ExternalBank = "BANK" // source of deposits
	ExternalATM  = "ATM"  // sink of withdrawals
)

// LedgerEntry is one immutable record in the append-only transaction log.
//
// Sequence is assigned by the store on append and is strictly increasing
// across the whole log; Timestamp is non-decreasing with Sequence. Amount is
// always positive, in minor currency units; the direction of the money flow
// is carried by the sender/receiver pair, not by the sign.
type LedgerEntry struct {
	Sequence    int64     `json:"sequence"`
	SenderRef   string    `json:"senderRef"`   // account ID or ExternalBank
	ReceiverRef string    `json:"receiverRef"` // account ID or ExternalATM
	Amount      int64     `json:"amount"`
	Kind        EntryKind `json:"kind"`
	Timestamp   time.Time `json:"timestamp"`
}

// ValidKind reports whether k is one of the known entry kinds.
func ValidKind(k EntryKind) bool {
	switch k {
	case EntryDeposit, EntryWithdraw, EntryTransfer:
		return true
	}
	return false
}
