package domain

import "time"

// Account represents a customer account within the core domain.
// This is the primary representation used by services.
//
// Balance is an integer count of minor currency units (e.g. cents); floating
// point is never used for money. Version is a monotonically increasing counter
// bumped on every committed balance mutation and is the basis of the
// optimistic-concurrency check in the store's TryMutateBalance.
type Account struct {
	AccountID     string    `json:"accountID"` // Primary Key (UUID), stable; never the mutable username
	Username      string    `json:"username"`  // Unique, case-sensitive login handle
	Email         string    `json:"email"`
	Mobile        string    `json:"mobile"`
	PasswordHash  string    `json:"-"` // bcrypt hash; never serialized
	Balance       int64     `json:"balance"`
	Version       int64     `json:"version"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// BalanceMutation reports the outcome of a successful compare-and-mutate on an
// account balance.
type BalanceMutation struct {
	NewBalance int64
	NewVersion int64
}
