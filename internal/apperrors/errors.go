package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrInvalidCredentials indicates that a username/password pair did not verify.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidAmount indicates a non-positive monetary amount.
var ErrInvalidAmount = errors.New("amount must be a positive number of minor units")

// ErrInsufficientFunds indicates the paying account cannot cover the amount.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidOperation indicates an operation that is structurally invalid,
// e.g. a transfer where sender and receiver are the same account.
var ErrInvalidOperation = errors.New("invalid operation")

// ErrVersionConflict indicates an optimistic balance mutation lost the race:
// the account version changed between read and write. Callers retry.
var ErrVersionConflict = errors.New("account version conflict")

// ErrContention indicates the retry budget for version conflicts was exhausted.
var ErrContention = errors.New("operation aborted due to contention")

// ErrStorageFatal indicates the underlying store failed in a way the ledger
// cannot recover from locally.
var ErrStorageFatal = errors.New("storage failure")
