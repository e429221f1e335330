package memory

import (
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the in-memory repositories.
func NewRepositoryProvider() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo: NewMemAccountRepository(),
		EntryRepo:   NewMemEntryRepository(),
	}
}
