package services

import (
	portsrepo "github.com/mobilebank/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/mobilebank/ledger_backend/internal/core/ports/services"
	"github.com/mobilebank/ledger_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Account: NewAccountService(repos.AccountRepo, cfg.InitialGrantUnits),
		Ledger:  NewLedgerService(repos.AccountRepo, repos.EntryRepo),
		History: NewHistoryService(repos.AccountRepo, repos.EntryRepo),
	}
}
