package repositories

// RepositoryProvider bundles the concrete repositories handed to the service
// layer. Both the pgsql and the in-memory backends produce one of these, so
// the services never know which store they run on.
type RepositoryProvider struct {
	AccountRepo AccountRepositoryFacade
	EntryRepo   EntryRepositoryFacade
}
