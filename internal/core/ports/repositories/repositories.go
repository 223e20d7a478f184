package ports

// RepositoryProvider bundles the repository facades handed to the service
// layer at wiring time.
type RepositoryProvider struct {
	EntryRepo   EntryRepositoryFacade
	AccountRepo AccountRepositoryFacade
	UserRepo    UserRepositoryFacade
	CompanyRepo CompanyRepositoryFacade
}
