package services

import (
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/platform/config"
)

// NewServiceContainer wires all services over the repository provider.
func NewServiceContainer(cfg *config.Config, repos *portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		LedgerSvc:      NewLedgerService(repos.EntryRepo, repos.AccountRepo),
		AccountSvc:     NewAccountService(repos.AccountRepo),
		UserSvc:        NewUserService(repos.UserRepo),
		CompanySvc:     NewCompanyService(repos.CompanyRepo),
		TokenSvc:       NewTokenService(cfg),
		GoogleOAuthSvc: NewGoogleOAuthService(cfg),
	}
}
