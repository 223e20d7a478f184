package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires all pgsql repositories over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) *portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(pool)
	companyRepo := newPgxCompanyRepository(pool)
	return &portsrepo.RepositoryProvider{
		EntryRepo:   newPgxEntryRepository(pool, accountRepo),
		AccountRepo: accountRepo,
		UserRepo:    newPgxUserRepository(pool, companyRepo),
		CompanyRepo: companyRepo,
	}
}
