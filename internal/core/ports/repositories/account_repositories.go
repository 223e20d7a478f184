package ports

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for chart-of-accounts rows.
type AccountReader interface {
	// FindAccountByCode returns the account with the given code scoped to
	// the company. Returns apperrors.ErrNotFound when absent.
	FindAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)
	// FindAccountsByCodes returns the accounts matching codes. Missing
	// codes are simply absent from the result.
	FindAccountsByCodes(ctx context.Context, companyID string, codes []string) (map[string]domain.Account, error)
	// ListAccounts returns the company's chart of accounts ordered by code.
	ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts rows.
type AccountWriter interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	UpdateAccount(ctx context.Context, account *domain.Account) error
	// FindAccountsByCodesForUpdate locks the matching rows FOR UPDATE in
	// the caller's transaction and returns them keyed by code.
	FindAccountsByCodesForUpdate(ctx context.Context, tx pgx.Tx, companyID string, codes []string) (map[string]domain.Account, error)
	// UpdateAccountBalancesInTx applies signed deltas keyed by account
	// code within the caller's transaction.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, companyID string, changes map[string]decimal.Decimal) error
}

// AccountRepositoryFacade is the combined account repository interface.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
