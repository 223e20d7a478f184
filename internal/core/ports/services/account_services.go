package ports

import (
	"context"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/rentops/ledger_backend/internal/dto"
)

// AccountService manages the company's chart of accounts.
type AccountService interface {
	CreateAccount(ctx context.Context, companyID string, userID string, req dto.CreateAccountRequest) (*domain.Account, error)
	GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error)
	UpdateAccount(ctx context.Context, companyID string, userID string, code string, req dto.UpdateAccountRequest) (*domain.Account, error)
	// DeactivateAccount soft-disables an account so new entries cannot use
	// it. Historical entries keep referencing it.
	DeactivateAccount(ctx context.Context, companyID string, userID string, code string) error
}
