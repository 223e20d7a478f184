package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

type accountService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates the chart-of-accounts service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountService {
	return &accountService{accountRepo: accountRepo}
}

// Ensure accountService implements portssvc.AccountService
var _ portssvc.AccountService = (*accountService)(nil)

// CreateAccount adds an account to the company's chart of accounts. The
// code must be unique within the company.
func (s *accountService) CreateAccount(ctx context.Context, companyID string, userID string, req dto.CreateAccountRequest) (*domain.Account, error) {
	now := time.Now()
	account := &domain.Account{
		AccountID:      uuid.NewString(),
		CompanyID:      companyID,
		Code:           req.Code,
		Name:           req.Name,
		NormalBalance:  domain.NormalBalance(req.NormalBalance),
		Description:    req.Description,
		IsActive:       true,
		CurrentBalance: decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.CreateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccountByCode returns one account.
func (s *accountService) GetAccountByCode(ctx context.Context, companyID string, code string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", code, err)
	}
	return account, nil
}

// ListAccounts returns the company's chart of accounts ordered by code.
func (s *accountService) ListAccounts(ctx context.Context, companyID string, includeInactive bool) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx, companyID, includeInactive)
}

// UpdateAccount patches an account's name, description or active flag.
func (s *accountService) UpdateAccount(ctx context.Context, companyID string, userID string, code string, req dto.UpdateAccountRequest) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Description != nil {
		account.Description = *req.Description
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccount(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// DeactivateAccount soft-disables an account. Posted history keeps pointing
// at it; only new entries are blocked.
func (s *accountService) DeactivateAccount(ctx context.Context, companyID string, userID string, code string) error {
	account, err := s.accountRepo.FindAccountByCode(ctx, companyID, code)
	if err != nil {
		return err
	}
	if !account.IsActive {
		return apperrors.NewConflictError(fmt.Sprintf("account %s is already inactive", code))
	}

	account.IsActive = false
	account.LastUpdatedAt = time.Now()
	account.LastUpdatedBy = userID
	return s.accountRepo.UpdateAccount(ctx, account)
}
