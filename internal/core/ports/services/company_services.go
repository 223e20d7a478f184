package ports

import (
	"context"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/rentops/ledger_backend/internal/dto"
)

// CompanyService manages the authenticated user's company.
type CompanyService interface {
	GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
	UpdateCompany(ctx context.Context, companyID string, userID string, req dto.UpdateCompanyRequest) (*domain.Company, error)
}
