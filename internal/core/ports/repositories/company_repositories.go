package ports

import (
	"context"

	"github.com/rentops/ledger_backend/internal/core/domain"
)

// CompanyReader defines read operations for companies.
type CompanyReader interface {
	FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error)
}

// CompanyWriter defines write operations for companies.
type CompanyWriter interface {
	CreateCompany(ctx context.Context, company *domain.Company) error
	UpdateCompany(ctx context.Context, company *domain.Company) error
}

// CompanyRepositoryFacade is the combined company repository interface.
type CompanyRepositoryFacade interface {
	CompanyReader
	CompanyWriter
}
