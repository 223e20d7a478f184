package services

import (
	"context"
	"time"

	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
)

type companyService struct {
	companyRepo portsrepo.CompanyRepositoryFacade
}

// NewCompanyService creates the company service.
func NewCompanyService(companyRepo portsrepo.CompanyRepositoryFacade) portssvc.CompanyService {
	return &companyService{companyRepo: companyRepo}
}

// Ensure companyService implements portssvc.CompanyService
var _ portssvc.CompanyService = (*companyService)(nil)

// GetCompanyByID returns one company.
func (s *companyService) GetCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return s.companyRepo.FindCompanyByID(ctx, companyID)
}

// UpdateCompany renames the company.
func (s *companyService) UpdateCompany(ctx context.Context, companyID string, userID string, req dto.UpdateCompanyRequest) (*domain.Company, error) {
	company, err := s.companyRepo.FindCompanyByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	company.Name = req.Name
	company.LastUpdatedAt = time.Now()
	company.LastUpdatedBy = userID

	if err := s.companyRepo.UpdateCompany(ctx, company); err != nil {
		return nil, err
	}
	return company, nil
}
