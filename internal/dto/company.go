package dto

import (
	"time"

	"github.com/rentops/ledger_backend/internal/core/domain"
)

// UpdateCompanyRequest patches the authenticated user's company.
type UpdateCompanyRequest struct {
	Name string `json:"name" binding:"required"`
}

// CompanyResponse is a company in API responses.
type CompanyResponse struct {
	CompanyID string    `json:"companyID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToCompanyResponse converts a domain company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID: c.CompanyID,
		Name:      c.Name,
		CreatedAt: c.CreatedAt,
	}
}
