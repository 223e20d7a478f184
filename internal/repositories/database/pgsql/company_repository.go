package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	"github.com/rentops/ledger_backend/internal/models"
	"github.com/rentops/ledger_backend/internal/utils/mapping"
)

type PgxCompanyRepository struct {
	BaseRepository
}

func newPgxCompanyRepository(pool *pgxpool.Pool) *PgxCompanyRepository {
	return &PgxCompanyRepository{BaseRepository{Pool: pool}}
}

// Ensure PgxCompanyRepository implements portsrepo.CompanyRepositoryFacade
var _ portsrepo.CompanyRepositoryFacade = (*PgxCompanyRepository)(nil)

// CreateCompany inserts a new company.
func (r *PgxCompanyRepository) CreateCompany(ctx context.Context, company *domain.Company) error {
	return r.insertCompany(ctx, r.Pool, company)
}

func (r *PgxCompanyRepository) insertCompany(ctx context.Context, db pgxExecutor, company *domain.Company) error {
	m := mapping.ToModelCompany(*company)

	query := `
		INSERT INTO companies (company_id, name, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := db.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save company %s: %w", m.CompanyID, err)
	}
	return nil
}

// FindCompanyByID retrieves a company by ID.
func (r *PgxCompanyRepository) FindCompanyByID(ctx context.Context, companyID string) (*domain.Company, error) {
	query := `
		SELECT company_id, name, created_at, created_by, last_updated_at, last_updated_by
		FROM companies
		WHERE company_id = $1;
	`
	var m models.Company
	err := r.Pool.QueryRow(ctx, query, companyID).Scan(
		&m.CompanyID,
		&m.Name,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find company %s: %w", companyID, err)
	}
	d := mapping.ToDomainCompany(m)
	return &d, nil
}

// UpdateCompany updates a company's name.
func (r *PgxCompanyRepository) UpdateCompany(ctx context.Context, company *domain.Company) error {
	m := mapping.ToModelCompany(*company)

	query := `
		UPDATE companies
		SET name = $2, last_updated_at = $3, last_updated_by = $4
		WHERE company_id = $1;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.CompanyID,
		m.Name,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update company %s: %w", m.CompanyID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
