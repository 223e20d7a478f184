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

const userColumns = `user_id, company_id, username, email, name, password_hash, auth_provider, provider_user_id, email_verified, created_at, created_by, last_updated_at, last_updated_by, deleted_at`

type PgxUserRepository struct {
	BaseRepository
	companyRepo *PgxCompanyRepository
}

func newPgxUserRepository(pool *pgxpool.Pool, companyRepo *PgxCompanyRepository) *PgxUserRepository {
	return &PgxUserRepository{
		BaseRepository: BaseRepository{Pool: pool},
		companyRepo:    companyRepo,
	}
}

// Ensure PgxUserRepository implements portsrepo.UserRepositoryFacade
var _ portsrepo.UserRepositoryFacade = (*PgxUserRepository)(nil)

func scanUser(row pgx.Row) (models.User, error) {
	var m models.User
	err := row.Scan(
		&m.UserID,
		&m.CompanyID,
		&m.Username,
		&m.Email,
		&m.Name,
		&m.PasswordHash,
		&m.AuthProvider,
		&m.ProviderUserID,
		&m.EmailVerified,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
		&m.DeletedAt,
	)
	return m, err
}

// CreateUser inserts a new user.
func (r *PgxUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	return r.insertUser(ctx, r.Pool, user)
}

// CreateUserWithCompany inserts the tenant and its first user in one
// transaction. A duplicate username or email rolls back both rows.
func (r *PgxUserRepository) CreateUserWithCompany(ctx context.Context, company *domain.Company, user *domain.User) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.companyRepo.insertCompany(ctx, tx, company); err != nil {
		return err
	}
	if err := r.insertUser(ctx, tx, user); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

func (r *PgxUserRepository) insertUser(ctx context.Context, db pgxExecutor, user *domain.User) error {
	m := mapping.ToModelUser(*user)

	query := `
		INSERT INTO users (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := db.Exec(ctx, query,
		m.UserID,
		m.CompanyID,
		m.Username,
		m.Email,
		m.Name,
		m.PasswordHash,
		m.AuthProvider,
		m.ProviderUserID,
		m.EmailVerified,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		m.DeletedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: username or email already taken", apperrors.ErrDuplicate)
		}
		return fmt.Errorf("failed to save user %s: %w", m.UserID, err)
	}
	return nil
}

func (r *PgxUserRepository) findUserWhere(ctx context.Context, clause string, args ...any) (*domain.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL AND ` + clause + `;
	`
	m, err := scanUser(r.Pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	d := mapping.ToDomainUser(m)
	return &d, nil
}

// FindUserByID retrieves a user by ID.
func (r *PgxUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return r.findUserWhere(ctx, "user_id = $1", userID)
}

// FindUserByUsername retrieves a user by username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findUserWhere(ctx, "username = $1", username)
}

// FindUserByEmail retrieves a user by email.
func (r *PgxUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findUserWhere(ctx, "email = $1", email)
}

// FindUserByProviderID retrieves a user by federated identity.
func (r *PgxUserRepository) FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	return r.findUserWhere(ctx, "auth_provider = $1 AND provider_user_id = $2", string(provider), providerUserID)
}

// UpdateUser updates a user's mutable fields.
func (r *PgxUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	m := mapping.ToModelUser(*user)

	query := `
		UPDATE users
		SET name = $2, email = $3, password_hash = $4, email_verified = $5, last_updated_at = $6, last_updated_by = $7
		WHERE user_id = $1 AND deleted_at IS NULL;
	`
	cmdTag, err := r.Pool.Exec(ctx, query,
		m.UserID,
		m.Name,
		m.Email,
		m.PasswordHash,
		m.EmailVerified,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update user %s: %w", m.UserID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
