package ports

import (
	"context"

	"github.com/rentops/ledger_backend/internal/core/domain"
)

// UserReader defines read operations for users.
type UserReader interface {
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindUserByProviderID looks up a federated identity.
	FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	CreateUser(ctx context.Context, user *domain.User) error
	// CreateUserWithCompany inserts a new tenant and its first user in one
	// transaction, so a losing duplicate-username race leaves no orphan
	// company behind.
	CreateUserWithCompany(ctx context.Context, company *domain.Company, user *domain.User) error
	UpdateUser(ctx context.Context, user *domain.User) error
}

// UserRepositoryFacade is the combined user repository interface.
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
