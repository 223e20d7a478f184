package ports

import (
	"context"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/rentops/ledger_backend/internal/dto"
)

// UserService manages registration and user lookup.
type UserService interface {
	// RegisterUser creates a company and its first user in one call.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error)
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)
	// AuthenticateUser checks local credentials and returns the user.
	AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error)
	// GetOrCreateGoogleUser finds the user for a verified Google identity,
	// creating company and user on first login.
	GetOrCreateGoogleUser(ctx context.Context, providerUserID string, email string, name string, emailVerified bool) (*domain.User, error)
}
