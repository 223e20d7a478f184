package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/rentops/ledger_backend/internal/middleware"
	"github.com/rentops/ledger_backend/internal/utils"
)

type userService struct {
	userRepo portsrepo.UserRepositoryFacade
}

// NewUserService creates the user registration and lookup service.
func NewUserService(userRepo portsrepo.UserRepositoryFacade) portssvc.UserService {
	return &userService{userRepo: userRepo}
}

// Ensure userService implements portssvc.UserService
var _ portssvc.UserService = (*userService)(nil)

// RegisterUser creates a new company together with its first user. The
// user becomes the company's audit author for both rows.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.userRepo.FindUserByUsername(ctx, req.Username); err == nil {
		return nil, apperrors.NewConflictError("username already taken")
	} else if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	userID := uuid.NewString()
	company := &domain.Company{
		CompanyID: uuid.NewString(),
		Name:      req.CompanyName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	user := &domain.User{
		UserID:       userID,
		CompanyID:    company.CompanyID,
		Username:     req.Username,
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: hash,
		AuthProvider: domain.ProviderLocal,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	// One transaction: a losing duplicate-username race must not leave an
	// orphan company behind.
	if err := s.userRepo.CreateUserWithCompany(ctx, company, user); err != nil {
		return nil, err
	}

	logger.Info("User registered", "user_id", user.UserID, "company_id", company.CompanyID)
	return user, nil
}

// GetUserByID returns one user.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// AuthenticateUser checks local credentials. Lookup failure and password
// mismatch return the same error so usernames cannot be probed.
func (s *userService) AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewUnauthorizedError("invalid username or password")
		}
		return nil, err
	}
	if user.AuthProvider != domain.ProviderLocal || !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, apperrors.NewUnauthorizedError("invalid username or password")
	}
	return user, nil
}

// GetOrCreateGoogleUser resolves a verified Google identity to a user,
// provisioning a fresh company and user on first login.
func (s *userService) GetOrCreateGoogleUser(ctx context.Context, providerUserID string, email string, name string, emailVerified bool) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	user, err := s.userRepo.FindUserByProviderID(ctx, domain.ProviderGoogle, providerUserID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	now := time.Now()
	userID := uuid.NewString()
	company := &domain.Company{
		CompanyID: uuid.NewString(),
		Name:      fmt.Sprintf("%s's company", name),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	user = &domain.User{
		UserID:         userID,
		CompanyID:      company.CompanyID,
		Username:       email,
		Email:          email,
		Name:           name,
		AuthProvider:   domain.ProviderGoogle,
		ProviderUserID: providerUserID,
		EmailVerified:  emailVerified,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.userRepo.CreateUserWithCompany(ctx, company, user); err != nil {
		return nil, err
	}

	logger.Info("Google user provisioned", "user_id", user.UserID, "company_id", company.CompanyID)
	return user, nil
}
