package services_test

import (
	"context"
	"testing"

	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	"github.com/rentops/ledger_backend/internal/core/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/rentops/ledger_backend/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock UserRepository ---
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindUserByID(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) FindUserByProviderID(ctx context.Context, provider domain.AuthProvider, providerUserID string) (*domain.User, error) {
	args := m.Called(ctx, provider, providerUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepository) CreateUserWithCompany(ctx context.Context, company *domain.Company, user *domain.User) error {
	args := m.Called(ctx, company, user)
	return args.Error(0)
}
func (m *MockUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

var _ portsrepo.UserRepositoryFacade = (*MockUserRepository)(nil)

func registerRequest() dto.RegisterUserRequest {
	return dto.RegisterUserRequest{
		Username:    "ada",
		Email:       "ada@example.com",
		Name:        "Ada",
		Password:    "correct-horse-battery",
		CompanyName: "Analytical Engines Ltd",
	}
}

func TestRegisterUser_CreatesCompanyAndUserAtomically(t *testing.T) {
	repo := new(MockUserRepository)
	svc := services.NewUserService(repo)

	repo.On("FindUserByUsername", mock.Anything, "ada").Return(nil, apperrors.ErrNotFound)
	repo.On("CreateUserWithCompany", mock.Anything, mock.AnythingOfType("*domain.Company"), mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.RegisterUser(context.Background(), registerRequest())

	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, domain.ProviderLocal, user.AuthProvider)
	assert.True(t, utils.CheckPasswordHash("correct-horse-battery", user.PasswordHash))

	// Both rows travel through the one transactional repository call, with
	// the user already pointing at the new company.
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	company := repo.Calls[1].Arguments.Get(1).(*domain.Company)
	assert.Equal(t, "Analytical Engines Ltd", company.Name)
	assert.Equal(t, company.CompanyID, user.CompanyID)
	assert.Equal(t, user.UserID, company.CreatedBy)
}

func TestRegisterUser_DuplicateUsernameRace(t *testing.T) {
	repo := new(MockUserRepository)
	svc := services.NewUserService(repo)

	// The pre-check sees no user, but a concurrent registration wins the
	// unique index inside the transactional create.
	repo.On("FindUserByUsername", mock.Anything, "ada").Return(nil, apperrors.ErrNotFound)
	repo.On("CreateUserWithCompany", mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewConflictError("username or email already taken"))

	user, err := svc.RegisterUser(context.Background(), registerRequest())

	require.Error(t, err)
	assert.Nil(t, user)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

func TestRegisterUser_UsernameAlreadyTaken(t *testing.T) {
	repo := new(MockUserRepository)
	svc := services.NewUserService(repo)

	repo.On("FindUserByUsername", mock.Anything, "ada").Return(&domain.User{UserID: "other"}, nil)

	_, err := svc.RegisterUser(context.Background(), registerRequest())

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "CreateUserWithCompany", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrCreateGoogleUser_ExistingUser(t *testing.T) {
	repo := new(MockUserRepository)
	svc := services.NewUserService(repo)

	existing := &domain.User{UserID: "u1", AuthProvider: domain.ProviderGoogle, ProviderUserID: "g-123"}
	repo.On("FindUserByProviderID", mock.Anything, domain.ProviderGoogle, "g-123").Return(existing, nil)

	user, err := svc.GetOrCreateGoogleUser(context.Background(), "g-123", "ada@example.com", "Ada", true)

	require.NoError(t, err)
	assert.Equal(t, "u1", user.UserID)
	repo.AssertNotCalled(t, "CreateUserWithCompany", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetOrCreateGoogleUser_ProvisionsAtomically(t *testing.T) {
	repo := new(MockUserRepository)
	svc := services.NewUserService(repo)

	repo.On("FindUserByProviderID", mock.Anything, domain.ProviderGoogle, "g-123").Return(nil, apperrors.ErrNotFound)
	repo.On("CreateUserWithCompany", mock.Anything, mock.AnythingOfType("*domain.Company"), mock.AnythingOfType("*domain.User")).Return(nil)

	user, err := svc.GetOrCreateGoogleUser(context.Background(), "g-123", "ada@example.com", "Ada", true)

	require.NoError(t, err)
	assert.Equal(t, domain.ProviderGoogle, user.AuthProvider)
	assert.Equal(t, "g-123", user.ProviderUserID)

	company := repo.Calls[1].Arguments.Get(1).(*domain.Company)
	assert.Equal(t, "Ada's company", company.Name)
	assert.Equal(t, company.CompanyID, user.CompanyID)
	repo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}
