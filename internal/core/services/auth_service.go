package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/platform/config"
	"github.com/rentops/ledger_backend/internal/utils"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"
)

// tokenService issues and validates the application's access tokens.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenService {
	return &tokenService{cfg: cfg}
}

// Ensure tokenService implements portssvc.TokenService
var _ portssvc.TokenService = (*tokenService)(nil)

// GenerateAccessToken creates a new JWT access token carrying the user and
// company identity.
func (s *tokenService) GenerateAccessToken(userID string, companyID string) (string, time.Duration, error) {
	accessToken, err := utils.GenerateJWT(userID, companyID, s.cfg.JWTSecret, s.cfg.JWTExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", 0, fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, s.cfg.JWTExpiryDuration, nil
}

// ValidateAccessToken parses and validates a token string.
func (s *tokenService) ValidateAccessToken(tokenString string) (*utils.LedgerClaims, error) {
	return utils.ParseAndValidateJWT(tokenString, s.cfg.JWTSecret)
}

// googleOAuthService wraps the Google authorization-code login flow.
type googleOAuthService struct {
	cfg          *config.Config
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthService creates a new instance of googleOAuthService.
func NewGoogleOAuthService(cfg *config.Config) portssvc.GoogleOAuthService {
	return &googleOAuthService{
		cfg: cfg,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

// Ensure googleOAuthService implements portssvc.GoogleOAuthService
var _ portssvc.GoogleOAuthService = (*googleOAuthService)(nil)

// GetAuthCodeURL returns the consent screen URL for the given CSRF state.
func (s *googleOAuthService) GetAuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// ExchangeCodeForToken exchanges an OAuth authorization code for a token.
func (s *googleOAuthService) ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error) {
	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}
	return token, nil
}

// ValidateGoogleIDToken validates an ID token received from Google and
// returns the verified payload.
func (s *googleOAuthService) ValidateGoogleIDToken(ctx context.Context, rawIDToken string) (*idtoken.Payload, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	payload, err := idtoken.Validate(ctx, rawIDToken, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}
	return payload, nil
}
