package ports

import (
	"context"
	"time"

	"github.com/rentops/ledger_backend/internal/utils"
	"golang.org/x/oauth2"
	"google.golang.org/api/idtoken"
)

// TokenService issues and validates the application's access tokens.
type TokenService interface {
	GenerateAccessToken(userID string, companyID string) (string, time.Duration, error)
	ValidateAccessToken(tokenString string) (*utils.LedgerClaims, error)
}

// GoogleOAuthService wraps the Google code-exchange login flow.
type GoogleOAuthService interface {
	// GetAuthCodeURL builds the consent screen URL for the given state.
	GetAuthCodeURL(state string) string
	// ExchangeCodeForToken swaps an authorization code for Google tokens.
	ExchangeCodeForToken(ctx context.Context, code string) (*oauth2.Token, error)
	// ValidateGoogleIDToken verifies the ID token audience and signature.
	ValidateGoogleIDToken(ctx context.Context, rawIDToken string) (*idtoken.Payload, error)
}
