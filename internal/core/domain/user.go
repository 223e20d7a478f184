package domain

import "time"

// AuthProvider identifies how a user authenticates.
type AuthProvider string

const (
	ProviderLocal  AuthProvider = "LOCAL"
	ProviderGoogle AuthProvider = "GOOGLE"
)

// User represents an application user. Every user belongs to exactly one
// company; the company ID is carried in the JWT and scopes all queries.
type User struct {
	UserID         string       `json:"userID"`
	CompanyID      string       `json:"companyID"`
	Username       string       `json:"username"`
	Email          string       `json:"email"`
	Name           string       `json:"name"`
	PasswordHash   string       `json:"-"`
	AuthProvider   AuthProvider `json:"authProvider"`
	ProviderUserID string       `json:"-"` // External subject for OAuth users
	EmailVerified  bool         `json:"emailVerified"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}
