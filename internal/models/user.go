package models

import "time"

// User is the persistence model for users rows.
type User struct {
	UserID         string `json:"userID" db:"user_id"`
	CompanyID      string `json:"companyID" db:"company_id"`
	Username       string `json:"username" db:"username"`
	Email          string `json:"email" db:"email"`
	Name           string `json:"name" db:"name"`
	PasswordHash   string `json:"-" db:"password_hash"`
	AuthProvider   string `json:"authProvider" db:"auth_provider"`
	ProviderUserID string `json:"-" db:"provider_user_id"`
	EmailVerified  bool   `json:"emailVerified" db:"email_verified"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty" db:"deleted_at"`
}
