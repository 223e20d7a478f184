package dto

import (
	"time"

	"github.com/rentops/ledger_backend/internal/core/domain"
)

// RegisterUserRequest creates a new company together with its first user.
type RegisterUserRequest struct {
	Username    string `json:"username" binding:"required,min=3"`
	Email       string `json:"email" binding:"required,email"`
	Name        string `json:"name" binding:"required"`
	Password    string `json:"password" binding:"required,min=8"`
	CompanyName string `json:"companyName" binding:"required"`
}

// LoginRequest is the payload for local credential login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// GoogleLoginRequest carries the authorization code from the OAuth redirect.
type GoogleLoginRequest struct {
	Code string `json:"code" binding:"required"`
}

// LoginResponse returns the access token and the authenticated user.
type LoginResponse struct {
	AccessToken string       `json:"accessToken"`
	User        UserResponse `json:"user"`
}

// UserResponse is a user in API responses. The password hash never leaves
// the service layer.
type UserResponse struct {
	UserID    string    `json:"userID"`
	CompanyID string    `json:"companyID"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToUserResponse converts a domain user to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:    u.UserID,
		CompanyID: u.CompanyID,
		Username:  u.Username,
		Email:     u.Email,
		Name:      u.Name,
		CreatedAt: u.CreatedAt,
	}
}
