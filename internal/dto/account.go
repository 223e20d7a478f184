package dto

import (
	"time"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the payload for creating a chart-of-accounts row.
type CreateAccountRequest struct {
	Code          string `json:"code" binding:"required"`
	Name          string `json:"name" binding:"required"`
	NormalBalance string `json:"normalBalance" binding:"required,oneof=debit credit"`
	Description   string `json:"description"`
}

// UpdateAccountRequest patches an account. Nil fields are left untouched.
// Code and NormalBalance are immutable once entries reference the account.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsActive    *bool   `json:"isActive"`
}

// AccountResponse is an account in API responses.
type AccountResponse struct {
	AccountID      string          `json:"accountID"`
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	NormalBalance  string          `json:"normalBalance"`
	Description    string          `json:"description,omitempty"`
	IsActive       bool            `json:"isActive"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:      a.AccountID,
		Code:           a.Code,
		Name:           a.Name,
		NormalBalance:  string(a.NormalBalance),
		Description:    a.Description,
		IsActive:       a.IsActive,
		CurrentBalance: a.CurrentBalance,
		CreatedAt:      a.CreatedAt,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	out := make([]AccountResponse, len(accounts))
	for i := range accounts {
		out[i] = ToAccountResponse(&accounts[i])
	}
	return out
}
