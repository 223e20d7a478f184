package models

import "github.com/shopspring/decimal"

// NormalBalance mirrors domain.NormalBalance at the persistence layer.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "debit"
	CreditNormal NormalBalance = "credit"
)

// Account is the persistence model for chart_of_accounts rows.
type Account struct {
	AccountID      string          `json:"accountID" db:"account_id"`
	CompanyID      string          `json:"companyID" db:"company_id"`
	Code           string          `json:"code" db:"code"`
	Name           string          `json:"name" db:"name"`
	NormalBalance  NormalBalance   `json:"normalBalance" db:"normal_balance"`
	Description    string          `json:"description" db:"description"`
	IsActive       bool            `json:"isActive" db:"is_active"`
	CurrentBalance decimal.Decimal `json:"currentBalance" db:"current_balance"`
	AuditFields
}
