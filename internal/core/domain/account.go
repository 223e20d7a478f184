package domain

import (
	"github.com/shopspring/decimal"
)

// NormalBalance is the side on which an account's balance conventionally increases.
type NormalBalance string

const (
	DebitNormal  NormalBalance = "debit"
	CreditNormal NormalBalance = "credit"
)

// Account represents a chart-of-accounts record within the core domain.
// CurrentBalance is derived state: it is mutated only by balance propagation
// during entry posting/reversal, never through account updates.
type Account struct {
	AccountID      string          `json:"accountID"`      // Primary key (UUID)
	CompanyID      string          `json:"companyID"`      // Owning tenant (NON-NULL)
	Code           string          `json:"code"`           // Unique per company
	Name           string          `json:"name"`           // User-defined name
	NormalBalance  NormalBalance   `json:"normalBalance"`  // debit or credit
	Description    string          `json:"description"`    // Nullable user description
	IsActive       bool            `json:"isActive"`       // Gate on new entry references
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Running balance of posted entries
	AuditFields
}
