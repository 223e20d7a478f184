package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus mirrors domain.EntryStatus at the persistence layer.
type EntryStatus string

const (
	Draft    EntryStatus = "draft"
	Posted   EntryStatus = "posted"
	Reversed EntryStatus = "reversed"
)

// JournalEntry is the persistence model for journal_entries rows.
type JournalEntry struct {
	EntryID         string          `json:"entryID" db:"entry_id"`
	CompanyID       string          `json:"companyID" db:"company_id"`
	EntryNumber     string          `json:"entryNumber" db:"entry_number"`
	EntryDate       time.Time       `json:"entryDate" db:"entry_date"`
	EntryType       string          `json:"entryType" db:"entry_type"`
	Description     string          `json:"description" db:"description"`
	Reference       string          `json:"reference" db:"reference"`
	TotalDebit      decimal.Decimal `json:"totalDebit" db:"total_debit"`
	TotalCredit     decimal.Decimal `json:"totalCredit" db:"total_credit"`
	Status          EntryStatus     `json:"status" db:"status"`
	IsReversed      bool            `json:"isReversed" db:"is_reversed"`
	ReversedEntryID *string         `json:"reversedEntryID" db:"reversed_entry_id"`
	ReversalEntryID *string         `json:"reversalEntryID" db:"reversal_entry_id"`
	PostedBy        *string         `json:"postedBy" db:"posted_by"`
	PostedAt        *time.Time      `json:"postedAt" db:"posted_at"`
	AuditFields
}

// JournalEntryItem is the persistence model for journal_entry_items rows.
// Items are owned by exactly one entry and replaced as a whole set while the
// parent is in draft.
type JournalEntryItem struct {
	ItemID      string          `json:"itemID" db:"item_id"`
	EntryID     string          `json:"entryID" db:"entry_id"`
	CompanyID   string          `json:"companyID" db:"company_id"`
	AccountCode string          `json:"accountCode" db:"account_code"`
	AccountName string          `json:"accountName" db:"-"` // Joined from chart_of_accounts
	Debit       decimal.Decimal `json:"debit" db:"debit"`
	Credit      decimal.Decimal `json:"credit" db:"credit"`
	Description string          `json:"description" db:"description"`
	LineNumber  int             `json:"lineNumber" db:"line_number"`
}
