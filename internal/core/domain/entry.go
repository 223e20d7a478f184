package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryStatus indicates the lifecycle state of a journal entry.
type EntryStatus string

const (
	Draft    EntryStatus = "draft"
	Posted   EntryStatus = "posted"
	Reversed EntryStatus = "reversed"
)

// EntryTypeReversal is the classification tag assigned to reversal entries.
const EntryTypeReversal = "reversal"

// JournalEntry represents a single, balanced financial event composed of
// multiple line items. Entries are created in draft, become permanent when
// posted, and may be cancelled out exactly once by a reversal entry.
type JournalEntry struct {
	EntryID         string          `json:"entryID"`     // Primary key (UUID)
	CompanyID       string          `json:"companyID"`   // Owning tenant (NON-NULL)
	EntryNumber     string          `json:"entryNumber"` // Human-facing "YYYY-NNN", unique per company
	EntryDate       time.Time       `json:"entryDate"`   // Date the event occurred; determines numbering year
	EntryType       string          `json:"entryType"`   // Free-form tag, e.g. "general", "reversal"
	Description     string          `json:"description"`
	Reference       string          `json:"reference"`
	TotalDebit      decimal.Decimal `json:"totalDebit"`  // Cached sum of item debits
	TotalCredit     decimal.Decimal `json:"totalCredit"` // Cached sum of item credits
	Status          EntryStatus     `json:"status"`
	IsReversed      bool            `json:"isReversed"`
	ReversedEntryID *string         `json:"reversedEntryID,omitempty"` // Set on a reversal: the entry it cancels
	ReversalEntryID *string         `json:"reversalEntryID,omitempty"` // Set on the original: the reversal it spawned
	PostedBy        *string         `json:"postedBy,omitempty"`
	PostedAt        *time.Time      `json:"postedAt,omitempty"`
	AuditFields
	Items []JournalEntryItem `json:"items,omitempty"` // Often loaded separately
}

// JournalEntryItem represents a single line within a JournalEntry, affecting
// one account. Exactly one of Debit/Credit is nonzero on a valid item.
type JournalEntryItem struct {
	ItemID      string          `json:"itemID"`    // Primary key (UUID)
	EntryID     string          `json:"entryID"`   // FK -> JournalEntry (NON-NULL)
	CompanyID   string          `json:"companyID"` // Denormalized tenant scope
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName,omitempty"` // Joined label for list views
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
	LineNumber  int             `json:"lineNumber"` // 1-based, assigned at creation/update
}
