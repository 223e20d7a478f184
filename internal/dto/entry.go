package dto

import (
	"time"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryItemRequest is a single candidate line of a journal entry.
// Exactly one of Debit/Credit must be nonzero; the balance validator owns
// that rule so failures carry the offending account code.
type EntryItemRequest struct {
	AccountCode string          `json:"accountCode" binding:"required"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description"`
}

// CreateEntryRequest is the payload for creating a draft journal entry.
type CreateEntryRequest struct {
	EntryDate   time.Time          `json:"entryDate" binding:"required"`
	EntryType   string             `json:"entryType"`
	Description string             `json:"description"`
	Reference   string             `json:"reference"`
	Items       []EntryItemRequest `json:"items" binding:"required,dive"`
}

// UpdateEntryRequest patches a draft entry. Nil fields are left untouched;
// a non-nil Items replaces the whole item set.
type UpdateEntryRequest struct {
	EntryDate   *time.Time          `json:"entryDate"`
	EntryType   *string             `json:"entryType"`
	Description *string             `json:"description"`
	Reference   *string             `json:"reference"`
	Items       *[]EntryItemRequest `json:"items" binding:"omitempty,dive"`
}

// ReverseEntryRequest is the payload for reversing a posted entry.
type ReverseEntryRequest struct {
	Reason       string     `json:"reason" binding:"required"`
	ReversalDate *time.Time `json:"reversalDate"`
}

// ValidateEntryRequest is the payload for the dry-run validation endpoint.
type ValidateEntryRequest struct {
	Items []EntryItemRequest `json:"items" binding:"required,dive"`
}

// ValidateEntryResponse reports the dry-run outcome. Totals are populated
// even when validation fails.
type ValidateEntryResponse struct {
	OK          bool            `json:"ok"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Message     string          `json:"message,omitempty"`
	Errors      []string        `json:"errors,omitempty"`
}

// ListEntriesParams are the query parameters for listing journal entries.
type ListEntriesParams struct {
	Status    string     `form:"status" binding:"omitempty,entrystatus"`
	EntryType string     `form:"entryType"`
	StartDate *time.Time `form:"startDate" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"endDate" time_format:"2006-01-02"`
	Search    string     `form:"search"`
	Page      int        `form:"page,default=1" binding:"omitempty,min=1"`
	Limit     int        `form:"limit,default=50" binding:"omitempty,min=1,max=500"`
}

// EntryItemResponse is a journal entry line in API responses.
type EntryItemResponse struct {
	ItemID      string          `json:"itemID"`
	AccountCode string          `json:"accountCode"`
	AccountName string          `json:"accountName,omitempty"`
	Debit       decimal.Decimal `json:"debit"`
	Credit      decimal.Decimal `json:"credit"`
	Description string          `json:"description,omitempty"`
	LineNumber  int             `json:"lineNumber"`
}

// EntryResponse is a journal entry in API responses.
type EntryResponse struct {
	EntryID         string              `json:"entryID"`
	EntryNumber     string              `json:"entryNumber"`
	EntryDate       time.Time           `json:"entryDate"`
	EntryType       string              `json:"entryType"`
	Description     string              `json:"description,omitempty"`
	Reference       string              `json:"reference,omitempty"`
	TotalDebit      decimal.Decimal     `json:"totalDebit"`
	TotalCredit     decimal.Decimal     `json:"totalCredit"`
	Status          string              `json:"status"`
	IsReversed      bool                `json:"isReversed"`
	ReversedEntryID *string             `json:"reversedEntryID,omitempty"`
	ReversalEntryID *string             `json:"reversalEntryID,omitempty"`
	PostedBy        *string             `json:"postedBy,omitempty"`
	PostedAt        *time.Time          `json:"postedAt,omitempty"`
	CreatedAt       time.Time           `json:"createdAt"`
	CreatedBy       string              `json:"createdBy"`
	Items           []EntryItemResponse `json:"items,omitempty"`
}

// ReversalResponse pairs the reversed original with its reversal entry.
type ReversalResponse struct {
	Original EntryResponse `json:"original"`
	Reversal EntryResponse `json:"reversal"`
}

// Pagination describes an offset-paginated result window.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListEntriesResponse is the paginated entry list payload.
type ListEntriesResponse struct {
	Entries    []EntryResponse `json:"entries"`
	Pagination Pagination      `json:"pagination"`
}

// ToEntryItemResponse converts a domain item to its response DTO.
func ToEntryItemResponse(item *domain.JournalEntryItem) EntryItemResponse {
	return EntryItemResponse{
		ItemID:      item.ItemID,
		AccountCode: item.AccountCode,
		AccountName: item.AccountName,
		Debit:       item.Debit,
		Credit:      item.Credit,
		Description: item.Description,
		LineNumber:  item.LineNumber,
	}
}

// ToEntryResponse converts a domain entry (with any loaded items) to its
// response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:         e.EntryID,
		EntryNumber:     e.EntryNumber,
		EntryDate:       e.EntryDate,
		EntryType:       e.EntryType,
		Description:     e.Description,
		Reference:       e.Reference,
		TotalDebit:      e.TotalDebit,
		TotalCredit:     e.TotalCredit,
		Status:          string(e.Status),
		IsReversed:      e.IsReversed,
		ReversedEntryID: e.ReversedEntryID,
		ReversalEntryID: e.ReversalEntryID,
		PostedBy:        e.PostedBy,
		PostedAt:        e.PostedAt,
		CreatedAt:       e.CreatedAt,
		CreatedBy:       e.CreatedBy,
	}
	if len(e.Items) > 0 {
		resp.Items = make([]EntryItemResponse, len(e.Items))
		for i := range e.Items {
			resp.Items[i] = ToEntryItemResponse(&e.Items[i])
		}
	}
	return resp
}

// ToEntryItems converts request items into domain items. Line numbers are
// assigned sequentially here; they are never user-settable.
func ToEntryItems(reqs []EntryItemRequest) []domain.JournalEntryItem {
	items := make([]domain.JournalEntryItem, len(reqs))
	for i, r := range reqs {
		items[i] = domain.JournalEntryItem{
			AccountCode: r.AccountCode,
			Debit:       r.Debit,
			Credit:      r.Credit,
			Description: r.Description,
			LineNumber:  i + 1,
		}
	}
	return items
}
