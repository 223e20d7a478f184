package ports

import (
	"context"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/rentops/ledger_backend/internal/dto"
)

// LedgerService drives the journal entry lifecycle: draft, posted, reversed.
type LedgerService interface {
	// CreateEntry validates the request, allocates an entry number and
	// persists a draft. Balances are untouched until posting.
	CreateEntry(ctx context.Context, companyID string, userID string, req dto.CreateEntryRequest) (*domain.JournalEntry, error)
	// GetEntryByID returns an entry with its items.
	GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)
	// ListEntries returns one page of entries plus the total count.
	ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) ([]domain.JournalEntry, int64, error)
	// UpdateEntry patches a draft. Providing items replaces the whole set
	// and revalidates the entry.
	UpdateEntry(ctx context.Context, companyID string, userID string, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error)
	// PostEntry transitions a draft to posted and propagates balances.
	PostEntry(ctx context.Context, companyID string, userID string, entryID string) (*domain.JournalEntry, error)
	// ReverseEntry creates and posts a mirror entry for a posted original,
	// undoing its balance effect, and links the two.
	ReverseEntry(ctx context.Context, companyID string, userID string, entryID string, req dto.ReverseEntryRequest) (*domain.JournalEntry, *domain.JournalEntry, error)
	// DeleteEntry removes a draft entry.
	DeleteEntry(ctx context.Context, companyID string, entryID string) error
	// ValidateEntry runs the balance rules without persisting anything.
	ValidateEntry(ctx context.Context, companyID string, req dto.ValidateEntryRequest) (*dto.ValidateEntryResponse, error)
}
