package ports

import (
	"context"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryListFilter narrows ListEntries. Zero values mean "no constraint".
type EntryListFilter struct {
	Status    domain.EntryStatus
	EntryType string
	StartDate string
	EndDate   string
	Search    string
}

// EntryReader defines read operations for journal entries.
type EntryReader interface {
	// FindEntryByID returns the entry with its items loaded, scoped to the
	// company. Returns apperrors.ErrNotFound when absent.
	FindEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error)
	// ListEntries returns one offset page ordered by entry number descending,
	// plus the total row count for the filter.
	ListEntries(ctx context.Context, companyID string, filter EntryListFilter, page int, limit int) ([]domain.JournalEntry, int64, error)
}

// ItemReader defines read operations for journal entry items.
type ItemReader interface {
	// FindItemsByEntryID returns an entry's items ordered by line number,
	// with account names joined in.
	FindItemsByEntryID(ctx context.Context, companyID string, entryID string) ([]domain.JournalEntryItem, error)
	// FindItemsByEntryIDs returns items for many entries keyed by entry ID.
	FindItemsByEntryIDs(ctx context.Context, companyID string, entryIDs []string) (map[string][]domain.JournalEntryItem, error)
}

// EntryWriter defines write operations for journal entries. Each method is
// a single atomic transaction.
type EntryWriter interface {
	// CreateEntry persists a draft entry and its items, allocating the
	// entry number from the per-company yearly sequence inside the same
	// transaction.
	CreateEntry(ctx context.Context, entry *domain.JournalEntry, items []domain.JournalEntryItem) error
	// UpdateEntry rewrites a draft's header; when replaceItems is true the
	// item set is deleted and recreated from items.
	UpdateEntry(ctx context.Context, entry *domain.JournalEntry, items []domain.JournalEntryItem, replaceItems bool) error
	// PostEntry transitions a draft to posted and applies balanceChanges
	// (account code to signed delta) to locked account rows.
	PostEntry(ctx context.Context, entry *domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error
	// ReverseEntry marks the original reversed, persists the posted
	// reversal with its items, and applies the negated balance deltas, all
	// in one transaction.
	ReverseEntry(ctx context.Context, original *domain.JournalEntry, reversal *domain.JournalEntry, reversalItems []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal) error
	// DeleteEntry removes a draft and its items.
	DeleteEntry(ctx context.Context, companyID string, entryID string) error
}

// EntryRepositoryFacade is the combined interface used by the ledger service.
type EntryRepositoryFacade interface {
	EntryReader
	ItemReader
	EntryWriter
}
