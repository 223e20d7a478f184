package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/rentops/ledger_backend/internal/core/ports/services"
	"github.com/rentops/ledger_backend/internal/dto"
	"github.com/rentops/ledger_backend/internal/middleware"
	"github.com/rentops/ledger_backend/internal/platform/metrics"
	"github.com/rentops/ledger_backend/internal/utils/accounting"
)

const defaultEntryType = "standard"

type ledgerService struct {
	entryRepo   portsrepo.EntryRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewLedgerService creates the journal entry lifecycle service.
func NewLedgerService(entryRepo portsrepo.EntryRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.LedgerService {
	return &ledgerService{
		entryRepo:   entryRepo,
		accountRepo: accountRepo,
	}
}

// Ensure ledgerService implements portssvc.LedgerService
var _ portssvc.LedgerService = (*ledgerService)(nil)

// checkAccounts loads the accounts referenced by items and reports, per
// problem, accounts that do not exist or are inactive. The returned map is
// keyed by account code.
func (s *ledgerService) checkAccounts(ctx context.Context, companyID string, items []domain.JournalEntryItem) (map[string]domain.Account, []string, error) {
	seen := map[string]bool{}
	codes := []string{}
	for i := range items {
		if !seen[items[i].AccountCode] {
			seen[items[i].AccountCode] = true
			codes = append(codes, items[i].AccountCode)
		}
	}

	accounts, err := s.accountRepo.FindAccountsByCodes(ctx, companyID, codes)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load accounts for validation: %w", err)
	}

	problems := []string{}
	for _, code := range codes {
		acc, found := accounts[code]
		if !found {
			problems = append(problems, fmt.Sprintf("account %s does not exist", code))
			continue
		}
		if !acc.IsActive {
			problems = append(problems, fmt.Sprintf("account %s is inactive", code))
		}
	}
	return accounts, problems, nil
}

func normalBalances(accounts map[string]domain.Account) map[string]domain.NormalBalance {
	normals := make(map[string]domain.NormalBalance, len(accounts))
	for code, acc := range accounts {
		normals[code] = acc.NormalBalance
	}
	return normals
}

// CreateEntry validates the request and persists a draft entry. Account
// balances stay untouched until the entry is posted.
func (s *ledgerService) CreateEntry(ctx context.Context, companyID string, userID string, req dto.CreateEntryRequest) (entry *domain.JournalEntry, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	defer func() { metrics.Observe(metrics.EntriesCreated, err) }()

	items := dto.ToEntryItems(req.Items)
	result := accounting.ValidateItems(items)
	if !result.OK {
		return nil, apperrors.NewBadRequestError(result.Message)
	}

	_, problems, err := s.checkAccounts(ctx, companyID, items)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, apperrors.NewBadRequestError(problems[0])
	}

	entryType := req.EntryType
	if entryType == "" {
		entryType = defaultEntryType
	}

	now := time.Now()
	entry = &domain.JournalEntry{
		EntryID:     uuid.NewString(),
		CompanyID:   companyID,
		EntryDate:   req.EntryDate,
		EntryType:   entryType,
		Description: req.Description,
		Reference:   req.Reference,
		TotalDebit:  result.TotalDebit,
		TotalCredit: result.TotalCredit,
		Status:      domain.Draft,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	for i := range items {
		items[i].ItemID = uuid.NewString()
		items[i].EntryID = entry.EntryID
		items[i].CompanyID = companyID
	}

	if err = s.entryRepo.CreateEntry(ctx, entry, items); err != nil {
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}
	entry.Items = items

	logger.Info("Journal entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
	)
	return entry, nil
}

// GetEntryByID returns an entry with its items.
func (s *ledgerService) GetEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	return s.entryRepo.FindEntryByID(ctx, companyID, entryID)
}

// ListEntries returns one offset page of entries with items loaded, plus
// the total count for the filter.
func (s *ledgerService) ListEntries(ctx context.Context, companyID string, params dto.ListEntriesParams) ([]domain.JournalEntry, int64, error) {
	filter := portsrepo.EntryListFilter{
		Status:    domain.EntryStatus(params.Status),
		EntryType: params.EntryType,
		Search:    params.Search,
	}
	if params.StartDate != nil {
		filter.StartDate = params.StartDate.Format("2006-01-02")
	}
	if params.EndDate != nil {
		filter.EndDate = params.EndDate.Format("2006-01-02")
	}

	entries, total, err := s.entryRepo.ListEntries(ctx, companyID, filter, params.Page, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	if len(entries) > 0 {
		entryIDs := make([]string, len(entries))
		for i := range entries {
			entryIDs[i] = entries[i].EntryID
		}
		itemsByEntry, err := s.entryRepo.FindItemsByEntryIDs(ctx, companyID, entryIDs)
		if err != nil {
			return nil, 0, err
		}
		for i := range entries {
			entries[i].Items = itemsByEntry[entries[i].EntryID]
		}
	}
	return entries, total, nil
}

// UpdateEntry patches a draft entry. Providing items replaces the whole
// item set and revalidates the entry.
func (s *ledgerService) UpdateEntry(ctx context.Context, companyID string, userID string, entryID string, req dto.UpdateEntryRequest) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, apperrors.NewConflictError("only draft journal entries can be updated")
	}

	if req.EntryDate != nil {
		entry.EntryDate = *req.EntryDate
	}
	if req.EntryType != nil {
		entry.EntryType = *req.EntryType
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.Reference != nil {
		entry.Reference = *req.Reference
	}

	var items []domain.JournalEntryItem
	replaceItems := req.Items != nil
	if replaceItems {
		items = dto.ToEntryItems(*req.Items)
		result := accounting.ValidateItems(items)
		if !result.OK {
			return nil, apperrors.NewBadRequestError(result.Message)
		}
		_, problems, err := s.checkAccounts(ctx, companyID, items)
		if err != nil {
			return nil, err
		}
		if len(problems) > 0 {
			return nil, apperrors.NewBadRequestError(problems[0])
		}
		for i := range items {
			items[i].ItemID = uuid.NewString()
			items[i].EntryID = entry.EntryID
			items[i].CompanyID = companyID
		}
		entry.TotalDebit = result.TotalDebit
		entry.TotalCredit = result.TotalCredit
	}

	entry.LastUpdatedAt = time.Now()
	entry.LastUpdatedBy = userID

	if err := s.entryRepo.UpdateEntry(ctx, entry, items, replaceItems); err != nil {
		return nil, err
	}
	if replaceItems {
		entry.Items = items
	}
	return entry, nil
}

// PostEntry transitions a draft to posted and propagates signed balance
// deltas to the referenced accounts atomically.
func (s *ledgerService) PostEntry(ctx context.Context, companyID string, userID string, entryID string) (entry *domain.JournalEntry, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	defer func() { metrics.Observe(metrics.EntriesPosted, err) }()

	entry, err = s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.Draft {
		return nil, apperrors.NewConflictError("only draft journal entries can be posted")
	}

	result := accounting.ValidateItems(entry.Items)
	if !result.OK {
		return nil, apperrors.NewBadRequestError(result.Message)
	}

	accounts, problems, err := s.checkAccounts(ctx, companyID, entry.Items)
	if err != nil {
		return nil, err
	}
	if len(problems) > 0 {
		return nil, apperrors.NewBadRequestError(problems[0])
	}

	balanceChanges, err := accounting.BalanceChanges(entry.Items, normalBalances(accounts), false)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	entry.Status = domain.Posted
	entry.PostedBy = &userID
	entry.PostedAt = &now
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID

	if err = s.entryRepo.PostEntry(ctx, entry, balanceChanges); err != nil {
		return nil, err
	}

	logger.Info("Journal entry posted",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_number", entry.EntryNumber),
	)
	return entry, nil
}

// ReverseEntry creates and posts a mirror of a posted entry, undoing its
// balance effect, and links the pair. The reversal gets its own entry
// number from the year of its own date.
func (s *ledgerService) ReverseEntry(ctx context.Context, companyID string, userID string, entryID string, req dto.ReverseEntryRequest) (original *domain.JournalEntry, reversal *domain.JournalEntry, err error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	defer func() { metrics.Observe(metrics.EntriesReversed, err) }()

	original, err = s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return nil, nil, err
	}
	if original.IsReversed {
		return nil, nil, apperrors.NewConflictError("journal entry has already been reversed")
	}
	if original.Status != domain.Posted {
		return nil, nil, apperrors.NewConflictError("only posted journal entries can be reversed")
	}

	accounts, problems, err := s.checkAccounts(ctx, companyID, original.Items)
	if err != nil {
		return nil, nil, err
	}
	if len(problems) > 0 {
		// An account referenced by a posted entry vanished or was disabled.
		// Refuse rather than leave balances half-unwound.
		return nil, nil, apperrors.NewConflictError(problems[0])
	}

	balanceChanges, err := accounting.BalanceChanges(original.Items, normalBalances(accounts), true)
	if err != nil {
		return nil, nil, err
	}

	now := time.Now()
	reversalDate := now
	if req.ReversalDate != nil {
		reversalDate = *req.ReversalDate
	}

	reversal = &domain.JournalEntry{
		EntryID:         uuid.NewString(),
		CompanyID:       companyID,
		EntryDate:       reversalDate,
		EntryType:       domain.EntryTypeReversal,
		Description:     fmt.Sprintf("Reversal: %s - %s", original.Description, req.Reason),
		Reference:       original.Reference,
		TotalDebit:      original.TotalCredit,
		TotalCredit:     original.TotalDebit,
		Status:          domain.Posted,
		ReversedEntryID: &original.EntryID,
		PostedBy:        &userID,
		PostedAt:        &now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	reversalItems := make([]domain.JournalEntryItem, len(original.Items))
	for i, item := range original.Items {
		reversalItems[i] = domain.JournalEntryItem{
			ItemID:      uuid.NewString(),
			EntryID:     reversal.EntryID,
			CompanyID:   companyID,
			AccountCode: item.AccountCode,
			Debit:       item.Credit,
			Credit:      item.Debit,
			Description: item.Description,
			LineNumber:  item.LineNumber,
		}
	}

	original.Status = domain.Reversed
	original.IsReversed = true
	original.ReversalEntryID = &reversal.EntryID
	original.LastUpdatedAt = now
	original.LastUpdatedBy = userID

	if err = s.entryRepo.ReverseEntry(ctx, original, reversal, reversalItems, balanceChanges); err != nil {
		return nil, nil, err
	}
	reversal.Items = reversalItems

	logger.Info("Journal entry reversed",
		slog.String("entry_id", original.EntryID),
		slog.String("reversal_entry_id", reversal.EntryID),
		slog.String("reversal_entry_number", reversal.EntryNumber),
	)
	return original, reversal, nil
}

// DeleteEntry removes a draft entry and its items.
func (s *ledgerService) DeleteEntry(ctx context.Context, companyID string, entryID string) (err error) {
	defer func() { metrics.Observe(metrics.EntriesDeleted, err) }()

	entry, err := s.entryRepo.FindEntryByID(ctx, companyID, entryID)
	if err != nil {
		return err
	}
	if entry.Status != domain.Draft {
		return apperrors.NewConflictError("only draft journal entries can be deleted")
	}
	return s.entryRepo.DeleteEntry(ctx, companyID, entryID)
}

// ValidateEntry runs the balance and account rules without persisting
// anything. Totals come back even when the items are invalid.
func (s *ledgerService) ValidateEntry(ctx context.Context, companyID string, req dto.ValidateEntryRequest) (*dto.ValidateEntryResponse, error) {
	items := dto.ToEntryItems(req.Items)
	result := accounting.ValidateItems(items)

	_, problems, err := s.checkAccounts(ctx, companyID, items)
	if err != nil {
		return nil, err
	}

	return &dto.ValidateEntryResponse{
		OK:          result.OK && len(problems) == 0,
		TotalDebit:  result.TotalDebit,
		TotalCredit: result.TotalCredit,
		Message:     result.Message,
		Errors:      problems,
	}, nil
}
