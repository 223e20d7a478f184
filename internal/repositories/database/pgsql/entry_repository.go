package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentops/ledger_backend/internal/apperrors"
	"github.com/rentops/ledger_backend/internal/core/domain"
	portsrepo "github.com/rentops/ledger_backend/internal/core/ports/repositories"
	"github.com/rentops/ledger_backend/internal/models"
	"github.com/rentops/ledger_backend/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const entryColumns = `entry_id, company_id, entry_number, entry_date, entry_type, description, reference, total_debit, total_credit, status, is_reversed, reversed_entry_id, reversal_entry_id, posted_by, posted_at, created_at, created_by, last_updated_at, last_updated_by`

type PgxEntryRepository struct {
	BaseRepository
	accountRepo *PgxAccountRepository
}

func newPgxEntryRepository(pool *pgxpool.Pool, accountRepo *PgxAccountRepository) *PgxEntryRepository {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxEntryRepository implements portsrepo.EntryRepositoryFacade
var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.CompanyID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.EntryType,
		&m.Description,
		&m.Reference,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.Status,
		&m.IsReversed,
		&m.ReversedEntryID,
		&m.ReversalEntryID,
		&m.PostedBy,
		&m.PostedAt,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// CreateEntry persists a draft entry and its items in one transaction. The
// entry number comes from the per-company yearly sequence; a concurrent
// allocation landing on the same number trips the unique index and is
// retried once with a fresh number.
func (r *PgxEntryRepository) CreateEntry(ctx context.Context, entry *domain.JournalEntry, items []domain.JournalEntryItem) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.allocateAndInsertEntry(ctx, tx, entry); err != nil {
		return err
	}
	if err := r.insertItemsInTx(ctx, tx, entry, items); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// allocateAndInsertEntry assigns the next entry number and inserts the header
// row. The insert runs under a savepoint so that, when a concurrent
// allocation already took the number, the aborted statement can be rolled
// back and a fresh number tried once; a second collision surfaces as
// ErrDuplicate.
func (r *PgxEntryRepository) allocateAndInsertEntry(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error {
	year := entry.EntryDate.Year()
	var err error
	for attempt := 0; attempt < 2; attempt++ {
		entry.EntryNumber, err = r.nextEntryNumber(ctx, tx, entry.CompanyID, year)
		if err != nil {
			return err
		}

		sp, spErr := tx.Begin(ctx)
		if spErr != nil {
			return fmt.Errorf("failed to open savepoint for entry %s: %w", entry.EntryID, spErr)
		}
		if err = r.insertEntryInTx(ctx, sp, entry); err == nil {
			if err = sp.Commit(ctx); err != nil {
				return fmt.Errorf("failed to release savepoint for entry %s: %w", entry.EntryID, err)
			}
			return nil
		}
		_ = sp.Rollback(ctx)

		if attempt == 0 && isUniqueViolation(err) {
			continue
		}
		return err
	}
	return err
}

func (r *PgxEntryRepository) insertEntryInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry) error {
	m := mapping.ToModelEntry(*entry)

	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.CompanyID,
		m.EntryNumber,
		m.EntryDate,
		m.EntryType,
		m.Description,
		m.Reference,
		m.TotalDebit,
		m.TotalCredit,
		m.Status,
		m.IsReversed,
		m.ReversedEntryID,
		m.ReversalEntryID,
		m.PostedBy,
		m.PostedAt,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return duplicateEntryNumberError(m.EntryNumber, err)
		}
		return fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}
	return nil
}

// duplicateEntryNumberError wraps a unique violation on the entry number.
// Both %w verbs matter: handlers match ErrDuplicate, the allocation retry
// loop matches the *pgconn.PgError underneath.
func duplicateEntryNumberError(entryNumber string, err error) error {
	return fmt.Errorf("%w: entry number %s already taken: %w", apperrors.ErrDuplicate, entryNumber, err)
}

func (r *PgxEntryRepository) insertItemsInTx(ctx context.Context, tx pgx.Tx, entry *domain.JournalEntry, items []domain.JournalEntryItem) error {
	if len(items) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_entry_items (item_id, entry_id, company_id, account_code, debit, credit, description, line_number)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	batch := &pgx.Batch{}
	for i := range items {
		m := mapping.ToModelItem(items[i])
		batch.Queue(query,
			m.ItemID,
			entry.EntryID,
			entry.CompanyID,
			m.AccountCode,
			m.Debit,
			m.Credit,
			m.Description,
			m.LineNumber,
		)
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil && batchErr == nil {
			batchErr = fmt.Errorf("failed to insert item %d of entry %s: %w", i+1, entry.EntryID, err)
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = fmt.Errorf("failed to close item insert batch: %w", err)
	}
	return batchErr
}

// FindEntryByID retrieves an entry with its items loaded.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, companyID string, entryID string) (*domain.JournalEntry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE company_id = $1 AND entry_id = $2;
	`
	m, err := scanEntry(r.Pool.QueryRow(ctx, query, companyID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find journal entry %s: %w", entryID, err)
	}

	d := mapping.ToDomainEntry(m)
	d.Items, err = r.FindItemsByEntryID(ctx, companyID, entryID)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const itemSelect = `
	SELECT i.item_id, i.entry_id, i.company_id, i.account_code, COALESCE(a.name, ''), i.debit, i.credit, i.description, i.line_number
	FROM journal_entry_items i
	LEFT JOIN chart_of_accounts a ON a.company_id = i.company_id AND a.code = i.account_code
`

func scanItem(rows pgx.Rows) (models.JournalEntryItem, error) {
	var m models.JournalEntryItem
	err := rows.Scan(
		&m.ItemID,
		&m.EntryID,
		&m.CompanyID,
		&m.AccountCode,
		&m.AccountName,
		&m.Debit,
		&m.Credit,
		&m.Description,
		&m.LineNumber,
	)
	return m, err
}

// FindItemsByEntryID retrieves an entry's items ordered by line number,
// with the account name joined in for display.
func (r *PgxEntryRepository) FindItemsByEntryID(ctx context.Context, companyID string, entryID string) ([]domain.JournalEntryItem, error) {
	query := itemSelect + `
		WHERE i.company_id = $1 AND i.entry_id = $2
		ORDER BY i.line_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for entry %s: %w", entryID, err)
	}
	defer rows.Close()

	items := []domain.JournalEntryItem{}
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row for entry %s: %w", entryID, err)
		}
		items = append(items, mapping.ToDomainItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows for entry %s: %w", entryID, err)
	}
	return items, nil
}

// FindItemsByEntryIDs retrieves items for many entries in one query, keyed
// by entry ID and ordered by line number within each entry.
func (r *PgxEntryRepository) FindItemsByEntryIDs(ctx context.Context, companyID string, entryIDs []string) (map[string][]domain.JournalEntryItem, error) {
	if len(entryIDs) == 0 {
		return map[string][]domain.JournalEntryItem{}, nil
	}

	query := itemSelect + `
		WHERE i.company_id = $1 AND i.entry_id = ANY($2)
		ORDER BY i.entry_id, i.line_number;
	`
	rows, err := r.Pool.Query(ctx, query, companyID, entryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query items for entries: %w", err)
	}
	defer rows.Close()

	itemsByEntry := make(map[string][]domain.JournalEntryItem)
	for rows.Next() {
		m, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan item row during batch fetch: %w", err)
		}
		itemsByEntry[m.EntryID] = append(itemsByEntry[m.EntryID], mapping.ToDomainItem(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating item rows during batch fetch: %w", err)
	}
	return itemsByEntry, nil
}

// ListEntries returns one offset page of entries ordered by entry number
// descending, plus the total count for the filter.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, companyID string, filter portsrepo.EntryListFilter, page int, limit int) ([]domain.JournalEntry, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}

	where := []string{"company_id = $1"}
	args := []any{companyID}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Status != "" {
		where = append(where, "status = "+arg(string(filter.Status)))
	}
	if filter.EntryType != "" {
		where = append(where, "entry_type = "+arg(filter.EntryType))
	}
	if filter.StartDate != "" {
		where = append(where, "entry_date >= "+arg(filter.StartDate))
	}
	if filter.EndDate != "" {
		where = append(where, "entry_date <= "+arg(filter.EndDate))
	}
	if filter.Search != "" {
		pattern := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(entry_number ILIKE %s OR description ILIKE %s OR reference ILIKE %s)", pattern, pattern, pattern))
	}
	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM journal_entries WHERE ` + whereClause + `;`
	if err := r.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count journal entries: %w", err)
	}

	pageQuery := `
		SELECT ` + entryColumns + `
		FROM journal_entries
		WHERE ` + whereClause + `
		ORDER BY entry_number DESC
		LIMIT ` + arg(limit) + ` OFFSET ` + arg((page-1)*limit) + `;
	`
	rows, err := r.Pool.Query(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := []domain.JournalEntry{}
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating journal entry rows: %w", err)
	}
	return entries, total, nil
}

// UpdateEntry rewrites a draft's header and, when replaceItems is set,
// deletes and recreates its item set in the same transaction.
func (r *PgxEntryRepository) UpdateEntry(ctx context.Context, entry *domain.JournalEntry, items []domain.JournalEntryItem, replaceItems bool) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	m := mapping.ToModelEntry(*entry)
	query := `
		UPDATE journal_entries
		SET entry_date = $3, entry_type = $4, description = $5, reference = $6, total_debit = $7, total_credit = $8, last_updated_at = $9, last_updated_by = $10
		WHERE company_id = $1 AND entry_id = $2 AND status = 'draft';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.CompanyID,
		m.EntryID,
		m.EntryDate,
		m.EntryType,
		m.Description,
		m.Reference,
		m.TotalDebit,
		m.TotalCredit,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		// The service checked status before calling; a concurrent post can
		// still win the race, so treat it as a conflict here.
		return fmt.Errorf("%w: journal entry %s is not an updatable draft", apperrors.ErrConflict, m.EntryID)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_items WHERE company_id = $1 AND entry_id = $2;`, m.CompanyID, m.EntryID); err != nil {
			return fmt.Errorf("failed to delete items of entry %s: %w", m.EntryID, err)
		}
		if err := r.insertItemsInTx(ctx, tx, entry, items); err != nil {
			return err
		}
	}
	return r.Commit(ctx, tx)
}

// PostEntry transitions a draft to posted and applies the balance deltas to
// locked account rows, atomically.
func (r *PgxEntryRepository) PostEntry(ctx context.Context, entry *domain.JournalEntry, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.lockAndApplyBalances(ctx, tx, entry.CompanyID, balanceChanges); err != nil {
		return err
	}

	m := mapping.ToModelEntry(*entry)
	query := `
		UPDATE journal_entries
		SET status = 'posted', posted_by = $3, posted_at = $4, last_updated_at = $5, last_updated_by = $6
		WHERE company_id = $1 AND entry_id = $2 AND status = 'draft';
	`
	cmdTag, err := tx.Exec(ctx, query,
		m.CompanyID,
		m.EntryID,
		m.PostedBy,
		m.PostedAt,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to post journal entry %s: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not a postable draft", apperrors.ErrConflict, m.EntryID)
	}
	return r.Commit(ctx, tx)
}

// ReverseEntry persists the posted reversal entry with its items, marks the
// original reversed, and applies the negated balance deltas, all in one
// transaction. The reversal's entry number is allocated here too.
func (r *PgxEntryRepository) ReverseEntry(ctx context.Context, original *domain.JournalEntry, reversal *domain.JournalEntry, reversalItems []domain.JournalEntryItem, balanceChanges map[string]decimal.Decimal) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if err := r.lockAndApplyBalances(ctx, tx, original.CompanyID, balanceChanges); err != nil {
		return err
	}

	if err := r.allocateAndInsertEntry(ctx, tx, reversal); err != nil {
		return err
	}
	if err := r.insertItemsInTx(ctx, tx, reversal, reversalItems); err != nil {
		return err
	}

	query := `
		UPDATE journal_entries
		SET status = 'reversed', is_reversed = TRUE, reversal_entry_id = $3, last_updated_at = $4, last_updated_by = $5
		WHERE company_id = $1 AND entry_id = $2 AND status = 'posted' AND is_reversed = FALSE;
	`
	m := mapping.ToModelEntry(*original)
	cmdTag, err := tx.Exec(ctx, query,
		m.CompanyID,
		m.EntryID,
		reversal.EntryID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to mark journal entry %s reversed: %w", m.EntryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not reversible", apperrors.ErrConflict, m.EntryID)
	}
	return r.Commit(ctx, tx)
}

func (r *PgxEntryRepository) lockAndApplyBalances(ctx context.Context, tx pgx.Tx, companyID string, balanceChanges map[string]decimal.Decimal) error {
	if len(balanceChanges) == 0 {
		return nil
	}
	codes := make([]string, 0, len(balanceChanges))
	for code := range balanceChanges {
		codes = append(codes, code)
	}
	if _, err := r.accountRepo.FindAccountsByCodesForUpdate(ctx, tx, companyID, codes); err != nil {
		return err
	}
	return r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, companyID, balanceChanges)
}

// DeleteEntry removes a draft entry and its items.
func (r *PgxEntryRepository) DeleteEntry(ctx context.Context, companyID string, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_items WHERE company_id = $1 AND entry_id = $2;`, companyID, entryID); err != nil {
		return fmt.Errorf("failed to delete items of entry %s: %w", entryID, err)
	}

	cmdTag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE company_id = $1 AND entry_id = $2 AND status = 'draft';`, companyID, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", entryID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: journal entry %s is not a deletable draft", apperrors.ErrConflict, entryID)
	}
	return r.Commit(ctx, tx)
}
