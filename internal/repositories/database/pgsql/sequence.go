package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

// formatEntryNumber renders the human-facing entry number, e.g. "2026-007".
// Numbers past 999 simply grow wider.
func formatEntryNumber(year int, n int) string {
	return fmt.Sprintf("%d-%03d", year, n)
}

// parseEntrySuffix extracts the sequence part of an entry number. Anything
// unparseable yields 0 so legacy or hand-entered numbers never break
// allocation.
func parseEntrySuffix(entryNumber string) int {
	idx := strings.LastIndex(entryNumber, "-")
	if idx < 0 || idx == len(entryNumber)-1 {
		return 0
	}
	n, err := strconv.Atoi(entryNumber[idx+1:])
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// nextEntryNumber allocates the next entry number for a company and year
// inside the caller's transaction. The per-year counter row is seeded
// lazily from existing entry numbers; once the row exists the UPDATE takes
// a row lock, so concurrent allocations serialize instead of colliding.
func (r *PgxEntryRepository) nextEntryNumber(ctx context.Context, tx pgx.Tx, companyID string, year int) (string, error) {
	bump := `
		UPDATE entry_sequences
		SET last_number = last_number + 1
		WHERE company_id = $1 AND year = $2
		RETURNING last_number;
	`
	var n int
	err := tx.QueryRow(ctx, bump, companyID, year).Scan(&n)
	if err == nil {
		return formatEntryNumber(year, n), nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", fmt.Errorf("failed to bump entry sequence for %s/%d: %w", companyID, year, err)
	}

	seed, err := r.maxEntrySuffix(ctx, tx, companyID, year)
	if err != nil {
		return "", err
	}
	// A concurrent seeder may win the insert; DO NOTHING keeps both alive
	// and the UPDATE below serializes on the surviving row.
	_, err = tx.Exec(ctx, `
		INSERT INTO entry_sequences (company_id, year, last_number)
		VALUES ($1, $2, $3)
		ON CONFLICT (company_id, year) DO NOTHING;
	`, companyID, year, seed)
	if err != nil {
		return "", fmt.Errorf("failed to seed entry sequence for %s/%d: %w", companyID, year, err)
	}

	err = tx.QueryRow(ctx, bump, companyID, year).Scan(&n)
	if err != nil {
		return "", fmt.Errorf("failed to bump entry sequence after seeding for %s/%d: %w", companyID, year, err)
	}
	return formatEntryNumber(year, n), nil
}

// maxEntrySuffix scans existing entry numbers for the year and returns the
// highest sequence value, defensively treating malformed numbers as 0.
func (r *PgxEntryRepository) maxEntrySuffix(ctx context.Context, tx pgx.Tx, companyID string, year int) (int, error) {
	rows, err := tx.Query(ctx, `
		SELECT entry_number FROM journal_entries
		WHERE company_id = $1 AND entry_number LIKE $2;
	`, companyID, fmt.Sprintf("%d-%%", year))
	if err != nil {
		return 0, fmt.Errorf("failed to scan existing entry numbers for %s/%d: %w", companyID, year, err)
	}
	defer rows.Close()

	maxSuffix := 0
	for rows.Next() {
		var entryNumber string
		if err := rows.Scan(&entryNumber); err != nil {
			return 0, fmt.Errorf("failed to scan entry number row: %w", err)
		}
		if n := parseEntrySuffix(entryNumber); n > maxSuffix {
			maxSuffix = n
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("error iterating entry number rows: %w", err)
	}
	return maxSuffix, nil
}
