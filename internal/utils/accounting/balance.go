package accounting

import (
	"fmt"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// balanceTolerance is the maximum allowed difference between total debit and
// total credit for an entry to be considered balanced.
var balanceTolerance = decimal.NewFromFloat(0.01)

// ValidationResult is the outcome of validating a candidate item set.
// Totals are computed and returned even when validation fails so callers can
// surface them (the dry-run validate endpoint relies on this).
type ValidationResult struct {
	OK          bool            `json:"ok"`
	TotalDebit  decimal.Decimal `json:"totalDebit"`
	TotalCredit decimal.Decimal `json:"totalCredit"`
	Message     string          `json:"message,omitempty"`
}

// ValidateItems checks a candidate item set against the double-entry rules.
// Rules are evaluated in order; the first failure wins:
//  1. at least 2 items;
//  2. each item has exactly one of debit/credit set, neither negative;
//  3. total debit equals total credit within the tolerance.
func ValidateItems(items []domain.JournalEntryItem) ValidationResult {
	totalDebit := decimal.Zero
	totalCredit := decimal.Zero
	for _, item := range items {
		totalDebit = totalDebit.Add(item.Debit)
		totalCredit = totalCredit.Add(item.Credit)
	}

	result := ValidationResult{TotalDebit: totalDebit, TotalCredit: totalCredit}

	if len(items) < 2 {
		result.Message = "at least 2 journal entry items are required"
		return result
	}

	for _, item := range items {
		if item.Debit.IsNegative() || item.Credit.IsNegative() {
			result.Message = fmt.Sprintf("item for account %s cannot have negative amounts", item.AccountCode)
			return result
		}
		if item.Debit.IsPositive() && item.Credit.IsPositive() {
			result.Message = fmt.Sprintf("item for account %s cannot have both debit and credit", item.AccountCode)
			return result
		}
		if item.Debit.IsZero() && item.Credit.IsZero() {
			result.Message = fmt.Sprintf("item for account %s must have either debit or credit", item.AccountCode)
			return result
		}
	}

	if totalDebit.Sub(totalCredit).Abs().GreaterThan(balanceTolerance) {
		result.Message = fmt.Sprintf("total debit (%s) must equal total credit (%s)", totalDebit.String(), totalCredit.String())
		return result
	}

	result.OK = true
	return result
}

// SignedDelta computes the effect of a single item on its account's current
// balance: debit minus credit, negated for reversals, then oriented by the
// account's normal balance side.
func SignedDelta(item domain.JournalEntryItem, normal domain.NormalBalance, reverse bool) decimal.Decimal {
	amount := item.Debit.Sub(item.Credit)
	if reverse {
		amount = amount.Neg()
	}
	if normal == domain.DebitNormal {
		return amount
	}
	return amount.Neg()
}

// BalanceChanges aggregates per-account signed deltas for an item set.
// The normal balance for every referenced account code must be present in
// normals; posting paths guarantee this by resolving accounts first.
func BalanceChanges(items []domain.JournalEntryItem, normals map[string]domain.NormalBalance, reverse bool) (map[string]decimal.Decimal, error) {
	changes := make(map[string]decimal.Decimal, len(items))
	for _, item := range items {
		normal, ok := normals[item.AccountCode]
		if !ok {
			return nil, fmt.Errorf("normal balance unknown for account %s", item.AccountCode)
		}
		delta := SignedDelta(item, normal, reverse)
		changes[item.AccountCode] = changes[item.AccountCode].Add(delta)
	}
	return changes, nil
}
