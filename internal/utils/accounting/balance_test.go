package accounting

import (
	"testing"

	"github.com/rentops/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func item(code string, debit, credit float64) domain.JournalEntryItem {
	return domain.JournalEntryItem{
		AccountCode: code,
		Debit:       decimal.NewFromFloat(debit),
		Credit:      decimal.NewFromFloat(credit),
	}
}

func TestValidateItems_Balanced(t *testing.T) {
	result := ValidateItems([]domain.JournalEntryItem{
		item("1000", 100, 0),
		item("4000", 0, 100),
	})

	assert.True(t, result.OK)
	assert.Empty(t, result.Message)
	assert.True(t, result.TotalDebit.Equal(decimal.NewFromInt(100)))
	assert.True(t, result.TotalCredit.Equal(decimal.NewFromInt(100)))
}

func TestValidateItems_TooFewItems(t *testing.T) {
	result := ValidateItems([]domain.JournalEntryItem{item("1000", 100, 0)})

	assert.False(t, result.OK)
	assert.Equal(t, "at least 2 journal entry items are required", result.Message)
	// Totals still come back for the dry-run endpoint.
	assert.True(t, result.TotalDebit.Equal(decimal.NewFromInt(100)))
}

func TestValidateItems_NegativeAmount(t *testing.T) {
	result := ValidateItems([]domain.JournalEntryItem{
		item("1000", -50, 0),
		item("4000", 0, 50),
	})

	assert.False(t, result.OK)
	assert.Equal(t, "item for account 1000 cannot have negative amounts", result.Message)
}

func TestValidateItems_BothSidesSet(t *testing.T) {
	result := ValidateItems([]domain.JournalEntryItem{
		item("1000", 50, 50),
		item("4000", 0, 50),
	})

	assert.False(t, result.OK)
	assert.Equal(t, "item for account 1000 cannot have both debit and credit", result.Message)
}

func TestValidateItems_NeitherSideSet(t *testing.T) {
	result := ValidateItems([]domain.JournalEntryItem{
		item("1000", 100, 0),
		item("4000", 0, 0),
	})

	assert.False(t, result.OK)
	assert.Equal(t, "item for account 4000 must have either debit or credit", result.Message)
}

func TestValidateItems_Unbalanced(t *testing.T) {
	result := ValidateItems([]domain.JournalEntryItem{
		item("1000", 100, 0),
		item("4000", 0, 90),
	})

	assert.False(t, result.OK)
	assert.Equal(t, "total debit (100) must equal total credit (90)", result.Message)
}

func TestValidateItems_WithinTolerance(t *testing.T) {
	result := ValidateItems([]domain.JournalEntryItem{
		item("1000", 100.00, 0),
		item("4000", 0, 99.99),
	})

	assert.True(t, result.OK)
}

func TestSignedDelta(t *testing.T) {
	debitItem := item("1000", 100, 0)
	creditItem := item("4000", 0, 100)

	// Debit-normal account: debit increases, credit decreases.
	assert.True(t, SignedDelta(debitItem, domain.DebitNormal, false).Equal(decimal.NewFromInt(100)))
	assert.True(t, SignedDelta(creditItem, domain.DebitNormal, false).Equal(decimal.NewFromInt(-100)))

	// Credit-normal account: mirror image.
	assert.True(t, SignedDelta(debitItem, domain.CreditNormal, false).Equal(decimal.NewFromInt(-100)))
	assert.True(t, SignedDelta(creditItem, domain.CreditNormal, false).Equal(decimal.NewFromInt(100)))

	// Reversal negates everything.
	assert.True(t, SignedDelta(debitItem, domain.DebitNormal, true).Equal(decimal.NewFromInt(-100)))
	assert.True(t, SignedDelta(creditItem, domain.CreditNormal, true).Equal(decimal.NewFromInt(-100)))
}

func TestBalanceChanges_AggregatesPerAccount(t *testing.T) {
	items := []domain.JournalEntryItem{
		item("1000", 60, 0),
		item("1000", 40, 0),
		item("4000", 0, 100),
	}
	normals := map[string]domain.NormalBalance{
		"1000": domain.DebitNormal,
		"4000": domain.CreditNormal,
	}

	changes, err := BalanceChanges(items, normals, false)
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.True(t, changes["1000"].Equal(decimal.NewFromInt(100)))
	assert.True(t, changes["4000"].Equal(decimal.NewFromInt(100)))
}

func TestBalanceChanges_ReversalNegates(t *testing.T) {
	items := []domain.JournalEntryItem{
		item("1000", 100, 0),
		item("4000", 0, 100),
	}
	normals := map[string]domain.NormalBalance{
		"1000": domain.DebitNormal,
		"4000": domain.CreditNormal,
	}

	forward, err := BalanceChanges(items, normals, false)
	require.NoError(t, err)
	backward, err := BalanceChanges(items, normals, true)
	require.NoError(t, err)

	for code, delta := range forward {
		assert.True(t, backward[code].Equal(delta.Neg()), "reversal must mirror %s", code)
	}
}

func TestBalanceChanges_UnknownAccount(t *testing.T) {
	items := []domain.JournalEntryItem{item("9999", 100, 0)}

	_, err := BalanceChanges(items, map[string]domain.NormalBalance{}, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "9999")
}
