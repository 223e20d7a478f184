package pgsql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatEntryNumber(t *testing.T) {
	assert.Equal(t, "2026-001", formatEntryNumber(2026, 1))
	assert.Equal(t, "2026-042", formatEntryNumber(2026, 42))
	assert.Equal(t, "2026-999", formatEntryNumber(2026, 999))
	// Past three digits the number just grows wider.
	assert.Equal(t, "2026-1000", formatEntryNumber(2026, 1000))
}

func TestParseEntrySuffix(t *testing.T) {
	assert.Equal(t, 7, parseEntrySuffix("2026-007"))
	assert.Equal(t, 1000, parseEntrySuffix("2026-1000"))

	// Malformed or hand-entered numbers never break allocation.
	assert.Equal(t, 0, parseEntrySuffix("2026-"))
	assert.Equal(t, 0, parseEntrySuffix("2026"))
	assert.Equal(t, 0, parseEntrySuffix(""))
	assert.Equal(t, 0, parseEntrySuffix("2026-abc"))
	assert.Equal(t, 0, parseEntrySuffix("JE-DRAFT"))
}

func TestParseEntrySuffix_RoundTrip(t *testing.T) {
	for _, n := range []int{1, 99, 999, 12345} {
		assert.Equal(t, n, parseEntrySuffix(formatEntryNumber(2026, n)))
	}
}
