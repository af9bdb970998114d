package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func totalsFixture(net, tax, total string) Buckets {
	return Classify([]Entity{
		{ID: "net", Type: "net_amount", MentionText: net},
		{ID: "tax", Type: "total_tax_amount", MentionText: tax},
		{ID: "total", Type: "total_amount", MentionText: total},
	})
}

func TestValidateTotalsConsistent(t *testing.T) {
	errs := ValidateTotals(totalsFixture("80.00", "20.00", "100.00"), nil)
	assert.Empty(t, errs)
}

func TestValidateTotalsToleranceBoundary(t *testing.T) {
	// Amounts round to cents before the check, so a sub-cent difference
	// vanishes in parsing.
	assert.Empty(t, ValidateTotals(totalsFixture("80.00", "20.00", "100.004"), nil))

	// One full cent of drift lands above the tolerance once float error is
	// accounted for: |100.01 - 100.00| evaluates just over 0.01.
	assert.Len(t, ValidateTotals(totalsFixture("80.00", "20.00", "100.01"), nil), 3)
}

func TestValidateTotalsMismatchFlagsAllThree(t *testing.T) {
	errs := ValidateTotals(totalsFixture("80.00", "20.00", "105.00"), nil)
	require.Len(t, errs, 3)

	want := "Net amount (80.00) + Tax amount (20.00) = 100.00 does not match Total amount (105.00)"
	assert.Equal(t, want, errs["net"])
	assert.Equal(t, want, errs["tax"])
	assert.Equal(t, want, errs["total"])
}

func TestValidateTotalsUsesOverrides(t *testing.T) {
	buckets := totalsFixture("80.00", "20.00", "105.00")

	errs := ValidateTotals(buckets, map[string]string{"total": "$100.00"})
	assert.Empty(t, errs)

	// An empty override falls back to the extracted text.
	errs = ValidateTotals(buckets, map[string]string{"total": ""})
	assert.Len(t, errs, 3)
}

func TestValidateTotalsMissingSlotCountsAsZero(t *testing.T) {
	buckets := Classify([]Entity{
		{ID: "net", Type: "net_amount", MentionText: "80.00"},
		{ID: "total", Type: "total_amount", MentionText: "100.00"},
	})

	errs := ValidateTotals(buckets, nil)
	require.Len(t, errs, 2)
	assert.Contains(t, errs["total"], "Net amount (80.00) + Tax amount (0.00) = 80.00")
	assert.NotContains(t, errs, "tax")
}

func TestValidateTotalsNoTotalsEntities(t *testing.T) {
	buckets := Classify([]Entity{{ID: "e1", Type: "supplier_name", MentionText: "Acme"}})
	assert.Empty(t, ValidateTotals(buckets, nil))
}

func TestValidateTotalsPoolsAcrossPages(t *testing.T) {
	buckets := Classify([]Entity{
		{ID: "net", Type: "net_amount", MentionText: "80.00"},
		{ID: "tax", Type: "total_tax_amount", MentionText: "20.00"},
		{ID: "total", Type: "total_amount", MentionText: "100.00", PageAnchor: anchored(1)},
	})
	assert.Empty(t, ValidateTotals(buckets, nil))
}
