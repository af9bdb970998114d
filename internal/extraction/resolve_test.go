package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveExactBeatsFuzzy(t *testing.T) {
	totals := []Entity{
		{ID: "e1", Type: "grand_total_amount", MentionText: "999.00"},
		{ID: "e2", Type: "total_amount", MentionText: "100.00"},
	}

	got := ResolveTotalAmount(totals)
	require.NotNil(t, got)
	assert.Equal(t, "e2", got.ID)
}

func TestResolveFuzzyOrder(t *testing.T) {
	// No exact total_tax_amount: "tax_amount" variants must win over bare
	// "tax" regardless of slice position.
	totals := []Entity{
		{ID: "e1", Type: "sales_tax", MentionText: "5.00"},
		{ID: "e2", Type: "vat_tax_amount", MentionText: "20.00"},
	}

	got := ResolveTaxAmount(totals)
	require.NotNil(t, got)
	assert.Equal(t, "e2", got.ID)
}

func TestResolveCaseInsensitive(t *testing.T) {
	got := ResolveNetAmount([]Entity{{ID: "e1", Type: "NET_AMOUNT"}})
	require.NotNil(t, got)
	assert.Equal(t, "e1", got.ID)
}

func TestResolveSubtotalFallback(t *testing.T) {
	got := ResolveNetAmount([]Entity{
		{ID: "e1", Type: "total_amount"},
		{ID: "e2", Type: "subtotal"},
	})
	require.NotNil(t, got)
	assert.Equal(t, "e2", got.ID)
}

func TestResolveNoMatch(t *testing.T) {
	assert.Nil(t, ResolveTotalAmount([]Entity{{ID: "e1", Type: "currency"}}))
	assert.Nil(t, ResolveTotalAmount(nil))
}

func TestFirstExact(t *testing.T) {
	candidates := []Entity{
		{ID: "e1", Type: "supplier_address"},
		{ID: "e2", Type: "supplier_name"},
		{ID: "e3", Type: "supplier_name"},
	}

	got := FirstExact(candidates, "Supplier_Name")
	require.NotNil(t, got)
	assert.Equal(t, "e2", got.ID)
	assert.Nil(t, FirstExact(candidates, "supplier_email"))
}
