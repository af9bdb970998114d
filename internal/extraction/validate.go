package extraction

import "fmt"

// amountTolerance absorbs cent-level rounding between net+tax and total.
const amountTolerance = 0.01

// OverriddenText returns the user override for an entity when one is set and
// non-empty, else its mention text. Overrides always win for display,
// validation and submission.
func OverriddenText(entity *Entity, overrides map[string]string) string {
	if entity == nil {
		return ""
	}
	if value := overrides[entity.ID]; value != "" {
		return value
	}
	return entity.MentionText
}

// ValidateTotals checks net + tax against the extracted grand total, using
// override values where present. When the difference exceeds the tolerance
// it emits one message per resolvable totals entity, keyed by entity id;
// a slot with no resolvable entity is skipped silently and its value counts
// as 0 in the arithmetic. An empty map means the document passes.
func ValidateTotals(buckets Buckets, overrides map[string]string) map[string]string {
	totals := buckets.AllTotals()

	totalEntity := ResolveTotalAmount(totals)
	taxEntity := ResolveTaxAmount(totals)
	netEntity := ResolveNetAmount(totals)

	total := ParseAmount(OverriddenText(totalEntity, overrides))
	tax := ParseAmount(OverriddenText(taxEntity, overrides))
	net := ParseAmount(OverriddenText(netEntity, overrides))

	calculated := net + tax
	diff := calculated - total
	if diff < 0 {
		diff = -diff
	}

	errs := map[string]string{}
	if diff <= amountTolerance {
		return errs
	}

	message := fmt.Sprintf("Net amount (%.2f) + Tax amount (%.2f) = %.2f does not match Total amount (%.2f)",
		net, tax, calculated, total)
	if totalEntity != nil {
		errs[totalEntity.ID] = message
	}
	if taxEntity != nil {
		errs[taxEntity.ID] = message
	}
	if netEntity != nil {
		errs[netEntity.ID] = message
	}
	return errs
}
