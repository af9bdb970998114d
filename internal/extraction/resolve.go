package extraction

import "strings"

// Predicate tests a lower-cased entity type during fuzzy resolution.
type Predicate func(loweredType string) bool

// Contains matches types containing the given fragment.
func Contains(fragment string) Predicate {
	return func(t string) bool { return strings.Contains(t, fragment) }
}

// ContainsAll matches types containing every given fragment.
func ContainsAll(fragments ...string) Predicate {
	return func(t string) bool {
		for _, fragment := range fragments {
			if !strings.Contains(t, fragment) {
				return false
			}
		}
		return true
	}
}

// Resolve picks the best candidate for a semantic slot: first an exact
// case-insensitive type match, then the first candidate satisfying any fuzzy
// predicate, tried in declared order. Returns nil when nothing matches.
func Resolve(candidates []Entity, exactType string, fuzzy ...Predicate) *Entity {
	for i := range candidates {
		if strings.EqualFold(candidates[i].Type, exactType) {
			return &candidates[i]
		}
	}
	for _, predicate := range fuzzy {
		for i := range candidates {
			if predicate(strings.ToLower(candidates[i].Type)) {
				return &candidates[i]
			}
		}
	}
	return nil
}

// ResolveTotalAmount finds the grand-total entity in a pooled totals slice.
func ResolveTotalAmount(totals []Entity) *Entity {
	return Resolve(totals, "total_amount",
		Contains("total_amount"),
		ContainsAll("total", "amount"),
	)
}

// ResolveTaxAmount finds the tax entity in a pooled totals slice.
func ResolveTaxAmount(totals []Entity) *Entity {
	return Resolve(totals, "total_tax_amount",
		Contains("tax_amount"),
		Contains("tax"),
	)
}

// ResolveNetAmount finds the net/subtotal entity in a pooled totals slice.
func ResolveNetAmount(totals []Entity) *Entity {
	return Resolve(totals, "net_amount",
		Contains("net_amount"),
		Contains("subtotal"),
		Contains("net"),
	)
}

// FirstExact returns the first entity whose type equals exactType,
// case-insensitively. Header fields (supplier, invoice, receiver scalars)
// are expected on page 1 and resolved with no fuzzy fallback.
func FirstExact(candidates []Entity, exactType string) *Entity {
	for i := range candidates {
		if strings.EqualFold(candidates[i].Type, exactType) {
			return &candidates[i]
		}
	}
	return nil
}
