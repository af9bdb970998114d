package service

import (
	"strings"

	"github.com/clarkhq/clark/internal/extraction"
	"github.com/clarkhq/clark/internal/invoice/domain"
)

// headerEntity finds an exact-typed header field on a page bucket. Header
// scalars can land in any category bucket depending on their type string,
// so all non-line-item slices are scanned.
func headerEntity(bucket *extraction.PageBucket, entityType string) *extraction.Entity {
	for _, candidates := range [][]extraction.Entity{
		bucket.Invoice, bucket.Supplier, bucket.Receiver, bucket.Totals, bucket.Other,
	} {
		if entity := extraction.FirstExact(candidates, entityType); entity != nil {
			return entity
		}
	}
	return nil
}

// AssembleFields flattens classified buckets into the normalized value set
// that gets persisted. Overrides win over extracted text wherever present.
// Header scalars resolve on page 1 only; amounts pool across all pages.
func AssembleFields(buckets extraction.Buckets, overrides map[string]string) domain.Fields {
	page1 := buckets.Page(1)
	text := func(entity *extraction.Entity) string {
		return strings.TrimSpace(extraction.OverriddenText(entity, overrides))
	}

	fields := domain.Fields{
		InvoiceNumber:   text(headerEntity(page1, "invoice_id")),
		SupplierName:    text(headerEntity(page1, "supplier_name")),
		SupplierAddress: text(headerEntity(page1, "supplier_address")),
		ReceiverName:    text(headerEntity(page1, "receiver_name")),
		ReceiverAddress: text(headerEntity(page1, "receiver_address")),
		Currency:        text(headerEntity(page1, "currency")),
		InvoiceDate:     normalizeDate(text(headerEntity(page1, "invoice_date"))),
		DueDate:         normalizeDate(text(headerEntity(page1, "due_date"))),
	}

	totals := buckets.AllTotals()
	fields.TotalAmount = extraction.ParseAmount(text(extraction.ResolveTotalAmount(totals)))
	fields.TaxAmount = extraction.ParseAmount(text(extraction.ResolveTaxAmount(totals)))
	fields.NetAmount = extraction.ParseAmount(text(extraction.ResolveNetAmount(totals)))

	for _, item := range buckets.AllLineItems() {
		prop := func(name string) string {
			key := extraction.PropertyKey(item.ID, name)
			if value := overrides[key]; value != "" {
				return strings.TrimSpace(value)
			}
			return strings.TrimSpace(item.PropertyText(name))
		}
		fields.LineItems = append(fields.LineItems, domain.LineItemFields{
			Description: prop("description"),
			Quantity:    prop("quantity"),
			UnitPrice:   extraction.ParseAmount(prop("unit_price")),
			Amount:      extraction.ParseAmount(prop("amount")),
		})
	}
	return fields
}

// normalizeDate canonicalizes to YYYY-MM-DD, or empty when the text does
// not parse. Free text never reaches the stored date columns; the raw
// extraction stays visible in the review session for correction.
func normalizeDate(text string) string {
	if normalized, ok := extraction.ParseDate(text); ok {
		return normalized
	}
	return ""
}
