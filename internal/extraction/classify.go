package extraction

import (
	"sort"
	"strings"
)

// Category is the closed set of semantic buckets an entity can land in.
type Category int

const (
	CategoryLineItem Category = iota
	CategorySupplier
	CategoryInvoice
	CategoryReceiver
	CategoryTotals
	CategoryOther
)

func (c Category) String() string {
	switch c {
	case CategoryLineItem:
		return "line_item"
	case CategorySupplier:
		return "supplier"
	case CategoryInvoice:
		return "invoice"
	case CategoryReceiver:
		return "receiver"
	case CategoryTotals:
		return "totals"
	default:
		return "other"
	}
}

// Categorize routes an entity type to its bucket. The predicate order is
// fixed: the amount/total test runs only after the more specific buckets
// fail, so types like total_tax_amount are never claimed by an earlier
// bucket they happen not to match.
func Categorize(entityType string) Category {
	t := strings.ToLower(entityType)
	switch {
	case t == "line_item":
		return CategoryLineItem
	case strings.Contains(t, "supplier"):
		return CategorySupplier
	case strings.Contains(t, "invoice"):
		return CategoryInvoice
	case strings.Contains(t, "receiver"):
		return CategoryReceiver
	case strings.Contains(t, "amount"), strings.Contains(t, "total"):
		return CategoryTotals
	default:
		return CategoryOther
	}
}

// PageBucket groups the entities of one UI page by category. Line items are
// stored assembled; every other category keeps the raw entities in input
// order.
type PageBucket struct {
	Supplier  []Entity
	Invoice   []Entity
	Receiver  []Entity
	LineItems []LineItem
	Totals    []Entity
	Other     []Entity
}

// Buckets maps one-based page numbers to their bucket. Always re-derived
// from the current entity list, never mutated in place.
type Buckets map[int]*PageBucket

// Classify partitions entities into per-page buckets. Every entity lands in
// exactly one bucket on exactly one page; nothing is dropped.
func Classify(entities []Entity) Buckets {
	buckets := Buckets{}
	for _, entity := range entities {
		page := entity.UIPage()
		bucket := buckets[page]
		if bucket == nil {
			bucket = &PageBucket{}
			buckets[page] = bucket
		}

		switch Categorize(entity.Type) {
		case CategoryLineItem:
			bucket.LineItems = append(bucket.LineItems, AssembleLineItem(entity))
		case CategorySupplier:
			bucket.Supplier = append(bucket.Supplier, entity)
		case CategoryInvoice:
			bucket.Invoice = append(bucket.Invoice, entity)
		case CategoryReceiver:
			bucket.Receiver = append(bucket.Receiver, entity)
		case CategoryTotals:
			bucket.Totals = append(bucket.Totals, entity)
		default:
			bucket.Other = append(bucket.Other, entity)
		}
	}
	return buckets
}

// Pages returns the page numbers present, ascending.
func (b Buckets) Pages() []int {
	pages := make([]int, 0, len(b))
	for page := range b {
		pages = append(pages, page)
	}
	sort.Ints(pages)
	return pages
}

// Page returns the bucket for a page, or an empty bucket when the page has
// no entities.
func (b Buckets) Page(n int) *PageBucket {
	if bucket, ok := b[n]; ok {
		return bucket
	}
	return &PageBucket{}
}

// AllTotals pools totals entities across every page, in page order. An
// invoice's total may be anchored on a different page than its line items.
func (b Buckets) AllTotals() []Entity {
	var totals []Entity
	for _, page := range b.Pages() {
		totals = append(totals, b[page].Totals...)
	}
	return totals
}

// FindEntity looks an entity up by id across every page and category.
// Returns nil when the id is unknown or belongs to a line item.
func (b Buckets) FindEntity(id string) *Entity {
	for _, page := range b.Pages() {
		bucket := b[page]
		for _, candidates := range [][]Entity{
			bucket.Supplier, bucket.Invoice, bucket.Receiver, bucket.Totals, bucket.Other,
		} {
			for i := range candidates {
				if candidates[i].ID == id {
					return &candidates[i]
				}
			}
		}
	}
	return nil
}

// FindLineItem looks an assembled line item up by id across every page.
func (b Buckets) FindLineItem(id string) *LineItem {
	for _, page := range b.Pages() {
		items := b[page].LineItems
		for i := range items {
			if items[i].ID == id {
				return &items[i]
			}
		}
	}
	return nil
}

// AllLineItems pools assembled line items across every page, in page order.
func (b Buckets) AllLineItems() []LineItem {
	var items []LineItem
	for _, page := range b.Pages() {
		items = append(items, b[page].LineItems...)
	}
	return items
}
