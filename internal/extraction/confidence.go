package extraction

// fallback confidence for a populated line-item property that carries none.
const defaultPropertyConfidence = 0.5

// AggregateConfidence computes the single document-level confidence score:
// the unweighted mean over every supplier/invoice/receiver/totals entity on
// every page, every line item, and one pseudo-entity per populated line-item
// property. Returns 0 when the document produced no scorable entities.
func AggregateConfidence(buckets Buckets) float64 {
	var sum float64
	var count int

	add := func(confidence float64) {
		sum += confidence
		count++
	}

	for _, page := range buckets.Pages() {
		bucket := buckets[page]
		for _, entity := range bucket.Supplier {
			add(entity.Confidence)
		}
		for _, entity := range bucket.Invoice {
			add(entity.Confidence)
		}
		for _, entity := range bucket.Receiver {
			add(entity.Confidence)
		}
		for _, entity := range bucket.Totals {
			add(entity.Confidence)
		}
		for _, item := range bucket.LineItems {
			add(item.Confidence)
			for _, prop := range item.Properties {
				if prop.Text == "" {
					continue
				}
				confidence := prop.Confidence
				if confidence == 0 {
					confidence = defaultPropertyConfidence
				}
				add(confidence)
			}
		}
	}

	if count == 0 {
		return 0
	}
	return sum / float64(count)
}
