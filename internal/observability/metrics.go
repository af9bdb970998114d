// Package observability carries the app's prometheus instruments and the
// request-logging middleware.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
)

// Metrics exposes the domain instruments. All counters register on the
// default registry so /metrics picks them up via promhttp.
type Metrics struct {
	DocumentsProcessed *prometheus.CounterVec
	ExtractionSeconds  prometheus.Histogram
	DuplicatesBlocked  prometheus.Counter
	InvoicesSubmitted  prometheus.Counter
	BatchItems         *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the instruments on a specific registerer; tests
// pass a fresh registry to avoid duplicate-registration panics.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		DocumentsProcessed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clark_documents_processed_total",
			Help: "Documents sent to the extraction processor, by outcome.",
		}, []string{"outcome"}),
		ExtractionSeconds: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "clark_extraction_duration_seconds",
			Help:    "Wall time of one document extraction round trip.",
			Buckets: prometheus.ExponentialBuckets(0.25, 2, 10),
		}),
		DuplicatesBlocked: factory.NewCounter(prometheus.CounterOpts{
			Name: "clark_duplicates_blocked_total",
			Help: "Submits blocked by the duplicate gate.",
		}),
		InvoicesSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "clark_invoices_submitted_total",
			Help: "Invoices moved to reviewed.",
		}),
		BatchItems: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "clark_batch_items_total",
			Help: "Batch upload items, by outcome.",
		}, []string{"outcome"}),
	}
}

// Module provides the prometheus instruments.
var Module = fx.Module("observability",
	fx.Provide(NewMetrics),
)
