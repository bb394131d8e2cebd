package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	PagesProcessed    prometheus.Counter
	ProductsExtracted *prometheus.CounterVec
	TierAttempts      *prometheus.CounterVec
	LinksDiscovered   prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	return NewMetricsWith(prometheus.DefaultRegisterer)
}

// NewMetricsWith registers the metrics on a specific registerer, which lets
// tests use an isolated registry.
func NewMetricsWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		PagesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_pages_processed_total",
			Help: "The total number of frontier pages consumed",
		}),
		ProductsExtracted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_products_extracted_total",
			Help: "The total number of product records produced",
		}, []string{"method"}), // tier name or 'placeholder'
		TierAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_tier_attempts_total",
			Help: "The total number of extraction attempts by ladder tier",
		}, []string{"tier"}),
		LinksDiscovered: factory.NewCounter(prometheus.CounterOpts{
			Name: "scraper_links_discovered_total",
			Help: "The total number of product links fed back to the frontier",
		}),
		ErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scraper_errors_total",
			Help: "The total number of errors encountered",
		}, []string{"type"}), // e.g., 'fetch_failed', 'content_blocked'
	}
}

func (m *Metrics) IncPagesProcessed() {
	m.PagesProcessed.Inc()
}

func (m *Metrics) IncProductsExtracted(method string) {
	m.ProductsExtracted.WithLabelValues(method).Inc()
}

func (m *Metrics) IncTierAttempt(tier string) {
	m.TierAttempts.WithLabelValues(tier).Inc()
}

func (m *Metrics) IncLinksDiscovered() {
	m.LinksDiscovered.Inc()
}

func (m *Metrics) IncErrorsTotal(errorType string) {
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
