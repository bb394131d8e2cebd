package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"grocer/internal/domain"
	"grocer/internal/monitoring"
	"grocer/internal/sites"
)

// Fetcher performs one fetch attempt under a tier's settings and returns the
// rendered HTML.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string, tier sites.Tier) (string, error)
}

// Extractor applies a field schema to fetched HTML.
type Extractor interface {
	Extract(html string, schema sites.Schema) (RawFields, error)
}

// OutcomeKind tags how the ladder produced its record.
type OutcomeKind int

const (
	// OutcomeSuccess means a tier yielded substantive content with a real
	// product name.
	OutcomeSuccess OutcomeKind = iota
	// OutcomePlaceholder means every tier was exhausted and a synthetic
	// record was emitted instead.
	OutcomePlaceholder
)

// Outcome is the ladder's result: exactly one record per attempted URL.
type Outcome struct {
	Kind    OutcomeKind
	Product domain.Product
}

// blockMarkers are strings that identify an anti-bot challenge page even
// when the response body is large enough to pass the length check.
var blockMarkers = []string{
	"Incapsula",
	"Access Denied",
	"Pardon Our Interruption",
}

// nonProductNames are page titles that leak into the name selector on error
// or interstitial pages; they never identify a real product.
var nonProductNames = []string{
	"Unsupported browser",
	"Arrow_Right_Red",
}

const placeholderPrice = "Protected - pricing available in store"

// Ladder runs the escalating sequence of fetch configurations for a single
// product URL, stopping at the first tier that yields a substantive page
// with a valid product name.
type Ladder struct {
	site       *sites.Site
	fetcher    Fetcher
	extractor  Extractor
	minContent int
	metrics    *monitoring.Metrics
	logger     *zap.Logger
}

func NewLadder(site *sites.Site, f Fetcher, e Extractor, minContent int, m *monitoring.Metrics, l *zap.Logger) *Ladder {
	return &Ladder{
		site:       site,
		fetcher:    f,
		extractor:  e,
		minContent: minContent,
		metrics:    m,
		logger:     l,
	}
}

// ExtractProduct walks the tier ladder for pageURL. A fetch error or blocked
// response within a tier advances to the next tier; it is never fatal to the
// run. When all tiers fail the result is a placeholder record so the caller
// still receives one record for the URL.
func (l *Ladder) ExtractProduct(ctx context.Context, pageURL string, depth int, score float64) Outcome {
	for _, tier := range l.site.Tiers {
		l.metrics.IncTierAttempt(tier.Name)

		html, err := l.fetcher.Fetch(ctx, pageURL, tier)
		if err != nil {
			l.logger.Warn("tier fetch failed",
				zap.String("url", pageURL), zap.String("tier", tier.Name), zap.Error(err))
			l.metrics.IncErrorsTotal("fetch_failed")
			continue
		}

		if !l.substantive(html) {
			l.logger.Debug("content blocked or too small",
				zap.String("url", pageURL), zap.String("tier", tier.Name), zap.Int("html_length", len(html)))
			l.metrics.IncErrorsTotal("content_blocked")
			continue
		}

		raw, err := l.extractor.Extract(html, l.site.ProductSchema)
		if err != nil {
			l.logger.Warn("extraction parse failed",
				zap.String("url", pageURL), zap.String("tier", tier.Name), zap.Error(err))
			l.metrics.IncErrorsTotal("extraction_failed")
			continue
		}

		if !validProductName(raw.First(sites.FieldName)) {
			continue
		}

		record, ok := Normalize(raw, pageURL, depth, score)
		if !ok {
			continue
		}
		record.ExtractionMethod = tier.Name
		if record.Brand == "" {
			record.Brand = l.site.Store
		}

		l.logger.Info("product extracted",
			zap.String("url", pageURL), zap.String("tier", tier.Name), zap.String("name", record.Name))
		return Outcome{Kind: OutcomeSuccess, Product: record}
	}

	l.logger.Info("all tiers exhausted, emitting placeholder", zap.String("url", pageURL))
	return Outcome{Kind: OutcomePlaceholder, Product: l.placeholder(pageURL, depth, score)}
}

// substantive reports whether fetched content is large enough, and free of
// known challenge markers, to plausibly contain real data.
func (l *Ladder) substantive(html string) bool {
	if len(html) <= l.minContent {
		return false
	}
	for _, marker := range blockMarkers {
		if strings.Contains(html, marker) {
			return false
		}
	}
	return true
}

func validProductName(name string) bool {
	if name == "" {
		return false
	}
	for _, sentinel := range nonProductNames {
		if name == sentinel {
			return false
		}
	}
	return true
}

// placeholder synthesizes a minimal record for a URL whose content stayed
// protected across every tier.
func (l *Ladder) placeholder(pageURL string, depth int, score float64) domain.Product {
	id := ProductIDFromURL(pageURL)
	return domain.Product{
		Name:             l.site.Store + " Product #" + id,
		Price:            placeholderPrice,
		Description:      "Product details protected by security system. Direct URL: " + pageURL,
		URL:              pageURL,
		ID:               id,
		Brand:            l.site.Store,
		CrawlDepth:       depth,
		CrawlScore:       score,
		ExtractedAt:      time.Now(),
		ExtractionMethod: "placeholder",
		Status:           "protected_content",
	}
}

// ProductIDFromURL parses a best-effort identifier from a product URL path.
// Retailer product URLs end in "<slug>.<id>.html"; the second-to-last dot
// segment is the site-native ID. URLs without dots fall back to the last
// path segment.
func ProductIDFromURL(pageURL string) string {
	trimmed := strings.TrimSuffix(pageURL, "/")
	last := trimmed
	if i := strings.LastIndex(trimmed, "/"); i >= 0 {
		last = trimmed[i+1:]
	}
	parts := strings.Split(last, ".")
	if len(parts) >= 2 {
		return parts[len(parts)-2]
	}
	if last == "" {
		return "unknown"
	}
	return last
}
