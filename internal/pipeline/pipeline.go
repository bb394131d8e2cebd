package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"grocer/internal/domain"
	"grocer/internal/monitoring"
	"grocer/internal/sites"
)

// Frontier streams fetched pages from a seed URL. The stream is finite once
// the frontier's page and depth bounds are hit or its context is cancelled.
// Cancellation is cooperative: pages already in flight may still arrive and
// are discarded by the consumer.
type Frontier interface {
	Crawl(ctx context.Context) <-chan domain.CrawlResult
	Enqueue(url string, depth int, score float64)
}

// RecentCache remembers product URLs scraped within the deduplication
// window so a run does not pay repeated fetch cost for them.
type RecentCache interface {
	IsRecentlyScraped(ctx context.Context, url string) (bool, error)
	MarkScraped(ctx context.Context, url string) error
}

// RunOptions bounds one extraction run.
type RunOptions struct {
	SeedURL     string
	MaxProducts int
	Force       bool // bypass the recently-scraped check
}

// Pipeline connects the classifier, ladder, normalizer and accumulator for
// one retailer. A single Pipeline serves many runs; per-run state lives in
// the accumulator created inside Run.
type Pipeline struct {
	site      *sites.Site
	classify  *Classifier
	ladder    *Ladder
	extractor Extractor
	recent    RecentCache
	metrics   *monitoring.Metrics
	logger    *zap.Logger
}

func New(site *sites.Site, ladder *Ladder, extractor Extractor, recent RecentCache, m *monitoring.Metrics, l *zap.Logger) *Pipeline {
	return &Pipeline{
		site:      site,
		classify:  NewClassifier(site),
		ladder:    ladder,
		extractor: extractor,
		recent:    recent,
		metrics:   m,
		logger:    l,
	}
}

// Run consumes the frontier's page stream until it ends or the product cap
// is reached, and returns the accumulated records as a run summary. Reaching
// the cap cancels the frontier cooperatively; late pages are drained and
// discarded. Upstream failure still returns the partial results gathered so
// far.
func (p *Pipeline) Run(ctx context.Context, frontier Frontier, opts RunOptions) *domain.RunSummary {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	acc := NewAccumulator(opts.MaxProducts)
	start := time.Now()

	p.logger.Info("starting extraction run",
		zap.String("site", p.site.Name),
		zap.String("seed_url", opts.SeedURL),
		zap.Int("max_products", opts.MaxProducts))

	for page := range frontier.Crawl(runCtx) {
		if acc.Full() {
			continue // cap reached, discard in-flight pages
		}
		record, ok := p.processPage(runCtx, frontier, page, opts.Force)
		if !ok {
			continue
		}
		if !acc.Offer(record) {
			p.logger.Info("reached product target, stopping traversal",
				zap.Int("max_products", opts.MaxProducts))
			cancel()
		}
	}

	products := acc.Snapshot()
	p.logger.Info("extraction run finished",
		zap.String("site", p.site.Name),
		zap.Int("products", len(products)),
		zap.Duration("elapsed", time.Since(start)))

	return &domain.RunSummary{
		ScrapedAt:     time.Now(),
		TotalProducts: len(products),
		CrawlConfig: domain.RunConfig{
			Site:        p.site.Name,
			SeedURL:     opts.SeedURL,
			MaxProducts: opts.MaxProducts,
			Strategy:    p.site.Strategy,
		},
		Products: products,
	}
}

// processPage classifies one fetched page and routes it: product detail
// pages go through the strategy ladder, category listings feed discovered
// product links back to the frontier.
func (p *Pipeline) processPage(ctx context.Context, frontier Frontier, page domain.CrawlResult, force bool) (domain.Product, bool) {
	p.metrics.IncPagesProcessed()

	if !page.Success {
		p.metrics.IncErrorsTotal("page_failed")
		p.logger.Debug("skipping failed page",
			zap.String("url", page.URL), zap.String("error", page.ErrorMessage))
		return domain.Product{}, false
	}

	switch p.classify.Classify(page.URL) {
	case ProductDetail:
		return p.processProductPage(ctx, page, force)

	case CategoryListing:
		p.enqueueProductLinks(frontier, page)
		return domain.Product{}, false

	default:
		if WorthLogging(page.Depth, page.Score) {
			p.logger.Info("crawled page",
				zap.String("url", page.URL),
				zap.Int("depth", page.Depth),
				zap.Float64("score", page.Score))
		}
		return domain.Product{}, false
	}
}

func (p *Pipeline) processProductPage(ctx context.Context, page domain.CrawlResult, force bool) (domain.Product, bool) {
	if !force {
		recent, err := p.recent.IsRecentlyScraped(ctx, page.URL)
		if err != nil {
			p.logger.Error("recently-scraped check failed", zap.String("url", page.URL), zap.Error(err))
		}
		if recent {
			p.logger.Debug("skipping recently scraped product", zap.String("url", page.URL))
			return domain.Product{}, false
		}
	}

	p.logger.Info("processing product page", zap.String("url", page.URL))
	outcome := p.ladder.ExtractProduct(ctx, page.URL, page.Depth, page.Score)
	p.metrics.IncProductsExtracted(outcome.Product.ExtractionMethod)

	if outcome.Kind == OutcomeSuccess {
		if err := p.recent.MarkScraped(ctx, page.URL); err != nil {
			p.logger.Error("failed to mark URL as scraped", zap.String("url", page.URL), zap.Error(err))
		}
	}
	return outcome.Product, true
}

// enqueueProductLinks pulls product detail links out of an already-fetched
// listing page and hands them to the frontier.
func (p *Pipeline) enqueueProductLinks(frontier Frontier, page domain.CrawlResult) {
	raw, err := p.extractor.Extract(page.HTML, p.site.ListingSchema)
	if err != nil {
		p.metrics.IncErrorsTotal("extraction_failed")
		p.logger.Warn("listing extraction failed", zap.String("url", page.URL), zap.Error(err))
		return
	}
	links := raw[sites.FieldLinks]
	for _, link := range links {
		abs := ResolveImageURL(link, page.URL)
		if abs == "" {
			continue
		}
		p.metrics.IncLinksDiscovered()
		frontier.Enqueue(abs, page.Depth+1, page.Score)
	}
	if len(links) > 0 {
		p.logger.Info("discovered product links",
			zap.String("url", page.URL), zap.Int("count", len(links)))
	}
}
