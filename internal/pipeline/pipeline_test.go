package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"grocer/internal/domain"
	"grocer/internal/sites"
)

type fakeFrontier struct {
	pages    []domain.CrawlResult
	enqueued []string
}

func (f *fakeFrontier) Crawl(ctx context.Context) <-chan domain.CrawlResult {
	ch := make(chan domain.CrawlResult)
	go func() {
		defer close(ch)
		for _, p := range f.pages {
			select {
			case ch <- p:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

func (f *fakeFrontier) Enqueue(url string, _ int, _ float64) {
	f.enqueued = append(f.enqueued, url)
}

type fakeRecent struct {
	seen map[string]bool
}

func (f *fakeRecent) IsRecentlyScraped(_ context.Context, url string) (bool, error) {
	return f.seen[url], nil
}

func (f *fakeRecent) MarkScraped(_ context.Context, url string) error {
	if f.seen == nil {
		f.seen = make(map[string]bool)
	}
	f.seen[url] = true
	return nil
}

func newTestPipeline(t *testing.T, fetcher Fetcher, extractor Extractor, recent RecentCache) *Pipeline {
	t.Helper()
	site := testSite()
	m := testMetrics()
	ladder := NewLadder(site, fetcher, extractor, 10, m, zap.NewNop())
	return New(site, ladder, extractor, recent, m, zap.NewNop())
}

func TestPipeline_FailedPageEmitsNothing(t *testing.T) {
	fetcher := &scriptedFetcher{byTier: map[string]tierResponse{}}
	p := newTestPipeline(t, fetcher, &fixedExtractor{}, &fakeRecent{})

	frontier := &fakeFrontier{pages: []domain.CrawlResult{
		{URL: "https://testmart.com/product/a.1.html", Success: false, ErrorMessage: "timeout"},
	}}
	summary := p.Run(context.Background(), frontier, RunOptions{SeedURL: "https://testmart.com", MaxProducts: 10})

	assert.Equal(t, 0, summary.TotalProducts)
	assert.Empty(t, fetcher.attempts, "failed pages must not reach the ladder")
}

func TestPipeline_ProductPageYieldsOneRecord(t *testing.T) {
	fetcher := &scriptedFetcher{byTier: map[string]tierResponse{
		"direct": {html: substantiveHTML()},
	}}
	extractor := &fixedExtractor{fields: RawFields{
		sites.FieldName:  {"Oat Milk"},
		sites.FieldPrice: {"$4.99"},
	}}
	recent := &fakeRecent{}
	p := newTestPipeline(t, fetcher, extractor, recent)

	frontier := &fakeFrontier{pages: []domain.CrawlResult{
		{URL: "https://testmart.com/", Success: true, HTML: "<html></html>"},
		{URL: "https://testmart.com/product/oat-milk.123.html", Success: true, Depth: 1, Score: 0.9},
	}}
	summary := p.Run(context.Background(), frontier, RunOptions{SeedURL: "https://testmart.com", MaxProducts: 10})

	require.Equal(t, 1, summary.TotalProducts)
	assert.Equal(t, "Oat Milk", summary.Products[0].Name)
	assert.True(t, recent.seen["https://testmart.com/product/oat-milk.123.html"],
		"successful extraction marks the URL as recently scraped")
}

func TestPipeline_RecentlyScrapedProductSkipped(t *testing.T) {
	fetcher := &scriptedFetcher{byTier: map[string]tierResponse{
		"direct": {html: substantiveHTML()},
	}}
	extractor := &fixedExtractor{fields: RawFields{sites.FieldName: {"Oat Milk"}}}
	recent := &fakeRecent{seen: map[string]bool{"https://testmart.com/product/a.1.html": true}}
	p := newTestPipeline(t, fetcher, extractor, recent)

	pages := []domain.CrawlResult{{URL: "https://testmart.com/product/a.1.html", Success: true}}

	summary := p.Run(context.Background(), &fakeFrontier{pages: pages},
		RunOptions{SeedURL: "https://testmart.com", MaxProducts: 10})
	assert.Equal(t, 0, summary.TotalProducts)

	// Force bypasses the skip.
	summary = p.Run(context.Background(), &fakeFrontier{pages: pages},
		RunOptions{SeedURL: "https://testmart.com", MaxProducts: 10, Force: true})
	assert.Equal(t, 1, summary.TotalProducts)
}

func TestPipeline_CapStopsRunWithoutOvershoot(t *testing.T) {
	fetcher := &scriptedFetcher{byTier: map[string]tierResponse{
		"direct": {html: substantiveHTML()},
	}}
	extractor := &fixedExtractor{fields: RawFields{
		sites.FieldName:  {"Oat Milk"},
		sites.FieldPrice: {"$4.99"},
	}}
	p := newTestPipeline(t, fetcher, extractor, &fakeRecent{})

	var pages []domain.CrawlResult
	for i := 0; i < 10; i++ {
		pages = append(pages, domain.CrawlResult{
			URL:     "https://testmart.com/product/p" + string(rune('a'+i)) + ".1.html",
			Success: true,
		})
	}
	summary := p.Run(context.Background(), &fakeFrontier{pages: pages},
		RunOptions{SeedURL: "https://testmart.com", MaxProducts: 3})

	assert.Equal(t, 3, summary.TotalProducts)
}

func TestPipeline_CategoryListingFeedsFrontier(t *testing.T) {
	listingHTML := `<html><body>
		<a href="/product/oat-milk.123.html">Oat Milk</a>
		<a href="/product/almond-butter.456.html">Almond Butter</a>
	</body></html>`

	fetcher := &scriptedFetcher{byTier: map[string]tierResponse{}}
	extractor := &linkExtractor{}
	site := testSite()
	site.CategoryFragments = []string{"/shop/aisles/"}
	site.ListingSchema = sites.Schema{Name: "links", Fields: map[string]sites.FieldRule{
		sites.FieldLinks: {Selector: "a", Attr: "href", Multiple: true},
	}}
	m := testMetrics()
	ladder := NewLadder(site, fetcher, extractor, 10, m, zap.NewNop())
	p := New(site, ladder, extractor, &fakeRecent{}, m, zap.NewNop())

	frontier := &fakeFrontier{pages: []domain.CrawlResult{
		{URL: "https://testmart.com/shop/aisles/dairy.html", Success: true, HTML: listingHTML, Depth: 1},
	}}
	summary := p.Run(context.Background(), frontier, RunOptions{SeedURL: "https://testmart.com", MaxProducts: 10})

	assert.Equal(t, 0, summary.TotalProducts)
	assert.Equal(t, []string{
		"https://testmart.com/product/oat-milk.123.html",
		"https://testmart.com/product/almond-butter.456.html",
	}, frontier.enqueued)
}

// linkExtractor returns the hrefs baked into the listing fixture, in order.
type linkExtractor struct{}

func (linkExtractor) Extract(html string, _ sites.Schema) (RawFields, error) {
	return RawFields{sites.FieldLinks: {
		"/product/oat-milk.123.html",
		"/product/almond-butter.456.html",
	}}, nil
}
