package fetch

import (
	"context"
	"net/url"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"grocer/internal/domain"
	"grocer/internal/pipeline"
	"grocer/internal/sites"
)

// relevanceKeywords score discovered URLs toward grocery product pages.
var relevanceKeywords = []string{
	"product", "price", "ingredients", "nutrition", "organic",
	"food", "aisles", "shop", "item", "detail", "pdp", "grocery",
}

// CrawlerOptions bounds a frontier traversal.
type CrawlerOptions struct {
	SeedURL     string
	MaxPages    int
	MaxDepth    int
	Concurrency int
}

type crawlTask struct {
	url   string
	depth int
	score float64
}

// Crawler is a bounded breadth-first frontier over one retailer's domain.
// It streams fetched pages to the consumer and accepts discovered links back
// through Enqueue. Stopping is cooperative: cancelling the crawl context
// lets in-flight fetches finish, and their results are simply discarded.
type Crawler struct {
	site    *sites.Site
	fetcher pipeline.Fetcher
	opts    CrawlerOptions
	logger  *zap.Logger

	mu        sync.Mutex
	visited   map[string]bool
	scheduled int
	pending   int
	closed    bool
	tasks     chan crawlTask
}

func NewCrawler(site *sites.Site, fetcher pipeline.Fetcher, opts CrawlerOptions, logger *zap.Logger) *Crawler {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 200
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = 3
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 5
	}
	return &Crawler{
		site:    site,
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
		visited: make(map[string]bool),
		// Admission caps scheduled tasks at MaxPages, so a buffer of that
		// size guarantees sends never block.
		tasks: make(chan crawlTask, opts.MaxPages),
	}
}

// Crawl starts the traversal from the seed URL and returns the page stream.
// The channel closes when the frontier is exhausted or the context is
// cancelled.
func (c *Crawler) Crawl(ctx context.Context) <-chan domain.CrawlResult {
	out := make(chan domain.CrawlResult)
	c.Enqueue(c.opts.SeedURL, 0, 0)

	var wg sync.WaitGroup
	for i := 0; i < c.opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.worker(ctx, out)
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// Enqueue admits a discovered URL into the frontier. Late submissions after
// the frontier has drained are dropped; the traversal is best-effort by
// contract.
func (c *Crawler) Enqueue(rawURL string, depth int, score float64) {
	if !c.admissible(rawURL, depth) {
		return
	}
	c.mu.Lock()
	if c.closed || c.visited[rawURL] || c.scheduled >= c.opts.MaxPages {
		c.mu.Unlock()
		return
	}
	c.visited[rawURL] = true
	c.scheduled++
	c.pending++
	c.mu.Unlock()

	c.tasks <- crawlTask{url: rawURL, depth: depth, score: score}
}

func (c *Crawler) worker(ctx context.Context, out chan<- domain.CrawlResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case task, ok := <-c.tasks:
			if !ok {
				return
			}
			c.process(ctx, task, out)
			c.finish()
		}
	}
}

func (c *Crawler) process(ctx context.Context, task crawlTask, out chan<- domain.CrawlResult) {
	if ctx.Err() != nil {
		return
	}

	html, err := c.fetcher.Fetch(ctx, task.url, c.site.Tiers[0])
	result := domain.CrawlResult{
		URL:     task.url,
		Success: err == nil,
		HTML:    html,
		Depth:   task.depth,
		Score:   task.score,
	}
	if err != nil {
		result.ErrorMessage = err.Error()
	} else {
		// Expand the frontier before handing the page to the consumer so
		// discovery does not depend on consumer speed.
		c.discoverLinks(task, html)
	}

	select {
	case out <- result:
	case <-ctx.Done():
	}
}

// finish marks one task complete and closes the queue once nothing is left.
func (c *Crawler) finish() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pending--
	if c.pending == 0 && !c.closed {
		c.closed = true
		close(c.tasks)
	}
}

// discoverLinks extracts same-domain links matching the site's path
// fragments and enqueues them one level deeper.
func (c *Crawler) discoverLinks(task crawlTask, html string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		c.logger.Warn("link discovery parse failed", zap.String("url", task.url), zap.Error(err))
		return
	}
	base, err := url.Parse(task.url)
	if err != nil {
		return
	}
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		ref, err := url.Parse(strings.TrimSpace(href))
		if err != nil {
			return
		}
		abs := base.ResolveReference(ref)
		abs.Fragment = ""
		c.Enqueue(abs.String(), task.depth+1, scoreURL(abs.String()))
	})
}

// admissible applies the depth bound and the site's domain and path filters.
func (c *Crawler) admissible(rawURL string, depth int) bool {
	if depth > c.opts.MaxDepth {
		return false
	}
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}
	if !strings.HasSuffix(u.Hostname(), c.site.Domain) {
		return false
	}
	if depth == 0 {
		return true
	}
	for _, frag := range c.site.ProductFragments {
		if strings.Contains(u.Path, frag) {
			return true
		}
	}
	for _, frag := range c.site.CategoryFragments {
		if strings.Contains(u.Path, frag) {
			return true
		}
	}
	return false
}

// scoreURL estimates how product-like a URL is from keyword hits.
func scoreURL(rawURL string) float64 {
	lower := strings.ToLower(rawURL)
	hits := 0
	for _, kw := range relevanceKeywords {
		if strings.Contains(lower, kw) {
			hits++
		}
	}
	score := float64(hits) / float64(len(relevanceKeywords)) * 3
	if score > 1 {
		score = 1
	}
	return score
}
