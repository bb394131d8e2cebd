package fetch

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"grocer/internal/sites"
)

const stealthUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

type allocKey struct {
	headless bool
	evasion  bool
}

// ChromeFetcher fetches pages through headless Chrome, reusing one browser
// allocator per tier configuration.
type ChromeFetcher struct {
	mu      sync.Mutex
	allocs  map[allocKey]context.Context
	cancels []context.CancelFunc
	logger  *zap.Logger
}

func NewChromeFetcher(logger *zap.Logger) *ChromeFetcher {
	return &ChromeFetcher{
		allocs: make(map[allocKey]context.Context),
		logger: logger,
	}
}

// Fetch performs one navigation under the tier's settings and returns the
// rendered page HTML. The tier's timeout bounds the whole attempt.
func (f *ChromeFetcher) Fetch(ctx context.Context, pageURL string, tier sites.Tier) (string, error) {
	allocCtx := f.allocator(tier)

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, tier.Timeout)
	defer cancelTimeout()

	// Honor cancellation from the caller too.
	go func() {
		select {
		case <-ctx.Done():
			cancelTask()
		case <-taskCtx.Done():
		}
	}()

	actions := []chromedp.Action{
		chromedp.Navigate(pageURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
	}
	if tier.Evasion {
		actions = append(actions, chromedp.Evaluate(
			`Object.defineProperty(navigator, 'webdriver', { get: () => undefined });`, nil))
	}
	var html string
	actions = append(actions,
		chromedp.Sleep(tier.RenderDelay),
		// Scroll to trigger lazy-loaded content, then return to the top.
		chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight);`, nil),
		chromedp.Sleep(time.Second),
		chromedp.Evaluate(`window.scrollTo(0, 0);`, nil),
		chromedp.OuterHTML("html", &html),
	)

	if err := chromedp.Run(taskCtx, actions...); err != nil {
		return "", err
	}
	return html, nil
}

// allocator returns the shared exec allocator for a tier configuration,
// creating it on first use.
func (f *ChromeFetcher) allocator(tier sites.Tier) context.Context {
	key := allocKey{headless: tier.Headless, evasion: tier.Evasion}

	f.mu.Lock()
	defer f.mu.Unlock()
	if alloc, ok := f.allocs[key]; ok {
		return alloc
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", tier.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if tier.Evasion {
		opts = append(opts,
			chromedp.UserAgent(stealthUserAgent),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.Flag("disable-web-security", true),
			chromedp.Flag("disable-features", "VizDisplayCompositor"),
			chromedp.Flag("exclude-switches", "enable-automation"),
		)
	}

	alloc, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	f.allocs[key] = alloc
	f.cancels = append(f.cancels, cancel)
	f.logger.Debug("created browser allocator",
		zap.Bool("headless", tier.Headless), zap.Bool("evasion", tier.Evasion))
	return alloc
}

// Close shuts down every browser allocator.
func (f *ChromeFetcher) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, cancel := range f.cancels {
		cancel()
	}
	f.cancels = nil
	f.allocs = make(map[allocKey]context.Context)
}
