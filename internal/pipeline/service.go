package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"grocer/internal/domain"
	"grocer/internal/monitoring"
	"grocer/internal/results"
	"grocer/internal/sites"
)

// FrontierFactory builds a traversal frontier for one run. The concrete
// engine lives outside this package.
type FrontierFactory func(site *sites.Site, seedURL string, maxConcurrent int) Frontier

// ServiceConfig carries the run defaults from application configuration.
type ServiceConfig struct {
	MaxProducts      int
	MaxConcurrent    int
	MinContentLength int
	OutputFile       string
}

// Service owns the shared collaborators and launches extraction runs in the
// background.
type Service struct {
	cfg         ServiceConfig
	fetcher     Fetcher
	extractor   Extractor
	recent      RecentCache
	gate        *Gate
	newFrontier FrontierFactory
	metrics     *monitoring.Metrics
	logger      *zap.Logger
}

func NewService(cfg ServiceConfig, f Fetcher, e Extractor, recent RecentCache, gate *Gate, nf FrontierFactory, m *monitoring.Metrics, l *zap.Logger) *Service {
	return &Service{
		cfg:         cfg,
		fetcher:     f,
		extractor:   e,
		recent:      recent,
		gate:        gate,
		newFrontier: nf,
		metrics:     m,
		logger:      l,
	}
}

// StartRun validates the request and launches the run in the background,
// returning immediately.
func (s *Service) StartRun(req domain.ScrapeRequest) error {
	site, ok := sites.Lookup(req.Site)
	if !ok {
		return fmt.Errorf("unknown site %q (supported: %v)", req.Site, sites.Names())
	}
	if req.SeedURL == "" {
		req.SeedURL = site.SeedURL
	}
	if req.MaxProducts <= 0 {
		req.MaxProducts = s.cfg.MaxProducts
	}
	if req.MaxConcurrent <= 0 {
		req.MaxConcurrent = s.cfg.MaxConcurrent
	}
	if req.OutputFile == "" {
		req.OutputFile = s.cfg.OutputFile
	}

	go s.run(site, req)
	return nil
}

// run executes one extraction pass end to end: traversal, extraction,
// result-file hand-off, then persistence. Partial results are persisted even
// when the traversal ends early.
func (s *Service) run(site *sites.Site, req domain.ScrapeRequest) {
	ctx := context.Background()

	ladder := NewLadder(site, s.fetcher, s.extractor, s.cfg.MinContentLength, s.metrics, s.logger)
	p := New(site, ladder, s.extractor, s.recent, s.metrics, s.logger)
	frontier := s.newFrontier(site, req.SeedURL, req.MaxConcurrent)

	summary := p.Run(ctx, frontier, RunOptions{
		SeedURL:     req.SeedURL,
		MaxProducts: req.MaxProducts,
		Force:       req.Force,
	})

	if err := results.Write(req.OutputFile, summary); err != nil {
		s.logger.Error("failed to write run summary", zap.String("file", req.OutputFile), zap.Error(err))
	} else {
		s.logger.Info("run summary saved",
			zap.String("file", req.OutputFile), zap.Int("products", summary.TotalProducts))
	}

	inserted, err := s.gate.Persist(ctx, summary.Products, site.Store)
	if err != nil {
		s.logger.Error("persistence failed", zap.Error(err))
		return
	}
	s.logger.Info("products persisted",
		zap.Int("inserted", inserted), zap.Int("candidates", summary.TotalProducts))
}

// PersistFile loads a previously written run summary and commits it through
// the persistence gate.
func (s *Service) PersistFile(ctx context.Context, path string) (int, error) {
	summary, err := results.Load(path)
	if err != nil {
		return 0, err
	}
	store := ""
	if site, ok := sites.Lookup(summary.CrawlConfig.Site); ok {
		store = site.Store
	}
	return s.gate.Persist(ctx, summary.Products, store)
}
