package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"grocer/internal/api"
	"grocer/internal/config"
	"grocer/internal/fetch"
	"grocer/internal/monitoring"
	"grocer/internal/pipeline"
	"grocer/internal/sites"
	"grocer/internal/storage"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("could not load config", zap.Error(err))
	}

	pgStore, err := storage.NewPostgresStore(cfg.PostgresURL)
	if err != nil {
		logger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pgStore.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := pgStore.EnsureSchema(ctx); err != nil {
		cancel()
		logger.Fatal("failed to create schema", zap.Error(err))
	}
	cancel()

	redisStore := storage.NewRedisStore(cfg.RedisAddr, cfg.DeduplicationDays)
	metrics := monitoring.NewMetrics()

	fetcher := fetch.NewChromeFetcher(logger)
	defer fetcher.Close()
	extractor := fetch.NewSchemaExtractor()

	gate := pipeline.NewGate(pgStore, logger)
	newFrontier := func(site *sites.Site, seedURL string, maxConcurrent int) pipeline.Frontier {
		return fetch.NewCrawler(site, fetcher, fetch.CrawlerOptions{
			SeedURL:     seedURL,
			Concurrency: maxConcurrent,
		}, logger)
	}

	scraper := pipeline.NewService(pipeline.ServiceConfig{
		MaxProducts:      cfg.MaxProducts,
		MaxConcurrent:    cfg.MaxConcurrent,
		MinContentLength: cfg.MinContentLength,
		OutputFile:       cfg.OutputFile,
	}, fetcher, extractor, redisStore, gate, newFrontier, metrics, logger)

	server := api.NewServer(cfg, scraper, pgStore, redisStore, logger)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("could not start server", zap.Error(err))
		}
	}()

	logger.Info("server started", zap.String("port", cfg.ServerPort))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exiting")
}
