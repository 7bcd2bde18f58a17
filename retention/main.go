package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/iharshilB/macro-news-radar/internal/config"
	"github.com/iharshilB/macro-news-radar/internal/elasticsearch"
	"github.com/iharshilB/macro-news-radar/internal/logger"
)

func main() {
	godotenv.Load()

	log := logger.New("retention")
	cfg, err := config.LoadRetention()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	esClient, err := connect(ctx, log, cfg)
	if err != nil {
		log.Error("connect to elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	log.Info("retention job running",
		slog.Duration("interval", cfg.Interval),
		slog.Duration("max_age", cfg.MaxAge),
	)

	ticker := time.NewTicker(cfg.Interval)
	defer ticker.Stop()

	runOnce(ctx, log, esClient, cfg)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received")
			return
		case <-ticker.C:
			runOnce(ctx, log, esClient, cfg)
		}
	}
}

// connect dials Elasticsearch, retrying with capped exponential backoff
// until the cluster answers a ping.
func connect(ctx context.Context, log *slog.Logger, cfg *config.Retention) (*elasticsearch.Client, error) {
	const maxAttempts = 10
	delay := 2 * time.Second

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
		if err == nil {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = esClient.Ping(pingCtx)
			cancel()
			if err == nil {
				log.Info("connected to elasticsearch", slog.Int("attempt", attempt))
				return esClient, nil
			}
		}

		log.Warn("elasticsearch not ready, retrying",
			slog.Any("err", err),
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", delay),
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		delay *= 2
		if delay > 30*time.Second {
			delay = 30 * time.Second
		}
	}

	return nil, fmt.Errorf("elasticsearch unreachable after %d attempts", maxAttempts)
}

func runOnce(ctx context.Context, log *slog.Logger, esClient *elasticsearch.Client, cfg *config.Retention) {
	subCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	deleted, err := esClient.DeleteOlderThan(subCtx, cfg.MaxAge, cfg.BatchSize)
	if err != nil {
		log.Warn("retention run failed, retrying next interval", slog.Any("err", err))
		return
	}

	if deleted > 0 {
		log.Info("expired headlines removed", slog.Int64("deleted", deleted))
	} else {
		log.Debug("no expired headlines")
	}
}
