package main

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/segmentio/kafka-go"

	"github.com/iharshilB/macro-news-radar/internal/config"
	"github.com/iharshilB/macro-news-radar/internal/dedupe"
	"github.com/iharshilB/macro-news-radar/internal/elasticsearch"
	"github.com/iharshilB/macro-news-radar/internal/logger"
	"github.com/iharshilB/macro-news-radar/internal/models"
	"github.com/iharshilB/macro-news-radar/internal/sentiment"
)

// cycleTimeout bounds a single fetch-publish-index pass so a stalled
// provider or broker cannot block the next tick indefinitely.
const cycleTimeout = 2 * time.Minute

// summaryEnvelope is the message body published to Kafka for each summary.
type summaryEnvelope struct {
	ID        string             `json:"id"`
	EmittedAt time.Time          `json:"emittedAt"`
	Summary   *sentiment.Summary `json:"summary"`
}

type summaryFetcher interface {
	Fetch(ctx context.Context) *sentiment.Summary
}

type headlineIndexer interface {
	IndexHeadline(ctx context.Context, doc models.HeadlineDocument) error
}

type summaryPublisher interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

func main() {
	godotenv.Load()

	log := logger.New("worker")
	cfg, err := config.LoadWorker()
	if err != nil {
		log.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}

	esClient, err := elasticsearch.New(cfg.ElasticsearchAddr, cfg.ElasticsearchIndex, log)
	if err != nil {
		log.Error("init elasticsearch", slog.Any("err", err))
		os.Exit(1)
	}

	cache := dedupe.New(cfg.DedupeCapacity, cfg.DedupeTTL)
	fetcher := sentiment.New(cfg.News, log)

	writer := kafka.NewWriter(kafka.WriterConfig{
		Brokers:     cfg.KafkaBrokers,
		Topic:       cfg.KafkaTopic,
		MaxAttempts: 3,
	})
	defer writer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	log.Info("worker started",
		slog.String("topic", cfg.KafkaTopic),
		slog.Duration("interval", cfg.FetchInterval),
	)

	ticker := time.NewTicker(cfg.FetchInterval)
	defer ticker.Stop()

	// First cycle runs immediately; the ticker paces the rest.
	runCycle(ctx, log, fetcher, esClient, writer, cache)

	for {
		select {
		case <-ctx.Done():
			log.Info("shutdown signal received, stopping")
			return
		case <-ticker.C:
			runCycle(ctx, log, fetcher, esClient, writer, cache)
		}
	}
}

// runCycle performs one fetch-publish-index pass. An absent summary is a
// normal outcome and ends the cycle without touching Kafka or the index.
func runCycle(ctx context.Context, log *slog.Logger, fetcher summaryFetcher, indexer headlineIndexer, publisher summaryPublisher, cache *dedupe.Cache) {
	cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
	defer cancel()

	summary := fetcher.Fetch(cycleCtx)
	if summary == nil {
		log.Info("no summary this cycle")
		return
	}

	env := summaryEnvelope{
		ID:        uuid.NewString(),
		EmittedAt: time.Now().UTC(),
		Summary:   summary,
	}

	// Publish failures are logged and the cycle moves on to indexing;
	// the next tick produces a fresh summary anyway.
	if payload, err := json.Marshal(env); err != nil {
		log.Error("marshal summary envelope", slog.Any("err", err))
	} else if err := publisher.WriteMessages(cycleCtx, kafka.Message{
		Key:   []byte(env.ID),
		Value: payload,
	}); err != nil {
		log.Error("publish summary", slog.Any("err", err), slog.String("id", env.ID))
	} else {
		log.Info("summary published",
			slog.String("id", env.ID),
			slog.Int("articles", summary.ArticleCount),
			slog.Any("themes", summary.Themes),
		)
	}

	fetchedAt := time.Now().UTC()
	indexed, skipped := 0, 0
	for _, h := range summary.Headlines {
		doc := toDocument(h, summary, fetchedAt)
		if cache.Seen(doc.ID) {
			skipped++
			continue
		}
		if err := indexer.IndexHeadline(cycleCtx, doc); err != nil {
			log.Error("index headline", slog.Any("err", err), slog.String("id", doc.ID))
			continue
		}
		cache.Add(doc.ID)
		indexed++
	}

	log.Info("cycle complete", slog.Int("indexed", indexed), slog.Int("skipped", skipped))
}

// toDocument converts a summary headline into its stored form, tagging it
// with the themes of the batch it arrived in.
func toDocument(h sentiment.Headline, s *sentiment.Summary, fetchedAt time.Time) models.HeadlineDocument {
	labels := make([]string, 0, len(s.Themes))
	for _, t := range s.Themes {
		labels = append(labels, string(t))
	}

	publishedAt := parseTimestamp(h.PublishedAt)
	if publishedAt.IsZero() {
		publishedAt = fetchedAt
	}

	return models.HeadlineDocument{
		ID:          documentID(h.URL),
		Title:       h.Title,
		Source:      h.Source,
		URL:         h.URL,
		PublishedAt: publishedAt,
		Themes:      labels,
		FetchedAt:   fetchedAt,
	}
}

// documentID derives a stable ID from the headline URL so repeat fetches of
// the same story land on one document. Headlines without a URL get a random
// ID and index as distinct documents.
func documentID(url string) string {
	if url == "" {
		return uuid.NewString()
	}
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:])
}

func parseTimestamp(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}

	for _, f := range []string{time.RFC3339Nano, time.RFC3339} {
		if ts, err := time.Parse(f, raw); err == nil {
			return ts
		}
	}

	return time.Time{}
}
