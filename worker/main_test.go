package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"

	"github.com/iharshilB/macro-news-radar/internal/dedupe"
	"github.com/iharshilB/macro-news-radar/internal/models"
	"github.com/iharshilB/macro-news-radar/internal/sentiment"
	"github.com/iharshilB/macro-news-radar/internal/themes"
)

type stubFetcher struct {
	summary *sentiment.Summary
}

func (s *stubFetcher) Fetch(_ context.Context) *sentiment.Summary {
	return s.summary
}

type stubIndexer struct {
	docs []models.HeadlineDocument
	err  error
}

func (s *stubIndexer) IndexHeadline(_ context.Context, doc models.HeadlineDocument) error {
	if s.err != nil {
		return s.err
	}
	s.docs = append(s.docs, doc)
	return nil
}

type stubPublisher struct {
	msgs []kafka.Message
	err  error
}

func (s *stubPublisher) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msgs...)
	return nil
}

func testSummary() *sentiment.Summary {
	return &sentiment.Summary{
		ArticleCount: 2,
		Themes:       []themes.Label{themes.MonetaryPolicy, themes.Inflation},
		Headlines: []sentiment.Headline{
			{
				Title:       "Fed holds interest rates steady",
				Source:      "Reuters",
				PublishedAt: "2025-07-01T12:00:00Z",
				URL:         "https://example.com/fed",
			},
			{
				Title:       "Consumer prices rise again",
				Source:      "Bloomberg",
				PublishedAt: "2025-07-01T11:30:00Z",
				URL:         "https://example.com/cpi",
			},
		},
		Timestamp: time.Date(2025, 7, 1, 12, 5, 0, 0, time.UTC),
	}
}

func TestRunCyclePublishesAndIndexes(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.New(100, time.Hour)
	fetcher := &stubFetcher{summary: testSummary()}
	idx := &stubIndexer{}
	pub := &stubPublisher{}

	runCycle(context.Background(), log, fetcher, idx, pub, cache)

	require.Len(t, pub.msgs, 1)
	var env summaryEnvelope
	require.NoError(t, json.Unmarshal(pub.msgs[0].Value, &env))
	require.NotEmpty(t, env.ID)
	require.Equal(t, env.ID, string(pub.msgs[0].Key))
	require.Equal(t, 2, env.Summary.ArticleCount)
	require.Equal(t, []themes.Label{themes.MonetaryPolicy, themes.Inflation}, env.Summary.Themes)

	require.Len(t, idx.docs, 2)
	doc := idx.docs[0]
	require.Equal(t, "Fed holds interest rates steady", doc.Title)
	require.Equal(t, "Reuters", doc.Source)
	require.Equal(t, "https://example.com/fed", doc.URL)
	require.Equal(t, []string{"monetary_policy", "inflation"}, doc.Themes)
	require.Equal(t, time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC), doc.PublishedAt.UTC())
	require.False(t, doc.FetchedAt.IsZero())
}

func TestRunCycleSkipsSeenHeadlines(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.New(100, time.Hour)
	fetcher := &stubFetcher{summary: testSummary()}
	idx := &stubIndexer{}
	pub := &stubPublisher{}

	runCycle(context.Background(), log, fetcher, idx, pub, cache)
	runCycle(context.Background(), log, fetcher, idx, pub, cache)

	// Every cycle publishes its own envelope, but headlines index once.
	require.Len(t, pub.msgs, 2)
	require.Len(t, idx.docs, 2)
}

func TestRunCycleAbsentSummary(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.New(100, time.Hour)
	fetcher := &stubFetcher{summary: nil}
	idx := &stubIndexer{}
	pub := &stubPublisher{}

	runCycle(context.Background(), log, fetcher, idx, pub, cache)

	require.Empty(t, pub.msgs)
	require.Empty(t, idx.docs)
}

func TestRunCycleIndexFailureLeavesHeadlineRetryable(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.New(100, time.Hour)
	fetcher := &stubFetcher{summary: testSummary()}
	idx := &stubIndexer{err: errors.New("index unavailable")}
	pub := &stubPublisher{}

	runCycle(context.Background(), log, fetcher, idx, pub, cache)
	require.Empty(t, idx.docs)

	// Failed headlines were not cached, so a healthy index picks them up.
	idx.err = nil
	runCycle(context.Background(), log, fetcher, idx, pub, cache)
	require.Len(t, idx.docs, 2)
}

func TestRunCyclePublishFailureStillIndexes(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := dedupe.New(100, time.Hour)
	fetcher := &stubFetcher{summary: testSummary()}
	idx := &stubIndexer{}
	pub := &stubPublisher{err: errors.New("broker down")}

	runCycle(context.Background(), log, fetcher, idx, pub, cache)

	require.Empty(t, pub.msgs)
	require.Len(t, idx.docs, 2)
}

func TestDocumentID(t *testing.T) {
	a := documentID("https://example.com/fed")
	b := documentID("https://example.com/fed")
	c := documentID("https://example.com/cpi")

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.NotEmpty(t, documentID(""))
	require.NotEqual(t, documentID(""), documentID(""))
}

func TestToDocumentFallsBackToFetchTime(t *testing.T) {
	fetchedAt := time.Date(2025, 7, 1, 12, 5, 0, 0, time.UTC)
	s := testSummary()

	doc := toDocument(sentiment.Headline{
		Title:       "Markets rally",
		Source:      "AP",
		PublishedAt: "not a timestamp",
		URL:         "https://example.com/rally",
	}, s, fetchedAt)

	require.Equal(t, fetchedAt, doc.PublishedAt)
	require.Equal(t, fetchedAt, doc.FetchedAt)
}

func TestParseTimestamp(t *testing.T) {
	ts := parseTimestamp("2025-02-03T04:05:06Z")
	require.False(t, ts.IsZero())
	require.Equal(t, 2025, ts.Year())
	require.Equal(t, 2, int(ts.Month()))
	require.Equal(t, 3, ts.Day())
	require.Equal(t, 4, ts.Hour())

	nano := parseTimestamp("2025-02-03T04:05:06.789Z")
	require.False(t, nano.IsZero())
	require.Equal(t, 789000000, nano.Nanosecond())

	require.True(t, parseTimestamp("").IsZero())
	require.True(t, parseTimestamp("2025-02-03 04:05:06").IsZero())
	require.True(t, parseTimestamp("invalid").IsZero())
}
