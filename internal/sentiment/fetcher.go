package sentiment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/iharshilB/macro-news-radar/internal/config"
	"github.com/iharshilB/macro-news-radar/internal/newsapi"
	"github.com/iharshilB/macro-news-radar/internal/themes"
)

// maxHeadlines caps how many articles one summary covers.
const maxHeadlines = 10

// Headline is the minimal projection of a raw article kept in a summary.
// PublishedAt carries the provider's timestamp string untouched.
type Headline struct {
	Title       string `json:"title"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
}

// Summary is the output of one classification pass over a fetched batch.
type Summary struct {
	ArticleCount int            `json:"articleCount"`
	Themes       []themes.Label `json:"themes"`
	Headlines    []Headline     `json:"headlines"`
	Timestamp    time.Time      `json:"timestamp"`
}

// Fetcher turns provider responses into news summaries.
type Fetcher struct {
	cfg    config.News
	client *newsapi.Client
	log    *slog.Logger
}

// New builds a Fetcher around the provider configuration.
func New(cfg config.News, log *slog.Logger) *Fetcher {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fetcher{
		cfg:    cfg,
		client: newsapi.New(cfg.BaseURL, cfg.APIKey, cfg.Timeout),
		log:    log,
	}
}

// Fetch retrieves the current macro-news summary, or nil when no news
// context is available this cycle. A missing credential, provider
// failures, malformed payloads and empty results all collapse to nil;
// callers never see an error.
func (f *Fetcher) Fetch(ctx context.Context) *Summary {
	if f.cfg.APIKey == "" {
		f.log.Warn("news api key not configured, skipping news fetch")
		return nil
	}

	articles, err := f.client.MacroNews(ctx)
	if err != nil {
		var statusErr *newsapi.StatusError
		if errors.As(err, &statusErr) {
			f.log.Warn("news provider returned non-success status", slog.Int("status", statusErr.Code))
			return nil
		}
		f.log.Error("fetch macro news", slog.Any("err", err))
		return nil
	}

	if len(articles) == 0 {
		f.log.Debug("news provider returned no articles")
		return nil
	}

	if len(articles) > maxHeadlines {
		articles = articles[:maxHeadlines]
	}

	return &Summary{
		ArticleCount: len(articles),
		Themes:       extractThemes(articles),
		Headlines:    shapeHeadlines(articles),
		Timestamp:    time.Now().UTC(),
	}
}

func extractThemes(articles []newsapi.Article) []themes.Label {
	docs := make([]themes.Article, 0, len(articles))
	for _, a := range articles {
		docs = append(docs, themes.Article{Title: a.Title, Description: a.Description})
	}
	return themes.Extract(docs)
}

// shapeHeadlines projects articles into headline records, input order kept.
func shapeHeadlines(articles []newsapi.Article) []Headline {
	headlines := make([]Headline, 0, len(articles))
	for _, a := range articles {
		headlines = append(headlines, Headline{
			Title:       a.Title,
			Source:      a.Source.Name,
			PublishedAt: a.PublishedAt,
			URL:         a.URL,
		})
	}
	return headlines
}
