package models

import "time"

// HeadlineDocument represents the canonical structure stored in Elasticsearch.
type HeadlineDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	PublishedAt time.Time `json:"published_at"`
	Themes      []string  `json:"themes"`
	FetchedAt   time.Time `json:"fetched_at"`
}
