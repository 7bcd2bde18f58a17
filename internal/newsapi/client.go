package newsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL points at the provider's article search endpoint.
const DefaultBaseURL = "https://newsapi.org/v2/everything"

// macroQuery is the fixed boolean search covering macro-economic coverage.
const macroQuery = `economy OR "federal reserve" OR inflation OR GDP OR markets`

// pageSize is the fixed result page requested from the provider.
const pageSize = 20

// Article mirrors one entry of the provider response. The shape is owned by
// the provider; PublishedAt stays the raw ISO-8601 string.
type Article struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Source      Source `json:"source"`
	PublishedAt string `json:"publishedAt"`
	URL         string `json:"url"`
}

// Source names the outlet an article came from.
type Source struct {
	Name string `json:"name"`
}

type response struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"articles"`
}

// StatusError reports a non-success HTTP status from the provider.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("newsapi: unexpected status %d", e.Code)
}

// Client performs article searches against the news provider.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New builds a provider client. An empty baseURL falls back to
// DefaultBaseURL and a non-positive timeout to ten seconds.
func New(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// MacroNews fetches one page of English macro-economic coverage, most
// recent first. A non-200 response comes back as *StatusError.
func (c *Client) MacroNews(ctx context.Context) ([]Article, error) {
	params := url.Values{}
	params.Set("q", macroQuery)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("pageSize", strconv.Itoa(pageSize))
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build news request: %w", err)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call news provider: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: res.StatusCode}
	}

	var parsed response
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode news response: %w", err)
	}

	return parsed.Articles, nil
}
