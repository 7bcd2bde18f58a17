package newsapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/iharshilB/macro-news-radar/internal/newsapi"
)

func TestMacroNewsRequestParams(t *testing.T) {
	var query url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","totalResults":0,"articles":[]}`))
	}))
	defer srv.Close()

	client := newsapi.New(srv.URL, "test-key", time.Second)
	_, err := client.MacroNews(context.Background())
	require.NoError(t, err)

	require.Equal(t, `economy OR "federal reserve" OR inflation OR GDP OR markets`, query.Get("q"))
	require.Equal(t, "en", query.Get("language"))
	require.Equal(t, "publishedAt", query.Get("sortBy"))
	require.Equal(t, "20", query.Get("pageSize"))
	require.Equal(t, "test-key", query.Get("apiKey"))
}

func TestMacroNewsDecodesArticles(t *testing.T) {
	payload := `{
		"status": "ok",
		"totalResults": 2,
		"articles": [
			{
				"title": "Fed holds interest rates steady",
				"description": "Powell signals caution",
				"source": {"name": "Reuters"},
				"publishedAt": "2024-01-01T00:00:00Z",
				"url": "https://example.com/fed"
			},
			{
				"title": "Markets drift lower",
				"source": {"name": "Bloomberg"},
				"publishedAt": "2024-01-01T01:30:00Z",
				"url": "https://example.com/markets"
			}
		]
	}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(payload))
	}))
	defer srv.Close()

	client := newsapi.New(srv.URL, "test-key", time.Second)
	articles, err := client.MacroNews(context.Background())
	require.NoError(t, err)
	require.Len(t, articles, 2)

	require.Equal(t, "Fed holds interest rates steady", articles[0].Title)
	require.Equal(t, "Powell signals caution", articles[0].Description)
	require.Equal(t, "Reuters", articles[0].Source.Name)
	require.Equal(t, "2024-01-01T00:00:00Z", articles[0].PublishedAt)
	require.Equal(t, "https://example.com/fed", articles[0].URL)

	require.Empty(t, articles[1].Description)
	require.Equal(t, "Bloomberg", articles[1].Source.Name)
}

func TestMacroNewsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := newsapi.New(srv.URL, "test-key", time.Second)
	_, err := client.MacroNews(context.Background())
	require.Error(t, err)

	var statusErr *newsapi.StatusError
	require.True(t, errors.As(err, &statusErr))
	require.Equal(t, http.StatusInternalServerError, statusErr.Code)
}

func TestMacroNewsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"articles": [`))
	}))
	defer srv.Close()

	client := newsapi.New(srv.URL, "test-key", time.Second)
	_, err := client.MacroNews(context.Background())
	require.Error(t, err)

	var statusErr *newsapi.StatusError
	require.False(t, errors.As(err, &statusErr))
}
