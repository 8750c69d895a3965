package providers_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"newswire/providers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const guardianFixture = `{
	"response": {
		"status": "ok",
		"results": [
			{
				"webTitle": "Chip makers race ahead",
				"webUrl": "https://www.theguardian.com/technology/chip-makers",
				"webPublicationDate": "2024-11-09T10:30:00Z",
				"sectionName": "Technology",
				"fields": {
					"body": "<p>Full article body</p>",
					"byline": "Jane Smith"
				}
			},
			{
				"webTitle": "Result without a URL is dropped"
			},
			{
				"webUrl": "https://www.theguardian.com/world/bare-result"
			}
		]
	}
}`

const nytimesFixture = `{
	"response": {
		"docs": [
			{
				"headline": {"main": "Markets wobble"},
				"abstract": "A short abstract.",
				"web_url": "https://www.nytimes.com/2024/11/09/business/markets.html",
				"pub_date": "2024-11-09T10:30:00-0500",
				"byline": {"original": "By John Doe"},
				"subsection_name": "Economy"
			},
			{
				"headline": {"main": "No link here"}
			}
		]
	}
}`

const newsAPIFixture = `{
	"status": "ok",
	"articles": [
		{
			"source": {"id": "wired", "name": "Wired"},
			"author": "Ada Lovelace",
			"title": "Engines of tomorrow",
			"content": "Body text",
			"url": "https://www.wired.com/engines-of-tomorrow",
			"publishedAt": "2024-11-09T08:00:00Z"
		},
		{
			"source": {"name": "Wired"},
			"title": "Missing url"
		}
	]
}`

func fixtureServer(t *testing.T, fixture string, params *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if params != nil {
			*params = r.URL.Query()
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(fixture))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGuardianFetch(t *testing.T) {
	var params url.Values
	srv := fixtureServer(t, guardianFixture, &params)

	provider := providers.NewGuardian("test-key", "climate")
	provider.Endpoint = srv.URL

	candidates, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 2)

	first := candidates[0]
	assert.Equal(t, "https://www.theguardian.com/technology/chip-makers", first.Url)
	require.NotNil(t, first.Title)
	assert.Equal(t, "Chip makers race ahead", *first.Title)
	require.NotNil(t, first.Content)
	assert.Equal(t, "<p>Full article body</p>", *first.Content)
	require.NotNil(t, first.Author)
	assert.Equal(t, "Jane Smith", *first.Author)
	require.NotNil(t, first.Category)
	assert.Equal(t, "Technology", *first.Category)
	require.NotNil(t, first.PublishedAt)
	assert.Equal(t, time.Date(2024, 11, 9, 10, 30, 0, 0, time.UTC), *first.PublishedAt)

	// Missing optional fields stay nil, never placeholders
	bare := candidates[1]
	assert.Equal(t, "https://www.theguardian.com/world/bare-result", bare.Url)
	assert.Nil(t, bare.Title)
	assert.Nil(t, bare.Content)
	assert.Nil(t, bare.Author)
	assert.Nil(t, bare.Category)
	assert.Nil(t, bare.PublishedAt)

	assert.Equal(t, "test-key", params.Get("api-key"))
	assert.Equal(t, "climate", params.Get("q"))
	assert.Equal(t, "all", params.Get("show-fields"))
	assert.Equal(t, "50", params.Get("page-size"))
}

func TestNYTimesFetch(t *testing.T) {
	var params url.Values
	srv := fixtureServer(t, nytimesFixture, &params)

	provider := providers.NewNYTimes("nyt-key", "")
	provider.Endpoint = srv.URL

	candidates, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	article := candidates[0]
	assert.Equal(t, "https://www.nytimes.com/2024/11/09/business/markets.html", article.Url)
	require.NotNil(t, article.Title)
	assert.Equal(t, "Markets wobble", *article.Title)
	require.NotNil(t, article.Content)
	assert.Equal(t, "A short abstract.", *article.Content)
	require.NotNil(t, article.Author)
	assert.Equal(t, "By John Doe", *article.Author)
	require.NotNil(t, article.Category)
	assert.Equal(t, "Economy", *article.Category)
	require.NotNil(t, article.PublishedAt)
	// Zone offsets are normalized to UTC
	assert.Equal(t, time.Date(2024, 11, 9, 15, 30, 0, 0, time.UTC), *article.PublishedAt)

	assert.Equal(t, "nyt-key", params.Get("api-key"))
}

func TestNewsAPIFetch(t *testing.T) {
	var params url.Values
	srv := fixtureServer(t, newsAPIFixture, &params)

	provider := providers.NewNewsAPI("news-key", "")
	provider.Endpoint = srv.URL

	candidates, err := provider.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, candidates, 1)

	article := candidates[0]
	assert.Equal(t, "https://www.wired.com/engines-of-tomorrow", article.Url)
	require.NotNil(t, article.Category)
	// The provider's own label stands in for the category
	assert.Equal(t, "Wired", *article.Category)

	assert.Equal(t, "news-key", params.Get("apiKey"))
	assert.Equal(t, "100", params.Get("pageSize"))
	// Default query term when none is configured
	assert.Equal(t, "technology", params.Get("q"))
}

func TestFetchTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"upstream exploded"}`))
	}))
	t.Cleanup(srv.Close)

	provider := providers.NewGuardian("test-key", "")
	provider.Endpoint = srv.URL

	candidates, err := provider.Fetch(context.Background())
	assert.Nil(t, candidates)

	var transportErr *providers.TransportError
	require.ErrorAs(t, err, &transportErr)
	assert.Equal(t, http.StatusInternalServerError, transportErr.Status)
	assert.Equal(t, `{"message":"upstream exploded"}`, transportErr.Body)
}

func TestFetchNetworkError(t *testing.T) {
	provider := providers.NewGuardian("test-key", "")
	// Nothing listens here
	provider.Endpoint = "http://127.0.0.1:1"

	_, err := provider.Fetch(context.Background())
	require.Error(t, err)

	var transportErr *providers.TransportError
	assert.False(t, errors.As(err, &transportErr))
}

func TestPublishedAtFormats(t *testing.T) {
	tests := []struct {
		name     string
		pubDate  string
		expected *time.Time
	}{
		{
			name:     "RFC3339 with offset",
			pubDate:  "2024-01-02T03:04:05+02:00",
			expected: timePtr(time.Date(2024, 1, 2, 1, 4, 5, 0, time.UTC)),
		},
		{
			name:     "date only",
			pubDate:  "2024-01-02",
			expected: timePtr(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)),
		},
		{
			name:     "unparseable",
			pubDate:  "last tuesday",
			expected: nil,
		},
		{
			name:     "missing",
			pubDate:  "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := `{"response":{"results":[{"webUrl":"https://example.com/a","webPublicationDate":"` + tt.pubDate + `"}]}}`
			srv := fixtureServer(t, fixture, nil)

			provider := providers.NewGuardian("k", "")
			provider.Endpoint = srv.URL

			candidates, err := provider.Fetch(context.Background())
			require.NoError(t, err)
			require.Len(t, candidates, 1)
			if tt.expected == nil {
				assert.Nil(t, candidates[0].PublishedAt)
			} else {
				require.NotNil(t, candidates[0].PublishedAt)
				assert.Equal(t, *tt.expected, *candidates[0].PublishedAt)
			}
		})
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
