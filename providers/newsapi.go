package providers

import (
	"context"
	"net/url"

	"newswire/models"

	"github.com/tidwall/gjson"
)

const NewsAPIEndpoint = "https://newsapi.org/v2/everything"

// DefaultNewsAPIQuery is used when no query term is configured. The
// everything endpoint rejects requests without one.
const DefaultNewsAPIQuery = "technology"

// NewsAPI fetches articles from the newsapi.org everything endpoint.
type NewsAPI struct {
	APIKey   string
	Query    string
	Endpoint string
}

func NewNewsAPI(apiKey string, query string) *NewsAPI {
	if query == "" {
		query = DefaultNewsAPIQuery
	}
	return &NewsAPI{
		APIKey:   apiKey,
		Query:    query,
		Endpoint: NewsAPIEndpoint,
	}
}

func (n *NewsAPI) Descriptor() models.SourceDescriptor {
	return models.SourceDescriptor{
		Name:        "News Api",
		Description: "Search worldwide news with code",
		Url:         "https://newsapi.org/",
	}
}

func (n *NewsAPI) Fetch(ctx context.Context) ([]models.Candidate, error) {
	params := url.Values{}
	params.Set("q", n.Query)
	params.Set("apiKey", n.APIKey)
	params.Set("pageSize", "100") // Max 100

	body, err := fetchBody(ctx, n.Endpoint, params)
	if err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	gjson.GetBytes(body, "articles").ForEach(func(_, item gjson.Result) bool {
		articleUrl := item.Get("url").String()
		if articleUrl == "" {
			return true
		}
		candidates = append(candidates, models.Candidate{
			Title:   optString(item.Get("title")),
			Content: optString(item.Get("content")),
			Url:     articleUrl,
			// NewsAPI has no article-level section; the provider's own
			// source label stands in for the category.
			PublishedAt: parsePublishedAt(item.Get("publishedAt").String()),
			Author:      optString(item.Get("author")),
			Category:    optString(item.Get("source.name")),
		})
		return true
	})

	return candidates, nil
}

var _ Provider = (*NewsAPI)(nil)
