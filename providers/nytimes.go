package providers

import (
	"context"
	"net/url"

	"newswire/models"

	"github.com/tidwall/gjson"
)

const NYTimesEndpoint = "https://api.nytimes.com/svc/search/v2/articlesearch.json"

// NYTimes fetches articles from the New York Times article search API.
type NYTimes struct {
	APIKey   string
	Query    string
	Endpoint string
}

func NewNYTimes(apiKey string, query string) *NYTimes {
	return &NYTimes{
		APIKey:   apiKey,
		Query:    query,
		Endpoint: NYTimesEndpoint,
	}
}

func (n *NYTimes) Descriptor() models.SourceDescriptor {
	return models.SourceDescriptor{
		Name:        "The New York Times",
		Description: "The New York Times is an American newspaper based in New York City with worldwide influence and readership.",
		Url:         "https://www.nytimes.com",
	}
}

func (n *NYTimes) Fetch(ctx context.Context) ([]models.Candidate, error) {
	params := url.Values{}
	params.Set("q", n.Query)
	params.Set("api-key", n.APIKey)

	body, err := fetchBody(ctx, n.Endpoint, params)
	if err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	gjson.GetBytes(body, "response.docs").ForEach(func(_, item gjson.Result) bool {
		webUrl := item.Get("web_url").String()
		if webUrl == "" {
			return true
		}
		candidates = append(candidates, models.Candidate{
			Title:       optString(item.Get("headline.main")),
			Content:     optString(item.Get("abstract")),
			Url:         webUrl,
			PublishedAt: parsePublishedAt(item.Get("pub_date").String()),
			Author:      optString(item.Get("byline.original")),
			Category:    optString(item.Get("subsection_name")),
		})
		return true
	})

	return candidates, nil
}

var _ Provider = (*NYTimes)(nil)
