package providers

import (
	"context"
	"net/url"

	"newswire/models"

	"github.com/tidwall/gjson"
)

const GuardianEndpoint = "https://content.guardianapis.com/search"

// Guardian fetches articles from the Guardian content API.
type Guardian struct {
	APIKey   string
	Query    string
	Endpoint string
}

func NewGuardian(apiKey string, query string) *Guardian {
	return &Guardian{
		APIKey:   apiKey,
		Query:    query,
		Endpoint: GuardianEndpoint,
	}
}

func (g *Guardian) Descriptor() models.SourceDescriptor {
	return models.SourceDescriptor{
		Name:        "The Guardian",
		Description: "The Guardian is a British daily newspaper. It was founded in 1821 as The Manchester Guardian.",
		Url:         "https://www.theguardian.com",
	}
}

func (g *Guardian) Fetch(ctx context.Context) ([]models.Candidate, error) {
	params := url.Values{}
	params.Set("q", g.Query)
	params.Set("api-key", g.APIKey)
	params.Set("show-fields", "all") // Fetch all available fields
	params.Set("page-size", "50")    // Number of articles per request (max 50)

	body, err := fetchBody(ctx, g.Endpoint, params)
	if err != nil {
		return nil, err
	}

	var candidates []models.Candidate
	gjson.GetBytes(body, "response.results").ForEach(func(_, item gjson.Result) bool {
		// The URL is the dedupe key; a result without one is dropped
		webUrl := item.Get("webUrl").String()
		if webUrl == "" {
			return true
		}
		candidates = append(candidates, models.Candidate{
			Title:       optString(item.Get("webTitle")),
			Content:     optString(item.Get("fields.body")),
			Url:         webUrl,
			PublishedAt: parsePublishedAt(item.Get("webPublicationDate").String()),
			Author:      optString(item.Get("fields.byline")),
			Category:    optString(item.Get("sectionName")),
		})
		return true
	})

	return candidates, nil
}

var _ Provider = (*Guardian)(nil)
