package providers

import (
	"context"
	"fmt"
	"time"

	"newswire/models"

	"github.com/tidwall/gjson"
)

// Provider fetches one page of raw articles from an external news API and
// maps them to canonical candidates. Each implementation is a pure field
// mapping plus a single HTTP call; multi-page crawling is out of scope.
type Provider interface {
	Fetch(ctx context.Context) ([]models.Candidate, error)
	Descriptor() models.SourceDescriptor
}

// TransportError is returned when a provider endpoint answers with a
// non-success status. It carries the raw response body so the failure can
// be reported verbatim.
type TransportError struct {
	Status int
	Body   string
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider returned status %d: %s", e.Status, e.Body)
}

// publishedAtLayouts lists the timestamp formats seen across the supported
// providers: RFC3339 (Guardian, NewsAPI), numeric zone offsets (NYTimes)
// and date-only values.
var publishedAtLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parsePublishedAt(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	for _, layout := range publishedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			utc := t.UTC()
			return &utc
		}
	}
	return nil
}

// optString converts a gjson field to an optional string. Missing or empty
// fields become nil, never a placeholder value.
func optString(result gjson.Result) *string {
	if !result.Exists() {
		return nil
	}
	s := result.String()
	if s == "" {
		return nil
	}
	return &s
}
