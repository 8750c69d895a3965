package feeds_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"newswire/db"
	"newswire/feeds"
	"newswire/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiltersFromParams(t *testing.T) {
	tests := []struct {
		name     string
		params   models.ArticleFilter
		expected int
	}{
		{
			name:     "no params",
			params:   models.ArticleFilter{},
			expected: 0,
		},
		{
			name:     "single param",
			params:   models.ArticleFilter{Category: "Technology"},
			expected: 1,
		},
		{
			name: "all params",
			params: models.ArticleFilter{
				Keyword:  "quantum",
				Date:     "2024-05-01",
				Category: "Technology",
				Author:   "Jane Roe",
				Source:   "Source One",
			},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := feeds.FiltersFromParams(tt.params)
			assert.Len(t, filters, tt.expected)
		})
	}
}

func TestFiltersFromPreferences(t *testing.T) {
	tests := []struct {
		name        string
		preferences []models.UserPreference
		expected    int
	}{
		{
			name:        "no preferences",
			preferences: nil,
			expected:    0,
		},
		{
			name: "one dimension",
			preferences: []models.UserPreference{
				{Type: models.PreferenceCategory, Value: "Technology"},
			},
			expected: 1,
		},
		{
			name: "all dimensions",
			preferences: []models.UserPreference{
				{Type: models.PreferenceSource, Value: "Source One"},
				{Type: models.PreferenceCategory, Value: "Technology"},
				{Type: models.PreferenceAuthor, Value: "Jane Roe"},
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := feeds.FiltersFromPreferences(tt.preferences)
			assert.Len(t, filters, tt.expected)
		})
	}
}

// The personalized feed combines preference dimensions as AND and values
// within a dimension as OR. Verified against a real store.
func TestPersonalizedFeedComposition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "feeds.db")
	require.NoError(t, db.Migrate(path))

	writer := db.NewWriter(path)
	reader := db.NewReader(path)
	t.Cleanup(func() {
		writer.Close()
		reader.Close()
	})

	ctx := context.Background()

	sourceA, err := writer.GetOrCreateSource(ctx, models.SourceDescriptor{Name: "Source A"})
	require.NoError(t, err)
	sourceB, err := writer.GetOrCreateSource(ctx, models.SourceDescriptor{Name: "Source B"})
	require.NoError(t, err)

	insert := func(url string, sourceId int64, category string, author string) {
		t.Helper()
		publishedAt := time.Date(2024, 11, 9, 12, 0, 0, 0, time.UTC)
		_, err := writer.InsertArticle(ctx, models.Candidate{
			Url:         url,
			PublishedAt: &publishedAt,
			Category:    &category,
			Author:      &author,
		}, sourceId)
		require.NoError(t, err)
	}

	insert("https://example.com/full-match", sourceA, "Tech", "Jane")
	// Two of three dimensions match; the source mismatch excludes it
	insert("https://example.com/wrong-source", sourceB, "Tech", "Jane")
	insert("https://example.com/wrong-category", sourceA, "Sports", "Jane")
	insert("https://example.com/wrong-author", sourceA, "Tech", "Joe")

	preferences := []models.UserPreference{
		{Type: models.PreferenceSource, Value: "Source A"},
		{Type: models.PreferenceCategory, Value: "Tech"},
		{Type: models.PreferenceAuthor, Value: "Jane"},
	}

	page, err := reader.QueryArticles(ctx, feeds.FiltersFromPreferences(preferences), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Data, 1)
	assert.Equal(t, "https://example.com/full-match", page.Data[0].Url)

	// Dropping the author preference leaves that dimension unconstrained
	page, err = reader.QueryArticles(ctx, feeds.FiltersFromPreferences(preferences[:2]), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
}
