package feeds

import (
	"newswire/models"
	"newswire/query"

	"github.com/samber/lo"
)

// FiltersFromParams builds the filter set for the general article query.
// Every dimension is optional and independent; the resulting filters are
// combined as a conjunction by the store.
func FiltersFromParams(params models.ArticleFilter) []query.FilterStrategy {
	filters := []query.FilterStrategy{}

	if params.Keyword != "" {
		filters = append(filters, &KeywordFilter{Keyword: params.Keyword})
	}
	if params.Date != "" {
		filters = append(filters, &DateFilter{Date: params.Date})
	}
	if params.Category != "" {
		filters = append(filters, &CategoryFilter{Values: []string{params.Category}})
	}
	if params.Author != "" {
		filters = append(filters, &AuthorFilter{Values: []string{params.Author}})
	}
	if params.Source != "" {
		filters = append(filters, &SourceFilter{Values: []string{params.Source}})
	}

	return filters
}

// FiltersFromPreferences builds the personalized feed filter set from a
// user's stored preferences. Values of the same preference type form an
// OR-set; across types the sets combine as AND. A type with no stored
// values leaves that dimension unconstrained.
func FiltersFromPreferences(preferences []models.UserPreference) []query.FilterStrategy {
	grouped := lo.GroupBy(preferences, func(p models.UserPreference) models.PreferenceType {
		return p.Type
	})

	values := func(t models.PreferenceType) []string {
		return lo.Map(grouped[t], func(p models.UserPreference, _ int) string {
			return p.Value
		})
	}

	filters := []query.FilterStrategy{}

	if sources := values(models.PreferenceSource); len(sources) > 0 {
		filters = append(filters, &SourceFilter{Values: sources})
	}
	if categories := values(models.PreferenceCategory); len(categories) > 0 {
		filters = append(filters, &CategoryFilter{Values: categories})
	}
	if authors := values(models.PreferenceAuthor); len(authors) > 0 {
		filters = append(filters, &AuthorFilter{Values: authors})
	}

	return filters
}
