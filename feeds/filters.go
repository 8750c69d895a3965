package feeds

import (
	"strings"

	"newswire/query"

	"github.com/huandu/go-sqlbuilder"
	"github.com/samber/lo"
)

// KeywordFilter matches a substring of the title or content,
// case-insensitively.
type KeywordFilter struct {
	Keyword string
}

func (f *KeywordFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	keyword := strings.TrimSpace(f.Keyword)
	if keyword == "" {
		return
	}
	pattern := "%" + strings.ToLower(keyword) + "%"
	sb.Where(sb.Or(
		sb.Like("LOWER(articles.title)", pattern),
		sb.Like("LOWER(articles.content)", pattern),
	))
}

// DateFilter matches the date component of the publication time
type DateFilter struct {
	Date string // YYYY-MM-DD
}

func (f *DateFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	if f.Date == "" {
		return
	}
	sb.Where(sb.Equal("DATE(articles.published_at)", f.Date))
}

// CategoryFilter matches any of the given categories exactly
type CategoryFilter struct {
	Values []string
}

func (f *CategoryFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	applySetMatch(sb, "articles.category", f.Values)
}

// AuthorFilter matches any of the given authors exactly
type AuthorFilter struct {
	Values []string
}

func (f *AuthorFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	applySetMatch(sb, "articles.author", f.Values)
}

// SourceFilter matches any of the given source names. The article query
// always joins the sources table, so the column is addressable here.
type SourceFilter struct {
	Values []string
}

func (f *SourceFilter) ApplyFilter(sb *sqlbuilder.SelectBuilder) {
	applySetMatch(sb, "sources.name", f.Values)
}

func applySetMatch(sb *sqlbuilder.SelectBuilder, column string, values []string) {
	switch len(values) {
	case 0:
		// Unconstrained dimension
	case 1:
		sb.Where(sb.Equal(column, values[0]))
	default:
		sb.Where(sb.In(column, lo.ToAnySlice(values)...))
	}
}

var _ query.FilterStrategy = (*KeywordFilter)(nil)
var _ query.FilterStrategy = (*DateFilter)(nil)
var _ query.FilterStrategy = (*CategoryFilter)(nil)
var _ query.FilterStrategy = (*AuthorFilter)(nil)
var _ query.FilterStrategy = (*SourceFilter)(nil)
