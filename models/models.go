package models

import "time"

// PublishedAtLayout is the canonical storage format for article publication
// times. Provider timestamps are converted to UTC and truncated to this
// format regardless of the native format of the provider.
const PublishedAtLayout = "2006-01-02 15:04:05"

// Source is a logical news provider. Created lazily on the first successful
// ingestion from that provider and never duplicated.
type Source struct {
	Id          int64   `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Url         *string `json:"url"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// Article is the canonical record shared by all providers. Optional fields
// are nil when the provider payload did not carry them.
type Article struct {
	Id          int64   `json:"id"`
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Url         string  `json:"url"`
	Author      *string `json:"author"`
	Category    *string `json:"category"`
	PublishedAt *string `json:"publishedAt"`
	SourceId    int64   `json:"sourceId"`
	Source      *Source `json:"source,omitempty"`
	CreatedAt   int64   `json:"createdAt"`
	UpdatedAt   int64   `json:"updatedAt"`
}

// Candidate is one normalized article emitted by a provider adapter before
// it has been deduplicated and persisted.
type Candidate struct {
	Title       *string
	Content     *string
	Url         string
	PublishedAt *time.Time
	Author      *string
	Category    *string
}

// SourceDescriptor carries the fixed identity a provider adapter registers
// its source under. Description and url are creation-time values and are
// ignored once the source exists.
type SourceDescriptor struct {
	Name        string
	Description string
	Url         string
}

type PreferenceType string

const (
	PreferenceSource   PreferenceType = "source"
	PreferenceCategory PreferenceType = "category"
	PreferenceAuthor   PreferenceType = "author"
)

func (t PreferenceType) Valid() bool {
	switch t {
	case PreferenceSource, PreferenceCategory, PreferenceAuthor:
		return true
	}
	return false
}

// UserPreference holds one preference dimension for a user. The store keeps
// at most one row per (user, type) pair; writing a new value replaces the
// old one.
type UserPreference struct {
	Id        int64          `json:"id"`
	UserId    int64          `json:"userId"`
	Type      PreferenceType `json:"type"`
	Value     string         `json:"value"`
	CreatedAt int64          `json:"createdAt"`
	UpdatedAt int64          `json:"updatedAt"`
}

// ArticleFilter carries the optional caller-supplied filter values for the
// general article query. Empty fields are not applied.
type ArticleFilter struct {
	Keyword  string
	Date     string // YYYY-MM-DD, matched against the date part of publishedAt
	Category string
	Author   string
	Source   string
}

// Page is one page of a paginated result set.
type Page[T any] struct {
	CurrentPage int   `json:"currentPage"`
	PerPage     int   `json:"perPage"`
	LastPage    int   `json:"lastPage"`
	Total       int64 `json:"total"`
	Data        []T   `json:"data"`
}

func NewPage[T any](data []T, page int, perPage int, total int64) *Page[T] {
	if data == nil {
		data = []T{}
	}
	lastPage := int((total + int64(perPage) - 1) / int64(perPage))
	if lastPage < 1 {
		lastPage = 1
	}
	return &Page[T]{
		CurrentPage: page,
		PerPage:     perPage,
		LastPage:    lastPage,
		Total:       total,
		Data:        data,
	}
}
