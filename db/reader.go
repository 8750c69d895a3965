package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"newswire/models"
	"newswire/query"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
)

// Reader holds the read-only connection pool. Queries may run with
// unbounded read concurrency against the store.
type Reader struct {
	db *sql.DB
}

func NewReader(database string) *Reader {
	// Open in read-only mode with optimized settings
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?mode=ro&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)", database))
	if err != nil {
		panic("failed to connect database")
	}

	// Set connection pool settings for reader
	db.SetMaxOpenConns(4)            // Allow multiple concurrent readers
	db.SetMaxIdleConns(2)            // Keep some connections ready
	db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA cache_size = -32000; -- 32MB cache
		PRAGMA temp_store = MEMORY;
	`); err != nil {
		panic(fmt.Sprintf("failed to set pragmas: %v", err))
	}

	return &Reader{
		db: db,
	}
}

func (reader *Reader) Close() error {
	return reader.db.Close()
}

var articleColumns = []string{
	"articles.id", "articles.title", "articles.content", "articles.url",
	"articles.author", "articles.category", "articles.published_at",
	"articles.source_id", "articles.created_at", "articles.updated_at",
	"sources.id", "sources.name", "sources.description", "sources.url",
	"sources.created_at", "sources.updated_at",
}

func scanArticle(rows *sql.Rows) (models.Article, error) {
	var article models.Article
	var source models.Source
	err := rows.Scan(
		&article.Id, &article.Title, &article.Content, &article.Url,
		&article.Author, &article.Category, &article.PublishedAt,
		&article.SourceId, &article.CreatedAt, &article.UpdatedAt,
		&source.Id, &source.Name, &source.Description, &source.Url,
		&source.CreatedAt, &source.UpdatedAt,
	)
	if err != nil {
		return models.Article{}, err
	}
	article.Source = &source
	return article, nil
}

// QueryArticles returns one page of articles matching the conjunction of
// all given filters, newest first, with the source embedded.
func (reader *Reader) QueryArticles(ctx context.Context, filters []query.FilterStrategy, page int, perPage int) (*models.Page[models.Article], error) {
	if page < 1 {
		page = 1
	}

	count := sqlbuilder.NewSelectBuilder()
	count.Select("COUNT(*)").From("articles")
	count.Join("sources", "sources.id = articles.source_id")
	for _, filter := range filters {
		filter.ApplyFilter(count)
	}
	countSql, countArgs := count.BuildWithFlavor(sqlbuilder.SQLite)

	var total int64
	if err := reader.db.QueryRowContext(ctx, countSql, countArgs...).Scan(&total); err != nil {
		return nil, fmt.Errorf("count error: %w", err)
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(articleColumns...).From("articles")
	sb.Join("sources", "sources.id = articles.source_id")
	for _, filter := range filters {
		filter.ApplyFilter(sb)
	}
	sb.OrderBy("articles.published_at DESC", "articles.id DESC")
	sb.Limit(perPage).Offset((page - 1) * perPage)

	querySql, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := reader.db.QueryContext(ctx, querySql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var articles []models.Article
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return models.NewPage(articles, page, perPage, total), nil
}

// GetArticle returns the article with the given id and its source, or nil
// if there is none.
func (reader *Reader) GetArticle(ctx context.Context, id int64) (*models.Article, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select(articleColumns...).From("articles")
	sb.Join("sources", "sources.id = articles.source_id")
	sb.Where(sb.Equal("articles.id", id))

	querySql, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := reader.db.QueryContext(ctx, querySql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("rows error: %w", err)
		}
		return nil, nil
	}

	article, err := scanArticle(rows)
	if err != nil {
		return nil, fmt.Errorf("scan error: %w", err)
	}
	return &article, nil
}

// ListSources returns one page of sources ordered by id.
func (reader *Reader) ListSources(ctx context.Context, page int, perPage int) (*models.Page[models.Source], error) {
	if page < 1 {
		page = 1
	}

	var total int64
	if err := reader.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sources").Scan(&total); err != nil {
		return nil, fmt.Errorf("count error: %w", err)
	}

	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "name", "description", "url", "created_at", "updated_at").From("sources")
	sb.OrderBy("id").Asc()
	sb.Limit(perPage).Offset((page - 1) * perPage)

	querySql, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := reader.db.QueryContext(ctx, querySql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		var source models.Source
		if err := rows.Scan(&source.Id, &source.Name, &source.Description, &source.Url, &source.CreatedAt, &source.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		sources = append(sources, source)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return models.NewPage(sources, page, perPage, total), nil
}

// GetPreferences returns all stored preference rows for a user.
func (reader *Reader) GetPreferences(ctx context.Context, userId int64) ([]models.UserPreference, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("id", "user_id", "preference_type", "preference_value", "created_at", "updated_at").From("user_preferences")
	sb.Where(sb.Equal("user_id", userId))
	sb.OrderBy("id").Asc()

	querySql, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	rows, err := reader.db.QueryContext(ctx, querySql, args...)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	defer rows.Close()

	var preferences []models.UserPreference
	for rows.Next() {
		var preference models.UserPreference
		if err := rows.Scan(&preference.Id, &preference.UserId, &preference.Type, &preference.Value, &preference.CreatedAt, &preference.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan error: %w", err)
		}
		preferences = append(preferences, preference)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return preferences, nil
}
