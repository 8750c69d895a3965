package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"newswire/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// ErrDuplicate is returned when an insert collides with a uniqueness
// constraint (article url or source name). The ingestion pipeline treats it
// as an already-exists no-op; anywhere else it indicates a bug.
var ErrDuplicate = errors.New("db: duplicate row")

// Writer holds the single write connection to the database. All mutations
// go through it; uniqueness is enforced by the schema, not by callers.
type Writer struct {
	db *sql.DB
}

func NewWriter(database string) *Writer {
	db, err := connection(database)
	if err != nil {
		panic("failed to connect database")
	}
	return &Writer{
		db: db,
	}
}

func (writer *Writer) Close() error {
	return writer.db.Close()
}

// GetOrCreateSource resolves the id of the source with the descriptor's
// name, creating it first if needed. The insert is conflict-tolerant so
// concurrent runs cannot create duplicate rows; description and url are
// creation-time values and are ignored once the row exists.
func (writer *Writer) GetOrCreateSource(ctx context.Context, descriptor models.SourceDescriptor) (int64, error) {
	now := time.Now().Unix()

	// Empty descriptor fields are stored as NULL, not as empty strings
	var description, sourceUrl interface{}
	if descriptor.Description != "" {
		description = descriptor.Description
	}
	if descriptor.Url != "" {
		sourceUrl = descriptor.Url
	}

	_, err := writer.db.ExecContext(ctx, `
		INSERT INTO sources (name, description, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (name) DO NOTHING`,
		descriptor.Name, description, sourceUrl, now, now)
	if err != nil {
		return 0, fmt.Errorf("insert source: %w", err)
	}

	var id int64
	if err := writer.db.QueryRowContext(ctx, "SELECT id FROM sources WHERE name = ?", descriptor.Name).Scan(&id); err != nil {
		return 0, fmt.Errorf("select source: %w", err)
	}

	return id, nil
}

// InsertArticle persists a candidate as a new article. Returns ErrDuplicate
// if an article with the same url already exists.
func (writer *Writer) InsertArticle(ctx context.Context, candidate models.Candidate, sourceId int64) (int64, error) {
	now := time.Now().Unix()

	var publishedAt interface{}
	if candidate.PublishedAt != nil {
		publishedAt = candidate.PublishedAt.UTC().Format(models.PublishedAtLayout)
	}

	insert := sqlbuilder.NewInsertBuilder()
	insert.InsertInto("articles").
		Cols("title", "content", "url", "author", "category", "published_at", "source_id", "created_at", "updated_at").
		Values(candidate.Title, candidate.Content, candidate.Url, candidate.Author, candidate.Category, publishedAt, sourceId, now, now)
	query, args := insert.BuildWithFlavor(sqlbuilder.SQLite)

	res, err := writer.db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, ErrDuplicate
		}
		return 0, fmt.Errorf("insert article: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("inserted article id: %w", err)
	}

	log.WithFields(log.Fields{
		"url":    candidate.Url,
		"source": sourceId,
	}).Info("Created article")

	return id, nil
}

// FindArticleByUrl returns the article with the exact url, or nil if there
// is none. This is the dedup lookup of the ingestion pipeline and reads
// through the write connection so a run sees its own inserts.
func (writer *Writer) FindArticleByUrl(ctx context.Context, url string) (*models.Article, error) {
	row := writer.db.QueryRowContext(ctx, `
		SELECT id, title, content, url, author, category, published_at, source_id, created_at, updated_at
		FROM articles WHERE url = ?`, url)

	var article models.Article
	err := row.Scan(
		&article.Id, &article.Title, &article.Content, &article.Url,
		&article.Author, &article.Category, &article.PublishedAt,
		&article.SourceId, &article.CreatedAt, &article.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select article: %w", err)
	}

	return &article, nil
}

// ReplacePreferences upserts the given preference rows for a user. A new
// value for an existing preference type replaces the old one; the schema
// allows at most one row per (user, type) pair.
func (writer *Writer) ReplacePreferences(ctx context.Context, userId int64, preferences []models.UserPreference) error {
	tx, err := writer.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin preferences tx: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, preference := range preferences {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO user_preferences (user_id, preference_type, preference_value, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT (user_id, preference_type) DO UPDATE SET
				preference_value = excluded.preference_value,
				updated_at = excluded.updated_at`,
			userId, string(preference.Type), preference.Value, now, now)
		if err != nil {
			return fmt.Errorf("upsert preference: %w", err)
		}
	}

	return tx.Commit()
}

// DeleteSource removes a source; its articles go with it via the cascade.
func (writer *Writer) DeleteSource(ctx context.Context, id int64) error {
	_, err := writer.db.ExecContext(ctx, "DELETE FROM sources WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var serr *sqlite.Error
	if errors.As(err, &serr) {
		code := serr.Code()
		return code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
