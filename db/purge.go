package db

import (
	"context"
	"fmt"
	"time"

	"newswire/models"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	log "github.com/sirupsen/logrus"
)

// PurgeOlderThan deletes articles published more than the given number of
// days ago and reports how many rows went away. Articles without a
// publication time are kept.
func (writer *Writer) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -days).UTC().Format(models.PublishedAtLayout)

	deleteArticles := sqlbuilder.NewDeleteBuilder()
	deleteArticles.DeleteFrom("articles").Where(deleteArticles.LessThan("published_at", cutoff))
	querySql, args := deleteArticles.BuildWithFlavor(sqlbuilder.SQLite)

	log.WithFields(log.Fields{
		"cutoff": cutoff,
	}).Info("Purging old articles")

	res, err := writer.db.ExecContext(ctx, querySql, args...)
	if err != nil {
		return 0, fmt.Errorf("purge error: %w", err)
	}

	return res.RowsAffected()
}
