package ingest

import (
	"context"
	"errors"
	"fmt"

	"newswire/db"
	"newswire/models"
	"newswire/providers"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Store is the slice of the article store the pipeline writes through.
// *db.Writer implements it.
type Store interface {
	GetOrCreateSource(ctx context.Context, descriptor models.SourceDescriptor) (int64, error)
	FindArticleByUrl(ctx context.Context, url string) (*models.Article, error)
	InsertArticle(ctx context.Context, candidate models.Candidate, sourceId int64) (int64, error)
}

var _ Store = (*db.Writer)(nil)

// Pipeline runs one fetch-map-dedupe-persist pass for a provider. Runs are
// idempotent: an article url that already exists is skipped, never updated,
// so re-running with identical provider output changes nothing.
type Pipeline struct {
	store Store
}

func NewPipeline(store Store) *Pipeline {
	return &Pipeline{
		store: store,
	}
}

// Run executes one ingestion run. A transport or network failure during the
// fetch aborts the run before anything is written, so a failed run leaves
// the store unchanged. Per-candidate gaps (missing optional fields) are
// tolerated; a missing url drops the candidate silently.
func (pipeline *Pipeline) Run(ctx context.Context, provider providers.Provider) error {
	descriptor := provider.Descriptor()
	logger := log.WithFields(log.Fields{
		"run":      uuid.New().String(),
		"provider": descriptor.Name,
	})

	logger.Info("Fetching articles")
	candidates, err := provider.Fetch(ctx)
	if err != nil {
		var transportErr *providers.TransportError
		if errors.As(err, &transportErr) {
			logger.WithFields(log.Fields{
				"status": transportErr.Status,
				"body":   transportErr.Body,
			}).Error("Provider returned an error response")
		} else {
			logger.WithError(err).Error("Failed to fetch from provider")
		}
		return err
	}

	sourceId, err := pipeline.store.GetOrCreateSource(ctx, descriptor)
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}

	created := 0
	skipped := 0
	for _, candidate := range candidates {
		if candidate.Url == "" {
			continue
		}

		existing, err := pipeline.store.FindArticleByUrl(ctx, candidate.Url)
		if err != nil {
			return fmt.Errorf("dedupe lookup: %w", err)
		}
		if existing != nil {
			// First write wins; re-ingested articles are never updated
			skipped++
			continue
		}

		if _, err := pipeline.store.InsertArticle(ctx, candidate, sourceId); err != nil {
			if errors.Is(err, db.ErrDuplicate) {
				// An overlapping run inserted the same url between our
				// lookup and this insert
				skipped++
				continue
			}
			return fmt.Errorf("insert article: %w", err)
		}
		created++
	}

	logger.WithFields(log.Fields{
		"created": created,
		"skipped": skipped,
	}).Info("Articles fetched and stored successfully")

	return nil
}
