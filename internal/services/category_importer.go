package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/clients"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/storage"
)

// Checkpoint is invoked by the importers after every processed page so
// the orchestrator can persist progress and refresh the run heartbeat.
type Checkpoint func(ctx context.Context)

// ImportSettings carries the per-run options the importers share: the
// effective conversion rate (0 disables conversion), the image toggle
// and the storage backend preference.
type ImportSettings struct {
	SyncImages bool
	Rate       float64
	Storage    storage.Preference
}

// CategoryImporter pages through the remote category listing and upserts
// each category into the local catalog by slug.
type CategoryImporter struct {
	catalog  CatalogStore
	runs     RunStore
	media    *MediaService
	pageSize int
	logger   *logrus.Logger
}

// NewCategoryImporter creates a new CategoryImporter
func NewCategoryImporter(catalog CatalogStore, runs RunStore, media *MediaService, pageSize int, logger *logrus.Logger) *CategoryImporter {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &CategoryImporter{
		catalog:  catalog,
		runs:     runs,
		media:    media,
		pageSize: pageSize,
		logger:   logger,
	}
}

// Import fetches every remote category page and upserts the contents.
// A failed page fetch aborts the import; a failed item is counted on the
// run and skipped.
func (i *CategoryImporter) Import(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, settings ImportSettings, checkpoint Checkpoint) error {
	for page := 1; ; page++ {
		cats, err := client.GetCategories(ctx, page, i.pageSize)
		if err != nil {
			return fmt.Errorf("fetching category page %d: %w", page, err)
		}
		if len(cats) == 0 {
			break
		}

		for _, rc := range cats {
			if err := i.importOne(ctx, rc, run, settings); err != nil {
				run.CategoriesFailed++
				i.logger.WithFields(logrus.Fields{
					"run_id": run.ID,
					"slug":   rc.Slug,
					"error":  err.Error(),
				}).Warn("Category import failed")
				logEvent(ctx, i.runs, run.ID, models.LogLevelWarn, "category import failed", models.JSONB{
					"slug":  rc.Slug,
					"error": err.Error(),
				})
				continue
			}
			run.CategoriesSynced++
		}

		if checkpoint != nil {
			checkpoint(ctx)
		}

		if len(cats) < i.pageSize {
			break
		}
	}
	return nil
}

func (i *CategoryImporter) importOne(ctx context.Context, rc clients.RemoteCategory, run *models.SyncRun, settings ImportSettings) error {
	if rc.Slug == "" {
		return fmt.Errorf("remote category %d has no slug", rc.ID)
	}

	// A nil image URL leaves any previously stored image untouched.
	var imageURL *string
	if settings.SyncImages && rc.Image != nil && rc.Image.Src != "" {
		filename := fmt.Sprintf("category-%s.jpg", rc.Slug)
		media, err := i.media.StoreRemoteImage(ctx, rc.Image.Src, filename, settings.Storage)
		if err != nil {
			run.ImagesFailed++
			logEvent(ctx, i.runs, run.ID, models.LogLevelWarn, "category image failed", models.JSONB{
				"slug":  rc.Slug,
				"src":   rc.Image.Src,
				"error": err.Error(),
			})
		} else {
			run.ImagesUploaded++
			imageURL = &media.URL
		}
	}

	var description *string
	if rc.Description != "" {
		description = &rc.Description
	}

	if _, err := i.catalog.UpsertCategory(ctx, rc.Name, rc.Slug, description, imageURL); err != nil {
		return fmt.Errorf("upserting category %s: %w", rc.Slug, err)
	}
	return nil
}
