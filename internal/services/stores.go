package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/repository"
)

// The importers and the orchestrator talk to storage through narrow
// interfaces satisfied by the repository types, so the import pipeline
// can be tested against in-memory fakes.

// SiteStore is the site access the orchestrator needs
type SiteStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Site, error)
	RecordSyncCompleted(ctx context.Context, id uuid.UUID, products, categories int, syncedAt time.Time) error
}

// RunStore persists sync runs and their logs
type RunStore interface {
	CreateRun(ctx context.Context, run *models.SyncRun) error
	UpdateRun(ctx context.Context, run *models.SyncRun) error
	FinishRun(ctx context.Context, run *models.SyncRun, status models.SyncStatus, errorMessage string) error
	CreateLog(ctx context.Context, log *models.SyncLog) error
}

// CatalogStore is the catalog write surface used by the importers
type CatalogStore interface {
	GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error)
	UpsertCategory(ctx context.Context, name, slug string, description, imageURL *string) (*models.Category, error)
	GetProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	CreateProduct(ctx context.Context, product *models.Product) error
	UpdateProductPricing(ctx context.Context, id uuid.UUID, price float64, regularPrice, salePrice *float64, onSale bool) error
	CreateProductImage(ctx context.Context, image *models.ProductImage) error
	CreateProductAttribute(ctx context.Context, attribute *models.ProductAttribute) error
	CreateProductVariation(ctx context.Context, variation *models.ProductVariation) error
	LinkProductCategory(ctx context.Context, productID, categoryID uuid.UUID) error
}

// MediaStore registers stored assets
type MediaStore interface {
	Create(ctx context.Context, media *models.Media) error
}

// CurrencyStore is the read access the converter needs
type CurrencyStore interface {
	GetByCode(ctx context.Context, code string) (*models.Currency, error)
}

// Interface conformance
var (
	_ SiteStore     = (*repository.SiteRepository)(nil)
	_ RunStore      = (*repository.SyncRepository)(nil)
	_ CatalogStore  = (*repository.CatalogRepository)(nil)
	_ MediaStore    = (*repository.MediaRepository)(nil)
	_ CurrencyStore = (*repository.CurrencyRepository)(nil)
)

// logEvent creates a sync log entry for a run; log write failures are
// never allowed to disturb the import.
func logEvent(ctx context.Context, runs RunStore, runID uuid.UUID, level models.LogLevel, message string, data models.JSONB) {
	_ = runs.CreateLog(ctx, &models.SyncLog{
		RunID:   runID,
		Level:   level,
		Message: message,
		Data:    data,
	})
}
