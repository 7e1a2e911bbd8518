package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"catalog-sync-service/internal/models"
	"gorm.io/gorm"
)

var ErrSiteNotFound = errors.New("site not found")

// SiteRepository handles database operations for sites
type SiteRepository struct {
	db *gorm.DB
}

// NewSiteRepository creates a new site repository
func NewSiteRepository(db *gorm.DB) *SiteRepository {
	return &SiteRepository{db: db}
}

// Create creates a new site
func (r *SiteRepository) Create(ctx context.Context, site *models.Site) error {
	return r.db.WithContext(ctx).Create(site).Error
}

// GetByID retrieves a site by ID
func (r *SiteRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	var site models.Site
	err := r.db.WithContext(ctx).First(&site, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

// List retrieves all configured sites
func (r *SiteRepository) List(ctx context.Context) ([]models.Site, error) {
	var sites []models.Site
	err := r.db.WithContext(ctx).Order("created_at DESC").Find(&sites).Error
	return sites, err
}

// Update updates an existing site
func (r *SiteRepository) Update(ctx context.Context, site *models.Site) error {
	return r.db.WithContext(ctx).Save(site).Error
}

// UpdateStatus updates a site's connection status and last error
func (r *SiteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status models.SiteStatus, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&models.Site{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"last_error": lastError,
			"updated_at": time.Now(),
		}).Error
}

// RecordSyncCompleted increments the site's statistics by a completed
// run's counts and stamps lastSyncAt. Counters are incremented, not
// overwritten.
func (r *SiteRepository) RecordSyncCompleted(ctx context.Context, id uuid.UUID, products, categories int, syncedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.Site{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"product_count":  gorm.Expr("product_count + ?", products),
			"category_count": gorm.Expr("category_count + ?", categories),
			"last_sync_at":   syncedAt,
			"updated_at":     time.Now(),
		}).Error
}
