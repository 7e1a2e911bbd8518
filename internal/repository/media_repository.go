package repository

import (
	"context"

	"catalog-sync-service/internal/models"
	"gorm.io/gorm"
)

// MediaRepository handles database operations for the media registry
type MediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository creates a new media repository
func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// Create registers a stored asset
func (r *MediaRepository) Create(ctx context.Context, media *models.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

// List retrieves registered assets, newest first
func (r *MediaRepository) List(ctx context.Context, limit, offset int) ([]models.Media, error) {
	var media []models.Media
	query := r.db.WithContext(ctx).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}
	err := query.Find(&media).Error
	return media, err
}
