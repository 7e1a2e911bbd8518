package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"catalog-sync-service/internal/models"
	"gorm.io/gorm"
)

var ErrCategoryNotFound = errors.New("category not found")

// CatalogRepository handles database operations for the local catalog:
// categories, products and their child rows. Every write is a single
// atomic create or update; no multi-entity transaction spans them.
type CatalogRepository struct {
	db *gorm.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// GetCategoryBySlug retrieves a category by its slug
func (r *CatalogRepository) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	var category models.Category
	err := r.db.WithContext(ctx).First(&category, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

// UpsertCategory creates a category or updates the existing row with the
// same slug. Name and description are overwritten on every import, so a
// description cleared remotely is cleared locally too. Only a nil
// imageURL means "no change", not "clear".
func (r *CatalogRepository) UpsertCategory(ctx context.Context, name, slug string, description, imageURL *string) (*models.Category, error) {
	existing, err := r.GetCategoryBySlug(ctx, slug)
	if err != nil && !errors.Is(err, ErrCategoryNotFound) {
		return nil, err
	}

	if existing != nil {
		existing.Name = name
		existing.Description = description
		if imageURL != nil {
			existing.ImageURL = imageURL
		}
		if err := r.db.WithContext(ctx).Save(existing).Error; err != nil {
			return nil, err
		}
		return existing, nil
	}

	category := &models.Category{
		Name:        name,
		Slug:        slug,
		Description: description,
		ImageURL:    imageURL,
	}
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// ListCategories retrieves all local categories
func (r *CatalogRepository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&categories).Error
	return categories, err
}

// GetProductBySlug retrieves a product by its slug. Returns (nil, nil)
// when no product with that slug exists.
func (r *CatalogRepository) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).First(&product, "slug = ?", slug).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

// CreateProduct creates the product base row
func (r *CatalogRepository) CreateProduct(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// UpdateProductPricing overwrites a product's displayed pricing. Used for
// the variable-product parent aggregation after variation import.
func (r *CatalogRepository) UpdateProductPricing(ctx context.Context, id uuid.UUID, price float64, regularPrice, salePrice *float64, onSale bool) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"price":         price,
			"regular_price": regularPrice,
			"sale_price":    salePrice,
			"on_sale":       onSale,
		}).Error
}

// CreateProductImage creates one product image row
func (r *CatalogRepository) CreateProductImage(ctx context.Context, image *models.ProductImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// CreateProductAttribute creates one product attribute row
func (r *CatalogRepository) CreateProductAttribute(ctx context.Context, attribute *models.ProductAttribute) error {
	return r.db.WithContext(ctx).Create(attribute).Error
}

// CreateProductVariation creates one product variation row
func (r *CatalogRepository) CreateProductVariation(ctx context.Context, variation *models.ProductVariation) error {
	return r.db.WithContext(ctx).Create(variation).Error
}

// LinkProductCategory creates a product/category join row
func (r *CatalogRepository) LinkProductCategory(ctx context.Context, productID, categoryID uuid.UUID) error {
	return r.db.WithContext(ctx).Create(&models.ProductCategory{
		ProductID:  productID,
		CategoryID: categoryID,
	}).Error
}
