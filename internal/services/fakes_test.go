package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/clients"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/storage"
)

// In-memory fakes for the import pipeline. They keep enough state to
// verify cross-run behavior like slug-based skipping.

type fakeCatalogStore struct {
	categories map[string]*models.Category
	products   map[string]*models.Product
	images     []models.ProductImage
	attributes []models.ProductAttribute
	variations []models.ProductVariation
	links      []models.ProductCategory

	upserts int

	failCreateProduct func(p *models.Product) error
	failUpsert        func(slug string) error
}

func newFakeCatalogStore() *fakeCatalogStore {
	return &fakeCatalogStore{
		categories: make(map[string]*models.Category),
		products:   make(map[string]*models.Product),
	}
}

func (f *fakeCatalogStore) GetCategoryBySlug(ctx context.Context, slug string) (*models.Category, error) {
	c, ok := f.categories[slug]
	if !ok {
		return nil, fmt.Errorf("category %s not found", slug)
	}
	return c, nil
}

func (f *fakeCatalogStore) UpsertCategory(ctx context.Context, name, slug string, description, imageURL *string) (*models.Category, error) {
	if f.failUpsert != nil {
		if err := f.failUpsert(slug); err != nil {
			return nil, err
		}
	}
	f.upserts++
	c, ok := f.categories[slug]
	if !ok {
		c = &models.Category{ID: uuid.New(), Slug: slug}
		f.categories[slug] = c
	}
	c.Name = name
	c.Description = description
	if imageURL != nil {
		c.ImageURL = imageURL
	}
	return c, nil
}

func (f *fakeCatalogStore) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	return f.products[slug], nil
}

func (f *fakeCatalogStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if f.failCreateProduct != nil {
		if err := f.failCreateProduct(product); err != nil {
			return err
		}
	}
	if _, exists := f.products[product.Slug]; exists {
		return fmt.Errorf("duplicate slug %s", product.Slug)
	}
	product.ID = uuid.New()
	f.products[product.Slug] = product
	return nil
}

func (f *fakeCatalogStore) UpdateProductPricing(ctx context.Context, id uuid.UUID, price float64, regularPrice, salePrice *float64, onSale bool) error {
	for _, p := range f.products {
		if p.ID == id {
			p.Price = price
			p.RegularPrice = regularPrice
			p.SalePrice = salePrice
			p.OnSale = onSale
			return nil
		}
	}
	return fmt.Errorf("product %s not found", id)
}

func (f *fakeCatalogStore) CreateProductImage(ctx context.Context, image *models.ProductImage) error {
	f.images = append(f.images, *image)
	return nil
}

func (f *fakeCatalogStore) CreateProductAttribute(ctx context.Context, attribute *models.ProductAttribute) error {
	f.attributes = append(f.attributes, *attribute)
	return nil
}

func (f *fakeCatalogStore) CreateProductVariation(ctx context.Context, variation *models.ProductVariation) error {
	f.variations = append(f.variations, *variation)
	return nil
}

func (f *fakeCatalogStore) LinkProductCategory(ctx context.Context, productID, categoryID uuid.UUID) error {
	f.links = append(f.links, models.ProductCategory{ProductID: productID, CategoryID: categoryID})
	return nil
}

type fakeRunStore struct {
	runs map[uuid.UUID]*models.SyncRun
	logs []models.SyncLog
}

func newFakeRunStore() *fakeRunStore {
	return &fakeRunStore{runs: make(map[uuid.UUID]*models.SyncRun)}
}

func (f *fakeRunStore) CreateRun(ctx context.Context, run *models.SyncRun) error {
	run.ID = uuid.New()
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunStore) UpdateRun(ctx context.Context, run *models.SyncRun) error {
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunStore) FinishRun(ctx context.Context, run *models.SyncRun, status models.SyncStatus, errorMessage string) error {
	now := time.Now()
	run.Status = status
	run.ErrorMessage = errorMessage
	run.CompletedAt = &now
	f.runs[run.ID] = run
	return nil
}

func (f *fakeRunStore) CreateLog(ctx context.Context, log *models.SyncLog) error {
	f.logs = append(f.logs, *log)
	return nil
}

type fakeSiteStore struct {
	sites     map[uuid.UUID]*models.Site
	completed int
}

func newFakeSiteStore(sites ...*models.Site) *fakeSiteStore {
	f := &fakeSiteStore{sites: make(map[uuid.UUID]*models.Site)}
	for _, s := range sites {
		f.sites[s.ID] = s
	}
	return f
}

func (f *fakeSiteStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Site, error) {
	s, ok := f.sites[id]
	if !ok {
		return nil, fmt.Errorf("site %s not found", id)
	}
	return s, nil
}

func (f *fakeSiteStore) RecordSyncCompleted(ctx context.Context, id uuid.UUID, products, categories int, syncedAt time.Time) error {
	s, ok := f.sites[id]
	if !ok {
		return fmt.Errorf("site %s not found", id)
	}
	s.ProductCount += products
	s.CategoryCount += categories
	s.LastSyncAt = &syncedAt
	f.completed++
	return nil
}

type fakeMediaStore struct {
	media []models.Media
}

func (f *fakeMediaStore) Create(ctx context.Context, media *models.Media) error {
	media.ID = uuid.New()
	f.media = append(f.media, *media)
	return nil
}

type fakeCurrencyStore struct {
	rates map[string]float64
}

func (f *fakeCurrencyStore) GetByCode(ctx context.Context, code string) (*models.Currency, error) {
	rate, ok := f.rates[code]
	if !ok {
		return nil, fmt.Errorf("currency %s not found", code)
	}
	return &models.Currency{Code: code, ExchangeRate: rate}, nil
}

// fakeClient serves canned pages and records how many fetches were made
type fakeClient struct {
	categoryPages [][]clients.RemoteCategory
	productPages  [][]clients.RemoteProduct
	productsByID  map[int64]*clients.RemoteProduct
	variations    map[int64][][]clients.RemoteVariation

	categoryFetches  int
	productFetches   int
	variationFetches int

	productPageErr error
}

func (f *fakeClient) Ping(ctx context.Context) error { return nil }

func (f *fakeClient) GetCategories(ctx context.Context, page, perPage int) ([]clients.RemoteCategory, error) {
	f.categoryFetches++
	if page > len(f.categoryPages) {
		return nil, nil
	}
	return f.categoryPages[page-1], nil
}

func (f *fakeClient) GetProducts(ctx context.Context, opts *clients.ProductListOptions) ([]clients.RemoteProduct, error) {
	f.productFetches++
	if f.productPageErr != nil {
		return nil, f.productPageErr
	}
	if opts.Page > len(f.productPages) {
		return nil, nil
	}
	return f.productPages[opts.Page-1], nil
}

func (f *fakeClient) GetProduct(ctx context.Context, productID int64) (*clients.RemoteProduct, error) {
	p, ok := f.productsByID[productID]
	if !ok {
		return nil, &clients.PageFetchError{StatusCode: 404, URL: fmt.Sprintf("/products/%d", productID)}
	}
	return p, nil
}

func (f *fakeClient) GetVariations(ctx context.Context, productID int64, page, perPage int) ([]clients.RemoteVariation, error) {
	f.variationFetches++
	pages := f.variations[productID]
	if page > len(pages) {
		return nil, nil
	}
	return pages[page-1], nil
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestMediaService(t *testing.T, media MediaStore) *MediaService {
	t.Helper()
	local := storage.NewLocalBackend(t.TempDir(), "/media")
	return NewMediaService(storage.NewSelector(local, nil), media, testLogger())
}

// makePage builds a page of distinct simple products
func makePage(startID int64, count int) []clients.RemoteProduct {
	page := make([]clients.RemoteProduct, 0, count)
	for i := 0; i < count; i++ {
		id := startID + int64(i)
		page = append(page, clients.RemoteProduct{
			ID:     id,
			Name:   fmt.Sprintf("Product %d", id),
			Slug:   fmt.Sprintf("product-%d", id),
			Price:  "1000",
			Status: "publish",
			Type:   "simple",
		})
	}
	return page
}
