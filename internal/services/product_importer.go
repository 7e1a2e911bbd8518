package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/clients"
	"catalog-sync-service/internal/models"
)

// ProductImporter imports remote products into the local catalog. Products
// are created, never refreshed: a slug that already exists locally is
// skipped along with all its children.
type ProductImporter struct {
	catalog    CatalogStore
	runs       RunStore
	media      *MediaService
	variations *VariationImporter
	logger     *logrus.Logger
}

// NewProductImporter creates a new ProductImporter
func NewProductImporter(catalog CatalogStore, runs RunStore, media *MediaService, variations *VariationImporter, logger *logrus.Logger) *ProductImporter {
	return &ProductImporter{
		catalog:    catalog,
		runs:       runs,
		media:      media,
		variations: variations,
		logger:     logger,
	}
}

// ImportOne imports a single remote product with its images, attributes,
// variations and category links. Failures inside one product are counted
// on the run and do not propagate, except variation page fetch errors
// which are treated as a failure of that product only.
func (i *ProductImporter) ImportOne(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, rp clients.RemoteProduct, settings ImportSettings) {
	skipped, err := i.importProduct(ctx, client, run, rp, settings)
	if err != nil {
		run.ProductsFailed++
		i.logger.WithFields(logrus.Fields{
			"run_id":     run.ID,
			"product_id": rp.ID,
			"slug":       rp.Slug,
			"error":      err.Error(),
		}).Warn("Product import failed")
		logEvent(ctx, i.runs, run.ID, models.LogLevelWarn, "product import failed", models.JSONB{
			"remoteProductId": rp.ID,
			"slug":            rp.Slug,
			"error":           err.Error(),
		})
		return
	}
	if skipped {
		run.ProductsSkipped++
		return
	}
	run.ProductsSynced++
}

func (i *ProductImporter) importProduct(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, rp clients.RemoteProduct, settings ImportSettings) (skipped bool, err error) {
	if rp.Slug == "" {
		return false, fmt.Errorf("remote product %d has no slug", rp.ID)
	}

	existing, err := i.catalog.GetProductBySlug(ctx, rp.Slug)
	if err != nil {
		return false, fmt.Errorf("looking up product %s: %w", rp.Slug, err)
	}
	if existing != nil {
		return true, nil
	}

	// Images are stored before the product row so the rows created in
	// step order reference final URLs.
	type storedImage struct {
		url      string
		alt      *string
		position int
	}
	var images []storedImage
	for idx, img := range rp.Images {
		if !settings.SyncImages || img.Src == "" {
			continue
		}
		filename := fmt.Sprintf("%s-%d.jpg", rp.Slug, idx)
		media, mediaErr := i.media.StoreRemoteImage(ctx, img.Src, filename, settings.Storage)
		if mediaErr != nil {
			run.ImagesFailed++
			logEvent(ctx, i.runs, run.ID, models.LogLevelWarn, "product image failed", models.JSONB{
				"slug":  rp.Slug,
				"src":   img.Src,
				"error": mediaErr.Error(),
			})
			continue
		}
		run.ImagesUploaded++
		si := storedImage{url: media.URL, position: idx}
		if img.Alt != "" {
			alt := img.Alt
			si.alt = &alt
		}
		images = append(images, si)
	}

	p := buildPricing(rp.Price, rp.RegularPrice, rp.SalePrice, settings.Rate)

	status := models.ProductStatusDraft
	if rp.Status == "publish" {
		status = models.ProductStatusPublish
	}
	productType := models.ProductTypeSimple
	if rp.Type == "variable" {
		productType = models.ProductTypeVariable
	}

	product := &models.Product{
		Name:          rp.Name,
		Slug:          rp.Slug,
		Price:         p.Price,
		RegularPrice:  p.RegularPrice,
		SalePrice:     p.SalePrice,
		OnSale:        p.OnSale,
		StockQuantity: rp.StockQuantity,
		ManageStock:   rp.ManageStock,
		Weight:        parseMeasure(rp.Weight),
		Status:        status,
		Featured:      rp.Featured,
		ProductType:   productType,
	}
	if rp.Description != "" {
		d := rp.Description
		product.Description = &d
	}
	if rp.ShortDescription != "" {
		d := rp.ShortDescription
		product.ShortDescription = &d
	}
	if rp.SKU != "" {
		sku := rp.SKU
		product.SKU = &sku
	}
	if rp.StockStatus != "" {
		product.StockStatus = rp.StockStatus
	}

	// The base row is persisted before any child rows so a failure
	// further down still leaves a usable product.
	if err := i.catalog.CreateProduct(ctx, product); err != nil {
		return false, fmt.Errorf("creating product %s: %w", rp.Slug, err)
	}

	for _, si := range images {
		image := &models.ProductImage{
			ProductID: product.ID,
			Src:       si.url,
			Alt:       si.alt,
			Position:  si.position,
		}
		if err := i.catalog.CreateProductImage(ctx, image); err != nil {
			return false, fmt.Errorf("creating image for %s: %w", rp.Slug, err)
		}
	}

	for _, ra := range rp.Attributes {
		attribute := &models.ProductAttribute{
			ProductID: product.ID,
			Name:      ra.Name,
			Value:     strings.Join(ra.Options, ", "),
			Position:  ra.Position,
			Visible:   ra.Visible,
			Variation: ra.Variation,
		}
		if err := i.catalog.CreateProductAttribute(ctx, attribute); err != nil {
			return false, fmt.Errorf("creating attribute %s for %s: %w", ra.Name, rp.Slug, err)
		}
	}

	if productType == models.ProductTypeVariable && len(rp.Variations) > 0 {
		agg, err := i.variations.Import(ctx, client, run, product.ID, rp.ID, settings)
		if err != nil {
			return false, fmt.Errorf("importing variations of %s: %w", rp.Slug, err)
		}
		if agg.OnSale {
			if err := i.catalog.UpdateProductPricing(ctx, product.ID, agg.Price, agg.RegularPrice, agg.SalePrice, true); err != nil {
				return false, fmt.Errorf("updating parent pricing of %s: %w", rp.Slug, err)
			}
		}
	}

	// Category links are best-effort; a missing category or duplicate
	// link never fails the product.
	for _, ref := range rp.Categories {
		category, err := i.catalog.GetCategoryBySlug(ctx, ref.Slug)
		if err != nil || category == nil {
			continue
		}
		_ = i.catalog.LinkProductCategory(ctx, product.ID, category.ID)
	}

	return false, nil
}
