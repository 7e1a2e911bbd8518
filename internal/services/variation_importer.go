package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/clients"
	"catalog-sync-service/internal/models"
)

// VariationImporter pages through a variable product's remote variations,
// persists each one, and reports the sale aggregate the parent product
// should carry.
type VariationImporter struct {
	catalog  CatalogStore
	runs     RunStore
	media    *MediaService
	pageSize int
	logger   *logrus.Logger
}

// NewVariationImporter creates a new VariationImporter
func NewVariationImporter(catalog CatalogStore, runs RunStore, media *MediaService, pageSize int, logger *logrus.Logger) *VariationImporter {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &VariationImporter{
		catalog:  catalog,
		runs:     runs,
		media:    media,
		pageSize: pageSize,
		logger:   logger,
	}
}

// VariationAggregate summarizes the imported variations of one product.
// When OnSale is true, Price and RegularPrice hold the lowest sale price
// seen and the regular price of that same variation.
type VariationAggregate struct {
	Imported     int
	OnSale       bool
	Price        float64
	RegularPrice *float64
	SalePrice    *float64
}

// Import fetches and persists all variations of one remote product.
// Page fetch failures propagate to the caller; single-variation failures
// are counted on the run and skipped.
func (i *VariationImporter) Import(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, productID uuid.UUID, remoteProductID int64, settings ImportSettings) (*VariationAggregate, error) {
	agg := &VariationAggregate{}
	position := 0

	for page := 1; ; page++ {
		variations, err := client.GetVariations(ctx, remoteProductID, page, i.pageSize)
		if err != nil {
			return nil, fmt.Errorf("fetching variation page %d of product %d: %w", page, remoteProductID, err)
		}
		if len(variations) == 0 {
			break
		}

		for _, rv := range variations {
			v, err := i.importOne(ctx, rv, run, productID, remoteProductID, settings, position)
			position++
			if err != nil {
				run.VariationsFailed++
				i.logger.WithFields(logrus.Fields{
					"run_id":       run.ID,
					"product_id":   remoteProductID,
					"variation_id": rv.ID,
					"error":        err.Error(),
				}).Warn("Variation import failed")
				logEvent(ctx, i.runs, run.ID, models.LogLevelWarn, "variation import failed", models.JSONB{
					"remoteProductId":   remoteProductID,
					"remoteVariationId": rv.ID,
					"error":             err.Error(),
				})
				continue
			}
			run.VariationsSynced++
			agg.Imported++

			if v.OnSale && v.SalePrice != nil {
				if !agg.OnSale || *v.SalePrice < agg.Price {
					agg.OnSale = true
					agg.Price = *v.SalePrice
					agg.SalePrice = v.SalePrice
					agg.RegularPrice = v.RegularPrice
				}
			}
		}

		if len(variations) < i.pageSize {
			break
		}
	}

	return agg, nil
}

func (i *VariationImporter) importOne(ctx context.Context, rv clients.RemoteVariation, run *models.SyncRun, productID uuid.UUID, remoteProductID int64, settings ImportSettings, position int) (*models.ProductVariation, error) {
	p := buildPricing(rv.Price, rv.RegularPrice, rv.SalePrice, settings.Rate)

	var imageURL *string
	if settings.SyncImages && rv.Image != nil && rv.Image.Src != "" {
		filename := fmt.Sprintf("variation-%d-%d.jpg", remoteProductID, rv.ID)
		media, err := i.media.StoreRemoteImage(ctx, rv.Image.Src, filename, settings.Storage)
		if err != nil {
			run.ImagesFailed++
			logEvent(ctx, i.runs, run.ID, models.LogLevelWarn, "variation image failed", models.JSONB{
				"remoteVariationId": rv.ID,
				"src":               rv.Image.Src,
				"error":             err.Error(),
			})
		} else {
			run.ImagesUploaded++
			imageURL = &media.URL
		}
	}

	attrs := make(models.JSONArray, 0, len(rv.Attributes))
	for _, a := range rv.Attributes {
		attrs = append(attrs, map[string]interface{}{
			"name":   a.Name,
			"option": a.Option,
		})
	}

	variation := &models.ProductVariation{
		ProductID:         productID,
		RemoteVariationID: rv.ID,
		Price:             p.Price,
		RegularPrice:      p.RegularPrice,
		SalePrice:         p.SalePrice,
		OnSale:            rv.OnSale,
		StockQuantity:     rv.StockQuantity,
		ManageStock:       rv.ManageStock,
		Weight:            parseMeasure(rv.Weight),
		Length:            parseMeasure(rv.Dimensions.Length),
		Width:             parseMeasure(rv.Dimensions.Width),
		Height:            parseMeasure(rv.Dimensions.Height),
		ImageURL:          imageURL,
		Attributes:        attrs,
		Position:          position,
	}
	if rv.SKU != "" {
		sku := rv.SKU
		variation.SKU = &sku
	}
	if rv.StockStatus != "" {
		variation.StockStatus = rv.StockStatus
	}

	if err := i.catalog.CreateProductVariation(ctx, variation); err != nil {
		return nil, fmt.Errorf("creating variation %d: %w", rv.ID, err)
	}
	return variation, nil
}
