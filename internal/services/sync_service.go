package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"catalog-sync-service/internal/clients"
	"catalog-sync-service/internal/models"
	"catalog-sync-service/internal/storage"
)

// ErrSyncInProgress is returned when a sync is requested for a site that
// already has a run holding the site lock.
var ErrSyncInProgress = errors.New("a sync run is already in progress for this site")

// ClientFactory builds a remote catalog client for a site, resolving
// credentials from wherever the site stores them.
type ClientFactory func(ctx context.Context, site *models.Site) (clients.CatalogClient, error)

// SyncOptions are the caller-supplied parameters of one sync run
type SyncOptions struct {
	// Scope selectors, checked in precedence order: ProductIDs, then
	// CategoryIDs, then full catalog.
	ProductIDs  []int64 `json:"productIds,omitempty"`
	CategoryIDs []int64 `json:"categoryIds,omitempty"`

	SyncImages     bool `json:"syncImages"`
	SyncCategories bool `json:"syncCategories"`

	StoragePreference storage.Preference `json:"storagePreference,omitempty"`

	// Currency conversion. When ConvertPrices is set and ExchangeRate is
	// zero, the rate is resolved from the stored currency table.
	ConvertPrices  bool    `json:"convertPrices"`
	SourceCurrency string  `json:"sourceCurrency,omitempty"`
	TargetCurrency string  `json:"targetCurrency,omitempty"`
	ExchangeRate   float64 `json:"exchangeRate,omitempty"`
}

// SyncService orchestrates catalog sync runs. Each run is sequential:
// one page at a time, one product at a time, one image at a time.
type SyncService struct {
	sites      SiteStore
	runs       RunStore
	categories *CategoryImporter
	products   *ProductImporter
	converter  *Converter
	locker     *SiteLocker
	newClient  ClientFactory
	pageSize   int
	logger     *logrus.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(sites SiteStore, runs RunStore, categories *CategoryImporter, products *ProductImporter, converter *Converter, locker *SiteLocker, newClient ClientFactory, pageSize int, logger *logrus.Logger) *SyncService {
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 100
	}
	return &SyncService{
		sites:      sites,
		runs:       runs,
		categories: categories,
		products:   products,
		converter:  converter,
		locker:     locker,
		newClient:  newClient,
		pageSize:   pageSize,
		logger:     logger,
	}
}

// RunSync executes one sync run for a site and blocks until the run
// reaches a terminal state. The returned run carries the final counters;
// err is non-nil exactly when the run finished FAILED.
func (s *SyncService) RunSync(ctx context.Context, siteID uuid.UUID, opts SyncOptions) (*models.SyncRun, error) {
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return nil, err
	}

	release, ok := s.locker.TryAcquire(siteID)
	if !ok {
		return nil, ErrSyncInProgress
	}
	defer release()

	run := &models.SyncRun{
		SiteID:    siteID,
		Type:      resolveSyncType(opts),
		Status:    models.SyncStatusRunning,
		StartedAt: time.Now(),
	}
	if err := s.runs.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("creating sync run: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":  run.ID,
		"site_id": siteID,
		"type":    run.Type,
	}).Info("Sync run started")

	runErr := s.execute(ctx, site, run, opts)

	if runErr != nil {
		if finishErr := s.runs.FinishRun(ctx, run, models.SyncStatusFailed, runErr.Error()); finishErr != nil {
			s.logger.WithError(finishErr).WithField("run_id", run.ID).Error("Failed to record run failure")
		}
		logEvent(ctx, s.runs, run.ID, models.LogLevelError, "sync run failed", models.JSONB{
			"error": runErr.Error(),
		})
		s.logger.WithFields(logrus.Fields{
			"run_id": run.ID,
			"error":  runErr.Error(),
		}).Error("Sync run failed")
		return run, runErr
	}

	if err := s.runs.FinishRun(ctx, run, models.SyncStatusCompleted, ""); err != nil {
		return run, fmt.Errorf("recording run completion: %w", err)
	}
	if err := s.sites.RecordSyncCompleted(ctx, siteID, run.ProductsSynced, run.CategoriesSynced, time.Now()); err != nil {
		s.logger.WithError(err).WithField("site_id", siteID).Warn("Failed to update site sync counters")
	}

	s.logger.WithFields(logrus.Fields{
		"run_id":     run.ID,
		"categories": run.CategoriesSynced,
		"products":   run.ProductsSynced,
		"skipped":    run.ProductsSkipped,
		"variations": run.VariationsSynced,
		"images":     run.ImagesUploaded,
	}).Info("Sync run completed")
	return run, nil
}

// execute performs the run body. A panic anywhere inside is converted to
// an orchestration-level error so the run still reaches FAILED.
func (s *SyncService) execute(ctx context.Context, site *models.Site, run *models.SyncRun, opts SyncOptions) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sync run panicked: %v", r)
		}
	}()

	client, err := s.newClient(ctx, site)
	if err != nil {
		return fmt.Errorf("building catalog client: %w", err)
	}

	settings := ImportSettings{
		SyncImages: opts.SyncImages,
		Rate:       s.resolveRate(ctx, opts),
		Storage:    opts.StoragePreference,
	}
	if settings.Storage == "" {
		settings.Storage = storage.PreferenceAuto
	}

	checkpoint := s.checkpoint(run)

	if opts.SyncCategories {
		if err := s.categories.Import(ctx, client, run, settings, checkpoint); err != nil {
			return err
		}
	}

	switch {
	case len(opts.ProductIDs) > 0:
		return s.syncSelective(ctx, client, run, opts.ProductIDs, settings, checkpoint)
	case len(opts.CategoryIDs) > 0:
		return s.syncByCategories(ctx, client, run, opts.CategoryIDs, settings, checkpoint)
	default:
		return s.syncFull(ctx, client, run, settings, checkpoint)
	}
}

// syncSelective fetches each requested product individually. A failed
// product fetch is a top-level failure, not a per-item one.
func (s *SyncService) syncSelective(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, productIDs []int64, settings ImportSettings, checkpoint Checkpoint) error {
	for _, id := range productIDs {
		rp, err := client.GetProduct(ctx, id)
		if err != nil {
			return fmt.Errorf("fetching product %d: %w", id, err)
		}
		s.products.ImportOne(ctx, client, run, *rp, settings)
	}
	checkpoint(ctx)
	return nil
}

func (s *SyncService) syncByCategories(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, categoryIDs []int64, settings ImportSettings, checkpoint Checkpoint) error {
	for _, categoryID := range categoryIDs {
		err := s.syncProductPages(ctx, client, run, &clients.ProductListOptions{CategoryID: categoryID}, settings, checkpoint)
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *SyncService) syncFull(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, settings ImportSettings, checkpoint Checkpoint) error {
	return s.syncProductPages(ctx, client, run, &clients.ProductListOptions{Status: "publish"}, settings, checkpoint)
}

// syncProductPages paginates one remote product listing. The loop stops
// on an empty page or a short page; there is no upper page bound.
func (s *SyncService) syncProductPages(ctx context.Context, client clients.CatalogClient, run *models.SyncRun, listOpts *clients.ProductListOptions, settings ImportSettings, checkpoint Checkpoint) error {
	listOpts.PerPage = s.pageSize
	for page := 1; ; page++ {
		listOpts.Page = page
		products, err := client.GetProducts(ctx, listOpts)
		if err != nil {
			return fmt.Errorf("fetching product page %d: %w", page, err)
		}
		if len(products) == 0 {
			break
		}

		for _, rp := range products {
			s.products.ImportOne(ctx, client, run, rp, settings)
		}
		checkpoint(ctx)

		if len(products) < s.pageSize {
			break
		}
	}
	return nil
}

// checkpoint returns the per-page progress hook: it refreshes the
// heartbeat and persists the current counters. A failed checkpoint write
// never aborts the run.
func (s *SyncService) checkpoint(run *models.SyncRun) Checkpoint {
	return func(ctx context.Context) {
		now := time.Now()
		run.HeartbeatAt = &now
		if err := s.runs.UpdateRun(ctx, run); err != nil {
			s.logger.WithError(err).WithField("run_id", run.ID).Warn("Failed to checkpoint sync run")
		}
	}
}

// resolveRate computes the effective conversion rate from the options.
// Zero disables conversion downstream.
func (s *SyncService) resolveRate(ctx context.Context, opts SyncOptions) float64 {
	if !opts.ConvertPrices {
		return 0
	}
	if opts.ExchangeRate > 0 {
		return opts.ExchangeRate
	}
	return s.converter.Rate(ctx, opts.SourceCurrency, opts.TargetCurrency)
}

func resolveSyncType(opts SyncOptions) models.SyncType {
	switch {
	case len(opts.ProductIDs) > 0:
		return models.SyncTypeSelective
	case len(opts.CategoryIDs) > 0:
		return models.SyncTypeCategories
	default:
		return models.SyncTypeFull
	}
}
