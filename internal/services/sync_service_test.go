package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-sync-service/internal/clients"
	"catalog-sync-service/internal/models"
)

type syncFixture struct {
	service *SyncService
	catalog *fakeCatalogStore
	runs    *fakeRunStore
	sites   *fakeSiteStore
	client  *fakeClient
	siteID  uuid.UUID
}

func newSyncFixture(t *testing.T, client *fakeClient) *syncFixture {
	t.Helper()

	site := &models.Site{
		ID:          uuid.New(),
		Name:        "Test Store",
		URL:         "https://store.example.com",
		ConsumerKey: "ck", ConsumerSecret: "cs",
		Status: models.SiteConnected,
	}

	catalog := newFakeCatalogStore()
	runs := newFakeRunStore()
	sites := newFakeSiteStore(site)
	media := newTestMediaService(t, &fakeMediaStore{})
	converter := NewConverter(&fakeCurrencyStore{rates: map[string]float64{"USD": 1320.5, "KRW": 1}})

	variationImporter := NewVariationImporter(catalog, runs, media, 100, testLogger())
	productImporter := NewProductImporter(catalog, runs, media, variationImporter, testLogger())
	categoryImporter := NewCategoryImporter(catalog, runs, media, 100, testLogger())

	factory := func(ctx context.Context, s *models.Site) (clients.CatalogClient, error) {
		return client, nil
	}

	service := NewSyncService(sites, runs, categoryImporter, productImporter, converter, NewSiteLocker(), factory, 100, testLogger())

	return &syncFixture{
		service: service,
		catalog: catalog,
		runs:    runs,
		sites:   sites,
		client:  client,
		siteID:  site.ID,
	}
}

func TestRunSyncPaginationStopsOnShortPage(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{productPages: [][]clients.RemoteProduct{
		makePage(1, 100),
		makePage(101, 100),
		makePage(201, 37),
	}})

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})

	require.NoError(t, err)
	assert.Equal(t, 3, fx.client.productFetches)
	assert.Equal(t, 237, run.ProductsSynced)
	assert.Equal(t, models.SyncStatusCompleted, run.Status)
}

func TestRunSyncPaginationStopsOnEmptyPage(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{productPages: [][]clients.RemoteProduct{
		makePage(1, 100),
		{},
	}})

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})

	require.NoError(t, err)
	assert.Equal(t, 2, fx.client.productFetches)
	assert.Equal(t, 100, run.ProductsSynced)
}

func TestRunSyncSecondRunSkipsExistingProducts(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{productPages: [][]clients.RemoteProduct{
		makePage(1, 5),
	}})

	first, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 5, first.ProductsSynced)

	second, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, second.ProductsSynced)
	assert.Equal(t, 5, second.ProductsSkipped)
	assert.Len(t, fx.catalog.products, 5)
}

func TestRunSyncPageFetchFailureFailsRun(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{
		productPageErr: &clients.PageFetchError{StatusCode: 503, URL: "/products"},
	})

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})

	require.Error(t, err)
	require.NotNil(t, run)
	assert.Equal(t, models.SyncStatusFailed, run.Status)
	assert.Contains(t, run.ErrorMessage, "remote catalog request failed")
	require.NotNil(t, run.CompletedAt)
}

func TestRunSyncItemFailureDoesNotFailRun(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{productPages: [][]clients.RemoteProduct{
		makePage(1, 3),
	}})
	fx.catalog.failCreateProduct = func(p *models.Product) error {
		if p.Slug == "product-2" {
			return fmt.Errorf("storage unavailable")
		}
		return nil
	}

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})

	require.NoError(t, err)
	assert.Equal(t, models.SyncStatusCompleted, run.Status)
	assert.Equal(t, 2, run.ProductsSynced)
	assert.Equal(t, 1, run.ProductsFailed)
}

func TestRunSyncAlwaysReachesTerminalState(t *testing.T) {
	cases := []struct {
		name   string
		client *fakeClient
	}{
		{"success", &fakeClient{productPages: [][]clients.RemoteProduct{makePage(1, 2)}}},
		{"page fetch error", &fakeClient{productPageErr: fmt.Errorf("connection refused")}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fx := newSyncFixture(t, tc.client)
			run, _ := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})
			require.NotNil(t, run)
			assert.NotEqual(t, models.SyncStatusRunning, run.Status)
			assert.NotNil(t, run.CompletedAt)
		})
	}
}

func TestRunSyncWithCategories(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{
		categoryPages: [][]clients.RemoteCategory{{
			{ID: 1, Name: "Desks", Slug: "desks"},
		}},
		productPages: [][]clients.RemoteProduct{makePage(1, 2)},
	})

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{SyncCategories: true})

	require.NoError(t, err)
	assert.Equal(t, 1, run.CategoriesSynced)
	assert.Equal(t, 2, run.ProductsSynced)
	assert.Equal(t, models.SyncTypeFull, run.Type)
}

func TestRunSyncSelectiveScope(t *testing.T) {
	products := makePage(1, 3)
	fx := newSyncFixture(t, &fakeClient{
		productsByID: map[int64]*clients.RemoteProduct{
			1: &products[0],
			3: &products[2],
		},
	})

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{ProductIDs: []int64{1, 3}})

	require.NoError(t, err)
	assert.Equal(t, models.SyncTypeSelective, run.Type)
	assert.Equal(t, 2, run.ProductsSynced)
	assert.Equal(t, 0, fx.client.productFetches)
}

func TestRunSyncSelectiveMissingProductFailsRun(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{productsByID: map[int64]*clients.RemoteProduct{}})

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{ProductIDs: []int64{99}})

	require.Error(t, err)
	assert.Equal(t, models.SyncStatusFailed, run.Status)
}

func TestRunSyncConvertsWithStoredRates(t *testing.T) {
	page := makePage(1, 1)
	page[0].Price = "19990"
	fx := newSyncFixture(t, &fakeClient{productPages: [][]clients.RemoteProduct{page}})

	_, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{
		ConvertPrices:  true,
		SourceCurrency: "USD",
		TargetCurrency: "KRW",
	})

	require.NoError(t, err)
	product := fx.catalog.products["product-1"]
	require.NotNil(t, product)
	assert.Equal(t, float64(26396795), product.Price)
}

func TestRunSyncUpdatesSiteCounters(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{
		categoryPages: [][]clients.RemoteCategory{{{ID: 1, Name: "Desks", Slug: "desks"}}},
		productPages:  [][]clients.RemoteProduct{makePage(1, 4)},
	})

	_, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{SyncCategories: true})
	require.NoError(t, err)

	site := fx.sites.sites[fx.siteID]
	assert.Equal(t, 4, site.ProductCount)
	assert.Equal(t, 1, site.CategoryCount)
	assert.NotNil(t, site.LastSyncAt)
}

func TestRunSyncRejectsConcurrentRunForSameSite(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{})

	release, ok := fx.service.locker.TryAcquire(fx.siteID)
	require.True(t, ok)
	defer release()

	_, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})
	assert.ErrorIs(t, err, ErrSyncInProgress)
}

func TestRunSyncUnknownSite(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{})

	_, err := fx.service.RunSync(context.Background(), uuid.New(), SyncOptions{})
	assert.Error(t, err)
}

func TestRunSyncHeartbeatsPerPage(t *testing.T) {
	fx := newSyncFixture(t, &fakeClient{productPages: [][]clients.RemoteProduct{
		makePage(1, 100),
		makePage(101, 10),
	}})

	run, err := fx.service.RunSync(context.Background(), fx.siteID, SyncOptions{})

	require.NoError(t, err)
	require.NotNil(t, run.HeartbeatAt)
	assert.False(t, run.HeartbeatAt.Before(run.StartedAt))
}
