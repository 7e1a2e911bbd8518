package services

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-sync-service/internal/clients"
)

func newTestCategoryImporter(t *testing.T, catalog *fakeCatalogStore, runs *fakeRunStore, pageSize int) *CategoryImporter {
	t.Helper()
	media := newTestMediaService(t, &fakeMediaStore{})
	return NewCategoryImporter(catalog, runs, media, pageSize, testLogger())
}

func TestImportCategoriesUpsertsBySlug(t *testing.T) {
	catalog := newFakeCatalogStore()
	runs := newFakeRunStore()
	importer := newTestCategoryImporter(t, catalog, runs, 100)

	client := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Desks", Slug: "desks"},
		{ID: 2, Name: "Chairs", Slug: "chairs"},
	}}}

	run := newRun()
	err := importer.Import(context.Background(), client, run, ImportSettings{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, run.CategoriesSynced)
	assert.Len(t, catalog.categories, 2)
}

func TestReimportCategoryUpdatesExistingRow(t *testing.T) {
	catalog := newFakeCatalogStore()
	runs := newFakeRunStore()
	importer := newTestCategoryImporter(t, catalog, runs, 100)

	client := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Desks", Slug: "desks"},
	}}}
	run := newRun()
	require.NoError(t, importer.Import(context.Background(), client, run, ImportSettings{}, nil))
	originalID := catalog.categories["desks"].ID

	renamed := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Standing Desks", Slug: "desks"},
	}}}
	second := newRun()
	require.NoError(t, importer.Import(context.Background(), renamed, second, ImportSettings{}, nil))

	assert.Len(t, catalog.categories, 1)
	assert.Equal(t, originalID, catalog.categories["desks"].ID)
	assert.Equal(t, "Standing Desks", catalog.categories["desks"].Name)
}

func TestImportCategoriesCountsItemFailures(t *testing.T) {
	catalog := newFakeCatalogStore()
	catalog.failUpsert = func(slug string) error {
		if slug == "chairs" {
			return fmt.Errorf("storage unavailable")
		}
		return nil
	}
	runs := newFakeRunStore()
	importer := newTestCategoryImporter(t, catalog, runs, 100)

	client := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Desks", Slug: "desks"},
		{ID: 2, Name: "Chairs", Slug: "chairs"},
		{ID: 3, Name: "Lamps", Slug: "lamps"},
	}}}

	run := newRun()
	err := importer.Import(context.Background(), client, run, ImportSettings{}, nil)

	require.NoError(t, err)
	assert.Equal(t, 2, run.CategoriesSynced)
	assert.Equal(t, 1, run.CategoriesFailed)
	require.Len(t, runs.logs, 1)
	assert.Equal(t, "category import failed", runs.logs[0].Message)
}

func TestImportCategoriesPaginates(t *testing.T) {
	catalog := newFakeCatalogStore()
	runs := newFakeRunStore()
	importer := newTestCategoryImporter(t, catalog, runs, 2)

	client := &fakeClient{categoryPages: [][]clients.RemoteCategory{
		{{ID: 1, Name: "A", Slug: "a"}, {ID: 2, Name: "B", Slug: "b"}},
		{{ID: 3, Name: "C", Slug: "c"}},
	}}

	run := newRun()
	require.NoError(t, importer.Import(context.Background(), client, run, ImportSettings{}, nil))

	// the short second page terminates the loop without a third fetch
	assert.Equal(t, 2, client.categoryFetches)
	assert.Equal(t, 3, run.CategoriesSynced)
}

func TestImportCategoryStoresImage(t *testing.T) {
	srv := servePNG(t)
	defer srv.Close()

	catalog := newFakeCatalogStore()
	runs := newFakeRunStore()
	importer := newTestCategoryImporter(t, catalog, runs, 100)

	client := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Desks", Slug: "desks", Image: &clients.RemoteImage{Src: srv.URL + "/desks.png"}},
	}}}

	run := newRun()
	require.NoError(t, importer.Import(context.Background(), client, run, ImportSettings{SyncImages: true}, nil))

	assert.Equal(t, 1, run.CategoriesSynced)
	assert.Equal(t, 1, run.ImagesUploaded)
	c := catalog.categories["desks"]
	require.NotNil(t, c)
	require.NotNil(t, c.ImageURL)
	assert.Equal(t, "/media/catalog/category-desks.jpg", *c.ImageURL)
}

func TestImportCategoryImageFailureStillUpserts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	catalog := newFakeCatalogStore()
	runs := newFakeRunStore()
	importer := newTestCategoryImporter(t, catalog, runs, 100)

	client := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Chairs", Slug: "chairs", Image: &clients.RemoteImage{Src: srv.URL + "/chairs.png"}},
	}}}

	run := newRun()
	require.NoError(t, importer.Import(context.Background(), client, run, ImportSettings{SyncImages: true}, nil))

	// the category lands without an image and the failure is counted
	assert.Equal(t, 1, run.CategoriesSynced)
	assert.Equal(t, 0, run.CategoriesFailed)
	assert.Equal(t, 1, run.ImagesFailed)
	c := catalog.categories["chairs"]
	require.NotNil(t, c)
	assert.Nil(t, c.ImageURL)
	require.Len(t, runs.logs, 1)
	assert.Equal(t, "category image failed", runs.logs[0].Message)
}

func TestReimportCategoryClearsRemovedDescription(t *testing.T) {
	catalog := newFakeCatalogStore()
	runs := newFakeRunStore()
	importer := newTestCategoryImporter(t, catalog, runs, 100)

	withDescription := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Desks", Slug: "desks", Description: "Work surfaces"},
	}}}
	require.NoError(t, importer.Import(context.Background(), withDescription, newRun(), ImportSettings{}, nil))
	require.NotNil(t, catalog.categories["desks"].Description)

	cleared := &fakeClient{categoryPages: [][]clients.RemoteCategory{{
		{ID: 1, Name: "Desks", Slug: "desks"},
	}}}
	require.NoError(t, importer.Import(context.Background(), cleared, newRun(), ImportSettings{}, nil))

	assert.Nil(t, catalog.categories["desks"].Description)
}
