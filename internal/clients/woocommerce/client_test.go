package woocommerce

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"catalog-sync-service/internal/clients"
)

func TestHTTPSUsesQueryParamAuth(t *testing.T) {
	var gotQuery map[string][]string
	var gotAuth string
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ck_test", "cs_test")
	c.httpClient = srv.Client()

	_, err := c.GetCategories(context.Background(), 1, 100)
	require.NoError(t, err)

	assert.Equal(t, "ck_test", gotQuery["consumer_key"][0])
	assert.Equal(t, "cs_test", gotQuery["consumer_secret"][0])
	assert.Empty(t, gotAuth)
}

func TestHTTPUsesBasicAuth(t *testing.T) {
	var gotUser, gotPass string
	var hasBasic bool
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotPass, hasBasic = r.BasicAuth()
		gotQuery = r.URL.Query()
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ck_test", "cs_test")

	_, err := c.GetCategories(context.Background(), 1, 100)
	require.NoError(t, err)

	require.True(t, hasBasic)
	assert.Equal(t, "ck_test", gotUser)
	assert.Equal(t, "cs_test", gotPass)
	assert.NotContains(t, gotQuery, "consumer_key")
}

func TestPaginationParams(t *testing.T) {
	var gotQuery map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte("[]"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ck", "cs")

	_, err := c.GetProducts(context.Background(), &clients.ProductListOptions{
		Page: 3, PerPage: 100, Status: "publish", CategoryID: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, "3", gotQuery["page"][0])
	assert.Equal(t, "100", gotQuery["per_page"][0])
	assert.Equal(t, "publish", gotQuery["status"][0])
	assert.Equal(t, "7", gotQuery["category"][0])
}

func TestRequestPathIncludesAPIRoot(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"id": 5, "name": "P", "slug": "p", "price": "100", "status": "publish", "type": "simple", "on_sale": false, "manage_stock": false, "featured": false}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "ck", "cs")

	product, err := c.GetProduct(context.Background(), 5)
	require.NoError(t, err)

	assert.Equal(t, "/wp-json/wc/v3/products/5", gotPath)
	assert.Equal(t, int64(5), product.ID)
	assert.Equal(t, "100", product.Price)
}

func TestNon2xxIsPageFetchError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"code":"rest_forbidden"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ck", "cs")

	_, err := c.GetProducts(context.Background(), &clients.ProductListOptions{Page: 1, PerPage: 100})
	require.Error(t, err)

	var fetchErr *clients.PageFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusUnauthorized, fetchErr.StatusCode)
	// credentials never leak into the reported URL
	assert.NotContains(t, fetchErr.URL, "consumer_key")
}

func TestVariationsEndpoint(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`[{"id": 201, "price": "7000", "regular_price": "9000", "sale_price": "7000", "on_sale": true, "manage_stock": false, "attributes": [{"id": 1, "name": "Size", "option": "L"}]}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "ck", "cs")

	variations, err := c.GetVariations(context.Background(), 20, 1, 100)
	require.NoError(t, err)

	assert.Equal(t, "/wp-json/wc/v3/products/20/variations", gotPath)
	require.Len(t, variations, 1)
	assert.Equal(t, int64(201), variations[0].ID)
	assert.True(t, variations[0].OnSale)
	require.Len(t, variations[0].Attributes, 1)
	assert.Equal(t, "L", variations[0].Attributes[0].Option)
}
