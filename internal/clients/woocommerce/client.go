package woocommerce

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"catalog-sync-service/internal/clients"
	"golang.org/x/time/rate"
)

const apiRoot = "/wp-json/wc/v3"

// Client implements clients.CatalogClient against a WooCommerce REST API.
//
// Authentication follows the platform's rules: HTTPS endpoints take
// consumer_key/consumer_secret as query parameters, plain HTTP endpoints
// take the same credentials as a Basic-Auth header.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	consumerKey    string
	consumerSecret string
	useBasicAuth   bool
	rateLimiter    *rate.Limiter
	retrier        *clients.Retrier
}

// NewClient creates a new WooCommerce client for the given store
func NewClient(siteURL, consumerKey, consumerSecret string) *Client {
	trimmed := strings.TrimSuffix(siteURL, "/")
	return &Client{
		httpClient:     &http.Client{Timeout: 30 * time.Second},
		baseURL:        trimmed + apiRoot,
		consumerKey:    consumerKey,
		consumerSecret: consumerSecret,
		useBasicAuth:   strings.HasPrefix(strings.ToLower(trimmed), "http://"),
		rateLimiter:    rate.NewLimiter(rate.Limit(2), 1), // 2 requests per second
		retrier:        clients.NewRetrier(clients.DefaultRetryConfig()),
	}
}

// Ping verifies the connection with a minimal product page fetch
func (c *Client) Ping(ctx context.Context) error {
	params := url.Values{}
	params.Set("per_page", "1")
	_, err := c.doRequest(ctx, "/products", params)
	return err
}

// GetCategories fetches one page of product categories
func (c *Client) GetCategories(ctx context.Context, page, perPage int) ([]clients.RemoteCategory, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	body, err := c.doRequest(ctx, "/products/categories", params)
	if err != nil {
		return nil, err
	}

	var categories []clients.RemoteCategory
	if err := json.Unmarshal(body, &categories); err != nil {
		return nil, fmt.Errorf("failed to parse categories response: %w", err)
	}
	return categories, nil
}

// GetProducts fetches one page of products
func (c *Client) GetProducts(ctx context.Context, opts *clients.ProductListOptions) ([]clients.RemoteProduct, error) {
	params := url.Values{}
	if opts.Page > 0 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PerPage > 0 {
		params.Set("per_page", strconv.Itoa(opts.PerPage))
	} else {
		params.Set("per_page", "100")
	}
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.CategoryID != 0 {
		params.Set("category", strconv.FormatInt(opts.CategoryID, 10))
	}

	body, err := c.doRequest(ctx, "/products", params)
	if err != nil {
		return nil, err
	}

	var products []clients.RemoteProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("failed to parse products response: %w", err)
	}
	return products, nil
}

// GetProduct fetches a single product by its remote ID
func (c *Client) GetProduct(ctx context.Context, productID int64) (*clients.RemoteProduct, error) {
	body, err := c.doRequest(ctx, fmt.Sprintf("/products/%d", productID), nil)
	if err != nil {
		return nil, err
	}

	var product clients.RemoteProduct
	if err := json.Unmarshal(body, &product); err != nil {
		return nil, fmt.Errorf("failed to parse product response: %w", err)
	}
	return &product, nil
}

// GetVariations fetches one page of a variable product's variations
func (c *Client) GetVariations(ctx context.Context, productID int64, page, perPage int) ([]clients.RemoteVariation, error) {
	params := url.Values{}
	params.Set("page", strconv.Itoa(page))
	params.Set("per_page", strconv.Itoa(perPage))

	body, err := c.doRequest(ctx, fmt.Sprintf("/products/%d/variations", productID), params)
	if err != nil {
		return nil, err
	}

	var variations []clients.RemoteVariation
	if err := json.Unmarshal(body, &variations); err != nil {
		return nil, fmt.Errorf("failed to parse variations response: %w", err)
	}
	return variations, nil
}

// doRequest performs an authenticated GET and returns the response body.
// A non-2xx status after retries is a hard failure of the fetch.
func (c *Client) doRequest(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, err
	}

	if params == nil {
		params = url.Values{}
	}
	if !c.useBasicAuth {
		params.Set("consumer_key", c.consumerKey)
		params.Set("consumer_secret", c.consumerSecret)
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	resp, err := c.retrier.DoHTTP(ctx, "GET "+path, func(ctx context.Context) (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if c.useBasicAuth {
			req.SetBasicAuth(c.consumerKey, c.consumerSecret)
		}
		return c.httpClient.Do(req)
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &clients.PageFetchError{
			StatusCode: resp.StatusCode,
			URL:        c.baseURL + path,
			Body:       string(body),
		}
	}

	return body, nil
}
