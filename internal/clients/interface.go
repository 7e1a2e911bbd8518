package clients

import (
	"context"
	"fmt"
)

// CatalogClient defines the read surface of the remote storefront API
// consumed by the sync engine. All list calls are page-number paginated
// with a per_page cap of 100.
type CatalogClient interface {
	// Ping verifies the connection with a minimal product page fetch.
	Ping(ctx context.Context) error

	// GetCategories fetches one page of product categories.
	GetCategories(ctx context.Context, page, perPage int) ([]RemoteCategory, error)

	// GetProducts fetches one page of products.
	GetProducts(ctx context.Context, opts *ProductListOptions) ([]RemoteProduct, error)

	// GetProduct fetches a single product by its remote ID.
	GetProduct(ctx context.Context, productID int64) (*RemoteProduct, error)

	// GetVariations fetches one page of a variable product's variations.
	GetVariations(ctx context.Context, productID int64, page, perPage int) ([]RemoteVariation, error)
}

// ProductListOptions contains product pagination and filter options
type ProductListOptions struct {
	Page       int
	PerPage    int
	Status     string // remote publication status filter, e.g. "publish"
	CategoryID int64  // restrict to one remote category when non-zero
}

// RemoteCategory represents a category from the remote storefront
type RemoteCategory struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Slug        string       `json:"slug"`
	Description string       `json:"description,omitempty"`
	Image       *RemoteImage `json:"image,omitempty"`
	Count       int          `json:"count,omitempty"`
}

// RemoteImage represents an image reference from the remote storefront
type RemoteImage struct {
	ID  int64  `json:"id"`
	Src string `json:"src"`
	Alt string `json:"alt,omitempty"`
}

// RemoteAttribute represents a product attribute from the remote storefront
type RemoteAttribute struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Position  int      `json:"position"`
	Visible   bool     `json:"visible"`
	Variation bool     `json:"variation"`
	Options   []string `json:"options"`
}

// RemoteCategoryRef is a product's reference to one of its categories
type RemoteCategoryRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// RemoteProduct represents a product from the remote storefront.
// Monetary fields arrive as strings on the wire and are parsed by the
// importers.
type RemoteProduct struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	Slug             string `json:"slug"`
	Description      string `json:"description,omitempty"`
	ShortDescription string `json:"short_description,omitempty"`
	SKU              string `json:"sku,omitempty"`

	Price        string `json:"price"`
	RegularPrice string `json:"regular_price,omitempty"`
	SalePrice    string `json:"sale_price,omitempty"`
	OnSale       bool   `json:"on_sale"`

	Status   string `json:"status"`
	Featured bool   `json:"featured"`
	Type     string `json:"type"` // simple, variable, ...

	StockQuantity *int   `json:"stock_quantity,omitempty"`
	StockStatus   string `json:"stock_status,omitempty"`
	ManageStock   bool   `json:"manage_stock"`
	Weight        string `json:"weight,omitempty"`

	Images     []RemoteImage       `json:"images,omitempty"`
	Attributes []RemoteAttribute   `json:"attributes,omitempty"`
	Categories []RemoteCategoryRef `json:"categories,omitempty"`
	Variations []int64             `json:"variations,omitempty"`
}

// RemoteDimensions represents a variation's shipping dimensions
type RemoteDimensions struct {
	Length string `json:"length,omitempty"`
	Width  string `json:"width,omitempty"`
	Height string `json:"height,omitempty"`
}

// RemoteVariationAttribute is one attribute/option pair selecting a variation
type RemoteVariationAttribute struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Option string `json:"option"`
}

// RemoteVariation represents a variation of a variable product
type RemoteVariation struct {
	ID  int64  `json:"id"`
	SKU string `json:"sku,omitempty"`

	Price        string `json:"price"`
	RegularPrice string `json:"regular_price,omitempty"`
	SalePrice    string `json:"sale_price,omitempty"`
	OnSale       bool   `json:"on_sale"`

	StockQuantity *int   `json:"stock_quantity,omitempty"`
	StockStatus   string `json:"stock_status,omitempty"`
	ManageStock   bool   `json:"manage_stock"`

	Weight     string                     `json:"weight,omitempty"`
	Dimensions RemoteDimensions           `json:"dimensions,omitempty"`
	Image      *RemoteImage               `json:"image,omitempty"`
	Attributes []RemoteVariationAttribute `json:"attributes,omitempty"`
}

// PageFetchError is returned when a page fetch receives a non-2xx response.
// It is a hard failure of that fetch, unlike per-item import errors.
type PageFetchError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *PageFetchError) Error() string {
	return fmt.Sprintf("remote catalog request failed with status %d: %s", e.StatusCode, e.URL)
}
