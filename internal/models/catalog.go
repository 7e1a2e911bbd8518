package models

import (
	"time"

	"github.com/google/uuid"
)

// ProductStatus represents the publication status of a product
type ProductStatus string

const (
	ProductStatusPublish ProductStatus = "PUBLISH"
	ProductStatusDraft   ProductStatus = "DRAFT"
)

// ProductType represents the purchasable shape of a product
type ProductType string

const (
	ProductTypeSimple   ProductType = "SIMPLE"
	ProductTypeVariable ProductType = "VARIABLE"
)

// Category represents a product category. Slug is the natural key during
// import: re-importing a category updates the existing row.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Slug        string    `gorm:"type:varchar(255);not null;uniqueIndex:idx_categories_slug" json:"slug"`
	Description *string   `gorm:"type:text" json:"description,omitempty"`
	ImageURL    *string   `gorm:"type:varchar(500)" json:"imageUrl,omitempty"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`
}

// TableName specifies the table name for Category
func (Category) TableName() string {
	return "categories"
}

// Product represents an imported product. Slug is the creation key: a
// product whose slug already exists locally is skipped, never refreshed.
type Product struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Name             string    `gorm:"type:varchar(500);not null" json:"name"`
	Slug             string    `gorm:"type:varchar(500);not null;uniqueIndex:idx_products_slug" json:"slug"`
	Description      *string   `gorm:"type:text" json:"description,omitempty"`
	ShortDescription *string   `gorm:"type:text" json:"shortDescription,omitempty"`
	SKU              *string   `gorm:"type:varchar(255)" json:"sku,omitempty"`

	// Pricing. RegularPrice is stored only when it exceeds Price.
	Price        float64  `gorm:"not null" json:"price"`
	RegularPrice *float64 `json:"regularPrice,omitempty"`
	SalePrice    *float64 `json:"salePrice,omitempty"`
	OnSale       bool     `gorm:"default:false" json:"onSale"`

	// Inventory
	StockQuantity *int   `json:"stockQuantity,omitempty"`
	StockStatus   string `gorm:"type:varchar(50);default:'instock'" json:"stockStatus"`
	ManageStock   bool   `gorm:"default:false" json:"manageStock"`

	Weight *float64 `json:"weight,omitempty"`

	Status      ProductStatus `gorm:"type:varchar(50);not null;default:'DRAFT';index:idx_products_status" json:"status"`
	Featured    bool          `gorm:"default:false" json:"featured"`
	ProductType ProductType   `gorm:"type:varchar(50);not null;default:'SIMPLE'" json:"productType"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
	UpdatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updatedAt"`

	// Relationships
	Images     []ProductImage     `gorm:"foreignKey:ProductID" json:"images,omitempty"`
	Attributes []ProductAttribute `gorm:"foreignKey:ProductID" json:"attributes,omitempty"`
	Variations []ProductVariation `gorm:"foreignKey:ProductID" json:"variations,omitempty"`
	Categories []ProductCategory  `gorm:"foreignKey:ProductID" json:"categories,omitempty"`
}

// TableName specifies the table name for Product
func (Product) TableName() string {
	return "products"
}

// ProductImage is an ordered child image of a product
type ProductImage struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_product_images_product" json:"productId"`
	Src       string    `gorm:"type:varchar(500);not null" json:"src"`
	Alt       *string   `gorm:"type:varchar(500)" json:"alt,omitempty"`
	Position  int       `gorm:"default:0" json:"position"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName specifies the table name for ProductImage
func (ProductImage) TableName() string {
	return "product_images"
}

// ProductAttribute is a named attribute of a product; Value is the
// comma-joined remote option list.
type ProductAttribute struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index:idx_product_attributes_product" json:"productId"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Value     string    `gorm:"type:text;not null" json:"value"`
	Position  int       `gorm:"default:0" json:"position"`
	Visible   bool      `gorm:"default:true" json:"visible"`
	Variation bool      `gorm:"default:false" json:"variation"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName specifies the table name for ProductAttribute
func (ProductAttribute) TableName() string {
	return "product_attributes"
}

// ProductVariation is a purchasable child of a variable product
type ProductVariation struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProductID         uuid.UUID `gorm:"type:uuid;not null;index:idx_product_variations_product" json:"productId"`
	RemoteVariationID int64     `gorm:"not null" json:"remoteVariationId"`

	SKU *string `gorm:"type:varchar(255)" json:"sku,omitempty"`

	Price        float64  `gorm:"not null" json:"price"`
	RegularPrice *float64 `json:"regularPrice,omitempty"`
	SalePrice    *float64 `json:"salePrice,omitempty"`
	OnSale       bool     `gorm:"default:false" json:"onSale"`

	StockQuantity *int   `json:"stockQuantity,omitempty"`
	StockStatus   string `gorm:"type:varchar(50);default:'instock'" json:"stockStatus"`
	ManageStock   bool   `gorm:"default:false" json:"manageStock"`

	Weight *float64 `json:"weight,omitempty"`
	Length *float64 `json:"length,omitempty"`
	Width  *float64 `json:"width,omitempty"`
	Height *float64 `json:"height,omitempty"`

	ImageURL *string `gorm:"type:varchar(500)" json:"imageUrl,omitempty"`

	// The remote attribute list, serialized as received for later lookup.
	Attributes JSONArray `gorm:"type:jsonb" json:"attributes,omitempty"`

	Position int `gorm:"default:0" json:"position"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName specifies the table name for ProductVariation
func (ProductVariation) TableName() string {
	return "product_variations"
}

// ProductCategory is the product/category join row. Linking is best-effort:
// duplicate or failed creates are swallowed by the importer.
type ProductCategory struct {
	ProductID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"productId"`
	CategoryID uuid.UUID `gorm:"type:uuid;primaryKey" json:"categoryId"`

	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName specifies the table name for ProductCategory
func (ProductCategory) TableName() string {
	return "product_categories"
}
