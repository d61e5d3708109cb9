package models

import (
	"strings"
	"time"
)

// Category is the shoe category a product is listed under.
type Category string

const (
	CategorySneakers Category = "sneakers"
	CategoryBoots    Category = "boots"
	CategorySandals  Category = "sandals"
	CategoryFormal   Category = "formal"
	CategorySports   Category = "sports"
	CategoryCasual   Category = "casual"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategorySneakers, CategoryBoots, CategorySandals, CategoryFormal, CategorySports, CategoryCasual,
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// NormalizeCategory trims and lower-cases a category coming from a query string.
func NormalizeCategory(s string) Category {
	return Category(strings.ToLower(strings.TrimSpace(s)))
}

// Product represents a product in the store.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)" bson:"_id"`
	Name        string    `json:"name" gorm:"type:varchar(200);not null;index" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Price       float64   `json:"price" gorm:"not null;index" bson:"price"`
	ImageURL    string    `json:"imageUrl" bson:"imageUrl"`
	Category    Category  `json:"category" gorm:"type:varchar(32);index" bson:"category"`
	SizeRange   string    `json:"sizeRange" gorm:"type:varchar(64)" bson:"sizeRange"`
	Featured    bool      `json:"featured" gorm:"index" bson:"featured"`
	InStock     bool      `json:"inStock" bson:"inStock"`
	CreatedAt   time.Time `json:"createdAt" gorm:"index" bson:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt" bson:"updatedAt"`
}

// ProductInput is the body accepted when an admin creates a product.
type ProductInput struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description string   `json:"description" validate:"max=2000"`
	Price       *float64 `json:"price" validate:"required,gte=0"`
	ImageURL    string   `json:"imageUrl" validate:"required,max=1024"`
	Category    string   `json:"category" validate:"required,category"`
	SizeRange   string   `json:"sizeRange" validate:"required,max=64"`
	Featured    bool     `json:"featured"`
	InStock     *bool    `json:"inStock"`
}

// Product builds a new Product from the input. InStock defaults to true.
func (in ProductInput) Product() *Product {
	p := &Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Category:    NormalizeCategory(in.Category),
		SizeRange:   in.SizeRange,
		Featured:    in.Featured,
		InStock:     true,
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.InStock != nil {
		p.InStock = *in.InStock
	}
	return p
}

// ProductPatch is a partial product update; nil fields are left untouched.
type ProductPatch struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=200"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
	ImageURL    *string  `json:"imageUrl" validate:"omitempty,min=1,max=1024"`
	Category    *string  `json:"category" validate:"omitempty,category"`
	SizeRange   *string  `json:"sizeRange" validate:"omitempty,min=1,max=64"`
	Featured    *bool    `json:"featured"`
	InStock     *bool    `json:"inStock"`
}

// Apply merges the set fields of the patch into p.
func (patch ProductPatch) Apply(p *Product) {
	if patch.Name != nil {
		p.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Price != nil {
		p.Price = *patch.Price
	}
	if patch.ImageURL != nil {
		p.ImageURL = *patch.ImageURL
	}
	if patch.Category != nil {
		p.Category = NormalizeCategory(*patch.Category)
	}
	if patch.SizeRange != nil {
		p.SizeRange = *patch.SizeRange
	}
	if patch.Featured != nil {
		p.Featured = *patch.Featured
	}
	if patch.InStock != nil {
		p.InStock = *patch.InStock
	}
}

// ProductSort is the ordering of a catalog listing.
type ProductSort string

const (
	SortNewest    ProductSort = "newest"
	SortPriceAsc  ProductSort = "price_asc"
	SortPriceDesc ProductSort = "price_desc"
	SortNameAsc   ProductSort = "name_asc"
	SortNameDesc  ProductSort = "name_desc"
)

// ParseProductSort maps a query value to a sort key, falling back to SortNewest.
func ParseProductSort(s string) ProductSort {
	switch sort := ProductSort(strings.ToLower(strings.TrimSpace(s))); sort {
	case SortPriceAsc, SortPriceDesc, SortNameAsc, SortNameDesc:
		return sort
	default:
		return SortNewest
	}
}

// ProductListParams carries the raw catalog query. Bounds and flags are kept as
// strings so that malformed values can be dropped rather than rejected.
type ProductListParams struct {
	Category string
	Featured string
	MinPrice string
	MaxPrice string
	Sort     string
	Page     int
	PageSize int
}

// ProductPage is one page of a catalog listing.
type ProductPage struct {
	Products []Product `json:"products"`
	Pagination
}
