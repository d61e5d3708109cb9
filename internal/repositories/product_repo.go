package repositories

import (
	"context"

	"secondarypro/internal/models"
)

// ProductQuery is a normalized catalog query. Nil pointers mean "no condition".
// A zero Limit returns every matching product.
type ProductQuery struct {
	Category models.Category
	Featured *bool
	InStock  *bool
	MinPrice *float64
	MaxPrice *float64
	Sort     models.ProductSort
	Offset   int
	Limit    int
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	// Find returns the requested page and the total number of matches.
	Find(ctx context.Context, q ProductQuery) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
}
