package repositories

import (
	"context"

	"secondarypro/internal/models"
)

// OrderQuery filters orders; an empty Status matches every order.
type OrderQuery struct {
	Status models.OrderStatus
	Offset int
	Limit  int
}

// OrderRepository defines the interface for order data access.
// Orders are always listed newest first.
type OrderRepository interface {
	Find(ctx context.Context, q OrderQuery) ([]models.Order, int64, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Create(ctx context.Context, order *models.Order) error
	// UpdateStatus overwrites status and notes and returns the stored order.
	UpdateStatus(ctx context.Context, id string, status models.OrderStatus, notes string) (*models.Order, error)
	// Count counts orders with the given status, or all orders when status is empty.
	Count(ctx context.Context, status models.OrderStatus) (int64, error)
}
