package repositories

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"secondarypro/internal/models"

	"github.com/google/uuid"
)

// MemoryOrderRepository is an in-memory implementation of OrderRepository.
type MemoryOrderRepository struct {
	orders map[string]models.Order
	mu     sync.RWMutex
}

var _ OrderRepository = (*MemoryOrderRepository)(nil)

// NewMemoryOrderRepository creates a new instance of MemoryOrderRepository.
func NewMemoryOrderRepository() *MemoryOrderRepository {
	return &MemoryOrderRepository{
		orders: make(map[string]models.Order),
	}
}

// Find returns a page of orders, newest first.
func (r *MemoryOrderRepository) Find(_ context.Context, q OrderQuery) ([]models.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Order, 0, len(r.orders))
	for _, o := range r.orders {
		if q.Status == "" || o.Status == q.Status {
			matched = append(matched, o)
		}
	}
	slices.SortFunc(matched, func(a, b models.Order) int {
		return cmp.Or(b.CreatedAt.Compare(a.CreatedAt), cmp.Compare(b.ID, a.ID))
	})

	total := int64(len(matched))
	return pageOf(matched, q.Offset, q.Limit), total, nil
}

// GetByID returns an order by its ID.
func (r *MemoryOrderRepository) GetByID(_ context.Context, id string) (*models.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s %w", id, models.ErrNotFound)
	}
	return &order, nil
}

// Create adds a new order.
func (r *MemoryOrderRepository) Create(_ context.Context, order *models.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	now := time.Now()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	r.orders[order.ID] = *order
	return nil
}

// UpdateStatus updates the status and notes of an order.
func (r *MemoryOrderRepository) UpdateStatus(_ context.Context, id string, status models.OrderStatus, notes string) (*models.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order with ID %s %w", id, models.ErrNotFound)
	}
	order.Status = status
	order.Notes = notes
	order.UpdatedAt = time.Now()
	r.orders[id] = order
	return &order, nil
}

// Count counts orders, optionally restricted to one status.
func (r *MemoryOrderRepository) Count(_ context.Context, status models.OrderStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if status == "" {
		return int64(len(r.orders)), nil
	}
	var n int64
	for _, o := range r.orders {
		if o.Status == status {
			n++
		}
	}
	return n, nil
}
