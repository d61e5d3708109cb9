package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secondarypro/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

var _ OrderRepository = (*GORMOrderRepository)(nil)

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{db: db}
}

func (r *GORMOrderRepository) filtered(ctx context.Context, status models.OrderStatus) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Order{})
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}
	return tx
}

// Find returns a page of orders, newest first.
func (r *GORMOrderRepository) Find(ctx context.Context, q OrderQuery) ([]models.Order, int64, error) {
	var total int64
	if err := r.filtered(ctx, q.Status).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	tx := r.filtered(ctx, q.Status).Order("created_at DESC").Order("id DESC")
	if q.Offset > 0 {
		tx = tx.Offset(q.Offset)
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	orders := []models.Order{}
	if err := tx.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

// GetByID retrieves a single order by its ID.
func (r *GORMOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order with ID %s %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create stores a new order.
func (r *GORMOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus overwrites status and notes of an existing order.
func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, notes string) (*models.Order, error) {
	order, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	err = r.db.WithContext(ctx).Model(order).Updates(map[string]any{
		"status":     status,
		"notes":      notes,
		"updated_at": time.Now(),
	}).Error
	if err != nil {
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return r.GetByID(ctx, id)
}

// Count counts orders, optionally restricted to one status.
func (r *GORMOrderRepository) Count(ctx context.Context, status models.OrderStatus) (int64, error) {
	var n int64
	if err := r.filtered(ctx, status).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
