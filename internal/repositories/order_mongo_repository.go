package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secondarypro/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoOrderRepository stores orders in the "orders" collection.
type MongoOrderRepository struct {
	Collection *mongo.Collection
}

var _ OrderRepository = (*MongoOrderRepository)(nil)

// NewMongoOrderRepository creates a repository over db.
func NewMongoOrderRepository(db *mongo.Database) *MongoOrderRepository {
	return &MongoOrderRepository{
		Collection: db.Collection(ordersCollection),
	}
}

func orderFilter(status models.OrderStatus) bson.M {
	if status == "" {
		return bson.M{}
	}
	return bson.M{"status": status}
}

// Find returns a page of orders, newest first.
func (r *MongoOrderRepository) Find(ctx context.Context, q OrderQuery) ([]models.Order, int64, error) {
	filter := orderFilter(q.Status)

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	sort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	cursor, err := r.Collection.Find(ctx, filter, findOptions(sort, q.Offset, q.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, 0, fmt.Errorf("failed to decode orders: %w", err)
	}
	return orders, total, nil
}

// GetByID returns an order by its ID.
func (r *MongoOrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	var order models.Order
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order with ID %s %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order by ID %s: %w", id, err)
	}
	return &order, nil
}

// Create inserts a new order document.
func (r *MongoOrderRepository) Create(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = newObjectID()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	order.UpdatedAt = now
	if _, err := r.Collection.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// UpdateStatus overwrites status and notes and returns the updated document.
func (r *MongoOrderRepository) UpdateStatus(ctx context.Context, id string, status models.OrderStatus, notes string) (*models.Order, error) {
	update := bson.M{"$set": bson.M{
		"status":    status,
		"notes":     notes,
		"updatedAt": time.Now().UTC().Truncate(time.Millisecond),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var order models.Order
	err := r.Collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("order with ID %s %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update order status for order %s: %w", id, err)
	}
	return &order, nil
}

// Count counts orders, optionally restricted to one status.
func (r *MongoOrderRepository) Count(ctx context.Context, status models.OrderStatus) (int64, error) {
	n, err := r.Collection.CountDocuments(ctx, orderFilter(status))
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
