package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"secondarypro/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoProductRepository stores products in the "products" collection.
type MongoProductRepository struct {
	Collection *mongo.Collection
}

var _ ProductRepository = (*MongoProductRepository)(nil)

// NewMongoProductRepository creates a repository over db.
func NewMongoProductRepository(db *mongo.Database) *MongoProductRepository {
	return &MongoProductRepository{
		Collection: db.Collection(productsCollection),
	}
}

func productFilter(q ProductQuery) bson.M {
	filter := bson.M{}
	if q.Category != "" {
		filter["category"] = q.Category
	}
	if q.Featured != nil {
		filter["featured"] = *q.Featured
	}
	if q.InStock != nil {
		filter["inStock"] = *q.InStock
	}
	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["price"] = price
	}
	return filter
}

func productSort(sort models.ProductSort) bson.D {
	switch sort {
	case models.SortPriceAsc:
		return bson.D{{Key: "price", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortPriceDesc:
		return bson.D{{Key: "price", Value: -1}, {Key: "_id", Value: -1}}
	case models.SortNameAsc:
		return bson.D{{Key: "name", Value: 1}, {Key: "_id", Value: 1}}
	case models.SortNameDesc:
		return bson.D{{Key: "name", Value: -1}, {Key: "_id", Value: -1}}
	default:
		return bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	}
}

// Find returns the requested page and the number of matching documents.
func (r *MongoProductRepository) Find(ctx context.Context, q ProductQuery) ([]models.Product, int64, error) {
	filter := productFilter(q)

	total, err := r.Collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	cursor, err := r.Collection.Find(ctx, filter, findOptions(productSort(q.Sort), q.Offset, q.Limit))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	products := []models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, 0, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, total, nil
}

// GetByID returns a product by its ID.
func (r *MongoProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.Collection.FindOne(ctx, bson.M{"_id": id}).Decode(&product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("product with ID %s %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %s: %w", id, err)
	}
	return &product, nil
}

// GetByIDs returns the products whose IDs are in ids.
func (r *MongoProductRepository) GetByIDs(ctx context.Context, ids []string) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	cursor, err := r.Collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	return products, nil
}

// Create inserts a new product document.
func (r *MongoProductRepository) Create(ctx context.Context, product *models.Product) error {
	if product.ID == "" {
		product.ID = newObjectID()
	}
	now := time.Now().UTC().Truncate(time.Millisecond)
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	product.UpdatedAt = now
	if _, err := r.Collection.InsertOne(ctx, product); err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// Update replaces every mutable field of an existing product.
func (r *MongoProductRepository) Update(ctx context.Context, product *models.Product) error {
	product.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)
	res, err := r.Collection.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": bson.M{
		"name":        product.Name,
		"description": product.Description,
		"price":       product.Price,
		"imageUrl":    product.ImageURL,
		"category":    product.Category,
		"sizeRange":   product.SizeRange,
		"featured":    product.Featured,
		"inStock":     product.InStock,
		"updatedAt":   product.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update product: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("product with ID %s %w", product.ID, models.ErrNotFound)
	}
	return nil
}

// Delete removes a product document.
func (r *MongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("product with ID %s %w", id, models.ErrNotFound)
	}
	return nil
}

// Count returns the number of product documents.
func (r *MongoProductRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.Collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}
