package redisx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"secondarypro/internal/models"

	"github.com/redis/go-redis/v9"
)

const (
	// KeyFeatured is a hash of limit -> JSON product list.
	KeyFeatured = "catalog:featured"

	DefaultFeaturedTTL = 5 * time.Minute
)

// New returns a client for addr.
func New(addr string) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// FeaturedCache keeps the homepage featured list in Redis.
type FeaturedCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFeaturedCache wraps rdb. A non-positive ttl uses DefaultFeaturedTTL.
func NewFeaturedCache(rdb *redis.Client, ttl time.Duration) *FeaturedCache {
	if ttl <= 0 {
		ttl = DefaultFeaturedTTL
	}
	return &FeaturedCache{rdb: rdb, ttl: ttl}
}

// GetFeatured returns the cached list for limit; ok is false on a miss.
func (c *FeaturedCache) GetFeatured(ctx context.Context, limit int) ([]models.Product, bool, error) {
	raw, err := c.rdb.HGet(ctx, KeyFeatured, strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis hget %s: %w", KeyFeatured, err)
	}
	var products []models.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, false, fmt.Errorf("decode cached featured list: %w", err)
	}
	return products, true, nil
}

// SetFeatured stores products under limit. The TTL applies to the whole hash
// and is refreshed on every write.
func (c *FeaturedCache) SetFeatured(ctx context.Context, limit int, products []models.Product) error {
	raw, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("encode featured list: %w", err)
	}
	pipe := c.rdb.TxPipeline()
	pipe.HSet(ctx, KeyFeatured, strconv.Itoa(limit), raw)
	pipe.Expire(ctx, KeyFeatured, c.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis hset %s: %w", KeyFeatured, err)
	}
	return nil
}

// InvalidateFeatured drops every cached featured list.
func (c *FeaturedCache) InvalidateFeatured(ctx context.Context) error {
	if err := c.rdb.Del(ctx, KeyFeatured).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", KeyFeatured, err)
	}
	return nil
}
