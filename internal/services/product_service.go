package services

import (
	"context"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"secondarypro/internal/models"
	"secondarypro/internal/repositories"
)

const (
	DefaultProductPageSize = 12
	DefaultFeaturedLimit   = 8
)

// ProductCache caches the homepage featured list.
type ProductCache interface {
	GetFeatured(ctx context.Context, limit int) ([]models.Product, bool, error)
	SetFeatured(ctx context.Context, limit int, products []models.Product) error
	InvalidateFeatured(ctx context.Context) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo          repositories.ProductRepository
	validator     *Validator
	cache         ProductCache
	pageSize      int
	featuredLimit int
}

// NewProductService creates a new ProductService. Non-positive sizes fall back to the defaults.
func NewProductService(repo repositories.ProductRepository, pageSize, featuredLimit int) *ProductService {
	if pageSize < 1 {
		pageSize = DefaultProductPageSize
	}
	if featuredLimit < 1 {
		featuredLimit = DefaultFeaturedLimit
	}
	return &ProductService{
		repo:          repo,
		validator:     NewValidator(),
		pageSize:      pageSize,
		featuredLimit: featuredLimit,
	}
}

// SetCache enables the featured cache.
func (s *ProductService) SetCache(cache ProductCache) {
	s.cache = cache
}

// ListProducts returns one page of the catalog.
func (s *ProductService) ListProducts(ctx context.Context, params models.ProductListParams) (*models.ProductPage, error) {
	page, size, offset := models.NormalizePage(params.Page, params.PageSize, s.pageSize)

	q := repositories.ProductQuery{
		Category: models.NormalizeCategory(params.Category),
		MinPrice: parseBound(params.MinPrice),
		MaxPrice: parseBound(params.MaxPrice),
		Sort:     models.ParseProductSort(params.Sort),
		Offset:   offset,
		Limit:    size,
	}
	if strings.TrimSpace(params.Featured) == "true" {
		featured := true
		q.Featured = &featured
	}

	products, total, err := s.repo.Find(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return &models.ProductPage{
		Products:   products,
		Pagination: models.NewPagination(total, page, size),
	}, nil
}

// parseBound reads a price bound; anything that is not a finite number means "no bound".
func parseBound(raw string) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ListFeatured returns the newest featured, in-stock products.
func (s *ProductService) ListFeatured(ctx context.Context, limit int) ([]models.Product, error) {
	if limit < 1 {
		limit = s.featuredLimit
	}
	if limit > models.MaxPageSize {
		limit = models.MaxPageSize
	}

	if s.cache != nil {
		products, ok, err := s.cache.GetFeatured(ctx, limit)
		if err != nil {
			log.Printf("Warning: featured cache read failed: %v", err)
		} else if ok {
			return products, nil
		}
	}

	featured, inStock := true, true
	products, _, err := s.repo.Find(ctx, repositories.ProductQuery{
		Featured: &featured,
		InStock:  &inStock,
		Sort:     models.SortNewest,
		Limit:    limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetFeatured(ctx, limit, products); err != nil {
			log.Printf("Warning: featured cache write failed: %v", err)
		}
	}
	return products, nil
}

// CreateProduct validates the input and stores a new product.
func (s *ProductService) CreateProduct(ctx context.Context, input models.ProductInput) (*models.Product, error) {
	if err := s.validator.Struct(input); err != nil {
		return nil, err
	}
	product := input.Product()
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	s.invalidate(ctx)
	return product, nil
}

// UpdateProduct merges patch into the stored product.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) (*models.Product, error) {
	if err := s.validator.Struct(patch); err != nil {
		return nil, err
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	patch.Apply(product)
	if err := s.repo.Update(ctx, product); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.repo.GetByID(ctx, id)
}

// DeleteProduct deletes a product by its ID. Orders referencing it are kept.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *ProductService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFeatured(ctx); err != nil {
		log.Printf("Warning: failed to invalidate featured cache: %v", err)
	}
}
