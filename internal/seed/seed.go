// Package seed loads the bundled sample catalog into an empty store.
package seed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"log"

	"secondarypro/internal/models"
	"secondarypro/internal/repositories"
)

//go:embed products.json
var sampleProducts []byte

// Products decodes the bundled sample catalog.
func Products() ([]models.ProductInput, error) {
	var products []models.ProductInput
	if err := json.Unmarshal(sampleProducts, &products); err != nil {
		return nil, fmt.Errorf("decode sample products: %w", err)
	}
	return products, nil
}

// SeedIfEmpty inserts the sample catalog when repo holds no products and
// returns how many were inserted.
func SeedIfEmpty(ctx context.Context, repo repositories.ProductRepository) (int, error) {
	n, err := repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if n > 0 {
		return 0, nil
	}

	inputs, err := Products()
	if err != nil {
		return 0, err
	}
	for i, in := range inputs {
		if err := repo.Create(ctx, in.Product()); err != nil {
			return i, fmt.Errorf("seed product %q: %w", in.Name, err)
		}
	}
	log.Printf("Seeded %d products", len(inputs))
	return len(inputs), nil
}
