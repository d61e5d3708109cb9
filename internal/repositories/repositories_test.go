package repositories_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"secondarypro/internal/models"
	"secondarypro/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stores struct {
	products repositories.ProductRepository
	orders   repositories.OrderRepository
}

type backend struct {
	name string
	open func(t *testing.T) stores
}

func backends() []backend {
	return []backend{
		{name: "memory", open: func(t *testing.T) stores {
			return stores{
				products: repositories.NewMemoryProductRepository(),
				orders:   repositories.NewMemoryOrderRepository(),
			}
		}},
		{name: "sqlite", open: func(t *testing.T) stores {
			dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
			db, err := repositories.OpenGORM("sqlite", dsn)
			require.NoError(t, err)
			t.Cleanup(func() {
				if sqlDB, err := db.DB(); err == nil {
					sqlDB.Close()
				}
			})
			return stores{
				products: repositories.NewGORMProductRepository(db),
				orders:   repositories.NewGORMOrderRepository(db),
			}
		}},
		{name: "mongo", open: func(t *testing.T) stores {
			uri := os.Getenv("MONGO_TEST_URI")
			if uri == "" {
				t.Skip("MONGO_TEST_URI not set")
			}
			ctx := context.Background()
			client, db, err := repositories.ConnectMongo(ctx, uri, "secondarypro_test_"+uuid.NewString()[:8])
			require.NoError(t, err)
			t.Cleanup(func() {
				_ = db.Drop(context.Background())
				_ = client.Disconnect(context.Background())
			})
			return stores{
				products: repositories.NewMongoProductRepository(db),
				orders:   repositories.NewMongoOrderRepository(db),
			}
		}},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, s stores)) {
	for _, b := range backends() {
		t.Run(b.name, func(t *testing.T) {
			fn(t, b.open(t))
		})
	}
}

func boolPtr(b bool) *bool        { return &b }
func floatPtr(f float64) *float64 { return &f }

func createProduct(t *testing.T, repo repositories.ProductRepository, p models.Product) models.Product {
	t.Helper()
	if p.Category == "" {
		p.Category = models.CategorySneakers
	}
	require.NoError(t, repo.Create(context.Background(), &p))
	return p
}

func prices(products []models.Product) []float64 {
	out := make([]float64, 0, len(products))
	for _, p := range products {
		out = append(out, p.Price)
	}
	return out
}

func names(products []models.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestProductRepository_CreateAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		created := createProduct(t, s.products, models.Product{
			Name: "Runner", Price: 45.5, Category: models.CategorySports, SizeRange: "38-44", InStock: true,
		})
		assert.NotEmpty(t, created.ID)

		got, err := s.products.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Runner", got.Name)
		assert.Equal(t, 45.5, got.Price)
		assert.Equal(t, models.CategorySports, got.Category)
		assert.True(t, got.InStock)
		assert.False(t, got.CreatedAt.IsZero())

		_, err = s.products.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestProductRepository_PriceRangeFilter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		for _, price := range []float64{10, 20, 30} {
			createProduct(t, s.products, models.Product{Name: fmt.Sprintf("P%.0f", price), Price: price})
		}

		got, total, err := s.products.Find(context.Background(), repositories.ProductQuery{
			MinPrice: floatPtr(15),
			MaxPrice: floatPtr(25),
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, []float64{20}, prices(got))

		// bounds are inclusive
		got, _, err = s.products.Find(context.Background(), repositories.ProductQuery{
			MinPrice: floatPtr(10),
			MaxPrice: floatPtr(20),
			Sort:     models.SortPriceAsc,
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{10, 20}, prices(got))
	})
}

func TestProductRepository_CategorySortAndPage(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		for _, price := range []float64{50, 30, 70} {
			createProduct(t, s.products, models.Product{Name: fmt.Sprintf("Boot %.0f", price), Price: price, Category: models.CategoryBoots})
		}
		createProduct(t, s.products, models.Product{Name: "Sandal", Price: 90, Category: models.CategorySandals})

		got, total, err := s.products.Find(context.Background(), repositories.ProductQuery{
			Category: models.CategoryBoots,
			Sort:     models.SortPriceDesc,
			Limit:    2,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, []float64{70, 50}, prices(got))
		assert.Equal(t, int64(2), models.NewPagination(total, 1, 2).TotalPages)

		got, _, err = s.products.Find(context.Background(), repositories.ProductQuery{
			Category: models.CategoryBoots,
			Sort:     models.SortPriceDesc,
			Offset:   2,
			Limit:    2,
		})
		require.NoError(t, err)
		assert.Equal(t, []float64{30}, prices(got))
	})
}

func TestProductRepository_NameSortsAreReverses(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		for _, name := range []string{"Delta", "Alpha", "Charlie", "Alpha", "Bravo"} {
			createProduct(t, s.products, models.Product{Name: name, Price: 1})
		}

		asc, _, err := s.products.Find(context.Background(), repositories.ProductQuery{Sort: models.SortNameAsc})
		require.NoError(t, err)
		desc, _, err := s.products.Find(context.Background(), repositories.ProductQuery{Sort: models.SortNameDesc})
		require.NoError(t, err)

		require.Len(t, asc, 5)
		require.Len(t, desc, 5)
		assert.Equal(t, []string{"Alpha", "Alpha", "Bravo", "Charlie", "Delta"}, names(asc))
		for i := range asc {
			assert.Equal(t, asc[i].ID, desc[len(desc)-1-i].ID)
		}
	})
}

func TestProductRepository_PagesCoverTiesExactlyOnce(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		now := time.Now()
		for i, price := range []float64{5, 5, 5, 5, 9, 9, 9} {
			createProduct(t, s.products, models.Product{
				Name:      []string{"Same", "Other"}[i%2],
				Price:     price,
				CreatedAt: now,
			})
		}

		sorts := []models.ProductSort{models.SortNewest, models.SortPriceAsc, models.SortPriceDesc, models.SortNameAsc, models.SortNameDesc}
		for _, sort := range sorts {
			t.Run(string(sort), func(t *testing.T) {
				seen := map[string]bool{}
				var total int64
				for offset := 0; ; offset += 3 {
					got, n, err := s.products.Find(context.Background(), repositories.ProductQuery{Sort: sort, Offset: offset, Limit: 3})
					require.NoError(t, err)
					total = n
					if len(got) == 0 {
						break
					}
					for _, p := range got {
						assert.False(t, seen[p.ID], "product %s listed twice", p.ID)
						seen[p.ID] = true
					}
				}
				assert.Equal(t, int64(7), total)
				assert.Len(t, seen, 7)
			})
		}
	})
}

func TestProductRepository_FeaturedInStockNewestFirst(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
		createProduct(t, s.products, models.Product{Name: "old", Featured: true, InStock: true, CreatedAt: base})
		createProduct(t, s.products, models.Product{Name: "new", Featured: true, InStock: true, CreatedAt: base.Add(time.Minute)})
		createProduct(t, s.products, models.Product{Name: "sold out", Featured: true, InStock: false, CreatedAt: base.Add(2 * time.Minute)})
		createProduct(t, s.products, models.Product{Name: "plain", InStock: true, CreatedAt: base.Add(3 * time.Minute)})

		got, total, err := s.products.Find(context.Background(), repositories.ProductQuery{
			Featured: boolPtr(true),
			InStock:  boolPtr(true),
			Limit:    8,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Equal(t, []string{"new", "old"}, names(got))
	})
}

func TestProductRepository_UpdatePreservesCreatedAt(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		created := createProduct(t, s.products, models.Product{Name: "Loafer", Price: 80, Category: models.CategoryFormal})
		stored, err := s.products.GetByID(ctx, created.ID)
		require.NoError(t, err)

		update := *stored
		update.Name = "Penny Loafer"
		update.Price = 85
		update.CreatedAt = time.Time{}
		require.NoError(t, s.products.Update(ctx, &update))

		got, err := s.products.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Penny Loafer", got.Name)
		assert.Equal(t, 85.0, got.Price)
		assert.True(t, stored.CreatedAt.Equal(got.CreatedAt))

		missing := models.Product{ID: "missing", Name: "x"}
		assert.ErrorIs(t, s.products.Update(ctx, &missing), models.ErrNotFound)
	})
}

func TestProductRepository_DeleteAndCount(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		a := createProduct(t, s.products, models.Product{Name: "A"})
		b := createProduct(t, s.products, models.Product{Name: "B"})

		n, err := s.products.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)

		require.NoError(t, s.products.Delete(ctx, a.ID))
		assert.ErrorIs(t, s.products.Delete(ctx, a.ID), models.ErrNotFound)

		got, err := s.products.GetByIDs(ctx, []string{a.ID, b.ID})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, b.ID, got[0].ID)

		n, err = s.products.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}

func createOrder(t *testing.T, repo repositories.OrderRepository, o models.Order) models.Order {
	t.Helper()
	if o.Status == "" {
		o.Status = models.StatusPending
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = models.PaymentCOD
	}
	if o.ProductID == "" {
		o.ProductID = "p1"
	}
	require.NoError(t, repo.Create(context.Background(), &o))
	return o
}

func TestOrderRepository_FindNewestFirstWithStatusFilter(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		base := time.Now().UTC().Add(-time.Hour).Truncate(time.Millisecond)
		first := createOrder(t, s.orders, models.Order{CustomerName: "first", CreatedAt: base})
		second := createOrder(t, s.orders, models.Order{CustomerName: "second", Status: models.StatusShipped, CreatedAt: base.Add(time.Minute)})
		third := createOrder(t, s.orders, models.Order{CustomerName: "third", CreatedAt: base.Add(2 * time.Minute)})

		all, total, err := s.orders.Find(ctx, repositories.OrderQuery{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, all, 3)
		assert.Equal(t, []string{third.ID, second.ID, first.ID}, []string{all[0].ID, all[1].ID, all[2].ID})

		pending, total, err := s.orders.Find(ctx, repositories.OrderQuery{Status: models.StatusPending, Limit: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, pending, 1)
		assert.Equal(t, third.ID, pending[0].ID)

		n, err := s.orders.Count(ctx, models.StatusShipped)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
		n, err = s.orders.Count(ctx, "")
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})
}

func TestOrderRepository_UpdateStatus(t *testing.T) {
	forEachBackend(t, func(t *testing.T, s stores) {
		ctx := context.Background()
		order := createOrder(t, s.orders, models.Order{CustomerName: "Ana", Email: "ana@example.com"})

		updated, err := s.orders.UpdateStatus(ctx, order.ID, models.StatusShipped, "sent via courier")
		require.NoError(t, err)
		assert.Equal(t, models.StatusShipped, updated.Status)
		assert.Equal(t, "sent via courier", updated.Notes)
		assert.Equal(t, "Ana", updated.CustomerName)

		got, err := s.orders.GetByID(ctx, order.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StatusShipped, got.Status)
		assert.True(t, order.CreatedAt.Equal(got.CreatedAt))

		_, err = s.orders.UpdateStatus(ctx, "missing", models.StatusShipped, "")
		assert.ErrorIs(t, err, models.ErrNotFound)
		_, err = s.orders.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}
