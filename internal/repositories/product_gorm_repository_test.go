package repositories_test

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

var dbCounter int64

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:repotest%d?mode=memory&cache=shared", atomic.AddInt64(&dbCounter, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.User{}))
	return db
}

func floatPtr(v float64) *float64 { return &v }

func seedProducts(t *testing.T, repo repositories.ProductRepository, products ...models.Product) []models.Product {
	t.Helper()

	seeded := make([]models.Product, 0, len(products))
	for i := range products {
		require.NoError(t, repo.Create(context.Background(), &products[i]))
		seeded = append(seeded, products[i])
	}
	return seeded
}

func TestGORMProductRepository_CreateAndGet(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	product := models.Product{Name: "Widget", Price: 9.99, Category: "Tools", Stock: 3}
	require.NoError(t, repo.Create(ctx, &product))

	_, err := uuid.Parse(product.ID)
	assert.NoError(t, err, "create must assign a UUID id")

	found, err := repo.GetByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Widget", found.Name)
	assert.Equal(t, 9.99, found.Price)
}

func TestGORMProductRepository_CreateRoundsPrice(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	product := models.Product{Name: "Widget", Price: 10.999, Category: "Tools", Stock: 1}
	require.NoError(t, repo.Create(ctx, &product))
	assert.Equal(t, 11.0, product.Price)
}

func TestGORMProductRepository_GetByID_NotFound(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	// Well-formed UUID that matches nothing.
	_, err := repo.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	// Malformed id is a miss, not a different error kind.
	_, err = repo.GetByID(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestGORMProductRepository_Update(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	product := models.Product{Name: "Old", Description: "keep me", Price: 10, Category: "Tools", Stock: 4}
	require.NoError(t, repo.Create(ctx, &product))

	updated, err := repo.Update(ctx, product.ID, map[string]interface{}{
		"name":  "New",
		"price": 19.999,
	})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.Name)
	assert.Equal(t, 20.0, updated.Price)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, 4, updated.Stock)

	_, err = repo.Update(ctx, uuid.New().String(), map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)

	_, err = repo.Update(ctx, "garbage", map[string]interface{}{"name": "x"})
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestGORMProductRepository_Delete(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	product := models.Product{Name: "Doomed", Price: 10, Category: "Tools", Stock: 1}
	require.NoError(t, repo.Create(ctx, &product))

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.ErrorIs(t, repo.Delete(ctx, product.ID), repositories.ErrProductNotFound)

	_, err := repo.GetByID(ctx, product.ID)
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestGORMProductRepository_ListFilters(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	seedProducts(t, repo,
		models.Product{Name: "Laptop", Description: "16GB RAM", Price: 1200, Category: "Electronics", Stock: 3},
		models.Product{Name: "Phone", Description: "5G", Price: 800, Category: "Electronics", Stock: 5},
		models.Product{Name: "Novel", Description: "paperback", Price: 15, Category: "Books", Stock: 7},
	)

	items, total, err := repo.List(ctx, repositories.ProductFilter{Category: "Electronics", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, items, 2)

	// Price bounds are inclusive.
	items, total, err = repo.List(ctx, repositories.ProductFilter{
		MinPrice: floatPtr(15), MaxPrice: floatPtr(800), Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)

	// Search matches name or description, case-insensitively.
	items, _, err = repo.List(ctx, repositories.ProductFilter{Search: "laptop", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Laptop", items[0].Name)

	items, _, err = repo.List(ctx, repositories.ProductFilter{Search: "5g", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Phone", items[0].Name)
}

func TestGORMProductRepository_SearchEscapesWildcards(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	seedProducts(t, repo,
		models.Product{Name: "100% Cotton Shirt", Price: 25, Category: "Clothing", Stock: 10},
		models.Product{Name: "1000 Piece Puzzle", Price: 20, Category: "Toys", Stock: 4},
	)

	// A literal % in the query must not act as a wildcard.
	items, total, err := repo.List(ctx, repositories.ProductFilter{Search: "100%", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "100% Cotton Shirt", items[0].Name)
}

func TestGORMProductRepository_ListSort(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	seedProducts(t, repo,
		models.Product{Name: "B", Price: 20, Category: "Misc", Stock: 1, CreatedAt: base},
		models.Product{Name: "A", Price: 30, Category: "Misc", Stock: 1, CreatedAt: base.Add(time.Minute)},
		models.Product{Name: "C", Price: 10, Category: "Misc", Stock: 1, CreatedAt: base.Add(2 * time.Minute)},
	)

	items, _, err := repo.List(ctx, repositories.ProductFilter{Sort: "price", Limit: 10})
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, []float64{10, 20, 30}, []float64{items[0].Price, items[1].Price, items[2].Price})

	items, _, err = repo.List(ctx, repositories.ProductFilter{Sort: "-name", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "C", items[0].Name)

	// Empty sort defaults to newest first.
	items, _, err = repo.List(ctx, repositories.ProductFilter{Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, "C", items[0].Name)
	assert.Equal(t, "B", items[2].Name)
}

func TestGORMProductRepository_ListPagination(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	products := make([]models.Product, 5)
	for i := range products {
		products[i] = models.Product{
			Name: fmt.Sprintf("Item %d", i), Price: float64(i + 1), Category: "Misc", Stock: 1,
		}
	}
	seedProducts(t, repo, products...)

	items, total, err := repo.List(ctx, repositories.ProductFilter{Sort: "price", Offset: 0, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 2)
	assert.Equal(t, float64(1), items[0].Price)

	items, total, err = repo.List(ctx, repositories.ProductFilter{Sort: "price", Offset: 4, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	require.Len(t, items, 1)
	assert.Equal(t, float64(5), items[0].Price)
}

func TestGORMProductRepository_Stats(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))
	ctx := context.Background()

	seedProducts(t, repo,
		models.Product{Name: "P1", Price: 10, Category: "B", Stock: 1},
		models.Product{Name: "P2", Price: 20, Category: "A", Stock: 1},
		models.Product{Name: "P3", Price: 25, Category: "A", Stock: 1},
	)

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.Overall.TotalProducts)
	assert.Equal(t, 18.33, stats.Overall.AveragePrice)

	require.Len(t, stats.ByCategory, 2)
	assert.Equal(t, "A", stats.ByCategory[0].Category)
	assert.Equal(t, int64(2), stats.ByCategory[0].Count)
	assert.Equal(t, 22.5, stats.ByCategory[0].AveragePrice)
	assert.Equal(t, "B", stats.ByCategory[1].Category)
	assert.Equal(t, int64(1), stats.ByCategory[1].Count)
}

func TestGORMProductRepository_StatsEmpty(t *testing.T) {
	repo := repositories.NewGORMProductRepository(setupDB(t))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), stats.Overall.TotalProducts)
	assert.Equal(t, float64(0), stats.Overall.AveragePrice)
	assert.Empty(t, stats.ByCategory)
}
