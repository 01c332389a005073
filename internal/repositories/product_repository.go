package repositories

import (
	"context"
	"errors"
	"math"

	"gudang/internal/models"
)

// ErrProductNotFound is returned when no product matches the given id.
// Malformed ids are reported the same way.
var ErrProductNotFound = errors.New("product not found")

// ProductFilter carries the normalized list-query parameters. Optional
// bounds are pointers so "absent" and "zero" stay distinguishable.
type ProductFilter struct {
	Category string
	MinPrice *float64
	MaxPrice *float64
	Search   string
	Sort     string // whitelisted field name, "-" prefix for descending
	Offset   int
	Limit    int
}

// OverallStats aggregates the whole collection.
type OverallStats struct {
	TotalProducts int64   `json:"totalProducts"`
	AveragePrice  float64 `json:"averagePrice"`
}

// CategoryStats aggregates one category group.
type CategoryStats struct {
	Category     string  `json:"category"`
	Count        int64   `json:"count"`
	AveragePrice float64 `json:"averagePrice"`
}

// ProductStats is the result of the statistics aggregation. ByCategory is
// ordered by category name ascending.
type ProductStats struct {
	Overall    OverallStats    `json:"overall"`
	ByCategory []CategoryStats `json:"byCategory"`
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error)
	Stats(ctx context.Context) (*ProductStats, error)
}

// roundPrice normalizes a price to 2 decimal places before persistence.
// The validation layer already rejects inputs with more precision; this is
// a defense-in-depth invariant, not a second source of user-facing errors.
func roundPrice(price float64) float64 {
	return math.Round(price*100) / 100
}
