package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gudang/internal/models"
)

// MockProductRepository is an in-memory implementation of
// ProductRepository. It mirrors the GORM implementation's semantics,
// including filter, sort, pagination and stats, so handler and middleware
// tests can run without a database.
type MockProductRepository struct {
	products map[string]models.Product
	mu       sync.RWMutex
}

// NewMockProductRepository creates a new instance of MockProductRepository.
func NewMockProductRepository() *MockProductRepository {
	return &MockProductRepository{
		products: make(map[string]models.Product),
	}
}

// Create adds a new product.
func (r *MockProductRepository) Create(_ context.Context, product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Price = roundPrice(product.Price)
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	r.products[product.ID] = *product
	return nil
}

// GetByID returns a product by its id.
func (r *MockProductRepository) GetByID(_ context.Context, id string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}
	return &product, nil
}

// Update applies a partial update to an existing product.
func (r *MockProductRepository) Update(_ context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ErrProductNotFound
	}

	if v, ok := fields["name"].(string); ok {
		product.Name = v
	}
	if v, ok := fields["description"].(string); ok {
		product.Description = v
	}
	if v, ok := fields["price"].(float64); ok {
		product.Price = roundPrice(v)
	}
	if v, ok := fields["category"].(string); ok {
		product.Category = v
	}
	if v, ok := fields["stock"].(int); ok {
		product.Stock = v
	}
	product.UpdatedAt = time.Now()

	r.products[id] = product
	return &product, nil
}

// Delete removes a product by its id.
func (r *MockProductRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ErrProductNotFound
	}
	delete(r.products, id)
	return nil
}

// List filters, sorts and paginates the in-memory collection.
func (r *MockProductRepository) List(_ context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		if matchesFilter(p, filter) {
			matched = append(matched, p)
		}
	}
	sortProducts(matched, filter.Sort)

	total := int64(len(matched))
	start := clamp(filter.Offset, 0, len(matched))
	end := len(matched)
	if filter.Limit > 0 {
		end = clamp(start+filter.Limit, start, len(matched))
	}
	return matched[start:end], total, nil
}

func matchesFilter(p models.Product, filter ProductFilter) bool {
	if filter.Category != "" && p.Category != filter.Category {
		return false
	}
	if filter.MinPrice != nil && p.Price < *filter.MinPrice {
		return false
	}
	if filter.MaxPrice != nil && p.Price > *filter.MaxPrice {
		return false
	}
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			return false
		}
	}
	return true
}

func sortProducts(products []models.Product, sortParam string) {
	desc := strings.HasPrefix(sortParam, "-")
	field := strings.TrimPrefix(sortParam, "-")

	var less func(a, b models.Product) bool
	switch field {
	case "name":
		less = func(a, b models.Product) bool { return a.Name < b.Name }
	case "price":
		less = func(a, b models.Product) bool { return a.Price < b.Price }
	case "stock":
		less = func(a, b models.Product) bool { return a.Stock < b.Stock }
	case "category":
		less = func(a, b models.Product) bool { return a.Category < b.Category }
	default:
		less = func(a, b models.Product) bool { return a.CreatedAt.Before(b.CreatedAt) }
		if sortParam == "" {
			desc = true
		}
	}

	sort.SliceStable(products, func(i, j int) bool {
		if desc {
			return less(products[j], products[i])
		}
		return less(products[i], products[j])
	})
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Stats aggregates the whole in-memory collection.
func (r *MockProductRepository) Stats(_ context.Context) (*ProductStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stats := &ProductStats{ByCategory: []CategoryStats{}}

	var sum float64
	byCategory := make(map[string]*CategoryStats)
	categorySums := make(map[string]float64)
	for _, p := range r.products {
		stats.Overall.TotalProducts++
		sum += p.Price

		group, ok := byCategory[p.Category]
		if !ok {
			group = &CategoryStats{Category: p.Category}
			byCategory[p.Category] = group
		}
		group.Count++
		categorySums[p.Category] += p.Price
	}

	if stats.Overall.TotalProducts > 0 {
		stats.Overall.AveragePrice = roundPrice(sum / float64(stats.Overall.TotalProducts))
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		group := byCategory[name]
		group.AveragePrice = roundPrice(categorySums[name] / float64(group.Count))
		stats.ByCategory = append(stats.ByCategory, *group)
	}
	return stats, nil
}

// Clear removes every product. Test helper.
func (r *MockProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = make(map[string]models.Product)
}
