package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"gudang/internal/models"
)

// storeTimeout bounds every store call so that a stalled database surfaces
// as an error instead of a hanging request.
const storeTimeout = 5 * time.Second

// sortColumns whitelists the sortable fields and maps them to columns.
// Anything else never reaches the query; user input is not interpolated.
var sortColumns = map[string]string{
	"name":      "name",
	"price":     "price",
	"stock":     "stock",
	"category":  "category",
	"createdAt": "created_at",
}

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// Create persists a new product, assigning its id and rounding the price.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product) error {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	product.Price = roundPrice(product.Price)

	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return fmt.Errorf("failed to create product: %w", err)
	}
	return nil
}

// GetByID retrieves a single product. An id that is not a well-formed
// UUID is reported as not found, not as a different error kind.
func (r *GORMProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product by id %s: %w", id, err)
	}
	return &product, nil
}

// Update applies a partial update and returns the fresh row. Keys in
// fields are column names; a price value is rounded before writing.
func (r *GORMProductRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if price, ok := fields["price"].(float64); ok {
		fields["price"] = roundPrice(price)
	}

	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("failed to reload product %s: %w", id, err)
	}
	return &product, nil
}

// Delete removes a product. Deleting an already-deleted id reports
// ErrProductNotFound, same as any other miss.
func (r *GORMProductRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrProductNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	res := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// List executes the filter against the store and returns one page of
// products plus the total matching count.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	scope := productFilterScope(filter)

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var products []models.Product
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Scopes(scope).
		Order(orderClause(filter.Sort)).
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&products).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return products, total, nil
}

// productFilterScope translates the filter into WHERE conditions. Each
// condition is applied only when its parameter is present.
func productFilterScope(filter ProductFilter) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if filter.Category != "" {
			db = db.Where("category = ?", filter.Category)
		}
		if filter.MinPrice != nil {
			db = db.Where("price >= ?", *filter.MinPrice)
		}
		if filter.MaxPrice != nil {
			db = db.Where("price <= ?", *filter.MaxPrice)
		}
		if filter.Search != "" {
			// LOWER + LIKE is portable across postgres and sqlite.
			pattern := "%" + escapeLike(strings.ToLower(filter.Search)) + "%"
			db = db.Where(
				`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\'`,
				pattern, pattern,
			)
		}
		return db
	}
}

// orderClause maps a whitelisted sort value to an ORDER BY clause.
// Default is newest first.
func orderClause(sort string) string {
	desc := strings.HasPrefix(sort, "-")
	field := strings.TrimPrefix(sort, "-")

	column, ok := sortColumns[field]
	if !ok {
		return "created_at DESC"
	}
	if desc {
		return column + " DESC"
	}
	return column + " ASC"
}

func escapeLike(s string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(s)
}

// Stats aggregates the entire unfiltered collection: overall count and
// average price, plus per-category groups ordered by category name.
func (r *GORMProductRepository) Stats(ctx context.Context) (*ProductStats, error) {
	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	var overall struct {
		Total int64
		Avg   float64
	}
	err := r.db.WithContext(ctx).Model(&models.Product{}).
		Select("COUNT(*) AS total, COALESCE(AVG(price), 0) AS avg").
		Scan(&overall).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate product stats: %w", err)
	}

	var groups []struct {
		Category string
		Count    int64
		Avg      float64
	}
	err = r.db.WithContext(ctx).Model(&models.Product{}).
		Select("category, COUNT(*) AS count, AVG(price) AS avg").
		Group("category").
		Order("category ASC").
		Scan(&groups).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate category stats: %w", err)
	}

	stats := &ProductStats{
		Overall: OverallStats{
			TotalProducts: overall.Total,
			AveragePrice:  roundPrice(overall.Avg),
		},
		ByCategory: make([]CategoryStats, 0, len(groups)),
	}
	for _, g := range groups {
		stats.ByCategory = append(stats.ByCategory, CategoryStats{
			Category:     g.Category,
			Count:        g.Count,
			AveragePrice: roundPrice(g.Avg),
		})
	}
	return stats, nil
}
