package services

import (
	"context"
	"encoding/json"
	"log"

	"gudang/internal/models"
	"gudang/internal/repositories"
)

// EventPublisher publishes product lifecycle events to the message
// broker. The RabbitMQ client implements it; tests substitute a mock.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher // optional; nil disables publishing
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// CreateProduct persists a new product and publishes a created event.
func (s *ProductService) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := s.repo.Create(ctx, product); err != nil {
		return err
	}

	s.publish("product.created", map[string]interface{}{
		"productID": product.ID,
		"name":      product.Name,
		"category":  product.Category,
		"price":     product.Price,
		"stock":     product.Stock,
	})
	return nil
}

// GetProductByID retrieves a single product by its id.
func (s *ProductService) GetProductByID(ctx context.Context, id string) (*models.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProduct applies a partial update and publishes an updated event.
func (s *ProductService) UpdateProduct(ctx context.Context, id string, fields map[string]interface{}) (*models.Product, error) {
	product, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	s.publish("product.updated", map[string]interface{}{
		"productID": product.ID,
		"stock":     product.Stock,
		"price":     product.Price,
	})
	return product, nil
}

// DeleteProduct removes a product and publishes a deleted event.
func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish("product.deleted", map[string]interface{}{
		"productID": id,
	})
	return nil
}

// ListProducts returns one page of products matching the filter plus the
// total matching count.
func (s *ProductService) ListProducts(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, int64, error) {
	return s.repo.List(ctx, filter)
}

// Stats aggregates the entire collection.
func (s *ProductService) Stats(ctx context.Context) (*repositories.ProductStats, error) {
	return s.repo.Stats(ctx)
}

// publish sends an event to the broker. Publishing is best-effort: a
// broker failure must not fail the request that already committed.
func (s *ProductService) publish(routingKey string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", routingKey, err)
		return
	}
	if err := s.events.Publish(routingKey, body); err != nil {
		log.Printf("Warning: failed to publish %s event: %v", routingKey, err)
	}
}
