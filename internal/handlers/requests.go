package handlers

import (
	"strings"

	"gudang/internal/apperr"
	"gudang/internal/models"
	"gudang/internal/repositories"
)

// RegisterRequest is the request body for registration.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// Normalize lower-cases the email so uniqueness is case-insensitive.
func (r *RegisterRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// LoginRequest is the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Normalize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// CreateProductRequest is the request body for product creation.
type CreateProductRequest struct {
	Name        string  `json:"name" validate:"required,max=100"`
	Description string  `json:"description" validate:"omitempty,max=500"`
	Price       float64 `json:"price" validate:"required,gt=0,pricescale"`
	Category    string  `json:"category" validate:"required"`
	Stock       int     `json:"stock" validate:"gte=0"`
}

func (r *CreateProductRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)
}

// Product builds the entity to persist.
func (r *CreateProductRequest) Product() *models.Product {
	return &models.Product{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		Category:    r.Category,
		Stock:       r.Stock,
	}
}

// UpdateProductRequest is the request body for a partial product update.
// Fields are pointers so "absent" and "zero" stay distinguishable; the
// omitempty prefix makes the validator skip nil fields, which are never
// written.
type UpdateProductRequest struct {
	Name        *string  `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string  `json:"description" validate:"omitempty,max=500"`
	Price       *float64 `json:"price" validate:"omitempty,gt=0,pricescale"`
	Category    *string  `json:"category" validate:"omitempty,min=1"`
	Stock       *int     `json:"stock" validate:"omitempty,gte=0"`
}

func (r *UpdateProductRequest) Normalize() {
	if r.Name != nil {
		*r.Name = strings.TrimSpace(*r.Name)
	}
	if r.Description != nil {
		*r.Description = strings.TrimSpace(*r.Description)
	}
	if r.Category != nil {
		*r.Category = strings.TrimSpace(*r.Category)
	}
}

// CrossValidate enforces that a partial update carries at least one field.
func (r *UpdateProductRequest) CrossValidate() []apperr.FieldError {
	if r.Name == nil && r.Description == nil && r.Price == nil && r.Category == nil && r.Stock == nil {
		return []apperr.FieldError{
			{Field: "body", Message: "at least one field must be provided"},
		}
	}
	return nil
}

// Fields returns the column→value pairs to write.
func (r *UpdateProductRequest) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	if r.Name != nil {
		fields["name"] = *r.Name
	}
	if r.Description != nil {
		fields["description"] = *r.Description
	}
	if r.Price != nil {
		fields["price"] = *r.Price
	}
	if r.Category != nil {
		fields["category"] = *r.Category
	}
	if r.Stock != nil {
		fields["stock"] = *r.Stock
	}
	return fields
}

// ListProductsQuery is the query string for the product listing.
type ListProductsQuery struct {
	Page     int      `query:"page" validate:"omitempty,gte=1"`
	Limit    int      `query:"limit" validate:"omitempty,gte=1,lte=100"`
	Sort     string   `query:"sort" validate:"omitempty,oneof=name -name price -price stock -stock category -category createdAt -createdAt"`
	Category string   `query:"category"`
	MinPrice *float64 `query:"minPrice" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"maxPrice" validate:"omitempty,gte=0"`
	Search   string   `query:"search" validate:"omitempty,max=100"`
}

// Normalize applies the listing defaults: first page, 10 per page,
// newest first.
func (q *ListProductsQuery) Normalize() {
	if q.Page == 0 {
		q.Page = 1
	}
	if q.Limit == 0 {
		q.Limit = 10
	}
	if q.Sort == "" {
		q.Sort = "-createdAt"
	}
	q.Search = strings.TrimSpace(q.Search)
}

// CrossValidate enforces that the price range is not inverted.
func (q *ListProductsQuery) CrossValidate() []apperr.FieldError {
	if q.MinPrice != nil && q.MaxPrice != nil && *q.MaxPrice < *q.MinPrice {
		return []apperr.FieldError{
			{Field: "maxPrice", Message: "maxPrice must be greater than or equal to minPrice", Value: *q.MaxPrice},
		}
	}
	return nil
}

// Filter translates the normalized query into a store filter.
func (q *ListProductsQuery) Filter() repositories.ProductFilter {
	return repositories.ProductFilter{
		Category: q.Category,
		MinPrice: q.MinPrice,
		MaxPrice: q.MaxPrice,
		Search:   q.Search,
		Sort:     q.Sort,
		Offset:   (q.Page - 1) * q.Limit,
		Limit:    q.Limit,
	}
}
