package models

import "time"

// Product represents a single inventory item. Price is always persisted
// rounded to 2 decimal places; Stock is never negative.
type Product struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null;index"`
	Description string    `json:"description" gorm:"type:varchar(500)"`
	Price       float64   `json:"price" gorm:"not null"`
	Category    string    `json:"category" gorm:"type:varchar(100);not null;index"`
	Stock       int       `json:"stock" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Available reports whether the product can currently be sold. Derived
// from stock, never stored.
func (p *Product) Available() bool {
	return p.Stock > 0
}
