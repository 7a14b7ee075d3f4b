package models

import (
	"time"

	"github.com/gocql/gocql"
)

type Product struct {
	ID          gocql.UUID   `json:"id" db:"product_id"`
	Name        string       `json:"name" db:"name"`
	Slug        string       `json:"slug" db:"slug"`
	Description string       `json:"description" db:"description"`
	Price       float64      `json:"price" db:"price"`
	SKU         string       `json:"sku" db:"sku"`
	ERPID       string       `json:"erp_id" db:"erp_id"`
	CategoryIDs []gocql.UUID `json:"category_ids" db:"category_ids"`
	ImageURLs   []string     `json:"image_urls" db:"image_urls"`
	Tags        []string     `json:"tags" db:"tags"`
	IsActive    bool         `json:"is_active" db:"is_active"`
	CreatedAt   *time.Time   `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   *time.Time   `json:"updated_at,omitempty" db:"updated_at"`
}
