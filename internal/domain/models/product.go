package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is a catalog entry. Price is the authoritative price: whatever
// a client submits at checkout is checked against this value.
type Product struct {
	ID            int64               `json:"id"`
	Name          string              `json:"name"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	OriginalPrice decimal.NullDecimal `json:"original_price,omitempty"`
	Stock         int                 `json:"stock"`
	Category      string              `json:"category,omitempty"`
	ImageURL      string              `json:"image_url"`        // first image, "" when none
	Images        []string            `json:"images,omitempty"` // all images, detail view only
	CreatedAt     time.Time           `json:"created_at"`
}
