package models

import "github.com/shopspring/decimal"

// CartItem is one (user, product) row with a quantity of at least 1.
// Name, Price and ImageURL are filled through a JOIN with products.
type CartItem struct {
	ID        int64           `json:"cart_item_id"`
	UserID    int64           `json:"-"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	ImageURL  string          `json:"image_url"`
}
