package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the order state machine. Cancellation is a transition
// from Placed to Cancelled, never a row delete.
type OrderStatus string

const (
	OrderStatusPlaced    OrderStatus = "Placed"
	OrderStatusCancelled OrderStatus = "Cancelled"
	OrderStatusDelivered OrderStatus = "Delivered"
)

// Order is a placed order together with its line items.
type Order struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"-"`
	AddressID     int64           `json:"-"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PaymentMethod string          `json:"-"`
	Status        OrderStatus     `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	Items         []OrderItem     `json:"items"`
}

// OrderItem freezes the catalog price at purchase time, decoupling the
// order history from later price changes.
type OrderItem struct {
	ID        int64           `json:"-"`
	OrderID   int64           `json:"-"`
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"` // product name via JOIN
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url"` // first product image, "" when none
}
