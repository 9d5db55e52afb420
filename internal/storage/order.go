package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/shopspring/decimal"
)

// ErrOrderNotCancellable covers every cancel mismatch: the order does not
// exist, belongs to someone else, or is not in the Placed status. Callers
// cannot tell which, on purpose.
var ErrOrderNotCancellable = errors.New("order not found or not cancellable")

// OrderStorage persists orders and their line items. The insert methods
// take a *sql.Tx because placement is all-or-nothing.
type OrderStorage interface {
	CreateOrderTx(ctx context.Context, tx *sql.Tx, userID, addressID int64, total decimal.Decimal, paymentMethod string) (int64, error)
	CreateOrderItemTx(ctx context.Context, tx *sql.Tx, orderID, productID int64, quantity int, price decimal.Decimal) error
	// GetOrdersByUserID reads the flat orders×items join and groups it by
	// order id into nested orders, newest order first, items by item id.
	GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error)
	// CancelOrder flips status Placed -> Cancelled for the user's own
	// order. The row is kept as history.
	CancelOrder(ctx context.Context, orderID, userID int64) error
}

type orderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderStorage {
	return &orderRepository{db: db}
}

func (r *orderRepository) CreateOrderTx(ctx context.Context, tx *sql.Tx, userID, addressID int64, total decimal.Decimal, paymentMethod string) (int64, error) {
	var id int64
	query := `INSERT INTO orders (user_id, address_id, total_amount, payment_method, status)
	          VALUES ($1, $2, $3, $4, 'Placed') RETURNING id`
	err := tx.QueryRowContext(ctx, query, userID, addressID, total, paymentMethod).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create order: %w", err)
	}
	return id, nil
}

func (r *orderRepository) CreateOrderItemTx(ctx context.Context, tx *sql.Tx, orderID, productID int64, quantity int, price decimal.Decimal) error {
	query := `INSERT INTO order_items (order_id, product_id, quantity, price)
	          VALUES ($1, $2, $3, $4)`
	_, err := tx.ExecContext(ctx, query, orderID, productID, quantity, price)
	if err != nil {
		return fmt.Errorf("failed to create order item: %w", err)
	}
	return nil
}

func (r *orderRepository) GetOrdersByUserID(ctx context.Context, userID int64) ([]*models.Order, error) {
	query := `
		SELECT o.id, o.total_amount, o.status, o.created_at,
		       oi.product_id, oi.quantity, oi.price,
		       p.name,
		       COALESCE(pi.image_url, '') AS image_url
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		JOIN products p ON p.id = oi.product_id
		LEFT JOIN (
			SELECT product_id, MIN(image_url) AS image_url
			FROM product_images
			GROUP BY product_id
		) pi ON pi.product_id = p.id
		WHERE o.user_id = $1
		ORDER BY o.created_at DESC, o.id DESC, oi.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	// Single grouping pass keyed by order id; row order across orders is
	// preserved, items within an order follow item id.
	var orders []*models.Order
	byID := make(map[int64]*models.Order)
	for rows.Next() {
		var (
			order models.Order
			item  models.OrderItem
		)
		if err := rows.Scan(&order.ID, &order.TotalAmount, &order.Status, &order.CreatedAt,
			&item.ProductID, &item.Quantity, &item.Price, &item.Name, &item.ImageURL); err != nil {
			return nil, err
		}

		o, ok := byID[order.ID]
		if !ok {
			order.UserID = userID
			o = &order
			byID[order.ID] = o
			orders = append(orders, o)
		}
		item.OrderID = o.ID
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) CancelOrder(ctx context.Context, orderID, userID int64) error {
	query := `UPDATE orders SET status = 'Cancelled'
	          WHERE id = $1 AND user_id = $2 AND status = 'Placed'`
	res, err := r.db.ExecContext(ctx, query, orderID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrOrderNotCancellable
	}
	return nil
}
