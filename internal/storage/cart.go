package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
)

var ErrCartItemNotFound = errors.New("cart item not found")

// CartStorage holds the per-user product/quantity map. The placement
// transaction clears it through ClearCartTx; everything else runs as a
// single statement on the pool.
type CartStorage interface {
	// UpsertCartItem adds quantity to an existing (user, product) row or
	// inserts a new one.
	UpsertCartItem(ctx context.Context, userID, productID int64, quantity int) error
	GetCartByUserID(ctx context.Context, userID int64) ([]*models.CartItem, error)
	DeleteCartItem(ctx context.Context, cartItemID, userID int64) error
	// ClearCartTx removes every cart row for the user inside the
	// order-placement transaction. Deleting from an empty cart is not an
	// error.
	ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) error
}

type cartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartStorage {
	return &cartRepository{db: db}
}

func (r *cartRepository) UpsertCartItem(ctx context.Context, userID, productID int64, quantity int) error {
	query := `
		INSERT INTO cart_items (user_id, product_id, quantity)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, product_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	_, err := r.db.ExecContext(ctx, query, userID, productID, quantity)
	if err != nil {
		return fmt.Errorf("failed to upsert cart item: %w", err)
	}
	return nil
}

func (r *cartRepository) GetCartByUserID(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	query := `
		SELECT ci.id, ci.quantity, p.id, p.name, p.price,
		       COALESCE((SELECT MIN(image_url) FROM product_images WHERE product_id = p.id), '') AS image_url
		FROM cart_items ci
		JOIN products p ON ci.product_id = p.id
		WHERE ci.user_id = $1
		ORDER BY ci.id`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*models.CartItem
	for rows.Next() {
		item := &models.CartItem{UserID: userID}
		if err := rows.Scan(&item.ID, &item.Quantity, &item.ProductID,
			&item.Name, &item.Price, &item.ImageURL); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) DeleteCartItem(ctx context.Context, cartItemID, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM cart_items WHERE id = $1 AND user_id = $2", cartItemID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrCartItemNotFound
	}
	return nil
}

func (r *cartRepository) ClearCartTx(ctx context.Context, tx *sql.Tx, userID int64) error {
	_, err := tx.ExecContext(ctx, "DELETE FROM cart_items WHERE user_id = $1", userID)
	if err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
