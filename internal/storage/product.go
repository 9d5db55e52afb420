package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
)

var ErrProductNotFound = errors.New("product not found")

// ProductStorage describes catalog access. The order flow only reads
// from it; writes come from the add-product endpoint.
type ProductStorage interface {
	CreateProduct(ctx context.Context, p *models.Product) (int64, error)
	AddProductImage(ctx context.Context, productID int64, imageURL string) error
	// ListProducts returns catalog entries matching the search term over
	// name/category (empty term matches all), newest first, each with its
	// first image URL.
	ListProducts(ctx context.Context, search string) ([]*models.Product, error)
	GetProductByID(ctx context.Context, id int64) (*models.Product, error)
	GetProductImages(ctx context.Context, productID int64) ([]string, error)
	// GetProductByIDTx reads the authoritative price inside the
	// order-placement transaction.
	GetProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error)
}

type productRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductStorage {
	return &productRepository{db: db}
}

func (r *productRepository) CreateProduct(ctx context.Context, p *models.Product) (int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO products (name, price, original_price, description, stock, category)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		p.Name, p.Price, p.OriginalPrice, p.Description, p.Stock, p.Category,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("failed to create product: %w", err)
	}
	return id, nil
}

func (r *productRepository) AddProductImage(ctx context.Context, productID int64, imageURL string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO product_images (product_id, image_url) VALUES ($1, $2)", productID, imageURL)
	if err != nil {
		return fmt.Errorf("failed to add product image: %w", err)
	}
	return nil
}

func (r *productRepository) ListProducts(ctx context.Context, search string) ([]*models.Product, error) {
	query := `
		SELECT p.id, p.name, p.description, p.price, p.original_price, p.stock,
		       COALESCE(p.category, ''), p.created_at,
		       COALESCE((SELECT MIN(image_url) FROM product_images WHERE product_id = p.id), '') AS image_url
		FROM products p
		WHERE p.name ILIKE $1 OR p.category ILIKE $1
		ORDER BY p.created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, "%"+search+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		p := &models.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
			&p.Stock, &p.Category, &p.CreatedAt, &p.ImageURL); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *productRepository) GetProductByID(ctx context.Context, id int64) (*models.Product, error) {
	p := &models.Product{}
	query := `
		SELECT id, name, description, price, original_price, stock, COALESCE(category, ''), created_at
		FROM products WHERE id = $1`
	row := r.db.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.OriginalPrice,
		&p.Stock, &p.Category, &p.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *productRepository) GetProductImages(ctx context.Context, productID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT image_url FROM product_images WHERE product_id = $1 ORDER BY id", productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		images = append(images, url)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return images, nil
}

func (r *productRepository) GetProductByIDTx(ctx context.Context, tx *sql.Tx, id int64) (*models.Product, error) {
	p := &models.Product{}
	query := "SELECT id, name, price, stock FROM products WHERE id = $1"
	row := tx.QueryRowContext(ctx, query, id)
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.Stock); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return p, nil
}
