package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/storage"
)

// CatalogService exposes the product catalog. The order flow never writes
// through it.
type CatalogService interface {
	AddProduct(ctx context.Context, product *models.Product, imageURLs []string) (int64, error)
	ListProducts(ctx context.Context, search string) ([]*models.Product, error)
	GetProduct(ctx context.Context, id int64) (*models.Product, error)
}

type catalogService struct {
	log         *slog.Logger
	productRepo storage.ProductStorage
}

func NewCatalogService(log *slog.Logger, productRepo storage.ProductStorage) CatalogService {
	return &catalogService{log: log, productRepo: productRepo}
}

func (s *catalogService) AddProduct(ctx context.Context, product *models.Product, imageURLs []string) (int64, error) {
	const op = "service.CatalogService.AddProduct"
	logger := s.log.With(slog.String("op", op), slog.String("name", product.Name))

	id, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error("failed to create product", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create product: %w", op, err)
	}

	for _, url := range imageURLs {
		if err := s.productRepo.AddProductImage(ctx, id, url); err != nil {
			logger.Error("failed to add product image", slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to add product image: %w", op, err)
		}
	}

	logger.Info("product added", slog.Int64("productID", id))
	return id, nil
}

func (s *catalogService) ListProducts(ctx context.Context, search string) ([]*models.Product, error) {
	const op = "service.CatalogService.ListProducts"

	products, err := s.productRepo.ListProducts(ctx, search)
	if err != nil {
		s.log.Error("failed to list products", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list products: %w", op, err)
	}
	return products, nil
}

func (s *catalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	const op = "service.CatalogService.GetProduct"

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		s.log.Error("failed to get product", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product: %w", op, err)
	}

	images, err := s.productRepo.GetProductImages(ctx, id)
	if err != nil {
		s.log.Error("failed to get product images", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get product images: %w", op, err)
	}
	product.Images = images
	if len(images) > 0 {
		product.ImageURL = images[0]
	}

	return product, nil
}
