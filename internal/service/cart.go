package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/storage"
)

// CartService manages the per-user cart. A quantity below 1 never reaches
// the store.
type CartService interface {
	AddToCart(ctx context.Context, userID, productID int64, quantity int) error
	GetCart(ctx context.Context, userID int64) ([]*models.CartItem, error)
	RemoveItem(ctx context.Context, userID, cartItemID int64) error
}

type cartService struct {
	log      *slog.Logger
	cartRepo storage.CartStorage
}

func NewCartService(log *slog.Logger, cartRepo storage.CartStorage) CartService {
	return &cartService{log: log, cartRepo: cartRepo}
}

func (s *cartService) AddToCart(ctx context.Context, userID, productID int64, quantity int) error {
	const op = "service.CartService.AddToCart"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("productID", productID))

	if productID <= 0 || quantity < 1 {
		logger.Warn("invalid cart item", slog.Int("quantity", quantity))
		return fmt.Errorf("%s: %w", op, ErrValidation)
	}

	if err := s.cartRepo.UpsertCartItem(ctx, userID, productID, quantity); err != nil {
		logger.Error("failed to add to cart", slog.Any("error", err))
		return fmt.Errorf("%s: failed to add to cart: %w", op, err)
	}

	logger.Info("added to cart", slog.Int("quantity", quantity))
	return nil
}

func (s *cartService) GetCart(ctx context.Context, userID int64) ([]*models.CartItem, error) {
	const op = "service.CartService.GetCart"

	items, err := s.cartRepo.GetCartByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get cart", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get cart: %w", op, err)
	}
	return items, nil
}

func (s *cartService) RemoveItem(ctx context.Context, userID, cartItemID int64) error {
	const op = "service.CartService.RemoveItem"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("cartItemID", cartItemID))

	if err := s.cartRepo.DeleteCartItem(ctx, cartItemID, userID); err != nil {
		logger.Error("failed to remove cart item", slog.Any("error", err))
		return fmt.Errorf("%s: failed to remove cart item: %w", op, err)
	}

	logger.Info("cart item removed")
	return nil
}
