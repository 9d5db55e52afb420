package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/storage"
	"github.com/shopspring/decimal"
)

// OrderService covers placement, listing and cancellation. Placement is
// the only multi-statement operation in the system and runs inside a
// single transaction.
type OrderService interface {
	PlaceOrder(ctx context.Context, userID int64, req PlaceOrderRequest) (int64, error)
	GetOrders(ctx context.Context, userID int64) ([]*models.Order, error)
	CancelOrder(ctx context.Context, userID, orderID int64) error
}

// PlaceOrderItem is one submitted line item. Price is what the client saw;
// the service charges the catalog price and rejects the order when the two
// diverge.
type PlaceOrderItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

type PlaceOrderRequest struct {
	AddressID     int64
	PaymentMethod string
	Items         []PlaceOrderItem
}

type orderService struct {
	log         *slog.Logger
	db          *sql.DB
	addrRepo    storage.AddressStorage
	productRepo storage.ProductStorage
	orderRepo   storage.OrderStorage
	cartRepo    storage.CartStorage
}

func NewOrderService(log *slog.Logger, db *sql.DB, addrRepo storage.AddressStorage, productRepo storage.ProductStorage, orderRepo storage.OrderStorage, cartRepo storage.CartStorage) OrderService {
	return &orderService{
		log:         log,
		db:          db,
		addrRepo:    addrRepo,
		productRepo: productRepo,
		orderRepo:   orderRepo,
		cartRepo:    cartRepo,
	}
}

// PlaceOrder converts the submitted items into a persisted order and
// clears the cart, all inside one transaction. Nothing is written until
// the request has passed validation, and nothing survives a failed commit:
// the order row, its items and the cart delete commit together or not at
// all. The total is computed from catalog prices re-read inside the
// transaction, not from the client-submitted ones.
func (s *orderService) PlaceOrder(ctx context.Context, userID int64, req PlaceOrderRequest) (int64, error) {
	const op = "service.OrderService.PlaceOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("addressID", req.AddressID))

	if req.AddressID <= 0 || req.PaymentMethod == "" || len(req.Items) == 0 {
		logger.Warn("missing required fields")
		return 0, fmt.Errorf("%s: %w", op, ErrValidation)
	}
	for _, item := range req.Items {
		if item.ProductID <= 0 || item.Quantity < 1 {
			logger.Warn("invalid line item", slog.Int64("productID", item.ProductID), slog.Int("quantity", item.Quantity))
			return 0, fmt.Errorf("%s: %w", op, ErrValidation)
		}
	}

	logger.Info("starting order placement transaction")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		logger.Error("failed to begin transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to begin transaction: %w", op, err)
	}

	// The address must belong to the purchaser.
	if _, err := s.addrRepo.GetAddressByIDTx(ctx, tx, req.AddressID, userID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to get address", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to get address: %w", op, err)
	}

	// Re-read the authoritative price per product and total it up. A stale
	// client price aborts the whole order.
	total := decimal.Zero
	prices := make(map[int64]decimal.Decimal, len(req.Items))
	for _, item := range req.Items {
		product, err := s.productRepo.GetProductByIDTx(ctx, tx, item.ProductID)
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to get product", slog.Int64("productID", item.ProductID), slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to get product: %w", op, err)
		}
		if !item.Price.Equal(product.Price) {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Warn("submitted price diverges from catalog",
				slog.Int64("productID", item.ProductID),
				slog.String("submitted", item.Price.String()),
				slog.String("catalog", product.Price.String()))
			return 0, fmt.Errorf("%s: %w", op, ErrPriceChanged)
		}
		prices[item.ProductID] = product.Price
		total = total.Add(product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}

	orderID, err := s.orderRepo.CreateOrderTx(ctx, tx, userID, req.AddressID, total, req.PaymentMethod)
	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to create order", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to create order: %w", op, err)
	}

	for _, item := range req.Items {
		if err := s.orderRepo.CreateOrderItemTx(ctx, tx, orderID, item.ProductID, item.Quantity, prices[item.ProductID]); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logger.Error("transaction rollback failed", slog.Any("error", rbErr))
			}
			logger.Error("failed to create order item", slog.Int64("productID", item.ProductID), slog.Any("error", err))
			return 0, fmt.Errorf("%s: failed to create order item: %w", op, err)
		}
	}

	if err := s.cartRepo.ClearCartTx(ctx, tx, userID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Error("transaction rollback failed", slog.Any("error", rbErr))
		}
		logger.Error("failed to clear cart", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to clear cart: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		logger.Error("failed to commit transaction", slog.Any("error", err))
		return 0, fmt.Errorf("%s: failed to commit transaction: %w", op, err)
	}

	logger.Info("order placed", slog.Int64("orderID", orderID), slog.String("total", total.String()))
	return orderID, nil
}

func (s *orderService) GetOrders(ctx context.Context, userID int64) ([]*models.Order, error) {
	const op = "service.OrderService.GetOrders"

	orders, err := s.orderRepo.GetOrdersByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get orders", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get orders: %w", op, err)
	}
	return orders, nil
}

func (s *orderService) CancelOrder(ctx context.Context, userID, orderID int64) error {
	const op = "service.OrderService.CancelOrder"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("orderID", orderID))

	if err := s.orderRepo.CancelOrder(ctx, orderID, userID); err != nil {
		logger.Warn("order not cancelled", slog.Any("error", err))
		return fmt.Errorf("%s: failed to cancel order: %w", op, err)
	}

	logger.Info("order cancelled")
	return nil
}
