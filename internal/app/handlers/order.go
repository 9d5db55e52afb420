package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/jwt/jwtmiddleware"
	"github.com/Debashish2005/Shopzi/internal/service"
	"github.com/Debashish2005/Shopzi/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type PlaceOrderItem struct {
	ProductID int64           `json:"product_id" validate:"required,gt=0"`
	Quantity  int             `json:"quantity" validate:"required,gte=1"`
	Price     decimal.Decimal `json:"price"`
}

type PlaceOrderRequest struct {
	AddressID     int64            `json:"address_id" validate:"required,gt=0"`
	PaymentMethod string           `json:"payment_method" validate:"required"`
	Items         []PlaceOrderItem `json:"items" validate:"required,min=1,dive"`
}

type PlaceOrderResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	OrderID int64  `json:"order_id"`
}

type OrderListResponse struct {
	Orders []*models.Order `json:"orders"`
}

// PlaceOrderHandler handles POST /place-order. Success is reported only
// after the placement transaction has committed.
func PlaceOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.PlaceOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req PlaceOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "missing required fields", http.StatusBadRequest)
			return
		}

		svcReq := service.PlaceOrderRequest{
			AddressID:     req.AddressID,
			PaymentMethod: req.PaymentMethod,
		}
		for _, item := range req.Items {
			svcReq.Items = append(svcReq.Items, service.PlaceOrderItem{
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				Price:     item.Price,
			})
		}

		orderID, err := orderService.PlaceOrder(r.Context(), userID, svcReq)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrValidation):
				http.Error(w, "missing required fields", http.StatusBadRequest)
			case errors.Is(err, storage.ErrAddressNotFound):
				http.Error(w, "address not found", http.StatusNotFound)
			case errors.Is(err, storage.ErrProductNotFound):
				http.Error(w, "product not found", http.StatusNotFound)
			case errors.Is(err, service.ErrPriceChanged):
				http.Error(w, "product price has changed, refresh your cart", http.StatusConflict)
			default:
				logger.Error("failed to place order", slog.Any("error", err))
				http.Error(w, "failed to place order", http.StatusInternalServerError)
			}
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		resp := PlaceOrderResponse{Success: true, Message: "Order placed successfully", OrderID: orderID}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ListOrdersHandler handles GET /orders: the user's orders with nested
// line items, newest first.
func ListOrdersHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListOrdersHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orders, err := orderService.GetOrders(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get orders", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if orders == nil {
			orders = []*models.Order{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(OrderListResponse{Orders: orders}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// CancelOrderHandler handles DELETE /orders/{orderId}. Canceling flips the
// status; the row remains for history.
func CancelOrderHandler(log *slog.Logger, orderService service.OrderService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CancelOrderHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		orderID, err := strconv.ParseInt(chi.URLParam(r, "orderId"), 10, 64)
		if err != nil {
			http.Error(w, "invalid order id", http.StatusBadRequest)
			return
		}

		if err := orderService.CancelOrder(r.Context(), userID, orderID); err != nil {
			if errors.Is(err, storage.ErrOrderNotCancellable) {
				http.Error(w, "order not found or not cancellable", http.StatusNotFound)
				return
			}
			logger.Error("failed to cancel order", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(MessageResponse{Message: "Order cancelled successfully"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
