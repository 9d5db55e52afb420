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
)

type AddToCartRequest struct {
	ProductID int64 `json:"product_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity"` // defaults to 1 when omitted
}

type CartResponse struct {
	Success bool               `json:"success"`
	Items   []*models.CartItem `json:"items"`
}

type CartMessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AddToCartHandler handles POST /add-to-cart.
func AddToCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddToCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req AddToCartRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Quantity == 0 {
			req.Quantity = 1
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		if err := cartService.AddToCart(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
			if errors.Is(err, service.ErrValidation) {
				http.Error(w, "invalid quantity", http.StatusBadRequest)
				return
			}
			logger.Error("failed to add to cart", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CartMessageResponse{Success: true, Message: "Added to cart"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// GetCartHandler handles GET /cart.
func GetCartHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetCartHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		items, err := cartService.GetCart(r.Context(), userID)
		if err != nil {
			logger.Error("failed to get cart", slog.Any("error", err))
			http.Error(w, "could not fetch cart items", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []*models.CartItem{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CartResponse{Success: true, Items: items}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// RemoveCartItemHandler handles DELETE /cart/{cartItemId}.
func RemoveCartItemHandler(log *slog.Logger, cartService service.CartService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.RemoveCartItemHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		cartItemID, err := strconv.ParseInt(chi.URLParam(r, "cartItemId"), 10, 64)
		if err != nil {
			http.Error(w, "invalid cart item id", http.StatusBadRequest)
			return
		}

		if err := cartService.RemoveItem(r.Context(), userID, cartItemID); err != nil {
			if errors.Is(err, storage.ErrCartItemNotFound) {
				http.Error(w, "cart item not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to remove cart item", slog.Any("error", err))
			http.Error(w, "could not delete item", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(CartMessageResponse{Success: true, Message: "Item removed from cart"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
