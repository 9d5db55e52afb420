package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/service"
	"github.com/Debashish2005/Shopzi/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// AddProductRequest takes already-hosted image URLs; binary upload and
// image hosting belong to an external collaborator.
type AddProductRequest struct {
	Name          string              `json:"name" validate:"required"`
	Price         decimal.Decimal     `json:"price" validate:"required"`
	OriginalPrice decimal.NullDecimal `json:"original_price"`
	Description   string              `json:"description"`
	Stock         int                 `json:"stock" validate:"gte=0"`
	Category      string              `json:"category"`
	Images        []string            `json:"images" validate:"max=5"`
}

type ProductListResponse struct {
	Products []*models.Product `json:"products"`
}

type ProductResponse struct {
	Product *models.Product `json:"product"`
}

// AddProductHandler handles POST /add-product.
func AddProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.AddProductHandler"
		logger := log.With(slog.String("op", op))

		var req AddProductRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "validation error", http.StatusBadRequest)
			return
		}

		product := &models.Product{
			Name:          req.Name,
			Price:         req.Price,
			OriginalPrice: req.OriginalPrice,
			Description:   req.Description,
			Stock:         req.Stock,
			Category:      req.Category,
		}
		if _, err := catalogService.AddProduct(r.Context(), product, req.Images); err != nil {
			logger.Error("failed to add product", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(MessageResponse{Message: "Product added successfully!"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ListProductsHandler handles GET /products?search=term.
func ListProductsHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListProductsHandler"
		logger := log.With(slog.String("op", op))

		search := r.URL.Query().Get("search")

		products, err := catalogService.ListProducts(r.Context(), search)
		if err != nil {
			logger.Error("failed to list products", slog.Any("error", err))
			http.Error(w, "error fetching products", http.StatusInternalServerError)
			return
		}
		if products == nil {
			products = []*models.Product{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ProductListResponse{Products: products}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// GetProductHandler handles GET /product/{id}.
func GetProductHandler(log *slog.Logger, catalogService service.CatalogService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetProductHandler"
		logger := log.With(slog.String("op", op))

		productID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid product id", http.StatusBadRequest)
			return
		}

		product, err := catalogService.GetProduct(r.Context(), productID)
		if err != nil {
			if errors.Is(err, storage.ErrProductNotFound) {
				http.Error(w, "product not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to get product", slog.Any("error", err))
			http.Error(w, "error fetching product", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(ProductResponse{Product: product}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}
