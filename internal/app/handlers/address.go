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

type AddressRequest struct {
	Name    string `json:"name" validate:"required"`
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	State   string `json:"state" validate:"required"`
	Pincode string `json:"pincode" validate:"required"`
}

type AddressListResponse struct {
	Addresses []*models.Address `json:"addresses"`
}

type AddressResponse struct {
	Address *models.Address `json:"address"`
}

// CreateAddressHandler handles POST /addresses.
func CreateAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.CreateAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var req AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "all fields are required", http.StatusBadRequest)
			return
		}

		addr := &models.Address{
			Name:    req.Name,
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			Pincode: req.Pincode,
		}
		if err := addressService.CreateAddress(r.Context(), userID, addr); err != nil {
			logger.Error("failed to create address", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		if err := json.NewEncoder(w).Encode(MessageResponse{Message: "Address added"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// ListAddressesHandler handles GET /addresses.
func ListAddressesHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.ListAddressesHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		addresses, err := addressService.ListAddresses(r.Context(), userID)
		if err != nil {
			logger.Error("failed to list addresses", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if addresses == nil {
			addresses = []*models.Address{}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(AddressListResponse{Addresses: addresses}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// GetAddressHandler handles GET /address/{id}.
func GetAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.GetAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		addressID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid address id", http.StatusBadRequest)
			return
		}

		addr, err := addressService.GetAddress(r.Context(), userID, addressID)
		if err != nil {
			if errors.Is(err, storage.ErrAddressNotFound) {
				http.Error(w, "address not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to get address", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(AddressResponse{Address: addr}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
		}
	}
}

// UpdateAddressHandler handles PUT /address/{id}.
func UpdateAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.UpdateAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		addressID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid address id", http.StatusBadRequest)
			return
		}

		var req AddressRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.Error("invalid request: decoding error", slog.Any("error", err))
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}

		if err := validate.Struct(req); err != nil {
			logger.Error("invalid request: validation error", slog.Any("error", err))
			http.Error(w, "all fields are required", http.StatusBadRequest)
			return
		}

		addr := &models.Address{
			ID:      addressID,
			Name:    req.Name,
			Street:  req.Street,
			City:    req.City,
			State:   req.State,
			Pincode: req.Pincode,
		}
		if err := addressService.UpdateAddress(r.Context(), userID, addr); err != nil {
			if errors.Is(err, storage.ErrAddressNotFound) {
				http.Error(w, "address not found or not authorized", http.StatusNotFound)
				return
			}
			logger.Error("failed to update address", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(MessageResponse{Message: "Address updated successfully"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}

// DeleteAddressHandler handles DELETE /addresses/{id}.
func DeleteAddressHandler(log *slog.Logger, addressService service.AddressService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handlers.DeleteAddressHandler"
		logger := log.With(slog.String("op", op))

		userID, ok := jwtmiddleware.FromContext(r.Context())
		if !ok {
			logger.Error("userID not found in context")
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		addressID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			http.Error(w, "invalid address id", http.StatusBadRequest)
			return
		}

		if err := addressService.DeleteAddress(r.Context(), userID, addressID); err != nil {
			if errors.Is(err, storage.ErrAddressNotFound) {
				http.Error(w, "address not found", http.StatusNotFound)
				return
			}
			logger.Error("failed to delete address", slog.Any("error", err))
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(MessageResponse{Message: "Address deleted"}); err != nil {
			logger.Error("failed to encode response", slog.Any("error", err))
		}
	}
}
