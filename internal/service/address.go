package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/storage"
)

// AddressService manages the per-user address book. Every call carries the
// user id explicitly; ownership is enforced by the repository queries.
type AddressService interface {
	CreateAddress(ctx context.Context, userID int64, addr *models.Address) error
	ListAddresses(ctx context.Context, userID int64) ([]*models.Address, error)
	GetAddress(ctx context.Context, userID, addressID int64) (*models.Address, error)
	UpdateAddress(ctx context.Context, userID int64, addr *models.Address) error
	DeleteAddress(ctx context.Context, userID, addressID int64) error
}

type addressService struct {
	log      *slog.Logger
	addrRepo storage.AddressStorage
}

func NewAddressService(log *slog.Logger, addrRepo storage.AddressStorage) AddressService {
	return &addressService{log: log, addrRepo: addrRepo}
}

func (s *addressService) CreateAddress(ctx context.Context, userID int64, addr *models.Address) error {
	const op = "service.AddressService.CreateAddress"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	addr.UserID = userID
	if err := s.addrRepo.CreateAddress(ctx, addr); err != nil {
		logger.Error("failed to create address", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create address: %w", op, err)
	}
	logger.Info("address created", slog.Int64("addressID", addr.ID))
	return nil
}

func (s *addressService) ListAddresses(ctx context.Context, userID int64) ([]*models.Address, error) {
	const op = "service.AddressService.ListAddresses"

	addresses, err := s.addrRepo.GetAddressesByUserID(ctx, userID)
	if err != nil {
		s.log.Error("failed to list addresses", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to list addresses: %w", op, err)
	}
	return addresses, nil
}

func (s *addressService) GetAddress(ctx context.Context, userID, addressID int64) (*models.Address, error) {
	const op = "service.AddressService.GetAddress"

	addr, err := s.addrRepo.GetAddressByID(ctx, addressID, userID)
	if err != nil {
		s.log.Error("failed to get address", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get address: %w", op, err)
	}
	return addr, nil
}

func (s *addressService) UpdateAddress(ctx context.Context, userID int64, addr *models.Address) error {
	const op = "service.AddressService.UpdateAddress"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("addressID", addr.ID))

	addr.UserID = userID
	if err := s.addrRepo.UpdateAddress(ctx, addr); err != nil {
		logger.Error("failed to update address", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update address: %w", op, err)
	}
	logger.Info("address updated")
	return nil
}

func (s *addressService) DeleteAddress(ctx context.Context, userID, addressID int64) error {
	const op = "service.AddressService.DeleteAddress"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID), slog.Int64("addressID", addressID))

	if err := s.addrRepo.DeleteAddress(ctx, addressID, userID); err != nil {
		logger.Error("failed to delete address", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete address: %w", op, err)
	}
	logger.Info("address deleted")
	return nil
}
