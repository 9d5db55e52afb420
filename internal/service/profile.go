package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/Debashish2005/Shopzi/internal/storage"
)

// ProfileService exposes the authenticated user's own record.
type ProfileService interface {
	GetProfile(ctx context.Context, userID int64) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int64, fullName, email, mobile string) (*models.User, error)
}

type profileService struct {
	log      *slog.Logger
	userRepo storage.UserStorage
}

func NewProfileService(log *slog.Logger, userRepo storage.UserStorage) ProfileService {
	return &profileService{log: log, userRepo: userRepo}
}

func (s *profileService) GetProfile(ctx context.Context, userID int64) (*models.User, error) {
	const op = "service.ProfileService.GetProfile"

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		s.log.Error("failed to get user", slog.String("op", op), slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to get user: %w", op, err)
	}
	return user, nil
}

func (s *profileService) UpdateProfile(ctx context.Context, userID int64, fullName, email, mobile string) (*models.User, error) {
	const op = "service.ProfileService.UpdateProfile"
	logger := s.log.With(slog.String("op", op), slog.Int64("userID", userID))

	if err := s.userRepo.UpdateUserProfile(ctx, userID, fullName, email, mobile); err != nil {
		logger.Error("failed to update user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to update user: %w", op, err)
	}

	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to reload user", slog.Any("error", err))
		return nil, fmt.Errorf("%s: failed to reload user: %w", op, err)
	}

	logger.Info("profile updated")
	return user, nil
}
