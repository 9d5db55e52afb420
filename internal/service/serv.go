package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	security "github.com/Debashish2005/Shopzi/internal/jwt"
	"github.com/Debashish2005/Shopzi/internal/mail"
	"github.com/Debashish2005/Shopzi/internal/storage"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceInterface interface {
	SignUp(ctx context.Context, fullName, email, mobile, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, password string) error
}

type AuthService struct {
	log         *slog.Logger
	userRepo    storage.UserStorage
	tokenRepo   storage.ResetTokenStorage
	mailer      mail.Mailer
	tokenTTL    time.Duration
	frontendURL string
}

func NewAuthService(log *slog.Logger, userRepo storage.UserStorage, tokenRepo storage.ResetTokenStorage, mailer mail.Mailer, tokenTTL time.Duration, frontendURL string) *AuthService {
	return &AuthService{
		log:         log,
		userRepo:    userRepo,
		tokenRepo:   tokenRepo,
		mailer:      mailer,
		tokenTTL:    tokenTTL,
		frontendURL: frontendURL,
	}
}

// SignUp registers a new user. Email and mobile must both be unused; the
// password is stored as a bcrypt hash (bcrypt salts automatically).
func (a *AuthService) SignUp(ctx context.Context, fullName, email, mobile, password string) error {
	const op = "auth.SignUp"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("registering user")

	existing, err := a.userRepo.GetUserByEmailOrMobile(ctx, email, mobile)
	if err != nil && !errors.Is(err, storage.ErrUserNotFound) {
		logger.Error("failed to check existing user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to check existing user: %w", op, err)
	}
	if existing != nil {
		if existing.Email == email {
			logger.Warn("email already registered")
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		}
		logger.Warn("mobile already registered")
		return fmt.Errorf("%s: %w", op, ErrMobileTaken)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	newUser := &models.User{
		FullName: fullName,
		Email:    email,
		Mobile:   mobile,
		PassHash: passHash,
	}
	if _, err := a.userRepo.CreateUser(ctx, newUser); err != nil {
		// a concurrent signup can slip past the pre-insert check and hit
		// the unique constraint instead
		switch {
		case errors.Is(err, storage.ErrEmailExists):
			logger.Warn("email already registered")
			return fmt.Errorf("%s: %w", op, ErrEmailTaken)
		case errors.Is(err, storage.ErrMobileExists):
			logger.Warn("mobile already registered")
			return fmt.Errorf("%s: %w", op, ErrMobileTaken)
		}
		logger.Error("failed to create user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to create user: %w", op, err)
	}

	logger.Info("user registered", slog.Int64("userID", newUser.ID))
	return nil
}

// Login verifies the credentials and returns a signed session token.
// The JWT secret is loaded from the environment inside security.NewToken.
func (a *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	const op = "auth.Login"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))
	logger.Info("checking user")

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
			return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		logger.Error("failed to get user", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		logger.Warn("invalid password")
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := security.NewToken(ctx, user, a.tokenTTL)
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return "", fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	logger.Info("user logged in successfully", slog.Int64("userID", user.ID))
	return token, nil
}

// ChangePassword rehashes the password after verifying the current one.
func (a *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	const op = "auth.ChangePassword"
	logger := a.log.With(slog.String("op", op), slog.Int64("userID", userID))

	user, err := a.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		logger.Error("failed to get user", slog.Any("error", err))
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(currentPassword)); err != nil {
		logger.Warn("incorrect current password")
		return fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	if err := a.userRepo.UpdateUserPassword(ctx, userID, passHash); err != nil {
		logger.Error("failed to update password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update password: %w", op, err)
	}

	logger.Info("password changed")
	return nil
}

// ForgotPassword stores a random single-use token and mails a reset link.
func (a *AuthService) ForgotPassword(ctx context.Context, email string) error {
	const op = "auth.ForgotPassword"
	logger := a.log.With(slog.String("op", op), slog.String("email", email))

	user, err := a.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			logger.Warn("user not found")
		} else {
			logger.Error("failed to get user", slog.Any("error", err))
		}
		return fmt.Errorf("%s: failed to get user: %w", op, err)
	}

	token, err := newResetToken()
	if err != nil {
		logger.Error("failed to generate token", slog.Any("error", err))
		return fmt.Errorf("%s: failed to generate token: %w", op, err)
	}

	if err := a.tokenRepo.CreateToken(ctx, user.ID, token); err != nil {
		logger.Error("failed to save token", slog.Any("error", err))
		return fmt.Errorf("%s: failed to save token: %w", op, err)
	}

	resetLink := a.frontendURL + "/reset-password/" + token
	if err := a.mailer.SendPasswordReset(ctx, user.Email, user.FullName, resetLink); err != nil {
		logger.Error("failed to send reset mail", slog.Any("error", err))
		return fmt.Errorf("%s: failed to send reset mail: %w", op, err)
	}

	logger.Info("reset mail sent", slog.Int64("userID", user.ID))
	return nil
}

// ResetPassword consumes the token and sets the new password.
func (a *AuthService) ResetPassword(ctx context.Context, token, password string) error {
	const op = "auth.ResetPassword"
	logger := a.log.With(slog.String("op", op))

	t, err := a.tokenRepo.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, storage.ErrTokenNotFound) {
			logger.Warn("invalid or expired token")
		} else {
			logger.Error("failed to get token", slog.Any("error", err))
		}
		return fmt.Errorf("%s: failed to get token: %w", op, err)
	}

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error("failed to hash password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to hash password: %w", op, err)
	}

	if err := a.userRepo.UpdateUserPassword(ctx, t.UserID, passHash); err != nil {
		logger.Error("failed to update password", slog.Any("error", err))
		return fmt.Errorf("%s: failed to update password: %w", op, err)
	}

	if err := a.tokenRepo.DeleteToken(ctx, token); err != nil {
		logger.Error("failed to delete token", slog.Any("error", err))
		return fmt.Errorf("%s: failed to delete token: %w", op, err)
	}

	logger.Info("password reset", slog.Int64("userID", t.UserID))
	return nil
}

func newResetToken() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
