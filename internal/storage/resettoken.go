package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
)

var ErrTokenNotFound = errors.New("reset token not found")

// ResetTokenStorage persists single-use password-reset tokens.
type ResetTokenStorage interface {
	CreateToken(ctx context.Context, userID int64, token string) error
	GetToken(ctx context.Context, token string) (*models.PasswordResetToken, error)
	DeleteToken(ctx context.Context, token string) error
}

type resetTokenRepository struct {
	db *sql.DB
}

func NewResetTokenRepository(db *sql.DB) ResetTokenStorage {
	return &resetTokenRepository{db: db}
}

func (r *resetTokenRepository) CreateToken(ctx context.Context, userID int64, token string) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO password_reset_tokens (user_id, token) VALUES ($1, $2)", userID, token)
	if err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}
	return nil
}

func (r *resetTokenRepository) GetToken(ctx context.Context, token string) (*models.PasswordResetToken, error) {
	t := &models.PasswordResetToken{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, user_id, token, created_at FROM password_reset_tokens WHERE token = $1", token)
	if err := row.Scan(&t.ID, &t.UserID, &t.Token, &t.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTokenNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *resetTokenRepository) DeleteToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM password_reset_tokens WHERE token = $1", token)
	if err != nil {
		return fmt.Errorf("failed to delete reset token: %w", err)
	}
	return nil
}
