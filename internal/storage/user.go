package storage

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists / ErrMobileExists surface unique-constraint hits on
	// insert, closing the race the pre-insert duplicate check leaves open.
	ErrEmailExists  = errors.New("email already exists")
	ErrMobileExists = errors.New("mobile already exists")
)

type UserStorage interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	// GetUserByEmailOrMobile backs the duplicate check at signup.
	GetUserByEmailOrMobile(ctx context.Context, email, mobile string) (*models.User, error)
	UpdateUserProfile(ctx context.Context, id int64, fullName, email, mobile string) error
	UpdateUserPassword(ctx context.Context, id int64, passHash []byte) error
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *userRepository {
	return &userRepository{db: db}
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	var id int64
	err := r.db.QueryRowContext(ctx,
		"INSERT INTO users (full_name, email, mobile, password_hash) VALUES ($1, $2, $3, $4) RETURNING id",
		user.FullName, user.Email, user.Mobile, user.PassHash,
	).Scan(&id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" { // unique_violation
			switch pqErr.Constraint {
			case "users_email_key":
				return nil, ErrEmailExists
			case "users_mobile_key":
				return nil, ErrMobileExists
			}
		}
		return nil, err
	}
	user.ID = id
	return user, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, full_name, email, mobile, password_hash FROM users WHERE email = $1", email)
	if err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Mobile, &user.PassHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, full_name, email, mobile, password_hash FROM users WHERE id = $1", id)
	if err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Mobile, &user.PassHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) GetUserByEmailOrMobile(ctx context.Context, email, mobile string) (*models.User, error) {
	user := &models.User{}
	row := r.db.QueryRowContext(ctx,
		"SELECT id, full_name, email, mobile, password_hash FROM users WHERE email = $1 OR mobile = $2", email, mobile)
	if err := row.Scan(&user.ID, &user.FullName, &user.Email, &user.Mobile, &user.PassHash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (r *userRepository) UpdateUserProfile(ctx context.Context, id int64, fullName, email, mobile string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET full_name = $1, email = $2, mobile = $3 WHERE id = $4",
		fullName, email, mobile, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, id int64, passHash []byte) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE users SET password_hash = $1 WHERE id = $2", passHash, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}
