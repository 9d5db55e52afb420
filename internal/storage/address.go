package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Debashish2005/Shopzi/internal/domain/models"
)

var ErrAddressNotFound = errors.New("address not found")

// AddressStorage scopes every operation by user id, so one user can never
// read or mutate another user's address book.
type AddressStorage interface {
	CreateAddress(ctx context.Context, addr *models.Address) error
	GetAddressesByUserID(ctx context.Context, userID int64) ([]*models.Address, error)
	GetAddressByID(ctx context.Context, id, userID int64) (*models.Address, error)
	UpdateAddress(ctx context.Context, addr *models.Address) error
	DeleteAddress(ctx context.Context, id, userID int64) error
	// GetAddressByIDTx is the ownership check inside the order-placement
	// transaction.
	GetAddressByIDTx(ctx context.Context, tx *sql.Tx, id, userID int64) (*models.Address, error)
}

type addressRepository struct {
	db *sql.DB
}

func NewAddressRepository(db *sql.DB) AddressStorage {
	return &addressRepository{db: db}
}

func (r *addressRepository) CreateAddress(ctx context.Context, addr *models.Address) error {
	var id int64
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO addresses (user_id, name, street, city, state, pincode)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		addr.UserID, addr.Name, addr.Street, addr.City, addr.State, addr.Pincode,
	).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to create address: %w", err)
	}
	addr.ID = id
	return nil
}

func (r *addressRepository) GetAddressesByUserID(ctx context.Context, userID int64) ([]*models.Address, error) {
	query := `
		SELECT id, name, street, city, state, pincode, created_at
		FROM addresses
		WHERE user_id = $1
		ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var addresses []*models.Address
	for rows.Next() {
		addr := &models.Address{UserID: userID}
		if err := rows.Scan(&addr.ID, &addr.Name, &addr.Street, &addr.City,
			&addr.State, &addr.Pincode, &addr.CreatedAt); err != nil {
			return nil, err
		}
		addresses = append(addresses, addr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (r *addressRepository) GetAddressByID(ctx context.Context, id, userID int64) (*models.Address, error) {
	addr := &models.Address{UserID: userID}
	row := r.db.QueryRowContext(ctx,
		`SELECT id, name, street, city, state, pincode, created_at
		 FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err := row.Scan(&addr.ID, &addr.Name, &addr.Street, &addr.City,
		&addr.State, &addr.Pincode, &addr.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return addr, nil
}

func (r *addressRepository) UpdateAddress(ctx context.Context, addr *models.Address) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE addresses
		 SET name = $1, street = $2, city = $3, state = $4, pincode = $5
		 WHERE id = $6 AND user_id = $7`,
		addr.Name, addr.Street, addr.City, addr.State, addr.Pincode, addr.ID, addr.UserID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *addressRepository) DeleteAddress(ctx context.Context, id, userID int64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM addresses WHERE id = $1 AND user_id = $2", id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrAddressNotFound
	}
	return nil
}

func (r *addressRepository) GetAddressByIDTx(ctx context.Context, tx *sql.Tx, id, userID int64) (*models.Address, error) {
	addr := &models.Address{UserID: userID}
	row := tx.QueryRowContext(ctx,
		`SELECT id, name, street, city, state, pincode, created_at
		 FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err := row.Scan(&addr.ID, &addr.Name, &addr.Street, &addr.City,
		&addr.State, &addr.Pincode, &addr.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAddressNotFound
		}
		return nil, err
	}
	return addr, nil
}
