package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
)

func (r *customerRepository) GetAddress(ctx context.Context, addressID int64) (*model.Address, error) {
	const query = `SELECT id, customer_id, role, recipient, street, city, country FROM addresses WHERE id=$1`
	var a model.Address
	err := r.storage.pool.QueryRow(ctx, query, addressID).
		Scan(&a.ID, &a.CustomerID, &a.Role, &a.Recipient, &a.Street, &a.City, &a.Country)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *customerRepository) GetPaymentMethod(ctx context.Context, methodID int64) (*model.PaymentMethod, error) {
	const query = `SELECT id, customer_id, method_type, label FROM payment_methods WHERE id=$1`
	var m model.PaymentMethod
	err := r.storage.pool.QueryRow(ctx, query, methodID).
		Scan(&m.ID, &m.CustomerID, &m.MethodType, &m.Label)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
