package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
)

func (r *cartRepository) Lines(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	const query = `SELECT p.id, p.name, p.sku, p.price, p.stock_quantity, p.initial_stock, ci.quantity
                   FROM cart_items ci
                   JOIN products p ON p.id = ci.product_id
                   WHERE ci.customer_id=$1 ORDER BY ci.added_at`
	rows, err := r.storage.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		var line model.CartLine
		err := rows.Scan(&line.Product.ID, &line.Product.Name, &line.Product.SKU, &line.Product.Price,
			&line.Product.StockQuantity, &line.Product.InitialStock, &line.Quantity)
		if err != nil {
			return nil, err
		}
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) Add(ctx context.Context, customerID, productID int64, qty int) error {
	const query = `INSERT INTO cart_items (customer_id, product_id, quantity)
                   VALUES ($1, $2, $3)
                   ON CONFLICT (customer_id, product_id)
                   DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity`
	if _, err := r.storage.pool.Exec(ctx, query, customerID, productID, qty); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *cartRepository) SetQuantity(ctx context.Context, customerID, productID int64, qty int) error {
	const query = `UPDATE cart_items SET quantity=$3 WHERE customer_id=$1 AND product_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, customerID, productID, qty)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Remove(ctx context.Context, customerID, productID int64) error {
	const query = `DELETE FROM cart_items WHERE customer_id=$1 AND product_id=$2`
	tag, err := r.storage.pool.Exec(ctx, query, customerID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, customerID int64) error {
	const query = `DELETE FROM cart_items WHERE customer_id=$1`
	_, err := r.storage.pool.Exec(ctx, query, customerID)
	return err
}
