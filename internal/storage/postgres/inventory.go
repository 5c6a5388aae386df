package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
)

func (r *inventoryRepository) Reserve(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error {
	return r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		_, err := r.storage.adjustStockTx(ctx, tx, actor, productID, -qty, ref, refID)
		return err
	})
}

func (r *inventoryRepository) Release(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error {
	return r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		_, err := r.storage.adjustStockTx(ctx, tx, actor, productID, qty, ref, refID)
		return err
	})
}

func (r *inventoryRepository) Restock(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error {
	return r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		_, err := r.storage.adjustStockTx(ctx, tx, actor, productID, qty, ref, refID)
		return err
	})
}

func (r *inventoryRepository) Ledger(ctx context.Context, productID int64) ([]model.LedgerEntry, error) {
	const query = `SELECT id, product_id, change, reference, reference_id, actor_id, created_at
                   FROM inventory_ledger WHERE product_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		if err := rows.Scan(&entry.ID, &entry.ProductID, &entry.Change, &entry.Reference, &entry.ReferenceID, &entry.ActorID, &entry.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *inventoryRepository) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	const query = `SELECT id, name, sku, price, stock_quantity, initial_stock FROM products WHERE id=$1`
	var p model.Product
	err := r.storage.pool.QueryRow(ctx, query, productID).
		Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.StockQuantity, &p.InitialStock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (r *inventoryRepository) Reconcile(ctx context.Context, productID int64) (*model.StockReport, error) {
	const query = `SELECT p.stock_quantity,
                   p.initial_stock + COALESCE((SELECT SUM(change) FROM inventory_ledger WHERE product_id=p.id), 0)
                   FROM products p WHERE p.id=$1`
	var report model.StockReport
	err := r.storage.pool.QueryRow(ctx, query, productID).Scan(&report.Stored, &report.Computed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	report.ProductID = productID
	report.Consistent = report.Stored == report.Computed
	if !report.Consistent {
		r.storage.logger.Error("inventory ledger mismatch",
			"product_id", productID, "stored", report.Stored, "computed", report.Computed)
	}
	return &report, nil
}
