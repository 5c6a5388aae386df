package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
)

func (r *refundRepository) Create(ctx context.Context, actor model.Actor, orderID, paymentID int64, items []model.RefundRequestItem, reason string, restock bool) (*model.Refund, error) {
	items = foldRequestItems(items)

	var refundID int64
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		if _, err := r.storage.lockOrderTx(ctx, tx, orderID); err != nil {
			return err
		}

		const paymentQuery = `SELECT amount, state FROM payments WHERE id=$1 AND order_id=$2`
		var (
			payAmount decimal.Decimal
			state     model.PaymentState
		)
		err := tx.QueryRow(ctx, paymentQuery, paymentID, orderID).Scan(&payAmount, &state)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if state != model.PaymentStatePaid {
			return domainErrors.ErrPaymentNotRefundable
		}

		const priorQuery = `SELECT COALESCE(SUM(amount), 0) FROM refunds WHERE payment_id=$1 AND status='PROCESSED'`
		var prior decimal.Decimal
		if err := tx.QueryRow(ctx, priorQuery, paymentID).Scan(&prior); err != nil {
			return err
		}

		total := decimal.Zero
		for _, item := range items {
			total = total.Add(item.Amount)
		}
		remaining := payAmount.Sub(prior)
		if total.GreaterThan(remaining) {
			return domainErrors.RefundExceedsPaymentError{Requested: total, Available: remaining}
		}

		type release struct {
			productID int64
			quantity  int
		}
		var releases []release
		for _, item := range items {
			const itemQuery = `SELECT oi.product_id, oi.quantity, oi.total_price,
                               COALESCE((SELECT SUM(ri.quantity) FROM refund_items ri
                                         JOIN refunds rf ON rf.id=ri.refund_id
                                         WHERE ri.order_item_id=oi.id AND rf.status='PROCESSED'), 0),
                               COALESCE((SELECT SUM(ri.amount) FROM refund_items ri
                                         JOIN refunds rf ON rf.id=ri.refund_id
                                         WHERE ri.order_item_id=oi.id AND rf.status='PROCESSED'), 0)
                               FROM order_items oi WHERE oi.id=$1 AND oi.order_id=$2`
			var (
				productID                 int64
				orderedQty, refundedQty   int
				linePrice, refundedAmount decimal.Decimal
			)
			err := tx.QueryRow(ctx, itemQuery, item.OrderItemID, orderID).
				Scan(&productID, &orderedQty, &linePrice, &refundedQty, &refundedAmount)
			if err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return domainErrors.ErrNotFound
				}
				return err
			}

			if item.Quantity > orderedQty-refundedQty {
				return domainErrors.QuantityExceedsOrderedError{
					OrderItemID: item.OrderItemID,
					Requested:   item.Quantity,
					Remaining:   orderedQty - refundedQty,
				}
			}
			lineRemaining := linePrice.Sub(refundedAmount)
			if item.Amount.GreaterThan(lineRemaining) {
				return domainErrors.RefundExceedsPaymentError{Requested: item.Amount, Available: lineRemaining}
			}

			if restock {
				releases = append(releases, release{productID: productID, quantity: item.Quantity})
			}
		}

		const insertRefund = `INSERT INTO refunds (order_id, payment_id, amount, reason, status, processed_by)
                              VALUES ($1, $2, $3, $4, $5, $6)
                              RETURNING id`
		err = tx.QueryRow(ctx, insertRefund, orderID, paymentID, total, reason, model.RefundStatusProcessed, actor.UserID).Scan(&refundID)
		if err != nil {
			return err
		}

		const insertItem = `INSERT INTO refund_items (refund_id, order_item_id, quantity, amount) VALUES ($1, $2, $3, $4)`
		for _, item := range items {
			if _, err := tx.Exec(ctx, insertItem, refundID, item.OrderItemID, item.Quantity, item.Amount); err != nil {
				return err
			}
		}

		for _, rel := range releases {
			if _, err := r.storage.adjustStockTx(ctx, tx, actor, rel.productID, rel.quantity, model.LedgerRefRefund, refundID); err != nil {
				return err
			}
		}

		_, err = r.storage.recomputeTotalsTx(ctx, tx, orderID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.getByID(ctx, refundID)
}

// foldRequestItems merges entries naming the same order item, so the
// per-item quantity and amount bounds apply to the request as a whole.
func foldRequestItems(items []model.RefundRequestItem) []model.RefundRequestItem {
	folded := make([]model.RefundRequestItem, 0, len(items))
	position := make(map[int64]int, len(items))
	for _, item := range items {
		if i, ok := position[item.OrderItemID]; ok {
			folded[i].Quantity += item.Quantity
			folded[i].Amount = folded[i].Amount.Add(item.Amount)
			continue
		}
		position[item.OrderItemID] = len(folded)
		folded = append(folded, item)
	}
	return folded
}

func (r *refundRepository) getByID(ctx context.Context, id int64) (*model.Refund, error) {
	const query = `SELECT id, order_id, payment_id, amount, reason, status, processed_by, processed_at
                   FROM refunds WHERE id=$1`
	var refund model.Refund
	err := r.storage.pool.QueryRow(ctx, query, id).
		Scan(&refund.ID, &refund.OrderID, &refund.PaymentID, &refund.Amount, &refund.Reason, &refund.Status, &refund.ProcessedBy, &refund.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	items, err := r.itemsByRefund(ctx, id)
	if err != nil {
		return nil, err
	}
	refund.Items = items
	return &refund, nil
}

func (r *refundRepository) itemsByRefund(ctx context.Context, refundID int64) ([]model.RefundItem, error) {
	const query = `SELECT id, refund_id, order_item_id, quantity, amount FROM refund_items WHERE refund_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, refundID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []model.RefundItem
	for rows.Next() {
		var item model.RefundItem
		if err := rows.Scan(&item.ID, &item.RefundID, &item.OrderItemID, &item.Quantity, &item.Amount); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *refundRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.Refund, error) {
	const query = `SELECT id, order_id, payment_id, amount, reason, status, processed_by, processed_at
                   FROM refunds WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}

	var result []model.Refund
	for rows.Next() {
		var refund model.Refund
		if err := rows.Scan(&refund.ID, &refund.OrderID, &refund.PaymentID, &refund.Amount, &refund.Reason, &refund.Status, &refund.ProcessedBy, &refund.ProcessedAt); err != nil {
			rows.Close()
			return nil, err
		}
		result = append(result, refund)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range result {
		items, err := r.itemsByRefund(ctx, result[i].ID)
		if err != nil {
			return nil, err
		}
		result[i].Items = items
	}
	return result, nil
}
