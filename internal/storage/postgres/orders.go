package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
)

// orderColumns includes the balance due derived from settled payments and
// processed refunds, clamped to zero after scanning.
const orderColumns = `o.id, o.customer_id, o.shipping_address_id, o.billing_address_id, o.payment_method_id,
       o.order_number, o.status, o.payment_status,
       o.subtotal, o.shipping_cost, o.tax_amount, o.discount_amount, o.total_amount,
       o.total_amount
         - COALESCE((SELECT SUM(amount) FROM payments WHERE order_id=o.id AND state='PAID'), 0)
         + COALESCE((SELECT SUM(amount) FROM refunds WHERE order_id=o.id AND status='PROCESSED'), 0),
       o.created_at, o.updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.CustomerID, &o.ShippingAddressID, &o.BillingAddressID, &o.PaymentMethodID,
		&o.OrderNumber, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.ShippingCost, &o.TaxAmount, &o.DiscountAmount, &o.TotalAmount,
		&o.BalanceDue, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if o.BalanceDue.IsNegative() {
		o.BalanceDue = decimal.Zero
	}
	return &o, nil
}

func (r *orderRepository) CreateFromCart(ctx context.Context, actor model.Actor, in model.CheckoutInput) (*model.Order, error) {
	var orderID int64
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		// Cart lines sorted by product id so concurrent checkouts take
		// product locks in the same order.
		const cartQuery = `SELECT product_id, quantity FROM cart_items WHERE customer_id=$1 ORDER BY product_id`
		rows, err := tx.Query(ctx, cartQuery, in.CustomerID)
		if err != nil {
			return err
		}
		type cartLine struct {
			productID int64
			quantity  int
		}
		var lines []cartLine
		for rows.Next() {
			var line cartLine
			if err := rows.Scan(&line.productID, &line.quantity); err != nil {
				rows.Close()
				return err
			}
			lines = append(lines, line)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}
		if len(lines) == 0 {
			return domainErrors.ErrEmptyCart
		}

		const insertOrder = `INSERT INTO orders (customer_id, shipping_address_id, billing_address_id, payment_method_id,
                                                 status, shipping_cost, tax_amount, discount_amount)
                             VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
                             RETURNING id`
		err = tx.QueryRow(ctx, insertOrder, in.CustomerID, in.ShippingAddressID, in.BillingAddressID, in.PaymentMethodID,
			model.OrderStatusPending, in.ShippingCost, in.TaxAmount, in.DiscountAmount).Scan(&orderID)
		if err != nil {
			return err
		}

		for _, line := range lines {
			price, err := r.storage.adjustStockTx(ctx, tx, actor, line.productID, -line.quantity, model.LedgerRefOrder, orderID)
			if err != nil {
				return err
			}
			lineTotal := price.Mul(decimal.NewFromInt(int64(line.quantity)))
			const insertItem = `INSERT INTO order_items (order_id, product_id, quantity, unit_price, total_price)
                                VALUES ($1, $2, $3, $4, $5)`
			if _, err := tx.Exec(ctx, insertItem, orderID, line.productID, line.quantity, price, lineTotal); err != nil {
				return err
			}
		}

		const numberQuery = `UPDATE orders SET order_number=$2 WHERE id=$1`
		if _, err := tx.Exec(ctx, numberQuery, orderID, fmt.Sprintf("ORD%06d", orderID)); err != nil {
			return err
		}

		if _, err := r.storage.recomputeTotalsTx(ctx, tx, orderID); err != nil {
			return err
		}
		if err := r.storage.appendHistoryTx(ctx, tx, orderID, model.OrderStatusPending, actor.UserID, "order created"); err != nil {
			return err
		}

		const clearQuery = `DELETE FROM cart_items WHERE customer_id=$1`
		_, err = tx.Exec(ctx, clearQuery, in.CustomerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.id=$1`
	order, err := scanOrder(r.storage.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}

	const itemsQuery = `SELECT id, order_id, product_id, quantity, unit_price, discount, total_price
                        FROM order_items WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, itemsQuery, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.Quantity, &item.UnitPrice, &item.Discount, &item.TotalPrice); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o WHERE o.customer_id=$1 ORDER BY o.created_at DESC`
	return r.list(ctx, query, customerID)
}

func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders o ORDER BY o.created_at DESC`
	return r.list(ctx, query)
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.storage.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error) {
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		row, err := r.storage.lockOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		// Customers may only cancel their own orders; everything else is staff.
		if actor.IsCustomer() {
			if row.customerID != actor.UserID || target != model.OrderStatusCancelled {
				return domainErrors.ErrForbidden
			}
		}
		if err := row.status.Transition(target); err != nil {
			return err
		}
		return r.applyTransitionTx(ctx, tx, actor, row, target, "")
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

// applyTransitionTx enforces the guard tied to the target status, then
// persists the transition and its history entry.
func (r *orderRepository) applyTransitionTx(ctx context.Context, tx pgx.Tx, actor model.Actor, row *orderRow, target model.OrderStatus, note string) error {
	switch target {
	case model.OrderStatusDelivered:
		balance, err := r.storage.recomputeTotalsTx(ctx, tx, row.id)
		if err != nil {
			return err
		}
		if balance.IsPositive() {
			return domainErrors.ErrPaymentIncomplete
		}
	case model.OrderStatusCancelled:
		if err := r.releaseItemsTx(ctx, tx, actor, row.id); err != nil {
			return err
		}
	case model.OrderStatusRefunded, model.OrderStatusReturned:
		const query = `SELECT EXISTS (SELECT 1 FROM payments WHERE order_id=$1 AND state='PAID')`
		var hasPayment bool
		if err := tx.QueryRow(ctx, query, row.id).Scan(&hasPayment); err != nil {
			return err
		}
		if !hasPayment {
			return domainErrors.ErrNoPayment
		}
	}

	const updateQuery = `UPDATE orders SET status=$2, updated_at=NOW() WHERE id=$1`
	if _, err := tx.Exec(ctx, updateQuery, row.id, target); err != nil {
		return err
	}
	return r.storage.appendHistoryTx(ctx, tx, row.id, target, actor.UserID, note)
}

// releaseItemsTx returns every reserved quantity to stock on cancellation.
func (r *orderRepository) releaseItemsTx(ctx context.Context, tx pgx.Tx, actor model.Actor, orderID int64) error {
	const query = `SELECT product_id, quantity FROM order_items WHERE order_id=$1 ORDER BY product_id`
	rows, err := tx.Query(ctx, query, orderID)
	if err != nil {
		return err
	}
	type reservation struct {
		productID int64
		quantity  int
	}
	var reservations []reservation
	for rows.Next() {
		var res reservation
		if err := rows.Scan(&res.productID, &res.quantity); err != nil {
			rows.Close()
			return err
		}
		reservations = append(reservations, res)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, res := range reservations {
		if _, err := r.storage.adjustStockTx(ctx, tx, actor, res.productID, res.quantity, model.LedgerRefOrder, orderID); err != nil {
			return err
		}
	}
	return nil
}

func (r *orderRepository) Resume(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		row, err := r.storage.lockOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}

		// The last non-hold history entry is where the order goes back to.
		const prevQuery = `SELECT status FROM order_status_history
                           WHERE order_id=$1 AND status <> 'ON_HOLD'
                           ORDER BY id DESC LIMIT 1`
		var prev model.OrderStatus
		err = tx.QueryRow(ctx, prevQuery, orderID).Scan(&prev)
		if errors.Is(err, pgx.ErrNoRows) {
			prev = model.OrderStatusPending
		} else if err != nil {
			return err
		}

		if err := row.status.Transition(prev); err != nil {
			return err
		}
		return r.applyTransitionTx(ctx, tx, actor, row, prev, "resumed from hold")
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, orderID)
}

func (r *orderRepository) History(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	const query = `SELECT id, order_id, status, actor_id, note, changed_at
                   FROM order_status_history WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusChange
	for rows.Next() {
		var change model.StatusChange
		if err := rows.Scan(&change.ID, &change.OrderID, &change.Status, &change.ActorID, &change.Note, &change.ChangedAt); err != nil {
			return nil, err
		}
		result = append(result, change)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
