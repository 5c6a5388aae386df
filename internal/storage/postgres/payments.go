package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
)

const paymentColumns = `id, order_id, customer_id, amount, method, transaction_id, checkout_ref, state, receipt_number, created_at, settled_at`

func scanPayment(row pgx.Row) (*model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.CustomerID, &p.Amount, &p.Method, &p.TransactionID,
		&p.CheckoutRef, &p.State, &p.ReceiptNumber, &p.CreatedAt, &p.SettledAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// availableTx is the amount new charges may claim: balance due minus charges
// still pending at the gateway. Keeps the sum of settled payments within the
// order total even when a manual payment races a gateway settlement.
func (r *paymentRepository) availableTx(ctx context.Context, tx pgx.Tx, orderID int64) (decimal.Decimal, error) {
	balance, err := r.storage.recomputeTotalsTx(ctx, tx, orderID)
	if err != nil {
		return decimal.Zero, err
	}

	const query = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE order_id=$1 AND state='PENDING'`
	var pending decimal.Decimal
	if err := tx.QueryRow(ctx, query, orderID).Scan(&pending); err != nil {
		return decimal.Zero, err
	}

	available := balance.Sub(pending)
	if available.IsNegative() {
		available = decimal.Zero
	}
	return available, nil
}

func (r *paymentRepository) Apply(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, decimal.Decimal, error) {
	var (
		payment *model.Payment
		balance decimal.Decimal
	)
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		row, err := r.storage.lockOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if actor.IsCustomer() && row.customerID != actor.UserID {
			return domainErrors.ErrForbidden
		}

		available, err := r.availableTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(available) {
			return domainErrors.OverpaymentError{Requested: amount, Balance: available}
		}

		p := model.Payment{
			OrderID:       orderID,
			CustomerID:    row.customerID,
			Amount:        amount,
			Method:        method,
			TransactionID: uuid.NewString(),
			State:         model.PaymentStatePaid,
		}
		const insertQuery = `INSERT INTO payments (order_id, customer_id, amount, method, transaction_id, state, settled_at)
                             VALUES ($1, $2, $3, $4, $5, $6, NOW())
                             RETURNING id, created_at, settled_at`
		err = tx.QueryRow(ctx, insertQuery, p.OrderID, p.CustomerID, p.Amount, p.Method, p.TransactionID, p.State).
			Scan(&p.ID, &p.CreatedAt, &p.SettledAt)
		if err != nil {
			return err
		}

		balance, err = r.storage.recomputeTotalsTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		payment = &p
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return payment, balance, nil
}

func (r *paymentRepository) ClearBalance(ctx context.Context, actor model.Actor, orderID int64, method string) (*model.Payment, error) {
	var payment *model.Payment
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		if _, err := r.storage.lockOrderTx(ctx, tx, orderID); err != nil {
			return err
		}

		balance, err := r.storage.recomputeTotalsTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if !balance.IsPositive() {
			return domainErrors.ErrInvalidAmount
		}

		p := model.Payment{
			OrderID:       orderID,
			Amount:        balance,
			Method:        method,
			TransactionID: uuid.NewString(),
			State:         model.PaymentStatePaid,
		}
		const insertQuery = `INSERT INTO payments (order_id, customer_id, amount, method, transaction_id, state, settled_at)
                             VALUES ($1, (SELECT customer_id FROM orders WHERE id=$1), $2, $3, $4, $5, NOW())
                             RETURNING id, customer_id, created_at, settled_at`
		err = tx.QueryRow(ctx, insertQuery, p.OrderID, p.Amount, p.Method, p.TransactionID, p.State).
			Scan(&p.ID, &p.CustomerID, &p.CreatedAt, &p.SettledAt)
		if err != nil {
			return err
		}

		if _, err := r.storage.recomputeTotalsTx(ctx, tx, orderID); err != nil {
			return err
		}
		payment = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) RecordPending(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method, checkoutRef string) (*model.Payment, error) {
	var payment *model.Payment
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		row, err := r.storage.lockOrderTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if actor.IsCustomer() && row.customerID != actor.UserID {
			return domainErrors.ErrForbidden
		}

		available, err := r.availableTx(ctx, tx, orderID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(available) {
			return domainErrors.OverpaymentError{Requested: amount, Balance: available}
		}

		p := model.Payment{
			OrderID:       orderID,
			CustomerID:    row.customerID,
			Amount:        amount,
			Method:        method,
			TransactionID: uuid.NewString(),
			CheckoutRef:   checkoutRef,
			State:         model.PaymentStatePending,
		}
		const insertQuery = `INSERT INTO payments (order_id, customer_id, amount, method, transaction_id, checkout_ref, state)
                             VALUES ($1, $2, $3, $4, $5, $6, $7)
                             RETURNING id, created_at`
		err = tx.QueryRow(ctx, insertQuery, p.OrderID, p.CustomerID, p.Amount, p.Method, p.TransactionID, p.CheckoutRef, p.State).
			Scan(&p.ID, &p.CreatedAt)
		if err != nil {
			return err
		}
		payment = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) SettleByReference(ctx context.Context, result model.GatewayResult) (*model.Payment, error) {
	var payment *model.Payment
	err := r.storage.withRetry(ctx, func(tx pgx.Tx) error {
		// Resolve the order first to keep the order-then-payment lock order
		// shared with Apply.
		const refQuery = `SELECT order_id FROM payments WHERE checkout_ref=$1`
		var orderID int64
		err := tx.QueryRow(ctx, refQuery, result.CheckoutRef).Scan(&orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if _, err := r.storage.lockOrderTx(ctx, tx, orderID); err != nil {
			return err
		}

		lockQuery := `SELECT ` + paymentColumns + ` FROM payments WHERE checkout_ref=$1 FOR UPDATE`
		p, err := scanPayment(tx.QueryRow(ctx, lockQuery, result.CheckoutRef))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domainErrors.ErrNotFound
			}
			return err
		}
		if p.Settled() {
			payment = p
			return nil
		}

		state := model.PaymentStateFailed
		if result.Succeeded() {
			state = model.PaymentStatePaid
		}

		const settleQuery = `UPDATE payments SET state=$2, receipt_number=$3, settled_at=NOW() WHERE id=$1 RETURNING settled_at`
		var settledAt time.Time
		if err := tx.QueryRow(ctx, settleQuery, p.ID, state, result.ReceiptNumber).Scan(&settledAt); err != nil {
			return err
		}
		p.State = state
		p.ReceiptNumber = result.ReceiptNumber
		p.SettledAt = &settledAt

		if result.Succeeded() {
			if _, err := r.storage.recomputeTotalsTx(ctx, tx, orderID); err != nil {
				return err
			}
		} else {
			r.storage.logger.Info("gateway charge failed",
				"checkout_ref", result.CheckoutRef, "result_code", result.ResultCode, "result_desc", result.ResultDesc)
		}
		payment = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.Payment, error) {
	query := `SELECT ` + paymentColumns + ` FROM payments WHERE order_id=$1 ORDER BY id`
	rows, err := r.storage.pool.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *paymentRepository) SelectPendingGateway(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	selectQuery := `SELECT ` + paymentColumns + ` FROM payments
                    WHERE state='PENDING' AND checkout_ref <> ''
                      AND created_at < NOW() - make_interval(secs => $1)
                    ORDER BY created_at
                    LIMIT $2
                    FOR UPDATE SKIP LOCKED`

	var payments []model.Payment
	err := r.storage.WithinTransaction(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, selectQuery, olderThan.Seconds(), limit)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			p, err := scanPayment(rows)
			if err != nil {
				return err
			}
			payments = append(payments, *p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return payments, nil
}

func (r *paymentRepository) InvoiceByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	const query = `SELECT id, order_id, invoice_number, amount, issued_at FROM invoices WHERE order_id=$1`
	var inv model.Invoice
	err := r.storage.pool.QueryRow(ctx, query, orderID).Scan(&inv.ID, &inv.OrderID, &inv.InvoiceNumber, &inv.Amount, &inv.IssuedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}
