package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/domain/repository"
)

// pgxPool is the slice of pgxpool.Pool the storage uses; kept as an interface
// so tests can substitute a mock pool.
type pgxPool interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

var newPgxPool = func(ctx context.Context, cfg *pgxpool.Config) (pgxPool, error) {
	return pgxpool.NewWithConfig(ctx, cfg)
}

// retryBackoff is the pause before the single retry of a transient failure.
var retryBackoff = 100 * time.Millisecond

// Storage acts as repository facade backed by PostgreSQL.
type Storage struct {
	pool   pgxPool
	logger *slog.Logger
}

type orderRepository struct {
	storage *Storage
}

type paymentRepository struct {
	storage *Storage
}

type refundRepository struct {
	storage *Storage
}

type inventoryRepository struct {
	storage *Storage
}

type cartRepository struct {
	storage *Storage
}

type customerRepository struct {
	storage *Storage
}

// New creates storage with schema initialization.
func New(ctx context.Context, dsn string, logger *slog.Logger) (*Storage, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}

	pool, err := newPgxPool(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect db: %w", err)
	}

	storage := &Storage{pool: pool, logger: logger}
	if err := storage.initSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return storage, nil
}

// Close releases database resources.
func (s *Storage) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// Factory methods for domain repositories.
func (s *Storage) Orders() repository.OrderRepository {
	return &orderRepository{storage: s}
}

func (s *Storage) Payments() repository.PaymentRepository {
	return &paymentRepository{storage: s}
}

func (s *Storage) Refunds() repository.RefundRepository {
	return &refundRepository{storage: s}
}

func (s *Storage) Inventory() repository.InventoryRepository {
	return &inventoryRepository{storage: s}
}

func (s *Storage) Carts() repository.CartRepository {
	return &cartRepository{storage: s}
}

func (s *Storage) Customers() repository.CustomerRepository {
	return &customerRepository{storage: s}
}

func (s *Storage) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS customers (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            email TEXT UNIQUE NOT NULL,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS addresses (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            role TEXT NOT NULL,
            recipient TEXT NOT NULL DEFAULT '',
            street TEXT NOT NULL,
            city TEXT NOT NULL,
            country TEXT NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS payment_methods (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            method_type TEXT NOT NULL,
            label TEXT NOT NULL DEFAULT ''
        )`,
		`CREATE TABLE IF NOT EXISTS products (
            id BIGSERIAL PRIMARY KEY,
            name TEXT NOT NULL,
            sku TEXT UNIQUE NOT NULL,
            price NUMERIC(12,2) NOT NULL,
            stock_quantity INT NOT NULL DEFAULT 0 CHECK (stock_quantity >= 0),
            initial_stock INT NOT NULL DEFAULT 0
        )`,
		`CREATE TABLE IF NOT EXISTS cart_items (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            product_id BIGINT NOT NULL REFERENCES products(id),
            quantity INT NOT NULL CHECK (quantity > 0),
            added_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            UNIQUE (customer_id, product_id)
        )`,
		`CREATE TABLE IF NOT EXISTS orders (
            id BIGSERIAL PRIMARY KEY,
            customer_id BIGINT NOT NULL REFERENCES customers(id),
            shipping_address_id BIGINT NOT NULL REFERENCES addresses(id),
            billing_address_id BIGINT NOT NULL REFERENCES addresses(id),
            payment_method_id BIGINT NOT NULL REFERENCES payment_methods(id),
            order_number TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            payment_status TEXT NOT NULL DEFAULT 'UNPAID',
            subtotal NUMERIC(12,2) NOT NULL DEFAULT 0,
            shipping_cost NUMERIC(12,2) NOT NULL DEFAULT 0,
            tax_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            discount_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            total_amount NUMERIC(12,2) NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS order_items (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            product_id BIGINT NOT NULL REFERENCES products(id),
            quantity INT NOT NULL CHECK (quantity > 0),
            unit_price NUMERIC(12,2) NOT NULL,
            discount NUMERIC(12,2) NOT NULL DEFAULT 0,
            total_price NUMERIC(12,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS order_status_history (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
            status TEXT NOT NULL,
            actor_id BIGINT NOT NULL,
            note TEXT NOT NULL DEFAULT '',
            changed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS payments (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            customer_id BIGINT NOT NULL,
            amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
            method TEXT NOT NULL,
            transaction_id TEXT UNIQUE NOT NULL,
            checkout_ref TEXT NOT NULL DEFAULT '',
            state TEXT NOT NULL,
            receipt_number TEXT NOT NULL DEFAULT '',
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            settled_at TIMESTAMPTZ
        )`,
		`CREATE TABLE IF NOT EXISTS refunds (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT NOT NULL REFERENCES orders(id),
            payment_id BIGINT NOT NULL REFERENCES payments(id),
            amount NUMERIC(12,2) NOT NULL CHECK (amount > 0),
            reason TEXT NOT NULL DEFAULT '',
            status TEXT NOT NULL,
            processed_by BIGINT NOT NULL,
            processed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS refund_items (
            id BIGSERIAL PRIMARY KEY,
            refund_id BIGINT NOT NULL REFERENCES refunds(id) ON DELETE CASCADE,
            order_item_id BIGINT NOT NULL REFERENCES order_items(id),
            quantity INT NOT NULL CHECK (quantity > 0),
            amount NUMERIC(12,2) NOT NULL
        )`,
		`CREATE TABLE IF NOT EXISTS inventory_ledger (
            id BIGSERIAL PRIMARY KEY,
            product_id BIGINT NOT NULL REFERENCES products(id),
            change INT NOT NULL,
            reference TEXT NOT NULL,
            reference_id BIGINT NOT NULL DEFAULT 0,
            actor_id BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE TABLE IF NOT EXISTS invoices (
            id BIGSERIAL PRIMARY KEY,
            order_id BIGINT UNIQUE NOT NULL REFERENCES orders(id),
            invoice_number TEXT NOT NULL DEFAULT '',
            amount NUMERIC(12,2) NOT NULL,
            issued_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`,
		`CREATE INDEX IF NOT EXISTS idx_orders_customer ON orders(customer_id, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_order ON payments(order_id)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_checkout_ref ON payments(checkout_ref) WHERE checkout_ref <> ''`,
		`CREATE INDEX IF NOT EXISTS idx_history_order ON order_status_history(order_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ledger_product ON inventory_ledger(product_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}

	return nil
}

// WithinTransaction executes function inside transaction boundary.
func (s *Storage) WithinTransaction(ctx context.Context, fn func(pgx.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()

	err = fn(tx)
	return err
}

// withRetry runs the transaction and retries it exactly once after a
// serialization failure or deadlock. A second transient failure surfaces as
// ErrTransactionFailed so callers can translate it to a retryable response.
func (s *Storage) withRetry(ctx context.Context, fn func(pgx.Tx) error) error {
	err := s.WithinTransaction(ctx, fn)
	if err == nil || !isTransient(err) {
		return err
	}

	s.logger.Warn("transient database error, retrying", "error", err)
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(retryBackoff):
	}

	err = s.WithinTransaction(ctx, fn)
	if err != nil && isTransient(err) {
		return fmt.Errorf("%w: %v", domainErrors.ErrTransactionFailed, err)
	}
	return err
}

func isTransient(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}

// --- shared transaction helpers ---

type orderRow struct {
	id         int64
	customerID int64
	status     model.OrderStatus
}

// lockOrderTx takes the order row lock every balance or stock mutation
// serializes on.
func (s *Storage) lockOrderTx(ctx context.Context, tx pgx.Tx, orderID int64) (*orderRow, error) {
	const query = `SELECT id, customer_id, status FROM orders WHERE id=$1 FOR UPDATE`
	var row orderRow
	err := tx.QueryRow(ctx, query, orderID).Scan(&row.id, &row.customerID, &row.status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// adjustStockTx locks the product row, verifies the ledger still reconciles
// with the stored counter, applies the delta and appends exactly one ledger
// entry. Returns the current price for callers snapshotting it.
func (s *Storage) adjustStockTx(ctx context.Context, tx pgx.Tx, actor model.Actor, productID int64, delta int, ref model.LedgerRef, refID int64) (decimal.Decimal, error) {
	const lockQuery = `SELECT name, price, stock_quantity, initial_stock FROM products WHERE id=$1 FOR UPDATE`
	var (
		name           string
		price          decimal.Decimal
		stock, initial int
	)
	err := tx.QueryRow(ctx, lockQuery, productID).Scan(&name, &price, &stock, &initial)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domainErrors.ErrNotFound
		}
		return decimal.Zero, err
	}

	const sumQuery = `SELECT COALESCE(SUM(change), 0) FROM inventory_ledger WHERE product_id=$1`
	var ledgerSum int
	if err := tx.QueryRow(ctx, sumQuery, productID).Scan(&ledgerSum); err != nil {
		return decimal.Zero, err
	}
	if initial+ledgerSum != stock {
		s.logger.Error("inventory ledger mismatch",
			"product_id", productID, "stored", stock, "computed", initial+ledgerSum)
		return decimal.Zero, domainErrors.ErrLedgerMismatch
	}

	if delta < 0 && stock+delta < 0 {
		return decimal.Zero, domainErrors.InsufficientStockError{
			ProductID: productID,
			Name:      name,
			Requested: -delta,
			Available: stock,
		}
	}

	const updateQuery = `UPDATE products SET stock_quantity = stock_quantity + $2 WHERE id=$1`
	if _, err := tx.Exec(ctx, updateQuery, productID, delta); err != nil {
		return decimal.Zero, err
	}

	const ledgerQuery = `INSERT INTO inventory_ledger (product_id, change, reference, reference_id, actor_id)
                         VALUES ($1, $2, $3, $4, $5)`
	if _, err := tx.Exec(ctx, ledgerQuery, productID, delta, ref, refID, actor.UserID); err != nil {
		return decimal.Zero, err
	}

	return price, nil
}

// recomputeTotalsTx rederives subtotal, total, balance due and payment status
// from the item, payment and refund rows, persists them and returns the
// balance due. Issues the invoice the first time the balance reaches zero.
func (s *Storage) recomputeTotalsTx(ctx context.Context, tx pgx.Tx, orderID int64) (decimal.Decimal, error) {
	const query = `SELECT o.shipping_cost, o.tax_amount, o.discount_amount,
                   COALESCE((SELECT SUM(total_price) FROM order_items WHERE order_id=o.id), 0),
                   COALESCE((SELECT SUM(amount) FROM payments WHERE order_id=o.id AND state='PAID'), 0),
                   COALESCE((SELECT SUM(amount) FROM refunds WHERE order_id=o.id AND status='PROCESSED'), 0)
                   FROM orders o WHERE o.id=$1`
	var shipping, tax, discount, subtotal, paid, refunded decimal.Decimal
	err := tx.QueryRow(ctx, query, orderID).Scan(&shipping, &tax, &discount, &subtotal, &paid, &refunded)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, domainErrors.ErrNotFound
		}
		return decimal.Zero, err
	}

	total := subtotal.Add(shipping).Add(tax).Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	balance := total.Sub(paid).Add(refunded)
	if balance.IsNegative() {
		balance = decimal.Zero
	}
	paymentStatus := model.DerivePaymentStatus(paid, refunded, balance)

	const updateQuery = `UPDATE orders SET subtotal=$2, total_amount=$3, payment_status=$4, updated_at=NOW() WHERE id=$1`
	if _, err := tx.Exec(ctx, updateQuery, orderID, subtotal, total, paymentStatus); err != nil {
		return decimal.Zero, err
	}

	if balance.IsZero() && paid.IsPositive() {
		if err := s.issueInvoiceTx(ctx, tx, orderID, total); err != nil {
			return decimal.Zero, err
		}
	}

	return balance, nil
}

// issueInvoiceTx inserts the invoice and stamps its number from the generated
// id in the same transaction. A second call for the order is a no-op.
func (s *Storage) issueInvoiceTx(ctx context.Context, tx pgx.Tx, orderID int64, amount decimal.Decimal) error {
	const insertQuery = `INSERT INTO invoices (order_id, amount) VALUES ($1, $2)
                         ON CONFLICT (order_id) DO NOTHING
                         RETURNING id`
	var invoiceID int64
	err := tx.QueryRow(ctx, insertQuery, orderID, amount).Scan(&invoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		return err
	}

	const numberQuery = `UPDATE invoices SET invoice_number=$2 WHERE id=$1`
	_, err = tx.Exec(ctx, numberQuery, invoiceID, fmt.Sprintf("INV%06d", invoiceID))
	return err
}

func (s *Storage) appendHistoryTx(ctx context.Context, tx pgx.Tx, orderID int64, status model.OrderStatus, actorID int64, note string) error {
	const query = `INSERT INTO order_status_history (order_id, status, actor_id, note) VALUES ($1, $2, $3, $4)`
	_, err := tx.Exec(ctx, query, orderID, status, actorID, note)
	return err
}

// HealthCheck verifies database connectivity.
func (s *Storage) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// Logger returns storage logger.
func (s *Storage) Logger() *slog.Logger {
	return s.logger
}
