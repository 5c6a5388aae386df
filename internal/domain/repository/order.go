package repository

import (
	"context"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// OrderRepository owns the order aggregate. Multi-entity mutations (checkout,
// cancellation, status transitions with guards) run inside a single
// transaction scoped to the order row.
type OrderRepository interface {
	// CreateFromCart materializes the customer's cart into a PENDING order:
	// order + items at current prices, stock reservation with ledger entries,
	// two-phase order number, status history, cart cleared - all or nothing.
	CreateFromCart(ctx context.Context, actor model.Actor, in model.CheckoutInput) (*model.Order, error)

	// GetByID loads order with items and derived balance.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)

	// ListAll returns every order, newest first (staff views).
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus applies one transition under the order row lock, enforcing
	// the guards tied to the target (balance for DELIVERED, payment existence
	// for REFUNDED/RETURNED, stock release for CANCELLED) and appending to the
	// status history.
	UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error)

	// Resume returns an ON_HOLD order to its last recorded status.
	Resume(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)

	// History returns the append-only status history, oldest first.
	History(ctx context.Context, orderID int64) ([]model.StatusChange, error)
}
