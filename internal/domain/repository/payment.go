package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// PaymentRepository records payments and keeps order totals in step. Every
// write locks the order row first so concurrent payments serialize and the
// overpayment check never sees a stale balance.
type PaymentRepository interface {
	// Apply records a PAID payment after checking amount against the balance
	// due inside the order lock. Returns the payment and the new balance.
	Apply(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, decimal.Decimal, error)

	// ClearBalance records a single payment equal to the exact balance due.
	ClearBalance(ctx context.Context, actor model.Actor, orderID int64, method string) (*model.Payment, error)

	// RecordPending stores a gateway-initiated payment awaiting settlement.
	RecordPending(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method, checkoutRef string) (*model.Payment, error)

	// SettleByReference applies an asynchronous gateway result. Replays of an
	// already settled reference are no-ops; unknown references return
	// ErrNotFound without mutation.
	SettleByReference(ctx context.Context, result model.GatewayResult) (*model.Payment, error)

	// ListByOrder returns payments for an order, oldest first.
	ListByOrder(ctx context.Context, orderID int64) ([]model.Payment, error)

	// SelectPendingGateway picks gateway payments still PENDING after the
	// cutoff, locking each batch row so concurrent reconcilers do not collide.
	SelectPendingGateway(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error)

	// InvoiceByOrder returns the order's invoice if issued.
	InvoiceByOrder(ctx context.Context, orderID int64) (*model.Invoice, error)
}
