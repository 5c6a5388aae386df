package repository

import (
	"context"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// RefundRepository creates refunds against completed payments.
type RefundRepository interface {
	// Create validates per-item quantity bounds and the payment's remaining
	// refundable amount inside the order lock, inserts the refund and its
	// items as PROCESSED, optionally releases stock per item, and recomputes
	// order totals.
	Create(ctx context.Context, actor model.Actor, orderID, paymentID int64, items []model.RefundRequestItem, reason string, restock bool) (*model.Refund, error)

	// ListByOrder returns refunds with their item allocations.
	ListByOrder(ctx context.Context, orderID int64) ([]model.Refund, error)
}
