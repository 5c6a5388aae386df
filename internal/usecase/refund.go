package usecase

import (
	"context"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/domain/repository"
)

// RefundUseCase creates refunds against completed payments and allocates the
// refunded quantities to specific order items.
type RefundUseCase struct {
	refunds repository.RefundRepository
}

// NewRefundUseCase constructs RefundUseCase.
func NewRefundUseCase(refunds repository.RefundRepository) *RefundUseCase {
	return &RefundUseCase{refunds: refunds}
}

// Refund validates the request shape and delegates the bound checks to the
// repository, which evaluates them under the order row lock. The restock flag
// decides whether refunded quantities return to inventory.
func (u *RefundUseCase) Refund(ctx context.Context, actor model.Actor, orderID, paymentID int64, items []model.RefundRequestItem, reason string, restock bool) (*model.Refund, error) {
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	if len(items) == 0 {
		return nil, domainErrors.ErrInvalidQuantity
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, domainErrors.ErrInvalidQuantity
		}
		if !item.Amount.IsPositive() {
			return nil, domainErrors.ErrInvalidAmount
		}
	}
	return u.refunds.Create(ctx, actor, orderID, paymentID, items, reason, restock)
}

// ListByOrder returns refunds with their item allocations.
func (u *RefundUseCase) ListByOrder(ctx context.Context, orderID int64) ([]model.Refund, error) {
	return u.refunds.ListByOrder(ctx, orderID)
}
