package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/domain/repository"
)

// PaymentUseCase records payments against orders and keeps the balance due
// consistent. The overpayment check itself runs under the order row lock in
// the repository so concurrent payments serialize.
type PaymentUseCase struct {
	payments repository.PaymentRepository
}

// NewPaymentUseCase constructs PaymentUseCase.
func NewPaymentUseCase(payments repository.PaymentRepository) *PaymentUseCase {
	return &PaymentUseCase{payments: payments}
}

// Apply records a payment and returns the updated balance due.
func (u *PaymentUseCase) Apply(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, decimal.Decimal, error) {
	if !amount.IsPositive() {
		return nil, decimal.Zero, domainErrors.ErrInvalidAmount
	}
	return u.payments.Apply(ctx, actor, orderID, amount, method)
}

// ClearBalance records one payment for the exact remaining balance.
// Administrative path, staff only.
func (u *PaymentUseCase) ClearBalance(ctx context.Context, actor model.Actor, orderID int64, method string) (*model.Payment, error) {
	if !actor.IsStaff() {
		return nil, domainErrors.ErrForbidden
	}
	return u.payments.ClearBalance(ctx, actor, orderID, method)
}

// RecordPending stores a gateway charge awaiting its asynchronous result.
func (u *PaymentUseCase) RecordPending(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method, checkoutRef string) (*model.Payment, error) {
	if !amount.IsPositive() {
		return nil, domainErrors.ErrInvalidAmount
	}
	return u.payments.RecordPending(ctx, actor, orderID, amount, method, checkoutRef)
}

// Settle applies a gateway result idempotently.
func (u *PaymentUseCase) Settle(ctx context.Context, result model.GatewayResult) (*model.Payment, error) {
	return u.payments.SettleByReference(ctx, result)
}

// PendingGateway returns gateway payments awaiting reconciliation.
func (u *PaymentUseCase) PendingGateway(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	return u.payments.SelectPendingGateway(ctx, olderThan, limit)
}

// ListByOrder returns an order's payments.
func (u *PaymentUseCase) ListByOrder(ctx context.Context, orderID int64) ([]model.Payment, error) {
	return u.payments.ListByOrder(ctx, orderID)
}

// InvoiceByOrder returns the invoice issued when the order was fully paid.
func (u *PaymentUseCase) InvoiceByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	return u.payments.InvoiceByOrder(ctx, orderID)
}
