package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wanjiru/dukani/internal/adapter/gateway"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/usecase"
)

// GatewayProvider is the external payment collaborator the facade talks to.
type GatewayProvider interface {
	Charge(ctx context.Context, ref string, amount decimal.Decimal, description string) (*model.GatewayCharge, error)
	Status(ctx context.Context, ref string) (*model.GatewayResult, error)
}

// CommerceFacade aggregates the use cases behind one application surface for
// the HTTP handlers and the reconciliation worker.
type CommerceFacade struct {
	checkout  *usecase.CheckoutUseCase
	orders    *usecase.OrderUseCase
	payments  *usecase.PaymentUseCase
	refunds   *usecase.RefundUseCase
	inventory *usecase.InventoryUseCase
	gateway   GatewayProvider
}

func NewCommerceFacade(
	checkout *usecase.CheckoutUseCase,
	orders *usecase.OrderUseCase,
	payments *usecase.PaymentUseCase,
	refunds *usecase.RefundUseCase,
	inventory *usecase.InventoryUseCase,
	gateway GatewayProvider,
) *CommerceFacade {
	return &CommerceFacade{
		checkout:  checkout,
		orders:    orders,
		payments:  payments,
		refunds:   refunds,
		inventory: inventory,
		gateway:   gateway,
	}
}

// --- cart and checkout ---

func (f *CommerceFacade) Cart(ctx context.Context, actor model.Actor) ([]model.CartLine, error) {
	return f.checkout.Cart(ctx, actor)
}

func (f *CommerceFacade) AddToCart(ctx context.Context, actor model.Actor, productID int64, qty int) error {
	return f.checkout.AddToCart(ctx, actor, productID, qty)
}

func (f *CommerceFacade) SetCartQuantity(ctx context.Context, actor model.Actor, productID int64, qty int) error {
	return f.checkout.SetCartQuantity(ctx, actor, productID, qty)
}

func (f *CommerceFacade) RemoveFromCart(ctx context.Context, actor model.Actor, productID int64) error {
	return f.checkout.RemoveFromCart(ctx, actor, productID)
}

func (f *CommerceFacade) ClearCart(ctx context.Context, actor model.Actor) error {
	return f.checkout.ClearCart(ctx, actor)
}

func (f *CommerceFacade) Checkout(ctx context.Context, actor model.Actor, in model.CheckoutInput) (*model.Order, error) {
	return f.checkout.Checkout(ctx, actor, in)
}

// --- orders ---

func (f *CommerceFacade) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Get(ctx, actor, orderID)
}

func (f *CommerceFacade) Orders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	return f.orders.List(ctx, actor)
}

func (f *CommerceFacade) UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID int64, statusToken string) (*model.Order, error) {
	return f.orders.UpdateStatus(ctx, actor, orderID, statusToken)
}

func (f *CommerceFacade) CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Cancel(ctx, actor, orderID)
}

func (f *CommerceFacade) HoldOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Hold(ctx, actor, orderID)
}

func (f *CommerceFacade) ResumeOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	return f.orders.Resume(ctx, actor, orderID)
}

func (f *CommerceFacade) OrderHistory(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusChange, error) {
	return f.orders.History(ctx, actor, orderID)
}

// --- payments ---

func (f *CommerceFacade) PayOrder(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, decimal.Decimal, error) {
	return f.payments.Apply(ctx, actor, orderID, amount, method)
}

func (f *CommerceFacade) ClearOrderBalance(ctx context.Context, actor model.Actor, orderID int64, method string) (*model.Payment, error) {
	return f.payments.ClearBalance(ctx, actor, orderID, method)
}

func (f *CommerceFacade) OrderPayments(ctx context.Context, actor model.Actor, orderID int64) ([]model.Payment, error) {
	if _, err := f.orders.Get(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return f.payments.ListByOrder(ctx, orderID)
}

func (f *CommerceFacade) OrderInvoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	if _, err := f.orders.Get(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return f.payments.InvoiceByOrder(ctx, orderID)
}

// InitiateGatewayCharge records the pending payment first, then asks the
// gateway to collect. Only a definitive gateway refusal settles the payment
// as failed right away; an ambiguous transport failure leaves it pending so
// the reconciler can converge on the real outcome.
func (f *CommerceFacade) InitiateGatewayCharge(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, error) {
	ref := uuid.NewString()
	payment, err := f.payments.RecordPending(ctx, actor, orderID, amount, method, ref)
	if err != nil {
		return nil, err
	}

	if _, err := f.gateway.Charge(ctx, ref, amount, fmt.Sprintf("order %d", orderID)); err != nil {
		var rejection gateway.RejectionError
		if !errors.As(err, &rejection) {
			return payment, nil
		}
		_, settleErr := f.payments.Settle(ctx, model.GatewayResult{
			CheckoutRef: ref,
			ResultCode:  -1,
			ResultDesc:  err.Error(),
		})
		if settleErr != nil {
			return nil, settleErr
		}
		return nil, err
	}
	return payment, nil
}

// ApplyGatewayResult settles a charge outcome idempotently. Used by both the
// callback handler and the reconciliation worker.
func (f *CommerceFacade) ApplyGatewayResult(ctx context.Context, result model.GatewayResult) (*model.Payment, error) {
	return f.payments.Settle(ctx, result)
}

// PendingGatewayPayments returns gateway charges awaiting reconciliation.
func (f *CommerceFacade) PendingGatewayPayments(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	return f.payments.PendingGateway(ctx, olderThan, limit)
}

// CheckGatewayStatus polls the gateway for a charge outcome.
func (f *CommerceFacade) CheckGatewayStatus(ctx context.Context, ref string) (*model.GatewayResult, error) {
	return f.gateway.Status(ctx, ref)
}

// --- refunds ---

func (f *CommerceFacade) RefundOrder(ctx context.Context, actor model.Actor, orderID, paymentID int64, items []model.RefundRequestItem, reason string, restock bool) (*model.Refund, error) {
	return f.refunds.Refund(ctx, actor, orderID, paymentID, items, reason, restock)
}

func (f *CommerceFacade) OrderRefunds(ctx context.Context, actor model.Actor, orderID int64) ([]model.Refund, error) {
	if _, err := f.orders.Get(ctx, actor, orderID); err != nil {
		return nil, err
	}
	return f.refunds.ListByOrder(ctx, orderID)
}

// --- inventory ---

func (f *CommerceFacade) RestockProduct(ctx context.Context, actor model.Actor, productID int64, qty int, reference string, referenceID int64) error {
	return f.inventory.Restock(ctx, actor, productID, qty, reference, referenceID)
}

func (f *CommerceFacade) ProductLedger(ctx context.Context, actor model.Actor, productID int64) ([]model.LedgerEntry, error) {
	return f.inventory.Ledger(ctx, actor, productID)
}

func (f *CommerceFacade) ReconcileProduct(ctx context.Context, actor model.Actor, productID int64) (*model.StockReport, error) {
	return f.inventory.Reconcile(ctx, actor, productID)
}
