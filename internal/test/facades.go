package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// CartFacadeStub provides controllable behaviour for cart endpoints.
type CartFacadeStub struct {
	CartFn     func(context.Context, model.Actor) ([]model.CartLine, error)
	AddFn      func(context.Context, model.Actor, int64, int) error
	SetFn      func(context.Context, model.Actor, int64, int) error
	RemoveFn   func(context.Context, model.Actor, int64) error
	ClearFn    func(context.Context, model.Actor) error
	CheckoutFn func(context.Context, model.Actor, model.CheckoutInput) (*model.Order, error)
}

// Cart delegates to the override or returns one default line.
func (s CartFacadeStub) Cart(ctx context.Context, actor model.Actor) ([]model.CartLine, error) {
	if s.CartFn != nil {
		return s.CartFn(ctx, actor)
	}
	return []model.CartLine{{Product: model.Product{ID: 1, Name: "widget", Price: decimal.NewFromInt(10)}, Quantity: 2}}, nil
}

// AddToCart delegates to the override or succeeds.
func (s CartFacadeStub) AddToCart(ctx context.Context, actor model.Actor, productID int64, qty int) error {
	if s.AddFn != nil {
		return s.AddFn(ctx, actor, productID, qty)
	}
	return nil
}

// SetCartQuantity delegates to the override or succeeds.
func (s CartFacadeStub) SetCartQuantity(ctx context.Context, actor model.Actor, productID int64, qty int) error {
	if s.SetFn != nil {
		return s.SetFn(ctx, actor, productID, qty)
	}
	return nil
}

// RemoveFromCart delegates to the override or succeeds.
func (s CartFacadeStub) RemoveFromCart(ctx context.Context, actor model.Actor, productID int64) error {
	if s.RemoveFn != nil {
		return s.RemoveFn(ctx, actor, productID)
	}
	return nil
}

// ClearCart delegates to the override or succeeds.
func (s CartFacadeStub) ClearCart(ctx context.Context, actor model.Actor) error {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, actor)
	}
	return nil
}

// Checkout delegates to the override or returns a default pending order.
func (s CartFacadeStub) Checkout(ctx context.Context, actor model.Actor, in model.CheckoutInput) (*model.Order, error) {
	if s.CheckoutFn != nil {
		return s.CheckoutFn(ctx, actor, in)
	}
	return &model.Order{ID: 1, CustomerID: actor.UserID, OrderNumber: "ORD000001", Status: model.OrderStatusPending}, nil
}

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	OrderFn        func(context.Context, model.Actor, int64) (*model.Order, error)
	OrdersFn       func(context.Context, model.Actor) ([]model.Order, error)
	UpdateStatusFn func(context.Context, model.Actor, int64, string) (*model.Order, error)
	CancelFn       func(context.Context, model.Actor, int64) (*model.Order, error)
	HoldFn         func(context.Context, model.Actor, int64) (*model.Order, error)
	ResumeFn       func(context.Context, model.Actor, int64) (*model.Order, error)
	HistoryFn      func(context.Context, model.Actor, int64) ([]model.StatusChange, error)
}

// Order returns configured order data.
func (s OrderFacadeStub) Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, CustomerID: actor.UserID, Status: model.OrderStatusPending}, nil
}

// Orders returns predefined orders for the actor.
func (s OrderFacadeStub) Orders(ctx context.Context, actor model.Actor) ([]model.Order, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, actor)
	}
	return []model.Order{{ID: 1, OrderNumber: "ORD000001"}}, nil
}

// UpdateOrderStatus delegates to the override or echoes the transition.
func (s OrderFacadeStub) UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID int64, statusToken string) (*model.Order, error) {
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, actor, orderID, statusToken)
	}
	status, err := model.ParseOrderStatus(statusToken)
	if err != nil {
		return nil, err
	}
	return &model.Order{ID: orderID, Status: status}, nil
}

// CancelOrder delegates to the override or returns a cancelled order.
func (s OrderFacadeStub) CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.CancelFn != nil {
		return s.CancelFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusCancelled}, nil
}

// HoldOrder delegates to the override or returns a held order.
func (s OrderFacadeStub) HoldOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.HoldFn != nil {
		return s.HoldFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusOnHold}, nil
}

// ResumeOrder delegates to the override or returns a pending order.
func (s OrderFacadeStub) ResumeOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	if s.ResumeFn != nil {
		return s.ResumeFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil
}

// OrderHistory returns configured history entries.
func (s OrderFacadeStub) OrderHistory(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusChange, error) {
	if s.HistoryFn != nil {
		return s.HistoryFn(ctx, actor, orderID)
	}
	return []model.StatusChange{{OrderID: orderID, Status: model.OrderStatusPending, ChangedAt: time.Unix(0, 0)}}, nil
}

// PaymentFacadeStub provides controllable behaviour for payment endpoints.
type PaymentFacadeStub struct {
	PayFn      func(context.Context, model.Actor, int64, decimal.Decimal, string) (*model.Payment, decimal.Decimal, error)
	ClearFn    func(context.Context, model.Actor, int64, string) (*model.Payment, error)
	ListFn     func(context.Context, model.Actor, int64) ([]model.Payment, error)
	InvoiceFn  func(context.Context, model.Actor, int64) (*model.Invoice, error)
	InitiateFn func(context.Context, model.Actor, int64, decimal.Decimal, string) (*model.Payment, error)
	ApplyFn    func(context.Context, model.GatewayResult) (*model.Payment, error)

	mu      sync.Mutex
	Applied []model.GatewayResult
}

// PayOrder delegates to the override or returns a settled payment with zero balance.
func (s *PaymentFacadeStub) PayOrder(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, decimal.Decimal, error) {
	if s.PayFn != nil {
		return s.PayFn(ctx, actor, orderID, amount, method)
	}
	return &model.Payment{ID: 1, OrderID: orderID, Amount: amount, Method: method, State: model.PaymentStatePaid}, decimal.Zero, nil
}

// ClearOrderBalance delegates to the override or returns a settled payment.
func (s *PaymentFacadeStub) ClearOrderBalance(ctx context.Context, actor model.Actor, orderID int64, method string) (*model.Payment, error) {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, actor, orderID, method)
	}
	return &model.Payment{ID: 1, OrderID: orderID, Method: method, State: model.PaymentStatePaid}, nil
}

// OrderPayments returns configured payments.
func (s *PaymentFacadeStub) OrderPayments(ctx context.Context, actor model.Actor, orderID int64) ([]model.Payment, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, actor, orderID)
	}
	return []model.Payment{{ID: 1, OrderID: orderID, State: model.PaymentStatePaid}}, nil
}

// OrderInvoice returns the configured invoice.
func (s *PaymentFacadeStub) OrderInvoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error) {
	if s.InvoiceFn != nil {
		return s.InvoiceFn(ctx, actor, orderID)
	}
	return &model.Invoice{ID: 1, OrderID: orderID, InvoiceNumber: "INV000001"}, nil
}

// InitiateGatewayCharge delegates to the override or returns a pending payment.
func (s *PaymentFacadeStub) InitiateGatewayCharge(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, error) {
	if s.InitiateFn != nil {
		return s.InitiateFn(ctx, actor, orderID, amount, method)
	}
	return &model.Payment{ID: 1, OrderID: orderID, Amount: amount, Method: method, CheckoutRef: "ref", State: model.PaymentStatePending}, nil
}

// ApplyGatewayResult records applied results.
func (s *PaymentFacadeStub) ApplyGatewayResult(ctx context.Context, result model.GatewayResult) (*model.Payment, error) {
	s.mu.Lock()
	s.Applied = append(s.Applied, result)
	s.mu.Unlock()
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, result)
	}
	return &model.Payment{ID: 1, CheckoutRef: result.CheckoutRef, State: model.PaymentStatePaid}, nil
}

// RefundFacadeStub provides controllable behaviour for refund endpoints.
type RefundFacadeStub struct {
	RefundFn func(context.Context, model.Actor, int64, int64, []model.RefundRequestItem, string, bool) (*model.Refund, error)
	ListFn   func(context.Context, model.Actor, int64) ([]model.Refund, error)
}

// RefundOrder delegates to the override or returns a processed refund.
func (s RefundFacadeStub) RefundOrder(ctx context.Context, actor model.Actor, orderID, paymentID int64, items []model.RefundRequestItem, reason string, restock bool) (*model.Refund, error) {
	if s.RefundFn != nil {
		return s.RefundFn(ctx, actor, orderID, paymentID, items, reason, restock)
	}
	return &model.Refund{ID: 1, OrderID: orderID, PaymentID: paymentID, Reason: reason, Status: model.RefundStatusProcessed}, nil
}

// OrderRefunds returns configured refunds.
func (s RefundFacadeStub) OrderRefunds(ctx context.Context, actor model.Actor, orderID int64) ([]model.Refund, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, actor, orderID)
	}
	return []model.Refund{{ID: 1, OrderID: orderID, Status: model.RefundStatusProcessed}}, nil
}

// InventoryFacadeStub provides controllable behaviour for stock endpoints.
type InventoryFacadeStub struct {
	RestockFn   func(context.Context, model.Actor, int64, int, string, int64) error
	LedgerFn    func(context.Context, model.Actor, int64) ([]model.LedgerEntry, error)
	ReconcileFn func(context.Context, model.Actor, int64) (*model.StockReport, error)
}

// RestockProduct delegates to the override or succeeds.
func (s InventoryFacadeStub) RestockProduct(ctx context.Context, actor model.Actor, productID int64, qty int, reference string, referenceID int64) error {
	if s.RestockFn != nil {
		return s.RestockFn(ctx, actor, productID, qty, reference, referenceID)
	}
	return nil
}

// ProductLedger returns configured ledger entries.
func (s InventoryFacadeStub) ProductLedger(ctx context.Context, actor model.Actor, productID int64) ([]model.LedgerEntry, error) {
	if s.LedgerFn != nil {
		return s.LedgerFn(ctx, actor, productID)
	}
	return []model.LedgerEntry{{ID: 1, ProductID: productID, Change: -1, Reference: model.LedgerRefOrder}}, nil
}

// ReconcileProduct returns a consistent report by default.
func (s InventoryFacadeStub) ReconcileProduct(ctx context.Context, actor model.Actor, productID int64) (*model.StockReport, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, actor, productID)
	}
	return &model.StockReport{ProductID: productID, Stored: 10, Computed: 10, Consistent: true}, nil
}

// CommerceFacadeStub aggregates facade dependencies for HTTP layer tests.
type CommerceFacadeStub struct {
	CartFacadeStub
	OrderFacadeStub
	PaymentFacadeStub
	RefundFacadeStub
	InventoryFacadeStub
}

// GatewayProviderStub simulates the payment gateway collaborator.
type GatewayProviderStub struct {
	ChargeFn func(context.Context, string, decimal.Decimal, string) (*model.GatewayCharge, error)
	StatusFn func(context.Context, string) (*model.GatewayResult, error)

	Charges []string
}

// Charge records the reference and returns a default acknowledgement.
func (s *GatewayProviderStub) Charge(ctx context.Context, ref string, amount decimal.Decimal, description string) (*model.GatewayCharge, error) {
	s.Charges = append(s.Charges, ref)
	if s.ChargeFn != nil {
		return s.ChargeFn(ctx, ref, amount, description)
	}
	return &model.GatewayCharge{CheckoutRef: ref, MerchantRef: "merchant-1", Description: description}, nil
}

// Status delegates to the override or reports success.
func (s *GatewayProviderStub) Status(ctx context.Context, ref string) (*model.GatewayResult, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, ref)
	}
	return &model.GatewayResult{CheckoutRef: ref, ResultCode: 0, ResultDesc: "Success", ReceiptNumber: "RCP1"}, nil
}

// WorkerFacadeStub mimics worker interactions with the commerce facade.
type WorkerFacadeStub struct {
	Batches   [][]model.Payment
	PendingFn func(context.Context, time.Duration, int) ([]model.Payment, error)
	StatusFn  func(context.Context, string) (*model.GatewayResult, error)
	ApplyFn   func(context.Context, model.GatewayResult) (*model.Payment, error)

	mu           sync.Mutex
	Applied      []model.GatewayResult
	pendingCalls int32
}

// Lock exposes internal mutex for external synchronization.
func (s *WorkerFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases previously acquired lock.
func (s *WorkerFacadeStub) Unlock() { s.mu.Unlock() }

// PendingGatewayPayments returns batches from the configured queue.
func (s *WorkerFacadeStub) PendingGatewayPayments(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx, olderThan, limit)
	}
	s.mu.Lock()
	call := s.pendingCalls
	s.pendingCalls++
	s.mu.Unlock()
	if int(call) < len(s.Batches) {
		return s.Batches[call], nil
	}
	time.Sleep(10 * time.Millisecond)
	return nil, nil
}

// CheckGatewayStatus returns configured gateway outcomes.
func (s *WorkerFacadeStub) CheckGatewayStatus(ctx context.Context, ref string) (*model.GatewayResult, error) {
	if s.StatusFn != nil {
		return s.StatusFn(ctx, ref)
	}
	return &model.GatewayResult{CheckoutRef: ref, ResultCode: 0, ReceiptNumber: "RCP1"}, nil
}

// ApplyGatewayResult records settle requests.
func (s *WorkerFacadeStub) ApplyGatewayResult(ctx context.Context, result model.GatewayResult) (*model.Payment, error) {
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, result)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Applied = append(s.Applied, result)
	return &model.Payment{CheckoutRef: result.CheckoutRef, State: model.PaymentStatePaid}, nil
}
