package test

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
)

// CartRepositoryStub stores cart lines in-memory for tests.
type CartRepositoryStub struct {
	LinesFn func(context.Context, int64) ([]model.CartLine, error)
	Items   map[int64][]model.CartLine
	Err     error

	AddCalls []CartMutation
	SetCalls []CartMutation
	Removed  []int64
	Cleared  []int64
}

// CartMutation records one cart write invocation.
type CartMutation struct {
	CustomerID int64
	ProductID  int64
	Quantity   int
}

// Lines returns the configured lines for a customer.
func (s *CartRepositoryStub) Lines(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	if s.LinesFn != nil {
		return s.LinesFn(ctx, customerID)
	}
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Items[customerID], nil
}

// Add records the invocation.
func (s *CartRepositoryStub) Add(ctx context.Context, customerID, productID int64, qty int) error {
	if s.Err != nil {
		return s.Err
	}
	s.AddCalls = append(s.AddCalls, CartMutation{CustomerID: customerID, ProductID: productID, Quantity: qty})
	return nil
}

// SetQuantity records the invocation.
func (s *CartRepositoryStub) SetQuantity(ctx context.Context, customerID, productID int64, qty int) error {
	if s.Err != nil {
		return s.Err
	}
	s.SetCalls = append(s.SetCalls, CartMutation{CustomerID: customerID, ProductID: productID, Quantity: qty})
	return nil
}

// Remove records the removed product id.
func (s *CartRepositoryStub) Remove(ctx context.Context, customerID, productID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.Removed = append(s.Removed, productID)
	return nil
}

// Clear records the cleared customer id.
func (s *CartRepositoryStub) Clear(ctx context.Context, customerID int64) error {
	if s.Err != nil {
		return s.Err
	}
	s.Cleared = append(s.Cleared, customerID)
	return nil
}

// CustomerRepositoryStub resolves addresses and payment methods from maps.
type CustomerRepositoryStub struct {
	Addresses map[int64]*model.Address
	Methods   map[int64]*model.PaymentMethod
	Err       error
}

// NewCustomerRepositoryStub constructs the stub with initialized maps.
func NewCustomerRepositoryStub() *CustomerRepositoryStub {
	return &CustomerRepositoryStub{
		Addresses: make(map[int64]*model.Address),
		Methods:   make(map[int64]*model.PaymentMethod),
	}
}

// GetAddress fetches address by id or returns not found.
func (s *CustomerRepositoryStub) GetAddress(ctx context.Context, addressID int64) (*model.Address, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if addr, ok := s.Addresses[addressID]; ok {
		return addr, nil
	}
	return nil, domainErrors.ErrNotFound
}

// GetPaymentMethod fetches payment method by id or returns not found.
func (s *CustomerRepositoryStub) GetPaymentMethod(ctx context.Context, methodID int64) (*model.PaymentMethod, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if method, ok := s.Methods[methodID]; ok {
		return method, nil
	}
	return nil, domainErrors.ErrNotFound
}

// StatusUpdateCall records one UpdateStatus invocation.
type StatusUpdateCall struct {
	Actor   model.Actor
	OrderID int64
	Target  model.OrderStatus
}

// OrderRepositoryStub allows tests to customize order behaviour.
type OrderRepositoryStub struct {
	CreateFromCartFn func(context.Context, model.Actor, model.CheckoutInput) (*model.Order, error)
	GetByIDFn        func(context.Context, int64) (*model.Order, error)
	UpdateStatusFn   func(context.Context, model.Actor, int64, model.OrderStatus) (*model.Order, error)
	ResumeFn         func(context.Context, model.Actor, int64) (*model.Order, error)

	Order        *model.Order
	Orders       []model.Order
	AllOrders    []model.Order
	Changes      []model.StatusChange
	Created      []model.CheckoutInput
	UpdateCalls  []StatusUpdateCall
	ResumedCalls []int64
}

// CreateFromCart tracks invocations and returns configured responses.
func (s *OrderRepositoryStub) CreateFromCart(ctx context.Context, actor model.Actor, in model.CheckoutInput) (*model.Order, error) {
	s.Created = append(s.Created, in)
	if s.CreateFromCartFn != nil {
		return s.CreateFromCartFn(ctx, actor, in)
	}
	return &model.Order{ID: 1, CustomerID: in.CustomerID, Status: model.OrderStatusPending}, nil
}

// GetByID returns the configured order or not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	if s.Order != nil && s.Order.ID == id {
		return s.Order, nil
	}
	return nil, domainErrors.ErrNotFound
}

// ListByCustomer returns orders from the configured slice.
func (s *OrderRepositoryStub) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return s.Orders, nil
}

// ListAll returns every configured order.
func (s *OrderRepositoryStub) ListAll(ctx context.Context) ([]model.Order, error) {
	return s.AllOrders, nil
}

// UpdateStatus records update invocations.
func (s *OrderRepositoryStub) UpdateStatus(ctx context.Context, actor model.Actor, orderID int64, target model.OrderStatus) (*model.Order, error) {
	s.UpdateCalls = append(s.UpdateCalls, StatusUpdateCall{Actor: actor, OrderID: orderID, Target: target})
	if s.UpdateStatusFn != nil {
		return s.UpdateStatusFn(ctx, actor, orderID, target)
	}
	return &model.Order{ID: orderID, Status: target}, nil
}

// Resume records resume invocations.
func (s *OrderRepositoryStub) Resume(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error) {
	s.ResumedCalls = append(s.ResumedCalls, orderID)
	if s.ResumeFn != nil {
		return s.ResumeFn(ctx, actor, orderID)
	}
	return &model.Order{ID: orderID, Status: model.OrderStatusPending}, nil
}

// History returns the configured status changes.
func (s *OrderRepositoryStub) History(ctx context.Context, orderID int64) ([]model.StatusChange, error) {
	return s.Changes, nil
}

// PaymentApplyCall records one Apply invocation.
type PaymentApplyCall struct {
	OrderID int64
	Amount  decimal.Decimal
	Method  string
}

// PaymentRepositoryStub lets tests control payment data.
type PaymentRepositoryStub struct {
	ApplyFn         func(context.Context, model.Actor, int64, decimal.Decimal, string) (*model.Payment, decimal.Decimal, error)
	ClearFn         func(context.Context, model.Actor, int64, string) (*model.Payment, error)
	RecordPendingFn func(context.Context, model.Actor, int64, decimal.Decimal, string, string) (*model.Payment, error)
	SettleFn        func(context.Context, model.GatewayResult) (*model.Payment, error)

	Payments []model.Payment
	Pending  []model.Payment
	Invoice  *model.Invoice
	Applied  []PaymentApplyCall
	Settled  []model.GatewayResult
}

// Apply records the invocation and returns configured responses.
func (s *PaymentRepositoryStub) Apply(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, decimal.Decimal, error) {
	s.Applied = append(s.Applied, PaymentApplyCall{OrderID: orderID, Amount: amount, Method: method})
	if s.ApplyFn != nil {
		return s.ApplyFn(ctx, actor, orderID, amount, method)
	}
	return &model.Payment{ID: 1, OrderID: orderID, Amount: amount, Method: method, State: model.PaymentStatePaid}, decimal.Zero, nil
}

// ClearBalance executes the configured override or returns a default payment.
func (s *PaymentRepositoryStub) ClearBalance(ctx context.Context, actor model.Actor, orderID int64, method string) (*model.Payment, error) {
	if s.ClearFn != nil {
		return s.ClearFn(ctx, actor, orderID, method)
	}
	return &model.Payment{ID: 1, OrderID: orderID, Method: method, State: model.PaymentStatePaid}, nil
}

// RecordPending executes the configured override or returns a pending payment.
func (s *PaymentRepositoryStub) RecordPending(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method, checkoutRef string) (*model.Payment, error) {
	if s.RecordPendingFn != nil {
		return s.RecordPendingFn(ctx, actor, orderID, amount, method, checkoutRef)
	}
	return &model.Payment{ID: 1, OrderID: orderID, Amount: amount, Method: method, CheckoutRef: checkoutRef, State: model.PaymentStatePending}, nil
}

// SettleByReference records settle invocations.
func (s *PaymentRepositoryStub) SettleByReference(ctx context.Context, result model.GatewayResult) (*model.Payment, error) {
	s.Settled = append(s.Settled, result)
	if s.SettleFn != nil {
		return s.SettleFn(ctx, result)
	}
	return &model.Payment{ID: 1, CheckoutRef: result.CheckoutRef, State: model.PaymentStatePaid}, nil
}

// ListByOrder returns configured payments.
func (s *PaymentRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.Payment, error) {
	return s.Payments, nil
}

// SelectPendingGateway returns configured pending payments.
func (s *PaymentRepositoryStub) SelectPendingGateway(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error) {
	return s.Pending, nil
}

// InvoiceByOrder returns configured invoice or not found.
func (s *PaymentRepositoryStub) InvoiceByOrder(ctx context.Context, orderID int64) (*model.Invoice, error) {
	if s.Invoice == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.Invoice, nil
}

// RefundRepositoryStub lets tests control refund behaviour.
type RefundRepositoryStub struct {
	CreateFn func(context.Context, model.Actor, int64, int64, []model.RefundRequestItem, string, bool) (*model.Refund, error)
	Refunds  []model.Refund
	Created  []model.Refund
}

// Create records the refund or executes the override.
func (s *RefundRepositoryStub) Create(ctx context.Context, actor model.Actor, orderID, paymentID int64, items []model.RefundRequestItem, reason string, restock bool) (*model.Refund, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, actor, orderID, paymentID, items, reason, restock)
	}
	refund := model.Refund{ID: 1, OrderID: orderID, PaymentID: paymentID, Reason: reason, Status: model.RefundStatusProcessed}
	s.Created = append(s.Created, refund)
	return &refund, nil
}

// ListByOrder returns configured refunds.
func (s *RefundRepositoryStub) ListByOrder(ctx context.Context, orderID int64) ([]model.Refund, error) {
	return s.Refunds, nil
}

// StockMutation records one inventory write invocation.
type StockMutation struct {
	ProductID int64
	Quantity  int
	Reference model.LedgerRef
}

// InventoryRepositoryStub lets tests control stock data.
type InventoryRepositoryStub struct {
	RestockFn   func(context.Context, model.Actor, int64, int, model.LedgerRef, int64) error
	ReconcileFn func(context.Context, int64) (*model.StockReport, error)

	Product *model.Product
	Entries []model.LedgerEntry
	Report  *model.StockReport

	mu       sync.Mutex
	Reserved []StockMutation
	Released []StockMutation
	Stocked  []StockMutation
}

// Reserve records the stock decrement request.
func (s *InventoryRepositoryStub) Reserve(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reserved = append(s.Reserved, StockMutation{ProductID: productID, Quantity: qty, Reference: ref})
	return nil
}

// Release records the stock return request.
func (s *InventoryRepositoryStub) Release(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Released = append(s.Released, StockMutation{ProductID: productID, Quantity: qty, Reference: ref})
	return nil
}

// Restock records the increment or executes the override.
func (s *InventoryRepositoryStub) Restock(ctx context.Context, actor model.Actor, productID int64, qty int, ref model.LedgerRef, refID int64) error {
	if s.RestockFn != nil {
		return s.RestockFn(ctx, actor, productID, qty, ref, refID)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Stocked = append(s.Stocked, StockMutation{ProductID: productID, Quantity: qty, Reference: ref})
	return nil
}

// Ledger returns configured entries.
func (s *InventoryRepositoryStub) Ledger(ctx context.Context, productID int64) ([]model.LedgerEntry, error) {
	return s.Entries, nil
}

// GetProduct returns the configured product or not found.
func (s *InventoryRepositoryStub) GetProduct(ctx context.Context, productID int64) (*model.Product, error) {
	if s.Product == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.Product, nil
}

// Reconcile returns the configured report or executes the override.
func (s *InventoryRepositoryStub) Reconcile(ctx context.Context, productID int64) (*model.StockReport, error) {
	if s.ReconcileFn != nil {
		return s.ReconcileFn(ctx, productID)
	}
	if s.Report == nil {
		return nil, domainErrors.ErrNotFound
	}
	return s.Report, nil
}
