package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
)

// OrderStatus describes the order lifecycle.
type OrderStatus string

const (
	OrderStatusCart             OrderStatus = "CART"
	OrderStatusPending          OrderStatus = "PENDING"
	OrderStatusProcessing       OrderStatus = "PROCESSING"
	OrderStatusPartiallyShipped OrderStatus = "PARTIALLY_SHIPPED"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusOnHold           OrderStatus = "ON_HOLD"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
	OrderStatusRefunded         OrderStatus = "REFUNDED"
	OrderStatusReturned         OrderStatus = "RETURNED"
)

var orderStatuses = map[string]OrderStatus{
	"CART":              OrderStatusCart,
	"PENDING":           OrderStatusPending,
	"PROCESSING":        OrderStatusProcessing,
	"PARTIALLY_SHIPPED": OrderStatusPartiallyShipped,
	"SHIPPED":           OrderStatusShipped,
	"DELIVERED":         OrderStatusDelivered,
	"ON_HOLD":           OrderStatusOnHold,
	"CANCELLED":         OrderStatusCancelled,
	"REFUNDED":          OrderStatusRefunded,
	"RETURNED":          OrderStatusReturned,
}

// ParseOrderStatus normalizes a case-insensitive token to the canonical status.
// Free-form strings never reach persistence; this is the single parser.
func ParseOrderStatus(token string) (OrderStatus, error) {
	status, ok := orderStatuses[strings.ToUpper(strings.TrimSpace(token))]
	if !ok {
		return "", domainErrors.ErrInvalidStatus
	}
	return status, nil
}

// statusTransitions is the full transition table. Guards (balance, payments,
// stock release) are enforced where the order row is locked; this table only
// answers whether the pair is defined at all.
var statusTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusCart:             {OrderStatusPending},
	OrderStatusPending:          {OrderStatusProcessing, OrderStatusCancelled, OrderStatusOnHold, OrderStatusRefunded, OrderStatusReturned},
	OrderStatusProcessing:       {OrderStatusShipped, OrderStatusPartiallyShipped, OrderStatusCancelled, OrderStatusOnHold, OrderStatusRefunded, OrderStatusReturned},
	OrderStatusPartiallyShipped: {OrderStatusShipped, OrderStatusDelivered, OrderStatusOnHold, OrderStatusRefunded, OrderStatusReturned},
	OrderStatusShipped:          {OrderStatusDelivered, OrderStatusOnHold, OrderStatusRefunded, OrderStatusReturned},
	OrderStatusOnHold:           {OrderStatusPending, OrderStatusProcessing, OrderStatusPartiallyShipped, OrderStatusShipped, OrderStatusRefunded, OrderStatusReturned},
	OrderStatusDelivered:        {},
	OrderStatusCancelled:        {},
	OrderStatusRefunded:         {},
	OrderStatusReturned:         {},
}

// IsTerminal reports whether no further transition is defined.
func (s OrderStatus) IsTerminal() bool {
	return len(statusTransitions[s]) == 0
}

// CanTransitionTo reports whether the pair is defined in the transition table.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, allowed := range statusTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transition validates the pair and returns the error callers surface.
// The function is total: every (from, to) pair has a defined outcome.
func (s OrderStatus) Transition(target OrderStatus) error {
	if !s.CanTransitionTo(target) {
		return domainErrors.InvalidTransitionError{From: string(s), To: string(target)}
	}
	return nil
}

// PaymentStatus summarizes how much of the order total has been settled.
type PaymentStatus string

const (
	PaymentStatusUnpaid        PaymentStatus = "UNPAID"
	PaymentStatusPartiallyPaid PaymentStatus = "PARTIALLY_PAID"
	PaymentStatusPaid          PaymentStatus = "PAID"
	PaymentStatusRefunded      PaymentStatus = "REFUNDED"
)

// DerivePaymentStatus computes the order payment status from settled sums.
func DerivePaymentStatus(paid, refunded, balance decimal.Decimal) PaymentStatus {
	switch {
	case refunded.IsPositive() && paid.LessThanOrEqual(refunded):
		return PaymentStatusRefunded
	case paid.IsZero() || !paid.IsPositive():
		return PaymentStatusUnpaid
	case balance.IsPositive():
		return PaymentStatusPartiallyPaid
	default:
		return PaymentStatusPaid
	}
}

// Order is the aggregate the ledger owns for its whole life. OrderNumber is
// assigned exactly once inside the checkout transaction and never changes.
type Order struct {
	ID                int64
	CustomerID        int64
	ShippingAddressID int64
	BillingAddressID  int64
	PaymentMethodID   int64
	OrderNumber       string
	Status            OrderStatus
	PaymentStatus     PaymentStatus
	Subtotal          decimal.Decimal
	ShippingCost      decimal.Decimal
	TaxAmount         decimal.Decimal
	DiscountAmount    decimal.Decimal
	TotalAmount       decimal.Decimal
	BalanceDue        decimal.Decimal
	Items             []OrderItem
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// OrderItem captures the price at reservation time; the set is immutable once
// the order leaves CART.
type OrderItem struct {
	ID         int64
	OrderID    int64
	ProductID  int64
	Quantity   int
	UnitPrice  decimal.Decimal
	Discount   decimal.Decimal
	TotalPrice decimal.Decimal
}

// LineTotal recomputes (unit_price - discount) * quantity.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Sub(i.Discount).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// StatusChange is one append-only entry of the order status history.
type StatusChange struct {
	ID        int64
	OrderID   int64
	Status    OrderStatus
	ActorID   int64
	Note      string
	ChangedAt time.Time
}

// CheckoutInput carries everything checkout needs beyond the cart itself.
// Discount, tax and shipping amounts come from upstream pricing collaborators.
type CheckoutInput struct {
	CustomerID        int64
	ShippingAddressID int64
	BillingAddressID  int64
	PaymentMethodID   int64
	ShippingCost      decimal.Decimal
	TaxAmount         decimal.Decimal
	DiscountAmount    decimal.Decimal
}
