package errors

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrEmptyCart            = errors.New("cart is empty")
	ErrMissingPaymentMethod = errors.New("customer has no payment method")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidQuantity      = errors.New("quantity must be positive")
	ErrInvalidStatus        = errors.New("unknown order status")
	ErrInvalidReference     = errors.New("unknown ledger reference")
	ErrPaymentIncomplete    = errors.New("order is not fully paid")
	ErrNoPayment            = errors.New("order has no successful payment")
	ErrPaymentNotRefundable = errors.New("payment is not refundable")
	ErrLedgerMismatch       = errors.New("inventory ledger does not reconcile with stock")
	ErrTransactionFailed    = errors.New("transaction failed")
)

// InsufficientStockError names the product that could not be reserved.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Requested int
	Available int
}

func (e InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.Name, e.Requested, e.Available)
}

// MissingAddressError reports which address role the customer lacks.
type MissingAddressError struct {
	Role string
}

func (e MissingAddressError) Error() string {
	return fmt.Sprintf("customer has no %s address", e.Role)
}

// OverpaymentError reports a payment exceeding the remaining balance.
type OverpaymentError struct {
	Requested decimal.Decimal
	Balance   decimal.Decimal
}

func (e OverpaymentError) Error() string {
	return fmt.Sprintf("payment of %s exceeds balance due %s", e.Requested, e.Balance)
}

// InvalidTransitionError carries the rejected status pair.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid order status transition %s -> %s", e.From, e.To)
}

// RefundExceedsPaymentError reports the exceeded monetary bound.
type RefundExceedsPaymentError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e RefundExceedsPaymentError) Error() string {
	return fmt.Sprintf("refund of %s exceeds refundable amount %s", e.Requested, e.Available)
}

// QuantityExceedsOrderedError reports a refund quantity above what remains unrefunded.
type QuantityExceedsOrderedError struct {
	OrderItemID int64
	Requested   int
	Remaining   int
}

func (e QuantityExceedsOrderedError) Error() string {
	return fmt.Sprintf("refund quantity %d exceeds remaining %d for order item %d",
		e.Requested, e.Remaining, e.OrderItemID)
}
