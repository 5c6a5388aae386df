package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentState describes a single payment record.
type PaymentState string

const (
	PaymentStatePending  PaymentState = "PENDING"
	PaymentStatePaid     PaymentState = "PAID"
	PaymentStateFailed   PaymentState = "FAILED"
	PaymentStateRefunded PaymentState = "REFUNDED"
)

// Payment records money applied against an order. TransactionID is unique;
// gateway-initiated payments carry a CheckoutRef and start PENDING until the
// gateway callback or the reconciler settles them.
type Payment struct {
	ID            int64
	OrderID       int64
	CustomerID    int64
	Amount        decimal.Decimal
	Method        string
	TransactionID string
	CheckoutRef   string
	State         PaymentState
	ReceiptNumber string
	CreatedAt     time.Time
	SettledAt     *time.Time
}

// Settled reports whether the payment reached a terminal state.
func (p Payment) Settled() bool {
	return p.State != PaymentStatePending
}

// GatewayCharge is the gateway's acknowledgement of an initiated charge.
type GatewayCharge struct {
	CheckoutRef string
	MerchantRef string
	Description string
}

// GatewayResult is the asynchronous outcome of a charge. ResultCode zero
// means success; anything else is a failure.
type GatewayResult struct {
	CheckoutRef   string
	ResultCode    int
	ResultDesc    string
	ReceiptNumber string
}

// Succeeded reports whether the gateway settled the charge successfully.
func (r GatewayResult) Succeeded() bool {
	return r.ResultCode == 0
}

// Invoice is issued once, when the order first reaches a zero balance.
type Invoice struct {
	ID            int64
	OrderID       int64
	InvoiceNumber string
	Amount        decimal.Decimal
	IssuedAt      time.Time
}
