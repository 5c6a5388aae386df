package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundStatus describes refund processing.
type RefundStatus string

const (
	RefundStatusRequested RefundStatus = "REQUESTED"
	RefundStatusProcessed RefundStatus = "PROCESSED"
	RefundStatusRejected  RefundStatus = "REJECTED"
)

// Refund reverses part of a completed payment. The sum of refunds against a
// payment never exceeds the payment amount.
type Refund struct {
	ID          int64
	OrderID     int64
	PaymentID   int64
	Amount      decimal.Decimal
	Reason      string
	Status      RefundStatus
	ProcessedBy int64
	ProcessedAt time.Time
	Items       []RefundItem
}

// RefundItem allocates refunded quantity and money to a specific order item.
type RefundItem struct {
	ID          int64
	RefundID    int64
	OrderItemID int64
	Quantity    int
	Amount      decimal.Decimal
}

// RefundRequestItem is one line of an incoming refund request.
type RefundRequestItem struct {
	OrderItemID int64
	Quantity    int
	Amount      decimal.Decimal
}
