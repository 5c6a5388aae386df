package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RefundItemRequest allocates refunded quantity and money to an order item.
type RefundItemRequest struct {
	OrderItemID int64           `json:"order_item_id" binding:"required"`
	Quantity    int             `json:"quantity" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required"`
}

// RefundRequest reverses part of a completed payment.
type RefundRequest struct {
	PaymentID int64               `json:"payment_id" binding:"required"`
	Reason    string              `json:"reason"`
	Restock   bool                `json:"restock"`
	Items     []RefundItemRequest `json:"items" binding:"required"`
}

// RefundItemResponse is one refunded allocation.
type RefundItemResponse struct {
	OrderItemID int64           `json:"order_item_id"`
	Quantity    int             `json:"quantity"`
	Amount      decimal.Decimal `json:"amount"`
}

// RefundResponse is one processed refund.
type RefundResponse struct {
	ID          int64                `json:"id"`
	OrderID     int64                `json:"order_id"`
	PaymentID   int64                `json:"payment_id"`
	Amount      decimal.Decimal      `json:"amount"`
	Reason      string               `json:"reason,omitempty"`
	Status      string               `json:"status"`
	ProcessedBy int64                `json:"processed_by"`
	ProcessedAt time.Time            `json:"processed_at"`
	Items       []RefundItemResponse `json:"items,omitempty"`
}
