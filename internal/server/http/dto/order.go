package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderItemResponse is one immutable order line.
type OrderItemResponse struct {
	ID         int64           `json:"id"`
	ProductID  int64           `json:"product_id"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	Discount   decimal.Decimal `json:"discount"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// OrderResponse is the full order view with derived balance.
type OrderResponse struct {
	ID             int64               `json:"id"`
	OrderNumber    string              `json:"order_number"`
	CustomerID     int64               `json:"customer_id"`
	Status         string              `json:"status"`
	PaymentStatus  string              `json:"payment_status"`
	Subtotal       decimal.Decimal     `json:"subtotal"`
	ShippingCost   decimal.Decimal     `json:"shipping_cost"`
	TaxAmount      decimal.Decimal     `json:"tax_amount"`
	DiscountAmount decimal.Decimal     `json:"discount_amount"`
	TotalAmount    decimal.Decimal     `json:"total_amount"`
	BalanceDue     decimal.Decimal     `json:"balance_due"`
	Items          []OrderItemResponse `json:"items,omitempty"`
	CreatedAt      time.Time           `json:"created_at"`
	UpdatedAt      time.Time           `json:"updated_at"`
}

// StatusUpdateRequest names the target lifecycle status.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// StatusChangeResponse is one status history entry.
type StatusChangeResponse struct {
	Status    string    `json:"status"`
	ActorID   int64     `json:"actor_id"`
	Note      string    `json:"note,omitempty"`
	ChangedAt time.Time `json:"changed_at"`
}
