package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentRequest records a direct payment against an order.
type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
	Method string          `json:"method" binding:"required"`
}

// ClearBalanceRequest settles the exact remaining balance.
type ClearBalanceRequest struct {
	Method string `json:"method" binding:"required"`
}

// InitiateChargeRequest starts an asynchronous gateway collection.
type InitiateChargeRequest struct {
	OrderID int64           `json:"order_id" binding:"required"`
	Amount  decimal.Decimal `json:"amount" binding:"required"`
	Method  string          `json:"method" binding:"required"`
}

// PaymentResponse is one payment record.
type PaymentResponse struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	Amount        decimal.Decimal `json:"amount"`
	Method        string          `json:"method"`
	TransactionID string          `json:"transaction_id"`
	CheckoutRef   string          `json:"checkout_ref,omitempty"`
	State         string          `json:"state"`
	ReceiptNumber string          `json:"receipt_number,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	SettledAt     *time.Time      `json:"settled_at,omitempty"`
}

// PaymentAppliedResponse pairs the payment with the resulting balance.
type PaymentAppliedResponse struct {
	Payment    PaymentResponse `json:"payment"`
	BalanceDue decimal.Decimal `json:"balance_due"`
}

// GatewayCallbackRequest is the asynchronous result pushed by the gateway.
type GatewayCallbackRequest struct {
	CheckoutRef   string `json:"checkout_ref"`
	ResultCode    int    `json:"result_code"`
	ResultDesc    string `json:"result_desc"`
	ReceiptNumber string `json:"receipt_number"`
}

// GatewayCallbackResponse acknowledges a callback. The gateway retries on
// anything but an acknowledgement, so the body always reports acceptance.
type GatewayCallbackResponse struct {
	ResultCode int    `json:"result_code"`
	ResultDesc string `json:"result_desc"`
}

// InvoiceResponse is the invoice issued at full settlement.
type InvoiceResponse struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id"`
	InvoiceNumber string          `json:"invoice_number"`
	Amount        decimal.Decimal `json:"amount"`
	IssuedAt      time.Time       `json:"issued_at"`
}
