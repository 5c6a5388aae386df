package dto

import "github.com/shopspring/decimal"

// CartItemRequest adds or updates one cart line.
type CartItemRequest struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

// CartQuantityRequest replaces a line's quantity.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// CartLineResponse is one cart line with its current price.
type CartLineResponse struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	SKU       string          `json:"sku"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the whole cart.
type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

// CheckoutRequest carries the references and pricing inputs for conversion.
type CheckoutRequest struct {
	ShippingAddressID int64           `json:"shipping_address_id" binding:"required"`
	BillingAddressID  int64           `json:"billing_address_id" binding:"required"`
	PaymentMethodID   int64           `json:"payment_method_id" binding:"required"`
	ShippingCost      decimal.Decimal `json:"shipping_cost"`
	TaxAmount         decimal.Decimal `json:"tax_amount"`
	DiscountAmount    decimal.Decimal `json:"discount_amount"`
}
