package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartItem is a customer's intent to buy; unique per customer and product.
type CartItem struct {
	ID         int64
	CustomerID int64
	ProductID  int64
	Quantity   int
	AddedAt    time.Time
}

// CartLine joins a cart item with its product for display and checkout.
type CartLine struct {
	Product  Product
	Quantity int
}

// Subtotal is the line total at the product's current price.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// CartTotal sums line subtotals.
func CartTotal(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}
