package handlers

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// CartFacade covers cart management and checkout conversion.
type CartFacade interface {
	Cart(ctx context.Context, actor model.Actor) ([]model.CartLine, error)
	AddToCart(ctx context.Context, actor model.Actor, productID int64, qty int) error
	SetCartQuantity(ctx context.Context, actor model.Actor, productID int64, qty int) error
	RemoveFromCart(ctx context.Context, actor model.Actor, productID int64) error
	ClearCart(ctx context.Context, actor model.Actor) error
	Checkout(ctx context.Context, actor model.Actor, in model.CheckoutInput) (*model.Order, error)
}

// OrderFacade covers the order lifecycle operations exposed via HTTP.
type OrderFacade interface {
	Order(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	Orders(ctx context.Context, actor model.Actor) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, actor model.Actor, orderID int64, statusToken string) (*model.Order, error)
	CancelOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	HoldOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	ResumeOrder(ctx context.Context, actor model.Actor, orderID int64) (*model.Order, error)
	OrderHistory(ctx context.Context, actor model.Actor, orderID int64) ([]model.StatusChange, error)
}

// PaymentFacade covers direct payments, gateway charges and invoices.
type PaymentFacade interface {
	PayOrder(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, decimal.Decimal, error)
	ClearOrderBalance(ctx context.Context, actor model.Actor, orderID int64, method string) (*model.Payment, error)
	OrderPayments(ctx context.Context, actor model.Actor, orderID int64) ([]model.Payment, error)
	OrderInvoice(ctx context.Context, actor model.Actor, orderID int64) (*model.Invoice, error)
	InitiateGatewayCharge(ctx context.Context, actor model.Actor, orderID int64, amount decimal.Decimal, method string) (*model.Payment, error)
	ApplyGatewayResult(ctx context.Context, result model.GatewayResult) (*model.Payment, error)
}

// RefundFacade covers refund creation and listing.
type RefundFacade interface {
	RefundOrder(ctx context.Context, actor model.Actor, orderID, paymentID int64, items []model.RefundRequestItem, reason string, restock bool) (*model.Refund, error)
	OrderRefunds(ctx context.Context, actor model.Actor, orderID int64) ([]model.Refund, error)
}

// InventoryFacade covers stock administration.
type InventoryFacade interface {
	RestockProduct(ctx context.Context, actor model.Actor, productID int64, qty int, reference string, referenceID int64) error
	ProductLedger(ctx context.Context, actor model.Actor, productID int64) ([]model.LedgerEntry, error)
	ReconcileProduct(ctx context.Context, actor model.Actor, productID int64) (*model.StockReport, error)
}

// CommerceFacade aggregates the full set of operations used across handlers.
type CommerceFacade interface {
	CartFacade
	OrderFacade
	PaymentFacade
	RefundFacade
	InventoryFacade
}

// HealthChecker reports backing store connectivity.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}
