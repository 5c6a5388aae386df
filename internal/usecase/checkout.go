package usecase

import (
	"context"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/domain/repository"
)

// CheckoutUseCase reads the customer's cart and materializes it into an order
// inside one atomic unit of work.
type CheckoutUseCase struct {
	carts     repository.CartRepository
	customers repository.CustomerRepository
	orders    repository.OrderRepository
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(carts repository.CartRepository, customers repository.CustomerRepository, orders repository.OrderRepository) *CheckoutUseCase {
	return &CheckoutUseCase{carts: carts, customers: customers, orders: orders}
}

// Cart returns the actor's cart lines with current prices.
func (u *CheckoutUseCase) Cart(ctx context.Context, actor model.Actor) ([]model.CartLine, error) {
	if !actor.IsCustomer() {
		return nil, domainErrors.ErrForbidden
	}
	return u.carts.Lines(ctx, actor.UserID)
}

// AddToCart adds quantity of a product to the actor's cart.
func (u *CheckoutUseCase) AddToCart(ctx context.Context, actor model.Actor, productID int64, qty int) error {
	if !actor.IsCustomer() {
		return domainErrors.ErrForbidden
	}
	if qty <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	return u.carts.Add(ctx, actor.UserID, productID, qty)
}

// SetCartQuantity replaces a line's quantity.
func (u *CheckoutUseCase) SetCartQuantity(ctx context.Context, actor model.Actor, productID int64, qty int) error {
	if !actor.IsCustomer() {
		return domainErrors.ErrForbidden
	}
	if qty <= 0 {
		return domainErrors.ErrInvalidQuantity
	}
	return u.carts.SetQuantity(ctx, actor.UserID, productID, qty)
}

// RemoveFromCart deletes one line.
func (u *CheckoutUseCase) RemoveFromCart(ctx context.Context, actor model.Actor, productID int64) error {
	if !actor.IsCustomer() {
		return domainErrors.ErrForbidden
	}
	return u.carts.Remove(ctx, actor.UserID, productID)
}

// ClearCart empties the actor's cart.
func (u *CheckoutUseCase) ClearCart(ctx context.Context, actor model.Actor) error {
	if !actor.IsCustomer() {
		return domainErrors.ErrForbidden
	}
	return u.carts.Clear(ctx, actor.UserID)
}

// Checkout validates the checkout preconditions, then runs the atomic
// conversion: order + items at current prices, stock reservations with ledger
// entries, order number assignment, and cart clearing commit together or not
// at all. Discount, tax and shipping amounts are supplied by upstream pricing
// collaborators and only validated for sign here.
func (u *CheckoutUseCase) Checkout(ctx context.Context, actor model.Actor, in model.CheckoutInput) (*model.Order, error) {
	if !actor.IsCustomer() {
		return nil, domainErrors.ErrForbidden
	}
	in.CustomerID = actor.UserID

	if in.ShippingCost.IsNegative() || in.TaxAmount.IsNegative() || in.DiscountAmount.IsNegative() {
		return nil, domainErrors.ErrInvalidAmount
	}

	lines, err := u.carts.Lines(ctx, actor.UserID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}

	if err := u.verifyAddress(ctx, in.ShippingAddressID, actor.UserID, model.AddressRoleShipping); err != nil {
		return nil, err
	}
	if err := u.verifyAddress(ctx, in.BillingAddressID, actor.UserID, model.AddressRoleBilling); err != nil {
		return nil, err
	}

	method, err := u.customers.GetPaymentMethod(ctx, in.PaymentMethodID)
	if err != nil || method.CustomerID != actor.UserID {
		return nil, domainErrors.ErrMissingPaymentMethod
	}

	return u.orders.CreateFromCart(ctx, actor, in)
}

func (u *CheckoutUseCase) verifyAddress(ctx context.Context, addressID, customerID int64, role model.AddressRole) error {
	addr, err := u.customers.GetAddress(ctx, addressID)
	if err != nil || addr.CustomerID != customerID || addr.Role != role {
		return domainErrors.MissingAddressError{Role: string(role)}
	}
	return nil
}
