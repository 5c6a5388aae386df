package app

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/wanjiru/dukani/internal/adapter/gateway"
	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	testhelpers "github.com/wanjiru/dukani/internal/test"
	"github.com/wanjiru/dukani/internal/usecase"
)

type facadeDeps struct {
	carts     *testhelpers.CartRepositoryStub
	customers *testhelpers.CustomerRepositoryStub
	orders    *testhelpers.OrderRepositoryStub
	payments  *testhelpers.PaymentRepositoryStub
	refunds   *testhelpers.RefundRepositoryStub
	inventory *testhelpers.InventoryRepositoryStub
	gateway   *testhelpers.GatewayProviderStub
}

func newFacade() (*CommerceFacade, *facadeDeps) {
	deps := &facadeDeps{
		carts:     &testhelpers.CartRepositoryStub{},
		customers: testhelpers.NewCustomerRepositoryStub(),
		orders:    &testhelpers.OrderRepositoryStub{},
		payments:  &testhelpers.PaymentRepositoryStub{},
		refunds:   &testhelpers.RefundRepositoryStub{},
		inventory: &testhelpers.InventoryRepositoryStub{},
		gateway:   &testhelpers.GatewayProviderStub{},
	}

	facade := NewCommerceFacade(
		usecase.NewCheckoutUseCase(deps.carts, deps.customers, deps.orders),
		usecase.NewOrderUseCase(deps.orders),
		usecase.NewPaymentUseCase(deps.payments),
		usecase.NewRefundUseCase(deps.refunds),
		usecase.NewInventoryUseCase(deps.inventory),
		deps.gateway,
	)
	return facade, deps
}

func TestCommerceFacadeCart(t *testing.T) {
	facade, deps := newFacade()
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}
	deps.carts.Items = map[int64][]model.CartLine{
		7: {{Product: model.Product{ID: 1, Price: decimal.NewFromInt(5)}, Quantity: 2}},
	}

	lines, err := facade.Cart(context.Background(), customer)
	if err != nil || len(lines) != 1 {
		t.Fatalf("unexpected cart result: %v err=%v", lines, err)
	}

	if err := facade.AddToCart(context.Background(), customer, 1, 3); err != nil {
		t.Fatalf("add to cart error: %v", err)
	}
	if len(deps.carts.AddCalls) != 1 || deps.carts.AddCalls[0].Quantity != 3 {
		t.Fatalf("expected recorded add call, got %v", deps.carts.AddCalls)
	}

	staff := model.Actor{UserID: 1, Role: model.RoleStaff}
	if _, err := facade.Cart(context.Background(), staff); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for staff cart, got %v", err)
	}
}

func TestCommerceFacadeOrders(t *testing.T) {
	facade, deps := newFacade()
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}
	deps.orders.AllOrders = []model.Order{{ID: 1}, {ID: 2}}

	listed, err := facade.Orders(context.Background(), staff)
	if err != nil || len(listed) != 2 {
		t.Fatalf("expected two orders, got %v err=%v", listed, err)
	}

	order, err := facade.UpdateOrderStatus(context.Background(), staff, 5, "processing")
	if err != nil {
		t.Fatalf("update status error: %v", err)
	}
	if order.Status != model.OrderStatusProcessing {
		t.Fatalf("unexpected status %s", order.Status)
	}
	if len(deps.orders.UpdateCalls) != 1 || deps.orders.UpdateCalls[0].Target != model.OrderStatusProcessing {
		t.Fatalf("expected recorded update call, got %v", deps.orders.UpdateCalls)
	}

	if _, err := facade.ResumeOrder(context.Background(), staff, 5); err != nil {
		t.Fatalf("resume error: %v", err)
	}
	if len(deps.orders.ResumedCalls) != 1 {
		t.Fatalf("expected resume call, got %d", len(deps.orders.ResumedCalls))
	}
}

func TestCommerceFacadePayments(t *testing.T) {
	facade, deps := newFacade()
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}

	payment, balance, err := facade.PayOrder(context.Background(), customer, 3, decimal.NewFromInt(20), "card")
	if err != nil {
		t.Fatalf("pay order error: %v", err)
	}
	if payment == nil || !balance.IsZero() {
		t.Fatalf("unexpected pay result: %v balance=%s", payment, balance)
	}

	if _, _, err := facade.PayOrder(context.Background(), customer, 3, decimal.Zero, "card"); !errors.Is(err, domainErrors.ErrInvalidAmount) {
		t.Fatalf("expected invalid amount error, got %v", err)
	}

	deps.orders.Order = &model.Order{ID: 3, CustomerID: 7}
	deps.payments.Payments = []model.Payment{{ID: 1, OrderID: 3}}
	list, err := facade.OrderPayments(context.Background(), customer, 3)
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected payments result: %v err=%v", list, err)
	}

	other := model.Actor{UserID: 8, Role: model.RoleCustomer}
	if _, err := facade.OrderPayments(context.Background(), other, 3); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for foreign order, got %v", err)
	}
}

func TestCommerceFacadeInitiateGatewayCharge(t *testing.T) {
	facade, deps := newFacade()
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}

	payment, err := facade.InitiateGatewayCharge(context.Background(), customer, 3, decimal.NewFromInt(50), "mobile")
	if err != nil {
		t.Fatalf("initiate charge error: %v", err)
	}
	if payment.State != model.PaymentStatePending {
		t.Fatalf("expected pending payment, got %s", payment.State)
	}
	if len(deps.gateway.Charges) != 1 || deps.gateway.Charges[0] != payment.CheckoutRef {
		t.Fatalf("expected gateway charged with payment ref, got %v", deps.gateway.Charges)
	}
}

func TestCommerceFacadeInitiateGatewayChargeRejectionSettles(t *testing.T) {
	facade, deps := newFacade()
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}
	deps.gateway.ChargeFn = func(context.Context, string, decimal.Decimal, string) (*model.GatewayCharge, error) {
		return nil, gateway.RejectionError{StatusCode: 422, Body: "unknown funding source"}
	}

	_, err := facade.InitiateGatewayCharge(context.Background(), customer, 3, decimal.NewFromInt(50), "mobile")
	var rejection gateway.RejectionError
	if !errors.As(err, &rejection) {
		t.Fatalf("expected rejection error, got %v", err)
	}
	if len(deps.payments.Settled) != 1 {
		t.Fatalf("expected rejected charge to be settled, got %d", len(deps.payments.Settled))
	}
	if deps.payments.Settled[0].Succeeded() {
		t.Fatalf("expected failed settle result, got %+v", deps.payments.Settled[0])
	}
}

func TestCommerceFacadeInitiateGatewayChargeTransportErrorLeavesPending(t *testing.T) {
	facade, deps := newFacade()
	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}
	deps.gateway.ChargeFn = func(context.Context, string, decimal.Decimal, string) (*model.GatewayCharge, error) {
		return nil, errors.New("request timed out")
	}

	payment, err := facade.InitiateGatewayCharge(context.Background(), customer, 3, decimal.NewFromInt(50), "mobile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payment.State != model.PaymentStatePending {
		t.Fatalf("expected pending payment, got %s", payment.State)
	}
	if len(deps.payments.Settled) != 0 {
		t.Fatalf("expected no settle for ambiguous failure, got %d", len(deps.payments.Settled))
	}
}

func TestCommerceFacadeApplyGatewayResult(t *testing.T) {
	facade, deps := newFacade()

	result := model.GatewayResult{CheckoutRef: "ref-1", ResultCode: 0, ReceiptNumber: "RCP9"}
	payment, err := facade.ApplyGatewayResult(context.Background(), result)
	if err != nil {
		t.Fatalf("apply result error: %v", err)
	}
	if payment.CheckoutRef != "ref-1" {
		t.Fatalf("unexpected payment %v", payment)
	}
	if len(deps.payments.Settled) != 1 {
		t.Fatalf("expected settle invocation, got %d", len(deps.payments.Settled))
	}
}

func TestCommerceFacadeRefunds(t *testing.T) {
	facade, deps := newFacade()
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}
	items := []model.RefundRequestItem{{OrderItemID: 1, Quantity: 1, Amount: decimal.NewFromInt(10)}}

	refund, err := facade.RefundOrder(context.Background(), staff, 3, 1, items, "damaged", true)
	if err != nil {
		t.Fatalf("refund error: %v", err)
	}
	if refund.Status != model.RefundStatusProcessed {
		t.Fatalf("unexpected refund status %s", refund.Status)
	}

	customer := model.Actor{UserID: 7, Role: model.RoleCustomer}
	if _, err := facade.RefundOrder(context.Background(), customer, 3, 1, items, "damaged", true); !errors.Is(err, domainErrors.ErrForbidden) {
		t.Fatalf("expected forbidden for customer refund, got %v", err)
	}

	deps.orders.Order = &model.Order{ID: 3, CustomerID: 7}
	deps.refunds.Refunds = []model.Refund{{ID: 1, OrderID: 3}}
	list, err := facade.OrderRefunds(context.Background(), customer, 3)
	if err != nil || len(list) != 1 {
		t.Fatalf("unexpected refunds result: %v err=%v", list, err)
	}
}

func TestCommerceFacadeInventory(t *testing.T) {
	facade, deps := newFacade()
	staff := model.Actor{UserID: 2, Role: model.RoleStaff}

	if err := facade.RestockProduct(context.Background(), staff, 9, 5, "purchase", 11); err != nil {
		t.Fatalf("restock error: %v", err)
	}
	if len(deps.inventory.Stocked) != 1 || deps.inventory.Stocked[0].Reference != model.LedgerRefPurchase {
		t.Fatalf("expected purchase restock, got %v", deps.inventory.Stocked)
	}

	if err := facade.RestockProduct(context.Background(), staff, 9, 5, "bogus", 0); !errors.Is(err, domainErrors.ErrInvalidReference) {
		t.Fatalf("expected invalid reference error, got %v", err)
	}

	deps.inventory.Report = &model.StockReport{ProductID: 9, Stored: 4, Computed: 4, Consistent: true}
	report, err := facade.ReconcileProduct(context.Background(), staff, 9)
	if err != nil || !report.Consistent {
		t.Fatalf("unexpected reconcile result: %v err=%v", report, err)
	}
}
