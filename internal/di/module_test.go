package di

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"go.uber.org/fx"

	"github.com/wanjiru/dukani/internal/adapter/gateway"
	"github.com/wanjiru/dukani/internal/app"
	"github.com/wanjiru/dukani/internal/config"
	"github.com/wanjiru/dukani/internal/domain/repository"
	"github.com/wanjiru/dukani/internal/storage/postgres"
	"github.com/wanjiru/dukani/internal/test"
)

func TestModuleComposesGraphWithReplacements(t *testing.T) {
	cfg := &config.Config{
		RunAddress:          ":0",
		DatabaseURI:         "postgres://stub",
		GatewayAddress:      "http://localhost",
		PaymentPollInterval: time.Millisecond,
		ReconcileAfter:      time.Millisecond,
		WorkerPoolSize:      1,
		ShutdownTimeout:     time.Millisecond,
		MaxPaymentsBatch:    1,
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	orderRepo := &test.OrderRepositoryStub{}
	paymentRepo := &test.PaymentRepositoryStub{}
	refundRepo := &test.RefundRepositoryStub{}
	inventoryRepo := &test.InventoryRepositoryStub{}
	cartRepo := &test.CartRepositoryStub{}
	customerRepo := test.NewCustomerRepositoryStub()
	gatewayStub := &test.GatewayProviderStub{}

	var facade *app.CommerceFacade
	fxApp := fx.New(
		fx.NopLogger,
		fx.Supply(context.Background()),
		Module(
			fx.Replace(cfg),
			fx.Replace(logger),
			fx.Replace(&postgres.Storage{}),
			fx.Replace(repository.OrderRepository(orderRepo)),
			fx.Replace(repository.PaymentRepository(paymentRepo)),
			fx.Replace(repository.RefundRepository(refundRepo)),
			fx.Replace(repository.InventoryRepository(inventoryRepo)),
			fx.Replace(repository.CartRepository(cartRepo)),
			fx.Replace(repository.CustomerRepository(customerRepo)),
			fx.Replace(gateway.Client(gatewayStub)),
		),
		fx.Populate(&facade),
	)

	if err := fxApp.Err(); err != nil {
		t.Fatalf("fx app returned error: %v", err)
	}
	t.Cleanup(func() { _ = fxApp.Stop(context.Background()) })
	if facade == nil {
		t.Fatal("expected commerce facade instance")
	}
}
