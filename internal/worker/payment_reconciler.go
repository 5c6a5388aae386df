package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/wanjiru/dukani/internal/adapter/gateway"
	"github.com/wanjiru/dukani/internal/domain/model"
)

// CommerceFacade exposes the subset of application functionality required by the worker.
type CommerceFacade interface {
	PendingGatewayPayments(ctx context.Context, olderThan time.Duration, limit int) ([]model.Payment, error)
	CheckGatewayStatus(ctx context.Context, ref string) (*model.GatewayResult, error)
	ApplyGatewayResult(ctx context.Context, result model.GatewayResult) (*model.Payment, error)
}

// PaymentReconciler polls the gateway for charges whose callback never arrived
// and settles them concurrently.
type PaymentReconciler struct {
	facade       CommerceFacade
	pollInterval time.Duration
	minAge       time.Duration
	batchSize    int
	workers      int
	logger       *slog.Logger

	jobs   chan model.Payment
	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// NewPaymentReconciler constructs the reconciliation worker pool.
func NewPaymentReconciler(facade CommerceFacade, pollInterval, minAge time.Duration, batchSize, workers int, logger *slog.Logger) *PaymentReconciler {
	if workers <= 0 {
		workers = 1
	}
	if batchSize <= 0 {
		batchSize = 1
	}
	return &PaymentReconciler{
		facade:       facade,
		pollInterval: pollInterval,
		minAge:       minAge,
		batchSize:    batchSize,
		workers:      workers,
		logger:       logger,
		jobs:         make(chan model.Payment, batchSize*workers),
	}
}

// Start launches background processing.
func (p *PaymentReconciler) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel

	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker(runCtx)
	}

	p.wg.Add(1)
	go p.dispatch(runCtx)
}

// Stop waits for all workers to finish.
func (p *PaymentReconciler) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *PaymentReconciler) dispatch(ctx context.Context) {
	defer p.wg.Done()
	defer close(p.jobs)
	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fetchAndDispatch(ctx)
		}
	}
}

func (p *PaymentReconciler) fetchAndDispatch(ctx context.Context) {
	payments, err := p.facade.PendingGatewayPayments(ctx, p.minAge, p.batchSize)
	if err != nil {
		p.logger.Error("fetch pending payments failed", slog.String("error", err.Error()))
		return
	}
	for _, payment := range payments {
		select {
		case <-ctx.Done():
			return
		case p.jobs <- payment:
		}
	}
}

func (p *PaymentReconciler) worker(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case payment, ok := <-p.jobs:
			if !ok {
				return
			}
			p.handlePayment(ctx, payment)
		}
	}
}

func (p *PaymentReconciler) handlePayment(ctx context.Context, payment model.Payment) {
	result, err := p.facade.CheckGatewayStatus(ctx, payment.CheckoutRef)
	if err != nil {
		switch e := err.(type) {
		case gateway.TooManyRequestsError:
			p.logger.Warn("gateway rate limited", slog.Duration("retry_after", e.RetryAfter))
			time.Sleep(e.RetryAfter)
		default:
			if errors.Is(err, gateway.ErrChargePending) {
				return
			}
			p.logger.Error("gateway status fetch failed",
				slog.String("checkout_ref", payment.CheckoutRef), slog.String("error", err.Error()))
		}
		return
	}

	if _, err := p.facade.ApplyGatewayResult(ctx, *result); err != nil {
		p.logger.Error("settle payment failed",
			slog.String("checkout_ref", payment.CheckoutRef), slog.String("error", err.Error()))
	}
}
