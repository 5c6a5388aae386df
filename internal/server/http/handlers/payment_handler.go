package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/server/http/dto"
)

// PaymentHandler manages payment, gateway and invoice endpoints.
type PaymentHandler struct {
	facade PaymentFacade
	logger *slog.Logger
}

// NewPaymentHandler constructs PaymentHandler.
func NewPaymentHandler(facade PaymentFacade, logger *slog.Logger) *PaymentHandler {
	return &PaymentHandler{facade: facade, logger: logger}
}

// Pay handles POST /api/orders/:id/payments.
func (h *PaymentHandler) Pay(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.PaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, balance, err := h.facade.PayOrder(c.Request.Context(), actor, orderID, req.Amount, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.PaymentAppliedResponse{Payment: toPaymentResponse(payment), BalanceDue: balance})
}

// ClearBalance handles POST /api/orders/:id/payments/clear.
func (h *PaymentHandler) ClearBalance(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.ClearBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.facade.ClearOrderBalance(c.Request.Context(), actor, orderID, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toPaymentResponse(payment))
}

// List handles GET /api/orders/:id/payments.
func (h *PaymentHandler) List(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	payments, err := h.facade.OrderPayments(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]dto.PaymentResponse, 0, len(payments))
	for i := range payments {
		resp = append(resp, toPaymentResponse(&payments[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// Invoice handles GET /api/orders/:id/invoice.
func (h *PaymentHandler) Invoice(c *gin.Context) {
	actor := CurrentActor(c)
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.facade.OrderInvoice(c.Request.Context(), actor, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.InvoiceResponse{
		ID:            invoice.ID,
		OrderID:       invoice.OrderID,
		InvoiceNumber: invoice.InvoiceNumber,
		Amount:        invoice.Amount,
		IssuedAt:      invoice.IssuedAt,
	})
}

// Initiate handles POST /api/payments/initiate.
func (h *PaymentHandler) Initiate(c *gin.Context) {
	actor := CurrentActor(c)
	var req dto.InitiateChargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body"})
		return
	}

	payment, err := h.facade.InitiateGatewayCharge(c.Request.Context(), actor, req.OrderID, req.Amount, req.Method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, toPaymentResponse(payment))
}

// Callback handles POST /api/gateway/callback. The gateway keeps retrying
// anything it does not consider acknowledged, so the response is always an
// acceptance; failures are logged and left to the reconciler.
func (h *PaymentHandler) Callback(c *gin.Context) {
	ack := dto.GatewayCallbackResponse{ResultCode: 0, ResultDesc: "Accepted"}

	var req dto.GatewayCallbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("malformed gateway callback", slog.String("error", err.Error()))
		c.JSON(http.StatusOK, ack)
		return
	}

	_, err := h.facade.ApplyGatewayResult(c.Request.Context(), model.GatewayResult{
		CheckoutRef:   req.CheckoutRef,
		ResultCode:    req.ResultCode,
		ResultDesc:    req.ResultDesc,
		ReceiptNumber: req.ReceiptNumber,
	})
	if err != nil {
		h.logger.Error("gateway callback settle failed",
			slog.String("checkout_ref", req.CheckoutRef), slog.String("error", err.Error()))
	}
	c.JSON(http.StatusOK, ack)
}

func toPaymentResponse(p *model.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:            p.ID,
		OrderID:       p.OrderID,
		Amount:        p.Amount,
		Method:        p.Method,
		TransactionID: p.TransactionID,
		CheckoutRef:   p.CheckoutRef,
		State:         string(p.State),
		ReceiptNumber: p.ReceiptNumber,
		CreatedAt:     p.CreatedAt,
		SettledAt:     p.SettledAt,
	}
}
