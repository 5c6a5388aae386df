package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/wanjiru/dukani/internal/domain/errors"
	"github.com/wanjiru/dukani/internal/domain/model"
	"github.com/wanjiru/dukani/internal/server/http/dto"
	"github.com/wanjiru/dukani/internal/server/http/middleware"
)

// CurrentActor extracts the resolved acting identity from context.
func CurrentActor(c *gin.Context) model.Actor {
	val, ok := c.Get(middleware.ActorContextKey)
	if !ok {
		return model.Actor{}
	}
	actor, _ := val.(model.Actor)
	return actor
}

// pathID parses a positive int64 path parameter.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors onto HTTP statuses with a uniform body.
func respondError(c *gin.Context, err error) {
	var (
		stockErr      domainErrors.InsufficientStockError
		addressErr    domainErrors.MissingAddressError
		overpayErr    domainErrors.OverpaymentError
		transitionErr domainErrors.InvalidTransitionError
		refundErr     domainErrors.RefundExceedsPaymentError
		quantityErr   domainErrors.QuantityExceedsOrderedError
	)

	switch {
	case errors.Is(err, domainErrors.ErrNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrForbidden):
		c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrInvalidAmount),
		errors.Is(err, domainErrors.ErrInvalidQuantity),
		errors.Is(err, domainErrors.ErrInvalidStatus),
		errors.Is(err, domainErrors.ErrInvalidReference),
		errors.Is(err, domainErrors.ErrEmptyCart),
		errors.Is(err, domainErrors.ErrMissingPaymentMethod),
		errors.As(err, &addressErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrPaymentIncomplete),
		errors.Is(err, domainErrors.ErrNoPayment),
		errors.Is(err, domainErrors.ErrPaymentNotRefundable),
		errors.Is(err, domainErrors.ErrLedgerMismatch),
		errors.As(err, &stockErr),
		errors.As(err, &overpayErr),
		errors.As(err, &transitionErr),
		errors.As(err, &refundErr),
		errors.As(err, &quantityErr):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domainErrors.ErrTransactionFailed):
		c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal error"})
	}
}
