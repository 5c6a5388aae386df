package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wanjiru/dukani/internal/domain/model"
)

// ErrChargePending indicates the gateway has not settled the charge yet.
var ErrChargePending = errors.New("charge still pending")

// RejectionError is a definitive refusal: the gateway examined the charge
// request and will never settle it. Transport failures and server errors are
// not rejections, since the gateway may have accepted the charge.
type RejectionError struct {
	StatusCode int
	Body       string
}

func (e RejectionError) Error() string {
	return fmt.Sprintf("gateway rejected charge: status %d", e.StatusCode)
}

// TooManyRequestsError represents rate limiting signal from the gateway.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Client exposes operations against the payment gateway.
type Client interface {
	// Charge asks the gateway to collect amount under the given reference.
	// The gateway acknowledges immediately; the outcome arrives later via
	// callback or Status polling.
	Charge(ctx context.Context, ref string, amount decimal.Decimal, description string) (*model.GatewayCharge, error)

	// Status queries the outcome of a previously initiated charge.
	Status(ctx context.Context, ref string) (*model.GatewayResult, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

type chargeRequest struct {
	CheckoutRef string `json:"checkout_ref"`
	Amount      string `json:"amount"`
	Description string `json:"description,omitempty"`
}

type chargeResponse struct {
	CheckoutRef string `json:"checkout_ref"`
	MerchantRef string `json:"merchant_ref"`
	Description string `json:"description,omitempty"`
}

type statusResponse struct {
	CheckoutRef   string `json:"checkout_ref"`
	ResultCode    int    `json:"result_code"`
	ResultDesc    string `json:"result_desc,omitempty"`
	ReceiptNumber string `json:"receipt_number,omitempty"`
}

// NewHTTPClient creates HTTP gateway client with default timeout.
func NewHTTPClient(baseURL string, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse gateway url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("gateway url must be absolute")
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Charge initiates a collection for the given reference.
func (c *HTTPClient) Charge(ctx context.Context, ref string, amount decimal.Decimal, description string) (*model.GatewayCharge, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/charges")

	payload, err := json.Marshal(chargeRequest{CheckoutRef: ref, Amount: amount.StringFixed(2), Description: description})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusAccepted:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data chargeResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.GatewayCharge{CheckoutRef: data.CheckoutRef, MerchantRef: data.MerchantRef, Description: data.Description}, nil
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway charge failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			return nil, RejectionError{StatusCode: resp.StatusCode, Body: string(body)}
		}
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}
}

// Status queries the outcome of a charge.
func (c *HTTPClient) Status(ctx context.Context, ref string) (*model.GatewayResult, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/api/charges/", ref)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var data statusResponse
		if err := json.Unmarshal(body, &data); err != nil {
			return nil, err
		}
		return &model.GatewayResult{
			CheckoutRef:   data.CheckoutRef,
			ResultCode:    data.ResultCode,
			ResultDesc:    data.ResultDesc,
			ReceiptNumber: data.ReceiptNumber,
		}, nil
	case http.StatusNoContent:
		return nil, ErrChargePending
	case http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		return nil, TooManyRequestsError{RetryAfter: retryAfter}
	default:
		body, _ := io.ReadAll(resp.Body)
		c.logger.Error("gateway status failed", slog.Int("status", resp.StatusCode), slog.String("body", string(body)))
		return nil, fmt.Errorf("gateway error: %s", resp.Status)
	}
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}
