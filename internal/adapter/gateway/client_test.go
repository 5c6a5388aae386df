package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func TestNewHTTPClientValidatesURL(t *testing.T) {
	if _, err := NewHTTPClient("://bad-url", testLogger()); err == nil {
		t.Fatal("expected error for invalid url")
	}
	if _, err := NewHTTPClient("/relative", testLogger()); err == nil {
		t.Fatal("expected error for relative url")
	}
}

func TestChargeSendsRequestAndParsesResponse(t *testing.T) {
	var received chargeRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/charges" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusAccepted)
		_ = json.NewEncoder(w).Encode(chargeResponse{CheckoutRef: received.CheckoutRef, MerchantRef: "m-1"})
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	charge, err := client.Charge(context.Background(), "ref-1", decimal.NewFromFloat(12.5), "order 3")
	if err != nil {
		t.Fatalf("charge returned error: %v", err)
	}
	if charge.CheckoutRef != "ref-1" || charge.MerchantRef != "m-1" {
		t.Fatalf("unexpected charge response: %+v", charge)
	}
	if received.Amount != "12.50" {
		t.Fatalf("expected fixed-point amount 12.50, got %q", received.Amount)
	}
}

func TestStatusHandlesSpecialStatuses(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		header     http.Header
		wantErr    error
	}{
		{name: "still pending", statusCode: http.StatusNoContent, wantErr: ErrChargePending},
		{name: "too many requests", statusCode: http.StatusTooManyRequests, header: http.Header{"Retry-After": []string{"5"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				for key, values := range tt.header {
					for _, v := range values {
						w.Header().Add(key, v)
					}
				}
				w.WriteHeader(tt.statusCode)
			}))
			defer srv.Close()

			client, err := NewHTTPClient(srv.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.Status(context.Background(), "ref-1")
			if tt.statusCode == http.StatusTooManyRequests {
				var tm TooManyRequestsError
				if !errors.As(err, &tm) {
					t.Fatalf("expected TooManyRequestsError, got %v", err)
				}
				if tm.RetryAfter != 5*time.Second {
					t.Fatalf("expected retry after 5s, got %v", tm.RetryAfter)
				}
			} else if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestStatusParsesResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/charges/ref-1" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(statusResponse{
			CheckoutRef:   "ref-1",
			ResultCode:    0,
			ResultDesc:    "Success",
			ReceiptNumber: "RCP42",
		})
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, testLogger())
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	result, err := client.Status(context.Background(), "ref-1")
	if err != nil {
		t.Fatalf("status returned error: %v", err)
	}
	if !result.Succeeded() || result.ReceiptNumber != "RCP42" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestChargeClassifiesFailures(t *testing.T) {
	tests := []struct {
		name         string
		statusCode   int
		wantRejected bool
	}{
		{name: "client error is a rejection", statusCode: http.StatusUnprocessableEntity, wantRejected: true},
		{name: "server error stays ambiguous", statusCode: http.StatusBadGateway, wantRejected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.statusCode)
			}))
			defer srv.Close()

			client, err := NewHTTPClient(srv.URL, testLogger())
			if err != nil {
				t.Fatalf("failed to create client: %v", err)
			}

			_, err = client.Charge(context.Background(), "ref-1", decimal.NewFromInt(1), "")
			if err == nil {
				t.Fatal("expected error")
			}
			var rejection RejectionError
			if got := errors.As(err, &rejection); got != tt.wantRejected {
				t.Fatalf("rejection classification = %v, want %v (err %v)", got, tt.wantRejected, err)
			}
			if tt.wantRejected && rejection.StatusCode != tt.statusCode {
				t.Fatalf("expected status %d, got %d", tt.statusCode, rejection.StatusCode)
			}
		})
	}
}

func TestChargeLogsErrorResponses(t *testing.T) {
	called := make(chan struct{}, 1)
	handler := slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.LevelKey && a.Value.Any() == slog.LevelError {
			select {
			case called <- struct{}{}:
			default:
			}
		}
		return a
	}})
	logger := slog.New(handler)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client, err := NewHTTPClient(srv.URL, logger)
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := client.Charge(context.Background(), "ref-1", decimal.NewFromInt(1), ""); err == nil {
		t.Fatal("expected error for server failure")
	}
	select {
	case <-called:
	default:
		t.Fatal("expected error log entry")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if got := parseRetryAfter(""); got != 5*time.Second {
		t.Fatalf("expected default 5s, got %v", got)
	}
	if got := parseRetryAfter("12"); got != 12*time.Second {
		t.Fatalf("expected 12s, got %v", got)
	}
	if got := parseRetryAfter("garbage"); got != 5*time.Second {
		t.Fatalf("expected fallback 5s, got %v", got)
	}
}
