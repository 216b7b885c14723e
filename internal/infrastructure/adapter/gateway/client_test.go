package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	gwport "github.com/tzedaka-labs/donation-processor/internal/domain/port/gateway"
	mcore "github.com/tzedaka-labs/donation-processor/mocks/port/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *mcore.MockLogger {
	logger := mcore.NewMockLogger(t)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

func testOptions(baseURL string) Options {
	return Options{
		BaseURL: baseURL,
		APIKey:  "test-key",
		Timeout: 2 * time.Second,
	}
}

func TestPrimaryGatewayCharge(t *testing.T) {
	ctx := context.Background()

	chargeRequest := gwport.ChargeRequest{
		DonationID:    "don-1",
		AmountInCents: 1800,
		Currency:      "USD",
		MethodType:    "credit_card",
		MethodToken:   "tok-1",
	}

	t.Run("Successful charge", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/charges", r.URL.Path)
			assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "don-1", body["merchantReference"])
			assert.Equal(t, float64(1800), body["amountInCents"])

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(chargeResponseBody{
				TransactionID: "ext-1",
				Status:        "succeeded",
			})
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		result, err := gw.Charge(ctx, chargeRequest)

		require.NoError(t, err)
		assert.Equal(t, "ext-1", result.ExternalTransactionID)
		assert.Equal(t, gwport.StatusSucceeded, result.Status)
	})

	t.Run("Declined charge carries the native reason", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
			_ = json.NewEncoder(w).Encode(chargeResponseBody{
				TransactionID:  "ext-2",
				Status:         "declined",
				DeclineCode:    "card_declined",
				DeclineMessage: "insufficient funds",
			})
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		_, err := gw.Charge(ctx, chargeRequest)

		assert.ErrorIs(t, err, errs.ErrGatewayDeclined)
		var gwErr *errs.GatewayError
		require.ErrorAs(t, err, &gwErr)
		assert.Equal(t, "card_declined", gwErr.NativeCode)
		assert.Equal(t, "ext-2", gwErr.ExternalID)
	})

	t.Run("Server error is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		_, err := gw.Charge(ctx, chargeRequest)

		assert.ErrorIs(t, err, errs.ErrGatewayTransient)
	})

	t.Run("Unreachable gateway is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		_, err := gw.Charge(ctx, chargeRequest)

		assert.ErrorIs(t, err, errs.ErrGatewayTransient)
	})

	t.Run("Pending charge is returned as pending", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(chargeResponseBody{
				TransactionID: "ext-3",
				Status:        "processing",
			})
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		result, err := gw.Charge(ctx, chargeRequest)

		require.NoError(t, err)
		assert.Equal(t, gwport.StatusPending, result.Status)
	})

	t.Run("Unknown status vocabulary is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(chargeResponseBody{
				TransactionID: "ext-4",
				Status:        "approved",
			})
		}))
		defer server.Close()

		// "approved" belongs to the regional vocabulary, not the primary one
		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		_, err := gw.Charge(ctx, chargeRequest)

		assert.ErrorIs(t, err, errs.ErrGatewayTransient)
	})
}

func TestGatewayQueryStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("Maps the primary vocabulary", func(t *testing.T) {
		testCases := []struct {
			native   string
			expected gwport.ChargeStatus
		}{
			{"succeeded", gwport.StatusSucceeded},
			{"declined", gwport.StatusDeclined},
			{"failed", gwport.StatusDeclined},
			{"pending", gwport.StatusPending},
			{"processing", gwport.StatusPending},
			{"refunded", gwport.StatusRefunded},
		}

		for _, tc := range testCases {
			t.Run(tc.native, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					assert.Equal(t, "/charges/ext-1", r.URL.Path)
					_ = json.NewEncoder(w).Encode(chargeResponseBody{
						TransactionID: "ext-1",
						Status:        tc.native,
					})
				}))
				defer server.Close()

				gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
				status, err := gw.QueryStatus(ctx, "ext-1")

				require.NoError(t, err)
				assert.Equal(t, tc.expected, status)
			})
		}
	})

	t.Run("Maps the regional vocabulary", func(t *testing.T) {
		testCases := []struct {
			native   string
			expected gwport.ChargeStatus
		}{
			{"approved", gwport.StatusSucceeded},
			{"captured", gwport.StatusSucceeded},
			{"rejected", gwport.StatusDeclined},
			{"blocked", gwport.StatusDeclined},
			{"in_process", gwport.StatusPending},
			{"awaiting_confirmation", gwport.StatusPending},
			{"unknown_transaction", gwport.StatusNotFound},
			{"reversed", gwport.StatusRefunded},
		}

		for _, tc := range testCases {
			t.Run(tc.native, func(t *testing.T) {
				server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					_ = json.NewEncoder(w).Encode(chargeResponseBody{
						TransactionID: "ext-1",
						Status:        tc.native,
					})
				}))
				defer server.Close()

				gw := NewRegionalGateway(testOptions(server.URL), newTestLogger(t))
				status, err := gw.QueryStatus(ctx, "ext-1")

				require.NoError(t, err)
				assert.Equal(t, tc.expected, status)
			})
		}
	})

	t.Run("HTTP 404 means no charge occurred", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		status, err := gw.QueryStatus(ctx, "ext-1")

		require.NoError(t, err)
		assert.Equal(t, gwport.StatusNotFound, status)
	})

	t.Run("Server error is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		_, err := gw.QueryStatus(ctx, "ext-1")

		assert.ErrorIs(t, err, errs.ErrGatewayTransient)
	})
}

func TestGatewayRefund(t *testing.T) {
	ctx := context.Background()

	t.Run("Successful refund", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/charges/ext-1/refund", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(1800), body["amountInCents"])

			w.WriteHeader(http.StatusOK)
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		status, err := gw.Refund(ctx, "ext-1", 1800)

		require.NoError(t, err)
		assert.Equal(t, gwport.StatusRefunded, status)
	})

	t.Run("Rejected refund", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
			_ = json.NewEncoder(w).Encode(chargeResponseBody{
				DeclineCode:    "already_refunded",
				DeclineMessage: "charge was already reversed",
			})
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		_, err := gw.Refund(ctx, "ext-1", 1800)

		assert.ErrorIs(t, err, errs.ErrGatewayDeclined)
	})

	t.Run("Server error is transient", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		gw := NewPrimaryGateway(testOptions(server.URL), newTestLogger(t))
		_, err := gw.Refund(ctx, "ext-1", 1800)

		assert.ErrorIs(t, err, errs.ErrGatewayTransient)
	})
}
