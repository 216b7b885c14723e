package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	gwport "github.com/tzedaka-labs/donation-processor/internal/domain/port/gateway"
)

// Options configures an HTTP gateway client
type Options struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// chargeRequestBody is the wire format for a charge submission. The donation
// id doubles as the merchant reference, so a charge that timed out before an
// external id arrived can still be looked up.
type chargeRequestBody struct {
	MerchantReference string `json:"merchantReference"`
	AmountInCents     int64  `json:"amountInCents"`
	Currency          string `json:"currency"`
	MethodType        string `json:"methodType"`
	MethodToken       string `json:"methodToken"`
}

// chargeResponseBody is the wire format for charge and status responses
type chargeResponseBody struct {
	TransactionID  string `json:"transactionId"`
	Status         string `json:"status"`
	DeclineCode    string `json:"declineCode,omitempty"`
	DeclineMessage string `json:"declineMessage,omitempty"`
}

// refundRequestBody is the wire format for a refund submission
type refundRequestBody struct {
	AmountInCents int64 `json:"amountInCents"`
}

// httpGateway is the shared HTTP plumbing behind both gateway adapters. Each
// adapter supplies its own status vocabulary mapping.
type httpGateway struct {
	name      entity.GatewayName
	options   Options
	client    *http.Client
	logger    coreport.Logger
	mapStatus func(string) (gwport.ChargeStatus, bool)
}

func newHTTPGateway(
	name entity.GatewayName,
	options Options,
	logger coreport.Logger,
	mapStatus func(string) (gwport.ChargeStatus, bool),
) *httpGateway {
	return &httpGateway{
		name:      name,
		options:   options,
		client:    &http.Client{Timeout: options.Timeout},
		logger:    logger,
		mapStatus: mapStatus,
	}
}

// Name returns the gateway identifier used in routing and logging
func (g *httpGateway) Name() entity.GatewayName {
	return g.name
}

// Charge submits a charge for the donation's amount
func (g *httpGateway) Charge(ctx context.Context, req gwport.ChargeRequest) (*gwport.ChargeResult, error) {
	body := chargeRequestBody{
		MerchantReference: req.DonationID,
		AmountInCents:     req.AmountInCents,
		Currency:          req.Currency,
		MethodType:        string(req.MethodType),
		MethodToken:       req.MethodToken,
	}

	var resp chargeResponseBody
	statusCode, err := g.doJSON(ctx, http.MethodPost, "/charges", body, &resp)
	if err != nil {
		g.logger.Warn("Gateway charge request failed", map[string]any{
			"gateway":     string(g.name),
			"donation_id": req.DonationID,
			"error":       err.Error(),
		})
		return nil, errs.NewGatewayTransientError(string(g.name), "", err)
	}

	switch {
	case statusCode == http.StatusOK || statusCode == http.StatusCreated:
		return g.resultFromResponse(&resp)
	case statusCode == http.StatusPaymentRequired || statusCode == http.StatusUnprocessableEntity:
		// Terminal decline; the native reason travels with the error
		return nil, errs.NewGatewayDeclinedError(
			string(g.name), resp.TransactionID, resp.DeclineCode, resp.DeclineMessage)
	case statusCode >= 500:
		return nil, errs.NewGatewayTransientError(string(g.name), resp.TransactionID,
			fmt.Errorf("gateway returned status %d", statusCode))
	default:
		return nil, errs.NewGatewayDeclinedError(
			string(g.name), resp.TransactionID, fmt.Sprintf("http_%d", statusCode), resp.DeclineMessage)
	}
}

// QueryStatus asks the gateway what became of a previously submitted charge
func (g *httpGateway) QueryStatus(ctx context.Context, externalTransactionID string) (gwport.ChargeStatus, error) {
	var resp chargeResponseBody
	statusCode, err := g.doJSON(ctx, http.MethodGet, "/charges/"+externalTransactionID, nil, &resp)
	if err != nil {
		return "", errs.NewGatewayTransientError(string(g.name), externalTransactionID, err)
	}

	if statusCode == http.StatusNotFound {
		return gwport.StatusNotFound, nil
	}
	if statusCode >= 500 {
		return "", errs.NewGatewayTransientError(string(g.name), externalTransactionID,
			fmt.Errorf("gateway returned status %d", statusCode))
	}

	status, ok := g.mapStatus(resp.Status)
	if !ok {
		return "", errs.NewGatewayTransientError(string(g.name), externalTransactionID,
			fmt.Errorf("unknown gateway status %q", resp.Status))
	}
	return status, nil
}

// Refund reverses a completed charge
func (g *httpGateway) Refund(ctx context.Context, externalTransactionID string, amountInCents int64) (gwport.ChargeStatus, error) {
	body := refundRequestBody{AmountInCents: amountInCents}

	var resp chargeResponseBody
	statusCode, err := g.doJSON(ctx, http.MethodPost, "/charges/"+externalTransactionID+"/refund", body, &resp)
	if err != nil {
		return "", errs.NewGatewayTransientError(string(g.name), externalTransactionID, err)
	}

	switch {
	case statusCode == http.StatusOK:
		return gwport.StatusRefunded, nil
	case statusCode >= 500:
		return "", errs.NewGatewayTransientError(string(g.name), externalTransactionID,
			fmt.Errorf("gateway returned status %d", statusCode))
	default:
		return "", errs.NewGatewayDeclinedError(
			string(g.name), externalTransactionID, resp.DeclineCode, resp.DeclineMessage)
	}
}

// resultFromResponse maps a successful HTTP response into a domain result
func (g *httpGateway) resultFromResponse(resp *chargeResponseBody) (*gwport.ChargeResult, error) {
	status, ok := g.mapStatus(resp.Status)
	if !ok {
		return nil, errs.NewGatewayTransientError(string(g.name), resp.TransactionID,
			fmt.Errorf("unknown gateway status %q", resp.Status))
	}
	return &gwport.ChargeResult{
		ExternalTransactionID: resp.TransactionID,
		Status:                status,
		DeclineCode:           resp.DeclineCode,
		DeclineMessage:        resp.DeclineMessage,
	}, nil
}

// doJSON performs one HTTP round trip with JSON encoding on both sides.
// Transport-level failures come back as errors; HTTP-level outcomes come back
// as the status code with the decoded body.
func (g *httpGateway) doJSON(ctx context.Context, method, path string, body any, out any) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.options.BaseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+g.options.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	if len(raw) > 0 && out != nil {
		// Some error responses carry no JSON body; that's fine
		_ = json.Unmarshal(raw, out)
	}

	return resp.StatusCode, nil
}
