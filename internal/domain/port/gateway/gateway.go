package gateway

import (
	"context"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
)

// ChargeStatus is the gateway-neutral status of an external transaction
type ChargeStatus string

// Charge statuses
const (
	// StatusSucceeded means the money moved
	StatusSucceeded ChargeStatus = "succeeded"
	// StatusDeclined means the gateway rejected the charge; terminal
	StatusDeclined ChargeStatus = "declined"
	// StatusPending means the gateway is still processing the charge
	StatusPending ChargeStatus = "pending"
	// StatusNotFound means the gateway has no record of the charge, i.e. no
	// money moved and the charge is safe to retry
	StatusNotFound ChargeStatus = "not_found"
	// StatusRefunded means the charge was reversed
	StatusRefunded ChargeStatus = "refunded"
)

// ChargeRequest carries everything a gateway needs to move money
type ChargeRequest struct {
	DonationID    string
	AmountInCents int64
	Currency      string
	MethodType    entity.PaymentMethodType
	MethodToken   string
}

// ChargeResult is the gateway's answer to a charge attempt
type ChargeResult struct {
	ExternalTransactionID string
	Status                ChargeStatus
	DeclineCode           string
	DeclineMessage        string
}

// Capability abstracts a payment processor. Two implementations exist: the
// international (primary) gateway and the regional one. Both map their native
// error codes into the domain error taxonomy.
type Capability interface {
	// Name returns the gateway identifier used in routing and logging
	Name() entity.GatewayName

	// Charge submits a charge for the donation's amount
	//
	// Possible errors:
	// - ErrGatewayDeclined: terminal rejection, decline reason preserved
	// - ErrGatewayTransient: timeout or network failure; the caller falls back
	//   to the QueryStatus retry path, never to a blind re-charge
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)

	// QueryStatus asks the gateway what became of a previously submitted charge.
	// Safe to call repeatedly.
	//
	// Possible errors:
	// - ErrGatewayTransient: timeout or network failure
	QueryStatus(ctx context.Context, externalTransactionID string) (ChargeStatus, error)

	// Refund reverses a completed charge
	//
	// Possible errors:
	// - ErrGatewayDeclined: refund rejected by the gateway
	// - ErrGatewayTransient: timeout or network failure
	Refund(ctx context.Context, externalTransactionID string, amountInCents int64) (ChargeStatus, error)
}
