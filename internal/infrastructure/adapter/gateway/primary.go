package gateway

import (
	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	gwport "github.com/tzedaka-labs/donation-processor/internal/domain/port/gateway"
)

// NewPrimaryGateway creates the adapter for the international card processor.
// It speaks a conventional REST vocabulary, so its statuses map one to one.
func NewPrimaryGateway(options Options, logger coreport.Logger) gwport.Capability {
	return newHTTPGateway(entity.GatewayPrimary, options, logger, mapPrimaryStatus)
}

func mapPrimaryStatus(native string) (gwport.ChargeStatus, bool) {
	switch native {
	case "succeeded":
		return gwport.StatusSucceeded, true
	case "declined", "failed":
		return gwport.StatusDeclined, true
	case "pending", "processing":
		return gwport.StatusPending, true
	case "not_found":
		return gwport.StatusNotFound, true
	case "refunded":
		return gwport.StatusRefunded, true
	}
	return "", false
}
