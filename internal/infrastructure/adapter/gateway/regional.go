package gateway

import (
	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	gwport "github.com/tzedaka-labs/donation-processor/internal/domain/port/gateway"
)

// NewRegionalGateway creates the adapter for the regional processor that
// handles local card and direct-debit rails. Its status vocabulary predates
// the primary processor's, hence the translation table.
func NewRegionalGateway(options Options, logger coreport.Logger) gwport.Capability {
	return newHTTPGateway(entity.GatewayRegional, options, logger, mapRegionalStatus)
}

func mapRegionalStatus(native string) (gwport.ChargeStatus, bool) {
	switch native {
	case "approved", "captured":
		return gwport.StatusSucceeded, true
	case "rejected", "blocked":
		return gwport.StatusDeclined, true
	case "in_process", "awaiting_confirmation":
		return gwport.StatusPending, true
	case "unknown_transaction":
		return gwport.StatusNotFound, true
	case "reversed":
		return gwport.StatusRefunded, true
	}
	return "", false
}
