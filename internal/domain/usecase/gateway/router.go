package gateway

import (
	"fmt"
	"strings"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	gwport "github.com/tzedaka-labs/donation-processor/internal/domain/port/gateway"
)

// RouterConfig holds the deterministic routing rules
type RouterConfig struct {
	// RegionalCountries are ISO 3166-1 alpha-2 codes served by the regional gateway
	RegionalCountries []string
	// PrimaryCurrencies the primary gateway accepts
	PrimaryCurrencies []string
	// RegionalCurrencies the regional gateway accepts
	RegionalCurrencies []string
}

// DefaultRouterConfig returns the production routing rules
func DefaultRouterConfig() RouterConfig {
	return RouterConfig{
		RegionalCountries:  []string{"IL"},
		PrimaryCurrencies:  []string{"USD", "EUR", "GBP"},
		RegionalCurrencies: []string{"ILS", "USD", "EUR"},
	}
}

// Router selects the gateway capability for a currency/country/method
// combination. All gateway selection logic lives here so it never leaks into
// the donation or campaign models.
type Router struct {
	primary  gwport.Capability
	regional gwport.Capability
	config   RouterConfig
	logger   coreport.Logger

	regionalCountries  map[string]bool
	primaryCurrencies  map[string]bool
	regionalCurrencies map[string]bool
}

// NewRouter creates a router over the two gateway implementations
func NewRouter(
	primary gwport.Capability,
	regional gwport.Capability,
	config RouterConfig,
	logger coreport.Logger,
) *Router {
	return &Router{
		primary:            primary,
		regional:           regional,
		config:             config,
		logger:             logger,
		regionalCountries:  toSet(config.RegionalCountries),
		primaryCurrencies:  toSet(config.PrimaryCurrencies),
		regionalCurrencies: toSet(config.RegionalCurrencies),
	}
}

// Route returns the gateway capability for the combination, or
// ErrNoGatewayAvailable when no mapping matches
func (r *Router) Route(
	currency string,
	country string,
	method entity.PaymentMethodType,
) (gwport.Capability, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	country = strings.ToUpper(strings.TrimSpace(country))

	if !entity.IsValidPaymentMethod(string(method)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidPaymentMethod, method)
	}

	if entity.IsRegionalMethod(method) || r.regionalCountries[country] {
		if !r.regionalCurrencies[currency] {
			r.logger.Warn("No gateway for regional combination", map[string]any{
				"currency": currency,
				"country":  country,
				"method":   string(method),
			})
			return nil, fmt.Errorf("%w: regional gateway does not support %s",
				errs.ErrNoGatewayAvailable, currency)
		}
		return r.regional, nil
	}

	if !r.primaryCurrencies[currency] {
		r.logger.Warn("No gateway for combination", map[string]any{
			"currency": currency,
			"country":  country,
			"method":   string(method),
		})
		return nil, fmt.Errorf("%w: primary gateway does not support %s",
			errs.ErrNoGatewayAvailable, currency)
	}
	return r.primary, nil
}

// Get returns the capability behind an already-routed gateway name. Used on
// submit and refund, where routing was decided when the donation was created.
func (r *Router) Get(name entity.GatewayName) (gwport.Capability, error) {
	switch name {
	case entity.GatewayPrimary:
		return r.primary, nil
	case entity.GatewayRegional:
		return r.regional, nil
	default:
		return nil, fmt.Errorf("%w: unknown gateway %q", errs.ErrNoGatewayAvailable, name)
	}
}

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[strings.ToUpper(strings.TrimSpace(v))] = true
	}
	return set
}
