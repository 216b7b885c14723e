package gateway

import (
	"testing"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	mcore "github.com/tzedaka-labs/donation-processor/mocks/port/core"
	mgw "github.com/tzedaka-labs/donation-processor/mocks/port/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (*Router, *mgw.MockCapability, *mgw.MockCapability) {
	logger := mcore.NewMockLogger(t)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()

	primary := mgw.NewMockCapability(t)
	regional := mgw.NewMockCapability(t)
	return NewRouter(primary, regional, DefaultRouterConfig(), logger), primary, regional
}

func TestRouterRoute(t *testing.T) {
	t.Run("Routing table", func(t *testing.T) {
		testCases := []struct {
			name     string
			currency string
			country  string
			method   entity.PaymentMethodType
			regional bool
		}{
			{"US credit card in USD", "USD", "US", entity.MethodCreditCard, false},
			{"French bank transfer in EUR", "EUR", "FR", entity.MethodBankTransfer, false},
			{"UK direct debit in GBP", "GBP", "GB", entity.MethodDirectDebit, false},
			{"Israeli donor in ILS", "ILS", "IL", entity.MethodCreditCard, true},
			{"Israeli donor in USD", "USD", "IL", entity.MethodCreditCard, true},
			{"Regional card from anywhere", "ILS", "US", entity.MethodRegionalCreditCard, true},
			{"Regional direct debit", "EUR", "IL", entity.MethodRegionalDirectDebit, true},
			{"Lowercase input is normalized", "usd", "us", entity.MethodCreditCard, false},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				router, primary, regional := newTestRouter(t)

				capability, err := router.Route(tc.currency, tc.country, tc.method)
				require.NoError(t, err)
				if tc.regional {
					assert.Same(t, regional, capability.(*mgw.MockCapability))
				} else {
					assert.Same(t, primary, capability.(*mgw.MockCapability))
				}
			})
		}
	})

	t.Run("No gateway for unsupported primary currency", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		_, err := router.Route("ILS", "US", entity.MethodCreditCard)
		assert.ErrorIs(t, err, errs.ErrNoGatewayAvailable)
	})

	t.Run("No gateway for unsupported regional currency", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		_, err := router.Route("GBP", "IL", entity.MethodCreditCard)
		assert.ErrorIs(t, err, errs.ErrNoGatewayAvailable)
	})

	t.Run("Invalid payment method", func(t *testing.T) {
		router, _, _ := newTestRouter(t)

		_, err := router.Route("USD", "US", entity.PaymentMethodType("cash"))
		assert.ErrorIs(t, err, errs.ErrInvalidPaymentMethod)
	})
}

func TestRouterGet(t *testing.T) {
	router, primary, regional := newTestRouter(t)

	capability, err := router.Get(entity.GatewayPrimary)
	require.NoError(t, err)
	assert.Same(t, primary, capability.(*mgw.MockCapability))

	capability, err = router.Get(entity.GatewayRegional)
	require.NoError(t, err)
	assert.Same(t, regional, capability.(*mgw.MockCapability))

	_, err = router.Get(entity.GatewayName("unknown"))
	assert.ErrorIs(t, err, errs.ErrNoGatewayAvailable)
}
