package donation

import (
	"fmt"
	"strings"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
)

// AmountRules holds per-currency business rules for donation amounts
type AmountRules struct {
	// SupportedCurrencies is the allow-list of ISO 4217 codes
	SupportedCurrencies []string
	// MaxAmountInCents caps the amount per currency; zero means the default cap
	MaxAmountInCents map[string]int64
	// DefaultMaxInCents applies to currencies without an explicit cap
	DefaultMaxInCents int64
}

// DefaultAmountRules returns the production amount rules
func DefaultAmountRules() AmountRules {
	return AmountRules{
		SupportedCurrencies: []string{"USD", "EUR", "ILS", "GBP"},
		MaxAmountInCents: map[string]int64{
			"ILS": 50_000_000, // 500,000.00 ILS
		},
		DefaultMaxInCents: 10_000_000, // 100,000.00
	}
}

// AmountValidator validates amount/currency combinations against business
// rules. Pure and stateless; safe to call repeatedly.
type AmountValidator struct {
	supported map[string]bool
	rules     AmountRules
}

// NewAmountValidator creates a validator from the given rules
func NewAmountValidator(rules AmountRules) *AmountValidator {
	supported := make(map[string]bool, len(rules.SupportedCurrencies))
	for _, c := range rules.SupportedCurrencies {
		supported[strings.ToUpper(strings.TrimSpace(c))] = true
	}
	return &AmountValidator{supported: supported, rules: rules}
}

// Validate checks the amount string and currency, returning the amount in
// minor units on success
func (v *AmountValidator) Validate(amount, currency string) (int64, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if !v.supported[currency] {
		return 0, fmt.Errorf("%w: %s", errs.ErrUnsupportedCurrency, currency)
	}

	cents, err := entity.ValidateAndConvertAmount(amount)
	if err != nil {
		return 0, err
	}

	max := v.rules.DefaultMaxInCents
	if m, ok := v.rules.MaxAmountInCents[currency]; ok {
		max = m
	}
	if max > 0 && cents > max {
		return 0, fmt.Errorf("%w: %s %s exceeds %s", errs.ErrAmountTooLarge,
			entity.AmountInCentsToString(cents), currency, entity.AmountInCentsToString(max))
	}

	return cents, nil
}
