package error

import (
	"errors"
	"fmt"
	"testing"
)

func TestBaseErrorTypes(t *testing.T) {
	if ErrInvalidAmount.Error() != "invalid amount format" {
		t.Errorf("ErrInvalidAmount has unexpected message: %s", ErrInvalidAmount.Error())
	}
	if ErrGatewayDeclined.Error() != "gateway declined the charge" {
		t.Errorf("ErrGatewayDeclined has unexpected message: %s", ErrGatewayDeclined.Error())
	}
	if ErrDonationNotFound.Error() != "donation not found" {
		t.Errorf("ErrDonationNotFound has unexpected message: %s", ErrDonationNotFound.Error())
	}
}

func TestErrorCode(t *testing.T) {
	testCases := []struct {
		name     string
		err      error
		expected int
	}{
		{"InvalidAmount", ErrInvalidAmount, 4001},
		{"NegativeAmount", ErrNegativeAmount, 4001},
		{"AmountTooLarge", ErrAmountTooLarge, 4001},
		{"UnsupportedCurrency", ErrUnsupportedCurrency, 4002},
		{"InvalidPaymentMethod", ErrInvalidPaymentMethod, 4003},
		{"NoGatewayAvailable", ErrNoGatewayAvailable, 4004},
		{"GatewayDeclined", ErrGatewayDeclined, 4005},
		{"IllegalTransition", ErrIllegalTransition, 4006},
		{"LotteryNotActive", ErrLotteryNotActive, 4008},
		{"LotterySoldOut", ErrLotterySoldOut, 4009},
		{"RateLimited", ErrRateLimited, 4010},
		{"DonationNotFound", ErrDonationNotFound, 4040},
		{"CampaignNotFound", ErrCampaignNotFound, 4041},
		{"LotteryNotFound", ErrLotteryNotFound, 4042},
		{"GatewayTransient", ErrGatewayTransient, 5001},
		{"ConcurrencyConflict", ErrConcurrencyConflict, 5002},
		{"InvariantViolation", ErrInvariantViolation, 5003},
		{"UnknownError", errors.New("unknown error"), 5000},
		{"WrappedError", fmt.Errorf("wrapped: %w", ErrDonationNotFound), 4040},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code := ErrorCode(tc.err)
			if code != tc.expected {
				t.Errorf("ErrorCode(%v) = %d, want %d", tc.err, code, tc.expected)
			}
		})
	}
}

func TestGatewayError(t *testing.T) {
	declined := NewGatewayDeclinedError("primary", "ext-1", "card_declined", "insufficient funds")
	if !errors.Is(declined, ErrGatewayDeclined) {
		t.Errorf("errors.Is(declined, ErrGatewayDeclined) = false, want true")
	}
	if !IsGatewayDeclinedError(declined) {
		t.Errorf("IsGatewayDeclinedError(declined) = false, want true")
	}
	if IsGatewayTransientError(declined) {
		t.Errorf("IsGatewayTransientError(declined) = true, want false")
	}

	transient := NewGatewayTransientError("regional", "", errors.New("connection reset"))
	if !IsGatewayTransientError(transient) {
		t.Errorf("IsGatewayTransientError(transient) = false, want true")
	}

	var gwErr *GatewayError
	if !errors.As(declined, &gwErr) {
		t.Fatalf("errors.As(declined, *GatewayError) = false, want true")
	}
	if gwErr.NativeCode != "card_declined" {
		t.Errorf("NativeCode = %s, want card_declined", gwErr.NativeCode)
	}
	fields := gwErr.LogFields()
	if fields["gateway"] != "primary" {
		t.Errorf("LogFields gateway = %v, want primary", fields["gateway"])
	}
}

func TestTransitionError(t *testing.T) {
	err := NewTransitionError("don-1", "failed", "processing")

	expected := `illegal donation transition failed -> processing for donation don-1`
	if err.Error() != expected {
		t.Errorf("TransitionError.Error() = %s, want %s", err.Error(), expected)
	}
	if !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("errors.Is(err, ErrIllegalTransition) = false, want true")
	}
	if ErrorCode(err) != CodeIllegalTransition {
		t.Errorf("ErrorCode = %d, want %d", ErrorCode(err), CodeIllegalTransition)
	}
}

func TestInvariantError(t *testing.T) {
	err := NewInvariantError("ticket_number_unique", "number AB12CD34 already exists")

	if !errors.Is(err, ErrInvariantViolation) {
		t.Errorf("errors.Is(err, ErrInvariantViolation) = false, want true")
	}
	if !IsInvariantViolationError(err) {
		t.Errorf("IsInvariantViolationError(err) = false, want true")
	}

	var invErr *InvariantError
	if !errors.As(err, &invErr) {
		t.Fatalf("errors.As(err, *InvariantError) = false, want true")
	}
	if invErr.Invariant != "ticket_number_unique" {
		t.Errorf("Invariant = %s, want ticket_number_unique", invErr.Invariant)
	}
}

func TestIsValidationError(t *testing.T) {
	validation := []error{
		ErrInvalidAmount, ErrNegativeAmount, ErrAmountTooLarge,
		ErrUnsupportedCurrency, ErrInvalidPaymentMethod, ErrInvalidIdempotencyKey,
	}
	for _, err := range validation {
		if !IsValidationError(err) {
			t.Errorf("IsValidationError(%v) = false, want true", err)
		}
	}
	if IsValidationError(ErrGatewayDeclined) {
		t.Errorf("IsValidationError(ErrGatewayDeclined) = true, want false")
	}
}

func TestIsNotFoundError(t *testing.T) {
	notFound := []error{ErrNotFound, ErrDonationNotFound, ErrCampaignNotFound, ErrLotteryNotFound}
	for _, err := range notFound {
		if !IsNotFoundError(err) {
			t.Errorf("IsNotFoundError(%v) = false, want true", err)
		}
	}
	if IsNotFoundError(ErrGatewayTransient) {
		t.Errorf("IsNotFoundError(ErrGatewayTransient) = true, want false")
	}
}
