package error

import (
	"errors"
	"fmt"
)

// Error codes for standardized API responses
const (
	// 4xxx - Client errors
	CodeInvalidAmount        = 4001
	CodeUnsupportedCurrency  = 4002
	CodeInvalidPaymentMethod = 4003
	CodeNoGatewayAvailable   = 4004
	CodeGatewayDeclined      = 4005
	CodeIllegalTransition    = 4006
	CodeLotteryNotActive     = 4008
	CodeLotterySoldOut       = 4009
	CodeRateLimited          = 4010
	CodeDonationNotFound     = 4040
	CodeCampaignNotFound     = 4041
	CodeLotteryNotFound      = 4042

	// 5xxx - Server errors
	CodeInternalServer      = 5000
	CodeGatewayTransient    = 5001
	CodeConcurrencyConflict = 5002
	CodeInvariantViolation  = 5003
)

// Base error types
var (
	// ErrInvalidAmount is returned when the donation amount format is invalid
	ErrInvalidAmount = errors.New("invalid amount format")

	// ErrNegativeAmount is returned when the donation amount is not positive
	ErrNegativeAmount = errors.New("amount must be positive")

	// ErrAmountTooLarge is returned when the amount exceeds the per-currency maximum
	ErrAmountTooLarge = errors.New("amount exceeds maximum for currency")

	// ErrUnsupportedCurrency is returned when the currency is not in the supported set
	ErrUnsupportedCurrency = errors.New("unsupported currency")

	// ErrInvalidPaymentMethod is returned when the payment method type is unknown
	ErrInvalidPaymentMethod = errors.New("invalid payment method type")

	// ErrInvalidIdempotencyKey is returned when the idempotency key is empty
	ErrInvalidIdempotencyKey = errors.New("idempotency key cannot be empty")

	// ErrNoGatewayAvailable is returned when no gateway matches the
	// currency/country/method combination
	ErrNoGatewayAvailable = errors.New("no gateway available for this combination")

	// ErrGatewayDeclined is returned when the gateway rejects a charge; terminal,
	// never retried automatically
	ErrGatewayDeclined = errors.New("gateway declined the charge")

	// ErrGatewayTransient is returned on gateway timeout or network failure;
	// retried via the status-query path
	ErrGatewayTransient = errors.New("transient gateway failure")

	// ErrConcurrencyConflict is returned when an optimistic-concurrency update
	// loses the race; callers re-read and reapply
	ErrConcurrencyConflict = errors.New("concurrent modification conflict")

	// ErrInvariantViolation marks a broken structural invariant; these indicate a
	// bug upstream and must never be swallowed
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrIllegalTransition is returned when a donation or lottery state change is
	// not in the transition table
	ErrIllegalTransition = errors.New("illegal state transition")

	// ErrDonationNotFound is returned when the requested donation doesn't exist
	ErrDonationNotFound = errors.New("donation not found")

	// ErrCampaignNotFound is returned when the requested campaign doesn't exist
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrLotteryNotFound is returned when the requested lottery doesn't exist
	ErrLotteryNotFound = errors.New("lottery not found")

	// ErrLotteryNotActive is returned when tickets are bought against a lottery
	// that is not accepting purchases
	ErrLotteryNotActive = errors.New("lottery is not active")

	// ErrLotterySoldOut is returned when soldTickets has reached maxTickets
	ErrLotterySoldOut = errors.New("lottery is sold out")

	// ErrLotteryClosed is returned when a ticket purchase arrives after drawDate
	ErrLotteryClosed = errors.New("lottery draw date has passed")

	// ErrNotEligibleForDraw is returned when draw preconditions are not met
	ErrNotEligibleForDraw = errors.New("lottery is not eligible for drawing")

	// ErrRateLimited is returned when a donor exceeds the ticket purchase ceiling
	ErrRateLimited = errors.New("ticket purchase rate limit exceeded")

	// ErrDuplicateDonation is returned when a donation row with the same
	// idempotency key already exists
	ErrDuplicateDonation = errors.New("donation with this idempotency key already exists")

	// ErrInvalidRequest is returned when the request format is invalid
	ErrInvalidRequest = errors.New("invalid request")

	// ErrInternalServer is returned for unexpected server-side errors
	ErrInternalServer = errors.New("internal server error")

	// ErrDatabaseConnection is returned when there's a problem talking to the database
	ErrDatabaseConnection = errors.New("database connection error")

	// ErrNotFound is returned when a generic resource is not found
	ErrNotFound = errors.New("resource not found")
)

// ErrorCode returns standardized error codes for known errors
func ErrorCode(err error) int {
	switch {
	case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrNegativeAmount), errors.Is(err, ErrAmountTooLarge):
		return CodeInvalidAmount
	case errors.Is(err, ErrUnsupportedCurrency):
		return CodeUnsupportedCurrency
	case errors.Is(err, ErrInvalidPaymentMethod):
		return CodeInvalidPaymentMethod
	case errors.Is(err, ErrNoGatewayAvailable):
		return CodeNoGatewayAvailable
	case errors.Is(err, ErrGatewayDeclined):
		return CodeGatewayDeclined
	case errors.Is(err, ErrIllegalTransition):
		return CodeIllegalTransition
	case errors.Is(err, ErrLotteryNotActive), errors.Is(err, ErrLotteryClosed), errors.Is(err, ErrNotEligibleForDraw):
		return CodeLotteryNotActive
	case errors.Is(err, ErrLotterySoldOut):
		return CodeLotterySoldOut
	case errors.Is(err, ErrRateLimited):
		return CodeRateLimited
	case errors.Is(err, ErrDonationNotFound):
		return CodeDonationNotFound
	case errors.Is(err, ErrCampaignNotFound):
		return CodeCampaignNotFound
	case errors.Is(err, ErrLotteryNotFound):
		return CodeLotteryNotFound
	case errors.Is(err, ErrGatewayTransient):
		return CodeGatewayTransient
	case errors.Is(err, ErrConcurrencyConflict):
		return CodeConcurrencyConflict
	case errors.Is(err, ErrInvariantViolation):
		return CodeInvariantViolation
	default:
		return CodeInternalServer
	}
}

// GatewayError carries the gateway's native decline/transient detail mapped into
// the internal taxonomy
type GatewayError struct {
	Gateway       string
	ExternalID    string
	NativeCode    string
	NativeMessage string
	Err           error
}

// Error implements the error interface for GatewayError
func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s error for external transaction %q (code %s): %s - %v",
		e.Gateway, e.ExternalID, e.NativeCode, e.NativeMessage, e.Err)
}

// Unwrap returns the underlying taxonomy error
func (e *GatewayError) Unwrap() error {
	return e.Err
}

// LogFields returns a map of fields for structured logging
func (e *GatewayError) LogFields() map[string]any {
	return map[string]any{
		"error_type":     "gateway_error",
		"gateway":        e.Gateway,
		"external_id":    e.ExternalID,
		"native_code":    e.NativeCode,
		"native_message": e.NativeMessage,
		"error_code":     ErrorCode(e.Err),
	}
}

// NewGatewayDeclinedError creates a terminal decline error preserving the
// gateway's native reason
func NewGatewayDeclinedError(gateway, externalID, nativeCode, nativeMessage string) error {
	return &GatewayError{
		Gateway:       gateway,
		ExternalID:    externalID,
		NativeCode:    nativeCode,
		NativeMessage: nativeMessage,
		Err:           ErrGatewayDeclined,
	}
}

// NewGatewayTransientError creates a retryable gateway error
func NewGatewayTransientError(gateway, externalID string, cause error) error {
	msg := ""
	if cause != nil {
		msg = cause.Error()
	}
	return &GatewayError{
		Gateway:       gateway,
		ExternalID:    externalID,
		NativeMessage: msg,
		Err:           ErrGatewayTransient,
	}
}

// TransitionError describes a rejected donation state transition
type TransitionError struct {
	DonationID string
	From       string
	To         string
}

// Error implements the error interface
func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal donation transition %s -> %s for donation %s",
		e.From, e.To, e.DonationID)
}

// Is checks if the target error is an ErrIllegalTransition
func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// LogFields returns a map of fields for structured logging
func (e *TransitionError) LogFields() map[string]any {
	return map[string]any{
		"error_type":  "illegal_transition",
		"donation_id": e.DonationID,
		"from":        e.From,
		"to":          e.To,
		"error_code":  CodeIllegalTransition,
	}
}

// NewTransitionError creates a transition rejection error
func NewTransitionError(donationID, from, to string) error {
	return &TransitionError{DonationID: donationID, From: from, To: to}
}

// InvariantError reports a broken structural invariant. These are contract
// failures, not business failures, and must be logged loudly at the boundary.
type InvariantError struct {
	Invariant string
	Detail    string
}

// Error implements the error interface
func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violated [%s]: %s", e.Invariant, e.Detail)
}

// Is checks if the target error is an ErrInvariantViolation
func (e *InvariantError) Is(target error) bool {
	return target == ErrInvariantViolation
}

// LogFields returns a map of fields for structured logging
func (e *InvariantError) LogFields() map[string]any {
	return map[string]any{
		"error_type": "invariant_violation",
		"invariant":  e.Invariant,
		"detail":     e.Detail,
		"error_code": CodeInvariantViolation,
	}
}

// NewInvariantError creates an invariant violation error
func NewInvariantError(invariant, detail string) error {
	return &InvariantError{Invariant: invariant, Detail: detail}
}

// IsValidationError checks whether the error was rejected before any gateway contact
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrNegativeAmount) ||
		errors.Is(err, ErrAmountTooLarge) ||
		errors.Is(err, ErrUnsupportedCurrency) ||
		errors.Is(err, ErrInvalidPaymentMethod) ||
		errors.Is(err, ErrInvalidIdempotencyKey)
}

// IsGatewayDeclinedError checks if the error is a terminal gateway decline
func IsGatewayDeclinedError(err error) bool {
	return errors.Is(err, ErrGatewayDeclined)
}

// IsGatewayTransientError checks if the error is a retryable gateway failure
func IsGatewayTransientError(err error) bool {
	return errors.Is(err, ErrGatewayTransient)
}

// IsConcurrencyConflictError checks if the error is an optimistic-lock conflict
func IsConcurrencyConflictError(err error) bool {
	return errors.Is(err, ErrConcurrencyConflict)
}

// IsInvariantViolationError checks if the error is a broken contract
func IsInvariantViolationError(err error) bool {
	return errors.Is(err, ErrInvariantViolation)
}

// IsNotFoundError checks if the error is any "not found" type of error
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrDonationNotFound) ||
		errors.Is(err, ErrCampaignNotFound) ||
		errors.Is(err, ErrLotteryNotFound)
}
