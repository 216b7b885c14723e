package entity

import (
	"fmt"
	"time"

	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	tport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
)

// PaymentMethodType enumerates the supported payment instruments
type PaymentMethodType string

// Payment method types
const (
	MethodCreditCard          PaymentMethodType = "credit_card"
	MethodBankTransfer        PaymentMethodType = "bank_transfer"
	MethodDirectDebit         PaymentMethodType = "direct_debit"
	MethodRegionalCreditCard  PaymentMethodType = "regional_credit_card"
	MethodRegionalDirectDebit PaymentMethodType = "regional_direct_debit"
)

// GatewayName identifies which payment gateway handles a donation
type GatewayName string

// Gateway names
const (
	GatewayPrimary  GatewayName = "primary"
	GatewayRegional GatewayName = "regional"
)

// DonationStatus defines the donation state machine states
type DonationStatus string

// Donation states
const (
	DonationPending    DonationStatus = "pending"
	DonationProcessing DonationStatus = "processing"
	DonationCompleted  DonationStatus = "completed"
	DonationFailed     DonationStatus = "failed"
	DonationRefunded   DonationStatus = "refunded"
	DonationCancelled  DonationStatus = "cancelled"
)

// donationTransitions is the explicit state-transition table. Any transition not
// listed here is rejected, so a donation can never be mutated out of order or
// resurrected from a terminal state.
var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationPending:    {DonationProcessing, DonationCancelled, DonationFailed},
	DonationProcessing: {DonationCompleted, DonationFailed},
	DonationCompleted:  {DonationRefunded},
}

// CanTransition reports whether moving from one status to another is allowed
func CanTransition(from, to DonationStatus) bool {
	for _, allowed := range donationTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status allows no further automatic transition.
// COMPLETED is terminal for processing purposes; it can still be refunded.
func (s DonationStatus) IsTerminal() bool {
	switch s {
	case DonationCompleted, DonationFailed, DonationRefunded, DonationCancelled:
		return true
	}
	return false
}

// Donation represents one attempted money movement from a donor
type Donation struct {
	ID                    string            // Opaque unique identifier
	IdempotencyKey        string            // Unique per logical attempt
	DonorID               string            // Authenticated donor, trusted from identity service
	AssociationID         string            // Receiving association
	CampaignID            string            // Optional campaign this donation funds
	Amount                string            // Amount as a string with 2 decimal places
	AmountInCents         int64             // Amount in minor units for precise arithmetic
	Currency              string            // ISO 4217 code
	PaymentMethodType     PaymentMethodType // Payment instrument
	GatewayName           GatewayName       // Selected by the router before persisting
	Status                DonationStatus    // State machine status
	IsAnonymous           bool
	IsRecurring           bool
	IsTicketPurchase      bool   // Whether a completed donation buys a lottery ticket
	ExternalTransactionID string // Gateway-side transaction reference
	FailureReason         string // Preserved gateway decline reason
	RiskMetadata          map[string]string
	CreatedAt             time.Time
	ProcessedAt           *time.Time
}

// NewDonation creates a donation in PENDING with basic field validation.
// Amount/currency business rules are enforced by the usecase-level validator
// before this constructor runs.
func NewDonation(
	id string,
	idempotencyKey string,
	donorID string,
	associationID string,
	amount string,
	amountInCents int64,
	currency string,
	method PaymentMethodType,
	gateway GatewayName,
	timeProvider tport.TimeProvider,
) (*Donation, error) {
	if idempotencyKey == "" {
		return nil, errs.ErrInvalidIdempotencyKey
	}
	if !IsValidPaymentMethod(string(method)) {
		return nil, fmt.Errorf("%w: %s", errs.ErrInvalidPaymentMethod, method)
	}

	return &Donation{
		ID:                id,
		IdempotencyKey:    idempotencyKey,
		DonorID:           donorID,
		AssociationID:     associationID,
		Amount:            EnsureTwoDecimalPlaces(amount),
		AmountInCents:     amountInCents,
		Currency:          currency,
		PaymentMethodType: method,
		GatewayName:       gateway,
		Status:            DonationPending,
		CreatedAt:         timeProvider.Now(),
	}, nil
}

// TransitionTo applies a guarded state transition
func (d *Donation) TransitionTo(to DonationStatus) error {
	if !CanTransition(d.Status, to) {
		return errs.NewTransitionError(d.ID, string(d.Status), string(to))
	}
	d.Status = to
	return nil
}

// MarkProcessing moves the donation into PROCESSING before the gateway call
func (d *Donation) MarkProcessing() error {
	return d.TransitionTo(DonationProcessing)
}

// MarkCompleted records a successful charge
func (d *Donation) MarkCompleted(externalID string, timeProvider tport.TimeProvider) error {
	if err := d.TransitionTo(DonationCompleted); err != nil {
		return err
	}
	now := timeProvider.Now()
	d.ProcessedAt = &now
	d.ExternalTransactionID = externalID
	return nil
}

// MarkFailed records a terminal failure with the gateway's reason
func (d *Donation) MarkFailed(reason string, timeProvider tport.TimeProvider) error {
	if err := d.TransitionTo(DonationFailed); err != nil {
		return err
	}
	now := timeProvider.Now()
	d.ProcessedAt = &now
	d.FailureReason = reason
	return nil
}

// MarkRefunded records a successful refund of a completed donation
func (d *Donation) MarkRefunded() error {
	return d.TransitionTo(DonationRefunded)
}

// MarkCancelled cancels a donation that was never submitted
func (d *Donation) MarkCancelled() error {
	return d.TransitionTo(DonationCancelled)
}

// IsValidPaymentMethod validates a payment method type string
func IsValidPaymentMethod(method string) bool {
	switch PaymentMethodType(method) {
	case MethodCreditCard, MethodBankTransfer, MethodDirectDebit,
		MethodRegionalCreditCard, MethodRegionalDirectDebit:
		return true
	}
	return false
}

// IsRegionalMethod reports whether the method is handled only by the regional gateway
func IsRegionalMethod(method PaymentMethodType) bool {
	return method == MethodRegionalCreditCard || method == MethodRegionalDirectDebit
}
