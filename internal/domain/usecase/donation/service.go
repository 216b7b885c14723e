package donation

import (
	"context"
	"errors"
	"fmt"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	eventport "github.com/tzedaka-labs/donation-processor/internal/domain/port/event"
	gwport "github.com/tzedaka-labs/donation-processor/internal/domain/port/gateway"
	"github.com/tzedaka-labs/donation-processor/internal/domain/port/persistence"
	gatewayuc "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/gateway"
)

// RetryPolicy bounds the status-query retry loop after a transient gateway failure
type RetryPolicy struct {
	MaxAttempts    int
	InitialBackoff coreport.Duration
	MaxBackoff     coreport.Duration
}

// DefaultRetryPolicy returns the production status-query retry policy
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:    5,
		InitialBackoff: 200 * coreport.Millisecond,
		MaxBackoff:     5 * coreport.Second,
	}
}

// maxChargeAttempts bounds how many times a charge is submitted for one
// donation. A second attempt happens only after the gateway confirms the first
// one never charged.
const maxChargeAttempts = 2

// Service owns the donation state machine. It is the unit-of-work boundary for
// "did this donor's money move": every state transition is persisted before
// the next step runs, and submissions are serialized per donation id.
type Service struct {
	donationRepo  persistence.DonationRepository
	router        *gatewayuc.Router
	validator     *AmountValidator
	bus           eventport.Bus
	logger        coreport.Logger
	timeProvider  coreport.TimeProvider
	idGenerator   coreport.IDGenerator
	single        *SingleFlight
	chargeTimeout coreport.Duration
	retryPolicy   RetryPolicy
}

// NewService creates the donation transaction manager
func NewService(
	donationRepo persistence.DonationRepository,
	router *gatewayuc.Router,
	validator *AmountValidator,
	bus eventport.Bus,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	idGenerator coreport.IDGenerator,
	chargeTimeout coreport.Duration,
	retryPolicy RetryPolicy,
) *Service {
	return &Service{
		donationRepo:  donationRepo,
		router:        router,
		validator:     validator,
		bus:           bus,
		logger:        logger,
		timeProvider:  timeProvider,
		idGenerator:   idGenerator,
		single:        NewSingleFlight(logger),
		chargeTimeout: chargeTimeout,
		retryPolicy:   retryPolicy,
	}
}

// CreateRequest carries everything needed to open a donation attempt
type CreateRequest struct {
	IdempotencyKey   string
	DonorID          string
	AssociationID    string
	CampaignID       string
	Amount           string
	Currency         string
	Country          string
	PaymentMethod    entity.PaymentMethodType
	IsAnonymous      bool
	IsRecurring      bool
	IsTicketPurchase bool
}

// Create opens a donation in PENDING. Submitting the same idempotency key
// twice returns the existing donation unchanged and never triggers a second
// charge. Routing runs before anything persists, so an unroutable combination
// never leaves a PENDING row behind.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.Donation, error) {
	if req.IdempotencyKey == "" {
		return nil, errs.ErrInvalidIdempotencyKey
	}

	existing, err := s.donationRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
	if err == nil {
		s.logger.Info("Idempotent replay of donation create", map[string]any{
			"donation_id":     existing.ID,
			"idempotency_key": req.IdempotencyKey,
		})
		return existing, nil
	}
	if !errors.Is(err, errs.ErrDonationNotFound) {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	cents, err := s.validator.Validate(req.Amount, req.Currency)
	if err != nil {
		return nil, err
	}

	capability, err := s.router.Route(req.Currency, req.Country, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	d, err := entity.NewDonation(
		s.idGenerator.NewID(),
		req.IdempotencyKey,
		req.DonorID,
		req.AssociationID,
		req.Amount,
		cents,
		req.Currency,
		req.PaymentMethod,
		capability.Name(),
		s.timeProvider,
	)
	if err != nil {
		return nil, err
	}
	d.CampaignID = req.CampaignID
	d.IsAnonymous = req.IsAnonymous
	d.IsRecurring = req.IsRecurring
	d.IsTicketPurchase = req.IsTicketPurchase

	if err := s.donationRepo.Create(ctx, d); err != nil {
		if errors.Is(err, errs.ErrDuplicateDonation) {
			// Lost the create race for this key; the winner's row is the record
			return s.donationRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		}
		return nil, fmt.Errorf("failed to persist donation: %w", err)
	}

	s.logger.Info("Donation created", map[string]any{
		"donation_id":     d.ID,
		"idempotency_key": d.IdempotencyKey,
		"gateway":         string(d.GatewayName),
		"amount":          d.Amount,
		"currency":        d.Currency,
	})
	return d, nil
}

// Submit drives a PENDING donation through the gateway to a terminal state.
// Concurrent submits for the same id observe the in-flight result.
func (s *Service) Submit(ctx context.Context, donationID, methodToken string) (*entity.Donation, error) {
	return s.single.Do(ctx, donationID, func() (*entity.Donation, error) {
		return s.submit(ctx, donationID, methodToken)
	})
}

func (s *Service) submit(ctx context.Context, donationID, methodToken string) (*entity.Donation, error) {
	d, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}

	switch d.Status {
	case entity.DonationCompleted:
		// Idempotent observation of an already-settled donation
		return d, nil
	case entity.DonationFailed, entity.DonationRefunded, entity.DonationCancelled:
		return d, errs.NewTransitionError(d.ID, string(d.Status), string(entity.DonationProcessing))
	case entity.DonationProcessing:
		// A previous submit died mid-flight; resolve through the gateway's
		// view instead of charging again
		capability, gerr := s.router.Get(d.GatewayName)
		if gerr != nil {
			return d, gerr
		}
		resolved, rerr := s.resolveByStatusQuery(ctx, capability, d, s.chargeReference(d, nil))
		if errors.Is(rerr, errNoChargeOccurred) {
			// The earlier attempt died before the gateway recorded anything,
			// so charging now cannot double-charge
			return s.charge(ctx, capability, d, methodToken, 1)
		}
		return resolved, rerr
	}

	if err := d.MarkProcessing(); err != nil {
		return d, err
	}
	if err := s.donationRepo.Update(ctx, d); err != nil {
		return d, fmt.Errorf("failed to persist processing state: %w", err)
	}

	capability, err := s.router.Get(d.GatewayName)
	if err != nil {
		return s.fail(ctx, d, err.Error(), err)
	}

	return s.charge(ctx, capability, d, methodToken, 1)
}

// charge performs one charge attempt and settles the donation from its outcome
func (s *Service) charge(
	ctx context.Context,
	capability gwport.Capability,
	d *entity.Donation,
	methodToken string,
	attempt int,
) (*entity.Donation, error) {
	chargeCtx, cancel := s.timeProvider.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()

	result, err := capability.Charge(chargeCtx, gwport.ChargeRequest{
		DonationID:    d.ID,
		AmountInCents: d.AmountInCents,
		Currency:      d.Currency,
		MethodType:    d.PaymentMethodType,
		MethodToken:   methodToken,
	})

	switch {
	case err == nil && result.Status == gwport.StatusSucceeded:
		return s.complete(ctx, d, result.ExternalTransactionID)

	case err == nil && result.Status == gwport.StatusPending:
		// Accepted but not settled; poll until the gateway decides
		resolved, rerr := s.resolveByStatusQuery(ctx, capability, d, s.chargeReference(d, result))
		if errors.Is(rerr, errNoChargeOccurred) {
			return s.fail(ctx, d, "charge disappeared at gateway", errs.ErrGatewayTransient)
		}
		return resolved, rerr

	case err == nil:
		return s.fail(ctx, d, fmt.Sprintf("gateway returned status %s", result.Status), errs.ErrGatewayDeclined)

	case errs.IsGatewayDeclinedError(err):
		s.logger.Info("Gateway declined charge", map[string]any{
			"donation_id": d.ID,
			"gateway":     string(d.GatewayName),
			"reason":      err.Error(),
		})
		return s.fail(ctx, d, err.Error(), err)

	case errs.IsGatewayTransientError(err):
		s.logger.Warn("Transient gateway failure on charge, resolving via status query", map[string]any{
			"donation_id": d.ID,
			"attempt":     attempt,
			"error":       err.Error(),
		})
		resolved, rerr := s.resolveByStatusQuery(ctx, capability, d, s.chargeReferenceFromError(d, err))
		if errors.Is(rerr, errNoChargeOccurred) {
			if attempt < maxChargeAttempts {
				// The gateway confirmed nothing was charged; one more attempt is safe
				return s.charge(ctx, capability, d, methodToken, attempt+1)
			}
			return s.fail(ctx, d, "charge attempts exhausted", errs.ErrGatewayTransient)
		}
		return resolved, rerr

	default:
		return s.fail(ctx, d, err.Error(), err)
	}
}

// errNoChargeOccurred signals internally that the gateway confirmed the charge
// never happened
var errNoChargeOccurred = errors.New("no charge occurred")

// resolveByStatusQuery retries the gateway status query with exponential
// backoff. Charges are not assumed to be retryable, so this is the only legal
// reaction to a timeout: ask what happened, don't charge again blindly.
func (s *Service) resolveByStatusQuery(
	ctx context.Context,
	capability gwport.Capability,
	d *entity.Donation,
	reference string,
) (*entity.Donation, error) {
	backoff := s.retryPolicy.InitialBackoff

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		queryCtx, cancel := s.timeProvider.WithTimeout(ctx, s.chargeTimeout)
		status, err := capability.QueryStatus(queryCtx, reference)
		cancel()

		if err == nil {
			switch status {
			case gwport.StatusSucceeded:
				return s.complete(ctx, d, reference)
			case gwport.StatusDeclined:
				return s.fail(ctx, d, "gateway declined the charge", errs.ErrGatewayDeclined)
			case gwport.StatusNotFound:
				return d, errNoChargeOccurred
			case gwport.StatusPending:
				// Fall through to backoff
			}
		} else if !errs.IsGatewayTransientError(err) {
			return s.fail(ctx, d, err.Error(), err)
		}

		s.logger.Warn("Gateway status unresolved, backing off", map[string]any{
			"donation_id": d.ID,
			"attempt":     attempt,
			"max":         s.retryPolicy.MaxAttempts,
			"backoff":     backoff.Std().String(),
		})

		if attempt < s.retryPolicy.MaxAttempts {
			s.timeProvider.Sleep(backoff)
			backoff *= 2
			if backoff > s.retryPolicy.MaxBackoff {
				backoff = s.retryPolicy.MaxBackoff
			}
		}
	}

	return s.fail(ctx, d, "gateway status unresolved after retries", errs.ErrGatewayTransient)
}

// Refund reverses a COMPLETED donation through its gateway
func (s *Service) Refund(ctx context.Context, donationID string) (*entity.Donation, error) {
	return s.single.Do(ctx, donationID, func() (*entity.Donation, error) {
		return s.refund(ctx, donationID)
	})
}

func (s *Service) refund(ctx context.Context, donationID string) (*entity.Donation, error) {
	d, err := s.donationRepo.GetByID(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DonationCompleted {
		return d, errs.NewTransitionError(d.ID, string(d.Status), string(entity.DonationRefunded))
	}

	capability, err := s.router.Get(d.GatewayName)
	if err != nil {
		return d, err
	}

	refundCtx, cancel := s.timeProvider.WithTimeout(ctx, s.chargeTimeout)
	defer cancel()
	status, err := capability.Refund(refundCtx, d.ExternalTransactionID, d.AmountInCents)
	if err != nil {
		s.logger.Error("Refund failed at gateway", map[string]any{
			"donation_id": d.ID,
			"external_id": d.ExternalTransactionID,
			"error":       err.Error(),
		})
		return d, err
	}
	if status != gwport.StatusRefunded && status != gwport.StatusSucceeded {
		return d, errs.NewGatewayDeclinedError(string(d.GatewayName), d.ExternalTransactionID,
			string(status), "refund not confirmed")
	}

	if err := d.MarkRefunded(); err != nil {
		return d, err
	}
	if err := s.donationRepo.Update(ctx, d); err != nil {
		return d, fmt.Errorf("failed to persist refund: %w", err)
	}

	s.publish(ctx, eventport.DonationRefunded{
		DonationID:    d.ID,
		DonorID:       d.DonorID,
		CampaignID:    d.CampaignID,
		AmountInCents: d.AmountInCents,
		Currency:      d.Currency,
		OccurredAt:    s.timeProvider.Now(),
	})

	s.logger.Info("Donation refunded", map[string]any{
		"donation_id": d.ID,
		"amount":      d.Amount,
		"currency":    d.Currency,
	})
	return d, nil
}

// Cancel withdraws a PENDING donation before submission. No side effects: the
// gateway was never contacted.
func (s *Service) Cancel(ctx context.Context, donationID string) (*entity.Donation, error) {
	return s.single.Do(ctx, donationID, func() (*entity.Donation, error) {
		d, err := s.donationRepo.GetByID(ctx, donationID)
		if err != nil {
			return nil, err
		}
		if err := d.MarkCancelled(); err != nil {
			return d, err
		}
		if err := s.donationRepo.Update(ctx, d); err != nil {
			return d, fmt.Errorf("failed to persist cancellation: %w", err)
		}
		s.logger.Info("Donation cancelled", map[string]any{"donation_id": d.ID})
		return d, nil
	})
}

// GetByID returns a donation
func (s *Service) GetByID(ctx context.Context, donationID string) (*entity.Donation, error) {
	return s.donationRepo.GetByID(ctx, donationID)
}

func (s *Service) complete(ctx context.Context, d *entity.Donation, externalID string) (*entity.Donation, error) {
	if err := d.MarkCompleted(externalID, s.timeProvider); err != nil {
		return d, err
	}
	if err := s.donationRepo.Update(ctx, d); err != nil {
		return d, fmt.Errorf("failed to persist completion: %w", err)
	}

	s.publish(ctx, eventport.DonationCompleted{
		DonationID:       d.ID,
		DonorID:          d.DonorID,
		CampaignID:       d.CampaignID,
		AmountInCents:    d.AmountInCents,
		Currency:         d.Currency,
		IsTicketPurchase: d.IsTicketPurchase,
		OccurredAt:       s.timeProvider.Now(),
	})

	s.logger.Info("Donation completed", map[string]any{
		"donation_id": d.ID,
		"external_id": externalID,
		"amount":      d.Amount,
		"currency":    d.Currency,
		"gateway":     string(d.GatewayName),
	})
	return d, nil
}

// fail settles the donation in FAILED, preserving the reason, and surfaces the
// cause in its original taxonomy category
func (s *Service) fail(ctx context.Context, d *entity.Donation, reason string, cause error) (*entity.Donation, error) {
	if err := d.MarkFailed(reason, s.timeProvider); err != nil {
		return d, err
	}
	if err := s.donationRepo.Update(ctx, d); err != nil {
		return d, fmt.Errorf("failed to persist failure: %w", err)
	}
	s.logger.Info("Donation failed", map[string]any{
		"donation_id": d.ID,
		"reason":      reason,
	})
	return d, fmt.Errorf("donation failed: %w", cause)
}

func (s *Service) publish(ctx context.Context, e eventport.Event) {
	if err := s.bus.Publish(ctx, e); err != nil {
		s.logger.Error("Failed to publish event", map[string]any{
			"event_type": e.Type(),
			"error":      err.Error(),
		})
	}
}

// chargeReference picks the identifier used for gateway status queries: the
// gateway's external id when known, otherwise the donation id, which both
// gateways accept as the merchant reference.
func (s *Service) chargeReference(d *entity.Donation, result *gwport.ChargeResult) string {
	if result != nil && result.ExternalTransactionID != "" {
		return result.ExternalTransactionID
	}
	if d.ExternalTransactionID != "" {
		return d.ExternalTransactionID
	}
	return d.ID
}

func (s *Service) chargeReferenceFromError(d *entity.Donation, err error) string {
	var gwErr *errs.GatewayError
	if errors.As(err, &gwErr) && gwErr.ExternalID != "" {
		return gwErr.ExternalID
	}
	return s.chargeReference(d, nil)
}
