package campaign

import (
	"context"
	"fmt"

	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	eventport "github.com/tzedaka-labs/donation-processor/internal/domain/port/event"
	"github.com/tzedaka-labs/donation-processor/internal/domain/port/persistence"
)

// maxConflictRetries bounds the optimistic-concurrency retry loop. The updates
// are idempotent increments, so re-reading and reapplying is always safe; the
// bound only guards against a livelocked aggregate.
const maxConflictRetries = 10

// Aggregator keeps campaign totals equal to the sum of completed donations
// minus refunds. It is the only writer of Campaign.CurrentAmount/DonorCount,
// consumes completion/refund events, and counts each donation at most once via
// the credit marker recorded with every update.
type Aggregator struct {
	campaignRepo persistence.CampaignRepository
	logger       coreport.Logger
}

// NewAggregator creates the campaign progress aggregator
func NewAggregator(campaignRepo persistence.CampaignRepository, logger coreport.Logger) *Aggregator {
	return &Aggregator{
		campaignRepo: campaignRepo,
		logger:       logger,
	}
}

// RegisterHandlers subscribes the aggregator to the event bus
func (a *Aggregator) RegisterHandlers(bus eventport.Bus) {
	bus.Register(eventport.TypeDonationCompleted, a.handleCompleted)
	bus.Register(eventport.TypeDonationRefunded, a.handleRefunded)
}

func (a *Aggregator) handleCompleted(ctx context.Context, e eventport.Event) error {
	completed, ok := e.(eventport.DonationCompleted)
	if !ok {
		return fmt.Errorf("%w: unexpected payload for %s", errs.ErrInternalServer, e.Type())
	}
	if completed.CampaignID == "" {
		// Direct association donation; nothing to aggregate
		return nil
	}
	return a.apply(ctx, completed.CampaignID, completed.DonationID,
		completed.AmountInCents, completed.Currency, persistence.CreditApply)
}

func (a *Aggregator) handleRefunded(ctx context.Context, e eventport.Event) error {
	refunded, ok := e.(eventport.DonationRefunded)
	if !ok {
		return fmt.Errorf("%w: unexpected payload for %s", errs.ErrInternalServer, e.Type())
	}
	if refunded.CampaignID == "" {
		return nil
	}
	return a.apply(ctx, refunded.CampaignID, refunded.DonationID,
		refunded.AmountInCents, refunded.Currency, persistence.CreditRevert)
}

// apply folds one donation into the campaign totals under optimistic
// concurrency, re-reading and reapplying on conflict
func (a *Aggregator) apply(
	ctx context.Context,
	campaignID string,
	donationID string,
	amountInCents int64,
	currency string,
	direction persistence.CreditDirection,
) error {
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		campaign, err := a.campaignRepo.GetByID(ctx, campaignID)
		if err != nil {
			return fmt.Errorf("failed to load campaign %s: %w", campaignID, err)
		}

		switch direction {
		case persistence.CreditApply:
			err = campaign.ApplyCompletion(amountInCents, currency)
		case persistence.CreditRevert:
			err = campaign.ApplyRefund(amountInCents, currency)
		}
		if err != nil {
			// Currency mismatch is a broken upstream contract, never swallowed
			if logged, ok := err.(interface{ LogFields() map[string]any }); ok {
				a.logger.Error("Invariant violation while aggregating campaign progress", logged.LogFields())
			} else {
				a.logger.Error("Invariant violation while aggregating campaign progress", map[string]any{
					"campaign_id": campaignID,
					"donation_id": donationID,
					"error":       err.Error(),
				})
			}
			return err
		}

		applied, err := a.campaignRepo.ApplyProgress(ctx, campaign, persistence.CampaignCredit{
			CampaignID:    campaignID,
			DonationID:    donationID,
			Direction:     direction,
			AmountInCents: amountInCents,
		})
		if err == nil {
			if !applied {
				a.logger.Debug("Donation already counted, skipping", map[string]any{
					"campaign_id": campaignID,
					"donation_id": donationID,
					"direction":   string(direction),
				})
				return nil
			}
			a.logger.Info("Campaign progress updated", map[string]any{
				"campaign_id":    campaignID,
				"donation_id":    donationID,
				"direction":      string(direction),
				"current_amount": campaign.CurrentAmount(),
				"donor_count":    campaign.DonorCount,
			})
			return nil
		}
		if !errs.IsConcurrencyConflictError(err) {
			return fmt.Errorf("failed to update campaign %s: %w", campaignID, err)
		}

		a.logger.Debug("Campaign update lost the version race, retrying", map[string]any{
			"campaign_id": campaignID,
			"attempt":     attempt,
		})
	}

	return fmt.Errorf("%w: campaign %s update retries exhausted", errs.ErrConcurrencyConflict, campaignID)
}
