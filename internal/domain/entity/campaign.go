package entity

import (
	"time"

	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
)

// CampaignStatus defines possible campaign states
type CampaignStatus string

// Campaign states
const (
	CampaignActive    CampaignStatus = "active"
	CampaignCompleted CampaignStatus = "completed"
	CampaignCancelled CampaignStatus = "cancelled"
)

// Campaign represents a fundraising target. CurrentAmountInCents and DonorCount
// are derived values mutated exclusively by the progress aggregator; Version
// backs the optimistic-concurrency update on those fields.
type Campaign struct {
	ID                   string
	AssociationID        string
	Title                string
	GoalAmountInCents    int64
	CurrentAmountInCents int64
	Currency             string
	DonorCount           int64
	IsLottery            bool
	StartDate            time.Time
	EndDate              time.Time
	Status               CampaignStatus
	Version              int64
}

// ApplyCompletion folds a completed donation into the campaign totals.
// Currency conversion happens upstream; a mismatch here is a broken contract.
func (c *Campaign) ApplyCompletion(amountInCents int64, currency string) error {
	if currency != c.Currency {
		return errs.NewInvariantError(
			"campaign_currency",
			"completed donation currency "+currency+" does not match campaign currency "+c.Currency,
		)
	}
	c.CurrentAmountInCents += amountInCents
	c.DonorCount++
	return nil
}

// ApplyRefund reverses a previously applied completion
func (c *Campaign) ApplyRefund(amountInCents int64, currency string) error {
	if currency != c.Currency {
		return errs.NewInvariantError(
			"campaign_currency",
			"refunded donation currency "+currency+" does not match campaign currency "+c.Currency,
		)
	}
	c.CurrentAmountInCents -= amountInCents
	if c.DonorCount > 0 {
		c.DonorCount--
	}
	return nil
}

// GoalReached reports whether the campaign has met its funding goal
func (c *Campaign) GoalReached() bool {
	return c.CurrentAmountInCents >= c.GoalAmountInCents
}

// CurrentAmount returns the running total as a 2-decimal string
func (c *Campaign) CurrentAmount() string {
	return AmountInCentsToString(c.CurrentAmountInCents)
}
