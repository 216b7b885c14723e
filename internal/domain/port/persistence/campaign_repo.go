package persistence

import (
	"context"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
)

// CreditDirection marks whether a campaign credit adds or reverses funds
type CreditDirection string

// Credit directions
const (
	CreditApply  CreditDirection = "apply"
	CreditRevert CreditDirection = "revert"
)

// CampaignCredit is the counted-at-most-once marker for a donation's effect on
// campaign totals. The (campaign, donation, direction) triple is unique, so a
// replayed completion event cannot double-count.
type CampaignCredit struct {
	CampaignID    string
	DonationID    string
	Direction     CreditDirection
	AmountInCents int64
}

// CampaignRepository defines methods to interact with campaign data
type CampaignRepository interface {
	// Create saves a new campaign
	//
	// Possible errors:
	// - ErrDatabaseConnection: if database connection fails
	Create(ctx context.Context, campaign *entity.Campaign) error

	// GetByID retrieves a campaign by id, including its version
	//
	// Possible errors:
	// - ErrCampaignNotFound: if the campaign doesn't exist
	// - ErrDatabaseConnection: if database connection fails
	GetByID(ctx context.Context, id string) (*entity.Campaign, error)

	// ApplyProgress persists updated totals under optimistic concurrency and
	// records the credit marker in the same database transaction. The campaign's
	// Version must be the one read; on success it is incremented.
	//
	// Returns applied=false when the credit marker already exists, meaning the
	// donation was counted by an earlier delivery of the same event.
	//
	// Possible errors:
	// - ErrConcurrencyConflict: if another writer updated the campaign first
	// - ErrCampaignNotFound: if the campaign doesn't exist
	// - ErrDatabaseConnection: if database connection fails
	ApplyProgress(ctx context.Context, campaign *entity.Campaign, credit CampaignCredit) (applied bool, err error)
}
