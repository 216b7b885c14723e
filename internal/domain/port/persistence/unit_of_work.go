package persistence

import (
	"context"
)

// UnitOfWork coordinates repository operations inside one database transaction
// so a donation state transition and its side effects commit or roll back
// together
type UnitOfWork interface {
	// Begin starts a new transaction and returns a transactional context
	Begin(ctx context.Context) (context.Context, error)

	// Commit commits the transaction in the given context
	Commit(ctx context.Context) error

	// Rollback rolls back the transaction in the given context
	Rollback(ctx context.Context) error

	// GetDonationRepository returns a donation repository bound to the current transaction
	GetDonationRepository(ctx context.Context) DonationRepository

	// GetCampaignRepository returns a campaign repository bound to the current transaction
	GetCampaignRepository(ctx context.Context) CampaignRepository

	// GetLotteryRepository returns a lottery repository bound to the current transaction
	GetLotteryRepository(ctx context.Context) LotteryRepository
}
