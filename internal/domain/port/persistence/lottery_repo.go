package persistence

import (
	"context"
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
)

// LotteryRepository defines methods to interact with lottery data
type LotteryRepository interface {
	// Create saves a new lottery with its prize list
	//
	// Possible errors:
	// - ErrDatabaseConnection: if database connection fails
	Create(ctx context.Context, lottery *entity.Lottery) error

	// GetByID retrieves a lottery with its tickets, prizes and winners
	//
	// Possible errors:
	// - ErrLotteryNotFound: if the lottery doesn't exist
	// - ErrDatabaseConnection: if database connection fails
	GetByID(ctx context.Context, id string) (*entity.Lottery, error)

	// GetByCampaignID retrieves the lottery bound to a campaign. Lotteries are
	// 1:1 with campaigns that have isLottery set.
	//
	// Possible errors:
	// - ErrLotteryNotFound: if the campaign has no lottery
	// - ErrDatabaseConnection: if database connection fails
	GetByCampaignID(ctx context.Context, campaignID string) (*entity.Lottery, error)

	// UpdateWithVersion persists lottery mutations (appended tickets, status,
	// winners) under optimistic concurrency. The lottery's Version must be the
	// one read; on success it is incremented.
	//
	// Possible errors:
	// - ErrConcurrencyConflict: if another writer updated the lottery first
	// - ErrInvariantViolation: if a ticket number collides on the unique index
	// - ErrLotteryNotFound: if the lottery doesn't exist
	// - ErrDatabaseConnection: if database connection fails
	UpdateWithVersion(ctx context.Context, lottery *entity.Lottery) error

	// ListDueForDraw returns active lotteries whose draw date has passed.
	// Used by the scheduled draw sweep; eligibility is re-checked per lottery.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if database connection fails
	ListDueForDraw(ctx context.Context, now time.Time) ([]*entity.Lottery, error)
}
