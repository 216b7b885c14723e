package event

import (
	"context"
	"time"
)

// Event type names
const (
	TypeDonationCompleted = "donation.completed"
	TypeDonationRefunded  = "donation.refunded"
	TypeLotteryDrawn      = "lottery.drawn"
)

// Event is the common shape of everything emitted by the donation core
type Event interface {
	Type() string
}

// DonationCompleted is emitted when a donation reaches COMPLETED
type DonationCompleted struct {
	DonationID       string
	DonorID          string
	CampaignID       string
	LotteryID        string
	AmountInCents    int64
	Currency         string
	IsTicketPurchase bool
	OccurredAt       time.Time
}

// Type returns the event type name
func (DonationCompleted) Type() string { return TypeDonationCompleted }

// DonationRefunded is emitted when a completed donation is reversed
type DonationRefunded struct {
	DonationID    string
	DonorID       string
	CampaignID    string
	AmountInCents int64
	Currency      string
	OccurredAt    time.Time
}

// Type returns the event type name
func (DonationRefunded) Type() string { return TypeDonationRefunded }

// LotteryDrawn is emitted once, when a lottery's draw completes
type LotteryDrawn struct {
	LotteryID  string
	CampaignID string
	Winners    int
	OccurredAt time.Time
}

// Type returns the event type name
func (LotteryDrawn) Type() string { return TypeLotteryDrawn }

// HandlerFunc consumes one event
type HandlerFunc func(ctx context.Context, e Event) error

// Bus publishes domain events to registered consumers (campaign aggregation,
// lottery fulfillment, and external collaborators such as notification and
// receipt generation)
type Bus interface {
	// Register subscribes a handler to an event type
	Register(eventType string, handler HandlerFunc)

	// Publish delivers the event to every handler registered for its type
	Publish(ctx context.Context, e Event) error
}
