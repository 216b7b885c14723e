package entity

import (
	"time"

	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
)

// LotteryStatus defines possible lottery states
type LotteryStatus string

// Lottery states
const (
	LotteryPending   LotteryStatus = "pending"
	LotteryActive    LotteryStatus = "active"
	LotteryDrawing   LotteryStatus = "drawing"
	LotteryCompleted LotteryStatus = "completed"
	LotteryCancelled LotteryStatus = "cancelled"
)

// Ticket number scheme: fixed alphabet and length so numbers are comparable,
// printable and collision-checkable.
const (
	TicketNumberAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	TicketNumberLength   = 8
)

// DrawingThreshold is the minimum fraction of maxTickets that must sell before
// a draw is permitted
const DrawingThreshold = 0.25

// Prize is one rank in the lottery's ordered prize list
type Prize struct {
	Rank        int
	Title       string
	Description string
}

// Ticket links a unique number to the completed donation that paid for it
type Ticket struct {
	Number       string
	DonorID      string
	DonationID   string
	PurchaseDate time.Time
}

// Winner records the outcome of one prize rank in a draw
type Winner struct {
	DonorID      string
	TicketNumber string
	PrizeRank    int
	PrizeTitle   string
	DrawnAt      time.Time
}

// Lottery is a ticket-based fundraising mechanism bound 1:1 to a campaign.
// SoldTickets and Tickets are mutated only through AppendTicket under the
// repository's optimistic-concurrency update; Version backs that update.
type Lottery struct {
	ID                 string
	CampaignID         string
	DrawDate           time.Time
	TicketPriceInCents int64
	Currency           string
	MaxTickets         int
	SoldTickets        int
	Prizes             []Prize
	Tickets            []Ticket
	Winners            []Winner
	Status             LotteryStatus
	Version            int64
}

// NewLottery creates a lottery, enforcing the structural invariants that hold
// for its whole lifetime: at least one prize, unique ranks, and currency equal
// to the owning campaign's currency.
func NewLottery(
	id string,
	campaign *Campaign,
	drawDate time.Time,
	ticketPriceInCents int64,
	currency string,
	maxTickets int,
	prizes []Prize,
) (*Lottery, error) {
	if currency != campaign.Currency {
		return nil, errs.NewInvariantError(
			"lottery_currency",
			"lottery currency "+currency+" does not match campaign currency "+campaign.Currency,
		)
	}
	if len(prizes) == 0 {
		return nil, errs.NewInvariantError("lottery_prizes", "lottery must define at least one prize")
	}
	seen := make(map[int]bool, len(prizes))
	for _, p := range prizes {
		if seen[p.Rank] {
			return nil, errs.NewInvariantError("lottery_prize_ranks", "duplicate prize rank")
		}
		seen[p.Rank] = true
	}
	if maxTickets <= 0 {
		return nil, errs.NewInvariantError("lottery_max_tickets", "maxTickets must be positive")
	}

	return &Lottery{
		ID:                 id,
		CampaignID:         campaign.ID,
		DrawDate:           drawDate,
		TicketPriceInCents: ticketPriceInCents,
		Currency:           currency,
		MaxTickets:         maxTickets,
		Prizes:             prizes,
		Status:             LotteryActive,
	}, nil
}

// HasTicketNumber reports whether a number is already taken in this lottery
func (l *Lottery) HasTicketNumber(number string) bool {
	for _, t := range l.Tickets {
		if t.Number == number {
			return true
		}
	}
	return false
}

// AppendTicket adds a ticket and increments SoldTickets, guarding the
// uniqueness and capacity invariants.
func (l *Lottery) AppendTicket(ticket Ticket) error {
	if l.Status != LotteryActive {
		return errs.ErrLotteryNotActive
	}
	if l.SoldTickets >= l.MaxTickets {
		return errs.ErrLotterySoldOut
	}
	if l.HasTicketNumber(ticket.Number) {
		return errs.NewInvariantError("ticket_number_unique",
			"ticket number "+ticket.Number+" already exists in lottery "+l.ID)
	}
	l.Tickets = append(l.Tickets, ticket)
	l.SoldTickets = len(l.Tickets)
	return nil
}

// MinimumTickets returns the participation threshold for this lottery
func (l *Lottery) MinimumTickets() int {
	min := int(float64(l.MaxTickets) * DrawingThreshold)
	if float64(min) < float64(l.MaxTickets)*DrawingThreshold {
		min++
	}
	return min
}

// IsDrawingEligible reports whether the draw may run at the given time
func (l *Lottery) IsDrawingEligible(now time.Time) bool {
	return l.Status == LotteryActive &&
		!now.Before(l.DrawDate) &&
		l.SoldTickets >= l.MinimumTickets() &&
		len(l.Winners) == 0
}

// BeginDrawing transitions ACTIVE -> DRAWING
func (l *Lottery) BeginDrawing() error {
	if l.Status != LotteryActive {
		return errs.NewTransitionError(l.ID, string(l.Status), string(LotteryDrawing))
	}
	l.Status = LotteryDrawing
	return nil
}

// CompleteDrawing records the winners and transitions DRAWING -> COMPLETED
func (l *Lottery) CompleteDrawing(winners []Winner) error {
	if l.Status != LotteryDrawing {
		return errs.NewTransitionError(l.ID, string(l.Status), string(LotteryCompleted))
	}
	if len(winners) == 0 {
		return errs.NewInvariantError("lottery_winners", "draw completed with no winners")
	}
	l.Winners = winners
	l.Status = LotteryCompleted
	return nil
}
