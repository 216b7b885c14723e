package model

import (
	"time"
)

// Lottery represents the database model for lotteries. Version backs the
// optimistic-concurrency update protecting ticket sales and draw state.
type Lottery struct {
	ID                 string    `gorm:"primaryKey;size:36"`
	CampaignID         string    `gorm:"uniqueIndex;not null;size:36"`
	DrawDate           time.Time `gorm:"not null;index"`
	TicketPriceInCents int64     `gorm:"not null"`
	Currency           string    `gorm:"not null;size:3"`
	MaxTickets         int       `gorm:"not null"`
	SoldTickets        int       `gorm:"not null;default:0"`
	Status             string    `gorm:"not null;index;size:50"`
	Version            int64     `gorm:"not null;default:0"`

	Prizes  []LotteryPrize  `gorm:"foreignKey:LotteryID;references:ID"`
	Tickets []LotteryTicket `gorm:"foreignKey:LotteryID;references:ID"`
	Winners []LotteryWinner `gorm:"foreignKey:LotteryID;references:ID"`
}

// TableName specifies the table name for Lottery
func (Lottery) TableName() string {
	return "lotteries"
}

// LotteryPrize is one rank in a lottery's prize list
type LotteryPrize struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	LotteryID   string `gorm:"not null;size:36;uniqueIndex:idx_lottery_prize_rank"`
	Rank        int    `gorm:"not null;uniqueIndex:idx_lottery_prize_rank"`
	Title       string `gorm:"not null;size:255"`
	Description string `gorm:"type:text"`
}

// TableName specifies the table name for LotteryPrize
func (LotteryPrize) TableName() string {
	return "lottery_prizes"
}

// LotteryTicket is one sold ticket. The unique index on (lottery, number) is
// the last line of defense for ticket-number uniqueness.
type LotteryTicket struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	LotteryID    string    `gorm:"not null;size:36;uniqueIndex:idx_lottery_ticket_number"`
	Number       string    `gorm:"not null;size:8;uniqueIndex:idx_lottery_ticket_number"`
	DonorID      string    `gorm:"not null;index;size:36"`
	DonationID   string    `gorm:"not null;size:36"`
	PurchaseDate time.Time `gorm:"not null"`
}

// TableName specifies the table name for LotteryTicket
func (LotteryTicket) TableName() string {
	return "lottery_tickets"
}

// LotteryWinner records the outcome of one prize rank after a draw
type LotteryWinner struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	LotteryID    string    `gorm:"not null;size:36;uniqueIndex:idx_lottery_winner_rank"`
	PrizeRank    int       `gorm:"not null;uniqueIndex:idx_lottery_winner_rank"`
	PrizeTitle   string    `gorm:"not null;size:255"`
	DonorID      string    `gorm:"not null;size:36"`
	TicketNumber string    `gorm:"not null;size:8"`
	DrawnAt      time.Time `gorm:"not null"`
}

// TableName specifies the table name for LotteryWinner
func (LotteryWinner) TableName() string {
	return "lottery_winners"
}
