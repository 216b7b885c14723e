package dto

import (
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
)

// PrizeRequest is one prize rank in a lottery creation request
type PrizeRequest struct {
	Rank        int    `json:"rank" binding:"required,min=1"`
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

// CreateLotteryRequest represents the API request for creating a lottery
type CreateLotteryRequest struct {
	CampaignID  string         `json:"campaignId" binding:"required"`
	DrawDate    time.Time      `json:"drawDate" binding:"required"`
	TicketPrice string         `json:"ticketPrice" binding:"required"`
	Currency    string         `json:"currency" binding:"required,len=3"`
	MaxTickets  int            `json:"maxTickets" binding:"required,min=1"`
	Prizes      []PrizeRequest `json:"prizes" binding:"required,min=1,dive"`
}

// PurchaseTicketRequest represents the API request for allocating a ticket to
// a completed donation
type PurchaseTicketRequest struct {
	DonationID string `json:"donationId" binding:"required"`
}

// PrizeResponse is one prize rank in a lottery response
type PrizeResponse struct {
	Rank        int    `json:"rank"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// TicketResponse represents an allocated lottery ticket
type TicketResponse struct {
	Number       string    `json:"number"`
	DonorID      string    `json:"donorId"`
	DonationID   string    `json:"donationId"`
	PurchaseDate time.Time `json:"purchaseDate"`
}

// WinnerResponse represents one drawn prize rank
type WinnerResponse struct {
	PrizeRank    int       `json:"prizeRank"`
	PrizeTitle   string    `json:"prizeTitle"`
	DonorID      string    `json:"donorId"`
	TicketNumber string    `json:"ticketNumber"`
	DrawnAt      time.Time `json:"drawnAt"`
}

// LotteryResponse represents the API response for a lottery
type LotteryResponse struct {
	ID             string           `json:"id"`
	CampaignID     string           `json:"campaignId"`
	DrawDate       time.Time        `json:"drawDate"`
	TicketPrice    string           `json:"ticketPrice"`
	Currency       string           `json:"currency"`
	MaxTickets     int              `json:"maxTickets"`
	SoldTickets    int              `json:"soldTickets"`
	MinimumTickets int              `json:"minimumTickets"`
	Status         string           `json:"status"`
	Prizes         []PrizeResponse  `json:"prizes"`
	Winners        []WinnerResponse `json:"winners,omitempty"`
}

// EligibilityResponse reports whether a lottery may be drawn now
type EligibilityResponse struct {
	LotteryID      string `json:"lotteryId"`
	Eligible       bool   `json:"eligible"`
	SoldTickets    int    `json:"soldTickets"`
	MinimumTickets int    `json:"minimumTickets"`
}

// FromLottery converts a lottery entity to its API representation
func FromLottery(l *entity.Lottery) LotteryResponse {
	resp := LotteryResponse{
		ID:             l.ID,
		CampaignID:     l.CampaignID,
		DrawDate:       l.DrawDate,
		TicketPrice:    entity.AmountInCentsToString(l.TicketPriceInCents),
		Currency:       l.Currency,
		MaxTickets:     l.MaxTickets,
		SoldTickets:    l.SoldTickets,
		MinimumTickets: l.MinimumTickets(),
		Status:         string(l.Status),
	}
	for _, p := range l.Prizes {
		resp.Prizes = append(resp.Prizes, PrizeResponse{
			Rank:        p.Rank,
			Title:       p.Title,
			Description: p.Description,
		})
	}
	for _, w := range l.Winners {
		resp.Winners = append(resp.Winners, FromWinner(w))
	}
	return resp
}

// FromTicket converts a ticket entity to its API representation
func FromTicket(t *entity.Ticket) TicketResponse {
	return TicketResponse{
		Number:       t.Number,
		DonorID:      t.DonorID,
		DonationID:   t.DonationID,
		PurchaseDate: t.PurchaseDate,
	}
}

// FromWinner converts a winner entity to its API representation
func FromWinner(w entity.Winner) WinnerResponse {
	return WinnerResponse{
		PrizeRank:    w.PrizeRank,
		PrizeTitle:   w.PrizeTitle,
		DonorID:      w.DonorID,
		TicketNumber: w.TicketNumber,
		DrawnAt:      w.DrawnAt,
	}
}
