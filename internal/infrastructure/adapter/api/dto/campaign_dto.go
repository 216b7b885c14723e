package dto

import (
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
)

// CreateCampaignRequest represents the API request for creating a campaign
type CreateCampaignRequest struct {
	AssociationID string    `json:"associationId" binding:"required"`
	Title         string    `json:"title" binding:"required"`
	GoalAmount    string    `json:"goalAmount" binding:"required"`
	Currency      string    `json:"currency" binding:"required,len=3"`
	IsLottery     bool      `json:"isLottery"`
	StartDate     time.Time `json:"startDate" binding:"required"`
	EndDate       time.Time `json:"endDate" binding:"required"`
}

// CampaignResponse represents the API response for a campaign
type CampaignResponse struct {
	ID            string    `json:"id"`
	AssociationID string    `json:"associationId"`
	Title         string    `json:"title"`
	GoalAmount    string    `json:"goalAmount"`
	CurrentAmount string    `json:"currentAmount"`
	Currency      string    `json:"currency"`
	DonorCount    int64     `json:"donorCount"`
	GoalReached   bool      `json:"goalReached"`
	IsLottery     bool      `json:"isLottery"`
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	Status        string    `json:"status"`
}

// FromCampaign converts a campaign entity to its API representation
func FromCampaign(c *entity.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:            c.ID,
		AssociationID: c.AssociationID,
		Title:         c.Title,
		GoalAmount:    entity.AmountInCentsToString(c.GoalAmountInCents),
		CurrentAmount: c.CurrentAmount(),
		Currency:      c.Currency,
		DonorCount:    c.DonorCount,
		GoalReached:   c.GoalReached(),
		IsLottery:     c.IsLottery,
		StartDate:     c.StartDate,
		EndDate:       c.EndDate,
		Status:        string(c.Status),
	}
}
