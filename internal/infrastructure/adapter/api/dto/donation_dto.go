package dto

import (
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
)

// CreateDonationRequest represents the API request for opening a donation
type CreateDonationRequest struct {
	IdempotencyKey   string `json:"idempotencyKey" binding:"required"`
	AssociationID    string `json:"associationId" binding:"required"`
	CampaignID       string `json:"campaignId"`
	Amount           string `json:"amount" binding:"required"`
	Currency         string `json:"currency" binding:"required,len=3"`
	Country          string `json:"country"`
	PaymentMethod    string `json:"paymentMethod" binding:"required"`
	IsAnonymous      bool   `json:"isAnonymous"`
	IsRecurring      bool   `json:"isRecurring"`
	IsTicketPurchase bool   `json:"isTicketPurchase"`
}

// SubmitDonationRequest represents the API request for submitting a donation
// for processing. The method token is the gateway-side payment instrument
// reference; it is never persisted.
type SubmitDonationRequest struct {
	MethodToken string `json:"methodToken" binding:"required"`
}

// DonationResponse represents the API response for a donation
type DonationResponse struct {
	ID                    string     `json:"id"`
	IdempotencyKey        string     `json:"idempotencyKey"`
	DonorID               string     `json:"donorId"`
	AssociationID         string     `json:"associationId"`
	CampaignID            string     `json:"campaignId,omitempty"`
	Amount                string     `json:"amount"`
	Currency              string     `json:"currency"`
	PaymentMethod         string     `json:"paymentMethod"`
	Gateway               string     `json:"gateway"`
	Status                string     `json:"status"`
	IsAnonymous           bool       `json:"isAnonymous"`
	IsRecurring           bool       `json:"isRecurring"`
	IsTicketPurchase      bool       `json:"isTicketPurchase"`
	ExternalTransactionID string     `json:"externalTransactionId,omitempty"`
	FailureReason         string     `json:"failureReason,omitempty"`
	CreatedAt             time.Time  `json:"createdAt"`
	ProcessedAt           *time.Time `json:"processedAt,omitempty"`
}

// FromDonation converts a donation entity to its API representation
func FromDonation(d *entity.Donation) DonationResponse {
	return DonationResponse{
		ID:                    d.ID,
		IdempotencyKey:        d.IdempotencyKey,
		DonorID:               d.DonorID,
		AssociationID:         d.AssociationID,
		CampaignID:            d.CampaignID,
		Amount:                d.Amount,
		Currency:              d.Currency,
		PaymentMethod:         string(d.PaymentMethodType),
		Gateway:               string(d.GatewayName),
		Status:                string(d.Status),
		IsAnonymous:           d.IsAnonymous,
		IsRecurring:           d.IsRecurring,
		IsTicketPurchase:      d.IsTicketPurchase,
		ExternalTransactionID: d.ExternalTransactionID,
		FailureReason:         d.FailureReason,
		CreatedAt:             d.CreatedAt,
		ProcessedAt:           d.ProcessedAt,
	}
}
