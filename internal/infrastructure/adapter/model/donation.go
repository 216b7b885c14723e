package model

import (
	"time"
)

// Donation represents the database model for donations
type Donation struct {
	ID                    string    `gorm:"primaryKey;size:36"`
	IdempotencyKey        string    `gorm:"uniqueIndex;not null;size:255"`
	DonorID               string    `gorm:"not null;index;size:36"`
	AssociationID         string    `gorm:"not null;index;size:36"`
	CampaignID            string    `gorm:"index;size:36"`
	Amount                string    `gorm:"not null;size:50"`
	AmountInCents         int64     `gorm:"not null"`
	Currency              string    `gorm:"not null;size:3"`
	PaymentMethodType     string    `gorm:"not null;size:50"`
	GatewayName           string    `gorm:"not null;size:50"`
	Status                string    `gorm:"not null;index;size:50"`
	IsAnonymous           bool      `gorm:"not null;default:false"`
	IsRecurring           bool      `gorm:"not null;default:false"`
	IsTicketPurchase      bool      `gorm:"not null;default:false"`
	ExternalTransactionID string    `gorm:"size:255"`
	FailureReason         string    `gorm:"type:text"`
	RiskMetadata          string    `gorm:"type:text"`
	CreatedAt             time.Time `gorm:"not null"`
	ProcessedAt           *time.Time
}

// TableName specifies the table name for Donation
func (Donation) TableName() string {
	return "donations"
}
