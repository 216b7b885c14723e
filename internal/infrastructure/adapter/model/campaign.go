package model

import (
	"time"
)

// Campaign represents the database model for campaigns. Version backs the
// optimistic-concurrency update on the running totals.
type Campaign struct {
	ID                   string    `gorm:"primaryKey;size:36"`
	AssociationID        string    `gorm:"not null;index;size:36"`
	Title                string    `gorm:"not null;size:255"`
	GoalAmountInCents    int64     `gorm:"not null"`
	CurrentAmountInCents int64     `gorm:"not null;default:0"`
	Currency             string    `gorm:"not null;size:3"`
	DonorCount           int64     `gorm:"not null;default:0"`
	IsLottery            bool      `gorm:"not null;default:false"`
	StartDate            time.Time `gorm:"not null"`
	EndDate              time.Time `gorm:"not null"`
	Status               string    `gorm:"not null;size:50"`
	Version              int64     `gorm:"not null;default:0"`
}

// TableName specifies the table name for Campaign
func (Campaign) TableName() string {
	return "campaigns"
}

// CampaignCredit is the counted-at-most-once marker for a donation's effect on
// a campaign's totals. The unique index rejects a second credit for the same
// (campaign, donation, direction) triple.
type CampaignCredit struct {
	ID            uint64    `gorm:"primaryKey;autoIncrement"`
	CampaignID    string    `gorm:"not null;size:36;uniqueIndex:idx_campaign_credit"`
	DonationID    string    `gorm:"not null;size:36;uniqueIndex:idx_campaign_credit"`
	Direction     string    `gorm:"not null;size:10;uniqueIndex:idx_campaign_credit"`
	AmountInCents int64     `gorm:"not null"`
	CreatedAt     time.Time `gorm:"not null"`
}

// TableName specifies the table name for CampaignCredit
func (CampaignCredit) TableName() string {
	return "campaign_credits"
}
