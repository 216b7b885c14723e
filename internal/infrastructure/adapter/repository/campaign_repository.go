package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"github.com/tzedaka-labs/donation-processor/internal/domain/port/persistence"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// errAlreadyCredited aborts the progress transaction when the credit marker
// already exists; mapped to applied=false, not an error
var errAlreadyCredited = errors.New("campaign credit already recorded")

// CampaignRepository implements the campaign persistence port using GORM
type CampaignRepository struct {
	db              *gorm.DB
	timeProvider    coreport.TimeProvider
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewCampaignRepository creates a new CampaignRepository instance
func NewCampaignRepository(db *gorm.DB, timeProvider coreport.TimeProvider, logger coreport.Logger) *CampaignRepository {
	return &CampaignRepository{
		db:              db,
		timeProvider:    timeProvider,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a campaign entity to a database model
func (r *CampaignRepository) entityToModel(campaign *entity.Campaign) model.Campaign {
	return model.Campaign{
		ID:                   campaign.ID,
		AssociationID:        campaign.AssociationID,
		Title:                campaign.Title,
		GoalAmountInCents:    campaign.GoalAmountInCents,
		CurrentAmountInCents: campaign.CurrentAmountInCents,
		Currency:             campaign.Currency,
		DonorCount:           campaign.DonorCount,
		IsLottery:            campaign.IsLottery,
		StartDate:            campaign.StartDate,
		EndDate:              campaign.EndDate,
		Status:               string(campaign.Status),
		Version:              campaign.Version,
	}
}

// modelToEntity converts a database model to a campaign entity
func (r *CampaignRepository) modelToEntity(m *model.Campaign) *entity.Campaign {
	return &entity.Campaign{
		ID:                   m.ID,
		AssociationID:        m.AssociationID,
		Title:                m.Title,
		GoalAmountInCents:    m.GoalAmountInCents,
		CurrentAmountInCents: m.CurrentAmountInCents,
		Currency:             m.Currency,
		DonorCount:           m.DonorCount,
		IsLottery:            m.IsLottery,
		StartDate:            m.StartDate,
		EndDate:              m.EndDate,
		Status:               entity.CampaignStatus(m.Status),
		Version:              m.Version,
	}
}

// Create saves a new campaign
func (r *CampaignRepository) Create(ctx context.Context, campaign *entity.Campaign) error {
	campaignModel := r.entityToModel(campaign)

	result := r.db.WithContext(ctx).Create(&campaignModel)
	if result.Error != nil {
		r.logger.Error("Failed to create campaign", map[string]any{
			"campaign_id": campaign.ID,
			"error":       result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Info("Campaign created successfully", map[string]any{
		"campaign_id":    campaign.ID,
		"association_id": campaign.AssociationID,
	})
	return nil
}

// GetByID retrieves a campaign by id, including its version
func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*entity.Campaign, error) {
	var campaignModel model.Campaign
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&campaignModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrCampaignNotFound
		}
		r.logger.Error("Failed to get campaign", map[string]any{
			"campaign_id": id,
			"error":       result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&campaignModel), nil
}

// ApplyProgress persists updated totals under optimistic concurrency and
// records the credit marker in the same database transaction. The credit
// insert and the versioned update commit or roll back together, so a total
// can never move without its marker.
func (r *CampaignRepository) ApplyProgress(
	ctx context.Context,
	campaign *entity.Campaign,
	credit persistence.CampaignCredit,
) (bool, error) {
	readVersion := campaign.Version

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		creditModel := model.CampaignCredit{
			CampaignID:    credit.CampaignID,
			DonationID:    credit.DonationID,
			Direction:     string(credit.Direction),
			AmountInCents: credit.AmountInCents,
			CreatedAt:     r.timeProvider.Now(),
		}
		if err := tx.Create(&creditModel).Error; err != nil {
			if r.errorClassifier.IsDuplicateKeyError(err) {
				return errAlreadyCredited
			}
			return err
		}

		result := tx.Model(&model.Campaign{}).
			Where("id = ? AND version = ?", campaign.ID, readVersion).
			Updates(map[string]interface{}{
				"current_amount_in_cents": campaign.CurrentAmountInCents,
				"donor_count":             campaign.DonorCount,
				"status":                  string(campaign.Status),
				"version":                 readVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.ErrConcurrencyConflict
		}
		return nil
	})

	if err != nil {
		if errors.Is(err, errAlreadyCredited) {
			r.logger.Debug("Campaign credit already recorded", map[string]any{
				"campaign_id": credit.CampaignID,
				"donation_id": credit.DonationID,
				"direction":   string(credit.Direction),
			})
			return false, nil
		}
		if errors.Is(err, errs.ErrConcurrencyConflict) || r.errorClassifier.IsLockError(err) {
			return false, errs.ErrConcurrencyConflict
		}
		r.logger.Error("Failed to apply campaign progress", map[string]any{
			"campaign_id": credit.CampaignID,
			"donation_id": credit.DonationID,
			"error":       err.Error(),
		})
		return false, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	campaign.Version = readVersion + 1
	return true, nil
}
