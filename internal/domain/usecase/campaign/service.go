package campaign

import (
	"context"
	"fmt"
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"github.com/tzedaka-labs/donation-processor/internal/domain/port/persistence"
)

// Service exposes campaign lifecycle operations. Progress totals are owned by
// the Aggregator; this service only creates and reads campaigns.
type Service struct {
	campaignRepo persistence.CampaignRepository
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	idGenerator  coreport.IDGenerator
}

// NewService creates a new campaign service
func NewService(
	campaignRepo persistence.CampaignRepository,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	idGenerator coreport.IDGenerator,
) *Service {
	return &Service{
		campaignRepo: campaignRepo,
		logger:       logger,
		timeProvider: timeProvider,
		idGenerator:  idGenerator,
	}
}

// CreateRequest carries the configuration for a new campaign
type CreateRequest struct {
	AssociationID string
	Title         string
	GoalAmount    string
	Currency      string
	IsLottery     bool
	StartDate     time.Time
	EndDate       time.Time
}

// Create opens a campaign with a zero running total
func (s *Service) Create(ctx context.Context, req CreateRequest) (*entity.Campaign, error) {
	goalInCents, err := entity.ValidateAndConvertAmount(req.GoalAmount)
	if err != nil {
		return nil, fmt.Errorf("invalid goal amount: %w", err)
	}
	if req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", errs.ErrInvalidRequest)
	}
	if !req.EndDate.After(req.StartDate) {
		return nil, fmt.Errorf("%w: end date must be after start date", errs.ErrInvalidRequest)
	}

	campaign := &entity.Campaign{
		ID:                s.idGenerator.NewID(),
		AssociationID:     req.AssociationID,
		Title:             req.Title,
		GoalAmountInCents: goalInCents,
		Currency:          req.Currency,
		IsLottery:         req.IsLottery,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		Status:            entity.CampaignActive,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		return nil, err
	}

	s.logger.Info("Campaign created", map[string]any{
		"campaign_id":    campaign.ID,
		"association_id": campaign.AssociationID,
		"goal":           req.GoalAmount,
		"currency":       campaign.Currency,
		"is_lottery":     campaign.IsLottery,
	})
	return campaign, nil
}

// GetByID returns a campaign with its running totals
func (s *Service) GetByID(ctx context.Context, campaignID string) (*entity.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, campaignID)
}
