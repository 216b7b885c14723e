package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// DonationRepository implements the donation persistence port using GORM
type DonationRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewDonationRepository creates a new DonationRepository instance
func NewDonationRepository(db *gorm.DB, logger coreport.Logger) *DonationRepository {
	return &DonationRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// entityToModel converts a donation entity to a database model
func (r *DonationRepository) entityToModel(donation *entity.Donation) model.Donation {
	riskMetadata := ""
	if len(donation.RiskMetadata) > 0 {
		if raw, err := json.Marshal(donation.RiskMetadata); err == nil {
			riskMetadata = string(raw)
		}
	}

	return model.Donation{
		ID:                    donation.ID,
		IdempotencyKey:        donation.IdempotencyKey,
		DonorID:               donation.DonorID,
		AssociationID:         donation.AssociationID,
		CampaignID:            donation.CampaignID,
		Amount:                donation.Amount,
		AmountInCents:         donation.AmountInCents,
		Currency:              donation.Currency,
		PaymentMethodType:     string(donation.PaymentMethodType),
		GatewayName:           string(donation.GatewayName),
		Status:                string(donation.Status),
		IsAnonymous:           donation.IsAnonymous,
		IsRecurring:           donation.IsRecurring,
		IsTicketPurchase:      donation.IsTicketPurchase,
		ExternalTransactionID: donation.ExternalTransactionID,
		FailureReason:         donation.FailureReason,
		RiskMetadata:          riskMetadata,
		CreatedAt:             donation.CreatedAt,
		ProcessedAt:           donation.ProcessedAt,
	}
}

// modelToEntity converts a database model to a donation entity
func (r *DonationRepository) modelToEntity(m *model.Donation) *entity.Donation {
	var riskMetadata map[string]string
	if m.RiskMetadata != "" {
		// A corrupt blob degrades to no metadata rather than failing the read
		_ = json.Unmarshal([]byte(m.RiskMetadata), &riskMetadata)
	}

	return &entity.Donation{
		ID:                    m.ID,
		IdempotencyKey:        m.IdempotencyKey,
		DonorID:               m.DonorID,
		AssociationID:         m.AssociationID,
		CampaignID:            m.CampaignID,
		Amount:                m.Amount,
		AmountInCents:         m.AmountInCents,
		Currency:              m.Currency,
		PaymentMethodType:     entity.PaymentMethodType(m.PaymentMethodType),
		GatewayName:           entity.GatewayName(m.GatewayName),
		Status:                entity.DonationStatus(m.Status),
		IsAnonymous:           m.IsAnonymous,
		IsRecurring:           m.IsRecurring,
		IsTicketPurchase:      m.IsTicketPurchase,
		ExternalTransactionID: m.ExternalTransactionID,
		FailureReason:         m.FailureReason,
		RiskMetadata:          riskMetadata,
		CreatedAt:             m.CreatedAt,
		ProcessedAt:           m.ProcessedAt,
	}
}

// Create saves a new donation in PENDING
func (r *DonationRepository) Create(ctx context.Context, donation *entity.Donation) error {
	r.logger.Debug("Creating donation", map[string]any{
		"donation_id":     donation.ID,
		"idempotency_key": donation.IdempotencyKey,
	})

	donationModel := r.entityToModel(donation)

	result := r.db.WithContext(ctx).Create(&donationModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			r.logger.Warn("Duplicate donation detected", map[string]any{
				"donation_id":     donation.ID,
				"idempotency_key": donation.IdempotencyKey,
			})
			return errs.ErrDuplicateDonation
		}

		r.logger.Error("Failed to create donation", map[string]any{
			"donation_id": donation.ID,
			"error":       result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Info("Donation created successfully", map[string]any{
		"donation_id": donation.ID,
		"donor_id":    donation.DonorID,
		"amount":      donation.Amount,
		"currency":    donation.Currency,
	})
	return nil
}

// Update persists a state transition and its associated fields
func (r *DonationRepository) Update(ctx context.Context, donation *entity.Donation) error {
	r.logger.Debug("Updating donation", map[string]any{
		"donation_id": donation.ID,
		"status":      donation.Status,
	})

	donationModel := r.entityToModel(donation)

	result := r.db.WithContext(ctx).Model(&model.Donation{}).
		Where("id = ?", donation.ID).
		Updates(map[string]interface{}{
			"status":                  donationModel.Status,
			"processed_at":            donationModel.ProcessedAt,
			"external_transaction_id": donationModel.ExternalTransactionID,
			"failure_reason":          donationModel.FailureReason,
			"risk_metadata":           donationModel.RiskMetadata,
		})

	if result.Error != nil {
		r.logger.Error("Failed to update donation", map[string]any{
			"donation_id": donation.ID,
			"error":       result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("Donation not found during update", map[string]any{
			"donation_id": donation.ID,
		})
		return errs.ErrDonationNotFound
	}

	r.logger.Debug("Donation updated successfully", map[string]any{
		"donation_id": donation.ID,
		"status":      donation.Status,
	})
	return nil
}

// GetByID retrieves a donation by its id
func (r *DonationRepository) GetByID(ctx context.Context, id string) (*entity.Donation, error) {
	var donationModel model.Donation
	result := r.db.WithContext(ctx).Where("id = ?", id).First(&donationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrDonationNotFound
		}
		r.logger.Error("Failed to get donation", map[string]any{
			"donation_id": id,
			"error":       result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&donationModel), nil
}

// GetByIdempotencyKey retrieves the donation created for a logical attempt
func (r *DonationRepository) GetByIdempotencyKey(ctx context.Context, key string) (*entity.Donation, error) {
	var donationModel model.Donation
	result := r.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&donationModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrDonationNotFound
		}
		r.logger.Error("Failed to get donation by idempotency key", map[string]any{
			"idempotency_key": key,
			"error":           result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&donationModel), nil
}
