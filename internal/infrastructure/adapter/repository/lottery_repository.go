package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// LotteryRepository implements the lottery persistence port using GORM
type LotteryRepository struct {
	db              *gorm.DB
	logger          coreport.Logger
	errorClassifier *ErrorClassifier
}

// NewLotteryRepository creates a new LotteryRepository instance
func NewLotteryRepository(db *gorm.DB, logger coreport.Logger) *LotteryRepository {
	return &LotteryRepository{
		db:              db,
		logger:          logger,
		errorClassifier: NewErrorClassifier(),
	}
}

// modelToEntity converts a database model with preloaded associations to a
// lottery entity
func (r *LotteryRepository) modelToEntity(m *model.Lottery) *entity.Lottery {
	lottery := &entity.Lottery{
		ID:                 m.ID,
		CampaignID:         m.CampaignID,
		DrawDate:           m.DrawDate,
		TicketPriceInCents: m.TicketPriceInCents,
		Currency:           m.Currency,
		MaxTickets:         m.MaxTickets,
		SoldTickets:        m.SoldTickets,
		Status:             entity.LotteryStatus(m.Status),
		Version:            m.Version,
	}

	for _, p := range m.Prizes {
		lottery.Prizes = append(lottery.Prizes, entity.Prize{
			Rank:        p.Rank,
			Title:       p.Title,
			Description: p.Description,
		})
	}
	for _, t := range m.Tickets {
		lottery.Tickets = append(lottery.Tickets, entity.Ticket{
			Number:       t.Number,
			DonorID:      t.DonorID,
			DonationID:   t.DonationID,
			PurchaseDate: t.PurchaseDate,
		})
	}
	for _, w := range m.Winners {
		lottery.Winners = append(lottery.Winners, entity.Winner{
			DonorID:      w.DonorID,
			TicketNumber: w.TicketNumber,
			PrizeRank:    w.PrizeRank,
			PrizeTitle:   w.PrizeTitle,
			DrawnAt:      w.DrawnAt,
		})
	}

	return lottery
}

// Create saves a new lottery with its prize list
func (r *LotteryRepository) Create(ctx context.Context, lottery *entity.Lottery) error {
	lotteryModel := model.Lottery{
		ID:                 lottery.ID,
		CampaignID:         lottery.CampaignID,
		DrawDate:           lottery.DrawDate,
		TicketPriceInCents: lottery.TicketPriceInCents,
		Currency:           lottery.Currency,
		MaxTickets:         lottery.MaxTickets,
		SoldTickets:        lottery.SoldTickets,
		Status:             string(lottery.Status),
		Version:            lottery.Version,
	}
	for _, p := range lottery.Prizes {
		lotteryModel.Prizes = append(lotteryModel.Prizes, model.LotteryPrize{
			LotteryID:   lottery.ID,
			Rank:        p.Rank,
			Title:       p.Title,
			Description: p.Description,
		})
	}

	result := r.db.WithContext(ctx).Create(&lotteryModel)
	if result.Error != nil {
		if r.errorClassifier.IsDuplicateKeyError(result.Error) {
			// One lottery per campaign
			return errs.NewInvariantError("lottery_per_campaign",
				fmt.Sprintf("campaign %s already has a lottery", lottery.CampaignID))
		}
		r.logger.Error("Failed to create lottery", map[string]any{
			"lottery_id": lottery.ID,
			"error":      result.Error.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	r.logger.Info("Lottery created successfully", map[string]any{
		"lottery_id":  lottery.ID,
		"campaign_id": lottery.CampaignID,
		"max_tickets": lottery.MaxTickets,
	})
	return nil
}

// GetByID retrieves a lottery with its tickets, prizes and winners
func (r *LotteryRepository) GetByID(ctx context.Context, id string) (*entity.Lottery, error) {
	var lotteryModel model.Lottery
	result := r.preloaded(ctx).Where("id = ?", id).First(&lotteryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrLotteryNotFound
		}
		r.logger.Error("Failed to get lottery", map[string]any{
			"lottery_id": id,
			"error":      result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&lotteryModel), nil
}

// GetByCampaignID retrieves the lottery bound to a campaign
func (r *LotteryRepository) GetByCampaignID(ctx context.Context, campaignID string) (*entity.Lottery, error) {
	var lotteryModel model.Lottery
	result := r.preloaded(ctx).Where("campaign_id = ?", campaignID).First(&lotteryModel)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.ErrLotteryNotFound
		}
		r.logger.Error("Failed to get lottery by campaign", map[string]any{
			"campaign_id": campaignID,
			"error":       result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	return r.modelToEntity(&lotteryModel), nil
}

// UpdateWithVersion persists lottery mutations under optimistic concurrency.
// New tickets and winners are the tail of the entity slices beyond what is
// already stored; the versioned header update, ticket inserts and winner
// inserts commit or roll back together.
func (r *LotteryRepository) UpdateWithVersion(ctx context.Context, lottery *entity.Lottery) error {
	readVersion := lottery.Version

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.Lottery{}).
			Where("id = ? AND version = ?", lottery.ID, readVersion).
			Updates(map[string]interface{}{
				"sold_tickets": lottery.SoldTickets,
				"status":       string(lottery.Status),
				"version":      readVersion + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&model.Lottery{}).Where("id = ?", lottery.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return errs.ErrLotteryNotFound
			}
			return errs.ErrConcurrencyConflict
		}

		var storedTickets int64
		if err := tx.Model(&model.LotteryTicket{}).Where("lottery_id = ?", lottery.ID).Count(&storedTickets).Error; err != nil {
			return err
		}
		for _, t := range lottery.Tickets[storedTickets:] {
			ticketModel := model.LotteryTicket{
				LotteryID:    lottery.ID,
				Number:       t.Number,
				DonorID:      t.DonorID,
				DonationID:   t.DonationID,
				PurchaseDate: t.PurchaseDate,
			}
			if err := tx.Create(&ticketModel).Error; err != nil {
				if r.errorClassifier.IsDuplicateKeyError(err) {
					return errs.NewInvariantError("ticket_number_unique",
						fmt.Sprintf("ticket number %s already exists in lottery %s", t.Number, lottery.ID))
				}
				return err
			}
		}

		if len(lottery.Winners) > 0 {
			var storedWinners int64
			if err := tx.Model(&model.LotteryWinner{}).Where("lottery_id = ?", lottery.ID).Count(&storedWinners).Error; err != nil {
				return err
			}
			if storedWinners == 0 {
				for _, w := range lottery.Winners {
					winnerModel := model.LotteryWinner{
						LotteryID:    lottery.ID,
						PrizeRank:    w.PrizeRank,
						PrizeTitle:   w.PrizeTitle,
						DonorID:      w.DonorID,
						TicketNumber: w.TicketNumber,
						DrawnAt:      w.DrawnAt,
					}
					if err := tx.Create(&winnerModel).Error; err != nil {
						return err
					}
				}
			}
		}

		return nil
	})

	if err != nil {
		if errors.Is(err, errs.ErrConcurrencyConflict) ||
			errors.Is(err, errs.ErrLotteryNotFound) ||
			errs.IsInvariantViolationError(err) {
			return err
		}
		if r.errorClassifier.IsLockError(err) {
			return errs.ErrConcurrencyConflict
		}
		r.logger.Error("Failed to update lottery", map[string]any{
			"lottery_id": lottery.ID,
			"error":      err.Error(),
		})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, err.Error())
	}

	lottery.Version = readVersion + 1
	return nil
}

// ListDueForDraw returns active lotteries whose draw date has passed
func (r *LotteryRepository) ListDueForDraw(ctx context.Context, now time.Time) ([]*entity.Lottery, error) {
	var lotteryModels []model.Lottery
	result := r.db.WithContext(ctx).
		Where("status = ? AND draw_date <= ?", string(entity.LotteryActive), now).
		Find(&lotteryModels)
	if result.Error != nil {
		r.logger.Error("Failed to list lotteries due for draw", map[string]any{
			"error": result.Error.Error(),
		})
		return nil, fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, result.Error.Error())
	}

	lotteries := make([]*entity.Lottery, 0, len(lotteryModels))
	for i := range lotteryModels {
		lotteries = append(lotteries, r.modelToEntity(&lotteryModels[i]))
	}
	return lotteries, nil
}

// preloaded returns a query with all lottery associations loaded in a stable order
func (r *LotteryRepository) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Prizes", func(db *gorm.DB) *gorm.DB { return db.Order("rank ASC") }).
		Preload("Tickets", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Winners", func(db *gorm.DB) *gorm.DB { return db.Order("prize_rank ASC") })
}
