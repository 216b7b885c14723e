package migration

import (
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	"github.com/tzedaka-labs/donation-processor/internal/infrastructure/adapter/model"
	"gorm.io/gorm"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db     *gorm.DB
	logger coreport.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger coreport.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		logger: logger,
	}
}

// MigrateAll performs all migrations
func (m *MigrationManager) MigrateAll() error {
	m.logger.Info("Starting database migrations", nil)

	if err := m.autoMigrateModels(); err != nil {
		m.logger.Error("Failed to auto-migrate models", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	if err := m.createIndexes(); err != nil {
		m.logger.Error("Failed to create indexes", map[string]any{
			"error": err.Error(),
		})
		return err
	}

	m.logger.Info("Database migrations completed", nil)
	return nil
}

// autoMigrateModels creates or updates the schema for all models
func (m *MigrationManager) autoMigrateModels() error {
	return m.db.AutoMigrate(
		&model.Campaign{},
		&model.CampaignCredit{},
		&model.Donation{},
		&model.Lottery{},
		&model.LotteryPrize{},
		&model.LotteryTicket{},
		&model.LotteryWinner{},
	)
}

// createIndexes adds indexes that AutoMigrate does not express
func (m *MigrationManager) createIndexes() error {
	statements := []string{
		// Draw sweep scans active lotteries whose draw date has passed
		`CREATE INDEX IF NOT EXISTS idx_lotteries_due_for_draw
			ON lotteries (draw_date) WHERE status = 'active'`,
		// Donor history listing
		`CREATE INDEX IF NOT EXISTS idx_donations_donor_created
			ON donations (donor_id, created_at DESC)`,
	}

	for _, stmt := range statements {
		if err := m.db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
