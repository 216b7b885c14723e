package scheduler

import (
	"context"

	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	lotteryUseCase "github.com/tzedaka-labs/donation-processor/internal/domain/usecase/lottery"

	"github.com/robfig/cron/v3"
)

// DrawScheduler periodically sweeps for lotteries whose draw date has passed
// and runs their draws. Draws are idempotent, so an overlapping or repeated
// sweep is harmless.
type DrawScheduler struct {
	cron     *cron.Cron
	engine   *lotteryUseCase.Engine
	logger   coreport.Logger
	schedule string
}

// NewDrawScheduler creates a scheduler over the lottery engine. The schedule
// uses cron syntax, e.g. "@every 1m".
func NewDrawScheduler(engine *lotteryUseCase.Engine, schedule string, logger coreport.Logger) *DrawScheduler {
	return &DrawScheduler{
		cron:     cron.New(),
		engine:   engine,
		logger:   logger,
		schedule: schedule,
	}
}

// Start registers the sweep job and starts the cron loop
func (s *DrawScheduler) Start() error {
	_, err := s.cron.AddFunc(s.schedule, func() {
		s.engine.DrawDueLotteries(context.Background())
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.logger.Info("Draw scheduler started", map[string]any{
		"schedule": s.schedule,
	})
	return nil
}

// Stop halts the cron loop and waits for a running sweep to finish
func (s *DrawScheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Draw scheduler stopped", nil)
}
