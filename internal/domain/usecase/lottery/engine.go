package lottery

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	eventport "github.com/tzedaka-labs/donation-processor/internal/domain/port/event"
	"github.com/tzedaka-labs/donation-processor/internal/domain/port/persistence"
)

// maxConflictRetries bounds the optimistic-concurrency retry loop on lottery
// updates
const maxConflictRetries = 10

// Engine owns lottery fulfillment: ticket allocation for completed donations,
// drawing eligibility, and the draw itself
type Engine struct {
	lotteryRepo  persistence.LotteryRepository
	campaignRepo persistence.CampaignRepository
	bus          eventport.Bus
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
	idGenerator  coreport.IDGenerator
	numbers      *ticketNumberGenerator
	rateLimiter  *purchaseRateLimiter
	rng          *rand.Rand
}

// NewEngine creates the lottery engine. The rand source is injected so draws
// are reproducible in tests.
func NewEngine(
	lotteryRepo persistence.LotteryRepository,
	campaignRepo persistence.CampaignRepository,
	bus eventport.Bus,
	logger coreport.Logger,
	timeProvider coreport.TimeProvider,
	idGenerator coreport.IDGenerator,
	rng *rand.Rand,
	rateLimit PurchaseRateLimit,
) *Engine {
	return &Engine{
		lotteryRepo:  lotteryRepo,
		campaignRepo: campaignRepo,
		bus:          bus,
		logger:       logger,
		timeProvider: timeProvider,
		idGenerator:  idGenerator,
		numbers:      newTicketNumberGenerator(rng),
		rateLimiter:  newPurchaseRateLimiter(rateLimit),
		rng:          rng,
	}
}

// CreateRequest carries the lottery configuration bound to a campaign
type CreateRequest struct {
	CampaignID  string
	DrawDate    time.Time
	TicketPrice string
	Currency    string
	MaxTickets  int
	Prizes      []entity.Prize
}

// Create builds a lottery for a campaign, enforcing the currency invariant at
// creation time so it never needs re-checking per ticket
func (e *Engine) Create(ctx context.Context, req CreateRequest) (*entity.Lottery, error) {
	campaign, err := e.campaignRepo.GetByID(ctx, req.CampaignID)
	if err != nil {
		return nil, err
	}

	priceInCents, err := entity.ValidateAndConvertAmount(req.TicketPrice)
	if err != nil {
		return nil, err
	}

	lottery, err := entity.NewLottery(
		e.idGenerator.NewID(),
		campaign,
		req.DrawDate,
		priceInCents,
		req.Currency,
		req.MaxTickets,
		req.Prizes,
	)
	if err != nil {
		if logged, ok := err.(interface{ LogFields() map[string]any }); ok {
			e.logger.Error("Rejected lottery configuration", logged.LogFields())
		}
		return nil, err
	}

	if err := e.lotteryRepo.Create(ctx, lottery); err != nil {
		return nil, fmt.Errorf("failed to persist lottery: %w", err)
	}

	e.logger.Info("Lottery created", map[string]any{
		"lottery_id":  lottery.ID,
		"campaign_id": lottery.CampaignID,
		"draw_date":   lottery.DrawDate,
		"max_tickets": lottery.MaxTickets,
	})
	return lottery, nil
}

// RegisterHandlers subscribes ticket fulfillment to completed-donation events
func (e *Engine) RegisterHandlers(bus eventport.Bus) {
	bus.Register(eventport.TypeDonationCompleted, e.handleDonationCompleted)
}

// handleDonationCompleted allocates a ticket when a completed donation was a
// ticket purchase. Tickets are only ever allocated after the money moved.
func (e *Engine) handleDonationCompleted(ctx context.Context, ev eventport.Event) error {
	completed, ok := ev.(eventport.DonationCompleted)
	if !ok {
		return fmt.Errorf("%w: unexpected payload for %s", errs.ErrInternalServer, ev.Type())
	}
	if !completed.IsTicketPurchase || completed.CampaignID == "" {
		return nil
	}

	lottery, err := e.lotteryRepo.GetByCampaignID(ctx, completed.CampaignID)
	if err != nil {
		e.logger.Error("Ticket purchase for campaign without lottery", map[string]any{
			"campaign_id": completed.CampaignID,
			"donation_id": completed.DonationID,
			"error":       err.Error(),
		})
		return err
	}

	_, err = e.PurchaseTicket(ctx, lottery.ID, completed.DonorID, completed.DonationID)
	return err
}

// PurchaseTicket allocates a unique ticket for an already-COMPLETED donation.
// Preconditions: lottery ACTIVE, not sold out, before draw date, donor under
// the purchase ceiling.
func (e *Engine) PurchaseTicket(
	ctx context.Context,
	lotteryID string,
	donorID string,
	donationID string,
) (*entity.Ticket, error) {
	now := e.timeProvider.Now()

	if !e.rateLimiter.Allow(donorID, now) {
		e.logger.Warn("Ticket purchase rate limited", map[string]any{
			"lottery_id": lotteryID,
			"donor_id":   donorID,
		})
		return nil, errs.ErrRateLimited
	}

	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		lottery, err := e.lotteryRepo.GetByID(ctx, lotteryID)
		if err != nil {
			return nil, err
		}

		if lottery.Status != entity.LotteryActive {
			return nil, errs.ErrLotteryNotActive
		}
		if lottery.SoldTickets >= lottery.MaxTickets {
			return nil, errs.ErrLotterySoldOut
		}
		if !now.Before(lottery.DrawDate) {
			return nil, errs.ErrLotteryClosed
		}

		number, err := e.numbers.Generate(lottery)
		if err != nil {
			return nil, err
		}

		ticket := entity.Ticket{
			Number:       number,
			DonorID:      donorID,
			DonationID:   donationID,
			PurchaseDate: now,
		}
		if err := lottery.AppendTicket(ticket); err != nil {
			return nil, err
		}

		err = e.lotteryRepo.UpdateWithVersion(ctx, lottery)
		if err == nil {
			e.logger.Info("Lottery ticket allocated", map[string]any{
				"lottery_id":    lotteryID,
				"ticket_number": number,
				"donor_id":      donorID,
				"donation_id":   donationID,
				"sold_tickets":  lottery.SoldTickets,
			})
			return &ticket, nil
		}
		if !errs.IsConcurrencyConflictError(err) {
			return nil, fmt.Errorf("failed to persist ticket: %w", err)
		}

		e.logger.Debug("Lottery update lost the version race, retrying", map[string]any{
			"lottery_id": lotteryID,
			"attempt":    attempt,
		})
	}

	return nil, fmt.Errorf("%w: lottery %s update retries exhausted", errs.ErrConcurrencyConflict, lotteryID)
}

// IsDrawingEligible reports whether the draw may run now: lottery ACTIVE, draw
// date reached, participation threshold met, and no winners yet
func (e *Engine) IsDrawingEligible(ctx context.Context, lotteryID string) (bool, error) {
	lottery, err := e.lotteryRepo.GetByID(ctx, lotteryID)
	if err != nil {
		return false, err
	}
	return lottery.IsDrawingEligible(e.timeProvider.Now()), nil
}

// Draw runs the drawing algorithm at most once. Calling Draw on a COMPLETED
// lottery is a no-op that returns the recorded winners.
func (e *Engine) Draw(ctx context.Context, lotteryID string) ([]entity.Winner, error) {
	for attempt := 1; attempt <= maxConflictRetries; attempt++ {
		lottery, err := e.lotteryRepo.GetByID(ctx, lotteryID)
		if err != nil {
			return nil, err
		}

		if lottery.Status == entity.LotteryCompleted {
			return lottery.Winners, nil
		}
		if !lottery.IsDrawingEligible(e.timeProvider.Now()) {
			return nil, errs.ErrNotEligibleForDraw
		}

		if err := lottery.BeginDrawing(); err != nil {
			return nil, err
		}

		winners := e.selectWinners(lottery)
		if err := lottery.CompleteDrawing(winners); err != nil {
			return nil, err
		}

		err = e.lotteryRepo.UpdateWithVersion(ctx, lottery)
		if err == nil {
			e.publishDrawn(ctx, lottery)
			e.logger.Info("Lottery drawn", map[string]any{
				"lottery_id":   lottery.ID,
				"campaign_id":  lottery.CampaignID,
				"winners":      len(winners),
				"sold_tickets": lottery.SoldTickets,
			})
			return winners, nil
		}
		if !errs.IsConcurrencyConflictError(err) {
			return nil, fmt.Errorf("failed to persist draw: %w", err)
		}
		// Someone else mutated the lottery mid-draw; re-read and start over.
		// If they completed the draw, the next iteration returns their winners.
	}

	return nil, fmt.Errorf("%w: lottery %s draw retries exhausted", errs.ErrConcurrencyConflict, lotteryID)
}

// selectWinners picks one ticket uniformly at random per prize rank, ascending,
// never selecting the same ticket twice in one draw
func (e *Engine) selectWinners(lottery *entity.Lottery) []entity.Winner {
	prizes := make([]entity.Prize, len(lottery.Prizes))
	copy(prizes, lottery.Prizes)
	for i := 1; i < len(prizes); i++ {
		for j := i; j > 0 && prizes[j].Rank < prizes[j-1].Rank; j-- {
			prizes[j], prizes[j-1] = prizes[j-1], prizes[j]
		}
	}

	pool := make([]entity.Ticket, len(lottery.Tickets))
	copy(pool, lottery.Tickets)
	drawnAt := e.timeProvider.Now()

	winners := make([]entity.Winner, 0, len(prizes))
	for _, prize := range prizes {
		if len(pool) == 0 {
			break
		}
		idx := e.rng.Intn(len(pool))
		ticket := pool[idx]
		pool = append(pool[:idx], pool[idx+1:]...)

		winners = append(winners, entity.Winner{
			DonorID:      ticket.DonorID,
			TicketNumber: ticket.Number,
			PrizeRank:    prize.Rank,
			PrizeTitle:   prize.Title,
			DrawnAt:      drawnAt,
		})
	}
	return winners
}

// DrawDueLotteries draws every lottery whose draw date has passed and that
// meets the eligibility rules. Called by the scheduler.
func (e *Engine) DrawDueLotteries(ctx context.Context) {
	now := e.timeProvider.Now()
	due, err := e.lotteryRepo.ListDueForDraw(ctx, now)
	if err != nil {
		e.logger.Error("Failed to list lotteries due for draw", map[string]any{
			"error": err.Error(),
		})
		return
	}

	for _, lottery := range due {
		if !lottery.IsDrawingEligible(now) {
			continue
		}
		if _, err := e.Draw(ctx, lottery.ID); err != nil {
			e.logger.Error("Scheduled draw failed", map[string]any{
				"lottery_id": lottery.ID,
				"error":      err.Error(),
			})
		}
	}
}

// GetByID returns a lottery
func (e *Engine) GetByID(ctx context.Context, lotteryID string) (*entity.Lottery, error) {
	return e.lotteryRepo.GetByID(ctx, lotteryID)
}

func (e *Engine) publishDrawn(ctx context.Context, lottery *entity.Lottery) {
	err := e.bus.Publish(ctx, eventport.LotteryDrawn{
		LotteryID:  lottery.ID,
		CampaignID: lottery.CampaignID,
		Winners:    len(lottery.Winners),
		OccurredAt: e.timeProvider.Now(),
	})
	if err != nil {
		e.logger.Error("Failed to publish lottery drawn event", map[string]any{
			"lottery_id": lottery.ID,
			"error":      err.Error(),
		})
	}
}
