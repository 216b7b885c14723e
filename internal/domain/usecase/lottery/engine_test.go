package lottery

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	eventport "github.com/tzedaka-labs/donation-processor/internal/domain/port/event"
	mcore "github.com/tzedaka-labs/donation-processor/mocks/port/core"
	mevent "github.com/tzedaka-labs/donation-processor/mocks/port/event"
	mpers "github.com/tzedaka-labs/donation-processor/mocks/port/persistence"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestLogger(t *testing.T) *mcore.MockLogger {
	logger := mcore.NewMockLogger(t)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

type engineFixture struct {
	lotteryRepo  *mpers.MockLotteryRepository
	campaignRepo *mpers.MockCampaignRepository
	bus          *mevent.MockBus
	idGen        *mcore.MockIDGenerator
	engine       *Engine
}

func newEngineFixture(t *testing.T, rateLimit PurchaseRateLimit) *engineFixture {
	lotteryRepo := mpers.NewMockLotteryRepository(t)
	campaignRepo := mpers.NewMockCampaignRepository(t)
	bus := mevent.NewMockBus(t)
	idGen := mcore.NewMockIDGenerator(t)
	timeProvider := mcore.NewMockTimeProvider(t)
	timeProvider.On("Now").Return(testNow).Maybe()

	engine := NewEngine(
		lotteryRepo,
		campaignRepo,
		bus,
		newTestLogger(t),
		timeProvider,
		idGen,
		rand.New(rand.NewSource(1)),
		rateLimit,
	)

	return &engineFixture{
		lotteryRepo:  lotteryRepo,
		campaignRepo: campaignRepo,
		bus:          bus,
		idGen:        idGen,
		engine:       engine,
	}
}

func activeLottery(maxTickets, sold int) *entity.Lottery {
	l := &entity.Lottery{
		ID:                 "lot-1",
		CampaignID:         "camp-1",
		DrawDate:           testNow.Add(24 * time.Hour),
		TicketPriceInCents: 5000,
		Currency:           "ILS",
		MaxTickets:         maxTickets,
		Prizes: []entity.Prize{
			{Rank: 2, Title: "Silver Kiddush Cup"},
			{Rank: 1, Title: "Trip to Jerusalem"},
		},
		Status:  entity.LotteryActive,
		Version: 1,
	}
	for i := 0; i < sold; i++ {
		l.Tickets = append(l.Tickets, entity.Ticket{
			Number:     fmt.Sprintf("TICKET%02d", i),
			DonorID:    fmt.Sprintf("donor-%d", i),
			DonationID: fmt.Sprintf("don-%d", i),
		})
	}
	l.SoldTickets = sold
	return l
}

func TestEngineCreate(t *testing.T) {
	ctx := context.Background()

	ilsCampaign := &entity.Campaign{
		ID:       "camp-1",
		Currency: "ILS",
		Status:   entity.CampaignActive,
	}

	validRequest := CreateRequest{
		CampaignID:  "camp-1",
		DrawDate:    testNow.Add(30 * 24 * time.Hour),
		TicketPrice: "50.00",
		Currency:    "ILS",
		MaxTickets:  100,
		Prizes:      []entity.Prize{{Rank: 1, Title: "Trip to Jerusalem"}},
	}

	t.Run("Creates an active lottery bound to the campaign", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		f.campaignRepo.On("GetByID", ctx, "camp-1").Return(ilsCampaign, nil).Once()
		f.idGen.On("NewID").Return("lot-1").Once()
		f.lotteryRepo.On("Create", ctx, mock.AnythingOfType("*entity.Lottery")).Return(nil).Once()

		lottery, err := f.engine.Create(ctx, validRequest)

		require.NoError(t, err)
		assert.Equal(t, "lot-1", lottery.ID)
		assert.Equal(t, "camp-1", lottery.CampaignID)
		assert.Equal(t, int64(5000), lottery.TicketPriceInCents)
		assert.Equal(t, entity.LotteryActive, lottery.Status)
	})

	t.Run("Currency mismatch with the campaign is rejected", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		f.campaignRepo.On("GetByID", ctx, "camp-1").Return(ilsCampaign, nil).Once()
		f.idGen.On("NewID").Return("lot-1").Once()

		req := validRequest
		req.Currency = "USD"

		_, err := f.engine.Create(ctx, req)
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
	})

	t.Run("Invalid ticket price is rejected", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		f.campaignRepo.On("GetByID", ctx, "camp-1").Return(ilsCampaign, nil).Once()

		req := validRequest
		req.TicketPrice = "abc"

		_, err := f.engine.Create(ctx, req)
		assert.ErrorIs(t, err, errs.ErrInvalidAmount)
	})

	t.Run("Unknown campaign", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		f.campaignRepo.On("GetByID", ctx, "missing").Return(nil, errs.ErrCampaignNotFound).Once()

		req := validRequest
		req.CampaignID = "missing"

		_, err := f.engine.Create(ctx, req)
		assert.ErrorIs(t, err, errs.ErrCampaignNotFound)
	})
}

func TestEnginePurchaseTicket(t *testing.T) {
	ctx := context.Background()

	t.Run("Allocates a unique ticket", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 3)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, lottery).Return(nil).Once()

		ticket, err := f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-9")

		require.NoError(t, err)
		assert.Len(t, ticket.Number, entity.TicketNumberLength)
		for _, c := range ticket.Number {
			assert.True(t, strings.ContainsRune(entity.TicketNumberAlphabet, c))
		}
		assert.Equal(t, "donor-9", ticket.DonorID)
		assert.Equal(t, "don-9", ticket.DonationID)
		assert.Equal(t, testNow, ticket.PurchaseDate)
		assert.Equal(t, 4, lottery.SoldTickets)
	})

	t.Run("Version race is retried with a fresh read", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		stale := activeLottery(100, 3)
		fresh := activeLottery(100, 4)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(stale, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, stale).
			Return(errs.ErrConcurrencyConflict).Once()
		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(fresh, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, fresh).Return(nil).Once()

		ticket, err := f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-9")

		require.NoError(t, err)
		assert.NotNil(t, ticket)
		assert.Equal(t, 5, fresh.SoldTickets)
	})

	t.Run("Sold out lottery rejects the purchase", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(3, 3)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()

		_, err := f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-9")
		assert.ErrorIs(t, err, errs.ErrLotterySoldOut)
	})

	t.Run("Purchase after the draw date is rejected", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 3)
		lottery.DrawDate = testNow.Add(-time.Hour)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()

		_, err := f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-9")
		assert.ErrorIs(t, err, errs.ErrLotteryClosed)
	})

	t.Run("Inactive lottery rejects the purchase", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 3)
		lottery.Status = entity.LotteryCompleted

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()

		_, err := f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-9")
		assert.ErrorIs(t, err, errs.ErrLotteryNotActive)
	})

	t.Run("Purchase ceiling is enforced per donor", func(t *testing.T) {
		f := newEngineFixture(t, PurchaseRateLimit{MaxTickets: 2, Window: coreport.Minute})
		lottery := activeLottery(100, 0)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Times(2)
		f.lotteryRepo.On("UpdateWithVersion", ctx, lottery).Return(nil).Times(2)

		_, err := f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-1")
		require.NoError(t, err)
		_, err = f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-2")
		require.NoError(t, err)

		_, err = f.engine.PurchaseTicket(ctx, "lot-1", "donor-9", "don-3")
		assert.ErrorIs(t, err, errs.ErrRateLimited)

		// A different donor is unaffected
		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, lottery).Return(nil).Once()
		_, err = f.engine.PurchaseTicket(ctx, "lot-1", "donor-8", "don-4")
		require.NoError(t, err)
	})
}

func TestEngineHandleDonationCompleted(t *testing.T) {
	ctx := context.Background()

	t.Run("Ticket purchase allocates a ticket for the campaign's lottery", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 3)

		f.lotteryRepo.On("GetByCampaignID", ctx, "camp-1").Return(lottery, nil).Once()
		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, lottery).Return(nil).Once()

		err := f.engine.handleDonationCompleted(ctx, eventport.DonationCompleted{
			DonationID:       "don-9",
			DonorID:          "donor-9",
			CampaignID:       "camp-1",
			AmountInCents:    5000,
			Currency:         "ILS",
			IsTicketPurchase: true,
			OccurredAt:       testNow,
		})

		require.NoError(t, err)
		assert.Equal(t, 4, lottery.SoldTickets)
	})

	t.Run("Plain donation is ignored", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())

		err := f.engine.handleDonationCompleted(ctx, eventport.DonationCompleted{
			DonationID: "don-9",
			CampaignID: "camp-1",
		})
		require.NoError(t, err)
	})

	t.Run("Ticket purchase against a campaign without a lottery fails loudly", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		f.lotteryRepo.On("GetByCampaignID", ctx, "camp-1").
			Return(nil, errs.ErrLotteryNotFound).Once()

		err := f.engine.handleDonationCompleted(ctx, eventport.DonationCompleted{
			DonationID:       "don-9",
			CampaignID:       "camp-1",
			IsTicketPurchase: true,
		})
		assert.ErrorIs(t, err, errs.ErrLotteryNotFound)
	})
}

func TestEngineDraw(t *testing.T) {
	ctx := context.Background()

	t.Run("Draws one winner per prize rank", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 25)
		lottery.DrawDate = testNow.Add(-time.Hour)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, lottery).Return(nil).Once()
		f.bus.On("Publish", ctx, mock.Anything).Return(nil).Once()

		winners, err := f.engine.Draw(ctx, "lot-1")

		require.NoError(t, err)
		require.Len(t, winners, 2)
		assert.Equal(t, 1, winners[0].PrizeRank)
		assert.Equal(t, "Trip to Jerusalem", winners[0].PrizeTitle)
		assert.Equal(t, 2, winners[1].PrizeRank)
		assert.NotEqual(t, winners[0].TicketNumber, winners[1].TicketNumber)
		assert.Equal(t, entity.LotteryCompleted, lottery.Status)
	})

	t.Run("Drawing a completed lottery returns the recorded winners", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 25)
		lottery.Status = entity.LotteryCompleted
		lottery.Winners = []entity.Winner{
			{DonorID: "donor-3", TicketNumber: "TICKET03", PrizeRank: 1},
		}

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()

		winners, err := f.engine.Draw(ctx, "lot-1")

		require.NoError(t, err)
		assert.Equal(t, lottery.Winners, winners)
	})

	t.Run("Draw below the participation threshold is rejected", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 24)
		lottery.DrawDate = testNow.Add(-time.Hour)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()

		_, err := f.engine.Draw(ctx, "lot-1")
		assert.ErrorIs(t, err, errs.ErrNotEligibleForDraw)
	})

	t.Run("Draw before the draw date is rejected", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(100, 25)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()

		_, err := f.engine.Draw(ctx, "lot-1")
		assert.ErrorIs(t, err, errs.ErrNotEligibleForDraw)
	})

	t.Run("Fewer tickets than prizes still draws every ticket", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		lottery := activeLottery(4, 1)
		lottery.DrawDate = testNow.Add(-time.Hour)

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(lottery, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, lottery).Return(nil).Once()
		f.bus.On("Publish", ctx, mock.Anything).Return(nil).Once()

		winners, err := f.engine.Draw(ctx, "lot-1")

		require.NoError(t, err)
		require.Len(t, winners, 1)
		assert.Equal(t, 1, winners[0].PrizeRank)
	})

	t.Run("Lost draw race re-reads and returns the other draw's winners", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		stale := activeLottery(100, 25)
		stale.DrawDate = testNow.Add(-time.Hour)

		settled := activeLottery(100, 25)
		settled.Status = entity.LotteryCompleted
		settled.Winners = []entity.Winner{
			{DonorID: "donor-7", TicketNumber: "TICKET07", PrizeRank: 1},
		}

		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(stale, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, stale).
			Return(errs.ErrConcurrencyConflict).Once()
		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(settled, nil).Once()

		winners, err := f.engine.Draw(ctx, "lot-1")

		require.NoError(t, err)
		assert.Equal(t, settled.Winners, winners)
	})
}

func TestEngineIsDrawingEligible(t *testing.T) {
	ctx := context.Background()

	f := newEngineFixture(t, DefaultPurchaseRateLimit())
	eligible := activeLottery(100, 25)
	eligible.DrawDate = testNow.Add(-time.Hour)

	f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(eligible, nil).Once()

	ok, err := f.engine.IsDrawingEligible(ctx, "lot-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestEngineDrawDueLotteries(t *testing.T) {
	ctx := context.Background()

	t.Run("Draws every eligible due lottery", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		due := activeLottery(100, 25)
		due.DrawDate = testNow.Add(-time.Hour)

		f.lotteryRepo.On("ListDueForDraw", ctx, testNow).
			Return([]*entity.Lottery{due}, nil).Once()
		f.lotteryRepo.On("GetByID", ctx, "lot-1").Return(due, nil).Once()
		f.lotteryRepo.On("UpdateWithVersion", ctx, due).Return(nil).Once()
		f.bus.On("Publish", ctx, mock.Anything).Return(nil).Once()

		f.engine.DrawDueLotteries(ctx)

		assert.Equal(t, entity.LotteryCompleted, due.Status)
	})

	t.Run("Skips lotteries below the threshold", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		below := activeLottery(100, 10)
		below.DrawDate = testNow.Add(-time.Hour)

		f.lotteryRepo.On("ListDueForDraw", ctx, testNow).
			Return([]*entity.Lottery{below}, nil).Once()

		f.engine.DrawDueLotteries(ctx)
	})

	t.Run("Listing failure is logged, not fatal", func(t *testing.T) {
		f := newEngineFixture(t, DefaultPurchaseRateLimit())
		f.lotteryRepo.On("ListDueForDraw", ctx, testNow).
			Return(nil, errs.ErrDatabaseConnection).Once()

		f.engine.DrawDueLotteries(ctx)
	})
}
