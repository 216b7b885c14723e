package entity

import (
	"fmt"
	"testing"
	"time"

	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLottery(t *testing.T, maxTickets int) *Lottery {
	campaign := &Campaign{
		ID:       "camp-1",
		Currency: "ILS",
		Status:   CampaignActive,
	}
	l, err := NewLottery(
		"lot-1",
		campaign,
		time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC),
		5000,
		"ILS",
		maxTickets,
		[]Prize{
			{Rank: 1, Title: "Trip to Jerusalem"},
			{Rank: 2, Title: "Silver Kiddush Cup"},
		},
	)
	require.NoError(t, err)
	return l
}

func TestNewLottery(t *testing.T) {
	t.Run("Creates active lottery", func(t *testing.T) {
		l := newTestLottery(t, 100)

		assert.Equal(t, LotteryActive, l.Status)
		assert.Equal(t, "camp-1", l.CampaignID)
		assert.Equal(t, 0, l.SoldTickets)
		assert.Len(t, l.Prizes, 2)
	})

	t.Run("Rejects currency mismatch with campaign", func(t *testing.T) {
		campaign := &Campaign{ID: "camp-1", Currency: "USD"}

		_, err := NewLottery("lot-1", campaign, time.Now(), 5000, "ILS", 100,
			[]Prize{{Rank: 1, Title: "Prize"}})
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
	})

	t.Run("Rejects empty prize list", func(t *testing.T) {
		campaign := &Campaign{ID: "camp-1", Currency: "ILS"}

		_, err := NewLottery("lot-1", campaign, time.Now(), 5000, "ILS", 100, nil)
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
	})

	t.Run("Rejects duplicate prize ranks", func(t *testing.T) {
		campaign := &Campaign{ID: "camp-1", Currency: "ILS"}

		_, err := NewLottery("lot-1", campaign, time.Now(), 5000, "ILS", 100,
			[]Prize{{Rank: 1, Title: "A"}, {Rank: 1, Title: "B"}})
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
	})

	t.Run("Rejects non-positive maxTickets", func(t *testing.T) {
		campaign := &Campaign{ID: "camp-1", Currency: "ILS"}

		_, err := NewLottery("lot-1", campaign, time.Now(), 5000, "ILS", 0,
			[]Prize{{Rank: 1, Title: "A"}})
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
	})
}

func TestLotteryAppendTicket(t *testing.T) {
	purchaseDate := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("Appends and counts tickets", func(t *testing.T) {
		l := newTestLottery(t, 100)

		require.NoError(t, l.AppendTicket(Ticket{
			Number: "AB12CD34", DonorID: "donor-1", DonationID: "don-1", PurchaseDate: purchaseDate,
		}))
		require.NoError(t, l.AppendTicket(Ticket{
			Number: "EF56GH78", DonorID: "donor-2", DonationID: "don-2", PurchaseDate: purchaseDate,
		}))

		assert.Equal(t, 2, l.SoldTickets)
		assert.True(t, l.HasTicketNumber("AB12CD34"))
		assert.False(t, l.HasTicketNumber("ZZ99ZZ99"))
	})

	t.Run("Rejects duplicate ticket number", func(t *testing.T) {
		l := newTestLottery(t, 100)

		require.NoError(t, l.AppendTicket(Ticket{Number: "AB12CD34", DonorID: "donor-1"}))
		err := l.AppendTicket(Ticket{Number: "AB12CD34", DonorID: "donor-2"})
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
		assert.Equal(t, 1, l.SoldTickets)
	})

	t.Run("Rejects purchase when sold out", func(t *testing.T) {
		l := newTestLottery(t, 2)

		require.NoError(t, l.AppendTicket(Ticket{Number: "AAAAAAA1"}))
		require.NoError(t, l.AppendTicket(Ticket{Number: "AAAAAAA2"}))
		err := l.AppendTicket(Ticket{Number: "AAAAAAA3"})
		assert.ErrorIs(t, err, errs.ErrLotterySoldOut)
	})

	t.Run("Rejects purchase on inactive lottery", func(t *testing.T) {
		l := newTestLottery(t, 100)
		require.NoError(t, l.BeginDrawing())

		err := l.AppendTicket(Ticket{Number: "AB12CD34"})
		assert.ErrorIs(t, err, errs.ErrLotteryNotActive)
	})
}

func TestLotteryMinimumTickets(t *testing.T) {
	testCases := []struct {
		maxTickets int
		expected   int
	}{
		{100, 25},
		{101, 26},
		{99, 25},
		{4, 1},
		{3, 1},
		{1, 1},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("max_%d", tc.maxTickets), func(t *testing.T) {
			l := newTestLottery(t, tc.maxTickets)
			assert.Equal(t, tc.expected, l.MinimumTickets())
		})
	}
}

func TestLotteryIsDrawingEligible(t *testing.T) {
	drawDate := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)
	afterDraw := drawDate.Add(time.Hour)
	beforeDraw := drawDate.Add(-time.Hour)

	sellTickets := func(l *Lottery, n int) {
		for i := 0; i < n; i++ {
			err := l.AppendTicket(Ticket{Number: fmt.Sprintf("TICKET%02d", i)})
			if err != nil {
				panic(err)
			}
		}
	}

	t.Run("Eligible at threshold after draw date", func(t *testing.T) {
		l := newTestLottery(t, 100)
		sellTickets(l, 25)
		assert.True(t, l.IsDrawingEligible(afterDraw))
	})

	t.Run("Eligible exactly at draw date", func(t *testing.T) {
		l := newTestLottery(t, 100)
		sellTickets(l, 25)
		assert.True(t, l.IsDrawingEligible(drawDate))
	})

	t.Run("Not eligible below threshold", func(t *testing.T) {
		l := newTestLottery(t, 100)
		sellTickets(l, 24)
		assert.False(t, l.IsDrawingEligible(afterDraw))
	})

	t.Run("Not eligible before draw date", func(t *testing.T) {
		l := newTestLottery(t, 100)
		sellTickets(l, 25)
		assert.False(t, l.IsDrawingEligible(beforeDraw))
	})

	t.Run("Not eligible once winners exist", func(t *testing.T) {
		l := newTestLottery(t, 100)
		sellTickets(l, 25)
		l.Winners = []Winner{{DonorID: "donor-1", TicketNumber: "TICKET01", PrizeRank: 1}}
		assert.False(t, l.IsDrawingEligible(afterDraw))
	})

	t.Run("Not eligible when not active", func(t *testing.T) {
		l := newTestLottery(t, 100)
		sellTickets(l, 25)
		require.NoError(t, l.BeginDrawing())
		assert.False(t, l.IsDrawingEligible(afterDraw))
	})
}

func TestLotteryDrawingTransitions(t *testing.T) {
	now := time.Date(2026, 6, 1, 18, 0, 0, 0, time.UTC)

	t.Run("Complete drawing records winners", func(t *testing.T) {
		l := newTestLottery(t, 100)
		require.NoError(t, l.BeginDrawing())
		assert.Equal(t, LotteryDrawing, l.Status)

		winners := []Winner{
			{DonorID: "donor-1", TicketNumber: "AB12CD34", PrizeRank: 1, DrawnAt: now},
		}
		require.NoError(t, l.CompleteDrawing(winners))
		assert.Equal(t, LotteryCompleted, l.Status)
		assert.Len(t, l.Winners, 1)
	})

	t.Run("BeginDrawing requires active status", func(t *testing.T) {
		l := newTestLottery(t, 100)
		require.NoError(t, l.BeginDrawing())

		err := l.BeginDrawing()
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("CompleteDrawing requires drawing status", func(t *testing.T) {
		l := newTestLottery(t, 100)

		err := l.CompleteDrawing([]Winner{{DonorID: "donor-1"}})
		assert.ErrorIs(t, err, errs.ErrIllegalTransition)
	})

	t.Run("CompleteDrawing rejects empty winners", func(t *testing.T) {
		l := newTestLottery(t, 100)
		require.NoError(t, l.BeginDrawing())

		err := l.CompleteDrawing(nil)
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
	})
}
