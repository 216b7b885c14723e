package event

import (
	"context"
	"errors"
	"testing"
	"time"

	eventport "github.com/tzedaka-labs/donation-processor/internal/domain/port/event"
	mcore "github.com/tzedaka-labs/donation-processor/mocks/port/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestLogger(t *testing.T) *mcore.MockLogger {
	logger := mcore.NewMockLogger(t)
	logger.On("Debug", mock.Anything, mock.Anything).Maybe()
	logger.On("Info", mock.Anything, mock.Anything).Maybe()
	logger.On("Warn", mock.Anything, mock.Anything).Maybe()
	logger.On("Error", mock.Anything, mock.Anything).Maybe()
	return logger
}

func completedEvent() eventport.DonationCompleted {
	return eventport.DonationCompleted{
		DonationID:    "don-1",
		DonorID:       "donor-1",
		CampaignID:    "camp-1",
		AmountInCents: 1800,
		Currency:      "USD",
		OccurredAt:    time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

func TestMemoryBusPublish(t *testing.T) {
	ctx := context.Background()

	t.Run("Delivers to every handler for the type", func(t *testing.T) {
		bus := NewMemoryBus(newTestLogger(t))

		var delivered []string
		bus.Register(eventport.TypeDonationCompleted, func(ctx context.Context, e eventport.Event) error {
			delivered = append(delivered, "first")
			return nil
		})
		bus.Register(eventport.TypeDonationCompleted, func(ctx context.Context, e eventport.Event) error {
			delivered = append(delivered, "second")
			return nil
		})

		require.NoError(t, bus.Publish(ctx, completedEvent()))
		assert.Equal(t, []string{"first", "second"}, delivered)
	})

	t.Run("Handlers observe the published payload", func(t *testing.T) {
		bus := NewMemoryBus(newTestLogger(t))

		var got eventport.DonationCompleted
		bus.Register(eventport.TypeDonationCompleted, func(ctx context.Context, e eventport.Event) error {
			got = e.(eventport.DonationCompleted)
			return nil
		})

		require.NoError(t, bus.Publish(ctx, completedEvent()))
		assert.Equal(t, "don-1", got.DonationID)
		assert.Equal(t, int64(1800), got.AmountInCents)
	})

	t.Run("Other event types are not delivered", func(t *testing.T) {
		bus := NewMemoryBus(newTestLogger(t))

		bus.Register(eventport.TypeDonationRefunded, func(ctx context.Context, e eventport.Event) error {
			t.Error("refund handler must not receive completion events")
			return nil
		})

		require.NoError(t, bus.Publish(ctx, completedEvent()))
	})

	t.Run("No handlers is a no-op", func(t *testing.T) {
		bus := NewMemoryBus(newTestLogger(t))
		require.NoError(t, bus.Publish(ctx, completedEvent()))
	})

	t.Run("A failing handler does not stop delivery", func(t *testing.T) {
		bus := NewMemoryBus(newTestLogger(t))
		failure := errors.New("aggregation failed")

		var secondRan bool
		bus.Register(eventport.TypeDonationCompleted, func(ctx context.Context, e eventport.Event) error {
			return failure
		})
		bus.Register(eventport.TypeDonationCompleted, func(ctx context.Context, e eventport.Event) error {
			secondRan = true
			return nil
		})

		err := bus.Publish(ctx, completedEvent())
		assert.ErrorIs(t, err, failure)
		assert.True(t, secondRan)
	})

	t.Run("First handler error wins", func(t *testing.T) {
		bus := NewMemoryBus(newTestLogger(t))
		first := errors.New("first failure")
		second := errors.New("second failure")

		bus.Register(eventport.TypeDonationCompleted, func(ctx context.Context, e eventport.Event) error {
			return first
		})
		bus.Register(eventport.TypeDonationCompleted, func(ctx context.Context, e eventport.Event) error {
			return second
		})

		err := bus.Publish(ctx, completedEvent())
		assert.ErrorIs(t, err, first)
		assert.NotErrorIs(t, err, second)
	})
}
