package lottery

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketNumberGenerate(t *testing.T) {
	t.Run("Numbers come from the fixed scheme", func(t *testing.T) {
		g := newTicketNumberGenerator(rand.New(rand.NewSource(1)))
		l := &entity.Lottery{ID: "lot-1", MaxTickets: 100}

		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			number, err := g.Generate(l)
			require.NoError(t, err)
			assert.Len(t, number, entity.TicketNumberLength)
			for _, c := range number {
				assert.True(t, strings.ContainsRune(entity.TicketNumberAlphabet, c))
			}
			seen[number] = true
		}
		// 50 draws from a 36^8 space should never collide
		assert.Len(t, seen, 50)
	})

	t.Run("Collisions inside the lottery are retried", func(t *testing.T) {
		seed := int64(42)
		first := newTicketNumberGenerator(rand.New(rand.NewSource(seed)))
		l := &entity.Lottery{ID: "lot-1", MaxTickets: 100}

		taken, err := first.Generate(l)
		require.NoError(t, err)
		l.Tickets = append(l.Tickets, entity.Ticket{Number: taken})

		// Same seed reproduces the collision on the first attempt
		second := newTicketNumberGenerator(rand.New(rand.NewSource(seed)))
		number, err := second.Generate(l)
		require.NoError(t, err)
		assert.NotEqual(t, taken, number)
	})

	t.Run("Exhausted retries violate the number-space invariant", func(t *testing.T) {
		seed := int64(7)
		source := newTicketNumberGenerator(rand.New(rand.NewSource(seed)))
		l := &entity.Lottery{ID: "lot-1", MaxTickets: 100}

		// Occupy exactly the candidates the generator will propose
		for i := 0; i < maxNumberAttempts; i++ {
			number, err := source.Generate(l)
			require.NoError(t, err)
			l.Tickets = append(l.Tickets, entity.Ticket{Number: number})
		}

		exhausted := newTicketNumberGenerator(rand.New(rand.NewSource(seed)))
		_, err := exhausted.Generate(l)
		assert.ErrorIs(t, err, errs.ErrInvariantViolation)
	})
}
