package lottery

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	errs "github.com/tzedaka-labs/donation-processor/internal/domain/error"
)

// maxNumberAttempts bounds collision retries during ticket number generation.
// With 36^8 possible numbers, hitting this bound means something is badly wrong.
const maxNumberAttempts = 20

// ticketNumberGenerator produces ticket numbers from the fixed alphabet/length
// scheme, retrying on collision within the lottery
type ticketNumberGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func newTicketNumberGenerator(rng *rand.Rand) *ticketNumberGenerator {
	return &ticketNumberGenerator{rng: rng}
}

// Generate returns a number not yet present in the lottery
func (g *ticketNumberGenerator) Generate(l *entity.Lottery) (string, error) {
	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		number := g.random()
		if !l.HasTicketNumber(number) {
			return number, nil
		}
	}
	return "", errs.NewInvariantError("ticket_number_space",
		fmt.Sprintf("could not generate a unique ticket number for lottery %s after %d attempts",
			l.ID, maxNumberAttempts))
}

func (g *ticketNumberGenerator) random() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	buf := make([]byte, entity.TicketNumberLength)
	for i := range buf {
		buf[i] = entity.TicketNumberAlphabet[g.rng.Intn(len(entity.TicketNumberAlphabet))]
	}
	return string(buf)
}
