package donation

import (
	"context"
	"sync"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
)

// flightResult is the shared outcome of one in-flight submission
type flightResult struct {
	donation *entity.Donation
	err      error
}

// flight tracks one in-flight operation for a donation id
type flight struct {
	done   chan struct{}
	result flightResult
}

// SingleFlight serializes operations per donation id. A second concurrent
// caller for the same id does not start its own gateway call; it waits for the
// in-flight one and observes the same result. This is what makes Submit safe
// against double-submission races.
type SingleFlight struct {
	mu      sync.Mutex
	flights map[string]*flight
	logger  coreport.Logger
}

// NewSingleFlight creates a per-donation serialization group
func NewSingleFlight(logger coreport.Logger) *SingleFlight {
	return &SingleFlight{
		flights: make(map[string]*flight),
		logger:  logger,
	}
}

// Do runs fn for the donation id, or joins the in-flight run if one exists.
// Joining callers respect ctx cancellation while waiting; the in-flight run
// itself always proceeds to a terminal state.
func (s *SingleFlight) Do(
	ctx context.Context,
	donationID string,
	fn func() (*entity.Donation, error),
) (*entity.Donation, error) {
	s.mu.Lock()
	if f, ok := s.flights[donationID]; ok {
		s.mu.Unlock()
		s.logger.Debug("Joining in-flight donation operation", map[string]any{
			"donation_id": donationID,
		})
		select {
		case <-f.done:
			return f.result.donation, f.result.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f := &flight{done: make(chan struct{})}
	s.flights[donationID] = f
	s.mu.Unlock()

	donation, err := fn()
	f.result = flightResult{donation: donation, err: err}

	s.mu.Lock()
	delete(s.flights, donationID)
	s.mu.Unlock()
	close(f.done)

	return donation, err
}
