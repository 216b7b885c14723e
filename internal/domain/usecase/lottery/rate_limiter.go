package lottery

import (
	"sync"
	"time"

	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
)

// PurchaseRateLimit configures the coarse anti-abuse ceiling for ticket
// purchases. This is not a fairness guarantee.
type PurchaseRateLimit struct {
	MaxTickets int
	Window     coreport.Duration
}

// DefaultPurchaseRateLimit returns the production ceiling: 100 tickets per
// trailing 5 minutes per donor
func DefaultPurchaseRateLimit() PurchaseRateLimit {
	return PurchaseRateLimit{
		MaxTickets: 100,
		Window:     5 * coreport.Minute,
	}
}

// purchaseRateLimiter tracks ticket purchases per donor in a trailing window
type purchaseRateLimiter struct {
	mu        sync.Mutex
	limit     PurchaseRateLimit
	purchases map[string][]time.Time
}

func newPurchaseRateLimiter(limit PurchaseRateLimit) *purchaseRateLimiter {
	return &purchaseRateLimiter{
		limit:     limit,
		purchases: make(map[string][]time.Time),
	}
}

// Allow records a purchase attempt and reports whether the donor is under the
// ceiling for the trailing window
func (r *purchaseRateLimiter) Allow(donorID string, now time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := now.Add(-r.limit.Window.Std())
	recent := r.purchases[donorID][:0]
	for _, t := range r.purchases[donorID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= r.limit.MaxTickets {
		r.purchases[donorID] = recent
		return false
	}

	r.purchases[donorID] = append(recent, now)
	return true
}
