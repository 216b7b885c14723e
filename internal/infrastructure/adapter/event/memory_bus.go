package event

import (
	"context"
	"sync"

	coreport "github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
	eventport "github.com/tzedaka-labs/donation-processor/internal/domain/port/event"
)

// MemoryBus is an in-process implementation of the event Bus. Handlers run
// synchronously on the publishing goroutine, so a donation completion and its
// campaign/lottery side effects finish before the publisher returns.
type MemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]eventport.HandlerFunc
	logger   coreport.Logger
}

// NewMemoryBus creates a new in-memory event bus
func NewMemoryBus(logger coreport.Logger) *MemoryBus {
	return &MemoryBus{
		handlers: make(map[string][]eventport.HandlerFunc),
		logger:   logger,
	}
}

// Register subscribes a handler to an event type
func (b *MemoryBus) Register(eventType string, handler eventport.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Publish delivers the event to every handler registered for its type. A
// failing handler is logged and does not stop delivery to the others; event
// consumers are idempotent and redelivery is safe.
func (b *MemoryBus) Publish(ctx context.Context, e eventport.Event) error {
	b.mu.RLock()
	handlers := b.handlers[e.Type()]
	b.mu.RUnlock()

	var firstErr error
	for _, handler := range handlers {
		if err := handler(ctx, e); err != nil {
			b.logger.Error("Event handler failed", map[string]any{
				"event_type": e.Type(),
				"error":      err.Error(),
			})
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

// Ensure MemoryBus implements the Bus interface
var _ eventport.Bus = (*MemoryBus)(nil)
