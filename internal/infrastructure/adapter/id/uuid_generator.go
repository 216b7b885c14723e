package id

import (
	"github.com/google/uuid"

	"github.com/tzedaka-labs/donation-processor/internal/domain/port/core"
)

// UUIDGenerator implements the IDGenerator interface using random UUIDs
type UUIDGenerator struct{}

// NewUUIDGenerator creates a new UUID-based id generator
func NewUUIDGenerator() core.IDGenerator {
	return &UUIDGenerator{}
}

// NewID returns a new random UUID string
func (g *UUIDGenerator) NewID() string {
	return uuid.NewString()
}
