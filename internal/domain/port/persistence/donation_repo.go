package persistence

import (
	"context"

	"github.com/tzedaka-labs/donation-processor/internal/domain/entity"
)

// DonationRepository defines essential methods to interact with donation data
type DonationRepository interface {
	// Create saves a new donation in PENDING
	//
	// Possible errors:
	// - ErrDuplicateDonation: if a donation with the same idempotency key exists
	// - ErrDatabaseConnection: if database connection fails
	Create(ctx context.Context, donation *entity.Donation) error

	// Update persists a state transition and its associated fields
	//
	// Possible errors:
	// - ErrDonationNotFound: if the donation doesn't exist
	// - ErrDatabaseConnection: if database connection fails
	Update(ctx context.Context, donation *entity.Donation) error

	// GetByID retrieves a donation by its id
	//
	// Possible errors:
	// - ErrDonationNotFound: if the donation doesn't exist
	// - ErrDatabaseConnection: if database connection fails
	GetByID(ctx context.Context, id string) (*entity.Donation, error)

	// GetByIdempotencyKey retrieves the donation created for a logical attempt.
	// Used for the at-most-once guarantee on Create.
	//
	// Possible errors:
	// - ErrDonationNotFound: if no donation carries the key
	// - ErrDatabaseConnection: if database connection fails
	GetByIdempotencyKey(ctx context.Context, key string) (*entity.Donation, error)
}
