package repository

import (
	"context"

	"taxitoday/internal/domain"
)

// BookingRepository defines the persistence operations for bookings.
type BookingRepository interface {
	// Create persists a new booking. Returns ErrDuplicateReference if the
	// booking reference is already stored.
	Create(ctx context.Context, booking *domain.Booking) error

	// GetByReference retrieves a booking by its customer-facing reference.
	GetByReference(ctx context.Context, reference string) (*domain.Booking, error)

	// GetByPaymentConfirmation retrieves the booking created for a payment
	// confirmation id. Returns nil if no such booking exists.
	GetByPaymentConfirmation(ctx context.Context, confirmationID string) (*domain.Booking, error)

	// GetAll retrieves all bookings.
	GetAll(ctx context.Context) ([]*domain.Booking, error)

	// Update updates an existing booking.
	Update(ctx context.Context, booking *domain.Booking) error
}
