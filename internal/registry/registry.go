// Package registry owns confirmed bookings: it mints unique booking
// references, stores bookings, and applies status transitions.
package registry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"taxitoday/internal/domain"
	"taxitoday/internal/repository"
)

var (
	// ErrAlreadyCancelled is returned when cancelling a cancelled booking.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrReferenceExhausted is returned when no free reference could be
	// allocated within the attempt budget.
	ErrReferenceExhausted = errors.New("could not allocate a unique booking reference")
)

const (
	referencePrefix   = "TX"
	referenceAttempts = 5
	registerLockTTL   = 5 * time.Second
)

// Locker serializes reference allocation across instances. Optional: with a
// single instance the repository's unique constraint alone is sufficient.
type Locker interface {
	AcquireRegisterLock(ctx context.Context, ttl time.Duration) (bool, error)
	ReleaseRegisterLock(ctx context.Context) error
}

// Registry stores confirmed bookings and issues unique booking references.
type Registry struct {
	repo  repository.BookingRepository
	locks Locker
}

// NewRegistry creates a new Registry. locks may be nil.
func NewRegistry(repo repository.BookingRepository, locks Locker) *Registry {
	return &Registry{repo: repo, locks: locks}
}

// Register assigns an id and a unique reference to the draft, marks it
// CONFIRMED and stores it. The reference is collision-checked against the
// repository and the insert is backed by a unique constraint, so no two
// bookings ever share a reference even under concurrent registration.
func (r *Registry) Register(ctx context.Context, draft *domain.Booking) (*domain.Booking, error) {
	if r.locks != nil {
		if ok, err := r.locks.AcquireRegisterLock(ctx, registerLockTTL); err == nil && ok {
			defer func() { _ = r.locks.ReleaseRegisterLock(ctx) }()
		}
	}

	booking := *draft
	booking.ID = uuid.New().String()
	booking.Status = domain.BookingStatusConfirmed
	booking.CreatedAt = time.Now()

	for attempt := 0; attempt < referenceAttempts; attempt++ {
		booking.Reference = newReference()

		err := r.repo.Create(ctx, &booking)
		if err == nil {
			return &booking, nil
		}
		if errors.Is(err, repository.ErrDuplicateReference) {
			continue
		}
		return nil, err
	}

	return nil, ErrReferenceExhausted
}

// Find retrieves a booking by reference.
func (r *Registry) Find(ctx context.Context, reference string) (*domain.Booking, error) {
	if reference == "" {
		return nil, repository.ErrNotFound
	}
	return r.repo.GetByReference(ctx, reference)
}

// FindByPaymentConfirmation retrieves the booking minted for a payment
// confirmation id, or nil if none exists.
func (r *Registry) FindByPaymentConfirmation(ctx context.Context, confirmationID string) (*domain.Booking, error) {
	return r.repo.GetByPaymentConfirmation(ctx, confirmationID)
}

// Cancel transitions a PENDING or CONFIRMED booking to CANCELLED.
func (r *Registry) Cancel(ctx context.Context, reference, reason string) (*domain.Booking, error) {
	booking, err := r.repo.GetByReference(ctx, reference)
	if err != nil {
		return nil, err
	}

	if booking.Status == domain.BookingStatusCancelled {
		return nil, ErrAlreadyCancelled
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelledAt = time.Now()
	booking.CancelReason = reason

	if err := r.repo.Update(ctx, booking); err != nil {
		return nil, err
	}

	return booking, nil
}

// newReference builds a candidate reference: the fixed prefix plus a
// zero-padded six digit suffix.
func newReference() string {
	return fmt.Sprintf("%s%06d", referencePrefix, rand.Intn(1000000))
}
