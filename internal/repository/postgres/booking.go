package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"taxitoday/internal/domain"
	"taxitoday/internal/repository"
)

// BookingRepository is a PostgreSQL implementation of repository.BookingRepository.
type BookingRepository struct {
	q Querier
}

// NewBookingRepository creates a new PostgreSQL booking repository.
func NewBookingRepository(db *sql.DB) *BookingRepository {
	return &BookingRepository{q: db}
}

// NewBookingRepositoryWithTx creates a booking repository using a transaction.
func NewBookingRepositoryWithTx(tx *sql.Tx) *BookingRepository {
	return &BookingRepository{q: tx}
}

const bookingColumns = `
	id, reference, user_id,
	pickup_address, pickup_lat, pickup_lng,
	destination_address, destination_lat, destination_lng,
	distance_km,
	ride_fare_cents, service_fee_cents, subtotal_cents, vat_cents, total_cents, currency,
	contact_email, contact_phone,
	scheduled_date, scheduled_time, passenger_count, luggage_count,
	payment_confirmation_id, status, created_at, cancelled_at, cancel_reason
`

// Create persists a new booking. The unique constraint on reference backs
// the registry's uniqueness invariant.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16,
		        $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27)
	`

	cancelledAt := sql.NullTime{Time: booking.CancelledAt, Valid: !booking.CancelledAt.IsZero()}

	_, err := r.q.ExecContext(ctx, query,
		booking.ID,
		booking.Reference,
		booking.UserID,
		booking.Route.Pickup.Display,
		nullFloat(booking.Route.Pickup.Lat),
		nullFloat(booking.Route.Pickup.Lng),
		booking.Route.Destination.Display,
		nullFloat(booking.Route.Destination.Lat),
		nullFloat(booking.Route.Destination.Lng),
		booking.DistanceKm,
		booking.Fare.RideFareCents,
		booking.Fare.ServiceFeeCents,
		booking.Fare.SubtotalCents,
		booking.Fare.VATCents,
		booking.Fare.TotalCents,
		booking.Fare.Currency,
		booking.ContactEmail,
		booking.ContactPhone,
		booking.ScheduledDate,
		booking.ScheduledTime,
		booking.PassengerCount,
		booking.LuggageCount,
		booking.PaymentConfirmationID,
		booking.Status,
		booking.CreatedAt,
		cancelledAt,
		booking.CancelReason,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return repository.ErrDuplicateReference
		}
		return err
	}

	return nil
}

// GetByReference retrieves a booking by its customer-facing reference.
func (r *BookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE reference = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, reference))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	return booking, nil
}

// GetByPaymentConfirmation retrieves the booking created for a payment
// confirmation id. Returns nil if no such booking exists.
func (r *BookingRepository) GetByPaymentConfirmation(ctx context.Context, confirmationID string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE payment_confirmation_id = $1`

	booking, err := scanBooking(r.q.QueryRowContext(ctx, query, confirmationID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return booking, nil
}

// GetAll retrieves all bookings.
func (r *BookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []*domain.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

// Update updates an existing booking.
func (r *BookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, cancelled_at = $2, cancel_reason = $3
		WHERE reference = $4
	`

	cancelledAt := sql.NullTime{Time: booking.CancelledAt, Valid: !booking.CancelledAt.IsZero()}

	result, err := r.q.ExecContext(ctx, query, booking.Status, cancelledAt, booking.CancelReason, booking.Reference)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var pickupLat, pickupLng, destLat, destLng sql.NullFloat64
	var cancelledAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.Route.Pickup.Display,
		&pickupLat,
		&pickupLng,
		&booking.Route.Destination.Display,
		&destLat,
		&destLng,
		&booking.DistanceKm,
		&booking.Fare.RideFareCents,
		&booking.Fare.ServiceFeeCents,
		&booking.Fare.SubtotalCents,
		&booking.Fare.VATCents,
		&booking.Fare.TotalCents,
		&booking.Fare.Currency,
		&booking.ContactEmail,
		&booking.ContactPhone,
		&booking.ScheduledDate,
		&booking.ScheduledTime,
		&booking.PassengerCount,
		&booking.LuggageCount,
		&booking.PaymentConfirmationID,
		&booking.Status,
		&booking.CreatedAt,
		&cancelledAt,
		&booking.CancelReason,
	)
	if err != nil {
		return nil, err
	}

	booking.Route.Pickup.Lat = floatPtr(pickupLat)
	booking.Route.Pickup.Lng = floatPtr(pickupLng)
	booking.Route.Destination.Lat = floatPtr(destLat)
	booking.Route.Destination.Lng = floatPtr(destLng)
	if cancelledAt.Valid {
		booking.CancelledAt = cancelledAt.Time
	}

	return &booking, nil
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}

func floatPtr(f sql.NullFloat64) *float64 {
	if !f.Valid {
		return nil
	}
	v := f.Float64
	return &v
}
