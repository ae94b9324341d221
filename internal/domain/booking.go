package domain

import "time"

// BookingStatus represents the current status of a booking.
type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking is a confirmed, payment-backed reservation. It is created only
// after the payment provider has confirmed the charge and is immutable
// afterwards except for status transitions. The registry owns all stored
// bookings.
type Booking struct {
	ID                    string // internal primary id (UUID)
	Reference             string // customer-facing reference, e.g. TX042731
	UserID                string // empty for anonymous bookings
	Route                 RoutePoints
	DistanceKm            float64
	Fare                  FareBreakdown
	ContactEmail          string
	ContactPhone          string
	ScheduledDate         string // YYYY-MM-DD as entered in the form
	ScheduledTime         string // HH:MM
	PassengerCount        int
	LuggageCount          int
	PaymentConfirmationID string
	Status                BookingStatus
	CreatedAt             time.Time
	CancelledAt           time.Time
	CancelReason          string
}
