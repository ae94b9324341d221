// Package quote holds the in-progress booking draft between the moment a
// route is priced and the moment payment settles.
package quote

import (
	"errors"
	"fmt"
	"net/mail"
	"time"

	"taxitoday/internal/domain"
	"taxitoday/internal/fare"
)

// State represents the lifecycle position of a quote session.
type State string

const (
	StateEmpty            State = "EMPTY"
	StateRouteSet         State = "ROUTE_SET"
	StateQuoted           State = "QUOTED"
	StateContactCaptured  State = "CONTACT_CAPTURED"
	StatePaymentInitiated State = "PAYMENT_INITIATED"
	StateConfirmed        State = "CONFIRMED"
	StateAbandoned        State = "ABANDONED"
)

var (
	// ErrInvalidAddress is returned when pickup or destination is empty.
	ErrInvalidAddress = errors.New("invalid address")

	// ErrInvalidContact is returned for a malformed email or empty phone.
	ErrInvalidContact = errors.New("invalid contact details")

	// ErrSessionFrozen is returned when a mutation is attempted after payment
	// has been initiated.
	ErrSessionFrozen = errors.New("session is frozen")

	// ErrInvalidTransition is returned when an operation is invoked from a
	// state that does not permit it.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrConfirmationMismatch is returned when ConfirmPayment is repeated
	// with a different confirmation id.
	ErrConfirmationMismatch = errors.New("payment confirmation id mismatch")
)

// allowedTransitions represents the session state flow as code.
var allowedTransitions = map[State][]State{
	StateEmpty:            {StateRouteSet, StateAbandoned},
	StateRouteSet:         {StateQuoted, StateAbandoned},
	StateQuoted:           {StateQuoted, StateContactCaptured, StateAbandoned},
	StateContactCaptured:  {StatePaymentInitiated, StateAbandoned},
	StatePaymentInitiated: {StateConfirmed, StateAbandoned},
}

// canTransition reports whether from -> to is an allowed state change.
func canTransition(from, to State) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Schedule carries the ride details captured together with contact info.
type Schedule struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Passengers int    `json:"passengers"`
	Luggage    int    `json:"luggage"`
}

// Session is the mutable booking draft. It is scoped to a single client
// interaction and is not shared across concurrent requests; the service
// layer loads it, applies one operation, and saves it back.
type Session struct {
	ID                    string                `json:"id"`
	State                 State                 `json:"state"`
	VehicleClass          domain.VehicleClass   `json:"vehicle_class"`
	Route                 domain.RoutePoints    `json:"route"`
	DistanceKm            float64               `json:"distance_km"`
	Fare                  *domain.FareBreakdown `json:"fare,omitempty"`
	ContactEmail          string                `json:"contact_email,omitempty"`
	ContactPhone          string                `json:"contact_phone,omitempty"`
	Schedule              Schedule              `json:"schedule"`
	UserID                string                `json:"user_id,omitempty"`
	PaymentConfirmationID string                `json:"payment_confirmation_id,omitempty"`
	PaymentAttempts       int                   `json:"payment_attempts"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// NewSession creates an empty session for the given vehicle class.
func NewSession(id string, class domain.VehicleClass) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		State:        StateEmpty,
		VehicleClass: class,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// transition moves the session to the target state or reports why it cannot.
func (s *Session) transition(to State) error {
	if !canTransition(s.State, to) {
		return fmt.Errorf("%w: cannot move from %s to %s", ErrInvalidTransition, s.State, to)
	}
	s.State = to
	s.UpdatedAt = time.Now()
	return nil
}

// frozen reports whether the session fields can no longer change.
func (s *Session) frozen() bool {
	switch s.State {
	case StatePaymentInitiated, StateConfirmed, StateAbandoned:
		return true
	}
	return false
}

// SetRoute records the pickup/destination pair. Valid only from EMPTY.
func (s *Session) SetRoute(pickup, destination domain.Address) error {
	if pickup.IsZero() || destination.IsZero() {
		return ErrInvalidAddress
	}
	if s.State != StateEmpty {
		return fmt.Errorf("%w: SetRoute requires %s, session is %s", ErrInvalidTransition, StateEmpty, s.State)
	}
	s.Route = domain.RoutePoints{Pickup: pickup, Destination: destination}
	return s.transition(StateRouteSet)
}

// SetDistance stores the resolved distance and recomputes the fare. It is
// valid from ROUTE_SET and may be repeated from QUOTED to model the route
// being recalculated before payment; once frozen it fails with
// ErrSessionFrozen.
func (s *Session) SetDistance(distanceKm float64, calc fare.Calculator) error {
	if s.frozen() {
		return ErrSessionFrozen
	}
	if s.State != StateRouteSet && s.State != StateQuoted {
		return fmt.Errorf("%w: SetDistance requires %s, session is %s", ErrInvalidTransition, StateRouteSet, s.State)
	}

	breakdown, err := calc.Compute(distanceKm, s.VehicleClass)
	if err != nil {
		return err
	}

	s.DistanceKm = distanceKm
	s.Fare = &breakdown
	return s.transition(StateQuoted)
}

// CaptureContact validates and stores contact details plus the ride
// schedule. Valid only from QUOTED.
func (s *Session) CaptureContact(email, phone string, schedule Schedule) error {
	if s.frozen() {
		return ErrSessionFrozen
	}
	if s.State != StateQuoted {
		return fmt.Errorf("%w: CaptureContact requires %s, session is %s", ErrInvalidTransition, StateQuoted, s.State)
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("%w: email", ErrInvalidContact)
	}
	if phone == "" {
		return fmt.Errorf("%w: phone", ErrInvalidContact)
	}

	s.ContactEmail = email
	s.ContactPhone = phone
	s.Schedule = schedule
	return s.transition(StateContactCaptured)
}

// InitiatePayment freezes the session and returns the authoritative charge
// amount in minor units. Valid only from CONTACT_CAPTURED.
func (s *Session) InitiatePayment() (int64, error) {
	if s.State != StateContactCaptured {
		return 0, fmt.Errorf("%w: InitiatePayment requires %s, session is %s", ErrInvalidTransition, StateContactCaptured, s.State)
	}
	if err := s.transition(StatePaymentInitiated); err != nil {
		return 0, err
	}
	return s.Fare.TotalCents, nil
}

// FrozenTotal returns the charge amount locked in by InitiatePayment. It is
// the only amount that may be handed to the payment provider, including on
// a retry after a decline.
func (s *Session) FrozenTotal() (int64, error) {
	if s.State != StatePaymentInitiated && s.State != StateConfirmed {
		return 0, fmt.Errorf("%w: FrozenTotal requires %s, session is %s", ErrInvalidTransition, StatePaymentInitiated, s.State)
	}
	return s.Fare.TotalCents, nil
}

// ConfirmPayment records the provider confirmation and materializes the
// booking draft. Calling it again with the same confirmation id returns the
// same draft; a different id is rejected.
func (s *Session) ConfirmPayment(confirmationID string) (*domain.Booking, error) {
	if s.State == StateConfirmed {
		if s.PaymentConfirmationID != confirmationID {
			return nil, ErrConfirmationMismatch
		}
		return s.draft(), nil
	}
	if s.State != StatePaymentInitiated {
		return nil, fmt.Errorf("%w: ConfirmPayment requires %s, session is %s", ErrInvalidTransition, StatePaymentInitiated, s.State)
	}
	if err := s.transition(StateConfirmed); err != nil {
		return nil, err
	}
	s.PaymentConfirmationID = confirmationID
	return s.draft(), nil
}

// Abandon terminates the session. Valid from any non-terminal state.
func (s *Session) Abandon() error {
	return s.transition(StateAbandoned)
}

// draft builds the booking record for the registry. The registry assigns the
// id and reference.
func (s *Session) draft() *domain.Booking {
	return &domain.Booking{
		UserID:                s.UserID,
		Route:                 s.Route,
		DistanceKm:            s.DistanceKm,
		Fare:                  *s.Fare,
		ContactEmail:          s.ContactEmail,
		ContactPhone:          s.ContactPhone,
		ScheduledDate:         s.Schedule.Date,
		ScheduledTime:         s.Schedule.Time,
		PassengerCount:        s.Schedule.Passengers,
		LuggageCount:          s.Schedule.Luggage,
		PaymentConfirmationID: s.PaymentConfirmationID,
		Status:                domain.BookingStatusPending,
	}
}
