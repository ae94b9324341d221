package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taxitoday/internal/domain"
	"taxitoday/internal/fare"
	"taxitoday/internal/quote"
	"taxitoday/internal/registry"
)

// maxPaymentAttempts caps charges per frozen quote: the initial attempt plus
// exactly one retry after a decline.
const maxPaymentAttempts = 2

// defaultCollaboratorTimeout bounds calls to the routing and payment
// collaborators when no timeout is configured.
const defaultCollaboratorTimeout = 10 * time.Second

// BookingCache caches registered bookings by reference.
type BookingCache interface {
	// GetBooking returns the cached booking or nil on a miss.
	GetBooking(ctx context.Context, reference string) (*domain.Booking, error)
	SetBooking(ctx context.Context, booking *domain.Booking) error
	InvalidateBooking(ctx context.Context, reference string) error
}

// BookingService orchestrates the booking confirmation workflow: resolve a
// distance, price it, capture contact details, charge the frozen total and
// register the booking.
type BookingService struct {
	sessions quote.SessionStore
	registry *registry.Registry
	routes   RouteResolver
	payments PaymentProvider
	cache    BookingCache
	notifier *NotificationService
	calc     fare.Calculator
	timeout  time.Duration
}

// NewBookingService creates a new BookingService. cache and notifier may be nil.
func NewBookingService(
	sessions quote.SessionStore,
	reg *registry.Registry,
	routes RouteResolver,
	payments PaymentProvider,
	cache BookingCache,
	notifier *NotificationService,
	calc fare.Calculator,
	timeout time.Duration,
) *BookingService {
	if timeout <= 0 {
		timeout = defaultCollaboratorTimeout
	}
	return &BookingService{
		sessions: sessions,
		registry: reg,
		routes:   routes,
		payments: payments,
		cache:    cache,
		notifier: notifier,
		calc:     calc,
		timeout:  timeout,
	}
}

// QuoteRequest contains the parameters for pricing a route.
type QuoteRequest struct {
	Pickup       domain.Address
	Destination  domain.Address
	VehicleClass domain.VehicleClass
	UserID       string // empty for anonymous
}

// QuoteResult contains the priced quote and the session to book it with.
type QuoteResult struct {
	SessionID  string
	DistanceKm float64
	Fare       domain.FareBreakdown
}

// Quote resolves the route distance and prices it. On routing failure no
// session is stored, so nothing ever advances past route capture.
func (s *BookingService) Quote(ctx context.Context, req QuoteRequest) (*QuoteResult, error) {
	session := quote.NewSession(uuid.New().String(), req.VehicleClass)
	session.UserID = req.UserID

	if err := session.SetRoute(req.Pickup, req.Destination); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	distanceKm, err := s.routes.ResolveDistance(cctx, req.Pickup, req.Destination)
	if err != nil {
		if !errors.Is(err, ErrRouteUnresolved) {
			err = fmt.Errorf("%w: %v", ErrRouteUnresolved, err)
		}
		return nil, err
	}

	if err := session.SetDistance(distanceKm, s.calc); err != nil {
		return nil, err
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &QuoteResult{
		SessionID:  session.ID,
		DistanceKm: session.DistanceKm,
		Fare:       *session.Fare,
	}, nil
}

// GetQuote retrieves a stored quote session.
func (s *BookingService) GetQuote(ctx context.Context, sessionID string) (*quote.Session, error) {
	if sessionID == "" {
		return nil, quote.ErrSessionNotFound
	}
	return s.sessions.Get(ctx, sessionID)
}

// AbandonQuote terminates and discards a quote session.
func (s *BookingService) AbandonQuote(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := session.Abandon(); err != nil {
		return err
	}
	return s.sessions.Delete(ctx, session.ID)
}

// StartBookingRequest contains the contact and schedule details for a quote.
type StartBookingRequest struct {
	SessionID string
	Email     string
	Phone     string
	Schedule  quote.Schedule
}

// StartBookingResult carries the charge confirmation to hand back to the
// caller for completion.
type StartBookingResult struct {
	ConfirmationID string
	AmountCents    int64
	Currency       string
}

// StartBooking captures contact details, freezes the quote and charges the
// frozen total. On a decline the session stays PAYMENT_INITIATED with its
// fare untouched, and exactly one retry with the same frozen amount is
// permitted.
func (s *BookingService) StartBooking(ctx context.Context, req StartBookingRequest) (*StartBookingResult, error) {
	session, err := s.sessions.Get(ctx, req.SessionID)
	if err != nil {
		return nil, err
	}

	var total int64
	switch session.State {
	case quote.StateQuoted:
		if err := session.CaptureContact(req.Email, req.Phone, req.Schedule); err != nil {
			return nil, err
		}
		if total, err = session.InitiatePayment(); err != nil {
			return nil, err
		}
	case quote.StateContactCaptured:
		if total, err = session.InitiatePayment(); err != nil {
			return nil, err
		}
	case quote.StatePaymentInitiated:
		// Retry after a decline. Never re-price.
		if session.PaymentAttempts >= maxPaymentAttempts {
			return nil, ErrPaymentRetryExhausted
		}
		if total, err = session.FrozenTotal(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: StartBooking requires %s, session is %s",
			quote.ErrInvalidTransition, quote.StateQuoted, session.State)
	}

	// Persist the frozen session before talking to the provider so the
	// price can never be recomputed for this charge.
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	confirmation, chargeErr := s.payments.Charge(cctx, total, session.Fare.Currency, map[string]string{
		"quote_session_id": session.ID,
		"contact_email":    session.ContactEmail,
		"pickup":           session.Route.Pickup.Display,
		"destination":      session.Route.Destination.Display,
		"scheduled_date":   session.Schedule.Date,
		"scheduled_time":   session.Schedule.Time,
	})

	session.PaymentAttempts++
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	if chargeErr != nil {
		return nil, classifyPaymentError(chargeErr)
	}

	return &StartBookingResult{
		ConfirmationID: confirmation.ID,
		AmountCents:    total,
		Currency:       session.Fare.Currency,
	}, nil
}

// CompleteBooking verifies the charge and registers the booking. It is
// idempotent: repeating it with the same confirmation id returns the
// already-registered booking.
func (s *BookingService) CompleteBooking(ctx context.Context, sessionID, confirmationID string) (*domain.Booking, error) {
	if confirmationID == "" {
		return nil, ErrConfirmationRequired
	}

	if existing, err := s.registry.FindByPaymentConfirmation(ctx, confirmationID); err != nil {
		return nil, err
	} else if existing != nil {
		return existing, nil
	}

	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	cctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	status, err := s.payments.Verify(cctx, confirmationID)
	if err != nil {
		return nil, classifyPaymentError(err)
	}
	if status != PaymentStatusSucceeded {
		return nil, fmt.Errorf("%w: status %s", ErrPaymentNotSettled, status)
	}

	draft, err := session.ConfirmPayment(confirmationID)
	if err != nil {
		return nil, err
	}

	booking, err := s.registry.Register(ctx, draft)
	if err != nil {
		return nil, err
	}

	_ = s.sessions.Delete(ctx, session.ID)

	if s.cache != nil {
		_ = s.cache.SetBooking(ctx, booking)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyBookingConfirmed(ctx, booking)
	}

	return booking, nil
}

// GetBooking retrieves a booking by reference, consulting the cache first.
func (s *BookingService) GetBooking(ctx context.Context, reference string) (*domain.Booking, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetBooking(ctx, reference); err == nil && cached != nil {
			return cached, nil
		}
	}

	booking, err := s.registry.Find(ctx, reference)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.SetBooking(ctx, booking)
	}

	return booking, nil
}

// CancelBooking cancels a booking that has not been cancelled yet.
func (s *BookingService) CancelBooking(ctx context.Context, reference, reason string) (*domain.Booking, error) {
	booking, err := s.registry.Cancel(ctx, reference, reason)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		_ = s.cache.InvalidateBooking(ctx, reference)
	}
	if s.notifier != nil {
		_ = s.notifier.NotifyBookingCancelled(ctx, booking)
	}

	return booking, nil
}

// classifyPaymentError keeps decline and availability failures distinct and
// folds everything else (including timeouts) into provider unavailability.
func classifyPaymentError(err error) error {
	if errors.Is(err, ErrPaymentDeclined) || errors.Is(err, ErrPaymentProviderUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrPaymentProviderUnavailable, err)
}
