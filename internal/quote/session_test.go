package quote

import (
	"errors"
	"testing"

	"taxitoday/internal/domain"
	"taxitoday/internal/fare"
)

func addr(display string) domain.Address {
	return domain.Address{Display: display}
}

func quotedSession(t *testing.T) *Session {
	t.Helper()

	s := NewSession("session-1", domain.VehicleClassStandard)
	if err := s.SetRoute(addr("Dam 1, Amsterdam"), addr("Schiphol Airport")); err != nil {
		t.Fatalf("SetRoute: %v", err)
	}
	if err := s.SetDistance(17.5, fare.NewCalculator()); err != nil {
		t.Fatalf("SetDistance: %v", err)
	}
	return s
}

func capturedSession(t *testing.T) *Session {
	t.Helper()

	s := quotedSession(t)
	err := s.CaptureContact("rider@example.com", "+31612345678", Schedule{
		Date:       "2026-09-12",
		Time:       "14:30",
		Passengers: 2,
		Luggage:    1,
	})
	if err != nil {
		t.Fatalf("CaptureContact: %v", err)
	}
	return s
}

func TestSession_HappyPath(t *testing.T) {
	t.Parallel()

	s := capturedSession(t)

	total, err := s.InitiatePayment()
	if err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	if total != s.Fare.TotalCents {
		t.Errorf("expected frozen total %d, got %d", s.Fare.TotalCents, total)
	}
	if s.State != StatePaymentInitiated {
		t.Errorf("expected state %s, got %s", StatePaymentInitiated, s.State)
	}

	draft, err := s.ConfirmPayment("pi_123")
	if err != nil {
		t.Fatalf("ConfirmPayment: %v", err)
	}
	if s.State != StateConfirmed {
		t.Errorf("expected state %s, got %s", StateConfirmed, s.State)
	}
	if draft.Status != domain.BookingStatusPending {
		t.Errorf("expected draft status PENDING, got %s", draft.Status)
	}
	if draft.PaymentConfirmationID != "pi_123" {
		t.Errorf("expected confirmation id on draft, got %q", draft.PaymentConfirmationID)
	}
	if draft.ContactEmail != "rider@example.com" || draft.PassengerCount != 2 {
		t.Errorf("draft missing captured details: %+v", draft)
	}
}

func TestSession_SetRoute_EmptyAddress(t *testing.T) {
	t.Parallel()

	s := NewSession("session-1", domain.VehicleClassStandard)

	if err := s.SetRoute(addr(""), addr("Schiphol Airport")); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress for empty pickup, got: %v", err)
	}
	if err := s.SetRoute(addr("Dam 1"), addr("")); !errors.Is(err, ErrInvalidAddress) {
		t.Errorf("expected ErrInvalidAddress for empty destination, got: %v", err)
	}
	if s.State != StateEmpty {
		t.Errorf("expected session to stay EMPTY, got %s", s.State)
	}
}

func TestSession_RequoteBeforeFreeze(t *testing.T) {
	t.Parallel()

	s := quotedSession(t)
	first := *s.Fare

	if err := s.SetDistance(25.0, fare.NewCalculator()); err != nil {
		t.Fatalf("expected re-quote to be allowed, got: %v", err)
	}
	if s.Fare.TotalCents == first.TotalCents {
		t.Error("expected fare to change after re-quote")
	}
	if s.State != StateQuoted {
		t.Errorf("expected state QUOTED after re-quote, got %s", s.State)
	}
}

func TestSession_FrozenAfterInitiatePayment(t *testing.T) {
	t.Parallel()

	s := capturedSession(t)
	if _, err := s.InitiatePayment(); err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}
	frozen := *s.Fare

	if err := s.SetDistance(99, fare.NewCalculator()); !errors.Is(err, ErrSessionFrozen) {
		t.Errorf("expected ErrSessionFrozen from SetDistance, got: %v", err)
	}
	if err := s.CaptureContact("other@example.com", "+31600000000", Schedule{}); !errors.Is(err, ErrSessionFrozen) {
		t.Errorf("expected ErrSessionFrozen from CaptureContact, got: %v", err)
	}
	if *s.Fare != frozen {
		t.Errorf("fare changed after freeze: %+v vs %+v", *s.Fare, frozen)
	}
}

func TestSession_InvalidContact(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		email string
		phone string
	}{
		{name: "malformed email", email: "not-an-email", phone: "+31612345678"},
		{name: "empty email", email: "", phone: "+31612345678"},
		{name: "empty phone", email: "rider@example.com", phone: ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := quotedSession(t)
			err := s.CaptureContact(tc.email, tc.phone, Schedule{})
			if !errors.Is(err, ErrInvalidContact) {
				t.Errorf("expected ErrInvalidContact, got: %v", err)
			}
			if s.State != StateQuoted {
				t.Errorf("expected state to remain QUOTED, got %s", s.State)
			}
		})
	}
}

func TestSession_InvalidTransitions(t *testing.T) {
	t.Parallel()

	t.Run("cannot set distance before route", func(t *testing.T) {
		t.Parallel()

		s := NewSession("s", domain.VehicleClassStandard)
		err := s.SetDistance(5, fare.NewCalculator())
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got: %v", err)
		}
	})

	t.Run("cannot capture contact before quote", func(t *testing.T) {
		t.Parallel()

		s := NewSession("s", domain.VehicleClassStandard)
		if err := s.SetRoute(addr("a"), addr("b")); err != nil {
			t.Fatalf("SetRoute: %v", err)
		}
		err := s.CaptureContact("rider@example.com", "+31612345678", Schedule{})
		if !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got: %v", err)
		}
	})

	t.Run("cannot initiate payment before contact", func(t *testing.T) {
		t.Parallel()

		s := quotedSession(t)
		if _, err := s.InitiatePayment(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got: %v", err)
		}
	})

	t.Run("cannot confirm before initiating payment", func(t *testing.T) {
		t.Parallel()

		s := capturedSession(t)
		if _, err := s.ConfirmPayment("pi_1"); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got: %v", err)
		}
	})

	t.Run("cannot set route twice", func(t *testing.T) {
		t.Parallel()

		s := quotedSession(t)
		if err := s.SetRoute(addr("x"), addr("y")); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got: %v", err)
		}
	})
}

func TestSession_ConfirmPayment_Idempotent(t *testing.T) {
	t.Parallel()

	s := capturedSession(t)
	if _, err := s.InitiatePayment(); err != nil {
		t.Fatalf("InitiatePayment: %v", err)
	}

	first, err := s.ConfirmPayment("pi_same")
	if err != nil {
		t.Fatalf("first ConfirmPayment: %v", err)
	}
	second, err := s.ConfirmPayment("pi_same")
	if err != nil {
		t.Fatalf("second ConfirmPayment: %v", err)
	}
	if first.PaymentConfirmationID != second.PaymentConfirmationID {
		t.Error("expected identical drafts for repeated confirmation")
	}

	if _, err := s.ConfirmPayment("pi_other"); !errors.Is(err, ErrConfirmationMismatch) {
		t.Errorf("expected ErrConfirmationMismatch, got: %v", err)
	}
}

func TestSession_Abandon(t *testing.T) {
	t.Parallel()

	t.Run("from any non-terminal state", func(t *testing.T) {
		t.Parallel()

		for _, build := range []func() *Session{
			func() *Session { return NewSession("s", domain.VehicleClassStandard) },
			func() *Session { return quotedSession(t) },
			func() *Session { return capturedSession(t) },
			func() *Session {
				s := capturedSession(t)
				if _, err := s.InitiatePayment(); err != nil {
					t.Fatalf("InitiatePayment: %v", err)
				}
				return s
			},
		} {
			s := build()
			if err := s.Abandon(); err != nil {
				t.Errorf("Abandon from %s: %v", s.State, err)
			}
			if s.State != StateAbandoned {
				t.Errorf("expected ABANDONED, got %s", s.State)
			}
		}
	})

	t.Run("terminal states reject abandon", func(t *testing.T) {
		t.Parallel()

		s := capturedSession(t)
		if _, err := s.InitiatePayment(); err != nil {
			t.Fatalf("InitiatePayment: %v", err)
		}
		if _, err := s.ConfirmPayment("pi_1"); err != nil {
			t.Fatalf("ConfirmPayment: %v", err)
		}
		if err := s.Abandon(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition from confirmed session, got: %v", err)
		}
	})

	t.Run("abandoned session is unusable", func(t *testing.T) {
		t.Parallel()

		s := quotedSession(t)
		if err := s.Abandon(); err != nil {
			t.Fatalf("Abandon: %v", err)
		}
		if err := s.SetDistance(5, fare.NewCalculator()); !errors.Is(err, ErrSessionFrozen) {
			t.Errorf("expected ErrSessionFrozen, got: %v", err)
		}
		if _, err := s.InitiatePayment(); !errors.Is(err, ErrInvalidTransition) {
			t.Errorf("expected ErrInvalidTransition, got: %v", err)
		}
	})
}

func TestSession_CannotSkipToPaymentInitiated(t *testing.T) {
	t.Parallel()

	// Every path into PAYMENT_INITIATED must pass through
	// ROUTE_SET -> QUOTED -> CONTACT_CAPTURED.
	s := NewSession("s", domain.VehicleClassStandard)
	if _, err := s.InitiatePayment(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from EMPTY, got: %v", err)
	}
	if err := s.SetRoute(addr("a"), addr("b")); err != nil {
		t.Fatalf("SetRoute: %v", err)
	}
	if _, err := s.InitiatePayment(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from ROUTE_SET, got: %v", err)
	}
	if err := s.SetDistance(3, fare.NewCalculator()); err != nil {
		t.Fatalf("SetDistance: %v", err)
	}
	if _, err := s.InitiatePayment(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition from QUOTED, got: %v", err)
	}
}
