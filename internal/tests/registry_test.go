package tests

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"taxitoday/internal/domain"
	"taxitoday/internal/registry"
	"taxitoday/internal/repository"
)

var referencePattern = regexp.MustCompile(`^TX\d{6}$`)

func draftBooking(confirmationID string) *domain.Booking {
	return &domain.Booking{
		Route: domain.RoutePoints{
			Pickup:      domain.Address{Display: "Alexanderplatz"},
			Destination: domain.Address{Display: "Potsdamer Platz"},
		},
		DistanceKm: 3.2,
		Fare: domain.FareBreakdown{
			RideFareCents:   1095,
			ServiceFeeCents: 500,
			SubtotalCents:   1595,
			VATCents:        144,
			TotalCents:      1739,
			Currency:        "eur",
		},
		ContactEmail:          "rider@example.com",
		ContactPhone:          "+4915112345678",
		PaymentConfirmationID: confirmationID,
		Status:                domain.BookingStatusPending,
	}
}

func TestRegistry_Register(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry(NewMockBookingRepository(), nil)

	booking, err := reg.Register(context.Background(), draftBooking("pay_1"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	if !referencePattern.MatchString(booking.Reference) {
		t.Errorf("reference %q does not match TX + 6 digits", booking.Reference)
	}
	if booking.ID == "" {
		t.Error("expected an id to be assigned")
	}
	if booking.Status != domain.BookingStatusConfirmed {
		t.Errorf("expected status %s, got %s", domain.BookingStatusConfirmed, booking.Status)
	}
	if booking.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestRegistry_ConcurrentRegisterUniqueReferences(t *testing.T) {
	t.Parallel()

	const n = 50

	repo := NewMockBookingRepository()
	reg := registry.NewRegistry(repo, nil)

	var wg sync.WaitGroup
	references := make(chan string, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			booking, err := reg.Register(context.Background(), draftBooking("pay_concurrent"))
			if err != nil {
				errs <- err
				return
			}
			references <- booking.Reference
		}()
	}
	wg.Wait()
	close(references)
	close(errs)

	for err := range errs {
		t.Fatalf("Register failed: %v", err)
	}

	seen := make(map[string]bool)
	for ref := range references {
		if seen[ref] {
			t.Errorf("duplicate reference issued: %s", ref)
		}
		seen[ref] = true
	}
	if len(seen) != n {
		t.Errorf("expected %d distinct references, got %d", n, len(seen))
	}
	if repo.CountBookings() != n {
		t.Errorf("expected %d stored bookings, got %d", n, repo.CountBookings())
	}
}

func TestRegistry_Find(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry(NewMockBookingRepository(), nil)
	ctx := context.Background()

	booking, err := reg.Register(ctx, draftBooking("pay_find"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	found, err := reg.Find(ctx, booking.Reference)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if found.Reference != booking.Reference {
		t.Errorf("expected reference %s, got %s", booking.Reference, found.Reference)
	}

	if _, err := reg.Find(ctx, "TX999999"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for unknown reference, got %v", err)
	}
	if _, err := reg.Find(ctx, ""); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound for empty reference, got %v", err)
	}
}

func TestRegistry_FindByPaymentConfirmation(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry(NewMockBookingRepository(), nil)
	ctx := context.Background()

	booking, err := reg.Register(ctx, draftBooking("pay_lookup"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	found, err := reg.FindByPaymentConfirmation(ctx, "pay_lookup")
	if err != nil {
		t.Fatalf("FindByPaymentConfirmation failed: %v", err)
	}
	if found == nil || found.Reference != booking.Reference {
		t.Errorf("expected booking %s, got %+v", booking.Reference, found)
	}

	missing, err := reg.FindByPaymentConfirmation(ctx, "pay_unknown")
	if err != nil {
		t.Fatalf("FindByPaymentConfirmation failed: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for unknown confirmation, got %+v", missing)
	}
}

func TestRegistry_Cancel(t *testing.T) {
	t.Parallel()

	reg := registry.NewRegistry(NewMockBookingRepository(), nil)
	ctx := context.Background()

	booking, err := reg.Register(ctx, draftBooking("pay_cancel"))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	cancelled, err := reg.Cancel(ctx, booking.Reference, "customer request")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != domain.BookingStatusCancelled {
		t.Errorf("expected status %s, got %s", domain.BookingStatusCancelled, cancelled.Status)
	}
	if cancelled.CancelledAt.IsZero() {
		t.Error("expected CancelledAt to be set")
	}
	if cancelled.CancelReason != "customer request" {
		t.Errorf("unexpected cancel reason %q", cancelled.CancelReason)
	}

	if _, err := reg.Cancel(ctx, booking.Reference, "again"); !errors.Is(err, registry.ErrAlreadyCancelled) {
		t.Errorf("expected ErrAlreadyCancelled, got %v", err)
	}
	if _, err := reg.Cancel(ctx, "TX000000", "unknown"); !errors.Is(err, repository.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
