package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"taxitoday/internal/domain"
	"taxitoday/internal/quote"
	"taxitoday/internal/repository"
	"taxitoday/internal/service"
)

// ──────────────────────────────────────────────
// MOCK BOOKING REPOSITORY
// ──────────────────────────────────────────────

// MockBookingRepository is a mock implementation of BookingRepository.
type MockBookingRepository struct {
	mu       sync.RWMutex
	bookings map[string]*domain.Booking // by reference

	// Counters for verification
	CreateCallCount int32
	UpdateCallCount int32

	// Error injection
	CreateError error
	UpdateError error
}

// NewMockBookingRepository creates a new mock booking repository.
func NewMockBookingRepository() *MockBookingRepository {
	return &MockBookingRepository{
		bookings: make(map[string]*domain.Booking),
	}
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.Reference]; ok {
		return repository.ErrDuplicateReference
	}
	copy := *booking
	m.bookings[booking.Reference] = &copy
	return nil
}

func (m *MockBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	booking, ok := m.bookings[reference]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *booking
	return &copy, nil
}

func (m *MockBookingRepository) GetByPaymentConfirmation(ctx context.Context, confirmationID string) (*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, b := range m.bookings {
		if b.PaymentConfirmationID == confirmationID {
			copy := *b
			return &copy, nil
		}
	}
	return nil, nil
}

func (m *MockBookingRepository) GetAll(ctx context.Context) ([]*domain.Booking, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Booking, 0, len(m.bookings))
	for _, b := range m.bookings {
		copy := *b
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	atomic.AddInt32(&m.UpdateCallCount, 1)
	if m.UpdateError != nil {
		return m.UpdateError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.bookings[booking.Reference]; !ok {
		return repository.ErrNotFound
	}
	copy := *booking
	m.bookings[booking.Reference] = &copy
	return nil
}

// CountBookings returns the number of stored bookings.
func (m *MockBookingRepository) CountBookings() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.bookings)
}

// ──────────────────────────────────────────────
// MOCK SESSION STORE
// ──────────────────────────────────────────────

// MockSessionStore is an in-memory implementation of quote.SessionStore.
type MockSessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*quote.Session

	// Counters for verification
	SaveCallCount   int32
	DeleteCallCount int32

	// Error injection
	SaveError error
	GetError  error
}

// NewMockSessionStore creates a new mock session store.
func NewMockSessionStore() *MockSessionStore {
	return &MockSessionStore{
		sessions: make(map[string]*quote.Session),
	}
}

func (m *MockSessionStore) Save(ctx context.Context, session *quote.Session) error {
	atomic.AddInt32(&m.SaveCallCount, 1)
	if m.SaveError != nil {
		return m.SaveError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.ID] = copySession(session)
	return nil
}

func (m *MockSessionStore) Get(ctx context.Context, id string) (*quote.Session, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, quote.ErrSessionNotFound
	}
	return copySession(session), nil
}

func (m *MockSessionStore) Delete(ctx context.Context, id string) error {
	atomic.AddInt32(&m.DeleteCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// CountSessions returns the number of stored sessions.
func (m *MockSessionStore) CountSessions() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func copySession(s *quote.Session) *quote.Session {
	copy := *s
	if s.Fare != nil {
		fare := *s.Fare
		copy.Fare = &fare
	}
	return &copy
}

// ──────────────────────────────────────────────
// MOCK ROUTE RESOLVER
// ──────────────────────────────────────────────

// MockRouteResolver is a mock implementation of service.RouteResolver.
type MockRouteResolver struct {
	DistanceKm float64
	Err        error

	// WaitForCancel makes the resolver block until the context is
	// cancelled, simulating a hung routing provider.
	WaitForCancel bool

	CallCount int32
}

func (m *MockRouteResolver) ResolveDistance(ctx context.Context, pickup, destination domain.Address) (float64, error) {
	atomic.AddInt32(&m.CallCount, 1)
	if m.WaitForCancel {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	if m.Err != nil {
		return 0, m.Err
	}
	return m.DistanceKm, nil
}

// ──────────────────────────────────────────────
// SCRIPTED PAYMENT PROVIDER
// ──────────────────────────────────────────────

// ScriptedPaymentProvider is a PaymentProvider whose charge outcomes are
// scripted per call. After the script runs out every charge succeeds.
type ScriptedPaymentProvider struct {
	mu sync.Mutex

	// ChargeErrors is consumed one entry per Charge call; a nil entry means
	// the call succeeds.
	ChargeErrors []error

	// ChargeWaitForCancel makes Charge block until the context is cancelled,
	// simulating a hung payment provider.
	ChargeWaitForCancel bool

	// VerifyStatus is reported for every Verify call (default SUCCEEDED).
	VerifyStatus service.PaymentStatus
	VerifyError  error

	// Recorded calls for assertions.
	ChargedAmounts []int64
	Confirmations  []string

	counter int
}

// NewScriptedPaymentProvider creates a provider with the given charge script.
func NewScriptedPaymentProvider(chargeErrors ...error) *ScriptedPaymentProvider {
	return &ScriptedPaymentProvider{ChargeErrors: chargeErrors}
}

func (p *ScriptedPaymentProvider) Charge(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*service.PaymentConfirmation, error) {
	if p.ChargeWaitForCancel {
		<-ctx.Done()
		return nil, ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.ChargedAmounts = append(p.ChargedAmounts, amountCents)

	var err error
	if len(p.ChargeErrors) > 0 {
		err = p.ChargeErrors[0]
		p.ChargeErrors = p.ChargeErrors[1:]
	}
	if err != nil {
		return nil, err
	}

	p.counter++
	id := fmt.Sprintf("pay_%d", p.counter)
	p.Confirmations = append(p.Confirmations, id)
	return &service.PaymentConfirmation{ID: id, Status: service.PaymentStatusSucceeded}, nil
}

func (p *ScriptedPaymentProvider) Verify(ctx context.Context, confirmationID string) (service.PaymentStatus, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.VerifyError != nil {
		return "", p.VerifyError
	}
	if p.VerifyStatus == "" {
		return service.PaymentStatusSucceeded, nil
	}
	return p.VerifyStatus, nil
}

// ChargeCallCount returns the number of charge attempts.
func (p *ScriptedPaymentProvider) ChargeCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.ChargedAmounts)
}
