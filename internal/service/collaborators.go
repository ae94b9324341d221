package service

import (
	"context"

	"github.com/google/uuid"

	"taxitoday/internal/domain"
)

// RouteResolver is the routing collaborator: it turns a pickup/destination
// pair into a driving distance in kilometers.
type RouteResolver interface {
	// ResolveDistance returns the route distance in kilometers, or an error
	// wrapping ErrRouteUnresolved when no route can be computed.
	ResolveDistance(ctx context.Context, pickup, destination domain.Address) (float64, error)
}

// PaymentStatus is the settlement state of a charge as reported by the
// payment provider.
type PaymentStatus string

const (
	PaymentStatusSucceeded PaymentStatus = "SUCCEEDED"
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusFailed    PaymentStatus = "FAILED"
)

// PaymentConfirmation is the provider's receipt for a charge.
type PaymentConfirmation struct {
	ID     string
	Status PaymentStatus
}

// PaymentProvider is the payment collaborator.
type PaymentProvider interface {
	// Charge charges the given amount in minor units. Declines are reported
	// as errors wrapping ErrPaymentDeclined, transport failures as errors
	// wrapping ErrPaymentProviderUnavailable.
	Charge(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentConfirmation, error)

	// Verify re-checks the settlement state of an earlier charge. It is safe
	// to call repeatedly with the same confirmation id.
	Verify(ctx context.Context, confirmationID string) (PaymentStatus, error)
}

// MockPaymentProvider is an in-memory PaymentProvider used in tests and in
// keyless deployments. Every charge succeeds.
type MockPaymentProvider struct{}

// NewMockPaymentProvider creates a new mock payment provider.
func NewMockPaymentProvider() *MockPaymentProvider {
	return &MockPaymentProvider{}
}

// Charge simulates a successful charge.
func (p *MockPaymentProvider) Charge(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*PaymentConfirmation, error) {
	return &PaymentConfirmation{
		ID:     "mock_" + uuid.New().String(),
		Status: PaymentStatusSucceeded,
	}, nil
}

// Verify reports every mock charge as settled.
func (p *MockPaymentProvider) Verify(ctx context.Context, confirmationID string) (PaymentStatus, error) {
	return PaymentStatusSucceeded, nil
}
