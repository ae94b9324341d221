// Package payment implements the payment collaborator on Stripe
// PaymentIntents.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"

	"taxitoday/internal/service"
)

// StripeProvider charges bookings through Stripe PaymentIntents. The intent
// id doubles as the payment confirmation id; the customer-facing checkout
// confirms the intent, and Verify re-checks settlement server-side.
type StripeProvider struct {
	api *client.API
}

// NewStripeProvider creates a provider using the given secret key.
func NewStripeProvider(secretKey string) *StripeProvider {
	api := &client.API{}
	api.Init(secretKey, nil)
	return &StripeProvider{api: api}
}

// Charge creates a payment intent for the frozen quote total.
func (p *StripeProvider) Charge(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*service.PaymentConfirmation, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled:        stripe.Bool(true),
			AllowRedirects: stripe.String("never"),
		},
	}
	for k, v := range metadata {
		params.AddMetadata(k, v)
	}

	intent, err := p.api.PaymentIntents.New(params)
	if err != nil {
		return nil, mapStripeError(err)
	}

	return &service.PaymentConfirmation{
		ID:     intent.ID,
		Status: mapIntentStatus(intent.Status),
	}, nil
}

// Verify fetches the current settlement state of a payment intent.
func (p *StripeProvider) Verify(ctx context.Context, confirmationID string) (service.PaymentStatus, error) {
	params := &stripe.PaymentIntentParams{
		Params: stripe.Params{
			Context: ctx,
		},
	}

	intent, err := p.api.PaymentIntents.Get(confirmationID, params)
	if err != nil {
		return "", mapStripeError(err)
	}

	return mapIntentStatus(intent.Status), nil
}

// mapStripeError folds Stripe errors into the workflow's taxonomy: card
// failures are declines, everything else is provider unavailability.
func mapStripeError(err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return fmt.Errorf("%w: %s", service.ErrPaymentDeclined, stripeErr.Code)
		case stripe.ErrorTypeInvalidRequest:
			if stripeErr.Code == stripe.ErrorCodeCardDeclined {
				return fmt.Errorf("%w: %s", service.ErrPaymentDeclined, stripeErr.Code)
			}
		}
	}
	return fmt.Errorf("%w: %v", service.ErrPaymentProviderUnavailable, err)
}

func mapIntentStatus(status stripe.PaymentIntentStatus) service.PaymentStatus {
	switch status {
	case stripe.PaymentIntentStatusSucceeded:
		return service.PaymentStatusSucceeded
	case stripe.PaymentIntentStatusCanceled:
		return service.PaymentStatusFailed
	default:
		return service.PaymentStatusPending
	}
}

// Ensure the provider implements the collaborator contract.
var _ service.PaymentProvider = (*StripeProvider)(nil)
