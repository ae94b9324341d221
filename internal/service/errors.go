package service

import "errors"

var (
	// ErrRouteUnresolved is returned when the routing collaborator cannot
	// produce a distance for the requested route.
	ErrRouteUnresolved = errors.New("could not compute distance for route")

	// ErrPaymentDeclined is returned when the payment provider declines the charge.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrPaymentProviderUnavailable is returned when the payment provider
	// cannot be reached or answers with a transient failure.
	ErrPaymentProviderUnavailable = errors.New("payment provider unavailable")

	// ErrPaymentRetryExhausted is returned when a charge is attempted more
	// than once after a decline on the same frozen quote.
	ErrPaymentRetryExhausted = errors.New("payment retry limit reached")

	// ErrPaymentNotSettled is returned when completion is attempted with a
	// confirmation id whose charge has not succeeded.
	ErrPaymentNotSettled = errors.New("payment not settled")

	// ErrConfirmationRequired is returned when completion is attempted
	// without a payment confirmation id.
	ErrConfirmationRequired = errors.New("payment confirmation id required")
)
