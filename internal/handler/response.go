package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"taxitoday/internal/fare"
	"taxitoday/internal/quote"
	"taxitoday/internal/registry"
	"taxitoday/internal/repository"
	"taxitoday/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/registry/repository errors to HTTP
// status codes. Every error in the booking core's taxonomy is recoverable
// at this boundary.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, quote.ErrSessionNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, quote.ErrInvalidAddress),
		errors.Is(err, quote.ErrInvalidContact),
		errors.Is(err, fare.ErrInvalidDistance),
		errors.Is(err, fare.ErrUnknownVehicleClass),
		errors.Is(err, service.ErrConfirmationRequired):
		return http.StatusBadRequest

	// Conflict errors - state machine misuse and repeated cancellation
	case errors.Is(err, quote.ErrInvalidTransition),
		errors.Is(err, quote.ErrSessionFrozen),
		errors.Is(err, quote.ErrConfirmationMismatch),
		errors.Is(err, registry.ErrAlreadyCancelled),
		errors.Is(err, service.ErrPaymentNotSettled),
		errors.Is(err, service.ErrPaymentRetryExhausted):
		return http.StatusConflict

	// Payment declined
	case errors.Is(err, service.ErrPaymentDeclined):
		return http.StatusPaymentRequired

	// Collaborator unavailable
	case errors.Is(err, service.ErrRouteUnresolved),
		errors.Is(err, service.ErrPaymentProviderUnavailable):
		return http.StatusServiceUnavailable

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
