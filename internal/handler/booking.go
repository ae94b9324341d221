package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taxitoday/internal/domain"
	"taxitoday/internal/quote"
	"taxitoday/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// StartBookingRequest is the HTTP request body for starting a booking.
type StartBookingRequest struct {
	QuoteID       string `json:"quote_id"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	ScheduledDate string `json:"scheduled_date,omitempty"` // YYYY-MM-DD
	ScheduledTime string `json:"scheduled_time,omitempty"` // HH:MM
	Passengers    int    `json:"passengers,omitempty"`
	Luggage       int    `json:"luggage,omitempty"`
}

// StartBookingResponse is the HTTP response for a started booking.
type StartBookingResponse struct {
	QuoteID        string `json:"quote_id"`
	ConfirmationID string `json:"confirmation_id"`
	AmountCents    int64  `json:"amount_cents"`
	Currency       string `json:"currency"`
}

// CompleteBookingRequest is the HTTP request body for completing a booking.
type CompleteBookingRequest struct {
	QuoteID        string `json:"quote_id"`
	ConfirmationID string `json:"confirmation_id"`
}

// CancelBookingRequest is the HTTP request body for cancelling a booking.
type CancelBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

// BookingResponse is the HTTP representation of a booking.
type BookingResponse struct {
	Reference      string       `json:"reference"`
	Status         string       `json:"status"`
	Pickup         string       `json:"pickup"`
	Destination    string       `json:"destination"`
	DistanceKm     float64      `json:"distance_km"`
	Fare           FareResponse `json:"fare"`
	ContactEmail   string       `json:"contact_email"`
	ContactPhone   string       `json:"contact_phone"`
	ScheduledDate  string       `json:"scheduled_date,omitempty"`
	ScheduledTime  string       `json:"scheduled_time,omitempty"`
	Passengers     int          `json:"passengers"`
	Luggage        int          `json:"luggage"`
	CreatedAt      string       `json:"created_at"`
	CancelledAt    string       `json:"cancelled_at,omitempty"`
	CancelReason   string       `json:"cancel_reason,omitempty"`
}

// StartBooking handles POST /v1/bookings/start
func (h *BookingHandler) StartBooking(c *gin.Context) {
	var req StartBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	result, err := h.bookingService.StartBooking(c.Request.Context(), service.StartBookingRequest{
		SessionID: req.QuoteID,
		Email:     req.Email,
		Phone:     req.Phone,
		Schedule: quote.Schedule{
			Date:       req.ScheduledDate,
			Time:       req.ScheduledTime,
			Passengers: req.Passengers,
			Luggage:    req.Luggage,
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, StartBookingResponse{
		QuoteID:        req.QuoteID,
		ConfirmationID: result.ConfirmationID,
		AmountCents:    result.AmountCents,
		Currency:       result.Currency,
	})
}

// CompleteBooking handles POST /v1/bookings/complete
func (h *BookingHandler) CompleteBooking(c *gin.Context) {
	var req CompleteBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CompleteBooking(c.Request.Context(), req.QuoteID, req.ConfirmationID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, bookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:ref
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

// CancelBooking handles POST /v1/bookings/:ref/cancel
func (h *BookingHandler) CancelBooking(c *gin.Context) {
	var req CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("ref"), req.Reason)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}

func bookingResponse(b *domain.Booking) BookingResponse {
	response := BookingResponse{
		Reference:     b.Reference,
		Status:        string(b.Status),
		Pickup:        b.Route.Pickup.Display,
		Destination:   b.Route.Destination.Display,
		DistanceKm:    b.DistanceKm,
		Fare:          fareResponse(b.Fare),
		ContactEmail:  b.ContactEmail,
		ContactPhone:  b.ContactPhone,
		ScheduledDate: b.ScheduledDate,
		ScheduledTime: b.ScheduledTime,
		Passengers:    b.PassengerCount,
		Luggage:       b.LuggageCount,
		CreatedAt:     b.CreatedAt.Format(time.RFC3339),
	}

	if !b.CancelledAt.IsZero() {
		response.CancelledAt = b.CancelledAt.Format(time.RFC3339)
		response.CancelReason = b.CancelReason
	}

	return response
}
