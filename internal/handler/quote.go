package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taxitoday/internal/domain"
	"taxitoday/internal/fare"
	"taxitoday/internal/service"
)

// userIDHeader carries the authenticated user id set by the identity layer.
// Absent means anonymous.
const userIDHeader = "X-User-ID"

// QuoteHandler handles HTTP requests for fare quotes.
type QuoteHandler struct {
	bookingService *service.BookingService
}

// NewQuoteHandler creates a new QuoteHandler.
func NewQuoteHandler(bookingService *service.BookingService) *QuoteHandler {
	return &QuoteHandler{bookingService: bookingService}
}

// CreateQuoteRequest is the HTTP request body for requesting a quote.
type CreateQuoteRequest struct {
	Pickup         string   `json:"pickup"`
	PickupLat      *float64 `json:"pickup_lat,omitempty"`
	PickupLng      *float64 `json:"pickup_lng,omitempty"`
	Destination    string   `json:"destination"`
	DestinationLat *float64 `json:"destination_lat,omitempty"`
	DestinationLng *float64 `json:"destination_lng,omitempty"`
	VehicleClass   string   `json:"vehicle_class,omitempty"` // STANDARD, COMFORT, VAN
}

// FareResponse is the JSON shape of a fare breakdown. Cents fields are the
// authoritative amounts; the display strings are for the price summary.
type FareResponse struct {
	RideFareCents   int64  `json:"ride_fare_cents"`
	ServiceFeeCents int64  `json:"service_fee_cents"`
	SubtotalCents   int64  `json:"subtotal_cents"`
	VATCents        int64  `json:"vat_cents"`
	TotalCents      int64  `json:"total_cents"`
	Currency        string `json:"currency"`
}

// QuoteResponse is the HTTP response for a created quote.
type QuoteResponse struct {
	QuoteID      string       `json:"quote_id"`
	DistanceKm   float64      `json:"distance_km"`
	VehicleClass string       `json:"vehicle_class"`
	Fare         FareResponse `json:"fare"`
}

// GetQuoteResponse is the HTTP response for fetching a quote session.
type GetQuoteResponse struct {
	QuoteID      string        `json:"quote_id"`
	State        string        `json:"state"`
	Pickup       string        `json:"pickup"`
	Destination  string        `json:"destination"`
	DistanceKm   float64       `json:"distance_km"`
	VehicleClass string        `json:"vehicle_class"`
	Fare         *FareResponse `json:"fare,omitempty"`
}

// CreateQuote handles POST /v1/quotes
func (h *QuoteHandler) CreateQuote(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	class, err := fare.ParseVehicleClass(req.VehicleClass)
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.bookingService.Quote(c.Request.Context(), service.QuoteRequest{
		Pickup:       domain.Address{Display: req.Pickup, Lat: req.PickupLat, Lng: req.PickupLng},
		Destination:  domain.Address{Display: req.Destination, Lat: req.DestinationLat, Lng: req.DestinationLng},
		VehicleClass: class,
		UserID:       c.GetHeader(userIDHeader),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, QuoteResponse{
		QuoteID:      result.SessionID,
		DistanceKm:   result.DistanceKm,
		VehicleClass: string(class),
		Fare:         fareResponse(result.Fare),
	})
}

// GetQuote handles GET /v1/quotes/:id
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	session, err := h.bookingService.GetQuote(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := GetQuoteResponse{
		QuoteID:      session.ID,
		State:        string(session.State),
		Pickup:       session.Route.Pickup.Display,
		Destination:  session.Route.Destination.Display,
		DistanceKm:   session.DistanceKm,
		VehicleClass: string(session.VehicleClass),
	}
	if session.Fare != nil {
		f := fareResponse(*session.Fare)
		response.Fare = &f
	}

	respondJSON(c, http.StatusOK, response)
}

// AbandonQuote handles POST /v1/quotes/:id/abandon
func (h *QuoteHandler) AbandonQuote(c *gin.Context) {
	if err := h.bookingService.AbandonQuote(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, gin.H{"status": "abandoned"})
}

func fareResponse(f domain.FareBreakdown) FareResponse {
	return FareResponse{
		RideFareCents:   f.RideFareCents,
		ServiceFeeCents: f.ServiceFeeCents,
		SubtotalCents:   f.SubtotalCents,
		VATCents:        f.VATCents,
		TotalCents:      f.TotalCents,
		Currency:        f.Currency,
	}
}
