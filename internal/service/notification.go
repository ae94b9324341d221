package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"taxitoday/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType
	Recipient string // contact email
	Subject   string
	Body      string
	CreatedAt time.Time
}

// NotificationService delivers booking confirmations to customers.
type NotificationService struct {
	// In a real system, this would have an email client (SendGrid) and an
	// SMS client (Twilio/MessageBird) behind it.
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService() *NotificationService {
	return &NotificationService{}
}

// NotifyBookingConfirmed sends the booking confirmation with the fare summary.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	return s.send(ctx, Notification{
		Type:      NotificationBookingConfirmed,
		Recipient: booking.ContactEmail,
		Subject:   fmt.Sprintf("Your taxi booking %s is confirmed", booking.Reference),
		Body:      FormatConfirmation(booking),
		CreatedAt: time.Now(),
	})
}

// NotifyBookingCancelled informs the customer that a booking was cancelled.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, booking *domain.Booking) error {
	body := fmt.Sprintf("Your booking %s has been cancelled.", booking.Reference)
	if booking.CancelReason != "" {
		body += " Reason: " + booking.CancelReason
	}
	return s.send(ctx, Notification{
		Type:      NotificationBookingCancelled,
		Recipient: booking.ContactEmail,
		Subject:   fmt.Sprintf("Booking %s cancelled", booking.Reference),
		Body:      body,
		CreatedAt: time.Now(),
	})
}

// FormatConfirmation formats the booking summary for email delivery.
func FormatConfirmation(booking *domain.Booking) string {
	return `
=====================================
       BOOKING CONFIRMATION
=====================================
Reference: ` + booking.Reference + `
Date:      ` + booking.ScheduledDate + ` ` + booking.ScheduledTime + `

RIDE
-------------------------------------
Pickup:      ` + booking.Route.Pickup.Display + `
Destination: ` + booking.Route.Destination.Display + `
Distance:    ` + fmt.Sprintf("%.1f km", booking.DistanceKm) + `
Passengers:  ` + fmt.Sprintf("%d", booking.PassengerCount) + `
Luggage:     ` + fmt.Sprintf("%d", booking.LuggageCount) + `

FARE
-------------------------------------
Ride fare:    ` + formatCents(booking.Fare.RideFareCents) + `
Service fee:  ` + formatCents(booking.Fare.ServiceFeeCents) + `
VAT:          ` + formatCents(booking.Fare.VATCents) + `
-------------------------------------
TOTAL (paid): ` + formatCents(booking.Fare.TotalCents) + `

=====================================
   Thank you for booking with us!
=====================================
`
}

// send delivers a notification (mock implementation).
func (s *NotificationService) send(ctx context.Context, notification Notification) error {
	log.Printf("[NOTIFICATION] Type=%s, Recipient=%s, Subject=%s",
		notification.Type, notification.Recipient, notification.Subject)
	return nil
}

func formatCents(cents int64) string {
	return fmt.Sprintf("€%d.%02d", cents/100, cents%100)
}
