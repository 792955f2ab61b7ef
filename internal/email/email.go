package email

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
)

// Sender turns booking lifecycle events into customer notifications. Delivery
// is a structured log line; a mail gateway can replace deliver later.
type Sender struct {
	log     logger.Logger
	deliver func(ctx context.Context, userID, subject, body string) error
}

func NewSender(log logger.Logger) *Sender {
	s := &Sender{log: log}
	s.deliver = s.logDelivery
	return s
}

func (s *Sender) Send(ctx context.Context, event kafka.BookingEvent) error {
	subject, body, ok := render(event)
	if !ok {
		s.log.Debug("no notification for event", "type", event.Type, "booking_id", event.BookingID)
		return nil
	}
	return s.deliver(ctx, event.UserID, subject, body)
}

func (s *Sender) logDelivery(_ context.Context, userID, subject, body string) error {
	s.log.Info("notification sent", "user_id", userID, "subject", subject, "body", body)
	return nil
}

func render(event kafka.BookingEvent) (subject, body string, ok bool) {
	switch event.Type {
	case kafka.EventBookingCreated:
		return "Booking received",
			fmt.Sprintf("Booking %s for flight %s is held until payment.", event.BookingID, event.FlightID), true
	case kafka.EventBookingConfirmed:
		return "Booking confirmed",
			fmt.Sprintf("Booking %s is confirmed. You earned %d loyalty points.", event.BookingID, event.PointsEarned), true
	case kafka.EventBookingCancelled:
		return "Booking cancelled",
			fmt.Sprintf("Booking %s has been cancelled.", event.BookingID), true
	case kafka.EventBookingExpired:
		return "Booking expired",
			fmt.Sprintf("Booking %s expired before payment and its seats were released.", event.BookingID), true
	case kafka.EventBookingRefunded:
		return "Booking refunded",
			fmt.Sprintf("Booking %s was refunded: %s.", event.BookingID, formatCents(event.TotalPriceCents)), true
	}
	return "", "", false
}

func formatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
