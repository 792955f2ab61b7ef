package api

import (
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/service/booking"
	"github.com/Domenick1991/airline-booking/internal/service/loyalty"
	"github.com/samber/lo"
)

const dateLayout = "2006-01-02"

type bookingResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	FlightID        string `json:"flight_id"`
	Status          string `json:"status"`
	TotalPriceCents int64  `json:"total_price_cents"`
	BookingDate     string `json:"booking_date"`
	ExpiresAt       string `json:"expires_at"`
}

type passengerResponse struct {
	ID             string `json:"id"`
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	DocumentNumber string `json:"document_number"`
	DateOfBirth    string `json:"date_of_birth"`
	SeatID         string `json:"seat_id"`
}

type paymentResponse struct {
	ID          string `json:"id"`
	AmountCents int64  `json:"amount_cents"`
	Method      string `json:"method"`
	Status      string `json:"status"`
	Reference   string `json:"reference,omitempty"`
	PaidAt      string `json:"paid_at"`
}

type bookingDetailsResponse struct {
	bookingResponse
	Passengers []passengerResponse `json:"passengers"`
	Payment    *paymentResponse    `json:"payment"`
}

type paymentResultResponse struct {
	PaymentID    string `json:"payment_id"`
	BookingID    string `json:"booking_id"`
	Status       string `json:"status"`
	Reference    string `json:"reference,omitempty"`
	PointsEarned int64  `json:"points_earned"`
}

type paymentStatusResponse struct {
	BookingID       string           `json:"booking_id"`
	BookingStatus   string           `json:"booking_status"`
	TotalPriceCents int64            `json:"total_price_cents"`
	IsPaid          bool             `json:"is_paid"`
	Payment         *paymentResponse `json:"payment"`
}

type flightResponse struct {
	ID             string `json:"id"`
	FlightNumber   string `json:"flight_number"`
	FromAirport    string `json:"from_airport"`
	ToAirport      string `json:"to_airport"`
	DepartureTime  string `json:"departure_time"`
	ArrivalTime    string `json:"arrival_time"`
	BasePriceCents int64  `json:"base_price_cents"`
	Status         string `json:"status"`
	AvailableSeats int    `json:"available_seats"`
}

type seatResponse struct {
	ID              string `json:"id"`
	SeatNumber      string `json:"seat_number"`
	Class           string `json:"class"`
	Status          string `json:"status"`
	PriceDeltaCents int64  `json:"price_delta_cents"`
}

type accrualResponse struct {
	BookingID string `json:"booking_id"`
	Points    int64  `json:"points"`
	IssuedAt  string `json:"issued_at"`
	ExpiresAt string `json:"expires_at"`
	Expired   bool   `json:"expired"`
}

type loyaltyResponse struct {
	UserID   string            `json:"user_id"`
	Balance  int64             `json:"balance"`
	Accruals []accrualResponse `json:"accruals"`
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		ID:              b.ID,
		UserID:          b.UserID,
		FlightID:        b.FlightID,
		Status:          string(b.Status),
		TotalPriceCents: b.TotalPriceCents,
		BookingDate:     b.BookingDate.Format(time.RFC3339),
		ExpiresAt:       b.ExpiresAt.Format(time.RFC3339),
	}
}

func toBookingResponses(bookings []domain.Booking) []bookingResponse {
	return lo.Map(bookings, func(b domain.Booking, _ int) bookingResponse {
		return toBookingResponse(b)
	})
}

func toPaymentResponse(p *domain.Payment) *paymentResponse {
	if p == nil {
		return nil
	}
	return &paymentResponse{
		ID:          p.ID,
		AmountCents: p.AmountCents,
		Method:      string(p.Method),
		Status:      string(p.Status),
		Reference:   p.Reference,
		PaidAt:      p.PaidAt.Format(time.RFC3339),
	}
}

func toBookingDetailsResponse(d *domain.BookingDetails) bookingDetailsResponse {
	return bookingDetailsResponse{
		bookingResponse: toBookingResponse(d.Booking),
		Passengers: lo.Map(d.Passengers, func(p domain.Passenger, _ int) passengerResponse {
			return passengerResponse{
				ID:             p.ID,
				FirstName:      p.FirstName,
				LastName:       p.LastName,
				DocumentNumber: p.DocumentNumber,
				DateOfBirth:    p.DateOfBirth.Format(dateLayout),
				SeatID:         p.SeatID,
			}
		}),
		Payment: toPaymentResponse(d.Payment),
	}
}

func toPaymentResultResponse(r *booking.PaymentResult) paymentResultResponse {
	return paymentResultResponse{
		PaymentID:    r.PaymentID,
		BookingID:    r.BookingID,
		Status:       string(r.Status),
		Reference:    r.Reference,
		PointsEarned: r.PointsEarned,
	}
}

func toPaymentStatusResponse(s *domain.PaymentSummary) paymentStatusResponse {
	return paymentStatusResponse{
		BookingID:       s.BookingID,
		BookingStatus:   string(s.BookingStatus),
		TotalPriceCents: s.TotalPriceCents,
		IsPaid:          s.IsPaid,
		Payment:         toPaymentResponse(s.Payment),
	}
}

func toFlightResponse(f domain.Flight) flightResponse {
	return flightResponse{
		ID:             f.ID,
		FlightNumber:   f.FlightNumber,
		FromAirport:    f.FromAirport,
		ToAirport:      f.ToAirport,
		DepartureTime:  f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:    f.ArrivalTime.Format(time.RFC3339),
		BasePriceCents: f.BasePriceCents,
		Status:         string(f.Status),
		AvailableSeats: f.AvailableSeats,
	}
}

func toSeatResponses(seats []domain.Seat) []seatResponse {
	return lo.Map(seats, func(s domain.Seat, _ int) seatResponse {
		return seatResponse{
			ID:              s.ID,
			SeatNumber:      s.SeatNumber,
			Class:           string(s.Class),
			Status:          string(s.Status),
			PriceDeltaCents: s.PriceDeltaCents,
		}
	})
}

func toLoyaltyResponse(s *loyalty.Summary, now time.Time) loyaltyResponse {
	return loyaltyResponse{
		UserID:  s.UserID,
		Balance: s.Balance,
		Accruals: lo.Map(s.Accruals, func(a domain.LoyaltyPoints, _ int) accrualResponse {
			return accrualResponse{
				BookingID: a.BookingID,
				Points:    a.Points,
				IssuedAt:  a.IssuedAt.Format(time.RFC3339),
				ExpiresAt: a.ExpiresAt.Format(time.RFC3339),
				Expired:   !a.ExpiresAt.After(now),
			}
		}),
	}
}
