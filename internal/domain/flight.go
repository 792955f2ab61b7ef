package domain

import "time"

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDeparted  FlightStatus = "DEPARTED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
)

type Flight struct {
	ID             string
	FlightNumber   string
	FromAirport    string
	ToAirport      string
	DepartureTime  time.Time
	ArrivalTime    time.Time
	BasePriceCents int64
	Status         FlightStatus
	AvailableSeats int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Schedulable reports whether new bookings may still be taken on the flight.
func (f *Flight) Schedulable(now time.Time) bool {
	return f.Status == FlightStatusScheduled && f.DepartureTime.After(now)
}
