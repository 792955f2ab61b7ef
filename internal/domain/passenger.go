package domain

import (
	"fmt"
	"strings"
	"time"
)

type Passenger struct {
	ID             string
	BookingID      string
	FirstName      string
	LastName       string
	DocumentNumber string
	DateOfBirth    time.Time
	SeatID         string
	CreatedAt      time.Time
}

// Validate checks the identity fields a passenger must carry before it can
// be attached to a booking.
func (p Passenger) Validate(now time.Time) error {
	switch {
	case strings.TrimSpace(p.FirstName) == "":
		return fmt.Errorf("%w: passenger first name is required", ErrValidation)
	case strings.TrimSpace(p.LastName) == "":
		return fmt.Errorf("%w: passenger last name is required", ErrValidation)
	case strings.TrimSpace(p.DocumentNumber) == "":
		return fmt.Errorf("%w: passenger document number is required", ErrValidation)
	case p.DateOfBirth.IsZero():
		return fmt.Errorf("%w: passenger date of birth is required", ErrValidation)
	case p.DateOfBirth.After(now):
		return fmt.Errorf("%w: passenger date of birth is in the future", ErrValidation)
	}
	return nil
}
