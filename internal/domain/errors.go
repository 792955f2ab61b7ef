package domain

import (
	"errors"
	"fmt"
)

// Error kinds. Every error returned by the booking core wraps exactly one of
// them so callers can classify with errors.Is.
var (
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
)

var (
	ErrFlightNotFound    = fmt.Errorf("%w: flight not found", ErrNotFound)
	ErrBookingNotFound   = fmt.Errorf("%w: booking not found", ErrNotFound)
	ErrSeatNotFound      = fmt.Errorf("%w: seat not found", ErrNotFound)
	ErrAmountMismatch    = fmt.Errorf("%w: payment amount does not match booking total", ErrValidation)
	ErrSeatUnavailable   = fmt.Errorf("%w: seat unavailable", ErrConflict)
	ErrBookingNotPayable = fmt.Errorf("%w: booking not payable", ErrConflict)
	ErrInvalidTransition = fmt.Errorf("%w: booking status transition not allowed", ErrConflict)
	ErrFlightNotOpen     = fmt.Errorf("%w: flight not schedulable", ErrConflict)

	// ErrPaymentAfterCancellation is returned when a payment reaches a booking
	// that was cancelled first. Any funds captured upstream must be refunded.
	ErrPaymentAfterCancellation = fmt.Errorf("%w: payment after cancellation", ErrConflict)
)

// Persistence wraps a storage failure. Domain errors pass through unchanged.
func Persistence(err error) error {
	if err == nil || IsDomainError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrPersistence)
}

// IsRefundable reports whether the failure leaves the caller owing a refund.
func IsRefundable(err error) bool {
	return errors.Is(err, ErrPaymentAfterCancellation)
}

// Kind returns a short label of the error kind, used for metrics and logs.
func Kind(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, ErrValidation):
		return "validation"
	case errors.Is(err, ErrConflict):
		return "conflict"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	}
	return "internal"
}
