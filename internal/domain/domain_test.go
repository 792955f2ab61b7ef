package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_CanTransitionTo(t *testing.T) {
	testCases := []struct {
		from, to BookingStatus
		allowed  bool
	}{
		{BookingStatusPending, BookingStatusConfirmed, true},
		{BookingStatusPending, BookingStatusCancelled, true},
		{BookingStatusConfirmed, BookingStatusRefunded, true},
		{BookingStatusConfirmed, BookingStatusCompleted, true},
		{BookingStatusPending, BookingStatusRefunded, false},
		{BookingStatusConfirmed, BookingStatusPending, false},
		{BookingStatusCancelled, BookingStatusConfirmed, false},
		{BookingStatusRefunded, BookingStatusConfirmed, false},
		{BookingStatusCompleted, BookingStatusRefunded, false},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s->%s", tc.from, tc.to), func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestBookingStatus_IsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusRefunded.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
}

func TestBooking_Expired(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	b := Booking{Status: BookingStatusPending, ExpiresAt: now}
	assert.True(t, b.Expired(now))
	assert.False(t, b.Expired(now.Add(-time.Second)))

	b.Status = BookingStatusConfirmed
	assert.False(t, b.Expired(now.Add(time.Hour)))
}

func TestPointsForAmount(t *testing.T) {
	assert.Equal(t, int64(30), PointsForAmount(300000))
	assert.Equal(t, int64(0), PointsForAmount(9999))
	assert.Equal(t, int64(1), PointsForAmount(10000))
	assert.Equal(t, int64(1), PointsForAmount(19999))
	assert.Equal(t, int64(0), PointsForAmount(-500))
}

func TestNewAccrual(t *testing.T) {
	issued := time.Date(2026, 2, 28, 10, 0, 0, 0, time.UTC)
	acc := NewAccrual("BK-1", 300000, issued)
	assert.Equal(t, "BK-1", acc.BookingID)
	assert.Equal(t, int64(30), acc.Points)
	assert.Equal(t, time.Date(2027, 2, 28, 10, 0, 0, 0, time.UTC), acc.ExpiresAt)
}

func TestPaymentMethod_Reference(t *testing.T) {
	ref, err := PaymentMethodCreditCard.Reference(PaymentDetails{CardNumber: "4242 4242 4242 4242"})
	require.NoError(t, err)
	assert.Equal(t, "****4242", ref)

	ref, err = PaymentMethodBankTransfer.Reference(PaymentDetails{AccountNumber: "123-456-7890"})
	require.NoError(t, err)
	assert.Equal(t, "****7890", ref)

	ref, err = PaymentMethodCash.Reference(PaymentDetails{})
	require.NoError(t, err)
	assert.Empty(t, ref)

	_, err = PaymentMethodDebitCard.Reference(PaymentDetails{CardNumber: "12ab"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = PaymentMethod("crypto").Reference(PaymentDetails{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestPassenger_Validate(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	valid := Passenger{FirstName: "Ann", LastName: "Lee", DocumentNumber: "P123", DateOfBirth: now.AddDate(-30, 0, 0)}
	assert.NoError(t, valid.Validate(now))

	noDoc := valid
	noDoc.DocumentNumber = " "
	assert.ErrorIs(t, noDoc.Validate(now), ErrValidation)

	future := valid
	future.DateOfBirth = now.AddDate(0, 0, 1)
	assert.ErrorIs(t, future.Validate(now), ErrValidation)
}

func TestErrorKinds(t *testing.T) {
	assert.ErrorIs(t, ErrSeatUnavailable, ErrConflict)
	assert.ErrorIs(t, ErrPaymentAfterCancellation, ErrConflict)
	assert.ErrorIs(t, ErrBookingNotFound, ErrNotFound)
	assert.True(t, IsRefundable(fmt.Errorf("pay: %w", ErrPaymentAfterCancellation)))
	assert.False(t, IsRefundable(ErrBookingNotPayable))

	storage := errors.New("connection reset")
	wrapped := Persistence(storage)
	assert.ErrorIs(t, wrapped, ErrPersistence)
	assert.ErrorIs(t, wrapped, storage)
	assert.Equal(t, ErrSeatUnavailable, Persistence(ErrSeatUnavailable))
	assert.Nil(t, Persistence(nil))

	assert.Equal(t, "conflict", Kind(ErrSeatUnavailable))
	assert.Equal(t, "persistence", Kind(wrapped))
	assert.Equal(t, "internal", Kind(storage))
}

func TestFlight_Schedulable(t *testing.T) {
	now := time.Now()
	f := Flight{Status: FlightStatusScheduled, DepartureTime: now.Add(time.Hour)}
	assert.True(t, f.Schedulable(now))
	f.DepartureTime = now.Add(-time.Hour)
	assert.False(t, f.Schedulable(now))
	f.DepartureTime = now.Add(time.Hour)
	f.Status = FlightStatusCancelled
	assert.False(t, f.Schedulable(now))
}
