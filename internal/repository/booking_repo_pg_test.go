package repository

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lithammer/shortuuid/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBookingRepository(t *testing.T) {
	pool := &pgxpool.Pool{}
	assert.NotNil(t, NewBookingRepository(pool))
	assert.NotNil(t, NewPassengerRepository(pool))
	assert.NotNil(t, NewSeatRepository(pool))
	assert.NotNil(t, NewTxManager(pool))
}

func seatStatuses(t *testing.T, s *testStore, flight *domain.Flight) map[string]domain.SeatStatus {
	t.Helper()
	seats, err := s.seats.ListByFlight(context.Background(), flight.ID, false)
	require.NoError(t, err)
	statuses := make(map[string]domain.SeatStatus, len(seats))
	for _, seat := range seats {
		statuses[seat.SeatNumber] = seat.Status
	}
	return statuses
}

func TestBooking_CommitReservesSeats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C", "14D", "15A")

	booking := newPendingBooking(flight, "user-"+shortuuid.New(), 300000)
	require.NoError(t, s.book(ctx, booking, seatID(flight, "14C"), seatID(flight, "14D")))

	stored, err := s.bookings.GetByID(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusPending, stored.Status)
	assert.Equal(t, int64(300000), stored.TotalPriceCents)

	passengers, err := s.passengers.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Len(t, passengers, 2)

	assert.Equal(t, map[string]domain.SeatStatus{
		"14C": domain.SeatStatusReserved,
		"14D": domain.SeatStatusReserved,
		"15A": domain.SeatStatusAvailable,
	}, seatStatuses(t, s, flight))

	refreshed, err := s.flights.GetByID(ctx, flight.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshed.AvailableSeats)
}

func TestBooking_FailedReservationRollsBackEverything(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C", "14D")

	first := newPendingBooking(flight, "user-1", 150000)
	require.NoError(t, s.book(ctx, first, seatID(flight, "14D")))

	second := newPendingBooking(flight, "user-2", 300000)
	err := s.book(ctx, second, seatID(flight, "14C"), seatID(flight, "14D"))
	require.ErrorIs(t, err, domain.ErrSeatUnavailable)

	_, err = s.bookings.GetByID(ctx, second.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)

	passengers, err := s.passengers.ListByBooking(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, passengers)

	assert.Equal(t, domain.SeatStatusAvailable, seatStatuses(t, s, flight)["14C"])
}

func TestBooking_UnknownSeat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C")

	booking := newPendingBooking(flight, "user-1", 150000)
	err := s.book(ctx, booking, seatID(flight, "99Z"))

	assert.ErrorIs(t, err, domain.ErrSeatNotFound)
	_, err = s.bookings.GetByID(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestBooking_SeatOfAnotherFlight(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C")
	other := s.seedFlight(t, "14C")

	booking := newPendingBooking(flight, "user-1", 150000)
	err := s.book(ctx, booking, seatID(other, "14C"))

	assert.ErrorIs(t, err, domain.ErrSeatUnavailable)
	assert.Equal(t, domain.SeatStatusAvailable, seatStatuses(t, s, other)["14C"])
}

func TestBooking_UnknownFlight(t *testing.T) {
	s := newTestStore(t)
	booking := newPendingBooking(&domain.Flight{ID: "FL-missing"}, "user-1", 0)

	err := s.bookings.Create(context.Background(), booking)

	assert.ErrorIs(t, err, domain.ErrFlightNotFound)
}

func TestBooking_ConcurrentReservationsOfOneSeat(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C")

	const attempts = 8
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		conflicts atomic.Int32
		start     = make(chan struct{})
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			booking := newPendingBooking(flight, "user-"+shortuuid.New(), 150000)
			err := s.book(ctx, booking, seatID(flight, "14C"))
			switch {
			case err == nil:
				succeeded.Add(1)
			case errors.Is(err, domain.ErrSeatUnavailable):
				conflicts.Add(1)
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), conflicts.Load())
	assert.Equal(t, domain.SeatStatusReserved, seatStatuses(t, s, flight)["14C"])
}

func TestBooking_StatusCompareAndSet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C")
	booking := newPendingBooking(flight, "user-1", 150000)
	require.NoError(t, s.book(ctx, booking, seatID(flight, "14C")))

	cancelled, err := s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStatusCancelled, cancelled.Status)

	_, err = s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestBooking_CancelReleasesSeats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C", "14D")
	booking := newPendingBooking(flight, "user-1", 300000)
	require.NoError(t, s.book(ctx, booking, seatID(flight, "14C"), seatID(flight, "14D")))

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		locked, err := s.bookings.GetForUpdate(ctx, booking.ID)
		if err != nil {
			return err
		}
		if _, err := s.bookings.UpdateStatus(ctx, locked.ID, locked.Status, domain.BookingStatusCancelled); err != nil {
			return err
		}
		released, err := s.seats.Release(ctx, locked.ID)
		assert.Equal(t, int64(2), released)
		return err
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]domain.SeatStatus{
		"14C": domain.SeatStatusAvailable,
		"14D": domain.SeatStatusAvailable,
	}, seatStatuses(t, s, flight))

	again := newPendingBooking(flight, "user-2", 150000)
	assert.NoError(t, s.book(ctx, again, seatID(flight, "14C")))
}

func TestBooking_OccupySeats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C")
	booking := newPendingBooking(flight, "user-1", 150000)
	require.NoError(t, s.book(ctx, booking, seatID(flight, "14C")))

	occupied, err := s.seats.Occupy(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), occupied)

	released, err := s.seats.Release(ctx, booking.ID)
	require.NoError(t, err)
	assert.Zero(t, released)

	seats, err := s.seats.ListByBooking(ctx, booking.ID)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.Equal(t, domain.SeatStatusOccupied, seats[0].Status)
}

func TestBooking_ListExpiredPending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	flight := s.seedFlight(t, "14C", "14D")

	stale := newPendingBooking(flight, "user-1", 150000)
	stale.ExpiresAt = time.Now().Add(-time.Minute)
	fresh := newPendingBooking(flight, "user-1", 150000)
	require.NoError(t, s.book(ctx, stale, seatID(flight, "14C")))
	require.NoError(t, s.book(ctx, fresh, seatID(flight, "14D")))

	expired, err := s.bookings.ListExpiredPending(ctx, time.Now(), 1000)
	require.NoError(t, err)

	ids := make(map[string]bool, len(expired))
	for _, b := range expired {
		ids[b.ID] = true
	}
	assert.True(t, ids[stale.ID])
	assert.False(t, ids[fresh.ID])

	history, err := s.bookings.ListByUser(ctx, "user-1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, len(history), 2)
}
