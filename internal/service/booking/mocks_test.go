package booking

import (
	"context"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) GetForUpdate(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, id, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListExpiredPending(ctx context.Context, deadline time.Time, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, deadline, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockFlightRepository struct {
	mock.Mock
}

func (m *MockFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	args := m.Called(ctx, flight)
	return args.Error(0)
}

func (m *MockFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func (m *MockFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

type MockSeatRepository struct {
	mock.Mock
}

func (m *MockSeatRepository) CreateBatch(ctx context.Context, seats []domain.Seat) error {
	args := m.Called(ctx, seats)
	return args.Error(0)
}

func (m *MockSeatRepository) ListByFlight(ctx context.Context, flightID string, onlyAvailable bool) ([]domain.Seat, error) {
	args := m.Called(ctx, flightID, onlyAvailable)
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Seat, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).([]domain.Seat), args.Error(1)
}

func (m *MockSeatRepository) Reserve(ctx context.Context, flightID, bookingID string, seatIDs []string) error {
	args := m.Called(ctx, flightID, bookingID, seatIDs)
	return args.Error(0)
}

func (m *MockSeatRepository) Release(ctx context.Context, bookingID string) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSeatRepository) Occupy(ctx context.Context, bookingID string) (int64, error) {
	args := m.Called(ctx, bookingID)
	return args.Get(0).(int64), args.Error(1)
}

type MockPassengerRepository struct {
	mock.Mock
}

func (m *MockPassengerRepository) CreateBatch(ctx context.Context, passengers []domain.Passenger) error {
	args := m.Called(ctx, passengers)
	return args.Error(0)
}

func (m *MockPassengerRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Passenger, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Passenger), args.Error(1)
}

type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) GetByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Payment), args.Error(1)
}

type MockLoyaltyRepository struct {
	mock.Mock
}

func (m *MockLoyaltyRepository) Accrue(ctx context.Context, points *domain.LoyaltyPoints) error {
	args := m.Called(ctx, points)
	return args.Error(0)
}

func (m *MockLoyaltyRepository) Balance(ctx context.Context, userID string, now time.Time) (int64, error) {
	args := m.Called(ctx, userID, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLoyaltyRepository) ListByUser(ctx context.Context, userID string) ([]domain.LoyaltyPoints, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.LoyaltyPoints), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) AcquireSeatLocks(ctx context.Context, flightID string, seatIDs []string, owner string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, flightID, seatIDs, owner, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) ReleaseSeatLocks(ctx context.Context, flightID string, seatIDs []string, owner string) error {
	args := m.Called(ctx, flightID, seatIDs, owner)
	return args.Error(0)
}

func (m *MockCache) InvalidateFlights(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockProducer struct {
	mock.Mock
}

func (m *MockProducer) Publish(ctx context.Context, topic, key string, value interface{}) error {
	args := m.Called(ctx, topic, key, value)
	return args.Error(0)
}

// recordingTx runs fn inline and counts how each transaction ended.
type recordingTx struct {
	commits   int
	rollbacks int
}

func (r *recordingTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		r.rollbacks++
		return err
	}
	r.commits++
	return nil
}
