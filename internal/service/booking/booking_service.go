package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/kafka"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/metrics"
	"github.com/Domenick1991/airline-booking/internal/repository"
	"github.com/google/uuid"
	"github.com/lithammer/shortuuid/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSeatLockTTL = 30 * time.Second
	expireBatchSize    = 100
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	ProcessPayment(ctx context.Context, input ProcessPaymentInput) (*PaymentResult, error)
	CancelBooking(ctx context.Context, id string) (*domain.Booking, error)
	RefundBooking(ctx context.Context, id string) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, id string) (*domain.Booking, error)
	IsExpired(ctx context.Context, id string) (bool, error)
	ExpirePendingBookings(ctx context.Context) ([]domain.Booking, error)
	GetBooking(ctx context.Context, id string) (*domain.BookingDetails, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
	PaymentStatus(ctx context.Context, id string) (*domain.PaymentSummary, error)
}

// Cache is the optional seat lock fast path. The database stays
// authoritative; a nil Cache or a failing one only costs the early rejection.
type Cache interface {
	AcquireSeatLocks(ctx context.Context, flightID string, seatIDs []string, owner string, ttl time.Duration) (bool, error)
	ReleaseSeatLocks(ctx context.Context, flightID string, seatIDs []string, owner string) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

// Repositories groups the ledgers the coordinator writes to.
type Repositories struct {
	Bookings   repository.BookingRepository
	Flights    repository.FlightRepository
	Seats      repository.SeatRepository
	Passengers repository.PassengerRepository
	Payments   repository.PaymentRepository
	Loyalty    repository.LoyaltyRepository
}

type BookingService struct {
	bookings   repository.BookingRepository
	flights    repository.FlightRepository
	seats      repository.SeatRepository
	passengers repository.PassengerRepository
	payments   repository.PaymentRepository
	loyalty    repository.LoyaltyRepository
	tx         repository.TxManager

	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	holdTTL            time.Duration
	seatLockTTL        time.Duration

	log     logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

type CreateBookingInput struct {
	FlightID        string
	UserID          string
	Passengers      []domain.Passenger
	SeatIDs         []string
	TotalPriceCents int64
}

type ProcessPaymentInput struct {
	BookingID   string
	AmountCents int64
	Method      domain.PaymentMethod
	Details     domain.PaymentDetails
}

type PaymentResult struct {
	PaymentID    string
	BookingID    string
	Status       domain.BookingStatus
	Reference    string
	PointsEarned int64
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

func WithLogger(log logger.Logger) BookingServiceOption {
	return func(s *BookingService) {
		s.log = log
	}
}

func WithMetrics(m *metrics.Metrics) BookingServiceOption {
	return func(s *BookingService) {
		s.metrics = m
	}
}

func WithClock(now func() time.Time) BookingServiceOption {
	return func(s *BookingService) {
		s.now = now
	}
}

func WithSeatLockTTL(ttl time.Duration) BookingServiceOption {
	return func(s *BookingService) {
		if ttl > 0 {
			s.seatLockTTL = ttl
		}
	}
}

func NewBookingService(
	repos Repositories,
	tx repository.TxManager,
	cache Cache,
	producer Producer,
	bookingTopic string,
	holdTTL time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:     repos.Bookings,
		flights:      repos.Flights,
		seats:        repos.Seats,
		passengers:   repos.Passengers,
		payments:     repos.Payments,
		loyalty:      repos.Loyalty,
		tx:           tx,
		cache:        cache,
		producer:     producer,
		bookingTopic: bookingTopic,
		holdTTL:      holdTTL,
		seatLockTTL:  defaultSeatLockTTL,
		log:          logger.NewNop(),
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(service)
	}
	if service.metrics == nil {
		service.metrics = metrics.NewMetrics("booking", prometheus.NewRegistry())
	}
	return service
}

// CreateBooking stores a PENDING booking with its passengers and reserves the
// requested seats. Passenger i sits in SeatIDs[i]. Either everything is
// written or nothing is.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (_ *domain.Booking, err error) {
	defer s.observe("create_booking", time.Now(), &err)

	now := s.now()
	if err := validateCreate(input, now); err != nil {
		return nil, err
	}

	flight, err := s.flights.GetByID(ctx, input.FlightID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if !flight.Schedulable(now) {
		return nil, fmt.Errorf("%w: %s", domain.ErrFlightNotOpen, flight.ID)
	}

	booking := &domain.Booking{
		ID:              "BK-" + shortuuid.New(),
		UserID:          input.UserID,
		FlightID:        flight.ID,
		BookingDate:     now,
		TotalPriceCents: input.TotalPriceCents,
		Status:          domain.BookingStatusPending,
		ExpiresAt:       now.Add(s.holdTTL),
	}

	if s.cache != nil {
		ok, lockErr := s.cache.AcquireSeatLocks(ctx, flight.ID, input.SeatIDs, booking.ID, s.seatLockTTL)
		switch {
		case lockErr != nil:
			s.log.Warn("seat locks unavailable, relying on database", "flight_id", flight.ID, "error", lockErr)
		case !ok:
			return nil, fmt.Errorf("%w: seats are held by another booking", domain.ErrSeatUnavailable)
		default:
			defer func() {
				if err := s.cache.ReleaseSeatLocks(context.WithoutCancel(ctx), flight.ID, input.SeatIDs, booking.ID); err != nil {
					s.log.Warn("failed to release seat locks", "booking_id", booking.ID, "error", err)
				}
			}()
		}
	}

	passengers := make([]domain.Passenger, len(input.Passengers))
	for i, p := range input.Passengers {
		p.ID = uuid.NewString()
		p.BookingID = booking.ID
		p.SeatID = input.SeatIDs[i]
		p.CreatedAt = now
		passengers[i] = p
	}

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.bookings.Create(ctx, booking); err != nil {
			return err
		}
		if err := s.passengers.CreateBatch(ctx, passengers); err != nil {
			return err
		}
		return s.seats.Reserve(ctx, flight.ID, booking.ID, input.SeatIDs)
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	s.metrics.BookingsCreated.Inc()
	s.invalidateFlights(ctx)
	s.publish(ctx, kafka.EventBookingCreated, booking, func(e *kafka.BookingEvent) {
		e.SeatIDs = input.SeatIDs
	})
	s.log.Info("booking created", "booking_id", booking.ID, "flight_id", flight.ID, "seats", len(input.SeatIDs))
	return booking, nil
}

func validateCreate(input CreateBookingInput, now time.Time) error {
	switch {
	case strings.TrimSpace(input.FlightID) == "":
		return fmt.Errorf("%w: flight id is required", domain.ErrValidation)
	case strings.TrimSpace(input.UserID) == "":
		return fmt.Errorf("%w: user id is required", domain.ErrValidation)
	case len(input.Passengers) == 0:
		return fmt.Errorf("%w: at least one passenger is required", domain.ErrValidation)
	case len(input.Passengers) != len(input.SeatIDs):
		return fmt.Errorf("%w: %d passengers for %d seats", domain.ErrValidation, len(input.Passengers), len(input.SeatIDs))
	case lo.Contains(input.SeatIDs, ""):
		return fmt.Errorf("%w: seat id must not be empty", domain.ErrValidation)
	case input.TotalPriceCents < 0:
		return fmt.Errorf("%w: total price must not be negative", domain.ErrValidation)
	}
	if dup := lo.FindDuplicates(input.SeatIDs); len(dup) > 0 {
		return fmt.Errorf("%w: seat %s requested more than once", domain.ErrValidation, dup[0])
	}
	for i, p := range input.Passengers {
		if err := p.Validate(now); err != nil {
			return fmt.Errorf("passenger %d: %w", i+1, err)
		}
	}
	return nil
}

// ProcessPayment records a completed payment, confirms the booking and
// accrues loyalty points in one transaction. A payment that reaches a
// cancelled booking fails with domain.ErrPaymentAfterCancellation and records
// nothing.
func (s *BookingService) ProcessPayment(ctx context.Context, input ProcessPaymentInput) (_ *PaymentResult, err error) {
	defer s.observe("process_payment", time.Now(), &err)

	if strings.TrimSpace(input.BookingID) == "" {
		return nil, fmt.Errorf("%w: booking id is required", domain.ErrValidation)
	}
	if input.AmountCents < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative", domain.ErrValidation)
	}
	reference, err := input.Method.Reference(input.Details)
	if err != nil {
		return nil, err
	}

	now := s.now()
	var (
		confirmed *domain.Booking
		result    *PaymentResult
	)
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		booking, err := s.bookings.GetForUpdate(ctx, input.BookingID)
		if err != nil {
			return err
		}
		switch {
		case booking.Status == domain.BookingStatusCancelled:
			return fmt.Errorf("%w: booking %s", domain.ErrPaymentAfterCancellation, booking.ID)
		case booking.Status != domain.BookingStatusPending:
			return fmt.Errorf("%w: booking %s is %s", domain.ErrBookingNotPayable, booking.ID, booking.Status)
		case booking.Expired(now):
			return fmt.Errorf("%w: booking %s hold expired", domain.ErrBookingNotPayable, booking.ID)
		case input.AmountCents != booking.TotalPriceCents:
			return fmt.Errorf("%w: got %d, want %d", domain.ErrAmountMismatch, input.AmountCents, booking.TotalPriceCents)
		}

		payment := &domain.Payment{
			ID:          "PAY-" + shortuuid.New(),
			BookingID:   booking.ID,
			AmountCents: input.AmountCents,
			Method:      input.Method,
			Status:      domain.PaymentStatusCompleted,
			Reference:   reference,
			PaidAt:      now,
		}
		if err := s.payments.Create(ctx, payment); err != nil {
			return err
		}

		confirmed, err = s.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusPending, domain.BookingStatusConfirmed)
		if err != nil {
			return err
		}

		accrual := domain.NewAccrual(booking.ID, payment.AmountCents, now)
		if accrual.Points > 0 {
			if err := s.loyalty.Accrue(ctx, &accrual); err != nil {
				return err
			}
		}

		result = &PaymentResult{
			PaymentID:    payment.ID,
			BookingID:    booking.ID,
			Status:       confirmed.Status,
			Reference:    reference,
			PointsEarned: accrual.Points,
		}
		return nil
	})
	if err != nil {
		return nil, domain.Persistence(err)
	}

	s.metrics.PaymentsProcessed.WithLabelValues(string(input.Method)).Inc()
	s.metrics.LoyaltyPoints.Add(float64(result.PointsEarned))
	s.publish(ctx, kafka.EventBookingConfirmed, confirmed, func(e *kafka.BookingEvent) {
		e.PaymentID = result.PaymentID
		e.PointsEarned = result.PointsEarned
	})
	s.log.Info("payment processed", "booking_id", result.BookingID, "payment_id", result.PaymentID, "points", result.PointsEarned)
	return result, nil
}

// CancelBooking releases the booking's seats. A PENDING booking becomes
// CANCELLED, a CONFIRMED one REFUNDED. Cancelling an already cancelled or
// refunded booking returns it unchanged.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (_ *domain.Booking, err error) {
	defer s.observe("cancel_booking", time.Now(), &err)

	booking, changed, err := s.transition(ctx, id, func(b *domain.Booking) (domain.BookingStatus, error) {
		switch b.Status {
		case domain.BookingStatusPending:
			return domain.BookingStatusCancelled, nil
		case domain.BookingStatusConfirmed:
			return domain.BookingStatusRefunded, nil
		case domain.BookingStatusCancelled, domain.BookingStatusRefunded:
			return b.Status, nil
		}
		return "", invalidTransition(b, domain.BookingStatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.released(ctx, booking)
	}
	return booking, nil
}

func (s *BookingService) RefundBooking(ctx context.Context, id string) (_ *domain.Booking, err error) {
	defer s.observe("refund_booking", time.Now(), &err)

	booking, changed, err := s.transition(ctx, id, func(b *domain.Booking) (domain.BookingStatus, error) {
		switch b.Status {
		case domain.BookingStatusConfirmed:
			return domain.BookingStatusRefunded, nil
		case domain.BookingStatusRefunded:
			return b.Status, nil
		}
		return "", invalidTransition(b, domain.BookingStatusRefunded)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.released(ctx, booking)
	}
	return booking, nil
}

// CompleteBooking closes a flown booking; its seats become OCCUPIED.
func (s *BookingService) CompleteBooking(ctx context.Context, id string) (_ *domain.Booking, err error) {
	defer s.observe("complete_booking", time.Now(), &err)

	booking, changed, err := s.transition(ctx, id, func(b *domain.Booking) (domain.BookingStatus, error) {
		switch b.Status {
		case domain.BookingStatusConfirmed:
			return domain.BookingStatusCompleted, nil
		case domain.BookingStatusCompleted:
			return b.Status, nil
		}
		return "", invalidTransition(b, domain.BookingStatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(ctx, kafka.EventBookingCompleted, booking, nil)
	}
	return booking, nil
}

func (s *BookingService) IsExpired(ctx context.Context, id string) (bool, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return false, domain.Persistence(err)
	}
	return booking.Expired(s.now()), nil
}

// ExpirePendingBookings cancels PENDING bookings whose hold has run out, one
// transaction per booking. A failure on one booking does not stop the sweep;
// the failures are returned joined together with the bookings that expired.
func (s *BookingService) ExpirePendingBookings(ctx context.Context) (_ []domain.Booking, err error) {
	defer s.observe("expire_pending", time.Now(), &err)

	now := s.now()
	candidates, err := s.bookings.ListExpiredPending(ctx, now, expireBatchSize)
	if err != nil {
		return nil, domain.Persistence(err)
	}

	expired := make([]domain.Booking, 0, len(candidates))
	var errs []error
	for _, candidate := range candidates {
		booking, changed, err := s.transition(ctx, candidate.ID, func(b *domain.Booking) (domain.BookingStatus, error) {
			if !b.Expired(now) {
				return b.Status, nil
			}
			return domain.BookingStatusCancelled, nil
		})
		if err != nil {
			s.log.Error("failed to expire booking", "booking_id", candidate.ID, "error", err)
			errs = append(errs, fmt.Errorf("expire %s: %w", candidate.ID, err))
			continue
		}
		if !changed {
			continue
		}
		expired = append(expired, *booking)
		s.metrics.BookingsReleased.WithLabelValues("expired").Inc()
		s.publish(ctx, kafka.EventBookingExpired, booking, nil)
	}
	if len(expired) > 0 {
		s.invalidateFlights(ctx)
		s.log.Info("expired pending bookings", "count", len(expired))
	}
	return expired, errors.Join(errs...)
}

func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.BookingDetails, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence(err)
	}

	details := &domain.BookingDetails{Booking: *booking}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		passengers, err := s.passengers.ListByBooking(gctx, id)
		details.Passengers = passengers
		return err
	})
	g.Go(func() error {
		payment, err := s.payments.GetByBooking(gctx, id)
		details.Payment = payment
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, domain.Persistence(err)
	}
	return details, nil
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("%w: user id is required", domain.ErrValidation)
	}
	bookings, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return bookings, nil
}

func (s *BookingService) PaymentStatus(ctx context.Context, id string) (*domain.PaymentSummary, error) {
	booking, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	payment, err := s.payments.GetByBooking(ctx, id)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return &domain.PaymentSummary{
		BookingID:       booking.ID,
		BookingStatus:   booking.Status,
		TotalPriceCents: booking.TotalPriceCents,
		Payment:         payment,
		IsPaid:          payment != nil && payment.Status == domain.PaymentStatusCompleted,
	}, nil
}

// transition locks the booking, asks next for the target status and applies
// it together with the matching seat change. Returning the current status
// from next leaves the booking untouched and reports changed as false.
func (s *BookingService) transition(
	ctx context.Context,
	id string,
	next func(b *domain.Booking) (domain.BookingStatus, error),
) (booking *domain.Booking, changed bool, err error) {
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.bookings.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		target, err := next(current)
		if err != nil {
			return err
		}
		if target == current.Status {
			booking = current
			return nil
		}

		updated, err := s.bookings.UpdateStatus(ctx, id, current.Status, target)
		if err != nil {
			return err
		}
		switch target {
		case domain.BookingStatusCancelled, domain.BookingStatusRefunded:
			_, err = s.seats.Release(ctx, id)
		case domain.BookingStatusCompleted:
			_, err = s.seats.Occupy(ctx, id)
		}
		if err != nil {
			return err
		}
		booking, changed = updated, true
		return nil
	})
	if err != nil {
		return nil, false, domain.Persistence(err)
	}
	return booking, changed, nil
}

func invalidTransition(b *domain.Booking, to domain.BookingStatus) error {
	return fmt.Errorf("%w: %s cannot move from %s to %s", domain.ErrInvalidTransition, b.ID, b.Status, to)
}

func (s *BookingService) released(ctx context.Context, booking *domain.Booking) {
	s.metrics.BookingsReleased.WithLabelValues(strings.ToLower(string(booking.Status))).Inc()
	s.invalidateFlights(ctx)

	eventType := kafka.EventBookingCancelled
	if booking.Status == domain.BookingStatusRefunded {
		eventType = kafka.EventBookingRefunded
	}
	s.publish(ctx, eventType, booking, nil)
	s.log.Info("booking released", "booking_id", booking.ID, "status", booking.Status)
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("failed to invalidate flights cache", "error", err)
	}
}

// publish runs after commit. Delivery failures are logged and never undo the
// booking change.
func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking, decorate func(*kafka.BookingEvent)) {
	if s.producer == nil || s.bookingTopic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:            eventType,
		BookingID:       booking.ID,
		UserID:          booking.UserID,
		FlightID:        booking.FlightID,
		Status:          string(booking.Status),
		TotalPriceCents: booking.TotalPriceCents,
		OccurredAt:      s.now(),
	}
	if decorate != nil {
		decorate(&event)
	}

	topics := []string{s.bookingTopic}
	if s.notificationsTopic != "" {
		topics = append(topics, s.notificationsTopic)
	}
	for _, topic := range topics {
		if err := s.producer.Publish(ctx, topic, booking.ID, event); err != nil {
			s.log.Warn("failed to publish event", "type", eventType, "topic", topic, "booking_id", booking.ID, "error", err)
		}
	}
}

func (s *BookingService) observe(operation string, start time.Time, err *error) {
	s.metrics.OperationDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	if *err == nil {
		return
	}
	kind := domain.Kind(*err)
	s.metrics.Failures.WithLabelValues(operation, kind).Inc()
	if kind == "persistence" || kind == "internal" {
		s.log.Error("booking operation failed", "operation", operation, "error", *err)
		return
	}
	s.log.Debug("booking operation rejected", "operation", operation, "kind", kind, "error", *err)
}

var _ BookingUseCase = (*BookingService)(nil)
