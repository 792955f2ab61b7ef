package flights

import (
	"context"
	"fmt"
	"strings"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/Domenick1991/airline-booking/internal/logger"
	"github.com/Domenick1991/airline-booking/internal/repository"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Seats(ctx context.Context, flightID string, onlyAvailable bool) ([]domain.Seat, error)
}

// FlightCache holds the flight list between bookings. Booking changes
// invalidate it, so cached seat counts are at most one TTL stale.
type FlightCache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
}

type FlightService struct {
	repo  repository.FlightRepository
	seats repository.SeatRepository
	cache FlightCache
	log   logger.Logger
}

func NewFlightService(repo repository.FlightRepository, seats repository.SeatRepository, cache FlightCache, log logger.Logger) *FlightService {
	if log == nil {
		log = logger.NewNop()
	}
	return &FlightService{repo: repo, seats: seats, cache: cache, log: log}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		cached, err := s.cache.GetFlights(ctx)
		if err != nil {
			s.log.Warn("flights cache read failed", "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn("flights cache write failed", "error", err)
		}
	}
	return flights, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: flight id is required", domain.ErrValidation)
	}
	flight, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return flight, nil
}

// Seats lists the seat map of a flight. Unknown flights are reported as not
// found rather than as an empty map.
func (s *FlightService) Seats(ctx context.Context, flightID string, onlyAvailable bool) ([]domain.Seat, error) {
	if _, err := s.GetByID(ctx, flightID); err != nil {
		return nil, err
	}
	seats, err := s.seats.ListByFlight(ctx, flightID, onlyAvailable)
	if err != nil {
		return nil, domain.Persistence(err)
	}
	return seats, nil
}

var _ FlightUseCase = (*FlightService)(nil)
