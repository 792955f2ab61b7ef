package repository

import (
	"context"
	"fmt"
	"slices"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SeatRepository interface {
	CreateBatch(ctx context.Context, seats []domain.Seat) error
	ListByFlight(ctx context.Context, flightID string, onlyAvailable bool) ([]domain.Seat, error)
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Seat, error)
	Reserve(ctx context.Context, flightID, bookingID string, seatIDs []string) error
	Release(ctx context.Context, bookingID string) (int64, error)
	Occupy(ctx context.Context, bookingID string) (int64, error)
}

type PGSeatRepository struct {
	db *pgxpool.Pool
}

func NewSeatRepository(db *pgxpool.Pool) SeatRepository {
	return &PGSeatRepository{db: db}
}

const seatColumns = `id, flight_id, seat_number, class, status, price_delta_cents, booking_id`

func (r *PGSeatRepository) CreateBatch(ctx context.Context, seats []domain.Seat) error {
	batch := &pgx.Batch{}
	for _, s := range seats {
		status := s.Status
		if status == "" {
			status = domain.SeatStatusAvailable
		}
		batch.Queue(`INSERT INTO seats (id, flight_id, seat_number, class, status, price_delta_cents) VALUES ($1, $2, $3, $4, $5, $6)`,
			s.ID, s.FlightID, s.SeatNumber, s.Class, status, s.PriceDeltaCents)
	}
	return conn(ctx, r.db).SendBatch(ctx, batch).Close()
}

func (r *PGSeatRepository) ListByFlight(ctx context.Context, flightID string, onlyAvailable bool) ([]domain.Seat, error) {
	query := `SELECT ` + seatColumns + ` FROM seats WHERE flight_id = $1`
	if onlyAvailable {
		query += ` AND status = 'AVAILABLE'`
	}
	query += ` ORDER BY seat_number`
	return r.list(ctx, query, flightID)
}

func (r *PGSeatRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Seat, error) {
	return r.list(ctx, `SELECT `+seatColumns+` FROM seats WHERE booking_id = $1 ORDER BY seat_number`, bookingID)
}

func (r *PGSeatRepository) list(ctx context.Context, query string, args ...any) ([]domain.Seat, error) {
	rows, err := conn(ctx, r.db).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)
	for rows.Next() {
		var s domain.Seat
		if err := rows.Scan(&s.ID, &s.FlightID, &s.SeatNumber, &s.Class, &s.Status, &s.PriceDeltaCents, &s.BookingID); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// Reserve moves every seat from AVAILABLE to RESERVED for the booking. Each
// seat is one conditional update, issued in sorted id order so concurrent
// reservations lock rows in the same sequence. A seat that is not AVAILABLE
// on flightID fails the whole call with domain.ErrSeatUnavailable; the caller
// must roll back.
func (r *PGSeatRepository) Reserve(ctx context.Context, flightID, bookingID string, seatIDs []string) error {
	ordered := slices.Clone(seatIDs)
	slices.Sort(ordered)

	batch := &pgx.Batch{}
	for _, id := range ordered {
		batch.Queue(`UPDATE seats SET status = 'RESERVED', booking_id = $1, updated_at = now()
			WHERE id = $2 AND flight_id = $3 AND status = 'AVAILABLE'`, bookingID, id, flightID)
	}

	results := conn(ctx, r.db).SendBatch(ctx, batch)
	defer results.Close()

	for _, id := range ordered {
		tag, err := results.Exec()
		if err != nil {
			return err
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("%w: %s", domain.ErrSeatUnavailable, id)
		}
	}
	return nil
}

// Release returns the booking's RESERVED seats to AVAILABLE.
func (r *PGSeatRepository) Release(ctx context.Context, bookingID string) (int64, error) {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE seats SET status = 'AVAILABLE', booking_id = NULL, updated_at = now()
		WHERE booking_id = $1 AND status = 'RESERVED'`, bookingID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// Occupy marks the booking's RESERVED seats as used.
func (r *PGSeatRepository) Occupy(ctx context.Context, bookingID string) (int64, error) {
	tag, err := conn(ctx, r.db).Exec(ctx, `UPDATE seats SET status = 'OCCUPIED', updated_at = now()
		WHERE booking_id = $1 AND status = 'RESERVED'`, bookingID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

var _ SeatRepository = (*PGSeatRepository)(nil)
