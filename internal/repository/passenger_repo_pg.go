package repository

import (
	"context"
	"fmt"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PassengerRepository interface {
	CreateBatch(ctx context.Context, passengers []domain.Passenger) error
	ListByBooking(ctx context.Context, bookingID string) ([]domain.Passenger, error)
}

type PGPassengerRepository struct {
	db *pgxpool.Pool
}

func NewPassengerRepository(db *pgxpool.Pool) PassengerRepository {
	return &PGPassengerRepository{db: db}
}

func (r *PGPassengerRepository) CreateBatch(ctx context.Context, passengers []domain.Passenger) error {
	batch := &pgx.Batch{}
	for _, p := range passengers {
		batch.Queue(`INSERT INTO passengers (id, booking_id, first_name, last_name, document_number, date_of_birth, seat_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.BookingID, p.FirstName, p.LastName, p.DocumentNumber, p.DateOfBirth, p.SeatID)
	}

	results := conn(ctx, r.db).SendBatch(ctx, batch)
	defer results.Close()

	for _, p := range passengers {
		if _, err := results.Exec(); err != nil {
			if code, constraint := pgErrorCode(err); code == pgForeignKeyViolation && constraint == "passengers_seat_id_fkey" {
				return fmt.Errorf("%w: %s", domain.ErrSeatNotFound, p.SeatID)
			}
			return err
		}
	}
	return nil
}

func (r *PGPassengerRepository) ListByBooking(ctx context.Context, bookingID string) ([]domain.Passenger, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT id, booking_id, first_name, last_name, document_number, date_of_birth, COALESCE(seat_id, ''), created_at
		FROM passengers WHERE booking_id = $1 ORDER BY created_at, last_name`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	passengers := make([]domain.Passenger, 0)
	for rows.Next() {
		var p domain.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.FirstName, &p.LastName, &p.DocumentNumber, &p.DateOfBirth, &p.SeatID, &p.CreatedAt); err != nil {
			return nil, err
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

var _ PassengerRepository = (*PGPassengerRepository)(nil)
