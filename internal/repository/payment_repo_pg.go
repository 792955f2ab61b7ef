package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	// GetByBooking returns the completed payment of a booking, or nil.
	GetByBooking(ctx context.Context, bookingID string) (*domain.Payment, error)
}

type PGPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) PaymentRepository {
	return &PGPaymentRepository{db: db}
}

func (r *PGPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	err := conn(ctx, r.db).QueryRow(ctx, `INSERT INTO payments (id, booking_id, amount_cents, method, status, reference, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING paid_at`,
		payment.ID, payment.BookingID, payment.AmountCents, payment.Method, payment.Status, payment.Reference, payment.PaidAt).
		Scan(&payment.PaidAt)
	if code, _ := pgErrorCode(err); code == pgUniqueViolation {
		return fmt.Errorf("%w: booking %s already has a completed payment", domain.ErrBookingNotPayable, payment.BookingID)
	}
	return err
}

func (r *PGPaymentRepository) GetByBooking(ctx context.Context, bookingID string) (*domain.Payment, error) {
	var p domain.Payment
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT id, booking_id, amount_cents, method, status, reference, paid_at
		FROM payments WHERE booking_id = $1 AND status = 'COMPLETED'`, bookingID).
		Scan(&p.ID, &p.BookingID, &p.AmountCents, &p.Method, &p.Status, &p.Reference, &p.PaidAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

var _ PaymentRepository = (*PGPaymentRepository)(nil)
