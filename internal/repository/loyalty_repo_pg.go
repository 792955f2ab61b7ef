package repository

import (
	"context"
	"time"

	"github.com/Domenick1991/airline-booking/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LoyaltyRepository interface {
	Accrue(ctx context.Context, points *domain.LoyaltyPoints) error
	// Balance sums the user's accruals that have not expired at now, across
	// all of the user's bookings.
	Balance(ctx context.Context, userID string, now time.Time) (int64, error)
	ListByUser(ctx context.Context, userID string) ([]domain.LoyaltyPoints, error)
}

type PGLoyaltyRepository struct {
	db *pgxpool.Pool
}

func NewLoyaltyRepository(db *pgxpool.Pool) LoyaltyRepository {
	return &PGLoyaltyRepository{db: db}
}

func (r *PGLoyaltyRepository) Accrue(ctx context.Context, points *domain.LoyaltyPoints) error {
	return conn(ctx, r.db).QueryRow(ctx, `INSERT INTO loyalty_points (booking_id, points, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id`, points.BookingID, points.Points, points.IssuedAt, points.ExpiresAt).
		Scan(&points.ID)
}

func (r *PGLoyaltyRepository) Balance(ctx context.Context, userID string, now time.Time) (int64, error) {
	var total int64
	err := conn(ctx, r.db).QueryRow(ctx, `SELECT COALESCE(SUM(lp.points), 0)::BIGINT
		FROM loyalty_points lp
		JOIN bookings b ON b.id = lp.booking_id
		WHERE b.user_id = $1 AND lp.expires_at > $2`, userID, now).
		Scan(&total)
	return total, err
}

func (r *PGLoyaltyRepository) ListByUser(ctx context.Context, userID string) ([]domain.LoyaltyPoints, error) {
	rows, err := conn(ctx, r.db).Query(ctx, `SELECT lp.id, lp.booking_id, lp.points, lp.issued_at, lp.expires_at
		FROM loyalty_points lp
		JOIN bookings b ON b.id = lp.booking_id
		WHERE b.user_id = $1
		ORDER BY lp.issued_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	accruals := make([]domain.LoyaltyPoints, 0)
	for rows.Next() {
		var lp domain.LoyaltyPoints
		if err := rows.Scan(&lp.ID, &lp.BookingID, &lp.Points, &lp.IssuedAt, &lp.ExpiresAt); err != nil {
			return nil, err
		}
		accruals = append(accruals, lp)
	}
	return accruals, rows.Err()
}

var _ LoyaltyRepository = (*PGLoyaltyRepository)(nil)
