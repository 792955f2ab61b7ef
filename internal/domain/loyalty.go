package domain

import "time"

// UnitsPerPoint is the loyalty accrual ratio: one point for every 100 whole
// currency units paid.
const UnitsPerPoint = 100

// PointsValidityYears is how long an accrual counts towards the balance.
const PointsValidityYears = 1

type LoyaltyPoints struct {
	ID        int64
	BookingID string
	Points    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// PointsForAmount converts a paid amount in cents into loyalty points,
// rounding down.
func PointsForAmount(amountCents int64) int64 {
	if amountCents <= 0 {
		return 0
	}
	return amountCents / (100 * UnitsPerPoint)
}

// NewAccrual builds the loyalty record earned by a payment made at issuedAt.
func NewAccrual(bookingID string, amountCents int64, issuedAt time.Time) LoyaltyPoints {
	return LoyaltyPoints{
		BookingID: bookingID,
		Points:    PointsForAmount(amountCents),
		IssuedAt:  issuedAt,
		ExpiresAt: issuedAt.AddDate(PointsValidityYears, 0, 0),
	}
}
