package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS flights (
	id               TEXT PRIMARY KEY,
	flight_number    TEXT NOT NULL,
	from_airport     TEXT NOT NULL,
	to_airport       TEXT NOT NULL,
	departure_time   TIMESTAMPTZ NOT NULL,
	arrival_time     TIMESTAMPTZ NOT NULL,
	base_price_cents BIGINT NOT NULL DEFAULT 0 CHECK (base_price_cents >= 0),
	status           TEXT NOT NULL DEFAULT 'SCHEDULED',
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS bookings (
	id                TEXT PRIMARY KEY,
	user_id           TEXT NOT NULL,
	flight_id         TEXT NOT NULL REFERENCES flights (id),
	booking_date      DATE NOT NULL DEFAULT CURRENT_DATE,
	total_price_cents BIGINT NOT NULL CHECK (total_price_cents >= 0),
	status            TEXT NOT NULL CHECK (status IN ('PENDING', 'CONFIRMED', 'CANCELLED', 'COMPLETED', 'REFUNDED')),
	expires_at        TIMESTAMPTZ NOT NULL,
	created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS bookings_user_idx ON bookings (user_id);
CREATE INDEX IF NOT EXISTS bookings_pending_expiry_idx ON bookings (expires_at) WHERE status = 'PENDING';

CREATE TABLE IF NOT EXISTS seats (
	id                TEXT PRIMARY KEY,
	flight_id         TEXT NOT NULL REFERENCES flights (id),
	seat_number       TEXT NOT NULL,
	class             TEXT NOT NULL DEFAULT 'ECONOMY',
	status            TEXT NOT NULL DEFAULT 'AVAILABLE' CHECK (status IN ('AVAILABLE', 'RESERVED', 'OCCUPIED')),
	price_delta_cents BIGINT NOT NULL DEFAULT 0,
	booking_id        TEXT REFERENCES bookings (id),
	updated_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
	UNIQUE (flight_id, seat_number)
);
CREATE INDEX IF NOT EXISTS seats_booking_idx ON seats (booking_id);

CREATE TABLE IF NOT EXISTS passengers (
	id              TEXT PRIMARY KEY,
	booking_id      TEXT NOT NULL REFERENCES bookings (id),
	first_name      TEXT NOT NULL,
	last_name       TEXT NOT NULL,
	document_number TEXT NOT NULL,
	date_of_birth   DATE NOT NULL,
	seat_id         TEXT REFERENCES seats (id),
	created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS passengers_booking_idx ON passengers (booking_id);

CREATE TABLE IF NOT EXISTS payments (
	id           TEXT PRIMARY KEY,
	booking_id   TEXT NOT NULL REFERENCES bookings (id),
	amount_cents BIGINT NOT NULL CHECK (amount_cents >= 0),
	method       TEXT NOT NULL,
	status       TEXT NOT NULL,
	reference    TEXT NOT NULL DEFAULT '',
	paid_at      TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE UNIQUE INDEX IF NOT EXISTS payments_completed_uidx ON payments (booking_id) WHERE status = 'COMPLETED';

CREATE TABLE IF NOT EXISTS loyalty_points (
	id         BIGSERIAL PRIMARY KEY,
	booking_id TEXT NOT NULL UNIQUE REFERENCES bookings (id),
	points     BIGINT NOT NULL CHECK (points >= 0),
	issued_at  TIMESTAMPTZ NOT NULL,
	expires_at TIMESTAMPTZ NOT NULL
);
`

// Migrate creates the tables the booking core writes to. It is idempotent.
func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
