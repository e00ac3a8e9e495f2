package database

import (
	"context"
	"database/sql"
)

// Schema statements executed at startup.  booking_time is stored as a
// unix timestamp; dates and departure timestamps are stored in their
// wire formats ("YYYY-MM-DD" and "YYYY-MM-DD HH:MM") so catalog rows
// round-trip without conversion.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS flights (
		flight_number  VARCHAR(16)  NOT NULL,
		flight_name    VARCHAR(64)  NOT NULL,
		source         VARCHAR(64)  NOT NULL,
		destination    VARCHAR(64)  NOT NULL,
		date           VARCHAR(10)  NOT NULL,
		departure_time VARCHAR(16)  NOT NULL,
		base_price     DOUBLE       NOT NULL,
		PRIMARY KEY (flight_number, date)
	)`,
	`CREATE TABLE IF NOT EXISTS bookings (
		id              BIGINT       NOT NULL,
		passenger_name  VARCHAR(128) NOT NULL,
		passenger_email VARCHAR(128) NOT NULL,
		passenger_phone VARCHAR(32)  NOT NULL,
		flight_number   VARCHAR(16)  NOT NULL,
		flight_date     VARCHAR(10)  NOT NULL,
		seat_number     INT          NOT NULL,
		seat_class      VARCHAR(16)  NOT NULL,
		price           DOUBLE       NOT NULL,
		booking_time    BIGINT       NOT NULL,
		PRIMARY KEY (id)
	)`,
	`CREATE TABLE IF NOT EXISTS booked_seats (
		flight_number  VARCHAR(16)  NOT NULL,
		flight_date    VARCHAR(10)  NOT NULL,
		seat_number    INT          NOT NULL,
		passenger_name VARCHAR(128) NOT NULL,
		PRIMARY KEY (flight_number, flight_date, seat_number)
	)`,
}

// EnsureSchema creates the flights, bookings and booked_seats tables
// when they do not exist yet.  It is idempotent and safe to run on
// every startup.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
