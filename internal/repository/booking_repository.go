package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/spaazm/flight-reservation/internal/model"
)

// BookingRepo provides persistence for bookings and their booked_seats
// rows.  A booking and its seat row are always written and deleted
// together inside one transaction, so a persisted booking implies the
// seat is durably marked taken and vice versa.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// BookedSeat mirrors one row of the booked_seats table: the durable
// record a Seat's booked state is reconstructed from at hydration time.
type BookedSeat struct {
	FlightNumber  string // booked_seats.flight_number
	FlightDate    string // booked_seats.flight_date
	SeatNumber    int    // booked_seats.seat_number
	PassengerName string // booked_seats.passenger_name
}

// Load returns every persisted booking ordered by id.  The reservation
// system calls it once at startup so its in-memory booking list
// reflects durable state immediately.
func (r *BookingRepo) Load(ctx context.Context) ([]*model.Booking, error) {
	const q = `SELECT id, passenger_name, passenger_email, passenger_phone,
	                  flight_number, flight_date, seat_number, seat_class, price, booking_time
	           FROM bookings ORDER BY id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	bookings := make([]*model.Booking, 0)
	for rows.Next() {
		var b model.Booking
		var bookedAt int64
		if err := rows.Scan(&b.ID, &b.PassengerName, &b.PassengerEmail, &b.PassengerPhone,
			&b.FlightNumber, &b.FlightDate, &b.SeatNumber, &b.SeatClass, &b.Price, &bookedAt); err != nil {
			return nil, err
		}
		b.BookingTime = time.Unix(bookedAt, 0)
		bookings = append(bookings, &b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return bookings, nil
}

// MaxID returns the high-water mark of the booking id sequence.  When
// the table is empty it returns the seed floor 1000, so the first id
// ever issued is 1001.
func (r *BookingRepo) MaxID(ctx context.Context) (int64, error) {
	var max int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(MAX(id), 1000) FROM bookings`).Scan(&max)
	return max, err
}

// Create persists a booking together with its booked_seats row in a
// single transaction.  If either insert fails nothing is written; in
// particular a duplicate (flight, date, seat) key on booked_seats
// aborts the whole booking.
func (r *BookingRepo) Create(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	const insBooking = `INSERT INTO bookings
	       (id, passenger_name, passenger_email, passenger_phone, flight_number, flight_date, seat_number, seat_class, price, booking_time)
	       VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insBooking,
		b.ID, b.PassengerName, b.PassengerEmail, b.PassengerPhone,
		b.FlightNumber, b.FlightDate, b.SeatNumber, b.SeatClass, b.Price, b.BookingTime.Unix()); err != nil {
		return err
	}
	const insSeat = `INSERT INTO booked_seats (flight_number, flight_date, seat_number, passenger_name)
	                 VALUES (?, ?, ?, ?)`
	if _, err := tx.ExecContext(ctx, insSeat,
		b.FlightNumber, b.FlightDate, b.SeatNumber, b.PassengerName); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// Delete removes a booking and its booked_seats row in a single
// transaction.
func (r *BookingRepo) Delete(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, b.ID); err != nil {
		return err
	}
	const delSeat = `DELETE FROM booked_seats WHERE flight_number = ? AND flight_date = ? AND seat_number = ?`
	if _, err := tx.ExecContext(ctx, delSeat, b.FlightNumber, b.FlightDate, b.SeatNumber); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// BookedSeats returns the booked_seats rows for one (flight, date),
// ordered by seat number.  Search replays them onto a freshly
// materialized Flight to restore its seat state.
func (r *BookingRepo) BookedSeats(ctx context.Context, flightNumber, flightDate string) ([]BookedSeat, error) {
	const q = `SELECT flight_number, flight_date, seat_number, passenger_name
	           FROM booked_seats
	           WHERE flight_number = ? AND flight_date = ?
	           ORDER BY seat_number`
	rows, err := r.db.QueryContext(ctx, q, flightNumber, flightDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]BookedSeat, 0)
	for rows.Next() {
		var s BookedSeat
		if err := rows.Scan(&s.FlightNumber, &s.FlightDate, &s.SeatNumber, &s.PassengerName); err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return seats, nil
}
