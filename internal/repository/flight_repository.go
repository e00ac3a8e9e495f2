package repository

import (
	"context"
	"database/sql"
)

// CatalogEntry mirrors one row of the flights table: the immutable
// schedule a search draws from.  A Flight object is materialized from
// this row plus the booked_seats rows for the same (number, date).
type CatalogEntry struct {
	FlightNumber  string  // flights.flight_number
	FlightName    string  // flights.flight_name
	Source        string  // flights.source
	Destination   string  // flights.destination
	Date          string  // flights.date ("YYYY-MM-DD")
	DepartureTime string  // flights.departure_time ("YYYY-MM-DD HH:MM")
	BasePrice     float64 // flights.base_price
}

// FlightRepo manages persistence for the flight catalog.
type FlightRepo struct {
	db *sql.DB
}

// NewFlightRepo returns a FlightRepo bound to the given database.
func NewFlightRepo(db *sql.DB) *FlightRepo { return &FlightRepo{db: db} }

// Search returns catalog rows matching the exact date and route,
// ordered by departure time.  No match yields an empty slice, not an
// error.
func (r *FlightRepo) Search(ctx context.Context, date, source, destination string) ([]CatalogEntry, error) {
	const q = `SELECT flight_number, flight_name, source, destination, date, departure_time, base_price
	           FROM flights
	           WHERE date = ? AND source = ? AND destination = ?
	           ORDER BY departure_time, flight_number`
	rows, err := r.db.QueryContext(ctx, q, date, source, destination)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	entries := make([]CatalogEntry, 0)
	for rows.Next() {
		var e CatalogEntry
		if err := rows.Scan(&e.FlightNumber, &e.FlightName, &e.Source, &e.Destination,
			&e.Date, &e.DepartureTime, &e.BasePrice); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// UniqueCities returns the distinct set of cities appearing as either
// source or destination anywhere in the catalog, sorted.
func (r *FlightRepo) UniqueCities(ctx context.Context) ([]string, error) {
	const q = `SELECT DISTINCT source FROM flights
	           UNION SELECT DISTINCT destination FROM flights
	           ORDER BY 1`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	cities := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		cities = append(cities, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cities, nil
}

// Count returns the number of catalog rows.  Seeding uses it to stay
// idempotent.
func (r *FlightRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM flights`).Scan(&n)
	return n, err
}

// InsertBatch inserts multiple catalog rows in one statement.  Rows
// whose (flight_number, date) key already exists are skipped, so
// replaying a seed run cannot duplicate the schedule.  Passing an
// empty slice has no effect.
func (r *FlightRepo) InsertBatch(ctx context.Context, entries []CatalogEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT IGNORE INTO flights (flight_number, flight_name, source, destination, date, departure_time, base_price) VALUES `
	args := make([]interface{}, 0, len(entries)*7)
	for i, e := range entries {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, e.FlightNumber, e.FlightName, e.Source, e.Destination, e.Date, e.DepartureTime, e.BasePrice)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	return err
}
