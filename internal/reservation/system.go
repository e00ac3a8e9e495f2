// Package reservation implements the booking lifecycle: flight search
// over the durable catalog, orchestrated booking creation and
// cancellation, and the one-time catalog seeding.  The System is the
// sole owner of the Flight working set and the booking list; all
// mutation goes through its methods.
package reservation

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/spaazm/flight-reservation/internal/model"
	"github.com/spaazm/flight-reservation/internal/repository"
)

// Catalog is the durable flight schedule a search draws from.
// Implemented by repository.FlightRepo.
type Catalog interface {
	Search(ctx context.Context, date, source, destination string) ([]repository.CatalogEntry, error)
	UniqueCities(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int64, error)
	InsertBatch(ctx context.Context, entries []repository.CatalogEntry) error
}

// BookingStore is the durable home of bookings and booked-seat rows.
// Implemented by repository.BookingRepo.
type BookingStore interface {
	Load(ctx context.Context) ([]*model.Booking, error)
	MaxID(ctx context.Context) (int64, error)
	Create(ctx context.Context, b *model.Booking) error
	Delete(ctx context.Context, b *model.Booking) error
	BookedSeats(ctx context.Context, flightNumber, flightDate string) ([]repository.BookedSeat, error)
}

// referenceCities is served when the catalog is unavailable or empty,
// so collaborators always have selectable route endpoints.
var referenceCities = []string{
	"Mumbai", "Delhi", "Bangalore", "Chennai", "Kolkata",
	"Hyderabad", "Pune", "Goa", "Jaipur", "Kochi",
}

// CreateBookingRequest carries the passenger and seat details for a
// new booking.  The flight date, seat class and price are derived by
// the system, never supplied by the caller.
type CreateBookingRequest struct {
	PassengerName  string
	PassengerEmail string
	PassengerPhone string
	FlightNumber   string
	SeatNumber     int
}

// System coordinates flights, bookings and durable storage.  It holds
// the working set of Flights from the most recent search and the full
// in-memory booking list, both loaded from the store.  A mutex guards
// them because the HTTP layer serves requests concurrently; storage
// isolation stays at one transaction per operation.
//
// Live *Flight pointers never leave the System: every exported read
// returns value snapshots captured while the lock is held, so seat
// state observed by one request cannot race a booking mutation in
// another.
type System struct {
	mu       sync.Mutex
	catalog  Catalog
	store    BookingStore
	flights  []*model.Flight
	bookings []*model.Booking
	lastID   int64

	now func() time.Time // injectable clock for pricing tests
}

// NewSystem builds a System, loads every persisted booking into memory
// and reads the booking id high-water mark, so ids remain unique
// across process restarts.
func NewSystem(ctx context.Context, catalog Catalog, store BookingStore) (*System, error) {
	bookings, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	lastID, err := store.MaxID(ctx)
	if err != nil {
		return nil, err
	}
	return &System{
		catalog:  catalog,
		store:    store,
		bookings: bookings,
		lastID:   lastID,
		now:      time.Now,
	}, nil
}

// SearchFlights discards the previous working set, queries the catalog
// for the exact date and route, and materializes a Flight per match
// with its seat state hydrated from the booked_seats table.  Storage
// failures degrade to an empty result: the working set is cleared and
// no error is surfaced, matching the catalog's read-only, best-effort
// contract.
func (s *System) SearchFlights(ctx context.Context, date, source, destination string) []model.FlightSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flights = nil
	entries, err := s.catalog.Search(ctx, date, source, destination)
	if err != nil {
		log.Printf("reservation: catalog search failed: %v", err)
		return nil
	}
	flights := make([]*model.Flight, 0, len(entries))
	for _, e := range entries {
		f, err := model.NewFlight(e.FlightNumber, e.FlightName, e.Source, e.Destination,
			e.Date, e.DepartureTime, e.BasePrice)
		if err != nil {
			log.Printf("reservation: skipping flight %s: bad departure time %q: %v",
				e.FlightNumber, e.DepartureTime, err)
			continue
		}
		booked, err := s.store.BookedSeats(ctx, f.Number, f.Date)
		if err != nil {
			// A flight whose seat state cannot be restored would
			// violate the hydration invariant; leave it out.
			log.Printf("reservation: skipping flight %s: seat hydration failed: %v", f.Number, err)
			continue
		}
		for _, bs := range booked {
			f.BookSeat(bs.SeatNumber, bs.PassengerName)
		}
		flights = append(flights, f)
	}
	s.flights = flights
	return s.summaries()
}

// summaries snapshots the working set; callers hold s.mu.
func (s *System) summaries() []model.FlightSummary {
	out := make([]model.FlightSummary, 0, len(s.flights))
	for _, f := range s.flights {
		out = append(out, f.Summary())
	}
	return out
}

// UniqueCities returns the sorted distinct cities across the catalog.
// When the catalog is unavailable or empty it falls back to the fixed
// reference list.
func (s *System) UniqueCities(ctx context.Context) []string {
	cities, err := s.catalog.UniqueCities(ctx)
	if err != nil {
		log.Printf("reservation: city listing failed: %v", err)
		return referenceCities
	}
	if len(cities) == 0 {
		return referenceCities
	}
	return cities
}

// Flights returns a snapshot of the current working set.
func (s *System) Flights() []model.FlightSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaries()
}

// Bookings returns all known bookings.
func (s *System) Bookings() []*model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Booking, len(s.bookings))
	copy(out, s.bookings)
	return out
}

// FindFlight looks a flight up within the current working set only.  A
// flight absent from the last search result is reported as not found;
// the catalog is never re-queried.
func (s *System) FindFlight(flightNumber string) (model.FlightSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.findFlight(flightNumber)
	if err != nil {
		return model.FlightSummary{}, err
	}
	return f.Summary(), nil
}

// SeatStatuses returns a snapshot of every seat on the flight in
// seat-number order.
func (s *System) SeatStatuses(flightNumber string) ([]model.SeatStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.findFlight(flightNumber)
	if err != nil {
		return nil, err
	}
	return f.SeatStatuses(), nil
}

// Quote prices a seat of the given cabin class on the flight at the
// current instant and returns it with the flight's base price.  A
// quote is never persisted; the fare is fixed only when a booking is
// created.
func (s *System) Quote(flightNumber string, class model.SeatClass) (price, basePrice float64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, err := s.findFlight(flightNumber)
	if err != nil {
		return 0, 0, err
	}
	return f.CalculatePrice(class, s.now()), f.BasePrice, nil
}

// findFlight is FindFlight without locking; callers hold s.mu.
func (s *System) findFlight(flightNumber string) (*model.Flight, error) {
	for _, f := range s.flights {
		if f.Number == flightNumber {
			return f, nil
		}
	}
	return nil, repository.ErrFlightNotFound
}

// BookingByID returns the booking with the given id.
func (s *System) BookingByID(id int64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bookings {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, repository.ErrBookingNotFound
}

// CreateBooking performs the whole booking as one operation: it
// resolves the flight in the working set, validates the seat, prices
// the fare at the booking instant, marks the seat taken and persists
// the booking together with its booked-seat row in one transaction.
// If the durable write fails the seat mutation is rolled back, so a
// Booking exists if and only if its seat is marked booked.
func (s *System) CreateBooking(ctx context.Context, req CreateBookingRequest) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	flight, err := s.findFlight(req.FlightNumber)
	if err != nil {
		return nil, err
	}
	class := model.ClassForSeat(req.SeatNumber)
	if class == "" {
		return nil, repository.ErrInvalidSeat
	}

	now := s.now()
	// Price before the seat flips: the fare quoted to the caller used
	// the pre-booking occupancy.
	price := flight.CalculatePrice(class, now)

	if !flight.BookSeat(req.SeatNumber, req.PassengerName) {
		return nil, repository.ErrSeatUnavailable
	}

	booking := &model.Booking{
		ID:             s.lastID + 1,
		PassengerName:  req.PassengerName,
		PassengerEmail: req.PassengerEmail,
		PassengerPhone: req.PassengerPhone,
		FlightNumber:   flight.Number,
		FlightDate:     flight.Date,
		SeatNumber:     req.SeatNumber,
		SeatClass:      class,
		Price:          price,
		BookingTime:    now,
	}
	if err := s.store.Create(ctx, booking); err != nil {
		flight.CancelSeat(req.SeatNumber)
		return nil, err
	}
	s.lastID++
	s.bookings = append(s.bookings, booking)
	return booking, nil
}

// CancelBooking undoes a completed booking: the durable booking and
// booked-seat rows are removed, the seat is released when its flight
// is loaded in the working set, and the booking leaves the in-memory
// list.  No fee or refund computation happens here.
func (s *System) CancelBooking(ctx context.Context, id int64) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, b := range s.bookings {
		if b.ID != id {
			continue
		}
		if err := s.store.Delete(ctx, b); err != nil {
			return nil, err
		}
		if flight, err := s.findFlight(b.FlightNumber); err == nil && flight.Date == b.FlightDate {
			flight.CancelSeat(b.SeatNumber)
		}
		s.bookings = append(s.bookings[:i], s.bookings[i+1:]...)
		return b, nil
	}
	return nil, repository.ErrBookingNotFound
}
