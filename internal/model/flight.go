// Package model contains the in-memory flight inventory: seats, flights
// and booking records.  Flights are ephemeral: they are materialized
// from the durable catalog on every search and discarded on the next
// one; only their catalog row and booked-seat rows persist.
package model

import "time"

// TotalSeats is the fixed seat count of every aircraft in the fleet.
const TotalSeats = 100

// DepartureLayout is the wire format for departure timestamps
// exchanged with collaborators and stored in the catalog.
const DepartureLayout = "2006-01-02 15:04"

// DateLayout is the wire format for flight dates.
const DateLayout = "2006-01-02"

// Flight is a scheduled flight holding exactly 100 seats it exclusively
// owns.  A flight is identified by the (Number, Date) pair; the same
// flight number never flies twice on the same date.
//
// Fields:
//  Number        – unique identifier within a date (e.g. "SP1001").
//  Name          – display name (e.g. "Sky Express").
//  Source        – departure city.
//  Destination   – arrival city.
//  Date          – flight date, "YYYY-MM-DD".
//  DepartureTime – full departure timestamp, "YYYY-MM-DD HH:MM".
//  BasePrice     – starting fare before dynamic pricing.
type Flight struct {
	Number        string
	Name          string
	Source        string
	Destination   string
	Date          string
	DepartureTime string
	BasePrice     float64

	departure time.Time
	seats     []*Seat
}

// NewFlight builds a flight from its catalog attributes and allocates
// its 100 seats, all initially free.  The departure timestamp is parsed
// in local time; an unparseable timestamp is an error because every
// time-based pricing factor depends on it.
func NewFlight(number, name, source, destination, date, departureTime string, basePrice float64) (*Flight, error) {
	dep, err := time.ParseInLocation(DepartureLayout, departureTime, time.Local)
	if err != nil {
		return nil, err
	}
	f := &Flight{
		Number:        number,
		Name:          name,
		Source:        source,
		Destination:   destination,
		Date:          date,
		DepartureTime: departureTime,
		BasePrice:     basePrice,
		departure:     dep,
		seats:         make([]*Seat, 0, TotalSeats),
	}
	for n := 1; n <= TotalSeats; n++ {
		f.seats = append(f.seats, &Seat{Number: n, Class: ClassForSeat(n)})
	}
	return f, nil
}

// Departure returns the departure instant used for time-based pricing.
func (f *Flight) Departure() time.Time { return f.departure }

// FlightSummary is a point-in-time value copy of a flight's catalog
// attributes and seat counts.  Unlike *Flight it is safe to hold after
// the reservation system's lock is released.
type FlightSummary struct {
	Number         string
	Name           string
	Source         string
	Destination    string
	Date           string
	DepartureTime  string
	BasePrice      float64
	BookedSeats    int
	AvailableSeats int
}

// Summary captures the flight's current attributes and seat counts.
func (f *Flight) Summary() FlightSummary {
	booked := f.BookedSeatsCount()
	return FlightSummary{
		Number:         f.Number,
		Name:           f.Name,
		Source:         f.Source,
		Destination:    f.Destination,
		Date:           f.Date,
		DepartureTime:  f.DepartureTime,
		BasePrice:      f.BasePrice,
		BookedSeats:    booked,
		AvailableSeats: TotalSeats - booked,
	}
}

// SeatStatus is a value copy of one seat's state at capture time.
type SeatStatus struct {
	Number    int
	Class     SeatClass
	Booked    bool
	Passenger string
}

// SeatStatuses captures every seat's current state in seat-number order.
func (f *Flight) SeatStatuses() []SeatStatus {
	out := make([]SeatStatus, 0, TotalSeats)
	for _, s := range f.seats {
		out = append(out, SeatStatus{
			Number:    s.Number,
			Class:     s.Class,
			Booked:    s.booked,
			Passenger: s.passenger,
		})
	}
	return out
}

// SeatByNumber returns the seat with the given number, or nil when the
// number is outside 1-100.
func (f *Flight) SeatByNumber(number int) *Seat {
	if number < 1 || number > TotalSeats {
		return nil
	}
	return f.seats[number-1]
}

// Seats returns the full seat list in seat-number order.
func (f *Flight) Seats() []*Seat { return f.seats }

// SeatsByClass returns every seat of the given class in seat-number order.
func (f *Flight) SeatsByClass(class SeatClass) []*Seat {
	out := make([]*Seat, 0)
	for _, s := range f.seats {
		if s.Class == class {
			out = append(out, s)
		}
	}
	return out
}

// AvailableSeatsByClass returns the not-booked seats of the given class
// in seat-number order.
func (f *Flight) AvailableSeatsByClass(class SeatClass) []*Seat {
	out := make([]*Seat, 0)
	for _, s := range f.seats {
		if !s.Booked() && s.Class == class {
			out = append(out, s)
		}
	}
	return out
}

// BookedSeatsCount counts seats currently booked.
func (f *Flight) BookedSeatsCount() int {
	count := 0
	for _, s := range f.seats {
		if s.Booked() {
			count++
		}
	}
	return count
}

// AvailableSeatsCount counts seats currently free.
func (f *Flight) AvailableSeatsCount() int {
	return TotalSeats - f.BookedSeatsCount()
}

// BookSeat marks the seat taken for the named passenger.  It succeeds
// only when the seat number is valid and the seat is free; on failure
// nothing is mutated.
func (f *Flight) BookSeat(number int, passenger string) bool {
	seat := f.SeatByNumber(number)
	if seat == nil || seat.Booked() {
		return false
	}
	seat.Book(passenger)
	return true
}

// CancelSeat frees a currently booked seat.  It succeeds only when the
// seat number is valid and the seat is booked.
func (f *Flight) CancelSeat(number int) bool {
	seat := f.SeatByNumber(number)
	if seat == nil || !seat.Booked() {
		return false
	}
	seat.Cancel()
	return true
}

// CalculatePrice quotes a fare for the given cabin class at the given
// booking instant.  Four independent multipliers compose on BasePrice:
//
//   class:    First x3.0, Business x2.0, Economy x1.0
//   demand:   1.0 + occupancy*0.5, so a full flight costs 1.5x
//   advance:  last-minute bookings (<1 day) cost 1.5x, early ones
//             (>30 days) 0.85x
//   hour:     departures in commuter and evening peaks cost more,
//             off-peak and night departures less
//
// The quote is a pure function of current seat state and time; nothing
// is persisted until a booking fixes the price.
func (f *Flight) CalculatePrice(class SeatClass, bookingTime time.Time) float64 {
	price := f.BasePrice

	switch class {
	case ClassFirst:
		price *= 3.0
	case ClassBusiness:
		price *= 2.0
	}

	occupancy := float64(f.BookedSeatsCount()) / float64(TotalSeats)
	price *= 1.0 + occupancy*0.5

	days := f.departure.Sub(bookingTime).Hours() / 24
	switch {
	case days < 1:
		price *= 1.5
	case days < 3:
		price *= 1.3
	case days < 7:
		price *= 1.15
	case days > 30:
		price *= 0.85
	}

	switch hour := f.departure.Hour(); {
	case hour >= 6 && hour < 9: // early morning peak
		price *= 1.25
	case hour >= 9 && hour < 12:
		price *= 1.10
	case hour >= 12 && hour < 15: // afternoon off-peak
		price *= 0.95
	case hour >= 15 && hour < 18:
		price *= 1.05
	case hour >= 18 && hour < 21: // evening peak
		price *= 1.30
	default: // night
		price *= 0.90
	}

	return price
}
