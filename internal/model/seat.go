package model

// SeatClass identifies one of the three cabin classes on a flight.
type SeatClass string

// Cabin classes in descending order of fare multiplier.
const (
	ClassFirst    SeatClass = "First"
	ClassBusiness SeatClass = "Business"
	ClassEconomy  SeatClass = "Economy"
)

// Valid reports whether c is one of the three known cabin classes.
func (c SeatClass) Valid() bool {
	switch c {
	case ClassFirst, ClassBusiness, ClassEconomy:
		return true
	}
	return false
}

// ClassForSeat maps a seat number onto its cabin class.  The cabin
// partition is fixed for every aircraft in the fleet: seats 1-10 are
// First, 11-30 Business and 31-100 Economy.  Numbers outside 1-100
// yield an empty class.
func ClassForSeat(number int) SeatClass {
	switch {
	case number >= 1 && number <= 10:
		return ClassFirst
	case number >= 11 && number <= 30:
		return ClassBusiness
	case number >= 31 && number <= TotalSeats:
		return ClassEconomy
	}
	return ""
}

// Seat is a single inventory slot on a flight.  It holds no booking
// logic of its own; callers are expected to check availability before
// calling Book.
//
// Fields:
//  Number – seat number, unique within a flight (1-100).
//  Class  – cabin class derived from the seat number partition.
type Seat struct {
	Number int       // seat number within the flight
	Class  SeatClass // cabin class for this position

	booked    bool
	passenger string
}

// Booked reports whether the seat currently carries a passenger.
func (s *Seat) Booked() bool { return s.booked }

// Passenger returns the name the seat is booked under, or "" when free.
func (s *Seat) Passenger() string { return s.passenger }

// Book marks the seat taken for the named passenger.  It performs no
// availability check; Flight.BookSeat is the guarded entry point.
func (s *Seat) Book(name string) {
	s.booked = true
	s.passenger = name
}

// Cancel frees the seat and clears the passenger name.
func (s *Seat) Cancel() {
	s.booked = false
	s.passenger = ""
}
