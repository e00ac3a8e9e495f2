package model

import "time"

// Booking is the immutable record of a confirmed reservation.  The
// price is the amount actually charged when the booking was created;
// later quotes for the same seat may differ.  Bookings are created and
// deleted only by the reservation system, which also owns the id
// sequence (a persisted high-water mark, so ids stay unique across
// process restarts).
//
// Fields:
//  ID             – unique, monotonically increasing booking id.
//  PassengerName  – full name of the passenger.
//  PassengerEmail – contact email.
//  PassengerPhone – contact phone number.
//  FlightNumber   – flight the seat belongs to.
//  FlightDate     – flight date, "YYYY-MM-DD".
//  SeatNumber     – booked seat (1-100).
//  SeatClass      – cabin class of the seat.
//  Price          – fare charged at booking time.
//  BookingTime    – creation instant.
type Booking struct {
	ID             int64     `json:"id"`
	PassengerName  string    `json:"passenger_name"`
	PassengerEmail string    `json:"passenger_email"`
	PassengerPhone string    `json:"passenger_phone"`
	FlightNumber   string    `json:"flight_number"`
	FlightDate     string    `json:"flight_date"`
	SeatNumber     int       `json:"seat_number"`
	SeatClass      SeatClass `json:"seat_class"`
	Price          float64   `json:"price"`
	BookingTime    time.Time `json:"booking_time"`
}
