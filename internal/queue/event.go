// Package queue defines message payloads exchanged over the message
// broker and the background consumer that audits them.
package queue

// BookingConfirmedEvent is published when a booking is successfully
// created.  It carries enough for downstream consumers to notify or
// audit without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     int64   `json:"booking_id"`
	PassengerName string  `json:"passenger_name"`
	FlightNumber  string  `json:"flight_number"`
	FlightDate    string  `json:"flight_date"`
	SeatNumber    int     `json:"seat_number"`
	SeatClass     string  `json:"seat_class"`
	Price         float64 `json:"price"`
	BookedAt      string  `json:"booked_at"`
}

// BookingCancelledEvent is published when a booking is cancelled and
// its seat released.
type BookingCancelledEvent struct {
	BookingID    int64  `json:"booking_id"`
	FlightNumber string `json:"flight_number"`
	FlightDate   string `json:"flight_date"`
	SeatNumber   int    `json:"seat_number"`
	CancelledAt  string `json:"cancelled_at"`
}
