package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spaazm/flight-reservation/internal/model"
	"github.com/spaazm/flight-reservation/internal/queue"
	"github.com/spaazm/flight-reservation/internal/repository"
	"github.com/spaazm/flight-reservation/internal/reservation"
	queuepublisher "github.com/spaazm/flight-reservation/internal/service"
)

// BookingHandler serves booking creation, listing and cancellation.
// After a successful mutation it publishes a domain event; publishing
// is fire-and-forget and never affects the response.
type BookingHandler struct {
	System *reservation.System

	// PublishEvents disables broker traffic in tests when false.
	PublishEvents bool
}

// NewBookingHandler constructs a BookingHandler that publishes events.
func NewBookingHandler(system *reservation.System) *BookingHandler {
	if system == nil {
		panic("nil system passed to NewBookingHandler")
	}
	return &BookingHandler{System: system, PublishEvents: true}
}

// Create handles POST /v1/bookings.  The body supplies passenger
// details, the flight number (which must be in the current search
// result) and the seat number; the flight date, seat class and fare
// are derived by the reservation system.  Booking the seat and
// persisting the record happen as one operation: on any failure
// nothing is booked.
func (h *BookingHandler) Create(c echo.Context) error {
	var body struct {
		PassengerName  string `json:"passenger_name"`
		PassengerEmail string `json:"passenger_email"`
		PassengerPhone string `json:"passenger_phone"`
		FlightNumber   string `json:"flight_number"`
		SeatNumber     int    `json:"seat_number"`
	}
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.PassengerName == "" || body.FlightNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_name and flight_number are required"})
	}

	booking, err := h.System.CreateBooking(c.Request().Context(), reservation.CreateBookingRequest{
		PassengerName:  body.PassengerName,
		PassengerEmail: body.PassengerEmail,
		PassengerPhone: body.PassengerPhone,
		FlightNumber:   body.FlightNumber,
		SeatNumber:     body.SeatNumber,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrFlightNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found in current search"})
		case errors.Is(err, repository.ErrInvalidSeat):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat number must be between 1 and 100"})
		case errors.Is(err, repository.ErrSeatUnavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seat already booked"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}

	if h.PublishEvents {
		go publishConfirmed(booking)
	}
	return c.JSON(http.StatusCreated, booking)
}

// List handles GET /v1/bookings and returns every known booking.
func (h *BookingHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"bookings": h.System.Bookings()})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.System.BookingByID(id)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, booking)
}

// Cancel handles DELETE /v1/bookings/:id.  Cancelling releases the
// seat when its flight is loaded and removes the durable record; an
// unknown id returns 404 with all state unchanged.
func (h *BookingHandler) Cancel(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	booking, err := h.System.CancelBooking(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to cancel booking"})
	}

	if h.PublishEvents {
		go publishCancelled(booking)
	}
	return c.NoContent(http.StatusNoContent)
}

func publishConfirmed(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queuepublisher.PublishBookingConfirmed(ctx, queue.BookingConfirmedEvent{
		BookingID:     b.ID,
		PassengerName: b.PassengerName,
		FlightNumber:  b.FlightNumber,
		FlightDate:    b.FlightDate,
		SeatNumber:    b.SeatNumber,
		SeatClass:     string(b.SeatClass),
		Price:         b.Price,
		BookedAt:      b.BookingTime.UTC().Format(time.RFC3339),
	})
}

func publishCancelled(b *model.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = queuepublisher.PublishBookingCancelled(ctx, queue.BookingCancelledEvent{
		BookingID:    b.ID,
		FlightNumber: b.FlightNumber,
		FlightDate:   b.FlightDate,
		SeatNumber:   b.SeatNumber,
		CancelledAt:  time.Now().UTC().Format(time.RFC3339),
	})
}
