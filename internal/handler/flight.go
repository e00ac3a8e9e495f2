// Package handler exposes the reservation engine over HTTP.  Handlers
// hold no booking logic: they parse the request, call the System and
// render whatever it returns.
package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/spaazm/flight-reservation/internal/model"
	"github.com/spaazm/flight-reservation/internal/repository"
	"github.com/spaazm/flight-reservation/internal/reservation"
)

// FlightHandler serves catalog search, seat listing and fare quotes.
type FlightHandler struct {
	System *reservation.System
}

// NewFlightHandler constructs a FlightHandler.
func NewFlightHandler(system *reservation.System) *FlightHandler {
	if system == nil {
		panic("nil system passed to NewFlightHandler")
	}
	return &FlightHandler{System: system}
}

// flightView is the JSON shape of a flight in search and detail
// responses.  Seat counts are included so collaborators can show
// availability without a second call.
type flightView struct {
	FlightNumber   string  `json:"flight_number"`
	FlightName     string  `json:"flight_name"`
	Source         string  `json:"source"`
	Destination    string  `json:"destination"`
	Date           string  `json:"date"`
	DepartureTime  string  `json:"departure_time"`
	BasePrice      float64 `json:"base_price"`
	BookedSeats    int     `json:"booked_seats"`
	AvailableSeats int     `json:"available_seats"`
}

func viewOf(f model.FlightSummary) flightView {
	return flightView{
		FlightNumber:   f.Number,
		FlightName:     f.Name,
		Source:         f.Source,
		Destination:    f.Destination,
		Date:           f.Date,
		DepartureTime:  f.DepartureTime,
		BasePrice:      f.BasePrice,
		BookedSeats:    f.BookedSeats,
		AvailableSeats: f.AvailableSeats,
	}
}

// seatView is the JSON shape of a single seat.
type seatView struct {
	SeatNumber    int             `json:"seat_number"`
	SeatClass     model.SeatClass `json:"seat_class"`
	IsBooked      bool            `json:"is_booked"`
	PassengerName string          `json:"passenger_name,omitempty"`
}

// Cities handles GET /v1/cities.  It always answers 200: when the
// catalog is unavailable or empty the System serves its fixed
// reference list.
func (h *FlightHandler) Cities(c echo.Context) error {
	cities := h.System.UniqueCities(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"cities": cities})
}

// Search handles GET /v1/flights/search?date=&source=&destination=.
// All three parameters are required; date must be YYYY-MM-DD.  No
// catalog match is not an error: the response is an empty array.
func (h *FlightHandler) Search(c echo.Context) error {
	date := c.QueryParam("date")
	source := c.QueryParam("source")
	destination := c.QueryParam("destination")
	if date == "" || source == "" || destination == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date, source and destination are required"})
	}
	if _, err := time.Parse(model.DateLayout, date); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date must be YYYY-MM-DD"})
	}
	flights := h.System.SearchFlights(c.Request().Context(), date, source, destination)
	views := make([]flightView, 0, len(flights))
	for _, f := range flights {
		views = append(views, viewOf(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"flights": views})
}

// Get handles GET /v1/flights/:number.  Lookup is restricted to the
// working set of the last search; anything else is 404.
func (h *FlightHandler) Get(c echo.Context) error {
	flight, err := h.System.FindFlight(c.Param("number"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	}
	return c.JSON(http.StatusOK, viewOf(flight))
}

// Seats handles GET /v1/flights/:number/seats.  The optional ?class=
// parameter filters by cabin class and ?available=true narrows the
// list to free seats.
func (h *FlightHandler) Seats(c echo.Context) error {
	classParam := c.QueryParam("class")
	class := model.SeatClass(classParam)
	if classParam != "" && !class.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown seat class"})
	}
	availableOnly := c.QueryParam("available") == "true"

	statuses, err := h.System.SeatStatuses(c.Param("number"))
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
	}

	views := make([]seatView, 0, len(statuses))
	for _, st := range statuses {
		if classParam != "" && st.Class != class {
			continue
		}
		if availableOnly && st.Booked {
			continue
		}
		views = append(views, seatView{
			SeatNumber:    st.Number,
			SeatClass:     st.Class,
			IsBooked:      st.Booked,
			PassengerName: st.Passenger,
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": views})
}

// Quote handles GET /v1/flights/:number/quote?class=.
func (h *FlightHandler) Quote(c echo.Context) error {
	class := model.SeatClass(c.QueryParam("class"))
	if !class.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "class must be First, Business or Economy"})
	}
	number := c.Param("number")
	price, basePrice, err := h.System.Quote(number, class)
	if err != nil {
		if errors.Is(err, repository.ErrFlightNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "flight not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "lookup failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"flight_number": number,
		"seat_class":    class,
		"base_price":    basePrice,
		"price":         price,
	})
}
