package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaazm/flight-reservation/internal/model"
	"github.com/spaazm/flight-reservation/internal/repository"
	"github.com/spaazm/flight-reservation/internal/reservation"
)

// stubCatalog and stubStore satisfy the reservation storage interfaces
// in memory so handler tests run without MySQL.
type stubCatalog struct {
	entries []repository.CatalogEntry
}

func (s *stubCatalog) Search(_ context.Context, date, source, destination string) ([]repository.CatalogEntry, error) {
	out := make([]repository.CatalogEntry, 0)
	for _, e := range s.entries {
		if e.Date == date && e.Source == source && e.Destination == destination {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubCatalog) UniqueCities(context.Context) ([]string, error) {
	seen := map[string]bool{}
	for _, e := range s.entries {
		seen[e.Source] = true
		seen[e.Destination] = true
	}
	cities := make([]string, 0, len(seen))
	for c := range seen {
		cities = append(cities, c)
	}
	sort.Strings(cities)
	return cities, nil
}

func (s *stubCatalog) Count(context.Context) (int64, error) { return int64(len(s.entries)), nil }

func (s *stubCatalog) InsertBatch(_ context.Context, entries []repository.CatalogEntry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

type stubStore struct {
	bookings map[int64]*model.Booking
	seats    map[string]repository.BookedSeat
}

func newStubStore() *stubStore {
	return &stubStore{bookings: map[int64]*model.Booking{}, seats: map[string]repository.BookedSeat{}}
}

func (s *stubStore) key(number, date string, seat int) string {
	return fmt.Sprintf("%s|%s|%d", number, date, seat)
}

func (s *stubStore) Load(context.Context) ([]*model.Booking, error) {
	out := make([]*model.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubStore) MaxID(context.Context) (int64, error) {
	max := int64(1000)
	for id := range s.bookings {
		if id > max {
			max = id
		}
	}
	return max, nil
}

func (s *stubStore) Create(_ context.Context, b *model.Booking) error {
	s.bookings[b.ID] = b
	s.seats[s.key(b.FlightNumber, b.FlightDate, b.SeatNumber)] = repository.BookedSeat{
		FlightNumber: b.FlightNumber, FlightDate: b.FlightDate,
		SeatNumber: b.SeatNumber, PassengerName: b.PassengerName,
	}
	return nil
}

func (s *stubStore) Delete(_ context.Context, b *model.Booking) error {
	delete(s.bookings, b.ID)
	delete(s.seats, s.key(b.FlightNumber, b.FlightDate, b.SeatNumber))
	return nil
}

func (s *stubStore) BookedSeats(_ context.Context, flightNumber, flightDate string) ([]repository.BookedSeat, error) {
	out := make([]repository.BookedSeat, 0)
	for _, bs := range s.seats {
		if bs.FlightNumber == flightNumber && bs.FlightDate == flightDate {
			out = append(out, bs)
		}
	}
	return out, nil
}

func newTestHandlers(t *testing.T) (*FlightHandler, *BookingHandler) {
	t.Helper()
	catalog := &stubCatalog{entries: []repository.CatalogEntry{
		{FlightNumber: "SP1001", FlightName: "Sky Express", Source: "Mumbai", Destination: "Delhi",
			Date: "2030-04-01", DepartureTime: "2030-04-01 19:00", BasePrice: 3000},
	}}
	system, err := reservation.NewSystem(context.Background(), catalog, newStubStore())
	require.NoError(t, err)
	fh := NewFlightHandler(system)
	bh := NewBookingHandler(system)
	bh.PublishEvents = false // keep tests off the broker
	return fh, bh
}

func doGET(e *echo.Echo, path, target string, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	return c, rec
}

func TestSearchRequiresParams(t *testing.T) {
	e := echo.New()
	fh, _ := newTestHandlers(t)

	c, rec := doGET(e, "/v1/flights/search", "/v1/flights/search?date=2030-04-01&source=Mumbai")
	require.NoError(t, fh.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = doGET(e, "/v1/flights/search", "/v1/flights/search?date=01-04-2030&source=Mumbai&destination=Delhi")
	require.NoError(t, fh.Search(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSearchReturnsFlights(t *testing.T) {
	e := echo.New()
	fh, _ := newTestHandlers(t)

	c, rec := doGET(e, "/v1/flights/search", "/v1/flights/search?date=2030-04-01&source=Mumbai&destination=Delhi")
	require.NoError(t, fh.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Flights []struct {
			FlightNumber   string  `json:"flight_number"`
			BasePrice      float64 `json:"base_price"`
			AvailableSeats int     `json:"available_seats"`
		} `json:"flights"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Flights, 1)
	assert.Equal(t, "SP1001", body.Flights[0].FlightNumber)
	assert.Equal(t, 100, body.Flights[0].AvailableSeats)
}

func TestSearchNoMatchReturnsEmptyArray(t *testing.T) {
	e := echo.New()
	fh, _ := newTestHandlers(t)

	c, rec := doGET(e, "/v1/flights/search", "/v1/flights/search?date=2030-04-02&source=Mumbai&destination=Delhi")
	require.NoError(t, fh.Search(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"flights":[]`)
}

func TestGetFlightOutsideWorkingSet(t *testing.T) {
	e := echo.New()
	fh, _ := newTestHandlers(t)

	// SP1001 exists in the catalog but has not been searched for yet.
	c, rec := doGET(e, "/v1/flights/:number", "/v1/flights/SP1001", "number", "SP1001")
	require.NoError(t, fh.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuote(t *testing.T) {
	e := echo.New()
	fh, _ := newTestHandlers(t)

	c, _ := doGET(e, "/v1/flights/search", "/v1/flights/search?date=2030-04-01&source=Mumbai&destination=Delhi")
	require.NoError(t, fh.Search(c))

	c, rec := doGET(e, "/v1/flights/:number/quote", "/v1/flights/SP1001/quote?class=First", "number", "SP1001")
	require.NoError(t, fh.Quote(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Price     float64 `json:"price"`
		BasePrice float64 `json:"base_price"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Positive(t, body.Price)
	assert.Equal(t, 3000.0, body.BasePrice)

	c, rec = doGET(e, "/v1/flights/:number/quote", "/v1/flights/SP1001/quote?class=Premium", "number", "SP1001")
	require.NoError(t, fh.Quote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCities(t *testing.T) {
	e := echo.New()
	fh, _ := newTestHandlers(t)

	c, rec := doGET(e, "/v1/cities", "/v1/cities")
	require.NoError(t, fh.Cities(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Mumbai")
	assert.Contains(t, rec.Body.String(), "Delhi")
}

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	return c, rec
}

func TestBookingLifecycle(t *testing.T) {
	e := echo.New()
	fh, bh := newTestHandlers(t)

	c, _ := doGET(e, "/v1/flights/search", "/v1/flights/search?date=2030-04-01&source=Mumbai&destination=Delhi")
	require.NoError(t, fh.Search(c))

	// Create.
	c, rec := postJSON(e, "/v1/bookings", `{
		"passenger_name": "Asha Verma",
		"passenger_email": "asha@example.com",
		"passenger_phone": "9876543210",
		"flight_number": "SP1001",
		"seat_number": 15
	}`)
	require.NoError(t, bh.Create(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var booking model.Booking
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &booking))
	assert.Equal(t, int64(1001), booking.ID)
	assert.Equal(t, model.ClassBusiness, booking.SeatClass)
	assert.Positive(t, booking.Price)

	// The same seat now conflicts.
	c, rec = postJSON(e, "/v1/bookings", `{
		"passenger_name": "Rohan Mehta",
		"flight_number": "SP1001",
		"seat_number": 15
	}`)
	require.NoError(t, bh.Create(c))
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Listed and fetchable by id.
	c, rec = doGET(e, "/v1/bookings", "/v1/bookings")
	require.NoError(t, bh.List(c))
	assert.Contains(t, rec.Body.String(), `"id":1001`)

	c, rec = doGET(e, "/v1/bookings/:id", "/v1/bookings/1001", "id", "1001")
	require.NoError(t, bh.Get(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	// Cancel frees the seat and removes the booking.
	req := httptest.NewRequest(http.MethodDelete, "/v1/bookings/1001", nil)
	rec = httptest.NewRecorder()
	c = e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id")
	c.SetParamNames("id")
	c.SetParamValues("1001")
	require.NoError(t, bh.Cancel(c))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	c, rec = doGET(e, "/v1/bookings/:id", "/v1/bookings/1001", "id", "1001")
	require.NoError(t, bh.Get(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateBookingValidation(t *testing.T) {
	e := echo.New()
	fh, bh := newTestHandlers(t)

	c, _ := doGET(e, "/v1/flights/search", "/v1/flights/search?date=2030-04-01&source=Mumbai&destination=Delhi")
	require.NoError(t, fh.Search(c))

	// Missing passenger name.
	c, rec := postJSON(e, "/v1/bookings", `{"flight_number": "SP1001", "seat_number": 15}`)
	require.NoError(t, bh.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Flight not in the working set.
	c, rec = postJSON(e, "/v1/bookings", `{"passenger_name": "Asha Verma", "flight_number": "SP9999", "seat_number": 15}`)
	require.NoError(t, bh.Create(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Seat outside 1-100.
	c, rec = postJSON(e, "/v1/bookings", `{"passenger_name": "Asha Verma", "flight_number": "SP1001", "seat_number": 250}`)
	require.NoError(t, bh.Create(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelBookingUnknownID(t *testing.T) {
	e := echo.New()
	_, bh := newTestHandlers(t)

	req := httptest.NewRequest(http.MethodDelete, "/v1/bookings/999999", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/bookings/:id")
	c.SetParamNames("id")
	c.SetParamValues("999999")
	require.NoError(t, bh.Cancel(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
