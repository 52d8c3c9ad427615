package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/inventory"
	"github.com/iliyamo/cinema-ticketing/internal/model"
)

type stubCatalog struct {
	film model.Film
	hall model.Hall
}

func (s *stubCatalog) Film(_ context.Context, _ uint64) (model.Film, error) { return s.film, nil }
func (s *stubCatalog) Hall(_ context.Context, _ uint64) (model.Hall, error) { return s.hall, nil }
func (s *stubCatalog) AddFilmTotals(_ context.Context, _ uint64, _ int, _ int64) error {
	return nil
}

type stubReservations struct{}

func (stubReservations) Create(_ context.Context, _ *model.Reservation) error  { return nil }
func (stubReservations) SetStatus(_ context.Context, _ string, _ string) error { return nil }

func newBookingTestHandler(t *testing.T) *BookingHandler {
	t.Helper()
	seats, err := inventory.Layout(16)
	require.NoError(t, err)

	store := inventory.NewStore(nil)
	store.Restore([]*model.ShowtimeInventory{{
		ID:       "st-1",
		FilmID:   1,
		HallID:   1,
		Showtime: time.Date(2026, time.April, 1, 10, 0, 0, 0, time.UTC),
		Seats:    seats,
	}})

	catalog := &stubCatalog{
		film: model.Film{ID: 1, Type: model.FilmType2D, HallID: 1},
		hall: model.Hall{ID: 1, Capacity: 16, Price: 10},
	}
	co := booking.NewCoordinator(store, catalog, stubReservations{}, nil)
	return NewBookingHandler(store, co)
}

func buyRequest(t *testing.T, h *BookingHandler, showtimeID, body string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(showtimeID)
	c.Set("user_id", uint64(7))
	require.NoError(t, h.BuyTickets(c))
	return rec
}

func TestBuyTicketsSuccess(t *testing.T) {
	h := newBookingTestHandler(t)
	rec := buyRequest(t, h, "st-1", `{"seats":["1A","2A"]}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Seats      []string `json:"seats"`
		TotalPrice int64    `json:"total_price"`
		Status     string   `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"1A", "2A"}, resp.Seats)
	assert.Equal(t, int64(20), resp.TotalPrice)
	assert.Equal(t, model.ReservationConfirmed, resp.Status)
}

func TestBuyTicketsSeatConflict(t *testing.T) {
	h := newBookingTestHandler(t)
	buyRequest(t, h, "st-1", `{"seats":["1A"]}`)

	rec := buyRequest(t, h, "st-1", `{"seats":["1A","9Z"]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Seats []string `json:"seats"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.ElementsMatch(t, []string{"1A", "9Z"}, resp.Seats)
}

func TestBuyTicketsUnknownShowtime(t *testing.T) {
	h := newBookingTestHandler(t)
	rec := buyRequest(t, h, "missing", `{"seats":["1A"]}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBuyTicketsNoSeats(t *testing.T) {
	h := newBookingTestHandler(t)
	rec := buyRequest(t, h, "st-1", `{"seats":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetShowtimeSeats(t *testing.T) {
	h := newBookingTestHandler(t)
	buyRequest(t, h, "st-1", `{"seats":["1A"]}`)

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues("st-1")
	require.NoError(t, h.GetShowtimeSeats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Available []string `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Available, 15)
	assert.NotContains(t, resp.Available, "1A")
}

func TestListShowtimesOmitsSeats(t *testing.T) {
	h := newBookingTestHandler(t)
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, h.ListShowtimes(e.NewContext(req, rec)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "st-1", resp[0]["id"])
	assert.NotContains(t, resp[0], "seats")
}
