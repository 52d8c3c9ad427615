package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/booking"
	"github.com/iliyamo/cinema-ticketing/internal/inventory"
	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// BookingHandler exposes the showtime browse endpoints and the
// ticket purchase endpoint backed by the booking coordinator.
type BookingHandler struct {
	Store       *inventory.Store
	Coordinator *booking.Coordinator
}

func NewBookingHandler(store *inventory.Store, co *booking.Coordinator) *BookingHandler {
	if store == nil || co == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{Store: store, Coordinator: co}
}

type showtimeResp struct {
	ID       string    `json:"id"`
	FilmID   uint64    `json:"film_id"`
	HallID   uint64    `json:"hall_id"`
	Showtime time.Time `json:"showtime"`
}

type buyTicketsReq struct {
	Seats   []string `json:"seats"`
	Glasses bool     `json:"glasses"`
}

type reservationResp struct {
	ID         string    `json:"id"`
	FilmID     uint64    `json:"film_id"`
	HallID     uint64    `json:"hall_id"`
	Showtime   time.Time `json:"showtime"`
	Seats      []string  `json:"seats"`
	TotalPrice int64     `json:"total_price"`
	Glasses    bool      `json:"glasses"`
	Status     string    `json:"status"`
	Message    string    `json:"message,omitempty"`
}

func toReservationResp(res *model.Reservation, message string) reservationResp {
	return reservationResp{
		ID:         res.ID,
		FilmID:     res.FilmID,
		HallID:     res.HallID,
		Showtime:   res.Showtime,
		Seats:      res.Seats,
		TotalPrice: res.TotalPrice,
		Glasses:    res.Glasses,
		Status:     res.Status,
		Message:    message,
	}
}

// ListShowtimes handles GET /v1/showtimes.  Seat maps are omitted;
// use GET /v1/showtimes/:id/seats for availability.
func (h *BookingHandler) ListShowtimes(c echo.Context) error {
	invs := h.Store.List()
	out := make([]showtimeResp, 0, len(invs))
	for _, inv := range invs {
		out = append(out, showtimeResp{ID: inv.ID, FilmID: inv.FilmID, HallID: inv.HallID, Showtime: inv.Showtime})
	}
	return c.JSON(http.StatusOK, out)
}

// GetShowtimeSeats handles GET /v1/showtimes/:id/seats.  It returns
// the seat numbers currently available for the showtime.
func (h *BookingHandler) GetShowtimeSeats(c echo.Context) error {
	id := c.Param("id")
	seats, err := h.Store.AvailableSeats(id)
	if err != nil {
		if errors.Is(err, inventory.ErrShowtimeNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "inventory error"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"showtime_id": id,
		"available":   seats,
	})
}

// BuyTickets handles POST /v1/showtimes/:id/tickets (customer).  It
// runs the full booking flow: seat validation, reservation, pricing
// and confirmation inside the release window.
func (h *BookingHandler) BuyTickets(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req buyTicketsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	res, message, err := h.Coordinator.AttemptBooking(c.Request().Context(), userID, c.Param("id"), req.Seats, req.Glasses)
	if err != nil {
		var conflict *booking.SeatConflictError
		switch {
		case errors.Is(err, inventory.ErrShowtimeNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showtime not found"})
		case errors.Is(err, repository.ErrFilmNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		case errors.Is(err, repository.ErrHallNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		case errors.Is(err, booking.ErrNoSeatsRequested):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "no seats requested"})
		case errors.As(err, &conflict):
			return c.JSON(http.StatusBadRequest, echo.Map{
				"error": "invalid or already reserved seats",
				"seats": conflict.Seats,
			})
		case errors.Is(err, booking.ErrReleaseWindowExpired):
			return c.JSON(http.StatusRequestTimeout, echo.Map{"error": "booking not confirmed in time, seats released"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
		}
	}
	return c.JSON(http.StatusCreated, toReservationResp(res, message))
}
