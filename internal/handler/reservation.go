package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// ReservationHandler exposes reservation read endpoints.  Customers
// see their own bookings; admins can list everything.
type ReservationHandler struct {
	Reservations *repository.ReservationRepo
}

func NewReservationHandler(res *repository.ReservationRepo) *ReservationHandler {
	if res == nil {
		panic("nil repository passed to NewReservationHandler")
	}
	return &ReservationHandler{Reservations: res}
}

// ListMine handles GET /v1/me/reservations (customer).
func (h *ReservationHandler) ListMine(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	list, err := h.Reservations.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, res := range list {
		out = append(out, toReservationResp(res, ""))
	}
	return c.JSON(http.StatusOK, out)
}

// GetReservation handles GET /v1/reservations/:id.  Customers may
// only read their own reservations; admins may read any.
func (h *ReservationHandler) GetReservation(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	res, err := h.Reservations.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == repository.ErrReservationNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if role, _ := c.Get("role").(string); role != model.RoleAdmin && res.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	}
	return c.JSON(http.StatusOK, toReservationResp(res, ""))
}

// ListAll handles GET /v1/reservations (admin).
func (h *ReservationHandler) ListAll(c echo.Context) error {
	list, err := h.Reservations.ListAll(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]reservationResp, 0, len(list))
	for _, res := range list {
		out = append(out, toReservationResp(res, ""))
	}
	return c.JSON(http.StatusOK, out)
}
