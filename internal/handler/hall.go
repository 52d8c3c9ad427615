package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// HallHandler exposes admin CRUD for screening halls.
type HallHandler struct {
	Halls *repository.HallRepo
}

func NewHallHandler(halls *repository.HallRepo) *HallHandler {
	if halls == nil {
		panic("nil repository passed to NewHallHandler")
	}
	return &HallHandler{Halls: halls}
}

type hallReq struct {
	HallNum  uint32 `json:"hall_num"`
	Capacity uint32 `json:"capacity"`
	Imax     bool   `json:"imax"`
	Price    int64  `json:"price"`
}

type hallResp struct {
	ID       uint64 `json:"id"`
	HallNum  uint32 `json:"hall_num"`
	Capacity uint32 `json:"capacity"`
	Imax     bool   `json:"imax"`
	Price    int64  `json:"price"`
}

func toHallResp(h model.Hall) hallResp {
	return hallResp{ID: h.ID, HallNum: h.HallNum, Capacity: h.Capacity, Imax: h.Imax, Price: h.Price}
}

func (req *hallReq) validate() string {
	if req.HallNum == 0 {
		return "hall_num required"
	}
	if req.Capacity == 0 {
		return "capacity must be positive"
	}
	if req.Price < 0 {
		return "price must not be negative"
	}
	return ""
}

// CreateHall handles POST /v1/halls (admin).
func (h *HallHandler) CreateHall(c echo.Context) error {
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	hall := model.Hall{HallNum: req.HallNum, Capacity: req.Capacity, Imax: req.Imax, Price: req.Price}
	if err := h.Halls.Create(c.Request().Context(), &hall); err != nil {
		if err == repository.ErrHallNumExists {
			return c.JSON(http.StatusConflict, echo.Map{"error": "hall number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create hall failed"})
	}
	return c.JSON(http.StatusCreated, toHallResp(hall))
}

// GetHall handles GET /v1/halls/:id.
func (h *HallHandler) GetHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	hall, err := h.Halls.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toHallResp(hall))
}

// ListHalls handles GET /v1/halls.
func (h *HallHandler) ListHalls(c echo.Context) error {
	halls, err := h.Halls.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]hallResp, 0, len(halls))
	for _, hall := range halls {
		out = append(out, toHallResp(hall))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateHall handles PUT /v1/halls/:id (admin).  The hall number is
// immutable; capacity, imax and price can change.  A capacity change
// takes effect in the seat maps at the next daily rebuild.
func (h *HallHandler) UpdateHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	var req hallReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Capacity == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be positive"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}
	ctx := c.Request().Context()
	hall, err := h.Halls.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	hall.Capacity = req.Capacity
	hall.Imax = req.Imax
	hall.Price = req.Price
	if err := h.Halls.Update(ctx, &hall); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update hall failed"})
	}
	return c.JSON(http.StatusOK, toHallResp(hall))
}

// DeleteHall handles DELETE /v1/halls/:id (admin).
func (h *HallHandler) DeleteHall(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid hall id"})
	}
	if err := h.Halls.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete hall failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
