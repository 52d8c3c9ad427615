package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-ticketing/internal/model"
	"github.com/iliyamo/cinema-ticketing/internal/repository"
)

// FilmHandler exposes admin CRUD for the film catalog plus the
// public browse endpoints.
type FilmHandler struct {
	Films *repository.FilmRepo
	Halls *repository.HallRepo
}

func NewFilmHandler(films *repository.FilmRepo, halls *repository.HallRepo) *FilmHandler {
	if films == nil || halls == nil {
		panic("nil repository passed to NewFilmHandler")
	}
	return &FilmHandler{Films: films, Halls: halls}
}

const dateLayout = "2006-01-02"

type filmReq struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Genre       string `json:"genre"`
	DurationMin uint32 `json:"duration_min"`
	Type        string `json:"type"` // 2D | 3D
	ReleaseDate string `json:"release_date"`
	RemoveDate  string `json:"remove_date"`
	HallID      uint64 `json:"hall_id"`
}

type filmResp struct {
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	Description   string `json:"description,omitempty"`
	Genre         string `json:"genre,omitempty"`
	DurationMin   uint32 `json:"duration_min"`
	Type          string `json:"type"`
	ReleaseDate   string `json:"release_date"`
	RemoveDate    string `json:"remove_date"`
	TotalAudience uint64 `json:"total_audience"`
	TotalRevenue  int64  `json:"total_revenue"`
	HallID        uint64 `json:"hall_id"`
}

func toFilmResp(f model.Film) filmResp {
	return filmResp{
		ID:            f.ID,
		Title:         f.Title,
		Description:   f.Description,
		Genre:         f.Genre,
		DurationMin:   f.DurationMin,
		Type:          f.Type,
		ReleaseDate:   f.ReleaseDate.Format(dateLayout),
		RemoveDate:    f.RemoveDate.Format(dateLayout),
		TotalAudience: f.TotalAudience,
		TotalRevenue:  f.TotalRevenue,
		HallID:        f.HallID,
	}
}

// parse validates the request body and converts it to a model.Film.
func (req *filmReq) parse() (model.Film, string) {
	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		return model.Film{}, "title required"
	}
	typ := strings.ToUpper(strings.TrimSpace(req.Type))
	if typ != model.FilmType2D && typ != model.FilmType3D {
		return model.Film{}, "type must be 2D or 3D"
	}
	release, err := time.Parse(dateLayout, req.ReleaseDate)
	if err != nil {
		return model.Film{}, "release_date must be YYYY-MM-DD"
	}
	remove, err := time.Parse(dateLayout, req.RemoveDate)
	if err != nil {
		return model.Film{}, "remove_date must be YYYY-MM-DD"
	}
	if remove.Before(release) {
		return model.Film{}, "remove_date before release_date"
	}
	if req.HallID == 0 {
		return model.Film{}, "hall_id required"
	}
	return model.Film{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Genre:       strings.TrimSpace(req.Genre),
		DurationMin: req.DurationMin,
		Type:        typ,
		ReleaseDate: release,
		RemoveDate:  remove,
		HallID:      req.HallID,
	}, ""
}

// CreateFilm handles POST /v1/films (admin).
func (h *FilmHandler) CreateFilm(c echo.Context) error {
	var req filmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, msg := req.parse()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	ctx := c.Request().Context()
	if _, err := h.Halls.GetByID(ctx, f.HallID); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Films.Create(ctx, &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create film failed"})
	}
	return c.JSON(http.StatusCreated, toFilmResp(f))
}

// GetFilm handles GET /v1/films/:id.
func (h *FilmHandler) GetFilm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	f, err := h.Films.GetByID(c.Request().Context(), id)
	if err != nil {
		if err == repository.ErrFilmNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, toFilmResp(f))
}

// ListFilms handles GET /v1/films.  With ?active=true only films
// screening today are returned.
func (h *FilmHandler) ListFilms(c echo.Context) error {
	ctx := c.Request().Context()
	var (
		films []model.Film
		err   error
	)
	if c.QueryParam("active") == "true" {
		films, err = h.Films.ActiveOn(ctx, time.Now())
	} else {
		films, err = h.Films.List(ctx)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]filmResp, 0, len(films))
	for _, f := range films {
		out = append(out, toFilmResp(f))
	}
	return c.JSON(http.StatusOK, out)
}

// UpdateFilm handles PUT /v1/films/:id (admin).
func (h *FilmHandler) UpdateFilm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	var req filmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	f, msg := req.parse()
	if msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}
	f.ID = id
	ctx := c.Request().Context()
	if _, err := h.Halls.GetByID(ctx, f.HallID); err != nil {
		if err == repository.ErrHallNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "hall not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if err := h.Films.Update(ctx, &f); err != nil {
		if err == repository.ErrFilmNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update film failed"})
	}
	return c.JSON(http.StatusOK, toFilmResp(f))
}

// DeleteFilm handles DELETE /v1/films/:id (admin).  Inventory for a
// deleted film disappears at the next daily rebuild.
func (h *FilmHandler) DeleteFilm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid film id"})
	}
	if err := h.Films.Delete(c.Request().Context(), id); err != nil {
		if err == repository.ErrFilmNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete film failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
