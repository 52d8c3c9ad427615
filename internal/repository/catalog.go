package repository

import (
	"context"
	"time"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// Catalog bundles the film and hall repositories behind the method
// set the booking core consumes (booking.CatalogService and
// inventory.Catalog).  The core depends on these small interfaces;
// this type is what actually gets injected.
type Catalog struct {
	Films *FilmRepo
	Halls *HallRepo
}

// NewCatalog builds the catalog collaborator from its repositories.
func NewCatalog(films *FilmRepo, halls *HallRepo) *Catalog {
	return &Catalog{Films: films, Halls: halls}
}

// Film returns the film with the given id.
func (c *Catalog) Film(ctx context.Context, id uint64) (model.Film, error) {
	return c.Films.GetByID(ctx, id)
}

// Hall returns the hall with the given id.
func (c *Catalog) Hall(ctx context.Context, id uint64) (model.Hall, error) {
	return c.Halls.GetByID(ctx, id)
}

// FilmsActiveOn returns the films screened on the given day.
func (c *Catalog) FilmsActiveOn(ctx context.Context, day time.Time) ([]model.Film, error) {
	return c.Films.ActiveOn(ctx, day)
}

// AddFilmTotals adjusts a film's running sale counters.
func (c *Catalog) AddFilmTotals(ctx context.Context, filmID uint64, audience int, revenue int64) error {
	return c.Films.AddTotals(ctx, filmID, audience, revenue)
}
