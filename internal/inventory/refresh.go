package inventory

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/cinema-ticketing/internal/model"
)

// HorizonDays is the rolling window of days (including today) for
// which inventories are kept materialized.
const HorizonDays = 3

// Catalog supplies the film and hall data the refresh job needs to
// build a day's inventories.
type Catalog interface {
	FilmsActiveOn(ctx context.Context, day time.Time) ([]model.Film, error)
	Hall(ctx context.Context, id uint64) (model.Hall, error)
}

// RefreshJob rebuilds the rolling seat inventory window once per day.
// The rebuild is staged: the complete new window is generated first
// and only then swapped into the store, so a failure mid-build leaves
// the previous window untouched and bookings never see partial state.
type RefreshJob struct {
	store   *Store
	catalog Catalog
	now     func() time.Time
}

// NewRefreshJob constructs a refresh job over the given store and
// catalog.
func NewRefreshJob(store *Store, catalog Catalog) *RefreshJob {
	return &RefreshJob{store: store, catalog: catalog, now: time.Now}
}

// Rebuild regenerates inventories for the next HorizonDays days.  For
// each day it takes every film whose screening window covers that
// day, loads the film's hall, and creates one inventory per showtime
// slot with a fresh all-unreserved seat layout.  Any catalog or
// layout error aborts the whole run before the store is touched.
func (j *RefreshJob) Rebuild(ctx context.Context) error {
	staged, err := j.build(ctx)
	if err != nil {
		return err
	}
	if err := j.store.ReplaceAll(ctx, staged); err != nil {
		return fmt.Errorf("swap inventories: %w", err)
	}
	return nil
}

func (j *RefreshJob) build(ctx context.Context) ([]*model.ShowtimeInventory, error) {
	today := j.now()
	var staged []*model.ShowtimeInventory
	for offset := 0; offset < HorizonDays; offset++ {
		day := today.AddDate(0, 0, offset)
		films, err := j.catalog.FilmsActiveOn(ctx, day)
		if err != nil {
			return nil, fmt.Errorf("films for %s: %w", day.Format("2006-01-02"), err)
		}
		for _, film := range films {
			hall, err := j.catalog.Hall(ctx, film.HallID)
			if err != nil {
				return nil, fmt.Errorf("hall %d for film %q: %w", film.HallID, film.Title, err)
			}
			for _, showtime := range Slots(day) {
				seats, err := Layout(int(hall.Capacity))
				if err != nil {
					return nil, fmt.Errorf("layout for hall %d: %w", hall.ID, err)
				}
				staged = append(staged, &model.ShowtimeInventory{
					ID:       uuid.NewString(),
					FilmID:   film.ID,
					HallID:   hall.ID,
					Showtime: showtime,
					Seats:    seats,
				})
			}
		}
	}
	return staged, nil
}

// Run executes Rebuild every day at midnight local time until the
// context is cancelled.  Errors are surfaced in the log and the job
// keeps running; a failed run leaves the previous window in place.
func (j *RefreshJob) Run(ctx context.Context) {
	for {
		next := nextMidnight(j.now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Printf("refresh-job: stopped")
			return
		case <-timer.C:
		}
		if err := j.Rebuild(ctx); err != nil {
			log.Printf("refresh-job: rebuild failed: %v", err)
			continue
		}
		log.Printf("refresh-job: rebuilt %d inventories", j.store.Len())
	}
}

func nextMidnight(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
}
